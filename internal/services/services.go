// Package services holds the business rules of the forum: credential checks,
// ownership enforcement and comment threading. Services speak apperr kinds;
// storage sentinels never leak past this package.
package services

import (
	"errors"
	"time"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor for stored passwords.
var hashCost = bcrypt.DefaultCost

func utcNow() time.Time {
	return time.Now().UTC()
}

// lookupErr maps a store lookup failure to NotFound with msg, or Internal.
func lookupErr(err error, msg, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal(err, op)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", apperr.Internal(err, "failed to hash password")
	}
	return string(hashed), nil
}
