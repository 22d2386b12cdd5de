package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every non-2xx response. Message is a string,
// or a list of field messages for validation failures.
type ErrorResponse struct {
	StatusCode int         `json:"statusCode"`
	Timestamp  string      `json:"timestamp"`
	Message    interface{} `json:"message"`
}

// validationError lists every field that failed validation.
type validationError []string

func (v validationError) Error() string {
	return strings.Join(v, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("community", func(fl validator.FieldLevel) bool {
		return models.Community(fl.Field().String()).Valid()
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "required_without":
		return field + " is required when " + strings.ToLower(fe.Param()) + " is not given"
	case "email":
		return field + " must be an email"
	case "min":
		return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "community":
		return fmt.Sprintf("%s must be one of the following values: %s", field, joinCommunities())
	default:
		return fmt.Sprintf("%s failed the %s check", field, fe.Tag())
	}
}

func joinCommunities() string {
	names := make([]string, len(models.Communities))
	for i, c := range models.Communities {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// decodeAndValidate decodes a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("Request body is required")
		}
		return apperr.Invalid("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperr.Internal(err, "failed to validate request")
		}
		messages := make(validationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, fieldMessage(fe))
		}
		return messages
	}
	return nil
}

// parseID reads a positive integer URL parameter.
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(fmt.Sprintf("Validation failed (numeric string is expected): %s", param))
	}
	return id, nil
}

// parseQueryID reads an optional positive integer query parameter. Absent
// parameters yield 0.
func parseQueryID(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(fmt.Sprintf("%s must be a positive integer", key))
	}
	return id, nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// RespondError writes the error envelope for err. Internal failures are
// logged and reported to the client without detail.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		message interface{}
	)

	var fields validationError
	var appErr *apperr.Error
	switch {
	case errors.As(err, &fields):
		status, message = http.StatusBadRequest, []string(fields)
	case errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal:
		status, message = appErr.Kind.HTTPStatus(), appErr.Message
		if appErr.Err != nil {
			log.Warn().Err(appErr.Err).
				Str("request_id", middleware.GetReqID(r.Context())).
				Int("status", status).
				Msg(appErr.Message)
		}
	default:
		status, message = http.StatusInternalServerError, "Internal server error"
		log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}

	respondJSON(w, status, ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Message:    message,
	})
}
