package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/board-be/internal/api/handlers"
	"github.com/isdelr/board-be/internal/apperr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// zerologFormatter writes chi access log entries through zerolog.
type zerologFormatter struct{}

type zerologEntry struct {
	logger zerolog.Logger
}

func (zerologFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	logger := log.With().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Logger()
	return &zerologEntry{logger: logger}
}

func (e *zerologEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	event := e.logger.Info()
	switch {
	case status >= 500:
		event = e.logger.Error()
	case status >= 400:
		event = e.logger.Warn()
	}
	event.Int("status", status).Int("bytes", bytes).Dur("elapsed", elapsed).Msg("Request handled")
}

func (e *zerologEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error().Interface("panic", v).Bytes("stack", stack).Msg("Request panicked")
}

// requestLogger is chi's request logger backed by the global zerolog logger.
func requestLogger() func(http.Handler) http.Handler {
	return middleware.RequestLogger(zerologFormatter{})
}

// recoverer turns a handler panic into a 500 error envelope. The panic and
// stack go to the request's log entry.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rvr)
			}
			if entry := middleware.GetLogEntry(r); entry != nil {
				entry.Panic(rvr, debug.Stack())
			} else {
				log.Error().Interface("panic", rvr).Bytes("stack", debug.Stack()).Msg("Request panicked")
			}
			// Hijacked websocket connections have no response to write.
			if r.Header.Get("Connection") == "Upgrade" {
				return
			}
			handlers.RespondError(w, r, apperr.Internal(fmt.Errorf("panic: %v", rvr), "handler panicked"))
		}()
		next.ServeHTTP(w, r)
	})
}
