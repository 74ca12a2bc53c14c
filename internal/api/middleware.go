package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dekadapp/dekad/internal/store"
	"github.com/dekadapp/dekad/internal/validation"
)

// extractBearerToken extracts the token from Authorization header.
// Returns empty string for missing/malformed headers.
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Must start with "Bearer " (case-sensitive per RFC 6750)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	token := strings.TrimSpace(auth[len(prefix):])
	return token
}

// constantTimeEqual compares two strings using constant-time comparison
// to prevent timing attacks.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// AuthMiddleware validates Bearer token using constant-time comparison.
// Returns 401 RFC 7807 Problem Details on auth failure.
// MUST NOT include expected API key in logs or responses.
func AuthMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if !constantTimeEqual(token, apiKey) {
				slog.Warn("auth failure",
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
					"remote_ip", r.RemoteAddr,
				)
				WriteProblem(w, r, http.StatusUnauthorized, "Missing or invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetRequestID returns the chi request ID from ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

// logLevelForStatus maps a response status to a log level:
// 5xx is an error, 4xx a warning, anything else info.
func logLevelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// LoggingMiddleware logs one structured line per completed request.
// Headers are never logged.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		slog.Log(r.Context(), logLevelForStatus(wrapped.statusCode), "request completed",
			"request_id", GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecoveryMiddleware catches panics and returns 500 Problem Details.
// Panic details are logged but never exposed to the client.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered",
					"error", recovered,
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"method", r.Method,
				)
				WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// TodayMiddleware attaches the reference day used for status and progress.
// It is taken from the "today" query parameter (YYYY-MM-DD) when present,
// otherwise from the handler clock.
func (h *Handler) TodayMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		today := h.now()
		if v := r.URL.Query().Get("today"); v != "" {
			parsed, err := time.Parse(time.DateOnly, v)
			if err != nil {
				WriteProblem(w, r, http.StatusBadRequest, "today must be a date in YYYY-MM-DD format")
				return
			}
			today = parsed
		}
		next.ServeHTTP(w, r.WithContext(WithToday(r.Context(), today)))
	})
}

// PeriodMiddleware resolves {year}/{number} to a stored period and attaches
// it to the request context.
func (h *Handler) PeriodMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		year, ok := intParam(w, r, "year", validation.ValidateYear)
		if !ok {
			return
		}
		number, ok := intParam(w, r, "number", validation.ValidatePeriodNumber)
		if !ok {
			return
		}

		p, err := h.store.GetPeriod(r.Context(), year, number)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("Period %d of %d not found", number, year))
				return
			}
			slog.Error("period lookup failed",
				"component", "api",
				"request_id", GetRequestID(r.Context()),
				"year", year,
				"period", number,
				"error", err,
			)
			MapStoreError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPeriod(r.Context(), p)))
	})
}

// intParam parses an integer URL parameter and validates its range.
// It writes the problem response and returns false on failure.
func intParam(w http.ResponseWriter, r *http.Request, name string, check func(string, int) *validation.ValidationError) (int, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("%s must be an integer, got %q", name, raw))
		return 0, false
	}
	if verr := check(name, v); verr != nil {
		WriteProblemWithErrors(w, r, "Invalid path parameter", []validation.ValidationError{*verr})
		return 0, false
	}
	return v, true
}
