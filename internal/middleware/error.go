package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// APIError is a typed request-handling failure carrying everything the error
// envelope needs: an HTTP status, a machine code, a client-safe message and
// optional structured details.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrGeneral is the opaque 500 returned whenever a failure cannot be
// classified. The underlying cause is logged, never sent to the client.
var ErrGeneral = &APIError{
	Status:  http.StatusInternalServerError,
	Code:    "INTERNAL_SERVER_ERROR",
	Message: "An unexpected error occurred",
}

// ErrUnauthorized is returned when identity headers are missing or invalid.
var ErrUnauthorized = &APIError{
	Status:  http.StatusUnauthorized,
	Code:    "UNAUTHORIZED",
	Message: "authentication required",
}

// ErrForbidden is returned when the caller lacks the route's permission tuple.
var ErrForbidden = &APIError{
	Status:  http.StatusForbidden,
	Code:    "FORBIDDEN",
	Message: "insufficient permissions",
}

// ErrNotFound is returned when the target entity does not exist.
var ErrNotFound = &APIError{
	Status:  http.StatusNotFound,
	Code:    "NOT_FOUND",
	Message: "resource not found",
}

// errorEnvelope is the uniform failure shape every endpoint emits.
type errorEnvelope struct {
	Success   bool      `json:"success"`
	Error     *APIError `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// RespondError writes the error envelope for a typed API error.
func RespondError(w http.ResponseWriter, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)

	json.NewEncoder(w).Encode(errorEnvelope{
		Success:   false,
		Error:     apiErr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondBusinessRule writes a 400 envelope carrying the data layer's rule
// violation message verbatim.
func RespondBusinessRule(w http.ResponseWriter, message string) {
	RespondError(w, &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BUSINESS_RULE_VIOLATION",
		Message: message,
	})
}

// RespondValidationErrors writes a 422 envelope with the field-level
// violation list.
func RespondValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	RespondError(w, &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Details: errors,
	})
}

// ErrorHandlingMiddleware catches panics and converts them to 500 envelopes
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondError(w, ErrGeneral)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
