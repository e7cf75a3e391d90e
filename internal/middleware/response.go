package middleware

import (
	"encoding/json"
	"net/http"

	"marketplace/internal/domain"

	"go.uber.org/zap"
)

// Response is the uniform JSON envelope every route returns. Data is
// present iff the request succeeded; Error and ErrorKind iff it failed.
// ErrorKind is the stable machine-readable classification; Error stays a
// short human-readable string.
type Response struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Data      any              `json:"data,omitempty"`
	Error     string           `json:"error,omitempty"`
	ErrorKind domain.ErrorKind `json:"errorKind,omitempty"`
}

// RespondSuccess writes a 200 envelope with the given message and data.
// Pass an empty map rather than nil when an operation has no payload; the
// data property must still appear.
func RespondSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError converts a failure into the envelope, deriving the status
// and kind from the error chain.
func RespondError(w http.ResponseWriter, message string, err error) {
	writeJSON(w, domain.StatusOf(err), Response{
		Success:   false,
		Message:   message,
		Error:     err.Error(),
		ErrorKind: domain.KindOf(err),
	})
}

// RespondErrorStatus writes a failure envelope with an explicit status,
// for plumbing-level failures (rate limits, unmatched routes) that carry
// no domain error.
func RespondErrorStatus(w http.ResponseWriter, status int, message, errText string) {
	writeJSON(w, status, Response{
		Success:   false,
		Message:   message,
		Error:     errText,
		ErrorKind: domain.KindValidation,
	})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Recovery catches panics and converts them to a 500 envelope so that not
// even a programming error escapes a handler unconverted.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					RespondErrorStatus(w, http.StatusInternalServerError,
						"Something went wrong", "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
