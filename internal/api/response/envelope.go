// Package response writes the JSON envelope shared by every endpoint:
// {"data": ..., "error": ..., "meta": {...}}.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Total     *int   `json:"total,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Data  any       `json:"data"`
	Error *apiError `json:"error"`
	Meta  meta      `json:"meta"`
}

// retryHint is the error detail of retryable failures.
type retryHint struct {
	Retryable  bool `json:"retryable"`
	RetryAfter int  `json:"retryAfterSeconds,omitempty"`
}

// newMeta stamps the response. An empty requestID gets a fresh UUID.
func newMeta(requestID string) meta {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return meta{RequestID: requestID, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

func write(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes data with a nil error.
func Success(w http.ResponseWriter, status int, data any, requestID string) {
	write(w, status, envelope{Data: data, Meta: newMeta(requestID)})
}

// SuccessList writes a list and its item count in meta.total.
func SuccessList(w http.ResponseWriter, status int, data any, total int, requestID string) {
	m := newMeta(requestID)
	m.Total = &total
	write(w, status, envelope{Data: data, Meta: m})
}

// Err writes an error with null data.
func Err(w http.ResponseWriter, status int, code, message, requestID string) {
	ErrWithDetails(w, status, code, message, nil, requestID)
}

// ErrWithDetails writes an error carrying details, such as field errors.
func ErrWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	write(w, status, envelope{
		Error: &apiError{Code: code, Message: message, Details: details},
		Meta:  newMeta(requestID),
	})
}

// ErrRetryable writes an error telling the client to retry after retryAfter
// seconds, mirrored in the Retry-After header.
func ErrRetryable(w http.ResponseWriter, status int, code, message string, retryAfter int, requestID string) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	ErrWithDetails(w, status, code, message, retryHint{Retryable: true, RetryAfter: retryAfter}, requestID)
}
