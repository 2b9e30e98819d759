package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/abdouthematrix/westcairostars/internal/api/response"
	"github.com/abdouthematrix/westcairostars/internal/api/validation"
	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
	"github.com/abdouthematrix/westcairostars/internal/score"
)

// directoryRetryAfter is the Retry-After hint sent when the directory
// cannot be loaded.
const directoryRetryAfter = 5

const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst and validates it. It writes
// the error response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	if fieldErrors := validation.Struct(dst); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error, fallback string, requestID string) {
	switch {
	case errors.Is(err, leaderboard.ErrDirectoryUnavailable):
		response.ErrRetryable(w, http.StatusServiceUnavailable, "DIRECTORY_UNAVAILABLE", "Member directory is unavailable, please retry", directoryRetryAfter, requestID)
	case errors.Is(err, leaderboard.ErrUnknownBoard):
		response.Err(w, http.StatusNotFound, "UNKNOWN_BOARD", err.Error(), requestID)
	case errors.Is(err, period.ErrInvalidDay),
		errors.Is(err, period.ErrInvertedRange),
		errors.Is(err, period.ErrRangeTooLong),
		errors.Is(err, period.ErrUnknownPreset):
		response.Err(w, http.StatusBadRequest, "INVALID_RANGE", err.Error(), requestID)
	case errors.Is(err, score.ErrInvalidScore),
		errors.Is(err, product.ErrUnknownProduct),
		errors.Is(err, product.ErrNegativeScore):
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), requestID)
	case errors.Is(err, score.ErrRecordNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Score record not found", requestID)
	case errors.Is(err, score.ErrWriteFailed):
		slog.Error(fallback, "error", err, "requestId", requestID)
		response.Err(w, http.StatusBadGateway, "STORE_WRITE_FAILED", "Score store rejected the write, please retry", requestID)
	default:
		slog.Error(fallback, "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, requestID)
	}
}
