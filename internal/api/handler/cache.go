package handler

import (
	"net/http"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/api/middleware"
	"github.com/abdouthematrix/westcairostars/internal/api/response"
	"github.com/abdouthematrix/westcairostars/internal/api/validation"
	"github.com/abdouthematrix/westcairostars/internal/period"
)

// ScoreInvalidator drops cached score entries. *score.Cache satisfies it.
type ScoreInvalidator interface {
	Invalidate(day *time.Time, teamCode string) int
}

// DirectoryInvalidator drops the cached directory. *directory.Cache satisfies it.
type DirectoryInvalidator interface {
	Invalidate()
}

// CacheHandler serves POST /cache/invalidate.
type CacheHandler struct {
	scores    ScoreInvalidator
	directory DirectoryInvalidator
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(scores ScoreInvalidator, dir DirectoryInvalidator) *CacheHandler {
	return &CacheHandler{scores: scores, directory: dir}
}

type invalidateResponse struct {
	Evicted   int  `json:"evicted"`
	Directory bool `json:"directory"`
}

// Invalidate drops score entries matching the optional day and team, and the
// directory snapshot when asked. An empty body clears every score entry.
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.InvalidateRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	var day *time.Time
	if req.Day != "" {
		d, err := period.ParseDay(req.Day)
		if err != nil {
			writeError(w, err, "Invalid day", requestID)
			return
		}
		day = &d
	}

	evicted := h.scores.Invalidate(day, req.Team)
	if req.Directory {
		h.directory.Invalidate()
	}

	response.Success(w, http.StatusOK, invalidateResponse{Evicted: evicted, Directory: req.Directory}, requestID)
}
