package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abdouthematrix/westcairostars/internal/api/middleware"
	"github.com/abdouthematrix/westcairostars/internal/api/response"
	"github.com/abdouthematrix/westcairostars/internal/api/validation"
	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
)

// LeaderboardBuilder builds the boards for a range.
type LeaderboardBuilder interface {
	Build(ctx context.Context, rng period.Range) (*leaderboard.Boards, error)
}

// LeaderboardHandler serves the leaderboard endpoints.
type LeaderboardHandler struct {
	boards  LeaderboardBuilder
	periods *period.Resolver
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(boards LeaderboardBuilder, periods *period.Resolver) *LeaderboardHandler {
	return &LeaderboardHandler{boards: boards, periods: periods}
}

// resolveRange reads period, start and end from the query string. It writes
// the error response and returns false on failure.
func (h *LeaderboardHandler) resolveRange(w http.ResponseWriter, r *http.Request, requestID string) (period.Range, bool) {
	q := validation.LeaderboardQuery{
		Period: r.URL.Query().Get("period"),
		Start:  r.URL.Query().Get("start"),
		End:    r.URL.Query().Get("end"),
	}
	if fieldErrors := validation.Struct(q); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return period.Range{}, false
	}

	rng, err := h.periods.Resolve(period.Preset(q.Period), q.Start, q.End)
	if err != nil {
		writeError(w, err, "Failed to resolve period", requestID)
		return period.Range{}, false
	}
	return rng, true
}

// List handles GET /leaderboards.
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rng, ok := h.resolveRange(w, r, requestID)
	if !ok {
		return
	}

	boards, err := h.boards.Build(r.Context(), rng)
	if err != nil {
		writeError(w, err, "Failed to build leaderboards", requestID)
		return
	}

	response.Success(w, http.StatusOK, toBoardsResponse(boards), requestID)
}

// Get handles GET /leaderboards/{board}.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	board, err := leaderboard.ParseBoard(chi.URLParam(r, "board"))
	if err != nil {
		writeError(w, err, "Unknown board", requestID)
		return
	}

	rng, ok := h.resolveRange(w, r, requestID)
	if !ok {
		return
	}

	boards, err := h.boards.Build(r.Context(), rng)
	if err != nil {
		writeError(w, err, "Failed to build leaderboard", requestID)
		return
	}

	rows, err := toBoardRows(boards, board)
	if err != nil {
		writeError(w, err, "Failed to render leaderboard", requestID)
		return
	}

	response.Success(w, http.StatusOK, boardResponse{
		Board: string(board),
		Range: toRangeResponse(boards.Range),
		Rows:  rows,
	}, requestID)
}
