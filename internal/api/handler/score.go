package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abdouthematrix/westcairostars/internal/api/middleware"
	"github.com/abdouthematrix/westcairostars/internal/api/response"
	"github.com/abdouthematrix/westcairostars/internal/api/validation"
	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
	"github.com/abdouthematrix/westcairostars/internal/score"
)

// ScoreReader reads score records. *score.Cache satisfies it.
type ScoreReader interface {
	Get(ctx context.Context, key score.Key) (score.Record, bool, error)
	GetBatch(ctx context.Context, day time.Time, teamCode string, memberIDs []string) (map[string]score.Record, error)
}

// ScoreWriter mutates score records. *score.Writer satisfies it.
type ScoreWriter interface {
	SaveScore(ctx context.Context, key score.Key, p product.ID, value int) error
	SaveReviewedScore(ctx context.Context, key score.Key, p product.ID, value int) error
	SetUnavailable(ctx context.Context, key score.Key, unavailable bool) error
	SaveBatch(ctx context.Context, day time.Time, updates []score.Update) (int, error)
	ResetTeam(ctx context.Context, day time.Time, teamCode string) (int, error)
	ResetAll(ctx context.Context, day time.Time, teamCodes []string) (int, error)
}

// DirectorySource provides directory snapshots. *directory.Cache satisfies it.
type DirectorySource interface {
	Snapshot(ctx context.Context) (*directory.Snapshot, error)
}

// ScoreHandler serves score reads and writes.
type ScoreHandler struct {
	reader    ScoreReader
	writer    ScoreWriter
	directory DirectorySource
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(reader ScoreReader, writer ScoreWriter, dir DirectorySource) *ScoreHandler {
	return &ScoreHandler{reader: reader, writer: writer, directory: dir}
}

type writeResultResponse struct {
	Day     string `json:"day"`
	Team    string `json:"team,omitempty"`
	Applied int    `json:"applied"`
}

func parseDay(w http.ResponseWriter, r *http.Request, requestID string) (time.Time, bool) {
	day, err := period.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_DAY", "day must be a date in YYYY-MM-DD format", requestID)
		return time.Time{}, false
	}
	return day, true
}

// snapshot loads the directory, writing a 503 on failure.
func (h *ScoreHandler) snapshot(w http.ResponseWriter, r *http.Request, requestID string) (*directory.Snapshot, bool) {
	snap, err := h.directory.Snapshot(r.Context())
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", leaderboard.ErrDirectoryUnavailable, err), "Failed to load directory", requestID)
		return nil, false
	}
	return snap, true
}

// memberKey builds the record key from the URL and checks that the member
// belongs to the team.
func (h *ScoreHandler) memberKey(w http.ResponseWriter, r *http.Request, requestID string) (score.Key, bool) {
	day, ok := parseDay(w, r, requestID)
	if !ok {
		return score.Key{}, false
	}
	team := chi.URLParam(r, "team")
	member := chi.URLParam(r, "member")

	snap, ok := h.snapshot(w, r, requestID)
	if !ok {
		return score.Key{}, false
	}
	if m, found := snap.Members[member]; !found || m.TeamCode != team {
		response.Err(w, http.StatusNotFound, "MEMBER_NOT_FOUND", fmt.Sprintf("Member %q is not in team %q", member, team), requestID)
		return score.Key{}, false
	}

	return score.Key{Day: day, TeamCode: team, MemberID: member}, true
}

// GetPartition handles GET /scores/{day}/{team}. Every current member of the
// team gets a record, in directory order; members without one get an empty
// record.
func (h *ScoreHandler) GetPartition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	day, ok := parseDay(w, r, requestID)
	if !ok {
		return
	}
	team := chi.URLParam(r, "team")

	snap, ok := h.snapshot(w, r, requestID)
	if !ok {
		return
	}
	if t, found := snap.Teams[team]; !found || t.IsAdmin {
		response.Err(w, http.StatusNotFound, "TEAM_NOT_FOUND", fmt.Sprintf("Team %q not found", team), requestID)
		return
	}

	members := snap.TeamMembers(team)
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	recs, err := h.reader.GetBatch(r.Context(), day, team, ids)
	if err != nil {
		writeError(w, err, "Failed to read scores", requestID)
		return
	}

	items := make([]recordResponse, 0, len(ids))
	for _, id := range ids {
		items = append(items, toRecordResponse(recs[id]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetRecord handles GET /scores/{day}/{team}/{member}. A member without a
// record gets an empty one.
func (h *ScoreHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	key, ok := h.memberKey(w, r, requestID)
	if !ok {
		return
	}

	rec, _, err := h.reader.Get(r.Context(), key)
	if err != nil {
		writeError(w, err, "Failed to read score", requestID)
		return
	}

	response.Success(w, http.StatusOK, toRecordResponse(rec), requestID)
}

// SaveScore handles PUT /scores/{day}/{team}/{member}.
func (h *ScoreHandler) SaveScore(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, false)
}

// SaveReview handles PUT /scores/{day}/{team}/{member}/review.
func (h *ScoreHandler) SaveReview(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, true)
}

func (h *ScoreHandler) save(w http.ResponseWriter, r *http.Request, reviewed bool) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.SaveScoreRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}
	key, ok := h.memberKey(w, r, requestID)
	if !ok {
		return
	}

	save := h.writer.SaveScore
	if reviewed {
		save = h.writer.SaveReviewedScore
	}
	if err := save(r.Context(), key, product.ID(req.Product), *req.Score); err != nil {
		writeError(w, err, "Failed to save score", requestID)
		return
	}

	h.respondRecord(w, r, key, requestID)
}

// SetAvailability handles PUT /scores/{day}/{team}/{member}/availability.
func (h *ScoreHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.AvailabilityRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}
	key, ok := h.memberKey(w, r, requestID)
	if !ok {
		return
	}

	if err := h.writer.SetUnavailable(r.Context(), key, *req.Unavailable); err != nil {
		writeError(w, err, "Failed to update availability", requestID)
		return
	}

	h.respondRecord(w, r, key, requestID)
}

// respondRecord re-reads the record after a write. The write invalidated
// the cache, so the read reflects it.
func (h *ScoreHandler) respondRecord(w http.ResponseWriter, r *http.Request, key score.Key, requestID string) {
	rec, _, err := h.reader.Get(r.Context(), key)
	if err != nil {
		writeError(w, err, "Failed to read saved score", requestID)
		return
	}
	response.Success(w, http.StatusOK, toRecordResponse(rec), requestID)
}

// SaveBatch handles POST /scores/{day}/batch.
func (h *ScoreHandler) SaveBatch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	day, ok := parseDay(w, r, requestID)
	if !ok {
		return
	}
	var req validation.BatchRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}
	snap, ok := h.snapshot(w, r, requestID)
	if !ok {
		return
	}

	var fieldErrors []validation.FieldError
	updates := make([]score.Update, 0, len(req.Updates))
	for i, u := range req.Updates {
		if m, found := snap.Members[u.MemberID]; !found || m.TeamCode != u.TeamCode {
			fieldErrors = append(fieldErrors, validation.FieldError{
				Field:   fmt.Sprintf("updates[%d].memberId", i),
				Message: fmt.Sprintf("member %q is not in team %q", u.MemberID, u.TeamCode),
			})
			continue
		}
		updates = append(updates, score.Update{
			MemberID: u.MemberID,
			TeamCode: u.TeamCode,
			Product:  product.ID(u.Product),
			Score:    *u.Score,
			Reviewed: u.Reviewed,
		})
	}
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	applied, err := h.writer.SaveBatch(r.Context(), day, updates)
	if err != nil {
		writeError(w, fmt.Errorf("batch stopped after %d of %d updates: %w", applied, len(updates), err), "Failed to save batch", requestID)
		return
	}

	response.Success(w, http.StatusOK, writeResultResponse{Day: period.FormatDay(day), Applied: applied}, requestID)
}

// ResetTeam handles POST /scores/{day}/{team}/reset.
func (h *ScoreHandler) ResetTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	day, ok := parseDay(w, r, requestID)
	if !ok {
		return
	}
	team := chi.URLParam(r, "team")

	snap, ok := h.snapshot(w, r, requestID)
	if !ok {
		return
	}
	if t, found := snap.Teams[team]; !found || t.IsAdmin {
		response.Err(w, http.StatusNotFound, "TEAM_NOT_FOUND", fmt.Sprintf("Team %q not found", team), requestID)
		return
	}

	n, err := h.writer.ResetTeam(r.Context(), day, team)
	if err != nil {
		writeError(w, err, "Failed to reset team scores", requestID)
		return
	}

	response.Success(w, http.StatusOK, writeResultResponse{Day: period.FormatDay(day), Team: team, Applied: n}, requestID)
}

// ResetAll handles POST /scores/{day}/reset.
func (h *ScoreHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	day, ok := parseDay(w, r, requestID)
	if !ok {
		return
	}
	snap, ok := h.snapshot(w, r, requestID)
	if !ok {
		return
	}

	teams := snap.RankedTeams()
	codes := make([]string, 0, len(teams))
	for _, t := range teams {
		codes = append(codes, t.Code)
	}

	n, err := h.writer.ResetAll(r.Context(), day, codes)
	if err != nil {
		writeError(w, err, "Failed to reset scores", requestID)
		return
	}

	response.Success(w, http.StatusOK, writeResultResponse{Day: period.FormatDay(day), Applied: n}, requestID)
}
