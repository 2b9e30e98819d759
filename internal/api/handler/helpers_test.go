package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
	"github.com/abdouthematrix/westcairostars/internal/score"
)

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected error object in envelope")
	return errObj["code"].(string)
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := period.ParseDay(s)
	require.NoError(t, err)
	return d
}

// --- Mock score reader ---

type mockReader struct {
	getFn      func(ctx context.Context, key score.Key) (score.Record, bool, error)
	getBatchFn func(ctx context.Context, day time.Time, teamCode string, memberIDs []string) (map[string]score.Record, error)
}

func (m *mockReader) Get(ctx context.Context, key score.Key) (score.Record, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return score.Record{Key: key, Raw: product.Scores{}, Reviewed: product.Scores{}}, false, nil
}

func (m *mockReader) GetBatch(ctx context.Context, day time.Time, teamCode string, memberIDs []string) (map[string]score.Record, error) {
	if m.getBatchFn != nil {
		return m.getBatchFn(ctx, day, teamCode, memberIDs)
	}
	out := make(map[string]score.Record, len(memberIDs))
	for _, id := range memberIDs {
		out[id] = score.Record{Key: score.Key{Day: day, TeamCode: teamCode, MemberID: id}}
	}
	return out, nil
}

// --- Mock score writer ---

type mockWriter struct {
	saveScoreFn         func(ctx context.Context, key score.Key, p product.ID, value int) error
	saveReviewedScoreFn func(ctx context.Context, key score.Key, p product.ID, value int) error
	setUnavailableFn    func(ctx context.Context, key score.Key, unavailable bool) error
	saveBatchFn         func(ctx context.Context, day time.Time, updates []score.Update) (int, error)
	resetTeamFn         func(ctx context.Context, day time.Time, teamCode string) (int, error)
	resetAllFn          func(ctx context.Context, day time.Time, teamCodes []string) (int, error)
}

func (m *mockWriter) SaveScore(ctx context.Context, key score.Key, p product.ID, value int) error {
	if m.saveScoreFn != nil {
		return m.saveScoreFn(ctx, key, p, value)
	}
	return nil
}

func (m *mockWriter) SaveReviewedScore(ctx context.Context, key score.Key, p product.ID, value int) error {
	if m.saveReviewedScoreFn != nil {
		return m.saveReviewedScoreFn(ctx, key, p, value)
	}
	return nil
}

func (m *mockWriter) SetUnavailable(ctx context.Context, key score.Key, unavailable bool) error {
	if m.setUnavailableFn != nil {
		return m.setUnavailableFn(ctx, key, unavailable)
	}
	return nil
}

func (m *mockWriter) SaveBatch(ctx context.Context, day time.Time, updates []score.Update) (int, error) {
	if m.saveBatchFn != nil {
		return m.saveBatchFn(ctx, day, updates)
	}
	return len(updates), nil
}

func (m *mockWriter) ResetTeam(ctx context.Context, day time.Time, teamCode string) (int, error) {
	if m.resetTeamFn != nil {
		return m.resetTeamFn(ctx, day, teamCode)
	}
	return 0, nil
}

func (m *mockWriter) ResetAll(ctx context.Context, day time.Time, teamCodes []string) (int, error) {
	if m.resetAllFn != nil {
		return m.resetAllFn(ctx, day, teamCodes)
	}
	return 0, nil
}

// --- Mock directory ---

type mockDirectory struct {
	snapshotFn func(ctx context.Context) (*directory.Snapshot, error)
}

func (m *mockDirectory) Snapshot(ctx context.Context) (*directory.Snapshot, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx)
	}
	return sampleSnapshot(), nil
}

func sampleSnapshot() *directory.Snapshot {
	return directory.NewSnapshot(
		[]directory.Member{
			{ID: "m1", Name: "Mona", TeamCode: "T1"},
			{ID: "m2", Name: "Karim", TeamCode: "T1"},
			{ID: "m3", Name: "Hana", TeamCode: "T2"},
			{ID: "a1", Name: "Admin", TeamCode: "ADM"},
		},
		[]directory.Team{
			{Code: "T1", Name: "Pyramids", Leader: "Omar"},
			{Code: "T2", Name: "Nile", Leader: "Salma"},
			{Code: "ADM", Name: "Head Office", IsAdmin: true},
		},
	)
}
