package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdouthematrix/westcairostars/internal/api/handler"
	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
)

type mockBoards struct {
	buildFn func(ctx context.Context, rng period.Range) (*leaderboard.Boards, error)
}

func (m *mockBoards) Build(ctx context.Context, rng period.Range) (*leaderboard.Boards, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx, rng)
	}
	return sampleBoards(rng), nil
}

func sampleBoards(rng period.Range) *leaderboard.Boards {
	return &leaderboard.Boards{
		Range:       rng,
		GeneratedAt: time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC),
		Achievers: []leaderboard.Achiever{
			{MemberID: "m1", Name: "Mona", TeamCode: "T1", TeamName: "Pyramids", Scores: product.Scores{product.SecuredLoan: 3, product.Bancassurance: 2}, Total: 5, Products: 2},
		},
		Teams: []leaderboard.TeamStanding{
			{TeamCode: "T1", TeamName: "Pyramids", Leader: "Omar", Total: 5, Members: 2},
		},
		Leaders: []leaderboard.LeaderStanding{
			{Leader: "Omar", TeamCode: "T1", TeamName: "Pyramids", Total: 5},
		},
		ZeroScores: []leaderboard.ZeroScoreTeam{
			{
				TeamCode:  "T1",
				TeamName:  "Pyramids",
				Total:     5,
				ZeroScore: []leaderboard.MemberStatus{{MemberID: "m2", Name: "Karim"}},
				Active:    []leaderboard.MemberStatus{{MemberID: "m1", Name: "Mona", Total: 5}},
			},
		},
	}
}

// fixedResolver resolves presets against Wednesday 2024-05-15, Cairo time.
func fixedResolver(t *testing.T) *period.Resolver {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)
	return period.NewResolver(loc).WithClock(func() time.Time {
		return time.Date(2024, 5, 15, 12, 0, 0, 0, loc)
	})
}

func TestLeaderboardList_DefaultsToToday(t *testing.T) {
	t.Parallel()

	var got period.Range
	boards := &mockBoards{
		buildFn: func(_ context.Context, rng period.Range) (*leaderboard.Boards, error) {
			got = rng
			return sampleBoards(rng), nil
		},
	}
	h := handler.NewLeaderboardHandler(boards, fixedResolver(t))

	req, w := makeChiRequest(http.MethodGet, "/leaderboards", nil, nil)
	h.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-05-15", period.FormatDay(got.Start))
	assert.Equal(t, 1, got.Len())

	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	rng := data["range"].(map[string]interface{})
	assert.Equal(t, "2024-05-15", rng["start"])
	assert.Equal(t, float64(1), rng["days"])
	assert.Equal(t, "2024-05-15T10:00:00Z", data["generatedAt"])

	achievers := data["achievers"].([]interface{})
	require.Len(t, achievers, 1)
	first := achievers[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, float64(5), first["total"])
	assert.Len(t, data["zeroScores"].([]interface{}), 1)
}

func TestLeaderboardList_Presets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		start string
		end   string
	}{
		{"period=yesterday", "2024-05-14", "2024-05-14"},
		{"period=week", "2024-05-12", "2024-05-18"},
		{"period=month", "2024-05-01", "2024-05-31"},
		{"period=range&start=2024-04-01&end=2024-04-10", "2024-04-01", "2024-04-10"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			var got period.Range
			boards := &mockBoards{
				buildFn: func(_ context.Context, rng period.Range) (*leaderboard.Boards, error) {
					got = rng
					return sampleBoards(rng), nil
				},
			}
			h := handler.NewLeaderboardHandler(boards, fixedResolver(t))

			req, w := makeChiRequest(http.MethodGet, "/leaderboards?"+tt.query, nil, nil)
			h.List(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.start, period.FormatDay(got.Start))
			assert.Equal(t, tt.end, period.FormatDay(got.End))
		})
	}
}

func TestLeaderboardList_BadQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		code  string
	}{
		{"period=decade", "VALIDATION_ERROR"},
		{"period=range&start=2024-04-01", "VALIDATION_ERROR"},
		{"period=range&start=04/01/2024&end=2024-04-10", "VALIDATION_ERROR"},
		{"period=range&start=2024-04-10&end=2024-04-01", "INVALID_RANGE"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			boards := &mockBoards{
				buildFn: func(context.Context, period.Range) (*leaderboard.Boards, error) {
					t.Fatal("builder must not be called")
					return nil, nil
				},
			}
			h := handler.NewLeaderboardHandler(boards, fixedResolver(t))

			req, w := makeChiRequest(http.MethodGet, "/leaderboards?"+tt.query, nil, nil)
			h.List(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, errorCode(t, parseEnvelope(t, w)))
		})
	}
}

func TestLeaderboardList_BuilderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"directory", fmt.Errorf("%w: %w", leaderboard.ErrDirectoryUnavailable, errors.New("timeout")), http.StatusServiceUnavailable, "DIRECTORY_UNAVAILABLE"},
		{"range too long", fmt.Errorf("%w: 120 days", period.ErrRangeTooLong), http.StatusBadRequest, "INVALID_RANGE"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			boards := &mockBoards{
				buildFn: func(context.Context, period.Range) (*leaderboard.Boards, error) {
					return nil, tt.err
				},
			}
			h := handler.NewLeaderboardHandler(boards, fixedResolver(t))

			req, w := makeChiRequest(http.MethodGet, "/leaderboards", nil, nil)
			h.List(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, parseEnvelope(t, w)))
		})
	}
}

func TestLeaderboardGet_SingleBoard(t *testing.T) {
	t.Parallel()

	h := handler.NewLeaderboardHandler(&mockBoards{}, fixedResolver(t))

	for _, board := range []string{"achievers", "teams", "leaders", "zero-scores"} {
		req, w := makeChiRequest(http.MethodGet, "/leaderboards/"+board, nil, map[string]string{"board": board})
		h.Get(w, req)

		require.Equal(t, http.StatusOK, w.Code, board)
		data := parseEnvelope(t, w)["data"].(map[string]interface{})
		assert.Equal(t, board, data["board"])
		assert.Len(t, data["rows"].([]interface{}), 1, board)
	}
}

func TestLeaderboardGet_TeamsRowShape(t *testing.T) {
	t.Parallel()

	h := handler.NewLeaderboardHandler(&mockBoards{}, fixedResolver(t))

	req, w := makeChiRequest(http.MethodGet, "/leaderboards/teams", nil, map[string]string{"board": "teams"})
	h.Get(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	rows := parseEnvelope(t, w)["data"].(map[string]interface{})["rows"].([]interface{})
	row := rows[0].(map[string]interface{})
	assert.Equal(t, float64(1), row["rank"])
	assert.Equal(t, "Pyramids", row["teamName"])
	assert.Equal(t, "Omar", row["leader"])
	assert.Equal(t, float64(2), row["members"])
}

func TestLeaderboardGet_UnknownBoard(t *testing.T) {
	t.Parallel()

	h := handler.NewLeaderboardHandler(&mockBoards{}, fixedResolver(t))

	req, w := makeChiRequest(http.MethodGet, "/leaderboards/losers", nil, map[string]string{"board": "losers"})
	h.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_BOARD", errorCode(t, parseEnvelope(t, w)))
}
