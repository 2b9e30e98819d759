package handler

import (
	"time"

	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
	"github.com/abdouthematrix/westcairostars/internal/score"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// scoresResponse renders every product, in product order, with zero for
// missing values.
func scoresResponse(s product.Scores) map[string]int {
	out := make(map[string]int, len(product.All()))
	for _, p := range product.All() {
		out[string(p)] = s[p]
	}
	return out
}

type rangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

func toRangeResponse(r period.Range) rangeResponse {
	return rangeResponse{Start: period.FormatDay(r.Start), End: period.FormatDay(r.End), Days: r.Len()}
}

type recordResponse struct {
	Day            string         `json:"day"`
	TeamCode       string         `json:"teamCode"`
	MemberID       string         `json:"memberId"`
	RawScores      map[string]int `json:"rawScores"`
	ReviewedScores map[string]int `json:"reviewedScores"`
	Unavailable    bool           `json:"unavailable"`
	LastUpdated    *string        `json:"lastUpdated"`
	ReviewedAt     *string        `json:"reviewedAt"`
	ResetAt        *string        `json:"resetAt"`
}

func toRecordResponse(r score.Record) recordResponse {
	resp := recordResponse{
		Day:            period.FormatDay(r.Day),
		TeamCode:       r.TeamCode,
		MemberID:       r.MemberID,
		RawScores:      scoresResponse(r.Raw),
		ReviewedScores: scoresResponse(r.Reviewed),
		Unavailable:    r.Unavailable,
		ReviewedAt:     formatTimePtr(r.ReviewedAt),
		ResetAt:        formatTimePtr(r.ResetAt),
	}
	if !r.LastUpdated.IsZero() {
		resp.LastUpdated = formatTimePtr(&r.LastUpdated)
	}
	return resp
}

type achieverResponse struct {
	Rank     int            `json:"rank"`
	MemberID string         `json:"memberId"`
	Name     string         `json:"name"`
	ImageRef string         `json:"imageRef,omitempty"`
	TeamCode string         `json:"teamCode"`
	TeamName string         `json:"teamName"`
	Scores   map[string]int `json:"scores"`
	Total    int            `json:"total"`
	Products int            `json:"products"`
	Reviewed bool           `json:"reviewed"`
}

type teamStandingResponse struct {
	Rank     int    `json:"rank"`
	TeamCode string `json:"teamCode"`
	TeamName string `json:"teamName"`
	Leader   string `json:"leader,omitempty"`
	Total    int    `json:"total"`
	Members  int    `json:"members"`
}

type leaderStandingResponse struct {
	Rank     int    `json:"rank"`
	Leader   string `json:"leader"`
	TeamCode string `json:"teamCode"`
	TeamName string `json:"teamName"`
	Total    int    `json:"total"`
}

type memberStatusResponse struct {
	MemberID        string `json:"memberId"`
	Name            string `json:"name"`
	Total           int    `json:"total"`
	UnavailableDays int    `json:"unavailableDays,omitempty"`
}

type zeroScoreTeamResponse struct {
	TeamCode    string                 `json:"teamCode"`
	TeamName    string                 `json:"teamName"`
	Leader      string                 `json:"leader,omitempty"`
	Total       int                    `json:"total"`
	ZeroScore   []memberStatusResponse `json:"zeroScore"`
	Unavailable []memberStatusResponse `json:"unavailable"`
	Active      []memberStatusResponse `json:"active"`
}

type boardsResponse struct {
	Range       rangeResponse            `json:"range"`
	GeneratedAt string                   `json:"generatedAt"`
	Achievers   []achieverResponse       `json:"achievers"`
	Teams       []teamStandingResponse   `json:"teams"`
	Leaders     []leaderStandingResponse `json:"leaders"`
	ZeroScores  []zeroScoreTeamResponse  `json:"zeroScores"`
}

type boardResponse struct {
	Board string        `json:"board"`
	Range rangeResponse `json:"range"`
	Rows  any           `json:"rows"`
}

func toAchieverResponses(rows []leaderboard.Achiever) []achieverResponse {
	out := make([]achieverResponse, 0, len(rows))
	for i, a := range rows {
		out = append(out, achieverResponse{
			Rank:     i + 1,
			MemberID: a.MemberID,
			Name:     a.Name,
			ImageRef: a.ImageRef,
			TeamCode: a.TeamCode,
			TeamName: a.TeamName,
			Scores:   scoresResponse(a.Scores),
			Total:    a.Total,
			Products: a.Products,
			Reviewed: a.Reviewed,
		})
	}
	return out
}

func toTeamResponses(rows []leaderboard.TeamStanding) []teamStandingResponse {
	out := make([]teamStandingResponse, 0, len(rows))
	for i, t := range rows {
		out = append(out, teamStandingResponse{
			Rank:     i + 1,
			TeamCode: t.TeamCode,
			TeamName: t.TeamName,
			Leader:   t.Leader,
			Total:    t.Total,
			Members:  t.Members,
		})
	}
	return out
}

func toLeaderResponses(rows []leaderboard.LeaderStanding) []leaderStandingResponse {
	out := make([]leaderStandingResponse, 0, len(rows))
	for i, l := range rows {
		out = append(out, leaderStandingResponse{
			Rank:     i + 1,
			Leader:   l.Leader,
			TeamCode: l.TeamCode,
			TeamName: l.TeamName,
			Total:    l.Total,
		})
	}
	return out
}

func toMemberStatusResponses(rows []leaderboard.MemberStatus) []memberStatusResponse {
	out := make([]memberStatusResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, memberStatusResponse{
			MemberID:        m.MemberID,
			Name:            m.Name,
			Total:           m.Total,
			UnavailableDays: m.UnavailableDays,
		})
	}
	return out
}

func toZeroScoreResponses(rows []leaderboard.ZeroScoreTeam) []zeroScoreTeamResponse {
	out := make([]zeroScoreTeamResponse, 0, len(rows))
	for _, z := range rows {
		out = append(out, zeroScoreTeamResponse{
			TeamCode:    z.TeamCode,
			TeamName:    z.TeamName,
			Leader:      z.Leader,
			Total:       z.Total,
			ZeroScore:   toMemberStatusResponses(z.ZeroScore),
			Unavailable: toMemberStatusResponses(z.Unavailable),
			Active:      toMemberStatusResponses(z.Active),
		})
	}
	return out
}

func toBoardsResponse(b *leaderboard.Boards) boardsResponse {
	return boardsResponse{
		Range:       toRangeResponse(b.Range),
		GeneratedAt: formatTime(b.GeneratedAt),
		Achievers:   toAchieverResponses(b.Achievers),
		Teams:       toTeamResponses(b.Teams),
		Leaders:     toLeaderResponses(b.Leaders),
		ZeroScores:  toZeroScoreResponses(b.ZeroScores),
	}
}

// toBoardRows renders a single board.
func toBoardRows(b *leaderboard.Boards, board leaderboard.Board) (any, error) {
	switch board {
	case leaderboard.BoardAchievers:
		return toAchieverResponses(b.Achievers), nil
	case leaderboard.BoardTeams:
		return toTeamResponses(b.Teams), nil
	case leaderboard.BoardLeaders:
		return toLeaderResponses(b.Leaders), nil
	default:
		rows, err := b.Select(board)
		if err != nil {
			return nil, err
		}
		return toZeroScoreResponses(rows.([]leaderboard.ZeroScoreTeam)), nil
	}
}
