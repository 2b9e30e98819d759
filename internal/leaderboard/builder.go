package leaderboard

import (
	"sort"

	"github.com/abdouthematrix/westcairostars/internal/aggregate"
	"github.com/abdouthematrix/westcairostars/internal/directory"
)

// DefaultLimit is the number of rows kept on each ranked board.
const DefaultLimit = 10

// minAchieverProducts is the number of distinct non-zero products an
// individual needs to appear among the top achievers.
const minAchieverProducts = 2

// Builder produces the four boards from one aggregation. Admin teams and
// their members never appear.
type Builder struct {
	limit int
}

// NewBuilder creates a Builder keeping at most limit rows per ranked board.
// A non-positive limit keeps every row.
func NewBuilder(limit int) *Builder {
	return &Builder{limit: limit}
}

// TopAchievers ranks members with at least two non-zero effective products by
// effective total, then product count.
func (b *Builder) TopAchievers(members map[string]*aggregate.Member, snap *directory.Snapshot) []Achiever {
	rows := []Achiever{}
	for id, m := range members {
		dm, ok := snap.Members[id]
		if !ok {
			continue
		}
		t, ok := snap.Teams[m.TeamCode]
		if !ok || t.IsAdmin {
			continue
		}

		eff := aggregate.EffectiveScores(m)
		if eff.NonZeroCount() < minAchieverProducts {
			continue
		}
		rows = append(rows, Achiever{
			MemberID: id,
			Name:     displayName(dm),
			ImageRef: dm.ImageRef,
			TeamCode: t.Code,
			TeamName: t.DisplayName(),
			Scores:   eff,
			Total:    eff.Total(),
			Products: eff.NonZeroCount(),
			Reviewed: m.Reviewed(),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, c := rows[i], rows[j]
		if a.Total != c.Total {
			return a.Total > c.Total
		}
		if a.Products != c.Products {
			return a.Products > c.Products
		}
		if a.Name != c.Name {
			return a.Name < c.Name
		}
		return a.MemberID < c.MemberID
	})
	return truncate(rows, b.limit)
}

// TopTeams ranks eligible teams by the summed effective total of their
// counted members.
func (b *Builder) TopTeams(members map[string]*aggregate.Member, snap *directory.Snapshot) []TeamStanding {
	rows := []TeamStanding{}
	for _, t := range snap.RankedTeams() {
		if !IsTeamEligible(t.Code, members, snap) {
			continue
		}
		rows = append(rows, TeamStanding{
			TeamCode: t.Code,
			TeamName: t.DisplayName(),
			Leader:   t.Leader,
			Total:    TeamTotal(t.Code, members, snap),
			Members:  len(countedMembers(t.Code, members, snap)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].TeamName < rows[j].TeamName
	})
	return truncate(rows, b.limit)
}

// TopLeaders ranks the leaders of eligible teams. Teams without a leader are
// left out.
func (b *Builder) TopLeaders(members map[string]*aggregate.Member, snap *directory.Snapshot) []LeaderStanding {
	rows := []LeaderStanding{}
	for _, t := range snap.RankedTeams() {
		if t.Leader == "" || !IsTeamEligible(t.Code, members, snap) {
			continue
		}
		rows = append(rows, LeaderStanding{
			Leader:   t.Leader,
			TeamCode: t.Code,
			TeamName: t.DisplayName(),
			Total:    TeamTotal(t.Code, members, snap),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Leader < rows[j].Leader
	})
	return truncate(rows, b.limit)
}

// ZeroScoreReport lists every non-admin team with at least one available
// member whose effective total is zero. Members with any unavailable day are
// reported as unavailable. The report is not truncated.
func (b *Builder) ZeroScoreReport(members map[string]*aggregate.Member, snap *directory.Snapshot) []ZeroScoreTeam {
	rows := []ZeroScoreTeam{}
	for _, t := range snap.RankedTeams() {
		row := ZeroScoreTeam{
			TeamCode:    t.Code,
			TeamName:    t.DisplayName(),
			Leader:      t.Leader,
			Total:       TeamTotal(t.Code, members, snap),
			ZeroScore:   []MemberStatus{},
			Unavailable: []MemberStatus{},
			Active:      []MemberStatus{},
		}
		for _, dm := range snap.TeamMembers(t.Code) {
			m := members[dm.ID]
			st := MemberStatus{MemberID: dm.ID, Name: displayName(dm), Total: aggregate.EffectiveTotal(m)}
			if m != nil {
				st.UnavailableDays = m.UnavailableDays
			}
			switch {
			case st.UnavailableDays > 0:
				row.Unavailable = append(row.Unavailable, st)
			case st.Total == 0:
				row.ZeroScore = append(row.ZeroScore, st)
			default:
				row.Active = append(row.Active, st)
			}
		}
		if len(row.ZeroScore) > 0 {
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].TeamName < rows[j].TeamName
	})
	return rows
}

// Build produces all four boards.
func (b *Builder) Build(members map[string]*aggregate.Member, snap *directory.Snapshot) *Boards {
	return &Boards{
		Achievers:  b.TopAchievers(members, snap),
		Teams:      b.TopTeams(members, snap),
		Leaders:    b.TopLeaders(members, snap),
		ZeroScores: b.ZeroScoreReport(members, snap),
	}
}

func displayName(m directory.Member) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
