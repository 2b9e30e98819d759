// Package leaderboard ranks aggregated members into the achiever, team,
// leader and zero-score boards.
package leaderboard

import (
	"github.com/abdouthematrix/westcairostars/internal/aggregate"
	"github.com/abdouthematrix/westcairostars/internal/directory"
)

// countedMembers returns the directory members of teamCode that were not
// unavailable for the whole range. A member missing from members is counted
// with nothing recorded.
func countedMembers(teamCode string, members map[string]*aggregate.Member, snap *directory.Snapshot) []directory.Member {
	var out []directory.Member
	for _, dm := range snap.TeamMembers(teamCode) {
		if m, ok := members[dm.ID]; ok && m.FullyUnavailable() {
			continue
		}
		out = append(out, dm)
	}
	return out
}

// IsTeamEligible reports whether teamCode qualifies for the team and leader
// boards: it must be a known non-admin team with at least one counted member,
// and every counted member must have a positive effective total.
func IsTeamEligible(teamCode string, members map[string]*aggregate.Member, snap *directory.Snapshot) bool {
	t, ok := snap.Teams[teamCode]
	if !ok || t.IsAdmin {
		return false
	}

	counted := countedMembers(teamCode, members, snap)
	if len(counted) == 0 {
		return false
	}
	for _, dm := range counted {
		if aggregate.EffectiveTotal(members[dm.ID]) <= 0 {
			return false
		}
	}
	return true
}

// TeamTotal sums the effective totals of the team's counted members.
func TeamTotal(teamCode string, members map[string]*aggregate.Member, snap *directory.Snapshot) int {
	total := 0
	for _, dm := range countedMembers(teamCode, members, snap) {
		total += aggregate.EffectiveTotal(members[dm.ID])
	}
	return total
}
