// Package aggregate folds per-day score partitions into per-member totals.
package aggregate

import "github.com/abdouthematrix/westcairostars/internal/product"

// Member is the aggregate of one member's records over a range. It is built
// fresh for every aggregation and never persisted.
type Member struct {
	MemberID      string
	TeamCode      string
	TotalRaw      product.Scores
	TotalReviewed product.Scores

	// ActiveDays counts distinct available days with any score above zero.
	ActiveDays int
	// TotalDays counts distinct available days with a record.
	TotalDays int
	// UnavailableDays counts distinct days the member was marked unavailable.
	UnavailableDays int
	// RangeDays is the length of the aggregated range.
	RangeDays int
}

func newMember(memberID, teamCode string, rangeDays int) *Member {
	return &Member{
		MemberID:      memberID,
		TeamCode:      teamCode,
		TotalRaw:      product.Zero(),
		TotalReviewed: product.Zero(),
		RangeDays:     rangeDays,
	}
}

// FullyUnavailable reports whether the member was unavailable on every day of
// the range. Such members are left out of team eligibility entirely.
func (m *Member) FullyUnavailable() bool {
	return m.RangeDays > 0 && m.UnavailableDays >= m.RangeDays
}

// Reviewed reports whether any reviewed product total is above zero.
func (m *Member) Reviewed() bool {
	return m.TotalReviewed.AnyPositive()
}

// EffectiveScores returns the scores used for ranking: the reviewed totals
// when any reviewed total is positive, the raw totals otherwise. The choice is
// made once for the whole range. Products missing from the chosen map are zero.
func EffectiveScores(m *Member) product.Scores {
	out := product.Zero()
	if m == nil {
		return out
	}
	if m.Reviewed() {
		out.Add(m.TotalReviewed)
		return out
	}
	out.Add(m.TotalRaw)
	return out
}

// EffectiveTotal is the sum of EffectiveScores.
func EffectiveTotal(m *Member) int {
	return EffectiveScores(m).Total()
}
