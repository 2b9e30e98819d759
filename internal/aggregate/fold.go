package aggregate

import (
	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/period"
)

type daySets struct {
	present     map[string]struct{}
	active      map[string]struct{}
	unavailable map[string]struct{}
}

func newDaySets() *daySets {
	return &daySets{
		present:     make(map[string]struct{}),
		active:      make(map[string]struct{}),
		unavailable: make(map[string]struct{}),
	}
}

// Fold merges partition results into per-member totals. The output does not
// depend on the order of results.
//
// Every record of a roster member counts, whichever team's partition it was
// read from; the member keeps the roster's team. Records of members outside
// the roster are ignored. Unavailable records add to the unavailable day
// count and nothing else. Failed and empty results contribute nothing.
func Fold(rng period.Range, roster directory.Roster, results []PartitionResult) map[string]*Member {
	rangeDays := rng.Len()
	members := make(map[string]*Member)
	days := make(map[string]*daySets)
	for team, ids := range roster {
		for _, id := range ids {
			members[id] = newMember(id, team, rangeDays)
			days[id] = newDaySets()
		}
	}

	for _, res := range results {
		if res.Status != StatusOK {
			continue
		}
		for _, rec := range res.Records {
			m, ok := members[rec.MemberID]
			if !ok {
				continue
			}
			d := days[rec.MemberID]
			day := period.FormatDay(rec.Day)

			if rec.Unavailable {
				d.unavailable[day] = struct{}{}
				continue
			}

			m.TotalRaw.Add(rec.Raw)
			m.TotalReviewed.Add(rec.Reviewed)
			d.present[day] = struct{}{}
			if rec.Active() {
				d.active[day] = struct{}{}
			}
		}
	}

	for id, m := range members {
		d := days[id]
		m.TotalDays = len(d.present)
		m.ActiveDays = len(d.active)
		m.UnavailableDays = len(d.unavailable)
	}
	return members
}
