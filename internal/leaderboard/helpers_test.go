package leaderboard_test

import (
	"time"

	"github.com/abdouthematrix/westcairostars/internal/aggregate"
	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
	"github.com/abdouthematrix/westcairostars/internal/score"
)

var (
	day1 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
)

func rawRecord(day time.Time, team, member string, raw product.Scores) score.Record {
	return score.Record{Key: score.Key{Day: day, TeamCode: team, MemberID: member}, Raw: raw}
}

// aggregateRecords folds records for a one-day range over the snapshot roster.
func aggregateRecords(snap *directory.Snapshot, recs ...score.Record) map[string]*aggregate.Member {
	return aggregateRange(snap, period.Single(day1), recs...)
}

// aggregateRange folds records grouped into (day, team) partitions.
func aggregateRange(snap *directory.Snapshot, rng period.Range, recs ...score.Record) map[string]*aggregate.Member {
	type partition struct {
		day  string
		team string
	}
	byPartition := make(map[partition][]score.Record)
	for _, r := range recs {
		k := partition{day: period.FormatDay(r.Day), team: r.TeamCode}
		byPartition[k] = append(byPartition[k], r)
	}
	var results []aggregate.PartitionResult
	for _, rs := range byPartition {
		results = append(results, aggregate.PartitionResult{Day: rs[0].Day, TeamCode: rs[0].TeamCode, Status: aggregate.StatusOK, Records: rs})
	}
	return aggregate.Fold(rng, snap.Roster(), results)
}

// scenarioSnapshot has T1 with members A and B, T2 with member C, and an
// admin team.
func scenarioSnapshot() *directory.Snapshot {
	return directory.NewSnapshot(
		[]directory.Member{
			{ID: "A", Name: "Ahmed", TeamCode: "T1"},
			{ID: "B", Name: "Basma", TeamCode: "T1"},
			{ID: "C", Name: "Chady", TeamCode: "T2"},
			{ID: "X", Name: "Boss", TeamCode: "ADM"},
		},
		[]directory.Team{
			{Code: "T1", Name: "Heliopolis", Leader: "Mona"},
			{Code: "T2", Name: "Maadi", Leader: "Karim"},
			{Code: "ADM", Name: "Admins", Leader: "Chief", IsAdmin: true},
		},
	)
}

// partialSnapshot has T1 with member U only and T2 with members V and Z.
func partialSnapshot() *directory.Snapshot {
	return directory.NewSnapshot(
		[]directory.Member{
			{ID: "U", Name: "Uma", TeamCode: "T1"},
			{ID: "V", Name: "Vera", TeamCode: "T2"},
			{ID: "Z", Name: "Zein", TeamCode: "T2"},
		},
		[]directory.Team{
			{Code: "T1", Name: "Uptown", Leader: "Lina"},
			{Code: "T2", Name: "Zamalek", Leader: "Omar"},
		},
	)
}

func unavailableRecord(day time.Time, team, member string, raw product.Scores) score.Record {
	r := rawRecord(day, team, member, raw)
	r.Unavailable = true
	return r
}
