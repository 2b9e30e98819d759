package leaderboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdouthematrix/westcairostars/internal/aggregate"
	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
	"github.com/abdouthematrix/westcairostars/internal/score"
)

func TestBuild_EndToEndScenario(t *testing.T) {
	snap := scenarioSnapshot()
	members := aggregateRecords(snap,
		rawRecord(day1, "T1", "A", product.Scores{product.SecuredLoan: 10}),
		rawRecord(day1, "T1", "B", product.Scores{}),
		rawRecord(day1, "T2", "C", product.Scores{product.Bancassurance: 5}),
	)

	boards := leaderboard.NewBuilder(leaderboard.DefaultLimit).Build(members, snap)

	require.Len(t, boards.Teams, 1)
	assert.Equal(t, "T2", boards.Teams[0].TeamCode)
	assert.Equal(t, 5, boards.Teams[0].Total)

	require.Len(t, boards.Leaders, 1)
	assert.Equal(t, "Karim", boards.Leaders[0].Leader)
	assert.Equal(t, "T2", boards.Leaders[0].TeamCode)

	require.Len(t, boards.ZeroScores, 1)
	zs := boards.ZeroScores[0]
	assert.Equal(t, "T1", zs.TeamCode)
	require.Len(t, zs.ZeroScore, 1)
	assert.Equal(t, "B", zs.ZeroScore[0].MemberID)
	require.Len(t, zs.Active, 1)
	assert.Equal(t, "A", zs.Active[0].MemberID)
	assert.Empty(t, zs.Unavailable)

	assert.Empty(t, boards.Achievers)
}

func TestIsTeamEligible_Monotonicity(t *testing.T) {
	snap := directory.NewSnapshot(
		[]directory.Member{{ID: "A", TeamCode: "T1"}},
		[]directory.Team{{Code: "T1"}},
	)
	recs := []score.Record{rawRecord(day1, "T1", "A", product.Scores{product.SecuredLoan: 1})}
	assert.True(t, leaderboard.IsTeamEligible("T1", aggregateRecords(snap, recs...), snap))

	// Adding an available member with nothing recorded makes the team ineligible.
	withZero := directory.NewSnapshot(
		[]directory.Member{{ID: "A", TeamCode: "T1"}, {ID: "Z", TeamCode: "T1"}},
		[]directory.Team{{Code: "T1"}},
	)
	assert.False(t, leaderboard.IsTeamEligible("T1", aggregateRecords(withZero, recs...), withZero))

	// Marking that member unavailable for the whole range restores eligibility.
	unavailable := rawRecord(day1, "T1", "Z", product.Scores{product.SecuredLoan: 99})
	unavailable.Unavailable = true
	assert.True(t, leaderboard.IsTeamEligible("T1", aggregateRecords(withZero, append(recs, unavailable)...), withZero))
}

func TestIsTeamEligible_EdgeCases(t *testing.T) {
	snap := scenarioSnapshot()

	t.Run("no counted members", func(t *testing.T) {
		s := directory.NewSnapshot(nil, []directory.Team{{Code: "T9"}})
		assert.False(t, leaderboard.IsTeamEligible("T9", map[string]*aggregate.Member{}, s))
	})

	t.Run("every member fully unavailable", func(t *testing.T) {
		r := rawRecord(day1, "T2", "C", product.Scores{product.Bancassurance: 5})
		r.Unavailable = true
		assert.False(t, leaderboard.IsTeamEligible("T2", aggregateRecords(snap, r), snap))
	})

	t.Run("admin team", func(t *testing.T) {
		members := map[string]*aggregate.Member{"X": {MemberID: "X", TeamCode: "ADM", TotalRaw: product.Scores{product.SecuredLoan: 5}}}
		assert.False(t, leaderboard.IsTeamEligible("ADM", members, snap))
	})

	t.Run("unknown team", func(t *testing.T) {
		assert.False(t, leaderboard.IsTeamEligible("NOPE", nil, snap))
	})

	t.Run("reviewed totals replace raw", func(t *testing.T) {
		members := map[string]*aggregate.Member{
			"C": {
				MemberID:      "C",
				TeamCode:      "T2",
				TotalRaw:      product.Scores{product.Bancassurance: 5},
				TotalReviewed: product.Scores{product.SecuredLoan: 1},
				RangeDays:     1,
			},
		}
		assert.True(t, leaderboard.IsTeamEligible("T2", members, snap))
		assert.Equal(t, 1, leaderboard.TeamTotal("T2", members, snap))
	})
}

func TestTopAchievers_RankingAndThreshold(t *testing.T) {
	snap := directory.NewSnapshot(
		[]directory.Member{
			{ID: "a", Name: "Amr", TeamCode: "T1"},
			{ID: "b", Name: "Badr", TeamCode: "T1"},
			{ID: "c", Name: "Cyrine", TeamCode: "T2"},
			{ID: "d", Name: "Dina", TeamCode: "T2"},
			{ID: "x", Name: "Boss", TeamCode: "ADM"},
		},
		[]directory.Team{{Code: "T1", Name: "One"}, {Code: "T2", Name: "Two"}, {Code: "ADM", IsAdmin: true}},
	)
	members := aggregateRecords(snap,
		rawRecord(day1, "T1", "a", product.Scores{product.SecuredLoan: 3, product.Bancassurance: 3}),
		rawRecord(day1, "T1", "b", product.Scores{product.SecuredLoan: 2, product.Bancassurance: 2, product.UnsecuredLoan: 2}),
		rawRecord(day1, "T2", "c", product.Scores{product.SecuredLoan: 50}),
		rawRecord(day1, "T2", "d", product.Scores{product.SecuredLoan: 1, product.UnsecuredCreditCard: 1}),
		rawRecord(day1, "ADM", "x", product.Scores{product.SecuredLoan: 90, product.Bancassurance: 90}),
	)

	rows := leaderboard.NewBuilder(10).TopAchievers(members, snap)

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MemberID)
	}
	// b ties a on total but has more products; c has one product only.
	assert.Equal(t, []string{"b", "a", "d"}, ids)
	assert.Equal(t, 6, rows[0].Total)
	assert.Equal(t, 3, rows[0].Products)
	assert.Equal(t, "One", rows[0].TeamName)
}

func TestTopAchievers_UsesReviewedScores(t *testing.T) {
	snap := directory.NewSnapshot(
		[]directory.Member{{ID: "a", Name: "Amr", TeamCode: "T1"}},
		[]directory.Team{{Code: "T1"}},
	)
	members := map[string]*aggregate.Member{
		"a": {
			MemberID:      "a",
			TeamCode:      "T1",
			TotalRaw:      product.Scores{product.SecuredLoan: 10, product.Bancassurance: 10},
			TotalReviewed: product.Scores{product.SecuredLoan: 4},
		},
	}

	assert.Empty(t, leaderboard.NewBuilder(10).TopAchievers(members, snap))
}

func TestBuilder_Limit(t *testing.T) {
	var dms []directory.Member
	var teams []directory.Team
	var recs []score.Record
	for i := 0; i < 15; i++ {
		code := fmt.Sprintf("T%02d", i)
		id := fmt.Sprintf("m%02d", i)
		teams = append(teams, directory.Team{Code: code, Name: code, Leader: "L" + code})
		dms = append(dms, directory.Member{ID: id, Name: id, TeamCode: code})
		recs = append(recs, rawRecord(day1, code, id, product.Scores{product.SecuredLoan: i + 1, product.Bancassurance: 1}))
	}
	snap := directory.NewSnapshot(dms, teams)
	members := aggregateRecords(snap, recs...)

	boards := leaderboard.NewBuilder(10).Build(members, snap)
	assert.Len(t, boards.Achievers, 10)
	assert.Len(t, boards.Teams, 10)
	assert.Len(t, boards.Leaders, 10)
	assert.Equal(t, "T14", boards.Teams[0].TeamCode)
	assert.Equal(t, 16, boards.Teams[0].Total)

	all := leaderboard.NewBuilder(0).Build(members, snap)
	assert.Len(t, all.Teams, 15)
}

func TestZeroScoreReport_Buckets(t *testing.T) {
	snap := directory.NewSnapshot(
		[]directory.Member{
			{ID: "a", Name: "Active", TeamCode: "T1"},
			{ID: "z", Name: "Zero", TeamCode: "T1"},
			{ID: "u", Name: "Away", TeamCode: "T1"},
			{ID: "p", Name: "Pat", TeamCode: "T2"},
			{ID: "q", Name: "Quiet", TeamCode: "T2"},
		},
		[]directory.Team{{Code: "T1", Name: "One"}, {Code: "T2", Name: "Two"}},
	)
	away := rawRecord(day1, "T1", "u", product.Scores{product.SecuredLoan: 9})
	away.Unavailable = true
	members := aggregateRecords(snap,
		rawRecord(day1, "T1", "a", product.Scores{product.SecuredLoan: 2}),
		away,
		rawRecord(day1, "T2", "p", product.Scores{product.SecuredLoan: 7}),
	)

	rows := leaderboard.NewBuilder(10).ZeroScoreReport(members, snap)

	require.Len(t, rows, 2)
	assert.Equal(t, "T2", rows[0].TeamCode)
	assert.Equal(t, 7, rows[0].Total)
	assert.Equal(t, "T1", rows[1].TeamCode)

	one := rows[1]
	require.Len(t, one.Unavailable, 1)
	assert.Equal(t, "u", one.Unavailable[0].MemberID)
	assert.Equal(t, 1, one.Unavailable[0].UnavailableDays)
	require.Len(t, one.ZeroScore, 1)
	assert.Equal(t, "z", one.ZeroScore[0].MemberID)
	require.Len(t, one.Active, 1)
	assert.Equal(t, 2, one.Total)
}

func TestBuild_PartialUnavailabilityZeroOnRemainingDay(t *testing.T) {
	snap := partialSnapshot()
	rng, err := period.NewRange(day1, day2)
	require.NoError(t, err)

	members := aggregateRange(snap, rng,
		unavailableRecord(day1, "T1", "U", product.Scores{product.SecuredLoan: 99}),
		rawRecord(day2, "T1", "U", product.Scores{}),
		unavailableRecord(day1, "T2", "V", product.Scores{product.SecuredLoan: 50}),
		rawRecord(day2, "T2", "V", product.Scores{product.Bancassurance: 4}),
	)

	u := members["U"]
	require.NotNil(t, u)
	assert.Equal(t, 1, u.UnavailableDays)
	assert.Equal(t, 1, u.TotalDays)
	assert.False(t, u.FullyUnavailable())
	assert.Zero(t, aggregate.EffectiveTotal(u), "score from the unavailable day is ignored")
	assert.False(t, leaderboard.IsTeamEligible("T1", members, snap), "partially unavailable member still counts")

	boards := leaderboard.NewBuilder(leaderboard.DefaultLimit).Build(members, snap)
	assert.Empty(t, boards.Teams)
	assert.Empty(t, boards.Leaders)

	require.Len(t, boards.ZeroScores, 1, "T1 has no available zero-score member")
	zs := boards.ZeroScores[0]
	assert.Equal(t, "T2", zs.TeamCode)
	assert.Equal(t, 4, zs.Total)
	require.Len(t, zs.ZeroScore, 1)
	assert.Equal(t, "Z", zs.ZeroScore[0].MemberID)
	require.Len(t, zs.Unavailable, 1)
	assert.Equal(t, "V", zs.Unavailable[0].MemberID)
	assert.Equal(t, 1, zs.Unavailable[0].UnavailableDays)
	assert.Equal(t, 4, zs.Unavailable[0].Total)
	assert.Empty(t, zs.Active)
}

func TestBuild_PartialUnavailabilityScoreOnRemainingDay(t *testing.T) {
	snap := partialSnapshot()
	rng, err := period.NewRange(day1, day2)
	require.NoError(t, err)

	members := aggregateRange(snap, rng,
		unavailableRecord(day1, "T1", "U", product.Scores{product.SecuredLoan: 99}),
		rawRecord(day2, "T1", "U", product.Scores{product.SecuredLoan: 1}),
		unavailableRecord(day1, "T2", "V", product.Scores{product.SecuredLoan: 50}),
		rawRecord(day2, "T2", "V", product.Scores{product.Bancassurance: 4}),
	)

	assert.Equal(t, 1, members["U"].UnavailableDays)
	assert.Equal(t, 1, members["U"].ActiveDays)
	assert.True(t, leaderboard.IsTeamEligible("T1", members, snap))

	boards := leaderboard.NewBuilder(leaderboard.DefaultLimit).Build(members, snap)

	require.Len(t, boards.Teams, 1)
	assert.Equal(t, "T1", boards.Teams[0].TeamCode)
	assert.Equal(t, 1, boards.Teams[0].Total)
	assert.Equal(t, 1, boards.Teams[0].Members)

	require.Len(t, boards.Leaders, 1)
	assert.Equal(t, "Lina", boards.Leaders[0].Leader)
	assert.Equal(t, 1, boards.Leaders[0].Total)

	require.Len(t, boards.ZeroScores, 1)
	assert.Equal(t, "T2", boards.ZeroScores[0].TeamCode)
	assert.Equal(t, "Z", boards.ZeroScores[0].ZeroScore[0].MemberID)
}

func TestParseBoard(t *testing.T) {
	b, err := leaderboard.ParseBoard("zero-scores")
	require.NoError(t, err)
	assert.Equal(t, leaderboard.BoardZeroScores, b)

	_, err = leaderboard.ParseBoard("losers")
	assert.ErrorIs(t, err, leaderboard.ErrUnknownBoard)
}

func TestBoards_Select(t *testing.T) {
	boards := &leaderboard.Boards{Teams: []leaderboard.TeamStanding{{TeamCode: "T1"}}}

	rows, err := boards.Select(leaderboard.BoardTeams)
	require.NoError(t, err)
	assert.Equal(t, boards.Teams, rows)

	_, err = boards.Select("nope")
	assert.ErrorIs(t, err, leaderboard.ErrUnknownBoard)
}
