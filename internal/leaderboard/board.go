package leaderboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
)

// ErrUnknownBoard is returned when a board name is not recognised.
var ErrUnknownBoard = errors.New("unknown board")

// Board names one of the four leaderboards.
type Board string

const (
	BoardAchievers  Board = "achievers"
	BoardTeams      Board = "teams"
	BoardLeaders    Board = "leaders"
	BoardZeroScores Board = "zero-scores"
)

// ParseBoard validates a board name.
func ParseBoard(s string) (Board, error) {
	switch b := Board(s); b {
	case BoardAchievers, BoardTeams, BoardLeaders, BoardZeroScores:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBoard, s)
	}
}

// Achiever is one row of the top achievers board.
type Achiever struct {
	MemberID string
	Name     string
	ImageRef string
	TeamCode string
	TeamName string
	Scores   product.Scores
	Total    int
	Products int
	Reviewed bool
}

// TeamStanding is one row of the top teams board.
type TeamStanding struct {
	TeamCode string
	TeamName string
	Leader   string
	Total    int
	Members  int
}

// LeaderStanding is one row of the top leaders board.
type LeaderStanding struct {
	Leader   string
	TeamCode string
	TeamName string
	Total    int
}

// MemberStatus is a member entry in the zero-score report.
type MemberStatus struct {
	MemberID        string
	Name            string
	Total           int
	UnavailableDays int
}

// ZeroScoreTeam groups one team's members by score status.
type ZeroScoreTeam struct {
	TeamCode    string
	TeamName    string
	Leader      string
	Total       int
	ZeroScore   []MemberStatus
	Unavailable []MemberStatus
	Active      []MemberStatus
}

// Boards is the full leaderboard for one range.
type Boards struct {
	Range       period.Range
	GeneratedAt time.Time
	Achievers   []Achiever
	Teams       []TeamStanding
	Leaders     []LeaderStanding
	ZeroScores  []ZeroScoreTeam
}

// Select returns the rows of a single board.
func (b *Boards) Select(board Board) (any, error) {
	switch board {
	case BoardAchievers:
		return b.Achievers, nil
	case BoardTeams:
		return b.Teams, nil
	case BoardLeaders:
		return b.Leaders, nil
	case BoardZeroScores:
		return b.ZeroScores, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBoard, string(board))
	}
}
