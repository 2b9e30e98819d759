package directory

import (
	"context"
	"errors"
)

// ErrTeamNotFound is returned when a team code does not exist.
var ErrTeamNotFound = errors.New("team not found")

// Repository reads and seeds directory metadata.
type Repository interface {
	ListMembers(ctx context.Context) ([]Member, error)
	ListTeams(ctx context.Context) ([]Team, error)
	UpsertTeam(ctx context.Context, t Team) error
	UpsertMember(ctx context.Context, m Member) error
}
