package auth

import (
	"context"
	"errors"
)

// ErrTeamNotFound is returned when a key is issued for a team that does not exist.
var ErrTeamNotFound = errors.New("team not found")

// KeyRepository stores and looks up team API keys.
type KeyRepository interface {
	FindByPrefix(ctx context.Context, prefix string) ([]TeamKey, error)
	SetKey(ctx context.Context, teamCode, prefix, hash string) error
}
