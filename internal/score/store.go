package score

import (
	"context"
	"errors"
	"time"
)

// ErrRecordNotFound is returned by Store.GetRecord when no record exists for the key.
var ErrRecordNotFound = errors.New("score record not found")

// ErrEmptyPatch is returned when a write carries no changes.
var ErrEmptyPatch = errors.New("patch has no changes")

// Store is the partitioned document store score records live in.
type Store interface {
	// GetPartition returns every record for the (day, team) partition. A
	// partition that does not exist yields an empty slice and no error.
	GetPartition(ctx context.Context, day time.Time, teamCode string) ([]Record, error)
	// GetRecord returns ErrRecordNotFound when the member has no record.
	GetRecord(ctx context.Context, key Key) (Record, error)
	// WriteRecord merges patch over the stored record, creating it if needed.
	WriteRecord(ctx context.Context, key Key, patch Patch) error
}
