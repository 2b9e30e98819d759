package auth

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process KeyRepository for tests and local
// tooling.
type MemoryRepository struct {
	mu    sync.Mutex
	teams map[string]TeamKey
}

// NewMemoryRepository creates a repository holding the given teams.
func NewMemoryRepository(teams ...TeamKey) *MemoryRepository {
	r := &MemoryRepository{teams: make(map[string]TeamKey, len(teams))}
	for _, t := range teams {
		r.teams[t.TeamCode] = t
	}
	return r
}

// FindByPrefix returns every team whose key has the given prefix, ordered by
// team code.
func (r *MemoryRepository) FindByPrefix(_ context.Context, prefix string) ([]TeamKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []TeamKey
	for _, t := range r.teams {
		if t.ApiKeyPrefix == prefix {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamCode < out[j].TeamCode })
	return out, nil
}

// SetKey replaces the team's key material.
func (r *MemoryRepository) SetKey(_ context.Context, teamCode, prefix, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[teamCode]
	if !ok {
		return ErrTeamNotFound
	}
	t.ApiKeyPrefix = prefix
	t.ApiKeyHash = hash
	r.teams[teamCode] = t
	return nil
}
