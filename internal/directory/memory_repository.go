package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Repository used by tests and local runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	members map[string]Member
	teams   map[string]Team
}

// NewMemoryRepository creates a repository holding the given teams and members.
func NewMemoryRepository(teams []Team, members []Member) *MemoryRepository {
	r := &MemoryRepository{
		members: make(map[string]Member),
		teams:   make(map[string]Team),
	}
	for _, t := range teams {
		r.teams[t.Code] = t
	}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

func (r *MemoryRepository) ListMembers(_ context.Context) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) ListTeams(_ context.Context) ([]Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *MemoryRepository) UpsertTeam(_ context.Context, t Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[t.Code] = t
	return nil
}

func (r *MemoryRepository) UpsertMember(_ context.Context, m Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[m.TeamCode]; !ok {
		return fmt.Errorf("member %s: %w: %s", m.ID, ErrTeamNotFound, m.TeamCode)
	}
	r.members[m.ID] = m
	return nil
}
