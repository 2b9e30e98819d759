package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSeed is returned when a seed document fails validation.
var ErrInvalidSeed = errors.New("invalid directory seed")

// Seed is the YAML document used to bulk load the directory.
//
//	teams:
//	  - code: T1
//	    name: Heliopolis
//	    leader: Mona
//	    members:
//	      - id: m1
//	        name: Ahmed
type Seed struct {
	Teams []SeedTeam `yaml:"teams"`
}

// SeedTeam is one team and its members in a seed document.
type SeedTeam struct {
	Code    string       `yaml:"code"`
	Name    string       `yaml:"name"`
	Leader  string       `yaml:"leader"`
	Admin   bool         `yaml:"admin"`
	Members []SeedMember `yaml:"members"`
}

// SeedMember is one member in a seed document.
type SeedMember struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSeed)
		}
		return nil, fmt.Errorf("decoding seed: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that codes and IDs are present and unique.
func (s *Seed) Validate() error {
	teams := make(map[string]bool)
	members := make(map[string]bool)
	for i, t := range s.Teams {
		if t.Code == "" {
			return fmt.Errorf("%w: team %d has no code", ErrInvalidSeed, i)
		}
		if teams[t.Code] {
			return fmt.Errorf("%w: duplicate team code %q", ErrInvalidSeed, t.Code)
		}
		teams[t.Code] = true
		for j, m := range t.Members {
			if m.ID == "" {
				return fmt.Errorf("%w: member %d of team %q has no id", ErrInvalidSeed, j, t.Code)
			}
			if members[m.ID] {
				return fmt.Errorf("%w: duplicate member id %q", ErrInvalidSeed, m.ID)
			}
			members[m.ID] = true
		}
	}
	return nil
}

// Flatten returns the seed as directory teams and members.
func (s *Seed) Flatten() ([]Team, []Member) {
	var teams []Team
	var members []Member
	for _, t := range s.Teams {
		name := t.Name
		if name == "" {
			name = t.Code
		}
		teams = append(teams, Team{Code: t.Code, Name: name, Leader: t.Leader, IsAdmin: t.Admin})
		for _, m := range t.Members {
			members = append(members, Member{ID: m.ID, Name: m.Name, TeamCode: t.Code, ImageRef: m.Image})
		}
	}
	return teams, members
}

// Apply upserts every team, then every member. It stops at the first error.
func (s *Seed) Apply(ctx context.Context, repo Repository) (teams, members int, err error) {
	ts, ms := s.Flatten()
	for _, t := range ts {
		if err := repo.UpsertTeam(ctx, t); err != nil {
			return teams, members, err
		}
		teams++
	}
	for _, m := range ms {
		if err := repo.UpsertMember(ctx, m); err != nil {
			return teams, members, err
		}
		members++
	}
	slog.Info("directory seeded", "teams", teams, "members", members)
	return teams, members, nil
}
