// Package directory holds member and team metadata and the cache that
// serves it to the leaderboard engine.
package directory

import "sort"

// Member is a sales team member.
type Member struct {
	ID       string
	Name     string
	TeamCode string
	ImageRef string
}

// Team is a sales team. Admin teams supervise and never appear on boards.
type Team struct {
	Code    string
	Name    string
	Leader  string
	IsAdmin bool
}

// DisplayName returns the team name, falling back to its code.
func (t Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Code
}

// Roster maps a team code to the IDs of its members.
type Roster map[string][]string

// TeamCodes returns the roster's team codes in sorted order.
func (r Roster) TeamCodes() []string {
	codes := make([]string, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Snapshot is a consistent view of the directory at one point in time.
type Snapshot struct {
	Members map[string]Member
	Teams   map[string]Team
}

// NewSnapshot indexes members and teams by their identifiers.
func NewSnapshot(members []Member, teams []Team) *Snapshot {
	s := &Snapshot{
		Members: make(map[string]Member, len(members)),
		Teams:   make(map[string]Team, len(teams)),
	}
	for _, m := range members {
		s.Members[m.ID] = m
	}
	for _, t := range teams {
		s.Teams[t.Code] = t
	}
	return s
}

// Roster returns the members of every non-admin team. Members whose team is
// unknown or an admin team are left out, as are non-admin teams without
// members. Member IDs are sorted within each team.
func (s *Snapshot) Roster() Roster {
	r := make(Roster)
	for _, m := range s.Members {
		t, ok := s.Teams[m.TeamCode]
		if !ok || t.IsAdmin {
			continue
		}
		r[m.TeamCode] = append(r[m.TeamCode], m.ID)
	}
	for code := range r {
		sort.Strings(r[code])
	}
	return r
}

// RankedTeams returns the non-admin teams sorted by code.
func (s *Snapshot) RankedTeams() []Team {
	teams := make([]Team, 0, len(s.Teams))
	for _, t := range s.Teams {
		if !t.IsAdmin {
			teams = append(teams, t)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Code < teams[j].Code })
	return teams
}

// TeamMembers returns the members of teamCode sorted by name, then ID.
func (s *Snapshot) TeamMembers(teamCode string) []Member {
	var out []Member
	for _, m := range s.Members {
		if m.TeamCode == teamCode {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
