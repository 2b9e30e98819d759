package auth

// TeamKey is the API key material stored on a team row.
type TeamKey struct {
	TeamCode     string
	TeamName     string
	IsAdmin      bool
	ApiKeyPrefix string
	ApiKeyHash   string
}

// Identity is stored in the request context after authentication.
type Identity struct {
	TeamCode string
	TeamName string
	IsAdmin  bool
}

// CanAccessTeam reports whether the identity may read or write scores of
// teamCode. Admin teams may access every team.
func (i *Identity) CanAccessTeam(teamCode string) bool {
	return i != nil && (i.IsAdmin || i.TeamCode == teamCode)
}
