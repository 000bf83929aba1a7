package models

// Team is the canonical team record owned by the team catalog.
// ExternalIDs maps a feed source ("espn", "ncaa", ...) to that source's id for
// the team; the resolver fills entries in as high-confidence matches are made.
type Team struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	ShortName   string            `json:"short_name"`
	ExternalIDs map[string]string `json:"external_ids,omitempty"`
}

// ExternalIDFor returns the team's id for the given source, if cached.
func (t *Team) ExternalIDFor(source string) (string, bool) {
	if t.ExternalIDs == nil {
		return "", false
	}
	id, ok := t.ExternalIDs[source]
	return id, ok
}

// ExternalTeamRecord is a team reference as supplied by an external feed,
// attached to a single game. Ephemeral, never persisted directly.
type ExternalTeamRecord struct {
	ExternalID   string `json:"external_id"`
	DisplayName  string `json:"display_name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// MatchResult is the outcome of resolving one external record against the
// catalog. Transient.
type MatchResult struct {
	TeamID     int     `json:"team_id"`
	Confidence float64 `json:"confidence"`
	Team       *Team   `json:"team,omitempty"`
}
