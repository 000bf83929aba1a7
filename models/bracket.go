package models

// BracketRound is one displayable group of games: a round, or a round within a
// region for NCAA-style brackets. Derived from TournamentGame rows on every
// read, never persisted.
type BracketRound struct {
	Round  string           `json:"round"`
	Region *string          `json:"region,omitempty"`
	Side   string           `json:"side"`
	Games  []TournamentGame `json:"games"`
}

// Bracket is the full navigable structure handed to the rendering layer.
type Bracket struct {
	TournamentID int            `json:"tournament_id"`
	Rounds       []BracketRound `json:"rounds"`
	Regions      []string       `json:"regions"`
}

// AdvancementEntry records that a team occupies a slot of a future game,
// derived from a user pick. Transient, recomputed per request.
type AdvancementEntry struct {
	TargetGameID int   `json:"target_game_id"`
	Slot         Slot  `json:"slot"`
	Team         *Team `json:"team,omitempty"`
	TeamID       int   `json:"team_id"`
	Seed         *int  `json:"seed,omitempty"`
}
