package models

import "time"

type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusFinal      GameStatus = "final"
	GameStatusCanceled   GameStatus = "canceled"
)

// Slot names a side of a game for advancement purposes.
type Slot string

const (
	SlotHome Slot = "home"
	SlotAway Slot = "away"
)

// RawGame is one game as produced by an external feed, before team resolution.
type RawGame struct {
	ExternalID     string             `json:"external_id"`
	ExternalSource string             `json:"external_source"`
	Date           time.Time          `json:"date"`
	Status         GameStatus         `json:"status"`
	HomeTeam       ExternalTeamRecord `json:"home_team"`
	AwayTeam       ExternalTeamRecord `json:"away_team"`
	HomeScore      *int               `json:"home_score,omitempty"`
	AwayScore      *int               `json:"away_score,omitempty"`
	Round          string             `json:"round"`
	Region         *string            `json:"region,omitempty"`
	SeedHome       *int               `json:"seed_home,omitempty"`
	SeedAway       *int               `json:"seed_away,omitempty"`
	Venue          *string            `json:"venue,omitempty"`
}

// TournamentGame is a persisted game inside a tournament bracket.
// (ExternalID, ExternalSource) is unique when both are present, which is what
// makes re-imports idempotent. NextGameID/WinnerToSlot (and the loser pair for
// consolation brackets) are the advancement pointers; HomeTeam/AwayTeam are
// enriched by the game store on reads and substituted by the propagator.
type TournamentGame struct {
	ID             int        `json:"id"`
	TournamentID   int        `json:"tournament_id"`
	Round          string     `json:"round"`
	Region         *string    `json:"region,omitempty"`
	HomeTeamID     *int       `json:"home_team_id,omitempty"`
	AwayTeamID     *int       `json:"away_team_id,omitempty"`
	HomeTeam       *Team      `json:"home_team,omitempty"`
	AwayTeam       *Team      `json:"away_team,omitempty"`
	SeedHome       *int       `json:"seed_home,omitempty"`
	SeedAway       *int       `json:"seed_away,omitempty"`
	Date           time.Time  `json:"date"`
	Status         GameStatus `json:"status"`
	HomeScore      *int       `json:"home_score,omitempty"`
	AwayScore      *int       `json:"away_score,omitempty"`
	Venue          *string    `json:"venue,omitempty"`
	ExternalID     *string    `json:"external_id,omitempty"`
	ExternalSource *string    `json:"external_source,omitempty"`
	IsPlaceholder  bool       `json:"is_placeholder"`
	NextGameID     *int       `json:"next_game_id,omitempty"`
	WinnerToSlot   *Slot      `json:"winner_to_slot,omitempty"`
	LoserNextID    *int       `json:"loser_next_game_id,omitempty"`
	LoserToSlot    *Slot      `json:"loser_to_slot,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TBDName is what the bracket shows for a slot whose team is not decided yet.
const TBDName = "TBD"

// HomeDisplayName returns the name shown for the home slot.
func (g *TournamentGame) HomeDisplayName() string {
	if g.HomeTeam != nil {
		return g.HomeTeam.Name
	}
	return TBDName
}

// AwayDisplayName returns the name shown for the away slot.
func (g *TournamentGame) AwayDisplayName() string {
	if g.AwayTeam != nil {
		return g.AwayTeam.Name
	}
	return TBDName
}

// UserPick is a user's predicted winner for one game. Owned by the pick store;
// read-only here.
type UserPick struct {
	GameID       int       `json:"game_id"`
	WinnerTeamID int       `json:"winner_team_id"`
	PickedAt     time.Time `json:"picked_at"`
}
