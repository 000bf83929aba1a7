package models

import "time"

type TournamentType string

const (
	TournamentTypeNCAA       TournamentType = "ncaa"
	TournamentTypeConference TournamentType = "conference"
)

type Tournament struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Season    int            `json:"season"`
	Type      TournamentType `json:"type"`
	StartDate time.Time      `json:"start_date"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
}
