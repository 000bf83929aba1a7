package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// The only fatal input for an import: everything else is recovered
	// per-game and surfaced in the ImportResult.
	ErrImportTournamentInvalid = errors.New("cannot import games for unknown tournament")

	ErrTeamCatalogUnavailable = errors.New("failed to load team catalog")
	ErrBracketLoadFailed      = errors.New("failed to load bracket data")
)
