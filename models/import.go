package models

// ImportOptions controls a single ImportGames run.
type ImportOptions struct {
	UpdateExisting bool    `json:"update_existing"`
	MatchThreshold float64 `json:"match_threshold,omitempty"`
	DryRun         bool    `json:"dry_run"`
}

// ImportError is one game that failed to persist. The batch continues past it.
type ImportError struct {
	Raw    RawGame `json:"raw"`
	Reason string  `json:"reason"`
}

// UnmatchedTeam is an external team record no catalog team scored above the
// threshold for. The associated game is skipped, not the batch.
type UnmatchedTeam struct {
	External ExternalTeamRecord `json:"external"`
	Context  string             `json:"context"`
}

// ImportResult summarizes one reconciler run. JSON-serializable for operators.
type ImportResult struct {
	RunID          string          `json:"run_id"`
	TournamentID   int             `json:"tournament_id"`
	DryRun         bool            `json:"dry_run"`
	GamesCreated   int             `json:"games_created"`
	GamesUpdated   int             `json:"games_updated"`
	GamesSkipped   int             `json:"games_skipped"`
	Errors         []ImportError   `json:"errors"`
	UnmatchedTeams []UnmatchedTeam `json:"unmatched_teams"`
	ArchiveKey     string          `json:"archive_key,omitempty"`
}

// Success reports whether every processed game persisted cleanly. Unmatched
// teams and skips do not count as failures.
func (r *ImportResult) Success() bool {
	return len(r.Errors) == 0
}
