package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// PickRepository reads user predictions out of the pick store. This subsystem
// never writes picks; the picks UI owns that.
type PickRepository interface {
	// MapByUserAndTournament returns gameID -> predicted winner teamID for
	// every pick the user has made in the tournament.
	MapByUserAndTournament(ctx context.Context, userID, tournamentID int) (map[int]int, error)
}

type postgresPickRepository struct {
	db *sql.DB
}

func NewPostgresPickRepository(db *sql.DB) PickRepository {
	return &postgresPickRepository{db: db}
}

func (r *postgresPickRepository) MapByUserAndTournament(ctx context.Context, userID, tournamentID int) (map[int]int, error) {
	query := `
		SELECT p.game_id, p.winner_team_id
		FROM user_picks p
		JOIN tournament_games g ON g.id = p.game_id
		WHERE p.user_id = $1 AND g.tournament_id = $2`

	rows, err := r.db.QueryContext(ctx, query, userID, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks for user %d in tournament %d: %w", userID, tournamentID, err)
	}
	defer rows.Close()

	picks := make(map[int]int)
	for rows.Next() {
		var gameID, winnerTeamID int
		if scanErr := rows.Scan(&gameID, &winnerTeamID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pick row: %w", scanErr)
		}
		picks[gameID] = winnerTeamID
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during pick rows iteration: %w", err)
	}
	return picks, nil
}
