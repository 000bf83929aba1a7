package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtsidepicks/bracket-sync/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound          = errors.New("tournament game not found")
	ErrGameExternalConflict  = errors.New("game with this external id and source already exists")
	ErrGameTournamentInvalid = errors.New("game references an unknown tournament")
	ErrGameTeamInvalid       = errors.New("game references an unknown team")
)

// GameRepository is the game store: upsert-by-natural-key semantics over
// (external_source, external_id) plus the date-ordered tournament read.
type GameRepository interface {
	Create(ctx context.Context, game *models.TournamentGame) error
	Update(ctx context.Context, game *models.TournamentGame) error
	GetByExternalID(ctx context.Context, source, externalID string) (*models.TournamentGame, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentGame, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.TournamentGame) error {
	query := `
		INSERT INTO tournament_games
			(tournament_id, round, region, home_team_id, away_team_id, seed_home, seed_away,
			 date, status, home_score, away_score, venue, external_id, external_source,
			 is_placeholder, next_game_id, winner_to_slot, loser_next_game_id, loser_to_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.TournamentID,
		game.Round,
		game.Region,
		game.HomeTeamID,
		game.AwayTeamID,
		game.SeedHome,
		game.SeedAway,
		game.Date,
		game.Status,
		game.HomeScore,
		game.AwayScore,
		game.Venue,
		game.ExternalID,
		game.ExternalSource,
		game.IsPlaceholder,
		game.NextGameID,
		game.WinnerToSlot,
		game.LoserNextID,
		game.LoserToSlot,
	).Scan(&game.ID, &game.CreatedAt)

	return r.handleGameError(err)
}

// Update rewrites the mutable fields of an imported game: scores, status,
// schedule, and round/region/seed metadata. Advancement pointers and the
// natural key are left alone.
func (r *postgresGameRepository) Update(ctx context.Context, game *models.TournamentGame) error {
	query := `
		UPDATE tournament_games
		SET round = $1, region = $2, home_team_id = $3, away_team_id = $4,
		    seed_home = $5, seed_away = $6, date = $7, status = $8,
		    home_score = $9, away_score = $10, venue = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		game.Round,
		game.Region,
		game.HomeTeamID,
		game.AwayTeamID,
		game.SeedHome,
		game.SeedAway,
		game.Date,
		game.Status,
		game.HomeScore,
		game.AwayScore,
		game.Venue,
		game.ID,
	)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) GetByExternalID(ctx context.Context, source, externalID string) (*models.TournamentGame, error) {
	query := selectGameQuery + ` WHERE g.external_source = $1 AND g.external_id = $2`

	game, err := r.scanGame(r.db.QueryRowContext(ctx, query, source, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by external id %s/%s: %w", source, externalID, err)
	}
	return game, nil
}

func (r *postgresGameRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentGame, error) {
	query := selectGameQuery + ` WHERE g.tournament_id = $1 ORDER BY g.date ASC, g.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	games := make([]models.TournamentGame, 0)
	for rows.Next() {
		game, scanErr := r.scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, *game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

const selectGameQuery = `
	SELECT g.id, g.tournament_id, g.round, g.region, g.home_team_id, g.away_team_id,
	       g.seed_home, g.seed_away, g.date, g.status, g.home_score, g.away_score,
	       g.venue, g.external_id, g.external_source, g.is_placeholder,
	       g.next_game_id, g.winner_to_slot, g.loser_next_game_id, g.loser_to_slot,
	       g.created_at,
	       ht.id, ht.name, ht.short_name,
	       at.id, at.name, at.short_name
	FROM tournament_games g
	LEFT JOIN teams ht ON ht.id = g.home_team_id
	LEFT JOIN teams at ON at.id = g.away_team_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresGameRepository) scanGame(row rowScanner) (*models.TournamentGame, error) {
	game := &models.TournamentGame{}
	var homeID, awayID sql.NullInt64
	var homeName, homeShort, awayName, awayShort sql.NullString

	err := row.Scan(
		&game.ID,
		&game.TournamentID,
		&game.Round,
		&game.Region,
		&game.HomeTeamID,
		&game.AwayTeamID,
		&game.SeedHome,
		&game.SeedAway,
		&game.Date,
		&game.Status,
		&game.HomeScore,
		&game.AwayScore,
		&game.Venue,
		&game.ExternalID,
		&game.ExternalSource,
		&game.IsPlaceholder,
		&game.NextGameID,
		&game.WinnerToSlot,
		&game.LoserNextID,
		&game.LoserToSlot,
		&game.CreatedAt,
		&homeID, &homeName, &homeShort,
		&awayID, &awayName, &awayShort,
	)
	if err != nil {
		return nil, err
	}

	if homeID.Valid {
		game.HomeTeam = &models.Team{ID: int(homeID.Int64), Name: homeName.String, ShortName: homeShort.String}
	}
	if awayID.Valid {
		game.AwayTeam = &models.Team{ID: int(awayID.Int64), Name: awayName.String, ShortName: awayShort.String}
	}
	return game, nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch {
		case pqErr.Code == "23505": // unique_violation on (external_source, external_id)
			return ErrGameExternalConflict
		case pqErr.Constraint == "tournament_games_tournament_id_fkey":
			return ErrGameTournamentInvalid
		case pqErr.Constraint == "tournament_games_home_team_id_fkey",
			pqErr.Constraint == "tournament_games_away_team_id_fkey":
			return ErrGameTeamInvalid
		}
	}
	return err
}
