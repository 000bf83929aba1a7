package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtsidepicks/bracket-sync/models"
)

var ErrTeamNotFound = errors.New("team not found")

// TeamRepository is the read side of the team catalog plus the single write
// the resolver performs: caching a source-scoped external id on a team.
type TeamRepository interface {
	ListAll(ctx context.Context) ([]*models.Team, error)
	SetExternalID(ctx context.Context, teamID int, source, externalID string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) ListAll(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT id, name, short_name, external_ids FROM teams ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		var externalIDs []byte
		if scanErr := rows.Scan(&team.ID, &team.Name, &team.ShortName, &externalIDs); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		if len(externalIDs) > 0 {
			if jsonErr := json.Unmarshal(externalIDs, &team.ExternalIDs); jsonErr != nil {
				return nil, fmt.Errorf("failed to decode external_ids for team %d: %w", team.ID, jsonErr)
			}
		}
		teams = append(teams, &team)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

// SetExternalID upserts one entry of the team's external_ids map. Single-row
// atomicity is all that is required; concurrent writers racing to cache the
// same mapping land on the same value.
func (r *postgresTeamRepository) SetExternalID(ctx context.Context, teamID int, source, externalID string) error {
	query := `
		UPDATE teams
		SET external_ids = jsonb_set(COALESCE(external_ids, '{}'::jsonb), ARRAY[$2], to_jsonb($3::text))
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, teamID, source, externalID)
	if err != nil {
		return fmt.Errorf("failed to set external id for team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
