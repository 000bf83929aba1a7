package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/courtsidepicks/bracket-sync/brackets"
	"github.com/courtsidepicks/bracket-sync/matching"
	"github.com/courtsidepicks/bracket-sync/models"
	"github.com/courtsidepicks/bracket-sync/repositories"
	"github.com/courtsidepicks/bracket-sync/storage"
)

const (
	teamCacheKey = "canonical_teams"
	teamCacheTTL = 5 * time.Minute
)

// ImportService is the game import reconciler: it consumes raw external games,
// resolves their teams against the catalog, and upserts tournament games
// idempotently by (external_source, external_id).
type ImportService interface {
	ImportGames(ctx context.Context, tournamentID int, rawGames []models.RawGame, opts models.ImportOptions) (*models.ImportResult, error)
	SuggestTeams(ctx context.Context, external models.ExternalTeamRecord, source string, topN int) ([]models.MatchResult, error)
}

type importService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	gameRepo       repositories.GameRepository
	resolver       *matching.Resolver
	teamCache      *gocache.Cache
	archiver       storage.FileUploader
	hub            *brackets.Hub
	logger         *slog.Logger
}

// NewImportService wires the reconciler. archiver and hub may be nil; payload
// archiving and websocket notifications are then skipped.
func NewImportService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	gameRepo repositories.GameRepository,
	resolver *matching.Resolver,
	archiver storage.FileUploader,
	hub *brackets.Hub,
	logger *slog.Logger,
) ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		gameRepo:       gameRepo,
		resolver:       resolver,
		teamCache:      gocache.New(teamCacheTTL, 2*teamCacheTTL),
		archiver:       archiver,
		hub:            hub,
		logger:         logger,
	}
}

func (s *importService) ImportGames(ctx context.Context, tournamentID int, rawGames []models.RawGame, opts models.ImportOptions) (*models.ImportResult, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrImportTournamentInvalid, tournamentID)
		}
		return nil, fmt.Errorf("failed to check tournament %d: %w", tournamentID, err)
	}

	result := &models.ImportResult{
		RunID:          uuid.NewString(),
		TournamentID:   tournamentID,
		DryRun:         opts.DryRun,
		Errors:         []models.ImportError{},
		UnmatchedTeams: []models.UnmatchedTeam{},
	}
	if len(rawGames) == 0 {
		return result, nil
	}

	candidates, err := s.loadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTeamCatalogUnavailable, err)
	}

	if !opts.DryRun {
		result.ArchiveKey = s.archivePayload(ctx, tournamentID, result.RunID, rawGames)
	}

	// Resolve every distinct external team once up front. The batch memo plus
	// the resolver's ≥0.9 catalog write give read-your-writes within the run.
	source := rawGames[0].ExternalSource
	externals := make([]models.ExternalTeamRecord, 0, len(rawGames)*2)
	for _, raw := range rawGames {
		externals = append(externals, raw.HomeTeam, raw.AwayTeam)
	}
	resolved := s.resolver.ResolveBatch(ctx, externals, candidates, source, matching.ResolveOptions{
		Threshold: opts.MatchThreshold,
		Persist:   !opts.DryRun,
	})

	for _, raw := range rawGames {
		s.reconcileGame(ctx, tournamentID, raw, resolved, opts, result)
	}

	s.logger.Info("import run finished",
		slog.String("run_id", result.RunID),
		slog.Int("tournament_id", tournamentID),
		slog.Bool("dry_run", opts.DryRun),
		slog.Int("created", result.GamesCreated),
		slog.Int("updated", result.GamesUpdated),
		slog.Int("skipped", result.GamesSkipped),
		slog.Int("errors", len(result.Errors)),
		slog.Int("unmatched", len(result.UnmatchedTeams)))

	if !opts.DryRun && s.hub != nil && result.GamesCreated+result.GamesUpdated > 0 {
		s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.Message{
			Type:    brackets.MessageGamesImported,
			Payload: result,
		})
	}
	return result, nil
}

// reconcileGame processes one raw game independently: a bad record adds to the
// result and never aborts the batch.
func (s *importService) reconcileGame(ctx context.Context, tournamentID int, raw models.RawGame, resolved map[string]*models.MatchResult, opts models.ImportOptions, result *models.ImportResult) {
	home := resolved[resolveKey(raw.HomeTeam)]
	away := resolved[resolveKey(raw.AwayTeam)]

	if home == nil || away == nil {
		if home == nil {
			result.UnmatchedTeams = append(result.UnmatchedTeams, models.UnmatchedTeam{
				External: raw.HomeTeam,
				Context:  fmt.Sprintf("home team of game %s", raw.ExternalID),
			})
		}
		if away == nil {
			result.UnmatchedTeams = append(result.UnmatchedTeams, models.UnmatchedTeam{
				External: raw.AwayTeam,
				Context:  fmt.Sprintf("away team of game %s", raw.ExternalID),
			})
		}
		result.GamesSkipped++
		return
	}

	existing, err := s.gameRepo.GetByExternalID(ctx, raw.ExternalSource, raw.ExternalID)
	if err != nil && !errors.Is(err, repositories.ErrGameNotFound) {
		result.Errors = append(result.Errors, models.ImportError{Raw: raw, Reason: err.Error()})
		return
	}

	if existing != nil {
		if !opts.UpdateExisting {
			result.GamesSkipped++
			return
		}
		applyRawGame(existing, raw, home.TeamID, away.TeamID)
		if !opts.DryRun {
			if err := s.gameRepo.Update(ctx, existing); err != nil {
				result.Errors = append(result.Errors, models.ImportError{Raw: raw, Reason: err.Error()})
				return
			}
		}
		result.GamesUpdated++
		return
	}

	game := newTournamentGame(tournamentID, raw, home.TeamID, away.TeamID)
	if !opts.DryRun {
		if err := s.gameRepo.Create(ctx, game); err != nil {
			result.Errors = append(result.Errors, models.ImportError{Raw: raw, Reason: err.Error()})
			return
		}
	}
	result.GamesCreated++
}

func (s *importService) SuggestTeams(ctx context.Context, external models.ExternalTeamRecord, source string, topN int) ([]models.MatchResult, error) {
	candidates, err := s.loadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTeamCatalogUnavailable, err)
	}
	return s.resolver.Suggest(external, candidates, source, topN), nil
}

func (s *importService) loadTeams(ctx context.Context) ([]*models.Team, error) {
	if cached, ok := s.teamCache.Get(teamCacheKey); ok {
		return cached.([]*models.Team), nil
	}
	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.teamCache.Set(teamCacheKey, teams, gocache.DefaultExpiration)
	return teams, nil
}

// archivePayload snapshots the raw feed payload to object storage for
// provenance. Best effort: failures are logged, never fatal.
func (s *importService) archivePayload(ctx context.Context, tournamentID int, runID string, rawGames []models.RawGame) string {
	if s.archiver == nil {
		return ""
	}
	payload, err := json.Marshal(rawGames)
	if err != nil {
		s.logger.Warn("failed to marshal payload for archiving", slog.Any("error", err))
		return ""
	}
	key := fmt.Sprintf("imports/%d/%s.json", tournamentID, runID)
	if _, err := s.archiver.Upload(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		s.logger.Warn("failed to archive import payload", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	return key
}

func resolveKey(external models.ExternalTeamRecord) string {
	if external.ExternalID != "" {
		return external.ExternalID
	}
	return external.DisplayName
}

func newTournamentGame(tournamentID int, raw models.RawGame, homeTeamID, awayTeamID int) *models.TournamentGame {
	externalID := raw.ExternalID
	externalSource := raw.ExternalSource
	game := &models.TournamentGame{
		TournamentID:   tournamentID,
		HomeTeamID:     &homeTeamID,
		AwayTeamID:     &awayTeamID,
		ExternalID:     &externalID,
		ExternalSource: &externalSource,
	}
	applyRawGame(game, raw, homeTeamID, awayTeamID)
	return game
}

// applyRawGame copies the feed's mutable fields onto a game: scores, status,
// schedule, and round/region/seed metadata.
func applyRawGame(game *models.TournamentGame, raw models.RawGame, homeTeamID, awayTeamID int) {
	game.Round = brackets.NormalizeRound(raw.Round)
	game.Region = raw.Region
	game.HomeTeamID = &homeTeamID
	game.AwayTeamID = &awayTeamID
	game.SeedHome = raw.SeedHome
	game.SeedAway = raw.SeedAway
	game.Date = raw.Date
	game.Status = raw.Status
	game.HomeScore = raw.HomeScore
	game.AwayScore = raw.AwayScore
	game.Venue = raw.Venue
}
