package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/courtsidepicks/bracket-sync/brackets"
	"github.com/courtsidepicks/bracket-sync/models"
	"github.com/courtsidepicks/bracket-sync/repositories"
)

// BracketService builds the bracket view the renderer consumes: the
// tournament's games grouped into ordered rounds, with the viewing user's
// picks propagated into not-yet-played slots.
type BracketService interface {
	// GetBracket returns the assembled bracket. userID 0 means an anonymous
	// viewer: no picks are applied and placeholder slots stay TBD.
	GetBracket(ctx context.Context, tournamentID, userID int) (*models.Bracket, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	gameRepo       repositories.GameRepository
	pickRepo       repositories.PickRepository
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	gameRepo repositories.GameRepository,
	pickRepo repositories.PickRepository,
	logger *slog.Logger,
) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		pickRepo:       pickRepo,
		logger:         logger,
	}
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID, userID int) (*models.Bracket, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w: tournament %d: %w", ErrBracketLoadFailed, tournamentID, err)
	}

	var (
		games []models.TournamentGame
		picks map[int]int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gamesErr error
		games, gamesErr = s.gameRepo.ListByTournament(gCtx, tournamentID)
		if gamesErr != nil {
			return fmt.Errorf("games for tournament %d: %w", tournamentID, gamesErr)
		}
		return nil
	})
	if userID > 0 {
		g.Go(func() error {
			var picksErr error
			picks, picksErr = s.pickRepo.MapByUserAndTournament(gCtx, userID, tournamentID)
			if picksErr != nil {
				return fmt.Errorf("picks for user %d: %w", userID, picksErr)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBracketLoadFailed, err)
	}

	if len(picks) > 0 {
		games = brackets.Propagate(games, picks)
	}

	bracket := brackets.Assemble(games, tournament.Type)
	bracket.TournamentID = tournamentID
	return bracket, nil
}
