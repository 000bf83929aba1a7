package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsidepicks/bracket-sync/matching"
	"github.com/courtsidepicks/bracket-sync/models"
	"github.com/courtsidepicks/bracket-sync/repositories"
	"github.com/courtsidepicks/bracket-sync/storage"
)

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	if t, ok := f.tournaments[id]; ok {
		return t, nil
	}
	return nil, repositories.ErrTournamentNotFound
}

type fakeTeamRepo struct {
	teams  []*models.Team
	writes int
	err    error
}

func (f *fakeTeamRepo) ListAll(_ context.Context) ([]*models.Team, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teams, nil
}

func (f *fakeTeamRepo) SetExternalID(_ context.Context, teamID int, source, externalID string) error {
	f.writes++
	return nil
}

type fakeGameRepo struct {
	games   map[string]models.TournamentGame
	nextID  int
	creates int
	updates int

	// failExternalID makes Create and Update fail for one game.
	failExternalID string
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[string]models.TournamentGame)}
}

func gameKey(source, externalID string) string {
	return source + "|" + externalID
}

func (f *fakeGameRepo) Create(_ context.Context, game *models.TournamentGame) error {
	if game.ExternalID != nil && *game.ExternalID == f.failExternalID {
		return errors.New("simulated insert failure")
	}
	f.nextID++
	game.ID = f.nextID
	game.CreatedAt = time.Now()
	f.creates++
	f.games[gameKey(*game.ExternalSource, *game.ExternalID)] = *game
	return nil
}

func (f *fakeGameRepo) Update(_ context.Context, game *models.TournamentGame) error {
	if game.ExternalID != nil && *game.ExternalID == f.failExternalID {
		return errors.New("simulated update failure")
	}
	key := gameKey(*game.ExternalSource, *game.ExternalID)
	if _, ok := f.games[key]; !ok {
		return repositories.ErrGameNotFound
	}
	f.updates++
	f.games[key] = *game
	return nil
}

func (f *fakeGameRepo) GetByExternalID(_ context.Context, source, externalID string) (*models.TournamentGame, error) {
	if game, ok := f.games[gameKey(source, externalID)]; ok {
		copied := game
		return &copied, nil
	}
	return nil, repositories.ErrGameNotFound
}

func (f *fakeGameRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.TournamentGame, error) {
	games := make([]models.TournamentGame, 0, len(f.games))
	for _, game := range f.games {
		if game.TournamentID == tournamentID {
			games = append(games, game)
		}
	}
	return games, nil
}

type fakeUploader struct {
	uploads []string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploads = append(f.uploads, key)
	return &storage.UploadResult{Key: key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeUploader) GetPublicURL(key string) string { return "https://cdn.test/" + key }

type importFixture struct {
	service  ImportService
	teamRepo *fakeTeamRepo
	gameRepo *fakeGameRepo
	uploader *fakeUploader
}

func newImportFixture() *importFixture {
	tournamentRepo := &fakeTournamentRepo{tournaments: map[int]*models.Tournament{
		10: {ID: 10, Name: "March Madness", Season: 2026, Type: models.TournamentTypeNCAA},
	}}
	teamRepo := &fakeTeamRepo{teams: []*models.Team{
		{ID: 1, Name: "Duke", ShortName: "DUKE"},
		{ID: 2, Name: "North Carolina", ShortName: "UNC"},
		{ID: 3, Name: "Kansas", ShortName: "KU"},
		{ID: 4, Name: "Kentucky", ShortName: "UK"},
	}}
	gameRepo := newFakeGameRepo()
	uploader := &fakeUploader{}
	resolver := matching.NewResolver(teamRepo, nil)
	service := NewImportService(tournamentRepo, teamRepo, gameRepo, resolver, uploader, nil, nil)
	return &importFixture{service: service, teamRepo: teamRepo, gameRepo: gameRepo, uploader: uploader}
}

func rawGame(externalID, home, away string) models.RawGame {
	region := "West"
	return models.RawGame{
		ExternalID:     externalID,
		ExternalSource: "espn",
		Date:           time.Date(2026, 3, 19, 18, 0, 0, 0, time.UTC),
		Status:         models.GameStatusScheduled,
		Round:          "1st Round",
		Region:         &region,
		HomeTeam:       models.ExternalTeamRecord{ExternalID: "h-" + externalID, DisplayName: home},
		AwayTeam:       models.ExternalTeamRecord{ExternalID: "a-" + externalID, DisplayName: away},
	}
}

func TestImportGamesCreates(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{
		rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels"),
		rawGame("402", "Kansas Jayhawks", "Kentucky Wildcats"),
	}

	result, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.GamesCreated)
	assert.Equal(t, 0, result.GamesUpdated)
	assert.Equal(t, 0, result.GamesSkipped)
	assert.True(t, result.Success())
	assert.NotEmpty(t, result.RunID)

	stored, err := fx.gameRepo.GetByExternalID(context.Background(), "espn", "401")
	require.NoError(t, err)
	assert.Equal(t, "round_of_64", stored.Round)
	require.NotNil(t, stored.Region)
	assert.Equal(t, "West", *stored.Region)
	require.NotNil(t, stored.HomeTeamID)
	assert.Equal(t, 1, *stored.HomeTeamID)
	require.NotNil(t, stored.AwayTeamID)
	assert.Equal(t, 2, *stored.AwayTeamID)
}

func TestImportGamesIdempotentReRun(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{
		rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels"),
		rawGame("402", "Kansas Jayhawks", "Kentucky Wildcats"),
	}

	first, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 2, first.GamesCreated)
	assert.Equal(t, 0, first.GamesUpdated)

	second, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 0, second.GamesCreated)
	assert.Equal(t, 2, second.GamesUpdated)
	assert.Len(t, fx.gameRepo.games, 2)
}

func TestImportGamesSkipsExistingWithoutUpdateFlag(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels")}

	_, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})
	require.NoError(t, err)

	score := 71
	raws[0].HomeScore = &score
	second, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.GamesCreated)
	assert.Equal(t, 0, second.GamesUpdated)
	assert.Equal(t, 1, second.GamesSkipped)

	stored, err := fx.gameRepo.GetByExternalID(context.Background(), "espn", "401")
	require.NoError(t, err)
	assert.Nil(t, stored.HomeScore)
}

func TestImportGamesUpdateRewritesScores(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels")}

	_, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})
	require.NoError(t, err)

	home, away := 71, 68
	raws[0].HomeScore = &home
	raws[0].AwayScore = &away
	raws[0].Status = models.GameStatusFinal

	result, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.GamesUpdated)

	stored, err := fx.gameRepo.GetByExternalID(context.Background(), "espn", "401")
	require.NoError(t, err)
	require.NotNil(t, stored.HomeScore)
	assert.Equal(t, 71, *stored.HomeScore)
	assert.Equal(t, models.GameStatusFinal, stored.Status)
}

func TestImportGamesDryRunNeverMutates(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{
		rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels"),
		rawGame("402", "Kansas Jayhawks", "Kentucky Wildcats"),
	}
	opts := models.ImportOptions{DryRun: true}

	first, err := fx.service.ImportGames(context.Background(), 10, raws, opts)
	require.NoError(t, err)
	assert.True(t, first.DryRun)
	assert.Equal(t, 2, first.GamesCreated)
	assert.Empty(t, fx.gameRepo.games)
	assert.Zero(t, fx.teamRepo.writes)
	assert.Empty(t, fx.uploader.uploads)
	assert.Empty(t, first.ArchiveKey)

	// A second dry run reports exactly the same counters.
	second, err := fx.service.ImportGames(context.Background(), 10, raws, opts)
	require.NoError(t, err)
	assert.Equal(t, first.GamesCreated, second.GamesCreated)
	assert.Equal(t, first.GamesUpdated, second.GamesUpdated)
	assert.Empty(t, fx.gameRepo.games)
}

func TestImportGamesUnmatchedTeamSkipsGame(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{rawGame("401", "Duke Blue Devils", "Completely Unknown College")}

	result, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.GamesCreated)
	assert.Equal(t, 1, result.GamesSkipped)
	require.Len(t, result.UnmatchedTeams, 1)
	assert.Equal(t, "Completely Unknown College", result.UnmatchedTeams[0].External.DisplayName)
	assert.Contains(t, result.UnmatchedTeams[0].Context, "401")
	assert.True(t, result.Success())
	assert.Empty(t, fx.gameRepo.games)
}

func TestImportGamesPartialFailure(t *testing.T) {
	fx := newImportFixture()
	fx.gameRepo.failExternalID = "401"
	raws := []models.RawGame{
		rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels"),
		rawGame("402", "Kansas Jayhawks", "Kentucky Wildcats"),
	}

	result, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.GamesCreated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "401", result.Errors[0].Raw.ExternalID)
	assert.False(t, result.Success())

	// The healthy game landed despite its sibling failing.
	_, err = fx.gameRepo.GetByExternalID(context.Background(), "espn", "402")
	assert.NoError(t, err)
}

func TestImportGamesUnknownTournament(t *testing.T) {
	fx := newImportFixture()

	result, err := fx.service.ImportGames(context.Background(), 99, nil, models.ImportOptions{})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImportTournamentInvalid)
}

func TestImportGamesEmptyPayload(t *testing.T) {
	fx := newImportFixture()

	result, err := fx.service.ImportGames(context.Background(), 10, nil, models.ImportOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 0, result.GamesCreated)
	assert.Empty(t, fx.uploader.uploads)
}

func TestImportGamesArchivesPayload(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels")}

	result, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})

	require.NoError(t, err)
	require.Len(t, fx.uploader.uploads, 1)
	assert.True(t, strings.HasPrefix(result.ArchiveKey, "imports/10/"), "got key %q", result.ArchiveKey)
	assert.Equal(t, fmt.Sprintf("imports/10/%s.json", result.RunID), result.ArchiveKey)
}

func TestImportGamesArchiveFailureIsNotFatal(t *testing.T) {
	fx := newImportFixture()
	fx.uploader.err = errors.New("bucket unavailable")
	raws := []models.RawGame{rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels")}

	result, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.ArchiveKey)
	assert.Equal(t, 1, result.GamesCreated)
}

func TestImportGamesPersistsResolvedExternalIDs(t *testing.T) {
	fx := newImportFixture()
	raws := []models.RawGame{rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels")}

	_, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})
	require.NoError(t, err)

	// Both teams matched at full confidence, so both ids were cached.
	assert.Equal(t, 2, fx.teamRepo.writes)

	// The ids stick in memory: the re-run resolves without new writes.
	_, err = fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, fx.teamRepo.writes)
}

func TestImportGamesTeamCatalogUnavailable(t *testing.T) {
	fx := newImportFixture()
	fx.teamRepo.err = errors.New("database down")
	raws := []models.RawGame{rawGame("401", "Duke Blue Devils", "North Carolina Tar Heels")}

	_, err := fx.service.ImportGames(context.Background(), 10, raws, models.ImportOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTeamCatalogUnavailable)
}

func TestSuggestTeamsRanksCandidates(t *testing.T) {
	fx := newImportFixture()

	suggestions, err := fx.service.SuggestTeams(context.Background(), models.ExternalTeamRecord{DisplayName: "Duke Blue Devils"}, "espn", 3)

	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, 1, suggestions[0].TeamID)
	assert.Equal(t, 1.0, suggestions[0].Confidence)
}
