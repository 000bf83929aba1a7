package brackets

import "github.com/courtsidepicks/bracket-sync/models"

type slotKey struct {
	gameID int
	slot   models.Slot
}

// Propagate applies a user's picks to the bracket: for every picked game the
// winner (and, for consolation brackets, the loser) is advanced along the
// game's pointers into the slot of its next game. Returns a new slice with
// substituted copies; the input games are never mutated, and identical
// (games, picks) always produce identical output.
//
// Two passes, O(games + picks). Advancement pointers are assumed acyclic;
// bracket metadata is authored upstream, not by users.
func Propagate(games []models.TournamentGame, picks map[int]int) []models.TournamentGame {
	byID := make(map[int]*models.TournamentGame, len(games))
	for i := range games {
		byID[games[i].ID] = &games[i]
	}

	entries := make(map[slotKey]models.AdvancementEntry)
	for gameID, winnerTeamID := range picks {
		game, ok := byID[gameID]
		if !ok {
			continue
		}
		winner, loser, ok := splitByWinner(game, winnerTeamID)
		if !ok {
			continue // pick references a team not in the game
		}
		if game.NextGameID != nil && game.WinnerToSlot != nil {
			entries[slotKey{*game.NextGameID, *game.WinnerToSlot}] = winner
		}
		if game.LoserNextID != nil && game.LoserToSlot != nil && loser.TeamID != 0 {
			entries[slotKey{*game.LoserNextID, *game.LoserToSlot}] = loser
		}
	}

	out := make([]models.TournamentGame, len(games))
	for i, g := range games {
		if entry, ok := entries[slotKey{g.ID, models.SlotHome}]; ok {
			teamID := entry.TeamID
			g.HomeTeamID = &teamID
			g.HomeTeam = entry.Team
			g.SeedHome = entry.Seed
		} else if g.IsPlaceholder && g.HomeTeamID == nil {
			g.HomeTeam = nil // renderer shows TBD
		}
		if entry, ok := entries[slotKey{g.ID, models.SlotAway}]; ok {
			teamID := entry.TeamID
			g.AwayTeamID = &teamID
			g.AwayTeam = entry.Team
			g.SeedAway = entry.Seed
		} else if g.IsPlaceholder && g.AwayTeamID == nil {
			g.AwayTeam = nil
		}
		out[i] = g
	}
	return out
}

// splitByWinner returns advancement entries for the pick's winner and loser
// sides of the game, matching winnerTeamID against the stored home/away ids.
func splitByWinner(game *models.TournamentGame, winnerTeamID int) (winner, loser models.AdvancementEntry, ok bool) {
	switch {
	case game.HomeTeamID != nil && *game.HomeTeamID == winnerTeamID:
		winner = advancementEntry(winnerTeamID, game.HomeTeam, game.SeedHome)
		if game.AwayTeamID != nil {
			loser = advancementEntry(*game.AwayTeamID, game.AwayTeam, game.SeedAway)
		}
		return winner, loser, true
	case game.AwayTeamID != nil && *game.AwayTeamID == winnerTeamID:
		winner = advancementEntry(winnerTeamID, game.AwayTeam, game.SeedAway)
		if game.HomeTeamID != nil {
			loser = advancementEntry(*game.HomeTeamID, game.HomeTeam, game.SeedHome)
		}
		return winner, loser, true
	}
	return winner, loser, false
}

func advancementEntry(teamID int, team *models.Team, seed *int) models.AdvancementEntry {
	return models.AdvancementEntry{TeamID: teamID, Team: team, Seed: seed}
}
