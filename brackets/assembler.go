// Package brackets turns persisted tournament games into a navigable bracket
// structure and propagates user picks through not-yet-played slots. Both
// operations are pure; the websocket hub lives here too because bracket
// updates are what it broadcasts.
package brackets

import (
	"sort"

	"github.com/courtsidepicks/bracket-sync/models"
)

// Assemble groups a tournament's games into ordered rounds. NCAA brackets are
// additionally split by region within each round. Games inside a group are
// ordered by date ascending; equal dates keep their input order. Rounds whose
// game counts break pairing assumptions are still grouped and returned — the
// renderer just skips connector metadata for them.
func Assemble(games []models.TournamentGame, tournamentType models.TournamentType) *models.Bracket {
	bracket := &models.Bracket{
		Rounds:  []models.BracketRound{},
		Regions: []string{},
	}
	if len(games) == 0 {
		return bracket
	}
	bracket.TournamentID = games[0].TournamentID

	byRegion := tournamentType == models.TournamentTypeNCAA

	type groupKey struct {
		round  string
		region string
	}
	groups := make(map[groupKey][]models.TournamentGame)
	groupOrder := []groupKey{}
	seenRegions := map[string]bool{}

	for _, g := range games {
		key := groupKey{round: g.Round}
		if byRegion && g.Region != nil {
			key.region = *g.Region
		}
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], g)

		if g.Region != nil && !seenRegions[*g.Region] {
			seenRegions[*g.Region] = true
			bracket.Regions = append(bracket.Regions, *g.Region)
		}
	}

	// Rounds by the shared order table, unknown rounds last; regions keep
	// first-appearance order within a round.
	sort.SliceStable(groupOrder, func(i, j int) bool {
		return RoundOrder(groupOrder[i].round) < RoundOrder(groupOrder[j].round)
	})

	for _, key := range groupOrder {
		grouped := groups[key]
		sort.SliceStable(grouped, func(i, j int) bool {
			return grouped[i].Date.Before(grouped[j].Date)
		})

		round := models.BracketRound{
			Round: key.round,
			Side:  RoundSide(key.round),
			Games: grouped,
		}
		if byRegion && key.region != "" {
			region := key.region
			round.Region = &region
		}
		bracket.Rounds = append(bracket.Rounds, round)
	}

	return bracket
}
