package matching

import (
	"strings"

	"github.com/courtsidepicks/bracket-sync/models"
)

const sharedWordBonus = 0.1

// MatchScore rates how likely an external record refers to the candidate.
// A cached external id for the source is authoritative and scores 1.0
// outright. Otherwise the best Similarity between the external display name
// and abbreviation against the candidate's full and short names, plus a small
// bonus per substantial word the normalized names share, capped at 1.0.
func MatchScore(external models.ExternalTeamRecord, candidate *models.Team, source string) float64 {
	if external.ExternalID != "" {
		if cached, ok := candidate.ExternalIDFor(source); ok && cached == external.ExternalID {
			return 1.0
		}
	}

	probes := []string{external.DisplayName}
	if external.Abbreviation != "" {
		probes = append(probes, external.Abbreviation)
	}
	targets := []string{candidate.Name}
	if candidate.ShortName != "" {
		targets = append(targets, candidate.ShortName)
	}

	best := 0.0
	for _, probe := range probes {
		if probe == "" {
			continue
		}
		for _, target := range targets {
			if s := Similarity(probe, target); s > best {
				best = s
			}
		}
	}

	score := best + sharedWordBonus*float64(sharedWords(external.DisplayName, candidate.Name))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// sharedWords counts words longer than two characters present in both
// normalized names.
func sharedWords(a, b string) int {
	aWords := map[string]bool{}
	for _, w := range strings.Fields(Normalize(a)) {
		if len(w) > 2 {
			aWords[w] = true
		}
	}
	n := 0
	for _, w := range strings.Fields(Normalize(b)) {
		if len(w) > 2 && aWords[w] {
			n++
			delete(aWords, w)
		}
	}
	return n
}
