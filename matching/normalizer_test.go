package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Regression corpus of tricky real names: mascot variants, "St" vs "State",
// parenthetical disambiguators, stray punctuation.
var normalizeCases = []struct {
	in   string
	want string
}{
	{"Duke Blue Devils", "duke"},
	{"UNC Tar Heels", "unc"},
	{"North Carolina Tar Heels", "north carolina"},
	{"Kansas Jayhawks", "kansas"},
	{"Ohio St", "ohio state"},
	{"Ohio St.", "ohio state"},
	{"Ohio State Buckeyes", "ohio state"},
	{"Michigan St Spartans", "michigan state"},
	{"San Diego St", "san diego state"},
	{"St John's", "st johns"},
	{"Saint Mary's Gaels", "saint marys"},
	{"Loyola (Chi)", "loyola chicago"},
	{"Miami (FL)", "miami florida"},
	{"Miami (OH)", "miami ohio"},
	{"Gonzaga Univ.", "gonzaga university"},
	{"Texas A&M Aggies", "texas a m"},
	{"  Purdue   Boilermakers ", "purdue"},
	{"Wildcats", "wildcats"},
	{"North Carolina St", "north carolina st"},
}

func TestNormalizeCorpus(t *testing.T) {
	for _, tc := range normalizeCases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, tc := range normalizeCases {
		once := Normalize(tc.in)
		assert.Equal(t, once, Normalize(once), "input %q", tc.in)
	}
}

func TestNormalizeTotal(t *testing.T) {
	// Never panics, never errors, regardless of input shape.
	for _, in := range []string{"", "(", ")", "((", "(()", "...", "'''", "St", "état de l'équipe"} {
		assert.NotPanics(t, func() { Normalize(in) }, "input %q", in)
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	for _, name := range []string{"Duke", "North Carolina", "Saint Mary's Gaels", "UConn"} {
		assert.Equal(t, 1.0, Similarity(name, name), "name %q", name)
	}
}

func TestSimilarityRange(t *testing.T) {
	pairs := [][2]string{
		{"Duke", "Kentucky"},
		{"North Carolina", "UNC"},
		{"Gonzaga", "Gonzaga Bulldogs"},
		{"", "Duke"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, "pair %v", p)
		assert.LessOrEqual(t, s, 1.0, "pair %v", p)
	}
}

func TestSimilarityIgnoresMascots(t *testing.T) {
	// Both sides normalize to "duke", so the mascot never costs distance.
	assert.Equal(t, 1.0, Similarity("Duke Blue Devils", "Duke"))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("duke", "duke"))
	assert.Equal(t, 4, editDistance("duke", ""))
	assert.Equal(t, 1, editDistance("duke", "dike"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
}
