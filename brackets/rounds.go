package brackets

import "strings"

// Canonical round labels. Both the assembler and the propagator order rounds
// through this one table; new bracket formats only need new entries here.
const (
	RoundFirstFour    = "first_four"
	RoundOf64         = "round_of_64"
	RoundOf32         = "round_of_32"
	RoundSweet16      = "sweet_16"
	RoundElite8       = "elite_8"
	RoundFinalFour    = "final_four"
	RoundConsolation  = "consolation"
	RoundSemifinals   = "semifinals"
	RoundChampionship = "championship"
	RoundFinals       = "finals"
)

// Display side of a round relative to the bracket's center column.
const (
	SideLeft   = "left"
	SideRight  = "right"
	SideCenter = "center"
)

const unknownRoundOrder = 1 << 16

var roundOrder = map[string]int{
	RoundFirstFour:    0,
	RoundOf64:         1,
	RoundOf32:         2,
	RoundSweet16:      3,
	RoundElite8:       4,
	RoundFinalFour:    5,
	RoundConsolation:  5,
	RoundSemifinals:   6,
	RoundChampionship: 7,
	RoundFinals:       7,
}

var roundSide = map[string]string{
	RoundConsolation:  SideLeft,
	RoundChampionship: SideRight,
	RoundFinals:       SideRight,
}

// RoundOrder returns the sort position of a round label. Unknown labels sort
// after every known round, all at the same position, so stable sorts keep
// their input order.
func RoundOrder(round string) int {
	if ord, ok := roundOrder[round]; ok {
		return ord
	}
	return unknownRoundOrder
}

// RoundSide returns where a round sits for display: consolation rounds left of
// center, the championship right of center, everything else converging on the
// center.
func RoundSide(round string) string {
	if side, ok := roundSide[round]; ok {
		return side
	}
	return SideCenter
}

// Feed round labels vary per source ("1st Round", "Sweet Sixteen", "National
// Championship"). roundAliases maps the ones seen in practice onto canonical
// labels.
var roundAliases = map[string]string{
	"first four":            RoundFirstFour,
	"play in":               RoundFirstFour,
	"1st round":             RoundOf64,
	"first round":           RoundOf64,
	"round of 64":           RoundOf64,
	"2nd round":             RoundOf32,
	"second round":          RoundOf32,
	"round of 32":           RoundOf32,
	"sweet 16":              RoundSweet16,
	"sweet sixteen":         RoundSweet16,
	"regional semifinals":   RoundSweet16,
	"elite 8":               RoundElite8,
	"elite eight":           RoundElite8,
	"regional finals":       RoundElite8,
	"final four":            RoundFinalFour,
	"national semifinals":   RoundFinalFour,
	"semifinals":            RoundSemifinals,
	"consolation":           RoundConsolation,
	"third place":           RoundConsolation,
	"championship":          RoundChampionship,
	"national championship": RoundChampionship,
	"finals":                RoundFinals,
}

// NormalizeRound maps a feed-supplied round label to its canonical form.
// Unrecognized labels come back lower-cased with underscores so they still
// group and sort stably.
func NormalizeRound(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.Trim(key, ".")
	key = strings.Join(strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(key)), " ")
	if canonical, ok := roundAliases[key]; ok {
		return canonical
	}
	return strings.ReplaceAll(key, " ", "_")
}
