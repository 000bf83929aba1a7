// Package matching resolves externally-sourced team names to canonical catalog
// teams. The normalizer and scorer are pure functions; the Resolver adds the
// catalog side effect of caching confirmed external ids.
package matching

import "strings"

// Schools whose trailing "St" means "State". "St" anywhere else is left alone
// so "St Johns" and friends keep their Saint prefix.
var stateAbbreviationSchools = map[string]bool{
	"ohio":          true,
	"michigan":      true,
	"iowa":          true,
	"kansas":        true,
	"oklahoma":      true,
	"penn":          true,
	"florida":       true,
	"mississippi":   true,
	"arizona":       true,
	"oregon":        true,
	"washington":    true,
	"colorado":      true,
	"utah":          true,
	"texas":         true,
	"georgia":       true,
	"alabama":       true,
	"louisiana":     true,
	"murray":        true,
	"wichita":       true,
	"fresno":        true,
	"boise":         true,
	"san diego":     true,
	"san jose":      true,
	"norfolk":       true,
	"morehead":      true,
	"cleveland":     true,
	"kent":          true,
	"ball":          true,
	"appalachian":   true,
	"arkansas":      true,
	"kennesaw":      true,
	"montana":       true,
	"new mexico":    true,
	"north dakota":  true,
	"south dakota":  true,
	"jacksonville":  true,
	"youngstown":    true,
	"weber":         true,
	"portland":      true,
	"sacramento":    true,
	"mcneese":       true,
	"nicholls":      true,
	"grambling":     true,
	"alcorn":        true,
	"coppin":        true,
	"delaware":      true,
	"morgan":        true,
	"tennessee":     true,
	"missouri":      true,
	"illinois":      true,
	"indiana":       true,
	"long beach":    true,
	"cal":           true,
	"east carolina": true,
}

// Mascot words stripped before comparison. Single words only; multi-word
// mascots ("Blue Devils", "Tar Heels") fall out because each word is listed.
var mascotWords = map[string]bool{
	"aggies": true, "badgers": true, "bears": true, "bearcats": true,
	"blue": true, "bluejays": true, "boilermakers": true, "broncos": true,
	"bruins": true, "buckeyes": true, "bulldogs": true, "cardinals": true,
	"catamounts": true, "cavaliers": true, "commodores": true, "cornhuskers": true,
	"cougars": true, "cowboys": true, "crimson": true, "cyclones": true,
	"demon": true, "deacons": true, "devils": true, "ducks": true,
	"eagles": true, "gaels": true, "gators": true, "golden": true,
	"gophers": true, "hawkeyes": true, "heels": true, "hoosiers": true,
	"hoyas": true, "huskies": true, "jayhawks": true, "longhorns": true,
	"lobos": true, "mountaineers": true, "musketeers": true, "orange": true,
	"owls": true, "panthers": true, "pirates": true, "raiders": true,
	"ramblers": true, "rams": true, "razorbacks": true, "rebels": true,
	"red": true, "scarlet": true, "shockers": true, "sooners": true,
	"spartans": true, "sun": true, "tar": true, "terrapins": true,
	"tide": true, "tigers": true, "titans": true, "trojans": true,
	"utes": true, "volunteers": true, "wildcats": true, "wolfpack": true,
	"wolverines": true, "zips": true,
}

// Parenthetical disambiguators seen in feed names, e.g. "Loyola (Chi)".
var parentheticalExpansions = map[string]string{
	"chi":  "chicago",
	"il":   "illinois",
	"fl":   "florida",
	"fla":  "florida",
	"ny":   "new york",
	"oh":   "ohio",
	"md":   "maryland",
	"pa":   "pennsylvania",
	"ca":   "california",
	"calif": "california",
	"la":   "los angeles",
	"tx":   "texas",
}

var namePunctuationReplacer = strings.NewReplacer(
	"'", "", "’", "", "`", "",
	".", " ", ",", " ", "-", " ", "&", " ", "/", " ", "_", " ",
)

// Normalize reduces a team name to a comparable form: lower-case, punctuation
// and apostrophes gone, "Univ."/"St" expansions applied, mascot words dropped,
// parentheticals expanded, whitespace collapsed. Total and idempotent; never
// returns an error and never empties a name outright.
func Normalize(name string) string {
	s := strings.ToLower(name)
	s = expandParentheticals(s)
	s = namePunctuationReplacer.Replace(s)

	words := strings.Fields(s)
	expanded := make([]string, 0, len(words))
	for i, w := range words {
		switch w {
		case "univ", "university":
			expanded = append(expanded, "university")
		case "st":
			if stateAbbreviationSchools[strings.Join(words[:i], " ")] {
				expanded = append(expanded, "state")
			} else {
				expanded = append(expanded, w)
			}
		default:
			expanded = append(expanded, w)
		}
	}

	kept := make([]string, 0, len(expanded))
	for _, w := range expanded {
		if !mascotWords[w] {
			kept = append(kept, w)
		}
	}
	// A pure mascot name ("Wildcats") must not normalize to nothing.
	if len(kept) == 0 {
		kept = expanded
	}

	return strings.Join(kept, " ")
}

func expandParentheticals(s string) string {
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return s
		}
		close := strings.IndexByte(s[open:], ')')
		if close < 0 {
			return strings.Replace(s, "(", " ", 1)
		}
		close += open
		inner := strings.TrimSpace(strings.Trim(s[open+1:close], "."))
		if full, ok := parentheticalExpansions[inner]; ok {
			inner = full
		}
		s = s[:open] + " " + inner + " " + s[close+1:]
	}
}
