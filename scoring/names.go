package scoring

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"prono-league/models"
)

// NormalizeName puts a player name into the form used for every comparison:
// NFC-composed, trimmed, inner whitespace collapsed and case-folded.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Join(strings.Fields(name), " ")
	return cases.Fold().String(name)
}

// SameName reports whether two names refer to the same player.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// FindPlayer returns the roster spelling of name, or false if nobody on the
// roster matches.
func FindPlayer(roster []models.MatchPlayer, name string) (models.MatchPlayer, bool) {
	want := NormalizeName(name)
	if want == "" {
		return models.MatchPlayer{}, false
	}
	for _, p := range roster {
		if NormalizeName(p.Name) == want {
			return p, true
		}
	}
	return models.MatchPlayer{}, false
}
