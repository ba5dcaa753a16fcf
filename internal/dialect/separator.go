package dialect

import "strings"

const (
	Semicolon = ';'
	Comma     = ','
)

// Dialect is the inferred layout of one file.
type Dialect struct {
	Separator rune
	HasHeader bool
}

// GuessSeparator picks ',' or ';' by majority over all lines. On a tie it
// returns ';' and tie is true.
func GuessSeparator(lines []string) (sep rune, tie bool) {
	var semicolons, commas int
	for _, line := range lines {
		semicolons += strings.Count(line, string(Semicolon))
		commas += strings.Count(line, string(Comma))
	}

	switch {
	case commas > semicolons:
		return Comma, false
	case semicolons > commas:
		return Semicolon, false
	default:
		return Semicolon, true
	}
}
