package dialect

import "strings"

type quoteState int

const (
	unquoted quoteState = iota
	inDoubleQuote
	inSingleQuote
)

// Tokenize splits line on sep, honouring single and double quotes.
func Tokenize(line string, sep rune) []string {
	var (
		fields      []string
		buf         strings.Builder
		state       = unquoted
		afterClosed bool
	)

	flush := func() {
		fields = append(fields, buf.String())
		buf.Reset()
	}

	for _, ch := range line {
		closedBefore := afterClosed
		afterClosed = false

		switch {
		case ch == '"' && state == inDoubleQuote, ch == '\'' && state == inSingleQuote:
			flush()
			state = unquoted
			afterClosed = true
		case ch == '"' && state == unquoted:
			state = inDoubleQuote
		case ch == '\'' && state == unquoted:
			state = inSingleQuote
		case ch == sep && state == unquoted:
			if !closedBefore {
				flush()
			}
		default:
			buf.WriteRune(ch)
		}
	}

	if !afterClosed {
		flush()
	}
	return fields
}

// TokenizeAll tokenizes every line with the same separator.
func TokenizeAll(lines []string, sep rune) [][]string {
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = Tokenize(line, sep)
	}
	return rows
}
