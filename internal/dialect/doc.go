// Package dialect infers how a delimiter-separated text file is laid out and
// splits its lines into fields.
//
// Nothing about the file is declared up front. The separator is chosen by
// counting candidate characters, quoting is handled by a small state machine
// and the presence of a header row is decided by comparing the first row with
// the rows that follow it.
//
// # Tokenizing
//
// Tokenize walks a line character by character in one of three states:
// unquoted, inside double quotes and inside single quotes. Quote characters
// are stripped from the output. A separator that directly follows a closing
// quote does not open an empty field, and an unterminated quote swallows the
// rest of the line:
//
//	dialect.Tokenize(`a,"b,c",d`, ',')  // ["a" "b,c" "d"]
//	dialect.Tokenize(`x,'y,z'`, ',')    // ["x" "y,z"]
//	dialect.Tokenize(`1;"open`, ';')    // ["1" "open"]
//
// # Separator
//
// GuessSeparator counts ';' and ',' over every line. The majority wins and a
// tie resolves to ';', reported through the returned flag so callers can log
// it.
//
// # Header
//
// DetectHeader is a pure function over tokenized rows. Each column gets a
// type from the rows after the first (numeric, or text of a fixed length) and
// votes on whether the first row disagrees with it.
package dialect
