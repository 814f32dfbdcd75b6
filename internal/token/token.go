// Package token splits raw input lines into argument tokens, honoring
// double-quoting and backslash escaping.
package token

import (
	"strings"
	"unicode"
)

// state is the scanner state. The four states are kept explicit so the
// edge cases (trailing escape, unterminated quote) stay exhaustive.
type state uint8

const (
	// statePlain is the default state: delimiters split tokens.
	statePlain state = iota

	// stateEscape forces the next rune to be appended literally.
	stateEscape

	// stateQuote is inside a double-quoted region: delimiters are ordinary.
	stateQuote

	// stateQuoteEscape is an escape pending inside a quoted region.
	stateQuoteEscape
)

// DelimiterFunc reports whether a rune terminates the current token.
type DelimiterFunc func(r rune) bool

// Split tokenizes raw using whitespace delimiters.
func Split(raw string) []string {
	return SplitFunc(raw, unicode.IsSpace)
}

// SplitFunc tokenizes raw with a caller-supplied delimiter predicate.
//
// A backslash appends the next rune literally, even a delimiter or quote.
// An unescaped double quote toggles quoting and is consumed, not emitted.
// While quoting is active delimiters are ordinary characters. Consecutive
// delimiters never yield empty tokens. An unterminated quote or a trailing
// escape is not an error: the scan ends and whatever accumulated is
// yielded.
func SplitFunc(raw string, isDelim DelimiterFunc) []string {
	if isDelim == nil {
		isDelim = unicode.IsSpace
	}

	var (
		tokens []string
		cur    strings.Builder
		st     = statePlain
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range raw {
		switch st {
		case statePlain:
			switch {
			case r == '\\':
				st = stateEscape
			case r == '"':
				st = stateQuote
			case isDelim(r):
				flush()
			default:
				cur.WriteRune(r)
			}

		case stateEscape:
			cur.WriteRune(r)
			st = statePlain

		case stateQuote:
			switch r {
			case '\\':
				st = stateQuoteEscape
			case '"':
				st = statePlain
			default:
				cur.WriteRune(r)
			}

		case stateQuoteEscape:
			cur.WriteRune(r)
			st = stateQuote
		}
	}

	flush()
	return tokens
}

// IsPathSeparator is a delimiter predicate for slash-separated vault paths.
func IsPathSeparator(r rune) bool {
	return r == '/'
}
