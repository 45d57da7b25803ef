// Package token splits free-text search input into phrase and word tokens.
package token

import (
	"strings"
	"unicode"
)

// Tokenize splits raw search text into an ordered token list. Input is
// lowercased and trimmed first. Double-quoted spans become single phrase
// tokens; backslash-escaped quotes inside a span are kept literally. All
// other content is split on whitespace runs. Blank results are dropped.
func Tokenize(raw string) []string {
	s := scanner{input: []rune(Normalize(raw))}
	return s.run()
}

// Normalize lowercases and trims the raw query text. The same normalized
// form is used for whole-phrase match values, so tokens and phrases always
// derive from identical input.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

type scanner struct {
	input []rune
	pos   int
}

func (s *scanner) run() []string {
	var tokens []string
	for {
		s.skipWhitespace()
		if s.pos >= len(s.input) {
			return tokens
		}
		var tok string
		if s.input[s.pos] == '"' {
			tok = s.scanPhrase()
		} else {
			tok = s.scanWord()
		}
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) && unicode.IsSpace(s.input[s.pos]) {
		s.pos++
	}
}

// scanPhrase consumes a double-quoted span. The quotes are stripped but
// escape sequences inside are preserved as written; an unterminated span
// runs to the end of input.
func (s *scanner) scanPhrase() string {
	s.pos++ // opening quote
	var sb strings.Builder
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		if ch == '"' {
			s.pos++
			break
		}
		if ch == '\\' && s.pos+1 < len(s.input) {
			sb.WriteRune(ch)
			s.pos++
			sb.WriteRune(s.input[s.pos])
			s.pos++
			continue
		}
		sb.WriteRune(ch)
		s.pos++
	}
	return sb.String()
}

func (s *scanner) scanWord() string {
	start := s.pos
	for s.pos < len(s.input) && !unicode.IsSpace(s.input[s.pos]) && s.input[s.pos] != '"' {
		s.pos++
	}
	return string(s.input[start:s.pos])
}
