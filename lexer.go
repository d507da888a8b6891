package main

import "strings"

// Tokenize scans the whole source into a token slice ending in an EOF token.
// Input must end with a 0 byte; Compile and the CLI append one.
func Tokenize(src []byte) ([]Token, error) {
	var toks []Token
	pos := 0

	for {
		c := src[pos]

		if c == 0 {
			toks = append(toks, Token{Kind: EOF, Pos: pos})
			return toks, nil
		}

		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			pos++
			continue
		}

		if isDigit(c) {
			start := pos
			var val int64
			for isDigit(src[pos]) {
				val = val*10 + int64(src[pos]-'0')
				pos++
			}
			toks = append(toks, Token{Kind: NUM, Lit: string(src[start:pos]), Pos: start, Val: val})
			continue
		}

		if isLetter(c) {
			start := pos
			for isLetter(src[pos]) || isDigit(src[pos]) {
				pos++
			}
			toks = append(toks, Token{Kind: IDENT, Lit: string(src[start:pos]), Pos: start})
			continue
		}

		if lit := matchPunct(src, pos); lit != "" {
			toks = append(toks, Token{Kind: PUNCT, Lit: lit, Pos: pos})
			pos += len(lit)
			continue
		}

		return nil, lexErrorf(pos, "unexpected character %q", c)
	}
}

// matchPunct tries each punctuator at src[pos]; the table is ordered longest
// first so two-character operators win.
func matchPunct(src []byte, pos int) string {
	rest := src[pos:]
	for _, p := range punctuators {
		if len(rest) >= len(p) && strings.HasPrefix(string(rest[:len(p)]), p) {
			return p
		}
	}
	return ""
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
