package main

// TokenKind classifies a lexical unit.
type TokenKind string

const (
	NUM   TokenKind = "NUM"   // decimal integer literal
	IDENT TokenKind = "IDENT" // identifier or keyword-shaped word
	PUNCT TokenKind = "PUNCT" // operator or delimiter
	EOF   TokenKind = "EOF"   // end of input
)

// Token is one lexical unit. Keywords such as "return" or "int" lex as IDENT;
// the parser tells them apart by comparing Lit.
type Token struct {
	Kind TokenKind
	Lit  string // originating substring
	Pos  int    // byte offset into the source
	Val  int64  // parsed value, NUM only
}

// punctuators, longest first so "<=" wins over "<" and "==" over "=".
var punctuators = []string{
	"==", "!=", "<=", ">=",
	"+", "-", "*", "/", "&",
	"(", ")", "{", "}", "[", "]",
	"<", ">", "=", ";", ",",
}
