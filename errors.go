package main

import (
	"fmt"
	"strings"
)

// ErrorKind says which phase rejected the input.
type ErrorKind string

const (
	LexError   ErrorKind = "LexError"
	ParseError ErrorKind = "ParseError"
	TypeError  ErrorKind = "TypeError"
)

// CompileError is the single error type produced by the pipeline. The first
// error aborts compilation; there is no recovery and no multi-error report.
type CompileError struct {
	Kind ErrorKind
	Pos  int // byte offset into the source
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Pos, e.Msg)
}

func lexErrorf(pos int, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: LexError, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func parseErrorf(pos int, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ParseError, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func typeErrorf(pos int, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: TypeError, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Diagnostic renders the offending source line with a caret under the bad
// column:
//
//	a = b @ c;
//	      ^ LexError: unexpected character '@'
func Diagnostic(src []byte, err *CompileError) string {
	source := strings.TrimRight(string(src), "\x00")

	pos := err.Pos
	if pos > len(source) {
		pos = len(source)
	}

	lineStart := strings.LastIndexByte(source[:pos], '\n') + 1
	lineEnd := strings.IndexByte(source[pos:], '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += pos
	}

	col := pos - lineStart
	var b strings.Builder
	b.WriteString(source[lineStart:lineEnd])
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString("^ ")
	b.WriteString(string(err.Kind))
	b.WriteString(": ")
	b.WriteString(err.Msg)
	return b.String()
}
