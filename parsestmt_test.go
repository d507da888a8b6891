package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func parseProgram(t *testing.T, inputStr string) *Program {
	t.Helper()
	toks := lexInput(t, inputStr)
	prog, err := Parse(toks)
	be.Err(t, err, nil)
	return prog
}

func TestParseMinimalFunction(t *testing.T) {
	prog := parseProgram(t, "main() { return 42; }")
	be.Equal(t, len(prog.Funcs), 1)
	be.Equal(t, FuncToSExpr(prog.Funcs[0]), `(func "main" () (return (num 42)))`)
}

func TestParseTypedFunction(t *testing.T) {
	// The leading typespec is optional; with or without it the result is the
	// same function.
	prog := parseProgram(t, "int main() { return 42; }")
	be.Equal(t, FuncToSExpr(prog.Funcs[0]), `(func "main" () (return (num 42)))`)
}

func TestParseMultipleFunctions(t *testing.T) {
	prog := parseProgram(t, "one() { return 1; } two() { return 2; }")
	be.Equal(t, len(prog.Funcs), 2)
	be.Equal(t, prog.Funcs[0].Name, "one")
	be.Equal(t, prog.Funcs[1].Name, "two")
}

func TestParseParams(t *testing.T) {
	prog := parseProgram(t, "add(a, b) { return a + b; }")
	fn := prog.Funcs[0]
	be.Equal(t, FuncToSExpr(fn), `(func "add" ("a" "b") (return (binary "+" (var "a") (var "b"))))`)
	be.Equal(t, len(fn.Params), 2)
	be.Equal(t, len(fn.Locals), 2) // params are locals too
}

func TestParseTypedParams(t *testing.T) {
	prog := parseProgram(t, "deref(int *p) { return *p; }")
	fn := prog.Funcs[0]
	be.Equal(t, fn.Params[0].Type.Kind, TypePtr)
	be.Equal(t, fn.Params[0].Type.Base.Kind, TypeInt)
}

func TestTooManyParams(t *testing.T) {
	toks := lexInput(t, "f(a, b, c, d, e, g, h) { return 0; }")
	_, err := Parse(toks)
	be.True(t, err != nil)

	ce, ok := err.(*CompileError)
	be.True(t, ok)
	be.Equal(t, ce.Kind, ParseError)
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1;", `(expr-stmt (num 1))`},
		{"return 1;", `(return (num 1))`},
		{"{ 1; 2; }", `(block (expr-stmt (num 1)) (expr-stmt (num 2)))`},
		{"{ }", `(block)`},
		{"if (1) 2;", `(if (num 1) (expr-stmt (num 2)))`},
		{"if (1) 2; else 3;", `(if (num 1) (expr-stmt (num 2)) (expr-stmt (num 3)))`},
		{"while (1) 2;", `(while (num 1) (expr-stmt (num 2)))`},
		{"for (;;) 1;", `(for () () () (expr-stmt (num 1)))`},
		{"for (i = 0; i < 3; i = i + 1) 2;",
			`(for (expr-stmt (assign (var "i") (num 0))) (binary "<" (var "i") (num 3)) (expr-stmt (assign (var "i") (binary "+" (var "i") (num 1)))) (expr-stmt (num 2)))`},
	}

	for _, tt := range tests {
		prog := parseProgram(t, "main() { "+tt.input+" }")
		fn := prog.Funcs[0]
		be.Equal(t, len(fn.Body), 1)
		be.Equal(t, ToSExpr(fn.Body[0]), tt.expected)
	}
}

func TestNestedIf(t *testing.T) {
	// else binds to the nearest if
	prog := parseProgram(t, "main() { if (1) if (2) 3; else 4; }")
	be.Equal(t, ToSExpr(prog.Funcs[0].Body[0]),
		`(if (num 1) (if (num 2) (expr-stmt (num 3)) (expr-stmt (num 4))))`)
}

func TestParseDeclaration(t *testing.T) {
	// A declaration without an initializer produces no code.
	prog := parseProgram(t, "main() { int x; return 0; }")
	fn := prog.Funcs[0]
	be.Equal(t, ToSExpr(fn.Body[0]), `(block)`)
	be.Equal(t, len(fn.Locals), 1)
	be.Equal(t, fn.Locals[0].Name, "x")
	be.Equal(t, fn.Locals[0].Type.Kind, TypeInt)
}

func TestParseDeclarationWithInit(t *testing.T) {
	prog := parseProgram(t, "main() { int x = 5; return x; }")
	be.Equal(t, ToSExpr(prog.Funcs[0].Body[0]), `(expr-stmt (assign (var "x") (num 5)))`)
}

func TestParsePointerDeclaration(t *testing.T) {
	prog := parseProgram(t, "main() { int **pp; return 0; }")
	v := prog.Funcs[0].Locals[0]
	be.Equal(t, v.Type.Kind, TypePtr)
	be.Equal(t, v.Type.Base.Kind, TypePtr)
	be.Equal(t, v.Type.Base.Base.Kind, TypeInt)
}

func TestParseArrayDeclaration(t *testing.T) {
	prog := parseProgram(t, "main() { int a[10]; return 0; }")
	v := prog.Funcs[0].Locals[0]
	be.Equal(t, v.Type.Kind, TypeArray)
	be.Equal(t, v.Type.Len, int64(10))
	be.Equal(t, sizeOf(v.Type), int64(40))
}

func TestDeclarationInForInit(t *testing.T) {
	prog := parseProgram(t, "main() { for (int i = 0; i < 3; i = i + 1) 1; return 0; }")
	fn := prog.Funcs[0]
	be.Equal(t, ToSExpr(fn.Body[0].Init), `(expr-stmt (assign (var "i") (num 0)))`)
	be.Equal(t, len(fn.Locals), 1)
}

func TestImplicitDeclaration(t *testing.T) {
	// First use of an undeclared name declares it as an int local.
	prog := parseProgram(t, "main() { a = 1; return a + 4; }")
	fn := prog.Funcs[0]
	be.Equal(t, len(fn.Locals), 1)
	be.Equal(t, fn.Locals[0].Name, "a")
	be.Equal(t, fn.Locals[0].Type.Kind, TypeInt)
}

func TestShadowing(t *testing.T) {
	// Redeclaring a name appends a new entry; lookup finds the newest one.
	prog := parseProgram(t, "main() { int x = 1; int x = 2; return x; }")
	fn := prog.Funcs[0]
	be.Equal(t, len(fn.Locals), 2)
	be.True(t, fn.Locals[0].Offset != fn.Locals[1].Offset)

	// The final reference resolves to the second x.
	ret := fn.Body[2]
	be.Equal(t, ret.Lhs.Var, fn.Locals[1])
}

func TestLocalsAreResetPerFunction(t *testing.T) {
	prog := parseProgram(t, "one() { int x; return 0; } two() { int y; return 0; }")
	be.Equal(t, len(prog.Funcs[0].Locals), 1)
	be.Equal(t, len(prog.Funcs[1].Locals), 1)
	be.Equal(t, prog.Funcs[1].Locals[0].Name, "y")
}

func TestStackOffsets(t *testing.T) {
	// Offsets start past the 32-byte callee-saved region and respect natural
	// alignment. Frame size rounds up to 16.
	prog := parseProgram(t, "main() { int a; int b; return 0; }")
	fn := prog.Funcs[0]
	be.Equal(t, fn.Locals[0].Offset, int64(36))
	be.Equal(t, fn.Locals[1].Offset, int64(40))
	be.Equal(t, fn.StackSize, int64(48))
}

func TestStackOffsetAlignment(t *testing.T) {
	// An int followed by a pointer forces the pointer's slot to 8-byte
	// alignment.
	prog := parseProgram(t, "main() { int a; int *p; return 0; }")
	fn := prog.Funcs[0]
	be.Equal(t, fn.Locals[0].Offset, int64(36))
	be.Equal(t, fn.Locals[1].Offset, int64(48))
	be.Equal(t, fn.StackSize, int64(48))
}

func TestEmptyFunctionStackSize(t *testing.T) {
	prog := parseProgram(t, "main() { return 0; }")
	be.Equal(t, prog.Funcs[0].StackSize, int64(32))
}

func TestParseStatementErrors(t *testing.T) {
	tests := []struct {
		input string
		desc  string
	}{
		{"main() { return 1 }", "missing semicolon"},
		{"main() { if 1) 2; }", "missing open paren"},
		{"main() { int; }", "declaration without a name"},
		{"main() { int a[]; }", "array without a length"},
		{"main() {", "unterminated body"},
		{"main(", "unterminated parameter list"},
		{"42() { return 1; }", "number as function name"},
	}

	for _, tt := range tests {
		toks := lexInput(t, tt.input)
		_, err := Parse(toks)
		be.True(t, err != nil)

		ce, ok := err.(*CompileError)
		be.True(t, ok)
		be.Equal(t, ce.Kind, ParseError)
	}
}
