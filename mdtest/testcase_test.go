package mdtest

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Arithmetic

## Test: addition
` + "```mc-expr" + `
1 + 2
` + "```" + `
` + "```ast" + `
(binary "+" (num 1) (num 2))
` + "```" + `

## Test: subtraction
` + "```mc-expr" + `
1 - 2
` + "```" + `
` + "```ast" + `
(binary "-" (num 1) (num 2))
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "addition")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypeExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, `(binary "+" (num 1) (num 2))`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "subtraction")
	be.Equal(t, tc2.Input, "1 - 2")
	be.Equal(t, tc2.Assertions[0].Content, `(binary "-" (num 1) (num 2))`)
}

func TestExtractTestCases_ProgramInput(t *testing.T) {
	markdown := `## Test: whole program
` + "```mc-program" + `
main() { return 42; }
` + "```" + `
` + "```asm" + `
main:
  push 42
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.Name, "whole program")
	be.Equal(t, tc.Input, "main() { return 42; }")
	be.Equal(t, tc.InputType, InputTypeProgram)
	be.Equal(t, len(tc.Assertions), 1)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeAsm)
	be.Equal(t, tc.Assertions[0].Content, "main:\n  push 42")
}

func TestExtractTestCases_MultipleAssertions(t *testing.T) {
	markdown := `## Test: multiple assertions
` + "```mc-program" + `
main() { return 1 < 2; }
` + "```" + `
` + "```ast" + `
(func "main" () (return (binary "<" (num 1) (num 2))))
` + "```" + `
` + "```asm" + `
  setl al
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc.Assertions[1].Type, AssertionTypeAsm)
}

func TestExtractTestCases_CompileError(t *testing.T) {
	markdown := `## Test: bad character
` + "```mc-program" + `
main() { return 1 @ 2; }
` + "```" + `
` + "```compile-error" + `
unexpected character
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Assertions[0].Type, AssertionTypeCompileError)
	be.Equal(t, testCases[0].Assertions[0].Content, "unexpected character")
}

func TestExtractTestCases_MissingInput(t *testing.T) {
	markdown := `## Test: no input
` + "```ast" + `
(num 1)
` + "```"

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "no input fence"))
}

func TestExtractTestCases_MissingAssertions(t *testing.T) {
	markdown := `## Test: no assertions
` + "```mc-expr" + `
1 + 2
` + "```"

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "no assertion fences"))
}

func TestExtractTestCases_UnknownFence(t *testing.T) {
	markdown := `## Test: unknown fence
` + "```mc-expr" + `
1
` + "```" + `
` + "```bogus" + `
whatever
` + "```"

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown fence language 'bogus'"))
}

func TestExtractTestCases_FenceOutsideTest(t *testing.T) {
	markdown := "```mc-expr" + `
1 + 2
` + "```"

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "outside of test case"))
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: two inputs
` + "```mc-expr" + `
1
` + "```" + `
` + "```mc-expr" + `
2
` + "```" + `
` + "```ast" + `
(num 1)
` + "```"

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "multiple input fences"))
}

func TestExtractTestCases_PlainFencesIgnoredOutsideTests(t *testing.T) {
	markdown := `# Documentation

Some prose with an untagged example:

` + "```" + `
not a test
` + "```" + `

## Test: real one
` + "```mc-expr" + `
7
` + "```" + `
` + "```ast" + `
(num 7)
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Name, "real one")
}
