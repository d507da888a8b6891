package main

// Compile runs the whole pipeline on one source string and returns the
// generated assembly text. The input does not need the trailing NUL the lexer
// wants; it is appended here. The returned error, if any, is a *CompileError.
func Compile(src []byte) (string, error) {
	input := ensureNulTerminated(src)

	toks, err := Tokenize(input)
	if err != nil {
		return "", err
	}

	prog, err := Parse(toks)
	if err != nil {
		return "", err
	}

	return Generate(prog), nil
}

func ensureNulTerminated(src []byte) []byte {
	if len(src) > 0 && src[len(src)-1] == 0 {
		return src
	}
	return append(append([]byte(nil), src...), 0)
}
