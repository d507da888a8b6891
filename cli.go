package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `minic - a small C compiler targeting x86-64

Usage:
    minic <command> [arguments]

Commands:
    build <file>    Compile a .mc file to assembly
    run <file>      Compile, assemble and execute a .mc file
    eval <code>     Compile inline code and print the assembly
    check <file>    Parse and type-check a .mc file
    help            Show this help message

Examples:
    minic build -o program.s fib.mc
    minic run fib.mc
    minic eval 'main() { return 42; }'
    minic check myfile.mc

Use "minic <command> -h" for more information about a command.
`)
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>.s)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minic build [-o output] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile a .mc file to x86-64 assembly\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, ".mc") + ".s"
	}

	if *verbose {
		fmt.Printf("Compiling %s to %s...\n", filename, outputFile)
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	asm := compileOrDiagnose(source, filename)

	if err := os.WriteFile(outputFile, []byte(asm), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing assembly file %s: %v\n", outputFile, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s (%d bytes)\n", outputFile, len(asm))
}

func runCommand(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minic run [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile, assemble and execute a .mc file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Compiling %s...\n", filename)
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	asm := compileOrDiagnose(source, filename)

	if *verbose {
		fmt.Printf("Generated %d bytes of assembly\n", len(asm))
		fmt.Printf("Executing...\n")
	}

	status, err := assembleAndRun(asm, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(status)
}

func evalCommand(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minic eval [-v] <code>\n")
		fmt.Fprintf(os.Stderr, "Compile inline code and print the assembly\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(1)
	}

	code := fs.Arg(0)

	if *verbose {
		fmt.Printf("Compiling: %s\n", code)
	}

	asm := compileOrDiagnose([]byte(code), "<eval>")
	fmt.Print(asm)
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minic check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and type-check a .mc file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	input := ensureNulTerminated(source)
	toks, err := Tokenize(input)
	if err != nil {
		diagnose(input, filename, err)
	}
	prog, err := Parse(toks)
	if err != nil {
		diagnose(input, filename, err)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("AST:\n%s\n", ProgramToSExpr(prog))
	}
}

// compileOrDiagnose compiles the source or prints a caret diagnostic to
// stderr and exits non-zero. No output is produced on error.
func compileOrDiagnose(source []byte, filename string) string {
	asm, err := Compile(source)
	if err != nil {
		diagnose(ensureNulTerminated(source), filename, err)
	}
	return asm
}

func diagnose(src []byte, filename string, err error) {
	if ce, ok := err.(*CompileError); ok {
		fmt.Fprintf(os.Stderr, "%s: %s\n", filename, ce.Error())
		fmt.Fprintln(os.Stderr, Diagnostic(src, ce))
	} else {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
	}
	os.Exit(1)
}

// assembleAndRun hands the generated assembly to the host toolchain and
// executes the result, returning the process exit status.
func assembleAndRun(asm, filename string) (int, error) {
	tempDir, err := os.MkdirTemp("", "minic")
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(tempDir)

	base := strings.TrimSuffix(filepath.Base(filename), ".mc")
	asmFile := filepath.Join(tempDir, base+".s")
	binFile := filepath.Join(tempDir, base)

	if err := os.WriteFile(asmFile, []byte(asm), 0644); err != nil {
		return 0, err
	}

	cc := exec.Command("cc", "-o", binFile, asmFile)
	if output, err := cc.CombinedOutput(); err != nil {
		return 0, fmt.Errorf("assembler failed: %v\nOutput: %s", err, output)
	}

	cmd := exec.Command(binFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(args)
	case "run":
		runCommand(args)
	case "eval":
		evalCommand(args)
	case "check":
		checkCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
