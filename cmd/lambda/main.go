// Command lambda is the native CLI for the interpreter: running
// source files, dropping into a REPL, and encoding/decoding Binary
// Lambda Calculus.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lambdacalc/lambda/pkg/arena"
	"github.com/lambdacalc/lambda/pkg/blc"
	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/prelude"
	"github.com/lambdacalc/lambda/pkg/printer"
	"github.com/lambdacalc/lambda/pkg/reducer"
	"github.com/lambdacalc/lambda/pkg/resolver"
	"github.com/lambdacalc/lambda/pkg/runtime"
)

const usage = `usage: lambda [FILES...] [-i|--interactive] [-s|--steps]
       lambda encode FILES... --term NAME [--evaluate] [--binary | --zero S --one S | --zero-width]
       lambda decode [FILE] [--evaluate] [--binary | --zero S --one S | --zero-width]
`

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "encode":
			os.Exit(cmdEncode(args[1:]))
		case "decode":
			os.Exit(cmdDecode(args[1:]))
		case "help", "--help", "-h":
			fmt.Print(usage)
			os.Exit(0)
		}
	}
	os.Exit(cmdRun(args))
}

func cmdRun(args []string) int {
	var files []string
	interactive := false
	stepsEnabled := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-i", "--interactive":
			interactive = true
		case "-s", "--steps":
			stepsEnabled = true
		default:
			if strings.HasPrefix(args[i], "-") {
				fmt.Fprintf(os.Stderr, "unknown flag: %s\n%s", args[i], usage)
				return 1
			}
			files = append(files, args[i])
		}
	}

	var rt *runtime.Runtime
	rt = runtime.New(runtime.WithTrace(func(ev runtime.StepEvent) {
		if stepsEnabled {
			fmt.Fprintf(os.Stderr, "[stmt %d step %d] %s\n", ev.Statement, ev.Step, rt.Print(ev.Expr))
		}
	}))

	if _, diags := rt.Load(prelude.Source, "prelude", false); len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, true))
		return 4
	}

	exitCode := 0
	for _, file := range files {
		source, err := readFileOrStdin(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		results, diags := rt.Load(source, file, true)
		if len(diags) > 0 {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, true))
			exitCode = maxExit(exitCode, exitCodeForDiags(diags))
		}
		for _, r := range results {
			fmt.Println(rt.Print(r.Value))
		}
	}

	shouldEnterInteractive := interactive || len(files) == 0
	if shouldEnterInteractive {
		return runREPL(rt, &stepsEnabled)
	}

	return exitCode
}

func readFileOrStdin(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", &diagnostics.IOError{Path: "<stdin>", Err: err}
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &diagnostics.IOError{Path: path, Err: err}
	}
	return string(data), nil
}

func exitCodeForDiags(diags []diagnostics.Diagnostic) int {
	code := 0
	for _, d := range diags {
		code = maxExit(code, exitCodeForDiag(d.Code))
	}
	return code
}

func exitCodeForDiag(code string) int {
	switch code {
	case diagnostics.EParse:
		return 2
	case diagnostics.EUnresolvedIdentifier:
		return 3
	case diagnostics.EReductionLimit, diagnostics.EMalformedBLC:
		return 4
	case diagnostics.EIO:
		return 1
	default:
		return 4
	}
}

func maxExit(a, b int) int {
	if b > a {
		return b
	}
	return a
}

// codecFlags are the alphabet-selection flags shared by encode and
// decode: raw binary packing, a custom zero/one token pair, or the
// zero-width Unicode pair (which also supplies its own zero/one
// defaults unless overridden).
type codecFlags struct {
	binary    bool
	zeroWidth bool
	zero      string
	one       string
	zeroSet   bool
	oneSet    bool
}

func (c codecFlags) alphabet() (blc.Alphabet, error) {
	zero, one := c.zero, c.one
	if zero == "" {
		zero = "0"
	}
	if one == "" {
		one = "1"
	}
	if c.zeroWidth {
		if !c.zeroSet {
			zero = "ﾠ"
		}
		if !c.oneSet {
			one = "ㅤ"
		}
	}
	if zero == one {
		return nil, fmt.Errorf("--zero and --one must be different values")
	}
	if !c.zeroSet && !c.oneSet && !c.zeroWidth {
		return blc.ASCII(), nil
	}
	return blc.CustomAlphabet(zero, one), nil
}

func cmdEncode(args []string) int {
	var files []string
	var term string
	evaluate := false
	flags := codecFlags{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--term":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "--term requires a value")
				return 1
			}
			term = args[i]
		case "--evaluate":
			evaluate = true
		case "--binary":
			flags.binary = true
		case "--zero-width":
			flags.zeroWidth = true
		case "--zero":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "--zero requires a value")
				return 1
			}
			flags.zero, flags.zeroSet = args[i], true
		case "--one":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "--one requires a value")
				return 1
			}
			flags.one, flags.oneSet = args[i], true
		default:
			files = append(files, args[i])
		}
	}

	if term == "" {
		fmt.Fprintln(os.Stderr, "encode requires --term NAME")
		return 1
	}

	rt := runtime.New()
	if _, diags := rt.Load(prelude.Source, "prelude", false); len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, true))
		return 4
	}
	for _, file := range files {
		source, err := readFileOrStdin(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, diags := rt.Load(source, file, false); len(diags) > 0 {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, true))
			return exitCodeForDiags(diags)
		}
	}

	var e *expr.Expr
	if evaluate {
		result, diags := rt.Eval(term, "<encode>")
		if len(diags) > 0 {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, true))
			return exitCodeForDiags(diags)
		}
		e = result.Value
	} else {
		v, ok := rt.Globals().Get(term)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown term: %s\n", term)
			return 3
		}
		e = v
	}

	if flags.binary {
		if _, err := os.Stdout.Write(blc.EncodeBytes(e)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	alphabet, err := flags.alphabet()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(blc.Encode(e, alphabet))
	return 0
}

func cmdDecode(args []string) int {
	var file string
	evaluate := false
	flags := codecFlags{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--evaluate":
			evaluate = true
		case "--binary":
			flags.binary = true
		case "--zero-width":
			flags.zeroWidth = true
		case "--zero":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "--zero requires a value")
				return 1
			}
			flags.zero, flags.zeroSet = args[i], true
		case "--one":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "--one requires a value")
				return 1
			}
			flags.one, flags.oneSet = args[i], true
		default:
			file = args[i]
		}
	}

	f := expr.NewFactory(arena.New[expr.Expr]())

	var e *expr.Expr
	if flags.binary {
		data, err := readBytesOrStdin(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		decoded, derr := blc.DecodeBytes(data, f)
		if derr != nil {
			fmt.Fprintln(os.Stderr, derr)
			return exitCodeForDiag(diagnostics.EMalformedBLC)
		}
		e = decoded
	} else {
		source, err := readFileOrStdin(orDash(file))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		alphabet, aerr := flags.alphabet()
		if aerr != nil {
			fmt.Fprintln(os.Stderr, aerr)
			return 1
		}
		decoded, derr := blc.Decode(source, alphabet, f)
		if derr != nil {
			fmt.Fprintln(os.Stderr, derr)
			return exitCodeForDiag(diagnostics.EMalformedBLC)
		}
		e = decoded
	}

	if evaluate {
		r := reducer.New(f, resolver.NewGlobalTable())
		result, _, err := r.Reduce(e, reducer.Budget{}, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeForDiag(diagnostics.EUnresolvedIdentifier)
		}
		e = result
	}

	fmt.Println(printer.Print(e))
	return 0
}

func orDash(file string) string {
	if file == "" {
		return "-"
	}
	return file
}

func readBytesOrStdin(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, &diagnostics.IOError{Path: "<stdin>", Err: err}
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &diagnostics.IOError{Path: path, Err: err}
	}
	return data, nil
}
