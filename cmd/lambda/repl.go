package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/runtime"
)

const historyFile = ".lambda_history"

var replCommands = []struct {
	name string
	desc string
}{
	{":all", "Print all named globals"},
	{":exit", "Exit the REPL"},
	{":help", "Print this help message"},
	{":load <file>", "Load and run a code file"},
	{":print <expr>", "Print an expression without evaluating it"},
	{":quit", "Alias for :exit"},
	{":steps on", "Print reduction steps to stderr"},
	{":steps off", "Don't print reduction steps"},
}

// runREPL drives an interactive session against rt until the user
// quits, Ctrl+D's, or presses Ctrl+C twice in a row.
func runREPL(rt *runtime.Runtime, stepsEnabled *bool) int {
	fmt.Println("Welcome to the lambda calculus interpreter")
	fmt.Println(`Type ":help" for more information`)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			f.Close()
		}
	}()

	ctrlCShouldExit := false
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			if ctrlCShouldExit {
				return 0
			}
			ctrlCShouldExit = true
			fmt.Println("(To exit, press Ctrl+C again or Ctrl+D or type :exit)")
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		ctrlCShouldExit = false

		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if exit := runLine(rt, stepsEnabled, line); exit {
			return 0
		}
	}
}

// runLine dispatches a single REPL line: a colon-command if the line
// starts with ":", otherwise a statement run through rt. It reports
// whether the REPL should exit.
func runLine(rt *runtime.Runtime, stepsEnabled *bool, line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		runLineAsCode(rt, line)
		return false
	}

	fields := strings.Fields(trimmed)
	cmd := fields[0]
	switch cmd {
	case ":e", ":ex", ":exi", ":exit", ":q", ":qu", ":qui", ":quit":
		return true
	case ":h", ":he", ":hel", ":help":
		printHelp()
	case ":s", ":st", ":ste", ":step", ":steps":
		setSteps(stepsEnabled, trimmed, fields[1:])
	case ":a", ":al", ":all":
		printAllGlobals(rt)
	case ":p", ":pr", ":pri", ":prin", ":print":
		printExpression(rt, stripPrefix(trimmed, cmd))
	case ":l", ":lo", ":loa", ":load":
		loadFile(rt, stripPrefix(trimmed, cmd))
	default:
		runLineAsCode(rt, line)
	}
	return false
}

func stripPrefix(line, prefix string) string {
	rest := strings.TrimPrefix(strings.TrimSpace(line), prefix)
	return strings.TrimSpace(rest)
}

func printHelp() {
	maxLen := 0
	for _, c := range replCommands {
		if len(c.name) > maxLen {
			maxLen = len(c.name)
		}
	}
	for _, c := range replCommands {
		fmt.Printf("%-*s  %s\n", maxLen, c.name, c.desc)
	}
	fmt.Println("\nPress Ctrl+C to abort current input, Ctrl+D to exit the REPL")
}

func setSteps(stepsEnabled *bool, line string, args []string) {
	if len(args) == 0 {
		if *stepsEnabled {
			fmt.Println("Reduction steps are on")
		} else {
			fmt.Println("Reduction steps are off")
		}
		return
	}
	switch args[0] {
	case "on", "1", "true":
		if len(args) == 1 {
			*stepsEnabled = true
			return
		}
	case "off", "0", "false":
		if len(args) == 1 {
			*stepsEnabled = false
			return
		}
	}
	fmt.Printf("Expecting either \":steps on\" or \":steps off\", given %q\n", line)
}

func printAllGlobals(rt *runtime.Runtime) {
	all := rt.Globals().All()
	maxLen := 1
	for _, g := range all {
		if len(g.Name) > maxLen {
			maxLen = len(g.Name)
		}
	}
	for _, g := range all {
		fmt.Printf("%-*s = %s\n", maxLen, g.Name, rt.Print(g.Value))
	}
}

func printExpression(rt *runtime.Runtime, source string) {
	results, diags := rt.Load(source, "<print>", false)
	if len(diags) > 0 {
		fmt.Println(diagnostics.FormatDiagnostics(diags, true))
		return
	}
	for _, r := range results {
		fmt.Println(rt.Print(r.Value))
	}
}

func loadFile(rt *runtime.Runtime, filename string) {
	fmt.Printf("Loading file: %s\n", filename)
	source, err := readFileOrStdin(filename)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		return
	}

	fmt.Println("Running code...")
	results, diags := rt.Load(source, filename, true)
	if len(diags) > 0 {
		fmt.Println(diagnostics.FormatDiagnostics(diags, true))
	}
	for _, r := range results {
		fmt.Println(rt.Print(r.Value))
	}
}

func runLineAsCode(rt *runtime.Runtime, line string) {
	result, diags := rt.Eval(line, "<repl>")
	if len(diags) > 0 {
		fmt.Println(diagnostics.FormatDiagnostics(diags, true))
		return
	}
	if result.Name != "" {
		return
	}
	if result.Value != nil {
		fmt.Println(rt.Print(result.Value))
	}
}
