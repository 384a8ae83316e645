package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lambdacalc/lambda/internal/testutil"
	"github.com/lambdacalc/lambda/pkg/arena"
	"github.com/lambdacalc/lambda/pkg/blc"
	"github.com/lambdacalc/lambda/pkg/expr"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it alongside fn's own return value.
func captureStdout(t *testing.T, fn func() int) (string, int) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	exit := fn()
	w.Close()
	os.Stdout = old

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return string(data), exit
}

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.lambda")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestCLISuccTwo(t *testing.T) {
	file := writeTempFile(t, "(succ 2)\n")
	out, exit := captureStdout(t, func() int { return cmdRun([]string{file}) })
	if exit != 0 {
		t.Fatalf("exit code %d, stdout %q", exit, out)
	}
	if got, want := strings.TrimSpace(out), `\f.\x.(f (f (f x)))`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCLIBooleanLogic(t *testing.T) {
	file := writeTempFile(t, "(and (or false true) (and true false))\n")
	out, exit := captureStdout(t, func() int { return cmdRun([]string{file}) })
	if exit != 0 {
		t.Fatalf("exit code %d, stdout %q", exit, out)
	}
	if got, want := strings.TrimSpace(out), `\x.\y.y`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCLIMapOverList(t *testing.T) {
	file := writeTempFile(t, "(map (+ 5) [2 4 6])\n")
	out, exit := captureStdout(t, func() int { return cmdRun([]string{file}) })
	if exit != 0 {
		t.Fatalf("exit code %d, stdout %q", exit, out)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty output")
	}
}

func TestCLIEncodeTermTrue(t *testing.T) {
	out, exit := captureStdout(t, func() int {
		return cmdEncode([]string{"--term", "true"})
	})
	if exit != 0 {
		t.Fatalf("exit code %d, stdout %q", exit, out)
	}
	if got, want := strings.TrimSpace(out), "0000110"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCLIDecodeChurchThree(t *testing.T) {
	input := "000001110011100111010"
	path := filepath.Join(t.TempDir(), "church3.blc")
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	out, exit := captureStdout(t, func() int { return cmdDecode([]string{path}) })
	if exit != 0 {
		t.Fatalf("exit code %d, stdout %q", exit, out)
	}
	if got, want := strings.TrimSpace(out), `\x1.\x2.(x1 (x1 (x1 x2)))`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// Cross-check against the codec directly: the decoded bitstream
	// must be structurally equal to Church 3, independent of the
	// binder names the CLI happens to print.
	f := expr.NewFactory(arena.New[expr.Expr]())
	decoded, err := blc.Decode(input, blc.ASCII(), f)
	if err != nil {
		t.Fatalf("blc.Decode: %v", err)
	}
	if !expr.Equal(decoded, testutil.ChurchNumeral(f, 3)) {
		t.Fatalf("decoded expression is not structurally Church 3")
	}
}

func TestCLIEvaluateThenEncode(t *testing.T) {
	file := writeTempFile(t, "test = \\n.\\f x.(f (n f x))\n")
	out, exit := captureStdout(t, func() int {
		return cmdEncode([]string{file, "--term", "(test 2)", "--evaluate"})
	})
	if exit != 0 {
		t.Fatalf("exit code %d, stdout %q", exit, out)
	}

	f := expr.NewFactory(arena.New[expr.Expr]())
	want := blc.Encode(testutil.ChurchNumeral(f, 3), blc.ASCII())
	if got := strings.TrimSpace(out); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
