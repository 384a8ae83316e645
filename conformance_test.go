// Package main here holds only the end-to-end conformance suite: it
// exercises the full parse/resolve/reduce/codec pipeline exactly the
// way the interpreter's documented scenarios describe it, rather than
// any single package in isolation.
package main

import (
	"strings"
	"testing"

	"github.com/lambdacalc/lambda/internal/testutil"
	"github.com/lambdacalc/lambda/pkg/arena"
	"github.com/lambdacalc/lambda/pkg/blc"
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/prelude"
	"github.com/lambdacalc/lambda/pkg/runtime"
)

func mustLoadPrelude(t *testing.T, rt *runtime.Runtime) {
	t.Helper()
	if _, diags := rt.Load(prelude.Source, "prelude", false); len(diags) != 0 {
		t.Fatalf("failed to load prelude: %v", diags)
	}
}

func TestConformanceSuccTwo(t *testing.T) {
	rt := runtime.New()
	mustLoadPrelude(t, rt)

	result, diags := rt.Eval("(succ 2)", "conformance.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got, want := rt.Print(result.Value), `\f.\x.(f (f (f x)))`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConformanceBooleanLogic(t *testing.T) {
	rt := runtime.New()
	mustLoadPrelude(t, rt)

	result, diags := rt.Eval("(and (or false true) (and true false))", "conformance.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got, want := rt.Print(result.Value), `\x.\y.y`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConformanceMapOverList(t *testing.T) {
	rt := runtime.New()
	mustLoadPrelude(t, rt)

	result, diags := rt.Eval("(map (+ 5) [2 4 6])", "conformance.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	oracle := expr.NewFactory(arena.New[expr.Expr]())
	want := testutil.ChurchList(oracle,
		testutil.ChurchNumeral(oracle, 7),
		testutil.ChurchNumeral(oracle, 9),
		testutil.ChurchNumeral(oracle, 11))
	if !expr.Equal(result.Value, want) {
		t.Fatalf("got %s, want a pair chain structurally equal to [7 9 11]", rt.Print(result.Value))
	}
}

func TestConformanceEncodeTrue(t *testing.T) {
	rt := runtime.New()
	mustLoadPrelude(t, rt)

	trueExpr, ok := rt.Globals().Get("true")
	if !ok {
		t.Fatalf("prelude does not define true")
	}
	if got, want := blc.Encode(trueExpr, blc.ASCII()), "0000110"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConformanceDecodeChurchThree(t *testing.T) {
	f := expr.NewFactory(arena.New[expr.Expr]())
	decoded, err := blc.Decode("000001110011100111010", blc.ASCII(), f)
	if err != nil {
		t.Fatalf("blc.Decode: %v", err)
	}
	if !expr.Equal(decoded, testutil.ChurchNumeral(f, 3)) {
		t.Fatalf("decoded expression is not structurally Church 3")
	}
}

func TestConformanceEvaluateThenEncode(t *testing.T) {
	rt := runtime.New()
	if _, diags := rt.Load(`test = \n.\f x.(f (n f x))`, "conformance.lambda", false); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	result, diags := rt.Eval("(test 2)", "conformance.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	encoded := blc.Encode(result.Value, blc.ASCII())

	f := expr.NewFactory(arena.New[expr.Expr]())
	decoded, err := blc.Decode("000001110011100111010", blc.ASCII(), f)
	if err != nil {
		t.Fatalf("blc.Decode: %v", err)
	}
	want := blc.Encode(decoded, blc.ASCII())

	if encoded != want {
		t.Fatalf("got %q, want %q", encoded, want)
	}
	if !strings.HasPrefix(encoded, "0000") {
		t.Fatalf("encoded Church 3 should start with two nested lambdas, got %q", encoded)
	}
}
