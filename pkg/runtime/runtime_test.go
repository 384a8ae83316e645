package runtime

import (
	"testing"

	"github.com/lambdacalc/lambda/pkg/arena"
	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/prelude"

	"github.com/lambdacalc/lambda/internal/testutil"
)

func TestLoadAssignmentThenEvalReference(t *testing.T) {
	rt := New()
	_, diags := rt.Load("id = \\x.x", "test.lambda", false)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	result, diags := rt.Eval("(id \\y.y)", "test.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got := rt.Print(result.Value); got != "\\y.y" {
		t.Fatalf("got %q, want %q", got, "\\y.y")
	}
}

func TestEvalUnresolvedGlobalReportsDiagnostic(t *testing.T) {
	rt := New()
	_, diags := rt.Eval("undefined_name", "test.lambda")
	if len(diags) != 1 || diags[0].Code != diagnostics.EUnresolvedIdentifier {
		t.Fatalf("got %v, want a single E_UNRESOLVED_IDENTIFIER diagnostic", diags)
	}
}

func TestReductionLimitExceededSurfacesDiagnostic(t *testing.T) {
	limit := 10
	rt := New(WithMaxSteps(limit))
	_, diags := rt.Eval("((\\x.(x x)) (\\x.(x x)))", "test.lambda")
	if len(diags) != 1 || diags[0].Code != diagnostics.EReductionLimit {
		t.Fatalf("got %v, want a single E_REDUCTION_LIMIT diagnostic", diags)
	}
}

func TestTraceObservesEveryStep(t *testing.T) {
	var steps []int
	rt := New(WithTrace(func(ev StepEvent) {
		steps = append(steps, ev.Step)
	}))

	if _, diags := rt.Load("succ = \\n.\\f.\\x.(f (n f x))", "test.lambda", false); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	result, diags := rt.Eval("(succ 2)", "test.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if steps[0] != 0 {
		t.Fatalf("expected the trace to start at step 0, got %v", steps)
	}
	if len(steps) != result.Steps+1 {
		t.Fatalf("expected %d trace events (step 0 plus one per reduction), got %d", result.Steps+1, len(steps))
	}
}

func mustLoadPrelude(t *testing.T, rt *Runtime) {
	t.Helper()
	if _, diags := rt.Load(prelude.Source, "prelude", false); len(diags) != 0 {
		t.Fatalf("failed to load prelude: %v", diags)
	}
}

func TestPreludeSuccTwo(t *testing.T) {
	rt := New()
	mustLoadPrelude(t, rt)

	result, diags := rt.Eval("(succ 2)", "scenario.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got, want := rt.Print(result.Value), "\\f.\\x.(f (f (f x)))"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPreludeBooleanLogic(t *testing.T) {
	rt := New()
	mustLoadPrelude(t, rt)

	result, diags := rt.Eval("(and (or false true) (and true false))", "scenario.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got, want := rt.Print(result.Value), "\\x.\\y.y"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPreludeMapOverList(t *testing.T) {
	rt := New()
	mustLoadPrelude(t, rt)

	result, diags := rt.Eval("(map (+ 5) [2 4 6])", "scenario.lambda")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	oracle := expr.NewFactory(arena.New[expr.Expr]())
	want := testutil.ChurchList(oracle, testutil.ChurchNumeral(oracle, 7), testutil.ChurchNumeral(oracle, 9), testutil.ChurchNumeral(oracle, 11))
	if !expr.Equal(result.Value, want) {
		t.Fatalf("got %s, want a pair chain structurally equal to [7 9 11]", rt.Print(result.Value))
	}
}
