package resolver_test

import (
	"testing"

	"github.com/lambdacalc/lambda/pkg/arena"
	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/resolver"
)

func newBuilder() (*resolver.Builder, *resolver.GlobalTable) {
	a := arena.New[expr.Expr]()
	f := expr.NewFactory(a)
	globals := resolver.NewGlobalTable()
	b := resolver.NewBuilder(f, globals)
	b.SetTarget(f)
	return b, globals
}

// countApplications walks `\f.\x. f (f (... x))` and returns how many
// times f is applied.
func countApplications(t *testing.T, e *expr.Expr) int {
	t.Helper()
	if e.Kind() != expr.KindLambda || e.Name() != "f" {
		t.Fatalf("expected outer \\f binder, got %s", e.Kind())
	}
	inner := e.Body()
	if inner.Kind() != expr.KindLambda || inner.Name() != "x" {
		t.Fatalf("expected inner \\x binder, got %s", inner.Kind())
	}
	body := inner.Body()
	count := 0
	for body.Kind() == expr.KindApply {
		if body.Func().Kind() != expr.KindTerm || body.Func().Index() != 2 {
			t.Fatalf("expected application of f (Term 2), got %s", body.Func().Kind())
		}
		count++
		body = body.Arg()
	}
	if body.Kind() != expr.KindTerm || body.Index() != 1 {
		t.Fatalf("expected base case Term 1, got %s index %v", body.Kind(), body)
	}
	return count
}

func TestNumberRoundTrip(t *testing.T) {
	for n := uint64(0); n < 256; n++ {
		b, _ := newBuilder()
		got := countApplications(t, b.Number(n))
		if uint64(got) != n {
			t.Fatalf("Number(%d) has %d applications of f, want %d", n, got, n)
		}
	}
}

func TestNumberMemoizationSharesPrefix(t *testing.T) {
	b, _ := newBuilder()
	five := b.Number(5)
	fivePrefix := five.Body().Body()

	ten := b.Number(10)
	node := ten.Body().Body()
	for i := 0; i < 5; i++ {
		node = node.Arg()
	}
	if node != fivePrefix {
		t.Fatalf("Number(10) does not reuse Number(5)'s memoized prefix")
	}
}

func TestIdentBoundVariable(t *testing.T) {
	b, _ := newBuilder()
	b.StartLambda("x")
	b.StartLambda("y")
	got := b.Ident("x")
	if got.Kind() != expr.KindTerm || got.Index() != 2 {
		t.Fatalf("Ident(x) under \\x y = %v, want Term(2)", got)
	}
	got = b.Ident("y")
	if got.Kind() != expr.KindTerm || got.Index() != 1 {
		t.Fatalf("Ident(y) under \\x y = %v, want Term(1)", got)
	}
}

func TestIdentUnknownIsDanglingNotAnError(t *testing.T) {
	b, globals := newBuilder()
	ref := b.Ident("mystery")
	if ref.Kind() != expr.KindTerm || !resolver.IsGlobal(ref.Index()) {
		t.Fatalf("Ident(mystery) = %v, want a global-slot Term", ref)
	}
	if _, ok := globals.Lookup(ref.Index()); ok {
		t.Fatalf("expected mystery to remain unbound until declared")
	}
}

func TestAssignmentShadowing(t *testing.T) {
	b, globals := newBuilder()
	valA := b.Number(1)
	b.DeclareGlobal("x", valA, diagnostics.Span{})

	ref := b.Ident("x")

	valB := b.Number(2)
	b.DeclareGlobal("x", valB, diagnostics.Span{})

	got, ok := globals.Lookup(ref.Index())
	if !ok {
		t.Fatalf("expected x to resolve after shadowing")
	}
	if !expr.Equal(got, valB) {
		t.Fatalf("expected the reference built before reassignment to observe the shadowed value")
	}
	if expr.Equal(got, valA) {
		t.Fatalf("expected shadowing to replace the original binding")
	}
}

func TestSelfReferenceResolvesAfterDeclaration(t *testing.T) {
	b, globals := newBuilder()
	// y = \f.(f (y f))  -- declared while "y" is still unbound.
	b.StartLambda("f")
	selfRef := b.Ident("y")
	body := b.Apply(selfRef, []*expr.Expr{expr.NewTerm(1)})
	body = b.Apply(expr.NewTerm(1), []*expr.Expr{body})
	y := b.FinishLambda([]string{"f"}, body)
	b.DeclareGlobal("y", y, diagnostics.Span{})

	if _, ok := globals.Get("y"); !ok {
		t.Fatalf("expected y to be declared")
	}
	val, _ := globals.Get("y")
	if val != y {
		t.Fatalf("expected Get to return the declared expression")
	}
}

func TestListDesugarsToPairChain(t *testing.T) {
	b, _ := newBuilder()
	b.DeclareGlobal("pair", b.Number(0), diagnostics.Span{})
	b.DeclareGlobal("false", b.Number(0), diagnostics.Span{})

	list := b.List([]*expr.Expr{b.Number(1), b.Number(2)})
	if list.Kind() != expr.KindApply {
		t.Fatalf("List(...) = %s, want Apply", list.Kind())
	}
	if !resolver.IsGlobal(list.Func().Func().Index()) {
		t.Fatalf("expected List's head to apply the global pair")
	}
}
