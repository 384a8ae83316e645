// Package runtime provides the top-level interpreter orchestrator: it
// owns the persistent global arena and table shared by every file a
// session loads, and drives parsing, resolution, and reduction for
// each statement in turn.
package runtime

import (
	"fmt"
	"strings"

	"github.com/lambdacalc/lambda/pkg/arena"
	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/parser"
	"github.com/lambdacalc/lambda/pkg/printer"
	"github.com/lambdacalc/lambda/pkg/reducer"
	"github.com/lambdacalc/lambda/pkg/resolver"
)

// StepEvent is reported to a Trace callback once per reduction step
// across every statement a Load or Eval call processes.
type StepEvent struct {
	Statement int
	Step      int
	Expr      *expr.Expr
}

// Result holds the outcome of evaluating one bare-expression
// statement: its final form and how many reduction passes it took.
type Result struct {
	Name  string // empty for a bare expression statement
	Value *expr.Expr
	Steps int
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithMaxSteps bounds how many reduction passes any single statement
// may take before Load or Eval reports an E_REDUCTION_LIMIT diagnostic.
// A nil limit (the default) means no bound.
func WithMaxSteps(n int) Option {
	return func(rt *Runtime) {
		rt.maxSteps = &n
	}
}

// WithTrace registers a callback invoked once per reported reduction
// step, across every statement processed by Load or Eval.
func WithTrace(fn func(StepEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// Runtime wires together the resolver, reducer, and parser around one
// persistent global arena and table. A Runtime is not safe for
// concurrent use: callers running multiple sessions in parallel should
// create one Runtime per goroutine.
type Runtime struct {
	globalArena *arena.Arena[expr.Expr]
	global      *expr.Factory
	globals     *resolver.GlobalTable
	builder     *resolver.Builder

	maxSteps *int
	trace    func(StepEvent)

	stmtCount int
}

// New creates a Runtime with an empty global table.
func New(opts ...Option) *Runtime {
	globalArena := arena.New[expr.Expr]()
	global := expr.NewFactory(globalArena)
	globals := resolver.NewGlobalTable()

	rt := &Runtime{
		globalArena: globalArena,
		global:      global,
		globals:     globals,
		builder:     resolver.NewBuilder(global, globals),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Globals exposes the runtime's global table, mainly so a REPL can
// offer name completion or a `:all` listing of bindings.
func (rt *Runtime) Globals() *resolver.GlobalTable {
	return rt.globals
}

// Load parses source and resolves every statement in it against the
// runtime's shared global table. Assignments update the table as a
// side effect; bare-expression statements are resolved and, if reduce
// is set, also reduced to normal form. It returns one Result per
// bare-expression statement together with any diagnostics produced
// while parsing or reducing.
func (rt *Runtime) Load(source, filename string, reduce bool) ([]Result, []diagnostics.Diagnostic) {
	stmts, diags := parser.Parse(source, filename, rt.builder, func() *expr.Factory {
		return expr.NewFactory(arena.New[expr.Expr]())
	})
	if len(diags) > 0 {
		return nil, diags
	}

	var results []Result
	for _, stmt := range stmts {
		rt.stmtCount++
		if stmt.Name != "" {
			continue
		}

		if !reduce {
			results = append(results, Result{Value: stmt.Expr})
			continue
		}

		value, steps, err := rt.reduce(stmt.Factory, stmt.Expr, rt.stmtCount-1)
		if err != nil {
			diags = append(diags, diagFromErr(err, stmt.Span))
			continue
		}
		results = append(results, Result{Value: value, Steps: steps})
	}
	return results, diags
}

// Eval parses and reduces a single statement. If source is an
// assignment, the returned Result carries the declared name and its
// unreduced right-hand side (global definitions are stored as written
// and only expanded lazily, matching Load's treatment of assignments);
// if it is a bare expression, the Result carries its normal form.
func (rt *Runtime) Eval(source, filename string) (Result, []diagnostics.Diagnostic) {
	stmts, diags := parser.Parse(source, filename, rt.builder, func() *expr.Factory {
		return expr.NewFactory(arena.New[expr.Expr]())
	})
	if len(diags) > 0 {
		return Result{}, diags
	}
	if len(stmts) == 0 {
		return Result{}, nil
	}

	stmt := stmts[len(stmts)-1]
	rt.stmtCount++
	if stmt.Name != "" {
		return Result{Name: stmt.Name, Value: stmt.Expr}, nil
	}

	value, steps, err := rt.reduce(stmt.Factory, stmt.Expr, rt.stmtCount-1)
	if err != nil {
		return Result{}, []diagnostics.Diagnostic{diagFromErr(err, stmt.Span)}
	}
	return Result{Value: value, Steps: steps}, nil
}

// Print renders e using the literal de Bruijn printer.
func (rt *Runtime) Print(e *expr.Expr) string {
	return printer.Print(e)
}

func (rt *Runtime) reduce(target *expr.Factory, e *expr.Expr, stmtIndex int) (*expr.Expr, int, error) {
	r := reducer.New(target, rt.globals)
	var observe reducer.Observer
	if rt.trace != nil {
		observe = func(step int, e *expr.Expr) {
			rt.trace(StepEvent{Statement: stmtIndex, Step: step, Expr: e})
		}
	}
	return r.Reduce(e, reducer.Budget{MaxSteps: rt.maxSteps}, observe)
}

func diagFromErr(err error, span diagnostics.Span) diagnostics.Diagnostic {
	switch e := err.(type) {
	case *diagnostics.UnresolvedIdentifierError:
		e.Span = span
		return diagnostics.MakeDiag(diagnostics.EUnresolvedIdentifier, e.Error(), &span, "")
	case *diagnostics.ReductionLimitError:
		return diagnostics.MakeDiag(diagnostics.EReductionLimit, e.Error(), &span, "")
	default:
		return diagnostics.MakeDiag(diagnostics.EIO, err.Error(), &span, "")
	}
}

// LoadError wraps diagnostics accumulated while loading a file, for
// callers that want a single error value rather than a diagnostics
// slice.
type LoadError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
