// Package reducer implements normal-order beta reduction over Expr
// graphs, including on-demand expansion of global references.
package reducer

import (
	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/resolver"
)

// Budget limits how many reduction passes Reduce will attempt before
// giving up. A nil MaxSteps means no limit.
type Budget struct {
	MaxSteps *int
}

// Observer is called once per reported reduction step, starting with
// step 0 for the expression as built by the resolver, before any
// reduction has taken place.
type Observer func(step int, e *expr.Expr)

// Reducer drives normal-order reduction of Expr graphs built from a
// shared global table, allocating every node it builds through f.
type Reducer struct {
	f       *expr.Factory
	globals *resolver.GlobalTable
}

// New creates a Reducer. f should be backed by a per-evaluation arena:
// every intermediate term the reducer builds is thrown away once
// reduction finishes, so nothing it allocates needs to outlive the
// call to Reduce.
func New(f *expr.Factory, globals *resolver.GlobalTable) *Reducer {
	return &Reducer{f: f, globals: globals}
}

// Reduce repeatedly applies one full leftmost-outermost pass over e
// until a pass makes no further progress (normal form reached) or the
// budget is exhausted. It returns the resulting expression, the number
// of passes that made progress, and an error if a pass tried to expand
// an undeclared global or the budget ran out.
func (r *Reducer) Reduce(e *expr.Expr, budget Budget, observe Observer) (*expr.Expr, int, error) {
	if observe != nil {
		observe(0, e)
	}

	steps := 0
	for {
		next, changed, err := r.strong(e)
		if err != nil {
			return e, steps, err
		}
		e = next
		if !changed {
			return e, steps, nil
		}

		steps++
		if observe != nil {
			observe(steps, e)
		}

		if budget.MaxSteps != nil && steps >= *budget.MaxSteps {
			return e, steps, &diagnostics.ReductionLimitError{Steps: steps, Partial: e}
		}
	}
}

// strong works toward the normal form of e, performing the leftmost
// redex (or global expansion) it finds and returning immediately: the
// caller's next pass picks up from there. changed is false only when e
// is already in normal form.
func (r *Reducer) strong(e *expr.Expr) (*expr.Expr, bool, error) {
	switch e.Kind() {
	case expr.KindTerm:
		return r.expandTerm(e)

	case expr.KindLambda:
		newBody, changed, err := r.strong(e.Body())
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return e, false, nil
		}
		return r.f.Lambda(e.Name(), newBody), true, nil

	case expr.KindApply:
		newLeft, changed, err := r.weak(e.Func())
		if err != nil {
			return nil, false, err
		}
		if changed {
			return r.f.Apply(newLeft, e.Arg()), true, nil
		}
		if newLeft.Kind() == expr.KindLambda {
			return r.applyLambda(newLeft, e.Arg())
		}
		newRight, rightChanged, err := r.strong(e.Arg())
		if err != nil {
			return nil, false, err
		}
		if !rightChanged {
			return e, false, nil
		}
		return r.f.Apply(newLeft, newRight), true, nil

	default:
		return e, false, nil
	}
}

// weak reduces e only as far as needed to know whether it is a Lambda
// (a redex head) or something else, leaving Lambda bodies untouched.
func (r *Reducer) weak(e *expr.Expr) (*expr.Expr, bool, error) {
	switch e.Kind() {
	case expr.KindTerm:
		return r.expandTerm(e)

	case expr.KindLambda:
		return e, false, nil

	case expr.KindApply:
		newLeft, changed, err := r.weak(e.Func())
		if err != nil {
			return nil, false, err
		}
		if changed {
			return r.f.Apply(newLeft, e.Arg()), true, nil
		}
		if newLeft.Kind() == expr.KindLambda {
			return r.applyLambda(newLeft, e.Arg())
		}
		newRight, rightChanged, err := r.strong(e.Arg())
		if err != nil {
			return nil, false, err
		}
		if !rightChanged {
			return e, false, nil
		}
		return r.f.Apply(newLeft, newRight), true, nil

	default:
		return e, false, nil
	}
}

// expandTerm handles a Term reached as the node currently being
// reduced: bound variables are already in normal form, and a global
// reference is expanded to its current binding, which counts as
// progress for this pass.
func (r *Reducer) expandTerm(e *expr.Expr) (*expr.Expr, bool, error) {
	index := e.Index()
	if !resolver.IsGlobal(index) {
		return e, false, nil
	}
	value, ok := r.globals.Lookup(index)
	if !ok {
		return nil, false, &diagnostics.UnresolvedIdentifierError{Name: r.globals.NameOf(index)}
	}
	return value, true, nil
}

// applyLambda performs one beta reduction: substitute arg (shifted
// into the lambda's scope) for the bound variable in body, then shift
// the result back out of that scope.
func (r *Reducer) applyLambda(lambda *expr.Expr, arg *expr.Expr) (*expr.Expr, bool, error) {
	shiftedArg := shift(r.f, arg, 1, 1)
	substituted := subst(r.f, lambda.Body(), shiftedArg)
	return shift(r.f, substituted, 1, -1), true, nil
}
