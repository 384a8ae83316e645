// Package resolver turns identifier-level syntax into de Bruijn encoded
// Expr graphs. It exposes a construction-event API: the parser calls
// Builder methods as it descends the grammar, and the Builder resolves
// each identifier against a binder stack and a global table as it
// goes, rather than building an intermediate named-variable AST first.
package resolver

import (
	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
)

// Builder resolves one file's worth of statements against a shared
// GlobalTable. Its binder stack is pushed and popped as the parser
// enters and leaves lambda abstractions; it is always empty between
// top-level statements.
type Builder struct {
	global  *expr.Factory // the persistent arena; survives past any single statement
	target  *expr.Factory // where this statement's Lambda/Apply nodes land
	globals *GlobalTable
	scope   []string
	numbers []*expr.Expr // numbers[n] is the memoized body of the Church numeral n, pre-\f\x wrapping
}

// NewBuilder creates a Builder. global backs every global declaration
// and every Church numeral; it must outlive every eval-statement arena
// passed to SetTarget, since eval expressions are permitted to
// reference global-arena nodes but not the reverse.
func NewBuilder(global *expr.Factory, globals *GlobalTable) *Builder {
	return &Builder{global: global, globals: globals}
}

// Global returns the persistent arena factory, for callers that need
// to target it explicitly (an assignment's right-hand side, e.g.).
func (b *Builder) Global() *expr.Factory {
	return b.global
}

// SetTarget points subsequent Lambda/Apply construction at f. Call this
// once per top-level statement: pass the global factory when building
// the right-hand side of an assignment (so the binding outlives the
// statement), or a fresh per-statement factory when building a bare
// expression to evaluate and discard. It also clears the binder stack,
// dropping any binders a previous statement left pushed when it failed
// to parse.
func (b *Builder) SetTarget(f *expr.Factory) {
	b.target = f
	b.scope = b.scope[:0]
}

// Ident resolves a bare identifier. A name found on the binder stack
// becomes a Term whose index is its distance from the innermost
// binder; otherwise it becomes a free Term carrying a global slot,
// resolved against the GlobalTable at reduction time rather than now.
// This is what lets a global definition refer to itself, or to a name
// declared later in the same load, without either being an error here.
func (b *Builder) Ident(name string) *expr.Expr {
	for i := len(b.scope) - 1; i >= 0; i-- {
		if b.scope[i] == name {
			return expr.NewTerm(uint64(len(b.scope) - i))
		}
	}
	return expr.NewTerm(GlobalBase + b.globals.slotFor(name))
}

// StartLambda pushes name onto the binder stack before the parser
// descends into the abstraction's body.
func (b *Builder) StartLambda(name string) {
	b.scope = append(b.scope, name)
}

// FinishLambda pops names (which must be exactly the trailing entries
// of the binder stack, in the order they were pushed) and wraps body
// in one Lambda per name, innermost first, giving `\a b c.e` the
// expected `\a.\b.\c.e` nesting.
func (b *Builder) FinishLambda(names []string, body *expr.Expr) *expr.Expr {
	b.scope = b.scope[:len(b.scope)-len(names)]
	result := body
	for i := len(names) - 1; i >= 0; i-- {
		result = b.target.Lambda(names[i], result)
	}
	return result
}

// Apply left-folds fn over args, giving `(f x y z)` its standard
// left-associative `(((f x) y) z)` shape.
func (b *Builder) Apply(fn *expr.Expr, args []*expr.Expr) *expr.Expr {
	result := fn
	for _, a := range args {
		result = b.target.Apply(result, a)
	}
	return result
}

// DeclareGlobal binds name to value, shadowing any earlier binding of
// the same name.
func (b *Builder) DeclareGlobal(name string, value *expr.Expr, span diagnostics.Span) {
	b.globals.Declare(name, value, span)
}

// TupleBody builds the `((s e1) e2) ... eN` chain for a tuple literal.
// The caller must have already pushed a fresh binder (the parser pushes
// it under the empty name, which no identifier can match, and names the
// Lambda "s") with StartLambda before resolving e1..eN, so that any free
// variables inside them are shifted correctly, and must wrap the
// result in that one binder with FinishLambda afterward.
func (b *Builder) TupleBody(elems []*expr.Expr) *expr.Expr {
	acc := expr.NewTerm(1)
	for _, e := range elems {
		acc = b.target.Apply(acc, e)
	}
	return acc
}
