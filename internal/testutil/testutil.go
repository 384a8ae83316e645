// Package testutil provides shared test helpers: expression oracles
// built directly from expr.Factory primitives, used wherever a test
// needs to compare against a known structure without transcribing the
// printer's (binder-name-sensitive) output by hand.
package testutil

import "github.com/lambdacalc/lambda/pkg/expr"

// ChurchNumeral builds \f.\x.(f^n x) directly, independent of any
// resolver sugar, so it can serve as a test oracle for arithmetic
// scenarios.
func ChurchNumeral(f *expr.Factory, n uint64) *expr.Expr {
	body := expr.NewTerm(1)
	for i := uint64(0); i < n; i++ {
		body = f.Apply(expr.NewTerm(2), body)
	}
	return f.Lambda("f", f.Lambda("x", body))
}

// ChurchList builds the `(pair e1 (pair e2 (... false)))` chain a
// list literal desugars to, given its already-closed elements.
func ChurchList(f *expr.Factory, elems ...*expr.Expr) *expr.Expr {
	result := f.Lambda("x", f.Lambda("y", expr.NewTerm(1)))
	for i := len(elems) - 1; i >= 0; i-- {
		result = f.Lambda("s", f.Apply(f.Apply(expr.NewTerm(1), elems[i]), result))
	}
	return result
}

// ChurchBool builds \x.\y.x for true or \x.\y.y for false.
func ChurchBool(f *expr.Factory, b bool) *expr.Expr {
	if b {
		return f.Lambda("x", f.Lambda("y", expr.NewTerm(2)))
	}
	return f.Lambda("x", f.Lambda("y", expr.NewTerm(1)))
}
