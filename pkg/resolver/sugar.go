package resolver

import "github.com/lambdacalc/lambda/pkg/expr"

// Number builds the Church numeral for n: `\f.\x.(f (f (... (f x))))`
// with n applications of f. Each prefix is memoized in b.numbers so
// that encoding numeral n also builds (and reuses) every numeral below
// it, and repeated literals anywhere in a load share the same nodes.
// Numerals always land in the global arena regardless of the current
// statement's target, trading a small amount of permanent memory for
// that sharing.
func (b *Builder) Number(n uint64) *expr.Expr {
	if len(b.numbers) == 0 {
		b.numbers = append(b.numbers, expr.NewTerm(1))
	}
	for uint64(len(b.numbers)) <= n {
		next := b.global.Apply(expr.NewTerm(2), b.numbers[len(b.numbers)-1])
		b.numbers = append(b.numbers, next)
	}
	return b.global.Lambda("f", b.global.Lambda("x", b.numbers[n]))
}

// List desugars `[e1 e2 ... eN]` into the right-nested pair chain
// `(pair e1 (pair e2 (... (pair eN false))))`, terminated by the
// global `false`. elems must already be fully resolved.
func (b *Builder) List(elems []*expr.Expr) *expr.Expr {
	result := b.Ident("false")
	for i := len(elems) - 1; i >= 0; i-- {
		result = b.Apply(b.Ident("pair"), []*expr.Expr{elems[i], result})
	}
	return result
}
