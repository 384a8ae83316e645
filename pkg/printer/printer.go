// Package printer renders Expr graphs back to source syntax.
package printer

import (
	"fmt"
	"strings"

	"github.com/lambdacalc/lambda/pkg/expr"
)

// Print renders e using the surface syntax: `\name.body` for
// abstractions and `(f x)` for applications. A bound Term prints as
// the name of its binder; a free Term (including an unexpanded global
// reference) prints as `x` followed by its de Bruijn index, since the
// printer has no access to the global table and cannot recover the
// identifier a global slot was allocated for.
func Print(e *expr.Expr) string {
	var sb strings.Builder
	printTo(&sb, e, nil)
	return sb.String()
}

func printTo(sb *strings.Builder, e *expr.Expr, binders []string) {
	switch e.Kind() {
	case expr.KindTerm:
		idx := e.Index()
		if idx >= 1 && int(idx) <= len(binders) {
			sb.WriteString(binders[len(binders)-int(idx)])
			return
		}
		fmt.Fprintf(sb, "x%d", idx)

	case expr.KindLambda:
		sb.WriteByte('\\')
		sb.WriteString(e.Name())
		sb.WriteByte('.')
		printTo(sb, e.Body(), append(binders, e.Name()))

	case expr.KindApply:
		sb.WriteByte('(')
		printTo(sb, e.Func(), binders)
		sb.WriteByte(' ')
		printTo(sb, e.Arg(), binders)
		sb.WriteByte(')')
	}
}
