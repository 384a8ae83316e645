package reducer

import (
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/resolver"
)

// shiftVisitor adds offset to every free Term index at or above cutoff,
// used to adjust de Bruijn indices when a subterm moves across a
// binder. Global references are never shifted: their index names a
// slot in the global table, not a position relative to an enclosing
// Lambda, so they pass through unchanged regardless of cutoff.
type shiftVisitor struct {
	f      *expr.Factory
	cutoff uint64
	offset int64
}

func shift(f *expr.Factory, e *expr.Expr, cutoff uint64, offset int64) *expr.Expr {
	if offset == 0 {
		return e
	}
	return expr.Accept(e, &shiftVisitor{f: f, cutoff: cutoff, offset: offset})
}

func (s *shiftVisitor) VisitTerm(index uint64) *expr.Expr {
	if resolver.IsGlobal(index) || index < s.cutoff {
		return expr.NewTerm(index)
	}
	return expr.NewTerm(uint64(int64(index) + s.offset))
}

func (s *shiftVisitor) VisitLambda(body *expr.Expr, name string) *expr.Expr {
	s.cutoff++
	newBody := expr.Accept(body, s)
	s.cutoff--
	return s.f.Lambda(name, newBody)
}

func (s *shiftVisitor) VisitApply(left, right *expr.Expr) *expr.Expr {
	return s.f.Apply(expr.Accept(left, s), expr.Accept(right, s))
}

// substVisitor replaces the Term bound by the innermost enclosing
// binder with value, shifted by however many binders lie between the
// substitution site and each occurrence. offsets memoizes one shifted
// copy of value per distinct binder depth encountered, since a value
// substituted under several nested binders needs the same shift at
// every occurrence found at that depth.
type substVisitor struct {
	f       *expr.Factory
	target  uint64
	value   *expr.Expr
	offsets map[uint64]*expr.Expr
}

// subst replaces Term(1) in body with value, per the standard
// capture-avoiding de Bruijn substitution used for beta-reduction.
func subst(f *expr.Factory, body *expr.Expr, value *expr.Expr) *expr.Expr {
	sv := &substVisitor{f: f, target: 1, value: value, offsets: map[uint64]*expr.Expr{1: value}}
	return expr.Accept(body, sv)
}

func (s *substVisitor) offsetValue(offset uint64) *expr.Expr {
	if e, ok := s.offsets[offset]; ok {
		return e
	}
	e := shift(s.f, s.value, 1, int64(offset)-1)
	s.offsets[offset] = e
	return e
}

func (s *substVisitor) VisitTerm(index uint64) *expr.Expr {
	if index == s.target {
		return s.offsetValue(s.target)
	}
	return expr.NewTerm(index)
}

func (s *substVisitor) VisitLambda(body *expr.Expr, name string) *expr.Expr {
	s.target++
	newBody := expr.Accept(body, s)
	s.target--
	return s.f.Lambda(name, newBody)
}

func (s *substVisitor) VisitApply(left, right *expr.Expr) *expr.Expr {
	return s.f.Apply(expr.Accept(left, s), expr.Accept(right, s))
}
