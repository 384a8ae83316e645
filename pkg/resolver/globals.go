package resolver

import (
	"sort"

	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
)

// GlobalBase is added to a slot number to produce the de Bruijn index a
// global reference is represented as. Any Term index this high can
// never be produced by ordinary nesting (no program binds anywhere
// near 2^62 lambdas), so a Term's index alone tells the reducer
// whether it names a bound variable or a global: an index that exceeds
// the count of enclosing binders at its position is, by the data
// model's own invariant (spec §3), a global reference, and GlobalBase
// picks a representation of that fact that needs no extra tag bit.
const GlobalBase uint64 = 1 << 62

type entry struct {
	value *expr.Expr
	span  diagnostics.Span
	bound bool
}

// GlobalTable maps identifier names to their bound expression and
// source location. Entries are append-only in the sense that a slot,
// once assigned to a name, is never reused for another name; the value
// stored at a slot may be overwritten, and later assignments shadow
// earlier ones for every subsequent lookup (including lookups from
// Term nodes built before the reassignment — a global reference is a
// slot number, not a copied value).
type GlobalTable struct {
	bySlot []entry
	byName map[string]uint64
}

// NewGlobalTable creates an empty global table.
func NewGlobalTable() *GlobalTable {
	return &GlobalTable{byName: make(map[string]uint64)}
}

// slotFor returns the slot assigned to name, allocating a fresh one on
// first use. The same name always maps to the same slot, which is what
// lets a global's own definition refer to itself (or to an
// as-yet-undeclared name from a later-loaded file) without the
// resolver needing to know its value up front.
func (g *GlobalTable) slotFor(name string) uint64 {
	if slot, ok := g.byName[name]; ok {
		return slot
	}
	slot := uint64(len(g.bySlot))
	g.bySlot = append(g.bySlot, entry{})
	g.byName[name] = slot
	return slot
}

// Declare binds name to value, shadowing any earlier binding.
func (g *GlobalTable) Declare(name string, value *expr.Expr, span diagnostics.Span) {
	slot := g.slotFor(name)
	g.bySlot[slot] = entry{value: value, span: span, bound: true}
}

// Lookup resolves a global index (as produced by Resolve) to its
// current bound expression. ok is false if the slot has never been
// declared (a dangling reference, per spec §4.3).
func (g *GlobalTable) Lookup(index uint64) (*expr.Expr, bool) {
	slot := index - GlobalBase
	if slot >= uint64(len(g.bySlot)) || !g.bySlot[slot].bound {
		return nil, false
	}
	return g.bySlot[slot].value, true
}

// NameOf returns the identifier a global index was allocated for,
// for error messages and printing.
func (g *GlobalTable) NameOf(index uint64) string {
	slot := index - GlobalBase
	for name, s := range g.byName {
		if s == slot {
			return name
		}
	}
	return "?"
}

// Get looks up name directly, without going through an index. Used by
// the runtime to fetch a top-level term by name (e.g. for `encode
// --term`).
func (g *GlobalTable) Get(name string) (*expr.Expr, bool) {
	slot, ok := g.byName[name]
	if !ok || !g.bySlot[slot].bound {
		return nil, false
	}
	return g.bySlot[slot].value, true
}

// IsGlobal reports whether a Term's de Bruijn index names a global
// reference rather than a bound variable.
func IsGlobal(index uint64) bool {
	return index >= GlobalBase
}

// Named pairs a bound global's identifier with its value, for listing
// every current binding (a REPL's `:all` command, e.g.).
type Named struct {
	Name  string
	Value *expr.Expr
}

// All returns every currently bound global, sorted by name.
func (g *GlobalTable) All() []Named {
	names := make([]string, 0, len(g.byName))
	for name, slot := range g.byName {
		if g.bySlot[slot].bound {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]Named, len(names))
	for i, name := range names {
		result[i] = Named{Name: name, Value: g.bySlot[g.byName[name]].value}
	}
	return result
}
