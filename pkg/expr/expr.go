// Package expr defines the internal representation of lambda terms.
//
// An Expr is one of three variants: Term (a de Bruijn variable),
// Lambda (an abstraction with a binder-name hint), or Apply (a
// function applied to an argument). The variant is carried by an
// explicit discriminant rather than tagged-pointer bit tricks: on a
// garbage-collected target, stealing high bits from a real pointer
// fights the collector that owns the arena backing these nodes, so
// this is the portable layout the original design notes call out as
// an acceptable alternative to bit-packing.
package expr

import "github.com/lambdacalc/lambda/pkg/arena"

// Kind identifies which of the three Expr variants a node is.
type Kind uint8

const (
	KindTerm Kind = iota
	KindLambda
	KindApply
)

func (k Kind) String() string {
	switch k {
	case KindTerm:
		return "Term"
	case KindLambda:
		return "Lambda"
	case KindApply:
		return "Apply"
	default:
		return "Unknown"
	}
}

// Expr is a single node of a lambda term. Expr values allocated in an
// arena are immutable after construction; sharing the same subterm
// across multiple parents is permitted because of that immutability.
type Expr struct {
	kind Kind

	// KindTerm
	index uint64 // de Bruijn index, >= 1

	// KindLambda
	name string // binder hint, 0-32767 bytes; not semantically meaningful

	// KindLambda: left is the body.
	// KindApply: left is the function.
	left *Expr

	// KindApply: right is the argument.
	right *Expr
}

// MaxNameLength is the largest permitted Lambda binder-name length, in
// bytes, per the data model's Lambda field contract.
const MaxNameLength = 32767

// NewTerm builds a de Bruijn variable. index must be >= 1.
//
// Terms are never arena-allocated: a one-word variable reference gains
// nothing from bump allocation, so it is built as an ordinary
// GC-managed value regardless of which arena its surrounding Lambda or
// Apply nodes live in.
func NewTerm(index uint64) *Expr {
	if index == 0 {
		panic("expr: term index must be >= 1")
	}
	return &Expr{kind: KindTerm, index: index}
}

// Factory allocates Lambda and Apply nodes out of a backing Arena,
// giving the whole subgraph it builds a single release point: dropping
// every reference into the Factory's Arena reclaims every node built
// through it at once. Build a Factory per region (one for the global
// arena, a fresh one per top-level evaluation) and never share nodes
// from an eval Factory's Arena back into a global Factory's Arena.
type Factory struct {
	arena *arena.Arena[Expr]
}

// NewFactory creates a Factory backed by a.
func NewFactory(a *arena.Arena[Expr]) *Factory {
	return &Factory{arena: a}
}

// Lambda builds an abstraction over body with the given binder-name
// hint, allocated in the factory's arena. name must not exceed
// MaxNameLength bytes and must outlive the arena (copy it first with
// arena.Bytes if its backing storage does not).
func (f *Factory) Lambda(name string, body *Expr) *Expr {
	if len(name) > MaxNameLength {
		panic("expr: lambda name exceeds maximum length")
	}
	return f.arena.Alloc(Expr{kind: KindLambda, name: name, left: body})
}

// Apply builds the application of left to right, allocated in the
// factory's arena.
func (f *Factory) Apply(left, right *Expr) *Expr {
	return f.arena.Alloc(Expr{kind: KindApply, left: left, right: right})
}

// Kind reports which variant e is.
func (e *Expr) Kind() Kind { return e.kind }

// Index returns the de Bruijn index of a Term. Panics on other kinds.
func (e *Expr) Index() uint64 {
	if e.kind != KindTerm {
		panic("expr: Index called on non-Term")
	}
	return e.index
}

// Name returns the binder-name hint of a Lambda. Panics on other kinds.
func (e *Expr) Name() string {
	if e.kind != KindLambda {
		panic("expr: Name called on non-Lambda")
	}
	return e.name
}

// Body returns the body of a Lambda. Panics on other kinds.
func (e *Expr) Body() *Expr {
	if e.kind != KindLambda {
		panic("expr: Body called on non-Lambda")
	}
	return e.left
}

// Func returns the function side of an Apply. Panics on other kinds.
func (e *Expr) Func() *Expr {
	if e.kind != KindApply {
		panic("expr: Func called on non-Apply")
	}
	return e.left
}

// Arg returns the argument side of an Apply. Panics on other kinds.
func (e *Expr) Arg() *Expr {
	if e.kind != KindApply {
		panic("expr: Arg called on non-Apply")
	}
	return e.right
}

// Unpacked is a variant-tagged view of an Expr's payload, convenient for
// switch-based pattern matching without repeated accessor calls.
type Unpacked struct {
	Kind  Kind
	Index uint64
	Name  string
	Body  *Expr // Lambda
	Left  *Expr // Apply
	Right *Expr // Apply
}

// Unpack extracts e's payload into a single struct.
func (e *Expr) Unpack() Unpacked {
	switch e.kind {
	case KindTerm:
		return Unpacked{Kind: KindTerm, Index: e.index}
	case KindLambda:
		return Unpacked{Kind: KindLambda, Name: e.name, Body: e.left}
	case KindApply:
		return Unpacked{Kind: KindApply, Left: e.left, Right: e.right}
	default:
		panic("expr: unknown kind")
	}
}

// Visitor fans out over the three Expr variants.
type Visitor[T any] interface {
	VisitTerm(index uint64) T
	VisitLambda(body *Expr, name string) T
	VisitApply(left, right *Expr) T
}

// Accept dispatches e to the matching Visitor method.
func Accept[T any](e *Expr, v Visitor[T]) T {
	switch e.kind {
	case KindTerm:
		return v.VisitTerm(e.index)
	case KindLambda:
		return v.VisitLambda(e.left, e.name)
	case KindApply:
		return v.VisitApply(e.left, e.right)
	default:
		panic("expr: unknown kind")
	}
}

// Equal reports whether a and b are structurally equal: Term indices
// match, Lambda bodies match (binder-name hints are ignored), and
// Apply sides match recursively.
func Equal(a, b *Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindTerm:
		return a.index == b.index
	case KindLambda:
		return Equal(a.left, b.left)
	case KindApply:
		return Equal(a.left, b.left) && Equal(a.right, b.right)
	default:
		return false
	}
}
