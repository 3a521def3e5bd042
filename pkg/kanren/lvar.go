// Package kanren implements the constraint-solving core of a relational
// (logic) programming engine in the miniKanren tradition: users compose
// goals that describe relationships between logic variables, and the
// engine enumerates every assignment consistent with those relationships.
//
// The package is organized around nine cooperating pieces, leaves first:
// the value model (this file), the multi-key watch index, the domain
// abstraction that lets one state hold bindings for several value types,
// the persistent state (substitution, deferred forks, suspended watches),
// structural unification, the goal algebra, projection goals, the
// query/reify pipeline, and the derived `Member` relation.
//
// Search is single-threaded and cooperative: applying a goal to a state
// never blocks and never spawns a goroutine. Disjunction defers its
// branches as forks in a FIFO queue instead of recursing into them, so an
// answer iterator can be driven lazily, one solution at a time, and
// abandoned early at no cost beyond ordinary garbage collection.
package kanren

import "sync/atomic"

// varCounter is the sole piece of shared mutable state in the package: the
// process-wide source of unique logic-variable identity (§5). A
// multi-threaded host must serialize its own goroutines around calls into
// this package if it wants deterministic answer order across runs, but
// uniqueness of ids holds regardless.
var varCounter uint64

// LVar is a logic variable: a lightweight identity token parameterized by
// the type of value it may eventually take. Equality and hashing consider
// only the id; the type parameter exists purely to keep differently-typed
// variables from being confused at compile time and is never inspected at
// runtime.
type LVar[T any] struct {
	id uint64
}

// Fresh allocates a new logic variable with a globally unique id. Ids are
// drawn from a monotonically increasing counter and are never reused, so
// two variables are equal iff they came from the same Fresh call.
func Fresh[T any]() LVar[T] {
	return LVar[T]{id: atomic.AddUint64(&varCounter, 1)}
}

// ID returns the variable's unique identifier. Exposed for callers that
// need to index variables themselves (the watch index is the main
// in-package consumer); ordinary goal-writing code never needs it.
func (v LVar[T]) ID() uint64 { return v.id }

// Equal reports whether two variables share an id.
func (v LVar[T]) Equal(other LVar[T]) bool { return v.id == other.id }

// valKind discriminates the two variants of Val.
type valKind uint8

const (
	kindVar valKind = iota
	kindResolved
)

// Val is the sum of Var(LVar[T]) and Resolved(payload). Val is immutable
// after construction: every apparent "update" (Lift, Of) produces a new
// Val rather than mutating one in place. Resolved payloads are held behind
// a pointer so that cloning a Val — which happens constantly as it flows
// through the states of a search tree — is a pointer copy, never a deep
// copy.
type Val[T any] struct {
	kind     valKind
	v        LVar[T]
	resolved *T
}

// Of lifts a logic variable into an unresolved Val.
func Of[T any](v LVar[T]) Val[T] {
	return Val[T]{kind: kindVar, v: v}
}

// Lift wraps a ground value into a Resolved Val. Lift always wraps its
// argument: applied to a value that is already a Val[T], it yields a
// Val[Val[T]] rather than returning that Val unchanged.
func Lift[T any](v T) Val[T] {
	return Val[T]{kind: kindResolved, resolved: &v}
}

// IsVar reports whether this Val is an unresolved variable.
func (v Val[T]) IsVar() bool { return v.kind == kindVar }

// Var returns the variable this Val wraps and true, or the zero LVar and
// false if this Val is Resolved.
func (v Val[T]) Var() (LVar[T], bool) {
	if v.kind == kindVar {
		return v.v, true
	}
	return LVar[T]{}, false
}

// Value returns the resolved payload and true, or the zero value and false
// if this Val is still a variable.
func (v Val[T]) Value() (T, bool) {
	if v.kind == kindResolved {
		return *v.resolved, true
	}
	var zero T
	return zero, false
}

// MustValue returns the resolved payload, panicking if this Val is still a
// variable. Intended for call sites that already established groundness
// (e.g. inside a leaf unifier after both operands were confirmed Resolved).
func (v Val[T]) MustValue() T {
	val, ok := v.Value()
	if !ok {
		panic("kanren: MustValue called on an unresolved Val")
	}
	return val
}

// EqualVal reports whether two Vals are the "same" per §3: same variable
// id, or both resolved with equal payloads under eq.
func EqualVal[T any](a, b Val[T], eq func(T, T) bool) bool {
	if a.kind == kindVar && b.kind == kindVar {
		return a.v.Equal(b.v)
	}
	if a.kind == kindResolved && b.kind == kindResolved {
		return eq(*a.resolved, *b.resolved)
	}
	return false
}
