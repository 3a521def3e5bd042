package kanren

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"
)

// Domain is the marker contract a concrete, per-program domain type must
// satisfy. A concrete domain is a small value type (generated or
// hand-written, per §4.C) bundling one persistent Subst[T] per admitted
// leaf type T — e.g. a struct with two fields for a domain admitting two
// element types. The core never inspects a domain's layout directly; it
// borrows substitutions through a Lens supplied at registration time.
//
// Domain has no methods of its own: any value (typically a small struct of
// *Subst[T] fields) can serve as one. The constraint exists so generic
// core code reads as "a domain of D" rather than "any value whatsoever".
type Domain interface{}

// Lens lets generic core code borrow or extend the Subst[T] living inside
// a concrete Domain D, without the core needing to know D's field layout.
// A concrete domain supplies one Lens per admitted type when it is built.
type Lens[D Domain, T any] struct {
	Get func(D) *Subst[T]
	Set func(D, *Subst[T]) D
}

// AnyVal is the type-erased channel used by projection-agnostic goal
// variants — most notably the UnifyAnyGoal goal constructor, which does
// not know T at the call site (§3: "boxed domain value"). Every
// Val[T] satisfies AnyVal trivially; the erased value still carries its
// concrete Go type, which is exactly the "tag" §4.C's dispatch switches
// on.
type AnyVal interface {
	isAnyVal()
}

func (Val[T]) isAnyVal() {}

// Box lifts a typed Val into the type-erased AnyVal channel.
func Box[T any](v Val[T]) AnyVal { return v }

// Unbox recovers a Val[T] from an AnyVal, reporting false if the dynamic
// type doesn't match T — the same tag check UnifyAny performs internally.
func Unbox[T any](v AnyVal) (Val[T], bool) {
	tv, ok := v.(Val[T])
	return tv, ok
}

// LeafOutcome is the three-way result a leaf unifier returns for a single
// pair of resolved values (§4.E).
type LeafOutcome int

const (
	// LeafSuccess means the pair is equal as-is; adopt the state unchanged.
	LeafSuccess LeafOutcome = iota
	// LeafFailed means the pair can never be made equal; abort the branch.
	LeafFailed
	// LeafConditional means equality depends on recursively unifying
	// structure (e.g. sequence elements); Cont performs that recursion.
	LeafConditional
)

// LeafResult is what a LeafUnifier returns for one pair of resolved
// values of type T. When Outcome is LeafConditional, Cont is invoked with
// the current state and must return an extended state (continuing to
// fold over children) or failure; it is the mechanism by which structured
// resolved values (sequences, pairs, records) recurse into Unify.
type LeafResult[D Domain, T any] struct {
	Outcome LeafOutcome
	Cont    func(*State[D]) (*State[D], bool)
}

// Success is the LeafResult for "these two resolved values are equal".
func Success[D Domain, T any]() LeafResult[D, T] {
	return LeafResult[D, T]{Outcome: LeafSuccess}
}

// Failed is the LeafResult for "these two resolved values can never be
// equal".
func Failed[D Domain, T any]() LeafResult[D, T] {
	return LeafResult[D, T]{Outcome: LeafFailed}
}

// Conditional is the LeafResult for "equality depends on unifying
// children"; cont folds Unify over them.
func Conditional[D Domain, T any](cont func(*State[D]) (*State[D], bool)) LeafResult[D, T] {
	return LeafResult[D, T]{Outcome: LeafConditional, Cont: cont}
}

// LeafUnifier is the per-type unification rule a leaf type (or, for
// container types, the domain author generating the Domain) supplies.
// Primitive leaf types return Success on Go equality, Failed otherwise.
// Container leaf types return Conditional (see SeqLeafUnifier for the
// sequence case the core provides out of the box).
type LeafUnifier[D Domain, T any] func(a, b T) LeafResult[D, T]

// dispatchFunc is the type-erased per-tag entry in a Dispatch table.
type dispatchFunc[D Domain] func(*State[D], AnyVal, AnyVal) (*State[D], bool)

// Dispatch is the compiled form of a Domain's admitted-type declarations:
// a map from Go type (the boxed value's "tag", per §4.C) to a closure that
// asserts both erased operands back to the concrete Val[T] and invokes the
// typed Unify. Built once, at domain-construction time, by DomainBuilder.
type Dispatch[D Domain] struct {
	byTag map[reflect.Type]dispatchFunc[D]
}

// UnifyAny dispatches a type-erased unification: equal tags invoke the
// typed unifier; unequal tags (including an unadmitted type on either
// side) yield ordinary logical failure, per §4.C.
func (d *Dispatch[D]) UnifyAny(state *State[D], a, b AnyVal) (*State[D], bool) {
	fn, ok := d.byTag[reflect.TypeOf(a)]
	if !ok {
		return state, false
	}
	return fn(state, a, b)
}

// DomainBuilder accumulates admitted leaf types for a concrete Domain D
// and compiles them into a Dispatch. Domains are built once, eagerly, at
// program startup — not on the hot unification path.
type DomainBuilder[D Domain] struct {
	dispatch *Dispatch[D]
	errs     *multierror.Error
}

// NewDomainBuilder starts an empty builder for domain type D.
func NewDomainBuilder[D Domain]() *DomainBuilder[D] {
	return &DomainBuilder[D]{dispatch: &Dispatch[D]{byTag: map[reflect.Type]dispatchFunc[D]{}}}
}

// Admit registers T as an admitted leaf type of the domain being built,
// recording its Lens and LeafUnifier. Admitting the same T twice is a
// programmer error collected into the builder's diagnostics and surfaced
// by Build — per §7, type-mismatch at domain instantiation terminates the
// program rather than silently corrupting the dispatch table.
func Admit[D Domain, T any](b *DomainBuilder[D], lens Lens[D, T], leaf LeafUnifier[D, T]) {
	var zero Val[T]
	tag := reflect.TypeOf(zero)

	if lens.Get == nil || lens.Set == nil || leaf == nil {
		b.errs = multierror.Append(b.errs, fmt.Errorf("kanren: admit %s: lens and leaf unifier must be non-nil", tag))
		return
	}
	if _, dup := b.dispatch.byTag[tag]; dup {
		b.errs = multierror.Append(b.errs, fmt.Errorf("kanren: admit %s: type already admitted by this domain", tag))
		return
	}

	b.dispatch.byTag[tag] = func(state *State[D], x, y AnyVal) (*State[D], bool) {
		xv, ok := x.(Val[T])
		if !ok {
			return state, false
		}
		yv, ok := y.(Val[T])
		if !ok {
			return state, false
		}
		return Unify(state, lens, xv, yv, leaf)
	}
}

// Build compiles the admitted types into a Dispatch. If any Admit call
// reported a problem, Build panics with the aggregated diagnostics — per
// §7, domain-instantiation type mismatches are programmer errors the core
// is mandated to terminate on, not logical failures to be enumerated
// away.
func Build[D Domain](b *DomainBuilder[D]) *Dispatch[D] {
	if b.errs != nil {
		panic(b.errs.ErrorOrNil())
	}
	return b.dispatch
}
