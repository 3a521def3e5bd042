package kanren

// Unify implements §4.E for a single admitted type T: it walks both
// operands to their deepest reachable value (a Resolved value or an
// unbound variable), then case-splits on the resulting pair.
//
//  1. (Resolved, Resolved): hand off to leaf, which may succeed, fail, or
//     return a continuation that folds Unify over structural children.
//  2. (Var v, Var w) with v == w: state unchanged.
//  3. (Var v, anything) or (anything, Var v): extend the substitution with
//     v ↦ anything, then immediately drain and re-subscribe every watch
//     that depended on v (I-State-2).
//
// Tie-breaking follows §4.E: when both sides are variables, the left
// variable is always the one bound to the right.
func Unify[D Domain, T any](state *State[D], lens Lens[D, T], a, b Val[T], leaf LeafUnifier[D, T]) (*State[D], bool) {
	sub := lens.Get(state.Dom)
	wa := sub.WalkDeep(a)
	wb := sub.WalkDeep(b)

	av, aIsVar := wa.Var()
	bv, bIsVar := wb.Var()

	switch {
	case aIsVar && bIsVar:
		if av.Equal(bv) {
			return state, true
		}
		return bindAndWake(state, lens, av, wb)

	case aIsVar:
		return bindAndWake(state, lens, av, wb)

	case bIsVar:
		return bindAndWake(state, lens, bv, wa)

	default:
		av, _ := wa.Value()
		bv, _ := wb.Value()
		result := leaf(av, bv)
		switch result.Outcome {
		case LeafSuccess:
			return state, true
		case LeafFailed:
			return state, false
		default:
			return result.Cont(state)
		}
	}
}

// bindAndWake extends the T-substitution with v ↦ val and reawakens every
// watch that depended on v, folding failures: if any reawakened watch
// concludes failure, the whole unify fails (§4.E).
func bindAndWake[D Domain, T any](state *State[D], lens Lens[D, T], v LVar[T], val Val[T]) (*State[D], bool) {
	sub := lens.Get(state.Dom)
	newSub := sub.Bind(v, val)
	next := state.withDomain(lens.Set(state.Dom, newSub))

	watches, extracted := next.watches.Extract(v.ID())
	next = next.withWatches(watches)
	for _, w := range extracted {
		var ok bool
		next, ok = next.subscribe(w)
		if !ok {
			return next, false
		}
	}
	return next, true
}

// SeqLeafUnifier builds the leaf unifier the core provides for sequence
// leaf types, §4.E: "Failed when lengths differ, otherwise Conditional
// that pairs up elements and folds unify left-to-right; the first child
// failure fails the whole sequence." elemLens/elemLeaf describe how the
// domain stores and unifies the element type E; the sequence type itself
// (commonly []Val[E]) is admitted as its own leaf type with this as its
// LeafUnifier.
func SeqLeafUnifier[D Domain, E any](elemLens Lens[D, E], elemLeaf LeafUnifier[D, E]) LeafUnifier[D, []Val[E]] {
	return func(a, b []Val[E]) LeafResult[D, []Val[E]] {
		if len(a) != len(b) {
			return Failed[D, []Val[E]]()
		}
		return Conditional[D, []Val[E]](func(state *State[D]) (*State[D], bool) {
			cur := state
			for i := range a {
				var ok bool
				cur, ok = Unify(cur, elemLens, a[i], b[i], elemLeaf)
				if !ok {
					return cur, false
				}
			}
			return cur, true
		})
	}
}

// EqLeaf builds the ordinary leaf unifier for a primitive type whose Go
// equality operator already means "the same logical value": Success on
// ==, Failed otherwise. This is the common case named in §6 ("Primitive
// leaf types return Success on ==, Failed otherwise").
func EqLeaf[D Domain, T comparable]() LeafUnifier[D, T] {
	return func(a, b T) LeafResult[D, T] {
		if a == b {
			return Success[D, T]()
		}
		return Failed[D, T]()
	}
}
