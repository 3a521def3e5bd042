package kanren

// Goal is a composable description of a constraint: applying it to a
// state either extends that state (success) or fails (§4.F). A goal tree
// is built from five primitive combinators — Unify, Both/All, Either/Any,
// Lazy, Custom — plus Project (see project.go) for host-side derivation.
//
// Applying a goal never blocks and never recurses into a disjunction's
// branches: Either and Any defer their branches as forks (see DeferFork)
// and return immediately. The branches are only explored when Drain is
// asked to produce successor states, which is what lets Query enumerate
// answers lazily.
type Goal[D Domain] func(*State[D]) (*State[D], bool)

// UnifyGoal builds the goal "constrain a and b, of admitted type T, to be
// equal", forwarding to the typed Unify algorithm (§4.F: "Unify: forward
// to domain-level unify").
func UnifyGoal[D Domain, T any](lens Lens[D, T], a, b Val[T], leaf LeafUnifier[D, T]) Goal[D] {
	return func(s *State[D]) (*State[D], bool) {
		return Unify(s, lens, a, b, leaf)
	}
}

// UnifyAnyGoal builds the type-erased form of Unify, for call sites that
// don't know T statically — e.g. a generic equality check written against
// the Domain's boxed-value sum rather than a specific admitted type.
// Operands whose tags don't match, or whose tag isn't admitted by the
// given Dispatch, simply fail (§4.C).
func UnifyAnyGoal[D Domain](dispatch *Dispatch[D], a, b AnyVal) Goal[D] {
	return func(s *State[D]) (*State[D], bool) {
		return dispatch.UnifyAny(s, a, b)
	}
}

// Both composes two goals conjunctively: g2 is applied to whatever state
// g1 produced, and a failure anywhere short-circuits the pair without
// applying the remainder (§4.F).
func Both[D Domain](g1, g2 Goal[D]) Goal[D] {
	return func(s *State[D]) (*State[D], bool) {
		s, ok := g1(s)
		if !ok {
			return s, false
		}
		return g2(s)
	}
}

// All composes any number of goals conjunctively via a left fold,
// stopping at the first failure. All() with no goals is the trivial goal
// that always succeeds; All() with one goal is that goal itself.
func All[D Domain](goals ...Goal[D]) Goal[D] {
	switch len(goals) {
	case 0:
		return func(s *State[D]) (*State[D], bool) { return s, true }
	case 1:
		return goals[0]
	}
	return func(s *State[D]) (*State[D], bool) {
		var ok bool
		for _, g := range goals {
			s, ok = g(s)
			if !ok {
				return s, false
			}
		}
		return s, true
	}
}

// Either defers a fork with two branches, g1 and g2, each seeing its own
// clone of the parent state (§4.F). Applying Either never itself fails —
// the branches aren't attempted until Drain processes the fork — so the
// disjunction's actual successes or failures only surface once the
// answer stream is pulled.
func Either[D Domain](g1, g2 Goal[D]) Goal[D] {
	return Any(g1, g2)
}

// Any generalizes Either to any number of alternatives, each receiving its
// own clone of the parent state, concatenated in declared order (§4.F:
// "defer a fork that pairs each goal with a clone of the parent state and
// concatenates their outputs in declared order"). Any() with no goals
// still defers a fork, which yields no states, so it contributes zero
// answers (there is no alternative to take). Any with exactly one goal is
// that goal itself, applied directly without deferring a fork.
func Any[D Domain](goals ...Goal[D]) Goal[D] {
	if len(goals) == 1 {
		return goals[0]
	}
	return func(s *State[D]) (*State[D], bool) {
		fork := func(popped *State[D]) Stream[D] {
			branches := make([]*State[D], 0, len(goals))
			for i, g := range goals {
				branch := popped
				if i < len(goals)-1 {
					branch = popped.Clone()
				}
				if next, ok := g(branch); ok {
					branches = append(branches, next)
				}
			}
			return FromStates(branches)
		}
		return s.DeferFork(fork), true
	}
}

// Lazy evaluates f only when the goal is applied, breaking recursion in
// user-defined relations (e.g. Member, or a user's own Appendo) that
// would diverge if built eagerly (§4.F, §9).
func Lazy[D Domain](f func() Goal[D]) Goal[D] {
	return func(s *State[D]) (*State[D], bool) {
		return f()(s)
	}
}

// Custom wraps an arbitrary state-transformer as a goal, for host-defined
// primitives that don't fit Unify or Project.
func Custom[D Domain](f func(*State[D]) (*State[D], bool)) Goal[D] {
	return f
}
