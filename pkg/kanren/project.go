package kanren

// ProjectResult is the outcome a Projector reports for one attempt
// against a state (§4.G's Watch sum): either it's Done — committing a
// success or a failure — or it's Waiting on a set of variable ids,
// carrying forward whatever side unifications the attempt already
// performed against the state it was given.
type ProjectResult[D Domain] struct {
	done       bool
	state      *State[D]
	ok         bool
	waitingIDs []uint64
}

// ProjectDone reports that a projection has committed: ok true for
// success, false for failure.
func ProjectDone[D Domain](state *State[D], ok bool) ProjectResult[D] {
	return ProjectResult[D]{done: true, state: state, ok: ok}
}

// ProjectWaiting reports that a projection cannot decide yet and should
// be re-run once any of ids receives a binding. state is the current
// state, possibly already carrying side unifications the attempt
// performed before concluding it had to wait.
func ProjectWaiting[D Domain](state *State[D], ids []uint64) ProjectResult[D] {
	return ProjectResult[D]{done: false, state: state, waitingIDs: ids}
}

// Projector is a single attempt at a host-side derivation: §4.G's
// `attempt(state) -> Watch`.
type Projector[D Domain] func(*State[D]) ProjectResult[D]

// Project turns a Projector into a Goal by subscribing it to the state.
// §4.G's reawakening policy is implemented by State.subscribe/Watch: if
// the projector returns Waiting, it is filed under its full id set and
// re-attempted at most once per relevant binding event, extracted from
// every variable before each re-run.
func Project[D Domain](p Projector[D]) Goal[D] {
	return func(s *State[D]) (*State[D], bool) {
		return s.subscribe(Watch[D]{
			run: func(st *State[D]) watchOutcome[D] {
				r := p(st)
				if r.done {
					return watchOutcome[D]{done: true, state: r.state, ok: r.ok}
				}
				return watchOutcome[D]{state: r.state, waiting: r.waitingIDs}
			},
		})
	}
}

// Project1 waits for a to resolve, then calls f with the resolved value
// and applies the goal it returns (§4.G).
func Project1[D Domain, T any](lens Lens[D, T], a Val[T], f func(T) Goal[D]) Goal[D] {
	return Project[D](func(s *State[D]) ProjectResult[D] {
		resolved := ResolveDeep(s, lens, a)
		if v, ok := resolved.Value(); ok {
			next, ok := f(v)(s)
			return ProjectDone[D](next, ok)
		}
		v, _ := resolved.Var()
		return ProjectWaiting[D](s, []uint64{v.ID()})
	})
}

// Project2 waits until both a and b resolve, then calls f with both
// resolved values and applies the goal it returns (§4.G).
func Project2[D Domain, A, B any](lensA Lens[D, A], lensB Lens[D, B], a Val[A], b Val[B], f func(A, B) Goal[D]) Goal[D] {
	return Project[D](func(s *State[D]) ProjectResult[D] {
		ra := ResolveDeep(s, lensA, a)
		rb := ResolveDeep(s, lensB, b)
		av, aok := ra.Value()
		bv, bok := rb.Value()
		if aok && bok {
			next, ok := f(av, bv)(s)
			return ProjectDone[D](next, ok)
		}
		var waiting []uint64
		if !aok {
			v, _ := ra.Var()
			waiting = append(waiting, v.ID())
		}
		if !bok {
			v, _ := rb.Var()
			waiting = append(waiting, v.ID())
		}
		return ProjectWaiting[D](s, waiting)
	})
}

// Assert1 succeeds iff pred holds of a's resolved value, once a resolves.
func Assert1[D Domain, T any](lens Lens[D, T], a Val[T], pred func(T) bool) Goal[D] {
	return Project1(lens, a, func(v T) Goal[D] {
		return func(s *State[D]) (*State[D], bool) { return s, pred(v) }
	})
}

// Assert2 succeeds iff pred holds of both resolved values, once both a
// and b resolve.
func Assert2[D Domain, A, B any](lensA Lens[D, A], lensB Lens[D, B], a Val[A], b Val[B], pred func(A, B) bool) Goal[D] {
	return Project2(lensA, lensB, a, b, func(av A, bv B) Goal[D] {
		return func(s *State[D]) (*State[D], bool) { return s, pred(av, bv) }
	})
}

// Map1 is the bidirectional derivation of §4.G: whichever of a, b
// resolves first, the other is computed and unified with the
// still-unresolved side. If both are variables, Map1 waits on both. When
// both happen to already be resolved, the forward direction is used, so
// the unify against b's already-known value performs the consistency
// check (b matches fwd(a)'s value) rather than trivially succeeding.
func Map1[D Domain, A, B any](lensA Lens[D, A], lensB Lens[D, B], a Val[A], b Val[B], fwd func(A) B, bwd func(B) A, leafA LeafUnifier[D, A], leafB LeafUnifier[D, B]) Goal[D] {
	return Project[D](func(s *State[D]) ProjectResult[D] {
		ra := ResolveDeep(s, lensA, a)
		if av, ok := ra.Value(); ok {
			next, ok := UnifyGoal(lensB, b, Lift(fwd(av)), leafB)(s)
			return ProjectDone[D](next, ok)
		}
		rb := ResolveDeep(s, lensB, b)
		if bv, ok := rb.Value(); ok {
			next, ok := UnifyGoal(lensA, a, Lift(bwd(bv)), leafA)(s)
			return ProjectDone[D](next, ok)
		}
		av, _ := ra.Var()
		bv, _ := rb.Var()
		return ProjectWaiting[D](s, []uint64{av.ID(), bv.ID()})
	})
}

// Map2 generalizes Map1 to three operands: it activates as soon as any
// two of a, b, c are resolved, derives the third via the matching
// function, and unifies it with the (possibly still unresolved, possibly
// already-resolved for a consistency check) remaining operand (§4.G).
func Map2[D Domain, A, B, C any](
	lensA Lens[D, A], lensB Lens[D, B], lensC Lens[D, C],
	a Val[A], b Val[B], c Val[C],
	fab func(A, B) C, fac func(A, C) B, fbc func(B, C) A,
	leafA LeafUnifier[D, A], leafB LeafUnifier[D, B], leafC LeafUnifier[D, C],
) Goal[D] {
	return Project[D](func(s *State[D]) ProjectResult[D] {
		ra := ResolveDeep(s, lensA, a)
		rb := ResolveDeep(s, lensB, b)
		rc := ResolveDeep(s, lensC, c)
		av, aok := ra.Value()
		bv, bok := rb.Value()
		cv, cok := rc.Value()

		switch {
		case aok && bok:
			next, ok := UnifyGoal(lensC, c, Lift(fab(av, bv)), leafC)(s)
			return ProjectDone[D](next, ok)
		case aok && cok:
			next, ok := UnifyGoal(lensB, b, Lift(fac(av, cv)), leafB)(s)
			return ProjectDone[D](next, ok)
		case bok && cok:
			next, ok := UnifyGoal(lensA, a, Lift(fbc(bv, cv)), leafA)(s)
			return ProjectDone[D](next, ok)
		default:
			var waiting []uint64
			if !aok {
				v, _ := ra.Var()
				waiting = append(waiting, v.ID())
			}
			if !bok {
				v, _ := rb.Var()
				waiting = append(waiting, v.ID())
			}
			if !cok {
				v, _ := rc.Var()
				waiting = append(waiting, v.ID())
			}
			return ProjectWaiting[D](s, waiting)
		}
	})
}
