package kanren

// Reifier resolves one out-variable in a terminal state down to a ground,
// type-erased value, reporting false if it's still a variable after full
// recursive resolution. Built by ReifyVar for a concrete admitted type;
// Query accepts one per out-variable the caller wants back.
type Reifier[D Domain] func(*State[D]) (any, bool)

// Reify recursively resolves val: a Var still unbound after the chase is
// not ground (reports false). A Resolved value is handed to deep, which
// descends into any Vals the payload embeds (e.g. sequence elements);
// pass nil for leaf types that embed none.
//
// §9 preserves the teacher lineage's documented gap: there is no
// occurs-check, so a substitution built by a program that lets
// `v ↦ Var(v)` escape can make Reify diverge. Cycle-free programs — which
// is every program this package's own goals can construct, since Unify
// never introduces such a binding itself — always terminate here.
func Reify[D Domain, T any](s *State[D], lens Lens[D, T], val Val[T], deep func(*State[D], T) (T, bool)) (T, bool) {
	resolved := ResolveDeep(s, lens, val)
	v, ok := resolved.Value()
	if !ok {
		var zero T
		return zero, false
	}
	if deep == nil {
		return v, true
	}
	return deep(s, v)
}

// ReifySeq builds the deep-resolver for a sequence leaf type []Val[E]:
// every element is itself recursively reified via elemDeep (nil if E has
// no embedded Vals). The whole sequence is ground iff every element is.
func ReifySeq[D Domain, E any](lensE Lens[D, E], elemDeep func(*State[D], E) (E, bool)) func(*State[D], []Val[E]) ([]Val[E], bool) {
	return func(s *State[D], elems []Val[E]) ([]Val[E], bool) {
		out := make([]Val[E], len(elems))
		for i, e := range elems {
			v, ok := Reify(s, lensE, e, elemDeep)
			if !ok {
				return nil, false
			}
			out[i] = Lift(v)
		}
		return out, true
	}
}

// ReifyVar builds a Reifier for a single logic variable of admitted type
// T.
func ReifyVar[D Domain, T any](lens Lens[D, T], v LVar[T], deep func(*State[D], T) (T, bool)) Reifier[D] {
	val := Of(v)
	return func(s *State[D]) (any, bool) {
		ground, ok := Reify(s, lens, val, deep)
		if !ok {
			return nil, false
		}
		return ground, true
	}
}

// QueryResult is the lazy answer iterator Query produces (§4.H/§6:
// "goal.query(out-vars) -> iterator<tuple>"). Pulling one more tuple
// drives exactly as much of the search as needed, skipping — not
// erroring on — terminal states whose out-vars aren't fully ground.
type QueryResult[D Domain] struct {
	stream Stream[D]
	vars   []Reifier[D]
}

// Query constructs a fresh state over dom, applies goal, and returns the
// lazy iterator over ground answer tuples for vars. If goal itself fails
// immediately (before any fork is even deferred), the iterator is simply
// empty — ordinary logical failure, not an error (§7).
func Query[D Domain](dom D, goal Goal[D], vars ...Reifier[D]) *QueryResult[D] {
	state := NewState(dom)
	applied, ok := goal(state)
	if !ok {
		return &QueryResult[D]{stream: EmptyStream[D](), vars: vars}
	}
	return &QueryResult[D]{stream: Drain(applied), vars: vars}
}

// Next pulls the next ground answer tuple, or reports false once the
// search is exhausted. Duplicate tuples are never collapsed — Query
// enumerates a search, not a set (§4.H).
func (q *QueryResult[D]) Next() ([]any, bool) {
	for {
		st, rest, has := q.stream.Next()
		if !has {
			return nil, false
		}
		q.stream = rest

		tuple := make([]any, len(q.vars))
		ground := true
		for i, reify := range q.vars {
			v, ok := reify(st)
			if !ok {
				ground = false
				break
			}
			tuple[i] = v
		}
		if ground {
			return tuple, true
		}
	}
}

// Take pulls up to n answer tuples. n < 0 pulls every answer the search
// has — use with care, per §9, for goals with unbounded solution sets.
func (q *QueryResult[D]) Take(n int) [][]any {
	var out [][]any
	for n < 0 || len(out) < n {
		tuple, ok := q.Next()
		if !ok {
			break
		}
		out = append(out, tuple)
	}
	return out
}
