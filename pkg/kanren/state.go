package kanren

// State owns one domain instance, one watch index, and an ordered queue
// of deferred forks (§3). State is persistent: every method that would
// conceptually "mutate" it instead returns a new, independent State that
// shares most of its structure with the receiver — branches of the
// search tree never observe each other's bindings, watches, or forks
// (I-State-3).
//
// State is created empty by Query, extended during goal application, and
// simply dropped (no explicit teardown) once its answer has been consumed
// or the branch abandoned.
type State[D Domain] struct {
	Dom     D
	watches *WatchIndex[D]
	forks   *forkQueue[D]
}

// NewState returns a fresh, empty state over the given domain instance.
func NewState[D Domain](dom D) *State[D] {
	return &State[D]{Dom: dom, watches: NewWatchIndex[D](), forks: newForkQueue[D]()}
}

// Clone returns an independent copy of s. Because every field is either a
// plain domain value built from persistent substitutions or a pointer to
// an immutable structure, Clone is O(1): it never walks bindings,
// watches, or forks.
func (s *State[D]) Clone() *State[D] {
	cp := *s
	return &cp
}

func (s *State[D]) withDomain(dom D) *State[D] {
	cp := *s
	cp.Dom = dom
	return &cp
}

func (s *State[D]) withWatches(w *WatchIndex[D]) *State[D] {
	cp := *s
	cp.watches = w
	return &cp
}

func (s *State[D]) withForks(f *forkQueue[D]) *State[D] {
	cp := *s
	cp.forks = f
	return &cp
}

// Resolve performs the one-step chase described in §4.D: if val is an
// unbound Var, or already Resolved, it is returned unchanged; if val is a
// Var bound in the T-substitution, the next hop is returned (which may
// itself be another Var). Resolve never recurses into sequence or record
// structure — callers that need that do it themselves (see reify in
// query.go).
func Resolve[D Domain, T any](s *State[D], lens Lens[D, T], val Val[T]) Val[T] {
	return lens.Get(s.Dom).Walk(val)
}

// ResolveDeep chases variable links until a Resolved value or a
// genuinely unbound variable is reached.
func ResolveDeep[D Domain, T any](s *State[D], lens Lens[D, T], val Val[T]) Val[T] {
	return lens.Get(s.Dom).WalkDeep(val)
}

// DeferFork appends f to the fork queue and returns the extended state.
// f is never invoked here — only Drain, later, invokes deferred forks,
// and only as many as the caller's answer iterator actually pulls.
func (s *State[D]) DeferFork(f Fork[D]) *State[D] {
	return s.withForks(s.forks.push(f))
}

// subscribe applies w once against s. If w settles the branch (Done), its
// outcome is adopted: success carries through the (possibly
// side-unified) resulting state, failure fails the whole unify/apply that
// led here. If w is still waiting, it is filed in the watch index under
// its full declared dependency set, and the (possibly side-unified)
// state is returned unchanged otherwise (§4.D).
func (s *State[D]) subscribe(w Watch[D]) (*State[D], bool) {
	outcome := w.run(s)
	if outcome.done {
		if !outcome.ok {
			return s, false
		}
		return outcome.state, true
	}

	next := outcome.state
	resuspended := Watch[D]{ids: outcome.waiting, run: w.run}
	newIndex, _ := next.watches.Add(resuspended)
	return next.withWatches(newIndex), true
}

// Drain produces the stream of terminal successor states reachable from
// s by repeatedly popping the head fork, invoking it against the state
// with that fork already removed, and recursing into each resulting
// state. When the fork queue is empty, s itself is yielded exactly once.
// The order is FIFO over forks, and within a fork's output the order the
// fork produced is preserved (§4.D, §5).
func Drain[D Domain](s *State[D]) Stream[D] {
	f, rest, ok := s.forks.pop()
	if !ok {
		return SingleStream(s)
	}
	popped := s.withForks(rest)
	return FlatMap(f(popped), Drain[D])
}
