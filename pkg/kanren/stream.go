package kanren

// Stream is a persistent, lazily-unfolded list of successor states. It is
// the answer-enumeration vehicle used internally by Drain (see state.go)
// and externally by Query (see query.go): pulling one element at a time
// never forces more of the search tree than the caller actually consumes,
// so an abandoned iterator costs nothing beyond ordinary GC (§5).
//
// Stream values are immutable; Next can be called on the same Stream
// repeatedly and always reproduces the same sequence, which is what
// makes disjunctive search deterministic (§5: "Repeated runs of the same
// goal produce identical answer sequences").
type Stream[D Domain] struct {
	head    *State[D]
	hasHead bool
	tail    func() Stream[D]
}

// EmptyStream is the stream with no elements.
func EmptyStream[D Domain]() Stream[D] {
	return Stream[D]{}
}

// SingleStream is the stream containing exactly one state.
func SingleStream[D Domain](s *State[D]) Stream[D] {
	return cons(s, func() Stream[D] { return EmptyStream[D]() })
}

func cons[D Domain](head *State[D], tail func() Stream[D]) Stream[D] {
	return Stream[D]{head: head, hasHead: true, tail: tail}
}

// Next pulls the head state and a stream of the remainder, or reports
// false if the stream is exhausted.
func (s Stream[D]) Next() (*State[D], Stream[D], bool) {
	if !s.hasHead {
		return nil, Stream[D]{}, false
	}
	return s.head, s.tail(), true
}

// FromStates builds a finite stream from an already-materialized slice,
// in the given order. Used by Either/Any's deferred forks, which only
// ever produce a handful of immediate branch states.
func FromStates[D Domain](states []*State[D]) Stream[D] {
	if len(states) == 0 {
		return EmptyStream[D]()
	}
	rest := states[1:]
	return cons(states[0], func() Stream[D] { return FromStates(rest) })
}

// concatLazy concatenates a with the stream bThunk produces, without
// forcing bThunk until a is exhausted.
func concatLazy[D Domain](a Stream[D], bThunk func() Stream[D]) Stream[D] {
	if !a.hasHead {
		return bThunk()
	}
	head, tail := a.head, a.tail
	return cons(head, func() Stream[D] { return concatLazy(tail(), bThunk) })
}

// Concat yields every element of a, then every element of b, preserving
// declared order (§4.F/§5: "concatenating forks FIFO").
func Concat[D Domain](a, b Stream[D]) Stream[D] {
	return concatLazy(a, func() Stream[D] { return b })
}

// FlatMap applies f to every element of s and concatenates the results in
// order, without forcing more of s than necessary to produce the
// elements the caller actually pulls. This is how Drain flattens a tree
// of deferred forks into a single answer stream.
func FlatMap[D Domain](s Stream[D], f func(*State[D]) Stream[D]) Stream[D] {
	if !s.hasHead {
		return EmptyStream[D]()
	}
	head, tail := s.head, s.tail
	return concatLazy(f(head), func() Stream[D] { return FlatMap(tail(), f) })
}

// Take pulls at most n elements from s, returning them along with the
// remaining stream.
func Take[D Domain](s Stream[D], n int) ([]*State[D], Stream[D]) {
	out := make([]*State[D], 0, n)
	for n < 0 || len(out) < n {
		st, rest, ok := s.Next()
		if !ok {
			return out, rest
		}
		out = append(out, st)
		s = rest
	}
	return out, s
}

// Fork is a deferred enumeration of alternative successor states: given
// the state it's eventually invoked against (with this fork already
// popped from the queue), it produces the stream of immediate branch
// states. Forks never execute eagerly — only Drain invokes them, and only
// as the caller's answer iterator advances.
type Fork[D Domain] func(*State[D]) Stream[D]

// forkQueue is a persistent FIFO of Forks, implemented as the classic
// two-list functional queue: push onto back, pop from front, and reverse
// back into front only when front runs dry. Every operation returns a new
// queue; the receiver is untouched, so sibling branches never see each
// other's pending forks (§3, §4.D).
type forkQueue[D Domain] struct {
	front *forkNode[D]
	back  *forkNode[D]
}

type forkNode[D Domain] struct {
	f    Fork[D]
	next *forkNode[D]
}

func newForkQueue[D Domain]() *forkQueue[D] {
	return &forkQueue[D]{}
}

func (q *forkQueue[D]) push(f Fork[D]) *forkQueue[D] {
	return &forkQueue[D]{front: q.front, back: &forkNode[D]{f: f, next: q.back}}
}

func (q *forkQueue[D]) pop() (Fork[D], *forkQueue[D], bool) {
	front := q.front
	if front == nil {
		if q.back == nil {
			var zero Fork[D]
			return zero, q, false
		}
		var reversed *forkNode[D]
		for n := q.back; n != nil; n = n.next {
			reversed = &forkNode[D]{f: n.f, next: reversed}
		}
		front = reversed
		q = &forkQueue[D]{front: front}
	}
	return front.f, &forkQueue[D]{front: front.next, back: q.back}, true
}
