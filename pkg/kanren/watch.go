package kanren

import "sort"

// Watch is a suspended computation: "when any of these variables becomes
// bound, re-run this callback." It is represented as a shared, immutable
// closure plus the set of variable ids it currently depends on. Watches
// are produced internally by Project (see project.go) and by Member (see
// member.go); ordinary goal-writing code never constructs one directly.
//
// Watch is parameterized by the same domain type D as the State it
// operates on, since re-running it means calling back into goal
// application against a *State[D].
type Watch[D any] struct {
	ids []uint64
	run func(*State[D]) watchOutcome[D]
}

// watchOutcome is what re-running a Watch produces: either it settles the
// branch (succeeding or failing) or it re-suspends on a (possibly
// different) set of ids. This is the internal counterpart of
// ProjectResult, the Done/Waiting sum described in §4.G; project.go builds
// one of these from a projector's ProjectResult.
type watchOutcome[D any] struct {
	done    bool
	state   *State[D] // valid when done && ok, or when waiting
	ok      bool      // valid when done
	waiting []uint64
}

// watchID identifies one registration of a Watch in a WatchIndex. A watch
// that resuspends after being re-run is re-added under a fresh watchID —
// it is a new registration, not a continuation of the old one.
type watchID uint64

// WatchIndex is a multi-key, multi-value index from variable id to the set
// of watches currently suspended on it. It backs the "wake" half of the
// watch/wake mechanism described in §3/§4.B: every binding notifies the
// index, which hands back every watch that had declared a dependency on
// the newly-bound variable so State can re-run them.
//
// WatchIndex is persistent like Subst: Add and Extract return a new index,
// leaving the receiver unchanged, so sibling search branches never observe
// each other's suspended watches.
type WatchIndex[D any] struct {
	byID   map[watchID]registered[D]
	byVar  map[uint64]map[watchID]struct{}
	nextID watchID
}

type registered[D any] struct {
	w   Watch[D]
	ids []uint64
}

// NewWatchIndex returns an empty index.
func NewWatchIndex[D any]() *WatchIndex[D] {
	return &WatchIndex[D]{
		byID:  map[watchID]registered[D]{},
		byVar: map[uint64]map[watchID]struct{}{},
	}
}

// clone performs the shallow copy-on-write step the index needs before any
// mutation: the two top-level maps are copied, but the per-variable sets
// and registered entries are shared until the specific entry touched is
// itself replaced. This keeps Add/Extract cheap without aliasing mutable
// state back into the receiver.
func (w *WatchIndex[D]) clone() *WatchIndex[D] {
	n := &WatchIndex[D]{
		byID:   make(map[watchID]registered[D], len(w.byID)),
		byVar:  make(map[uint64]map[watchID]struct{}, len(w.byVar)),
		nextID: w.nextID,
	}
	for k, v := range w.byID {
		n.byID[k] = v
	}
	for k, v := range w.byVar {
		n.byVar[k] = v
	}
	return n
}

// Add records watch under every id in its dependency set, allocating a
// fresh watchID for this registration, and returns the extended index.
func (w *WatchIndex[D]) Add(watch Watch[D]) (*WatchIndex[D], watchID) {
	n := w.clone()
	n.nextID++
	id := n.nextID
	n.byID[id] = registered[D]{w: watch, ids: append([]uint64(nil), watch.ids...)}
	for _, vid := range watch.ids {
		set := n.byVar[vid]
		newSet := make(map[watchID]struct{}, len(set)+1)
		for k := range set {
			newSet[k] = struct{}{}
		}
		newSet[id] = struct{}{}
		n.byVar[vid] = newSet
	}
	return n, id
}

// Extract removes and returns every watch that declared a dependency on
// vid, unlinking each from every other variable it was indexed under too —
// no watch is left dangling under the ids it wasn't extracted by (§3's
// invariant: "no watch is reachable from the index after it has been
// extracted").
func (w *WatchIndex[D]) Extract(vid uint64) (*WatchIndex[D], []Watch[D]) {
	ids := w.byVar[vid]
	if len(ids) == 0 {
		return w, nil
	}

	n := w.clone()
	watches := make([]Watch[D], 0, len(ids))

	// Stable order: extracted watches fire in the order they were added.
	ordered := make([]watchID, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	for _, id := range ordered {
		reg, ok := n.byID[id]
		if !ok {
			continue
		}
		watches = append(watches, reg.w)
		delete(n.byID, id)
		for _, otherVid := range reg.ids {
			set := n.byVar[otherVid]
			if set == nil {
				continue
			}
			newSet := make(map[watchID]struct{}, len(set))
			for k := range set {
				if k != id {
					newSet[k] = struct{}{}
				}
			}
			if len(newSet) == 0 {
				delete(n.byVar, otherVid)
			} else {
				n.byVar[otherVid] = newSet
			}
		}
	}

	return n, watches
}
