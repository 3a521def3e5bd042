package kanren

import "testing"

func TestUnifyVarWithValue(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()

	next, ok := Unify(state, intLens(), Of(x), Lift(5), intLeaf())
	if !ok {
		t.Fatalf("unify(x, 5) should succeed")
	}
	got, ok := next.ints.Lookup(x)
	if !ok {
		t.Fatalf("x should be bound after unify")
	}
	if v, _ := got.Value(); v != 5 {
		t.Fatalf("x bound to %v, want 5", v)
	}
}

func TestUnifyTwoVarsBindsLeftToRight(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()
	y := Fresh[int]()

	next, ok := Unify(state, intLens(), Of(x), Of(y), intLeaf())
	if !ok {
		t.Fatalf("unify(x, y) should succeed")
	}
	if _, ok := next.ints.Lookup(x); !ok {
		t.Fatalf("x should be bound to y per the left-to-right tie-break")
	}
	if _, ok := next.ints.Lookup(y); ok {
		t.Fatalf("y should remain unbound; x is the one that gets bound")
	}
}

func TestUnifySameVarIsNoop(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()
	next, ok := Unify(state, intLens(), Of(x), Of(x), intLeaf())
	if !ok {
		t.Fatalf("unify(x, x) should trivially succeed")
	}
	if next.ints.Len() != 0 {
		t.Fatalf("unify(x, x) should not add a binding")
	}
}

func TestUnifyResolvedMismatchFails(t *testing.T) {
	state := NewState(newTestDomain())
	_, ok := Unify(state, intLens(), Lift(1), Lift(2), intLeaf())
	if ok {
		t.Fatalf("unify(1, 2) should fail")
	}
}

func TestUnifyResolvedMatchSucceeds(t *testing.T) {
	state := NewState(newTestDomain())
	_, ok := Unify(state, intLens(), Lift(3), Lift(3), intLeaf())
	if !ok {
		t.Fatalf("unify(3, 3) should succeed")
	}
}

func TestUnifySequenceDifferentLengthsFails(t *testing.T) {
	state := NewState(newTestDomain())
	a := Lift([]Val[int]{Lift(1), Lift(2)})
	b := Lift([]Val[int]{Lift(1)})
	_, ok := Unify(state, seqLens(), a, b, seqLeaf())
	if ok {
		t.Fatalf("sequences of different lengths should never unify")
	}
}

func TestUnifySequenceElementwise(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()
	a := Lift([]Val[int]{Lift(1), Of(x)})
	b := Lift([]Val[int]{Lift(1), Lift(2)})

	next, ok := Unify(state, seqLens(), a, b, seqLeaf())
	if !ok {
		t.Fatalf("sequences should unify elementwise")
	}
	got, ok := next.ints.Lookup(x)
	if !ok {
		t.Fatalf("x should be bound to 2 via the element unify")
	}
	if v, _ := got.Value(); v != 2 {
		t.Fatalf("x bound to %v, want 2", v)
	}
}

func TestUnifyBindingReawakensWatch(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()

	woke := false
	state, ok := state.subscribe(Watch[testDomain]{
		ids: []uint64{x.ID()},
		run: func(s *State[testDomain]) watchOutcome[testDomain] {
			resolved := Resolve(s, intLens(), Of(x))
			if v, has := resolved.Value(); has {
				woke = true
				if v != 11 {
					return watchOutcome[testDomain]{done: true, state: s, ok: false}
				}
				return watchOutcome[testDomain]{done: true, state: s, ok: true}
			}
			return watchOutcome[testDomain]{state: s, waiting: []uint64{x.ID()}}
		},
	})
	if !ok {
		t.Fatalf("subscribing before x is bound should succeed (Waiting)")
	}

	_, ok = Unify(state, intLens(), Of(x), Lift(11), intLeaf())
	if !ok {
		t.Fatalf("unify(x, 11) should succeed")
	}
	if !woke {
		t.Fatalf("binding x should have reawakened the watch filed on it")
	}
}
