package kanren

import "testing"

func TestBothShortCircuits(t *testing.T) {
	state := NewState(newTestDomain())
	calls := 0
	never := func(s *State[testDomain]) (*State[testDomain], bool) {
		calls++
		return s, true
	}
	fail := func(s *State[testDomain]) (*State[testDomain], bool) { return s, false }

	_, ok := Both[testDomain](fail, never)(state)
	if ok {
		t.Fatalf("Both(fail, g2) should fail")
	}
	if calls != 0 {
		t.Fatalf("Both should not apply g2 once g1 fails, called %d times", calls)
	}
}

func TestAllEmptyAlwaysSucceeds(t *testing.T) {
	state := NewState(newTestDomain())
	_, ok := All[testDomain]()(state)
	if !ok {
		t.Fatalf("All() with no goals should succeed trivially")
	}
}

func TestAllStopsAtFirstFailure(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()
	g := All(
		UnifyGoal(intLens(), Of(x), Lift(1), intLeaf()),
		UnifyGoal(intLens(), Of(x), Lift(2), intLeaf()),
	)
	_, ok := g(state)
	if ok {
		t.Fatalf("binding x to 1 then requiring x == 2 should fail")
	}
}

func TestAnyNoGoalsAlwaysFails(t *testing.T) {
	state := NewState(newTestDomain())
	applied, ok := Any[testDomain]()(state)
	if !ok {
		t.Fatalf("applying Any() should itself succeed (it only defers a fork)")
	}
	stream := Drain(applied)
	if _, _, has := stream.Next(); has {
		t.Fatalf("Any() with no alternatives should produce zero answers")
	}
}

func TestAnyEnumeratesEachBranchInOrder(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()
	g := Any(
		UnifyGoal(intLens(), Of(x), Lift(1), intLeaf()),
		UnifyGoal(intLens(), Of(x), Lift(2), intLeaf()),
		UnifyGoal(intLens(), Of(x), Lift(3), intLeaf()),
	)
	applied, ok := g(state)
	if !ok {
		t.Fatalf("applying Any should succeed")
	}

	var got []int
	stream := Drain(applied)
	for {
		st, rest, has := stream.Next()
		if !has {
			break
		}
		stream = rest
		v, _ := Resolve(st, intLens(), Of(x)).Value()
		got = append(got, v)
	}
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v answers, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("answer %d = %d, want %d (order must be declaration order)", i, got[i], want[i])
		}
	}
}

func TestAnyBranchesDoNotLeakBindings(t *testing.T) {
	state := NewState(newTestDomain())
	x := Fresh[int]()
	y := Fresh[int]()
	g := Any(
		Both(UnifyGoal(intLens(), Of(x), Lift(1), intLeaf()), UnifyGoal(intLens(), Of(y), Lift(10), intLeaf())),
		UnifyGoal(intLens(), Of(x), Lift(2), intLeaf()),
	)
	applied, _ := g(state)
	stream := Drain(applied)

	_, rest, has := stream.Next()
	if !has {
		t.Fatalf("expected a first branch answer")
	}
	st2, _, has2 := rest.Next()
	if !has2 {
		t.Fatalf("expected a second branch answer")
	}
	if _, bound := Resolve(st2, intLens(), Of(y)).Value(); bound {
		t.Fatalf("second branch must not see the first branch's binding of y")
	}
}

func TestLazyDefersEvaluation(t *testing.T) {
	state := NewState(newTestDomain())
	built := false
	g := Lazy[testDomain](func() Goal[testDomain] {
		built = true
		return func(s *State[testDomain]) (*State[testDomain], bool) { return s, true }
	})
	if built {
		t.Fatalf("Lazy must not call f before the goal is applied")
	}
	if _, ok := g(state); !ok {
		t.Fatalf("the lazily built goal should succeed")
	}
	if !built {
		t.Fatalf("applying the goal should have called f")
	}
}
