package kanren

import "testing"

func TestDispatchUnifyAnySameTag(t *testing.T) {
	b := NewDomainBuilder[testDomain]()
	Admit(b, intLens(), intLeaf())
	dispatch := Build(b)

	state := NewState(newTestDomain())
	x := Fresh[int]()
	next, ok := dispatch.UnifyAny(state, Box(Of(x)), Box(Lift(7)))
	if !ok {
		t.Fatalf("UnifyAny across two Val[int]s should unify like the typed path")
	}
	got, _ := next.ints.Lookup(x)
	if v, _ := got.Value(); v != 7 {
		t.Fatalf("x bound to %v, want 7", v)
	}
}

func TestDispatchUnifyAnyUnadmittedTagFails(t *testing.T) {
	b := NewDomainBuilder[testDomain]()
	dispatch := Build(b)

	state := NewState(newTestDomain())
	_, ok := dispatch.UnifyAny(state, Box(Lift(1)), Box(Lift(1)))
	if ok {
		t.Fatalf("an unadmitted tag should simply fail, not panic or succeed")
	}
}

func TestBoxUnbox(t *testing.T) {
	v := Lift(3)
	boxed := Box(v)
	got, ok := Unbox[int](boxed)
	if !ok {
		t.Fatalf("Unbox should recover the Val[int] that was Boxed")
	}
	if gv, _ := got.Value(); gv != 3 {
		t.Fatalf("unboxed value = %v, want 3", gv)
	}
	if _, ok := Unbox[string](boxed); ok {
		t.Fatalf("Unbox with the wrong type parameter should report false")
	}
}

func TestBuildPanicsOnDuplicateAdmit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Build should panic when the same type was admitted twice")
		}
	}()
	b := NewDomainBuilder[testDomain]()
	Admit(b, intLens(), intLeaf())
	Admit(b, intLens(), intLeaf())
	Build(b)
}

func TestBuildPanicsOnNilLens(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Build should panic when a Lens has a nil Get/Set")
		}
	}()
	b := NewDomainBuilder[testDomain]()
	Admit(b, Lens[testDomain, int]{}, intLeaf())
	Build(b)
}
