package kanren

// testDomain is the minimal two-type domain the rest of this package's
// tests exercise Unify, the goal algebra and Query against: ints, and
// sequences of ints.
type testDomain struct {
	ints *Subst[int]
	seqs *Subst[[]Val[int]]
}

func newTestDomain() testDomain {
	return testDomain{ints: NewSubst[int](), seqs: NewSubst[[]Val[int]]()}
}

func intLens() Lens[testDomain, int] {
	return Lens[testDomain, int]{
		Get: func(d testDomain) *Subst[int] { return d.ints },
		Set: func(d testDomain, s *Subst[int]) testDomain { d.ints = s; return d },
	}
}

func seqLens() Lens[testDomain, []Val[int]] {
	return Lens[testDomain, []Val[int]]{
		Get: func(d testDomain) *Subst[[]Val[int]] { return d.seqs },
		Set: func(d testDomain, s *Subst[[]Val[int]]) testDomain { d.seqs = s; return d },
	}
}

func intLeaf() LeafUnifier[testDomain, int] { return EqLeaf[testDomain, int]() }

func seqLeaf() LeafUnifier[testDomain, []Val[int]] {
	return SeqLeafUnifier[testDomain, int](intLens(), intLeaf())
}

func reifyInt(_ *State[testDomain], v int) (int, bool) { return v, true }

func reifySeq() func(*State[testDomain], []Val[int]) ([]Val[int], bool) {
	return ReifySeq[testDomain, int](intLens(), reifyInt)
}
