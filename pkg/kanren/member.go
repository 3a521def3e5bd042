package kanren

// Member is the derived, relational element-of goal (§4.I). It suspends
// until the collection resolves; once the collection is known to hold n
// elements, it forks into n branches, each unifying item with one
// element in declared order. If the collection is a variable, Member
// waits on it like any other projection. A collection whose elements
// none unify with item contributes zero answers — that is ordinary
// logical failure, not an error (§7).
func Member[D Domain, T any](lensItem Lens[D, T], lensSeq Lens[D, []Val[T]], item Val[T], collection Val[[]Val[T]], itemLeaf LeafUnifier[D, T]) Goal[D] {
	return Project1(lensSeq, collection, func(elems []Val[T]) Goal[D] {
		branches := make([]Goal[D], len(elems))
		for i, e := range elems {
			branches[i] = UnifyGoal(lensItem, item, e, itemLeaf)
		}
		return Any(branches...)
	})
}
