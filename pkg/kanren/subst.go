package kanren

import "math/rand"

// Subst is a persistent (structurally shared) mapping from LVar[T] to
// Val[T]. "Persistent" means every Bind returns a new Subst that shares
// almost all of its structure with the receiver; the receiver itself is
// never mutated, so two branches of a search tree can each extend their
// own copy without observing the other's bindings (§3, I-State-3).
//
// The map is not required to be fully resolved: a variable may map to
// another variable. Subst.Walk performs a single hop; callers that want
// the deepest reachable value call Walk again (or use a recursive helper
// like reify) themselves.
//
// Internally Subst is a treap — a binary search tree keyed by variable id
// with randomized heap-ordered priorities — so that Bind is O(log n)
// expected and cloning a Subst (copying the root pointer) is O(1). A plain
// unbalanced BST would degrade to a list under the common case of
// binding variables in the order they were freshened, since ids are
// monotonically increasing; the treap's priorities keep it balanced
// regardless of bind order.
type Subst[T any] struct {
	root *substNode[T]
}

type substNode[T any] struct {
	id       uint64
	val      Val[T]
	priority int32
	left     *substNode[T]
	right    *substNode[T]
}

// NewSubst returns an empty substitution.
func NewSubst[T any]() *Subst[T] {
	return &Subst[T]{}
}

// Lookup returns the Val bound to v and true, or the zero Val and false if
// v is unbound in this substitution.
func (s *Subst[T]) Lookup(v LVar[T]) (Val[T], bool) {
	n := s.root
	for n != nil {
		switch {
		case v.id == n.id:
			return n.val, true
		case v.id < n.id:
			n = n.left
		default:
			n = n.right
		}
	}
	return Val[T]{}, false
}

// Walk performs a single-step chase: if val is an unbound Var not present
// in the substitution, or already Resolved, it is returned unchanged. If
// val is a Var bound in the substitution, the bound Val is returned — it
// may itself be another Var (§3: "a variable may map to another
// variable"). Callers that need the fully resolved value call Walk again
// on the result.
func (s *Subst[T]) Walk(val Val[T]) Val[T] {
	v, isVar := val.Var()
	if !isVar {
		return val
	}
	bound, ok := s.Lookup(v)
	if !ok {
		return val
	}
	return bound
}

// WalkDeep repeatedly chases variable links until a Resolved value or an
// unbound variable is reached. Unlike Walk it never returns a Val pointing
// at another bound variable.
func (s *Subst[T]) WalkDeep(val Val[T]) Val[T] {
	for {
		next := s.Walk(val)
		if !next.IsVar() {
			return next
		}
		nv, _ := next.Var()
		ov, ok := val.Var()
		if ok && nv.Equal(ov) {
			return next // unbound: Walk returned the same variable unchanged
		}
		val = next
	}
}

// Bind extends the substitution with v ↦ val, returning a new Subst. The
// receiver is left untouched. Per §4.E's tie-breaking rule, the caller is
// responsible for always calling Bind with the variable being constrained
// as v, never the reverse.
func (s *Subst[T]) Bind(v LVar[T], val Val[T]) *Subst[T] {
	return &Subst[T]{root: insertNode(s.root, v.id, val, randPriority())}
}

func randPriority() int32 {
	return rand.Int31()
}

func insertNode[T any](n *substNode[T], id uint64, val Val[T], priority int32) *substNode[T] {
	if n == nil {
		return &substNode[T]{id: id, val: val, priority: priority}
	}
	if id == n.id {
		// Re-binding an id never happens in practice (each var is bound at
		// most once along any branch), but stay correct if it does: keep
		// tree shape, replace payload.
		cp := *n
		cp.val = val
		return &cp
	}
	cp := *n
	if id < n.id {
		cp.left = insertNode(n.left, id, val, priority)
		if cp.left.priority > cp.priority {
			return rotateRight(&cp)
		}
	} else {
		cp.right = insertNode(n.right, id, val, priority)
		if cp.right.priority > cp.priority {
			return rotateLeft(&cp)
		}
	}
	return &cp
}

func rotateRight[T any](n *substNode[T]) *substNode[T] {
	l := *n.left
	n2 := *n
	n2.left = l.right
	l.right = &n2
	return &l
}

func rotateLeft[T any](n *substNode[T]) *substNode[T] {
	r := *n.right
	n2 := *n
	n2.right = r.left
	r.left = &n2
	return &r
}

// Len returns the number of bindings, walking the whole tree. Intended for
// diagnostics and tests, not for the hot unification path.
func (s *Subst[T]) Len() int {
	var count func(*substNode[T]) int
	count = func(n *substNode[T]) int {
		if n == nil {
			return 0
		}
		return 1 + count(n.left) + count(n.right)
	}
	return count(s.root)
}
