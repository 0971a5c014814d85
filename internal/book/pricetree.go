package book

import (
	"github.com/shopspring/decimal"
)

// PriceTree is a hand-rolled AVL tree of *PriceLevel, keyed by Price.
// It is rooted under a sentinel node whose right pointer is always the
// true root; the sentinel itself never holds a price and is never
// visited by traversal. Treating "the sentinel's child is always its
// right child" as the single special case removes the need to
// special-case an empty tree or a root-level rotation anywhere else.
type PriceTree struct {
	sentinel *PriceLevel
	size     int
}

// NewPriceTree creates an empty tree.
func NewPriceTree() *PriceTree {
	return &PriceTree{sentinel: &PriceLevel{}}
}

// Size returns the number of price levels in the tree.
func (t *PriceTree) Size() int { return t.size }

// IsEmpty reports whether the tree holds no price levels.
func (t *PriceTree) IsEmpty() bool { return t.size == 0 }

func (t *PriceTree) root() *PriceLevel { return t.sentinel.right }

// Get returns the level at price, or nil if none exists.
func (t *PriceTree) Get(price decimal.Decimal) *PriceLevel {
	n := t.root()
	for n != nil {
		switch {
		case price.LessThan(n.Price):
			n = n.left
		case price.GreaterThan(n.Price):
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// GetOrCreate returns the existing level at price, inserting a fresh,
// empty one if none exists yet.
func (t *PriceTree) GetOrCreate(price decimal.Decimal) *PriceLevel {
	parent := t.sentinel
	cur := t.root()
	for cur != nil {
		switch {
		case price.LessThan(cur.Price):
			parent = cur
			cur = cur.left
		case price.GreaterThan(cur.Price):
			parent = cur
			cur = cur.right
		default:
			return cur
		}
	}

	node := newPriceLevel(price)
	node.parent = parent
	if parent == t.sentinel {
		parent.right = node
	} else if price.LessThan(parent.Price) {
		parent.left = node
	} else {
		parent.right = node
	}
	t.size++
	t.retrace(node)
	return node
}

// Min returns the lowest-priced level in the tree, or nil if empty.
func (t *PriceTree) Min() *PriceLevel {
	root := t.root()
	if root == nil {
		return nil
	}
	return root.min()
}

// Max returns the highest-priced level in the tree, or nil if empty.
func (t *PriceTree) Max() *PriceLevel {
	n := t.root()
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// ForEach walks the tree in price order (ascending if asc, descending
// otherwise), calling fn for each level. It stops early if fn returns
// false.
func (t *PriceTree) ForEach(asc bool, fn func(*PriceLevel) bool) {
	if asc {
		forEachAsc(t.root(), fn)
	} else {
		forEachDesc(t.root(), fn)
	}
}

func forEachAsc(n *PriceLevel, fn func(*PriceLevel) bool) bool {
	if n == nil {
		return true
	}
	if !forEachAsc(n.left, fn) {
		return false
	}
	if !fn(n) {
		return false
	}
	return forEachAsc(n.right, fn)
}

func forEachDesc(n *PriceLevel, fn func(*PriceLevel) bool) bool {
	if n == nil {
		return true
	}
	if !forEachDesc(n.right, fn) {
		return false
	}
	if !fn(n) {
		return false
	}
	return forEachDesc(n.left, fn)
}

// replaceChild points parent at newChild in place of oldChild. The
// sentinel is always treated as pointing right; every other parent
// resolves oldChild against its own left/right pointers.
func (t *PriceTree) replaceChild(parent, oldChild, newChild *PriceLevel) {
	if parent == t.sentinel {
		parent.right = newChild
		return
	}
	if parent.left == oldChild {
		parent.left = newChild
	} else {
		parent.right = newChild
	}
}

// rotateLeft performs a standard AVL left rotation around x and returns
// the node that takes x's former place.
func (t *PriceTree) rotateLeft(x *PriceLevel) *PriceLevel {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.left = x
	x.parent = y

	x.updateHeight()
	y.updateHeight()
	return y
}

// rotateRight performs a standard AVL right rotation around x and
// returns the node that takes x's former place.
func (t *PriceTree) rotateRight(x *PriceLevel) *PriceLevel {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.right = x
	x.parent = y

	x.updateHeight()
	y.updateHeight()
	return y
}

// rebalance restores the AVL property at n if its balance factor has
// left the [-1, 1] range, and returns whichever node now occupies n's
// former position (n itself if no rotation was needed).
func (t *PriceTree) rebalance(n *PriceLevel) *PriceLevel {
	switch bf := n.balanceFactor(); {
	case bf > 1:
		if n.right.balanceFactor() < 0 {
			t.rotateRight(n.right)
		}
		return t.rotateLeft(n)
	case bf < -1:
		if n.left.balanceFactor() > 0 {
			t.rotateLeft(n.left)
		}
		return t.rotateRight(n)
	default:
		return n
	}
}

// retrace walks from start up to the sentinel, refreshing heights and
// rebalancing every ancestor whose balance factor has drifted outside
// [-1, 1]. Unlike the original implementation this is grounded on,
// retrace always reaches the sentinel rather than stopping one level
// short, so a rotation low in the tree is never left unpropagated to an
// ancestor above it.
func (t *PriceTree) retrace(start *PriceLevel) {
	n := start
	for n != nil && n != t.sentinel {
		n.updateHeight()
		n = t.rebalance(n)
		n = n.parent
	}
}

// swapNodes exchanges the tree position of a and b, where b is a's
// in-order successor (b has no left child). This is a structural link
// swap, not a key copy: a and b keep their own identity (Price, Orders)
// and simply trade places in the tree, so any external pointer already
// referencing b (or a) keeps pointing at the same price level after the
// swap. After swapNodes returns, a occupies b's former position and has
// at most one child, ready to be spliced out by the leaf/one-child case.
func (t *PriceTree) swapNodes(a, b *PriceLevel) {
	if a.right == b {
		b.parent = a.parent
		t.replaceChild(a.parent, a, b)

		a.parent = b
		a.right = b.right
		if a.right != nil {
			a.right.parent = a
		}
		b.right = a

		b.left = a.left
		if b.left != nil {
			b.left.parent = b
		}
		a.left = nil
	} else {
		bParent := b.parent
		bRight := b.right

		b.parent = a.parent
		t.replaceChild(a.parent, a, b)
		b.left = a.left
		if b.left != nil {
			b.left.parent = b
		}
		b.right = a.right
		if b.right != nil {
			b.right.parent = b
		}

		a.parent = bParent
		bParent.left = a
		a.left = nil
		a.right = bRight
		if a.right != nil {
			a.right.parent = a
		}
	}
	a.height, b.height = b.height, a.height
}

// Remove deletes node from the tree. It is a programmer error to call
// Remove with a node that is not currently part of this tree.
func (t *PriceTree) Remove(node *PriceLevel) {
	victim := node
	if node.left != nil && node.right != nil {
		succ := node.right.min()
		t.swapNodes(node, succ)
	}

	var child *PriceLevel
	if victim.left != nil {
		child = victim.left
	} else {
		child = victim.right
	}

	parent := victim.parent
	t.replaceChild(parent, victim, child)
	if child != nil {
		child.parent = parent
	}
	victim.parent, victim.left, victim.right = nil, nil, nil

	t.size--
	if parent != t.sentinel {
		t.retrace(parent)
	}
}
