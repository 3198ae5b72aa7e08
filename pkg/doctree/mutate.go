package doctree

// boundary is a position between children of parent, immediately before
// the child before (nil meaning the end). Unlike a child index it survives
// sibling insertions elsewhere in parent.
type boundary struct {
	parent *Node
	before *Node
}

func (b boundary) point() Point {
	if b.before == nil {
		return Point{Node: b.parent, Offset: b.parent.Len()}
	}
	return Point{Node: b.parent, Offset: b.before.Index()}
}

// SplitText splits t at off and inserts the right half after t. It returns
// the right half, or nil when off is at either end and nothing was split.
func SplitText(t *Node, off int) *Node {
	if !t.IsText() {
		return nil
	}
	off = clampToRuneBoundary(t.Data, off)
	if off <= 0 || off >= len(t.Data) {
		return nil
	}
	right := NewText(t.Data[off:])
	t.Data = t.Data[:off]
	if t.parent != nil {
		t.parent.InsertBefore(right, t.NextSibling())
	}
	return right
}

// toBoundary converts p to an element boundary, splitting a text node when p
// falls inside one.
func toBoundary(p Point) boundary {
	p = p.Clamp()
	n := p.Node
	if !n.IsText() {
		var before *Node
		if p.Offset < len(n.children) {
			before = n.children[p.Offset]
		}
		return boundary{parent: n, before: before}
	}
	switch {
	case p.Offset == 0 && len(n.Data) > 0:
		return boundary{parent: n.parent, before: n}
	case p.Offset >= len(n.Data):
		return boundary{parent: n.parent, before: n.NextSibling()}
	}
	right := SplitText(n, p.Offset)
	return boundary{parent: n.parent, before: right}
}

// lift moves b up one level. When b is strictly inside its parent, the
// parent is split and the trailing children move into a shallow clone placed
// right after it, so the boundary ends up between the two halves.
func lift(b boundary) boundary {
	el := b.parent
	up := el.parent
	switch {
	case b.before == el.FirstChild():
		return boundary{parent: up, before: el}
	case b.before == nil:
		return boundary{parent: up, before: el.NextSibling()}
	}
	next := el.NextSibling()
	shell := el.Clone(false)
	tail := append([]*Node(nil), el.children[b.before.Index():]...)
	for _, c := range tail {
		shell.AppendChild(c)
	}
	up.InsertBefore(shell, next)
	return boundary{parent: up, before: shell}
}

// CommonAncestor returns the deepest node containing both a and b.
func CommonAncestor(a, b *Node) *Node {
	seen := map[*Node]bool{}
	for n := a; n != nil; n = n.parent {
		seen[n] = true
	}
	for n := b; n != nil; n = n.parent {
		if seen[n] {
			return n
		}
	}
	return nil
}

// Extract detaches the content of r into a new fragment. Partially selected
// elements are split so their selected halves move into the fragment with
// their own style. It returns the fragment and the point where the content
// used to be.
func Extract(r Range) (*Node, Point) {
	frag := NewFragment()
	r = r.Ordered()
	if r.Collapsed() || r.Start.Node == nil || r.End.Node == nil {
		return frag, r.Start
	}
	end := toBoundary(r.End)
	start := toBoundary(r.Start)
	ca := CommonAncestor(start.parent, end.parent)
	if ca == nil {
		return frag, r.Start
	}
	for start.parent != ca {
		start = lift(start)
	}
	for end.parent != ca {
		end = lift(end)
	}

	var moving []*Node
	if start.before != nil {
		in := false
		for _, c := range ca.children {
			if c == start.before {
				in = true
			}
			if c == end.before {
				break
			}
			if in {
				moving = append(moving, c)
			}
		}
	}
	for _, c := range moving {
		frag.AppendChild(c)
	}
	return frag, end.point()
}

// Insert places nodes at p in order, splitting a text node if p is inside
// one. Fragments contribute their children. It returns the point right after
// the last inserted node.
func Insert(p Point, nodes ...*Node) Point {
	if p.Node == nil {
		return p
	}
	b := toBoundary(p)
	for _, n := range nodes {
		b.parent.InsertBefore(n, b.before)
	}
	return b.point()
}

// InsertionBoundary normalizes p to an element position without inserting
// anything, splitting a text node if needed.
func InsertionBoundary(p Point) Point {
	if p.Node == nil {
		return p
	}
	return toBoundary(p).point()
}
