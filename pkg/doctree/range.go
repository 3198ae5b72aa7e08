package doctree

import "unicode/utf8"

// Point is a boundary position: a byte offset inside a text node, or a child
// index inside an element or fragment.
type Point struct {
	Node   *Node
	Offset int
}

// Range spans two points. A collapsed range is a caret.
type Range struct {
	Start Point
	End   Point
}

func Caret(p Point) Range {
	return Range{Start: p, End: p}
}

func (r Range) Collapsed() bool {
	return r.Start == r.End
}

// Ordered returns r with Start not after End.
func (r Range) Ordered() Range {
	if ComparePoints(r.Start, r.End) > 0 {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Within reports whether both points are attached beneath root and in bounds.
func (r Range) Within(root *Node) bool {
	return r.Start.Within(root) && r.End.Within(root)
}

func (p Point) Within(root *Node) bool {
	if p.Node == nil || root == nil || !root.Contains(p.Node) {
		return false
	}
	return p.Offset >= 0 && p.Offset <= p.Node.Len()
}

// PointBefore is the boundary immediately before n in its parent.
func PointBefore(n *Node) Point {
	return Point{Node: n.parent, Offset: n.Index()}
}

// PointAfter is the boundary immediately after n in its parent.
func PointAfter(n *Node) Point {
	return Point{Node: n.parent, Offset: n.Index() + 1}
}

// ComparePoints orders two points in document order: -1, 0 or 1.
// Points in different trees compare by their paths alone.
func ComparePoints(a, b Point) int {
	pa := pointPath(a)
	pb := pointPath(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] < pb[i] {
			return -1
		}
		if pa[i] > pb[i] {
			return 1
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}

func pointPath(p Point) []int {
	if p.Node == nil {
		return nil
	}
	depth := p.Node.Depth()
	path := make([]int, depth+1)
	path[depth] = p.Offset
	n := p.Node
	for i := depth - 1; i >= 0; i-- {
		path[i] = n.Index()
		n = n.parent
	}
	return path
}

// Clamp pulls p back inside its node and onto a rune boundary.
func (p Point) Clamp() Point {
	if p.Node == nil {
		return p
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Offset > p.Node.Len() {
		p.Offset = p.Node.Len()
	}
	if p.Node.IsText() {
		p.Offset = clampToRuneBoundary(p.Node.Data, p.Offset)
	}
	return p
}

func clampToRuneBoundary(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(text) {
		return len(text)
	}
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

// EnclosingElement returns the element immediately containing p.
func (p Point) EnclosingElement() *Node {
	return p.Node.EnclosingElement()
}

// NextTextPosition moves p forward by one character across text runs.
// ok is false at the end of root.
func NextTextPosition(root *Node, p Point) (Point, bool) {
	texts := textNodes(root)
	if len(texts) == 0 {
		return p, false
	}
	idx, off := locateInTexts(texts, p)
	for idx < len(texts) {
		t := texts[idx]
		if off < len(t.Data) {
			_, size := utf8.DecodeRuneInString(t.Data[off:])
			return Point{Node: t, Offset: off + size}, true
		}
		idx++
		off = 0
	}
	return p, false
}

// PrevTextPosition moves p back by one character across text runs.
func PrevTextPosition(root *Node, p Point) (Point, bool) {
	texts := textNodes(root)
	if len(texts) == 0 {
		return p, false
	}
	idx, off := locateInTexts(texts, p)
	if idx >= len(texts) {
		idx = len(texts) - 1
		off = len(texts[idx].Data)
	}
	for idx >= 0 {
		t := texts[idx]
		if off > 0 {
			_, size := utf8.DecodeLastRuneInString(t.Data[:off])
			return Point{Node: t, Offset: off - size}, true
		}
		idx--
		if idx >= 0 {
			off = len(texts[idx].Data)
		}
	}
	return p, false
}

func textNodes(root *Node) []*Node {
	var out []*Node
	root.Walk(func(n *Node) bool {
		if n.IsText() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// locateInTexts maps p to the first text run at or after it.
func locateInTexts(texts []*Node, p Point) (int, int) {
	for i, t := range texts {
		if p.Node == t {
			return i, clampToRuneBoundary(t.Data, p.Offset)
		}
	}
	for i, t := range texts {
		if ComparePoints(Point{Node: t, Offset: 0}, p) >= 0 {
			return i, 0
		}
	}
	return len(texts), 0
}

// TextOffset returns the flat text offset of p measured over root's text
// content, used by hosts that render text as one stream.
func TextOffset(root *Node, p Point) int {
	off := 0
	for _, t := range textNodes(root) {
		if t == p.Node {
			return off + clampToRuneBoundary(t.Data, p.Offset)
		}
		if ComparePoints(Point{Node: t, Offset: 0}, p) >= 0 {
			return off
		}
		off += len(t.Data)
	}
	return off
}

// PointAtTextOffset is the inverse of TextOffset. Boundaries between two
// runs resolve to the end of the earlier run so that the caret stays inside
// whatever styled element precedes it.
func PointAtTextOffset(root *Node, offset int) Point {
	texts := textNodes(root)
	if len(texts) == 0 {
		return Point{Node: root, Offset: root.Len()}
	}
	if offset < 0 {
		offset = 0
	}
	for _, t := range texts {
		if offset <= len(t.Data) {
			return Point{Node: t, Offset: clampToRuneBoundary(t.Data, offset)}
		}
		offset -= len(t.Data)
	}
	last := texts[len(texts)-1]
	return Point{Node: last, Offset: len(last.Data)}
}
