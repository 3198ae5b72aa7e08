package doctree

import "strings"

type Kind uint8

const (
	ElementNode Kind = iota
	TextNode
	FragmentNode
)

// Placeholder is the zero-width character a carrier element holds until
// real text is typed into it.
const Placeholder = "\u200b"

type Attr struct {
	Key string
	Val string
}

// Node is an element, a text run, or a detached fragment container.
// Children are owned by exactly one parent; moving a node into a new parent
// detaches it from the old one.
type Node struct {
	Kind  Kind
	Tag   string
	Style Style
	Attrs []Attr
	Data  string

	parent   *Node
	children []*Node
}

func NewElement(tag string, style Style) *Node {
	if tag == "" {
		tag = "span"
	}
	return &Node{Kind: ElementNode, Tag: strings.ToLower(tag), Style: style}
}

func NewText(s string) *Node {
	return &Node{Kind: TextNode, Data: s}
}

// NewFragment returns a detached container used to hold extracted content.
func NewFragment() *Node {
	return &Node{Kind: FragmentNode}
}

func (n *Node) IsText() bool    { return n != nil && n.Kind == TextNode }
func (n *Node) IsElement() bool { return n != nil && n.Kind == ElementNode }

// IsInlineWrapper reports whether n is a styling wrapper that carries no
// meaning beyond its style map and may be unwrapped once the map is empty.
func (n *Node) IsInlineWrapper() bool {
	return n.IsElement() && n.Tag == "span" && len(n.Attrs) == 0
}

func (n *Node) Parent() *Node { return n.parent }

// Children returns the live child slice. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.Index()
	if i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// Index returns n's position among its parent's children, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Len is the boundary-offset length of n: bytes for text, children otherwise.
func (n *Node) Len() int {
	if n.IsText() {
		return len(n.Data)
	}
	return len(n.children)
}

func (n *Node) AppendChild(c *Node) {
	n.InsertBefore(c, nil)
}

// InsertBefore inserts c before ref, or at the end when ref is nil or not
// a child of n.
func (n *Node) InsertBefore(c, ref *Node) {
	if c == nil || n.IsText() || c.Contains(n) {
		return
	}
	if c.Kind == FragmentNode {
		for _, gc := range append([]*Node(nil), c.children...) {
			n.InsertBefore(gc, ref)
		}
		return
	}
	c.Remove()
	at := len(n.children)
	if ref != nil && ref.parent == n {
		at = ref.Index()
	}
	n.children = append(n.children, nil)
	copy(n.children[at+1:], n.children[at:])
	n.children[at] = c
	c.parent = n
}

// InsertAt inserts c at child index i, clamped to the child range.
func (n *Node) InsertAt(i int, c *Node) {
	if i < 0 {
		i = 0
	}
	if i >= len(n.children) {
		n.InsertBefore(c, nil)
		return
	}
	n.InsertBefore(c, n.children[i])
}

func (n *Node) RemoveChild(c *Node) {
	if c == nil || c.parent != n {
		return
	}
	i := c.Index()
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Unwrap splices n's children into its parent at n's position and detaches n.
// It returns the moved children in order.
func (n *Node) Unwrap() []*Node {
	p := n.parent
	if p == nil {
		return nil
	}
	moved := append([]*Node(nil), n.children...)
	for _, c := range moved {
		p.InsertBefore(c, n)
	}
	n.Remove()
	return moved
}

// Clone copies n. A deep clone copies the whole subtree; the copy is detached.
func (n *Node) Clone(deep bool) *Node {
	out := &Node{Kind: n.Kind, Tag: n.Tag, Style: n.Style.Clone(), Data: n.Data}
	if len(n.Attrs) > 0 {
		out.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if deep {
		for _, c := range n.children {
			out.AppendChild(c.Clone(true))
		}
	}
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// TextContent concatenates every descendant text run in document order.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Data
	}
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the visited node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range append([]*Node(nil), n.children...) {
		c.Walk(fn)
	}
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Contains reports whether d is n or a descendant of n.
func (n *Node) Contains(d *Node) bool {
	for ; d != nil; d = d.parent {
		if d == n {
			return true
		}
	}
	return false
}

// Depth is the number of ancestors above n.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// EnclosingElement returns n itself when it is an element, else its parent.
func (n *Node) EnclosingElement() *Node {
	if n == nil {
		return nil
	}
	if n.IsText() {
		return n.parent
	}
	return n
}
