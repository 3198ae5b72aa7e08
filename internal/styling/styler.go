package styling

import (
	"strings"

	"go.uber.org/zap"

	"inkline/pkg/doctree"
)

// Surface is the editable document the engine styles. Selection reports
// false when the surface has no focus or no selection.
type Surface interface {
	Root() *doctree.Node
	Selection() (doctree.Range, bool)
	Select(doctree.Range)
	Extract(doctree.Range) (*doctree.Node, doctree.Point)
	Insert(doctree.Point, ...*doctree.Node) doctree.Point
	Focus()
}

// Styler applies style requests to the live selection of a Surface.
type Styler struct {
	surface Surface
	log     *zap.Logger
}

type StylerOption func(*Styler)

func WithStylerLogger(l *zap.Logger) StylerOption {
	return func(s *Styler) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStyler(surface Surface, opts ...StylerOption) *Styler {
	s := &Styler{surface: surface, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply rewrites the current selection according to req. It reads the
// selection fresh and leaves a collapsed selection behind. Without a
// selection it does nothing.
func (s *Styler) Apply(req Request) {
	if req.Empty() {
		return
	}
	r, ok := s.surface.Selection()
	if !ok {
		s.log.Debug("style request ignored: no selection", zap.Stringer("request", req))
		return
	}
	r = r.Ordered()
	switch {
	case r.Collapsed() && req.ClearsAll():
		s.clearAtCaret(r.Start, req)
	case r.Collapsed():
		s.insertCarrier(r.Start, req)
	default:
		s.restyleRange(r, req)
	}
}

// clearAtCaret clears the requested properties on the element enclosing the
// caret. A wrapper left with nothing to carry is unwrapped.
func (s *Styler) clearAtCaret(caret doctree.Point, req Request) {
	el := caret.EnclosingElement()
	if el == nil || el == s.surface.Root() || el.Parent() == nil {
		s.log.Debug("collapsed clear ignored: caret not inside a styled element")
		return
	}
	for _, p := range req.Properties() {
		el.Style.Clear(p)
	}
	if !el.IsInlineWrapper() || !el.Style.IsEmpty() {
		s.log.Debug("cleared properties at caret", zap.Stringer("request", req), zap.String("tag", el.Tag))
		return
	}
	if el == pendingCarrier(caret, s.surface.Root()) {
		at := doctree.PointBefore(el)
		el.Remove()
		s.surface.Select(doctree.Caret(at))
		s.log.Debug("dropped emptied carrier", zap.Stringer("request", req))
		return
	}
	if caret.Node == el {
		caret = doctree.Point{Node: el.Parent(), Offset: el.Index() + caret.Offset}
	}
	el.Unwrap()
	s.surface.Select(doctree.Caret(caret))
	s.log.Debug("unwrapped emptied wrapper at caret", zap.Stringer("request", req))
}

// insertCarrier splices in a styled element holding a single placeholder and
// puts the caret after the placeholder so typing lands inside it.
// A caret already inside an untyped carrier restyles that carrier, so only
// one placeholder is ever pending.
func (s *Styler) insertCarrier(caret doctree.Point, req Request) {
	if c := pendingCarrier(caret, s.surface.Root()); c != nil {
		for _, p := range req.Properties() {
			c.Style.Set(p, req.Value(p))
		}
		s.log.Debug("restyled pending carrier", zap.Stringer("request", req), zap.String("style", c.Style.String()))
		return
	}
	carrier := doctree.NewElement("span", req.Style())
	zw := doctree.NewText(doctree.Placeholder)
	carrier.AppendChild(zw)
	s.surface.Insert(caret, carrier)
	s.surface.Select(doctree.Caret(doctree.Point{Node: zw, Offset: len(zw.Data)}))
	s.log.Debug("inserted carrier", zap.Stringer("request", req))
}

// pendingCarrier returns the inline wrapper at p whose only content is the
// placeholder, or nil.
func pendingCarrier(p doctree.Point, root *doctree.Node) *doctree.Node {
	el := p.Node
	if el.IsText() {
		if el.Data != doctree.Placeholder {
			return nil
		}
		el = el.Parent()
	}
	if el == nil || el == root || el.Parent() == nil || !el.IsInlineWrapper() {
		return nil
	}
	kids := el.Children()
	if len(kids) != 1 || !kids[0].IsText() || kids[0].Data != doctree.Placeholder {
		return nil
	}
	return el
}

// restyleRange detaches the selected content, clears the requested
// properties throughout it, then reattaches it bare or inside one new
// wrapper.
func (s *Styler) restyleRange(r doctree.Range, req Request) {
	r = coverWrappers(r, s.surface.Root())
	frag, at := s.surface.Extract(r)
	content := Rewrite(frag, req)

	if req.ClearsAll() {
		end := s.surface.Insert(at, content)
		s.surface.Select(doctree.Caret(end))
		s.log.Debug("cleared properties in range", zap.Stringer("request", req))
		return
	}
	wrapper := doctree.NewElement("span", req.Style())
	wrapper.AppendChild(content)
	end := s.surface.Insert(at, wrapper)
	s.surface.Select(doctree.Caret(end))
	s.log.Debug("wrapped range", zap.Stringer("request", req), zap.String("style", wrapper.Style.String()))
}

// Rewrite takes ownership of a detached subtree and clears every property
// named by req wherever it is set. Inline wrappers left with an empty style
// are unwrapped. Nodes are visited in pre-order, and the same subtree is
// returned.
func Rewrite(detached *doctree.Node, req Request) *doctree.Node {
	props := req.Properties()
	var emptied []*doctree.Node
	detached.Walk(func(n *doctree.Node) bool {
		if n == detached || !n.IsElement() {
			return true
		}
		for _, p := range props {
			n.Style.Clear(p)
		}
		if n.IsInlineWrapper() && n.Style.IsEmpty() {
			emptied = append(emptied, n)
		}
		return true
	})
	for i := len(emptied) - 1; i >= 0; i-- {
		emptied[i].Unwrap()
	}
	return detached
}

// coverWrappers widens r over every inline wrapper whose whole text it
// already covers, so the wrapper moves out with its content instead of being
// left behind as an empty shell.
func coverWrappers(r doctree.Range, root *doctree.Node) doctree.Range {
	ca := doctree.CommonAncestor(r.Start.Node, r.End.Node)
	el := ca.EnclosingElement()
	for el != nil && el != root && el.Parent() != nil && el.IsInlineWrapper() {
		if textBefore(el, r.Start) != "" || textAfter(el, r.End) != "" {
			break
		}
		r = doctree.Range{Start: doctree.PointBefore(el), End: doctree.PointAfter(el)}
		el = el.Parent()
	}
	return r
}

func textBefore(el *doctree.Node, p doctree.Point) string {
	var b strings.Builder
	done := false
	el.Walk(func(n *doctree.Node) bool {
		if done {
			return false
		}
		if !n.IsText() {
			return true
		}
		if n == p.Node {
			b.WriteString(n.Data[:p.Clamp().Offset])
			done = true
			return false
		}
		if doctree.ComparePoints(doctree.Point{Node: n}, p) >= 0 {
			done = true
			return false
		}
		b.WriteString(n.Data)
		return true
	})
	return b.String()
}

func textAfter(el *doctree.Node, p doctree.Point) string {
	var b strings.Builder
	el.Walk(func(n *doctree.Node) bool {
		if !n.IsText() {
			return true
		}
		if n == p.Node {
			b.WriteString(n.Data[p.Clamp().Offset:])
			return false
		}
		if doctree.ComparePoints(doctree.Point{Node: n, Offset: len(n.Data)}, p) > 0 {
			b.WriteString(n.Data)
		}
		return false
	})
	return b.String()
}
