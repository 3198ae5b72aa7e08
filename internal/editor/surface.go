package editor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"go.uber.org/zap"

	"inkline/internal/event"
	"inkline/pkg/doctree"
)

// Surface is the editable document: it owns the tree, the live selection and
// the focus flag, and reports selection changes while it has focus.
type Surface struct {
	root    *doctree.Node
	base    doctree.Style
	anchor  doctree.Point
	focus   doctree.Point
	focused bool

	events *event.Dispatcher
	log    *zap.Logger
}

type Option func(*Surface)

func WithDispatcher(d *event.Dispatcher) Option {
	return func(s *Surface) { s.events = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBaseStyle sets the style unstyled text resolves to.
func WithBaseStyle(base doctree.Style) Option {
	return func(s *Surface) { s.base = base }
}

func NewSurface(root *doctree.Node, opts ...Option) *Surface {
	if root == nil || !root.IsElement() {
		root = doctree.NewElement("div", doctree.Style{})
	}
	s := &Surface{root: root, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.anchor = s.endPoint()
	s.focus = s.anchor
	return s
}

func (s *Surface) Root() *doctree.Node     { return s.root }
func (s *Surface) BaseStyle() doctree.Style { return s.base }

func (s *Surface) SetBaseStyle(base doctree.Style) {
	s.base = base
}

// Reset replaces the document content and puts the caret at its end.
func (s *Surface) Reset(root *doctree.Node) {
	if root == nil || !root.IsElement() {
		root = doctree.NewElement("div", doctree.Style{})
	}
	s.root = root
	s.setSelection(s.endPoint(), s.endPoint())
}

func (s *Surface) Focused() bool { return s.focused }

func (s *Surface) Focus() {
	if s.focused {
		return
	}
	s.focused = true
	s.emit(event.FocusGained)
}

func (s *Surface) Blur() {
	if !s.focused {
		return
	}
	s.focused = false
	s.emit(event.FocusLost)
}

// Normalize pulls a selection that no longer points into the tree back to
// the end of the document.
func (s *Surface) Normalize() {
	if !s.anchor.Within(s.root) || !s.focus.Within(s.root) {
		end := s.endPoint()
		s.anchor, s.focus = end, end
		return
	}
	s.anchor = s.anchor.Clamp()
	s.focus = s.focus.Clamp()
}

// Selection returns the live selection. It reports false when the surface
// is not focused.
func (s *Surface) Selection() (doctree.Range, bool) {
	if !s.focused {
		return doctree.Range{}, false
	}
	s.Normalize()
	return doctree.Range{Start: s.anchor, End: s.focus}, true
}

// Select replaces the selection. The anchor is r.Start and the caret r.End.
func (s *Surface) Select(r doctree.Range) {
	if r.Start.Node == nil || r.End.Node == nil {
		return
	}
	s.setSelection(r.Start, r.End)
}

func (s *Surface) setSelection(anchor, focus doctree.Point) {
	changed := anchor != s.anchor || focus != s.focus
	s.anchor = anchor
	s.focus = focus
	s.Normalize()
	if changed {
		s.emit(event.SelectionChange)
	}
}

func (s *Surface) Caret() doctree.Point {
	s.Normalize()
	return s.focus
}

func (s *Surface) HasSelection() bool {
	s.Normalize()
	return doctree.ComparePoints(s.anchor, s.focus) != 0 &&
		doctree.TextOffset(s.root, s.anchor) != doctree.TextOffset(s.root, s.focus)
}

// SetCaret moves the caret to p. With extend the anchor stays put.
func (s *Surface) SetCaret(p doctree.Point, extend bool) {
	if !p.Within(s.root) {
		return
	}
	if extend {
		s.setSelection(s.anchor, p)
		return
	}
	s.setSelection(p, p)
}

// SetCaretOffset places the caret at a flat text offset.
func (s *Surface) SetCaretOffset(off int, extend bool) {
	s.SetCaret(doctree.PointAtTextOffset(s.root, off), extend)
}

// Offsets returns the selection as ordered flat text offsets.
func (s *Surface) Offsets() (int, int) {
	s.Normalize()
	a := doctree.TextOffset(s.root, s.anchor)
	b := doctree.TextOffset(s.root, s.focus)
	if a > b {
		a, b = b, a
	}
	return a, b
}

func (s *Surface) CaretOffset() int {
	return doctree.TextOffset(s.root, s.Caret())
}

func (s *Surface) Extract(r doctree.Range) (*doctree.Node, doctree.Point) {
	return doctree.Extract(r)
}

func (s *Surface) Insert(p doctree.Point, nodes ...*doctree.Node) doctree.Point {
	return doctree.Insert(p, nodes...)
}

// ExtractSelection detaches the selected content and collapses the selection
// where it used to be.
func (s *Surface) ExtractSelection() (*doctree.Node, bool) {
	r, ok := s.Selection()
	if !ok || r.Collapsed() {
		return nil, false
	}
	frag, at := doctree.Extract(r)
	s.setSelection(at, at)
	return frag, true
}

// ReplaceSelection swaps the selected content for nodes and puts the caret
// after them.
func (s *Surface) ReplaceSelection(nodes ...*doctree.Node) {
	r, ok := s.Selection()
	if !ok {
		return
	}
	_, at := doctree.Extract(r)
	end := doctree.Insert(at, nodes...)
	s.collapseAt(doctree.TextOffset(s.root, end))
}

func (s *Surface) Resolve(n *doctree.Node) doctree.Computed {
	return doctree.Resolve(n, s.base)
}

func (s *Surface) Text() string {
	return s.root.TextContent()
}

func (s *Surface) HTML() string {
	return doctree.RenderHTML(s.root)
}

func (s *Surface) SelectAll() {
	s.setSelection(doctree.Point{Node: s.root, Offset: 0}, s.endPoint())
}

func (s *Surface) SelectedText() string {
	if !s.HasSelection() {
		return ""
	}
	a, b := s.Offsets()
	return stripPlaceholders(s.Text()[a:b])
}

// DeleteSelection removes the selected content. It reports whether anything
// was removed.
func (s *Surface) DeleteSelection() bool {
	if !s.HasSelection() {
		return false
	}
	a, b := s.Offsets()
	s.deleteOffsets(a, b)
	return true
}

// InsertText types input at the caret, replacing any selection. Text typed
// into a carrier replaces its placeholder.
func (s *Surface) InsertText(input string) error {
	if input == "" {
		return nil
	}
	if !utf8.ValidString(input) {
		return fmt.Errorf("input must be valid UTF-8")
	}
	input = strings.ReplaceAll(input, "\r\n", "\n")
	s.DeleteSelection()
	s.Normalize()

	caret := s.focus
	n := caret.Node
	switch {
	case n.IsText() && n.Data == doctree.Placeholder:
		n.Data = input
		caret = doctree.Point{Node: n, Offset: len(n.Data)}
	case n.IsText():
		off := caret.Offset
		n.Data = n.Data[:off] + input + n.Data[off:]
		caret = doctree.Point{Node: n, Offset: off + len(input)}
	default:
		t := s.textBeforeBoundary(caret)
		if t == nil {
			t = doctree.NewText("")
			doctree.Insert(caret, t)
		}
		if t.Data == doctree.Placeholder {
			t.Data = ""
		}
		t.Data += input
		caret = doctree.Point{Node: t, Offset: len(t.Data)}
	}
	s.setSelection(caret, caret)
	s.log.Debug("typed", zap.Int("bytes", len(input)))
	return nil
}

// textBeforeBoundary returns the text node ending right at an element
// boundary, if there is one.
func (s *Surface) textBeforeBoundary(p doctree.Point) *doctree.Node {
	if p.Offset <= 0 || p.Offset > p.Node.Len() {
		return nil
	}
	prev := p.Node.Children()[p.Offset-1]
	if prev.IsText() {
		return prev
	}
	return nil
}

func (s *Surface) Backspace() {
	if s.DeleteSelection() {
		return
	}
	off := s.CaretOffset()
	start := previousCluster(s.Text(), off)
	if start == off {
		return
	}
	s.deleteOffsets(start, off)
}

func (s *Surface) DeleteForward() {
	if s.DeleteSelection() {
		return
	}
	off := s.CaretOffset()
	end := nextCluster(s.Text(), off)
	if end == off {
		return
	}
	s.deleteOffsets(off, end)
}

func (s *Surface) DeleteWordBackward() {
	if s.DeleteSelection() {
		return
	}
	off := s.CaretOffset()
	if start := previousWordBoundary(s.Text(), off); start < off {
		s.deleteOffsets(start, off)
	}
}

func (s *Surface) DeleteWordForward() {
	if s.DeleteSelection() {
		return
	}
	off := s.CaretOffset()
	if end := nextWordBoundary(s.Text(), off); end > off {
		s.deleteOffsets(off, end)
	}
}

func (s *Surface) deleteOffsets(from, to int) {
	r := doctree.Range{
		Start: s.pointAtOffset(from, true),
		End:   s.pointAtOffset(to, false),
	}
	doctree.Extract(r)
	s.collapseAt(from)
}

// collapseAt prunes what an edit left empty and puts the caret at a flat
// offset. Pruned nodes hold no text, so offsets survive the pruning.
func (s *Surface) collapseAt(off int) {
	s.prune()
	p := doctree.PointAtTextOffset(s.root, off)
	s.setSelection(p, p)
}

// pointAtOffset resolves a flat offset. Leading points prefer the start of
// the following run so that a whole styled run can be removed.
func (s *Surface) pointAtOffset(off int, leading bool) doctree.Point {
	p := doctree.PointAtTextOffset(s.root, off)
	if leading && p.Node.IsText() && p.Offset == len(p.Node.Data) {
		if next, ok := doctree.NextTextPosition(s.root, p); ok {
			prev, _ := doctree.PrevTextPosition(s.root, next)
			if prev.Node != p.Node {
				return prev
			}
		}
	}
	return p
}

func (s *Surface) MoveLeft(extend bool) {
	if !extend && s.HasSelection() {
		a, _ := s.Offsets()
		s.SetCaretOffset(a, false)
		return
	}
	s.SetCaretOffset(previousCluster(s.Text(), s.CaretOffset()), extend)
}

func (s *Surface) MoveRight(extend bool) {
	if !extend && s.HasSelection() {
		_, b := s.Offsets()
		s.SetCaretOffset(b, false)
		return
	}
	s.SetCaretOffset(nextCluster(s.Text(), s.CaretOffset()), extend)
}

func (s *Surface) MoveWordLeft(extend bool) {
	s.SetCaretOffset(previousWordBoundary(s.Text(), s.CaretOffset()), extend)
}

func (s *Surface) MoveWordRight(extend bool) {
	s.SetCaretOffset(nextWordBoundary(s.Text(), s.CaretOffset()), extend)
}

func (s *Surface) MoveLineStart(extend bool) {
	text := s.Text()
	off := s.CaretOffset()
	s.SetCaretOffset(strings.LastIndexByte(text[:off], '\n')+1, extend)
}

func (s *Surface) MoveLineEnd(extend bool) {
	text := s.Text()
	off := s.CaretOffset()
	end := strings.IndexByte(text[off:], '\n')
	if end < 0 {
		s.SetCaretOffset(len(text), extend)
		return
	}
	s.SetCaretOffset(off+end, extend)
}

func (s *Surface) MoveDocumentStart(extend bool) {
	s.SetCaretOffset(0, extend)
}

func (s *Surface) MoveDocumentEnd(extend bool) {
	s.SetCaret(s.endPoint(), extend)
}

func (s *Surface) endPoint() doctree.Point {
	return doctree.PointAtTextOffset(s.root, len(s.root.TextContent()))
}

// prune drops empty text runs and inline wrappers left without text.
func (s *Surface) prune() {
	var empty []*doctree.Node
	s.root.Walk(func(n *doctree.Node) bool {
		if n == s.root {
			return true
		}
		switch {
		case n.IsText() && n.Data == "":
			empty = append(empty, n)
		case n.IsInlineWrapper() && n.TextContent() == "":
			empty = append(empty, n)
			return false
		}
		return true
	})
	for _, n := range empty {
		n.Remove()
	}
}

func (s *Surface) emit(t event.Type) {
	if s.events == nil {
		return
	}
	if t == event.SelectionChange && !s.focused {
		return
	}
	s.events.Dispatch(event.Event{Type: t})
}

// previousCluster returns the start of the grapheme cluster before pos,
// stepping over placeholders.
func previousCluster(text string, pos int) int {
	for pos > 0 {
		start := 0
		state := -1
		rest := text[:pos]
		for rest != "" {
			var cluster string
			cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if rest == "" {
				if cluster == doctree.Placeholder {
					break
				}
				return start
			}
			start += len(cluster)
		}
		pos = start
	}
	return 0
}

// nextCluster returns the end of the grapheme cluster at pos, stepping over
// placeholders.
func nextCluster(text string, pos int) int {
	for pos < len(text) {
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(text[pos:], -1)
		if cluster == "" {
			return len(text)
		}
		pos += len(cluster)
		if cluster != doctree.Placeholder {
			return pos
		}
	}
	return len(text)
}

func previousWordBoundary(text string, pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:pos])
		if isWordRune(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:pos])
		if !isWordRune(r) {
			break
		}
		pos -= size
	}
	return pos
}

func nextWordBoundary(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if isWordRune(r) {
			break
		}
		pos += size
	}
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !isWordRune(r) {
			break
		}
		pos += size
	}
	return pos
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func stripPlaceholders(s string) string {
	return strings.ReplaceAll(s, doctree.Placeholder, "")
}
