package app

import (
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"inkline/pkg/doctree"
)

// segment is a styled piece of one rendered line. start is the flat text
// offset of its first byte; text may hold carrier placeholders, which take
// up no room.
type segment struct {
	start int
	text  string
	face  font.Face
	fg    color.RGBA
	bg    color.RGBA
	hasBG bool
	width int
}

func (s segment) end() int { return s.start + len(s.text) }

type lineLayout struct {
	start    int
	end      int
	segments []segment
	docX     int
	docY     int
	viewX    int
	y        int
	baseline int
	height   int
	ascent   int
	width    int
}

var defaultInk = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}

// rgbaOf converts a resolved rgb(r, g, b) or hex color. ok is false when the
// value names no color.
func rgbaOf(value string) (color.RGBA, bool) {
	hex, ok := doctree.NormalizeColor(value)
	if !ok {
		return color.RGBA{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, true
}

func visible(s string) string {
	return strings.ReplaceAll(s, doctree.Placeholder, "")
}

// layoutDocumentLines turns the tree into lines of styled segments. Text is
// treated as one stream split on newlines; every run is styled with its
// resolved style.
func (a *App) layoutDocumentLines() {
	a.lines = a.lines[:0]
	if a.contentRect.w <= 0 || a.contentRect.h <= 0 {
		return
	}
	scale := float64(a.scale())
	base := a.surface.BaseStyle()
	basePx := fontPixels(base.Get(doctree.FontSize), 16)
	baseFace := a.fonts.face(familyKind(base.Get(doctree.FontFamily)), basePx*scale)

	cur := lineLayout{start: 0}
	flush := func(end int) {
		cur.end = end
		maxAscent, maxDescent := 0, 0
		faces := []font.Face{baseFace}
		if len(cur.segments) > 0 {
			faces = faces[:0]
		}
		for _, seg := range cur.segments {
			faces = append(faces, seg.face)
			cur.width += seg.width
		}
		for _, f := range faces {
			m := f.Metrics()
			maxAscent = max(maxAscent, m.Ascent.Round())
			maxDescent = max(maxDescent, m.Descent.Round())
		}
		cur.ascent = maxAscent
		cur.height = max(18, maxAscent+maxDescent+int(6*scale))
		a.lines = append(a.lines, cur)
		cur = lineLayout{start: end + 1}
	}

	off := 0
	a.surface.Root().Walk(func(n *doctree.Node) bool {
		if !n.IsText() {
			return true
		}
		style := a.surface.Resolve(n)
		face := a.fonts.face(familyKind(style.FontFamily), fontPixels(style.FontSize, basePx)*scale)
		fg, ok := rgbaOf(style.Color)
		if !ok {
			fg = defaultInk
		}
		bg, hasBG := rgbaOf(style.Background)
		data := n.Data
		for {
			i := strings.IndexByte(data, '\n')
			piece := data
			if i >= 0 {
				piece = data[:i]
			}
			if piece != "" {
				cur.segments = append(cur.segments, segment{
					start: off,
					text:  piece,
					face:  face,
					fg:    fg,
					bg:    bg,
					hasBG: hasBG,
					width: a.measureString(face, visible(piece)),
				})
			}
			off += len(piece)
			if i < 0 {
				break
			}
			flush(off)
			off++
			data = data[i+1:]
		}
		return true
	})
	flush(off)

	docY := 4
	lineGap := max(2, int(4*scale))
	maxWidth := 0
	for i := range a.lines {
		a.lines[i].docX = 8
		a.lines[i].docY = docY
		docY += a.lines[i].height + lineGap
		maxWidth = max(maxWidth, 8+a.lines[i].width)
	}

	contentW := max(1, a.contentRect.w-12)
	a.maxY = math.Max(0, float64(docY+6-a.contentRect.h))
	a.maxX = math.Max(0, float64(maxWidth-contentW))
	a.clampScroll()

	for i := range a.lines {
		a.lines[i].y = a.contentRect.y + a.lines[i].docY - int(a.scrollY)
		a.lines[i].viewX = a.contentRect.x + a.lines[i].docX - int(a.scrollX)
		a.lines[i].baseline = a.lines[i].y + a.lines[i].ascent + 1
	}
}

// lineAt returns the index of the line holding flat offset off.
func (a *App) lineAt(off int) int {
	for i, l := range a.lines {
		if off >= l.start && off <= l.end {
			return i
		}
	}
	return len(a.lines) - 1
}

func (a *App) hitTestOffset(x, y int) int {
	if len(a.lines) == 0 {
		return a.surface.CaretOffset()
	}
	first := a.lines[0]
	if y <= first.y {
		return a.offsetAtX(first, x-first.viewX)
	}
	for _, l := range a.lines {
		if y >= l.y && y <= l.y+l.height {
			return a.offsetAtX(l, x-l.viewX)
		}
	}
	last := a.lines[len(a.lines)-1]
	return a.offsetAtX(last, x-last.viewX)
}

// lineAdvance is the x advance from the start of line to flat offset off.
func (a *App) lineAdvance(line lineLayout, off int) int {
	if off <= line.start {
		return 0
	}
	if off >= line.end {
		return line.width
	}
	advance := 0
	for _, seg := range line.segments {
		if off >= seg.end() {
			advance += seg.width
			continue
		}
		if off <= seg.start {
			break
		}
		advance += a.measureString(seg.face, visible(seg.text[:off-seg.start]))
		break
	}
	return advance
}

func (a *App) offsetAtX(line lineLayout, relX int) int {
	if relX <= 0 {
		return line.start
	}
	x := 0
	for _, seg := range line.segments {
		if relX > x+seg.width {
			x += seg.width
			continue
		}
		for pos := 0; pos < len(seg.text); {
			_, size := utf8.DecodeRuneInString(seg.text[pos:])
			if size <= 0 {
				size = 1
			}
			runX := x + a.measureString(seg.face, visible(seg.text[:pos]))
			rw := x + a.measureString(seg.face, visible(seg.text[:pos+size])) - runX
			if 2*relX < 2*runX+rw {
				return seg.start + pos
			}
			pos += size
		}
		return seg.end()
	}
	return line.end
}

// moveVertical moves the caret to the nearest offset on the line above or
// below, keeping its x position.
func (a *App) moveVertical(dir int, extend bool) {
	if len(a.lines) == 0 {
		return
	}
	off := a.surface.CaretOffset()
	i := a.lineAt(off)
	target := i + dir
	if target < 0 {
		a.surface.MoveDocumentStart(extend)
		return
	}
	if target >= len(a.lines) {
		a.surface.MoveDocumentEnd(extend)
		return
	}
	x := a.lineAdvance(a.lines[i], off)
	a.surface.SetCaretOffset(a.offsetAtX(a.lines[target], x), extend)
}

func (a *App) clampScroll() {
	a.scrollX = math.Min(math.Max(a.scrollX, 0), a.maxX)
	a.scrollY = math.Min(math.Max(a.scrollY, 0), a.maxY)
}

func (a *App) ensureCaretVisible() {
	if len(a.lines) == 0 || a.contentRect.h <= 0 {
		return
	}
	off := a.surface.CaretOffset()
	l := a.lines[a.lineAt(off)]

	top := float64(l.docY)
	bottom := float64(l.docY + l.height)
	if top < a.scrollY {
		a.scrollY = top
	}
	if bottom > a.scrollY+float64(a.contentRect.h) {
		a.scrollY = bottom - float64(a.contentRect.h)
	}

	caretX := float64(l.docX + a.lineAdvance(l, off))
	viewW := float64(a.contentRect.w - 12)
	padding := 16.0
	if caretX < a.scrollX+padding {
		a.scrollX = math.Max(0, caretX-padding)
	}
	if caretX > a.scrollX+viewW-padding {
		a.scrollX = caretX - viewW + padding
	}
	a.clampScroll()
}
