package ui

import (
	"inkline/internal/render"
	"inkline/pkg/doctree"
)

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// ControlSlot is where the control for one property sits in the toolbar:
// its field and the clear button right after it.
type ControlSlot struct {
	Property doctree.Property
	Field    Rect
	Clear    Rect
}

type Layout struct {
	MenuH     int
	ToolbarH  int
	StatusH   int
	CanvasY   int
	CanvasH   int
	PageX     int
	PageY     int
	PageW     int
	PageH     int
	ContentX  int
	ContentY  int
	ContentW  int
	ContentH  int
	StatusBar int
	Controls  [len(doctree.Properties)]ControlSlot
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}

	dp := func(v int) int { return int(float32(v) * scale) }

	menuH := dp(theme.MenuHeightDp)
	toolbarH := dp(theme.ToolbarHeightDp)
	statusH := dp(theme.StatusHeightDp)
	margin := dp(theme.PageMarginDp)

	canvasY := menuH + toolbarH
	canvasH := h - canvasY - statusH
	if canvasH < 0 {
		canvasH = 0
	}

	pageW := w - margin*2
	pageH := canvasH - margin*2
	maxPageW := dp(900)
	if pageW > maxPageW {
		pageW = maxPageW
	}
	if pageW < dp(320) {
		pageW = dp(320)
	}
	if pageH < dp(200) {
		pageH = dp(200)
	}
	pageX := (w - pageW) / 2
	pageY := canvasY + margin
	contentPad := dp(18)

	contentW := pageW - contentPad*2
	contentH := pageH - contentPad*2 - dp(4)
	if contentW < dp(100) {
		contentW = dp(100)
	}
	if contentH < dp(100) {
		contentH = dp(100)
	}

	return Layout{
		Controls:  toolbarSlots(theme, menuH, toolbarH, dp),
		MenuH:     menuH,
		ToolbarH:  toolbarH,
		StatusH:   statusH,
		CanvasY:   canvasY,
		CanvasH:   canvasH,
		PageX:     pageX,
		PageY:     pageY,
		PageW:     pageW,
		PageH:     pageH,
		ContentX:  pageX + contentPad,
		ContentY:  pageY + contentPad + dp(8),
		ContentW:  contentW,
		ContentH:  contentH,
		StatusBar: h - statusH,
	}
}

// toolbarSlots lines the styling controls up in property order, each field
// followed by a square clear button.
func toolbarSlots(theme Theme, menuH, toolbarH int, dp func(int) int) [len(doctree.Properties)]ControlSlot {
	var slots [len(doctree.Properties)]ControlSlot
	x := dp(10)
	y := menuH + dp(7)
	h := max(22, toolbarH-dp(14))
	for i, p := range doctree.Properties {
		w := dp(theme.controlWidthDp(p))
		field := Rect{X: x, Y: y, W: w, H: h}
		x += w + dp(2)
		slots[i] = ControlSlot{Property: p, Field: field, Clear: Rect{X: x, Y: y, W: h, H: h}}
		x += h + dp(14)
	}
	return slots
}

// Slot returns the toolbar slot of p.
func (l Layout) Slot(p doctree.Property) ControlSlot {
	for _, s := range l.Controls {
		if s.Property == p {
			return s
		}
	}
	return ControlSlot{}
}

// PaletteGrid places n color cells in rows of four below anchor. It returns
// the popup frame and the cells in order.
func PaletteGrid(anchor Rect, n int, theme Theme, scale float32) (Rect, []Rect) {
	const cols = 4
	dp := func(v int) int { return int(float32(v) * scale) }
	cell := dp(theme.PaletteCellDp)
	pad := dp(8)
	rows := (n + cols - 1) / cols
	frame := Rect{X: anchor.X, Y: anchor.Y + anchor.H + 2, W: pad*2 + cols*cell, H: pad*2 + rows*cell}
	cells := make([]Rect, n)
	for i := range cells {
		cells[i] = Rect{X: frame.X + pad + (i%cols)*cell, Y: frame.Y + pad + (i/cols)*cell, W: cell - 4, H: cell - 4}
	}
	return frame, cells
}

// OptionList stacks n rows below anchor. The list is at least as wide as
// anchor and minW.
func OptionList(anchor Rect, n, minW int, theme Theme, scale float32) (Rect, []Rect) {
	rowH := int(float32(theme.OptionRowDp) * scale)
	w := max(anchor.W, minW)
	frame := Rect{X: anchor.X, Y: anchor.Y + anchor.H + 2, W: w, H: rowH * n}
	rows := make([]Rect, n)
	for i := range rows {
		rows[i] = Rect{X: frame.X, Y: frame.Y + i*rowH, W: w, H: rowH}
	}
	return frame, rows
}

// DrawShell paints the window chrome: menu bar, toolbar strip, page and
// status bar. Controls and text are drawn on top by the host.
func DrawShell(fb *render.FrameBuffer, theme Theme, scale float32) Layout {
	layout := ComputeLayout(fb.W, fb.H, theme, scale)

	fb.Clear(theme.AppBackground)

	fb.FillRect(0, 0, fb.W, layout.MenuH, theme.TopBar)
	fb.FillRect(0, layout.MenuH, fb.W, layout.ToolbarH, theme.Toolbar)
	fb.StrokeRect(0, 0, fb.W, layout.MenuH+layout.ToolbarH, 1, theme.Border)

	fb.FillRect(0, layout.CanvasY, fb.W, layout.CanvasH, theme.Canvas)

	pageX := layout.PageX
	pageY := layout.PageY
	pageW := layout.PageW
	pageH := layout.PageH
	fb.FillRect(pageX+2, pageY+2, pageW, pageH, theme.Shadow)
	fb.FillRect(pageX, pageY, pageW, pageH, theme.Page)
	fb.StrokeRect(pageX, pageY, pageW, pageH, 1, theme.Border)

	accentH := int(3 * scale)
	if accentH < 1 {
		accentH = 1
	}
	fb.FillRect(pageX, pageY, pageW, accentH, theme.Accent)

	fb.FillRect(0, layout.StatusBar, fb.W, layout.StatusH, theme.StatusBar)
	fb.StrokeRect(0, layout.StatusBar, fb.W, layout.StatusH, 1, theme.Border)

	return layout
}
