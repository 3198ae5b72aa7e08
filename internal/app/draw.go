package app

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"inkline/internal/render"
	"inkline/internal/ui"
	"inkline/pkg/doctree"
)

var pixel *ebiten.Image

// fillRect paints a rectangle on an ebiten image, blending by c.A.
func fillRect(dst *ebiten.Image, x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if pixel == nil {
		pixel = ebiten.NewImage(1, 1)
		pixel.Fill(color.White)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(pixel, op)
}

func strokeRect(dst *ebiten.Image, r rect, c color.RGBA) {
	fillRect(dst, r.x, r.y, r.w, 1, c)
	fillRect(dst, r.x, r.y+r.h-1, r.w, 1, c)
	fillRect(dst, r.x, r.y, 1, r.h, c)
	fillRect(dst, r.x+r.w-1, r.y, 1, r.h, c)
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}

	layout := ui.DrawShell(a.frameBuffer, a.theme, a.scale())
	menuFace := a.uiFace(11, false)
	toolbarFace := a.uiFace(11, false)
	statusFace := a.uiFace(10, false)

	a.layoutMenuActions(menuFace, layout)
	a.layoutToolbarControls(layout)
	a.layoutContentRects(layout)

	a.drawDocumentChrome(layout)
	a.drawToolbarChrome()
	a.layoutDocumentLines()
	a.drawDocumentBackgrounds()
	a.drawSelectionAndCaret()
	a.drawScrollbars()

	a.canvas.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.canvas, nil)

	a.drawMenuLabels(screen, menuFace)
	a.drawToolbarLabels(screen, toolbarFace)
	a.drawDocumentText(screen)
	a.drawPopup(screen, toolbarFace)

	name := "Untitled"
	if a.filePath != "" {
		name = filepath.Base(a.filePath)
	}
	start, end := a.surface.Offsets()
	typing := a.styles.State().Style().String()
	if typing == "" {
		typing = "none"
	}
	statusLeft := fmt.Sprintf("[ Caret %d ] [ Selection %d-%d ] [ Typing %s ]", a.surface.CaretOffset(), start, end, typing)
	statusRight := fmt.Sprintf("[ %s ] [ %s ]", name, a.status)
	text.Draw(screen, statusLeft, statusFace, 12, h-10, a.theme.Label)
	text.Draw(screen, statusRight, statusFace, max(420, w/2), h-10, a.theme.Label)

	if a.showHelp {
		a.drawHelpOverlay(screen, toolbarFace)
	}
}

func (a *App) layoutContentRects(layout ui.Layout) {
	textBox := rect{x: layout.ContentX + 6, y: layout.ContentY + 6, w: layout.ContentW - 12, h: layout.ContentH - 10}
	textBox.w = max(textBox.w, 260)
	textBox.h = max(textBox.h, 180)
	a.contentRect = textBox
}

func (a *App) drawDocumentChrome(layout ui.Layout) {
	a.frameBuffer.FillRect(layout.ContentX+4, layout.ContentY+4, layout.ContentW-8, layout.ContentH-8, a.theme.Page)
	a.frameBuffer.StrokeRect(a.contentRect.x, a.contentRect.y, a.contentRect.w, a.contentRect.h, 1, a.theme.ControlBorder)
}

func (a *App) layoutMenuActions(face font.Face, layout ui.Layout) {
	a.menuActions = a.menuActions[:0]
	items := []actionButton{
		{id: "new", label: "New"},
		{id: "open", label: "Open"},
		{id: "save", label: "Save"},
		{id: "save_as", label: "Save As"},
		{id: "clear_all", label: "Clear Formatting"},
		{id: "zoom_out", label: "A-"},
		{id: "zoom_in", label: "A+"},
		{id: "help", label: "Help"},
	}
	x := 10
	y := 4
	h := max(24, layout.MenuH-8)
	pad := int(14 * a.scale())
	for _, item := range items {
		bw := a.measureString(face, item.label) + pad*2
		item.r = rect{x: x, y: y, w: bw, h: h}
		a.menuActions = append(a.menuActions, item)
		x += bw + 4
	}
}

// layoutToolbarControls takes the styling controls and their clear buttons
// from the shell layout.
func (a *App) layoutToolbarControls(layout ui.Layout) {
	a.controls = a.controls[:0]
	for _, slot := range layout.Controls {
		kind := controlSelect
		if slot.Property.IsColor() {
			kind = controlColor
		}
		a.controls = append(a.controls,
			control{kind: kind, prop: slot.Property, r: rectOf(slot.Field)},
			control{kind: controlClear, prop: slot.Property, r: rectOf(slot.Clear)},
		)
	}
}

func rectOf(r ui.Rect) rect {
	return rect{x: r.X, y: r.Y, w: r.W, h: r.H}
}

func (a *App) drawToolbarChrome() {
	fb := a.frameBuffer
	for _, c := range a.controls {
		bg := a.theme.Control
		if c.kind != controlClear && a.styles.State().Active(c.prop) {
			bg = a.theme.ControlActive
		}
		fb.FillRect(c.r.x, c.r.y, c.r.w, c.r.h, bg)
		fb.StrokeRect(c.r.x, c.r.y, c.r.w, c.r.h, 1, a.theme.ControlBorder)
		if c.kind == controlColor {
			fill, ok := rgbaOf(a.toolbar.Value(c.prop))
			if !ok {
				fill = a.theme.Page
			}
			size := c.r.h - 8
			fb.Swatch(c.r.x+4, c.r.y+4, size, fill, a.theme.ControlBorder)
		}
	}
}

func (a *App) drawMenuLabels(screen *ebiten.Image, face font.Face) {
	textColor := color.RGBA{R: 244, G: 248, B: 255, A: 255}
	for _, btn := range a.menuActions {
		drawCentered(screen, face, btn.label, btn.r, textColor, a.measureString(face, btn.label))
	}
}

func drawCentered(screen *ebiten.Image, face font.Face, label string, r rect, c color.Color, tw int) {
	m := face.Metrics()
	ascent := m.Ascent.Round()
	descent := m.Descent.Round()
	x := r.x + (r.w-tw)/2
	baseline := r.y + (r.h+ascent+descent)/2 - descent
	text.Draw(screen, label, face, x, baseline, c)
}

func (a *App) drawToolbarLabels(screen *ebiten.Image, face font.Face) {
	muted := color.RGBA{R: 0x8A, G: 0x96, B: 0xA8, A: 0xFF}
	for _, c := range a.controls {
		switch c.kind {
		case controlSelect:
			label := a.toolbar.Value(c.prop)
			clr := color.Color(a.theme.Label)
			if label == "" {
				label = c.prop.String()
				clr = muted
			}
			m := face.Metrics()
			baseline := c.r.y + (c.r.h+m.Ascent.Round()-m.Descent.Round())/2
			text.Draw(screen, label, face, c.r.x+6, baseline, clr)
			text.Draw(screen, "v", face, c.r.x+c.r.w-a.measureString(face, "v")-6, baseline, muted)
		case controlColor:
			label := "A"
			if c.prop == doctree.HighlightColor {
				label = "H"
			}
			r := c.r
			r.x += r.h - 2
			r.w -= r.h - 2
			drawCentered(screen, face, label, r, a.theme.Label, a.measureString(face, label))
		case controlClear:
			drawCentered(screen, face, "x", c.r, a.theme.Label, a.measureString(face, "x"))
		}
	}
}

// drawPopup paints the open drop-down or palette under its control and
// records the hit areas of its items.
func (a *App) drawPopup(screen *ebiten.Image, face font.Face) {
	a.popupItems = a.popupItems[:0]
	a.popupRect = rect{}
	p, open := a.toolbar.OpenProperty()
	if !open {
		return
	}
	var anchor ui.Rect
	for _, c := range a.controls {
		if c.prop == p && c.kind != controlClear {
			anchor = ui.Rect{X: c.r.x, Y: c.r.y, W: c.r.w, H: c.r.h}
		}
	}
	options := a.toolbar.Options(p)
	if len(options) == 0 {
		return
	}
	current := a.toolbar.Value(p)

	if p.IsColor() {
		frame, cells := ui.PaletteGrid(anchor, len(options), a.theme, a.scale())
		a.popupRect = rectOf(frame)
		fillRect(screen, a.popupRect.x, a.popupRect.y, a.popupRect.w, a.popupRect.h, a.theme.Toolbar)
		strokeRect(screen, a.popupRect, a.theme.ControlBorder)
		for i, v := range options {
			r := rectOf(cells[i])
			fill, ok := rgbaOf(v)
			if !ok {
				continue
			}
			fillRect(screen, r.x, r.y, r.w, r.h, fill)
			frame := a.theme.ControlBorder
			if v == current {
				frame = a.theme.Caret
			}
			strokeRect(screen, r, frame)
			a.popupItems = append(a.popupItems, popupItem{value: v, r: r})
		}
		return
	}

	pad := int(16 * a.scale())
	minW := 0
	for _, v := range options {
		minW = max(minW, a.measureString(face, v)+pad)
	}
	frame, rows := ui.OptionList(anchor, len(options), minW, a.theme, a.scale())
	a.popupRect = rectOf(frame)
	fillRect(screen, a.popupRect.x, a.popupRect.y, a.popupRect.w, a.popupRect.h, a.theme.Page)
	strokeRect(screen, a.popupRect, a.theme.ControlBorder)
	cx, cy := ebiten.CursorPosition()
	m := face.Metrics()
	for i, v := range options {
		r := rectOf(rows[i])
		switch {
		case v == current:
			fillRect(screen, r.x+1, r.y+1, r.w-2, r.h-2, a.theme.ControlActive)
		case r.contains(cx, cy):
			fillRect(screen, r.x+1, r.y+1, r.w-2, r.h-2, a.theme.ControlHover)
		}
		baseline := r.y + (r.h+m.Ascent.Round()-m.Descent.Round())/2
		text.Draw(screen, v, face, r.x+8, baseline, a.theme.Label)
		a.popupItems = append(a.popupItems, popupItem{value: v, r: r})
	}
}

// drawDocumentBackgrounds paints highlight colors under the text, before the
// selection so a selection stays visible over highlighted runs.
func (a *App) drawDocumentBackgrounds() {
	for _, l := range a.lines {
		x := l.viewX
		for _, seg := range l.segments {
			if seg.hasBG && seg.width > 0 {
				m := seg.face.Metrics()
				top := l.baseline - m.Ascent.Round()
				a.fillRectWithinContent(x, top, seg.width, m.Ascent.Round()+m.Descent.Round(), seg.bg)
			}
			x += seg.width
		}
	}
}

func (a *App) drawSelectionAndCaret() {
	if len(a.lines) == 0 {
		return
	}
	if a.surface.HasSelection() {
		start, end := a.surface.Offsets()
		for _, l := range a.lines {
			from := max(start, l.start)
			to := min(end, l.end)
			if to <= from {
				continue
			}
			x0 := l.viewX + a.lineAdvance(l, from)
			x1 := l.viewX + a.lineAdvance(l, to)
			sel := a.theme.Selection
			sel.A = 0x90
			a.blendRectWithinContent(x0, l.y+1, x1-x0, l.height-2, sel)
		}
		return
	}
	if !a.surface.Focused() || (a.frameTick/30)%2 != 0 {
		return
	}
	off := a.surface.CaretOffset()
	l := a.lines[a.lineAt(off)]
	x := l.viewX + a.lineAdvance(l, off)
	a.fillRectWithinContent(x, l.y+2, 1, max(2, l.height-4), a.theme.Caret)
}

func (a *App) drawDocumentText(screen *ebiten.Image) {
	if a.contentRect.w <= 0 || a.contentRect.h <= 0 {
		return
	}
	if a.docLayer == nil || a.docLayer.Bounds().Dx() != a.contentRect.w || a.docLayer.Bounds().Dy() != a.contentRect.h {
		a.docLayer = ebiten.NewImage(max(1, a.contentRect.w), max(1, a.contentRect.h))
	}
	a.docLayer.Clear()

	for _, l := range a.lines {
		relY := l.y - a.contentRect.y
		if relY+l.height < 0 || relY > a.contentRect.h {
			continue
		}
		x := l.viewX - a.contentRect.x
		baseline := l.baseline - a.contentRect.y
		for _, seg := range l.segments {
			if s := visible(seg.text); s != "" {
				text.Draw(a.docLayer, s, seg.face, x, baseline, seg.fg)
			}
			x += seg.width
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(a.contentRect.x), float64(a.contentRect.y))
	screen.DrawImage(a.docLayer, op)
}

func (a *App) drawScrollbars() {
	if a.maxY <= 0 {
		return
	}
	trackX := a.contentRect.x + a.contentRect.w - 6
	trackY := a.contentRect.y + 2
	trackH := a.contentRect.h - 8
	a.frameBuffer.FillRect(trackX, trackY, 4, trackH, color.RGBA{R: 231, G: 236, B: 244, A: 255})
	thumbH := max(24, int(float64(trackH)*float64(a.contentRect.h)/(float64(a.contentRect.h)+a.maxY)))
	thumbY := trackY + int((a.scrollY/a.maxY)*float64(trackH-thumbH))
	a.frameBuffer.FillRect(trackX, thumbY, 4, thumbH, color.RGBA{R: 156, G: 170, B: 190, A: 255})
}

func (a *App) layoutHelpDialogBounds(w, h int) {
	panelW := min(int(float64(w)*0.6), w-40)
	panelH := min(int(float64(h)*0.6), h-40)
	px := (w - panelW) / 2
	py := (h - panelH) / 2
	a.helpRect = rect{x: px, y: py, w: panelW, h: panelH}
	a.helpClose = rect{x: px + panelW - 94, y: py + 12, w: 78, h: 30}
}

func (a *App) drawHelpOverlay(screen *ebiten.Image, face font.Face) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	a.layoutHelpDialogBounds(w, h)
	r := a.helpRect
	fillRect(screen, 0, 0, w, h, color.RGBA{A: 90})
	fillRect(screen, r.x, r.y, r.w, r.h, color.RGBA{R: 250, G: 251, B: 253, A: 255})
	strokeRect(screen, r, a.theme.ControlBorder)

	fillRect(screen, a.helpClose.x, a.helpClose.y, a.helpClose.w, a.helpClose.h, a.theme.Control)
	drawCentered(screen, face, "Close", a.helpClose, a.theme.Label, a.measureString(face, "Close"))

	text.Draw(screen, "Help", a.uiFace(12, true), r.x+22, r.y+30, a.theme.Label)
	lines := []string{
		"Ctrl+S: Save | Ctrl+Shift+S: Save As",
		"Ctrl+O: Open | Ctrl+N: New",
		"Ctrl+A: Select all | Ctrl+C/X/V: Clipboard",
		"Toolbar: pick a font, size or color for the selection",
		"Picking the active value again turns it off",
		"x next to a control clears that style | Ctrl+\\ clears all",
		"With no selection, the style applies to what you type next",
		"F1 or Esc closes this dialog",
	}
	y := r.y + 62
	labelFace := a.uiFace(10, false)
	for _, l := range lines {
		text.Draw(screen, l, labelFace, r.x+20, y, a.theme.Label)
		y += int(24 * a.scale())
	}
}

func (a *App) clipToContent(x, y, w, h int) (int, int, int, int, bool) {
	cx, cy, cw, ch := a.contentRect.x, a.contentRect.y, a.contentRect.w, a.contentRect.h
	if x < cx {
		w -= cx - x
		x = cx
	}
	if y < cy {
		h -= cy - y
		y = cy
	}
	w = min(w, cx+cw-x)
	h = min(h, cy+ch-y)
	return x, y, w, h, w > 0 && h > 0
}

func (a *App) fillRectWithinContent(x, y, w, h int, c color.RGBA) {
	if x, y, w, h, ok := a.clipToContent(x, y, w, h); ok {
		a.frameBuffer.FillRect(x, y, w, h, c)
	}
}

func (a *App) blendRectWithinContent(x, y, w, h int, c color.RGBA) {
	if x, y, w, h, ok := a.clipToContent(x, y, w, h); ok {
		a.frameBuffer.BlendRect(x, y, w, h, c)
	}
}
