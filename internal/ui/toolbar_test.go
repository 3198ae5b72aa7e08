package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inkline/internal/config"
	"inkline/internal/render"
	"inkline/internal/styling"
	"inkline/pkg/doctree"
)

func TestSelectSetSafely(t *testing.T) {
	s := Select{Options: []string{"Arial", "Times New Roman"}}

	s.SetSafely("Times New Roman")
	assert.Equal(t, "Times New Roman", s.Value)

	s.SetSafely("times new roman")
	assert.Equal(t, "", s.Value)

	s.SetSafely("Comic Sans MS")
	assert.Equal(t, "", s.Value)

	s.Value = "Arial"
	s.SetSafely("")
	assert.Equal(t, "", s.Value)
}

func TestToolbarShowAndReset(t *testing.T) {
	tb := NewToolbar(config.Default().Toolbar)
	assert.Equal(t, styling.DefaultTextColor, tb.Value(doctree.TextColor))
	assert.Equal(t, styling.DefaultHighlightColor, tb.Value(doctree.HighlightColor))

	tb.Show(styling.Values{FontFamily: "Georgia", FontSize: "13px", TextColor: "#ff0000", Highlight: "#ffff00"})
	assert.Equal(t, "Georgia", tb.Value(doctree.FontFamily))
	assert.Equal(t, "13px", tb.Value(doctree.FontSize))
	assert.Equal(t, "#ff0000", tb.Value(doctree.TextColor))

	tb.ResetControl(doctree.TextColor, styling.ControlDefault(doctree.TextColor))
	tb.ResetControl(doctree.FontFamily, "")
	assert.Equal(t, "#000000", tb.Value(doctree.TextColor))
	assert.Equal(t, "", tb.Value(doctree.FontFamily))
}

func TestToolbarTogglesOnePopupAtATime(t *testing.T) {
	tb := NewToolbar(config.Default().Toolbar)
	tb.Toggle(doctree.FontSize)
	p, ok := tb.OpenProperty()
	assert.True(t, ok)
	assert.Equal(t, doctree.FontSize, p)

	tb.Toggle(doctree.HighlightColor)
	p, _ = tb.OpenProperty()
	assert.Equal(t, doctree.HighlightColor, p)
	assert.False(t, tb.Size.Open)

	tb.Toggle(doctree.HighlightColor)
	_, ok = tb.OpenProperty()
	assert.False(t, ok)
	assert.Equal(t, config.Default().Toolbar.TextPalette, tb.Options(doctree.TextColor))
}

func TestComputeLayoutStacksRegions(t *testing.T) {
	theme := DefaultTheme()
	l := ComputeLayout(1280, 800, theme, 1)
	assert.Equal(t, theme.MenuHeightDp+theme.ToolbarHeightDp, l.CanvasY)
	assert.Equal(t, 800-theme.StatusHeightDp, l.StatusBar)
	assert.LessOrEqual(t, l.PageW, 900)

	fb := render.NewFrameBuffer(1280, 800)
	got := DrawShell(fb, theme, 1)
	assert.Equal(t, l, got)
	assert.Equal(t, theme.TopBar.G, fb.Pixels[(5*fb.W+5)*4+1])
}

func TestComputeLayoutPlacesToolbarSlots(t *testing.T) {
	theme := DefaultTheme()
	l := ComputeLayout(1280, 800, theme, 1)

	prev := 0
	for i, p := range doctree.Properties {
		slot := l.Controls[i]
		assert.Equal(t, p, slot.Property)
		assert.Equal(t, slot, l.Slot(p))
		assert.Greater(t, slot.Field.X, prev)
		assert.Equal(t, slot.Field.X+slot.Field.W+2, slot.Clear.X)
		assert.Equal(t, slot.Field.H, slot.Clear.W)
		assert.GreaterOrEqual(t, slot.Field.Y, l.MenuH)
		assert.LessOrEqual(t, slot.Field.Y+slot.Field.H, l.CanvasY)
		prev = slot.Clear.X
	}
	assert.Equal(t, theme.FamilyWidthDp, l.Slot(doctree.FontFamily).Field.W)
	assert.Equal(t, 2*theme.SizeWidthDp, ComputeLayout(1280, 800, theme, 2).Slot(doctree.FontSize).Field.W)
}

func TestPopupGeometry(t *testing.T) {
	theme := DefaultTheme()
	anchor := Rect{X: 100, Y: 40, W: 56, H: 28}

	frame, cells := PaletteGrid(anchor, 6, theme, 1)
	assert.Equal(t, anchor.Y+anchor.H+2, frame.Y)
	assert.Len(t, cells, 6)
	assert.Equal(t, cells[0].Y, cells[3].Y)
	assert.Greater(t, cells[4].Y, cells[3].Y)
	for _, c := range cells {
		assert.True(t, frame.Contains(c.X, c.Y))
	}

	frame, rows := OptionList(anchor, 3, 120, theme, 1)
	assert.Equal(t, 120, frame.W)
	assert.Equal(t, 3*theme.OptionRowDp, frame.H)
	assert.Equal(t, frame.Y+theme.OptionRowDp, rows[1].Y)
	assert.False(t, frame.Contains(anchor.X, anchor.Y))
}
