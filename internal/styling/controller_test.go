package styling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkline/pkg/doctree"
)

type recordedReset struct {
	prop  doctree.Property
	value string
}

type fakeControls struct {
	resets []recordedReset
}

func (f *fakeControls) ResetControl(p doctree.Property, value string) {
	f.resets = append(f.resets, recordedReset{prop: p, value: value})
}

func TestSetTextColorNormalizesAndWraps(t *testing.T) {
	s := newSurface(t, "hello")
	s.SelectAll()
	c := NewController(s)

	c.SetTextColor("#FF0000")

	assert.Equal(t, `<span style="color: #ff0000">hello</span>`, s.HTML())
	assert.Equal(t, "#ff0000", c.State().Get(doctree.TextColor))
}

func TestRepeatedValueTogglesOff(t *testing.T) {
	s := newSurface(t, "hello")
	c := NewController(s)

	s.SelectAll()
	c.SetTextColor("#ff0000")
	selectOffsets(s, 0, 5)
	c.SetTextColor("#FF0000")

	assert.Equal(t, "hello", s.HTML())
	assert.False(t, c.State().Active(doctree.TextColor))
}

func TestToggleOffAtCaretUnwrapsEmptiedElement(t *testing.T) {
	s := newSurface(t, `ab<span style="color: #ff0000">cd</span>`)
	c := NewController(s)
	c.State().set(doctree.TextColor, "#ff0000")
	s.SetCaretOffset(3, false)

	c.SetTextColor("#ff0000")

	assert.Equal(t, "abcd", s.HTML())
	assert.Equal(t, "", c.State().Get(doctree.TextColor))
	assert.Equal(t, 3, s.CaretOffset())
}

func TestSwitchingValueReplacesSlot(t *testing.T) {
	s := newSurface(t, "abc")
	c := NewController(s)
	s.SelectAll()
	c.SetFontSize("12px")
	s.SelectAll()
	c.SetFontSize("18px")

	assert.Equal(t, "18px", c.State().Get(doctree.FontSize))
	assert.Equal(t, `<span style="font-size: 18px">abc</span>`, s.HTML())
}

func TestEmptyOrInvalidValuesAreIgnored(t *testing.T) {
	s := newSurface(t, "abc")
	s.SelectAll()
	c := NewController(s)

	c.SetFontFamily("")
	c.SetFontSize("   ")
	c.SetHighlight("not-a-color")

	assert.Equal(t, "abc", s.HTML())
	assert.Equal(t, doctree.Style{}, c.State().Style())
}

func TestCommandsWithoutSelectionDoNothing(t *testing.T) {
	s := newSurface(t, "abc")
	s.Blur()
	c := NewController(s)

	c.SetFontFamily("Georgia")
	c.ClearTextColor()

	assert.Equal(t, "abc", s.HTML())
	assert.False(t, c.State().Active(doctree.FontFamily))
	assert.False(t, s.Focused())
}

func TestCollapsedCaretCarriesTypingStyle(t *testing.T) {
	s := newSurface(t, "ab")
	c := NewController(s)
	s.SetCaretOffset(2, false)

	c.SetHighlight("#ffff00")
	require.NoError(t, s.InsertText("c"))

	assert.Equal(t, `ab<span style="background-color: #ffff00">c</span>`, s.HTML())
	assert.Equal(t, "#ffff00", c.State().Get(doctree.HighlightColor))
}

func TestClearResetsSlotAndControl(t *testing.T) {
	s := newSurface(t, `<span style="color: #00ff00; font-size: 9px">abc</span>`)
	controls := &fakeControls{}
	c := NewController(s, WithControls(controls))
	c.State().set(doctree.TextColor, "#00ff00")
	s.SelectAll()

	c.ClearTextColor()
	s.SelectAll()
	c.ClearHighlight()
	s.SelectAll()
	c.ClearFontFamily()

	assert.Equal(t, `<span style="font-size: 9px">abc</span>`, s.HTML())
	assert.False(t, c.State().Active(doctree.TextColor))
	assert.Equal(t, []recordedReset{
		{doctree.TextColor, DefaultTextColor},
		{doctree.HighlightColor, DefaultHighlightColor},
		{doctree.FontFamily, ""},
	}, controls.resets)
}

func TestReactivateClearsOnlyTheActiveValue(t *testing.T) {
	s := newSurface(t, "abc")
	controls := &fakeControls{}
	c := NewController(s, WithControls(controls))
	s.SelectAll()
	c.SetHighlight("#ffff00")

	assert.False(t, c.Reactivate(doctree.HighlightColor, "#00ff00"))
	assert.True(t, c.State().Active(doctree.HighlightColor))

	s.SelectAll()
	assert.True(t, c.Reactivate(doctree.HighlightColor, "#FFFF00"))
	assert.False(t, c.State().Active(doctree.HighlightColor))
	assert.Equal(t, "abc", s.HTML())
	require.Len(t, controls.resets, 1)
}

func TestFocusReturnsToSurface(t *testing.T) {
	s := newSurface(t, "abc")
	c := NewController(s)
	s.SelectAll()
	c.SetFontFamily("Georgia")
	assert.True(t, s.Focused())
}

func TestSharedState(t *testing.T) {
	st := NewState()
	st.set(doctree.FontFamily, "Arial")
	c := NewController(newSurface(t, "x"), WithState(st))
	assert.Same(t, st, c.State())

	st.Reset()
	assert.False(t, c.State().Active(doctree.FontFamily))
}

func TestControlDefault(t *testing.T) {
	assert.Equal(t, "#000000", ControlDefault(doctree.TextColor))
	assert.Equal(t, "#ffffff", ControlDefault(doctree.HighlightColor))
	assert.Equal(t, "", ControlDefault(doctree.FontSize))
}

func TestClearAllInsidePartOfStyledRun(t *testing.T) {
	s := newSurface(t, `<span style="color: #ff0000">abcdef</span>`)
	controls := &fakeControls{}
	c := NewController(s, WithControls(controls))
	selectOffsets(s, 2, 4)

	c.ClearAll()

	root := s.Root()
	assert.Equal(t, "abcdef", root.TextContent())
	for _, off := range []int{1, 5} {
		n := doctree.PointAtTextOffset(root, off).Node
		assert.Equal(t, "rgb(255, 0, 0)", s.Resolve(n).Color, "offset %d", off)
	}
	assert.Len(t, controls.resets, len(doctree.Properties))
	assert.True(t, s.Focused())
}

func TestClearAllClearsEveryPropertyInSelection(t *testing.T) {
	s := newSurface(t, `<span style="font-family: Arial; color: #ff0000">ab</span>cd`)
	c := NewController(s)
	c.State().set(doctree.FontFamily, "Arial")
	c.State().set(doctree.TextColor, "#ff0000")
	selectOffsets(s, 0, 2)

	c.ClearAll()

	assert.Equal(t, "abcd", s.HTML())
	for _, p := range doctree.Properties {
		assert.False(t, c.State().Active(p), p.String())
	}
}

func TestStackedTypingStylesShareOneCarrier(t *testing.T) {
	s := newSurface(t, "ab")
	c := NewController(s)
	s.SetCaretOffset(2, false)

	c.SetFontFamily("Georgia")
	c.SetTextColor("#ff0000")
	require.NoError(t, s.InsertText("X"))

	assert.Equal(t, `ab<span style="font-family: Georgia; color: #ff0000">X</span>`, s.HTML())
	assert.Equal(t, "abX", s.Text())
}

func TestTogglingOffUntypedCarrierLeavesNoPlaceholder(t *testing.T) {
	s := newSurface(t, "ab")
	c := NewController(s)
	s.SetCaretOffset(2, false)

	c.SetTextColor("#ff0000")
	c.SetTextColor("#ff0000")

	assert.Equal(t, "ab", s.HTML())
	assert.Equal(t, "ab", s.Text())
	assert.Equal(t, 2, s.CaretOffset())
}
