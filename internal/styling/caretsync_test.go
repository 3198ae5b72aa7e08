package styling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkline/internal/editor"
	"inkline/internal/event"
	"inkline/pkg/doctree"
)

type fakeDisplay struct {
	shown []Values
}

func (f *fakeDisplay) Show(v Values) {
	f.shown = append(f.shown, v)
}

var families = []string{"Arial", "Georgia", "Times New Roman"}

func TestSyncReportsEffectiveStyle(t *testing.T) {
	s := newSurface(t, `<p style="font-family: 'times new roman', serif; font-size: 18px"><span style="color: #FF8000">ab</span></p>`)
	s.SetCaretOffset(1, false)
	display := &fakeDisplay{}

	v, ok := NewCaretSync(s, display, families).Sync()

	require.True(t, ok)
	assert.Equal(t, Values{
		FontFamily: "Times New Roman",
		FontSize:   "18px",
		TextColor:  "#ff8000",
		Highlight:  DefaultHighlightColor,
	}, v)
	assert.Equal(t, []Values{v}, display.shown)
}

func TestSyncFallsBackToNeutralValues(t *testing.T) {
	s := newSurface(t, `<span style="font-family: Comic Sans MS">ab</span>`)
	s.SetCaretOffset(1, false)

	v, ok := NewCaretSync(s, nil, families).Sync()

	require.True(t, ok)
	assert.Equal(t, "", v.FontFamily)
	assert.Equal(t, "", v.FontSize)
	assert.Equal(t, DefaultTextColor, v.TextColor)
	assert.Equal(t, DefaultHighlightColor, v.Highlight)
}

func TestSyncUsesBaseStyleAndHighlight(t *testing.T) {
	root, err := doctree.ParseHTML(`<span style="background-color: rgb(255, 255, 0)">ab</span>`)
	require.NoError(t, err)
	s := editor.NewSurface(root, editor.WithBaseStyle(doctree.ParseStyle("font-family: \"Georgia\"; font-size: 14px; color: #202020")))
	s.Focus()

	v, ok := NewCaretSync(s, nil, families).Sync()

	require.True(t, ok)
	assert.Equal(t, Values{FontFamily: "Georgia", FontSize: "14px", TextColor: "#202020", Highlight: "#ffff00"}, v)
}

func TestSyncIgnoresTypingStyle(t *testing.T) {
	s := newSurface(t, "abc")
	c := NewController(s)
	c.State().set(doctree.TextColor, "#ff0000")
	s.SetCaretOffset(1, false)

	v, ok := NewCaretSync(s, nil, families).Sync()
	require.True(t, ok)
	assert.Equal(t, DefaultTextColor, v.TextColor)
}

func TestSyncWithoutSelection(t *testing.T) {
	s := newSurface(t, "abc")
	s.Blur()
	display := &fakeDisplay{}

	_, ok := NewCaretSync(s, display, families).Sync()

	assert.False(t, ok)
	assert.Empty(t, display.shown)
}

func TestRegisterSyncsOnCaretEvents(t *testing.T) {
	d := event.NewDispatcher()
	root, err := doctree.ParseHTML(`a<span style="font-size: 30px">b</span>`)
	require.NoError(t, err)
	s := editor.NewSurface(root, editor.WithDispatcher(d))
	s.Focus()
	display := &fakeDisplay{}
	off := NewCaretSync(s, display, families).Register(d)

	d.Dispatch(event.Event{Type: event.PointerRelease})
	d.Dispatch(event.Event{Type: event.KeyRelease, Key: "ArrowLeft"})
	s.SetCaretOffset(1, false)
	require.Len(t, display.shown, 3)
	assert.Equal(t, "30px", display.shown[0].FontSize)
	assert.Equal(t, "", display.shown[2].FontSize)

	off()
	d.Dispatch(event.Event{Type: event.PointerRelease})
	assert.Len(t, display.shown, 3)
}

func TestValuesGet(t *testing.T) {
	v := Values{FontFamily: "Arial", FontSize: "12px", TextColor: "#000000", Highlight: "#ffffff"}
	for _, p := range doctree.Properties {
		assert.NotEmpty(t, v.Get(p), p.String())
	}
}
