package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRunsHandlersInOrder(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.On(KeyRelease, func(e Event) { got = append(got, "a:"+e.Key) })
	d.On(KeyRelease, func(e Event) { got = append(got, "b:"+e.Key) })
	d.On(PointerRelease, func(Event) { got = append(got, "pointer") })

	d.Dispatch(Event{Type: KeyRelease, Key: "x"})
	assert.Equal(t, []string{"a:x", "b:x"}, got)
	assert.Equal(t, uint64(1), d.Stats().Dispatched)
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	off := d.On(SelectionChange, func(Event) { calls++ })
	d.Dispatch(Event{Type: SelectionChange})
	off()
	off()
	d.Dispatch(Event{Type: SelectionChange})
	assert.Equal(t, 1, calls)
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewDispatcher()
	ran := false
	d.On(PointerRelease, func(Event) { panic("boom") })
	d.On(PointerRelease, func(Event) { ran = true })

	require.NotPanics(t, func() { d.Dispatch(Event{Type: PointerRelease}) })
	assert.True(t, ran)
	assert.Equal(t, uint64(1), d.Stats().Panicked)
}

func TestHandlerRegisteredDuringDispatchWaitsForNextEvent(t *testing.T) {
	d := NewDispatcher()
	late := 0
	d.On(FocusGained, func(Event) {
		d.On(FocusGained, func(Event) { late++ })
	})
	d.Dispatch(Event{Type: FocusGained})
	assert.Equal(t, 0, late)
	d.Dispatch(Event{Type: FocusGained})
	assert.Equal(t, 1, late)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "selection-change", SelectionChange.String())
	assert.Equal(t, "event(42)", Type(42).String())
}
