package styling

import "inkline/pkg/doctree"

const numProperties = len(doctree.Properties)

// State holds the active typing style: one slot per property, empty when
// the property is not toggled on. Only the Controller writes to it.
type State struct {
	slots [numProperties]string
}

func NewState() *State {
	return &State{}
}

func (s *State) Get(p doctree.Property) string {
	if int(p) >= numProperties {
		return ""
	}
	return s.slots[p]
}

func (s *State) Active(p doctree.Property) bool {
	return s.Get(p) != ""
}

func (s *State) set(p doctree.Property, v string) {
	if int(p) >= numProperties {
		return
	}
	s.slots[p] = v
}

func (s *State) clear(p doctree.Property) {
	s.set(p, "")
}

// Style returns the active slots as a style map, for showing the typing
// style next to the caret.
func (s *State) Style() doctree.Style {
	var out doctree.Style
	for _, p := range doctree.Properties {
		out.Set(p, s.slots[p])
	}
	return out
}

// Reset empties every slot.
func (s *State) Reset() {
	s.slots = [numProperties]string{}
}
