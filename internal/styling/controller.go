package styling

import (
	"strings"

	"go.uber.org/zap"

	"inkline/pkg/doctree"
)

const (
	DefaultTextColor      = "#000000"
	DefaultHighlightColor = "#ffffff"
)

// ControlDefault is the value a toolbar control shows when its property is
// cleared: black for text, white for highlight, the empty choice otherwise.
func ControlDefault(p doctree.Property) string {
	switch p {
	case doctree.TextColor:
		return DefaultTextColor
	case doctree.HighlightColor:
		return DefaultHighlightColor
	}
	return ""
}

// Controls receives control resets issued by explicit clear commands.
type Controls interface {
	ResetControl(p doctree.Property, value string)
}

// Controller turns toolbar commands into toggles on the typing style and
// style requests on the selection.
type Controller struct {
	state    *State
	styler   *Styler
	surface  Surface
	controls Controls
	log      *zap.Logger
}

type ControllerOption func(*Controller)

func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithControls(ctl Controls) ControllerOption {
	return func(c *Controller) { c.controls = ctl }
}

// WithState shares an existing typing style instead of starting empty.
func WithState(s *State) ControllerOption {
	return func(c *Controller) {
		if s != nil {
			c.state = s
		}
	}
}

func NewController(surface Surface, opts ...ControllerOption) *Controller {
	c := &Controller{state: NewState(), surface: surface, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.styler = NewStyler(surface, WithStylerLogger(c.log))
	return c
}

func (c *Controller) State() *State { return c.state }

func (c *Controller) SetFontFamily(family string) { c.Set(doctree.FontFamily, family) }
func (c *Controller) SetFontSize(size string)     { c.Set(doctree.FontSize, size) }
func (c *Controller) SetTextColor(hex string)     { c.Set(doctree.TextColor, hex) }
func (c *Controller) SetHighlight(hex string)     { c.Set(doctree.HighlightColor, hex) }

func (c *Controller) ClearFontFamily() { c.Clear(doctree.FontFamily) }
func (c *Controller) ClearFontSize()   { c.Clear(doctree.FontSize) }
func (c *Controller) ClearTextColor()  { c.Clear(doctree.TextColor) }
func (c *Controller) ClearHighlight()  { c.Clear(doctree.HighlightColor) }

// Set toggles p. The same value as the active slot toggles it off; any other
// value switches the slot and applies it. Empty or unparseable values are
// ignored.
func (c *Controller) Set(p doctree.Property, value string) {
	v, ok := c.normalize(p, value)
	if !ok {
		c.log.Debug("style command ignored", zap.Stringer("property", p), zap.String("value", value))
		return
	}
	if !c.hasSelection() {
		return
	}
	if c.state.Get(p) == v {
		c.state.clear(p)
		c.log.Debug("toggle off", zap.Stringer("property", p), zap.String("value", v))
		c.styler.Apply(Clear(p))
	} else {
		c.state.set(p, v)
		c.log.Debug("toggle on", zap.Stringer("property", p), zap.String("value", v))
		c.styler.Apply(Apply(p, v))
	}
	c.surface.Focus()
}

// Clear empties the slot, clears p on the selection and resets the paired
// control to its default, whatever the slot held.
func (c *Controller) Clear(p doctree.Property) {
	if !c.hasSelection() {
		return
	}
	c.state.clear(p)
	c.styler.Apply(Clear(p))
	if c.controls != nil {
		c.controls.ResetControl(p, ControlDefault(p))
	}
	c.log.Debug("cleared", zap.Stringer("property", p))
	c.surface.Focus()
}

// ClearAll clears every property on the selection in one request, empties
// every slot and resets every control.
func (c *Controller) ClearAll() {
	if !c.hasSelection() {
		return
	}
	c.state.Reset()
	c.styler.Apply(Clear(doctree.Properties[:]...))
	if c.controls != nil {
		for _, p := range doctree.Properties {
			c.controls.ResetControl(p, ControlDefault(p))
		}
	}
	c.log.Debug("cleared all")
	c.surface.Focus()
}

// Reactivate handles a repeated activation of a control that still shows
// value: when value is the active slot, the property is cleared as if the
// clear command had been used. It reports whether anything was cleared.
func (c *Controller) Reactivate(p doctree.Property, value string) bool {
	v, ok := c.normalize(p, value)
	if !ok || c.state.Get(p) != v {
		return false
	}
	c.Clear(p)
	return true
}

// hasSelection gates every command: without a live selection nothing
// changes, the typing style included.
func (c *Controller) hasSelection() bool {
	if _, ok := c.surface.Selection(); ok {
		return true
	}
	c.log.Debug("style command ignored: no selection")
	return false
}

func (c *Controller) normalize(p doctree.Property, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if p.IsColor() {
		return doctree.NormalizeColor(value)
	}
	return value, true
}
