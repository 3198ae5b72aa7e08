package ui

import (
	"slices"

	"inkline/internal/config"
	"inkline/internal/styling"
	"inkline/pkg/doctree"
)

// Select is a drop-down control. An empty Value is the neutral choice.
type Select struct {
	Property doctree.Property
	Options  []string
	Value    string
	Open     bool
}

// SetSafely shows v only when it is one of the options; anything else
// leaves the neutral choice.
func (s *Select) SetSafely(v string) {
	if v != "" && slices.Contains(s.Options, v) {
		s.Value = v
		return
	}
	s.Value = ""
}

// ColorInput is a color well with a palette popup.
type ColorInput struct {
	Property doctree.Property
	Palette  []string
	Value    string
	Open     bool
}

// Toolbar holds the display state of the styling controls. It receives caret
// sync results and control resets from the styling engine.
type Toolbar struct {
	Family    Select
	Size      Select
	Text      ColorInput
	Highlight ColorInput
}

func NewToolbar(cfg config.Toolbar) *Toolbar {
	return &Toolbar{
		Family:    Select{Property: doctree.FontFamily, Options: cfg.FontFamilies},
		Size:      Select{Property: doctree.FontSize, Options: cfg.FontSizes},
		Text:      ColorInput{Property: doctree.TextColor, Palette: cfg.TextPalette, Value: styling.DefaultTextColor},
		Highlight: ColorInput{Property: doctree.HighlightColor, Palette: cfg.HighlightPalette, Value: styling.DefaultHighlightColor},
	}
}

// Show mirrors the caret style. The size select shows the resolved size as
// is, even when it is not one of its options.
func (t *Toolbar) Show(v styling.Values) {
	t.Family.SetSafely(v.FontFamily)
	t.Size.Value = v.FontSize
	t.Text.Value = v.TextColor
	t.Highlight.Value = v.Highlight
}

func (t *Toolbar) ResetControl(p doctree.Property, value string) {
	switch p {
	case doctree.FontFamily:
		t.Family.Value = value
	case doctree.FontSize:
		t.Size.Value = value
	case doctree.TextColor:
		t.Text.Value = value
	case doctree.HighlightColor:
		t.Highlight.Value = value
	}
}

func (t *Toolbar) Value(p doctree.Property) string {
	switch p {
	case doctree.FontFamily:
		return t.Family.Value
	case doctree.FontSize:
		return t.Size.Value
	case doctree.TextColor:
		return t.Text.Value
	case doctree.HighlightColor:
		return t.Highlight.Value
	}
	return ""
}

// CloseAll folds every open drop-down and palette.
func (t *Toolbar) CloseAll() {
	t.Family.Open = false
	t.Size.Open = false
	t.Text.Open = false
	t.Highlight.Open = false
}

// Options lists the choices offered for p.
func (t *Toolbar) Options(p doctree.Property) []string {
	switch p {
	case doctree.FontFamily:
		return t.Family.Options
	case doctree.FontSize:
		return t.Size.Options
	case doctree.TextColor:
		return t.Text.Palette
	case doctree.HighlightColor:
		return t.Highlight.Palette
	}
	return nil
}

// Toggle opens the popup of p, closing any other.
func (t *Toolbar) Toggle(p doctree.Property) {
	open := !t.isOpen(p)
	t.CloseAll()
	switch p {
	case doctree.FontFamily:
		t.Family.Open = open
	case doctree.FontSize:
		t.Size.Open = open
	case doctree.TextColor:
		t.Text.Open = open
	case doctree.HighlightColor:
		t.Highlight.Open = open
	}
}

func (t *Toolbar) isOpen(p doctree.Property) bool {
	switch p {
	case doctree.FontFamily:
		return t.Family.Open
	case doctree.FontSize:
		return t.Size.Open
	case doctree.TextColor:
		return t.Text.Open
	case doctree.HighlightColor:
		return t.Highlight.Open
	}
	return false
}

// OpenProperty reports which popup is open, if any.
func (t *Toolbar) OpenProperty() (doctree.Property, bool) {
	for _, p := range doctree.Properties {
		if t.isOpen(p) {
			return p, true
		}
	}
	return 0, false
}
