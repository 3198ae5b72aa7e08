package doctree

import (
	"sort"
	"strings"
)

// Property is one of the inline style properties the editor understands.
type Property uint8

const (
	FontFamily Property = iota
	FontSize
	TextColor
	HighlightColor

	numProperties
)

// Properties lists every supported property in canonical order.
var Properties = [numProperties]Property{FontFamily, FontSize, TextColor, HighlightColor}

// CSSName returns the CSS declaration name used when serializing a style.
func (p Property) CSSName() string {
	switch p {
	case FontFamily:
		return "font-family"
	case FontSize:
		return "font-size"
	case TextColor:
		return "color"
	case HighlightColor:
		return "background-color"
	default:
		return ""
	}
}

func (p Property) String() string {
	switch p {
	case FontFamily:
		return "fontFamily"
	case FontSize:
		return "fontSize"
	case TextColor:
		return "color"
	case HighlightColor:
		return "backgroundColor"
	default:
		return "unknown"
	}
}

// IsColor reports whether p holds a color value.
func (p Property) IsColor() bool {
	return p == TextColor || p == HighlightColor
}

func (p Property) valid() bool {
	return p < numProperties
}

// ParseProperty accepts either the CSS name or the camel-case script name.
func ParseProperty(name string) (Property, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "font-family", "fontfamily":
		return FontFamily, true
	case "font-size", "fontsize":
		return FontSize, true
	case "color", "textcolor", "text-color":
		return TextColor, true
	case "background-color", "backgroundcolor", "highlight", "highlightcolor":
		return HighlightColor, true
	}
	return 0, false
}

func cssProperty(name string) (Property, bool) {
	for _, p := range Properties {
		if p.CSSName() == name {
			return p, true
		}
	}
	return 0, false
}

// Style is an element's inline style map over the closed property set.
// The zero value is an empty style.
type Style struct {
	values [numProperties]string
	extra  map[string]string
}

func (s Style) Get(p Property) string {
	if !p.valid() {
		return ""
	}
	return s.values[p]
}

func (s Style) Has(p Property) bool {
	return s.Get(p) != ""
}

// Set stores v for p. An empty v clears the property.
func (s *Style) Set(p Property, v string) {
	if !p.valid() {
		return
	}
	s.values[p] = strings.TrimSpace(v)
}

func (s *Style) Clear(p Property) {
	s.Set(p, "")
}

// IsEmpty reports whether no declaration, known or unknown, remains.
func (s Style) IsEmpty() bool {
	for _, v := range s.values {
		if v != "" {
			return false
		}
	}
	return len(s.extra) == 0
}

func (s Style) Clone() Style {
	out := Style{values: s.values}
	if len(s.extra) > 0 {
		out.extra = make(map[string]string, len(s.extra))
		for k, v := range s.extra {
			out.extra[k] = v
		}
	}
	return out
}

func (s Style) Equal(o Style) bool {
	if s.values != o.values || len(s.extra) != len(o.extra) {
		return false
	}
	for k, v := range s.extra {
		if o.extra[k] != v {
			return false
		}
	}
	return true
}

// String serializes the style as CSS declarations, known properties first.
func (s Style) String() string {
	var parts []string
	for _, p := range Properties {
		if v := s.values[p]; v != "" {
			parts = append(parts, p.CSSName()+": "+v)
		}
	}
	if len(s.extra) > 0 {
		keys := make([]string, 0, len(s.extra))
		for k := range s.extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+": "+s.extra[k])
		}
	}
	return strings.Join(parts, "; ")
}

// ParseStyle reads a CSS declaration list such as a style attribute value.
// Declarations outside the closed property set are kept verbatim so they
// survive a round trip, but nothing in the editor inspects them.
func ParseStyle(css string) Style {
	var s Style
	for _, decl := range strings.Split(css, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		if p, known := cssProperty(name); known {
			if p.IsColor() {
				if hex, ok := NormalizeColor(value); ok {
					value = hex
				}
			}
			s.values[p] = value
			continue
		}
		if s.extra == nil {
			s.extra = map[string]string{}
		}
		s.extra[name] = value
	}
	return s
}
