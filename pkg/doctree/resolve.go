package doctree

// Computed is the effective style at a node after inheritance, in the form a
// style resolver reports it: colors are rgb(r, g, b) triplets and an unset
// highlight is the empty string.
type Computed struct {
	FontFamily string
	FontSize   string
	Color      string
	Background string
}

func (c Computed) Get(p Property) string {
	switch p {
	case FontFamily:
		return c.FontFamily
	case FontSize:
		return c.FontSize
	case TextColor:
		return c.Color
	case HighlightColor:
		return c.Background
	}
	return ""
}

func (c *Computed) set(p Property, v string) {
	switch p {
	case FontFamily:
		c.FontFamily = v
	case FontSize:
		c.FontSize = v
	case TextColor:
		c.Color = v
	case HighlightColor:
		c.Background = v
	}
}

// Resolve computes the effective style of n. Each property takes the value of
// the nearest inclusive ancestor element that sets it; base supplies what the
// tree does not. Text nodes resolve through their parent.
//
// Highlight is treated as inherited as well: a caret inside a nested span of a
// highlighted run sits on highlighted text.
func Resolve(n *Node, base Style) Computed {
	var out Computed
	var found [numProperties]bool
	for el := n.EnclosingElement(); el != nil; el = el.parent {
		if !el.IsElement() {
			continue
		}
		for _, p := range Properties {
			if found[p] {
				continue
			}
			if v := el.Style.Get(p); v != "" {
				out.set(p, v)
				found[p] = true
			}
		}
	}
	for _, p := range Properties {
		if !found[p] {
			out.set(p, base.Get(p))
		}
	}
	out.Color = RGBString(out.Color)
	out.Background = RGBString(out.Background)
	return out
}
