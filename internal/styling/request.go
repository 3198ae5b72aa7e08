package styling

import (
	"strings"

	"inkline/pkg/doctree"
)

// Request names the properties an operation touches. Each named property
// carries a value to apply or the empty value to clear it.
type Request struct {
	values [numProperties]string
	named  [numProperties]bool
}

// Apply returns a request setting p to v.
func Apply(p doctree.Property, v string) Request {
	return Request{}.With(p, v)
}

// Clear returns a request clearing every listed property.
func Clear(props ...doctree.Property) Request {
	var r Request
	for _, p := range props {
		r = r.With(p, "")
	}
	return r
}

// With returns a copy of r with p set to v. An empty v means clear.
func (r Request) With(p doctree.Property, v string) Request {
	if int(p) >= numProperties {
		return r
	}
	r.values[p] = strings.TrimSpace(v)
	r.named[p] = true
	return r
}

func (r Request) Names(p doctree.Property) bool {
	return int(p) < numProperties && r.named[p]
}

func (r Request) Value(p doctree.Property) string {
	if !r.Names(p) {
		return ""
	}
	return r.values[p]
}

// Properties lists the named properties in canonical order.
func (r Request) Properties() []doctree.Property {
	var out []doctree.Property
	for _, p := range doctree.Properties {
		if r.named[p] {
			out = append(out, p)
		}
	}
	return out
}

func (r Request) Empty() bool {
	return len(r.Properties()) == 0
}

// ClearsAll reports whether every named property carries the clear value.
func (r Request) ClearsAll() bool {
	for _, p := range doctree.Properties {
		if r.named[p] && r.values[p] != "" {
			return false
		}
	}
	return true
}

// Style is the style map holding exactly the non-empty values of r.
func (r Request) Style() doctree.Style {
	var s doctree.Style
	for _, p := range doctree.Properties {
		if r.named[p] {
			s.Set(p, r.values[p])
		}
	}
	return s
}

func (r Request) String() string {
	var parts []string
	for _, p := range r.Properties() {
		v := r.values[p]
		if v == "" {
			v = "<clear>"
		}
		parts = append(parts, p.String()+"="+v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
