package doctree

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNotElement = errors.New("doctree: node is not an element")

// ParseHTML parses an HTML fragment into a new root div. The style attribute
// of each element becomes its Style; other attributes are kept in order.
// Comments and doctype nodes are dropped.
func ParseHTML(src string) (*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	root := NewElement("div", Style{})
	for _, hn := range nodes {
		if n := fromHTML(hn); n != nil {
			root.AppendChild(n)
		}
	}
	return root, nil
}

func fromHTML(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.ElementNode:
		el := NewElement(hn.Data, Style{})
		for _, a := range hn.Attr {
			if a.Namespace != "" {
				continue
			}
			if strings.EqualFold(a.Key, "style") {
				el.Style = ParseStyle(a.Val)
				continue
			}
			el.Attrs = append(el.Attrs, Attr{Key: a.Key, Val: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if n := fromHTML(c); n != nil {
				el.AppendChild(n)
			}
		}
		return el
	}
	return nil
}

func toHTML(n *Node) *html.Node {
	switch n.Kind {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case FragmentNode:
		return nil
	}
	hn := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
	for _, a := range n.Attrs {
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if css := n.Style.String(); css != "" {
		hn.Attr = append(hn.Attr, html.Attribute{Key: "style", Val: css})
	}
	for _, c := range n.children {
		if c.Kind == FragmentNode {
			for _, gc := range c.children {
				hn.AppendChild(toHTML(gc))
			}
			continue
		}
		hn.AppendChild(toHTML(c))
	}
	return hn
}

// RenderHTML serializes the children of n. Fragments and elements render
// their content only; a text node renders escaped text.
func RenderHTML(n *Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if n.IsText() {
		_ = html.Render(&buf, toHTML(n))
		return buf.String()
	}
	for _, c := range n.children {
		if c.Kind == FragmentNode {
			buf.WriteString(RenderHTML(c))
			continue
		}
		_ = html.Render(&buf, toHTML(c))
	}
	return buf.String()
}

// OuterHTML serializes n including its own tag.
func OuterHTML(n *Node) (string, error) {
	if !n.IsElement() {
		return "", ErrNotElement
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(n)); err != nil {
		return "", fmt.Errorf("render %s: %w", n.Tag, err)
	}
	return buf.String(), nil
}
