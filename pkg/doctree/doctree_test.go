package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	root, err := ParseHTML(src)
	require.NoError(t, err)
	return root
}

func TestParseAndRenderRoundTrip(t *testing.T) {
	src := `ab<span style="font-size: 18px; color: #ff0000">cd</span><b>e</b>`
	root := mustParse(t, src)
	require.Len(t, root.Children(), 3)

	span := root.Children()[1]
	assert.Equal(t, "18px", span.Style.Get(FontSize))
	assert.Equal(t, "#ff0000", span.Style.Get(TextColor))
	assert.Equal(t, "b", root.Children()[2].Tag)
	assert.Equal(t, src, RenderHTML(root))
	assert.Equal(t, "abcde", root.TextContent())
}

func TestParseStyleKeepsUnknownDeclarations(t *testing.T) {
	s := ParseStyle("COLOR: RGB(0, 128, 255); font-weight: bold;;broken")
	assert.Equal(t, "#0080ff", s.Get(TextColor))
	assert.False(t, s.IsEmpty())
	assert.Equal(t, "color: #0080ff; font-weight: bold", s.String())

	s.Clear(TextColor)
	assert.False(t, s.IsEmpty())
	assert.Equal(t, "font-weight: bold", s.String())
}

func TestStyleCloneIsIndependent(t *testing.T) {
	s := ParseStyle("font-family: Georgia; margin: 0")
	c := s.Clone()
	c.Set(FontFamily, "Arial")
	assert.Equal(t, "Georgia", s.Get(FontFamily))
	assert.True(t, s.Equal(ParseStyle("margin: 0; font-family: Georgia")))
	assert.False(t, s.Equal(c))
}

func TestParseProperty(t *testing.T) {
	for name, want := range map[string]Property{
		"font-family":      FontFamily,
		"fontSize":         FontSize,
		"color":            TextColor,
		"background-color": HighlightColor,
		"highlight":        HighlightColor,
	} {
		got, ok := ParseProperty(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := ParseProperty("font-weight")
	assert.False(t, ok)
}

func TestNormalizeColor(t *testing.T) {
	cases := map[string]string{
		"#FF0000":             "#ff0000",
		"#f00":                "#ff0000",
		" rgb(0, 0, 0) ":      "#000000",
		"rgba(255,255,255,1)": "#ffffff",
	}
	for in, want := range cases {
		got, ok := NormalizeColor(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "red", "#12345", "rgb(300, 0, 0)", "rgba(0, 0, 0, 0)"} {
		_, ok := NormalizeColor(in)
		assert.False(t, ok, in)
	}
}

func TestRGBConversions(t *testing.T) {
	assert.Equal(t, "rgb(255, 0, 0)", RGBString("#ff0000"))
	assert.Equal(t, "", RGBString(""))
	assert.Equal(t, "#00ff00", RGBToHex("rgb(0, 255, 0)"))
	assert.Equal(t, "", RGBToHex("rgba(0, 0, 0, 0)"))
	assert.Equal(t, "", RGBToHex("#00ff00"))
}

func TestInsertBeforeMovesBetweenParents(t *testing.T) {
	a := NewElement("span", Style{})
	b := NewElement("span", Style{})
	x := NewText("x")
	a.AppendChild(x)
	b.AppendChild(x)
	assert.Equal(t, 0, a.Len())
	assert.Same(t, b, x.Parent())

	a.AppendChild(b)
	b.AppendChild(a)
	assert.Same(t, a, b.Parent(), "a node cannot become its own ancestor")
}

func TestUnwrapSplicesChildren(t *testing.T) {
	root := mustParse(t, `a<span style="color: #ff0000">b<i>c</i></span>d`)
	span := root.Children()[1]
	moved := span.Unwrap()
	require.Len(t, moved, 2)
	assert.Nil(t, span.Parent())
	assert.Equal(t, `ab<i>c</i>d`, RenderHTML(root))
}

func TestSplitTextRespectsRuneBoundaries(t *testing.T) {
	root := mustParse(t, "héllo")
	text := root.FirstChild()
	right := SplitText(text, 2)
	require.NotNil(t, right)
	assert.Equal(t, "h", text.Data)
	assert.Equal(t, "éllo", right.Data)
	assert.Nil(t, SplitText(text, 0))
	assert.Nil(t, SplitText(right, len(right.Data)))
}

func TestExtractWithinTextNode(t *testing.T) {
	root := mustParse(t, "hello world")
	text := root.FirstChild()
	frag, at := Extract(Range{Start: Point{text, 6}, End: Point{text, 11}})

	assert.Equal(t, "world", frag.TextContent())
	assert.Equal(t, "hello ", RenderHTML(root))
	assert.Equal(t, Point{Node: root, Offset: 1}, at)
}

func TestExtractSplitsPartiallySelectedElements(t *testing.T) {
	root := mustParse(t, `<span style="color: #ff0000">abc</span>def`)
	inner := root.FirstChild().FirstChild()
	tail := root.LastChild()

	frag, at := Extract(Range{Start: Point{inner, 1}, End: Point{tail, 1}})

	assert.Equal(t, `<span style="color: #ff0000">bc</span>d`, RenderHTML(frag))
	assert.Equal(t, `<span style="color: #ff0000">a</span>ef`, RenderHTML(root))
	assert.Equal(t, Point{Node: root, Offset: 1}, at)
}

func TestExtractReversedRange(t *testing.T) {
	root := mustParse(t, "abcdef")
	text := root.FirstChild()
	frag, _ := Extract(Range{Start: Point{text, 4}, End: Point{text, 2}})
	assert.Equal(t, "cd", frag.TextContent())
	assert.Equal(t, "abef", root.TextContent())
}

func TestExtractCollapsedIsEmpty(t *testing.T) {
	root := mustParse(t, "abc")
	p := Point{root.FirstChild(), 1}
	frag, at := Extract(Caret(p))
	assert.Equal(t, 0, frag.Len())
	assert.Equal(t, p, at)
	assert.Equal(t, "abc", RenderHTML(root))
}

func TestExtractAcrossNestedElements(t *testing.T) {
	root := mustParse(t, `<p>ab<span style="font-size: 12px">cd</span></p><p>ef</p>`)
	first := root.Children()[0].FirstChild()
	last := root.Children()[1].FirstChild()

	frag, _ := Extract(Range{Start: Point{first, 1}, End: Point{last, 1}})

	assert.Equal(t, `<p>b<span style="font-size: 12px">cd</span></p><p>e</p>`, RenderHTML(frag))
	assert.Equal(t, `<p>a</p><p>f</p>`, RenderHTML(root))
}

func TestInsertSplitsText(t *testing.T) {
	root := mustParse(t, "ab")
	el := NewElement("span", ParseStyle("color: #0000ff"))
	el.AppendChild(NewText("x"))

	after := Insert(Point{root.FirstChild(), 1}, el)

	assert.Equal(t, `a<span style="color: #0000ff">x</span>b`, RenderHTML(root))
	assert.Equal(t, Point{Node: root, Offset: 2}, after)
}

func TestInsertFragmentContributesChildren(t *testing.T) {
	root := mustParse(t, "ab")
	frag := NewFragment()
	frag.AppendChild(NewText("1"))
	frag.AppendChild(NewText("2"))

	after := Insert(Point{root, 1}, frag)
	assert.Equal(t, "ab12", root.TextContent())
	assert.Equal(t, Point{Node: root, Offset: 3}, after)
	assert.Equal(t, 0, frag.Len())
}

func TestComparePoints(t *testing.T) {
	root := mustParse(t, `a<span>b</span>c`)
	a := root.Children()[0]
	b := root.Children()[1].FirstChild()
	c := root.Children()[2]

	assert.Equal(t, -1, ComparePoints(Point{a, 1}, Point{b, 0}))
	assert.Equal(t, 1, ComparePoints(Point{c, 0}, Point{b, 1}))
	assert.Equal(t, 0, ComparePoints(Point{b, 1}, Point{b, 1}))
	assert.Equal(t, -1, ComparePoints(Point{root, 1}, Point{b, 0}))
}

func TestTextOffsets(t *testing.T) {
	root := mustParse(t, `ab<span>cd</span>ef`)
	span := root.Children()[1]

	assert.Equal(t, 3, TextOffset(root, Point{span.FirstChild(), 1}))
	assert.Equal(t, 4, TextOffset(root, Point{root, 2}))

	p := PointAtTextOffset(root, 2)
	assert.Same(t, root.Children()[0], p.Node)
	assert.Equal(t, 2, p.Offset)

	p = PointAtTextOffset(root, 3)
	assert.Same(t, span.FirstChild(), p.Node)
	assert.Equal(t, 1, p.Offset)

	p = PointAtTextOffset(root, 99)
	assert.Same(t, root.Children()[2], p.Node)
	assert.Equal(t, 2, p.Offset)
}

func TestTextPositionMoves(t *testing.T) {
	root := mustParse(t, `a<span>é</span>`)
	a := root.FirstChild()
	e := root.LastChild().FirstChild()

	next, ok := NextTextPosition(root, Point{a, 1})
	require.True(t, ok)
	assert.Equal(t, Point{e, 2}, next)

	_, ok = NextTextPosition(root, Point{e, 2})
	assert.False(t, ok)

	prev, ok := PrevTextPosition(root, Point{e, 0})
	require.True(t, ok)
	assert.Equal(t, Point{a, 0}, prev)
}

func TestRangeWithin(t *testing.T) {
	root := mustParse(t, "abc")
	text := root.FirstChild()
	assert.True(t, Caret(Point{text, 3}).Within(root))
	assert.False(t, Caret(Point{text, 4}).Within(root))

	text.Remove()
	assert.False(t, Caret(Point{text, 0}).Within(root))
}

func TestResolveInheritsFromNearestAncestor(t *testing.T) {
	root := mustParse(t, `<span style="font-size: 18px; background-color: #ffff00"><span style="color: #ff0000; font-size: 12px">x</span></span>y`)
	base := Style{}
	base.Set(FontFamily, `"Times New Roman", serif`)
	base.Set(FontSize, "16px")
	base.Set(TextColor, "#000000")

	x := root.FirstChild().FirstChild().FirstChild()
	got := Resolve(x, base)
	assert.Equal(t, Computed{
		FontFamily: `"Times New Roman", serif`,
		FontSize:   "12px",
		Color:      "rgb(255, 0, 0)",
		Background: "rgb(255, 255, 0)",
	}, got)

	y := root.LastChild()
	got = Resolve(y, base)
	assert.Equal(t, "16px", got.Get(FontSize))
	assert.Equal(t, "rgb(0, 0, 0)", got.Get(TextColor))
	assert.Equal(t, "", got.Get(HighlightColor))
}

func TestOuterHTML(t *testing.T) {
	el := NewElement("SPAN", ParseStyle("font-family: Georgia"))
	el.AppendChild(NewText("a<b"))
	out, err := OuterHTML(el)
	require.NoError(t, err)
	assert.Equal(t, `<span style="font-family: Georgia">a&lt;b</span>`, out)

	_, err = OuterHTML(NewText("x"))
	assert.ErrorIs(t, err, ErrNotElement)
}
