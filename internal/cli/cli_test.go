package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkline/internal/config"
	"inkline/pkg/docfile"
	"inkline/pkg/doctree"
)

func htmlDoc(t *testing.T, src string) *docfile.Document {
	t.Helper()
	root, err := doctree.ParseHTML(src)
	require.NoError(t, err)
	doc := docfile.NewDocument("", "test")
	doc.Root = root
	return doc
}

func TestParseOps(t *testing.T) {
	ops, err := parseOps(map[string]string{"color": "#FF0000", "fontSize": "12px"}, []string{"background-color", "font-family"})
	require.NoError(t, err)
	assert.Equal(t, map[doctree.Property]string{doctree.TextColor: "#FF0000", doctree.FontSize: "12px"}, ops.set)
	assert.Equal(t, []doctree.Property{doctree.FontFamily, doctree.HighlightColor}, ops.clear)

	ops, err = parseOps(nil, []string{"color", "ALL"})
	require.NoError(t, err)
	assert.Equal(t, doctree.Properties[:], ops.clear)

	ops, err = parseOps(nil, nil)
	require.NoError(t, err)
	assert.True(t, ops.empty())
}

func TestParseOpsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		sets  map[string]string
		clear []string
	}{
		{name: "unknown set", sets: map[string]string{"font-weight": "bold"}},
		{name: "unknown clear", clear: []string{"underline"}},
		{name: "bad color", sets: map[string]string{"color": "reddish"}},
		{name: "empty value", sets: map[string]string{"font-size": "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseOps(tc.sets, tc.clear)
			assert.True(t, errors.Is(err, errUsage), "got %v", err)
		})
	}
}

func TestRestyleWrapsRange(t *testing.T) {
	doc := htmlDoc(t, "hello world")
	ops := styleOps{set: map[doctree.Property]string{doctree.TextColor: "#FF0000"}}

	require.NoError(t, restyle(doc, doctree.Style{}, 0, 5, ops, zap.NewNop()))
	assert.Equal(t, `<span style="color: #ff0000">hello</span> world`, doctree.RenderHTML(doc.Root))
}

func TestRestyleClearsBeforeSetting(t *testing.T) {
	doc := htmlDoc(t, `<span style="font-size: 24px">big</span> text`)
	ops := styleOps{
		set:   map[doctree.Property]string{doctree.FontFamily: "Georgia"},
		clear: []doctree.Property{doctree.FontSize},
	}

	require.NoError(t, restyle(doc, doctree.Style{}, 0, -1, ops, zap.NewNop()))
	out := doctree.RenderHTML(doc.Root)
	assert.NotContains(t, out, "font-size")
	assert.Contains(t, out, "font-family: Georgia")
	assert.Equal(t, "big text", doc.Root.TextContent())
}

func TestRestyleRejectsEmptyRange(t *testing.T) {
	doc := htmlDoc(t, "hello")
	ops := styleOps{set: map[doctree.Property]string{doctree.TextColor: "#ff0000"}}

	err := restyle(doc, doctree.Style{}, 3, 3, ops, zap.NewNop())
	assert.ErrorIs(t, err, ErrEmptyRange)
	err = restyle(doc, doctree.Style{}, 9, -1, ops, zap.NewNop())
	assert.ErrorIs(t, err, ErrEmptyRange)
	assert.Equal(t, "hello", doctree.RenderHTML(doc.Root))
}

func TestStyleAt(t *testing.T) {
	doc := htmlDoc(t, `<span style="font-family: georgia; color: #ff8000">ab</span>cd`)
	cfg := config.Default()

	v, off, err := styleAt(doc, cfg.BaseStyle(), cfg.Toolbar.FontFamilies, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, off)
	assert.Equal(t, "Georgia", v.FontFamily)
	assert.Equal(t, "16px", v.FontSize)
	assert.Equal(t, "#ff8000", v.TextColor)
	assert.Equal(t, "#ffffff", v.Highlight)

	v, off, err = styleAt(doc, cfg.BaseStyle(), cfg.Toolbar.FontFamilies, -1)
	require.NoError(t, err)
	assert.Equal(t, 4, off)
	assert.Equal(t, "Arial", v.FontFamily)
	assert.Equal(t, "#000000", v.TextColor)
}

func TestExecuteRestyleWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.html")
	out := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(in, []byte("hello world"), 0o644))

	var buf bytes.Buffer
	err := Execute(context.Background(), []string{
		"--log-level", "error",
		"restyle", in, "-o", out,
		"--set", "font-family=Georgia",
		"--to", "5",
	}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), out)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `<span style="font-family: Georgia">hello</span> world`, string(got))

	src, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(src))
}

func TestExecuteInspectSealedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.inkl")
	doc := htmlDoc(t, `<span style="background-color: #fff59d">note</span>`)
	doc.Metadata.Title = "Notes"
	opts := docfile.SaveOptions{Compression: true, Encryption: docfile.EncryptionOptions{Enabled: true, Password: "secret"}}
	require.NoError(t, docfile.SaveWithOptions(path, doc, opts))

	var buf bytes.Buffer
	err := Execute(context.Background(), []string{"--log-level", "error", "inspect", path}, &buf)
	assert.ErrorIs(t, err, docfile.ErrPasswordRequired)

	buf.Reset()
	err = Execute(context.Background(), []string{"--log-level", "error", "--password", "secret", "inspect", path, "--at", "2"}, &buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Regexp(t, `sealed\s+true`, out)
	assert.Regexp(t, `title\s+Notes`, out)
	assert.Regexp(t, `background-color\s+#fff59d`, out)
	assert.Regexp(t, `font-family\s+Arial`, out)
}
