package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"inkline/internal/editor"
	"inkline/internal/styling"
	"inkline/pkg/docfile"
	"inkline/pkg/doctree"
)

type InspectCmd struct {
	Input string `arg:"" name:"input" help:"Document (.inkl) or HTML file" type:"existingfile"`
	At    int    `name:"at" help:"Text offset to report the style at; -1 for the end" default:"-1"`
	HTML  bool   `name:"html" help:"Also print the document markup"`
}

func (c *InspectCmd) Run(ctx context.Context, env *Env) error {
	doc, err := docfile.Open(c.Input, docfile.LoadOptions{Password: env.Flags.Password})
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Input, err)
	}
	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	if !docfile.IsHTMLPath(c.Input) {
		info, err := docfile.InspectEnvelope(c.Input)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "sealed\t%t\n", info.Encrypted)
		fmt.Fprintf(w, "compressed\t%t\n", info.Compressed)
	}
	fmt.Fprintf(w, "title\t%s\n", doc.Metadata.Title)
	if doc.Metadata.Author != "" {
		fmt.Fprintf(w, "author\t%s\n", doc.Metadata.Author)
	}
	if doc.Metadata.ModifiedUnix > 0 {
		fmt.Fprintf(w, "modified\t%s\n", time.Unix(doc.Metadata.ModifiedUnix, 0).UTC().Format(time.RFC3339))
	}

	base := env.Config.BaseStyle()
	if doc.Metadata.BaseStyle != "" {
		base = doctree.ParseStyle(doc.Metadata.BaseStyle)
	}
	v, off, err := styleAt(doc, base, env.Config.Toolbar.FontFamilies, c.At)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "length\t%d\n", len(doc.Root.TextContent()))
	fmt.Fprintf(w, "offset\t%d\n", off)
	printValues(w, v)
	if err := w.Flush(); err != nil {
		return err
	}
	if c.HTML {
		_, err = fmt.Fprintln(env.Out, doctree.RenderHTML(doc.Root))
	}
	return err
}

// styleAt reports the caret style at a text offset as the editor toolbar
// would show it.
func styleAt(doc *docfile.Document, base doctree.Style, families []string, at int) (styling.Values, int, error) {
	surface := editor.NewSurface(doc.Root, editor.WithBaseStyle(base))
	surface.Focus()
	total := len(surface.Text())
	if at < 0 || at > total {
		at = total
	}
	surface.SetCaretOffset(at, false)
	v, ok := styling.NewCaretSync(surface, nil, families).Sync()
	if !ok {
		return styling.Values{}, at, fmt.Errorf("no caret position at offset %d", at)
	}
	return v, at, nil
}

func printValues(w io.Writer, v styling.Values) {
	for _, p := range doctree.Properties {
		val := v.Get(p)
		if val == "" {
			val = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", p.CSSName(), val)
	}
}
