package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"inkline/internal/editor"
	"inkline/internal/styling"
	"inkline/pkg/docfile"
	"inkline/pkg/doctree"
)

var ErrEmptyRange = errors.New("restyle: range selects no text")

type RestyleCmd struct {
	Input    string            `arg:"" name:"input" help:"Document (.inkl) or HTML file" type:"existingfile"`
	Output   string            `name:"output" short:"o" help:"Where to write the result; defaults to the input file" type:"path"`
	From     int               `name:"from" help:"Start text offset" default:"0"`
	To       int               `name:"to" help:"End text offset; -1 for the end of the text" default:"-1"`
	Set      map[string]string `name:"set" help:"property=value to apply, e.g. color=#ff0000"`
	Clear    []string          `name:"clear" help:"Properties to clear, or 'all'"`
	Compress bool              `name:"compress" help:"Compress saved documents" default:"true" negatable:""`
}

func (c *RestyleCmd) Run(ctx context.Context, env *Env) error {
	ops, err := parseOps(c.Set, c.Clear)
	if err != nil {
		return err
	}
	if ops.empty() {
		return usage("nothing to do: pass --set or --clear")
	}
	doc, err := docfile.Open(c.Input, docfile.LoadOptions{Password: env.Flags.Password})
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Input, err)
	}
	base := env.Config.BaseStyle()
	if doc.Metadata.BaseStyle != "" {
		base = doctree.ParseStyle(doc.Metadata.BaseStyle)
	}
	if err := restyle(doc, base, c.From, c.To, ops, env.Log); err != nil {
		return err
	}

	out := c.Output
	if out == "" {
		out = c.Input
	}
	opts := docfile.SaveOptions{
		Compression: c.Compress,
		Encryption:  docfile.EncryptionOptions{Enabled: env.Flags.Password != "", Password: env.Flags.Password},
	}
	if err := docfile.Store(out, doc, opts); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	env.Log.Info("restyled", zap.String("output", out), zap.Int("from", c.From), zap.Int("to", c.To))
	_, err = fmt.Fprintln(env.Out, out)
	return err
}

// styleOps is a parsed batch of style commands. Clears run before sets.
type styleOps struct {
	set   map[doctree.Property]string
	clear []doctree.Property
}

func (o styleOps) empty() bool {
	return len(o.set) == 0 && len(o.clear) == 0
}

func parseOps(sets map[string]string, clears []string) (styleOps, error) {
	ops := styleOps{set: map[doctree.Property]string{}}
	for name, value := range sets {
		p, ok := doctree.ParseProperty(name)
		if !ok {
			return ops, usage(fmt.Sprintf("unknown property %q", name))
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return ops, usage(fmt.Sprintf("empty value for %s", p.CSSName()))
		}
		if p.IsColor() {
			if _, ok := doctree.NormalizeColor(value); !ok {
				return ops, usage(fmt.Sprintf("invalid color %q for %s", value, p.CSSName()))
			}
		}
		ops.set[p] = value
	}

	seen := map[doctree.Property]bool{}
	for _, name := range clears {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			for _, p := range doctree.Properties {
				seen[p] = true
			}
			continue
		}
		p, ok := doctree.ParseProperty(name)
		if !ok {
			return ops, usage(fmt.Sprintf("unknown property %q", name))
		}
		seen[p] = true
	}
	for _, p := range doctree.Properties {
		if seen[p] {
			ops.clear = append(ops.clear, p)
		}
	}
	return ops, nil
}

// restyle runs ops over the text between from and to, the way toolbar
// commands run over a selection in the editor. A negative or overlong to
// means the end of the text.
func restyle(doc *docfile.Document, base doctree.Style, from, to int, ops styleOps, log *zap.Logger) error {
	surface := editor.NewSurface(doc.Root, editor.WithBaseStyle(base), editor.WithLogger(log))
	surface.Focus()
	ctl := styling.NewController(surface, styling.WithLogger(log))

	total := len(surface.Text())
	if to < 0 || to > total {
		to = total
	}
	if from < 0 || from >= to {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrEmptyRange, from, to, total)
	}
	selectRange := func() {
		surface.SetCaretOffset(from, false)
		surface.SetCaretOffset(to, true)
	}

	for _, p := range ops.clear {
		selectRange()
		ctl.Clear(p)
	}
	for _, p := range doctree.Properties {
		v, ok := ops.set[p]
		if !ok {
			continue
		}
		selectRange()
		ctl.Set(p, v)
	}
	doc.Root = surface.Root()
	return nil
}
