package cli

import (
	"context"
	"fmt"

	"inkline/internal/app"
	"inkline/pkg/docfile"
)

type EditCmd struct {
	File string `arg:"" optional:"" name:"file" help:"Document (.inkl) or HTML file to open" type:"path"`
}

func (c *EditCmd) Run(ctx context.Context, env *Env) error {
	opts := []app.Option{app.WithLogger(env.Log), app.WithPassword(env.Flags.Password)}
	if c.File != "" {
		doc, err := docfile.Open(c.File, docfile.LoadOptions{Password: env.Flags.Password})
		if err != nil {
			return fmt.Errorf("open %s: %w", c.File, err)
		}
		opts = append(opts, app.WithDocument(doc, c.File))
	}
	return app.New(env.Config, opts...).Run()
}
