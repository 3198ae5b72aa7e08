// Package cli wires the inkline command line: the editor window and the
// headless restyle and inspect commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"inkline/internal/config"
)

var errUsage = errors.New("usage")

func usage(msg string) error {
	return fmt.Errorf("%w: %s", errUsage, msg)
}

// RootFlags are accepted by every command.
type RootFlags struct {
	Config   string `name:"config" short:"c" help:"Path to a TOML config file" type:"path"`
	LogLevel string `name:"log-level" help:"Override the configured log level" enum:",debug,info,warn,error" default:""`
	Password string `name:"password" help:"Password for sealed documents" env:"INKLINE_PASSWORD"`
}

type CLI struct {
	RootFlags `embed:""`

	Edit    EditCmd    `cmd:"" default:"withargs" help:"Open the editor window"`
	Restyle RestyleCmd `cmd:"" help:"Apply or clear inline styles on a text range without opening a window"`
	Inspect InspectCmd `cmd:"" help:"Print document details and the style at a text offset"`
}

// Env is what commands run against.
type Env struct {
	Flags  *RootFlags
	Config config.Config
	Log    *zap.Logger
	Out    io.Writer
}

// Execute parses args and runs the selected command.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	var root CLI
	parser, err := kong.New(&root,
		kong.Name("inkline"),
		kong.Description("Rich text editor with inline font and color styling."),
		kong.UsageOnError(),
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, root.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(&Env{Flags: &root.RootFlags, Config: cfg, Log: log, Out: out})
}
