package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"inkline/pkg/doctree"
)

var (
	ErrNoFontFamilies = errors.New("config: toolbar needs at least one font family")
	ErrNoFontSizes    = errors.New("config: toolbar needs at least one font size")
	ErrBadColor       = errors.New("config: invalid color")
	ErrBadWindow      = errors.New("config: window size must be positive")
	ErrBadLogLevel    = errors.New("config: unknown log level")
)

type Config struct {
	Window   Window   `toml:"window"`
	Document Document `toml:"document"`
	Toolbar  Toolbar  `toml:"toolbar"`
	Log      Log      `toml:"log"`
}

type Window struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
}

// Document is the base style unstyled text resolves to.
type Document struct {
	FontFamily string `toml:"font_family"`
	FontSize   string `toml:"font_size"`
	Color      string `toml:"color"`
}

type Toolbar struct {
	FontFamilies     []string `toml:"font_families"`
	FontSizes        []string `toml:"font_sizes"`
	TextPalette      []string `toml:"text_palette"`
	HighlightPalette []string `toml:"highlight_palette"`
}

type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

func Default() Config {
	return Config{
		Window: Window{Title: "inkline", Width: 1280, Height: 800, MinWidth: 900, MinHeight: 560},
		Document: Document{
			FontFamily: "Arial",
			FontSize:   "16px",
			Color:      "#000000",
		},
		Toolbar: Toolbar{
			FontFamilies:     []string{"Arial", "Georgia", "Times New Roman", "Courier New", "Verdana"},
			FontSizes:        []string{"10px", "12px", "14px", "16px", "20px", "24px", "32px"},
			TextPalette:      []string{"#000000", "#0057b8", "#a31515", "#117a37", "#7a2db8", "#e67e22"},
			HighlightPalette: []string{"#ffffff", "#fff59d", "#c8e6c9", "#bbdefb", "#f8bbd0", "#ffe0b2"},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. A missing file yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Normalize validates c and rewrites every color to lowercase hex.
func (c *Config) Normalize() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return ErrBadWindow
	}
	if len(c.Toolbar.FontFamilies) == 0 {
		return ErrNoFontFamilies
	}
	if len(c.Toolbar.FontSizes) == 0 {
		return ErrNoFontSizes
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrBadLogLevel, c.Log.Level)
	}
	if c.Document.Color != "" {
		hex, ok := doctree.NormalizeColor(c.Document.Color)
		if !ok {
			return fmt.Errorf("%w: document color %q", ErrBadColor, c.Document.Color)
		}
		c.Document.Color = hex
	}
	for _, palette := range [][]string{c.Toolbar.TextPalette, c.Toolbar.HighlightPalette} {
		for i, v := range palette {
			hex, ok := doctree.NormalizeColor(v)
			if !ok {
				return fmt.Errorf("%w: palette entry %q", ErrBadColor, v)
			}
			palette[i] = hex
		}
	}
	return nil
}

// BaseStyle is the document style a surface resolves unstyled text against.
func (c Config) BaseStyle() doctree.Style {
	var s doctree.Style
	s.Set(doctree.FontFamily, c.Document.FontFamily)
	s.Set(doctree.FontSize, c.Document.FontSize)
	s.Set(doctree.TextColor, c.Document.Color)
	return s
}

// Options lists the toolbar choices for p.
func (c Config) Options(p doctree.Property) []string {
	switch p {
	case doctree.FontFamily:
		return c.Toolbar.FontFamilies
	case doctree.FontSize:
		return c.Toolbar.FontSizes
	case doctree.TextColor:
		return c.Toolbar.TextPalette
	case doctree.HighlightColor:
		return c.Toolbar.HighlightPalette
	}
	return nil
}
