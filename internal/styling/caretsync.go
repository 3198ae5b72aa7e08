package styling

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"inkline/internal/event"
	"inkline/pkg/doctree"
)

// Values is what the toolbar shows for the caret position.
type Values struct {
	FontFamily string
	FontSize   string
	TextColor  string
	Highlight  string
}

func (v Values) Get(p doctree.Property) string {
	switch p {
	case doctree.FontFamily:
		return v.FontFamily
	case doctree.FontSize:
		return v.FontSize
	case doctree.TextColor:
		return v.TextColor
	case doctree.HighlightColor:
		return v.Highlight
	}
	return ""
}

// Host resolves the effective style at a tree position.
type Host interface {
	Selection() (doctree.Range, bool)
	Resolve(*doctree.Node) doctree.Computed
}

type Display interface {
	Show(Values)
}

// CaretSync mirrors the effective style under the caret into the toolbar.
// It reads the tree only, never the typing style.
type CaretSync struct {
	host     Host
	display  Display
	families []string
	fold     cases.Caser
	log      *zap.Logger
}

type SyncOption func(*CaretSync)

func WithSyncLogger(l *zap.Logger) SyncOption {
	return func(s *CaretSync) {
		if l != nil {
			s.log = l
		}
	}
}

// NewCaretSync builds a sync for the given font family options. Options are
// matched case-insensitively and the option's own spelling is shown.
func NewCaretSync(host Host, display Display, families []string, opts ...SyncOption) *CaretSync {
	s := &CaretSync{
		host:     host,
		display:  display,
		families: append([]string(nil), families...),
		fold:     cases.Fold(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync resolves the caret style and pushes it to the display. It reports
// false when there is no selection to read.
func (s *CaretSync) Sync() (Values, bool) {
	r, ok := s.host.Selection()
	if !ok || r.Start.Node == nil {
		return Values{}, false
	}
	el := r.Start.EnclosingElement()
	if el == nil {
		return Values{}, false
	}
	computed := s.host.Resolve(el)
	v := Values{
		FontFamily: s.matchFamily(computed.FontFamily),
		FontSize:   computed.FontSize,
		TextColor:  hexOrDefault(computed.Color, DefaultTextColor),
		Highlight:  hexOrDefault(computed.Background, DefaultHighlightColor),
	}
	if s.display != nil {
		s.display.Show(v)
	}
	s.log.Debug("caret sync",
		zap.String("family", v.FontFamily),
		zap.String("size", v.FontSize),
		zap.String("color", v.TextColor),
		zap.String("highlight", v.Highlight))
	return v, true
}

// Register runs Sync on pointer release, key release and selection change.
// The returned function removes the registrations.
func (s *CaretSync) Register(d *event.Dispatcher) func() {
	handler := func(event.Event) { s.Sync() }
	offs := []func(){
		d.On(event.PointerRelease, handler),
		d.On(event.KeyRelease, handler),
		d.On(event.SelectionChange, handler),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

func (s *CaretSync) matchFamily(list string) string {
	first, _, _ := strings.Cut(list, ",")
	first = strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(first))
	if first == "" {
		return ""
	}
	want := s.fold.String(first)
	for _, opt := range s.families {
		if s.fold.String(opt) == want {
			return opt
		}
	}
	return ""
}

func hexOrDefault(rgb, def string) string {
	if hex := doctree.RGBToHex(rgb); hex != "" {
		return hex
	}
	return def
}
