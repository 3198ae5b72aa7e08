package app

import (
	"fmt"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"inkline/internal/config"
	"inkline/internal/editor"
	"inkline/internal/event"
	"inkline/internal/render"
	"inkline/internal/styling"
	"inkline/internal/ui"
	"inkline/pkg/docfile"
	"inkline/pkg/doctree"
)

type rect struct {
	x int
	y int
	w int
	h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && y >= r.y && x < r.x+r.w && y < r.y+r.h
}

type actionButton struct {
	id    string
	label string
	r     rect
}

type controlKind uint8

const (
	controlSelect controlKind = iota
	controlColor
	controlClear
)

// control is one hit area of the styling toolbar.
type control struct {
	kind controlKind
	prop doctree.Property
	r    rect
}

type popupItem struct {
	value string
	r     rect
}

type App struct {
	cfg   config.Config
	theme ui.Theme
	log   *zap.Logger

	doc     *docfile.Document
	surface *editor.Surface
	events  *event.Dispatcher
	styles  *styling.Controller
	caret   *styling.CaretSync
	toolbar *ui.Toolbar
	unsync  func()

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image
	docLayer    *ebiten.Image

	fonts fontBank

	uiScales   []float32
	uiScaleIdx int
	filePath   string
	password   string
	compress   bool
	status     string
	frameTick  uint64

	showHelp  bool
	helpRect  rect
	helpClose rect

	menuActions []actionButton
	controls    []control
	popupItems  []popupItem
	popupRect   rect
	contentRect rect
	lines       []lineLayout

	scrollX float64
	scrollY float64
	maxX    float64
	maxY    float64

	dragSelecting bool

	screenW int
	screenH int
}

type Option func(*App)

func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithDocument opens doc instead of an empty document. path is where Save
// writes it back.
func WithDocument(doc *docfile.Document, path string) Option {
	return func(a *App) {
		if doc != nil && doc.Root != nil {
			a.doc = doc
			a.filePath = path
		}
	}
}

// WithPassword seals saved documents and unlocks sealed ones on open.
func WithPassword(password string) Option {
	return func(a *App) { a.password = password }
}

func New(cfg config.Config, opts ...Option) *App {
	a := &App{
		cfg:         cfg,
		theme:       ui.DefaultTheme(),
		log:         zap.NewNop(),
		fonts:       newFontBank(),
		uiScales:    []float32{1.0, 1.25, 1.5, 2.0},
		compress:    true,
		menuActions: make([]actionButton, 0, 8),
		controls:    make([]control, 0, 8),
		lines:       make([]lineLayout, 0, 128),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.doc == nil {
		a.doc = docfile.NewDocument("", "Untitled")
	}

	a.events = event.NewDispatcher(event.WithLogger(a.log))
	a.toolbar = ui.NewToolbar(cfg.Toolbar)
	a.surface = editor.NewSurface(a.doc.Root,
		editor.WithDispatcher(a.events),
		editor.WithBaseStyle(a.baseStyle()),
		editor.WithLogger(a.log))
	a.styles = styling.NewController(a.surface,
		styling.WithControls(a.toolbar),
		styling.WithLogger(a.log))
	a.caret = styling.NewCaretSync(a.surface, a.toolbar, cfg.Toolbar.FontFamilies,
		styling.WithSyncLogger(a.log))
	a.unsync = a.caret.Register(a.events)

	a.surface.Focus()
	a.caret.Sync()
	a.status = "Untitled document"
	if a.filePath != "" {
		a.status = "Opened " + a.filePath
	}
	return a
}

// baseStyle is the document's own base style, or the configured one when the
// document does not carry one.
func (a *App) baseStyle() doctree.Style {
	if a.doc != nil && a.doc.Metadata.BaseStyle != "" {
		return doctree.ParseStyle(a.doc.Metadata.BaseStyle)
	}
	return a.cfg.BaseStyle()
}

func (a *App) Run() error {
	defer a.unsync()
	ebiten.SetWindowTitle(a.cfg.Window.Title)
	ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(a.cfg.Window.MinWidth, a.cfg.Window.MinHeight, -1, -1)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) scale() float32 {
	return a.uiScales[a.uiScaleIdx]
}

func (a *App) Update() error {
	a.frameTick++
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	winW, winH := a.currentViewportSize()
	if a.showHelp {
		a.layoutHelpDialogBounds(winW, winH)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if a.showHelp {
			a.showHelp = false
			return nil
		}
		if _, open := a.toolbar.OpenProperty(); open {
			a.toolbar.CloseAll()
			return nil
		}
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showHelp = !a.showHelp
	}
	if a.showHelp {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			if !a.helpRect.contains(x, y) || a.helpClose.contains(x, y) {
				a.showHelp = false
			}
		}
		return nil
	}

	_, wheelY := ebiten.Wheel()
	if wheelY != 0 {
		a.scrollY -= wheelY * 42
	}
	a.clampScroll()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		switch {
		case a.handlePopupClick(x, y):
		case a.handleActionClick(x, y):
		case a.handleToolbarClick(x, y):
		case a.contentRect.contains(x, y):
			a.toolbar.CloseAll()
			a.surface.Focus()
			a.surface.SetCaretOffset(a.hitTestOffset(x, y), shift)
			a.dragSelecting = true
		default:
			a.toolbar.CloseAll()
		}
	}
	if a.dragSelecting && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		a.surface.SetCaretOffset(a.hitTestOffset(x, y), true)
		a.ensureCaretVisible()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && a.dragSelecting {
		a.dragSelecting = false
		a.events.Dispatch(event.Event{Type: event.PointerRelease})
	}

	if a.surface.Focused() {
		a.handleKeys(ctrl, shift)
		for _, k := range inpututil.AppendJustReleasedKeys(nil) {
			a.events.Dispatch(event.Event{Type: event.KeyRelease, Key: k.String()})
		}
	}

	a.clampScroll()
	return nil
}

func (a *App) handleKeys(ctrl, shift bool) {
	edited := false
	moved := false
	move := func(fn func(bool)) {
		fn(shift)
		moved = true
	}

	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyN):
			a.invokeAction("new")
		case inpututil.IsKeyJustPressed(ebiten.KeyO):
			a.invokeAction("open")
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			if shift {
				a.invokeAction("save_as")
			} else {
				a.invokeAction("save")
			}
		case inpututil.IsKeyJustPressed(ebiten.KeyA):
			a.surface.SelectAll()
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			if a.surface.HasSelection() {
				if err := clipboard.WriteAll(a.surface.SelectedText()); err != nil {
					a.status = "Copy failed: " + err.Error()
				}
			}
		case inpututil.IsKeyJustPressed(ebiten.KeyX):
			if a.surface.HasSelection() {
				edited = true
				if err := clipboard.WriteAll(a.surface.SelectedText()); err != nil {
					a.status = "Cut failed: " + err.Error()
				} else {
					a.surface.DeleteSelection()
				}
			}
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			paste, err := clipboard.ReadAll()
			if err != nil {
				a.status = "Paste failed: " + err.Error()
			} else if paste != "" {
				edited = true
				if err := a.surface.InsertText(paste); err != nil {
					a.status = "Paste failed: " + err.Error()
				}
			}
		case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
			a.bumpUIScale(1)
		case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
			a.bumpUIScale(-1)
		case inpututil.IsKeyJustPressed(ebiten.KeyBackslash):
			edited = true
			a.clearAll()
		case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
			edited = true
			a.surface.DeleteWordBackward()
		case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
			edited = true
			a.surface.DeleteWordForward()
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
			move(a.surface.MoveWordLeft)
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
			move(a.surface.MoveWordRight)
		case inpututil.IsKeyJustPressed(ebiten.KeyHome):
			move(a.surface.MoveDocumentStart)
		case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
			move(a.surface.MoveDocumentEnd)
		}
		if moved || edited {
			a.ensureCaretVisible()
		}
		return
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		move(a.surface.MoveLeft)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		move(a.surface.MoveRight)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		move(func(extend bool) { a.moveVertical(-1, extend) })
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		move(func(extend bool) { a.moveVertical(1, extend) })
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		move(a.surface.MoveLineStart)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		move(a.surface.MoveLineEnd)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		a.scrollY += float64(a.contentRect.h) * 0.8
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		a.scrollY -= float64(a.contentRect.h) * 0.8
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyKPEnter):
		edited = true
		if err := a.surface.InsertText("\n"); err != nil {
			a.status = "Insert newline failed: " + err.Error()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		edited = true
		a.surface.Backspace()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		edited = true
		a.surface.DeleteForward()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		edited = true
		_ = a.surface.InsertText("    ")
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x20 || !utf8.ValidRune(r) {
			continue
		}
		edited = true
		if err := a.surface.InsertText(string(r)); err != nil {
			a.status = "Insert failed: " + err.Error()
		}
		moved = true
	}
	if moved || edited {
		a.ensureCaretVisible()
	}
}

// clearAll removes every inline style from the selection.
func (a *App) clearAll() {
	a.toolbar.CloseAll()
	a.styles.ClearAll()
}

func (a *App) handleActionClick(x, y int) bool {
	for _, btn := range a.menuActions {
		if btn.r.contains(x, y) {
			a.toolbar.CloseAll()
			a.invokeAction(btn.id)
			return true
		}
	}
	return false
}

// handleToolbarClick routes a click on a styling control. A color well that
// still shows the active value clears it instead of opening the palette.
func (a *App) handleToolbarClick(x, y int) bool {
	for _, c := range a.controls {
		if !c.r.contains(x, y) {
			continue
		}
		switch c.kind {
		case controlSelect:
			a.toolbar.Toggle(c.prop)
		case controlColor:
			if a.styles.Reactivate(c.prop, a.toolbar.Value(c.prop)) {
				a.toolbar.CloseAll()
				a.status = "Cleared " + c.prop.String()
				return true
			}
			a.toolbar.Toggle(c.prop)
		case controlClear:
			a.toolbar.CloseAll()
			a.styles.Clear(c.prop)
			a.status = "Cleared " + c.prop.String()
		}
		return true
	}
	return false
}

func (a *App) handlePopupClick(x, y int) bool {
	p, open := a.toolbar.OpenProperty()
	if !open {
		return false
	}
	if !a.popupRect.contains(x, y) {
		return false
	}
	for _, item := range a.popupItems {
		if !item.r.contains(x, y) {
			continue
		}
		a.styles.Set(p, item.value)
		shown := item.value
		if v := a.styles.State().Get(p); v != "" {
			shown = v
		}
		a.toolbar.ResetControl(p, shown)
		a.status = fmt.Sprintf("%s: %s", p, item.value)
		break
	}
	a.toolbar.CloseAll()
	return true
}

func (a *App) invokeAction(id string) {
	switch id {
	case "new":
		a.doc = docfile.NewDocument("", "Untitled")
		a.resetDocument()
		a.filePath = ""
		a.status = "New document"
	case "open":
		if err := a.openDocumentDialog(); err != nil {
			a.status = "Open failed: " + err.Error()
			a.log.Warn("open failed", zap.Error(err))
		}
	case "save":
		if err := a.saveDocument(false); err != nil {
			a.status = "Save failed: " + err.Error()
			a.log.Warn("save failed", zap.Error(err))
		}
	case "save_as":
		if err := a.saveDocument(true); err != nil {
			a.status = "Save failed: " + err.Error()
			a.log.Warn("save failed", zap.Error(err))
		}
	case "clear_all":
		a.clearAll()
		a.status = "Cleared formatting"
	case "zoom_out":
		a.bumpUIScale(-1)
	case "zoom_in":
		a.bumpUIScale(1)
	case "help":
		a.showHelp = !a.showHelp
	}
}

// resetDocument points the surface at a.doc and forgets the typing style.
func (a *App) resetDocument() {
	a.surface.Reset(a.doc.Root)
	a.surface.SetBaseStyle(a.baseStyle())
	a.styles.State().Reset()
	a.scrollX, a.scrollY = 0, 0
	a.caret.Sync()
}

func (a *App) bumpUIScale(delta int) {
	prev := a.uiScaleIdx
	a.uiScaleIdx += delta
	if a.uiScaleIdx < 0 {
		a.uiScaleIdx = 0
	}
	if a.uiScaleIdx >= len(a.uiScales) {
		a.uiScaleIdx = len(a.uiScales) - 1
	}
	if prev != a.uiScaleIdx {
		a.fonts.reset()
	}
	a.status = fmt.Sprintf("UI scale %.0f%%", a.scale()*100)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth < a.cfg.Window.MinWidth {
		outsideWidth = a.cfg.Window.MinWidth
	}
	if outsideHeight < a.cfg.Window.MinHeight {
		outsideHeight = a.cfg.Window.MinHeight
	}
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}

func (a *App) currentViewportSize() (int, int) {
	if a.screenW > 0 && a.screenH > 0 {
		return a.screenW, a.screenH
	}
	w, h := ebiten.WindowSize()
	if w <= 0 {
		w = a.cfg.Window.Width
	}
	if h <= 0 {
		h = a.cfg.Window.Height
	}
	return w, h
}
