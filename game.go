package digitalrain

import (
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts an Engine to ebiten.Game. Update fires the frame signal, so
// the engine ticks once per Ebitengine update on the game loop goroutine.
type Game struct {
	cfg    Config
	engine *Engine
	host   *EbitenHost
	signal *FrameSignal
	log    *slog.Logger

	screen  ImageCanvas
	input   pointerPoller
	overlay *statsOverlay
	script  *Script

	screenshotQueue []string
	lastUpdate      time.Time
	outW, outH      int
}

// NewGame loads the configured font and builds a started engine sized to
// the configured window.
func NewGame(cfg Config) (*Game, error) {
	font, err := LoadFontFile(cfg.FontPath)
	if err != nil {
		return nil, err
	}
	host, err := NewEbitenHost(cfg.Window.Width, cfg.Window.Height, font)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:     cfg,
		host:    host,
		signal:  NewFrameSignal(),
		log:     slog.Default().With("component", "game"),
		overlay: newStatsOverlay(cfg.Debug),
	}
	g.screen.host = host
	g.engine = New(cfg, host, g.signal)
	g.engine.Start()
	return g, nil
}

// Engine returns the wrapped engine.
func (g *Game) Engine() *Engine { return g.engine }

// SetScript attaches a script that runs one step per update.
func (g *Game) SetScript(s *Script) { g.script = s }

// Update reads input, advances the script and ticks the engine. Escape ends
// the game; F3 toggles the stats overlay; F12 takes a screenshot.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.overlay.toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("manual")
	}

	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.lastUpdate.IsZero() {
		dt = now.Sub(g.lastUpdate).Seconds()
	}
	g.lastUpdate = now

	if g.script != nil {
		g.script.Step(g.engine, g.Screenshot)
	}
	g.input.poll(g.engine)
	g.signal.Fire(now)
	g.overlay.update(dt, g.engine.Stats())
	return nil
}

// Draw composites the engine layers onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.SetImage(screen)
	g.engine.Composite(&g.screen)
	g.overlay.draw(screen)
	g.flushScreenshots(screen)
}

// Layout tracks the window size and resizes the engine when it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outW || outsideHeight != g.outH {
		g.outW, g.outH = outsideWidth, outsideHeight
		g.host.SetSize(outsideWidth, outsideHeight)
		g.engine.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close stops the engine and frees GPU resources.
func (g *Game) Close() {
	g.engine.Close()
	g.host.Dispose()
}

// Run opens a window and runs the game until it is closed.
func Run(cfg Config) error {
	g, err := NewGame(cfg)
	if err != nil {
		return err
	}
	defer g.Close()
	return RunGame(g)
}

// RunGame configures the window from the game's config and runs it.
func RunGame(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if g.cfg.Window.TPS > 0 {
		ebiten.SetTPS(g.cfg.Window.TPS)
	}
	return ebiten.RunGame(g)
}
