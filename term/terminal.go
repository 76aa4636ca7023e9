package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/digitalrain"
)

// Terminal runs an engine inside a tcell screen. Each terminal cell is one
// rain column wide.
type Terminal struct {
	screen tcell.Screen
	host   *CellHost
	out    *CellCanvas
	signal *digitalrain.FrameSignal
	engine *digitalrain.Engine
	log    *slog.Logger
	frame  time.Duration

	mouseX, mouseY int
	buttons        tcell.ButtonMask
}

// New initialises screen and builds a started engine sized to it.
func New(screen tcell.Screen, cfg digitalrain.Config) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("term: init screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	cols, rows := screen.Size()
	t := &Terminal{
		screen: screen,
		host:   NewCellHost(cols, rows, cfg.CellSize),
		signal: digitalrain.NewFrameSignal(),
		log:    slog.Default().With("component", "term"),
		frame:  time.Second / 60,
		mouseX: -1,
		mouseY: -1,
	}
	if cfg.Window.TPS > 0 {
		t.frame = time.Second / time.Duration(cfg.Window.TPS)
	}
	w, h := t.host.Size()
	t.out = NewCellCanvas(w, h, t.host.CellSize())
	t.engine = digitalrain.New(cfg, t.host, t.signal)
	t.engine.Start()
	return t, nil
}

// Engine returns the wrapped engine.
func (t *Terminal) Engine() *digitalrain.Engine { return t.engine }

// Output returns the canvas presented on the last frame.
func (t *Terminal) Output() *CellCanvas { return t.out }

// Run ticks the engine until ctx is done or the user quits with Escape,
// Ctrl-C or q.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(t.frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pollEvents(ctx, t.screen.PollEvent, eventChan)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if t.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			t.Step(now)
		}
	}
}

// pollEvents forwards events from poll to out until poll returns nil (the
// screen was finalized) or ctx is done.
func pollEvents(ctx context.Context, poll func() tcell.Event, out chan<- tcell.Event) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Step fires one tick and presents the result.
func (t *Terminal) Step(now time.Time) {
	t.signal.Fire(now)
	t.present()
}

// handle applies one terminal event and reports whether to quit.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return true
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
		cols, rows := ev.Size()
		t.resize(cols, rows)
	case *tcell.EventMouse:
		t.mouse(ev)
	}
	return false
}

func (t *Terminal) resize(cols, rows int) {
	t.host.SetGrid(cols, rows)
	w, h := t.host.Size()
	if ow, oh := t.out.Size(); ow == w && oh == h {
		return
	}
	t.out = NewCellCanvas(w, h, t.host.CellSize())
	t.engine.Resize(w, h)
	t.log.Debug("resized", "cols", cols, "rows", rows)
}

// mouse turns cell positions into surface pixels at the cell centre. A
// primary button press is a click; any other change of cell is a move.
func (t *Terminal) mouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	cs := float64(t.host.CellSize())
	x := (float64(cx) + 0.5) * cs
	y := (float64(cy) + 0.5) * cs

	if cx != t.mouseX || cy != t.mouseY {
		t.mouseX, t.mouseY = cx, cy
		t.engine.PointerMove(x, y)
	}
	btn := ev.Buttons()
	if btn&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0 {
		t.engine.PointerClick(x, y)
	}
	t.buttons = btn
}

func (t *Terminal) present() {
	t.engine.Composite(t.out)
	cols, rows := t.out.Grid()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cl := t.out.At(x, y)
			r := ' '
			if cl.Lit() {
				r = cl.Rune
			}
			t.screen.SetContent(x, y, r, nil, cellStyle(cl))
		}
	}
	t.screen.Show()
}

func cellStyle(cl Cell) tcell.Style {
	fr, fg, fb := cl.Foreground()
	br, bg, bb := cl.Background()
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(fr, fg, fb)).
		Background(tcell.NewRGBColor(br, bg, bb))
}

// Close stops the engine and restores the terminal.
func (t *Terminal) Close() {
	t.engine.Close()
	t.screen.Fini()
}

// Run opens the controlling terminal and runs until the user quits.
func Run(ctx context.Context, cfg digitalrain.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("term: new screen: %w", err)
	}
	t, err := New(screen, cfg)
	if err != nil {
		return err
	}
	defer t.Close()
	return t.Run(ctx)
}
