package digitalrain

import "time"

// Theme holds the colours shared by every generator.
type Theme struct {
	Background Color // compositor clear colour
	Primary    Color // rain, particles, waves
	Accent     Color // glitch, data streams, network flashes
	Grid       Color // static background grid
}

// DefaultTheme is the cyan-on-black look.
var DefaultTheme = Theme{
	Background: Color{0, 0, 0, 1},
	Primary:    Color{0, 1, 1, 1},
	Accent:     Color{0, 1, 0.255, 1},
	Grid:       Color{0, 1, 1, 0.03},
}

// PointerState is the last known pointer position. Column is the rain column
// under the pointer; Valid is false until the first pointer-move event.
type PointerState struct {
	X, Y   float64
	Column int
	Valid  bool
}

// FrameContext is the read-only view of shared animation state handed to
// every generator on each tick.
type FrameContext struct {
	Tick     uint64
	Now      time.Time // wall clock at the start of the tick
	Time     float64   // wave phase accumulator
	Width    int
	Height   int
	CellSize int
	Columns  int
	Pointer  PointerState
	Theme    Theme
}

// W returns the surface width as float64.
func (fc FrameContext) W() float64 { return float64(fc.Width) }

// H returns the surface height as float64.
func (fc FrameContext) H() float64 { return float64(fc.Height) }
