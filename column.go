package digitalrain

import (
	"math"
	"math/rand/v2"
)

const (
	// DisturbRadius is the column radius affected by a pointer move.
	DisturbRadius = 5

	glyphFlipChance = 0.05
	speedJitter     = 0.25
	minDropSpeed    = 0.1
)

var (
	dropMaxAge    = Range{50, 150}
	dropSpeedSeed = Range{0, 2}
)

// Drop is one falling glyph cell within a rain column.
type Drop struct {
	Y          float64
	Speed      float64
	Brightness float64
	Trail      int
	Glyph      rune
	Age        float64
	MaxAge     float64
}

// RainPreset holds the per-layer parameters of a rain layer.
type RainPreset struct {
	Layer      LayerID
	Speed      float64 // base fall speed in px/tick
	Brightness float64 // opacity multiplier
	Trail      int     // trailing glyph count
	Fade       float64 // per-tick black fill alpha; lower keeps longer trails
	Glow       bool    // halo behind bright heads
}

// RainPresets are the background, midground and foreground layers, in draw order.
var RainPresets = [3]RainPreset{
	{Layer: LayerRainBack, Speed: 0.3, Brightness: 0.4, Trail: 10, Fade: 0.1},
	{Layer: LayerRainMid, Speed: 0.7, Brightness: 0.7, Trail: 15, Fade: 0.05},
	{Layer: LayerRainFront, Speed: 1, Brightness: 1, Trail: 20, Fade: 0.02, Glow: true},
}

// rainLayer owns one row of drops, one per column.
type rainLayer struct {
	preset RainPreset
	drops  []Drop
}

// ColumnStream simulates the three rain layers.
type ColumnStream struct {
	layers   [3]rainLayer
	palette  Palette
	cellSize int
	columns  int
	height   float64
	resets   int
}

func newColumnStream(palette Palette, cellSize int) *ColumnStream {
	cs := &ColumnStream{palette: palette, cellSize: cellSize}
	for i := range cs.layers {
		cs.layers[i].preset = RainPresets[i]
	}
	return cs
}

// Columns returns the current column count.
func (cs *ColumnStream) Columns() int { return cs.columns }

// Drops returns the drops of layer i (0 = background, 2 = foreground). The
// returned slice MUST NOT be mutated.
func (cs *ColumnStream) Drops(i int) []Drop { return cs.layers[i].drops }

// resize rebuilds every layer for a new surface size.
func (cs *ColumnStream) resize(w, h int, rng *rand.Rand) {
	cs.columns = columnCount(w, cs.cellSize)
	cs.height = float64(h)
	for i := range cs.layers {
		l := &cs.layers[i]
		if cap(l.drops) >= cs.columns {
			l.drops = l.drops[:cs.columns]
		} else {
			l.drops = make([]Drop, cs.columns)
		}
		initDrops(l.drops, l.preset, cs.height, cs.palette, rng)
	}
}

// columnCount returns floor(width / cellSize), never negative.
func columnCount(width, cellSize int) int {
	if cellSize <= 0 || width <= 0 {
		return 0
	}
	return width / cellSize
}

// initDrops seeds every drop at a random height with the layer's parameters.
func initDrops(drops []Drop, p RainPreset, height float64, palette Palette, rng *rand.Rand) {
	for i := range drops {
		drops[i] = Drop{
			Y:          rng.Float64() * height,
			Speed:      p.Speed + dropSpeedSeed.Random(rng),
			Brightness: p.Brightness,
			Trail:      p.Trail,
			Glyph:      palette.Sample(rng),
			MaxAge:     dropMaxAge.Random(rng),
		}
	}
}

// updateDrops advances every drop by one tick and returns how many reset.
func updateDrops(drops []Drop, height float64, cellSize int, palette Palette, rng *rand.Rand) int {
	cell := float64(cellSize)
	resets := 0
	for i := range drops {
		d := &drops[i]
		d.Y += d.Speed
		d.Age++
		if d.Y > height+cell || d.Age > d.MaxAge {
			resetDrop(d, cell, palette, rng)
			resets++
		}
		if rng.Float64() < glyphFlipChance {
			d.Glyph = palette.Sample(rng)
		}
	}
	return resets
}

func resetDrop(d *Drop, cell float64, palette Palette, rng *rand.Rand) {
	d.Y = -cell
	d.Age = 0
	d.Glyph = palette.Sample(rng)
	d.Speed += (rng.Float64() - 0.5) * 2 * speedJitter
	if d.Speed < minDropSpeed {
		d.Speed = minDropSpeed
	}
}

// dropOpacity fades a drop by age and by closeness to the bottom edge.
func dropOpacity(d *Drop, height float64) float64 {
	if height <= 0 || d.MaxAge <= 0 {
		return 0
	}
	ageOpacity := 1 - d.Age/d.MaxAge
	posOpacity := math.Min(1, (height-d.Y)/height)
	return clamp01(math.Min(ageOpacity, posOpacity) * d.Brightness)
}

// drawDrops fades the layer surface, then draws each head with its trail.
func drawDrops(c Canvas, drops []Drop, p RainPreset, fc FrameContext, palette Palette, rng *rand.Rand) {
	c.Fade(ColorBlack, p.Fade)
	cell := float64(fc.CellSize)
	h := fc.H()
	for i := range drops {
		d := &drops[i]
		op := dropOpacity(d, h)
		if op <= 0 {
			continue
		}
		x := float64(i) * cell
		c.DrawGlyph(d.Glyph, x, d.Y, GlyphOptions{
			Size:      cell,
			Color:     fc.Theme.Primary.WithAlpha(op),
			Glow:      p.Glow && op > 0.3,
			GlowColor: fc.Theme.Primary.WithAlpha(op * 0.5),
		})
		n := float64(d.Trail)
		for j := 1; j < d.Trail; j++ {
			ty := d.Y - float64(j)*cell
			if ty < 0 {
				break
			}
			to := op * (1 - float64(j)/n)
			c.DrawGlyph(palette.Sample(rng), x, ty, GlyphOptions{
				Size:  cell,
				Color: fc.Theme.Primary.WithAlpha(to),
			})
		}
	}
}

// Disturb boosts the foreground drops around column col with a linear
// falloff and returns the number of columns touched. Columns at distance
// DisturbRadius or more are left alone.
func (cs *ColumnStream) Disturb(col int) int {
	drops := cs.layers[len(cs.layers)-1].drops
	lo := max(0, col-DisturbRadius+1)
	hi := min(len(drops)-1, col+DisturbRadius-1)
	touched := 0
	for i := lo; i <= hi; i++ {
		dist := math.Abs(float64(i - col))
		k := 1 - dist/DisturbRadius
		drops[i].Speed = 1 + k*3
		drops[i].Brightness = 0.8 + k*0.4
		touched++
	}
	return touched
}

// update advances every layer.
func (cs *ColumnStream) update(rng *rand.Rand) {
	for i := range cs.layers {
		cs.resets += updateDrops(cs.layers[i].drops, cs.height, cs.cellSize, cs.palette, rng)
	}
}

// draw renders every layer into its own surface.
func (cs *ColumnStream) draw(comp *Compositor, fc FrameContext, rng *rand.Rand) {
	for i := range cs.layers {
		l := &cs.layers[i]
		if c := comp.Surface(l.preset.Layer); c != nil {
			drawDrops(c, l.drops, l.preset, fc, cs.palette, rng)
		}
	}
}

// pulseGlyphCount is the number of breathing glyphs drawn over the rain.
const pulseGlyphCount = 10

// drawPulseGlyphs scatters the special glyphs over c. Their size and alpha
// breathe with wall-clock time so the effect is frame-rate independent.
func drawPulseGlyphs(c Canvas, fc FrameContext, rng *rand.Rand) {
	ms := float64(fc.Now.UnixMilli())
	cell := float64(fc.CellSize)
	for i := 0; i < pulseGlyphCount; i++ {
		s := math.Sin(ms*0.003 + float64(i))
		c.DrawGlyph(pulsePalette.Sample(rng), rng.Float64()*fc.W(), rng.Float64()*fc.H(), GlyphOptions{
			Size:      cell * (1 + 0.5*s),
			Color:     fc.Theme.Primary.WithAlpha(0.5 + 0.5*s),
			Glow:      s > 0,
			GlowColor: fc.Theme.Primary.WithAlpha(0.4 * s),
			Centered:  true,
		})
	}
}
