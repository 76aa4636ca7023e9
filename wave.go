package digitalrain

import (
	"math"
	"math/rand/v2"
)

const (
	waveTimeStep     = 0.1
	waveSampleStep   = 2
	waveJitterChance = 0.02
	waveJitterMax    = 10
	packetSpacing    = 100
	packetSpeed      = 50

	dataBandCount   = 5
	bandPackets     = 3
	bandNoiseChance = 0.1

	interferenceChance = 0.03
	gridSpacing        = 50
)

// Wave is one composite sine overlay. Parameters are fixed at construction;
// only the shared time accumulator advances.
type Wave struct {
	Amplitude float64
	Frequency float64
	Speed     float64
	Offset    float64
	Opacity   float64
	Stroke    float64
}

// WavePresets are the unscaled wave parameters. Amplitude is multiplied by
// the configured intensity.
var WavePresets = [4]Wave{
	{Amplitude: 30, Frequency: 0.02, Speed: 0.03, Offset: 0, Opacity: 0.3, Stroke: 2},
	{Amplitude: 20, Frequency: 0.015, Speed: -0.02, Offset: math.Pi / 4, Opacity: 0.4, Stroke: 1.5},
	{Amplitude: 40, Frequency: 0.025, Speed: 0.01, Offset: math.Pi / 2, Opacity: 0.2, Stroke: 3},
	{Amplitude: 15, Frequency: 0.03, Speed: -0.04, Offset: math.Pi, Opacity: 0.5, Stroke: 1},
}

// Waveform renders the sine overlays, their packets and the data bands.
type Waveform struct {
	waves [4]Wave
	time  float64
	// Grid enables the scrolling grid and interference lines.
	Grid bool
}

func newWaveform(intensity float64) *Waveform {
	wf := &Waveform{waves: WavePresets, Grid: true}
	for i := range wf.waves {
		wf.waves[i].Amplitude *= intensity
	}
	return wf
}

// Waves returns the wave parameters after intensity scaling.
func (wf *Waveform) Waves() [4]Wave { return wf.waves }

// Time returns the shared phase accumulator.
func (wf *Waveform) Time() float64 { return wf.time }

// waveBaseline returns the resting y of wave i.
func waveBaseline(i int, h float64) float64 {
	return h * (0.2 + 0.2*float64(i))
}

// waveY evaluates the three-term composite at x.
func waveY(w *Wave, base, x, t float64) float64 {
	ph := t * w.Speed
	return base +
		w.Amplitude*math.Sin(x*w.Frequency+ph+w.Offset) +
		w.Amplitude*0.3*math.Sin(x*w.Frequency*2+ph*1.5+w.Offset) +
		w.Amplitude*0.5*math.Sin(x*w.Frequency*0.5+ph*0.7+w.Offset)
}

// drawWave strokes the path with sparse jitter, then its packets.
func drawWave(c Canvas, w *Wave, i int, fc FrameContext, t float64, rng *rand.Rand) {
	width := fc.W()
	base := waveBaseline(i, fc.H())
	col := fc.Theme.Primary.WithAlpha(w.Opacity)
	px, py := 0.0, waveY(w, base, 0, t)
	for x := float64(waveSampleStep); x <= width; x += waveSampleStep {
		y := waveY(w, base, x, t)
		if rng.Float64() < waveJitterChance {
			y += (rng.Float64()*2 - 1) * waveJitterMax
		}
		c.StrokeLine(px, py, x, y, w.Stroke, col)
		px, py = x, y
	}

	shift := math.Mod(t*packetSpeed, packetSpacing)
	for x := 0.0; x < width; x += packetSpacing {
		pxx := x + shift
		pyy := waveY(w, base, pxx, t)
		c.Glow(pxx, pyy, 10, fc.Theme.Primary.WithAlpha(clamp01(w.Opacity+0.2)))
		c.FillRect(Rect{X: pxx - 2, Y: pyy - 2, Width: 4, Height: 4}, fc.Theme.Primary.WithAlpha(clamp01(w.Opacity+0.4)))
	}
}

// drawDataBands sweeps five horizontal bands with glowing packets.
func drawDataBands(c Canvas, fc FrameContext, t float64, rng *rand.Rand) {
	w, h := fc.W(), fc.H()
	if w <= 0 {
		return
	}
	for i := 0; i < dataBandCount; i++ {
		y := h/dataBandCount*float64(i) + h/(2*dataBandCount)
		off := math.Mod(t*(50+20*float64(i)), w)
		op := 0.3 + 0.2*math.Sin(t+float64(i))
		col := fc.Theme.Primary.WithAlpha(op * 0.5)
		px, py := 0.0, y
		for x := float64(waveSampleStep) * 5; x <= w; x += waveSampleStep * 5 {
			yy := y
			if rng.Float64() < bandNoiseChance {
				yy += (rng.Float64()*2 - 1) * 5
			}
			c.StrokeLine(px, py, x, yy, 1, col)
			px, py = x, yy
		}
		for k := 0; k < bandPackets; k++ {
			x := math.Mod(off+float64(k)*w/bandPackets, w)
			c.Glow(x, y, 15, fc.Theme.Primary.WithAlpha(op))
			c.FillRect(Rect{X: x - 3, Y: y - 3, Width: 6, Height: 6}, fc.Theme.Primary.WithAlpha(clamp01(op+0.3)))
		}
	}
}

// drawScrollingGrid draws a faint grid drifting with time.
func drawScrollingGrid(c Canvas, fc FrameContext, t float64) {
	w, h := fc.W(), fc.H()
	col := fc.Theme.Primary.WithAlpha(0.05)
	ox := math.Mod(t*10, gridSpacing)
	oy := math.Mod(t*5, gridSpacing)
	for x := ox; x < w; x += gridSpacing {
		c.StrokeLine(x, 0, x, h, 1, col)
	}
	for y := oy; y < h; y += gridSpacing {
		c.StrokeLine(0, y, w, y, 1, col)
	}
}

// drawInterference occasionally draws 1-3 slanted scan lines. It reports
// whether any were drawn.
func drawInterference(c Canvas, fc FrameContext, rng *rand.Rand) bool {
	if rng.Float64() >= interferenceChance {
		return false
	}
	w, h := fc.W(), fc.H()
	n := 1 + rng.IntN(3)
	for i := 0; i < n; i++ {
		y := rng.Float64() * h
		c.StrokeLine(0, y, w, y+(rng.Float64()*2-1)*20, 1, fc.Theme.Accent.WithAlpha(0.3))
	}
	return true
}

// update advances the shared phase.
func (wf *Waveform) update() {
	wf.time += waveTimeStep
}

func (wf *Waveform) draw(c Canvas, fc FrameContext, rng *rand.Rand) {
	c.Clear()
	if wf.Grid {
		drawScrollingGrid(c, fc, wf.time)
	}
	for i := range wf.waves {
		drawWave(c, &wf.waves[i], i, fc, wf.time, rng)
	}
	drawDataBands(c, fc, wf.time, rng)
	if wf.Grid {
		drawInterference(c, fc, rng)
	}
}
