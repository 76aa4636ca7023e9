package digitalrain

import (
	"image"
	"math"
	"math/rand/v2"
)

const (
	glitchChance       = 0.002
	// GlitchDecay is the per-tick intensity multiplier while active.
	GlitchDecay        = 0.9
	// GlitchThreshold is the intensity below which a glitch ends.
	GlitchThreshold    = 0.01
	glitchMaxIntensity = 50
	glitchNoiseAlpha   = 100

	tearChance = 0.001
	tearShift  = 5
)

var (
	glitchBandH  = Range{1, 6}
	glitchBandDX = Range{-10, 10}
	tearStripH   = Range{5, 25}
)

// GlitchState is the injector's state.
type GlitchState uint8

const (
	GlitchIdle GlitchState = iota
	GlitchActive
)

func (s GlitchState) String() string {
	if s == GlitchActive {
		return "active"
	}
	return "idle"
}

// Glitch corrupts the overlay surface in short, decaying bursts.
type Glitch struct {
	state     GlitchState
	intensity float64
	// Chance is the per-tick Idle to Active probability.
	Chance float64
	// TearChance is the per-tick probability of a signal tear.
	TearChance float64
	// cleared is false while the overlay still holds the last burst.
	cleared bool
	bursts  int
	tears   int
}

func newGlitch() *Glitch {
	return &Glitch{Chance: glitchChance, TearChance: tearChance, cleared: true}
}

// State returns the current state.
func (g *Glitch) State() GlitchState { return g.state }

// Intensity returns the current burst intensity; zero when idle.
func (g *Glitch) Intensity() float64 { return g.intensity }

// Trigger forces a burst at the given intensity.
func (g *Glitch) Trigger(intensity float64) {
	if intensity < GlitchThreshold {
		return
	}
	g.state = GlitchActive
	g.intensity = intensity
	g.bursts++
}

// step advances the state machine by one tick and reports whether the
// overlay should be painted this tick.
func (g *Glitch) step(rng *rand.Rand) bool {
	switch g.state {
	case GlitchIdle:
		if rng.Float64() < g.Chance {
			g.Trigger(rng.Float64() * glitchMaxIntensity)
		}
		return g.state == GlitchActive
	default:
		return true
	}
}

// decay applies the geometric falloff after a painted tick.
func (g *Glitch) decay() {
	g.intensity *= GlitchDecay
	if g.intensity < GlitchThreshold {
		g.state = GlitchIdle
		g.intensity = 0
	}
}

// glitchBandCount returns the number of corrupted bands for an intensity.
func glitchBandCount(intensity float64) int {
	return int(math.Ceil(intensity / 10))
}

// update paints one tick of the glitch overlay.
func (g *Glitch) update(c Canvas, fc FrameContext, rng *rand.Rand) {
	if !g.step(rng) {
		if !g.cleared {
			c.Clear()
			g.cleared = true
		}
		return
	}
	c.Clear()
	g.cleared = false
	w, h := c.Size()
	density := g.intensity / 10000
	c.EditPixels(image.Rect(0, 0, w, h), func(buf PixelBuffer) {
		ApplyNoise(buf, buf.Bounds(), density, rng, glitchNoise(glitchNoiseAlpha))
	})
	band := fc.Theme.Accent.WithAlpha(0.3)
	for i, n := 0, glitchBandCount(g.intensity); i < n; i++ {
		y := rng.Float64() * fc.H()
		c.FillRect(Rect{
			X:      glitchBandDX.Random(rng),
			Y:      y,
			Width:  fc.W(),
			Height: glitchBandH.Random(rng),
		}, band)
	}
	g.decay()
}

// tear shifts 1-5 thin strips of c sideways. It returns the strip count, or
// zero when no tear fired this tick.
func (g *Glitch) tear(c Canvas, rng *rand.Rand) int {
	if rng.Float64() >= g.TearChance {
		return 0
	}
	_, h := c.Size()
	n := 1 + rng.IntN(5)
	for i := 0; i < n; i++ {
		y := int(rng.Float64() * float64(h))
		sh := int(tearStripH.Random(rng))
		dx := rng.IntN(2*tearShift+1) - tearShift
		c.ShiftStrip(y, sh, dx)
	}
	g.tears++
	return n
}
