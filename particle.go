package digitalrain

import (
	"image"
	"math"
	"math/rand/v2"
)

const (
	// particleRespawnMargin is how far below the surface a particle may drift
	// before it is recycled at the top.
	particleRespawnMargin = 50
	particleSpawnY        = -10
	particleSway          = 0.5
	particleFlipChance    = 0.02

	sensorNoiseDensity = 0.001
)

// ParticleRanges are the sampling ranges used when a particle is (re)spawned.
var ParticleRanges = struct {
	Speed, Size, Opacity, RotationSpeed, PulseSpeed Range
	MinTrail, MaxTrail                              int
}{
	Speed:         Range{1, 4},
	Size:          Range{1, 4},
	Opacity:       Range{0.3, 0.8},
	RotationSpeed: Range{-0.05, 0.05},
	PulseSpeed:    Range{0.02, 0.07},
	MinTrail:      5,
	MaxTrail:      15,
}

// Particle is one drifting glyph in the particle field.
type Particle struct {
	Pos           Vec2
	Speed         float64
	Size          float64
	Opacity       float64
	Glyph         rune
	Rotation      float64
	RotationSpeed float64
	Pulse         float64
	PulseSpeed    float64
	MaxTrail      int
	// Trail holds past positions, oldest first. len(Trail) <= MaxTrail.
	Trail []Vec2
}

// ParticleField manages a fixed-size pool of particles. Particles are never
// destroyed; those leaving the bottom are recycled at the top.
type ParticleField struct {
	particles []Particle
	palette   Palette
	// SensorNoise is the per-tick probability of a full-surface noise pass.
	SensorNoise float64
	respawns    int
}

// newParticleField creates a pool of n particles. Call seed once the surface
// size is known.
func newParticleField(n int, palette Palette) *ParticleField {
	if n < 0 {
		n = 0
	}
	return &ParticleField{
		particles:   make([]Particle, n),
		palette:     palette,
		SensorNoise: 0.001,
	}
}

// Len returns the pool size.
func (f *ParticleField) Len() int { return len(f.particles) }

// Particles returns the pool. The returned slice MUST NOT be mutated.
func (f *ParticleField) Particles() []Particle { return f.particles }

// seed resets every particle and scatters them over the surface height.
func (f *ParticleField) seed(w, h float64, rng *rand.Rand) {
	for i := range f.particles {
		p := &f.particles[i]
		resetParticle(p, w, f.palette, rng)
		p.Pos.Y = rng.Float64() * h
	}
}

// resetParticle reinitialises every randomised field and places p above the
// top edge. The trail backing array is reused.
func resetParticle(p *Particle, w float64, palette Palette, rng *rand.Rand) {
	r := &ParticleRanges
	trail := p.Trail[:0]
	*p = Particle{
		Pos:           Vec2{X: rng.Float64() * w, Y: particleSpawnY},
		Speed:         r.Speed.Random(rng),
		Size:          r.Size.Random(rng),
		Opacity:       r.Opacity.Random(rng),
		Glyph:         palette.Sample(rng),
		Rotation:      rng.Float64() * 2 * math.Pi,
		RotationSpeed: r.RotationSpeed.Random(rng),
		Pulse:         rng.Float64() * 2 * math.Pi,
		PulseSpeed:    r.PulseSpeed.Random(rng),
		MaxTrail:      r.MinTrail + rng.IntN(r.MaxTrail-r.MinTrail+1),
		Trail:         trail,
	}
}

// updateParticles advances every particle one tick and returns how many were
// recycled.
func updateParticles(ps []Particle, w, h float64, palette Palette, rng *rand.Rand) int {
	respawns := 0
	for i := range ps {
		p := &ps[i]
		p.Pos.Y += p.Speed
		p.Pos.X += math.Sin(p.Pulse) * particleSway
		p.Rotation += p.RotationSpeed
		p.Pulse += p.PulseSpeed

		p.Trail = append(p.Trail, p.Pos)
		if n := len(p.Trail) - p.MaxTrail; n > 0 {
			// Shift in place so the backing array is reused.
			copy(p.Trail, p.Trail[n:])
			p.Trail = p.Trail[:p.MaxTrail]
		}

		if p.Pos.Y > h+particleRespawnMargin {
			resetParticle(p, w, palette, rng)
			respawns++
		}
		if rng.Float64() < particleFlipChance {
			p.Glyph = palette.Sample(rng)
		}
	}
	return respawns
}

// pulseScale returns the breathing multiplier in [0.4, 1.0].
func pulseScale(pulse float64) float64 {
	return math.Sin(pulse)*0.3 + 0.7
}

// drawParticles renders trails (oldest faintest), glows and rotated glyphs.
func drawParticles(c Canvas, ps []Particle, fc FrameContext) {
	col := fc.Theme.Primary
	for i := range ps {
		p := &ps[i]
		n := len(p.Trail)
		for j, pt := range p.Trail {
			a := float64(j+1) / float64(n) * p.Opacity * 0.3
			s := p.Size * 0.5
			c.FillRect(Rect{X: pt.X - s/2, Y: pt.Y - s/2, Width: s, Height: s}, col.WithAlpha(a))
		}
		m := pulseScale(p.Pulse)
		c.Glow(p.Pos.X, p.Pos.Y, p.Size*m*3, col.WithAlpha(p.Opacity*m*0.5))
		c.DrawGlyph(p.Glyph, p.Pos.X, p.Pos.Y, GlyphOptions{
			Size:     p.Size * 8,
			Rotation: p.Rotation,
			Color:    col.WithAlpha(p.Opacity * m),
			Centered: true,
		})
	}
}

// update advances the pool.
func (f *ParticleField) update(fc FrameContext, rng *rand.Rand) {
	f.respawns += updateParticles(f.particles, fc.W(), fc.H(), f.palette, rng)
}

func (f *ParticleField) draw(c Canvas, fc FrameContext, sensor bool, rng *rand.Rand) {
	c.Clear()
	drawParticles(c, f.particles, fc)
	if sensor && rng.Float64() < f.SensorNoise {
		applySensorNoise(c, rng)
	}
}

// applySensorNoise brightens random pixels across the whole surface. It only
// touches pixels, never particle state.
func applySensorNoise(c Canvas, rng *rand.Rand) int {
	w, h := c.Size()
	n := 0
	c.EditPixels(image.Rect(0, 0, w, h), func(buf PixelBuffer) {
		n = ApplyNoise(buf, buf.Bounds(), sensorNoiseDensity, rng, sensorNoise)
	})
	return n
}
