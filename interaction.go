package digitalrain

import (
	"image"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

const (
	// PointerTrailLen is the number of pointer samples kept.
	PointerTrailLen  = 20
	// PointerTrailFade is how long a pointer sample stays visible.
	PointerTrailFade = 2 * time.Second

	pointerGlowRadius = 20
	pointerGlowAlpha  = 0.3

	// ExplosionParticles is the burst size of a click explosion.
	ExplosionParticles = 15
	// ExplosionMaxAge is the explosion lifetime in ticks.
	ExplosionMaxAge    = 60
	explosionSpread    = 8
	explosionDamp      = 0.98

	streamSpawnChance = 0.1
	streamStep        = 0.02
	// StreamMaxAge is the data-stream lifetime in ticks.
	StreamMaxAge      = 120
	streamParticleAge = 30

	clickRingDuration = time.Second
	clickRingRadius   = 60

	networkChance = 0.02
	networkNodes  = 8

	corruptionChance  = 0.005
	corruptionDensity = 0.1
)

var (
	burstSize       = Range{2, 6}
	corruptionW     = Range{20, 120}
	corruptionH     = Range{5, 25}
	interactionFade = 0.1
)

// PointerSample is one recorded pointer position.
type PointerSample struct {
	Pos Vec2
	At  time.Time
}

// BurstParticle is one fragment of an explosion.
type BurstParticle struct {
	Pos, Vel Vec2
	Size     float64
	Glyph    rune
}

// Explosion is a burst of glyph fragments spawned by a click.
type Explosion struct {
	Origin    Vec2
	Particles [ExplosionParticles]BurstParticle
	Age       int
	MaxAge    int
}

// Opacity returns the linear lifetime fade.
func (e *Explosion) Opacity() float64 {
	return clamp01(1 - float64(e.Age)/float64(e.MaxAge))
}

// StreamParticle is a trail fragment left behind by a data stream.
type StreamParticle struct {
	Pos    Vec2
	Glyph  rune
	Age    int
	MaxAge int
}

// DataStream travels from From to To leaving a fading glyph trail.
type DataStream struct {
	From, To  Vec2
	Progress  float64
	Particles []StreamParticle
	Age       int
	MaxAge    int
}

// Head returns the current leading position.
func (s *DataStream) Head() Vec2 {
	t := math.Min(s.Progress, 1)
	return Vec2{lerp(s.From.X, s.To.X, t), lerp(s.From.Y, s.To.Y, t)}
}

// Done reports whether the stream can be removed.
func (s *DataStream) Done() bool {
	return s.Age >= s.MaxAge && len(s.Particles) == 0
}

// ClickRing is an expanding ring drawn after a click.
type ClickRing struct {
	Origin Vec2
	At     time.Time
}

// Interaction turns pointer events into trail samples and transient effects.
type Interaction struct {
	trail      [PointerTrailLen]PointerSample
	trailStart int
	trailLen   int

	explosions []Explosion
	streams    []DataStream
	rings      []ClickRing

	trailFade  *Fade
	ringRadius *Fade
	ringAlpha  *Fade

	palette Palette
	// Network and Corruption enable the ambient flashes.
	Network    bool
	Corruption bool

	spawned struct{ explosions, streams int }
}

func newInteraction(palette Palette) *Interaction {
	return &Interaction{
		palette:    palette,
		trailFade:  NewFade(1, 0, PointerTrailFade, ease.Linear),
		ringRadius: NewFade(0, clickRingRadius, clickRingDuration, ease.OutQuad),
		ringAlpha:  NewFade(0.8, 0, clickRingDuration, ease.Linear),
		Network:    true,
		Corruption: true,
	}
}

// Trail returns the recorded samples, oldest first.
func (in *Interaction) Trail() []PointerSample {
	out := make([]PointerSample, in.trailLen)
	for i := range out {
		out[i] = in.trail[(in.trailStart+i)%PointerTrailLen]
	}
	return out
}

// Explosions returns the active explosions. The returned slice MUST NOT be mutated.
func (in *Interaction) Explosions() []Explosion { return in.explosions }

// Streams returns the active data streams. The returned slice MUST NOT be mutated.
func (in *Interaction) Streams() []DataStream { return in.streams }

// Rings returns the active click rings.
func (in *Interaction) Rings() []ClickRing { return in.rings }

// TrailOpacity returns the rendered glow opacity of s at now. It is zero once
// PointerTrailFade has elapsed.
func (in *Interaction) TrailOpacity(s PointerSample, now time.Time) float64 {
	v, _ := in.trailFade.Since(s.At, now)
	return pointerGlowAlpha * math.Max(0, v)
}

// move records a pointer sample and may spawn a data stream toward it.
func (in *Interaction) move(x, y float64, now time.Time, fc FrameContext, rng *rand.Rand) {
	i := (in.trailStart + in.trailLen) % PointerTrailLen
	in.trail[i] = PointerSample{Pos: Vec2{x, y}, At: now}
	if in.trailLen < PointerTrailLen {
		in.trailLen++
	} else {
		in.trailStart = (in.trailStart + 1) % PointerTrailLen
	}
	if rng.Float64() < streamSpawnChance {
		from := Vec2{rng.Float64() * fc.W(), rng.Float64() * fc.H()}
		in.spawnStream(from, Vec2{x, y})
	}
}

// click spawns an explosion and a click ring at (x, y).
func (in *Interaction) click(x, y float64, now time.Time, rng *rand.Rand) {
	in.spawnExplosion(Vec2{x, y}, rng)
	in.rings = append(in.rings, ClickRing{Origin: Vec2{x, y}, At: now})
}

func (in *Interaction) spawnExplosion(at Vec2, rng *rand.Rand) {
	e := Explosion{Origin: at, MaxAge: ExplosionMaxAge}
	for i := range e.Particles {
		e.Particles[i] = BurstParticle{
			Pos: at,
			Vel: Vec2{
				X: (rng.Float64() - 0.5) * explosionSpread,
				Y: (rng.Float64() - 0.5) * explosionSpread,
			},
			Size:  burstSize.Random(rng),
			Glyph: in.palette.Sample(rng),
		}
	}
	in.explosions = append(in.explosions, e)
	in.spawned.explosions++
}

func (in *Interaction) spawnStream(from, to Vec2) {
	in.streams = append(in.streams, DataStream{From: from, To: to, MaxAge: StreamMaxAge})
	in.spawned.streams++
}

// updateExplosions ages every explosion and swap-removes expired ones.
func updateExplosions(es []Explosion) []Explosion {
	n := len(es)
	i := 0
	for i < n {
		e := &es[i]
		e.Age++
		if e.Age >= e.MaxAge {
			n--
			es[i] = es[n]
			continue
		}
		for j := range e.Particles {
			p := &e.Particles[j]
			p.Pos.X += p.Vel.X
			p.Pos.Y += p.Vel.Y
			p.Vel.X *= explosionDamp
			p.Vel.Y *= explosionDamp
		}
		i++
	}
	return es[:n]
}

// updateStreams advances every stream and swap-removes finished ones.
func updateStreams(ss []DataStream, palette Palette, rng *rand.Rand) []DataStream {
	n := len(ss)
	i := 0
	for i < n {
		s := &ss[i]
		s.Age++
		s.Progress += streamStep
		if s.Progress <= 1 {
			s.Particles = append(s.Particles, StreamParticle{
				Pos:    s.Head(),
				Glyph:  palette.Sample(rng),
				MaxAge: streamParticleAge,
			})
		}
		live := s.Particles[:0]
		for _, p := range s.Particles {
			p.Age++
			if p.Age < p.MaxAge {
				live = append(live, p)
			}
		}
		s.Particles = live
		if s.Done() {
			n--
			ss[i] = ss[n]
			continue
		}
		i++
	}
	return ss[:n]
}

// update ages the transient effects.
func (in *Interaction) update(now time.Time, rng *rand.Rand) {
	in.explosions = updateExplosions(in.explosions)
	in.streams = updateStreams(in.streams, in.palette, rng)
	live := in.rings[:0]
	for _, r := range in.rings {
		if now.Sub(r.At) < clickRingDuration {
			live = append(live, r)
		}
	}
	in.rings = live
}

func (in *Interaction) draw(c Canvas, fc FrameContext, rng *rand.Rand) {
	c.Fade(ColorBlack, interactionFade)
	accent := fc.Theme.Accent

	for i := 0; i < in.trailLen; i++ {
		s := in.trail[(in.trailStart+i)%PointerTrailLen]
		if a := in.TrailOpacity(s, fc.Now); a > 0 {
			c.Glow(s.Pos.X, s.Pos.Y, pointerGlowRadius, fc.Theme.Primary.WithAlpha(a))
		}
	}

	for _, r := range in.rings {
		radius, _ := in.ringRadius.Since(r.At, fc.Now)
		alpha, _ := in.ringAlpha.Since(r.At, fc.Now)
		drawRing(c, r.Origin, radius, accent.WithAlpha(alpha))
	}

	for i := range in.explosions {
		e := &in.explosions[i]
		op := e.Opacity()
		for _, p := range e.Particles {
			c.DrawGlyph(p.Glyph, p.Pos.X, p.Pos.Y, GlyphOptions{
				Size:     p.Size * 4,
				Color:    accent.WithAlpha(op),
				Centered: true,
			})
		}
	}

	for i := range in.streams {
		s := &in.streams[i]
		for _, p := range s.Particles {
			a := 1 - float64(p.Age)/float64(p.MaxAge)
			c.DrawGlyph(p.Glyph, p.Pos.X, p.Pos.Y, GlyphOptions{
				Size:     float64(fc.CellSize) * 0.75,
				Color:    accent.WithAlpha(a * 0.8),
				Centered: true,
			})
		}
		if s.Progress <= 1 {
			h := s.Head()
			c.Glow(h.X, h.Y, 8, accent.WithAlpha(0.6))
		}
	}

	if in.Network && rng.Float64() < networkChance {
		drawNetworkFlash(c, fc, rng)
	}
	if in.Corruption && rng.Float64() < corruptionChance {
		corruptPatches(c, fc, rng)
	}
}

// drawRing approximates a circle outline with line segments.
func drawRing(c Canvas, o Vec2, radius float64, col Color) {
	if radius <= 0 || col.A <= 0 {
		return
	}
	const segs = 24
	px, py := o.X+radius, o.Y
	for i := 1; i <= segs; i++ {
		a := float64(i) / segs * 2 * math.Pi
		x, y := o.X+math.Cos(a)*radius, o.Y+math.Sin(a)*radius
		c.StrokeLine(px, py, x, y, 1, col)
		px, py = x, y
	}
}

// drawNetworkFlash draws a one-tick graph of random nodes and links.
func drawNetworkFlash(c Canvas, fc FrameContext, rng *rand.Rand) {
	var nodes [networkNodes]Vec2
	for i := range nodes {
		nodes[i] = Vec2{rng.Float64() * fc.W(), rng.Float64() * fc.H()}
	}
	col := fc.Theme.Accent.WithAlpha(0.3)
	for i, n := range nodes {
		links := 1 + rng.IntN(3)
		for k := 0; k < links; k++ {
			m := nodes[rng.IntN(len(nodes))]
			c.StrokeLine(n.X, n.Y, m.X, m.Y, 1, col)
		}
		c.Glow(nodes[i].X, nodes[i].Y, 4, fc.Theme.Accent.WithAlpha(0.6))
	}
}

// corruptPatches fills 1-5 random rectangles with dense static.
func corruptPatches(c Canvas, fc FrameContext, rng *rand.Rand) int {
	n := 1 + rng.IntN(5)
	for i := 0; i < n; i++ {
		x := int(rng.Float64() * fc.W())
		y := int(rng.Float64() * fc.H())
		r := image.Rect(x, y, x+int(corruptionW.Random(rng)), y+int(corruptionH.Random(rng)))
		c.EditPixels(r, func(buf PixelBuffer) {
			ApplyNoise(buf, r, corruptionDensity, rng, glitchNoise(255))
		})
	}
	return n
}
