package digitalrain

import (
	"math"
	"testing"
)

func TestNewParticleField(t *testing.T) {
	f := newParticleField(100, palettes["matrix"])
	if f.Len() != 100 {
		t.Errorf("Len() = %d, want 100", f.Len())
	}
	if newParticleField(-4, palettes["matrix"]).Len() != 0 {
		t.Error("negative count should give an empty pool")
	}
}

func TestParticleSeedRanges(t *testing.T) {
	rng := testRNG(1)
	f := newParticleField(200, palettes["matrix"])
	f.seed(800, 600, rng)
	r := ParticleRanges
	for i, p := range f.Particles() {
		assertRange(t, "x", p.Pos.X, 0, 800)
		assertRange(t, "y", p.Pos.Y, 0, 600)
		assertRange(t, "speed", p.Speed, r.Speed.Min, r.Speed.Max)
		assertRange(t, "size", p.Size, r.Size.Min, r.Size.Max)
		assertRange(t, "opacity", p.Opacity, r.Opacity.Min, r.Opacity.Max)
		assertRange(t, "rotation speed", p.RotationSpeed, r.RotationSpeed.Min, r.RotationSpeed.Max)
		assertRange(t, "pulse speed", p.PulseSpeed, r.PulseSpeed.Min, r.PulseSpeed.Max)
		if p.MaxTrail < r.MinTrail || p.MaxTrail > r.MaxTrail {
			t.Errorf("particle %d: maxTrail = %d", i, p.MaxTrail)
		}
		if len(p.Trail) != 0 {
			t.Errorf("particle %d: trail not empty after seed", i)
		}
	}
}

func TestParticleTrailBounded(t *testing.T) {
	rng := testRNG(2)
	f := newParticleField(50, palettes["binary"])
	f.seed(800, 600, rng)
	fc := testFrame()
	for tick := 0; tick < 500; tick++ {
		f.update(fc, rng)
		for i, p := range f.Particles() {
			if len(p.Trail) > p.MaxTrail {
				t.Fatalf("tick %d particle %d: trail %d > max %d", tick, i, len(p.Trail), p.MaxTrail)
			}
			if p.Pos.Y > fc.H()+particleRespawnMargin {
				t.Fatalf("tick %d particle %d: y = %v not recycled", tick, i, p.Pos.Y)
			}
		}
	}
	if f.Len() != 50 {
		t.Errorf("pool size changed to %d", f.Len())
	}
	if f.respawns == 0 {
		t.Error("no particle respawned in 500 ticks")
	}
}

func TestParticleTrailOrder(t *testing.T) {
	rng := testRNG(3)
	ps := []Particle{{Pos: Vec2{100, 0}, Speed: 2, MaxTrail: 3}}
	for range 5 {
		updateParticles(ps, 800, 600, palettes["binary"], rng)
	}
	tr := ps[0].Trail
	if len(tr) != 3 {
		t.Fatalf("trail = %d, want 3", len(tr))
	}
	// Oldest first, and the newest entry is the current position.
	assertNear(t, "oldest y", tr[0].Y, 6)
	assertNear(t, "newest y", tr[2].Y, 10)
	if tr[2] != ps[0].Pos {
		t.Error("newest trail point is not the current position")
	}
}

func TestParticleRespawn(t *testing.T) {
	rng := testRNG(4)
	ps := []Particle{{Pos: Vec2{100, 649}, Speed: 2, MaxTrail: 5, Trail: make([]Vec2, 0, 16)}}
	n := updateParticles(ps, 800, 600, palettes["binary"], rng)
	if n != 1 {
		t.Fatalf("respawns = %d, want 1", n)
	}
	p := ps[0]
	assertNear(t, "y", p.Pos.Y, particleSpawnY)
	if len(p.Trail) != 0 {
		t.Errorf("trail len = %d after respawn, want 0", len(p.Trail))
	}
	if cap(p.Trail) != 16 {
		t.Errorf("trail backing array not reused: cap %d", cap(p.Trail))
	}
}

func TestParticleNoRespawnAtMargin(t *testing.T) {
	rng := testRNG(5)
	ps := []Particle{{Pos: Vec2{100, 648}, Speed: 2, MaxTrail: 5}}
	if n := updateParticles(ps, 800, 600, palettes["binary"], rng); n != 0 {
		t.Errorf("respawns = %d at exactly h+50", n)
	}
}

func TestPulseScale(t *testing.T) {
	assertNear(t, "zero", pulseScale(0), 0.7)
	assertNear(t, "peak", pulseScale(math.Pi/2), 1.0)
	assertNear(t, "trough", pulseScale(-math.Pi/2), 0.4)
}

func TestDrawParticles(t *testing.T) {
	c := newRecordCanvas(800, 600)
	ps := []Particle{{
		Pos:      Vec2{50, 60},
		Size:     2,
		Opacity:  0.5,
		Glyph:    'Q',
		Rotation: 1.25,
		Trail:    []Vec2{{50, 56}, {50, 58}, {50, 60}},
	}}
	drawParticles(c, ps, testFrame())

	if len(c.rects) != 3 {
		t.Fatalf("trail rects = %d, want 3", len(c.rects))
	}
	if len(c.glows) != 1 || len(c.glyphs) != 1 {
		t.Fatalf("glows=%d glyphs=%d, want 1 each", len(c.glows), len(c.glyphs))
	}
	g := c.glyphs[0]
	if g.g != 'Q' || !g.opts.Centered || g.opts.Rotation != 1.25 {
		t.Errorf("glyph = %+v", g)
	}
	assertNear(t, "glyph size", g.opts.Size, 16)
	assertNear(t, "glyph alpha", g.opts.Color.A, 0.5*0.7)
	assertNear(t, "glow radius", c.glows[0].radius, 2*0.7*3)
}

func TestParticleDrawClearsFirst(t *testing.T) {
	rng := testRNG(6)
	f := newParticleField(3, palettes["binary"])
	f.seed(800, 600, rng)
	c := newRecordCanvas(800, 600)
	f.draw(c, testFrame(), false, rng)
	if c.clears != 1 {
		t.Errorf("clears = %d, want 1", c.clears)
	}
	if len(c.edits) != 0 {
		t.Error("sensor noise ran while disabled")
	}
}

func TestSensorNoiseLeavesParticles(t *testing.T) {
	rng := testRNG(7)
	f := newParticleField(10, palettes["binary"])
	f.seed(800, 600, rng)
	f.SensorNoise = 1
	before := make([]Vec2, f.Len())
	for i, p := range f.Particles() {
		before[i] = p.Pos
	}
	c := newRecordCanvas(800, 600)
	f.draw(c, testFrame(), true, rng)
	if len(c.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(c.edits))
	}
	// 800*600*0.001 pixels.
	if c.pix.writes < 480 || c.pix.writes > 481 {
		t.Errorf("writes = %d, want 480", c.pix.writes)
	}
	for i, p := range f.Particles() {
		if p.Pos != before[i] {
			t.Fatalf("particle %d moved during sensor noise", i)
		}
	}
}
