package digitalrain

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func assertApprox(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v ± %v", name, got, want, tol)
	}
}

func TestTrailRingBuffer(t *testing.T) {
	in := newInteraction(palettes["binary"])
	rng := testRNG(1)
	fc := testFrame()
	for i := range 25 {
		in.move(float64(i), 0, t0, fc, rng)
	}
	tr := in.Trail()
	if len(tr) != PointerTrailLen {
		t.Fatalf("trail = %d, want %d", len(tr), PointerTrailLen)
	}
	for i, s := range tr {
		if s.Pos.X != float64(i+5) {
			t.Fatalf("trail[%d].X = %v, want %d (oldest first)", i, s.Pos.X, i+5)
		}
	}
}

func TestTrailOpacityFades(t *testing.T) {
	in := newInteraction(palettes["binary"])
	s := PointerSample{Pos: Vec2{10, 10}, At: t0}
	assertApprox(t, "at 0", in.TrailOpacity(s, t0), 0.3, 1e-6)
	assertApprox(t, "at 1s", in.TrailOpacity(s, t0.Add(time.Second)), 0.15, 1e-6)
	if got := in.TrailOpacity(s, t0.Add(2050*time.Millisecond)); got != 0 {
		t.Errorf("at 2050ms = %v, want 0", got)
	}
}

func TestTrailGlowsOnlyWhileVisible(t *testing.T) {
	in := newInteraction(palettes["binary"])
	in.Network, in.Corruption = false, false
	rng := testRNG(2)
	fc := testFrame()
	in.move(100, 100, t0, fc, rng)
	in.streams = nil

	c := newRecordCanvas(800, 600)
	fc.Now = t0.Add(500 * time.Millisecond)
	in.draw(c, fc, rng)
	if len(c.glows) != 1 {
		t.Fatalf("glows = %d at 500ms, want 1", len(c.glows))
	}
	assertNear(t, "radius", c.glows[0].radius, pointerGlowRadius)

	c.reset()
	fc.Now = t0.Add(2050 * time.Millisecond)
	in.draw(c, fc, rng)
	if len(c.glows) != 0 {
		t.Errorf("glows = %d at 2050ms, want 0", len(c.glows))
	}
	if len(c.fades) != 1 || c.fades[0] != interactionFade {
		t.Errorf("fades = %v", c.fades)
	}
}

func TestExplosionSpawn(t *testing.T) {
	in := newInteraction(palettes["binary"])
	in.click(200, 150, t0, testRNG(3))
	if len(in.Explosions()) != 1 || len(in.Rings()) != 1 {
		t.Fatalf("explosions=%d rings=%d", len(in.Explosions()), len(in.Rings()))
	}
	e := in.Explosions()[0]
	if e.MaxAge != ExplosionMaxAge || e.Age != 0 {
		t.Errorf("age %d/%d", e.Age, e.MaxAge)
	}
	for _, p := range e.Particles {
		if p.Pos != (Vec2{200, 150}) {
			t.Errorf("particle starts at %v", p.Pos)
		}
		assertRange(t, "vx", p.Vel.X, -4, 4)
		assertRange(t, "vy", p.Vel.Y, -4, 4)
		assertRange(t, "size", p.Size, 2, 6)
	}
}

func TestExplosionLifetime(t *testing.T) {
	in := newInteraction(palettes["binary"])
	rng := testRNG(4)
	in.click(200, 150, t0, rng)
	for tick := 1; tick < ExplosionMaxAge; tick++ {
		in.update(t0, rng)
		if len(in.Explosions()) != 1 {
			t.Fatalf("explosion gone after %d ticks", tick)
		}
	}
	in.update(t0, rng)
	if len(in.Explosions()) != 0 {
		t.Errorf("explosion alive after %d ticks", ExplosionMaxAge)
	}
}

func TestExplosionMotionDamped(t *testing.T) {
	es := []Explosion{{MaxAge: 60}}
	es[0].Particles[0].Vel = Vec2{4, -2}
	es = updateExplosions(es)
	p := es[0].Particles[0]
	if p.Pos != (Vec2{4, -2}) {
		t.Errorf("pos = %v, want (4,-2)", p.Pos)
	}
	assertNear(t, "vx", p.Vel.X, 4*explosionDamp)
	assertNear(t, "vy", p.Vel.Y, -2*explosionDamp)
	assertNear(t, "opacity", es[0].Opacity(), 1-1.0/60)
}

func TestUpdateExplosionsSwapRemove(t *testing.T) {
	es := []Explosion{
		{Origin: Vec2{1, 0}, Age: 59, MaxAge: 60},
		{Origin: Vec2{2, 0}, MaxAge: 60},
		{Origin: Vec2{3, 0}, Age: 59, MaxAge: 60},
		{Origin: Vec2{4, 0}, MaxAge: 60},
	}
	es = updateExplosions(es)
	if len(es) != 2 {
		t.Fatalf("len = %d, want 2", len(es))
	}
	got := map[float64]bool{es[0].Origin.X: true, es[1].Origin.X: true}
	if !got[2] || !got[4] {
		t.Errorf("survivors = %v, want origins 2 and 4", got)
	}
}

func TestStreamLifecycle(t *testing.T) {
	in := newInteraction(palettes["binary"])
	rng := testRNG(5)
	in.spawnStream(Vec2{0, 0}, Vec2{100, 200})
	maxParticles := 0
	ticks := 0
	for len(in.Streams()) > 0 {
		ticks++
		in.update(t0, rng)
		if len(in.Streams()) == 0 {
			break
		}
		s := in.Streams()[0]
		maxParticles = max(maxParticles, len(s.Particles))
		if h := s.Head(); h.X > 100 || h.Y > 200 {
			t.Fatalf("head overshot: %v", h)
		}
		if ticks > 1000 {
			t.Fatal("stream never finished")
		}
	}
	if ticks != StreamMaxAge {
		t.Errorf("stream lived %d ticks, want %d", ticks, StreamMaxAge)
	}
	if maxParticles > streamParticleAge {
		t.Errorf("stream held %d particles, want at most %d", maxParticles, streamParticleAge)
	}
}

func TestStreamHead(t *testing.T) {
	s := DataStream{From: Vec2{0, 0}, To: Vec2{100, 50}, Progress: 0.5}
	if h := s.Head(); h != (Vec2{50, 25}) {
		t.Errorf("Head() = %v, want (50,25)", h)
	}
	s.Progress = 1.4
	if h := s.Head(); h != (Vec2{100, 50}) {
		t.Errorf("Head() past end = %v, want target", h)
	}
}

func TestStreamSpawnRate(t *testing.T) {
	in := newInteraction(palettes["binary"])
	rng := testRNG(6)
	fc := testFrame()
	for range 10000 {
		in.move(10, 10, t0, fc, rng)
	}
	if n := in.spawned.streams; n < 850 || n > 1150 {
		t.Errorf("spawned %d streams in 10000 moves, want about 1000", n)
	}
	for _, s := range in.Streams() {
		if s.To != (Vec2{10, 10}) {
			t.Fatalf("stream targets %v, want the pointer", s.To)
		}
		assertRange(t, "from x", s.From.X, 0, 800)
		assertRange(t, "from y", s.From.Y, 0, 600)
	}
}

func TestClickRingsExpire(t *testing.T) {
	in := newInteraction(palettes["binary"])
	rng := testRNG(7)
	in.click(10, 10, t0, rng)
	in.update(t0.Add(999*time.Millisecond), rng)
	if len(in.Rings()) != 1 {
		t.Fatal("ring expired early")
	}
	in.update(t0.Add(time.Second), rng)
	if len(in.Rings()) != 0 {
		t.Error("ring alive after 1s")
	}
}

func TestDrawRing(t *testing.T) {
	c := newRecordCanvas(800, 600)
	drawRing(c, Vec2{100, 100}, 30, DefaultTheme.Accent)
	if len(c.lines) != 24 {
		t.Fatalf("segments = %d, want 24", len(c.lines))
	}
	last := c.lines[23]
	assertApprox(t, "closes x", last.x1, 130, 1e-9)
	assertApprox(t, "closes y", last.y1, 100, 1e-9)

	c.reset()
	drawRing(c, Vec2{100, 100}, 0, DefaultTheme.Accent)
	drawRing(c, Vec2{100, 100}, 30, DefaultTheme.Accent.WithAlpha(0))
	if len(c.lines) != 0 {
		t.Error("drew an invisible ring")
	}
}

func TestNetworkFlash(t *testing.T) {
	c := newRecordCanvas(800, 600)
	drawNetworkFlash(c, testFrame(), testRNG(8))
	if len(c.glows) != networkNodes {
		t.Errorf("nodes = %d, want %d", len(c.glows), networkNodes)
	}
	if len(c.lines) < networkNodes || len(c.lines) > 3*networkNodes {
		t.Errorf("links = %d", len(c.lines))
	}
}

func TestCorruptPatches(t *testing.T) {
	c := newRecordCanvas(800, 600)
	n := corruptPatches(c, testFrame(), testRNG(9))
	if n < 1 || n > 5 || len(c.edits) != n {
		t.Fatalf("patches = %d edits = %d", n, len(c.edits))
	}
	if c.pix.writes == 0 {
		t.Error("corruption painted nothing")
	}
	for _, r := range c.edits {
		if r.Dx() > 120 || r.Dy() > 25 {
			t.Errorf("patch %v too large", r)
		}
	}
}
