package digitalrain

import (
	"testing"
)

func TestDefaultLayers(t *testing.T) {
	want := map[LayerID]LayerSpec{
		LayerGrid:        {BlendNormal, 1, true},
		LayerRainBack:    {BlendScreen, 0.8, true},
		LayerRainFront:   {BlendScreen, 0.8, true},
		LayerParticles:   {BlendScreen, 1, true},
		LayerInteraction: {BlendScreen, 1, true},
		LayerGlitch:      {BlendAdd, 0.6, true},
	}
	for id, spec := range want {
		if DefaultLayers[id] != spec {
			t.Errorf("%s = %+v, want %+v", id, DefaultLayers[id], spec)
		}
	}
}

func TestLayerNames(t *testing.T) {
	if LayerRainMid.String() != "rain_mid" || LayerGlitch.String() != "glitch" {
		t.Error("layer names wrong")
	}
	if LayerID(99).String() != "unknown" {
		t.Error("out of range layer should be unknown")
	}
}

func TestCompositorResize(t *testing.T) {
	host := &fakeHost{w: 800, h: 600}
	comp := newCompositor(host)
	if comp.Surface(LayerGrid) != nil {
		t.Error("surface before resize")
	}
	comp.resize(800, 600)
	if len(host.made) != int(layerCount) {
		t.Fatalf("made %d surfaces, want %d", len(host.made), layerCount)
	}
	for _, c := range host.made {
		if c.clears != 1 {
			t.Error("new surface not cleared")
		}
	}

	comp.resize(800, 600)
	if len(host.made) != int(layerCount) {
		t.Error("same-size resize reallocated")
	}

	comp.resize(400, 300)
	if host.released != int(layerCount) {
		t.Errorf("released = %d, want %d", host.released, layerCount)
	}
	if w, h := comp.Size(); w != 400 || h != 300 {
		t.Errorf("Size() = %d,%d", w, h)
	}
	if w, _ := comp.Surface(LayerWaves).Size(); w != 400 {
		t.Errorf("surface width = %d, want 400", w)
	}

	comp.release()
	if host.released != 2*int(layerCount) || comp.Surface(LayerGrid) != nil {
		t.Error("release did not return every surface")
	}
}

func TestCompositeOrder(t *testing.T) {
	host := &fakeHost{w: 800, h: 600}
	comp := newCompositor(host)
	comp.resize(800, 600)
	dst := newRecordCanvas(800, 600)
	bg := Color{0.1, 0.2, 0.3, 1}
	comp.Composite(dst, bg)

	if dst.clears != 1 || len(dst.rects) != 1 {
		t.Fatalf("clears=%d rects=%d, want background fill", dst.clears, len(dst.rects))
	}
	if r := dst.rects[0]; r.Width != 800 || r.Height != 600 {
		t.Errorf("background rect = %+v", r)
	}
	if len(dst.draws) != int(layerCount) {
		t.Fatalf("draws = %d, want %d", len(dst.draws), layerCount)
	}
	for i, d := range dst.draws {
		if d.src != host.made[i] {
			t.Errorf("draw %d is not layer %s", i, LayerID(i))
		}
		spec := DefaultLayers[i]
		if d.blend != spec.Blend || d.alpha != spec.Opacity {
			t.Errorf("draw %d = %v/%v, want %v/%v", i, d.blend, d.alpha, spec.Blend, spec.Opacity)
		}
	}
}

func TestCompositeSkipsDisabled(t *testing.T) {
	host := &fakeHost{w: 100, h: 100}
	comp := newCompositor(host)
	comp.resize(100, 100)
	comp.SetEnabled(LayerParticles, false)
	comp.SetEnabled(LayerID(200), false)
	if comp.Surface(LayerParticles) != nil {
		t.Error("disabled layer exposes a surface")
	}
	if comp.Spec(LayerParticles).Enabled {
		t.Error("layer still enabled")
	}
	if comp.Spec(LayerID(200)) != (LayerSpec{}) {
		t.Error("unknown layer should have a zero spec")
	}
	dst := newRecordCanvas(100, 100)
	comp.Composite(dst, ColorBlack)
	if len(dst.draws) != int(layerCount)-1 {
		t.Errorf("draws = %d, want %d", len(dst.draws), layerCount-1)
	}
	for _, d := range dst.draws {
		if d.src == host.made[LayerParticles] {
			t.Error("disabled layer composited")
		}
	}
	comp.Composite(nil, ColorBlack)
}

func TestStaticGrid(t *testing.T) {
	c := newRecordCanvas(800, 600)
	drawStaticGrid(c, testFrame())
	if c.clears != 1 {
		t.Error("grid not cleared first")
	}
	// Every 32px across 800 and every 48px down 600.
	if len(c.lines) != 25+13 {
		t.Errorf("lines = %d, want 38", len(c.lines))
	}
	if c.lines[0].c != DefaultTheme.Grid {
		t.Errorf("grid colour = %+v", c.lines[0].c)
	}
}
