package digitalrain

// LayerSpec is the compositing behaviour of one layer.
type LayerSpec struct {
	Blend   BlendMode
	Opacity float64
	Enabled bool
}

// DefaultLayers lists the blend and opacity of every layer in z-order.
var DefaultLayers = [layerCount]LayerSpec{
	LayerGrid:        {Blend: BlendNormal, Opacity: 1, Enabled: true},
	LayerRainBack:    {Blend: BlendScreen, Opacity: 0.8, Enabled: true},
	LayerRainMid:     {Blend: BlendScreen, Opacity: 0.8, Enabled: true},
	LayerRainFront:   {Blend: BlendScreen, Opacity: 0.8, Enabled: true},
	LayerParticles:   {Blend: BlendScreen, Opacity: 1, Enabled: true},
	LayerWaves:       {Blend: BlendScreen, Opacity: 1, Enabled: true},
	LayerInteraction: {Blend: BlendScreen, Opacity: 1, Enabled: true},
	LayerGlitch:      {Blend: BlendAdd, Opacity: 0.6, Enabled: true},
}

type compLayer struct {
	spec   LayerSpec
	canvas Canvas
}

// Compositor owns one surface per layer and blends them in a fixed order.
type Compositor struct {
	host   Host
	layers [layerCount]compLayer
	w, h   int
}

func newCompositor(host Host) *Compositor {
	c := &Compositor{host: host}
	for i := range c.layers {
		c.layers[i].spec = DefaultLayers[i]
	}
	return c
}

// Size returns the surface size shared by every layer.
func (c *Compositor) Size() (w, h int) { return c.w, c.h }

// Spec returns the compositing settings of a layer.
func (c *Compositor) Spec(id LayerID) LayerSpec {
	if id >= layerCount {
		return LayerSpec{}
	}
	return c.layers[id].spec
}

// SetEnabled shows or hides a layer. Hidden layers are neither drawn into
// nor composited.
func (c *Compositor) SetEnabled(id LayerID, on bool) {
	if id < layerCount {
		c.layers[id].spec.Enabled = on
	}
}

// Surface returns the canvas of a layer, or nil when the layer is disabled
// or no surface has been allocated yet.
func (c *Compositor) Surface(id LayerID) Canvas {
	if id >= layerCount || !c.layers[id].spec.Enabled {
		return nil
	}
	return c.layers[id].canvas
}

// resize reallocates every surface. Old surfaces go back to the host pool
// when the host keeps one.
func (c *Compositor) resize(w, h int) {
	if w == c.w && h == c.h && c.layers[0].canvas != nil {
		return
	}
	rel, _ := c.host.(surfaceReleaser)
	for i := range c.layers {
		l := &c.layers[i]
		if l.canvas != nil && rel != nil {
			rel.ReleaseCanvas(l.canvas)
		}
		l.canvas = c.host.NewCanvas(w, h)
		l.canvas.Clear()
	}
	c.w, c.h = w, h
}

// release hands every surface back to the host.
func (c *Compositor) release() {
	rel, _ := c.host.(surfaceReleaser)
	for i := range c.layers {
		if c.layers[i].canvas != nil && rel != nil {
			rel.ReleaseCanvas(c.layers[i].canvas)
		}
		c.layers[i].canvas = nil
	}
	c.w, c.h = 0, 0
}

// Composite fills dst with bg and draws every enabled layer over it.
func (c *Compositor) Composite(dst Canvas, bg Color) {
	if dst == nil {
		return
	}
	dst.Clear()
	w, h := dst.Size()
	dst.FillRect(Rect{Width: float64(w), Height: float64(h)}, bg)
	for i := range c.layers {
		l := &c.layers[i]
		if !l.spec.Enabled || l.canvas == nil || l.spec.Opacity <= 0 {
			continue
		}
		dst.DrawCanvas(l.canvas, l.spec.Blend, l.spec.Opacity)
	}
}

// drawStaticGrid draws the faint background lattice: a vertical line every
// second column and a horizontal line every third row.
func drawStaticGrid(c Canvas, fc FrameContext) {
	c.Clear()
	if fc.CellSize <= 0 {
		return
	}
	w, h := fc.W(), fc.H()
	cell := float64(fc.CellSize)
	for x := 0.0; x < w; x += cell * 2 {
		c.StrokeLine(x, 0, x, h, 1, fc.Theme.Grid)
	}
	for y := 0.0; y < h; y += cell * 3 {
		c.StrokeLine(0, y, w, y, 1, fc.Theme.Grid)
	}
}
