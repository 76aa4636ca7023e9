package digitalrain

import (
	"image"
	"math"
	"math/rand/v2"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

type glyphCall struct {
	g    rune
	x, y float64
	opts GlyphOptions
}

type glowCall struct {
	x, y, radius float64
	c            Color
}

type lineCall struct {
	x0, y0, x1, y1, width float64
	c                     Color
}

type shiftCall struct{ y, h, dx int }

type drawCall struct {
	src   Canvas
	blend BlendMode
	alpha float64
}

// recordCanvas records every call and backs EditPixels with a real buffer.
type recordCanvas struct {
	w, h   int
	clears int
	fades  []float64
	rects  []Rect
	glyphs []glyphCall
	glows  []glowCall
	lines  []lineCall
	edits  []image.Rectangle
	shifts []shiftCall
	draws  []drawCall
	pix    *fakePixels
}

func newRecordCanvas(w, h int) *recordCanvas {
	return &recordCanvas{w: w, h: h, pix: newFakePixels(image.Rect(0, 0, w, h))}
}

func (c *recordCanvas) Size() (w, h int) { return c.w, c.h }

func (c *recordCanvas) Clear() { c.clears++ }

func (c *recordCanvas) Fade(_ Color, a float64) { c.fades = append(c.fades, a) }

func (c *recordCanvas) FillRect(r Rect, _ Color) { c.rects = append(c.rects, r) }

func (c *recordCanvas) Glow(x, y, radius float64, col Color) {
	c.glows = append(c.glows, glowCall{x, y, radius, col})
}

func (c *recordCanvas) StrokeLine(x0, y0, x1, y1, width float64, col Color) {
	c.lines = append(c.lines, lineCall{x0, y0, x1, y1, width, col})
}

func (c *recordCanvas) DrawGlyph(g rune, x, y float64, opts GlyphOptions) {
	c.glyphs = append(c.glyphs, glyphCall{g, x, y, opts})
}

func (c *recordCanvas) EditPixels(region image.Rectangle, fn func(PixelBuffer)) {
	region = region.Intersect(c.pix.rect)
	c.edits = append(c.edits, region)
	if region.Empty() {
		return
	}
	fn(&subPixels{fakePixels: c.pix, rect: region})
}

func (c *recordCanvas) ShiftStrip(y, h, dx int) { c.shifts = append(c.shifts, shiftCall{y, h, dx}) }

func (c *recordCanvas) DrawCanvas(src Canvas, blend BlendMode, alpha float64) {
	c.draws = append(c.draws, drawCall{src, blend, alpha})
}

func (c *recordCanvas) reset() {
	*c = recordCanvas{w: c.w, h: c.h, pix: c.pix}
}

// fakePixels is an in-memory straight-alpha buffer that counts writes.
type fakePixels struct {
	rect   image.Rectangle
	pix    []uint8
	writes int
}

func newFakePixels(r image.Rectangle) *fakePixels {
	return &fakePixels{rect: r, pix: make([]uint8, 4*r.Dx()*r.Dy())}
}

func (p *fakePixels) Bounds() image.Rectangle { return p.rect }

func (p *fakePixels) offset(x, y int) int {
	return 4 * ((y-p.rect.Min.Y)*p.rect.Dx() + (x - p.rect.Min.X))
}

func (p *fakePixels) RGBA(x, y int) (r, g, b, a uint8) {
	i := p.offset(x, y)
	return p.pix[i], p.pix[i+1], p.pix[i+2], p.pix[i+3]
}

func (p *fakePixels) SetRGBA(x, y int, r, g, b, a uint8) {
	i := p.offset(x, y)
	p.pix[i], p.pix[i+1], p.pix[i+2], p.pix[i+3] = r, g, b, a
	p.writes++
}

// subPixels narrows a fakePixels to a region.
type subPixels struct {
	*fakePixels
	rect image.Rectangle
}

func (p *subPixels) Bounds() image.Rectangle { return p.rect }

// fakeHost hands out recordCanvases and tracks releases.
type fakeHost struct {
	w, h     int
	made     []*recordCanvas
	released int
}

func (h *fakeHost) Size() (w, height int) { return h.w, h.h }

func (h *fakeHost) NewCanvas(w, height int) Canvas {
	c := newRecordCanvas(w, height)
	h.made = append(h.made, c)
	return c
}

func (h *fakeHost) ReleaseCanvas(Canvas) { h.released++ }

// testFrame returns a frame context for an 800x600 surface with 16px cells.
func testFrame() FrameContext {
	return FrameContext{
		Width:    800,
		Height:   600,
		CellSize: 16,
		Columns:  50,
		Theme:    DefaultTheme,
	}
}
