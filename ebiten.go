package digitalrain

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EbitenHost allocates image canvases for an engine running inside an
// Ebitengine game. All canvases share one font, one glow cache and one
// texture pool.
type EbitenHost struct {
	w, h int
	font *Font
	glow glowCache
	pool renderTexturePool
}

// NewEbitenHost returns a host of the given initial size. A nil font falls
// back to the bundled Go Mono face.
func NewEbitenHost(w, h int, font *Font) (*EbitenHost, error) {
	if font == nil {
		var err error
		if font, err = LoadFontFile(""); err != nil {
			return nil, err
		}
	}
	return &EbitenHost{w: w, h: h, font: font}, nil
}

// Size returns the host surface size.
func (h *EbitenHost) Size() (w, hh int) { return h.w, h.h }

// SetSize records a new surface size. Call Engine.Resize afterwards.
func (h *EbitenHost) SetSize(w, hh int) { h.w, h.h = w, hh }

// NewCanvas acquires a pooled offscreen canvas.
func (h *EbitenHost) NewCanvas(w, hh int) Canvas {
	backing := h.pool.Acquire(w, hh)
	return &ImageCanvas{
		host:    h,
		backing: backing,
		img:     backing.SubImage(image.Rect(0, 0, w, hh)).(*ebiten.Image),
		w:       w,
		h:       hh,
	}
}

// ReleaseCanvas returns a canvas's backing image to the pool.
func (h *EbitenHost) ReleaseCanvas(c Canvas) {
	ic, ok := c.(*ImageCanvas)
	if !ok || ic.backing == nil {
		return
	}
	h.pool.Release(ic.backing)
	ic.backing, ic.img = nil, nil
}

// Dispose frees pooled images and cached glows.
func (h *EbitenHost) Dispose() {
	h.pool.Purge()
	h.glow.dispose()
}

// Canvas wraps an arbitrary image, typically the screen passed to Draw.
func (h *EbitenHost) Canvas(img *ebiten.Image) *ImageCanvas {
	b := img.Bounds()
	return &ImageCanvas{host: h, img: img, w: b.Dx(), h: b.Dy()}
}

// ImageCanvas is a Canvas backed by an ebiten.Image.
type ImageCanvas struct {
	host    *EbitenHost
	backing *ebiten.Image // pooled power-of-two image, nil for wrapped images
	img     *ebiten.Image
	w, h    int
	pix     []byte
}

// Image returns the drawable image.
func (c *ImageCanvas) Image() *ebiten.Image { return c.img }

// SetImage retargets the canvas, e.g. to a new screen image each frame.
func (c *ImageCanvas) SetImage(img *ebiten.Image) {
	c.img = img
	b := img.Bounds()
	c.w, c.h = b.Dx(), b.Dy()
}

func (c *ImageCanvas) Size() (w, h int) { return c.w, c.h }

func (c *ImageCanvas) Clear() { c.img.Clear() }

func (c *ImageCanvas) Fade(col Color, a float64) {
	c.FillRect(Rect{Width: float64(c.w), Height: float64(c.h)}, col.WithAlpha(a))
}

func (c *ImageCanvas) FillRect(r Rect, col Color) {
	if col.A <= 0 || r.Width <= 0 || r.Height <= 0 {
		return
	}
	b := c.img.Bounds()
	vector.DrawFilledRect(c.img,
		float32(float64(b.Min.X)+r.X), float32(float64(b.Min.Y)+r.Y),
		float32(r.Width), float32(r.Height),
		col.toRGBA(), false)
}

func (c *ImageCanvas) Glow(x, y, radius float64, col Color) {
	b := c.img.Bounds()
	c.host.glow.draw(c.img, float64(b.Min.X)+x, float64(b.Min.Y)+y, radius, col)
}

func (c *ImageCanvas) StrokeLine(x0, y0, x1, y1, width float64, col Color) {
	if col.A <= 0 {
		return
	}
	b := c.img.Bounds()
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	vector.StrokeLine(c.img,
		float32(ox+x0), float32(oy+y0), float32(ox+x1), float32(oy+y1),
		float32(width), col.toRGBA(), true)
}

func (c *ImageCanvas) DrawGlyph(g rune, x, y float64, opts GlyphOptions) {
	if opts.Size <= 0 {
		opts.Size = 16
	}
	b := c.img.Bounds()
	x += float64(b.Min.X)
	y += float64(b.Min.Y)
	if opts.Glow {
		cx, cy := x, y
		if !opts.Centered {
			cx, cy = x+opts.Size/2, y+opts.Size/2
		}
		c.host.glow.draw(c.img, cx, cy, opts.Size, opts.GlowColor)
	}
	c.host.font.drawGlyph(c.img, g, x, y, opts, BlendNormal)
}

// EditPixels reads the region back from the GPU, hands a straight-alpha
// view to fn and writes the result. Only valid while the game loop runs.
func (c *ImageCanvas) EditPixels(region image.Rectangle, fn func(PixelBuffer)) {
	b := c.img.Bounds()
	region = region.Add(b.Min).Intersect(b)
	if region.Empty() {
		return
	}
	sub := c.img.SubImage(region).(*ebiten.Image)
	n := 4 * region.Dx() * region.Dy()
	if cap(c.pix) < n {
		c.pix = make([]byte, n)
	}
	pix := c.pix[:n]
	sub.ReadPixels(pix)
	unpremultiply(pix)
	fn(&pixelBuffer{pix: pix, rect: region.Sub(b.Min)})
	premultiply(pix)
	sub.WritePixels(pix)
}

// ShiftStrip copies the strip through a pooled scratch image, since an
// image cannot be drawn onto itself.
func (c *ImageCanvas) ShiftStrip(y, h, dx int) {
	b := c.img.Bounds()
	strip := image.Rect(b.Min.X, b.Min.Y+y, b.Max.X, b.Min.Y+y+h).Intersect(b)
	if strip.Empty() || dx == 0 {
		return
	}
	tmp := c.host.pool.Acquire(strip.Dx(), strip.Dy())
	defer c.host.pool.Release(tmp)

	// Source sub-images draw from their own top-left; destinations keep the
	// parent's coordinates.
	var op ebiten.DrawImageOptions
	op.Blend = ebiten.BlendCopy
	tmp.DrawImage(c.img.SubImage(strip).(*ebiten.Image), &op)

	var back ebiten.DrawImageOptions
	back.GeoM.Translate(float64(strip.Min.X+dx), float64(strip.Min.Y))
	back.Blend = ebiten.BlendCopy
	dst := c.img.SubImage(strip).(*ebiten.Image)
	dst.DrawImage(tmp.SubImage(image.Rect(0, 0, strip.Dx(), strip.Dy())).(*ebiten.Image), &back)
}

func (c *ImageCanvas) DrawCanvas(src Canvas, blend BlendMode, alpha float64) {
	s, ok := src.(*ImageCanvas)
	if !ok || s.img == nil {
		return
	}
	b := c.img.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Blend = blend.EbitenBlend()
	c.img.DrawImage(s.img, &op)
}

// pixelBuffer is a straight-alpha RGBA view over a read-back region.
type pixelBuffer struct {
	pix  []byte
	rect image.Rectangle
}

func (p *pixelBuffer) Bounds() image.Rectangle { return p.rect }

func (p *pixelBuffer) offset(x, y int) int {
	return 4 * ((y-p.rect.Min.Y)*p.rect.Dx() + (x - p.rect.Min.X))
}

func (p *pixelBuffer) RGBA(x, y int) (r, g, b, a uint8) {
	if !(image.Point{x, y}.In(p.rect)) {
		return 0, 0, 0, 0
	}
	i := p.offset(x, y)
	return p.pix[i], p.pix[i+1], p.pix[i+2], p.pix[i+3]
}

func (p *pixelBuffer) SetRGBA(x, y int, r, g, b, a uint8) {
	if !(image.Point{x, y}.In(p.rect)) {
		return
	}
	i := p.offset(x, y)
	p.pix[i], p.pix[i+1], p.pix[i+2], p.pix[i+3] = r, g, b, a
}

// unpremultiply converts premultiplied RGBA bytes to straight alpha in place.
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a > 0 && a < 255 {
			pix[i] = uint8(min(int(pix[i])*255/a, 255))
			pix[i+1] = uint8(min(int(pix[i+1])*255/a, 255))
			pix[i+2] = uint8(min(int(pix[i+2])*255/a, 255))
		}
	}
}

// premultiply converts straight-alpha RGBA bytes to premultiplied in place.
func premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a < 255 {
			pix[i] = uint8(int(pix[i]) * a / 255)
			pix[i+1] = uint8(int(pix[i+1]) * a / 255)
			pix[i+2] = uint8(int(pix[i+2]) * a / 255)
		}
	}
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for premultiplied values.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}
