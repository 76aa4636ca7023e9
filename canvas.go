package digitalrain

import "image"

// Canvas is a drawing surface owned by one compositor layer. Coordinates are
// in surface pixels. Implementations exist for Ebitengine images and for
// terminal cell grids; tests use a recording fake.
type Canvas interface {
	// Size returns the surface size in pixels.
	Size() (w, h int)
	// Clear makes the whole surface transparent.
	Clear()
	// Fade paints c over the whole surface with alpha a, dimming old content
	// so repeated frames leave fading trails.
	Fade(c Color, a float64)
	// FillRect paints a solid rectangle.
	FillRect(r Rect, c Color)
	// Glow paints a radial gradient from c at the centre to transparent at radius.
	Glow(x, y, radius float64, c Color)
	// StrokeLine draws a line segment.
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
	// DrawGlyph draws a single glyph with its top-left at (x, y), or centred
	// when opts.Centered is set.
	DrawGlyph(g rune, x, y float64, opts GlyphOptions)
	// EditPixels exposes the raw pixels of region to fn. Changes made through
	// the buffer are visible after fn returns.
	EditPixels(region image.Rectangle, fn func(PixelBuffer))
	// ShiftStrip moves the horizontal strip [y, y+h) right by dx pixels
	// (left when negative).
	ShiftStrip(y, h, dx int)
	// DrawCanvas composites src onto this canvas. src must come from the
	// same backend.
	DrawCanvas(src Canvas, blend BlendMode, alpha float64)
}

// GlyphOptions controls how DrawGlyph renders a glyph.
type GlyphOptions struct {
	// Size is the glyph height in pixels. Zero uses the backend's cell size.
	Size float64
	// Rotation is the rotation in radians around the glyph centre.
	Rotation float64
	// Color is the glyph tint including alpha.
	Color Color
	// Glow adds a soft halo of GlowColor behind the glyph.
	Glow      bool
	GlowColor Color
	// Centered positions the glyph centre at (x, y).
	Centered bool
}

// PixelBuffer is a straight-alpha RGBA view over part of a canvas. Bounds are
// in surface pixel coordinates.
type PixelBuffer interface {
	Bounds() image.Rectangle
	RGBA(x, y int) (r, g, b, a uint8)
	SetRGBA(x, y int, r, g, b, a uint8)
}

// Host provides the drawing surfaces for an engine.
type Host interface {
	// Size returns the current host surface size in pixels.
	Size() (w, h int)
	// NewCanvas allocates an offscreen canvas of the given size.
	NewCanvas(w, h int) Canvas
}

// surfaceReleaser is implemented by hosts that pool their canvases.
type surfaceReleaser interface {
	ReleaseCanvas(c Canvas)
}
