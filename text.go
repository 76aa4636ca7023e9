package digitalrain

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// Font renders single glyphs at arbitrary pixel sizes. Faces are created
// lazily per integer size and shared by every canvas of a host.
type Font struct {
	source *text.GoTextFaceSource
	faces  map[int]*text.GoTextFace
}

// LoadFont parses TrueType/OpenType data.
func LoadFont(ttfData []byte) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("digitalrain: failed to parse font data: %w", err)
	}
	return &Font{source: source, faces: make(map[int]*text.GoTextFace)}, nil
}

// LoadFontFile reads a font from disk. An empty path returns the bundled
// Go Mono face, which has no kana; point this at a CJK font for the full
// matrix palette.
func LoadFontFile(path string) (*Font, error) {
	if path == "" {
		return LoadFont(gomono.TTF)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("digitalrain: reading font: %w", err)
	}
	return LoadFont(data)
}

// face returns the face for a pixel size, rounded to the nearest integer.
func (f *Font) face(size float64) *text.GoTextFace {
	key := max(1, int(math.Round(size)))
	if fc, ok := f.faces[key]; ok {
		return fc
	}
	fc := &text.GoTextFace{Source: f.source, Size: float64(key)}
	f.faces[key] = fc
	return fc
}

// MeasureGlyph returns the advance width and line height of g at size.
func (f *Font) MeasureGlyph(g rune, size float64) (w, h float64) {
	fc := f.face(size)
	m := fc.Metrics()
	return text.Advance(string(g), fc), m.HAscent + m.HDescent
}

// drawGlyph draws g onto dst. Position is the top-left of the glyph cell,
// or its centre when opts.Centered is set. Rotation pivots on the centre.
func (f *Font) drawGlyph(dst *ebiten.Image, g rune, x, y float64, opts GlyphOptions, blend BlendMode) {
	if opts.Color.A <= 0 {
		return
	}
	fc := f.face(opts.Size)
	s := string(g)
	w, h := text.Measure(s, fc, 0)

	var op text.DrawOptions
	op.GeoM.Translate(-w/2, -h/2)
	if opts.Rotation != 0 {
		op.GeoM.Rotate(opts.Rotation)
	}
	if opts.Centered {
		op.GeoM.Translate(x, y)
	} else {
		op.GeoM.Translate(x+w/2, y+h/2)
	}
	c := opts.Color
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.Blend = blend.EbitenBlend()
	text.Draw(dst, s, fc, &op)
}
