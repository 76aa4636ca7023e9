package term

import (
	"image"
	"math"
	"strings"

	"github.com/phanxgames/digitalrain"
)

// Cells dimmer than this lose their glyph.
const minGlyphLuma = 0.02

// rgba is a premultiplied colour with components in [0, 1].
type rgba struct {
	r, g, b, a float64
}

func premul(c digitalrain.Color, alpha float64) rgba {
	a := c.A * alpha
	return rgba{c.R * a, c.G * a, c.B * a, a}
}

// over composites s onto d (source-over).
func (d rgba) over(s rgba) rgba {
	k := 1 - s.a
	return rgba{s.r + d.r*k, s.g + d.g*k, s.b + d.b*k, s.a + d.a*k}
}

func (d rgba) scale(f float64) rgba {
	return rgba{d.r * f, d.g * f, d.b * f, d.a * f}
}

func (d rgba) luma() float64 {
	return 0.2126*d.r + 0.7152*d.g + 0.0722*d.b
}

func (d rgba) bytes() (r, g, b int32) {
	return to8(d.r), to8(d.g), to8(d.b)
}

func to8(v float64) int32 {
	return int32(math.Round(min(max(v, 0), 1) * 255))
}

// blend combines s (already scaled by layer alpha) onto d.
func blend(d, s rgba, mode digitalrain.BlendMode) rgba {
	switch mode {
	case digitalrain.BlendAdd:
		return rgba{
			min(d.r+s.r, 1), min(d.g+s.g, 1), min(d.b+s.b, 1), min(d.a+s.a, 1),
		}
	case digitalrain.BlendScreen:
		return rgba{
			s.r + d.r - s.r*d.r, s.g + d.g - s.g*d.g,
			s.b + d.b - s.b*d.b, s.a + d.a - s.a*d.a,
		}
	case digitalrain.BlendErase:
		return d.scale(1 - s.a)
	case digitalrain.BlendNone:
		return s
	default:
		return d.over(s)
	}
}

// Cell is one character position. Foreground carries the glyph colour,
// background carries fills, glows and raw pixel noise.
type Cell struct {
	Rune   rune
	fg, bg rgba
}

// Foreground returns the 8-bit glyph colour.
func (c Cell) Foreground() (r, g, b int32) { return c.fg.bytes() }

// Background returns the 8-bit background colour.
func (c Cell) Background() (r, g, b int32) { return c.bg.bytes() }

// Lit reports whether the cell shows a glyph.
func (c Cell) Lit() bool { return c.Rune != 0 && c.fg.luma() >= minGlyphLuma }

// CellCanvas is a digitalrain.Canvas over a grid of terminal cells. Every
// cell covers cellSize×cellSize surface pixels; a cell's background is the
// average of the pixels it covers.
type CellCanvas struct {
	w, h       int
	cellSize   int
	cols, rows int
	cells      []Cell
}

// NewCellCanvas returns a transparent canvas of w×h pixels.
func NewCellCanvas(w, h, cellSize int) *CellCanvas {
	cellSize = max(cellSize, 1)
	c := &CellCanvas{w: w, h: h, cellSize: cellSize}
	c.cols = (w + cellSize - 1) / cellSize
	c.rows = (h + cellSize - 1) / cellSize
	c.cells = make([]Cell, c.cols*c.rows)
	return c
}

func (c *CellCanvas) Size() (w, h int) { return c.w, c.h }

// Grid returns the size in cells.
func (c *CellCanvas) Grid() (cols, rows int) { return c.cols, c.rows }

// At returns the cell at column x, row y.
func (c *CellCanvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return Cell{}
	}
	return c.cells[y*c.cols+x]
}

func (c *CellCanvas) cell(px, py float64) *Cell {
	x := int(math.Floor(px / float64(c.cellSize)))
	y := int(math.Floor(py / float64(c.cellSize)))
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return nil
	}
	return &c.cells[y*c.cols+x]
}

func (c *CellCanvas) Clear() {
	clear(c.cells)
}

func (c *CellCanvas) Fade(col digitalrain.Color, a float64) {
	s := premul(col, a)
	for i := range c.cells {
		cl := &c.cells[i]
		cl.fg = cl.fg.over(s)
		cl.bg = cl.bg.over(s)
		if cl.Rune != 0 && cl.fg.luma() < minGlyphLuma {
			cl.Rune = 0
		}
	}
}

func (c *CellCanvas) FillRect(r digitalrain.Rect, col digitalrain.Color) {
	s := premul(col, 1)
	cs := float64(c.cellSize)
	x0 := max(int(math.Floor(r.X/cs)), 0)
	y0 := max(int(math.Floor(r.Y/cs)), 0)
	x1 := min(int(math.Ceil((r.X+r.Width)/cs)), c.cols)
	y1 := min(int(math.Ceil((r.Y+r.Height)/cs)), c.rows)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cl := &c.cells[y*c.cols+x]
			cl.bg = cl.bg.over(s)
		}
	}
}

func (c *CellCanvas) Glow(x, y, radius float64, col digitalrain.Color) {
	if radius <= 0 {
		return
	}
	cs := float64(c.cellSize)
	x0 := max(int(math.Floor((x-radius)/cs)), 0)
	y0 := max(int(math.Floor((y-radius)/cs)), 0)
	x1 := min(int(math.Ceil((x+radius)/cs)), c.cols)
	y1 := min(int(math.Ceil((y+radius)/cs)), c.rows)
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			dx := (float64(cx)+0.5)*cs - x
			dy := (float64(cy)+0.5)*cs - y
			d := math.Sqrt(dx*dx+dy*dy) / radius
			if d >= 1 {
				continue
			}
			// Same falloff as the GPU glow sprite.
			t := 1 - d
			f := t * t * (3 - 2*t)
			cl := &c.cells[cy*c.cols+cx]
			cl.bg = cl.bg.over(premul(col, f))
		}
	}
}

// StrokeLine walks the cells between the endpoints and marks them with a
// line glyph chosen by slope.
func (c *CellCanvas) StrokeLine(x0, y0, x1, y1, width float64, col digitalrain.Color) {
	glyph := lineGlyph(x1-x0, y1-y0)
	s := premul(col, 1)
	cs := float64(c.cellSize)
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0)) / cs))
	steps = max(steps, 1)
	var last *Cell
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cl := c.cell(x0+(x1-x0)*t, y0+(y1-y0)*t)
		if cl == nil || cl == last {
			continue
		}
		last = cl
		if cl.Rune == 0 || cl.fg.luma() < s.luma() {
			cl.Rune = glyph
		}
		cl.fg = cl.fg.over(s)
	}
}

func lineGlyph(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case ady <= adx*0.4:
		return '─'
	case adx <= ady*0.4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func (c *CellCanvas) DrawGlyph(g rune, x, y float64, opts digitalrain.GlyphOptions) {
	if !opts.Centered {
		size := opts.Size
		if size <= 0 {
			size = float64(c.cellSize)
		}
		x += size / 2
		y += size / 2
	}
	cl := c.cell(x, y)
	if cl == nil {
		return
	}
	s := premul(opts.Color, 1)
	if opts.Glow {
		cl.bg = cl.bg.over(premul(opts.GlowColor, 0.5))
	}
	if cl.Rune == 0 || s.luma() >= cl.fg.scale(1-s.a).luma() {
		cl.Rune = g
	}
	cl.fg = cl.fg.over(s)
}

// EditPixels exposes pixel-level access. Writing a pixel moves its cell's
// background by that pixel's share of the cell area.
func (c *CellCanvas) EditPixels(region image.Rectangle, fn func(digitalrain.PixelBuffer)) {
	region = region.Intersect(image.Rect(0, 0, c.w, c.h))
	if region.Empty() {
		return
	}
	fn(&cellPixels{c: c, rect: region})
}

type cellPixels struct {
	c    *CellCanvas
	rect image.Rectangle
}

func (p *cellPixels) Bounds() image.Rectangle { return p.rect }

func (p *cellPixels) at(x, y int) *Cell {
	if !(image.Point{x, y}).In(p.rect) {
		return nil
	}
	return p.c.cell(float64(x), float64(y))
}

func (p *cellPixels) RGBA(x, y int) (r, g, b, a uint8) {
	cl := p.at(x, y)
	if cl == nil || cl.bg.a == 0 {
		return 0, 0, 0, 0
	}
	bg := cl.bg
	return uint8(to8(bg.r / bg.a)), uint8(to8(bg.g / bg.a)), uint8(to8(bg.b / bg.a)), uint8(to8(bg.a))
}

func (p *cellPixels) SetRGBA(x, y int, r, g, b, a uint8) {
	cl := p.at(x, y)
	if cl == nil {
		return
	}
	af := float64(a) / 255
	px := rgba{float64(r) / 255 * af, float64(g) / 255 * af, float64(b) / 255 * af, af}
	share := 1 / float64(p.c.cellSize*p.c.cellSize)
	cl.bg = rgba{
		cl.bg.r + (px.r-cl.bg.r)*share,
		cl.bg.g + (px.g-cl.bg.g)*share,
		cl.bg.b + (px.b-cl.bg.b)*share,
		cl.bg.a + (px.a-cl.bg.a)*share,
	}
}

// ShiftStrip moves whole cell rows. Shifts smaller than a cell move one cell
// in the same direction.
func (c *CellCanvas) ShiftStrip(y, h, dx int) {
	if dx == 0 || h <= 0 {
		return
	}
	n := int(math.Round(float64(dx) / float64(c.cellSize)))
	if n == 0 {
		n = 1
		if dx < 0 {
			n = -1
		}
	}
	r0 := max(y/c.cellSize, 0)
	r1 := min((y+h+c.cellSize-1)/c.cellSize, c.rows)
	tmp := make([]Cell, c.cols)
	for r := r0; r < r1; r++ {
		row := c.cells[r*c.cols : (r+1)*c.cols]
		clear(tmp)
		for x := range row {
			if nx := x + n; nx >= 0 && nx < c.cols {
				tmp[nx] = row[x]
			}
		}
		copy(row, tmp)
	}
}

// DrawCanvas composites a CellCanvas of the same grid onto c. Glyphs from
// src replace ours when they end up brighter.
func (c *CellCanvas) DrawCanvas(src digitalrain.Canvas, mode digitalrain.BlendMode, alpha float64) {
	s, ok := src.(*CellCanvas)
	if !ok || alpha <= 0 {
		return
	}
	cols := min(c.cols, s.cols)
	rows := min(c.rows, s.rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dst := &c.cells[y*c.cols+x]
			sc := s.cells[y*s.cols+x]
			sfg := sc.fg.scale(alpha)
			dst.bg = blend(dst.bg, sc.bg.scale(alpha), mode)
			if mode == digitalrain.BlendErase {
				dst.fg = blend(dst.fg, sfg, mode)
				if sc.Rune != 0 {
					dst.Rune = 0
				}
				continue
			}
			before := dst.fg.luma()
			dst.fg = blend(dst.fg, sfg, mode)
			if sc.Rune != 0 && (dst.Rune == 0 || sfg.luma() >= before) {
				dst.Rune = sc.Rune
			}
		}
	}
}

// String renders lit cells as their glyph and everything else as a space,
// one line per row.
func (c *CellCanvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			cl := c.cells[y*c.cols+x]
			if cl.Lit() {
				b.WriteRune(cl.Rune)
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CellHost hands out CellCanvases sized in pixels. It needs no terminal and
// backs headless runs.
type CellHost struct {
	w, h     int
	cellSize int
}

// NewCellHost returns a host for a cols×rows grid.
func NewCellHost(cols, rows, cellSize int) *CellHost {
	cellSize = max(cellSize, 1)
	return &CellHost{w: cols * cellSize, h: rows * cellSize, cellSize: cellSize}
}

func (h *CellHost) Size() (w, height int) { return h.w, h.h }

// SetGrid updates the host size after a terminal resize.
func (h *CellHost) SetGrid(cols, rows int) {
	h.w, h.h = cols*h.cellSize, rows*h.cellSize
}

// CellSize returns the pixel size of one cell.
func (h *CellHost) CellSize() int { return h.cellSize }

func (h *CellHost) NewCanvas(w, height int) digitalrain.Canvas {
	return NewCellCanvas(w, height, h.cellSize)
}
