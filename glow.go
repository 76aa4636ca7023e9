package digitalrain

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// glowCacheRadii are the baked halo radii. Requests are served from the
// smallest baked radius not below the request and scaled down.
var glowCacheRadii = [...]float64{4, 8, 16, 32, 64, 128}

// glowCache holds feathered white circles shared by every canvas of a host.
type glowCache struct {
	circles [len(glowCacheRadii)]*ebiten.Image
}

// get returns a circle image and its baked radius for the requested radius.
func (gc *glowCache) get(radius float64) (*ebiten.Image, float64) {
	i := 0
	for i < len(glowCacheRadii)-1 && glowCacheRadii[i] < radius {
		i++
	}
	if gc.circles[i] == nil {
		gc.circles[i] = generateCircle(glowCacheRadii[i])
	}
	return gc.circles[i], glowCacheRadii[i]
}

// draw paints a halo of colour c centred at (x, y).
func (gc *glowCache) draw(dst *ebiten.Image, x, y, radius float64, c Color) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	img, baked := gc.get(radius)
	s := radius / baked
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(-baked, -baked)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, &op)
}

// dispose deallocates the baked circles.
func (gc *glowCache) dispose() {
	for i, img := range gc.circles {
		if img != nil {
			img.Deallocate()
			gc.circles[i] = nil
		}
	}
}

// circlePixels returns premultiplied RGBA pixels of a feathered white circle
// with smoothstep falloff from 1 at the centre to 0 at the edge.
func circlePixels(radius float64) (pix []byte, size int) {
	size = int(math.Ceil(radius * 2))
	if size < 1 {
		size = 1
	}
	pix = make([]byte, size*size*4)

	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius

			var alpha float64
			if dist < 1 {
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}

			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a // premultiplied white
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	return pix, size
}

// generateCircle creates a feathered white circle image with the given radius.
func generateCircle(radius float64) *ebiten.Image {
	pix, size := circlePixels(radius)
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}
