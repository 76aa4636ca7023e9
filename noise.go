package digitalrain

import (
	"image"
	"math/rand/v2"
)

// NoiseFunc recolours one pixel. It receives the current value and returns
// the replacement.
type NoiseFunc func(rng *rand.Rand, r, g, b, a uint8) (uint8, uint8, uint8, uint8)

// ApplyNoise recolours roughly density*area random pixels of region (clipped
// to the buffer bounds) using paint. It returns the number of pixels painted.
// Pixels are sampled with replacement, so the same pixel may be hit twice.
func ApplyNoise(buf PixelBuffer, region image.Rectangle, density float64, rng *rand.Rand, paint NoiseFunc) int {
	if buf == nil || paint == nil || density <= 0 {
		return 0
	}
	region = region.Intersect(buf.Bounds())
	if region.Empty() {
		return 0
	}
	if density > 1 {
		density = 1
	}
	area := float64(region.Dx() * region.Dy())
	expect := density * area
	n := int(expect)
	// Carry the fractional part stochastically so tiny densities still fire.
	if rng.Float64() < expect-float64(n) {
		n++
	}
	for i := 0; i < n; i++ {
		x := region.Min.X + rng.IntN(region.Dx())
		y := region.Min.Y + rng.IntN(region.Dy())
		r, g, b, a := buf.RGBA(x, y)
		r, g, b, a = paint(rng, r, g, b, a)
		buf.SetRGBA(x, y, r, g, b, a)
	}
	return n
}

// glitchNoise paints the green static used by the glitch overlay and
// corruption patches.
func glitchNoise(maxAlpha int) NoiseFunc {
	return func(rng *rand.Rand, _, _, _, _ uint8) (uint8, uint8, uint8, uint8) {
		return 0, uint8(rng.IntN(256)), 65, uint8(rng.IntN(maxAlpha + 1))
	}
}

// sensorNoise brightens the green and blue channels by up to 50 without
// touching red or alpha.
func sensorNoise(rng *rand.Rand, r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
	return r, addClamp(g, rng.IntN(50)), addClamp(b, rng.IntN(50)), a
}

func addClamp(v uint8, d int) uint8 {
	s := int(v) + d
	if s > 255 {
		return 255
	}
	return uint8(s)
}
