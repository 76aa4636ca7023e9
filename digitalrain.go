package digitalrain

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is opaque black, the default fade color for trail surfaces.
var ColorBlack = Color{0, 0, 0, 1}

// WithAlpha returns c with its alpha replaced by a.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Scale returns c with RGB multiplied by f. Alpha is unchanged.
func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

// Vec2 is a 2D vector used for positions, offsets and velocities.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range sampled by the generators.
type Range struct {
	Min, Max float64
}

// Random returns a float64 in [Min, Max) drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendScreen                  // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                   // destination-out (punch transparent holes)
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// LayerID names one compositor surface. The numeric order is the z-order:
// later layers are drawn over earlier ones.
type LayerID uint8

const (
	LayerGrid        LayerID = iota // static background grid
	LayerRainBack                   // slow, dim rain
	LayerRainMid                    // medium rain
	LayerRainFront                  // fast, bright rain with glow
	LayerParticles                  // drifting glyph particles
	LayerWaves                      // sine overlays and data bands
	LayerInteraction                // pointer trail, explosions, data streams
	LayerGlitch                     // glitch noise overlay
	layerCount
)

var layerNames = [layerCount]string{
	"grid", "rain_back", "rain_mid", "rain_front",
	"particles", "waves", "interaction", "glitch",
}

// String returns the snake_case name of the layer.
func (l LayerID) String() string {
	if l >= layerCount {
		return "unknown"
	}
	return layerNames[l]
}

// LayerByName returns the layer with the given snake_case name.
func LayerByName(name string) (LayerID, bool) {
	for i, n := range layerNames {
		if n == name {
			return LayerID(i), true
		}
	}
	return layerCount, false
}

// EventType identifies a kind of pointer event consumed by the engine.
type EventType uint8

const (
	EventPointerMove  EventType = iota // pointer moved over the surface
	EventPointerClick                  // primary button clicked
)

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
