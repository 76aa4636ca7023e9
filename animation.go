package digitalrain

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fade maps elapsed wall-clock time onto an eased value. Unlike a frame
// driven tween it has no accumulated state, so many records spawned at
// different times can share one Fade and be evaluated independently.
type Fade struct {
	tween    *gween.Tween
	duration time.Duration
}

// NewFade returns a Fade from begin to end over d using fn.
func NewFade(begin, end float64, d time.Duration, fn ease.TweenFunc) *Fade {
	return &Fade{
		tween:    gween.New(float32(begin), float32(end), float32(d.Seconds()), fn),
		duration: d,
	}
}

// Duration returns the fade length.
func (f *Fade) Duration() time.Duration { return f.duration }

// At returns the value after elapsed time and whether the fade has finished.
// Negative elapsed values clamp to the start.
func (f *Fade) At(elapsed time.Duration) (float64, bool) {
	v, done := f.tween.Set(float32(elapsed.Seconds()))
	return float64(v), done
}

// Since evaluates the fade for a record stamped at start.
func (f *Fade) Since(start, now time.Time) (float64, bool) {
	return f.At(now.Sub(start))
}

// TweenGroup animates up to 4 float64 fields simultaneously against frame
// deltas. Call Update(dt) each tick; values are written to the fields.
//
// There is no global animation manager; owners call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenFloat creates a TweenGroup animating *field to the target value.
func TweenFloat(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// TweenColor creates a TweenGroup animating all four components of *c.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(c.A), float32(to.A), duration, fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}
