package digitalrain

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsOverlay shows FPS, TPS and engine counters in the top-left corner.
// The text is refreshed every ~0.5 seconds.
type statsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	visible bool
}

func newStatsOverlay(visible bool) *statsOverlay {
	// Enough for five lines of debug print text.
	return &statsOverlay{img: ebiten.NewImage(200, 80), visible: visible, elapsed: 1}
}

func (o *statsOverlay) toggle() { o.visible = !o.visible }

func (o *statsOverlay) update(dt float64, s FrameStats) {
	if !o.visible {
		return
	}
	o.elapsed += dt
	if o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, formatOverlay(ebiten.ActualFPS(), ebiten.ActualTPS(), s))
}

func formatOverlay(fps, tps float64, s FrameStats) string {
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\ncols: %d  resets: %d\nparticles: %d\nfx: %d boom  %d streams\nglitch: %.2f  tears: %d",
		fps, tps, s.Columns, s.DropResets, s.Particles, s.Explosions, s.Streams, s.GlitchIntensity, s.Tears)
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	if !o.visible {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	screen.DrawImage(o.img, &op)
}
