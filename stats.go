package digitalrain

import (
	"log/slog"
	"time"
)

// FrameStats is a snapshot of engine counters taken at the end of a tick.
// The csv tags let drivers dump a run with gocsv.
type FrameStats struct {
	Tick             uint64  `csv:"tick"`
	Width            int     `csv:"width"`
	Height           int     `csv:"height"`
	Columns          int     `csv:"columns"`
	DropResets       int     `csv:"drop_resets"`
	Particles        int     `csv:"particles"`
	ParticleRespawns int     `csv:"particle_respawns"`
	TrailSamples     int     `csv:"trail_samples"`
	Explosions       int     `csv:"explosions"`
	Streams          int     `csv:"streams"`
	Rings            int     `csv:"rings"`
	GlitchActive     bool    `csv:"glitch_active"`
	GlitchIntensity  float64 `csv:"glitch_intensity"`
	GlitchBursts     int     `csv:"glitch_bursts"`
	Tears            int     `csv:"tears"`
	TickMS           float64 `csv:"tick_ms"`
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Int("columns", s.Columns),
		slog.Int("drop_resets", s.DropResets),
		slog.Int("particles", s.Particles),
		slog.Int("explosions", s.Explosions),
		slog.Int("streams", s.Streams),
		slog.Bool("glitch", s.GlitchActive),
		slog.Float64("glitch_intensity", s.GlitchIntensity),
		slog.Int("tears", s.Tears),
		slog.Float64("tick_ms", s.TickMS),
	)
}

// snapshotStats collects the counters of every generator.
func (e *Engine) snapshotStats(elapsed time.Duration) FrameStats {
	return FrameStats{
		Tick:             e.fc.Tick,
		Width:            e.fc.Width,
		Height:           e.fc.Height,
		Columns:          e.fc.Columns,
		DropResets:       e.columns.resets,
		Particles:        e.particles.Len(),
		ParticleRespawns: e.particles.respawns,
		TrailSamples:     e.interaction.trailLen,
		Explosions:       len(e.interaction.explosions),
		Streams:          len(e.interaction.streams),
		Rings:            len(e.interaction.rings),
		GlitchActive:     e.glitch.state == GlitchActive,
		GlitchIntensity:  e.glitch.intensity,
		GlitchBursts:     e.glitch.bursts,
		Tears:            e.glitch.tears,
		TickMS:           float64(elapsed.Microseconds()) / 1000,
	}
}
