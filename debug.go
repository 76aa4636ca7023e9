package digitalrain

import (
	"log/slog"
	"time"
)

// debugStats holds per-stage timings of one tick.
// Only populated when Config.Debug is true.
type debugStats struct {
	pointerTime     time.Duration
	rainTime        time.Duration
	particleTime    time.Duration
	waveTime        time.Duration
	interactionTime time.Duration
	glitchTime      time.Duration
}

func (d debugStats) total() time.Duration {
	return d.pointerTime + d.rainTime + d.particleTime + d.waveTime + d.interactionTime + d.glitchTime
}

// debugLogInterval is how many ticks pass between debug log lines.
const debugLogInterval = 60

// debugLog writes stage timings and counters every debugLogInterval ticks.
func (e *Engine) debugLog(d debugStats) {
	if !e.cfg.Debug || e.fc.Tick%debugLogInterval != 0 {
		return
	}
	e.log.Debug("tick",
		slog.Duration("pointer", d.pointerTime),
		slog.Duration("rain", d.rainTime),
		slog.Duration("particles", d.particleTime),
		slog.Duration("waves", d.waveTime),
		slog.Duration("interaction", d.interactionTime),
		slog.Duration("glitch", d.glitchTime),
		slog.Duration("total", d.total()),
		slog.Any("stats", e.stats),
	)
}

// stageTimer measures consecutive stages of a tick when enabled.
type stageTimer struct {
	on   bool
	last time.Time
}

func newStageTimer(on bool) stageTimer {
	if !on {
		return stageTimer{}
	}
	return stageTimer{on: true, last: time.Now()}
}

// lap returns the time since the previous lap.
func (t *stageTimer) lap() time.Duration {
	if !t.on {
		return 0
	}
	now := time.Now()
	d := now.Sub(t.last)
	t.last = now
	return d
}
