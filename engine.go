package digitalrain

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// Engine drives every generator from a single tick subscription and owns
// the layer surfaces. All methods must be called from the goroutine that
// fires the TickSource.
type Engine struct {
	cfg   Config
	host  Host
	src   TickSource
	rng   *rand.Rand
	clock func() time.Time
	log   *slog.Logger

	valid   bool
	running bool
	subID   uint32

	fc       FrameContext
	lastTick time.Time
	fades    []*TweenGroup
	opFades  []*TweenGroup

	columns     *ColumnStream
	particles   *ParticleField
	waves       *Waveform
	interaction *Interaction
	glitch      *Glitch
	comp        *Compositor

	pending     []pointerEvent
	injectQueue []pointerEvent
	handlers    handlerRegistry

	stats FrameStats
}

// New builds an engine for host, ticking from src. A nil host, a nil source
// or a host reporting a non-positive size yields an inert engine: Start
// registers nothing and every event is ignored.
func New(cfg Config, host Host, src TickSource) *Engine {
	e := &Engine{
		cfg:   cfg,
		host:  host,
		src:   src,
		clock: time.Now,
		log:   slog.Default().With("component", "digitalrain"),
	}
	if host == nil || src == nil {
		e.log.Warn("no host surface, engine disabled")
		return e
	}
	w, h := host.Size()
	if w <= 0 || h <= 0 || cfg.CellSize <= 0 {
		e.log.Warn("invalid host surface, engine disabled", "width", w, "height", h, "cell_size", cfg.CellSize)
		return e
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	e.rng = rand.New(rand.NewPCG(seed, seed))

	palette, err := LookupPalette(cfg.Palette)
	if err != nil {
		e.log.Warn("unknown palette, using matrix", "palette", cfg.Palette, "err", err)
		palette = palettes["matrix"]
	}
	theme, err := cfg.Theme()
	if err != nil {
		e.log.Warn("bad theme colour, using defaults", "err", err)
	}

	e.fc = FrameContext{CellSize: cfg.CellSize, Theme: theme}
	e.columns = newColumnStream(palette, cfg.CellSize)
	e.particles = newParticleField(cfg.ParticleCount, palette)
	e.waves = newWaveform(cfg.Intensity)
	e.interaction = newInteraction(palette)
	e.glitch = newGlitch()
	e.comp = newCompositor(host)
	e.applyEffects()

	e.valid = true
	e.resize(w, h)
	e.particles.seed(float64(w), float64(h), e.rng)
	return e
}

// applyEffects pushes the effect toggles into the generators and layers.
func (e *Engine) applyEffects() {
	fx := e.cfg.Effects
	e.comp.SetEnabled(LayerParticles, fx.Particles)
	e.comp.SetEnabled(LayerWaves, fx.Waves)
	e.comp.SetEnabled(LayerGlitch, fx.Glitch)
	e.interaction.Network = fx.Network
	e.interaction.Corruption = fx.Corruption
	if !fx.Tear {
		e.glitch.TearChance = 0
	}
}

// SetClock replaces the wall clock used to stamp pointer events.
func (e *Engine) SetClock(fn func() time.Time) {
	if fn != nil {
		e.clock = fn
	}
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// Valid reports whether the engine has a usable surface.
func (e *Engine) Valid() bool { return e.valid }

// Running reports whether the engine is subscribed to its tick source.
func (e *Engine) Running() bool { return e.running }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Start subscribes to the tick source. Calling Start twice is a no-op.
func (e *Engine) Start() {
	if !e.valid || e.running {
		return
	}
	e.subID = e.src.Subscribe(e.onTick)
	e.running = true
	e.log.Debug("started", "width", e.fc.Width, "height", e.fc.Height, "columns", e.fc.Columns)
}

// Stop unsubscribes from the tick source and drops queued input. Calling
// Stop twice, or before Start, is a no-op.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.src.Unsubscribe(e.subID)
	e.subID = 0
	e.running = false
	e.pending = e.pending[:0]
	e.injectQueue = e.injectQueue[:0]
	e.log.Debug("stopped", "ticks", e.fc.Tick)
}

// Close stops the engine and returns its surfaces to the host. The engine
// is inert afterwards.
func (e *Engine) Close() {
	e.Stop()
	if e.valid {
		e.comp.release()
	}
	e.valid = false
}

// onTick is the subscription callback. A tick already scheduled by the
// source when Stop ran is dropped.
func (e *Engine) onTick(now time.Time) {
	if e.running {
		e.Tick(now)
	}
}

// accepting reports whether pointer input should be buffered.
func (e *Engine) accepting() bool {
	return e.valid && e.running && e.cfg.Interactive
}

// PointerMove buffers a pointer move for the next tick.
func (e *Engine) PointerMove(x, y float64) {
	if !e.accepting() {
		return
	}
	e.pending = append(e.pending, pointerEvent{kind: EventPointerMove, x: x, y: y, at: e.clock()})
}

// PointerClick buffers a primary-button click for the next tick.
func (e *Engine) PointerClick(x, y float64) {
	if !e.accepting() {
		return
	}
	e.pending = append(e.pending, pointerEvent{kind: EventPointerClick, x: x, y: y, at: e.clock()})
}

// Resize applies a new surface size immediately. Drops are rebuilt; the
// particle pool and transient effects persist. Non-positive sizes are ignored.
func (e *Engine) Resize(w, h int) {
	if !e.valid || w <= 0 || h <= 0 {
		return
	}
	if w == e.fc.Width && h == e.fc.Height {
		return
	}
	e.resize(w, h)
}

func (e *Engine) resize(w, h int) {
	e.fc.Width, e.fc.Height = w, h
	e.columns.resize(w, h, e.rng)
	e.fc.Columns = e.columns.Columns()
	e.comp.resize(w, h)
	if c := e.comp.Surface(LayerGrid); c != nil {
		drawStaticGrid(c, e.fc)
	}
}

// Size returns the current surface size.
func (e *Engine) Size() (w, h int) { return e.fc.Width, e.fc.Height }

// Columns exposes the rain generator.
func (e *Engine) Columns() *ColumnStream { return e.columns }

// Particles exposes the particle field.
func (e *Engine) Particles() *ParticleField { return e.particles }

// Waves exposes the waveform generator.
func (e *Engine) Waves() *Waveform { return e.waves }

// Interaction exposes the interaction tracker.
func (e *Engine) Interaction() *Interaction { return e.interaction }

// Glitch exposes the glitch injector.
func (e *Engine) Glitch() *Glitch { return e.glitch }

// Compositor exposes the layer compositor.
func (e *Engine) Compositor() *Compositor { return e.comp }

// Theme returns the current colours.
func (e *Engine) Theme() Theme { return e.fc.Theme }

// FadeTheme tweens the primary and accent colours to those of t over d.
func (e *Engine) FadeTheme(t Theme, d time.Duration) {
	if !e.valid {
		return
	}
	secs := float32(d.Seconds())
	e.fades = append(e.fades,
		TweenColor(&e.fc.Theme.Primary, t.Primary, secs, ease.Linear),
		TweenColor(&e.fc.Theme.Accent, t.Accent, secs, ease.Linear),
	)
	e.fc.Theme.Background = t.Background
}

// FadeLayer tweens the compositing opacity of a layer to opacity over d.
func (e *Engine) FadeLayer(id LayerID, opacity float64, d time.Duration) {
	if !e.valid || id >= layerCount {
		return
	}
	op := &e.comp.layers[id].spec.Opacity
	if d <= 0 {
		*op = clamp01(opacity)
		return
	}
	e.opFades = append(e.opFades, TweenFloat(op, clamp01(opacity), float32(d.Seconds()), ease.Linear))
}

// Stats returns the counters recorded at the end of the last tick.
func (e *Engine) Stats() FrameStats { return e.stats }

// Composite blends every layer onto dst over the background colour.
func (e *Engine) Composite(dst Canvas) {
	if !e.valid {
		return
	}
	e.comp.Composite(dst, e.fc.Theme.Background)
}

// Tick advances every generator by one frame in fixed order: pointer input,
// rain, pulse glyphs, tear, particles, waves, interaction, glitch.
func (e *Engine) Tick(now time.Time) {
	if !e.valid {
		return
	}
	var dbg debugStats
	timer := newStageTimer(e.cfg.Debug)
	start := time.Now()

	e.fc.Tick++
	e.fc.Now = now
	e.updateFades(now)

	e.applyPointerEvents(now)
	dbg.pointerTime = timer.lap()

	e.columns.update(e.rng)
	e.columns.draw(e.comp, e.fc, e.rng)
	front := e.comp.Surface(LayerRainFront)
	if front != nil {
		if e.cfg.Effects.Pulse {
			drawPulseGlyphs(front, e.fc, e.rng)
		}
		e.glitch.tear(front, e.rng)
	}
	dbg.rainTime = timer.lap()

	if c := e.comp.Surface(LayerParticles); c != nil {
		e.particles.update(e.fc, e.rng)
		e.particles.draw(c, e.fc, e.cfg.Effects.SensorNoise, e.rng)
	}
	dbg.particleTime = timer.lap()

	e.waves.update()
	e.fc.Time = e.waves.Time()
	if c := e.comp.Surface(LayerWaves); c != nil {
		e.waves.draw(c, e.fc, e.rng)
	}
	dbg.waveTime = timer.lap()

	e.interaction.update(now, e.rng)
	if c := e.comp.Surface(LayerInteraction); c != nil {
		e.interaction.draw(c, e.fc, e.rng)
	}
	dbg.interactionTime = timer.lap()

	if c := e.comp.Surface(LayerGlitch); c != nil {
		e.glitch.update(c, e.fc, e.rng)
	}
	dbg.glitchTime = timer.lap()

	e.stats = e.snapshotStats(time.Since(start))
	e.debugLog(dbg)
}

// applyPointerEvents drains the real events buffered since the last tick,
// then at most one injected event.
func (e *Engine) applyPointerEvents(now time.Time) {
	for _, evt := range e.pending {
		e.handlePointer(evt)
	}
	e.pending = e.pending[:0]
	if evt, ok := e.popInjected(now); ok {
		e.handlePointer(evt)
	}
}

// columnAt returns the rain column under x. Points left of the surface map
// to negative columns.
func (e *Engine) columnAt(x float64) int {
	return int(math.Floor(x / float64(e.fc.CellSize)))
}

func (e *Engine) handlePointer(evt pointerEvent) {
	switch evt.kind {
	case EventPointerMove:
		col := e.columnAt(evt.x)
		e.fc.Pointer = PointerState{X: evt.x, Y: evt.y, Column: col, Valid: true}
		e.interaction.move(evt.x, evt.y, evt.at, e.fc, e.rng)
		e.columns.Disturb(col)
	case EventPointerClick:
		e.interaction.click(evt.x, evt.y, evt.at, e.rng)
	}
	e.handlers.fire(PointerContext{
		Type:   evt.kind,
		X:      evt.x,
		Y:      evt.y,
		Column: e.columnAt(evt.x),
		At:     evt.at,
	})
}

// updateFades advances the theme tweens by the wall time since the last tick.
func (e *Engine) updateFades(now time.Time) {
	var dt float32
	if !e.lastTick.IsZero() {
		dt = float32(now.Sub(e.lastTick).Seconds())
	}
	e.lastTick = now
	e.opFades = stepTweens(e.opFades, dt)
	if len(e.fades) == 0 {
		return
	}
	e.fades = stepTweens(e.fades, dt)
	e.fc.Theme.Grid = e.fc.Theme.Primary.WithAlpha(e.fc.Theme.Grid.A)
	if c := e.comp.Surface(LayerGrid); c != nil {
		drawStaticGrid(c, e.fc)
	}
}

// stepTweens advances gs by dt and drops the finished ones.
func stepTweens(gs []*TweenGroup, dt float32) []*TweenGroup {
	live := gs[:0]
	for _, g := range gs {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(gs[len(live):])
	return live
}
