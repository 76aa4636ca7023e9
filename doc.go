// Package digitalrain is a layered "digital rain" animation engine for
// [Ebitengine] and terminals.
//
// An [Engine] owns one surface per layer and redraws them once per tick:
// three parallax rain layers of falling glyph columns, a field of drifting
// particles, scrolling waveforms, pointer effects and occasional glitches.
// The [Compositor] blends the layers in a fixed order onto the output.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and drives
// the engine from the Ebitengine game loop:
//
//	cfg := digitalrain.DefaultConfig()
//	cfg.Palette = "kana"
//	if err := digitalrain.Run(cfg); err != nil {
//		log.Fatal(err)
//	}
//
// For a terminal, use the term subpackage:
//
//	term.Run(ctx, cfg)
//
// # Hosts and ticks
//
// The engine draws through the [Canvas] interface and allocates surfaces from
// a [Host]. Ticks come only from a [TickSource], which calls it once per
// frame; the engine never schedules a frame itself. [FrameSignal] is the stock tick source; backends call
// [FrameSignal.Fire] from their frame callback, and headless drivers can call
// it in a plain loop.
//
//	host := term.NewCellHost(100, 40, 16)
//	sig := digitalrain.NewFrameSignal()
//	e := digitalrain.New(cfg, host, sig)
//	e.Start()
//	for range 600 {
//		sig.Fire(time.Now())
//	}
//
// A nil host or a zero-sized surface yields an inert engine. Start does
// nothing and events are dropped; nothing panics.
//
// # Input
//
// Pointer input is buffered with [Engine.PointerMove] and
// [Engine.PointerClick] and applied at the start of the next tick. Moves
// disturb the foreground rain near the pointer, leave a fading trail and
// sometimes spawn a data stream toward the pointer. Clicks spawn an explosion
// of glyphs and an expanding ring. [Engine.OnPointerMove] and
// [Engine.OnClick] observe the applied events.
//
// Synthetic input for tests and demos goes through [Engine.InjectMove],
// [Engine.InjectClick] and [Engine.InjectDrag], one event per tick. A
// [Script] sequences injections, resizes, glitches and screenshots from YAML.
//
// # Configuration
//
// [LoadConfig] reads YAML over embedded defaults. [Config.Validate] reports
// every out-of-range value at once.
//
// [Ebitengine]: https://ebitengine.org
package digitalrain
