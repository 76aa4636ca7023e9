package digitalrain

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerContext describes a pointer event after the engine applied it.
type PointerContext struct {
	Type   EventType
	X, Y   float64
	Column int
	At     time.Time
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type handlerRegistry struct {
	move   []pointerHandler
	click  []pointerHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerMove:
		h.reg.move = removePointerHandler(h.reg.move, h.id)
	case EventPointerClick:
		h.reg.click = removePointerHandler(h.reg.click, h.id)
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// OnPointerMove registers a callback fired for every applied pointer move.
func (e *Engine) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.move = append(e.handlers.move, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, event: EventPointerMove}
}

// OnClick registers a callback fired for every applied click.
func (e *Engine) OnClick(fn func(PointerContext)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.click = append(e.handlers.click, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, event: EventPointerClick}
}

func (r *handlerRegistry) fire(ctx PointerContext) {
	hs := r.move
	if ctx.Type == EventPointerClick {
		hs = r.click
	}
	for _, h := range hs {
		h.fn(ctx)
	}
}

// --- Ebitengine input ---

// pointerPoller turns Ebitengine mouse and touch state into engine events.
type pointerPoller struct {
	lastX, lastY int
	seen         bool
	touchBuf     []ebiten.TouchID
}

// poll forwards cursor movement, left clicks and new touches to e.
func (p *pointerPoller) poll(e *Engine) {
	mx, my := ebiten.CursorPosition()
	if !p.seen || mx != p.lastX || my != p.lastY {
		p.lastX, p.lastY, p.seen = mx, my, true
		e.PointerMove(float64(mx), float64(my))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		e.PointerClick(float64(mx), float64(my))
	}

	p.touchBuf = inpututil.AppendJustPressedTouchIDs(p.touchBuf[:0])
	for _, id := range p.touchBuf {
		tx, ty := ebiten.TouchPosition(id)
		e.PointerMove(float64(tx), float64(ty))
		e.PointerClick(float64(tx), float64(ty))
	}
}
