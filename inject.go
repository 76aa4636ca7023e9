package digitalrain

import "time"

// pointerEvent is one buffered pointer event. Surface coordinates are used.
type pointerEvent struct {
	kind EventType
	x, y float64
	at   time.Time
}

// InjectMove queues a synthetic pointer move at the given surface
// coordinates. Injected events are consumed one per tick, after any real
// events buffered for that tick.
func (e *Engine) InjectMove(x, y float64) {
	if !e.accepting() {
		return
	}
	e.injectQueue = append(e.injectQueue, pointerEvent{kind: EventPointerMove, x: x, y: y})
}

// InjectClick queues a synthetic move followed by a click at the same
// coordinates. Consumes two ticks.
func (e *Engine) InjectClick(x, y float64) {
	if !e.accepting() {
		return
	}
	e.injectQueue = append(e.injectQueue,
		pointerEvent{kind: EventPointerMove, x: x, y: y},
		pointerEvent{kind: EventPointerClick, x: x, y: y},
	)
}

// InjectDrag queues a sweep of moves from (fromX, fromY) to (toX, toY),
// linearly interpolated over the given number of ticks. Minimum is 2.
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if !e.accepting() {
		return
	}
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		e.injectQueue = append(e.injectQueue, pointerEvent{
			kind: EventPointerMove,
			x:    fromX + (toX-fromX)*t,
			y:    fromY + (toY-fromY)*t,
		})
	}
}

// PendingInjections returns the number of queued synthetic events.
func (e *Engine) PendingInjections() int { return len(e.injectQueue) }

// popInjected removes and returns the oldest injected event, stamped with
// the tick time.
func (e *Engine) popInjected(now time.Time) (pointerEvent, bool) {
	if len(e.injectQueue) == 0 {
		return pointerEvent{}, false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	evt.at = now
	return evt, true
}
