package digitalrain

import "time"

// TickFunc is called once per display refresh with the wall-clock time.
type TickFunc func(now time.Time)

// TickSource delivers refresh ticks to subscribers. Implementations must call
// subscribers on a single goroutine.
type TickSource interface {
	// Subscribe registers fn and returns an id for Unsubscribe.
	Subscribe(fn TickFunc) uint32
	// Unsubscribe removes a subscription. Unknown ids are ignored.
	Unsubscribe(id uint32)
}

type tickHandler struct {
	id uint32
	fn TickFunc
}

// FrameSignal is a TickSource fired by the host's frame loop: Ebitengine's
// Update, the terminal ticker, or a headless driver calling Fire in a loop.
type FrameSignal struct {
	handlers []tickHandler
	firing   []tickHandler
	nextID   uint32
	fired    uint64
}

// NewFrameSignal returns an empty FrameSignal.
func NewFrameSignal() *FrameSignal {
	return &FrameSignal{}
}

// Subscribe registers fn.
func (s *FrameSignal) Subscribe(fn TickFunc) uint32 {
	s.nextID++
	s.handlers = append(s.handlers, tickHandler{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe removes the subscription with the given id.
// The entry is removed from the slice to avoid nil iteration waste.
func (s *FrameSignal) Unsubscribe(id uint32) {
	for i := range s.handlers {
		if s.handlers[i].id == id {
			copy(s.handlers[i:], s.handlers[i+1:])
			s.handlers[len(s.handlers)-1] = tickHandler{}
			s.handlers = s.handlers[:len(s.handlers)-1]
			return
		}
	}
}

// Len returns the number of subscribers.
func (s *FrameSignal) Len() int { return len(s.handlers) }

// Fired returns how many times Fire has been called.
func (s *FrameSignal) Fired() uint64 { return s.fired }

// Fire calls every subscriber in registration order. A handler removed
// during Fire is not called if it has not run yet; handlers added during
// Fire wait for the next call.
func (s *FrameSignal) Fire(now time.Time) {
	s.fired++
	s.firing = append(s.firing[:0], s.handlers...)
	for _, h := range s.firing {
		if s.subscribed(h.id) {
			h.fn(now)
		}
	}
	clear(s.firing)
}

func (s *FrameSignal) subscribed(id uint32) bool {
	for i := range s.handlers {
		if s.handlers[i].id == id {
			return true
		}
	}
	return false
}
