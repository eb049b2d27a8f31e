package event

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe removes the subscription. Calling it twice is harmless.
	Unsubscribe()

	// Pause temporarily stops delivery.
	Pause()

	// Resume continues delivery after pause.
	Resume()

	// IsPaused returns true if the subscription is paused.
	IsPaused() bool
}

// Hub is a synchronous multi-subscriber publisher.
type Hub struct {
	subs   []*subscription
	nextID uint64
	seq    uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

type subscription struct {
	id      uint64
	kinds   map[Kind]struct{} // nil = all kinds
	handler Handler
	paused  bool
	hub     *Hub
}

// Subscribe registers handler for the given kinds.
// An empty kinds list subscribes to everything.
//
// Panics if handler is nil.
func (h *Hub) Subscribe(kinds []Kind, handler Handler) Subscription {
	if handler == nil {
		panic("event: handler cannot be nil")
	}

	h.nextID++
	sub := &subscription{
		id:      h.nextID,
		handler: handler,
		hub:     h,
	}
	if len(kinds) > 0 {
		sub.kinds = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}

	h.subs = append(h.subs, sub)
	return sub
}

// SubscribeAll registers handler for every kind.
func (h *Hub) SubscribeAll(handler Handler) Subscription {
	return h.Subscribe(nil, handler)
}

// Publish delivers evt to every matching, unpaused subscription and returns
// the number of handlers called. Handlers may subscribe or unsubscribe while
// the event is being delivered; the change applies from the next event.
func (h *Hub) Publish(evt Event) int {
	h.seq++
	evt.Seq = h.seq

	subs := make([]*subscription, len(h.subs))
	copy(subs, h.subs)

	delivered := 0
	for _, sub := range subs {
		if sub.paused || !sub.matches(evt.Kind) || !h.has(sub) {
			continue
		}
		sub.handler(evt)
		delivered++
	}
	return delivered
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	return len(h.subs)
}

// Clear removes every subscription.
func (h *Hub) Clear() {
	h.subs = nil
}

func (h *Hub) has(sub *subscription) bool {
	for _, s := range h.subs {
		if s == sub {
			return true
		}
	}
	return false
}

func (s *subscription) matches(kind Kind) bool {
	if s.kinds == nil {
		return true
	}
	_, ok := s.kinds[kind]
	return ok
}

// Unsubscribe removes the subscription.
func (s *subscription) Unsubscribe() {
	subs := s.hub.subs
	for i, other := range subs {
		if other == s {
			s.hub.subs = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Pause temporarily stops delivery.
func (s *subscription) Pause() {
	s.paused = true
}

// Resume continues delivery after pause.
func (s *subscription) Resume() {
	s.paused = false
}

// IsPaused returns true if the subscription is paused.
func (s *subscription) IsPaused() bool {
	return s.paused
}
