package events

// Handler processes specific event types within a context T
type Handler[T any] interface {
	// HandleEvent is called synchronously during dispatch
	HandleEvent(ctx T, event GameEvent) error

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// Router dispatches queued events to registered handlers.
// Dispatch is single-threaded; handlers for one type run in registration order
type Router[T any] struct {
	handlers map[EventType][]Handler[T]
	queue    *EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter[T any](queue *EventQueue) *Router[T] {
	return &Router[T]{
		handlers: make(map[EventType][]Handler[T]),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router[T]) Register(handler Handler[T]) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes pending events in FIFO order, including events pushed
// by handlers during dispatch. Stops at the first handler error; events not
// yet routed are dropped
func (r *Router[T]) DispatchAll(ctx T) (int, error) {
	dispatched := 0
	for {
		events := r.queue.Consume()
		if len(events) == 0 {
			return dispatched, nil
		}
		for _, ev := range events {
			for _, h := range r.handlers[ev.Type] {
				if err := h.HandleEvent(ctx, ev); err != nil {
					return dispatched, err
				}
			}
			dispatched++
		}
	}
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router[T]) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
