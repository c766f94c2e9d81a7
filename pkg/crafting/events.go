package crafting

import "sync"

// EventType represents the type of crafting event.
type EventType int

const (
	// EventCellPlaced is emitted when a dot is placed on an empty cell.
	EventCellPlaced EventType = iota
	// EventCellCleared is emitted when a placed dot is taken back.
	EventCellCleared
	// EventPlacementRejected is emitted when a placement fails for lack of dots.
	EventPlacementRejected
	// EventCrafted is emitted when a confirm consumes the grid.
	EventCrafted
	// EventRefunded is emitted when the grid is refunded to the pool.
	EventRefunded
	// EventNearMiss is emitted for a shape that fit but left stray dots.
	EventNearMiss
	// EventCredited is emitted when dots are added to the pool.
	EventCredited
	// EventCreditRejected is emitted when a credit amount is not positive.
	EventCreditRejected
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventCellPlaced:
		return "CellPlaced"
	case EventCellCleared:
		return "CellCleared"
	case EventPlacementRejected:
		return "PlacementRejected"
	case EventCrafted:
		return "Crafted"
	case EventRefunded:
		return "Refunded"
	case EventNearMiss:
		return "NearMiss"
	case EventCredited:
		return "Credited"
	case EventCreditRejected:
		return "CreditRejected"
	default:
		return "Unknown"
	}
}

// Event describes a state change in a session. Fields that do not apply
// to a given type are left zero.
type Event struct {
	Type   EventType
	Cell   Point
	Recipe *Recipe
	Anchor Point
	Units  int
	// Pool is the pool count after the change.
	Pool int
}

// EventBus delivers session events to subscribers.
type EventBus interface {
	// Subscribe registers a handler and returns a function that removes it.
	Subscribe(handler func(Event)) (unsubscribe func())

	// Publish sends an event to subscribed handlers.
	Publish(event Event)
}

// SimpleEventBus is an in-memory bus that calls handlers synchronously in
// subscription order, on the publishing goroutine.
type SimpleEventBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id      int
	handler func(Event)
}

// NewSimpleEventBus creates an empty event bus.
func NewSimpleEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe registers a handler. Nil handlers are ignored.
func (bus *SimpleEventBus) Subscribe(handler func(Event)) func() {
	if handler == nil {
		return func() {}
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.nextID++
	id := bus.nextID
	bus.handlers = append(bus.handlers, subscription{id: id, handler: handler})
	return func() { bus.unsubscribe(id) }
}

func (bus *SimpleEventBus) unsubscribe(id int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, s := range bus.handlers {
		if s.id == id {
			bus.handlers = append(bus.handlers[:i:i], bus.handlers[i+1:]...)
			return
		}
	}
}

// Publish calls every handler with the event. Handlers run outside the
// bus lock, so they may subscribe or unsubscribe.
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.RLock()
	handlers := make([]func(Event), len(bus.handlers))
	for i, s := range bus.handlers {
		handlers[i] = s.handler
	}
	bus.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// NullEventBus is an event bus that does nothing.
type NullEventBus struct{}

// Subscribe does nothing.
func (NullEventBus) Subscribe(func(Event)) func() { return func() {} }

// Publish does nothing.
func (NullEventBus) Publish(Event) {}
