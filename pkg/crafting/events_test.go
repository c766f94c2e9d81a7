package crafting

import "testing"

func TestSimpleEventBusUnsubscribe(t *testing.T) {
	bus := NewSimpleEventBus()
	var a, b int
	unsubA := bus.Subscribe(func(Event) { a++ })
	bus.Subscribe(func(Event) { b++ })

	bus.Publish(Event{Type: EventCredited})
	unsubA()
	unsubA()
	bus.Publish(Event{Type: EventCredited})

	if a != 1 || b != 2 {
		t.Fatalf("expected a=1 b=2, got a=%d b=%d", a, b)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventNearMiss.String() != "NearMiss" {
		t.Fatalf("unexpected name %q", EventNearMiss.String())
	}
	if EventType(99).String() != "Unknown" {
		t.Fatalf("expected Unknown for out-of-range type")
	}
}
