package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(EventStartedEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event needs the concrete type for its generic Publish
	switch e := ev.(type) {
	case EventStartedEvent:
		event.Publish(b.dispatcher, e)
	case EventFinishedEvent:
		event.Publish(b.dispatcher, e)
	case ActionFailedEvent:
		event.Publish(b.dispatcher, e)
	case CameraMoveEvent:
		event.Publish(b.dispatcher, e)
	case ScheduleReloadedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler's
// parameter type determines which events it receives.
// Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e EventStartedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(EventStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(EventFinishedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ActionFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraMoveEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ScheduleReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
