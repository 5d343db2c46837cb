package events

import (
	"sync"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var got []EventStartedEvent
	unsub := bus.Subscribe(func(e EventStartedEvent) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	defer unsub()

	bus.Publish(EventStartedEvent{Programme: "morning", Event: "arrival"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("received %d events, want 1", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0].Programme != "morning" || got[0].Event != "arrival" {
		t.Errorf("event = %+v", got[0])
	}
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	moves := 0
	failures := 0
	defer bus.Subscribe(func(CameraMoveEvent) {
		mu.Lock()
		moves++
		mu.Unlock()
	})()
	defer bus.Subscribe(func(ActionFailedEvent) {
		mu.Lock()
		failures++
		mu.Unlock()
	})()

	bus.Publish(CameraMoveEvent{CameraID: 1, Op: "Left"})
	bus.Publish(CameraMoveEvent{CameraID: 1, Op: "Right"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		m, f := moves, failures
		mu.Unlock()
		if m == 2 {
			if f != 0 {
				t.Errorf("failure handler saw %d events, want 0", f)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("move handler saw %d events, want 2", m)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	n := 0
	unsub := bus.Subscribe(func(ScheduleReloadedEvent) {
		mu.Lock()
		n++
		mu.Unlock()
	})

	bus.Publish(ScheduleReloadedEvent{Programmes: 2})
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		seen := n
		mu.Unlock()
		if seen == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("received %d events before unsubscribe, want 1", seen)
		}
		time.Sleep(5 * time.Millisecond)
	}

	unsub()
	bus.Publish(ScheduleReloadedEvent{Programmes: 3})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if n != 1 {
		t.Errorf("received %d events after unsubscribe, want 1", n)
	}
}
