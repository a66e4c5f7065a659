package stream

import (
	"encoding/json"
	"testing"
	"time"
)

func readFrame(t *testing.T, ch <-chan []byte) Payload {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for a frame")
		}
		var payload Payload
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("invalid frame %q: %v", data, err)
		}
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return Payload{}
	}
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(time.Hour)

	a := hub.Register("a")
	b := hub.Register("b")
	defer hub.Unregister("a")
	defer hub.Unregister("b")

	hub.Broadcast(Payload{Type: "created", EventID: "e1"})

	for _, ch := range []<-chan []byte{a, b} {
		frame := readFrame(t, ch)
		if frame.Type != "created" || frame.EventID != "e1" {
			t.Errorf("unexpected frame: %+v", frame)
		}
	}
}

func TestSlowClientIsPruned(t *testing.T) {
	hub := NewHub(time.Hour)

	fast := hub.Register("fast")
	hub.Register("slow") // never read
	defer hub.Unregister("fast")

	// Overflow the slow client's buffer while draining the fast one.
	for i := 0; i <= clientBuffer; i++ {
		hub.Broadcast(Payload{Type: "updated"})
		readFrame(t, fast)
	}

	if count := hub.ClientCount(); count != 1 {
		t.Errorf("expected the slow client to be dropped, have %d clients", count)
	}
}

func TestPingRunsOnlyWhileClientsConnected(t *testing.T) {
	hub := NewHub(20 * time.Millisecond)

	if hub.stopPing != nil {
		t.Fatal("ping ticker must not run with zero clients")
	}

	ch := hub.Register("a")
	frame := readFrame(t, ch)
	if frame.Type != "ping" {
		t.Errorf("expected a ping frame, got %+v", frame)
	}
	if frame.At == 0 {
		t.Error("expected the ping frame to carry a timestamp")
	}

	hub.Unregister("a")

	hub.mu.Lock()
	stopped := hub.stopPing == nil
	hub.mu.Unlock()
	if !stopped {
		t.Error("expected the ping ticker to stop with the last client")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub(time.Hour)

	hub.Register("a")
	hub.Unregister("a")
	hub.Unregister("a")

	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expected 0 clients, got %d", count)
	}

	// A broadcast with nobody connected must not panic.
	hub.Broadcast(Payload{Type: "deleted", EventID: "gone"})
}
