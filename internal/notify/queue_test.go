package notify

import (
	"fmt"
	"testing"
)

func TestQueue_PushAndDrainInOrder(t *testing.T) {
	q := NewQueue(10)
	q.Success("u1", "primera")
	q.Error("u1", "segunda")
	q.Success("u1", "tercera")

	events := q.Drain("u1")
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	wantMsgs := []string{"primera", "segunda", "tercera"}
	wantLevels := []Level{LevelSuccess, LevelError, LevelSuccess}
	for i, ev := range events {
		if ev.Message != wantMsgs[i] {
			t.Errorf("event %d: expected %q, got %q", i, wantMsgs[i], ev.Message)
		}
		if ev.Level != wantLevels[i] {
			t.Errorf("event %d: expected level %q, got %q", i, wantLevels[i], ev.Level)
		}
	}
}

func TestQueue_DrainEmptiesAndIsolatesUsers(t *testing.T) {
	q := NewQueue(10)
	q.Success("u1", "para u1")
	q.Success("u2", "para u2")

	if got := q.Drain("u1"); len(got) != 1 || got[0].Message != "para u1" {
		t.Fatalf("u1 drain wrong: %v", got)
	}
	if got := q.Drain("u1"); len(got) != 0 {
		t.Fatalf("second drain must be empty, got %d", len(got))
	}
	if got := q.Drain("u2"); len(got) != 1 || got[0].Message != "para u2" {
		t.Fatalf("u2 events must be untouched: %v", got)
	}
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue(3)
	for i := 1; i <= 5; i++ {
		q.Success("u1", fmt.Sprintf("msg-%d", i))
	}

	events := q.Drain("u1")
	if len(events) != 3 {
		t.Fatalf("expected 3 retained events, got %d", len(events))
	}
	for i, want := range []string{"msg-3", "msg-4", "msg-5"} {
		if events[i].Message != want {
			t.Errorf("event %d: expected %q, got %q", i, want, events[i].Message)
		}
	}
}

func TestQueue_CorrelationIDs(t *testing.T) {
	q := NewQueue(10)
	a := q.Success("u1", "uno")
	b := q.Success("u1", "dos")

	if len(a.CorrelationID) != 8 {
		t.Errorf("expected 8-char correlation id, got %q", a.CorrelationID)
	}
	if a.CorrelationID == b.CorrelationID {
		t.Error("correlation ids must differ per event")
	}
	if a.At.IsZero() {
		t.Error("event timestamp missing")
	}
}

func TestQueue_DefaultLimit(t *testing.T) {
	q := NewQueue(0)
	for i := 0; i < 60; i++ {
		q.Success("u1", "x")
	}
	if got := len(q.Drain("u1")); got != 50 {
		t.Fatalf("expected default limit 50, got %d", got)
	}
}
