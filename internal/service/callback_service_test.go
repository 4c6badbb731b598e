package service

import (
	"testing"
	"time"
)

func TestNextRetryTime_Backoff(t *testing.T) {
	svc := NewCallbackService(nil, nil, true)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 30 * time.Second},
		{1, time.Minute},
		{2, 5 * time.Minute},
		{3, 30 * time.Minute},
		{4, 2 * time.Hour},
	}
	for _, tc := range cases {
		next := svc.nextRetryTime(tc.attempt)
		if next.IsZero() {
			t.Fatalf("attempt %d: expected a retry time", tc.attempt)
		}
		got := time.Until(next)
		if got < tc.want-time.Second || got > tc.want+time.Second {
			t.Errorf("attempt %d: expected ~%v, got %v", tc.attempt, tc.want, got)
		}
	}
}

func TestNextRetryTime_ExhaustedAfterFiveAttempts(t *testing.T) {
	svc := NewCallbackService(nil, nil, true)
	for _, attempt := range []int{5, 6, 10} {
		if next := svc.nextRetryTime(attempt); !next.IsZero() {
			t.Errorf("attempt %d: expected no further retries, got %v", attempt, next)
		}
	}
}

func TestDeliverPending_DisabledIsNoop(t *testing.T) {
	svc := NewCallbackService(nil, nil, false)
	if err := svc.DeliverPending(t.Context()); err != nil {
		t.Fatalf("disabled service must be a no-op, got %v", err)
	}
}
