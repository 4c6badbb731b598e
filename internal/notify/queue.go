package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level marks the outcome an event reports.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Event is one toast-bound notification. Every event carries a correlation
// id so concurrent operations can never clobber each other's outcome.
type Event struct {
	CorrelationID string    `json:"correlationId"`
	Level         Level     `json:"level"`
	Message       string    `json:"message"`
	At            time.Time `json:"at"`
}

// Queue is a bounded ordered per-user notification queue. It replaces a
// single overwritable slot: producers append, consumers drain in order.
type Queue struct {
	mu     sync.Mutex
	byUser map[string][]Event
	limit  int
}

// NewQueue constructs a Queue keeping at most limit events per user; when
// full, the oldest event is dropped.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 50
	}
	return &Queue{
		byUser: make(map[string][]Event),
		limit:  limit,
	}
}

// Push appends an event for the user and returns it.
func (q *Queue) Push(user string, level Level, message string) Event {
	ev := Event{
		CorrelationID: uuid.New().String()[:8],
		Level:         level,
		Message:       message,
		At:            time.Now(),
	}
	q.mu.Lock()
	events := append(q.byUser[user], ev)
	if len(events) > q.limit {
		events = events[len(events)-q.limit:]
	}
	q.byUser[user] = events
	q.mu.Unlock()
	return ev
}

// Error is shorthand for pushing an error-level event.
func (q *Queue) Error(user, message string) Event {
	return q.Push(user, LevelError, message)
}

// Success is shorthand for pushing a success-level event.
func (q *Queue) Success(user, message string) Event {
	return q.Push(user, LevelSuccess, message)
}

// Drain returns the user's pending events in arrival order and removes
// them; each event is consumed exactly once.
func (q *Queue) Drain(user string) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.byUser[user]
	delete(q.byUser, user)
	return events
}
