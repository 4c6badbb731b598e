package sse

import (
	"github.com/cuentix/inventory_api/internal/notify"
)

// Notifier fans one operation outcome out to the durable drain queue and to
// any live SSE connections the user has open.
type Notifier struct {
	queue *notify.Queue
	hub   *Hub
}

// NewNotifier creates a notifier backed by the given queue and hub.
func NewNotifier(queue *notify.Queue, hub *Hub) *Notifier {
	return &Notifier{queue: queue, hub: hub}
}

// Error records a failure outcome for the user.
func (n *Notifier) Error(user, message string) notify.Event {
	return n.push(user, notify.LevelError, message)
}

// Success records a success outcome for the user.
func (n *Notifier) Success(user, message string) notify.Event {
	return n.push(user, notify.LevelSuccess, message)
}

func (n *Notifier) push(user string, level notify.Level, message string) notify.Event {
	ev := n.queue.Push(user, level, message)
	if n.hub.ClientCount() > 0 {
		n.hub.SendToUser(user, ev)
	}
	return ev
}
