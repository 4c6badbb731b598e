package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/notify"
	"github.com/cuentix/inventory_api/internal/utils"
)

// NotificationHandler drains the per-user notification queue for clients
// without a live event stream.
type NotificationHandler struct {
	queue *notify.Queue
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(queue *notify.Queue) *NotificationHandler {
	return &NotificationHandler{queue: queue}
}

// Drain handles GET /v1/notifications. Returned events are removed from the
// queue; polling twice never replays a toast.
func (h *NotificationHandler) Drain(c *gin.Context) {
	events := h.queue.Drain(c.GetString("principal"))
	if events == nil {
		events = []notify.Event{}
	}
	utils.Success(c, 200, "Notifications drained", events)
}
