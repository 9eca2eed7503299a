package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/events"
)

type EventsHandler struct {
	broker events.Broker
}

func NewEventsHandler(broker events.Broker) *EventsHandler {
	return &EventsHandler{broker: broker}
}

// Stream pushes order events to the client over SSE. Delivery is best
// effort: a client that reconnects must re-fetch order lists, events
// missed while disconnected are not replayed.
func (h *EventsHandler) Stream(c *gin.Context) {
	sub, err := h.broker.Subscribe(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to subscribe to event stream"))
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(event.EventType, event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
