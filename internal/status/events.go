package status

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// EventsHandler streams progress events over WebSocket
type EventsHandler struct {
	tracker *Tracker
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(tracker *Tracker) *EventsHandler {
	return &EventsHandler{tracker: tracker}
}

// Handle pushes progress events to a connected client until it disconnects
func (h *EventsHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	subscriberID := uuid.New().String()
	events, cancel := h.tracker.Subscribe()
	defer cancel()

	log.Printf("WebSocket subscriber connected: %s", subscriberID)

	// Send the current snapshot first so late joiners see the full state
	if err := c.WriteJSON(h.tracker.Snapshot()); err != nil {
		log.Printf("WebSocket write error: %v", err)
		return
	}

	// Drain reads so close frames from the client are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			log.Printf("WebSocket subscriber disconnected: %s", subscriberID)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}
}
