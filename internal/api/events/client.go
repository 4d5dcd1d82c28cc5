package events

import (
	"net/http"
	"time"

	"github.com/mcoot/triviagame/internal/model"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected event stream client
type Client struct {
	hub         *Hub
	playerID    model.UserID // Empty for spectators
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new event stream client
func NewClient(hub *Hub, playerID model.UserID) *Client {
	return &Client{
		hub:         hub,
		playerID:    playerID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Serve subscribes to the game's hub and streams its messages until the
// request ends or the hub closes
func Serve(w http.ResponseWriter, r *http.Request, manager *HubManager, gameID model.GameID, playerID model.UserID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := manager.Subscribe(gameID, playerID)
	defer client.hub.Unregister(client)

	_, _ = w.Write(formatMessage("connected", `{"game_id":"`+string(gameID)+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
