package websocket

import (
	"context"

	"github.com/rs/zerolog/log"
)

type postMessage struct {
	postID  int64
	message []byte
}

// Hub maintains the set of active clients and fans comment events out to the
// clients watching each post. All map access happens on the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// A map of post IDs to the set of clients watching that post.
	subscriptions map[int64]map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	publish chan postMessage
	done    chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[int64]map[*Client]bool),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		publish:       make(chan postMessage, 64),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns when ctx is
// cancelled, after closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Int64("post_id", client.PostID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case msg := <-h.publish:
			h.broadcastTo(msg.postID, msg.message)
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			log.Info().Msg("Websocket hub stopped")
			return
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Publish sends an event to every client watching postID. It never blocks
// the caller once the hub has stopped.
func (h *Hub) Publish(postID int64, action string, payload interface{}) {
	message := NewMessage(action, payload)
	if message == nil {
		return
	}
	select {
	case h.publish <- postMessage{postID: postID, message: message}:
	case <-h.done:
	}
}

func (h *Hub) broadcastTo(postID int64, message []byte) {
	for client := range h.subscriptions[postID] {
		if !client.Enqueue(message) {
			log.Warn().Int64("post_id", postID).Msg("Dropping slow websocket client")
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.removeSubscription(client)
	client.close()
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.PostID] == nil {
		h.subscriptions[client.PostID] = make(map[*Client]bool)
	}
	h.subscriptions[client.PostID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	subs, ok := h.subscriptions[client.PostID]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscriptions, client.PostID)
	}
}
