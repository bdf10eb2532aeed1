package stub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/TopTalentDev/tutor-booking/middleware"
	"github.com/TopTalentDev/tutor-booking/realtime"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type pushRequest struct {
	users []uuid.UUID
	event realtime.Event
}

// Hub tracks connected websocket clients and pushes events to them by user
// id. One Run loop owns the client map.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	push       chan pushRequest

	mu      sync.RWMutex
	clients map[uuid.UUID]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan pushRequest, 16),
		clients:    make(map[uuid.UUID]*websocket.Conn),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Client registered: %s", client.UserID)
			h.mu.Lock()
			h.clients[client.UserID] = client.Conn
			h.mu.Unlock()
		case client := <-h.unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			h.mu.Lock()
			if conn, ok := h.clients[client.UserID]; ok && conn == client.Conn {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
		case req := <-h.push:
			h.mu.RLock()
			for _, userID := range req.users {
				conn, ok := h.clients[userID]
				if !ok {
					continue
				}
				if err := conn.WriteJSON(req.event); err != nil {
					log.Printf("Error pushing event to client %s: %v", userID, err)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Push queues an event for each of the given users.
func (h *Hub) Push(users []uuid.UUID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error encoding %s event: %v", eventType, err)
		return
	}
	h.push <- pushRequest{users: users, event: realtime.Event{Type: eventType, Data: data}}
}

// ServeWs handles one websocket client: first frame must be an auth event
// carrying a valid token, after which the connection is registered and
// inbound advisory events are logged until it drops.
func (h *Hub) ServeWs(c *websocket.Conn) {
	var first realtime.Event
	if err := c.ReadJSON(&first); err != nil || first.Type != realtime.EventAuth {
		log.Printf("WebSocket auth failed: invalid or missing auth message: %v", err)
		_ = c.WriteJSON(map[string]string{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	var auth realtime.AuthPayload
	if err := json.Unmarshal(first.Data, &auth); err != nil {
		_ = c.WriteJSON(map[string]string{"error": "Invalid auth payload"})
		c.Close()
		return
	}

	claims, err := middleware.ParseToken(auth.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token: %v", err)
		_ = c.WriteJSON(map[string]string{"error": "Invalid token"})
		c.Close()
		return
	}

	raw, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		_ = c.WriteJSON(map[string]string{"error": "Invalid user ID"})
		c.Close()
		return
	}

	client := &Client{UserID: userID, Conn: c}
	h.register <- client
	defer func() {
		h.unregister <- client
		c.Close()
	}()

	for {
		var ev realtime.Event
		if err := c.ReadJSON(&ev); err != nil {
			return
		}
		switch ev.Type {
		case realtime.EventBookingPending, realtime.EventBookingCancel:
			// Advisory only, no acknowledgement.
			log.Printf("Received %s from %s", ev.Type, userID)
		default:
			log.Printf("Ignoring unexpected %s event from %s", ev.Type, userID)
		}
	}
}
