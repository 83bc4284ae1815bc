package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub fans request lifecycle events out to connected clients. Rooms group
// subscribers: one room per request, one per user, one shared drivers room.
// Consumers subscribe instead of polling.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
}

type Message struct {
	Type      string                 `json:"type"`
	RoomID    string                 `json:"room_id,omitempty"`
	UserID    primitive.ObjectID     `json:"user_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastAll(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true

	// Every client gets a personal room; drivers additionally share one.
	h.joinRoom(client, userRoom(client.UserID))
	if client.UserRole == "driver" {
		h.joinRoom(client, driversRoom)
	}

	h.sendToClient(client, Message{
		Type:      "welcome",
		UserID:    client.UserID,
		Timestamp: getCurrentTimestamp(),
		Data: map[string]interface{}{
			"message": "Connected successfully",
		},
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	for room := range client.rooms {
		h.leaveRoom(client, room)
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) joinRoom(client *Client, room string) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
}

func (h *Hub) leaveRoom(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// JoinRequestRoom subscribes a client to a request's event stream.
func (h *Hub) JoinRequestRoom(client *Client, requestID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.joinRoom(client, requestRoom(requestID))
}

func (h *Hub) LeaveRequestRoom(client *Client, requestID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.leaveRoom(client, requestRoom(requestID))
}

// BroadcastToRoom delivers a message to every member of a room. Slow
// clients are dropped rather than blocking the hub. Sends happen under the
// read lock and send channels are only closed under the write lock (by the
// Run loop via unregisterClient), so a send can never race a close.
func (h *Hub) BroadcastToRoom(room string, message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("failed to marshal hub message: %v", err)
		return
	}

	h.mutex.RLock()
	var slow []*Client
	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range slow {
		h.unregister <- client
	}
}

func (h *Hub) broadcastAll(data []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
		}
	}
}

func (h *Hub) sendToClient(client *Client, message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	select {
	case client.send <- data:
	default:
	}
}

const driversRoom = "drivers"

func requestRoom(id string) string {
	return "request_" + id
}

func userRoom(id primitive.ObjectID) string {
	return "user_" + id.Hex()
}

func getCurrentTimestamp() int64 {
	return time.Now().UnixMilli()
}
