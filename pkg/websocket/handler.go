package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
}

// Handler owns the hub and doubles as the dispatch engine's notifier: the
// Notify methods satisfy the services.Notifier interface.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(config *Config) *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     originChecker(config.AllowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, a := range allowed {
			if a == origin {
				return true
			}
		}
		return false
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userRole, exists := c.Get("user_role")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	userRoleStr, ok := userRole.(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user role"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, userObjectID, userRoleStr)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// NotifyRequest delivers an event to everyone watching a request.
func (h *Handler) NotifyRequest(requestID primitive.ObjectID, event string, data map[string]interface{}) {
	h.hub.BroadcastToRoom(requestRoom(requestID.Hex()), Message{
		Type:      event,
		RoomID:    requestRoom(requestID.Hex()),
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}

// NotifyUser delivers an event to a single principal's personal room.
func (h *Handler) NotifyUser(userID primitive.ObjectID, event string, data map[string]interface{}) {
	h.hub.BroadcastToRoom(userRoom(userID), Message{
		Type:      event,
		UserID:    userID,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}

// NotifyDrivers delivers an event to the shared drivers room.
func (h *Handler) NotifyDrivers(event string, data map[string]interface{}) {
	h.hub.BroadcastToRoom(driversRoom, Message{
		Type:      event,
		RoomID:    driversRoom,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}
