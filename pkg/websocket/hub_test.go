package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func recvMessage(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal hub frame: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hub frame")
		return Message{}
	}
}

func TestBroadcastReachesRoomMembers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	member := NewClient(hub, nil, primitive.NewObjectID(), "user")
	outsider := NewClient(hub, nil, primitive.NewObjectID(), "user")
	hub.register <- member
	hub.register <- outsider
	if msg := recvMessage(t, member); msg.Type != "welcome" {
		t.Fatalf("first frame type = %q, want welcome", msg.Type)
	}
	recvMessage(t, outsider)

	hub.JoinRequestRoom(member, "req1")

	hub.BroadcastToRoom(requestRoom("req1"), Message{Type: "status_changed", Timestamp: getCurrentTimestamp()})

	if msg := recvMessage(t, member); msg.Type != "status_changed" {
		t.Errorf("frame type = %q, want status_changed", msg.Type)
	}
	if len(outsider.send) != 0 {
		t.Error("outsider received a room frame")
	}
}

func TestBroadcastDropsSlowClientSafely(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	fast := NewClient(hub, nil, primitive.NewObjectID(), "user")
	slow := NewClient(hub, nil, primitive.NewObjectID(), "user")
	hub.register <- fast
	hub.register <- slow
	recvMessage(t, fast)
	recvMessage(t, slow)

	hub.JoinRequestRoom(fast, "req2")
	hub.JoinRequestRoom(slow, "req2")

	// Fill the slow client's buffer so the next delivery cannot land.
	for len(slow.send) < cap(slow.send) {
		slow.send <- []byte(`{}`)
	}

	// Concurrent broadcasts must drop the slow client without panicking on
	// a send to its closed channel.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				hub.BroadcastToRoom(requestRoom("req2"), Message{Type: "status_changed", Timestamp: getCurrentTimestamp()})
			}
		}()
	}
	wg.Wait()

	// The hub loop closes the dropped client's channel once it drains the
	// backlog of undelivered frames.
	deadline := time.After(time.Second)
	for open := true; open; {
		select {
		case _, ok := <-slow.send:
			open = ok
		case <-deadline:
			t.Fatal("slow client was never dropped")
		}
	}

	if msg := recvMessage(t, fast); msg.Type != "status_changed" {
		t.Errorf("fast client frame type = %q, want status_changed", msg.Type)
	}

	hub.mutex.RLock()
	_, stillRegistered := hub.clients[slow]
	hub.mutex.RUnlock()
	if stillRegistered {
		t.Error("slow client still registered after drop")
	}
}
