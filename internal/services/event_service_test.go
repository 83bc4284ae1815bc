package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"swiftaid/internal/models"
	"swiftaid/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type publishedEvent struct {
	channel string
	payload map[string]interface{}
}

// fakeCache records published change events; reads always miss.
type fakeCache struct {
	mu          sync.Mutex
	published   []publishedEvent
	failPublish bool
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errCacheMiss{}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (f *fakeCache) Publish(ctx context.Context, channel string, payload interface{}) error {
	if f.failPublish {
		return errors.New("connection refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, _ := payload.(map[string]interface{})
	f.published = append(f.published, publishedEvent{channel: channel, payload: m})
	return nil
}

func (f *fakeCache) IsNotFound(err error) bool {
	_, ok := err.(errCacheMiss)
	return ok
}

func (f *fakeCache) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, p := range f.published {
		if event, ok := p.payload["event"].(string); ok {
			out = append(out, event)
		}
	}
	return out
}

func (f *fakeCache) hasEvent(event string) bool {
	for _, e := range f.events() {
		if e == event {
			return true
		}
	}
	return false
}

func TestEventPublisherMirrorsToRedis(t *testing.T) {
	inner := &fakeNotifier{}
	cache := &fakeCache{}
	publisher := NewEventPublisher(inner, cache, testLogger())

	requestID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	publisher.NotifyRequest(requestID, "status_changed", map[string]interface{}{"status": "assigned"})
	publisher.NotifyUser(userID, "job_assigned", nil)
	publisher.NotifyDrivers("request_created", nil)

	// the hub still sees every event
	for _, event := range []string{"status_changed", "job_assigned", "request_created"} {
		if !inner.has(event) {
			t.Errorf("inner notifier missing %q", event)
		}
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()
	if len(cache.published) != 3 {
		t.Fatalf("published %d events, want 3", len(cache.published))
	}
	for _, p := range cache.published {
		if p.channel != utils.EventsChannel {
			t.Errorf("channel = %q, want %q", p.channel, utils.EventsChannel)
		}
	}
	first := cache.published[0].payload
	if first["event"] != "status_changed" || first["scope"] != "request" || first["request_id"] != requestID.Hex() {
		t.Errorf("request event payload = %v", first)
	}
	if cache.published[1].payload["scope"] != "user" || cache.published[2].payload["scope"] != "drivers" {
		t.Errorf("scopes = %v / %v", cache.published[1].payload["scope"], cache.published[2].payload["scope"])
	}
}

func TestEventPublisherSurvivesRedisOutage(t *testing.T) {
	inner := &fakeNotifier{}
	publisher := NewEventPublisher(inner, &fakeCache{failPublish: true}, testLogger())

	publisher.NotifyDrivers("request_created", nil)

	if !inner.has("request_created") {
		t.Error("hub delivery must not depend on the Redis channel")
	}
}

func TestLifecycleEventsReachChangeChannel(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	userRepo := newFakeUserRepo()
	cache := &fakeCache{}
	notifier := NewEventPublisher(&fakeNotifier{}, cache, testLogger())
	engine := NewDispatchService(requestRepo, userRepo, notifier, testLogger())
	ctx := context.Background()

	userID := userRepo.addUser(models.UserRoleUser)
	driverID := userRepo.addUser(models.UserRoleDriver)

	request, err := engine.CreateRequest(ctx, userID, &CreateRequestInput{
		PatientName:   "Jane Doe",
		PatientAge:    "34",
		Location:      "CBD",
		EmergencyType: "Cardiac Arrest",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if _, err := engine.AssignDriver(ctx, request.ID, driverID); err != nil {
		t.Fatalf("AssignDriver: %v", err)
	}
	if _, err := engine.StartJob(ctx, request.ID, driverID); err != nil {
		t.Fatalf("StartJob: %v", err)
	}

	for _, event := range []string{"request_created", "driver_assigned", "status_changed"} {
		if !cache.hasEvent(event) {
			t.Errorf("change channel missing %q, got %v", event, cache.events())
		}
	}
}
