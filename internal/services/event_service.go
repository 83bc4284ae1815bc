package services

import (
	"context"

	"swiftaid/internal/utils"
	"swiftaid/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// eventPublisher decorates a Notifier: every event still reaches the
// websocket hub, and is mirrored onto a Redis channel so consumers outside
// this process (other instances, audit tooling) see the same change stream.
// Publishing is best effort; a Redis outage never blocks a transition.
type eventPublisher struct {
	next   Notifier
	cache  CacheService
	logger *logger.Logger
}

func NewEventPublisher(next Notifier, cache CacheService, log *logger.Logger) Notifier {
	return &eventPublisher{
		next:   next,
		cache:  cache,
		logger: log,
	}
}

func (p *eventPublisher) NotifyRequest(requestID primitive.ObjectID, event string, data map[string]interface{}) {
	p.next.NotifyRequest(requestID, event, data)
	p.publish(event, map[string]interface{}{
		"scope":      "request",
		"request_id": requestID.Hex(),
		"data":       data,
	})
}

func (p *eventPublisher) NotifyUser(userID primitive.ObjectID, event string, data map[string]interface{}) {
	p.next.NotifyUser(userID, event, data)
	p.publish(event, map[string]interface{}{
		"scope":   "user",
		"user_id": userID.Hex(),
		"data":    data,
	})
}

func (p *eventPublisher) NotifyDrivers(event string, data map[string]interface{}) {
	p.next.NotifyDrivers(event, data)
	p.publish(event, map[string]interface{}{
		"scope": "drivers",
		"data":  data,
	})
}

func (p *eventPublisher) publish(event string, payload map[string]interface{}) {
	payload["event"] = event
	if err := p.cache.Publish(context.Background(), utils.EventsChannel, payload); err != nil {
		p.logger.WithError(err).WithField("event", event).Warn("failed to publish change event")
	}
}
