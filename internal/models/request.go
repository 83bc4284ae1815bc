package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusAssigned   RequestStatus = "assigned"
	RequestStatusInProgress RequestStatus = "in-progress"
	RequestStatusCompleted  RequestStatus = "completed"
)

// EmergencyRequest is the central dispatch entity. The descriptive payload is
// immutable after creation; only status, driver binding, rating and the chat
// log change over its lifetime.
type EmergencyRequest struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RequesterID    primitive.ObjectID  `json:"requester_id" bson:"requester_id" validate:"required"`
	PatientName    string              `json:"patient_name" bson:"patient_name" validate:"required"`
	PatientAge     string              `json:"patient_age" bson:"patient_age" validate:"required"`
	Location       string              `json:"location" bson:"location" validate:"required"`
	EmergencyType  string              `json:"emergency_type" bson:"emergency_type" validate:"required"`
	AdditionalInfo string              `json:"additional_info" bson:"additional_info"`
	Status         RequestStatus       `json:"status" bson:"status" default:"pending"`
	DriverID       *primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	Rating         *int                `json:"rating" bson:"rating"`
	Feedback       string              `json:"feedback" bson:"feedback"`
	ChatHistory    []ChatMessage       `json:"chat_history" bson:"chat_history"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
	AssignedAt     *time.Time          `json:"assigned_at" bson:"assigned_at"`
	StartedAt      *time.Time          `json:"started_at" bson:"started_at"`
	CompletedAt    *time.Time          `json:"completed_at" bson:"completed_at"`
	RatedAt        *time.Time          `json:"rated_at" bson:"rated_at"`
}

// ChatMessage lives only inside its parent request's chat_history and is
// immutable once appended.
type ChatMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"id"`
	SenderID  primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	Text      string             `json:"text" bson:"text"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// nextStatus encodes the strictly linear lifecycle. completed has no
// successor.
var nextStatus = map[RequestStatus]RequestStatus{
	RequestStatusPending:    RequestStatusAssigned,
	RequestStatusAssigned:   RequestStatusInProgress,
	RequestStatusInProgress: RequestStatusCompleted,
}

// CanTransition reports whether from -> to is a legal single step. There are
// no skip transitions, no cycles and no cancellation path.
func CanTransition(from, to RequestStatus) bool {
	next, ok := nextStatus[from]
	return ok && next == to
}

// NextStatus returns the sole successor of from, if it has one.
func NextStatus(from RequestStatus) (RequestStatus, bool) {
	next, ok := nextStatus[from]
	return next, ok
}

// IsValidStatus reports whether s is one of the four lifecycle states.
func IsValidStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusAssigned, RequestStatusInProgress, RequestStatusCompleted:
		return true
	}
	return false
}

// HasDriver reports whether a driver is bound. The store keeps the invariant
// that this is true exactly when the request has left pending.
func (r *EmergencyRequest) HasDriver() bool {
	return r.DriverID != nil && !r.DriverID.IsZero()
}

// IsParticipant reports whether id is the requester or the assigned driver,
// the only principals allowed in the request's chat.
func (r *EmergencyRequest) IsParticipant(id primitive.ObjectID) bool {
	if r.RequesterID == id {
		return true
	}
	return r.HasDriver() && *r.DriverID == id
}
