package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{"pending to assigned", RequestStatusPending, RequestStatusAssigned, true},
		{"assigned to in-progress", RequestStatusAssigned, RequestStatusInProgress, true},
		{"in-progress to completed", RequestStatusInProgress, RequestStatusCompleted, true},
		{"pending skips to in-progress", RequestStatusPending, RequestStatusInProgress, false},
		{"pending skips to completed", RequestStatusPending, RequestStatusCompleted, false},
		{"assigned skips to completed", RequestStatusAssigned, RequestStatusCompleted, false},
		{"no backwards step", RequestStatusAssigned, RequestStatusPending, false},
		{"no restart from completed", RequestStatusCompleted, RequestStatusPending, false},
		{"completed is terminal", RequestStatusCompleted, RequestStatusAssigned, false},
		{"no self loop", RequestStatusPending, RequestStatusPending, false},
		{"unknown source", RequestStatus("cancelled"), RequestStatusAssigned, false},
		{"unknown target", RequestStatusPending, RequestStatus("cancelled"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNextStatus(t *testing.T) {
	steps := map[RequestStatus]RequestStatus{
		RequestStatusPending:    RequestStatusAssigned,
		RequestStatusAssigned:   RequestStatusInProgress,
		RequestStatusInProgress: RequestStatusCompleted,
	}
	for from, want := range steps {
		next, ok := NextStatus(from)
		if !ok || next != want {
			t.Errorf("NextStatus(%q) = %q, %v; want %q, true", from, next, ok, want)
		}
		if !CanTransition(from, next) {
			t.Errorf("NextStatus and CanTransition disagree on %q -> %q", from, next)
		}
	}
	if _, ok := NextStatus(RequestStatusCompleted); ok {
		t.Error("completed must have no successor")
	}
	if _, ok := NextStatus(RequestStatus("cancelled")); ok {
		t.Error("unknown status must have no successor")
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []RequestStatus{RequestStatusPending, RequestStatusAssigned, RequestStatusInProgress, RequestStatusCompleted} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []RequestStatus{"", "cancelled", "Pending", "in_progress", "done"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestHasDriver(t *testing.T) {
	request := &EmergencyRequest{}
	if request.HasDriver() {
		t.Error("nil driver reported as bound")
	}

	zero := primitive.NilObjectID
	request.DriverID = &zero
	if request.HasDriver() {
		t.Error("zero driver id reported as bound")
	}

	id := primitive.NewObjectID()
	request.DriverID = &id
	if !request.HasDriver() {
		t.Error("bound driver not reported")
	}
}

func TestIsParticipant(t *testing.T) {
	requester := primitive.NewObjectID()
	driver := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	request := &EmergencyRequest{RequesterID: requester}
	if !request.IsParticipant(requester) {
		t.Error("requester not a participant")
	}
	if request.IsParticipant(driver) {
		t.Error("unassigned driver counted as participant")
	}

	request.DriverID = &driver
	if !request.IsParticipant(driver) {
		t.Error("assigned driver not a participant")
	}
	if request.IsParticipant(stranger) {
		t.Error("stranger counted as participant")
	}
}
