package services

import (
	"context"
	"testing"

	"swiftaid/internal/models"
)

func TestDashboardStatsEmptySnapshot(t *testing.T) {
	stats, err := NewStatsService(newFakeRequestRepo(), newFakeUserRepo()).GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if stats.TotalRequests != 0 || stats.CompletionRate != 0 || stats.AverageRating != 0 {
		t.Errorf("empty snapshot produced non-zero stats: %+v", stats)
	}
}

func TestDashboardStatsCountsAndAverages(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	userRepo := newFakeUserRepo()
	notifier := &fakeNotifier{}
	log := testLogger()
	dispatch := NewDispatchService(requestRepo, userRepo, notifier, log)
	ctx := context.Background()

	userID := userRepo.addUser(models.UserRoleUser)
	driverA := userRepo.addUser(models.UserRoleDriver)
	driverB := userRepo.addUser(models.UserRoleDriver)

	input := &CreateRequestInput{
		PatientName:   "Jane Doe",
		PatientAge:    "34",
		Location:      "CBD",
		EmergencyType: "Cardiac Arrest",
	}

	// one pending
	if _, err := dispatch.CreateRequest(ctx, userID, input); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	// one in progress, keeps driverA on schedule
	active, err := dispatch.CreateRequest(ctx, userID, input)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	dispatch.AssignDriver(ctx, active.ID, driverA)
	dispatch.StartJob(ctx, active.ID, driverA)

	// two completed, ratings 4 and 5
	for _, rating := range []int{4, 5} {
		request, err := dispatch.CreateRequest(ctx, userID, input)
		if err != nil {
			t.Fatalf("CreateRequest: %v", err)
		}
		dispatch.AssignDriver(ctx, request.ID, driverB)
		dispatch.StartJob(ctx, request.ID, driverB)
		dispatch.CompleteJob(ctx, request.ID, driverB)
		if _, err := dispatch.RateService(ctx, request.ID, userID, rating, "ok"); err != nil {
			t.Fatalf("RateService: %v", err)
		}
	}

	stats, err := NewStatsService(requestRepo, userRepo).GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}

	if stats.TotalRequests != 4 {
		t.Errorf("TotalRequests = %d, want 4", stats.TotalRequests)
	}
	if stats.PendingRequests != 1 || stats.ActiveRequests != 1 || stats.CompletedRequests != 2 {
		t.Errorf("status counts = %d/%d/%d, want 1/1/2", stats.PendingRequests, stats.ActiveRequests, stats.CompletedRequests)
	}
	if stats.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", stats.CompletionRate)
	}
	if stats.RatedRequests != 2 || stats.AverageRating != 4.5 {
		t.Errorf("ratings = %d avg %v, want 2 avg 4.5", stats.RatedRequests, stats.AverageRating)
	}
	if stats.TotalDrivers != 2 {
		t.Errorf("TotalDrivers = %d, want 2", stats.TotalDrivers)
	}
	// driverA is mid-job and ineligible, driverB came back after completion
	if stats.AvailableDrivers != 1 {
		t.Errorf("AvailableDrivers = %d, want 1", stats.AvailableDrivers)
	}
	if stats.DriverUtilization != 50 {
		t.Errorf("DriverUtilization = %v, want 50", stats.DriverUtilization)
	}
}
