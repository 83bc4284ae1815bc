package services

import (
	"context"
	"math"

	"swiftaid/internal/models"
	"swiftaid/internal/repositories/interfaces"
)

// DashboardStats is the admin dashboard projection: pure counts and
// averages over the current snapshot, recomputed on every call. Nothing here
// is cached or incrementally maintained.
type DashboardStats struct {
	TotalRequests     int64   `json:"total_requests"`
	PendingRequests   int64   `json:"pending_requests"`
	AssignedRequests  int64   `json:"assigned_requests"`
	ActiveRequests    int64   `json:"active_requests"`
	CompletedRequests int64   `json:"completed_requests"`
	CompletionRate    float64 `json:"completion_rate"`
	AverageRating     float64 `json:"average_rating"`
	RatedRequests     int64   `json:"rated_requests"`
	TotalDrivers      int     `json:"total_drivers"`
	AvailableDrivers  int     `json:"available_drivers"`
	DriverUtilization float64 `json:"driver_utilization"`
}

type StatsService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	requestRepo interfaces.RequestRepository
	userRepo    interfaces.UserRepository
}

func NewStatsService(requestRepo interfaces.RequestRepository, userRepo interfaces.UserRepository) StatsService {
	return &statsService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

func (s *statsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		PendingRequests:   counts[models.RequestStatusPending],
		AssignedRequests:  counts[models.RequestStatusAssigned],
		ActiveRequests:    counts[models.RequestStatusInProgress],
		CompletedRequests: counts[models.RequestStatusCompleted],
	}
	stats.TotalRequests = stats.PendingRequests + stats.AssignedRequests + stats.ActiveRequests + stats.CompletedRequests

	if stats.TotalRequests > 0 {
		stats.CompletionRate = round2(float64(stats.CompletedRequests) / float64(stats.TotalRequests) * 100)
	}

	// Average rating walks the completed set; rated requests are a subset.
	completed, _, err := s.requestRepo.List(ctx, models.RequestStatusCompleted, 0, 0)
	if err != nil {
		return nil, err
	}
	var ratingSum int64
	for _, req := range completed {
		if req.Rating != nil {
			ratingSum += int64(*req.Rating)
			stats.RatedRequests++
		}
	}
	if stats.RatedRequests > 0 {
		stats.AverageRating = round2(float64(ratingSum) / float64(stats.RatedRequests))
	}

	drivers, err := s.userRepo.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalDrivers = len(drivers)
	for _, d := range drivers {
		if d.IsEligible() {
			stats.AvailableDrivers++
		}
	}
	if stats.TotalDrivers > 0 {
		busy := stats.TotalDrivers - stats.AvailableDrivers
		stats.DriverUtilization = round2(float64(busy) / float64(stats.TotalDrivers) * 100)
	}

	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
