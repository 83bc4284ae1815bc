package services

import (
	"context"
	"fmt"
	"time"

	"swiftaid/internal/models"
	"swiftaid/internal/repositories/interfaces"
	"swiftaid/internal/utils"
	"swiftaid/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier pushes request lifecycle events to connected clients. It replaces
// polling on the consumer side; delivery is best effort and never blocks a
// transition.
type Notifier interface {
	NotifyRequest(requestID primitive.ObjectID, event string, data map[string]interface{})
	NotifyUser(userID primitive.ObjectID, event string, data map[string]interface{})
	NotifyDrivers(event string, data map[string]interface{})
}

type CreateRequestInput struct {
	PatientName    string
	PatientAge     string
	Location       string
	EmergencyType  string
	AdditionalInfo string
}

// DispatchService is the assignment engine: it owns every status and
// driver-binding write and enforces the linear lifecycle at its boundary.
// No other code path writes status or driver_id.
type DispatchService interface {
	CreateRequest(ctx context.Context, requesterID primitive.ObjectID, input *CreateRequestInput) (*models.EmergencyRequest, error)
	AssignDriver(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.EmergencyRequest, error)
	StartJob(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.EmergencyRequest, error)
	CompleteJob(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.EmergencyRequest, error)
	RateService(ctx context.Context, requestID, requesterID primitive.ObjectID, rating int, feedback string) (*models.EmergencyRequest, error)

	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyRequest, error)
	ListRequests(ctx context.Context, status models.RequestStatus, limit, offset int64) ([]*models.EmergencyRequest, int64, error)
	ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.EmergencyRequest, error)
	ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.EmergencyRequest, error)
}

type dispatchService struct {
	requestRepo interfaces.RequestRepository
	userRepo    interfaces.UserRepository
	notifier    Notifier
	logger      *logger.Logger
}

func NewDispatchService(requestRepo interfaces.RequestRepository, userRepo interfaces.UserRepository, notifier Notifier, log *logger.Logger) DispatchService {
	return &dispatchService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      log,
	}
}

func (s *dispatchService) CreateRequest(ctx context.Context, requesterID primitive.ObjectID, input *CreateRequestInput) (*models.EmergencyRequest, error) {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester.Role != models.UserRoleUser {
		return nil, fmt.Errorf("only users can submit emergency requests: %w", utils.ErrForbidden)
	}

	request := &models.EmergencyRequest{
		RequesterID:    requesterID,
		PatientName:    input.PatientName,
		PatientAge:     input.PatientAge,
		Location:       input.Location,
		EmergencyType:  input.EmergencyType,
		AdditionalInfo: input.AdditionalInfo,
		ChatHistory:    []models.ChatMessage{},
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.WithRequestID(request.ID).WithUserID(requesterID).Info("emergency request created")

	s.notifier.NotifyDrivers("request_created", map[string]interface{}{
		"request_id":     request.ID.Hex(),
		"emergency_type": request.EmergencyType,
		"location":       request.Location,
	})

	return request, nil
}

// AssignDriver binds the administrator's chosen driver to a pending request.
// The driver must resolve to an existing driver profile; the status write is
// a compare-and-set on pending, so two admins racing on the same request
// produce exactly one binding.
func (s *dispatchService) AssignDriver(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.EmergencyRequest, error) {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.IsDriver() {
		return nil, fmt.Errorf("user %s is not a driver: %w", driverID.Hex(), utils.ErrNotFound)
	}

	err = s.advance(ctx, requestID, models.RequestStatusPending, map[string]interface{}{
		"driver_id":   driverID,
		"assigned_at": time.Now(),
	})
	if err != nil {
		return nil, err
	}

	// Strengthening over the original: mark the driver on schedule so they
	// drop out of the eligible pool until the job completes.
	if err := s.userRepo.SetOnSchedule(ctx, driverID, true); err != nil {
		s.logger.WithError(err).WithUserID(driverID).Warn("failed to mark driver on schedule")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.logger.WithRequestID(requestID).WithUserID(driverID).Info("driver assigned")

	s.notifier.NotifyRequest(requestID, "driver_assigned", map[string]interface{}{
		"request_id":  requestID.Hex(),
		"driver_id":   driverID.Hex(),
		"driver_name": driver.Name,
	})
	s.notifier.NotifyUser(driverID, "job_assigned", map[string]interface{}{
		"request_id": requestID.Hex(),
	})

	return request, nil
}

func (s *dispatchService) StartJob(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.EmergencyRequest, error) {
	if err := s.requireAssignedDriver(ctx, requestID, driverID); err != nil {
		return nil, err
	}

	err := s.advance(ctx, requestID, models.RequestStatusAssigned, map[string]interface{}{
		"started_at": time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithRequestID(requestID).Info("job started")

	return s.finishTransition(ctx, requestID, models.RequestStatusInProgress)
}

func (s *dispatchService) CompleteJob(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.EmergencyRequest, error) {
	if err := s.requireAssignedDriver(ctx, requestID, driverID); err != nil {
		return nil, err
	}

	err := s.advance(ctx, requestID, models.RequestStatusInProgress, map[string]interface{}{
		"completed_at": time.Now(),
	})
	if err != nil {
		return nil, err
	}

	// Return the driver to the eligible pool.
	if err := s.userRepo.SetOnSchedule(ctx, driverID, false); err != nil {
		s.logger.WithError(err).WithUserID(driverID).Warn("failed to release driver schedule")
	}

	s.logger.WithRequestID(requestID).Info("job completed")

	return s.finishTransition(ctx, requestID, models.RequestStatusCompleted)
}

// RateService stores one-shot feedback on a completed request. The original
// allows overwriting; that is kept, last write wins.
func (s *dispatchService) RateService(ctx context.Context, requestID, requesterID primitive.ObjectID, rating int, feedback string) (*models.EmergencyRequest, error) {
	if rating < utils.MinRating || rating > utils.MaxRating {
		return nil, fmt.Errorf("rating must be between %d and %d: %w", utils.MinRating, utils.MaxRating, utils.ErrValidationFailed)
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != requesterID {
		return nil, fmt.Errorf("only the requester can rate this request: %w", utils.ErrForbidden)
	}

	if err := s.requestRepo.SetRating(ctx, requestID, rating, feedback); err != nil {
		return nil, err
	}

	s.logger.WithRequestID(requestID).WithField("rating", rating).Info("service rated")

	return s.requestRepo.GetByID(ctx, requestID)
}

func (s *dispatchService) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *dispatchService) ListRequests(ctx context.Context, status models.RequestStatus, limit, offset int64) ([]*models.EmergencyRequest, int64, error) {
	if status != "" && !models.IsValidStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q: %w", status, utils.ErrValidationFailed)
	}
	return s.requestRepo.List(ctx, status, limit, offset)
}

func (s *dispatchService) ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.EmergencyRequest, error) {
	return s.requestRepo.ListByRequester(ctx, requesterID)
}

func (s *dispatchService) ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.EmergencyRequest, error) {
	return s.requestRepo.ListByDriver(ctx, driverID)
}

// advance moves the request one step along the lifecycle. The successor is
// derived from the models transition table so the engine cannot drift from it.
func (s *dispatchService) advance(ctx context.Context, requestID primitive.ObjectID, from models.RequestStatus, extra map[string]interface{}) error {
	next, ok := models.NextStatus(from)
	if !ok {
		return fmt.Errorf("status %s has no successor: %w", from, utils.ErrInvalidTransition)
	}
	return s.requestRepo.UpdateStatus(ctx, requestID, from, next, extra)
}

// requireAssignedDriver rejects lifecycle calls from anyone but the bound
// driver. The subsequent CAS still guards the status itself.
func (s *dispatchService) requireAssignedDriver(ctx context.Context, requestID, driverID primitive.ObjectID) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !request.HasDriver() || *request.DriverID != driverID {
		return fmt.Errorf("request %s is not assigned to driver %s: %w", requestID.Hex(), driverID.Hex(), utils.ErrForbidden)
	}
	return nil
}

func (s *dispatchService) finishTransition(ctx context.Context, requestID primitive.ObjectID, status models.RequestStatus) (*models.EmergencyRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyRequest(requestID, "status_changed", map[string]interface{}{
		"request_id": requestID.Hex(),
		"status":     string(status),
	})

	return request, nil
}
