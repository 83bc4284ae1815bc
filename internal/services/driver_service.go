package services

import (
	"context"
	"fmt"

	"swiftaid/internal/models"
	"swiftaid/internal/repositories/interfaces"
	"swiftaid/internal/utils"
	"swiftaid/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverService covers driver self-service: the availability and schedule
// toggles and the free-text location update. The toggles are independent of
// job state; only the dispatch engine flips on_schedule automatically.
type DriverService interface {
	GetProfile(ctx context.Context, driverID primitive.ObjectID) (*models.User, error)
	SetAvailability(ctx context.Context, driverID primitive.ObjectID, available bool) error
	SetOnSchedule(ctx context.Context, driverID primitive.ObjectID, onSchedule bool) error
	SetLocation(ctx context.Context, driverID primitive.ObjectID, location string) error
	ListDrivers(ctx context.Context) ([]*models.User, error)
	ListAvailableDrivers(ctx context.Context) ([]*models.User, error)
}

type driverService struct {
	userRepo interfaces.UserRepository
	logger   *logger.Logger
}

func NewDriverService(userRepo interfaces.UserRepository, log *logger.Logger) DriverService {
	return &driverService{
		userRepo: userRepo,
		logger:   log,
	}
}

func (s *driverService) GetProfile(ctx context.Context, driverID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !user.IsDriver() {
		return nil, fmt.Errorf("user %s is not a driver: %w", driverID.Hex(), utils.ErrNotFound)
	}
	return user, nil
}

func (s *driverService) SetAvailability(ctx context.Context, driverID primitive.ObjectID, available bool) error {
	if err := s.userRepo.SetAvailability(ctx, driverID, available); err != nil {
		return err
	}
	s.logger.WithUserID(driverID).WithField("available", available).Info("driver availability updated")
	return nil
}

func (s *driverService) SetOnSchedule(ctx context.Context, driverID primitive.ObjectID, onSchedule bool) error {
	if err := s.userRepo.SetOnSchedule(ctx, driverID, onSchedule); err != nil {
		return err
	}
	s.logger.WithUserID(driverID).WithField("on_schedule", onSchedule).Info("driver schedule updated")
	return nil
}

func (s *driverService) SetLocation(ctx context.Context, driverID primitive.ObjectID, location string) error {
	if location == "" {
		return fmt.Errorf("location is empty: %w", utils.ErrValidationFailed)
	}
	return s.userRepo.SetLocation(ctx, driverID, location)
}

func (s *driverService) ListDrivers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListDrivers(ctx)
}

func (s *driverService) ListAvailableDrivers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListAvailableDrivers(ctx)
}
