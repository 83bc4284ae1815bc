package interfaces

import (
	"context"

	"swiftaid/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is the identity store surface this service needs: profile
// resolution plus driver availability bookkeeping. Profile creation and
// credentials live with the external identity provider.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListDrivers(ctx context.Context) ([]*models.User, error)

	// ListAvailableDrivers filters available && !on_schedule at query time.
	ListAvailableDrivers(ctx context.Context) ([]*models.User, error)

	SetAvailability(ctx context.Context, driverID primitive.ObjectID, available bool) error
	SetOnSchedule(ctx context.Context, driverID primitive.ObjectID, onSchedule bool) error
	SetLocation(ctx context.Context, driverID primitive.ObjectID, location string) error
}
