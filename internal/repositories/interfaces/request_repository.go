package interfaces

import (
	"context"

	"swiftaid/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestRepository is the request store. Status transitions go through
// UpdateStatus, which is a compare-and-set on the expected current status so
// at most one transition wins under concurrent callers.
type RequestRepository interface {
	Create(ctx context.Context, request *models.EmergencyRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyRequest, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateStatus atomically moves id from expected to next, merging extra
	// into the same write. Returns ErrInvalidTransition when the stored
	// status no longer matches expected, ErrNotFound when id does not exist.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, expected, next models.RequestStatus, extra map[string]interface{}) error

	// SetRating writes rating/feedback guarded on status=completed.
	SetRating(ctx context.Context, id primitive.ObjectID, rating int, feedback string) error

	// AppendChatMessage atomically appends to chat_history.
	AppendChatMessage(ctx context.Context, id primitive.ObjectID, message *models.ChatMessage) error

	List(ctx context.Context, status models.RequestStatus, limit, offset int64) ([]*models.EmergencyRequest, int64, error)
	ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.EmergencyRequest, error)
	ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.EmergencyRequest, error)
	CountByStatus(ctx context.Context) (map[models.RequestStatus]int64, error)
}
