package mongodb

import (
	"context"
	"fmt"
	"time"

	"swiftaid/internal/models"
	"swiftaid/internal/repositories/interfaces"
	"swiftaid/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), utils.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to get user: %v", utils.ErrPersistence, err)
	}

	return &user, nil
}

func (r *userRepository) ListDrivers(ctx context.Context) ([]*models.User, error) {
	return r.findAll(ctx, bson.M{"role": models.UserRoleDriver})
}

// ListAvailableDrivers derives eligibility at query time; it is never stored
// as a flag of its own.
func (r *userRepository) ListAvailableDrivers(ctx context.Context) ([]*models.User, error) {
	return r.findAll(ctx, bson.M{
		"role":               models.UserRoleDriver,
		"driver.available":   true,
		"driver.on_schedule": false,
	})
}

func (r *userRepository) SetAvailability(ctx context.Context, driverID primitive.ObjectID, available bool) error {
	return r.updateDriverFields(ctx, driverID, bson.M{"driver.available": available})
}

func (r *userRepository) SetOnSchedule(ctx context.Context, driverID primitive.ObjectID, onSchedule bool) error {
	return r.updateDriverFields(ctx, driverID, bson.M{"driver.on_schedule": onSchedule})
}

func (r *userRepository) SetLocation(ctx context.Context, driverID primitive.ObjectID, location string) error {
	return r.updateDriverFields(ctx, driverID, bson.M{"driver.location": location})
}

func (r *userRepository) updateDriverFields(ctx context.Context, driverID primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": driverID, "role": models.UserRoleDriver},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update driver profile: %v", utils.ErrPersistence, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver %s: %w", driverID.Hex(), utils.ErrNotFound)
	}

	return nil
}

func (r *userRepository) findAll(ctx context.Context, filter bson.M) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find users: %v", utils.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: failed to decode users: %v", utils.ErrPersistence, err)
	}

	return users, nil
}
