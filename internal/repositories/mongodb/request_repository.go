package mongodb

import (
	"context"
	"fmt"
	"time"

	"swiftaid/internal/models"
	"swiftaid/internal/repositories/interfaces"
	"swiftaid/internal/services"
	"swiftaid/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requestRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewRequestRepository(db *mongo.Database, cache services.CacheService) interfaces.RequestRepository {
	return &requestRepository{
		collection: db.Collection("requests"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *requestRepository) Create(ctx context.Context, request *models.EmergencyRequest) error {
	request.ID = primitive.NewObjectID()
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	if request.ChatHistory == nil {
		request.ChatHistory = []models.ChatMessage{}
	}

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", utils.ErrPersistence, err)
	}

	r.cacheRequest(ctx, request)

	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyRequest, error) {
	// Try cache first for active requests
	if request := r.getRequestFromCache(ctx, id.Hex()); request != nil {
		return request, nil
	}

	var request models.EmergencyRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to get request: %v", utils.ErrPersistence, err)
	}

	if request.Status != models.RequestStatusCompleted {
		r.cacheRequest(ctx, &request)
	}

	return &request, nil
}

func (r *requestRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update request: %v", utils.ErrPersistence, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}

	r.invalidateRequestCache(ctx, id.Hex())

	return nil
}

// Status operations

// UpdateStatus is the compare-and-set transition write. The filter matches
// on the expected current status, so of two concurrent conflicting
// transitions exactly one wins; the loser observes ErrInvalidTransition.
func (r *requestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, expected, next models.RequestStatus, extra map[string]interface{}) error {
	updates := bson.M{
		"status":     next,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": expected},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update request status: %v", utils.ErrPersistence, err)
	}
	if result.MatchedCount == 0 {
		return r.classifyMiss(ctx, id, string(expected))
	}

	r.invalidateRequestCache(ctx, id.Hex())

	return nil
}

// SetRating writes rating and feedback guarded on status=completed.
// Overwriting an existing rating is permitted; last write wins.
func (r *requestRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating int, feedback string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.RequestStatusCompleted},
		bson.M{"$set": bson.M{
			"rating":     rating,
			"feedback":   feedback,
			"rated_at":   time.Now(),
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to set rating: %v", utils.ErrPersistence, err)
	}
	if result.MatchedCount == 0 {
		return r.classifyMiss(ctx, id, string(models.RequestStatusCompleted))
	}

	r.invalidateRequestCache(ctx, id.Hex())

	return nil
}

// Chat operations
func (r *requestRepository) AppendChatMessage(ctx context.Context, id primitive.ObjectID, message *models.ChatMessage) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"chat_history": message},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to append chat message: %v", utils.ErrPersistence, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}

	r.invalidateRequestCache(ctx, id.Hex())

	return nil
}

// Query operations
func (r *requestRepository) List(ctx context.Context, status models.RequestStatus, limit, offset int64) ([]*models.EmergencyRequest, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count requests: %v", utils.ErrPersistence, err)
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list requests: %v", utils.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var requests []*models.EmergencyRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to decode requests: %v", utils.ErrPersistence, err)
	}

	return requests, total, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.EmergencyRequest, error) {
	return r.findAll(ctx, bson.M{"requester_id": requesterID})
}

func (r *requestRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.EmergencyRequest, error) {
	return r.findAll(ctx, bson.M{"driver_id": driverID})
}

func (r *requestRepository) CountByStatus(ctx context.Context) (map[models.RequestStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count by status: %v", utils.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Status models.RequestStatus `bson:"_id"`
		Count  int64                `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode status counts: %v", utils.ErrPersistence, err)
	}

	counts := make(map[models.RequestStatus]int64, len(results))
	for _, res := range results {
		counts[res.Status] = res.Count
	}

	return counts, nil
}

func (r *requestRepository) findAll(ctx context.Context, filter bson.M) ([]*models.EmergencyRequest, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find requests: %v", utils.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var requests []*models.EmergencyRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("%w: failed to decode requests: %v", utils.ErrPersistence, err)
	}

	return requests, nil
}

// classifyMiss distinguishes a missing document from a stale expected
// status after a guarded write matched nothing.
func (r *requestRepository) classifyMiss(ctx context.Context, id primitive.ObjectID, expected string) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: failed to check request existence: %v", utils.ErrPersistence, err)
	}
	if count == 0 {
		return fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}
	return fmt.Errorf("request %s is no longer %s: %w", id.Hex(), expected, utils.ErrInvalidTransition)
}

// Cache helpers
func (r *requestRepository) cacheRequest(ctx context.Context, request *models.EmergencyRequest) {
	key := "request:" + request.ID.Hex()
	r.cache.Set(ctx, key, request, utils.ActiveRequestCacheTTL)
}

func (r *requestRepository) getRequestFromCache(ctx context.Context, id string) *models.EmergencyRequest {
	var request models.EmergencyRequest
	if err := r.cache.Get(ctx, "request:"+id, &request); err != nil {
		// Anything but a plain miss means a corrupt or unreadable entry;
		// drop it so the next read repopulates from MongoDB.
		if !r.cache.IsNotFound(err) {
			r.cache.Delete(ctx, "request:"+id)
		}
		return nil
	}
	return &request
}

func (r *requestRepository) invalidateRequestCache(ctx context.Context, id string) {
	r.cache.Delete(ctx, "request:"+id)
}
