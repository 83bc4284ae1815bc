package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"swiftaid/internal/models"
	"swiftaid/internal/utils"
	"swiftaid/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRequestRepo is an in-memory stand-in for the Mongo request store. It
// honors the same compare-and-set contract so the engine's guards are
// exercised for real.
type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.EmergencyRequest
	failAll  bool
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[primitive.ObjectID]*models.EmergencyRequest)}
}

func copyRequest(r *models.EmergencyRequest) *models.EmergencyRequest {
	clone := *r
	clone.ChatHistory = append([]models.ChatMessage(nil), r.ChatHistory...)
	if r.DriverID != nil {
		id := *r.DriverID
		clone.DriverID = &id
	}
	if r.Rating != nil {
		rating := *r.Rating
		clone.Rating = &rating
	}
	return &clone
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *models.EmergencyRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return fmt.Errorf("%w: store down", utils.ErrPersistence)
	}
	request.ID = primitive.NewObjectID()
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	if request.ChatHistory == nil {
		request.ChatHistory = []models.ChatMessage{}
	}
	f.requests[request.ID] = copyRequest(request)
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, fmt.Errorf("%w: store down", utils.ErrPersistence)
	}
	request, ok := f.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}
	return copyRequest(request), nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}
	applyUpdates(request, updates)
	request.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, expected, next models.RequestStatus, extra map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return fmt.Errorf("%w: store down", utils.ErrPersistence)
	}
	request, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}
	if request.Status != expected {
		return fmt.Errorf("request %s is no longer %s: %w", id.Hex(), expected, utils.ErrInvalidTransition)
	}
	request.Status = next
	applyUpdates(request, extra)
	request.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestRepo) SetRating(ctx context.Context, id primitive.ObjectID, rating int, feedback string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}
	if request.Status != models.RequestStatusCompleted {
		return fmt.Errorf("request %s is no longer %s: %w", id.Hex(), models.RequestStatusCompleted, utils.ErrInvalidTransition)
	}
	now := time.Now()
	request.Rating = &rating
	request.Feedback = feedback
	request.RatedAt = &now
	request.UpdatedAt = now
	return nil
}

func (f *fakeRequestRepo) AppendChatMessage(ctx context.Context, id primitive.ObjectID, message *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return fmt.Errorf("%w: store down", utils.ErrPersistence)
	}
	request, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("request %s: %w", id.Hex(), utils.ErrNotFound)
	}
	request.ChatHistory = append(request.ChatHistory, *message)
	request.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestRepo) List(ctx context.Context, status models.RequestStatus, limit, offset int64) ([]*models.EmergencyRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EmergencyRequest
	for _, request := range f.requests {
		if status == "" || request.Status == status {
			out = append(out, copyRequest(request))
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.EmergencyRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EmergencyRequest
	for _, request := range f.requests {
		if request.RequesterID == requesterID {
			out = append(out, copyRequest(request))
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.EmergencyRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EmergencyRequest
	for _, request := range f.requests {
		if request.HasDriver() && *request.DriverID == driverID {
			out = append(out, copyRequest(request))
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) CountByStatus(ctx context.Context) (map[models.RequestStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[models.RequestStatus]int64)
	for _, request := range f.requests {
		counts[request.Status]++
	}
	return counts, nil
}

func applyUpdates(request *models.EmergencyRequest, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "driver_id":
			if id, ok := value.(primitive.ObjectID); ok {
				request.DriverID = &id
			}
		case "assigned_at":
			if t, ok := value.(time.Time); ok {
				request.AssignedAt = &t
			}
		case "started_at":
			if t, ok := value.(time.Time); ok {
				request.StartedAt = &t
			}
		case "completed_at":
			if t, ok := value.(time.Time); ok {
				request.CompletedAt = &t
			}
		}
	}
}

// fakeUserRepo holds profiles keyed by id.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) addUser(role models.UserRole) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	user := &models.User{ID: id, Name: "Test " + string(role), Email: id.Hex() + "@swiftaid.com", Role: role}
	if role == models.UserRoleDriver {
		user.Driver = &models.DriverProfile{Available: true}
	}
	f.users[id] = user
	return id
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), utils.ErrNotFound)
	}
	clone := *user
	if user.Driver != nil {
		driver := *user.Driver
		clone.Driver = &driver
	}
	return &clone, nil
}

func (f *fakeUserRepo) ListDrivers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, user := range f.users {
		if user.IsDriver() {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListAvailableDrivers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, user := range f.users {
		if user.IsEligible() {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetAvailability(ctx context.Context, driverID primitive.ObjectID, available bool) error {
	return f.setDriverField(driverID, func(d *models.DriverProfile) { d.Available = available })
}

func (f *fakeUserRepo) SetOnSchedule(ctx context.Context, driverID primitive.ObjectID, onSchedule bool) error {
	return f.setDriverField(driverID, func(d *models.DriverProfile) { d.OnSchedule = onSchedule })
}

func (f *fakeUserRepo) SetLocation(ctx context.Context, driverID primitive.ObjectID, location string) error {
	return f.setDriverField(driverID, func(d *models.DriverProfile) { d.Location = location })
}

func (f *fakeUserRepo) setDriverField(driverID primitive.ObjectID, apply func(*models.DriverProfile)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[driverID]
	if !ok || !user.IsDriver() {
		return fmt.Errorf("driver %s: %w", driverID.Hex(), utils.ErrNotFound)
	}
	if user.Driver == nil {
		user.Driver = &models.DriverProfile{}
	}
	apply(user.Driver)
	return nil
}

// fakeNotifier records events so tests can assert on the change stream.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) NotifyRequest(requestID primitive.ObjectID, event string, data map[string]interface{}) {
	f.record(event)
}

func (f *fakeNotifier) NotifyUser(userID primitive.ObjectID, event string, data map[string]interface{}) {
	f.record(event)
}

func (f *fakeNotifier) NotifyDrivers(event string, data map[string]interface{}) {
	f.record(event)
}

func (f *fakeNotifier) record(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) has(event string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e == event {
			return true
		}
	}
	return false
}

func testLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	if err != nil {
		panic(err)
	}
	log.SetOutput(io.Discard)
	return log
}
