package repositories

import (
	"context"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, category, status string, upcomingOnly bool, skip, limit int64) ([]models.Event, int64, error)
	ListByAttendee(ctx context.Context, userID uint, skip, limit int64) ([]models.Event, int64, error)
	UpdateEvent(ctx context.Context, id string, set bson.M) error
	DeleteEvent(ctx context.Context, id string) error
	Register(ctx context.Context, id string, userID uint) error
	CancelRegistration(ctx context.Context, id string, userID uint) error
	CountPublished(ctx context.Context) (int64, error)
}

// MongoEventRepository implements EventRepository for MongoDB
type MongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new MongoEventRepository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{collection: db.Collection("events")}
}

// CreateEvent creates a new event
func (r *MongoEventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	if event.Status == "" {
		event.Status = models.EventStatusPublished
	}
	if event.Attendees == nil {
		event.Attendees = []models.Attendee{}
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// GetEventByID retrieves an event by ID
func (r *MongoEventRepository) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var event models.Event
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListEvents retrieves events matching the filter, soonest first
func (r *MongoEventRepository) ListEvents(ctx context.Context, category, status string, upcomingOnly bool, skip, limit int64) ([]models.Event, int64, error) {
	query := bson.M{}
	if category != "" {
		query["category"] = category
	}
	if status != "" {
		query["status"] = status
	}
	if upcomingOnly {
		query["start_date"] = bson.M{"$gte": time.Now()}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListByAttendee retrieves events where the user holds a registered spot
func (r *MongoEventRepository) ListByAttendee(ctx context.Context, userID uint, skip, limit int64) ([]models.Event, int64, error) {
	query := bson.M{"attendees": bson.M{"$elemMatch": bson.M{
		"user_id": userID,
		"status":  models.AttendeeRegistered,
	}}}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// UpdateEvent applies a partial update to the event
func (r *MongoEventRepository) UpdateEvent(ctx context.Context, id string, set bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	set["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEvent deletes an event by ID
func (r *MongoEventRepository) DeleteEvent(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Register adds the user to the attendee list. The filter enforces every
// registration precondition in one guarded update, so the non-cancelled
// attendee count can never exceed the capacity under concurrent requests.
func (r *MongoEventRepository) Register(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	now := time.Now()
	nonCancelled := bson.M{"$size": bson.M{"$filter": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$attendees", bson.A{}}},
		"as":    "a",
		"cond":  bson.M{"$ne": bson.A{"$$a.status", models.AttendeeCancelled}},
	}}}

	filter := bson.M{
		"_id":    objID,
		"status": models.EventStatusPublished,
		"attendees": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"user_id": userID,
			"status":  bson.M{"$ne": models.AttendeeCancelled},
		}}},
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"registration_deadline": nil},
				bson.M{"registration_deadline": bson.M{"$gte": now}},
			}},
			bson.M{"$expr": bson.M{"$or": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$capacity", nil}}, nil}},
				bson.M{"$lt": bson.A{nonCancelled, "$capacity"}},
			}}},
		},
	}

	update := bson.M{
		"$push": bson.M{"attendees": models.Attendee{
			UserID:       userID,
			Status:       models.AttendeeRegistered,
			RegisteredAt: now,
		}},
		"$set": bson.M{"updated_at": now},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.explainRegistrationFailure(ctx, objID, userID, now)
	}
	return nil
}

// explainRegistrationFailure reloads the event to report which precondition
// the guarded update rejected
func (r *MongoEventRepository) explainRegistrationFailure(ctx context.Context, objID primitive.ObjectID, userID uint, now time.Time) error {
	var event models.Event
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	if event.Status != models.EventStatusPublished {
		return ErrRegistrationClosed
	}
	if event.ActiveRegistration(userID) != nil {
		return ErrAlreadyRegistered
	}
	if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
		return ErrRegistrationClosed
	}
	if event.IsFull() {
		return ErrEventFull
	}
	return ErrRegistrationClosed
}

// CancelRegistration marks the user's registration cancelled
func (r *MongoEventRepository) CancelRegistration(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"attendees.$[a].status": models.AttendeeCancelled,
			"updated_at":            time.Now(),
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"a.user_id": userID, "a.status": bson.M{"$ne": models.AttendeeCancelled}}},
		}),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrNotRegistered
	}
	return nil
}

// CountPublished counts published events
func (r *MongoEventRepository) CountPublished(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": models.EventStatusPublished})
}
