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

// ReportRepository defines the interface for report data operations.
// Reports are append-and-update only; nothing deletes them.
type ReportRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter, skip, limit int64) ([]models.Report, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetResolution(ctx context.Context, id, status string, resolution models.Resolution) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountGroupedBy(ctx context.Context, field string) (map[string]int64, error)
}

// MongoReportRepository implements ReportRepository for MongoDB
type MongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new MongoReportRepository
func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{collection: db.Collection("reports")}
}

// EnsureIndexes creates the uniqueness index backing the one-report-per
// (reporter, content_type, content_id) constraint
func (r *MongoReportRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "reporter_id", Value: 1},
				{Key: "content_type", Value: 1},
				{Key: "content_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "priority", Value: -1},
				{Key: "created_at", Value: 1},
			},
		},
	})
	return err
}

// CreateReport inserts a new report. A second report from the same reporter
// against the same content fails with ErrDuplicateReport, regardless of the
// first report's status.
func (r *MongoReportRepository) CreateReport(ctx context.Context, report *models.Report) error {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	if report.Priority == "" {
		report.Priority = models.PriorityMedium
	}

	_, err := r.collection.InsertOne(ctx, report)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateReport
	}
	return err
}

// GetReportByID retrieves a report by ID
func (r *MongoReportRepository) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var report models.Report
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ListReports retrieves reports matching the filter, newest first
func (r *MongoReportRepository) ListReports(ctx context.Context, filter models.ReportFilter, skip, limit int64) ([]models.Report, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ContentType != "" {
		query["content_type"] = filter.ContentType
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Reason != "" {
		query["reason"] = filter.Reason
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// openStatuses matches only reports that have not reached a terminal status.
// Every status write carries this guard so two concurrent moderators can
// never both close the same report: the second write matches nothing.
func openStatuses() bson.M {
	return bson.M{"$in": bson.A{models.ReportStatusPending, models.ReportStatusReviewing}}
}

// UpdateStatus moves an open report to the given non-terminal status
func (r *MongoReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "status": openStatuses()},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.classifyUnmatched(ctx, objID)
	}
	return nil
}

// SetResolution stamps the terminal status and resolution on an open report
func (r *MongoReportRepository) SetResolution(ctx context.Context, id, status string, resolution models.Resolution) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "status": openStatuses()},
		bson.M{"$set": bson.M{
			"status":     status,
			"resolution": resolution,
			"updated_at": time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.classifyUnmatched(ctx, objID)
	}
	return nil
}

// classifyUnmatched tells a missing report apart from one the status guard
// skipped because it is already terminal
func (r *MongoReportRepository) classifyUnmatched(ctx context.Context, objID primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrTerminalStatus
}

// CountByStatus counts reports with the given status
func (r *MongoReportRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

// CountGroupedBy groups report counts by the given field (reason or
// content_type)
func (r *MongoReportRepository) CountGroupedBy(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}
