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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListTopLevelByPost(ctx context.Context, postID string, skip, limit int64) ([]models.Comment, int64, error)
	ListReplies(ctx context.Context, parentID primitive.ObjectID) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id string, content string) error
	SoftDelete(ctx context.Context, id string) error
	CastVote(ctx context.Context, id string, voterID uint, direction string) (*models.VoteResult, error)
	Moderate(ctx context.Context, id, status string, moderatorID uint) error
	CountActive(ctx context.Context) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment creates a new comment
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	if comment.Status == "" {
		comment.Status = models.CommentStatusActive
	}
	if comment.Votes.Up == nil {
		comment.Votes.Up = []uint{}
	}
	if comment.Votes.Down == nil {
		comment.Votes.Down = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ID
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListTopLevelByPost retrieves active top-level comments for a post,
// newest first
func (r *MongoCommentRepository) ListTopLevelByPost(ctx context.Context, postID string, skip, limit int64) ([]models.Comment, int64, error) {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, 0, ErrInvalidID
	}

	query := bson.M{
		"post_id":           postObjID,
		"status":            models.CommentStatusActive,
		"parent_comment_id": nil,
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

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ListReplies retrieves active replies to a comment, oldest first
func (r *MongoCommentRepository) ListReplies(ctx context.Context, parentID primitive.ObjectID) ([]models.Comment, error) {
	query := bson.M{
		"parent_comment_id": parentID,
		"status":            models.CommentStatusActive,
	}
	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var replies []models.Comment
	if err = cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// UpdateContent replaces the comment body and marks it edited
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id string, content string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	now := time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"content":    content,
		"is_edited":  true,
		"edited_at":  now,
		"updated_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the comment deleted and blanks its content
func (r *MongoCommentRepository) SoftDelete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"status":     models.CommentStatusDeleted,
		"content":    "[Comment deleted]",
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CastVote applies a vote to the comment's vote sets atomically
func (r *MongoCommentRepository) CastVote(ctx context.Context, id string, voterID uint, direction string) (*models.VoteResult, error) {
	return castVote(ctx, r.collection, id, voterID, direction)
}

// Moderate sets the comment status and stamps the moderator
func (r *MongoCommentRepository) Moderate(ctx context.Context, id, status string, moderatorID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"status":       status,
		"moderated_by": moderatorID,
		"moderated_at": time.Now(),
		"updated_at":   time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActive counts active comments
func (r *MongoCommentRepository) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": models.CommentStatusActive})
}
