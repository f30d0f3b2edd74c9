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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter, skip, limit int64) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, id string, set bson.M) error
	DeletePost(ctx context.Context, id string) error
	CastVote(ctx context.Context, id string, voterID uint, direction string) (*models.VoteResult, error)
	Moderate(ctx context.Context, id, status string, moderatorID uint) error
	IncrementViewCount(ctx context.Context, id string) error
	AdjustCommentCount(ctx context.Context, id string, delta int) error
	TrendingPosts(ctx context.Context, limit int64) ([]models.Post, error)
	CountPublished(ctx context.Context) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Status == "" {
		post.Status = models.PostStatusPublished
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		now := post.CreatedAt
		post.PublishedAt = &now
	}
	if post.Excerpt == "" {
		post.Excerpt = post.Excerpted()
	}
	if post.Votes.Up == nil {
		post.Votes.Up = []uint{}
	}
	if post.Votes.Down == nil {
		post.Votes.Down = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts retrieves posts matching the filter, newest published first
func (r *MongoPostRepository) ListPosts(ctx context.Context, filter models.PostFilter, skip, limit int64) ([]models.Post, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AuthorID != 0 {
		query["author_id"] = filter.AuthorID
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
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

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost applies a partial update to the post
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, set bson.M) error {
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

// DeletePost deletes a post by ID
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
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

// CastVote applies a vote to the post's vote sets atomically
func (r *MongoPostRepository) CastVote(ctx context.Context, id string, voterID uint, direction string) (*models.VoteResult, error) {
	return castVote(ctx, r.collection, id, voterID, direction)
}

// Moderate sets the post status and stamps the moderator
func (r *MongoPostRepository) Moderate(ctx context.Context, id, status string, moderatorID uint) error {
	return r.UpdatePost(ctx, id, bson.M{
		"status":       status,
		"moderated_by": moderatorID,
		"moderated_at": time.Now(),
	})
}

// IncrementViewCount bumps the post's view counter
func (r *MongoPostRepository) IncrementViewCount(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

// AdjustCommentCount changes the post's comment counter by delta
func (r *MongoPostRepository) AdjustCommentCount(ctx context.Context, id string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comment_count": delta}})
	return err
}

// TrendingPosts ranks published posts by vote score, comments and views
func (r *MongoPostRepository) TrendingPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.PostStatusPublished}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"trend_score": bson.M{"$add": bson.A{
				bson.M{"$multiply": bson.A{
					bson.M{"$subtract": bson.A{
						bson.M{"$size": bson.M{"$ifNull": bson.A{"$votes.up", bson.A{}}}},
						bson.M{"$size": bson.M{"$ifNull": bson.A{"$votes.down", bson.A{}}}},
					}},
					2,
				}},
				"$comment_count",
				bson.M{"$divide": bson.A{"$view_count", 100}},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"trend_score": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPublished counts published posts
func (r *MongoPostRepository) CountPublished(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": models.PostStatusPublished})
}
