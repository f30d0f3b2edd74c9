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

// votePipeline builds the single-statement vote update: strip the voter from
// both sets, then append to the target set unless the direction is "none".
// Running it as one aggregation-pipeline update keeps the remove-then-insert
// step atomic per document, so two concurrent votes cannot both observe the
// voter absent and double-insert.
func votePipeline(voterID uint, direction string, now time.Time) mongo.Pipeline {
	strip := func(field string) bson.D {
		return bson.D{{Key: "$filter", Value: bson.D{
			{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}},
			{Key: "as", Value: "v"},
			{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$v", voterID}}}},
		}}}
	}

	var up, down interface{} = strip("votes.up"), strip("votes.down")
	switch direction {
	case models.VoteUp:
		up = bson.D{{Key: "$concatArrays", Value: bson.A{up, bson.A{voterID}}}}
	case models.VoteDown:
		down = bson.D{{Key: "$concatArrays", Value: bson.A{down, bson.A{voterID}}}}
	}

	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "votes.up", Value: up},
			{Key: "votes.down", Value: down},
			{Key: "updated_at", Value: now},
		}}},
	}
}

// castVote applies the vote pipeline to the document with the given hex id
// and returns the resulting counts.
func castVote(ctx context.Context, coll *mongo.Collection, id string, voterID uint, direction string) (*models.VoteResult, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc struct {
		Votes models.Votes `bson:"votes"`
	}
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, votePipeline(voterID, direction, time.Now()), opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &models.VoteResult{
		Score:     doc.Votes.Score(),
		Upvotes:   len(doc.Votes.Up),
		Downvotes: len(doc.Votes.Down),
	}, nil
}
