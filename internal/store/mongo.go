package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/changtoqr/backend/internal/models"
)

// MongoStore keeps per-user link history in MongoDB. It records only the
// source URL; QR artifacts are regenerated on demand and never stored.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("links")}
}

// InsertLink records a generated link for the owning user.
func (s *MongoStore) InsertLink(ctx context.Context, link *models.Link) (string, error) {
	link.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, link)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// ListLinksByUser returns the user's history, newest first.
func (s *MongoStore) ListLinksByUser(ctx context.Context, userID string) ([]models.Link, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var links []models.Link
	if err := cur.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}
