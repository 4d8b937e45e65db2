package store

import (
	"context"
	"time"

	"github.com/readly-app/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateFollow inserts a follow edge. Duplicate edges surface as
// ErrDuplicate via the unique (followerId, followeeId) index.
func (db *DB) CreateFollow(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	edge := models.FollowEdge{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}
	_, err := db.Follows().InsertOne(ctx, edge)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (db *DB) DeleteFollow(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	res, err := db.Follows().DeleteOne(ctx, bson.M{"followerId": followerID, "followeeId": followeeID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FolloweeIDs returns the ids of every user the given user follows. A user
// with no follows gets an empty slice, not an error.
func (db *DB) FolloweeIDs(ctx context.Context, followerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := db.Follows().Find(ctx, bson.M{"followerId": followerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var edge models.FollowEdge
		if err := cur.Decode(&edge); err != nil {
			return nil, err
		}
		ids = append(ids, edge.FolloweeID)
	}
	return ids, cur.Err()
}
