package store

import (
	"context"
	"time"

	"github.com/readly-app/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertReview(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	review.CreatedAt = time.Now()
	res, err := db.Reviews().InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ReviewsByBook(ctx context.Context, externalBookID string) ([]models.Review, error) {
	cur, err := db.Reviews().Find(ctx, bson.M{"externalBookId": externalBookID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ReviewsByAuthors returns all reviews written by the given users, newest
// first. An empty author set yields an empty slice without querying.
func (db *DB) ReviewsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Review, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	cur, err := db.Reviews().Find(ctx, bson.M{"userId": bson.M{"$in": authorIDs}},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RecentReviewsExcluding returns the most recent reviews authored by anyone
// outside the excluded set, capped at limit. This is the discovery fallback
// pool of the review feed.
func (db *DB) RecentReviewsExcluding(ctx context.Context, excludeIDs []primitive.ObjectID, limit int64) ([]models.Review, error) {
	filter := bson.M{}
	if len(excludeIDs) > 0 {
		filter["userId"] = bson.M{"$nin": excludeIDs}
	}
	cur, err := db.Reviews().Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (db *DB) CountReviewsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return db.Reviews().CountDocuments(ctx, bson.M{"userId": userID})
}
