package store

import (
	"context"
	"time"

	"github.com/readly-app/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AppendHistory records one event. CreatedAt is stamped here, at insert
// time; the log is append-only and events are never mutated afterwards.
func (db *DB) AppendHistory(ctx context.Context, event *models.HistoryEvent) (primitive.ObjectID, error) {
	event.CreatedAt = time.Now()
	res, err := db.History().InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// HistoryByUsers returns events for the given users, newest first. Feeds
// call this with the requester's followee set.
func (db *DB) HistoryByUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.HistoryEvent, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := db.History().Find(ctx, bson.M{"userId": bson.M{"$in": userIDs}},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var events []models.HistoryEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountHistoryInWindow counts a user's events with the given action in
// [from, to).
func (db *DB) CountHistoryInWindow(ctx context.Context, userID primitive.ObjectID, action models.HistoryAction, from, to time.Time) (int64, error) {
	return db.History().CountDocuments(ctx, bson.M{
		"userId":    userID,
		"action":    action,
		"createdAt": bson.M{"$gte": from, "$lt": to},
	})
}

// HistoryTimes returns the creation times of all of a user's events, newest
// first. Streak computation normalizes these to calendar days.
func (db *DB) HistoryTimes(ctx context.Context, userID primitive.ObjectID) ([]time.Time, error) {
	cur, err := db.History().Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetProjection(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var times []time.Time
	for cur.Next(ctx) {
		var doc struct {
			CreatedAt time.Time `bson:"createdAt"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		times = append(times, doc.CreatedAt)
	}
	return times, cur.Err()
}
