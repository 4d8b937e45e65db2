package store

import (
	"context"
	"time"

	"github.com/readly-app/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertStatusResult reports what an UpsertStatus call actually did, so the
// handler can decide whether a history event is due.
type UpsertStatusResult struct {
	Entry         *models.ShelfEntry
	Created       bool
	StatusChanged bool
}

// UpsertStatus creates or updates the caller's shelf entry for one book.
// Repeating the call with the same status is a no-op apart from the page
// default: finishing a book with a known page count pins the page to the
// count, moving to want-to-read resets it to zero, anything else keeps the
// stored page.
func (db *DB) UpsertStatus(ctx context.Context, userID primitive.ObjectID, externalBookID, name, author string, pageCount *int, status models.ReadingStatus) (*UpsertStatusResult, error) {
	filter := bson.M{"userId": userID, "externalBookId": externalBookID}

	var existing models.ShelfEntry
	err := db.Shelf().FindOne(ctx, filter).Decode(&existing)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	if err == mongo.ErrNoDocuments {
		entry := &models.ShelfEntry{
			UserID:         userID,
			ExternalBookID: externalBookID,
			Name:           name,
			Author:         author,
			PageCount:      pageCount,
			Status:         status,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if page, ok := models.DefaultPageFor(status, pageCount); ok {
			entry.CurrentPage = page
		}
		res, insertErr := db.Shelf().InsertOne(ctx, entry)
		if mongo.IsDuplicateKeyError(insertErr) {
			// Lost a create race with a concurrent request for the same
			// (user, book); fall through to the update path.
			if err := db.Shelf().FindOne(ctx, filter).Decode(&existing); err != nil {
				return nil, err
			}
		} else if insertErr != nil {
			return nil, insertErr
		} else {
			entry.ID = res.InsertedID.(primitive.ObjectID)
			return &UpsertStatusResult{Entry: entry, Created: true, StatusChanged: true}, nil
		}
	}

	effectiveCount := existing.PageCount
	if pageCount != nil {
		effectiveCount = pageCount
	}
	update := bson.M{
		"name":      name,
		"author":    author,
		"status":    status,
		"updatedAt": now,
	}
	if pageCount != nil {
		update["pageCount"] = *pageCount
	}
	if page, ok := models.DefaultPageFor(status, effectiveCount); ok {
		update["currentPage"] = page
	}

	var updated models.ShelfEntry
	err = db.Shelf().FindOneAndUpdate(ctx, filter, bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &UpsertStatusResult{
		Entry:         &updated,
		StatusChanged: existing.Status != status,
	}, nil
}

// UpdatePage sets the current page of an existing shelf entry. Returns
// ErrNotFound when the user has no entry for the book yet: a page cannot be
// recorded before a status exists.
func (db *DB) UpdatePage(ctx context.Context, userID primitive.ObjectID, externalBookID string, currentPage int) (*models.ShelfEntry, error) {
	filter := bson.M{"userId": userID, "externalBookId": externalBookID}
	update := bson.M{"$set": bson.M{"currentPage": currentPage, "updatedAt": time.Now()}}

	var updated models.ShelfEntry
	err := db.Shelf().FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (db *DB) ShelfEntry(ctx context.Context, userID primitive.ObjectID, externalBookID string) (*models.ShelfEntry, error) {
	var entry models.ShelfEntry
	err := db.Shelf().FindOne(ctx, bson.M{"userId": userID, "externalBookId": externalBookID}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (db *DB) ShelfByStatus(ctx context.Context, userID primitive.ObjectID, status models.ReadingStatus) ([]models.ShelfEntry, error) {
	cur, err := db.Shelf().Find(ctx, bson.M{"userId": userID, "status": status},
		options.Find().SetSort(bson.M{"updatedAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.ShelfEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (db *DB) AllShelfEntries(ctx context.Context, userID primitive.ObjectID) ([]models.ShelfEntry, error) {
	cur, err := db.Shelf().Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.ShelfEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (db *DB) CountShelfByStatus(ctx context.Context, userID primitive.ObjectID, status models.ReadingStatus) (int64, error) {
	return db.Shelf().CountDocuments(ctx, bson.M{"userId": userID, "status": status})
}
