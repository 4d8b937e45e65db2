package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShelfEntry is one user's progress record for one catalog book. There is at
// most one entry per (user, external book id); the store enforces this with a
// unique index.
type ShelfEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	ExternalBookID string             `bson:"externalBookId" json:"externalBookId"`
	Name           string             `bson:"name" json:"name"`
	Author         string             `bson:"author,omitempty" json:"author,omitempty"`
	PageCount      *int               `bson:"pageCount,omitempty" json:"pageCount,omitempty"`
	CurrentPage    int                `bson:"currentPage" json:"currentPage"`
	Status         ReadingStatus      `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPageFor returns the current page the server assigns when an entry
// enters the given status. Finishing a book with a known page count lands on
// the last page; moving back to want-to-read resets to zero. For other
// transitions the caller keeps the stored page.
func DefaultPageFor(status ReadingStatus, pageCount *int) (page int, ok bool) {
	switch status {
	case StatusFinished:
		if pageCount != nil && *pageCount > 0 {
			return *pageCount, true
		}
		return 0, false
	case StatusWantToRead:
		return 0, true
	default:
		return 0, false
	}
}
