package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is immutable once written; there is no edit or delete path.
type Review struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	ExternalBookID string             `bson:"externalBookId" json:"externalBookId"`
	BookName       string             `bson:"bookName" json:"bookName"`
	Rating         int                `bson:"rating" json:"rating"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return nil
}
