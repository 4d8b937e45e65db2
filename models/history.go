package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryEvent is an append-only record of a user action. CreatedAt is
// assigned at insert time and never changes; streaks and finished-count
// windows are derived from it.
type HistoryEvent struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Action         HistoryAction       `bson:"action" json:"action"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	BookID         *primitive.ObjectID `bson:"bookId,omitempty" json:"bookId,omitempty"`
	ExternalBookID string              `bson:"externalBookId" json:"externalBookId"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}
