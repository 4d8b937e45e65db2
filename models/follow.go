package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowEdge is a directed follow relation. Unique per (follower, followee);
// self-follows are rejected before insert.
type FollowEdge struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FollowerID primitive.ObjectID `bson:"followerId" json:"followerId"`
	FolloweeID primitive.ObjectID `bson:"followeeId" json:"followeeId"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
