package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"` // bcrypt hash
	YearlyGoal int                `bson:"yearlyGoal" json:"yearlyGoal"`
	MonthGoal  int                `bson:"monthGoal" json:"monthGoal"`
	ProfileImg string             `bson:"profileImg,omitempty" json:"profileImg,omitempty"`
	Bio        string             `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
