package handlers

import (
	"context"

	"github.com/readly-app/backend/models"
	"github.com/readly-app/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the handlers. *store.DB satisfies all of
// them; tests substitute in-memory fakes.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, bio, profileImg *string, yearlyGoal, monthGoal *int) error
}

type ShelfStore interface {
	UpsertStatus(ctx context.Context, userID primitive.ObjectID, externalBookID, name, author string, pageCount *int, status models.ReadingStatus) (*store.UpsertStatusResult, error)
	UpdatePage(ctx context.Context, userID primitive.ObjectID, externalBookID string, currentPage int) (*models.ShelfEntry, error)
	ShelfEntry(ctx context.Context, userID primitive.ObjectID, externalBookID string) (*models.ShelfEntry, error)
	ShelfByStatus(ctx context.Context, userID primitive.ObjectID, status models.ReadingStatus) ([]models.ShelfEntry, error)
}

type ReviewStore interface {
	InsertReview(ctx context.Context, review *models.Review) (primitive.ObjectID, error)
	ReviewsByBook(ctx context.Context, externalBookID string) ([]models.Review, error)
}

type HistoryStore interface {
	AppendHistory(ctx context.Context, event *models.HistoryEvent) (primitive.ObjectID, error)
}

type FollowStore interface {
	CreateFollow(ctx context.Context, followerID, followeeID primitive.ObjectID) error
	DeleteFollow(ctx context.Context, followerID, followeeID primitive.ObjectID) error
}
