package service

import (
	"context"
	"sort"

	"github.com/readly-app/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// globalPoolLimit caps the discovery fallback pool of the review feed.
// Followed-user reviews are not capped.
const globalPoolLimit = 20

// unknownUsername is rendered for feed items whose author no longer resolves.
const unknownUsername = "Unknown"

type FollowSource interface {
	FolloweeIDs(ctx context.Context, followerID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type ReviewSource interface {
	ReviewsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Review, error)
	RecentReviewsExcluding(ctx context.Context, excludeIDs []primitive.ObjectID, limit int64) ([]models.Review, error)
}

type HistorySource interface {
	HistoryByUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.HistoryEvent, error)
}

type UsernameSource interface {
	UsernamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// FeedComposer builds the merged activity feeds. Review feeds mix followee
// reviews with a bounded pool of recent global reviews for discovery;
// history feeds are follow-only.
type FeedComposer struct {
	Follows FollowSource
	Reviews ReviewSource
	History HistorySource
	Users   UsernameSource
}

type ReviewFeedItem struct {
	models.Review
	Username string `json:"username"`
}

type HistoryFeedItem struct {
	models.HistoryEvent
	Username string `json:"username"`
}

// ReviewFeed returns followee reviews plus up to 20 recent reviews by
// non-followed authors, merged and re-sorted newest first. Followed
// authorship does not guarantee placement: ordering is purely by time.
func (c *FeedComposer) ReviewFeed(ctx context.Context, requester primitive.ObjectID) ([]ReviewFeedItem, error) {
	followees, err := c.Follows.FolloweeIDs(ctx, requester)
	if err != nil {
		return nil, err
	}

	followed, err := c.Reviews.ReviewsByAuthors(ctx, followees)
	if err != nil {
		return nil, err
	}

	exclude := append(append([]primitive.ObjectID{}, followees...), requester)
	global, err := c.Reviews.RecentReviewsExcluding(ctx, exclude, globalPoolLimit)
	if err != nil {
		return nil, err
	}

	merged := make([]models.Review, 0, len(followed)+len(global))
	seen := make(map[primitive.ObjectID]bool, len(followed)+len(global))
	for _, r := range append(followed, global...) {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		merged = append(merged, r)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	authorIDs := make([]primitive.ObjectID, 0, len(merged))
	distinct := make(map[primitive.ObjectID]bool, len(merged))
	for _, r := range merged {
		if !distinct[r.UserID] {
			distinct[r.UserID] = true
			authorIDs = append(authorIDs, r.UserID)
		}
	}
	names, err := c.Users.UsernamesByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewFeedItem, 0, len(merged))
	for _, r := range merged {
		items = append(items, ReviewFeedItem{Review: r, Username: usernameOr(names, r.UserID)})
	}
	return items, nil
}

// HistoryFeed returns followees' history events, newest first. Unlike the
// review feed there is no global fallback: activity is follow-only.
func (c *FeedComposer) HistoryFeed(ctx context.Context, requester primitive.ObjectID) ([]HistoryFeedItem, error) {
	followees, err := c.Follows.FolloweeIDs(ctx, requester)
	if err != nil {
		return nil, err
	}
	events, err := c.History.HistoryByUsers(ctx, followees)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})

	userIDs := make([]primitive.ObjectID, 0, len(events))
	distinct := make(map[primitive.ObjectID]bool, len(events))
	for _, e := range events {
		if !distinct[e.UserID] {
			distinct[e.UserID] = true
			userIDs = append(userIDs, e.UserID)
		}
	}
	names, err := c.Users.UsernamesByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryFeedItem, 0, len(events))
	for _, e := range events {
		items = append(items, HistoryFeedItem{HistoryEvent: e, Username: usernameOr(names, e.UserID)})
	}
	return items, nil
}

func usernameOr(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return unknownUsername
}
