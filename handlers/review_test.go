package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/readly-app/backend/models"
	"github.com/readly-app/backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeReviewStore struct {
	reviews []models.Review
}

func (f *fakeReviewStore) InsertReview(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	review.ID = primitive.NewObjectID()
	f.reviews = append(f.reviews, *review)
	return review.ID, nil
}

func (f *fakeReviewStore) ReviewsByBook(ctx context.Context, externalBookID string) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.ExternalBookID == externalBookID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestCreateReviewAppendsHistory(t *testing.T) {
	reviews := &fakeReviewStore{}
	history := &fakeHistoryStore{}
	h := &ReviewHandler{Reviews: reviews, History: history}
	userID := primitive.NewObjectID()

	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/review",
		`{"externalBookId":"b1","bookName":"Dune","rating":4,"description":"sand"}`, userID))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, reviews.reviews, 1)
	assert.Equal(t, 4, reviews.reviews[0].Rating)
	require.Len(t, history.events, 1)
	assert.Equal(t, models.ActionWroteReview, history.events[0].Action)
	assert.Equal(t, "b1", history.events[0].ExternalBookID)
}

func TestCreateReviewRejectsBadRating(t *testing.T) {
	h := &ReviewHandler{Reviews: &fakeReviewStore{}, History: &fakeHistoryStore{}}
	userID := primitive.NewObjectID()

	for _, rating := range []string{"0", "6", "-1"} {
		w := httptest.NewRecorder()
		h.Create(w, authedRequest(http.MethodPost, "/api/review",
			`{"externalBookId":"b1","bookName":"Dune","rating":`+rating+`}`, userID))
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %s", rating)
	}
}

func TestListReviewsByBook(t *testing.T) {
	reviews := &fakeReviewStore{reviews: []models.Review{
		{ID: primitive.NewObjectID(), ExternalBookID: "b1", Rating: 5},
		{ID: primitive.NewObjectID(), ExternalBookID: "b2", Rating: 2},
	}}
	h := &ReviewHandler{Reviews: reviews, History: &fakeHistoryStore{}}

	w := httptest.NewRecorder()
	h.ListByBook(w, authedRequest(http.MethodGet, "/api/review?external_book_id=b1", "", primitive.NewObjectID()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":5`)
	assert.NotContains(t, w.Body.String(), `"rating":2`)

	w = httptest.NewRecorder()
	h.ListByBook(w, authedRequest(http.MethodGet, "/api/review", "", primitive.NewObjectID()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeFollowStore struct {
	follows map[[2]primitive.ObjectID]bool
}

func newFakeFollowStore() *fakeFollowStore {
	return &fakeFollowStore{follows: make(map[[2]primitive.ObjectID]bool)}
}

func (f *fakeFollowStore) CreateFollow(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	key := [2]primitive.ObjectID{followerID, followeeID}
	if f.follows[key] {
		return store.ErrDuplicate
	}
	f.follows[key] = true
	return nil
}

func (f *fakeFollowStore) DeleteFollow(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	key := [2]primitive.ObjectID{followerID, followeeID}
	if !f.follows[key] {
		return store.ErrNotFound
	}
	delete(f.follows, key)
	return nil
}

func TestFollowLifecycle(t *testing.T) {
	h := &FollowHandler{Follows: newFakeFollowStore()}
	follower := primitive.NewObjectID()
	followee := primitive.NewObjectID()
	body := `{"followedUserId":"` + followee.Hex() + `"}`

	w := httptest.NewRecorder()
	h.Follow(w, authedRequest(http.MethodPost, "/api/follow", body, follower))
	require.Equal(t, http.StatusNoContent, w.Code)

	// Following twice conflicts.
	w = httptest.NewRecorder()
	h.Follow(w, authedRequest(http.MethodPost, "/api/follow", body, follower))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already following")

	w = httptest.NewRecorder()
	h.Unfollow(w, authedRequest(http.MethodDelete, "/api/follow", body, follower))
	require.Equal(t, http.StatusNoContent, w.Code)

	// Unfollowing someone not followed is a 404.
	w = httptest.NewRecorder()
	h.Unfollow(w, authedRequest(http.MethodDelete, "/api/follow", body, follower))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not following")
}

func TestFollowSelfRejected(t *testing.T) {
	h := &FollowHandler{Follows: newFakeFollowStore()}
	userID := primitive.NewObjectID()

	w := httptest.NewRecorder()
	h.Follow(w, authedRequest(http.MethodPost, "/api/follow",
		`{"followedUserId":"`+userID.Hex()+`"}`, userID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot follow yourself")
}

func TestFollowInvalidTargetID(t *testing.T) {
	h := &FollowHandler{Follows: newFakeFollowStore()}
	w := httptest.NewRecorder()
	h.Follow(w, authedRequest(http.MethodPost, "/api/follow",
		`{"followedUserId":"not-hex"}`, primitive.NewObjectID()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
