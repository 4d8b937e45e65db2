package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FollowHandler struct {
	Follows FollowStore
}

type FollowRequest struct {
	FollowedUserID string `json:"followedUserId"`
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, followeeID, ok := h.decode(w, r)
	if !ok {
		return
	}
	err := h.Follows.CreateFollow(r.Context(), followerID, followeeID)
	if err == store.ErrDuplicate {
		http.Error(w, `{"error":"already following"}`, http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("follow: create: %v", err)
		http.Error(w, `{"error":"failed to follow"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, followeeID, ok := h.decode(w, r)
	if !ok {
		return
	}
	err := h.Follows.DeleteFollow(r.Context(), followerID, followeeID)
	if err == store.ErrNotFound {
		http.Error(w, `{"error":"not following"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("follow: delete: %v", err)
		http.Error(w, `{"error":"failed to unfollow"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FollowHandler) decode(w http.ResponseWriter, r *http.Request) (follower, followee primitive.ObjectID, ok bool) {
	follower, authed := middleware.UserIDFromContext(r.Context())
	if !authed {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return follower, followee, false
	}
	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return follower, followee, false
	}
	followee, err := primitive.ObjectIDFromHex(req.FollowedUserID)
	if err != nil {
		http.Error(w, `{"error":"invalid followedUserId"}`, http.StatusBadRequest)
		return follower, followee, false
	}
	if followee == follower {
		http.Error(w, `{"error":"cannot follow yourself"}`, http.StatusBadRequest)
		return follower, followee, false
	}
	return follower, followee, true
}
