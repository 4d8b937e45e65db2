package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/models"
	"github.com/readly-app/backend/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UsersHandler struct {
	Users UserStore
	Stats *service.Stats
}

type ProfileResponse struct {
	User  *models.User          `json:"user"`
	Stats *service.ProfileStats `json:"stats"`
}

type UpdateProfileRequest struct {
	Bio        *string `json:"bio,omitempty"`
	ProfileImg *string `json:"profileImg,omitempty"`
	YearlyGoal *int    `json:"yearlyGoal,omitempty"`
	MonthGoal  *int    `json:"monthGoal,omitempty"`
}

// Me returns the caller's profile together with derived reading stats.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	h.writeProfile(w, r, userID)
}

// Get returns another user's profile and stats by id.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}
	h.writeProfile(w, r, id)
}

func (h *UsersHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) {
	user, err := h.Users.UserByID(r.Context(), userID)
	if err != nil {
		log.Printf("users: fetch %s: %v", userID.Hex(), err)
		http.Error(w, `{"error":"failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	stats, err := h.Stats.ForUser(r.Context(), userID)
	if err != nil {
		log.Printf("users: stats for %s: %v", userID.Hex(), err)
		http.Error(w, `{"error":"failed to compute stats"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{User: user, Stats: stats})
}

// UpdateMe patches the caller's profile. Absent fields stay untouched.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.YearlyGoal != nil && *req.YearlyGoal < 0 {
		http.Error(w, `{"error":"yearlyGoal must not be negative"}`, http.StatusBadRequest)
		return
	}
	if req.MonthGoal != nil && *req.MonthGoal < 0 {
		http.Error(w, `{"error":"monthGoal must not be negative"}`, http.StatusBadRequest)
		return
	}
	if err := h.Users.UpdateProfile(r.Context(), userID, req.Bio, req.ProfileImg, req.YearlyGoal, req.MonthGoal); err != nil {
		log.Printf("users: update profile %s: %v", userID.Hex(), err)
		http.Error(w, `{"error":"failed to update profile"}`, http.StatusInternalServerError)
		return
	}
	user, err := h.Users.UserByID(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, `{"error":"failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
