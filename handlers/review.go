package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/models"
)

type ReviewHandler struct {
	Reviews ReviewStore
	History HistoryStore
}

type ReviewRequest struct {
	ExternalBookID string `json:"externalBookId"`
	BookName       string `json:"bookName"`
	Rating         int    `json:"rating"`
	Description    string `json:"description"`
}

// Create writes a review and records the matching history event. Reviews
// are immutable: there is no edit or delete endpoint.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.ExternalBookID == "" || req.BookName == "" {
		http.Error(w, `{"error":"externalBookId and bookName required"}`, http.StatusBadRequest)
		return
	}
	if err := models.ValidateRating(req.Rating); err != nil {
		http.Error(w, `{"error":"rating must be between 1 and 5"}`, http.StatusBadRequest)
		return
	}

	review := &models.Review{
		UserID:         userID,
		ExternalBookID: req.ExternalBookID,
		BookName:       req.BookName,
		Rating:         req.Rating,
		Description:    req.Description,
	}
	id, err := h.Reviews.InsertReview(r.Context(), review)
	if err != nil {
		log.Printf("review: insert: %v", err)
		http.Error(w, `{"error":"failed to save review"}`, http.StatusInternalServerError)
		return
	}
	review.ID = id

	event := &models.HistoryEvent{
		Action:         models.ActionWroteReview,
		UserID:         userID,
		ExternalBookID: req.ExternalBookID,
	}
	if _, err := h.History.AppendHistory(r.Context(), event); err != nil {
		log.Printf("review: append history: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

// ListByBook returns all reviews for one book, newest first.
func (h *ReviewHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	externalBookID := r.URL.Query().Get("external_book_id")
	if externalBookID == "" {
		http.Error(w, `{"error":"external_book_id required"}`, http.StatusBadRequest)
		return
	}
	reviews, err := h.Reviews.ReviewsByBook(r.Context(), externalBookID)
	if err != nil {
		log.Printf("review: list by book: %v", err)
		http.Error(w, `{"error":"failed to list reviews"}`, http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}
