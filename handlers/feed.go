package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/service"
)

type FeedHandler struct {
	Composer *service.FeedComposer
}

func (h *FeedHandler) ReviewFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	items, err := h.Composer.ReviewFeed(r.Context(), userID)
	if err != nil {
		log.Printf("feed: review feed: %v", err)
		http.Error(w, `{"error":"failed to build feed"}`, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []service.ReviewFeedItem{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *FeedHandler) HistoryFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	items, err := h.Composer.HistoryFeed(r.Context(), userID)
	if err != nil {
		log.Printf("feed: history feed: %v", err)
		http.Error(w, `{"error":"failed to build feed"}`, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []service.HistoryFeedItem{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}
