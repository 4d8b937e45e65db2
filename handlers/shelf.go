package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/models"
	"github.com/readly-app/backend/service"
	"github.com/readly-app/backend/store"
)

type ShelfHandler struct {
	Shelf    ShelfStore
	History  HistoryStore
	Hydrator *service.Hydrator // nil disables ?details=1
}

type StatusRequest struct {
	ExternalBookID string `json:"externalBookId"`
	Name           string `json:"name"`
	Author         string `json:"author"`
	PageCount      *int   `json:"pageCount,omitempty"`
	Status         string `json:"status"`
}

type PageRequest struct {
	ExternalBookID string `json:"externalBookId"`
	CurrentPage    int    `json:"currentPage"`
}

// SetStatus upserts the caller's shelf entry for a book. Repeating the same
// status is a harmless no-op; only a real transition (or first shelving)
// appends a history event.
func (h *ShelfHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.ExternalBookID == "" || req.Name == "" {
		http.Error(w, `{"error":"externalBookId and name required"}`, http.StatusBadRequest)
		return
	}
	status, err := models.ParseReadingStatus(req.Status)
	if err != nil {
		http.Error(w, `{"error":"invalid status"}`, http.StatusBadRequest)
		return
	}
	if req.PageCount != nil && *req.PageCount < 0 {
		http.Error(w, `{"error":"pageCount must not be negative"}`, http.StatusBadRequest)
		return
	}

	res, err := h.Shelf.UpsertStatus(r.Context(), userID, req.ExternalBookID, req.Name, req.Author, req.PageCount, status)
	if err != nil {
		log.Printf("shelf: upsert status: %v", err)
		http.Error(w, `{"error":"failed to update shelf"}`, http.StatusInternalServerError)
		return
	}

	if res.Created || res.StatusChanged {
		event := &models.HistoryEvent{
			Action:         models.ActionForStatus(status),
			UserID:         userID,
			BookID:         &res.Entry.ID,
			ExternalBookID: req.ExternalBookID,
		}
		if _, err := h.History.AppendHistory(r.Context(), event); err != nil {
			// The shelf write already happened; history is derived data, so
			// log and return the entry anyway.
			log.Printf("shelf: append history: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res.Entry)
}

// SetPage updates the current page of an existing entry. A page cannot be
// set before a status exists for the book.
func (h *ShelfHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.ExternalBookID == "" {
		http.Error(w, `{"error":"externalBookId required"}`, http.StatusBadRequest)
		return
	}
	if req.CurrentPage < 0 {
		http.Error(w, `{"error":"currentPage must not be negative"}`, http.StatusBadRequest)
		return
	}

	existing, err := h.Shelf.ShelfEntry(r.Context(), userID, req.ExternalBookID)
	if err == store.ErrNotFound {
		http.Error(w, `{"error":"not on shelf"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("shelf: fetch entry: %v", err)
		http.Error(w, `{"error":"failed to update page"}`, http.StatusInternalServerError)
		return
	}
	if existing.PageCount != nil && req.CurrentPage > *existing.PageCount {
		http.Error(w, `{"error":"page exceeds total page count"}`, http.StatusBadRequest)
		return
	}

	entry, err := h.Shelf.UpdatePage(r.Context(), userID, req.ExternalBookID, req.CurrentPage)
	if err == store.ErrNotFound {
		http.Error(w, `{"error":"not on shelf"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("shelf: update page: %v", err)
		http.Error(w, `{"error":"failed to update page"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// Progress returns the caller's shelf entry for one book, or 404 when the
// book is not on the shelf yet. Clients treat the 404 as a recoverable
// default (want-to-read, page 0), not an error.
func (h *ShelfHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	externalBookID := chi.URLParam(r, "externalBookID")
	entry, err := h.Shelf.ShelfEntry(r.Context(), userID, externalBookID)
	if err == store.ErrNotFound {
		http.Error(w, `{"error":"not on shelf"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("shelf: fetch progress: %v", err)
		http.Error(w, `{"error":"failed to fetch progress"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// List returns all of the caller's entries in one shelf (status category).
// With ?details=1 the entries are hydrated with catalog metadata.
func (h *ShelfHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	status, err := models.ParseReadingStatus(chi.URLParam(r, "shelfName"))
	if err != nil {
		http.Error(w, `{"error":"unknown shelf"}`, http.StatusBadRequest)
		return
	}
	entries, err := h.Shelf.ShelfByStatus(r.Context(), userID, status)
	if err != nil {
		log.Printf("shelf: list %s: %v", status, err)
		http.Error(w, `{"error":"failed to list shelf"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("details") == "1" && h.Hydrator != nil {
		json.NewEncoder(w).Encode(h.Hydrator.Hydrate(r.Context(), entries))
		return
	}
	if entries == nil {
		entries = []models.ShelfEntry{}
	}
	json.NewEncoder(w).Encode(entries)
}
