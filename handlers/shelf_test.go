package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/models"
	"github.com/readly-app/backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeShelfStore struct {
	entries map[string]*models.ShelfEntry // keyed by externalBookId
}

func newFakeShelfStore() *fakeShelfStore {
	return &fakeShelfStore{entries: make(map[string]*models.ShelfEntry)}
}

func (f *fakeShelfStore) UpsertStatus(ctx context.Context, userID primitive.ObjectID, externalBookID, name, author string, pageCount *int, status models.ReadingStatus) (*store.UpsertStatusResult, error) {
	existing, ok := f.entries[externalBookID]
	if !ok {
		entry := &models.ShelfEntry{
			ID:             primitive.NewObjectID(),
			UserID:         userID,
			ExternalBookID: externalBookID,
			Name:           name,
			Author:         author,
			PageCount:      pageCount,
			Status:         status,
		}
		if page, defaulted := models.DefaultPageFor(status, pageCount); defaulted {
			entry.CurrentPage = page
		}
		f.entries[externalBookID] = entry
		return &store.UpsertStatusResult{Entry: entry, Created: true, StatusChanged: true}, nil
	}

	changed := existing.Status != status
	existing.Name = name
	existing.Author = author
	existing.Status = status
	if pageCount != nil {
		existing.PageCount = pageCount
	}
	if page, defaulted := models.DefaultPageFor(status, existing.PageCount); defaulted {
		existing.CurrentPage = page
	}
	return &store.UpsertStatusResult{Entry: existing, StatusChanged: changed}, nil
}

func (f *fakeShelfStore) UpdatePage(ctx context.Context, userID primitive.ObjectID, externalBookID string, currentPage int) (*models.ShelfEntry, error) {
	entry, ok := f.entries[externalBookID]
	if !ok {
		return nil, store.ErrNotFound
	}
	entry.CurrentPage = currentPage
	return entry, nil
}

func (f *fakeShelfStore) ShelfEntry(ctx context.Context, userID primitive.ObjectID, externalBookID string) (*models.ShelfEntry, error) {
	entry, ok := f.entries[externalBookID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return entry, nil
}

func (f *fakeShelfStore) ShelfByStatus(ctx context.Context, userID primitive.ObjectID, status models.ReadingStatus) ([]models.ShelfEntry, error) {
	var out []models.ShelfEntry
	for _, e := range f.entries {
		if e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeHistoryStore struct {
	events []models.HistoryEvent
}

func (f *fakeHistoryStore) AppendHistory(ctx context.Context, event *models.HistoryEvent) (primitive.ObjectID, error) {
	event.ID = primitive.NewObjectID()
	f.events = append(f.events, *event)
	return event.ID, nil
}

func authedRequest(method, target, body string, userID primitive.ObjectID) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSetStatusCreatesEntryAndHistory(t *testing.T) {
	shelf := newFakeShelfStore()
	history := &fakeHistoryStore{}
	h := &ShelfHandler{Shelf: shelf, History: history}
	userID := primitive.NewObjectID()

	body := `{"externalBookId":"b1","name":"Dune","author":"Frank Herbert","pageCount":412,"status":"currently_reading"}`
	w := httptest.NewRecorder()
	h.SetStatus(w, authedRequest(http.MethodPost, "/api/status", body, userID))

	require.Equal(t, http.StatusOK, w.Code)
	entry := shelf.entries["b1"]
	require.NotNil(t, entry)
	assert.Equal(t, models.StatusCurrentlyReading, entry.Status)
	require.Len(t, history.events, 1)
	assert.Equal(t, models.ActionAddedCurrentlyReading, history.events[0].Action)
	assert.Equal(t, "b1", history.events[0].ExternalBookID)
}

func TestSetStatusRepeatAddsNoHistory(t *testing.T) {
	shelf := newFakeShelfStore()
	history := &fakeHistoryStore{}
	h := &ShelfHandler{Shelf: shelf, History: history}
	userID := primitive.NewObjectID()

	body := `{"externalBookId":"b1","name":"Dune","status":"currently_reading"}`
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.SetStatus(w, authedRequest(http.MethodPost, "/api/status", body, userID))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, history.events, 1)
}

func TestSetStatusFinishedPinsPageToTotal(t *testing.T) {
	shelf := newFakeShelfStore()
	h := &ShelfHandler{Shelf: shelf, History: &fakeHistoryStore{}}
	userID := primitive.NewObjectID()

	w := httptest.NewRecorder()
	h.SetStatus(w, authedRequest(http.MethodPost, "/api/status",
		`{"externalBookId":"b1","name":"Dune","pageCount":412,"status":"currently_reading"}`, userID))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.SetStatus(w, authedRequest(http.MethodPost, "/api/status",
		`{"externalBookId":"b1","name":"Dune","status":"finished"}`, userID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 412, shelf.entries["b1"].CurrentPage)
}

func TestSetStatusValidation(t *testing.T) {
	h := &ShelfHandler{Shelf: newFakeShelfStore(), History: &fakeHistoryStore{}}
	userID := primitive.NewObjectID()

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing book id", `{"name":"Dune","status":"finished"}`},
		{"missing name", `{"externalBookId":"b1","status":"finished"}`},
		{"unknown status", `{"externalBookId":"b1","name":"Dune","status":"reading"}`},
		{"negative page count", `{"externalBookId":"b1","name":"Dune","pageCount":-1,"status":"finished"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		h.SetStatus(w, authedRequest(http.MethodPost, "/api/status", tc.body, userID))
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestSetPageRequiresExistingEntry(t *testing.T) {
	h := &ShelfHandler{Shelf: newFakeShelfStore(), History: &fakeHistoryStore{}}
	userID := primitive.NewObjectID()

	w := httptest.NewRecorder()
	h.SetPage(w, authedRequest(http.MethodPut, "/api/page",
		`{"externalBookId":"ghost","currentPage":50}`, userID))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not on shelf")
}

func TestSetPageBoundedByPageCount(t *testing.T) {
	shelf := newFakeShelfStore()
	count := 300
	shelf.entries["b1"] = &models.ShelfEntry{
		ExternalBookID: "b1",
		Status:         models.StatusCurrentlyReading,
		PageCount:      &count,
		CurrentPage:    100,
	}
	h := &ShelfHandler{Shelf: shelf, History: &fakeHistoryStore{}}
	userID := primitive.NewObjectID()

	w := httptest.NewRecorder()
	h.SetPage(w, authedRequest(http.MethodPut, "/api/page",
		`{"externalBookId":"b1","currentPage":301}`, userID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "page exceeds total page count")
	assert.Equal(t, 100, shelf.entries["b1"].CurrentPage)

	// Exactly the total is allowed.
	w = httptest.NewRecorder()
	h.SetPage(w, authedRequest(http.MethodPut, "/api/page",
		`{"externalBookId":"b1","currentPage":300}`, userID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 300, shelf.entries["b1"].CurrentPage)
}

func TestSetPageRejectsNegative(t *testing.T) {
	h := &ShelfHandler{Shelf: newFakeShelfStore(), History: &fakeHistoryStore{}}
	w := httptest.NewRecorder()
	h.SetPage(w, authedRequest(http.MethodPut, "/api/page",
		`{"externalBookId":"b1","currentPage":-5}`, primitive.NewObjectID()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgressNotOnShelf(t *testing.T) {
	h := &ShelfHandler{Shelf: newFakeShelfStore(), History: &fakeHistoryStore{}}
	r := authedRequest(http.MethodGet, "/api/progress/ghost", "", primitive.NewObjectID())
	r = withURLParam(r, "externalBookID", "ghost")

	w := httptest.NewRecorder()
	h.Progress(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not on shelf")
}

func TestProgressReturnsEntry(t *testing.T) {
	shelf := newFakeShelfStore()
	shelf.entries["b1"] = &models.ShelfEntry{
		ExternalBookID: "b1",
		Status:         models.StatusCurrentlyReading,
		CurrentPage:    77,
	}
	h := &ShelfHandler{Shelf: shelf, History: &fakeHistoryStore{}}
	r := authedRequest(http.MethodGet, "/api/progress/b1", "", primitive.NewObjectID())
	r = withURLParam(r, "externalBookID", "b1")

	w := httptest.NewRecorder()
	h.Progress(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"currentPage":77`)
}

func TestListUnknownShelf(t *testing.T) {
	h := &ShelfHandler{Shelf: newFakeShelfStore(), History: &fakeHistoryStore{}}
	r := authedRequest(http.MethodGet, "/api/shelf/favorites", "", primitive.NewObjectID())
	r = withURLParam(r, "shelfName", "favorites")

	w := httptest.NewRecorder()
	h.List(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEmptyShelfIsJSONArray(t *testing.T) {
	h := &ShelfHandler{Shelf: newFakeShelfStore(), History: &fakeHistoryStore{}}
	r := authedRequest(http.MethodGet, "/api/shelf/finished", "", primitive.NewObjectID())
	r = withURLParam(r, "shelfName", "finished")

	w := httptest.NewRecorder()
	h.List(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	h := &ShelfHandler{Shelf: newFakeShelfStore(), History: &fakeHistoryStore{}}
	w := httptest.NewRecorder()
	h.SetStatus(w, httptest.NewRequest(http.MethodPost, "/api/status", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
