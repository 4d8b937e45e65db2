package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/readly-app/backend/models"
	"github.com/readly-app/backend/service"
)

// TokenProvider yields the bearer token for a request. Injecting it keeps
// the session free of global token state and lets callers refresh tokens
// behind the interface.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider for a fixed token string.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

var defaultHTTPClient = &http.Client{Timeout: 15 * time.Second}

// Session is one authenticated connection to the API. Zero-value fields
// fall back to sane defaults; Tokens may be nil for the unauthenticated
// register/login calls.
type Session struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenProvider
}

func NewSession(baseURL string, tokens TokenProvider) *Session {
	return &Session{BaseURL: baseURL, Tokens: tokens}
}

func (s *Session) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return defaultHTTPClient
}

// do issues one JSON request. Non-2xx responses become *APIError carrying
// the server's error message when the body had one; body decode failures
// are remote errors, never panics.
func (s *Session) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Tokens != nil {
		token, err := s.Tokens.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRemote, err)
	}
	return nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Session) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := s.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := s.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatusUpdate is the payload of the overall-status call. It carries the
// book metadata so the server can create the entry on first shelving.
type StatusUpdate struct {
	ExternalBookID string               `json:"externalBookId"`
	Name           string               `json:"name"`
	Author         string               `json:"author,omitempty"`
	PageCount      *int                 `json:"pageCount,omitempty"`
	Status         models.ReadingStatus `json:"status"`
}

func (s *Session) UpdateStatus(ctx context.Context, req StatusUpdate) (*models.ShelfEntry, error) {
	var entry models.ShelfEntry
	if err := s.do(ctx, http.MethodPost, "/api/status", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Session) UpdatePage(ctx context.Context, externalBookID string, currentPage int) (*models.ShelfEntry, error) {
	body := map[string]interface{}{"externalBookId": externalBookID, "currentPage": currentPage}
	var entry models.ShelfEntry
	if err := s.do(ctx, http.MethodPost, "/api/page", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// BookProgress is the client-side view of a shelf entry. A book that is
// not on the shelf yet is not an error: it reads as the want-to-read
// default at page zero, with OnShelf false and a distinct message.
type BookProgress struct {
	OnShelf   bool
	Status    models.ReadingStatus
	Page      int
	PageCount *int
	Message   string
}

func (s *Session) Progress(ctx context.Context, externalBookID string) (*BookProgress, error) {
	var entry models.ShelfEntry
	err := s.do(ctx, http.MethodGet, "/api/progress/"+url.PathEscape(externalBookID), nil, &entry)
	if errors.Is(err, ErrNotFound) {
		return &BookProgress{
			Status:  models.StatusWantToRead,
			Message: "not yet on your shelf",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &BookProgress{
		OnShelf:   true,
		Status:    entry.Status,
		Page:      entry.CurrentPage,
		PageCount: entry.PageCount,
	}, nil
}

func (s *Session) Shelf(ctx context.Context, status models.ReadingStatus) ([]models.ShelfEntry, error) {
	var entries []models.ShelfEntry
	if err := s.do(ctx, http.MethodGet, "/api/shelf/"+url.PathEscape(string(status)), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

type ReviewRequest struct {
	ExternalBookID string `json:"externalBookId"`
	BookName       string `json:"bookName"`
	Rating         int    `json:"rating"`
	Description    string `json:"description,omitempty"`
}

func (s *Session) PostReview(ctx context.Context, req ReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := s.do(ctx, http.MethodPost, "/api/review", req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Session) ReviewsForBook(ctx context.Context, externalBookID string) ([]models.Review, error) {
	var reviews []models.Review
	path := "/api/review?external_book_id=" + url.QueryEscape(externalBookID)
	if err := s.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Session) ReviewFeed(ctx context.Context) ([]service.ReviewFeedItem, error) {
	var items []service.ReviewFeedItem
	if err := s.do(ctx, http.MethodGet, "/api/feed/review", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Session) HistoryFeed(ctx context.Context) ([]service.HistoryFeedItem, error) {
	var items []service.HistoryFeedItem
	if err := s.do(ctx, http.MethodGet, "/api/feed/history", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Session) Follow(ctx context.Context, followedUserID string) error {
	return s.do(ctx, http.MethodPost, "/api/follow", map[string]string{"followedUserId": followedUserID}, nil)
}

func (s *Session) Unfollow(ctx context.Context, followedUserID string) error {
	return s.do(ctx, http.MethodDelete, "/api/follow", map[string]string{"followedUserId": followedUserID}, nil)
}
