package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// ErrVolumeNotFound is returned when the catalog has no volume for the id.
var ErrVolumeNotFound = errors.New("catalog: volume not found")

// catalogClient has a short timeout so slow/hung responses don't block
// shelf hydration.
var catalogClient = &http.Client{Timeout: 15 * time.Second}

// googleVolumeResp is the response from GET /volumes/{id}.
type googleVolumeResp struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Subtitle      string   `json:"subtitle"`
		Authors       []string `json:"authors"`
		Publisher     string   `json:"publisher"`
		PublishedDate string   `json:"publishedDate"`
		Description   string   `json:"description"`
		PageCount     int      `json:"pageCount"`
		Categories    []string `json:"categories"`
		ImageLinks    struct {
			SmallThumbnail string `json:"smallThumbnail"`
			Thumbnail      string `json:"thumbnail"`
		} `json:"imageLinks"`
		AverageRating float64 `json:"averageRating"`
		RatingsCount  int     `json:"ratingsCount"`
	} `json:"volumeInfo"`
}

// Volume is the normalized catalog metadata the rest of the app consumes.
// PageCount is nil when the catalog does not know it.
type Volume struct {
	ExternalID   string
	Title        string
	Authors      []string
	Publisher    string
	PublishDate  string
	Description  string
	ThumbnailURL string
	PageCount    *int
	Categories   []string
}

// Catalog looks up volumes in the Google Books API by volume id.
type Catalog struct {
	BaseURL string       // defaults to the public Google Books endpoint
	Client  *http.Client // defaults to catalogClient
}

func (c *Catalog) baseURL() string {
	if c != nil && c.BaseURL != "" {
		return c.BaseURL
	}
	return googleBooksBase
}

func (c *Catalog) httpClient() *http.Client {
	if c != nil && c.Client != nil {
		return c.Client
	}
	return catalogClient
}

// VolumeByID fetches one volume. A 404 from the catalog maps to
// ErrVolumeNotFound; any other non-200 is a remote error.
func (c *Catalog) VolumeByID(volumeID string) (*Volume, error) {
	if volumeID == "" {
		return nil, fmt.Errorf("volume id is required")
	}
	u := c.baseURL() + "/" + url.PathEscape(volumeID)
	resp, err := c.httpClient().Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrVolumeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned %d", resp.StatusCode)
	}
	var data googleVolumeResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	vi := data.VolumeInfo
	vol := &Volume{
		ExternalID:   data.ID,
		Title:        vi.Title,
		Authors:      vi.Authors,
		Publisher:    vi.Publisher,
		PublishDate:  vi.PublishedDate,
		Description:  vi.Description,
		ThumbnailURL: vi.ImageLinks.Thumbnail,
		Categories:   vi.Categories,
	}
	if vol.ExternalID == "" {
		vol.ExternalID = volumeID
	}
	if vi.Subtitle != "" {
		vol.Title = vol.Title + ": " + vi.Subtitle
	}
	if vi.PageCount > 0 {
		count := vi.PageCount
		vol.PageCount = &count
	}
	if vol.ThumbnailURL == "" {
		vol.ThumbnailURL = vi.ImageLinks.SmallThumbnail
	}
	return vol, nil
}
