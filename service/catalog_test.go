package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vol123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "vol123",
			"volumeInfo": {
				"title": "The Left Hand of Darkness",
				"authors": ["Ursula K. Le Guin"],
				"description": "A story of Gethen.",
				"pageCount": 304,
				"imageLinks": {"thumbnail": "https://img/thumb.jpg"}
			}
		}`))
	}))
	defer srv.Close()

	c := &Catalog{BaseURL: srv.URL, Client: srv.Client()}
	vol, err := c.VolumeByID("vol123")
	require.NoError(t, err)
	assert.Equal(t, "vol123", vol.ExternalID)
	assert.Equal(t, "The Left Hand of Darkness", vol.Title)
	assert.Equal(t, []string{"Ursula K. Le Guin"}, vol.Authors)
	require.NotNil(t, vol.PageCount)
	assert.Equal(t, 304, *vol.PageCount)
	assert.Equal(t, "https://img/thumb.jpg", vol.ThumbnailURL)
}

func TestVolumeByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := &Catalog{BaseURL: srv.URL, Client: srv.Client()}
	_, err := c.VolumeByID("missing")
	assert.ErrorIs(t, err, ErrVolumeNotFound)
}

func TestVolumeByIDOmitsZeroPageCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "v", "volumeInfo": {"title": "No Count"}}`))
	}))
	defer srv.Close()

	c := &Catalog{BaseURL: srv.URL, Client: srv.Client()}
	vol, err := c.VolumeByID("v")
	require.NoError(t, err)
	assert.Nil(t, vol.PageCount)
}
