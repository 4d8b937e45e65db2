package service

import (
	"context"
	"log"
	"sync"

	"github.com/readly-app/backend/models"
)

// defaultHydrateConcurrency bounds how many catalog lookups run at once
// when enriching a shelf. One request per shelf item with no cap was how
// the original client behaved; a fixed pool keeps large shelves from
// hammering the catalog.
const defaultHydrateConcurrency = 4

type VolumeLookup interface {
	VolumeByID(volumeID string) (*Volume, error)
}

// Hydrator enriches shelf entries with full catalog metadata.
type Hydrator struct {
	Catalog     VolumeLookup
	Concurrency int
}

// HydratedEntry is a shelf entry plus whatever catalog detail was
// available. FromCatalog is false when the lookup failed and the stored
// shelf metadata is all there is.
type HydratedEntry struct {
	models.ShelfEntry
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Publisher    string `json:"publisher,omitempty"`
	FromCatalog  bool   `json:"fromCatalog"`
}

// Hydrate looks up every entry's volume with bounded concurrency. A failed
// lookup falls back to the entry's stored metadata; one bad item never
// fails the whole list. Order of the input is preserved.
func (h *Hydrator) Hydrate(ctx context.Context, entries []models.ShelfEntry) []HydratedEntry {
	out := make([]HydratedEntry, len(entries))

	workers := h.Concurrency
	if workers <= 0 {
		workers = defaultHydrateConcurrency
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, entry := range entries {
		out[i] = HydratedEntry{ShelfEntry: entry}

		wg.Add(1)
		go func(i int, externalID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			vol, err := h.Catalog.VolumeByID(externalID)
			if err != nil {
				log.Printf("hydrate: volume %s: %v", externalID, err)
				return
			}
			out[i].Description = vol.Description
			out[i].ThumbnailURL = vol.ThumbnailURL
			out[i].Publisher = vol.Publisher
			if vol.PageCount != nil && out[i].PageCount == nil {
				out[i].PageCount = vol.PageCount
			}
			out[i].FromCatalog = true
		}(i, entry.ExternalBookID)
	}
	wg.Wait()
	return out
}
