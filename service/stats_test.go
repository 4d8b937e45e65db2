package service

import (
	"context"
	"testing"
	"time"

	"github.com/readly-app/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStatsStore struct {
	entries []models.ShelfEntry
	reviews int64
	events  []models.HistoryEvent
}

func (f *fakeStatsStore) CountShelfByStatus(ctx context.Context, userID primitive.ObjectID, status models.ReadingStatus) (int64, error) {
	var n int64
	for _, e := range f.entries {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeStatsStore) AllShelfEntries(ctx context.Context, userID primitive.ObjectID) ([]models.ShelfEntry, error) {
	return f.entries, nil
}

func (f *fakeStatsStore) CountReviewsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return f.reviews, nil
}

func (f *fakeStatsStore) CountHistoryInWindow(ctx context.Context, userID primitive.ObjectID, action models.HistoryAction, from, to time.Time) (int64, error) {
	var n int64
	for _, e := range f.events {
		if e.Action == action && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStatsStore) HistoryTimes(ctx context.Context, userID primitive.ObjectID) ([]time.Time, error) {
	times := make([]time.Time, 0, len(f.events))
	for _, e := range f.events {
		times = append(times, e.CreatedAt)
	}
	return times, nil
}

func intPtr(n int) *int { return &n }

func TestReadingStreakStopsAtGap(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	// Events on today, -1, -2 and -4: the gap at -3 caps the streak at 3.
	times := []time.Time{
		now.Add(-2 * time.Hour),
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -2),
		now.AddDate(0, 0, -4),
	}
	assert.Equal(t, 3, readingStreak(times, now))
}

func TestReadingStreakZeroWithoutEventToday(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	times := []time.Time{now.AddDate(0, 0, -1), now.AddDate(0, 0, -2)}
	assert.Equal(t, 0, readingStreak(times, now))
	assert.Equal(t, 0, readingStreak(nil, now))
}

func TestReadingStreakMultipleEventsSameDayCountOnce(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	times := []time.Time{
		now,
		now.Add(-5 * time.Hour),
		now.Add(-10 * time.Hour), // still the 10th
	}
	assert.Equal(t, 1, readingStreak(times, now))
}

func TestTotalPagesReadIgnoresWantToRead(t *testing.T) {
	entries := []models.ShelfEntry{
		{Status: models.StatusFinished, PageCount: intPtr(300)},
		{Status: models.StatusCurrentlyReading, PageCount: intPtr(500), CurrentPage: 120},
		{Status: models.StatusWantToRead, PageCount: intPtr(900)},
		{Status: models.StatusFinished, CurrentPage: 210}, // total unknown, pages-read entry
	}
	assert.Equal(t, 300+120+210, totalPagesRead(entries))
}

func TestStatsForUserWindows(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	userID := primitive.NewObjectID()
	store := &fakeStatsStore{
		entries: []models.ShelfEntry{
			{Status: models.StatusFinished, PageCount: intPtr(200)},
			{Status: models.StatusCurrentlyReading, CurrentPage: 50},
		},
		reviews: 7,
		events: []models.HistoryEvent{
			// finished this month
			{Action: models.ActionAddedFinished, CreatedAt: now.AddDate(0, 0, -3)},
			// finished this year but not this month
			{Action: models.ActionAddedFinished, CreatedAt: now.AddDate(0, -2, 0)},
			// finished last year
			{Action: models.ActionAddedFinished, CreatedAt: now.AddDate(-1, 0, 0)},
			// non-finished action never counts toward finished windows
			{Action: models.ActionWroteReview, CreatedAt: now},
		},
	}
	stats := &Stats{Shelf: store, Reviews: store, History: store, Now: func() time.Time { return now }}

	got, err := stats.ForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.BooksFinishedTotal)
	assert.Equal(t, int64(1), got.CurrentlyReadingCount)
	assert.Equal(t, int64(7), got.ReviewCount)
	assert.Equal(t, int64(2), got.YearlyFinishedCount)
	assert.Equal(t, int64(1), got.MonthlyFinishedCount)
	assert.Equal(t, 250, got.TotalPagesRead)
	// Only today has an event, so the streak is exactly 1.
	assert.Equal(t, 1, got.ReadingStreak)
}
