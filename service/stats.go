package service

import (
	"context"
	"time"

	"github.com/readly-app/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShelfStatsSource interface {
	CountShelfByStatus(ctx context.Context, userID primitive.ObjectID, status models.ReadingStatus) (int64, error)
	AllShelfEntries(ctx context.Context, userID primitive.ObjectID) ([]models.ShelfEntry, error)
}

type ReviewStatsSource interface {
	CountReviewsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type HistoryStatsSource interface {
	CountHistoryInWindow(ctx context.Context, userID primitive.ObjectID, action models.HistoryAction, from, to time.Time) (int64, error)
	HistoryTimes(ctx context.Context, userID primitive.ObjectID) ([]time.Time, error)
}

// Stats computes the derived profile numbers consumed by the profile and
// home views. Now is injectable so window and streak math is testable;
// when nil, time.Now is used. All windows use the server clock, not the
// client's.
type Stats struct {
	Shelf   ShelfStatsSource
	Reviews ReviewStatsSource
	History HistoryStatsSource
	Now     func() time.Time
}

type ProfileStats struct {
	BooksFinishedTotal    int64 `json:"booksFinishedTotal"`
	CurrentlyReadingCount int64 `json:"currentlyReadingCount"`
	ReviewCount           int64 `json:"reviewCount"`
	YearlyFinishedCount   int64 `json:"yearlyFinishedCount"`
	MonthlyFinishedCount  int64 `json:"monthlyFinishedCount"`
	TotalPagesRead        int   `json:"totalPagesRead"`
	ReadingStreak         int   `json:"readingStreak"`
}

func (s *Stats) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Stats) ForUser(ctx context.Context, userID primitive.ObjectID) (*ProfileStats, error) {
	stats := &ProfileStats{}

	var err error
	if stats.BooksFinishedTotal, err = s.Shelf.CountShelfByStatus(ctx, userID, models.StatusFinished); err != nil {
		return nil, err
	}
	if stats.CurrentlyReadingCount, err = s.Shelf.CountShelfByStatus(ctx, userID, models.StatusCurrentlyReading); err != nil {
		return nil, err
	}
	if stats.ReviewCount, err = s.Reviews.CountReviewsByUser(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now()
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	startOfNextYear := startOfYear.AddDate(1, 0, 0)
	if stats.YearlyFinishedCount, err = s.History.CountHistoryInWindow(ctx, userID, models.ActionAddedFinished, startOfYear, startOfNextYear); err != nil {
		return nil, err
	}
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfNextMonth := startOfMonth.AddDate(0, 1, 0)
	if stats.MonthlyFinishedCount, err = s.History.CountHistoryInWindow(ctx, userID, models.ActionAddedFinished, startOfMonth, startOfNextMonth); err != nil {
		return nil, err
	}

	entries, err := s.Shelf.AllShelfEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalPagesRead = totalPagesRead(entries)

	times, err := s.History.HistoryTimes(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.ReadingStreak = readingStreak(times, now)

	return stats, nil
}

// totalPagesRead sums pages over finished entries (full page count) and
// currently-reading entries (pages reached so far). Want-to-read entries do
// not count: shelving a book is not reading it.
func totalPagesRead(entries []models.ShelfEntry) int {
	total := 0
	for _, e := range entries {
		switch e.Status {
		case models.StatusFinished:
			if e.PageCount != nil {
				total += *e.PageCount
			} else {
				total += e.CurrentPage
			}
		case models.StatusCurrentlyReading:
			total += e.CurrentPage
		}
	}
	return total
}

// readingStreak counts consecutive calendar days ending today on which the
// user has at least one history event. A day with no events breaks the
// streak immediately, so no event today means a streak of zero.
func readingStreak(eventTimes []time.Time, now time.Time) int {
	if len(eventTimes) == 0 {
		return 0
	}
	days := make(map[time.Time]bool, len(eventTimes))
	for _, t := range eventTimes {
		days[midnightOf(t.In(now.Location()))] = true
	}
	streak := 0
	for day := midnightOf(now); days[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
