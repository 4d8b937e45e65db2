package models

import "fmt"

// ReadingStatus is the shelf status of a book for one user. The same
// constants are used by the store queries, the HTTP handlers and the client
// package so the status strings cannot drift between layers.
type ReadingStatus string

const (
	StatusWantToRead       ReadingStatus = "want_to_read"
	StatusCurrentlyReading ReadingStatus = "currently_reading"
	StatusFinished         ReadingStatus = "finished"
)

var ValidStatuses = []ReadingStatus{StatusWantToRead, StatusCurrentlyReading, StatusFinished}

// ParseReadingStatus validates a wire-level status string.
func ParseReadingStatus(s string) (ReadingStatus, error) {
	for _, v := range ValidStatuses {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid reading status %q", s)
}

// HistoryAction identifies what a HistoryEvent records.
type HistoryAction string

const (
	ActionWroteReview           HistoryAction = "wrote_review"
	ActionAddedWantToRead       HistoryAction = "added_want_to_read"
	ActionAddedCurrentlyReading HistoryAction = "added_currently_reading"
	ActionAddedFinished         HistoryAction = "added_finished"
)

// ActionForStatus maps a shelf status to the history action recorded when a
// user puts a book into that status.
func ActionForStatus(s ReadingStatus) HistoryAction {
	switch s {
	case StatusCurrentlyReading:
		return ActionAddedCurrentlyReading
	case StatusFinished:
		return ActionAddedFinished
	default:
		return ActionAddedWantToRead
	}
}
