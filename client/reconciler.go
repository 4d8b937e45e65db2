package client

import (
	"context"
	"strconv"
	"strings"

	"github.com/readly-app/backend/models"
)

// ShelfState is the entry's state before an edit, as the client last saw
// it. OnShelf is false when the progress fetch returned "not on shelf" and
// the rest of the fields hold the want-to-read/page-0 defaults.
type ShelfState struct {
	OnShelf    bool
	Status     models.ReadingStatus
	Page       int
	TotalPages *int
}

// BookRef is the catalog metadata the status call carries so the server
// can create the entry on first shelving.
type BookRef struct {
	ExternalBookID string
	Name           string
	Author         string
	PageCount      *int
}

// SavePlan is the minimal, ordered set of calls a shelf edit needs:
// status first (the entry must exist and reflect a real status before any
// page write), then at most one page update.
type SavePlan struct {
	SetStatus bool
	SetPage   bool
	Page      int
}

// NoOp reports whether the plan issues no remote calls at all. A no-op
// save still succeeds: saving the state you already have is not an error.
func (p SavePlan) NoOp() bool {
	return !p.SetStatus && !p.SetPage
}

// PlanSave computes the calls needed to move a shelf entry from its
// current state to the requested one.
//
// rawPage is the user's page input: empty means no explicit page. A
// non-empty value must parse to a non-negative integer and stay within the
// known total, checked before anything is issued. Finishing a book with a
// known total auto-targets the last page without needing a page call,
// because the server pins the page on the finished transition.
func PlanSave(st ShelfState, target models.ReadingStatus, rawPage string) (SavePlan, error) {
	var plan SavePlan

	rawPage = strings.TrimSpace(rawPage)
	explicit := rawPage != ""
	page := 0
	if explicit {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 0 {
			return plan, ErrInvalidPageNumber
		}
		page = n
	}

	if explicit && st.TotalPages != nil && page > *st.TotalPages {
		return plan, ErrPageExceedsTotal
	}

	// A first-time claim (book still on the want-to-read default but the
	// user typed a real page) also needs the status call, so the entry
	// exists before the page write.
	plan.SetStatus = target != st.Status ||
		(st.Status == models.StatusWantToRead && explicit && page != 0)

	// The page the server will show once the status call (if any) has
	// landed. Finished-with-known-total pins to the total, want-to-read
	// resets to zero, a fresh entry starts at zero, anything else keeps
	// the stored page.
	pageAfterStatus := st.Page
	if plan.SetStatus {
		switch {
		case target == models.StatusFinished && st.TotalPages != nil:
			pageAfterStatus = *st.TotalPages
		case target == models.StatusWantToRead:
			pageAfterStatus = 0
		case !st.OnShelf:
			pageAfterStatus = 0
		}
	}

	desired := pageAfterStatus
	if explicit {
		desired = page
	}

	// Only statuses with meaningful page positions get page writes:
	// currently-reading always, finished only when the total is unknown
	// (a pages-read entry). Equal pages skip the call entirely.
	pageEligible := target == models.StatusCurrentlyReading ||
		(target == models.StatusFinished && st.TotalPages == nil)
	if pageEligible && desired != pageAfterStatus {
		plan.SetPage = true
		plan.Page = desired
	}

	return plan, nil
}

// progressAPI is the slice of the session the reconciler needs; tests
// substitute a call recorder.
type progressAPI interface {
	UpdateStatus(ctx context.Context, req StatusUpdate) (*models.ShelfEntry, error)
	UpdatePage(ctx context.Context, externalBookID string, currentPage int) (*models.ShelfEntry, error)
}

// SaveResult reports what a reconciliation actually did.
type SaveResult struct {
	Entry        *models.ShelfEntry // nil when no call was issued
	StatusCalled bool
	PageCalled   bool
	Message      string
}

// SaveProgress plans and executes a shelf edit: at most two remote
// mutations, status strictly before page. A failure after a successful
// status call is still reported as a failure so the caller knows to retry;
// the retry is safe because both calls are idempotent.
func (s *Session) SaveProgress(ctx context.Context, book BookRef, st ShelfState, target models.ReadingStatus, rawPage string) (*SaveResult, error) {
	return saveProgress(ctx, s, book, st, target, rawPage)
}

func saveProgress(ctx context.Context, api progressAPI, book BookRef, st ShelfState, target models.ReadingStatus, rawPage string) (*SaveResult, error) {
	plan, err := PlanSave(st, target, rawPage)
	if err != nil {
		return nil, err
	}

	result := &SaveResult{}
	if plan.NoOp() {
		result.Message = "already up to date"
		return result, nil
	}

	if plan.SetStatus {
		entry, err := api.UpdateStatus(ctx, StatusUpdate{
			ExternalBookID: book.ExternalBookID,
			Name:           book.Name,
			Author:         book.Author,
			PageCount:      book.PageCount,
			Status:         target,
		})
		if err != nil {
			return nil, err
		}
		result.Entry = entry
		result.StatusCalled = true
	}

	if plan.SetPage {
		entry, err := api.UpdatePage(ctx, book.ExternalBookID, plan.Page)
		if err != nil {
			return nil, err
		}
		result.Entry = entry
		result.PageCalled = true
	}

	result.Message = "progress saved"
	return result, nil
}
