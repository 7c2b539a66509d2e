// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package view implements the per-page state machines that sit between the UI
and the services.

Each controller owns the state one page renders (loading/error/empty/data),
orchestrates the course/review/session services, and derives consistent view
state. Controllers are UI-toolkit agnostic: a terminal frontend reads their
state snapshots and calls their event methods.

Architecture:

  - Browse: debounced search + department/sort filters + pagination.
  - Detail: one course, its reviews, and the review-change coordination.
  - Profile: the user's own reviews plus armed account deletion.
  - ReviewDialog: the single-flight review-authoring state machine.

# Request Fencing

Parameter changes do not cancel in-flight requests. Instead every fetch
captures a version number under lock; the response is applied only if no
further mutation happened in the meantime. A slower, stale response can
therefore never overwrite state produced by a later parameter change.
*/
package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coursescope/coursescope/internal/course"
	"github.com/coursescope/coursescope/pkg/debounce"
	"github.com/coursescope/coursescope/pkg/pagination"
)

// SearchSettleDelay is how long search input must be stable before a request
// is issued.
const SearchSettleDelay = 400 * time.Millisecond

// BrowseState is the renderable snapshot of the browse page.
type BrowseState struct {
	DepartmentCode string
	SortBy         string
	SearchQuery    string // raw input, updated per keystroke
	DebouncedQuery string // settled input that drove the last fetch
	Page           int    // zero-based

	Loading       bool
	Courses       []course.Course
	TotalPages    int
	TotalElements int
	Err           error
}

// Browse is the course-browsing controller.
type Browse struct {
	courses  *course.Service
	pageSize int
	log      *slog.Logger

	debouncer *debounce.Debouncer[string]

	mu      sync.Mutex
	state   BrowseState
	version uint64 // bumped on every parameter change; fences stale responses
}

// NewBrowse constructs a [Browse] controller with the default filters.
func NewBrowse(courses *course.Service, pageSize int, log *slog.Logger) *Browse {
	return &Browse{
		courses:   courses,
		pageSize:  pageSize,
		log:       log,
		debouncer: debounce.New[string](SearchSettleDelay),
		state: BrowseState{
			DepartmentCode: course.AllDepartments,
			SortBy:         course.SortCourseNumberAsc,
		},
	}
}

// State returns a copy of the current view state.
func (b *Browse) State() BrowseState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// PageWindow returns the page-number buttons to render for the current state.
func (b *Browse) PageWindow() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pagination.Window(b.state.Page, b.state.TotalPages)
}

// # Events

// SetDepartment changes the department filter, resets to the first page, and
// fetches.
func (b *Browse) SetDepartment(ctx context.Context, code string) {
	b.mu.Lock()
	if b.state.DepartmentCode == code {
		b.mu.Unlock()
		return
	}
	b.state.DepartmentCode = code
	b.state.Page = 0
	b.version++
	b.mu.Unlock()

	b.Refresh(ctx)
}

// SetSort changes the sort key, resets to the first page, and fetches.
func (b *Browse) SetSort(ctx context.Context, sortBy string) {
	b.mu.Lock()
	if b.state.SortBy == sortBy {
		b.mu.Unlock()
		return
	}
	b.state.SortBy = sortBy
	b.state.Page = 0
	b.version++
	b.mu.Unlock()

	b.Refresh(ctx)
}

// SetPage navigates to a page without touching the filters.
func (b *Browse) SetPage(ctx context.Context, page int) {
	if page < 0 {
		page = 0
	}

	b.mu.Lock()
	if b.state.Page == page {
		b.mu.Unlock()
		return
	}
	b.state.Page = page
	b.version++
	b.mu.Unlock()

	b.Refresh(ctx)
}

// SetSearchInput records a keystroke. The fetch happens only once the input
// settles; consume it via [Browse.Run] or [Browse.ApplySettledQuery].
func (b *Browse) SetSearchInput(query string) {
	b.mu.Lock()
	b.state.SearchQuery = query
	b.mu.Unlock()

	b.debouncer.Push(query)
}

// ApplySettledQuery installs a settled search query, resets to the first
// page, and fetches. Run calls this; tests may call it directly.
func (b *Browse) ApplySettledQuery(ctx context.Context, query string) {
	b.mu.Lock()
	if b.state.DebouncedQuery == query {
		b.mu.Unlock()
		return
	}
	b.state.DebouncedQuery = query
	b.state.Page = 0
	b.version++
	b.mu.Unlock()

	b.Refresh(ctx)
}

// Run consumes settled search input until ctx is canceled. A UI starts this
// once alongside the event loop.
func (b *Browse) Run(ctx context.Context) {
	defer b.debouncer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case query := <-b.debouncer.C():
			b.ApplySettledQuery(ctx, query)
		}
	}
}

// # Fetching

// Refresh issues a search for the current parameters and applies the result
// unless a newer parameter change fenced it out.
func (b *Browse) Refresh(ctx context.Context) {
	b.mu.Lock()
	issued := b.version
	params := course.SearchParams{
		Query:          b.state.DebouncedQuery,
		SortBy:         b.state.SortBy,
		DepartmentCode: b.state.DepartmentCode,
		Page:           b.state.Page,
		Size:           b.pageSize,
	}
	b.state.Loading = true
	b.mu.Unlock()

	page, err := b.courses.Search(ctx, params)

	b.mu.Lock()
	defer b.mu.Unlock()

	if issued != b.version {
		// A later parameter change already owns the view; drop this result.
		b.log.Debug("browse_stale_response_dropped", slog.Int("page", params.Page))
		return
	}

	b.state.Loading = false
	if err != nil {
		// Keep prior data visible; the error banner renders alongside it.
		b.state.Err = err
		return
	}

	b.state.Err = nil
	b.state.Courses = page.Content
	b.state.TotalPages = page.TotalPages
	b.state.TotalElements = page.TotalElements
}
