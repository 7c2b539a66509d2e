// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coursescope/coursescope/internal/course"
	"github.com/coursescope/coursescope/internal/review"
	"github.com/coursescope/coursescope/internal/session"
)

// DetailState is the renderable snapshot of a course-detail page.
type DetailState struct {
	Course  *course.Course
	Loading bool
	Err     error

	Reviews    []review.Review
	ReviewSort string
	ReviewsErr error

	HasReviewed    bool
	CheckingReview bool

	// PendingDeleteID is the review armed for deletion; deletion only
	// proceeds through the explicit confirm step.
	PendingDeleteID string
}

// Detail is the course-detail controller: one course, its review list, and
// the coordination that keeps both fresh after review mutations.
type Detail struct {
	courseID string
	courses  *course.Service
	reviews  *review.Service
	sessions *session.Store
	log      *slog.Logger

	mu      sync.Mutex
	state   DetailState
	version uint64
}

// NewDetail constructs a controller for one course.
func NewDetail(courseID string, courses *course.Service, reviews *review.Service, sessions *session.Store, log *slog.Logger) *Detail {
	return &Detail{
		courseID: courseID,
		courses:  courses,
		reviews:  reviews,
		sessions: sessions,
		log:      log,
		state:    DetailState{ReviewSort: review.SortRatingAsc},
	}
}

// State returns a copy of the current view state.
func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// # Loading

// Load performs the mount sequence: fetch the course, load its reviews, and —
// when authenticated — check whether the user already reviewed it.
func (d *Detail) Load(ctx context.Context) {
	d.fetchCourse(ctx)
	d.reloadReviews(ctx)
	d.checkReviewStatus(ctx)
}

// OnReviewChanged is invoked after any create/edit/delete: it re-fetches the
// course (the average rating moved server-side), forces the review list to
// reload, and re-checks the has-reviewed gate.
func (d *Detail) OnReviewChanged(ctx context.Context) {
	d.fetchCourse(ctx)
	d.reloadReviews(ctx)
	d.checkReviewStatus(ctx)
}

// SetReviewSort changes the review sort key and reloads the list.
func (d *Detail) SetReviewSort(ctx context.Context, sortBy string) {
	d.mu.Lock()
	if d.state.ReviewSort == sortBy {
		d.mu.Unlock()
		return
	}
	d.state.ReviewSort = sortBy
	d.version++
	d.mu.Unlock()

	d.reloadReviews(ctx)
}

func (d *Detail) fetchCourse(ctx context.Context) {
	d.mu.Lock()
	issued := d.version
	d.state.Loading = true
	d.mu.Unlock()

	fetched, err := d.courses.GetByID(ctx, d.courseID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if issued != d.version {
		return
	}

	d.state.Loading = false
	if err != nil {
		d.state.Err = err
		return
	}
	d.state.Err = nil
	d.state.Course = fetched
}

func (d *Detail) reloadReviews(ctx context.Context) {
	d.mu.Lock()
	issued := d.version
	sortBy := d.state.ReviewSort
	d.mu.Unlock()

	fetched, err := d.reviews.ListForCourse(ctx, d.courseID, sortBy)

	d.mu.Lock()
	defer d.mu.Unlock()

	if issued != d.version {
		d.log.Debug("detail_stale_reviews_dropped", slog.String("course_id", d.courseID))
		return
	}

	if err != nil {
		d.state.ReviewsErr = err
		return
	}
	d.state.ReviewsErr = nil
	d.state.Reviews = fetched
}

// checkReviewStatus gates the "write a review" action. Unauthenticated users
// skip the call entirely.
func (d *Detail) checkReviewStatus(ctx context.Context) {
	if !d.sessions.IsAuthenticated() {
		d.mu.Lock()
		d.state.HasReviewed = false
		d.mu.Unlock()
		return
	}

	d.mu.Lock()
	d.state.CheckingReview = true
	d.mu.Unlock()

	reviewed := d.reviews.HasReviewed(ctx, d.courseID)

	d.mu.Lock()
	d.state.CheckingReview = false
	d.state.HasReviewed = reviewed
	d.mu.Unlock()
}

// # Review Actions

// CanEditReview reports whether the edit action is offered for r: current
// user is the author and the 48-hour window is still open.
func (d *Detail) CanEditReview(r review.Review) bool {
	user := d.sessions.CurrentUser()
	if user == nil {
		return false
	}
	return review.CanEdit(r, user.ID, time.Now())
}

// RequestDeleteReview arms the confirmation step for one review.
func (d *Detail) RequestDeleteReview(reviewID string) {
	d.mu.Lock()
	d.state.PendingDeleteID = reviewID
	d.mu.Unlock()
}

// CancelDeleteReview disarms the pending deletion.
func (d *Detail) CancelDeleteReview() {
	d.mu.Lock()
	d.state.PendingDeleteID = ""
	d.mu.Unlock()
}

// ConfirmDeleteReview performs the armed deletion. The item is removed from
// local state only after the server acknowledges (confirmed, not
// speculative); afterwards the course and gate are refreshed.
func (d *Detail) ConfirmDeleteReview(ctx context.Context) error {
	d.mu.Lock()
	reviewID := d.state.PendingDeleteID
	d.mu.Unlock()
	if reviewID == "" {
		return nil
	}

	if err := d.reviews.Delete(ctx, d.courseID, reviewID); err != nil {
		return err
	}

	d.mu.Lock()
	d.state.PendingDeleteID = ""
	kept := d.state.Reviews[:0:0]
	for _, r := range d.state.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	d.state.Reviews = kept
	d.mu.Unlock()

	d.fetchCourse(ctx)
	d.checkReviewStatus(ctx)
	return nil
}

// HandleExpiry resets authenticated affordances after a session expiry
// broadcast; the public course data stays on screen.
func (d *Detail) HandleExpiry() {
	d.mu.Lock()
	d.state.HasReviewed = false
	d.state.CheckingReview = false
	d.state.PendingDeleteID = ""
	d.mu.Unlock()
}
