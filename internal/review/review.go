// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package review implements the course-review query and mutation service.

It fetches sorted review lists (per course and for the current user), creates,
edits, and deletes reviews, and enforces the client side of the business
rules: field constraints are validated before dispatch, the 48-hour edit
window decides whether the edit action is offered, and the server stays the
final authority on everything.

Architecture:

  - Review/Author: Wire types mirroring the remote contract.
  - Service: All network operations through the shared HTTP pipeline.
  - Edit window: Pure time arithmetic, testable without a clock dependency.
*/
package review

import "time"

// EditWindow is the period after posting during which the author may modify
// a review.
const EditWindow = 48 * time.Hour

// Field constraints enforced before dispatch (the server re-validates).
const (
	MinContentLen = 10
	MaxContentLen = 500
	MinScore      = 1
	MaxScore      = 5
)

// Author is the profile attached to a review. Email, Role, and CreatedAt are
// nullable on the wire; anonymous reviews carry a redacted author.
type Author struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	Name      string  `json:"name"`
	Program   string  `json:"program"`
	Year      int     `json:"year"`
	Role      *string `json:"role"`
	CreatedAt *string `json:"createdAt"`
}

// Review is a single course review.
type Review struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	Rating     int        `json:"rating"`
	Difficulty int        `json:"difficulty"`
	Workload   int        `json:"workload"`
	DatePosted time.Time  `json:"datePosted"`
	LastEdited *time.Time `json:"lastEdited"`
	WrittenBy  Author     `json:"writtenBy"`
	CourseID   string     `json:"courseId"`
	Anonymous  bool       `json:"anonymous"`
}

// # Sorting

const (
	SortRatingAsc      = "rating_asc"
	SortRatingDesc     = "rating_desc"
	SortDifficultyAsc  = "difficulty_asc"
	SortDifficultyDesc = "difficulty_desc"
	SortWorkloadAsc    = "workload_asc"
	SortWorkloadDesc   = "workload_desc"
)

// SortKeys lists every sort key the review list endpoint accepts.
var SortKeys = []string{
	SortRatingAsc, SortRatingDesc,
	SortDifficultyAsc, SortDifficultyDesc,
	SortWorkloadAsc, SortWorkloadDesc,
}

// # Edit Window

// WithinEditWindow reports whether now still falls inside the review's edit
// window. Negative elapsed time (clock skew: a post date in the future) is
// NOT editable.
func WithinEditWindow(r Review, now time.Time) bool {
	elapsed := now.Sub(r.DatePosted)
	return elapsed >= 0 && elapsed < EditWindow
}

// CanEdit reports whether userID may edit the review right now: the user must
// be the author and the edit window must still be open. The client uses this
// to hide the edit action; the server enforces the same rule with Forbidden.
func CanEdit(r Review, userID string, now time.Time) bool {
	return userID != "" && r.WrittenBy.ID == userID && WithinEditWindow(r, now)
}

// WasEdited reports whether the review has been modified since posting.
func WasEdited(r Review) bool {
	return r.LastEdited != nil && !r.LastEdited.Equal(r.DatePosted)
}
