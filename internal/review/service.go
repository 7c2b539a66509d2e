// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package review

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/coursescope/coursescope/internal/platform/httpclient"
	"github.com/coursescope/coursescope/internal/platform/validate"
)

// Draft is the full payload for creating or replacing a review.
type Draft struct {
	Content    string `json:"content"`
	Rating     int    `json:"rating"`
	Difficulty int    `json:"difficulty"`
	Workload   int    `json:"workload"`
	Anonymous  bool   `json:"anonymous,omitempty"`
}

// Patch is a partial update; nil fields are left untouched server-side.
type Patch struct {
	Content    *string `json:"content,omitempty"`
	Rating     *int    `json:"rating,omitempty"`
	Difficulty *int    `json:"difficulty,omitempty"`
	Workload   *int    `json:"workload,omitempty"`
	Anonymous  *bool   `json:"anonymous,omitempty"`
}

// Service performs review queries and mutations against the remote API.
type Service struct {
	client *httpclient.Client
	log    *slog.Logger
}

// NewService constructs a [Service].
func NewService(client *httpclient.Client, log *slog.Logger) *Service {
	return &Service{client: client, log: log}
}

// # Queries

/*
ListForCourse fetches the reviews of one course, server-sorted.

A blank sortBy defaults to rating_asc; unknown sort keys fail before dispatch.
*/
func (service *Service) ListForCourse(ctx context.Context, courseID, sortBy string) ([]Review, error) {
	if sortBy == "" {
		sortBy = SortRatingAsc
	}
	v := &validate.Validator{}
	if err := v.OneOf("sortBy", sortBy, SortKeys...).Err(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("sortBy", sortBy)

	var reviews []Review
	if err := service.client.Get(ctx, "/reviews/"+courseID, query, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListMine fetches the current user's reviews. Requires an authenticated
// session (server-enforced; an expired session surfaces as UNAUTHORIZED).
func (service *Service) ListMine(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := service.client.Get(ctx, "/reviews/me", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

/*
HasReviewed reports whether the current user already reviewed the course.

This is a best-effort pre-check used to gate the "write a review" action. On
any error it defaults to false so the user can still attempt submission — the
server remains the final gate via the one-review-per-user rule.
*/
func (service *Service) HasReviewed(ctx context.Context, courseID string) bool {
	var reviewed bool
	if err := service.client.Get(ctx, "/reviews/"+courseID+"/has-reviewed", nil, &reviewed); err != nil {
		service.log.Warn("has_reviewed_check_failed",
			slog.String("course_id", courseID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return reviewed
}

// # Mutations

/*
Create posts a new review for the course.

Field constraints are validated before dispatch; a server-side rejection
(e.g. the one-review-per-user rule) surfaces as CONFLICT or VALIDATION_ERROR.
*/
func (service *Service) Create(ctx context.Context, courseID string, draft Draft) (*Review, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	var created Review
	if err := service.client.Post(ctx, "/reviews/"+courseID, draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

/*
Update fully replaces a review.

The client hides the edit action outside the 48-hour window but does not block
the request itself; the server answers FORBIDDEN for a closed window or a
non-author, and that error is rendered, not swallowed.
*/
func (service *Service) Update(ctx context.Context, courseID, reviewID string, draft Draft) (*Review, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	var updated Review
	if err := service.client.Put(ctx, "/reviews/"+courseID+"/"+reviewID, draft, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PartialUpdate patches only the provided fields, validating each one that is
// present.
func (service *Service) PartialUpdate(ctx context.Context, courseID, reviewID string, patch Patch) (*Review, error) {
	v := &validate.Validator{}
	if patch.Content != nil {
		v.MinLen("content", *patch.Content, MinContentLen).
			MaxLen("content", *patch.Content, MaxContentLen)
	}
	if patch.Rating != nil {
		v.Range("rating", *patch.Rating, MinScore, MaxScore)
	}
	if patch.Difficulty != nil {
		v.Range("difficulty", *patch.Difficulty, MinScore, MaxScore)
	}
	if patch.Workload != nil {
		v.Range("workload", *patch.Workload, MinScore, MaxScore)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var updated Review
	if err := service.client.Patch(ctx, "/reviews/"+courseID+"/"+reviewID, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a review. Only the author may delete; callers remove the
// item from view state only after this returns nil (confirmed, never
// speculative).
func (service *Service) Delete(ctx context.Context, courseID, reviewID string) error {
	return service.client.Delete(ctx, "/reviews/"+courseID+"/"+reviewID)
}

// validateDraft enforces the full-payload field constraints.
func validateDraft(draft Draft) error {
	v := &validate.Validator{}
	return v.
		MinLen("content", draft.Content, MinContentLen).
		MaxLen("content", draft.Content, MaxContentLen).
		Range("rating", draft.Rating, MinScore, MaxScore).
		Range("difficulty", draft.Difficulty, MinScore, MaxScore).
		Range("workload", draft.Workload, MinScore, MaxScore).
		Err()
}
