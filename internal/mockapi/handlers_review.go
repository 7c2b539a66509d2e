// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursescope/coursescope/internal/platform/apperr"
	"github.com/coursescope/coursescope/internal/platform/validate"
	"github.com/coursescope/coursescope/internal/review"
)

/*
listReviews serves a course's reviews, server-sorted.

GET /api/reviews/{courseID}?sortBy=

Response:
  - 200: Array of reviews (anonymous ones redacted)
  - 400: Unknown sort key
  - 404: Unknown course ID
*/
func (h *handlers) listReviews(writer http.ResponseWriter, request *http.Request) {
	courseID := chi.URLParam(request, "courseID")

	sortBy := request.URL.Query().Get("sortBy")
	if sortBy == "" {
		sortBy = review.SortRatingAsc
	}
	v := &validate.Validator{}
	if err := v.OneOf("sortBy", sortBy, review.SortKeys...).Err(); err != nil {
		writeError(writer, err)
		return
	}

	listed, exists := h.store.ReviewsForCourse(courseID, sortBy)
	if !exists {
		writeError(writer, apperr.NotFound("Course"))
		return
	}
	if listed == nil {
		listed = []review.Review{}
	}

	writeJSON(writer, http.StatusOK, listed)
}

/*
listMyReviews serves every review the authenticated user wrote, newest first.

GET /api/reviews/me
*/
func (h *handlers) listMyReviews(writer http.ResponseWriter, request *http.Request) {
	claims := claimsFrom(request)

	mine := h.store.ReviewsByUser(claims.UserID)
	if mine == nil {
		mine = []review.Review{}
	}

	writeJSON(writer, http.StatusOK, mine)
}

/*
hasReviewed reports whether the authenticated user already reviewed the course.

GET /api/reviews/{courseID}/has-reviewed

Response:
  - 200: A bare JSON boolean
*/
func (h *handlers) hasReviewed(writer http.ResponseWriter, request *http.Request) {
	claims := claimsFrom(request)
	courseID := chi.URLParam(request, "courseID")

	writeJSON(writer, http.StatusOK, h.store.HasReviewed(claims.UserID, courseID))
}

/*
createReview posts a new review.

POST /api/reviews/{courseID}

Response:
  - 201: The created review
  - 400: Field constraint violation
  - 404: Unknown course ID
  - 409: The user already reviewed this course
*/
func (h *handlers) createReview(writer http.ResponseWriter, request *http.Request) {
	claims := claimsFrom(request)
	courseID := chi.URLParam(request, "courseID")

	var draft review.Draft
	if err := decodeJSON(request, &draft); err != nil {
		writeError(writer, err)
		return
	}
	if err := validateDraft(draft); err != nil {
		writeError(writer, err)
		return
	}

	created, err := h.store.CreateReview(claims.UserID, courseID, draft)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusCreated, created)
}

/*
replaceReview fully replaces a review.

PUT /api/reviews/{courseID}/{reviewID}

Response:
  - 200: The updated review
  - 403: Not the author, or the edit window has closed
  - 404: Unknown review ID
*/
func (h *handlers) replaceReview(writer http.ResponseWriter, request *http.Request) {
	claims := claimsFrom(request)
	courseID := chi.URLParam(request, "courseID")
	reviewID := chi.URLParam(request, "reviewID")

	var draft review.Draft
	if err := decodeJSON(request, &draft); err != nil {
		writeError(writer, err)
		return
	}
	if err := validateDraft(draft); err != nil {
		writeError(writer, err)
		return
	}

	updated, err := h.store.ReplaceReview(claims.UserID, courseID, reviewID, draft)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, updated)
}

/*
patchReview applies a partial update; absent fields stay untouched.

PATCH /api/reviews/{courseID}/{reviewID}
*/
func (h *handlers) patchReview(writer http.ResponseWriter, request *http.Request) {
	claims := claimsFrom(request)
	courseID := chi.URLParam(request, "courseID")
	reviewID := chi.URLParam(request, "reviewID")

	var patch review.Patch
	if err := decodeJSON(request, &patch); err != nil {
		writeError(writer, err)
		return
	}
	if err := validatePatch(patch); err != nil {
		writeError(writer, err)
		return
	}

	updated, err := h.store.PatchReview(claims.UserID, courseID, reviewID, patch)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, updated)
}

/*
deleteReview removes a review. Author only.

DELETE /api/reviews/{courseID}/{reviewID}
*/
func (h *handlers) deleteReview(writer http.ResponseWriter, request *http.Request) {
	claims := claimsFrom(request)
	courseID := chi.URLParam(request, "courseID")
	reviewID := chi.URLParam(request, "reviewID")

	if err := h.store.DeleteReview(claims.UserID, courseID, reviewID); err != nil {
		writeError(writer, err)
		return
	}

	writeNoContent(writer)
}

// validateDraft enforces the full-payload field constraints. The client
// applies the same rules before dispatch; the server stays the authority.
func validateDraft(draft review.Draft) error {
	v := &validate.Validator{}
	return v.
		MinLen("content", draft.Content, review.MinContentLen).
		MaxLen("content", draft.Content, review.MaxContentLen).
		Range("rating", draft.Rating, review.MinScore, review.MaxScore).
		Range("difficulty", draft.Difficulty, review.MinScore, review.MaxScore).
		Range("workload", draft.Workload, review.MinScore, review.MaxScore).
		Err()
}

// validatePatch enforces constraints on the fields that are present.
func validatePatch(patch review.Patch) error {
	v := &validate.Validator{}
	if patch.Content != nil {
		v.MinLen("content", *patch.Content, review.MinContentLen).
			MaxLen("content", *patch.Content, review.MaxContentLen)
	}
	if patch.Rating != nil {
		v.Range("rating", *patch.Rating, review.MinScore, review.MaxScore)
	}
	if patch.Difficulty != nil {
		v.Range("difficulty", *patch.Difficulty, review.MinScore, review.MaxScore)
	}
	if patch.Workload != nil {
		v.Range("workload", *patch.Workload, review.MinScore, review.MaxScore)
	}
	return v.Err()
}
