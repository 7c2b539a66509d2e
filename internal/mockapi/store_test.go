// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursescope/coursescope/internal/course"
	"github.com/coursescope/coursescope/internal/platform/apperr"
	"github.com/coursescope/coursescope/internal/review"
)

func registeredUser(t *testing.T, store *Store, email string) userRecord {
	t.Helper()
	user, err := store.RegisterUser(email, "Ada Lovelace", "Computer Science", 3, "correct horse battery")
	require.NoError(t, err)
	return user
}

func firstCourse(t *testing.T, store *Store, departmentCode string) course.Course {
	t.Helper()
	page := store.SearchCourses(course.SearchParams{DepartmentCode: departmentCode, Size: 1})
	require.NotEmpty(t, page.Content)
	return page.Content[0]
}

func validDraft() review.Draft {
	return review.Draft{Content: "Dense but rewarding material.", Rating: 4, Difficulty: 4, Workload: 3}
}

func TestStore_RegisterRejectsDuplicateEmail(t *testing.T) {
	store := NewStore()
	registeredUser(t, store, "ada@university.edu")

	_, err := store.RegisterUser("ADA@university.edu", "Someone Else", "Math", 1, "another password")
	assert.True(t, apperr.HasCode(err, "CONFLICT"), "case-folded email must collide")
}

func TestStore_AuthenticateVerifiesPassword(t *testing.T) {
	store := NewStore()
	user := registeredUser(t, store, "ada@university.edu")

	authenticated, err := store.Authenticate("ada@university.edu", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	_, err = store.Authenticate("ada@university.edu", "wrong password")
	assert.True(t, apperr.IsUnauthorized(err))

	_, err = store.Authenticate("nobody@university.edu", "correct horse battery")
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestStore_OneReviewPerUserPerCourse(t *testing.T) {
	store := NewStore()
	user := registeredUser(t, store, "ada@university.edu")
	target := firstCourse(t, store, "COMP")

	_, err := store.CreateReview(user.ID, target.ID, validDraft())
	require.NoError(t, err)
	assert.True(t, store.HasReviewed(user.ID, target.ID))

	_, err = store.CreateReview(user.ID, target.ID, validDraft())
	assert.True(t, apperr.HasCode(err, "CONFLICT"))
}

func TestStore_AverageRatingTracksReviews(t *testing.T) {
	store := NewStore()
	first := registeredUser(t, store, "ada@university.edu")
	second := registeredUser(t, store, "grace@university.edu")
	target := firstCourse(t, store, "MATH")
	require.Zero(t, target.AverageRating)

	draft := validDraft()
	draft.Rating = 5
	_, err := store.CreateReview(first.ID, target.ID, draft)
	require.NoError(t, err)

	draft.Rating = 2
	created, err := store.CreateReview(second.ID, target.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, target.ID, created.CourseID)

	refreshed, found := store.GetCourse(target.ID)
	require.True(t, found)
	assert.InDelta(t, 3.5, refreshed.AverageRating, 1e-9)
}

func TestStore_EditWindowClosesAfter48Hours(t *testing.T) {
	store := NewStore()
	user := registeredUser(t, store, "ada@university.edu")
	target := firstCourse(t, store, "PHYS")

	created, err := store.CreateReview(user.ID, target.ID, validDraft())
	require.NoError(t, err)

	// Inside the window the author may edit.
	draft := validDraft()
	draft.Content = "Revised after the midterm, still recommended."
	updated, err := store.ReplaceReview(user.ID, target.ID, created.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, draft.Content, updated.Content)
	require.NotNil(t, updated.LastEdited)

	// Move the clock past the window.
	store.now = func() time.Time { return time.Now().Add(review.EditWindow + time.Minute) }
	_, err = store.ReplaceReview(user.ID, target.ID, created.ID, draft)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	// Deletion has no time limit.
	assert.NoError(t, store.DeleteReview(user.ID, target.ID, created.ID))
}

func TestStore_NonAuthorCannotMutate(t *testing.T) {
	store := NewStore()
	author := registeredUser(t, store, "ada@university.edu")
	intruder := registeredUser(t, store, "mallory@university.edu")
	target := firstCourse(t, store, "CHEM")

	created, err := store.CreateReview(author.ID, target.ID, validDraft())
	require.NoError(t, err)

	_, err = store.ReplaceReview(intruder.ID, target.ID, created.ID, validDraft())
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	err = store.DeleteReview(intruder.ID, target.ID, created.ID)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
}

func TestStore_AnonymousReviewsAreRedacted(t *testing.T) {
	store := NewStore()
	user := registeredUser(t, store, "ada@university.edu")
	target := firstCourse(t, store, "HIST")

	draft := validDraft()
	draft.Anonymous = true
	created, err := store.CreateReview(user.ID, target.ID, draft)
	require.NoError(t, err)

	// The author ID survives redaction so ownership checks still work.
	assert.Equal(t, user.ID, created.WrittenBy.ID)
	assert.Equal(t, "Anonymous", created.WrittenBy.Name)
	assert.Nil(t, created.WrittenBy.Email)

	listed, exists := store.ReviewsForCourse(target.ID, review.SortRatingAsc)
	require.True(t, exists)
	require.Len(t, listed, 1)
	assert.Equal(t, "Anonymous", listed[0].WrittenBy.Name)
}

func TestStore_DeleteUserRemovesTheirReviews(t *testing.T) {
	store := NewStore()
	leaving := registeredUser(t, store, "ada@university.edu")
	staying := registeredUser(t, store, "grace@university.edu")
	target := firstCourse(t, store, "BIOL")

	_, err := store.CreateReview(leaving.ID, target.ID, validDraft())
	require.NoError(t, err)
	draft := validDraft()
	draft.Rating = 2
	_, err = store.CreateReview(staying.ID, target.ID, draft)
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(leaving.ID))

	_, found := store.GetUser(leaving.ID)
	assert.False(t, found)

	listed, exists := store.ReviewsForCourse(target.ID, review.SortRatingAsc)
	require.True(t, exists)
	require.Len(t, listed, 1)
	assert.Equal(t, staying.ID, listed[0].WrittenBy.ID)

	refreshed, _ := store.GetCourse(target.ID)
	assert.InDelta(t, 2.0, refreshed.AverageRating, 1e-9)

	// The freed email can be registered again.
	_, err = store.RegisterUser("ada@university.edu", "Ada Again", "CS", 4, "another password")
	assert.NoError(t, err)
}

func TestStore_SearchFiltersSortsAndPages(t *testing.T) {
	store := NewStore()

	// Department filter.
	page := store.SearchCourses(course.SearchParams{DepartmentCode: "COMP", Size: 60})
	require.NotEmpty(t, page.Content)
	for _, entry := range page.Content {
		assert.Equal(t, "COMP", entry.Department.DepartmentCode)
	}

	// The sentinel means no filter.
	everything := store.SearchCourses(course.SearchParams{DepartmentCode: course.AllDepartments, Size: 60})
	assert.Greater(t, everything.TotalElements, page.TotalElements)

	// Case-folded free-text query.
	matched := store.SearchCourses(course.SearchParams{Query: "INTRODUCTION TO COMPUTER", Size: 60})
	require.NotEmpty(t, matched.Content)
	for _, entry := range matched.Content {
		assert.Contains(t, entry.Name, "Introduction to Computer")
	}

	// Sorting by course number descending.
	sorted := store.SearchCourses(course.SearchParams{SortBy: course.SortCourseNumberDesc, Size: 10})
	for i := 1; i < len(sorted.Content); i++ {
		assert.GreaterOrEqual(t, sorted.Content[i-1].CourseNumber, sorted.Content[i].CourseNumber)
	}

	// Page past the end is valid and empty.
	past := store.SearchCourses(course.SearchParams{Page: 1000, Size: 60})
	assert.True(t, past.Empty)
	assert.Empty(t, past.Content)
	assert.Equal(t, everything.TotalElements, past.TotalElements)
}
