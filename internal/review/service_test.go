// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package review_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursescope/coursescope/internal/platform/apperr"
	"github.com/coursescope/coursescope/internal/platform/httpclient"
	"github.com/coursescope/coursescope/internal/review"
)

type noTokens struct{}

func (noTokens) Token() string { return "" }

func newService(t *testing.T, handler http.HandlerFunc) *review.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := httpclient.New(server.URL, 5*time.Second, noTokens{}, nil, log)
	require.NoError(t, err)
	return review.NewService(client, log)
}

func validDraft() review.Draft {
	return review.Draft{
		Content:    "Great course, learned a lot.",
		Rating:     4,
		Difficulty: 3,
		Workload:   5,
	}
}

/*
TestListForCourse_SortAndDecode checks the sort parameter and wire decoding,
including the nullable lastEdited field.
*/
func TestListForCourse_SortAndDecode(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reviews/c1", r.URL.Path)
		assert.Equal(t, "difficulty_desc", r.URL.Query().Get("sortBy"))

		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"id": "r1", "content": "Hard but rewarding overall.",
			"rating": 5, "difficulty": 5, "workload": 4,
			"datePosted": "2026-03-10T09:00:00Z", "lastEdited": nil,
			"writtenBy": map[string]any{"id": "u1", "name": "Ada", "program": "CS", "year": 3},
			"courseId":  "c1", "anonymous": false,
		}})
	})

	reviews, err := service.ListForCourse(context.Background(), "c1", review.SortDifficultyDesc)
	require.NoError(t, err)

	require.Len(t, reviews, 1)
	assert.Equal(t, "r1", reviews[0].ID)
	assert.Nil(t, reviews[0].LastEdited)
	assert.Equal(t, "Ada", reviews[0].WrittenBy.Name)
}

/*
TestListForCourse_DefaultSort: blank sortBy falls back to rating_asc.
*/
func TestListForCourse_DefaultSort(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rating_asc", r.URL.Query().Get("sortBy"))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := service.ListForCourse(context.Background(), "c1", "")
	require.NoError(t, err)
}

/*
TestCreate_RoundTrip: a created review echoes the submitted field values with
a server-assigned id and post date.
*/
func TestCreate_RoundTrip(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/reviews/c1", r.URL.Path)

		var draft review.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "r-new", "content": draft.Content,
			"rating": draft.Rating, "difficulty": draft.Difficulty, "workload": draft.Workload,
			"datePosted": time.Now().UTC().Format(time.RFC3339),
			"writtenBy":  map[string]any{"id": "u1", "name": "Ada"},
			"courseId":   "c1", "anonymous": false,
		})
	})

	created, err := service.Create(context.Background(), "c1", validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.DatePosted.IsZero())
	assert.Equal(t, "Great course, learned a lot.", created.Content)
	assert.Equal(t, 4, created.Rating)
	assert.Equal(t, 3, created.Difficulty)
	assert.Equal(t, 5, created.Workload)
}

/*
TestCreate_RejectsInvalidDraftBeforeDispatch sweeps the client-side field
constraints: none of these may produce a network call.
*/
func TestCreate_RejectsInvalidDraftBeforeDispatch(t *testing.T) {
	mutate := []struct {
		name   string
		change func(d *review.Draft)
	}{
		{"content_too_short", func(d *review.Draft) { d.Content = "too short" }},
		{"content_too_long", func(d *review.Draft) { d.Content = strings.Repeat("x", 501) }},
		{"rating_zero", func(d *review.Draft) { d.Rating = 0 }},
		{"rating_six", func(d *review.Draft) { d.Rating = 6 }},
		{"difficulty_out_of_range", func(d *review.Draft) { d.Difficulty = -1 }},
		{"workload_out_of_range", func(d *review.Draft) { d.Workload = 9 }},
	}

	for _, tt := range mutate {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			service := newService(t, func(w http.ResponseWriter, r *http.Request) { called = true })

			draft := validDraft()
			tt.change(&draft)

			_, err := service.Create(context.Background(), "c1", draft)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
			assert.False(t, called)
		})
	}
}

/*
TestCreate_ServerConflictIsAuthoritative: the client pre-check may say "not
reviewed", but a server 409 for the one-review rule must surface as CONFLICT.
*/
func TestCreate_ServerConflictIsAuthoritative(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"You have already reviewed this course"}`, http.StatusConflict)
	})

	_, err := service.Create(context.Background(), "c1", validDraft())
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "CONFLICT"))
	assert.Equal(t, "You have already reviewed this course", err.Error())
}

/*
TestUpdate_ForbiddenOutsideWindowIsRendered: a closed edit window answered
with 403 surfaces the server message instead of crashing.
*/
func TestUpdate_ForbiddenOutsideWindowIsRendered(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		http.Error(w, `{"message":"The edit window for this review has closed"}`, http.StatusForbidden)
	})

	_, err := service.Update(context.Background(), "c1", "r1", validDraft())
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
	assert.Equal(t, "The edit window for this review has closed", err.Error())
}

/*
TestPartialUpdate_ValidatesOnlyPresentFields: nil fields are skipped, present
fields are constrained.
*/
func TestPartialUpdate_ValidatesOnlyPresentFields(t *testing.T) {
	rating := 5
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, map[string]any{"rating": float64(5)}, got)

		_ = json.NewEncoder(w).Encode(map[string]any{"id": "r1", "rating": 5})
	})

	updated, err := service.PartialUpdate(context.Background(), "c1", "r1", review.Patch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	bad := 0
	_, err = service.PartialUpdate(context.Background(), "c1", "r1", review.Patch{Rating: &bad})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

/*
TestDelete targets the delete endpoint.
*/
func TestDelete(t *testing.T) {
	var gotPath string
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, service.Delete(context.Background(), "c1", "r1"))
	assert.Equal(t, "/reviews/c1/r1", gotPath)
}

/*
TestHasReviewed_DefaultsFalseOnError: the pre-check never blocks the user;
errors degrade to false.
*/
func TestHasReviewed_DefaultsFalseOnError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{"true", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`true`)) }, true},
		{"false", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`false`)) }, false},
		{"server_error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(t, tt.handler)
			assert.Equal(t, tt.want, service.HasReviewed(context.Background(), "c1"))
		})
	}
}
