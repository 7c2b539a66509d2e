// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package view_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursescope/coursescope/internal/course"
	"github.com/coursescope/coursescope/internal/platform/httpclient"
	"github.com/coursescope/coursescope/internal/view"
)

type noTokens struct{}

func (noTokens) Token() string { return "" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newBrowse(t *testing.T, handler http.HandlerFunc) *view.Browse {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := httpclient.New(server.URL, 5*time.Second, noTokens{}, nil, testLogger())
	require.NoError(t, err)
	return view.NewBrowse(course.NewService(client), 60, testLogger())
}

func coursePage(names []string, totalPages, number int) map[string]any {
	content := make([]map[string]any, 0, len(names))
	for i, name := range names {
		content = append(content, map[string]any{
			"id": name, "name": name, "courseNumber": 1000 + i,
			"department":    map[string]any{"id": "d", "departmentCode": "COMP", "name": "Computer Science"},
			"averageRating": 4.0, "description": "",
		})
	}
	return map[string]any{
		"content": content, "totalElements": len(names), "totalPages": totalPages,
		"size": 60, "number": number, "numberOfElements": len(names),
		"first": number == 0, "last": number >= totalPages-1, "empty": len(names) == 0,
	}
}

/*
TestBrowse_DebouncedSearchIssuesSingleRequest: typing "bio" then "biol" inside
the settle window produces exactly one search call, with query="biol".
*/
func TestBrowse_DebouncedSearchIssuesSingleRequest(t *testing.T) {
	var mu sync.Mutex
	var queries []string

	browse := newBrowse(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("query"))
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(coursePage([]string{"Biology I"}, 1, 0))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		browse.Run(ctx)
	}()

	browse.SetSearchInput("bio")
	time.Sleep(100 * time.Millisecond) // well inside the 400ms settle window
	browse.SetSearchInput("biol")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(queries) > 0
	}, 3*time.Second, 20*time.Millisecond)

	// Give a hypothetical second request time to show up.
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	got := append([]string(nil), queries...)
	mu.Unlock()

	require.Len(t, got, 1)
	assert.Equal(t, "biol", got[0])
	assert.Equal(t, "biol", browse.State().DebouncedQuery)

	cancel()
	<-done
}

/*
TestBrowse_FilterChangeResetsPage: changing department, sort, or the settled
query resets pagination to page zero.
*/
func TestBrowse_FilterChangeResetsPage(t *testing.T) {
	browse := newBrowse(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(coursePage(nil, 10, 0))
	})
	ctx := context.Background()

	browse.SetPage(ctx, 4)
	require.Equal(t, 4, browse.State().Page)

	browse.SetDepartment(ctx, "MATH")
	assert.Equal(t, 0, browse.State().Page)

	browse.SetPage(ctx, 3)
	browse.SetSort(ctx, course.SortRatingDesc)
	assert.Equal(t, 0, browse.State().Page)

	browse.SetPage(ctx, 2)
	browse.ApplySettledQuery(ctx, "algebra")
	assert.Equal(t, 0, browse.State().Page)
}

/*
TestBrowse_StaleResponseIsFenced: a slower response issued under older
parameters must not overwrite the state of a later parameter change.
*/
func TestBrowse_StaleResponseIsFenced(t *testing.T) {
	release := make(chan struct{})

	browse := newBrowse(t, func(w http.ResponseWriter, r *http.Request) {
		dept := r.URL.Query().Get("departmentCode")
		if dept == "COMP" {
			<-release // hold the COMP response until MATH has been applied
			_ = json.NewEncoder(w).Encode(coursePage([]string{"Operating Systems"}, 7, 0))
			return
		}
		_ = json.NewEncoder(w).Encode(coursePage([]string{"Linear Algebra"}, 2, 0))
	})

	ctx := context.Background()

	slow := make(chan struct{})
	go func() {
		defer close(slow)
		browse.SetDepartment(ctx, "COMP")
	}()

	// Let the COMP request reach the server, then switch to MATH.
	time.Sleep(100 * time.Millisecond)
	browse.SetDepartment(ctx, "MATH")

	state := browse.State()
	require.Len(t, state.Courses, 1)
	assert.Equal(t, "Linear Algebra", state.Courses[0].Name)

	// Release the stale COMP response; it must be dropped.
	close(release)
	<-slow

	state = browse.State()
	require.Len(t, state.Courses, 1)
	assert.Equal(t, "Linear Algebra", state.Courses[0].Name)
	assert.Equal(t, 2, state.TotalPages)
	assert.Equal(t, "MATH", state.DepartmentCode)
}

/*
TestBrowse_ErrorKeepsPriorData: a failed refresh surfaces the error but does
not destroy the previously loaded list.
*/
func TestBrowse_ErrorKeepsPriorData(t *testing.T) {
	fail := false
	browse := newBrowse(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(coursePage([]string{"Databases"}, 1, 0))
	})
	ctx := context.Background()

	browse.Refresh(ctx)
	require.Len(t, browse.State().Courses, 1)

	fail = true
	browse.SetPage(ctx, 1)

	state := browse.State()
	assert.Error(t, state.Err)
	assert.Len(t, state.Courses, 1, "prior data must stay intact")
}

/*
TestBrowse_PageWindow: the button window tracks the loaded totals.
*/
func TestBrowse_PageWindow(t *testing.T) {
	browse := newBrowse(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(coursePage([]string{"X"}, 9, 0))
	})
	ctx := context.Background()

	browse.Refresh(ctx)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, browse.PageWindow())

	browse.SetPage(ctx, 8)
	assert.Equal(t, []int{4, 5, 6, 7, 8}, browse.PageWindow())
}
