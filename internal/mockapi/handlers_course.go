// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coursescope/coursescope/internal/course"
	"github.com/coursescope/coursescope/internal/platform/apperr"
	"github.com/coursescope/coursescope/internal/platform/validate"
)

/*
searchCourses serves one page of the filtered, sorted catalog.

GET /api/courses/search?query=&sortBy=&departmentCode=&page=&size=

Response:
  - 200: Page envelope of courses; a page past the end is a valid empty page
  - 400: Unknown sort key
*/
func (h *handlers) searchCourses(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()

	sortBy := values.Get("sortBy")
	if sortBy == "" {
		sortBy = course.SortCourseNumberAsc
	}
	v := &validate.Validator{}
	if err := v.OneOf("sortBy", sortBy, course.SortKeys...).Err(); err != nil {
		writeError(writer, err)
		return
	}

	page, _ := strconv.Atoi(values.Get("page"))
	size, err := strconv.Atoi(values.Get("size"))
	if err != nil || size <= 0 {
		size = course.DefaultPageSize
	}

	result := h.store.SearchCourses(course.SearchParams{
		Query:          values.Get("query"),
		SortBy:         sortBy,
		DepartmentCode: values.Get("departmentCode"),
		Page:           page,
		Size:           size,
	})

	writeJSON(writer, http.StatusOK, result)
}

/*
getCourse serves a single catalog entry.

GET /api/courses/{courseID}

Response:
  - 200: The course
  - 404: Unknown course ID
*/
func (h *handlers) getCourse(writer http.ResponseWriter, request *http.Request) {
	courseID := chi.URLParam(request, "courseID")

	found, exists := h.store.GetCourse(courseID)
	if !exists {
		writeError(writer, apperr.NotFound("Course"))
		return
	}

	writeJSON(writer, http.StatusOK, found)
}
