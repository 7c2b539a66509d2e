// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package course implements the course catalog query service.

It translates browse state (query, sort, department filter, page) into
paginated search requests and fetches single-course detail. The server
performs the actual filtering, sorting, and pagination; this package only
shapes the request and decodes the page envelope.

No caching: every parameter change issues a fresh request. Courses are
immutable from the client's perspective except for the average rating, which
moves server-side as reviews change.
*/
package course

// Department identifies an academic department.
type Department struct {
	ID             string `json:"id"`
	DepartmentCode string `json:"departmentCode"`
	Name           string `json:"name"`
}

// Course is a single catalog entry.
type Course struct {
	ID            string     `json:"id"`
	Department    Department `json:"department"`
	CourseNumber  int        `json:"courseNumber"`
	Name          string     `json:"name"`
	AverageRating float64    `json:"averageRating"`
	Description   string     `json:"description"`
}

// # Sorting

// Sort keys follow the {field}_{asc|desc} grammar the server expects.
const (
	SortCourseNumberAsc  = "courseNumber_asc"
	SortCourseNumberDesc = "courseNumber_desc"
	SortRatingAsc        = "rating_asc"
	SortRatingDesc       = "rating_desc"
	SortDifficultyAsc    = "difficulty_asc"
	SortDifficultyDesc   = "difficulty_desc"
	SortWorkloadAsc      = "workload_asc"
	SortWorkloadDesc     = "workload_desc"
)

// SortKeys lists every sort key the search endpoint accepts.
var SortKeys = []string{
	SortCourseNumberAsc, SortCourseNumberDesc,
	SortRatingAsc, SortRatingDesc,
	SortDifficultyAsc, SortDifficultyDesc,
	SortWorkloadAsc, SortWorkloadDesc,
}

// AllDepartments is the sentinel department code meaning "no department
// filter". Search requests translate it into an omitted parameter.
const AllDepartments = "empty"
