// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package course

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/coursescope/coursescope/internal/platform/httpclient"
	"github.com/coursescope/coursescope/internal/platform/validate"
	"github.com/coursescope/coursescope/pkg/pagination"
)

// DefaultPageSize is the number of courses requested per page when the
// caller does not specify one.
const DefaultPageSize = 60

// SearchParams is the browse state translated into a search request.
type SearchParams struct {
	// Query is the free-text search; blank means "no query" and the
	// parameter is omitted entirely.
	Query string
	// SortBy is one of [SortKeys]; blank defaults to courseNumber_asc.
	SortBy string
	// DepartmentCode filters to one department; blank or [AllDepartments]
	// omits the parameter.
	DepartmentCode string
	// Page is the zero-based page number.
	Page int
	// Size is the page size; non-positive defaults to [DefaultPageSize].
	Size int
}

// Service fetches courses from the remote API.
type Service struct {
	client *httpclient.Client
}

// NewService constructs a [Service].
func NewService(client *httpclient.Client) *Service {
	return &Service{client: client}
}

/*
Search fetches one page of courses matching the given parameters.

Description: Builds the query string (omitting blank query and the
all-departments sentinel), dispatches GET /courses/search, and decodes the
page envelope. A page at or past the end decodes as a valid empty page.

Parameters:
  - ctx: context.Context
  - params: SearchParams

Returns:
  - pagination.Page[Course]: The requested slice plus totals
  - err: VALIDATION_ERROR for an unknown sort key, or transport errors
*/
func (service *Service) Search(ctx context.Context, params SearchParams) (pagination.Page[Course], error) {
	var page pagination.Page[Course]

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = SortCourseNumberAsc
	}
	v := &validate.Validator{}
	if err := v.OneOf("sortBy", sortBy, SortKeys...).Err(); err != nil {
		return page, err
	}

	size := params.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	query := url.Values{}
	query.Set("sortBy", sortBy)
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("size", strconv.Itoa(size))

	if trimmed := strings.TrimSpace(params.Query); trimmed != "" {
		query.Set("query", trimmed)
	}
	if params.DepartmentCode != "" && params.DepartmentCode != AllDepartments {
		query.Set("departmentCode", params.DepartmentCode)
	}

	if err := service.client.Get(ctx, "/courses/search", query, &page); err != nil {
		return pagination.Page[Course]{}, err
	}
	return page, nil
}

/*
GetByID fetches a single course.

Returns NOT_FOUND when the course does not exist.
*/
func (service *Service) GetByID(ctx context.Context, courseID string) (*Course, error) {
	var fetched Course
	if err := service.client.Get(ctx, "/courses/"+courseID, nil, &fetched); err != nil {
		return nil, err
	}
	return &fetched, nil
}
