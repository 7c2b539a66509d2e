// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

// Package pagination provides shared types and helpers for paged API results.
//
// # Overview
//
// It mirrors the server-side page envelope (zero-based page number, totals,
// first/last markers) and standardizes how the client renders page navigation.
package pagination

// WindowSize is the maximum number of page buttons rendered at once.
const WindowSize = 5

// Page is the server-side slice of a larger result set plus metadata
// describing total size and position.
//
// # Invariants
//
//   - Number is zero-based.
//   - len(Content) == NumberOfElements.
//   - Requesting a page at or past TotalPages yields a valid empty page.
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Size             int  `json:"size"`
	Number           int  `json:"number"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

// Window returns the zero-based page numbers to render as buttons: a sliding
// window of at most [WindowSize] pages centered on current, clamped at the
// sequence ends.
//
// # Examples
//
//	Window(0, 3)  -> [0 1 2]
//	Window(5, 20) -> [3 4 5 6 7]
//	Window(19, 20) -> [15 16 17 18 19]
func Window(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	count := WindowSize
	if totalPages < count {
		count = totalPages
	}

	start := 0
	switch {
	case totalPages <= WindowSize:
		start = 0
	case current <= WindowSize/2:
		start = 0
	case current >= totalPages-1-WindowSize/2:
		start = totalPages - WindowSize
	default:
		start = current - WindowSize/2
	}

	pages := make([]int, count)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}
