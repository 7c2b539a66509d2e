// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package apperr defines the centralized error taxonomy for the CourseScope client.

It provides a rich error type that bridges the gap between raw transport failures
and the states the view layer renders.

Architecture:

  - AppError: A struct containing a machine-readable Code and a user-friendly message.
  - Categories: Network, Unauthorized, Validation, Forbidden, NotFound, Conflict.
  - Normalization: [FromResponse] maps every remote error payload shape onto the taxonomy.

Every error that leaves the HTTP layer is an [AppError] so that controllers never
inspect status codes or payload shapes themselves.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the CourseScope client.
//
// It carries a machine-readable code, a message safe to show the user, the HTTP
// status that produced it (zero when no response was received), and an optional
// slice of field-level validation errors.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "NETWORK_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to render in the UI.
	Message string `json:"error"`
	// HTTPStatus is the status of the response that produced this error.
	// Zero means no response was received at all.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the user-facing message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Error Categories

// Network creates an [AppError] for a request that produced no response at all
// (DNS failure, refused connection, timeout). These render as a generic
// connectivity message.
func Network(cause error) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: "Could not reach the server. Check your connection and try again.",
		Cause:   cause,
	}
}

// Unauthorized creates a 401 [AppError]. The HTTP layer treats this category
// specially: it also triggers the session-expiry flow.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError], e.g. editing a review outside its edit window.
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Course") // Returns "Course not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError], e.g. the one-review-per-course rule.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Internal creates an [AppError] for an unexpected server-side failure (5xx).
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "The server hit an unexpected error. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err is an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsUnauthorized reports whether err is the UNAUTHORIZED category.
func IsUnauthorized(err error) bool { return HasCode(err, "UNAUTHORIZED") }

// IsNetwork reports whether err is the NETWORK_ERROR category.
func IsNetwork(err error) bool { return HasCode(err, "NETWORK_ERROR") }

// IsNotFound reports whether err is the NOT_FOUND category.
func IsNotFound(err error) bool { return HasCode(err, "NOT_FOUND") }
