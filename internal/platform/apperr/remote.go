// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package apperr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// remotePayload is the union of error body shapes the remote API has been
// observed to produce. Spring-style services answer with either
// {"message": "..."}, {"error": "..."}, a bare string, or a validation
// envelope carrying per-field violations.
type remotePayload struct {
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Details    []FieldError      `json:"details"`
	Violations []remoteViolation `json:"violations"`
	Errors     map[string]string `json:"errors"`
}

type remoteViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FromResponse normalizes a non-2xx remote response into an [*AppError].
//
// # Normalization
//
// This is the single place where the remote error contract is interpreted.
// The status code selects the category; the body (in any of its known shapes)
// supplies the message and field details. An unreadable or empty body falls
// back to a category-default message.
func FromResponse(status int, body []byte) *AppError {
	message, details := parseRemoteBody(body)

	switch status {
	case http.StatusUnauthorized:
		return Unauthorized(withDefault(message, "Your session has expired. Please log in again."))
	case http.StatusForbidden:
		return Forbidden(withDefault(message, "You are not allowed to perform this action."))
	case http.StatusNotFound:
		ae := NotFound("Resource")
		if message != "" {
			ae.Message = message
		}
		return ae
	case http.StatusConflict:
		return Conflict(withDefault(message, "This action conflicts with existing data."))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ValidationError(withDefault(message, "The submitted data is invalid."), details...)
	}

	if status >= 500 {
		ae := Internal(fmt.Errorf("remote status %d", status))
		if message != "" {
			ae.Message = message
		}
		return ae
	}

	// Remaining 4xx statuses have no dedicated category; keep the status so
	// callers can still log something meaningful.
	return &AppError{
		Code:       "REQUEST_FAILED",
		Message:    withDefault(message, fmt.Sprintf("Request failed with status %d", status)),
		HTTPStatus: status,
	}
}

// parseRemoteBody extracts a message and optional field details from an error body.
func parseRemoteBody(body []byte) (string, []FieldError) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}

	var payload remotePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not JSON: some endpoints answer with a plain string.
		return trimmed, nil
	}

	message := payload.Message
	if message == "" {
		message = payload.Error
	}

	details := payload.Details
	for _, v := range payload.Violations {
		details = append(details, FieldError{Field: v.Field, Message: v.Message})
	}
	for field, msg := range payload.Errors {
		details = append(details, FieldError{Field: field, Message: msg})
	}

	// A validation envelope without a top-level message still deserves a
	// readable summary: join the field messages.
	if message == "" && len(details) > 0 {
		parts := make([]string, 0, len(details))
		for _, d := range details {
			parts = append(parts, d.Field+": "+d.Message)
		}
		message = strings.Join(parts, "; ")
	}

	return message, details
}

func withDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
