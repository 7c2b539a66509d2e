// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coursescope/coursescope/internal/platform/apperr"
)

// errorEnvelope is the JSON error shape the server answers with. The field
// names match what real Spring-style deployments of this API produce, so the
// client-side normalizer treats mock and production responses identically.
type errorEnvelope struct {
	Error      string              `json:"error"`
	Code       string              `json:"code"`
	Violations []apperr.FieldError `json:"violations,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// writeError converts any error into the standard JSON error envelope.
//
// Errors already carrying a category keep their status and code; anything
// else becomes a generic 500.
func writeError(writer http.ResponseWriter, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	status := appError.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	writeJSON(writer, status, errorEnvelope{
		Error:      appError.Message,
		Code:       appError.Code,
		Violations: appError.Details,
	})
}

// decodeJSON parses a request body, rejecting unknown fields.
func decodeJSON(request *http.Request, out any) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return apperr.ValidationError("Request body is not valid JSON")
	}
	return nil
}
