// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/coursescope/coursescope/internal/platform/validate"
)

// authPayload is the flat envelope both auth endpoints answer with.
type authPayload struct {
	ID      string `json:"id"`
	Token   string `json:"token"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Program string `json:"program"`
	Year    int    `json:"year"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Program  string `json:"program"`
	Year     int    `json:"year"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
register creates a new account and signs it in.

POST /api/auth/register

Response:
  - 201: authPayload with a fresh access token
  - 400: Validation failure (field violations listed)
  - 409: Email already registered
*/
func (h *handlers) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := decodeJSON(request, &input); err != nil {
		writeError(writer, err)
		return
	}

	v := &validate.Validator{}
	v.Required("email", input.Email).
		Email("email", input.Email).
		Custom("email", !hasEmailDomain(input.Email), "Must be a full institutional email address").
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		Required("name", input.Name).
		Required("program", input.Program).
		Custom("year", input.Year < 1, "Must be a positive study year")

	if err := v.Err(); err != nil {
		writeError(writer, err)
		return
	}

	user, err := h.store.RegisterUser(input.Email, input.Name, input.Program, input.Year, input.Password)
	if err != nil {
		writeError(writer, err)
		return
	}

	h.respondWithToken(writer, http.StatusCreated, user)
}

/*
login authenticates an existing account.

POST /api/auth/login

Response:
  - 200: authPayload with a fresh access token
  - 401: Invalid credentials
*/
func (h *handlers) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := decodeJSON(request, &input); err != nil {
		writeError(writer, err)
		return
	}

	v := &validate.Validator{}
	v.Required("email", input.Email).Required("password", input.Password)
	if err := v.Err(); err != nil {
		writeError(writer, err)
		return
	}

	user, err := h.store.Authenticate(input.Email, input.Password)
	if err != nil {
		writeError(writer, err)
		return
	}

	h.respondWithToken(writer, http.StatusOK, user)
}

/*
deleteAccount permanently removes the authenticated account and all of its
reviews.

DELETE /api/account/me

Response:
  - 204: Account removed
  - 401: Authentication required
*/
func (h *handlers) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	claims := claimsFrom(request)

	if err := h.store.DeleteUser(claims.UserID); err != nil {
		writeError(writer, err)
		return
	}

	h.log.Info("account_deleted", slog.String("user_id", claims.UserID))
	writeNoContent(writer)
}

func (h *handlers) respondWithToken(writer http.ResponseWriter, status int, user userRecord) {
	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, status, authPayload{
		ID:      user.ID,
		Token:   token,
		Email:   user.Email,
		Name:    user.Name,
		Program: user.Program,
		Year:    user.Year,
	})
}

// hasEmailDomain reports whether the address carries a dotted host part.
func hasEmailDomain(email string) bool {
	_, host, found := strings.Cut(email, "@")
	return found && strings.Contains(host, ".")
}
