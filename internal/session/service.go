// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package session

import (
	"context"
	"log/slog"

	"github.com/coursescope/coursescope/internal/platform/httpclient"
	"github.com/coursescope/coursescope/internal/platform/validate"
)

// # Contracts & Types

// Credentials is the payload for an authentication attempt.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload for enrolling a new account. The server
// additionally validates the email domain and uniqueness.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Program  string `json:"program"`
	Year     int    `json:"year"`
}

// authResponse mirrors the remote auth endpoints' response shape.
type authResponse struct {
	ID      string `json:"id"`
	Token   string `json:"token"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Program string `json:"program"`
	Year    int    `json:"year"`
}

// Service implements the authentication use cases over the remote API.
type Service struct {
	client *httpclient.Client
	store  *Store
	log    *slog.Logger
}

// NewService constructs a [Service] with its dependencies.
func NewService(client *httpclient.Client, store *Store, log *slog.Logger) *Service {
	return &Service{client: client, store: store, log: log}
}

// # Authentication Flow

/*
Login authenticates against the remote API and establishes the session.

Description: Posts credentials; on success persists token and profile to
durable storage and activates the in-memory session.

Parameters:
  - ctx: context.Context
  - credentials: Credentials

Returns:
  - *User: The authenticated profile
  - err: UNAUTHORIZED on invalid credentials (server message propagated),
    VALIDATION_ERROR on malformed input, NETWORK_ERROR on connectivity loss
*/
func (service *Service) Login(ctx context.Context, credentials Credentials) (*User, error) {
	v := &validate.Validator{}
	if err := v.
		Required("email", credentials.Email).
		Email("email", credentials.Email).
		Required("password", credentials.Password).
		Err(); err != nil {
		return nil, err
	}

	var response authResponse
	if err := service.client.Post(ctx, "/auth/login", credentials, &response); err != nil {
		return nil, err
	}

	return service.activate(response)
}

/*
Register enrolls a new account and establishes the session.

Description: Same contract as Login against the registration endpoint; the
server performs domain and uniqueness checks and answers with the same token
envelope.
*/
func (service *Service) Register(ctx context.Context, registration Registration) (*User, error) {
	v := &validate.Validator{}
	if err := v.
		Required("email", registration.Email).
		Email("email", registration.Email).
		Required("password", registration.Password).
		MinLen("password", registration.Password, 8).
		Required("name", registration.Name).
		Required("program", registration.Program).
		Custom("year", registration.Year < 1, "Must be a positive study year").
		Err(); err != nil {
		return nil, err
	}

	var response authResponse
	if err := service.client.Post(ctx, "/auth/register", registration, &response); err != nil {
		return nil, err
	}

	return service.activate(response)
}

// Logout clears the session locally. The server is not called.
func (service *Service) Logout() {
	service.store.Logout()
}

/*
DeleteAccount permanently removes the authenticated account server-side, then
clears the local session.

The caller is responsible for the explicit confirmation step; this method
performs the destructive call unconditionally.
*/
func (service *Service) DeleteAccount(ctx context.Context) error {
	if err := service.client.Delete(ctx, "/account/me"); err != nil {
		return err
	}

	service.store.Logout()
	service.log.Info("account_deleted")
	return nil
}

// activate turns an auth response into an established session.
func (service *Service) activate(response authResponse) (*User, error) {
	user := User{
		ID:      response.ID,
		Email:   response.Email,
		Name:    response.Name,
		Program: response.Program,
		Year:    response.Year,
	}

	if err := service.store.establish(response.Token, user); err != nil {
		return nil, err
	}

	service.log.Info("session_established", slog.String("user_id", user.ID))
	return &user, nil
}
