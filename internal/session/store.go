// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package session implements the client-side identity lifecycle.

It holds the authenticated session (bearer token + cached profile), persists it
across restarts, and broadcasts a signal when the server declares the session
expired so every mounted view resets without a restart.

Architecture:

  - Store: Process-wide session state with durable persistence and the expiry
    broadcast. Implements the token source consumed by the HTTP pipeline.
  - Service: Orchestrates login/register/account-deletion over the HTTP client
    and updates the Store on success.

The store never talks to the network; the service never touches storage
directly. The invariant "user is non-nil iff token is non-empty" is enforced
on every mutation path.
*/
package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursescope/coursescope/internal/platform/storage"
)

// User is the cached profile of the authenticated account.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Program string `json:"program"`
	Year    int    `json:"year"`
}

// Store holds the process-wide session.
//
// # Concurrency
//
// Safe for concurrent use. Mutations happen only on the two serialized paths:
// establish (login/register success) and clear (logout/expiry).
type Store struct {
	storage storage.Store
	log     *slog.Logger

	mu          sync.Mutex
	token       string
	user        *User
	subscribers []chan struct{}
}

// NewStore constructs a [Store] and rehydrates the session from durable
// storage.
//
// # Rehydration
//
// The session is restored only when both the token and the profile entries are
// present; anything less starts unauthenticated. A JWT whose exp claim already
// passed is discarded up front instead of guaranteeing a 401 on first use.
func NewStore(durable storage.Store, log *slog.Logger) *Store {
	store := &Store{storage: durable, log: log}

	token, hasToken := durable.Get(storage.KeyToken)
	rawUser, hasUser := durable.Get(storage.KeyUser)
	if !hasToken || !hasUser {
		return store
	}

	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		log.Warn("session_profile_unreadable", slog.String("error", err.Error()))
		store.clear()
		return store
	}

	if tokenExpired(token, time.Now()) {
		log.Info("session_token_expired_on_startup")
		store.clear()
		return store
	}

	store.token = token
	store.user = &user
	return store
}

// # Reads

// Token returns the current bearer token, or "" when unauthenticated.
// It satisfies the HTTP pipeline's token source contract.
func (store *Store) Token() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.token
}

// CurrentUser returns a copy of the cached profile, or nil when unauthenticated.
func (store *Store) CurrentUser() *User {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.user == nil {
		return nil
	}
	copied := *store.user
	return &copied
}

// IsAuthenticated reports whether a session is active. Authenticated state is
// derived strictly from token presence.
func (store *Store) IsAuthenticated() bool {
	return store.Token() != ""
}

// # Mutations

// establish persists and activates a fresh session. Called only by [Service]
// on login/register success.
func (store *Store) establish(token string, user User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := store.storage.Set(storage.KeyToken, token); err != nil {
		return err
	}
	if err := store.storage.Set(storage.KeyUser, string(raw)); err != nil {
		return err
	}

	store.mu.Lock()
	store.token = token
	store.user = &user
	store.mu.Unlock()
	return nil
}

// Logout clears durable storage and in-memory state. It never calls the
// server and is idempotent: logging out twice leaves identical state.
func (store *Store) Logout() {
	store.clear()
}

// HandleUnauthorized is the expiry interception target wired into the HTTP
// pipeline. It clears the session and notifies every subscriber; firing on an
// already-cleared session is harmless.
func (store *Store) HandleUnauthorized() {
	store.clear()
	store.broadcastExpiry()
	store.log.Info("session_expired")
}

func (store *Store) clear() {
	_ = store.storage.Delete(storage.KeyToken)
	_ = store.storage.Delete(storage.KeyUser)

	store.mu.Lock()
	store.token = ""
	store.user = nil
	store.mu.Unlock()
}

// # Expiry Broadcast

// SubscribeExpiry returns a channel that receives one value per observed
// session expiry. The channel is buffered; a subscriber that has not drained
// the previous signal is not notified twice.
func (store *Store) SubscribeExpiry() <-chan struct{} {
	ch := make(chan struct{}, 1)

	store.mu.Lock()
	store.subscribers = append(store.subscribers, ch)
	store.mu.Unlock()
	return ch
}

func (store *Store) broadcastExpiry() {
	store.mu.Lock()
	subscribers := make([]chan struct{}, len(store.subscribers))
	copy(subscribers, store.subscribers)
	store.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// # Theme Preference

// Theme returns the persisted UI theme, defaulting to "light".
func (store *Store) Theme() string {
	theme, ok := store.storage.Get(storage.KeyTheme)
	if !ok || (theme != "light" && theme != "dark") {
		return "light"
	}
	return theme
}

// SetTheme persists the UI theme preference ("light" or "dark").
func (store *Store) SetTheme(theme string) error {
	return store.storage.Set(storage.KeyTheme, theme)
}

// tokenExpired reports whether token is a JWT whose exp claim is in the past.
// Opaque (non-JWT) tokens and JWTs without exp are treated as live; the
// server remains the authority via 401 responses.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
