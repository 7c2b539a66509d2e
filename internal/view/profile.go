// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coursescope/coursescope/internal/review"
	"github.com/coursescope/coursescope/internal/session"
)

// ProfileState is the renderable snapshot of the profile page.
type ProfileState struct {
	User    *session.User
	Reviews []review.Review
	Loading bool
	Err     error

	// DeletionArmed is true after the user requested account deletion but
	// before the explicit confirmation.
	DeletionArmed bool
	Theme         string
}

// Profile is the profile-page controller: the user's own reviews, theme
// preference, and the armed account-deletion flow.
type Profile struct {
	reviews  *review.Service
	auth     *session.Service
	sessions *session.Store
	log      *slog.Logger

	mu      sync.Mutex
	state   ProfileState
	version uint64
}

// NewProfile constructs the profile controller.
func NewProfile(reviews *review.Service, auth *session.Service, sessions *session.Store, log *slog.Logger) *Profile {
	return &Profile{reviews: reviews, auth: auth, sessions: sessions, log: log}
}

// State returns a copy of the current view state.
func (p *Profile) State() ProfileState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Load fetches the current user's reviews. Without a session the page renders
// empty and unauthenticated.
func (p *Profile) Load(ctx context.Context) {
	user := p.sessions.CurrentUser()

	p.mu.Lock()
	issued := p.version
	p.state.User = user
	p.state.Theme = p.sessions.Theme()
	if user == nil {
		p.state.Reviews = nil
		p.state.Loading = false
		p.mu.Unlock()
		return
	}
	p.state.Loading = true
	p.mu.Unlock()

	fetched, err := p.reviews.ListMine(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if issued != p.version {
		return
	}

	p.state.Loading = false
	if err != nil {
		p.state.Err = err
		return
	}
	p.state.Err = nil
	p.state.Reviews = fetched
}

// # Account Deletion

// RequestAccountDeletion arms the confirmation step. Nothing is sent yet.
func (p *Profile) RequestAccountDeletion() {
	p.mu.Lock()
	p.state.DeletionArmed = true
	p.mu.Unlock()
}

// CancelAccountDeletion disarms the confirmation step.
func (p *Profile) CancelAccountDeletion() {
	p.mu.Lock()
	p.state.DeletionArmed = false
	p.mu.Unlock()
}

// ConfirmAccountDeletion performs the destructive call, which also logs the
// session out on success. The caller is expected to navigate to the login
// view afterwards.
func (p *Profile) ConfirmAccountDeletion(ctx context.Context) error {
	p.mu.Lock()
	armed := p.state.DeletionArmed
	p.mu.Unlock()
	if !armed {
		return nil
	}

	if err := p.auth.DeleteAccount(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	p.version++
	p.state = ProfileState{Theme: p.state.Theme}
	p.mu.Unlock()
	return nil
}

// # Theme & Expiry

// ToggleTheme flips and persists the light/dark preference.
func (p *Profile) ToggleTheme() {
	next := "dark"
	if p.sessions.Theme() == "dark" {
		next = "light"
	}
	if err := p.sessions.SetTheme(next); err != nil {
		p.log.Warn("theme_persist_failed", slog.String("error", err.Error()))
	}

	p.mu.Lock()
	p.state.Theme = next
	p.mu.Unlock()
}

// HandleExpiry resets the page to its unauthenticated state after a session
// expiry broadcast.
func (p *Profile) HandleExpiry() {
	p.mu.Lock()
	p.version++
	p.state = ProfileState{Theme: p.state.Theme}
	p.mu.Unlock()
}
