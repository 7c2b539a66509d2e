// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package view

import (
	"context"
	"sync"
	"time"

	"github.com/coursescope/coursescope/internal/review"
)

// SuccessCloseDelay is how long the success message stays visible before the
// dialog closes itself.
const SuccessCloseDelay = 2 * time.Second

// DialogPhase is the review-authoring state machine phase.
type DialogPhase int

const (
	// DialogIdle accepts input; submission is enabled.
	DialogIdle DialogPhase = iota
	// DialogSubmitting has one request in flight; submission is disabled.
	DialogSubmitting
	// DialogSuccess shows the confirmation; the dialog closes after
	// [SuccessCloseDelay]. Submission stays disabled.
	DialogSuccess
	// DialogClosed is terminal.
	DialogClosed
)

// submitFunc performs the dialog's mutation (create or update).
type submitFunc func(ctx context.Context, draft review.Draft) error

// ReviewDialog is the per-instance authoring state machine:
//
//	Idle -> Submitting -> Success -> (auto-close)
//	              \-> Idle (editable again, error shown)
//
// Only one submission may be in flight per instance; Submit while not Idle is
// a no-op.
type ReviewDialog struct {
	submit     submitFunc
	onChanged  func()
	closeDelay time.Duration

	mu    sync.Mutex
	phase DialogPhase
	err   error
	timer *time.Timer
}

// NewCreateDialog builds a dialog that posts a new review for courseID.
// onChanged fires after a successful submission (before the auto-close).
func NewCreateDialog(reviews *review.Service, courseID string, onChanged func()) *ReviewDialog {
	return newDialog(func(ctx context.Context, draft review.Draft) error {
		_, err := reviews.Create(ctx, courseID, draft)
		return err
	}, onChanged)
}

// NewEditDialog builds a dialog that fully replaces an existing review.
func NewEditDialog(reviews *review.Service, courseID, reviewID string, onChanged func()) *ReviewDialog {
	return newDialog(func(ctx context.Context, draft review.Draft) error {
		_, err := reviews.Update(ctx, courseID, reviewID, draft)
		return err
	}, onChanged)
}

func newDialog(submit submitFunc, onChanged func()) *ReviewDialog {
	return &ReviewDialog{
		submit:     submit,
		onChanged:  onChanged,
		closeDelay: SuccessCloseDelay,
	}
}

// Phase returns the current state machine phase.
func (dialog *ReviewDialog) Phase() DialogPhase {
	dialog.mu.Lock()
	defer dialog.mu.Unlock()
	return dialog.phase
}

// Err returns the error shown when the last submission failed.
func (dialog *ReviewDialog) Err() error {
	dialog.mu.Lock()
	defer dialog.mu.Unlock()
	return dialog.err
}

// CanSubmit reports whether the submit action is enabled.
func (dialog *ReviewDialog) CanSubmit() bool {
	return dialog.Phase() == DialogIdle
}

// Submit runs the dialog's mutation.
//
// While Submitting or after Success the call is ignored (single-flight). On
// failure the dialog returns to Idle with the error visible, leaving the
// draft editable. On success the change callback fires and the auto-close
// timer starts.
func (dialog *ReviewDialog) Submit(ctx context.Context, draft review.Draft) {
	dialog.mu.Lock()
	if dialog.phase != DialogIdle {
		dialog.mu.Unlock()
		return
	}
	dialog.phase = DialogSubmitting
	dialog.err = nil
	dialog.mu.Unlock()

	err := dialog.submit(ctx, draft)

	dialog.mu.Lock()
	if err != nil {
		dialog.phase = DialogIdle
		dialog.err = err
		dialog.mu.Unlock()
		return
	}

	dialog.phase = DialogSuccess
	dialog.timer = time.AfterFunc(dialog.closeDelay, dialog.Close)
	dialog.mu.Unlock()

	if dialog.onChanged != nil {
		dialog.onChanged()
	}
}

// Close finalizes the dialog. Closing twice is harmless.
func (dialog *ReviewDialog) Close() {
	dialog.mu.Lock()
	defer dialog.mu.Unlock()

	if dialog.timer != nil {
		dialog.timer.Stop()
		dialog.timer = nil
	}
	dialog.phase = DialogClosed
}
