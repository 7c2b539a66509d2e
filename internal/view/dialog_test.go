// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package view

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursescope/coursescope/internal/platform/apperr"
	"github.com/coursescope/coursescope/internal/review"
)

func draft() review.Draft {
	return review.Draft{Content: "Great course, learned a lot.", Rating: 4, Difficulty: 3, Workload: 5}
}

/*
TestDialog_SuccessFlow: Idle -> Submitting -> Success, change callback fires,
and the dialog closes itself after the success delay.
*/
func TestDialog_SuccessFlow(t *testing.T) {
	var changed atomic.Int32
	dialog := newDialog(func(ctx context.Context, d review.Draft) error {
		return nil
	}, func() { changed.Add(1) })
	dialog.closeDelay = 30 * time.Millisecond

	require.True(t, dialog.CanSubmit())
	dialog.Submit(context.Background(), draft())

	assert.Equal(t, DialogSuccess, dialog.Phase())
	assert.Equal(t, int32(1), changed.Load())
	assert.False(t, dialog.CanSubmit())

	require.Eventually(t, func() bool {
		return dialog.Phase() == DialogClosed
	}, time.Second, 10*time.Millisecond)
}

/*
TestDialog_FailureReturnsToIdle: a rejected submission shows the error and
leaves the draft editable.
*/
func TestDialog_FailureReturnsToIdle(t *testing.T) {
	dialog := newDialog(func(ctx context.Context, d review.Draft) error {
		return apperr.Conflict("You have already reviewed this course")
	}, nil)

	dialog.Submit(context.Background(), draft())

	assert.Equal(t, DialogIdle, dialog.Phase())
	require.Error(t, dialog.Err())
	assert.Equal(t, "You have already reviewed this course", dialog.Err().Error())
	assert.True(t, dialog.CanSubmit())
}

/*
TestDialog_SingleFlight: only one submission may be in flight; a second
Submit while Submitting is ignored.
*/
func TestDialog_SingleFlight(t *testing.T) {
	var submissions atomic.Int32
	gate := make(chan struct{})

	dialog := newDialog(func(ctx context.Context, d review.Draft) error {
		submissions.Add(1)
		<-gate
		return nil
	}, nil)
	dialog.closeDelay = time.Hour // keep Success visible for the assertion

	go dialog.Submit(context.Background(), draft())

	require.Eventually(t, func() bool {
		return dialog.Phase() == DialogSubmitting
	}, time.Second, 5*time.Millisecond)

	dialog.Submit(context.Background(), draft()) // ignored
	assert.Equal(t, int32(1), submissions.Load())

	close(gate)
	require.Eventually(t, func() bool {
		return dialog.Phase() == DialogSuccess
	}, time.Second, 5*time.Millisecond)

	// Submit after Success is also ignored.
	dialog.Submit(context.Background(), draft())
	assert.Equal(t, int32(1), submissions.Load())

	dialog.Close()
	assert.Equal(t, DialogClosed, dialog.Phase())
	dialog.Close() // idempotent
}

/*
TestDialog_FailedRetrySucceeds: after a failure the same instance can submit
again.
*/
func TestDialog_FailedRetrySucceeds(t *testing.T) {
	attempts := 0
	dialog := newDialog(func(ctx context.Context, d review.Draft) error {
		attempts++
		if attempts == 1 {
			return apperr.ValidationError("The submitted data is invalid.")
		}
		return nil
	}, nil)
	dialog.closeDelay = time.Hour

	dialog.Submit(context.Background(), draft())
	require.Equal(t, DialogIdle, dialog.Phase())

	dialog.Submit(context.Background(), draft())
	assert.Equal(t, DialogSuccess, dialog.Phase())
	assert.NoError(t, dialog.Err())
	assert.Equal(t, 2, attempts)
}
