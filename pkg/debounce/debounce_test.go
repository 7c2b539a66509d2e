// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package debounce_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursescope/coursescope/pkg/debounce"
)

/*
TestDebouncer_CoalescesRapidInput verifies that rapid successive pushes inside
the settle window produce exactly one emission carrying the final value.
*/
func TestDebouncer_CoalescesRapidInput(t *testing.T) {
	d := debounce.New[string](50 * time.Millisecond)
	defer d.Stop()

	d.Push("bio")
	time.Sleep(10 * time.Millisecond)
	d.Push("biol")

	select {
	case got := <-d.C():
		assert.Equal(t, "biol", got)
	case <-time.After(time.Second):
		t.Fatal("debouncer never emitted")
	}

	// No second emission for the superseded input.
	select {
	case got := <-d.C():
		t.Fatalf("unexpected extra emission: %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

/*
TestDebouncer_SeparateSettlesEmitSeparately checks that inputs spaced beyond
the delay each settle on their own.
*/
func TestDebouncer_SeparateSettlesEmitSeparately(t *testing.T) {
	d := debounce.New[int](20 * time.Millisecond)
	defer d.Stop()

	d.Push(1)
	require.Equal(t, 1, waitFor(t, d.C()))

	d.Push(2)
	require.Equal(t, 2, waitFor(t, d.C()))
}

/*
TestDebouncer_StopCancelsPending verifies Stop prevents a pending emission.
*/
func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := debounce.New[int](30 * time.Millisecond)

	d.Push(7)
	d.Stop()

	select {
	case v := <-d.C():
		t.Fatalf("emission after Stop: %d", v)
	case <-time.After(100 * time.Millisecond):
	}
}

/*
TestDebouncer_LatestValueWinsWhenUnconsumed ensures a slow consumer observes
the freshest settled value, not a stale buffered one.
*/
func TestDebouncer_LatestValueWinsWhenUnconsumed(t *testing.T) {
	d := debounce.New[string](10 * time.Millisecond)
	defer d.Stop()

	d.Push("stale")
	time.Sleep(50 * time.Millisecond) // settle; nobody reads

	d.Push("fresh")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, "fresh", waitFor(t, d.C()))
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced value")
		panic("unreachable")
	}
}
