// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

// Package debounce delays a value until its input has been stable for a fixed
// interval.
//
// # Overview
//
// The browse view feeds every keystroke into a [Debouncer]; only after the
// input settles does the debounced value emerge on C, so one search request is
// issued instead of one per keystroke. The debouncer is a pure timing utility
// and is testable without any UI.
package debounce

import (
	"sync"
	"time"
)

// Debouncer emits the most recent input value on C once no new input has
// arrived for the configured delay.
//
// # Concurrency
//
// Push may be called from any goroutine. C delivers at most one value per
// settle; an unconsumed older value is replaced, never queued behind.
type Debouncer[T any] struct {
	delay time.Duration
	out   chan T

	mu    sync.Mutex
	timer *time.Timer
	last  T
}

// New constructs a [Debouncer] with the given settle delay.
func New[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		out:   make(chan T, 1),
	}
}

// Push feeds a new input value, restarting the settle timer.
func (d *Debouncer[T]) Push(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.emit)
}

// C returns the channel on which settled values are delivered.
func (d *Debouncer[T]) C() <-chan T {
	return d.out
}

// Stop cancels any pending emission. It does not close C.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// emit delivers the latest value, replacing an unconsumed older one so the
// consumer always observes the freshest settled input.
func (d *Debouncer[T]) emit() {
	d.mu.Lock()
	value := d.last
	d.mu.Unlock()

	for {
		select {
		case d.out <- value:
			return
		default:
			select {
			case <-d.out:
			default:
			}
		}
	}
}
