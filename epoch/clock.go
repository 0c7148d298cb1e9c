// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package epoch tracks the day index of a launched auction economy.
package epoch

import (
	"errors"
	"sync"
	"time"
)

// DayLength is the duration of one epoch day.
const DayLength = 24 * time.Hour

var (
	ErrNotStarted     = errors.New("economy has not been started")
	ErrAlreadyStarted = errors.New("economy has already been started")
)

// Clock reports wall-clock time and converts it into whole days elapsed
// since launch. Time can be faked for tests.
type Clock struct {
	mu     sync.RWMutex
	launch time.Time
	faked  bool
	now    time.Time
}

func New() *Clock {
	return &Clock{}
}

// Set fakes the reported time. All subsequent reads return [t] until Set
// is called again.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.faked = true
	c.now = t
}

// Advance fakes the reported time forward by [d] from the current
// reading.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.faked {
		c.faked = true
		c.now = time.Now()
	}
	c.now = c.now.Add(d)
}

// Time returns the current time, real or faked.
func (c *Clock) Time() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.timeLocked()
}

func (c *Clock) timeLocked() time.Time {
	if c.faked {
		return c.now
	}
	return time.Now()
}

// Start records the launch timestamp. Day 0 begins at the moment Start
// is called. Starting twice fails.
func (c *Clock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.launch.IsZero() {
		return ErrAlreadyStarted
	}
	c.launch = c.timeLocked()
	return nil
}

// Started reports whether the launch timestamp has been recorded.
func (c *Clock) Started() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return !c.launch.IsZero()
}

// LaunchTime returns the recorded launch timestamp, or the zero time if
// the economy has not started.
func (c *Clock) LaunchTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.launch
}

// Restore reinstates a previously recorded launch timestamp.
func (c *Clock) Restore(launch time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.launch = launch
}

// CurrentDay returns the number of whole days elapsed since launch.
func (c *Clock) CurrentDay() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.launch.IsZero() {
		return 0, ErrNotStarted
	}
	elapsed := c.timeLocked().Sub(c.launch)
	if elapsed < 0 {
		return 0, nil
	}
	return uint64(elapsed / DayLength), nil
}
