// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package epoch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockStart(t *testing.T) {
	require := require.New(t)

	c := New()
	require.False(c.Started())

	_, err := c.CurrentDay()
	require.ErrorIs(err, ErrNotStarted)

	c.Set(time.Unix(1_000_000, 0))
	require.NoError(c.Start())
	require.True(c.Started())
	require.Equal(time.Unix(1_000_000, 0), c.LaunchTime())

	require.ErrorIs(c.Start(), ErrAlreadyStarted)
}

func TestClockCurrentDay(t *testing.T) {
	require := require.New(t)

	c := New()
	c.Set(time.Unix(0, 0))
	require.NoError(c.Start())

	day, err := c.CurrentDay()
	require.NoError(err)
	require.Zero(day)

	// One second before the first boundary is still day 0.
	c.Advance(DayLength - time.Second)
	day, err = c.CurrentDay()
	require.NoError(err)
	require.Zero(day)

	c.Advance(time.Second)
	day, err = c.CurrentDay()
	require.NoError(err)
	require.Equal(uint64(1), day)

	// Days can be skipped without being observed.
	c.Advance(5 * DayLength)
	day, err = c.CurrentDay()
	require.NoError(err)
	require.Equal(uint64(6), day)
}

func TestClockRestore(t *testing.T) {
	require := require.New(t)

	c := New()
	launch := time.Unix(500, 0)
	c.Restore(launch)
	require.True(c.Started())

	c.Set(launch.Add(3 * DayLength))
	day, err := c.CurrentDay()
	require.NoError(err)
	require.Equal(uint64(3), day)
}
