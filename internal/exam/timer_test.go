package exam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimerCountsDownAndExpiresOnce(t *testing.T) {
	fired := 0
	timer := NewCountdownTimer(1, func() { fired++ })

	require.True(t, timer.Active())
	require.Equal(t, 60, timer.Remaining())
	require.Equal(t, "01:00", timer.Formatted())
	require.InDelta(t, 100.0, timer.Percentage(), 0.001)

	for i := 0; i < 59; i++ {
		timer.Tick()
	}
	require.Equal(t, 1, timer.Remaining())
	require.Equal(t, "00:01", timer.Formatted())
	require.False(t, timer.Expired())
	require.Zero(t, fired)

	timer.Tick()
	require.True(t, timer.Expired())
	require.Equal(t, 0, timer.Remaining())
	require.Equal(t, "00:00", timer.Formatted())
	require.Equal(t, 1, fired)

	// Ticks past zero never re-fire or go negative.
	timer.Tick()
	timer.Tick()
	require.Equal(t, 0, timer.Remaining())
	require.Equal(t, 1, fired)
}

func TestTimerZeroDurationIsInactive(t *testing.T) {
	fired := 0
	timer := NewCountdownTimer(0, func() { fired++ })

	require.False(t, timer.Active())
	require.False(t, timer.Expired())
	require.Equal(t, "00:00", timer.Formatted())
	require.Zero(t, timer.Percentage())

	for i := 0; i < 10; i++ {
		timer.Tick()
	}
	require.False(t, timer.Expired())
	require.Zero(t, fired)
}

func TestTimerReconfigureRearmsExpiry(t *testing.T) {
	fired := 0
	timer := NewCountdownTimer(0, func() { fired++ })

	// Placeholder duration, then the real one arrives.
	timer.Configure(1)
	for i := 0; i < 60; i++ {
		timer.Tick()
	}
	require.Equal(t, 1, fired)
	require.True(t, timer.Expired())

	// Reconfiguring a fired timer restarts the countdown cleanly.
	timer.Configure(2)
	require.False(t, timer.Expired())
	require.Equal(t, 120, timer.Remaining())

	for i := 0; i < 120; i++ {
		timer.Tick()
	}
	require.Equal(t, 2, fired)
}

func TestTimerPercentageDescends(t *testing.T) {
	timer := NewCountdownTimer(2, nil)

	timer.Tick()
	require.InDelta(t, float64(119)/120*100, timer.Percentage(), 0.001)

	for i := 0; i < 59; i++ {
		timer.Tick()
	}
	require.InDelta(t, 50.0, timer.Percentage(), 0.001)
}
