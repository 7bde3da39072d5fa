package exam

import "fmt"

// CountdownTimer converts a duration in minutes into a decrementing
// whole-second counter with a single-shot expiry callback.
//
// The timer is passive: the owner calls Tick once per second. It is not
// safe for concurrent use; the Controller serializes access.
type CountdownTimer struct {
	totalSeconds     int
	remainingSeconds int
	expired          bool
	onExpire         func()
}

// NewCountdownTimer creates a timer armed for durationMinutes. A non-positive
// duration produces an inactive timer (no countdown, no expiry).
func NewCountdownTimer(durationMinutes int, onExpire func()) *CountdownTimer {
	t := &CountdownTimer{onExpire: onExpire}
	t.Configure(durationMinutes)
	return t
}

// Configure resets the counter to the new duration and re-arms the expiry
// callback. Reconfiguration is the normal path when test data arrives after
// the timer was first built with a placeholder duration: any pending or
// fired expiry state is cancelled and the countdown restarts cleanly.
func (t *CountdownTimer) Configure(durationMinutes int) {
	if durationMinutes <= 0 {
		t.totalSeconds = 0
		t.remainingSeconds = 0
		t.expired = false
		return
	}
	t.totalSeconds = durationMinutes * 60
	t.remainingSeconds = t.totalSeconds
	t.expired = false
}

// Tick advances the countdown by one second. At the tick where remaining
// time first reaches zero the expiry callback fires exactly once, then the
// counter stops decrementing. Ticks on an inactive or expired timer are
// no-ops.
func (t *CountdownTimer) Tick() {
	if t.totalSeconds == 0 || t.expired {
		return
	}
	t.remainingSeconds--
	if t.remainingSeconds <= 0 {
		t.remainingSeconds = 0
		t.expired = true
		if t.onExpire != nil {
			t.onExpire()
		}
	}
}

// Remaining returns the remaining whole seconds.
func (t *CountdownTimer) Remaining() int {
	return t.remainingSeconds
}

// Expired reports whether the countdown has run out. Always false for an
// inactive timer.
func (t *CountdownTimer) Expired() bool {
	return t.expired
}

// Active reports whether the timer was configured with a positive duration.
func (t *CountdownTimer) Active() bool {
	return t.totalSeconds > 0
}

// Formatted returns the remaining time as an MM:SS string.
func (t *CountdownTimer) Formatted() string {
	return fmt.Sprintf("%02d:%02d", t.remainingSeconds/60, t.remainingSeconds%60)
}

// Percentage returns the fraction of time remaining in [0, 100]. An inactive
// timer reports 0.
func (t *CountdownTimer) Percentage() float64 {
	if t.totalSeconds == 0 {
		return 0
	}
	return float64(t.remainingSeconds) / float64(t.totalSeconds) * 100
}
