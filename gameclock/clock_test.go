package gameclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeNow(start time.Time, offsets ...time.Duration) func() time.Time {
	calls := 0
	return func() time.Time {
		d := offsets[calls]
		calls++
		return start.Add(d)
	}
}

func TestZeroClockNeverArmedIsNotExpired(t *testing.T) {
	c := New(Config{})
	assert.False(t, c.IsExpired(), "an un-armed clock is never expired")
}

func TestZeroClockExpiresImmediatelyOnceArmed(t *testing.T) {
	start := time.Now()
	c := New(Config{})
	c.now = fakeNow(start, 0, time.Nanosecond)
	c.Arm()
	assert.True(t, c.IsExpired())
}

func TestIsExpiredMonotonic(t *testing.T) {
	// V6: once true, IsExpired never flips back to false before a re-arm.
	start := time.Now()
	c := New(Config{TotalTime: 10 * time.Millisecond})
	c.now = fakeNow(start, 0, 20*time.Millisecond, 30*time.Millisecond)
	c.Arm()
	assert.True(t, c.IsExpired())
	assert.True(t, c.IsExpired())
}

func TestStopWithinDelayDoesNotDeductTime(t *testing.T) {
	start := time.Now()
	c := New(Config{TotalTime: time.Second, Delay: 500 * time.Millisecond})
	c.now = fakeNow(start, 0, 300*time.Millisecond)
	c.Arm()
	c.Stop()
	assert.Equal(t, time.Second, c.Remaining())
}

func TestStopBeyondDelayDeductsAndCreditsIncrement(t *testing.T) {
	start := time.Now()
	c := New(Config{TotalTime: time.Second, Increment: 200 * time.Millisecond, Delay: 100 * time.Millisecond})
	c.now = fakeNow(start, 0, 400*time.Millisecond)
	c.Arm()
	c.Stop()
	// elapsed=400ms, delay=100ms -> deduct 300ms from 1s -> 700ms, +200ms increment = 900ms
	assert.Equal(t, 900*time.Millisecond, c.Remaining())
}

func TestStopNeverGoesNegative(t *testing.T) {
	start := time.Now()
	c := New(Config{TotalTime: 100 * time.Millisecond})
	c.now = fakeNow(start, 0, time.Second)
	c.Arm()
	c.Stop()
	assert.Equal(t, time.Duration(0), c.Remaining())
}
