package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 7, 59, 0, 0, time.Local)
	c := Fake(start)

	assert.Equal(t, start, c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), c.Now())

	later := time.Date(2024, 3, 1, 14, 0, 0, 0, time.Local)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

func TestRealClockMovesForward(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	assert.False(t, now.Before(before))
}
