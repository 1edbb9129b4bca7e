package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("08:00", "14:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, w.Start)
	assert.Equal(t, 14*time.Hour, w.End)
	assert.Equal(t, "08:00 - 14:00", w.String())

	_, err = ParseWindow("8am", "14:00", time.UTC)
	assert.Error(t, err)
	_, err = ParseWindow("15:00", "14:00", time.UTC)
	assert.Error(t, err)
}

func TestWindowContains(t *testing.T) {
	w := DefaultWindow()
	day := func(h, m, s, ns int) time.Time { return time.Date(2024, 1, 2, h, m, s, ns, time.Local) }

	assert.False(t, w.Contains(day(7, 59, 59, 999999999)))
	assert.True(t, w.Contains(day(8, 0, 0, 0)))
	assert.True(t, w.Contains(day(11, 0, 0, 0)))
	assert.True(t, w.Contains(day(14, 0, 0, 0)))
	assert.False(t, w.Contains(day(14, 0, 0, 1)))
	assert.False(t, w.Contains(day(23, 0, 0, 0)))
}

func TestWindowUsesConfiguredLocation(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*60*60)
	w, err := ParseWindow("08:00", "14:00", dhaka)
	require.NoError(t, err)

	// 03:00 UTC is 09:00 in Dhaka.
	assert.True(t, w.Contains(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)))
}
