package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	cst := time.FixedZone("CST", 8*3600)

	t.Run("resets at local midnight", func(t *testing.T) {
		now := time.Date(2026, 8, 30, 7, 30, 0, 0, cst)
		assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, cst), startOfDay(now))
	})

	t.Run("early morning stays on the same local day", func(t *testing.T) {
		// 01:00 +08:00 is still the previous day in UTC
		now := time.Date(2026, 8, 30, 1, 0, 0, 0, cst)
		start := startOfDay(now)
		assert.Equal(t, 30, start.Day())
		assert.True(t, start.Before(now))
	})

	t.Run("keeps the location", func(t *testing.T) {
		now := time.Date(2026, 8, 30, 23, 59, 0, 0, cst)
		assert.Equal(t, cst, startOfDay(now).Location())
	})
}
