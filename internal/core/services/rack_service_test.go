package services

import (
	"testing"

	"freshpress-pos/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFreeSlot(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		occupied []int
		want     int
		ok       bool
	}{
		{"empty rack starts at one", 10, nil, 1, true},
		{"lowest gap wins", 10, []int{1, 2, 4}, 3, true},
		{"append after contiguous run", 5, []int{1, 2, 3}, 4, true},
		{"full rack", 3, []int{1, 2, 3}, 0, false},
		{"released slot is reused", 5, []int{2, 3, 4, 5}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, ok := nextFreeSlot(tt.capacity, tt.occupied)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, slot)
		})
	}
}

func TestReserveSlot(t *testing.T) {
	t.Run("fills an empty rack from slot one", func(t *testing.T) {
		rack := &models.Rack{Capacity: 5, Remaining: 5, Cursor: 1}
		var occupied []int
		for want := 1; want <= 3; want++ {
			slot, err := reserveSlot(rack, occupied)
			require.NoError(t, err)
			assert.Equal(t, want, slot)
			occupied = append(occupied, slot)
		}
		assert.Equal(t, 2, rack.Remaining)
		assert.Equal(t, 4, rack.Cursor)
	})

	t.Run("reuses the lowest freed slot", func(t *testing.T) {
		rack := &models.Rack{Capacity: 5, Remaining: 2, Cursor: 5}
		slot, err := reserveSlot(rack, []int{1, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, 2, slot)
		assert.Equal(t, 1, rack.Remaining)
	})

	t.Run("cursor wraps to one past capacity", func(t *testing.T) {
		rack := &models.Rack{Capacity: 3, Remaining: 1, Cursor: 3}
		slot, err := reserveSlot(rack, []int{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 3, slot)
		assert.Equal(t, 1, rack.Cursor)
	})

	t.Run("exhausted when no capacity remains", func(t *testing.T) {
		rack := &models.Rack{Capacity: 3, Remaining: 0}
		_, err := reserveSlot(rack, nil)
		assert.ErrorIs(t, err, ErrRackExhausted)
	})

	t.Run("exhausted when every slot is occupied", func(t *testing.T) {
		rack := &models.Rack{Capacity: 3, Remaining: 1}
		_, err := reserveSlot(rack, []int{1, 2, 3})
		assert.ErrorIs(t, err, ErrRackExhausted)
	})
}
