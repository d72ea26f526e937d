package services

import (
	"errors"
	"testing"

	"freshpress-pos/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAssignPickupCode(t *testing.T) {
	t.Run("six digits", func(t *testing.T) {
		var offered string
		code, err := assignPickupCode(func(code string) error {
			offered = code
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, offered, code)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	})

	t.Run("draws again when an open order holds the code", func(t *testing.T) {
		calls := 0
		code, err := assignPickupCode(func(string) error {
			calls++
			if calls < 3 {
				return gorm.ErrDuplicatedKey
			}
			return nil
		})
		require.NoError(t, err)
		assert.NotEmpty(t, code)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up when every code is taken", func(t *testing.T) {
		_, err := assignPickupCode(func(string) error { return gorm.ErrDuplicatedKey })
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindInternalServer))
	})

	t.Run("other errors stop the draw", func(t *testing.T) {
		boom := errors.New("connection lost")
		calls := 0
		_, err := assignPickupCode(func(string) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})
}
