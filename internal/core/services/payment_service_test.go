package services

import (
	"testing"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestRacksToRelease(t *testing.T) {
	rackA, rackB := uint(1), uint(2)

	t.Run("only garments still hanging free a slot", func(t *testing.T) {
		garments := []models.Garment{
			{RackID: &rackA, Status: string(domain.GarmentProcessing)},
			{RackID: &rackB, Status: string(domain.GarmentReadyForPickup)},
			{RackID: &rackA, Status: string(domain.GarmentPickedUp)},
			{RackID: &rackB, Status: string(domain.GarmentRefunded)},
			{Status: string(domain.GarmentProcessing)},
		}
		assert.Equal(t, []uint{rackA, rackB}, racksToRelease(garments))
	})

	t.Run("fully picked-up order frees nothing", func(t *testing.T) {
		garments := []models.Garment{
			{RackID: &rackA, Status: string(domain.GarmentPickedUp)},
			{RackID: &rackB, Status: string(domain.GarmentPickedUp)},
		}
		assert.Empty(t, racksToRelease(garments))
	})
}
