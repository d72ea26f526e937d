package services

import (
	"context"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"

	"gorm.io/gorm"
)

var (
	ErrRackNotFound  = domain.E(domain.KindNotFound, "no rack of the requested type")
	ErrRackExhausted = domain.E(domain.KindBadRequest, "all racks of this type are full")
)

// RackService allocates and releases hanger slots on drying racks
type RackService struct {
	db *gorm.DB
}

// NewRackService creates a new rack service
func NewRackService(db *gorm.DB) *RackService {
	return &RackService{db: db}
}

// nextFreeSlot picks the lowest-numbered free slot on a rack. Slots are
// 1-based. ok is false when every slot is taken.
func nextFreeSlot(capacity int, occupied []int) (int, bool) {
	taken := make(map[int]bool, len(occupied))
	for _, s := range occupied {
		taken[s] = true
	}
	for slot := 1; slot <= capacity; slot++ {
		if !taken[slot] {
			return slot, true
		}
	}
	return 0, false
}

// reserveSlot takes the lowest free slot on a rack, decrements its
// remaining capacity and advances the cursor, wrapping to 1 past
// capacity. The rack row is mutated in place but not persisted.
func reserveSlot(rack *models.Rack, occupied []int) (int, error) {
	if rack.Remaining <= 0 {
		return 0, ErrRackExhausted
	}
	slot, ok := nextFreeSlot(rack.Capacity, occupied)
	if !ok {
		return 0, ErrRackExhausted
	}
	rack.Remaining--
	rack.Cursor = slot + 1
	if rack.Cursor > rack.Capacity {
		rack.Cursor = 1
	}
	return slot, nil
}

// allocateSlot picks a rack of the requested type and reserves its
// lowest free slot inside the caller's transaction. Occupancy itself is
// tracked through garment statuses, so the cursor is bookkeeping only.
func allocateSlot(ctx context.Context, tx *gorm.DB, storeID uint, rackType string) (*models.Rack, int, error) {
	racks := repositories.NewRackRepository(tx)

	rack, err := racks.PickForAllocation(ctx, storeID, rackType)
	if err == gorm.ErrRecordNotFound {
		return nil, 0, ErrRackNotFound
	}
	if err != nil {
		return nil, 0, domain.WrapErr(domain.KindDbError, err, "pick rack")
	}

	occupied, err := racks.OccupiedSlots(ctx, rack.ID)
	if err != nil {
		return nil, 0, domain.WrapErr(domain.KindDbError, err, "load occupied slots")
	}
	slot, err := reserveSlot(rack, occupied)
	if err != nil {
		return nil, 0, err
	}
	if err := racks.Save(ctx, rack); err != nil {
		return nil, 0, domain.WrapErr(domain.KindDbError, err, "save rack")
	}
	return rack, slot, nil
}

// Allocate reserves a slot on a rack of the given type in its own
// transaction and returns the rack id and slot number.
func (s *RackService) Allocate(ctx context.Context, storeID uint, rackType string) (uint, int, error) {
	var rackID uint
	var slot int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rack, sl, err := allocateSlot(ctx, tx, storeID, rackType)
		if err != nil {
			return err
		}
		rackID = rack.ID
		slot = sl
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return rackID, slot, nil
}

// Release frees one slot on a rack. Releasing an already-full rack is a
// no-op rather than an error.
func (s *RackService) Release(ctx context.Context, storeID, rackID uint) error {
	racks := repositories.NewRackRepository(s.db)
	if _, err := racks.GetByID(ctx, storeID, rackID); err == gorm.ErrRecordNotFound {
		return domain.E(domain.KindNotFound, "rack %d not found", rackID)
	} else if err != nil {
		return domain.WrapErr(domain.KindDbError, err, "load rack")
	}
	if err := racks.IncrementRemaining(ctx, rackID); err != nil {
		return domain.WrapErr(domain.KindDbError, err, "release slot")
	}
	return nil
}

// List returns the store's racks with live occupancy numbers.
func (s *RackService) List(ctx context.Context, storeID uint) ([]models.Rack, error) {
	racks, err := repositories.NewRackRepository(s.db).List(ctx, storeID)
	if err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "list racks")
	}
	return racks, nil
}

// CreateInput carries a new rack definition
type CreateRackInput struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// Create registers a new rack with all slots free.
func (s *RackService) Create(ctx context.Context, storeID uint, input CreateRackInput) (*models.Rack, error) {
	if input.Capacity <= 0 {
		return nil, domain.E(domain.KindBadRequest, "rack capacity must be positive")
	}
	rack := &models.Rack{
		StoreID:   storeID,
		Name:      input.Name,
		Type:      input.Type,
		Capacity:  input.Capacity,
		Remaining: input.Capacity,
		Cursor:    1,
	}
	if err := repositories.NewRackRepository(s.db).Create(ctx, rack); err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "create rack")
	}
	return rack, nil
}
