package repositories

import (
	"context"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RackRepository handles rack-related database operations
type RackRepository struct {
	db *gorm.DB
}

// NewRackRepository creates a new rack repository
func NewRackRepository(db *gorm.DB) *RackRepository {
	return &RackRepository{db: db}
}

// List returns all racks for a store
func (r *RackRepository) List(ctx context.Context, storeID uint) ([]models.Rack, error) {
	var racks []models.Rack
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&racks).Error
	return racks, err
}

// GetByID returns a rack by ID within a store
func (r *RackRepository) GetByID(ctx context.Context, storeID, id uint) (*models.Rack, error) {
	var rack models.Rack
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&rack, id).Error
	return &rack, err
}

// PickForAllocation selects the rack of the requested type with the
// greatest remaining capacity, ties broken by smallest id. The row is
// locked for the enclosing transaction so concurrent intakes serialize.
func (r *RackRepository) PickForAllocation(ctx context.Context, storeID uint, rackType string) (*models.Rack, error) {
	var rack models.Rack
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND type = ?", storeID, rackType).
		Order("remaining DESC, id ASC").
		First(&rack).Error
	if err != nil {
		return nil, err
	}
	return &rack, nil
}

// OccupiedSlots returns the slot indices on a rack held by garments
// whose status still occupies a hanger.
func (r *RackRepository) OccupiedSlots(ctx context.Context, rackID uint) ([]int, error) {
	var slots []int
	err := r.db.WithContext(ctx).Model(&models.Garment{}).
		Where("rack_id = ? AND slot_no IS NOT NULL AND status IN ?", rackID, []string{
			string(domain.GarmentProcessing),
			string(domain.GarmentReadyForPickup),
		}).
		Pluck("slot_no", &slots).Error
	return slots, err
}

// Save persists rack mutations (cursor, remaining)
func (r *RackRepository) Save(ctx context.Context, rack *models.Rack) error {
	return r.db.WithContext(ctx).Save(rack).Error
}

// IncrementRemaining frees one slot on a rack, clamped at capacity
func (r *RackRepository) IncrementRemaining(ctx context.Context, rackID uint) error {
	return r.db.WithContext(ctx).Model(&models.Rack{}).
		Where("id = ?", rackID).
		Update("remaining", gorm.Expr("LEAST(capacity, remaining + 1)")).Error
}

// Create inserts a rack row
func (r *RackRepository) Create(ctx context.Context, rack *models.Rack) error {
	return r.db.WithContext(ctx).Create(rack).Error
}
