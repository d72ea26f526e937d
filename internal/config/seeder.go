package config

import (
	"context"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db      *gorm.DB
	storeID uint
}

// NewSeeder creates a new seeder instance for a store
func NewSeeder(db *gorm.DB, storeID uint) *Seeder {
	return &Seeder{db: db, storeID: storeID}
}

// Run executes all seeders. Each seeder is a no-op when its data
// already exists.
func (s *Seeder) Run() error {
	if err := s.seedCaptchaFlag(); err != nil {
		return err
	}
	if err := s.seedRacks(); err != nil {
		return err
	}
	if err := s.seedPriceTags(); err != nil {
		return err
	}
	if err := s.seedCouponTemplates(); err != nil {
		return err
	}
	log.Info().Msg("database seeding completed")
	return nil
}

// seedCaptchaFlag ensures the login captcha switch row exists. The flag
// is process-wide, so it lives under store 0.
func (s *Seeder) seedCaptchaFlag() error {
	ctx := context.Background()
	repo := repositories.NewSysConfigRepository(s.db)
	value, err := repo.Get(ctx, 0, repositories.CaptchaEnabledKey)
	if err != nil {
		return err
	}
	if value != "" {
		return nil
	}
	return repo.Set(ctx, 0, repositories.CaptchaEnabledKey, "false")
}

// seedRacks creates a default pair of racks so a fresh install can take
// orders immediately.
func (s *Seeder) seedRacks() error {
	var count int64
	s.db.Model(&models.Rack{}).Where("store_id = ?", s.storeID).Count(&count)
	if count > 0 {
		return nil
	}

	racks := []models.Rack{
		{StoreID: s.storeID, Name: "Dry-clean rack A", Type: "DRY_CLEAN", Capacity: 60, Remaining: 60, Cursor: 1},
		{StoreID: s.storeID, Name: "Wash rack A", Type: "WASH", Capacity: 40, Remaining: 40, Cursor: 1},
	}
	return s.db.Create(&racks).Error
}

// seedPriceTags creates a couple of common cloth price rules.
func (s *Seeder) seedPriceTags() error {
	var count int64
	s.db.Model(&models.PriceTag{}).Where("store_id = ?", s.storeID).Count(&count)
	if count > 0 {
		return nil
	}

	tags := []models.PriceTag{
		{StoreID: s.storeID, Name: "Member 10% off", Discount: decimal.NewNullDecimal(decimal.NewFromInt(10)), IsActive: true},
		{StoreID: s.storeID, Name: "Flat 99", Value: decimal.NewNullDecimal(decimal.NewFromInt(99)), IsActive: true},
	}
	return s.db.Create(&tags).Error
}

// seedCouponTemplates creates sample card templates in dev mode only.
func (s *Seeder) seedCouponTemplates() error {
	if AppConfig != nil && AppConfig.IsProd() {
		return nil
	}

	var count int64
	s.db.Model(&models.Coupon{}).Where("store_id = ?", s.storeID).Count(&count)
	if count > 0 {
		return nil
	}

	yearOut := time.Now().AddDate(1, 0, 0)
	templates := []models.Coupon{
		{
			StoreID:   s.storeID,
			Name:      "Stored value 500",
			Type:      string(domain.CouponStoredValueCard),
			FaceValue: decimal.NewFromInt(500),
			ValidTo:   &yearOut,
			IsActive:  true,
		},
		{
			StoreID:    s.storeID,
			Name:       "Discount card 90%",
			Type:       string(domain.CouponDiscountCard),
			FaceValue:  decimal.NewFromInt(300),
			UsageValue: decimal.NewFromInt(90),
			ValidTo:    &yearOut,
			IsActive:   true,
		},
		{
			StoreID:   s.storeID,
			Name:      "Wash 10 sessions",
			Type:      string(domain.CouponSessionCard),
			FaceValue: decimal.NewFromInt(10),
			ValidTo:   &yearOut,
			IsActive:  true,
		},
	}
	return s.db.Create(&templates).Error
}
