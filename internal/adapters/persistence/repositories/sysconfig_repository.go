package repositories

import (
	"context"
	"strings"

	"freshpress-pos/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// CaptchaEnabledKey is the config row controlling login captcha checks
const CaptchaEnabledKey = "sys.account.captchaEnabled"

// SysConfigRepository handles per-store config rows
type SysConfigRepository struct {
	db *gorm.DB
}

// NewSysConfigRepository creates a new sys config repository
func NewSysConfigRepository(db *gorm.DB) *SysConfigRepository {
	return &SysConfigRepository{db: db}
}

// Get returns a config value; empty string when the row is absent
func (r *SysConfigRepository) Get(ctx context.Context, storeID uint, key string) (string, error) {
	var row models.SysConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND config_key = ?", storeID, key).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.ConfigValue, nil
}

// Set creates or updates a config row
func (r *SysConfigRepository) Set(ctx context.Context, storeID uint, key, value string) error {
	var row models.SysConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND config_key = ?", storeID, key).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		row = models.SysConfig{StoreID: storeID, ConfigKey: key, ConfigValue: value}
		return r.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&row).Update("config_value", value).Error
}

// CaptchaEnabled reports whether login captcha verification is on for a
// store. The value parses "true/yes/ok/1" as true, anything else false.
func (r *SysConfigRepository) CaptchaEnabled(ctx context.Context, storeID uint) bool {
	value, err := r.Get(ctx, storeID, CaptchaEnabledKey)
	if err != nil {
		return false
	}
	return ParseFlag(value)
}

// ParseFlag parses a config flag value
func ParseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "ok", "1":
		return true
	}
	return false
}
