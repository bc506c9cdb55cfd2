package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettingsRepository implements settings.Repository using GORM.
// The settings table holds a single row, created on first load.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Load returns the settings row, creating it when the table is empty
func (r *GormSettingsRepository) Load(ctx context.Context) (*settings.Settings, error) {
	var model models.SettingsModel
	err := dbFor(ctx, r.db).Order("created_at ASC").First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := settings.NewSettings()
	if err := r.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, cfg *settings.Settings) error {
	model := models.SettingsModelFromDomain(cfg)
	if err := dbFor(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

var _ settings.Repository = (*GormSettingsRepository)(nil)
