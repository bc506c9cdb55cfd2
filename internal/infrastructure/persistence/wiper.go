package persistence

import (
	"context"
	"fmt"

	"github.com/mecanicpro/backend/internal/application/backup"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWiper implements backup.Wiper. It clears every data table in one
// database transaction so a failed import never leaves half a snapshot.
type GormWiper struct {
	db *gorm.DB
}

// NewGormWiper creates a new GormWiper
func NewGormWiper(db *gorm.DB) *GormWiper {
	return &GormWiper{db: db}
}

// Wipe deletes all workshop data. Child tables go first so foreign keys
// never block the sweep.
func (w *GormWiper) Wipe(ctx context.Context) error {
	tables := []any{
		&models.BudgetItemModel{},
		&models.ServiceOrderModel{},
		&models.VehicleModel{},
		&models.CustomerModel{},
		&models.TransactionModel{},
		&models.ItemModel{},
		&models.SettingsModel{},
	}

	return dbFor(ctx, w.db).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("failed to wipe table: %w", err)
			}
		}
		return nil
	})
}

var _ backup.Wiper = (*GormWiper)(nil)
