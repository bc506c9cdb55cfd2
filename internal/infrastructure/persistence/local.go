package persistence

import (
	"fmt"

	"github.com/mecanicpro/backend/internal/infrastructure/persistence/models"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence/sync"
	"gorm.io/gorm"
)

// AutoMigrateLocal creates the schema of the local SQLite mirror. The
// remote schema is managed by versioned SQL migrations instead; the
// local file is disposable and rebuilt from the remote store when lost.
func AutoMigrateLocal(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.CustomerModel{},
		&models.VehicleModel{},
		&models.ServiceOrderModel{},
		&models.BudgetItemModel{},
		&models.TransactionModel{},
		&models.ItemModel{},
		&models.SettingsModel{},
		&sync.Entry{},
		&LegacySnapshotModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate local store: %w", err)
	}
	return nil
}
