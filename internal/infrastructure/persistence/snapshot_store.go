package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/application/backup"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// LegacySnapshotModel stores a full workshop snapshot in the local
// database, kept around for the one-time migration to the remote store.
type LegacySnapshotModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Payload   []byte    `gorm:"type:blob;not null"`
	Migrated  bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name
func (LegacySnapshotModel) TableName() string {
	return "legacy_snapshots"
}

// LocalSnapshotStore implements backup.SnapshotSource over the local
// SQLite database
type LocalSnapshotStore struct {
	db *gorm.DB
}

// NewLocalSnapshotStore creates a snapshot store on the local database
func NewLocalSnapshotStore(db *gorm.DB) *LocalSnapshotStore {
	return &LocalSnapshotStore{db: db}
}

// Load returns the newest unmigrated snapshot, or shared.ErrNotFound
// when none is waiting
func (s *LocalSnapshotStore) Load(ctx context.Context) (*backup.Document, error) {
	var model LegacySnapshotModel
	err := s.db.WithContext(ctx).
		Where("migrated = ?", false).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load local snapshot: %w", err)
	}

	var doc backup.Document
	if err := json.Unmarshal(model.Payload, &doc); err != nil {
		return nil, fmt.Errorf("corrupt local snapshot: %w", err)
	}
	return &doc, nil
}

// MarkMigrated flags every stored snapshot as consumed
func (s *LocalSnapshotStore) MarkMigrated(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Model(&LegacySnapshotModel{}).
		Where("migrated = ?", false).
		Updates(map[string]any{"migrated": true, "updated_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("failed to mark snapshot migrated: %w", err)
	}
	return nil
}

// Store saves a snapshot for later migration
func (s *LocalSnapshotStore) Store(ctx context.Context, doc *backup.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	model := &LegacySnapshotModel{
		ID:        uuid.New(),
		Payload:   payload,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Migrate creates the snapshot table in the local store
func (s *LocalSnapshotStore) Migrate() error {
	if err := s.db.AutoMigrate(&LegacySnapshotModel{}); err != nil {
		return fmt.Errorf("failed to migrate snapshot store: %w", err)
	}
	return nil
}

var _ backup.SnapshotSource = (*LocalSnapshotStore)(nil)
