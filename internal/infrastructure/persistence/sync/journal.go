package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Status is the replication state of a journal entry
type Status string

const (
	StatusPending Status = "pending"
	StatusSynced  Status = "synced"
	StatusFailed  Status = "failed"
)

// Operation is the kind of write a journal entry records
type Operation string

const (
	OpUpsert Operation = "upsert"
	OpDelete Operation = "delete"
)

// Entry is one journalled write awaiting replication to the remote
// store. It lives in the local SQLite database.
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EntityType string    `gorm:"type:varchar(50);not null;index"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Operation  Operation `gorm:"type:varchar(10);not null"`
	Payload    []byte    `gorm:"type:blob"`
	SyncStatus Status    `gorm:"type:varchar(10);not null;index;column:sync_status"`
	Attempts   int       `gorm:"not null;default:0"`
	LastError  string    `gorm:"type:text;column:last_error"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name
func (Entry) TableName() string {
	return "sync_journal"
}

// Journal persists the replication journal in the local store
type Journal struct {
	db *gorm.DB
}

// NewJournal creates a journal backed by the given local database
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Append records a write as pending replication. An older entry for the
// same entity is superseded: replaying the newest payload is enough.
func (j *Journal) Append(ctx context.Context, entityType string, entityID uuid.UUID, op Operation, payload []byte) (*Entry, error) {
	entry := &Entry{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		Payload:    payload,
		SyncStatus: StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("entity_type = ? AND entity_id = ? AND sync_status <> ?", entityType, entityID, StatusSynced).
			Delete(&Entry{}).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to journal write: %w", err)
	}
	return entry, nil
}

// MarkSynced marks an entry as replicated
func (j *Journal) MarkSynced(ctx context.Context, id uuid.UUID) error {
	return j.setStatus(ctx, id, StatusSynced, "")
}

// MarkFailed marks an entry as failed after retries were exhausted
func (j *Journal) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	return j.setStatus(ctx, id, StatusFailed, cause)
}

// RecordAttempt bumps the attempt counter, keeping the entry pending
func (j *Journal) RecordAttempt(ctx context.Context, id uuid.UUID, cause string) error {
	result := j.db.WithContext(ctx).Model(&Entry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record sync attempt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextBatch returns the oldest pending entries, up to limit
func (j *Journal) NextBatch(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	err := j.db.WithContext(ctx).
		Where("sync_status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read sync journal: %w", err)
	}
	return entries, nil
}

// CountByStatus returns how many entries sit in the given state
func (j *Journal) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var count int64
	err := j.db.WithContext(ctx).Model(&Entry{}).
		Where("sync_status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}

// PruneSynced removes replicated entries older than the cutoff
func (j *Journal) PruneSynced(ctx context.Context, olderThan time.Time) error {
	err := j.db.WithContext(ctx).
		Where("sync_status = ? AND updated_at < ?", StatusSynced, olderThan).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to prune journal: %w", err)
	}
	return nil
}

func (j *Journal) setStatus(ctx context.Context, id uuid.UUID, status Status, cause string) error {
	result := j.db.WithContext(ctx).Model(&Entry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sync_status": status,
			"last_error":  cause,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update journal entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Migrate creates the journal table in the local store
func (j *Journal) Migrate() error {
	if err := j.db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate sync journal: %w", err)
	}
	return nil
}
