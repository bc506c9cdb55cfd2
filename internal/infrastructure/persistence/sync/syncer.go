package sync

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SyncerConfig tunes the background replication loop
type SyncerConfig struct {
	Interval      time.Duration
	BatchSize     int
	MaxAttempts   int
	RetentionTime time.Duration
}

// DefaultSyncerConfig returns the default replication settings
func DefaultSyncerConfig() SyncerConfig {
	return SyncerConfig{
		Interval:      15 * time.Second,
		BatchSize:     50,
		MaxAttempts:   5,
		RetentionTime: 24 * time.Hour,
	}
}

// Syncer drains the journal in the background, replaying pending
// writes against the remote store. Entries that keep failing are
// marked failed instead of being dropped.
type Syncer struct {
	journal *Journal
	applier Applier
	config  SyncerConfig
	logger  *zap.Logger
	stop    chan struct{}
	done    chan struct{}
}

// NewSyncer creates a new background syncer
func NewSyncer(journal *Journal, applier Applier, config SyncerConfig, logger *zap.Logger) *Syncer {
	if config.Interval <= 0 {
		config.Interval = DefaultSyncerConfig().Interval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultSyncerConfig().BatchSize
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultSyncerConfig().MaxAttempts
	}
	return &Syncer{
		journal: journal,
		applier: applier,
		config:  config,
		logger:  logger,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the replication loop
func (s *Syncer) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop halts the loop and waits for the in-flight batch to finish
func (s *Syncer) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Syncer) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.Drain(ctx)
		}
	}
}

// Drain replays one batch of pending journal entries. It is exported so
// callers can force a flush, e.g. before shutdown.
func (s *Syncer) Drain(ctx context.Context) {
	entries, err := s.journal.NextBatch(ctx, s.config.BatchSize)
	if err != nil {
		s.logger.Error("Failed to read sync journal", zap.Error(err))
		return
	}

	for _, entry := range entries {
		if !s.due(entry) {
			continue
		}
		s.replay(ctx, entry)
	}

	if s.config.RetentionTime > 0 {
		cutoff := time.Now().Add(-s.config.RetentionTime)
		if err := s.journal.PruneSynced(ctx, cutoff); err != nil {
			s.logger.Warn("Failed to prune sync journal", zap.Error(err))
		}
	}
}

// due applies exponential backoff: attempt n waits interval * 2^n
// since the last try.
func (s *Syncer) due(entry Entry) bool {
	if entry.Attempts == 0 {
		return true
	}
	backoff := s.config.Interval * time.Duration(1<<uint(entry.Attempts))
	return time.Since(entry.UpdatedAt) >= backoff
}

func (s *Syncer) replay(ctx context.Context, entry Entry) {
	err := s.applier.Apply(ctx, entry)
	if err == nil {
		if err := s.journal.MarkSynced(ctx, entry.ID); err != nil {
			s.logger.Error("Failed to mark journal entry synced",
				zap.String("entry_id", entry.ID.String()), zap.Error(err))
		}
		return
	}

	s.logger.Warn("Remote replay failed",
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID.String()),
		zap.Int("attempts", entry.Attempts+1),
		zap.Error(err))

	if entry.Attempts+1 >= s.config.MaxAttempts {
		if err := s.journal.MarkFailed(ctx, entry.ID, err.Error()); err != nil {
			s.logger.Error("Failed to mark journal entry failed",
				zap.String("entry_id", entry.ID.String()), zap.Error(err))
		}
		return
	}

	if err := s.journal.RecordAttempt(ctx, entry.ID, err.Error()); err != nil {
		s.logger.Error("Failed to record sync attempt",
			zap.String("entry_id", entry.ID.String()), zap.Error(err))
	}
}
