package settings

import (
	"strings"
	"time"

	"github.com/mecanicpro/backend/internal/domain/shared"
)

// DateLayout is the layout used for the daily reset marker
const DateLayout = "2006-01-02"

// WorkshopInfo holds the workshop identity shown on documents and screens
type WorkshopInfo struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	LogoURL   string  `json:"logo_url"`
	LogoScale float64 `json:"logo_scale"`
}

// Settings is the single-row aggregate holding workshop configuration
// and the operational counters.
type Settings struct {
	shared.BaseAggregateRoot
	Workshop           WorkshopInfo `gorm:"embedded;embeddedPrefix:workshop_"`
	NextServiceNumber  int
	FinishedCountToday int
	LastResetDate      string
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "settings"
}

// NewSettings creates the initial settings row
func NewSettings() *Settings {
	return &Settings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Workshop: WorkshopInfo{
			LogoScale: 1.0,
		},
		NextServiceNumber:  1,
		FinishedCountToday: 0,
		LastResetDate:      time.Now().Format(DateLayout),
	}
}

// UpdateWorkshopInfo replaces the workshop identity fields
func (s *Settings) UpdateWorkshopInfo(info WorkshopInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Workshop name cannot be empty")
	}
	if info.LogoScale <= 0 {
		info.LogoScale = 1.0
	}

	s.Workshop = info
	s.Workshop.Name = strings.TrimSpace(info.Name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// AllocateServiceNumber hands out the next order number and advances the
// counter. Numbers are never reused, even when the order is later deleted.
func (s *Settings) AllocateServiceNumber() int {
	number := s.NextServiceNumber
	s.NextServiceNumber++
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return number
}

// RegisterFinished bumps the finished-today counter, resetting it first
// when the day has rolled over since the last bump.
func (s *Settings) RegisterFinished(now time.Time) {
	s.ResetIfNewDay(now)
	s.FinishedCountToday++
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// ResetIfNewDay zeroes the finished-today counter when the stored reset
// date is older than the given day. Returns true when a reset happened.
func (s *Settings) ResetIfNewDay(now time.Time) bool {
	today := now.Format(DateLayout)
	if s.LastResetDate == today {
		return false
	}

	s.FinishedCountToday = 0
	s.LastResetDate = today
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return true
}

// SetNextServiceNumber overrides the counter, used when importing a backup.
// The counter only moves forward.
func (s *Settings) SetNextServiceNumber(next int) error {
	if next < 1 {
		return shared.NewDomainError("INVALID_COUNTER", "Service number counter must be positive")
	}
	if next < s.NextServiceNumber {
		return shared.NewDomainError("COUNTER_ROLLBACK", "Service number counter cannot move backwards")
	}

	s.NextServiceNumber = next
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// RestoreCounters replaces both counters outright during a backup import,
// where the imported document is the new source of truth.
func (s *Settings) RestoreCounters(nextServiceNumber, finishedCountToday int, lastResetDate string) error {
	if nextServiceNumber < 1 {
		return shared.NewDomainError("INVALID_COUNTER", "Service number counter must be positive")
	}
	if finishedCountToday < 0 {
		return shared.NewDomainError("INVALID_COUNTER", "Finished-today counter cannot be negative")
	}

	s.NextServiceNumber = nextServiceNumber
	s.FinishedCountToday = finishedCountToday
	if lastResetDate != "" {
		s.LastResetDate = lastResetDate
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
