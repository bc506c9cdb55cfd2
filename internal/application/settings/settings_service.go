package settings

import (
	"context"
	"time"

	"github.com/mecanicpro/backend/internal/domain/settings"
)

// WorkshopInfoRequest updates the workshop identity
type WorkshopInfoRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=200"`
	Phone     string  `json:"phone" binding:"max=50"`
	Address   string  `json:"address" binding:"max=500"`
	LogoURL   string  `json:"logo_url" binding:"max=2000"`
	LogoScale float64 `json:"logo_scale" binding:"omitempty,gt=0,lte=5"`
}

// SettingsResponse shapes the single settings row for the API.
type SettingsResponse struct {
	Workshop           settings.WorkshopInfo `json:"workshop"`
	NextServiceNumber  int                   `json:"next_service_number"`
	FinishedCountToday int                   `json:"finished_count_today"`
	LastResetDate      string                `json:"last_reset_date"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// Service manages the settings singleton and its daily counters
type Service struct {
	settingsRepo settings.Repository
}

// NewService creates a new settings Service
func NewService(settingsRepo settings.Repository) *Service {
	return &Service{settingsRepo: settingsRepo}
}

// Get returns the settings, applying the daily counter reset on read
// so a stale counter never leaks past midnight
func (s *Service) Get(ctx context.Context) (*SettingsResponse, error) {
	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.ResetIfNewDay(time.Now()) {
		if err := s.settingsRepo.Save(ctx, cfg); err != nil {
			return nil, err
		}
	}

	return toResponse(cfg), nil
}

// UpdateWorkshopInfo replaces the workshop identity fields
func (s *Service) UpdateWorkshopInfo(ctx context.Context, req WorkshopInfoRequest) (*SettingsResponse, error) {
	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := cfg.UpdateWorkshopInfo(settings.WorkshopInfo{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		LogoURL:   req.LogoURL,
		LogoScale: req.LogoScale,
	}); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	return toResponse(cfg), nil
}

// ResetDailyCounters applies the daily reset. Called by the scheduler
// shortly after midnight; reads apply the same rule lazily.
func (s *Service) ResetDailyCounters(ctx context.Context) error {
	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return err
	}

	if !cfg.ResetIfNewDay(time.Now()) {
		return nil
	}

	return s.settingsRepo.Save(ctx, cfg)
}

func toResponse(cfg *settings.Settings) *SettingsResponse {
	return &SettingsResponse{
		Workshop:           cfg.Workshop,
		NextServiceNumber:  cfg.NextServiceNumber,
		FinishedCountToday: cfg.FinishedCountToday,
		LastResetDate:      cfg.LastResetDate,
		UpdatedAt:          cfg.UpdatedAt,
	}
}
