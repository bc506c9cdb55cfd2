package models

import (
	"github.com/mecanicpro/backend/internal/domain/settings"
)

// SettingsModel is the GORM model for the single settings row
type SettingsModel struct {
	AggregateModel
	WorkshopName       string  `gorm:"type:varchar(200);column:workshop_name"`
	WorkshopPhone      string  `gorm:"type:varchar(50);column:workshop_phone"`
	WorkshopAddress    string  `gorm:"type:text;column:workshop_address"`
	WorkshopLogoURL    string  `gorm:"type:text;column:workshop_logo_url"`
	WorkshopLogoScale  float64 `gorm:"not null;default:1;column:workshop_logo_scale"`
	NextServiceNumber  int     `gorm:"not null;default:1;column:next_service_number"`
	FinishedCountToday int     `gorm:"not null;default:0;column:finished_count_today"`
	LastResetDate      string  `gorm:"type:varchar(10);column:last_reset_date"`
}

// TableName returns the table name
func (SettingsModel) TableName() string {
	return "settings"
}

// ToDomain converts the model to the domain Settings aggregate
func (m *SettingsModel) ToDomain() *settings.Settings {
	cfg := &settings.Settings{
		Workshop: settings.WorkshopInfo{
			Name:      m.WorkshopName,
			Phone:     m.WorkshopPhone,
			Address:   m.WorkshopAddress,
			LogoURL:   m.WorkshopLogoURL,
			LogoScale: m.WorkshopLogoScale,
		},
		NextServiceNumber:  m.NextServiceNumber,
		FinishedCountToday: m.FinishedCountToday,
		LastResetDate:      m.LastResetDate,
	}
	m.PopulateAggregateRoot(&cfg.BaseAggregateRoot)
	return cfg
}

// FromDomain populates the model from the domain Settings aggregate
func (m *SettingsModel) FromDomain(cfg *settings.Settings) {
	m.FromDomainAggregateRoot(cfg.BaseAggregateRoot)
	m.WorkshopName = cfg.Workshop.Name
	m.WorkshopPhone = cfg.Workshop.Phone
	m.WorkshopAddress = cfg.Workshop.Address
	m.WorkshopLogoURL = cfg.Workshop.LogoURL
	m.WorkshopLogoScale = cfg.Workshop.LogoScale
	m.NextServiceNumber = cfg.NextServiceNumber
	m.FinishedCountToday = cfg.FinishedCountToday
	m.LastResetDate = cfg.LastResetDate
}

// SettingsModelFromDomain creates a model from the domain Settings aggregate
func SettingsModelFromDomain(cfg *settings.Settings) *SettingsModel {
	m := &SettingsModel{}
	m.FromDomain(cfg)
	return m
}
