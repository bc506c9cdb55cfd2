package models

import (
	"time"

	"github.com/mecanicpro/backend/internal/domain/identity"
)

// UserModel is the GORM model for operator accounts
type UserModel struct {
	BaseModel
	Version           int        `gorm:"not null;default:1"`
	Username          string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	DisplayName       string     `gorm:"type:varchar(200);column:display_name"`
	PasswordHash      string     `gorm:"type:varchar(255);not null;column:password_hash"`
	Status            string     `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at"`
	LastLoginIP       string     `gorm:"type:varchar(45);column:last_login_ip"`
	FailedAttempts    int        `gorm:"not null;default:0;column:failed_attempts"`
	LockedUntil       *time.Time `gorm:"column:locked_until"`
	PasswordChangedAt *time.Time `gorm:"column:password_changed_at"`
}

// TableName returns the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Username:          m.Username,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		Status:            identity.UserStatus(m.Status),
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		PasswordChangedAt: m.PasswordChangedAt,
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	user.Version = m.Version
	return user
}

// FromDomain populates the model from a domain user
func (m *UserModel) FromDomain(user *identity.User) {
	m.ID = user.ID
	m.CreatedAt = user.CreatedAt
	m.UpdatedAt = user.UpdatedAt
	m.Version = user.Version
	m.Username = user.Username
	m.DisplayName = user.DisplayName
	m.PasswordHash = user.PasswordHash
	m.Status = string(user.Status)
	m.LastLoginAt = user.LastLoginAt
	m.LastLoginIP = user.LastLoginIP
	m.FailedAttempts = user.FailedAttempts
	m.LockedUntil = user.LockedUntil
	m.PasswordChangedAt = user.PasswordChangedAt
}

// UserModelFromDomain creates a model from a domain user
func UserModelFromDomain(user *identity.User) *UserModel {
	model := &UserModel{}
	model.FromDomain(user)
	return model
}
