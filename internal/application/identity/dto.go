package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput carries the operator's credentials plus the client IP
// for login tracking.
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// TokenResult is the issued token pair with its expirations.
type TokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

type LoginResult struct {
	TokenResult
	User UserInfo
}

// UserInfo is the operator profile exposed to the API layer.
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
}

type RefreshTokenInput struct {
	RefreshToken string
}

type RefreshTokenResult struct {
	TokenResult
}

// LogoutInput identifies the session to revoke. TokenTTL bounds how
// long the blacklist entry must outlive the token.
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

type GetCurrentUserInput struct {
	UserID uuid.UUID
}

type CurrentUserResult struct {
	User UserInfo
}
