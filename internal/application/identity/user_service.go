package identity

import (
	"context"
	"errors"

	"github.com/mecanicpro/backend/internal/domain/identity"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages workshop operator accounts
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// EnsureDefaultUser creates the initial operator account when no user
// exists yet. Called once at startup; a no-op on every later boot.
func (s *UserService) EnsureDefaultUser(ctx context.Context, username, password string) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, err := identity.NewUser(username, password)
	if err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Default operator account created", zap.String("username", user.Username))
	return nil
}

// CreateUser registers a new operator account
func (s *UserService) CreateUser(ctx context.Context, username, password, displayName string) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	user, err := identity.NewUser(username, password)
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		if err := user.SetDisplayName(displayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created", zap.String("username", user.Username))

	return &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
	}, nil
}

// HasUsers reports whether any operator account exists
func (s *UserService) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return count > 0, nil
}
