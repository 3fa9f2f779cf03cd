package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/google/uuid"
)

const minPasswordLength = 8

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...ServiceOption) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(options),
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new operator. Self-registration records the new
// user as its own creator.
func (s *userService) CreateUser(ctx context.Context, username, name, password string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	name = strings.TrimSpace(name)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check username", slog.String("username", username))
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, username)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("username", username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", userID))
	s.Track(userID, "user_registered", nil)
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser soft-deletes a user. Operators can only delete themselves.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if err := domain.RequireActor(requestingUserID); err != nil {
		return err
	}
	if userID != requestingUserID {
		return fmt.Errorf("%w: users can only delete their own account", apperrors.ErrUnauthorized)
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, s.Now(), requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}

// AuthenticateUser checks a username and password. Unknown users, deleted
// users and wrong passwords all return ErrUnauthorized.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to load user for login")
		return nil, err
	}
	if user.DeletedAt != nil || user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.GetLogger(ctx).Warn("Login rejected", slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
