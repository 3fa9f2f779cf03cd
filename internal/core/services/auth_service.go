package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/platform/config"
	"github.com/SscSPs/bookkeeping_app/internal/utils"
)

// tokenService issues JWT access tokens.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, options ...ServiceOption) portssvc.TokenSvcFacade {
	return &tokenService{
		BaseService: newBaseService(options),
		cfg:         cfg,
	}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	if user == nil || user.UserID == "" {
		return "", time.Time{}, fmt.Errorf("cannot issue a token without a user")
	}
	expiryTime := s.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}
