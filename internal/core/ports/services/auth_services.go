package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// TokenSvcFacade issues the bearer tokens whose subject is the acting user
// for every ledger, instrument, cash and reminder mutation.
type TokenSvcFacade interface {
	// GenerateAccessToken returns the signed token and its expiry.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
