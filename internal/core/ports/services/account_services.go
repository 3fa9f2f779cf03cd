package services

import (
	"context"
	"io"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// ListAccounts retrieves accounts with their pending instrument totals.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountSummary, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account. A non-zero Balance is posted as an
	// opening ledger transaction in the same database transaction.
	CreateAccount(ctx context.Context, account domain.Account, actorID string) (*domain.Account, error)

	// UpdateAccount applies a patch to an existing account.
	UpdateAccount(ctx context.Context, accountID int64, patch domain.AccountPatch, actorID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID int64, actorID string) error
}

// AccountImporterSvc defines bulk account import
type AccountImporterSvc interface {
	// ImportAccounts reads a CSV of accounts in any common encoding.
	ImportAccounts(ctx context.Context, r io.Reader, actorID string) (*domain.ImportResult, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountImporterSvc
}
