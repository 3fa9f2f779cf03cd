package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// ListAccounts retrieves accounts matching the filter together with their
	// pending instrument totals.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountSummary, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and returns its ID.
	SaveAccount(ctx context.Context, account domain.Account) (int64, error)

	// UpdateAccount updates an existing account's details. The balance is not touched.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID int64, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// SaveAccountInTx persists a new account within a given transaction.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) (int64, error)

	// FindAccountForUpdate selects an account and locks it for update within a transaction.
	FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error)

	// UpdateAccountBalanceInTx stores a new running balance within a given transaction.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID int64, balance decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
