package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for account transactions
type LedgerReader interface {
	// ListTransactions returns an account's transactions within the range,
	// ordered by transaction date then ID. afterID > 0 continues a keyset page.
	ListTransactions(ctx context.Context, accountID int64, rng domain.DateRange, afterID int64, limit int) ([]domain.AccountTransaction, error)

	// FindOpeningBalance returns balance_after of the last transaction dated
	// strictly before rng.From, or zero.
	FindOpeningBalance(ctx context.Context, accountID int64, rng domain.DateRange) (decimal.Decimal, error)

	// ListAllTransactions returns the full history of an account in posting order.
	ListAllTransactions(ctx context.Context, accountID int64) ([]domain.AccountTransaction, error)
}

// LedgerTransactionSupport defines ledger writes that run inside a caller's transaction
type LedgerTransactionSupport interface {
	// SaveTransactionInTx appends a ledger row and returns its ID.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.AccountTransaction) (int64, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerTransactionSupport
}
