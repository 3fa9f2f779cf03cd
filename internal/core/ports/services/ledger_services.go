package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// LedgerWriterSvc posts signed amounts to account ledgers
type LedgerWriterSvc interface {
	// ApplyAccountTransaction posts a signed amount and records the new running balance.
	ApplyAccountTransaction(ctx context.Context, posting domain.LedgerPosting, actorID string) (domain.OperationResult, error)
}

// LedgerReaderSvc defines ledger reads
type LedgerReaderSvc interface {
	// GetStatement returns the opening balance, the in-range transactions and their totals.
	GetStatement(ctx context.Context, accountID int64, rng domain.DateRange) (*domain.Statement, error)

	// ListTransactions pages through an account's transactions. The returned
	// token is empty on the last page.
	ListTransactions(ctx context.Context, accountID int64, rng domain.DateRange, pageToken string, limit int) ([]domain.AccountTransaction, string, error)

	// ReconcileAccount replays the stored history against the stored balance.
	ReconcileAccount(ctx context.Context, accountID int64) (*domain.Reconciliation, error)
}

// LedgerSvcFacade combines the ledger interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
