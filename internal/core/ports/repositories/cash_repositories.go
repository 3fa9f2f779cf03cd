package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CashReader defines read and aggregation operations for the cash drawer
type CashReader interface {
	// FindEntryByID retrieves a single drawer entry.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.CashEntry, error)

	// ListEntries retrieves entries matching the filter, newest first.
	ListEntries(ctx context.Context, filter domain.CashFilter) ([]domain.CashEntry, error)

	// SumTotals returns income and expense totals for the range and the entry count.
	SumTotals(ctx context.Context, rng domain.DateRange) (domain.CashTotals, int, error)

	// SumByCategory groups totals by kind and category, largest first.
	SumByCategory(ctx context.Context, rng domain.DateRange, kind *domain.CashKind) ([]domain.CategoryTotal, error)

	// SumByPeriod buckets totals into day/week/month/year periods.
	SumByPeriod(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) ([]domain.CashFlowBucket, error)
}

// CashTransactionSupport defines drawer writes inside a caller's transaction
type CashTransactionSupport interface {
	// SaveEntryInTx appends a drawer entry and returns its ID.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.CashEntry) (int64, error)
}

// CashRepositoryFacade combines all cash-drawer repository interfaces
type CashRepositoryFacade interface {
	CashReader
	CashTransactionSupport
}
