package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// CashDrawerSvc records drawer entries and aggregates them
type CashDrawerSvc interface {
	// RecordEntry appends an entry. With an account, the opposite ledger
	// effect is posted in the same database transaction.
	RecordEntry(ctx context.Context, entry domain.CashEntry, actorID string) (domain.OperationResult, error)

	GetEntry(ctx context.Context, entryID int64) (*domain.CashEntry, error)
	ListEntries(ctx context.Context, filter domain.CashFilter) ([]domain.CashEntry, error)

	// GetDrawerBalance returns totals for all time, today, the trailing week and this month.
	GetDrawerBalance(ctx context.Context) (*domain.DrawerBalance, error)
	GetCategoryTotals(ctx context.Context, rng domain.DateRange, kind *domain.CashKind) ([]domain.CategoryTotal, error)
	GetCashFlowSeries(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) ([]domain.CashFlowBucket, error)
	GetFinancialSummary(ctx context.Context, rng domain.DateRange) (*domain.FinancialSummary, error)
}
