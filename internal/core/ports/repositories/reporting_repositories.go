package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// ReportingRepository defines cross-entity read queries used by reports
type ReportingRepository interface {
	// ListAccountBalances returns active account balances matching the filter.
	ListAccountBalances(ctx context.Context, filter domain.BalanceReportFilter) ([]domain.AccountBalanceRow, error)

	// CountActiveAccounts counts accounts that are not deactivated.
	CountActiveAccounts(ctx context.Context) (int, error)
}
