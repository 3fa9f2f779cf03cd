package pgsql

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) *reportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// ListAccountBalances returns active accounts' balances ordered by magnitude.
func (r *reportingRepository) ListAccountBalances(ctx context.Context, filter domain.BalanceReportFilter) ([]domain.AccountBalanceRow, error) {
	var w whereClause
	w.add("is_active = TRUE")
	switch filter.Mode {
	case domain.BalanceReceivable:
		w.add("balance > 0")
	case domain.BalancePayable:
		w.add("balance < 0")
	case domain.BalanceNonZero:
		w.add("balance <> 0")
	}
	if filter.Kind != nil {
		w.add("kind = ?", *filter.Kind)
	}
	if filter.MinBalance != nil {
		w.add("abs(balance) >= ?", *filter.MinBalance)
	}
	query := `
		SELECT account_id, name, kind, phone, balance, credit_limit
		FROM accounts` + w.String() + `
		ORDER BY abs(balance) DESC, name`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "query account balances")
	}
	defer rows.Close()

	result := []domain.AccountBalanceRow{}
	for rows.Next() {
		var row domain.AccountBalanceRow
		if err := rows.Scan(&row.AccountID, &row.Name, &row.Kind, &row.Phone, &row.Balance, &row.CreditLimit); err != nil {
			return nil, dbError(err, "scan account balance row")
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate account balance rows")
	}
	return result, nil
}

// CountActiveAccounts counts accounts that have not been deactivated.
func (r *reportingRepository) CountActiveAccounts(ctx context.Context) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE is_active = TRUE;`).Scan(&n); err != nil {
		return 0, dbError(err, "count active accounts")
	}
	return n, nil
}
