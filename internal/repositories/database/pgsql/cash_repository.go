package pgsql

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxCashRepository struct {
	BaseRepository
}

func newPgxCashRepository(pool *pgxpool.Pool) *PgxCashRepository {
	return &PgxCashRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CashRepositoryFacade = (*PgxCashRepository)(nil)

const cashColumns = `entry_id, kind, category, subcategory, amount, currency, description, account_id, instrument_id,
	payment_method, reference_no, transaction_date, created_at, created_by`

func scanCashEntry(row rowScanner) (domain.CashEntry, error) {
	var e domain.CashEntry
	err := row.Scan(
		&e.EntryID, &e.Kind, &e.Category, &e.Subcategory, &e.Amount, &e.Currency, &e.Description,
		&e.AccountID, &e.InstrumentID, &e.PaymentMethod, &e.ReferenceNo, &e.TransactionDate,
		&e.CreatedAt, &e.CreatedBy,
	)
	return e, err
}

// rangeClause restricts transaction_date to the inclusive range.
func rangeClause(w *whereClause, column string, rng domain.DateRange) {
	if !rng.From.IsZero() {
		w.add(column+" >= ?", domain.DateOf(rng.From))
	}
	if !rng.To.IsZero() {
		w.add(column+" <= ?", domain.DateOf(rng.To))
	}
}

// SaveEntryInTx appends a drawer entry inside the caller's transaction.
func (r *PgxCashRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, e domain.CashEntry) (int64, error) {
	query := `
		INSERT INTO cash_entries (kind, category, subcategory, amount, currency, description, account_id, instrument_id,
			payment_method, reference_no, transaction_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING entry_id;
	`
	var id int64
	err := tx.QueryRow(ctx, query,
		e.Kind, e.Category, e.Subcategory, e.Amount, e.Currency, e.Description, e.AccountID, e.InstrumentID,
		e.PaymentMethod, e.ReferenceNo, e.TransactionDate, e.CreatedAt, e.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, dbError(err, "save %s entry", e.Kind)
	}
	return id, nil
}

// FindEntryByID retrieves a drawer entry by its ID.
func (r *PgxCashRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.CashEntry, error) {
	query := `SELECT ` + cashColumns + ` FROM cash_entries WHERE entry_id = $1;`
	e, err := scanCashEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, dbError(err, "find cash entry %d", entryID)
	}
	return &e, nil
}

// ListEntries retrieves drawer entries matching the filter, newest first.
func (r *PgxCashRepository) ListEntries(ctx context.Context, filter domain.CashFilter) ([]domain.CashEntry, error) {
	var w whereClause
	rangeClause(&w, "transaction_date", filter.Range)
	if filter.Kind != nil {
		w.add("kind = ?", *filter.Kind)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.AccountID != nil {
		w.add("account_id = ?", *filter.AccountID)
	}
	if filter.InstrumentID != nil {
		w.add("instrument_id = ?", *filter.InstrumentID)
	}
	if filter.PaymentMethod != nil {
		w.add("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(lower(description) LIKE ? OR lower(category) LIKE ? OR lower(reference_no) LIKE ?)", p, p, p)
	}
	page := filter.Page.Normalize()
	query := `SELECT ` + cashColumns + ` FROM cash_entries` + w.String() +
		` ORDER BY transaction_date DESC, entry_id DESC` + w.page(page.Limit, page.Offset)

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "list cash entries")
	}
	defer rows.Close()

	entries := []domain.CashEntry{}
	for rows.Next() {
		e, err := scanCashEntry(rows)
		if err != nil {
			return nil, dbError(err, "scan cash entry row")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate cash entry rows")
	}
	return entries, nil
}

// SumTotals returns income and expense totals and the entry count for the range.
func (r *PgxCashRepository) SumTotals(ctx context.Context, rng domain.DateRange) (domain.CashTotals, int, error) {
	var w whereClause
	rangeClause(&w, "transaction_date", rng)
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0),
			COUNT(*)
		FROM cash_entries` + w.String()

	var income, expense decimal.Decimal
	var count int
	if err := r.Pool.QueryRow(ctx, query, w.args...).Scan(&income, &expense, &count); err != nil {
		return domain.CashTotals{}, 0, dbError(err, "sum cash totals")
	}
	return domain.NewCashTotals(income, expense), count, nil
}

// SumByCategory groups the range by kind and category, largest total first.
func (r *PgxCashRepository) SumByCategory(ctx context.Context, rng domain.DateRange, kind *domain.CashKind) ([]domain.CategoryTotal, error) {
	var w whereClause
	rangeClause(&w, "transaction_date", rng)
	if kind != nil {
		w.add("kind = ?", *kind)
	}
	query := `
		SELECT category, kind, SUM(amount), COUNT(*)
		FROM cash_entries` + w.String() + `
		GROUP BY category, kind
		ORDER BY SUM(amount) DESC, category`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "sum cash by category")
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var t domain.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Kind, &t.Total, &t.Count); err != nil {
			return nil, dbError(err, "scan category total")
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate category totals")
	}
	return totals, nil
}

// SumByPeriod buckets the range with date_trunc on the requested period.
func (r *PgxCashRepository) SumByPeriod(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) ([]domain.CashFlowBucket, error) {
	var w whereClause
	w.args = append(w.args, string(period))
	rangeClause(&w, "transaction_date", rng)
	query := `
		SELECT date_trunc($1::text, transaction_date::timestamp)::date AS period_start,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)
		FROM cash_entries` + w.String() + `
		GROUP BY period_start
		ORDER BY period_start`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "bucket cash entries by %s", period)
	}
	defer rows.Close()

	buckets := []domain.CashFlowBucket{}
	for rows.Next() {
		var b domain.CashFlowBucket
		var income, expense decimal.Decimal
		if err := rows.Scan(&b.PeriodStart, &income, &expense); err != nil {
			return nil, dbError(err, "scan cash flow bucket")
		}
		b.CashTotals = domain.NewCashTotals(income, expense)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate cash flow buckets")
	}
	return buckets, nil
}
