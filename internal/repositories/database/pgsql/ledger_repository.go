package pgsql

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `transaction_id, account_id, kind, amount, balance_after, description, reference_kind, reference_id,
	transaction_date, due_date, created_at, created_by`

func scanLedgerRow(row rowScanner) (domain.AccountTransaction, error) {
	var t domain.AccountTransaction
	err := row.Scan(
		&t.TransactionID, &t.AccountID, &t.Kind, &t.Amount, &t.BalanceAfter, &t.Description,
		&t.Reference.Kind, &t.Reference.ID, &t.TransactionDate, &t.DueDate, &t.CreatedAt, &t.CreatedBy,
	)
	return t, err
}

func collectLedgerRows(rows pgx.Rows) ([]domain.AccountTransaction, error) {
	defer rows.Close()
	txns := []domain.AccountTransaction{}
	for rows.Next() {
		t, err := scanLedgerRow(rows)
		if err != nil {
			return nil, dbError(err, "scan ledger row")
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate ledger rows")
	}
	return txns, nil
}

// SaveTransactionInTx appends a ledger row inside the caller's transaction.
func (r *PgxLedgerRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.AccountTransaction) (int64, error) {
	query := `
		INSERT INTO account_transactions (account_id, kind, amount, balance_after, description, reference_kind, reference_id,
			transaction_date, due_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING transaction_id;
	`
	var id int64
	err := tx.QueryRow(ctx, query,
		txn.AccountID, txn.Kind, txn.Amount, txn.BalanceAfter, txn.Description, txn.Reference.Kind, txn.Reference.ID,
		txn.TransactionDate, txn.DueDate, txn.CreatedAt, txn.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, dbError(err, "save ledger transaction for account %d", txn.AccountID)
	}
	return id, nil
}

// ListTransactions returns the account's rows within the range in posting order.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, accountID int64, rng domain.DateRange, afterID int64, limit int) ([]domain.AccountTransaction, error) {
	var w whereClause
	w.add("account_id = ?", accountID)
	if !rng.From.IsZero() {
		w.add("transaction_date >= ?", domain.DateOf(rng.From))
	}
	if !rng.To.IsZero() {
		w.add("transaction_date <= ?", domain.DateOf(rng.To))
	}
	if afterID > 0 {
		// Keyset continuation on (transaction_date, transaction_id).
		w.add("(transaction_date, transaction_id) > (SELECT transaction_date, transaction_id FROM account_transactions WHERE transaction_id = ?)", afterID)
	}
	query := `SELECT ` + ledgerColumns + ` FROM account_transactions` + w.String() + ` ORDER BY transaction_date, transaction_id`
	if limit > 0 {
		query += w.limit(limit)
	}

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "list transactions of account %d", accountID)
	}
	return collectLedgerRows(rows)
}

// FindOpeningBalance returns the running balance just before the range starts.
func (r *PgxLedgerRepository) FindOpeningBalance(ctx context.Context, accountID int64, rng domain.DateRange) (decimal.Decimal, error) {
	if rng.From.IsZero() {
		return decimal.Zero, nil
	}
	query := `
		SELECT COALESCE((
			SELECT balance_after
			FROM account_transactions
			WHERE account_id = $1 AND transaction_date < $2
			ORDER BY transaction_date DESC, transaction_id DESC
			LIMIT 1
		), 0);
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, domain.DateOf(rng.From)).Scan(&balance); err != nil {
		return decimal.Zero, dbError(err, "find opening balance of account %d", accountID)
	}
	return balance, nil
}

// ListAllTransactions returns the full history in insertion order, which is
// the order running balances were computed in.
func (r *PgxLedgerRepository) ListAllTransactions(ctx context.Context, accountID int64) ([]domain.AccountTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM account_transactions WHERE account_id = $1 ORDER BY transaction_id`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, dbError(err, "list history of account %d", accountID)
	}
	return collectLedgerRows(rows)
}
