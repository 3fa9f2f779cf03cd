package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, kind, name, short_name, phone, email, address, city, tax_office, tax_number,
	currency, balance, credit_limit, payment_term, notes, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row rowScanner, extra ...any) (domain.Account, error) {
	var a domain.Account
	dest := []any{
		&a.AccountID, &a.Kind, &a.Name, &a.ShortName, &a.Phone, &a.Email, &a.Address, &a.City, &a.TaxOffice, &a.TaxNumber,
		&a.Currency, &a.Balance, &a.CreditLimit, &a.PaymentTerm, &a.Notes, &a.IsActive,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	}
	err := row.Scan(append(dest, extra...)...)
	return a, err
}

const insertAccountSQL = `
	INSERT INTO accounts (kind, name, short_name, phone, email, address, city, tax_office, tax_number,
		currency, balance, credit_limit, payment_term, notes, is_active, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING account_id;
`

func insertAccountArgs(a domain.Account) []any {
	return []any{
		a.Kind, a.Name, a.ShortName, a.Phone, a.Email, a.Address, a.City, a.TaxOffice, a.TaxNumber,
		a.Currency, a.Balance, a.CreditLimit, a.PaymentTerm, a.Notes, a.IsActive,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	}
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (int64, error) {
	var id int64
	if err := r.Pool.QueryRow(ctx, insertAccountSQL, insertAccountArgs(account)...).Scan(&id); err != nil {
		return 0, dbError(err, "save account %q", account.Name)
	}
	return id, nil
}

// SaveAccountInTx inserts a new account within the given transaction.
func (r *PgxAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) (int64, error) {
	var id int64
	if err := tx.QueryRow(ctx, insertAccountSQL, insertAccountArgs(account)...).Scan(&id); err != nil {
		return 0, dbError(err, "save account %q", account.Name)
	}
	return id, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, dbError(err, "find account %d", accountID)
	}
	return &acc, nil
}

// ListAccounts retrieves accounts ordered by name, each with its pending instrument totals.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountSummary, error) {
	var w whereClause
	if filter.Kind != nil {
		w.add("a.kind = ?", *filter.Kind)
	}
	if filter.ActiveOnly {
		w.add("a.is_active = TRUE")
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(lower(a.name) LIKE ? OR lower(a.phone) LIKE ? OR lower(a.email) LIKE ? OR lower(a.tax_number) LIKE ?)", p, p, p, p)
	}
	page := filter.Page.Normalize()

	query := `
		SELECT ` + prefixColumns("a", accountColumns) + `,
			COALESCE(p.cnt, 0), COALESCE(p.total, 0)
		FROM accounts a
		LEFT JOIN (
			SELECT account_id, COUNT(*) AS cnt, SUM(amount - paid_amount) AS total
			FROM instruments
			WHERE status = 'pending'
			GROUP BY account_id
		) p ON p.account_id = a.account_id` + w.String() + `
		ORDER BY a.name` + w.page(page.Limit, page.Offset)

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "list accounts")
	}
	defer rows.Close()

	accounts := []domain.AccountSummary{}
	for rows.Next() {
		var s domain.AccountSummary
		acc, err := scanAccount(rows, &s.PendingInstrumentCount, &s.PendingInstrumentTotal)
		if err != nil {
			return nil, dbError(err, "scan account row")
		}
		s.Account = acc
		accounts = append(accounts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate account rows")
	}
	return accounts, nil
}

// UpdateAccount updates the descriptive fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET kind = $2, name = $3, short_name = $4, phone = $5, email = $6, address = $7, city = $8,
			tax_office = $9, tax_number = $10, currency = $11, credit_limit = $12, payment_term = $13,
			notes = $14, is_active = $15, last_updated_at = $16, last_updated_by = $17
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.AccountID, account.Kind, account.Name, account.ShortName, account.Phone, account.Email,
		account.Address, account.City, account.TaxOffice, account.TaxNumber, account.Currency,
		account.CreditLimit, account.PaymentTerm, account.Notes, account.IsActive,
		account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		return dbError(err, "update account %d", account.AccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID int64, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return dbError(err, "deactivate account %d", accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountForUpdate retrieves an account and locks the row. Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	acc, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, dbError(err, "lock account %d", accountID)
	}
	return &acc, nil
}

// UpdateAccountBalanceInTx stores the running balance of an account.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID int64, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, balance, now, userID)
	if err != nil {
		return dbError(err, "update balance of account %d", accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
