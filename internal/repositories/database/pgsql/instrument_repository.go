package pgsql

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInstrumentRepository struct {
	BaseRepository
}

func newPgxInstrumentRepository(pool *pgxpool.Pool) *PgxInstrumentRepository {
	return &PgxInstrumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InstrumentRepositoryFacade = (*PgxInstrumentRepository)(nil)

const instrumentColumns = `instrument_id, direction, kind, account_id, serial_number, bank_name, bank_branch, bank_code,
	account_number, iban, amount, paid_amount, currency, issue_date, due_date, status, is_endorsed, endorsed_to,
	endorser_name, endorser_tax_no, endorser_phone, endorsement_date, drawer_name, drawer_tax_no, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInstrument(row rowScanner) (domain.Instrument, error) {
	var i domain.Instrument
	err := row.Scan(
		&i.InstrumentID, &i.Direction, &i.Kind, &i.AccountID, &i.SerialNumber,
		&i.Bank.BankName, &i.Bank.BankBranch, &i.Bank.BankCode, &i.Bank.AccountNumber, &i.Bank.IBAN,
		&i.Amount, &i.PaidAmount, &i.Currency, &i.IssueDate, &i.DueDate, &i.Status, &i.IsEndorsed,
		&i.Endorsement.EndorsedTo, &i.Endorsement.EndorserName, &i.Endorsement.EndorserTaxNo,
		&i.Endorsement.EndorserPhone, &i.Endorsement.EndorsementDate,
		&i.DrawerName, &i.DrawerTaxNo, &i.Notes,
		&i.CreatedAt, &i.CreatedBy, &i.LastUpdatedAt, &i.LastUpdatedBy,
	)
	return i, err
}

// SaveInstrumentInTx inserts a new instrument inside the caller's transaction.
func (r *PgxInstrumentRepository) SaveInstrumentInTx(ctx context.Context, tx pgx.Tx, in domain.Instrument) (int64, error) {
	query := `
		INSERT INTO instruments (direction, kind, account_id, serial_number, bank_name, bank_branch, bank_code,
			account_number, iban, amount, paid_amount, currency, issue_date, due_date, status, is_endorsed,
			drawer_name, drawer_tax_no, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING instrument_id;
	`
	var id int64
	err := tx.QueryRow(ctx, query,
		in.Direction, in.Kind, in.AccountID, in.SerialNumber, in.Bank.BankName, in.Bank.BankBranch, in.Bank.BankCode,
		in.Bank.AccountNumber, in.Bank.IBAN, in.Amount, in.PaidAmount, in.Currency, in.IssueDate, in.DueDate,
		in.Status, in.IsEndorsed, in.DrawerName, in.DrawerTaxNo, in.Notes,
		in.CreatedAt, in.CreatedBy, in.LastUpdatedAt, in.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		return 0, dbError(err, "save instrument %q", in.SerialNumber)
	}
	return id, nil
}

// FindInstrumentByID retrieves an instrument by its ID.
func (r *PgxInstrumentRepository) FindInstrumentByID(ctx context.Context, instrumentID int64) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE instrument_id = $1;`
	in, err := scanInstrument(r.Pool.QueryRow(ctx, query, instrumentID))
	if err != nil {
		return nil, dbError(err, "find instrument %d", instrumentID)
	}
	return &in, nil
}

// FindInstrumentForUpdate retrieves an instrument and locks the row. Must be called within a transaction.
func (r *PgxInstrumentRepository) FindInstrumentForUpdate(ctx context.Context, tx pgx.Tx, instrumentID int64) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE instrument_id = $1 FOR UPDATE;`
	in, err := scanInstrument(tx.QueryRow(ctx, query, instrumentID))
	if err != nil {
		return nil, dbError(err, "lock instrument %d", instrumentID)
	}
	return &in, nil
}

// ListInstruments retrieves instruments matching the filter ordered by due date.
func (r *PgxInstrumentRepository) ListInstruments(ctx context.Context, filter domain.InstrumentFilter) ([]domain.Instrument, error) {
	var w whereClause
	if filter.Direction != nil {
		w.add("direction = ?", *filter.Direction)
	}
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	if filter.Overdue {
		w.add("status = 'pending' AND due_date < CURRENT_DATE")
	}
	if filter.UpcomingDays > 0 {
		w.add("status = 'pending' AND due_date BETWEEN CURRENT_DATE AND CURRENT_DATE + ?::int", filter.UpcomingDays)
	}
	if filter.AccountID != nil {
		w.add("account_id = ?", *filter.AccountID)
	}
	if !filter.Due.From.IsZero() {
		w.add("due_date >= ?", domain.DateOf(filter.Due.From))
	}
	if !filter.Due.To.IsZero() {
		w.add("due_date <= ?", domain.DateOf(filter.Due.To))
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(lower(serial_number) LIKE ? OR lower(drawer_name) LIKE ? OR lower(bank_name) LIKE ?)", p, p, p)
	}
	page := filter.Page.Normalize()
	query := `SELECT ` + instrumentColumns + ` FROM instruments` + w.String() +
		` ORDER BY due_date, instrument_id` + w.page(page.Limit, page.Offset)

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "list instruments")
	}
	defer rows.Close()

	instruments := []domain.Instrument{}
	for rows.Next() {
		in, err := scanInstrument(rows)
		if err != nil {
			return nil, dbError(err, "scan instrument row")
		}
		instruments = append(instruments, in)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate instrument rows")
	}
	return instruments, nil
}

// UpdateInstrumentDetails stores the descriptive fields of a pending instrument.
func (r *PgxInstrumentRepository) UpdateInstrumentDetails(ctx context.Context, in domain.Instrument) error {
	query := `
		UPDATE instruments
		SET serial_number = $2, bank_name = $3, bank_branch = $4, bank_code = $5, account_number = $6, iban = $7,
			drawer_name = $8, drawer_tax_no = $9, notes = $10, last_updated_at = $11, last_updated_by = $12
		WHERE instrument_id = $1 AND status = 'pending';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		in.InstrumentID, in.SerialNumber, in.Bank.BankName, in.Bank.BankBranch, in.Bank.BankCode,
		in.Bank.AccountNumber, in.Bank.IBAN, in.DrawerName, in.DrawerTaxNo, in.Notes,
		in.LastUpdatedAt, in.LastUpdatedBy,
	)
	if err != nil {
		return dbError(err, "update instrument %d", in.InstrumentID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateInstrumentStateInTx stores the lifecycle fields of an instrument.
func (r *PgxInstrumentRepository) UpdateInstrumentStateInTx(ctx context.Context, tx pgx.Tx, in domain.Instrument) error {
	query := `
		UPDATE instruments
		SET status = $2, paid_amount = $3, is_endorsed = $4, endorsed_to = $5, endorser_name = $6,
			endorser_tax_no = $7, endorser_phone = $8, endorsement_date = $9, last_updated_at = $10, last_updated_by = $11
		WHERE instrument_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		in.InstrumentID, in.Status, in.PaidAmount, in.IsEndorsed, in.Endorsement.EndorsedTo,
		in.Endorsement.EndorserName, in.Endorsement.EndorserTaxNo, in.Endorsement.EndorserPhone,
		in.Endorsement.EndorsementDate, in.LastUpdatedAt, in.LastUpdatedBy,
	)
	if err != nil {
		return dbError(err, "update state of instrument %d", in.InstrumentID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveInstrumentTransactionInTx appends a lifecycle row.
func (r *PgxInstrumentRepository) SaveInstrumentTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.InstrumentTransaction) (int64, error) {
	query := `
		INSERT INTO instrument_transactions (instrument_id, kind, amount, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING transaction_id;
	`
	var id int64
	err := tx.QueryRow(ctx, query, txn.InstrumentID, txn.Kind, txn.Amount, txn.Description, txn.CreatedAt, txn.CreatedBy).Scan(&id)
	if err != nil {
		return 0, dbError(err, "save %s transaction for instrument %d", txn.Kind, txn.InstrumentID)
	}
	return id, nil
}

// ListInstrumentTransactions returns the history of an instrument, oldest first.
func (r *PgxInstrumentRepository) ListInstrumentTransactions(ctx context.Context, instrumentID int64) ([]domain.InstrumentTransaction, error) {
	query := `
		SELECT transaction_id, instrument_id, kind, amount, description, created_at, created_by
		FROM instrument_transactions
		WHERE instrument_id = $1
		ORDER BY transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, instrumentID)
	if err != nil {
		return nil, dbError(err, "list transactions of instrument %d", instrumentID)
	}
	defer rows.Close()

	txns := []domain.InstrumentTransaction{}
	for rows.Next() {
		var t domain.InstrumentTransaction
		if err := rows.Scan(&t.TransactionID, &t.InstrumentID, &t.Kind, &t.Amount, &t.Description, &t.CreatedAt, &t.CreatedBy); err != nil {
			return nil, dbError(err, "scan instrument transaction row")
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate instrument transaction rows")
	}
	return txns, nil
}
