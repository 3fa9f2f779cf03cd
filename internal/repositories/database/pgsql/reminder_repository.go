package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReminderRepository struct {
	BaseRepository
}

func newPgxReminderRepository(pool *pgxpool.Pool) *PgxReminderRepository {
	return &PgxReminderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReminderRepositoryFacade = (*PgxReminderRepository)(nil)

const reminderColumns = `reminder_id, title, description, kind, priority, due_date, status, is_recurring, recurrence_kind,
	recurrence_interval, recurrence_end_date, related_account_id, related_instrument_id, snoozed_until, completed_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanReminder(row rowScanner) (domain.Reminder, error) {
	var r domain.Reminder
	err := row.Scan(
		&r.ReminderID, &r.Title, &r.Description, &r.Kind, &r.Priority, &r.DueDate, &r.Status, &r.IsRecurring,
		&r.RecurrenceKind, &r.RecurrenceInterval, &r.RecurrenceEndDate, &r.RelatedAccountID, &r.RelatedInstrumentID,
		&r.SnoozedUntil, &r.CompletedAt, &r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy,
	)
	return r, err
}

const insertReminderSQL = `
	INSERT INTO reminders (title, description, kind, priority, due_date, status, is_recurring, recurrence_kind,
		recurrence_interval, recurrence_end_date, related_account_id, related_instrument_id,
		created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING reminder_id;
`

func insertReminderArgs(r domain.Reminder) []any {
	interval := r.RecurrenceInterval
	if interval < 1 {
		interval = 1
	}
	return []any{
		r.Title, r.Description, r.Kind, r.Priority, r.DueDate, r.Status, r.IsRecurring, r.RecurrenceKind,
		interval, r.RecurrenceEndDate, r.RelatedAccountID, r.RelatedInstrumentID,
		r.CreatedAt, r.CreatedBy, r.LastUpdatedAt, r.LastUpdatedBy,
	}
}

// SaveReminder inserts a new reminder.
func (r *PgxReminderRepository) SaveReminder(ctx context.Context, reminder domain.Reminder) (int64, error) {
	var id int64
	if err := r.Pool.QueryRow(ctx, insertReminderSQL, insertReminderArgs(reminder)...).Scan(&id); err != nil {
		return 0, dbError(err, "save reminder %q", reminder.Title)
	}
	return id, nil
}

// SaveReminderInTx inserts a new reminder inside the caller's transaction.
func (r *PgxReminderRepository) SaveReminderInTx(ctx context.Context, tx pgx.Tx, reminder domain.Reminder) (int64, error) {
	var id int64
	if err := tx.QueryRow(ctx, insertReminderSQL, insertReminderArgs(reminder)...).Scan(&id); err != nil {
		return 0, dbError(err, "save reminder %q", reminder.Title)
	}
	return id, nil
}

// FindReminderByID retrieves a reminder by its ID.
func (r *PgxReminderRepository) FindReminderByID(ctx context.Context, reminderID int64) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE reminder_id = $1;`
	rem, err := scanReminder(r.Pool.QueryRow(ctx, query, reminderID))
	if err != nil {
		return nil, dbError(err, "find reminder %d", reminderID)
	}
	return &rem, nil
}

// FindReminderForUpdate retrieves a reminder and locks the row.
func (r *PgxReminderRepository) FindReminderForUpdate(ctx context.Context, tx pgx.Tx, reminderID int64) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE reminder_id = $1 FOR UPDATE;`
	rem, err := scanReminder(tx.QueryRow(ctx, query, reminderID))
	if err != nil {
		return nil, dbError(err, "lock reminder %d", reminderID)
	}
	return &rem, nil
}

// ListReminders retrieves reminders matching the filter ordered by due date.
func (r *PgxReminderRepository) ListReminders(ctx context.Context, filter domain.ReminderFilter) ([]domain.Reminder, error) {
	var w whereClause
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	if filter.Kind != nil {
		w.add("kind = ?", *filter.Kind)
	}
	if filter.Priority != nil {
		w.add("priority = ?", *filter.Priority)
	}
	if filter.AccountID != nil {
		w.add("related_account_id = ?", *filter.AccountID)
	}
	if filter.InstrumentID != nil {
		w.add("related_instrument_id = ?", *filter.InstrumentID)
	}
	rangeClause(&w, "due_date", filter.Due)
	page := filter.Page.Normalize()
	query := `SELECT ` + reminderColumns + ` FROM reminders` + w.String() +
		` ORDER BY due_date, reminder_id` + w.page(page.Limit, page.Offset)

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "list reminders")
	}
	defer rows.Close()

	reminders := []domain.Reminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, dbError(err, "scan reminder row")
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate reminder rows")
	}
	return reminders, nil
}

// UpdateReminder stores the editable fields of a reminder.
func (r *PgxReminderRepository) UpdateReminder(ctx context.Context, rem domain.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $2, description = $3, kind = $4, priority = $5, due_date = $6, is_recurring = $7,
			recurrence_kind = $8, recurrence_interval = $9, recurrence_end_date = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE reminder_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		rem.ReminderID, rem.Title, rem.Description, rem.Kind, rem.Priority, rem.DueDate, rem.IsRecurring,
		rem.RecurrenceKind, rem.RecurrenceInterval, rem.RecurrenceEndDate, rem.LastUpdatedAt, rem.LastUpdatedBy,
	)
	if err != nil {
		return dbError(err, "update reminder %d", rem.ReminderID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SnoozeReminder hides a pending reminder until the given time.
func (r *PgxReminderRepository) SnoozeReminder(ctx context.Context, reminderID int64, until time.Time, userID string, now time.Time) error {
	query := `
		UPDATE reminders
		SET snoozed_until = $2, last_updated_at = $3, last_updated_by = $4
		WHERE reminder_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, reminderID, until, now, userID)
	if err != nil {
		return dbError(err, "snooze reminder %d", reminderID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteReminder removes a reminder.
func (r *PgxReminderRepository) DeleteReminder(ctx context.Context, reminderID int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM reminders WHERE reminder_id = $1;`, reminderID)
	if err != nil {
		return dbError(err, "delete reminder %d", reminderID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CompleteReminderInTx marks a reminder completed.
func (r *PgxReminderRepository) CompleteReminderInTx(ctx context.Context, tx pgx.Tx, reminderID int64, userID string, now time.Time) error {
	query := `
		UPDATE reminders
		SET status = 'completed', completed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE reminder_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, reminderID, now, userID)
	if err != nil {
		return dbError(err, "complete reminder %d", reminderID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CompletePendingForInstrumentInTx completes every pending reminder of an instrument.
func (r *PgxReminderRepository) CompletePendingForInstrumentInTx(ctx context.Context, tx pgx.Tx, instrumentID int64, userID string, now time.Time) (int64, error) {
	query := `
		UPDATE reminders
		SET status = 'completed', completed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE related_instrument_id = $1 AND status = 'pending';
	`
	cmdTag, err := tx.Exec(ctx, query, instrumentID, now, userID)
	if err != nil {
		return 0, dbError(err, "complete reminders of instrument %d", instrumentID)
	}
	return cmdTag.RowsAffected(), nil
}
