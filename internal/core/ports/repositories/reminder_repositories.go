package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ReminderReader defines read operations for reminders
type ReminderReader interface {
	// FindReminderByID retrieves a reminder by its ID.
	FindReminderByID(ctx context.Context, reminderID int64) (*domain.Reminder, error)

	// ListReminders retrieves reminders matching the filter, ordered by due date.
	ListReminders(ctx context.Context, filter domain.ReminderFilter) ([]domain.Reminder, error)
}

// ReminderWriter defines single-row write operations for reminders
type ReminderWriter interface {
	// SaveReminder persists a new reminder and returns its ID.
	SaveReminder(ctx context.Context, reminder domain.Reminder) (int64, error)

	// UpdateReminder stores the mutable fields of a reminder.
	UpdateReminder(ctx context.Context, reminder domain.Reminder) error

	// SnoozeReminder hides a reminder from due lists until the given time.
	SnoozeReminder(ctx context.Context, reminderID int64, until time.Time, userID string, now time.Time) error

	// DeleteReminder removes a reminder.
	DeleteReminder(ctx context.Context, reminderID int64) error
}

// ReminderTransactionSupport defines reminder writes inside a caller's transaction
type ReminderTransactionSupport interface {
	// SaveReminderInTx persists a new reminder and returns its ID.
	SaveReminderInTx(ctx context.Context, tx pgx.Tx, reminder domain.Reminder) (int64, error)

	// FindReminderForUpdate selects a reminder and locks it for update.
	FindReminderForUpdate(ctx context.Context, tx pgx.Tx, reminderID int64) (*domain.Reminder, error)

	// CompleteReminderInTx marks a reminder completed.
	CompleteReminderInTx(ctx context.Context, tx pgx.Tx, reminderID int64, userID string, now time.Time) error

	// CompletePendingForInstrumentInTx completes every pending reminder linked
	// to the instrument and returns how many were completed.
	CompletePendingForInstrumentInTx(ctx context.Context, tx pgx.Tx, instrumentID int64, userID string, now time.Time) (int64, error)
}

// ReminderRepositoryFacade combines all reminder-related repository interfaces
type ReminderRepositoryFacade interface {
	ReminderReader
	ReminderWriter
	ReminderTransactionSupport
}
