package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// ReminderReaderSvc defines reminder reads
type ReminderReaderSvc interface {
	GetReminder(ctx context.Context, reminderID int64) (*domain.Reminder, error)
	ListReminders(ctx context.Context, filter domain.ReminderFilter) ([]domain.Reminder, error)

	// ListDue classifies pending, non-snoozed reminders at query time.
	ListDue(ctx context.Context, filter domain.ReminderFilter) (*domain.DueList, error)
	GetSummary(ctx context.Context) (*domain.ReminderSummary, error)
}

// ReminderWriterSvc defines reminder writes
type ReminderWriterSvc interface {
	CreateReminder(ctx context.Context, reminder domain.Reminder, actorID string) (*domain.Reminder, error)
	UpdateReminder(ctx context.Context, reminderID int64, patch domain.ReminderPatch, actorID string) (*domain.Reminder, error)
	DeleteReminder(ctx context.Context, reminderID int64, actorID string) error
	SnoozeReminder(ctx context.Context, reminderID int64, until time.Time, actorID string) error

	// ResolveReminder completes a reminder and schedules the next occurrence
	// of a recurring one.
	ResolveReminder(ctx context.Context, reminderID int64, actorID string) (domain.OperationResult, error)
}

// ReminderSvcFacade combines the reminder scheduler interfaces
type ReminderSvcFacade interface {
	ReminderReaderSvc
	ReminderWriterSvc
}
