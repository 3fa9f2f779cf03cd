package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// reminderService implements the reminder scheduler.
type reminderService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	reminderRepo portsrepo.ReminderRepositoryFacade
}

// NewReminderService creates a new reminder service.
func NewReminderService(txManager portsrepo.TransactionManager, reminderRepo portsrepo.ReminderRepositoryFacade, options ...ServiceOption) portssvc.ReminderSvcFacade {
	return &reminderService{
		BaseService:  newBaseService(options),
		txManager:    txManager,
		reminderRepo: reminderRepo,
	}
}

var _ portssvc.ReminderSvcFacade = (*reminderService)(nil)

func (s *reminderService) GetReminder(ctx context.Context, reminderID int64) (*domain.Reminder, error) {
	reminder, err := s.reminderRepo.FindReminderByID(ctx, reminderID)
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to get reminder", slog.Int64("reminder_id", reminderID))
		}
		return nil, err
	}
	return reminder, nil
}

func validateReminderFilter(filter domain.ReminderFilter) error {
	if filter.Status != nil && !filter.Status.IsValid() {
		return fmt.Errorf("%w: unknown reminder status %q", apperrors.ErrValidation, *filter.Status)
	}
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return fmt.Errorf("%w: unknown reminder kind %q", apperrors.ErrValidation, *filter.Kind)
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, *filter.Priority)
	}
	return filter.Due.Validate()
}

func (s *reminderService) ListReminders(ctx context.Context, filter domain.ReminderFilter) ([]domain.Reminder, error) {
	if err := validateReminderFilter(filter); err != nil {
		return nil, err
	}
	filter.Page = filter.Page.Normalize()
	reminders, err := s.reminderRepo.ListReminders(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reminders")
		return nil, err
	}
	return reminders, nil
}

// ListDue buckets pending reminders against today. The bucket is computed on
// every call and never stored.
func (s *reminderService) ListDue(ctx context.Context, filter domain.ReminderFilter) (*domain.DueList, error) {
	pending := domain.ReminderPending
	filter.Status = &pending
	if err := validateReminderFilter(filter); err != nil {
		return nil, err
	}
	filter.Page = domain.Page{Limit: domain.Unlimited}
	reminders, err := s.reminderRepo.ListReminders(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due reminders")
		return nil, err
	}
	list := domain.ClassifyDue(reminders, s.Now())
	return &list, nil
}

func (s *reminderService) GetSummary(ctx context.Context) (*domain.ReminderSummary, error) {
	pending := domain.ReminderPending
	reminders, err := s.reminderRepo.ListReminders(ctx, domain.ReminderFilter{
		Status: &pending,
		Page:   domain.Page{Limit: domain.Unlimited},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load reminders for summary")
		return nil, err
	}
	summary := domain.SummarizeReminders(reminders, s.Now())
	return &summary, nil
}

func (s *reminderService) CreateReminder(ctx context.Context, reminder domain.Reminder, actorID string) (*domain.Reminder, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	reminder.ReminderID = 0
	reminder.Title = strings.TrimSpace(reminder.Title)
	if reminder.Kind == "" {
		reminder.Kind = domain.ReminderGeneral
	}
	if reminder.Priority == "" {
		reminder.Priority = domain.PriorityNormal
	}
	if reminder.RecurrenceInterval == 0 {
		reminder.RecurrenceInterval = 1
	}
	if !reminder.DueDate.IsZero() {
		reminder.DueDate = domain.DateOf(reminder.DueDate)
	}
	reminder.Status = domain.ReminderPending
	reminder.SnoozedUntil = nil
	reminder.CompletedAt = nil
	if err := reminder.Validate(); err != nil {
		return nil, err
	}
	reminder.AuditFields = domain.NewAuditFields(actorID, s.Now())

	id, err := s.reminderRepo.SaveReminder(ctx, reminder)
	if err != nil {
		s.LogError(ctx, err, "Failed to create reminder", slog.String("title", reminder.Title))
		return nil, err
	}
	reminder.ReminderID = id
	s.LogInfo(ctx, "Reminder created", slog.Int64("reminder_id", id))
	return &reminder, nil
}

func (s *reminderService) UpdateReminder(ctx context.Context, reminderID int64, patch domain.ReminderPatch, actorID string) (*domain.Reminder, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}
	reminder, err := s.reminderRepo.FindReminderByID(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if reminder.Status == domain.ReminderCompleted {
		return nil, fmt.Errorf("%w: reminder %d is already completed", apperrors.ErrInvalidState, reminderID)
	}

	patch.Apply(reminder)
	reminder.Title = strings.TrimSpace(reminder.Title)
	if err := reminder.Validate(); err != nil {
		return nil, err
	}
	reminder.LastUpdatedAt = s.Now()
	reminder.LastUpdatedBy = actorID

	if err := s.reminderRepo.UpdateReminder(ctx, *reminder); err != nil {
		s.LogError(ctx, err, "Failed to update reminder", slog.Int64("reminder_id", reminderID))
		return nil, err
	}
	return reminder, nil
}

func (s *reminderService) DeleteReminder(ctx context.Context, reminderID int64, actorID string) error {
	if err := domain.RequireActor(actorID); err != nil {
		return err
	}
	if _, err := s.reminderRepo.FindReminderByID(ctx, reminderID); err != nil {
		return err
	}
	if err := s.reminderRepo.DeleteReminder(ctx, reminderID); err != nil {
		s.LogError(ctx, err, "Failed to delete reminder", slog.Int64("reminder_id", reminderID))
		return err
	}
	s.LogInfo(ctx, "Reminder deleted", slog.Int64("reminder_id", reminderID), slog.String("deleted_by", actorID))
	return nil
}

// SnoozeReminder hides a pending reminder from due lists until the given time.
func (s *reminderService) SnoozeReminder(ctx context.Context, reminderID int64, until time.Time, actorID string) error {
	if err := domain.RequireActor(actorID); err != nil {
		return err
	}
	now := s.Now()
	if !until.After(now) {
		return fmt.Errorf("%w: snooze time must be in the future", apperrors.ErrValidation)
	}
	reminder, err := s.reminderRepo.FindReminderByID(ctx, reminderID)
	if err != nil {
		return err
	}
	if reminder.Status != domain.ReminderPending {
		return fmt.Errorf("%w: only pending reminders can be snoozed", apperrors.ErrInvalidState)
	}
	if err := s.reminderRepo.SnoozeReminder(ctx, reminderID, until.UTC(), actorID, now); err != nil {
		s.LogError(ctx, err, "Failed to snooze reminder", slog.Int64("reminder_id", reminderID))
		return err
	}
	return nil
}

// ResolveReminder completes a reminder and, for a recurring one, schedules
// exactly one successor in the same transaction.
func (s *reminderService) ResolveReminder(ctx context.Context, reminderID int64, actorID string) (domain.OperationResult, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return businessResult(err)
	}

	now := s.Now()
	var successorID int64
	var next time.Time
	err := s.inTx(ctx, s.txManager, func(tx pgx.Tx) error {
		reminder, err := s.reminderRepo.FindReminderForUpdate(ctx, tx, reminderID)
		if err != nil {
			return err
		}
		if reminder.Status == domain.ReminderCompleted {
			return fmt.Errorf("%w: reminder %d is already completed", apperrors.ErrInvalidState, reminderID)
		}
		if err := s.reminderRepo.CompleteReminderInTx(ctx, tx, reminderID, actorID, now); err != nil {
			return err
		}

		successor, ok := reminder.Successor(actorID, now)
		if !ok {
			return nil
		}
		successorID, err = s.reminderRepo.SaveReminderInTx(ctx, tx, successor)
		next = successor.DueDate
		return err
	})
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to resolve reminder", slog.Int64("reminder_id", reminderID))
		}
		return businessResult(err)
	}

	s.LogInfo(ctx, "Reminder resolved",
		slog.Int64("reminder_id", reminderID),
		slog.Int64("successor_id", successorID))

	if successorID == 0 {
		res := domain.Succeeded("Reminder completed")
		res.ID = reminderID
		return res, nil
	}
	res := domain.Succeeded(fmt.Sprintf("Reminder completed. Next occurrence on %s", next.Format(time.DateOnly)))
	res.ID = successorID
	return res, nil
}
