package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ReminderSettings controls the reminders created alongside instruments.
type ReminderSettings struct {
	AutoCreate         bool
	LeadDays           int
	UpcomingWindowDays int
}

// instrumentService implements the instrument registry.
type instrumentService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	instrumentRepo  portsrepo.InstrumentRepositoryFacade
	reminderRepo    portsrepo.ReminderTransactionSupport
	reminders       ReminderSettings
	defaultCurrency string
}

// NewInstrumentService creates a new instrument registry service.
func NewInstrumentService(txManager portsrepo.TransactionManager, instrumentRepo portsrepo.InstrumentRepositoryFacade, reminderRepo portsrepo.ReminderTransactionSupport, reminders ReminderSettings, defaultCurrency string, options ...ServiceOption) portssvc.InstrumentSvcFacade {
	if reminders.UpcomingWindowDays <= 0 {
		reminders.UpcomingWindowDays = 7
	}
	return &instrumentService{
		BaseService:     newBaseService(options),
		txManager:       txManager,
		instrumentRepo:  instrumentRepo,
		reminderRepo:    reminderRepo,
		reminders:       reminders,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.InstrumentSvcFacade = (*instrumentService)(nil)

// RegisterInstrument stores a pending instrument, its created history row
// and the automatic reminder in one transaction.
func (s *instrumentService) RegisterInstrument(ctx context.Context, instrument domain.Instrument, actorID string) (domain.OperationResult, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return businessResult(err)
	}
	if err := instrument.ValidateNew(); err != nil {
		return businessResult(err)
	}

	now := s.Now()
	instrument.InstrumentID = 0
	instrument.SerialNumber = strings.TrimSpace(instrument.SerialNumber)
	instrument.Status = domain.StatusPending
	instrument.PaidAmount = decimal.Zero
	instrument.IsEndorsed = false
	instrument.Endorsement = domain.Endorsement{}
	instrument.DueDate = domain.DateOf(instrument.DueDate)
	if instrument.IssueDate.IsZero() {
		instrument.IssueDate = domain.DateOf(now)
	} else {
		instrument.IssueDate = domain.DateOf(instrument.IssueDate)
	}
	if instrument.Currency == "" {
		instrument.Currency = s.defaultCurrency
	}
	instrument.AuditFields = domain.NewAuditFields(actorID, now)

	var reminderID int64
	err := s.inTx(ctx, s.txManager, func(tx pgx.Tx) error {
		id, err := s.instrumentRepo.SaveInstrumentInTx(ctx, tx, instrument)
		if err != nil {
			return err
		}
		instrument.InstrumentID = id

		created := domain.InstrumentTransaction{
			InstrumentID: id,
			Kind:         domain.TxnCreated,
			Amount:       instrument.Amount,
			Description:  "Instrument registered",
			CreatedAt:    now,
			CreatedBy:    actorID,
		}
		if _, err := s.instrumentRepo.SaveInstrumentTransactionInTx(ctx, tx, created); err != nil {
			return err
		}

		if s.reminders.AutoCreate {
			reminder := domain.InstrumentReminder(instrument, s.reminders.LeadDays, instrument.Currency, actorID, now)
			reminderID, err = s.reminderRepo.SaveReminderInTx(ctx, tx, reminder)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to register instrument", slog.String("serial_number", instrument.SerialNumber))
		}
		return businessResult(err)
	}

	s.LogInfo(ctx, "Instrument registered",
		slog.Int64("instrument_id", instrument.InstrumentID),
		slog.String("direction", string(instrument.Direction)),
		slog.String("amount", instrument.Amount.String()),
		slog.Int64("reminder_id", reminderID))
	s.Track(actorID, "instrument_registered", map[string]any{
		"direction": string(instrument.Direction),
		"kind":      string(instrument.Kind),
		"reminder":  reminderID != 0,
	})

	res := domain.Succeeded(fmt.Sprintf("%s registered", instrument.Title()))
	res.ID = instrument.InstrumentID
	return res, nil
}

func (s *instrumentService) GetInstrument(ctx context.Context, instrumentID int64) (*domain.InstrumentDetail, error) {
	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to get instrument", slog.Int64("instrument_id", instrumentID))
		}
		return nil, err
	}
	txns, err := s.instrumentRepo.ListInstrumentTransactions(ctx, instrumentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load instrument history", slog.Int64("instrument_id", instrumentID))
		return nil, err
	}
	return &domain.InstrumentDetail{
		Instrument:    *instrument,
		Remaining:     instrument.Remaining(),
		DisplayStatus: instrument.DisplayStatus(s.Now(), s.reminders.UpcomingWindowDays),
		Transactions:  txns,
	}, nil
}

func (s *instrumentService) ListInstruments(ctx context.Context, filter domain.InstrumentFilter) ([]domain.Instrument, error) {
	if filter.Direction != nil && !filter.Direction.IsValid() {
		return nil, fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, *filter.Direction)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown instrument status %q", apperrors.ErrValidation, *filter.Status)
	}
	if filter.UpcomingDays < 0 {
		return nil, fmt.Errorf("%w: upcoming days cannot be negative", apperrors.ErrValidation)
	}
	if err := filter.Due.Validate(); err != nil {
		return nil, err
	}
	filter.Page = filter.Page.Normalize()

	instruments, err := s.instrumentRepo.ListInstruments(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list instruments")
		return nil, err
	}
	return instruments, nil
}

func (s *instrumentService) ListInstrumentTransactions(ctx context.Context, instrumentID int64) ([]domain.InstrumentTransaction, error) {
	if _, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID); err != nil {
		return nil, err
	}
	txns, err := s.instrumentRepo.ListInstrumentTransactions(ctx, instrumentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list instrument transactions", slog.Int64("instrument_id", instrumentID))
		return nil, err
	}
	return txns, nil
}

// ListUpcoming returns pending instruments due between today and today+days.
func (s *instrumentService) ListUpcoming(ctx context.Context, days int) ([]domain.Instrument, error) {
	if days <= 0 {
		days = s.reminders.UpcomingWindowDays
	}
	pending := domain.StatusPending
	return s.ListInstruments(ctx, domain.InstrumentFilter{
		Status:       &pending,
		UpcomingDays: days,
		Page:         domain.Page{Limit: domain.Unlimited},
	})
}

func (s *instrumentService) ListOverdue(ctx context.Context) ([]domain.Instrument, error) {
	pending := domain.StatusPending
	return s.ListInstruments(ctx, domain.InstrumentFilter{
		Status:  &pending,
		Overdue: true,
		Page:    domain.Page{Limit: domain.Unlimited},
	})
}

// GetSummary folds pending and endorsed instruments into the dashboard summary.
func (s *instrumentService) GetSummary(ctx context.Context) (*domain.InstrumentSummary, error) {
	instruments, err := s.instrumentRepo.ListInstruments(ctx, domain.InstrumentFilter{Page: domain.Page{Limit: domain.Unlimited}})
	if err != nil {
		s.LogError(ctx, err, "Failed to load instruments for summary")
		return nil, err
	}
	summary := domain.SummarizeInstruments(instruments, s.Now())
	return &summary, nil
}

func (s *instrumentService) UpdateInstrument(ctx context.Context, instrumentID int64, patch domain.InstrumentPatch, actorID string) (*domain.Instrument, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	if instrument.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: instrument %s is already processed (status %s)", apperrors.ErrInvalidState, instrument.SerialNumber, instrument.Status)
	}

	patch.Apply(instrument)
	instrument.SerialNumber = strings.TrimSpace(instrument.SerialNumber)
	instrument.LastUpdatedAt = s.Now()
	instrument.LastUpdatedBy = actorID

	if err := s.instrumentRepo.UpdateInstrumentDetails(ctx, *instrument); err != nil {
		s.LogError(ctx, err, "Failed to update instrument", slog.Int64("instrument_id", instrumentID))
		return nil, err
	}
	s.LogInfo(ctx, "Instrument updated", slog.Int64("instrument_id", instrumentID))
	return instrument, nil
}
