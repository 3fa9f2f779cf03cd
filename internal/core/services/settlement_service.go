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
	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// settlementService coordinates instrument settlements across the registry,
// the cash drawer, the ledger and the reminders.
type settlementService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	instrumentRepo portsrepo.InstrumentTransactionSupport
	cashRepo       portsrepo.CashTransactionSupport
	reminderRepo   portsrepo.ReminderTransactionSupport
	poster         ledgerPoster
}

// NewSettlementService creates the settlement coordinator.
func NewSettlementService(
	txManager portsrepo.TransactionManager,
	instrumentRepo portsrepo.InstrumentTransactionSupport,
	cashRepo portsrepo.CashTransactionSupport,
	accountRepo portsrepo.AccountTransactionSupport,
	ledgerRepo portsrepo.LedgerTransactionSupport,
	reminderRepo portsrepo.ReminderTransactionSupport,
	options ...ServiceOption,
) portssvc.SettlementSvc {
	return &settlementService{
		BaseService:    newBaseService(options),
		txManager:      txManager,
		instrumentRepo: instrumentRepo,
		cashRepo:       cashRepo,
		reminderRepo:   reminderRepo,
		poster:         ledgerPoster{accounts: accountRepo, ledger: ledgerRepo},
	}
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

// settlementOutcome is what one committed settlement did.
type settlementOutcome struct {
	instrument        domain.Instrument
	plan              domain.SettlementPlan
	txnID             int64
	cashEntryID       int64
	ledgerTxnID       int64
	remindersResolved int64
}

func (s *settlementService) Settle(ctx context.Context, instrumentID int64, mode domain.SettlementMode, amount *decimal.Decimal, description string, actorID string) (domain.OperationResult, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return businessResult(err)
	}
	if !mode.IsValid() {
		return businessResult(fmt.Errorf("%w: unknown settlement mode %q", apperrors.ErrValidation, mode))
	}
	requested := decimal.Zero
	if mode == domain.SettlePartial {
		if amount == nil {
			return businessResult(fmt.Errorf("%w: payment amount is required", apperrors.ErrValidation))
		}
		requested = *amount
	}
	return s.run(ctx, instrumentID, string(mode), description, actorID, func(i domain.Instrument) (domain.SettlementPlan, error) {
		return i.PlanSettlement(mode, requested)
	}, nil)
}

func (s *settlementService) CollectInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error) {
	return s.Settle(ctx, instrumentID, domain.SettleCashed, nil, description, actorID)
}

func (s *settlementService) PartiallyCollect(ctx context.Context, instrumentID int64, amount decimal.Decimal, description string, actorID string) (domain.OperationResult, error) {
	return s.Settle(ctx, instrumentID, domain.SettlePartial, &amount, description, actorID)
}

func (s *settlementService) ReturnInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error) {
	return s.Settle(ctx, instrumentID, domain.SettleReturned, nil, description, actorID)
}

func (s *settlementService) CancelInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error) {
	return s.Settle(ctx, instrumentID, domain.SettleCancelled, nil, description, actorID)
}

// EndorseInstrument transfers a pending incoming instrument to a third party.
func (s *settlementService) EndorseInstrument(ctx context.Context, instrumentID int64, endorsement domain.Endorsement, description string, actorID string) (domain.OperationResult, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return businessResult(err)
	}
	endorsement.EndorsedTo = strings.TrimSpace(endorsement.EndorsedTo)
	return s.run(ctx, instrumentID, string(domain.StatusEndorsed), description, actorID, func(i domain.Instrument) (domain.SettlementPlan, error) {
		return i.PlanEndorsement(endorsement)
	}, func(i *domain.Instrument, now time.Time) {
		i.IsEndorsed = true
		i.Endorsement = endorsement
		if i.Endorsement.EndorsementDate == nil {
			d := domain.DateOf(now)
			i.Endorsement.EndorsementDate = &d
		} else {
			d := domain.DateOf(*i.Endorsement.EndorsementDate)
			i.Endorsement.EndorsementDate = &d
		}
	})
}

// run executes one settlement in a single database transaction, in the
// order instrument, instrument history, cash, ledger, reminders.
func (s *settlementService) run(
	ctx context.Context,
	instrumentID int64,
	action string,
	description string,
	actorID string,
	planFn func(domain.Instrument) (domain.SettlementPlan, error),
	mutate func(*domain.Instrument, time.Time),
) (domain.OperationResult, error) {
	now := s.Now()
	logger := s.GetLogger(ctx).With(slog.Int64("instrument_id", instrumentID), slog.String("action", action))

	var out settlementOutcome
	err := s.inTx(ctx, s.txManager, func(tx pgx.Tx) error {
		instrument, err := s.instrumentRepo.FindInstrumentForUpdate(ctx, tx, instrumentID)
		if err != nil {
			return err
		}
		plan, err := planFn(*instrument)
		if err != nil {
			return err
		}

		updated := *instrument
		updated.Status = plan.NewStatus
		updated.PaidAmount = plan.NewPaidAmount
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actorID
		if mutate != nil {
			mutate(&updated, now)
		}
		if err := s.instrumentRepo.UpdateInstrumentStateInTx(ctx, tx, updated); err != nil {
			return err
		}

		txn := domain.InstrumentTransaction{
			InstrumentID: instrumentID,
			Kind:         plan.TxnKind,
			Amount:       plan.TxnAmount,
			Description:  historyDescription(description, plan),
			CreatedAt:    now,
			CreatedBy:    actorID,
		}
		txnID, err := s.instrumentRepo.SaveInstrumentTransactionInTx(ctx, tx, txn)
		if err != nil {
			return err
		}
		out = settlementOutcome{instrument: updated, plan: plan, txnID: txnID}

		if plan.HasCashEffect() {
			entry := domain.CashEntry{
				Kind:            *plan.CashKind,
				Category:        plan.CashCategory,
				Amount:          plan.CashAmount,
				Currency:        updated.Currency,
				Description:     cashDescription(description, updated),
				AccountID:       updated.AccountID,
				InstrumentID:    &updated.InstrumentID,
				PaymentMethod:   domain.PaymentCheck,
				ReferenceNo:     updated.SerialNumber,
				TransactionDate: domain.DateOf(now),
				CreatedAt:       now,
				CreatedBy:       actorID,
			}
			if out.cashEntryID, err = s.cashRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
				return err
			}
		}

		if plan.HasLedgerEffect(updated.AccountID) {
			ref := updated.InstrumentID
			posting := domain.LedgerPosting{
				AccountID:       *updated.AccountID,
				Amount:          plan.LedgerAmount,
				Description:     cashDescription(description, updated),
				Reference:       domain.Reference{Kind: domain.ReferenceInstrument, ID: &ref},
				TransactionDate: domain.DateOf(now),
			}
			ledgerTxn, err := s.poster.post(ctx, tx, posting, actorID, now)
			if err != nil {
				return err
			}
			out.ledgerTxnID = ledgerTxn.TransactionID
		}

		if plan.ResolveReminders {
			if out.remindersResolved, err = s.reminderRepo.CompletePendingForInstrumentInTx(ctx, tx, instrumentID, actorID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.IsBusiness(err) {
			logger.Info("Settlement rejected", slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Settlement failed", slog.Int64("instrument_id", instrumentID), slog.String("action", action))
		}
		return businessResult(err)
	}

	logger.Info("Instrument settled",
		slog.String("status", string(out.plan.NewStatus)),
		slog.String("paid_amount", out.plan.NewPaidAmount.String()),
		slog.Int64("instrument_transaction_id", out.txnID),
		slog.Int64("cash_entry_id", out.cashEntryID),
		slog.Int64("ledger_transaction_id", out.ledgerTxnID),
		slog.Int64("reminders_resolved", out.remindersResolved))
	if out.plan.UnreversedPaid.IsPositive() {
		logger.Warn("Cancelled instrument keeps collected payments",
			slog.String("paid_amount", out.plan.UnreversedPaid.String()))
	}
	s.Track(actorID, "instrument_settled", map[string]any{
		"action":    action,
		"status":    string(out.plan.NewStatus),
		"direction": string(out.instrument.Direction),
	})

	res := domain.Succeeded(settlementMessage(out))
	res.ID = out.txnID
	return res, nil
}

func historyDescription(description string, plan domain.SettlementPlan) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	switch plan.TxnKind {
	case domain.TxnPartialPayment:
		return fmt.Sprintf("Partial payment of %s", utils.FormatAmount(plan.TxnAmount))
	case domain.TxnCashed:
		return "Collected in full"
	case domain.TxnEndorsed:
		return "Endorsed"
	case domain.TxnReturned:
		return "Returned unpaid"
	case domain.TxnCancelled:
		return "Cancelled"
	}
	return string(plan.TxnKind)
}

func cashDescription(description string, i domain.Instrument) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return i.Title()
}

func settlementMessage(out settlementOutcome) string {
	serial := out.instrument.SerialNumber
	plan := out.plan
	switch plan.TxnKind {
	case domain.TxnCashed:
		return fmt.Sprintf("Instrument %s collected: %s %s", serial, utils.FormatAmount(plan.TxnAmount), out.instrument.Currency)
	case domain.TxnPartialPayment:
		if plan.NewStatus == domain.StatusCashed {
			return fmt.Sprintf("Final payment of %s received; instrument %s is fully collected", utils.FormatAmount(plan.TxnAmount), serial)
		}
		remaining := out.instrument.Remaining()
		return fmt.Sprintf("Partial payment of %s received for instrument %s. Remaining: %s", utils.FormatAmount(plan.TxnAmount), serial, utils.FormatAmount(remaining))
	case domain.TxnReturned:
		if plan.HasCashEffect() {
			return fmt.Sprintf("Instrument %s returned; %s collected earlier was reversed", serial, utils.FormatAmount(plan.CashAmount))
		}
		return fmt.Sprintf("Instrument %s returned", serial)
	case domain.TxnCancelled:
		if plan.UnreversedPaid.IsPositive() {
			return fmt.Sprintf("Instrument %s cancelled; %s already collected was not reversed", serial, utils.FormatAmount(plan.UnreversedPaid))
		}
		return fmt.Sprintf("Instrument %s cancelled", serial)
	case domain.TxnEndorsed:
		return fmt.Sprintf("Instrument %s endorsed to %s", serial, out.instrument.Endorsement.EndorsedTo)
	}
	return fmt.Sprintf("Instrument %s updated", serial)
}
