package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SettlementMode selects how a pending instrument is settled.
type SettlementMode string

const (
	SettleCashed    SettlementMode = "cashed"
	SettlePartial   SettlementMode = "partial"
	SettleReturned  SettlementMode = "returned"
	SettleCancelled SettlementMode = "cancelled"
)

func (m SettlementMode) IsValid() bool {
	switch m {
	case SettleCashed, SettlePartial, SettleReturned, SettleCancelled:
		return true
	}
	return false
}

// ParseSettlementMode validates a raw settlement mode.
func ParseSettlementMode(raw string) (SettlementMode, error) {
	return parseEnum("settlement mode", raw, SettlementMode.IsValid)
}

// SettlementPlan is every effect of one settlement, computed before anything
// is written. Cash and ledger effects are only planned for incoming
// instruments; outgoing instruments never touch the drawer or the ledger.
type SettlementPlan struct {
	NewStatus     InstrumentStatus
	NewPaidAmount decimal.Decimal
	TxnKind       InstrumentTxnKind
	TxnAmount     decimal.Decimal

	// CashKind is nil when the drawer is untouched.
	CashKind     *CashKind
	CashAmount   decimal.Decimal
	CashCategory string

	// LedgerAmount is the signed posting for the linked account; zero means none.
	LedgerAmount decimal.Decimal

	ResolveReminders bool

	// UnreversedPaid is the paid amount a cancellation leaves in place.
	UnreversedPaid decimal.Decimal
}

// HasCashEffect reports whether a drawer entry must be recorded.
func (p SettlementPlan) HasCashEffect() bool { return p.CashKind != nil }

// HasLedgerEffect reports whether a ledger posting is planned for accountID.
func (p SettlementPlan) HasLedgerEffect(accountID *int64) bool {
	return accountID != nil && !p.LedgerAmount.IsZero()
}

// checkTransitionAllowed fails with InvalidState once the instrument has left pending.
func (i Instrument) checkTransitionAllowed() error {
	if i.Status.IsTerminal() {
		return errAlreadyProcessed(i)
	}
	return nil
}

func errAlreadyProcessed(i Instrument) error {
	return fmt.Errorf("%w: instrument %s is already processed (status %s)", apperrors.ErrInvalidState, i.SerialNumber, i.Status)
}

// PlanSettlement computes the transition for mode. requested is only read for
// partial settlements, where it must be positive and is clamped down to the
// remaining amount.
func (i Instrument) PlanSettlement(mode SettlementMode, requested decimal.Decimal) (SettlementPlan, error) {
	if !mode.IsValid() {
		return SettlementPlan{}, fmt.Errorf("%w: unknown settlement mode %q", apperrors.ErrValidation, mode)
	}
	if err := i.checkTransitionAllowed(); err != nil {
		return SettlementPlan{}, err
	}

	plan := SettlementPlan{NewPaidAmount: i.PaidAmount, TxnAmount: decimal.Zero, CashAmount: decimal.Zero, LedgerAmount: decimal.Zero, UnreversedPaid: decimal.Zero}
	switch mode {
	case SettleCashed:
		collected := i.Remaining()
		plan.NewStatus = StatusCashed
		plan.NewPaidAmount = i.Amount
		plan.TxnKind = TxnCashed
		plan.TxnAmount = collected
		plan.ResolveReminders = true
		i.planCollection(&plan, collected)

	case SettlePartial:
		if !requested.IsPositive() {
			return SettlementPlan{}, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
		}
		if err := ValidateMoney("payment amount", requested); err != nil {
			return SettlementPlan{}, err
		}
		remaining := i.Remaining()
		if !remaining.IsPositive() {
			return SettlementPlan{}, fmt.Errorf("%w: instrument %s has nothing left to collect", apperrors.ErrInvalidState, i.SerialNumber)
		}
		amount := decimal.Min(requested, remaining)
		plan.NewPaidAmount = i.PaidAmount.Add(amount)
		plan.NewStatus = StatusPending
		if plan.NewPaidAmount.GreaterThanOrEqual(i.Amount) {
			plan.NewStatus = StatusCashed
			plan.ResolveReminders = true
		}
		plan.TxnKind = TxnPartialPayment
		plan.TxnAmount = amount
		i.planCollection(&plan, amount)

	case SettleReturned:
		plan.NewStatus = StatusReturned
		plan.TxnKind = TxnReturned
		if i.Direction == Incoming && i.PaidAmount.IsPositive() {
			kind := Expense
			plan.CashKind = &kind
			plan.CashAmount = i.PaidAmount
			plan.CashCategory = CategoryInstrumentReturn
			plan.LedgerAmount = i.PaidAmount.Neg()
		}

	case SettleCancelled:
		plan.NewStatus = StatusCancelled
		plan.TxnKind = TxnCancelled
		if i.PaidAmount.IsPositive() {
			plan.UnreversedPaid = i.PaidAmount
		}
	}
	return plan, nil
}

func (i Instrument) planCollection(plan *SettlementPlan, amount decimal.Decimal) {
	if i.Direction != Incoming || !amount.IsPositive() {
		return
	}
	kind := Income
	plan.CashKind = &kind
	plan.CashAmount = amount
	plan.CashCategory = CategoryInstrumentCollection
	plan.LedgerAmount = amount
}

// PlanEndorsement computes the endorsement transition. Only pending incoming
// instruments can be endorsed onward; endorsement has no cash or ledger effect.
func (i Instrument) PlanEndorsement(e Endorsement) (SettlementPlan, error) {
	if err := i.checkTransitionAllowed(); err != nil {
		return SettlementPlan{}, err
	}
	if i.Direction != Incoming {
		return SettlementPlan{}, fmt.Errorf("%w: only incoming instruments can be endorsed", apperrors.ErrInvalidState)
	}
	if strings.TrimSpace(e.EndorsedTo) == "" {
		return SettlementPlan{}, fmt.Errorf("%w: endorsee is required", apperrors.ErrValidation)
	}
	return SettlementPlan{
		NewStatus:        StatusEndorsed,
		NewPaidAmount:    i.PaidAmount,
		TxnKind:          TxnEndorsed,
		TxnAmount:        i.Amount,
		CashAmount:       decimal.Zero,
		LedgerAmount:     decimal.Zero,
		UnreversedPaid:   decimal.Zero,
		ResolveReminders: true,
	}, nil
}
