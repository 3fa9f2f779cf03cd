package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingInstrument(dir domain.Direction, amount, paid string) domain.Instrument {
	acc := int64(9)
	return domain.Instrument{
		InstrumentID: 1,
		Direction:    dir,
		Kind:         domain.KindCheck,
		AccountID:    &acc,
		SerialNumber: "A-1",
		Amount:       dec(amount),
		PaidAmount:   dec(paid),
		Status:       domain.StatusPending,
		DueDate:      date(2024, 5, 1),
	}
}

func TestPlanSettlement_FullCollection(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "0")

	plan, err := inst.PlanSettlement(domain.SettleCashed, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCashed, plan.NewStatus)
	assert.True(t, dec("1000").Equal(plan.NewPaidAmount))
	assert.Equal(t, domain.TxnCashed, plan.TxnKind)
	require.True(t, plan.HasCashEffect())
	assert.Equal(t, domain.Income, *plan.CashKind)
	assert.True(t, dec("1000").Equal(plan.CashAmount))
	assert.True(t, dec("1000").Equal(plan.LedgerAmount))
	assert.True(t, plan.ResolveReminders)
}

func TestPlanSettlement_CashedCollectsOnlyRemainder(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "600")

	plan, err := inst.PlanSettlement(domain.SettleCashed, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, dec("400").Equal(plan.TxnAmount))
	assert.True(t, dec("400").Equal(plan.CashAmount))
	assert.True(t, dec("1000").Equal(plan.NewPaidAmount))
}

func TestPlanSettlement_Partial(t *testing.T) {
	tests := []struct {
		name        string
		paid        string
		requested   string
		wantPaid    string
		wantAmount  string
		wantStatus  domain.InstrumentStatus
		wantResolve bool
	}{
		{name: "first partial stays pending", paid: "0", requested: "600", wantPaid: "600", wantAmount: "600", wantStatus: domain.StatusPending},
		{name: "completing partial cashes", paid: "600", requested: "400", wantPaid: "1000", wantAmount: "400", wantStatus: domain.StatusCashed, wantResolve: true},
		{name: "over-payment clamps", paid: "0", requested: "1500", wantPaid: "1000", wantAmount: "1000", wantStatus: domain.StatusCashed, wantResolve: true},
		{name: "clamps to remainder", paid: "900", requested: "250", wantPaid: "1000", wantAmount: "100", wantStatus: domain.StatusCashed, wantResolve: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := pendingInstrument(domain.Incoming, "1000", tt.paid)
			plan, err := inst.PlanSettlement(domain.SettlePartial, dec(tt.requested))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, plan.NewStatus)
			assert.True(t, dec(tt.wantPaid).Equal(plan.NewPaidAmount), "paid %s", plan.NewPaidAmount)
			assert.True(t, dec(tt.wantAmount).Equal(plan.TxnAmount))
			assert.True(t, dec(tt.wantAmount).Equal(plan.CashAmount))
			assert.Equal(t, domain.TxnPartialPayment, plan.TxnKind)
			assert.Equal(t, tt.wantResolve, plan.ResolveReminders)
			assert.True(t, plan.NewPaidAmount.LessThanOrEqual(inst.Amount))
		})
	}
}

func TestPlanSettlement_PartialRejectsNonPositive(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "0")
	for _, amt := range []string{"0", "-5"} {
		_, err := inst.PlanSettlement(domain.SettlePartial, dec(amt))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestPlanSettlement_PartialRejectsSubCent(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "0")
	_, err := inst.PlanSettlement(domain.SettlePartial, dec("600.005"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// More than the remainder is still clamped, not rejected.
	plan, err := inst.PlanSettlement(domain.SettlePartial, dec("1500.00"))
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(plan.NewPaidAmount))
}

func TestPlanSettlement_ReturnClawback(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "600")

	plan, err := inst.PlanSettlement(domain.SettleReturned, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReturned, plan.NewStatus)
	assert.True(t, plan.TxnAmount.IsZero())
	assert.True(t, dec("600").Equal(plan.NewPaidAmount), "paid amount is kept as history")
	require.True(t, plan.HasCashEffect())
	assert.Equal(t, domain.Expense, *plan.CashKind)
	assert.True(t, dec("600").Equal(plan.CashAmount))
	assert.True(t, dec("-600").Equal(plan.LedgerAmount))
	assert.False(t, plan.ResolveReminders)
}

func TestPlanSettlement_ReturnWithoutPaymentHasNoEffect(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "0")
	plan, err := inst.PlanSettlement(domain.SettleReturned, decimal.Zero)
	require.NoError(t, err)
	assert.False(t, plan.HasCashEffect())
	assert.False(t, plan.HasLedgerEffect(inst.AccountID))
}

func TestPlanSettlement_CancelKeepsPaidAmount(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "250")
	plan, err := inst.PlanSettlement(domain.SettleCancelled, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, plan.NewStatus)
	assert.False(t, plan.HasCashEffect())
	assert.True(t, plan.LedgerAmount.IsZero())
	assert.True(t, dec("250").Equal(plan.UnreversedPaid))
}

func TestPlanSettlement_OutgoingNeverTouchesCashOrLedger(t *testing.T) {
	modes := []struct {
		mode domain.SettlementMode
		paid string
		amt  string
	}{
		{domain.SettleCashed, "0", "0"},
		{domain.SettlePartial, "0", "300"},
		{domain.SettleReturned, "500", "0"},
	}
	for _, m := range modes {
		t.Run(string(m.mode), func(t *testing.T) {
			inst := pendingInstrument(domain.Outgoing, "1000", m.paid)
			plan, err := inst.PlanSettlement(m.mode, dec(m.amt))
			require.NoError(t, err)
			assert.False(t, plan.HasCashEffect())
			assert.False(t, plan.HasLedgerEffect(inst.AccountID))
		})
	}
}

func TestPlanSettlement_TerminalStatesReject(t *testing.T) {
	terminal := []domain.InstrumentStatus{domain.StatusCashed, domain.StatusEndorsed, domain.StatusReturned, domain.StatusCancelled}
	modes := []domain.SettlementMode{domain.SettleCashed, domain.SettlePartial, domain.SettleReturned, domain.SettleCancelled}

	for _, st := range terminal {
		inst := pendingInstrument(domain.Incoming, "1000", "0")
		inst.Status = st
		for _, mode := range modes {
			_, err := inst.PlanSettlement(mode, dec("10"))
			assert.ErrorIs(t, err, apperrors.ErrInvalidState, "%s -> %s", st, mode)
		}
		_, err := inst.PlanEndorsement(domain.Endorsement{EndorsedTo: "Supplier"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState, "%s -> endorse", st)
		assert.True(t, st.IsTerminal())
	}
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.True(t, domain.InstrumentStatus("lost").IsTerminal())
}

func TestPlanEndorsement(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "1000", "200")
	plan, err := inst.PlanEndorsement(domain.Endorsement{EndorsedTo: "Supplier Ltd"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEndorsed, plan.NewStatus)
	assert.True(t, dec("1000").Equal(plan.TxnAmount), "endorsement records the full amount")
	assert.False(t, plan.HasCashEffect())
	assert.True(t, plan.ResolveReminders)

	_, err = inst.PlanEndorsement(domain.Endorsement{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	out := pendingInstrument(domain.Outgoing, "1000", "0")
	_, err = out.PlanEndorsement(domain.Endorsement{EndorsedTo: "Someone"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestInstrument_DisplayStatus(t *testing.T) {
	today := date(2024, 5, 10)
	inst := pendingInstrument(domain.Incoming, "10", "0")

	inst.DueDate = date(2024, 5, 9)
	assert.Equal(t, domain.DisplayOverdue, inst.DisplayStatus(today, 7))
	inst.DueDate = date(2024, 5, 17)
	assert.Equal(t, domain.DisplayUpcoming, inst.DisplayStatus(today, 7))
	inst.DueDate = date(2024, 5, 18)
	assert.Equal(t, "pending", inst.DisplayStatus(today, 7))
	inst.Status = domain.StatusCashed
	assert.Equal(t, "cashed", inst.DisplayStatus(today, 7))
}

func TestInstrument_ValidateNew(t *testing.T) {
	inst := pendingInstrument(domain.Incoming, "10", "0")
	assert.NoError(t, inst.ValidateNew())

	inst.Amount = decimal.Zero
	assert.ErrorIs(t, inst.ValidateNew(), apperrors.ErrValidation)

	inst.Amount = dec("10.001")
	assert.ErrorIs(t, inst.ValidateNew(), apperrors.ErrValidation)

	inst = pendingInstrument("sideways", "10", "0")
	assert.ErrorIs(t, inst.ValidateNew(), apperrors.ErrValidation)
}

func TestSummarizeInstruments(t *testing.T) {
	today := date(2024, 5, 10)
	mk := func(dir domain.Direction, status domain.InstrumentStatus, amount, paid string, due time.Time) domain.Instrument {
		i := pendingInstrument(dir, amount, paid)
		i.Status = status
		i.DueDate = due
		return i
	}
	s := domain.SummarizeInstruments([]domain.Instrument{
		mk(domain.Incoming, domain.StatusPending, "100", "40", date(2024, 5, 1)),
		mk(domain.Incoming, domain.StatusPending, "200", "0", date(2024, 5, 12)),
		mk(domain.Outgoing, domain.StatusPending, "300", "0", date(2024, 6, 20)),
		mk(domain.Incoming, domain.StatusEndorsed, "50", "0", date(2024, 5, 12)),
		mk(domain.Incoming, domain.StatusCashed, "70", "70", date(2024, 5, 12)),
	}, today)

	assert.Equal(t, 2, s.PendingIncoming.Count)
	assert.True(t, dec("260").Equal(s.PendingIncoming.Total))
	assert.True(t, dec("300").Equal(s.PendingOutgoing.Total))
	assert.True(t, dec("60").Equal(s.Overdue.Total))
	assert.True(t, dec("200").Equal(s.DueThisWeek.Total))
	assert.Equal(t, 2, s.DueThisMonth.Count)
	assert.True(t, dec("50").Equal(s.Endorsed.Total))
}
