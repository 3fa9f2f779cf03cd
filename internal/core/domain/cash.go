package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CashKind is the direction of a drawer entry.
type CashKind string

const (
	Income  CashKind = "income"
	Expense CashKind = "expense"
)

func (k CashKind) IsValid() bool { return k == Income || k == Expense }

// ParseCashKind validates a raw cash kind.
func ParseCashKind(raw string) (CashKind, error) {
	return parseEnum("cash kind", raw, CashKind.IsValid)
}

// PaymentMethod records how money moved.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCheck        PaymentMethod = "check"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentOther        PaymentMethod = "other"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCheck, PaymentBankTransfer, PaymentCreditCard, PaymentOther:
		return true
	}
	return false
}

// ParsePaymentMethod validates a raw payment method.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	return parseEnum("payment method", raw, PaymentMethod.IsValid)
}

// Categories used by instrument settlements.
const (
	CategoryInstrumentCollection = "Instrument Collection"
	CategoryInstrumentReturn     = "Instrument Return"
)

// CashEntry is one drawer movement. Amount is never negative.
type CashEntry struct {
	EntryID         int64           `json:"entryID"`
	Kind            CashKind        `json:"kind"`
	Category        string          `json:"category"`
	Subcategory     string          `json:"subcategory"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	AccountID       *int64          `json:"accountID,omitempty"`
	InstrumentID    *int64          `json:"instrumentID,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ReferenceNo     string          `json:"referenceNo"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// Validate checks an entry before it is recorded.
func (e CashEntry) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: unknown cash kind %q", apperrors.ErrValidation, e.Kind)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if err := ValidateMoney("amount", e.Amount); err != nil {
		return err
	}
	if !e.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, e.PaymentMethod)
	}
	return nil
}

// LedgerAmount is the signed ledger effect of recording the entry against an
// account: income lowers what the account owes, expense raises it.
func (e CashEntry) LedgerAmount() decimal.Decimal {
	if e.Kind == Income {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Signed returns +Amount for income and -Amount for expense.
func (e CashEntry) Signed() decimal.Decimal {
	if e.Kind == Income {
		return e.Amount
	}
	return e.Amount.Neg()
}

// CashFilter narrows drawer listings.
type CashFilter struct {
	Range         DateRange
	Kind          *CashKind
	Category      string
	AccountID     *int64
	InstrumentID  *int64
	PaymentMethod *PaymentMethod
	Search        string
	Page          Page
}

// CashTotals holds income, expense and their difference.
type CashTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// NewCashTotals derives the balance.
func NewCashTotals(income, expense decimal.Decimal) CashTotals {
	return CashTotals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// DrawerBalance is the drawer position over several windows.
type DrawerBalance struct {
	AllTime   CashTotals `json:"allTime"`
	Today     CashTotals `json:"today"`
	ThisWeek  CashTotals `json:"thisWeek"`
	ThisMonth CashTotals `json:"thisMonth"`
}

// DrawerWindows returns the today/week/month ranges for a reference date.
// The week is the trailing seven days.
func DrawerWindows(now time.Time) (today, week, month DateRange) {
	d := DateOf(now)
	today = DateRange{From: d, To: d}
	week = DateRange{From: d.AddDate(0, 0, -7), To: d}
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	month = DateRange{From: first, To: first.AddDate(0, 1, -1)}
	return today, week, month
}

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Kind     CashKind        `json:"kind"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// BucketPeriod is the time granularity of a cash-flow series.
type BucketPeriod string

const (
	PeriodDay   BucketPeriod = "day"
	PeriodWeek  BucketPeriod = "week"
	PeriodMonth BucketPeriod = "month"
	PeriodYear  BucketPeriod = "year"
)

func (p BucketPeriod) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// ParseBucketPeriod validates a raw bucket period.
func ParseBucketPeriod(raw string) (BucketPeriod, error) {
	return parseEnum("period", raw, BucketPeriod.IsValid)
}

// CashFlowBucket is one point in a time series.
type CashFlowBucket struct {
	PeriodStart time.Time `json:"periodStart"`
	CashTotals
}

// FinancialSummary reports a period's profit and loss from the drawer.
type FinancialSummary struct {
	Range        DateRange        `json:"range"`
	Totals       CashTotals       `json:"totals"`
	ProfitMargin decimal.Decimal  `json:"profitMargin"` // percent of income
	IncomeByCat  []CategoryTotal  `json:"incomeByCategory"`
	ExpenseByCat []CategoryTotal  `json:"expenseByCategory"`
	DailyTrend   []CashFlowBucket `json:"dailyTrend"`
	EntryCount   int              `json:"entryCount"`
}

// ProfitMargin is net/income*100 rounded to two places, zero without income.
func ProfitMargin(t CashTotals) decimal.Decimal {
	if !t.Income.IsPositive() {
		return decimal.Zero
	}
	return t.Balance.Div(t.Income).Mul(decimal.NewFromInt(100)).Round(2)
}
