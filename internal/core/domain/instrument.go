package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Direction tells whether an instrument was received or issued by the business.
type Direction string

const (
	Incoming Direction = "incoming"
	Outgoing Direction = "outgoing"
)

func (d Direction) IsValid() bool { return d == Incoming || d == Outgoing }

// ParseDirection validates a raw direction.
func ParseDirection(raw string) (Direction, error) {
	return parseEnum("direction", raw, Direction.IsValid)
}

// InstrumentKind is the legal form of the instrument.
type InstrumentKind string

const (
	KindCheck InstrumentKind = "check"
	KindNote  InstrumentKind = "note" // promissory note
)

func (k InstrumentKind) IsValid() bool { return k == KindCheck || k == KindNote }

// ParseInstrumentKind validates a raw instrument kind.
func ParseInstrumentKind(raw string) (InstrumentKind, error) {
	return parseEnum("instrument kind", raw, InstrumentKind.IsValid)
}

// InstrumentStatus is the lifecycle state. Only pending permits transitions.
type InstrumentStatus string

const (
	StatusPending   InstrumentStatus = "pending"
	StatusCashed    InstrumentStatus = "cashed"
	StatusEndorsed  InstrumentStatus = "endorsed"
	StatusReturned  InstrumentStatus = "returned"
	StatusCancelled InstrumentStatus = "cancelled"
)

func (s InstrumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCashed, StatusEndorsed, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed. Unknown
// statuses count as terminal.
func (s InstrumentStatus) IsTerminal() bool { return s != StatusPending }

// ParseInstrumentStatus validates a raw status.
func ParseInstrumentStatus(raw string) (InstrumentStatus, error) {
	return parseEnum("instrument status", raw, InstrumentStatus.IsValid)
}

// Derived statuses shown for pending instruments; never persisted.
const (
	DisplayOverdue  = "overdue"
	DisplayUpcoming = "upcoming"
)

// InstrumentTxnKind names an instrument history record.
type InstrumentTxnKind string

const (
	TxnCreated        InstrumentTxnKind = "created"
	TxnPartialPayment InstrumentTxnKind = "partial_payment"
	TxnCashed         InstrumentTxnKind = "cashed"
	TxnEndorsed       InstrumentTxnKind = "endorsed"
	TxnReturned       InstrumentTxnKind = "returned"
	TxnCancelled      InstrumentTxnKind = "cancelled"
)

func (k InstrumentTxnKind) IsValid() bool {
	switch k {
	case TxnCreated, TxnPartialPayment, TxnCashed, TxnEndorsed, TxnReturned, TxnCancelled:
		return true
	}
	return false
}

// BankDetails identify where a check is drawn.
type BankDetails struct {
	BankName      string `json:"bankName"`
	BankBranch    string `json:"bankBranch"`
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
	IBAN          string `json:"iban"`
}

// Endorsement holds the onward-transfer details of an endorsed instrument.
type Endorsement struct {
	EndorsedTo      string     `json:"endorsedTo"`
	EndorserName    string     `json:"endorserName"`
	EndorserTaxNo   string     `json:"endorserTaxNo"`
	EndorserPhone   string     `json:"endorserPhone"`
	EndorsementDate *time.Time `json:"endorsementDate,omitempty"`
}

// Instrument is a check or promissory note. Invariant: 0 <= PaidAmount <= Amount.
type Instrument struct {
	InstrumentID int64            `json:"instrumentID"`
	Direction    Direction        `json:"direction"`
	Kind         InstrumentKind   `json:"kind"`
	AccountID    *int64           `json:"accountID,omitempty"`
	SerialNumber string           `json:"serialNumber"`
	Bank         BankDetails      `json:"bank"`
	Amount       decimal.Decimal  `json:"amount"`
	PaidAmount   decimal.Decimal  `json:"paidAmount"`
	Currency     string           `json:"currency"`
	IssueDate    time.Time        `json:"issueDate"`
	DueDate      time.Time        `json:"dueDate"`
	Status       InstrumentStatus `json:"status"`
	IsEndorsed   bool             `json:"isEndorsed"`
	Endorsement  Endorsement      `json:"endorsement"`
	DrawerName   string           `json:"drawerName"`
	DrawerTaxNo  string           `json:"drawerTaxNo"`
	Notes        string           `json:"notes"`
	AuditFields
}

// Remaining is the uncollected part of the instrument.
func (i Instrument) Remaining() decimal.Decimal {
	r := i.Amount.Sub(i.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// DisplayStatus derives overdue/upcoming for pending instruments relative to
// today; terminal instruments show their stored status.
func (i Instrument) DisplayStatus(today time.Time, upcomingDays int) string {
	if i.Status != StatusPending {
		return string(i.Status)
	}
	today = DateOf(today)
	due := DateOf(i.DueDate)
	if due.Before(today) {
		return DisplayOverdue
	}
	if !due.After(today.AddDate(0, 0, upcomingDays)) {
		return DisplayUpcoming
	}
	return string(StatusPending)
}

// Title is the human label used in reminders and exports.
func (i Instrument) Title() string {
	dir := "Incoming"
	if i.Direction == Outgoing {
		dir = "Outgoing"
	}
	kind := "Check"
	if i.Kind == KindNote {
		kind = "Note"
	}
	return fmt.Sprintf("%s %s Due - %s", dir, kind, i.SerialNumber)
}

// ValidateNew checks a freshly registered instrument.
func (i Instrument) ValidateNew() error {
	if !i.Direction.IsValid() {
		return fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, i.Direction)
	}
	if !i.Kind.IsValid() {
		return fmt.Errorf("%w: unknown instrument kind %q", apperrors.ErrValidation, i.Kind)
	}
	if strings.TrimSpace(i.SerialNumber) == "" {
		return fmt.Errorf("%w: serial number is required", apperrors.ErrValidation)
	}
	if !i.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if err := ValidateMoney("amount", i.Amount); err != nil {
		return err
	}
	if i.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", apperrors.ErrValidation)
	}
	if !i.IssueDate.IsZero() && DateOf(i.IssueDate).After(DateOf(i.DueDate)) {
		return fmt.Errorf("%w: issue date is after due date", apperrors.ErrValidation)
	}
	if i.AccountID != nil && *i.AccountID <= 0 {
		return fmt.Errorf("%w: invalid account id", apperrors.ErrValidation)
	}
	return nil
}

// InstrumentTransaction is an immutable instrument history record.
type InstrumentTransaction struct {
	TransactionID int64             `json:"transactionID"`
	InstrumentID  int64             `json:"instrumentID"`
	Kind          InstrumentTxnKind `json:"kind"`
	Amount        decimal.Decimal   `json:"amount"`
	Description   string            `json:"description"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
}

// InstrumentPatch enumerates the details editable on a pending instrument.
// Money, parties, dates and status are not patchable.
type InstrumentPatch struct {
	SerialNumber  *string
	BankName      *string
	BankBranch    *string
	BankCode      *string
	AccountNumber *string
	IBAN          *string
	DrawerName    *string
	DrawerTaxNo   *string
	Notes         *string
}

func (p InstrumentPatch) IsEmpty() bool {
	return p.SerialNumber == nil && p.BankName == nil && p.BankBranch == nil &&
		p.BankCode == nil && p.AccountNumber == nil && p.IBAN == nil &&
		p.DrawerName == nil && p.DrawerTaxNo == nil && p.Notes == nil
}

func (p InstrumentPatch) Validate() error {
	if p.SerialNumber != nil && strings.TrimSpace(*p.SerialNumber) == "" {
		return fmt.Errorf("%w: serial number cannot be blank", apperrors.ErrValidation)
	}
	return nil
}

func (p InstrumentPatch) Apply(i *Instrument) {
	setIf(&i.SerialNumber, p.SerialNumber)
	setIf(&i.Bank.BankName, p.BankName)
	setIf(&i.Bank.BankBranch, p.BankBranch)
	setIf(&i.Bank.BankCode, p.BankCode)
	setIf(&i.Bank.AccountNumber, p.AccountNumber)
	setIf(&i.Bank.IBAN, p.IBAN)
	setIf(&i.DrawerName, p.DrawerName)
	setIf(&i.DrawerTaxNo, p.DrawerTaxNo)
	setIf(&i.Notes, p.Notes)
}

// InstrumentFilter narrows instrument listings. Overdue and UpcomingDays
// select pending instruments by due date relative to today.
type InstrumentFilter struct {
	Direction    *Direction
	Status       *InstrumentStatus
	Overdue      bool
	UpcomingDays int
	AccountID    *int64
	Due          DateRange
	Search       string
	Page         Page
}

// AmountCount pairs a count with a money total.
type AmountCount struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Add folds one amount in.
func (a *AmountCount) Add(amount decimal.Decimal) {
	a.Count++
	a.Total = a.Total.Add(amount)
}

// InstrumentSummary aggregates pending exposure. Money is the remaining amount.
type InstrumentSummary struct {
	PendingIncoming AmountCount `json:"pendingIncoming"`
	PendingOutgoing AmountCount `json:"pendingOutgoing"`
	Overdue         AmountCount `json:"overdue"`
	DueThisWeek     AmountCount `json:"dueThisWeek"`
	DueThisMonth    AmountCount `json:"dueThisMonth"`
	Endorsed        AmountCount `json:"endorsed"`
}

// SummarizeInstruments folds instruments into a summary relative to today.
func SummarizeInstruments(instruments []Instrument, today time.Time) InstrumentSummary {
	today = DateOf(today)
	weekEnd := today.AddDate(0, 0, 7)
	var s InstrumentSummary
	for _, i := range instruments {
		if i.Status == StatusEndorsed {
			s.Endorsed.Add(i.Amount)
			continue
		}
		if i.Status != StatusPending {
			continue
		}
		remaining := i.Remaining()
		if i.Direction == Incoming {
			s.PendingIncoming.Add(remaining)
		} else {
			s.PendingOutgoing.Add(remaining)
		}
		due := DateOf(i.DueDate)
		switch {
		case due.Before(today):
			s.Overdue.Add(remaining)
		case !due.After(weekEnd):
			s.DueThisWeek.Add(remaining)
		}
		if due.Year() == today.Year() && due.Month() == today.Month() {
			s.DueThisMonth.Add(remaining)
		}
	}
	return s
}

// InstrumentDetail is an instrument with its derived fields and history.
type InstrumentDetail struct {
	Instrument
	Remaining     decimal.Decimal         `json:"remaining"`
	DisplayStatus string                  `json:"displayStatus"`
	Transactions  []InstrumentTransaction `json:"transactions"`
}
