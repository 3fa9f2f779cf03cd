package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionKind indicates whether a ledger line raised or lowered a balance.
type TransactionKind string

const (
	// Credit increases the balance (the account owes more).
	Credit TransactionKind = "credit"
	// Debit decreases the balance.
	Debit TransactionKind = "debit"
)

func (k TransactionKind) IsValid() bool { return k == Credit || k == Debit }

// ReferenceKind names what produced a ledger line.
type ReferenceKind string

const (
	ReferenceManual     ReferenceKind = "manual"
	ReferenceInstrument ReferenceKind = "instrument"
	ReferenceCash       ReferenceKind = "cash"
	ReferenceOpening    ReferenceKind = "opening"
)

func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceManual, ReferenceInstrument, ReferenceCash, ReferenceOpening:
		return true
	}
	return false
}

// ParseReferenceKind validates a raw reference kind.
func ParseReferenceKind(raw string) (ReferenceKind, error) {
	return parseEnum("reference kind", raw, ReferenceKind.IsValid)
}

// Reference links a ledger line to its origin.
type Reference struct {
	Kind ReferenceKind `json:"kind"`
	ID   *int64        `json:"id,omitempty"`
}

// AccountTransaction is an immutable ledger line. Amount is never negative;
// Kind carries the direction.
type AccountTransaction struct {
	TransactionID   int64           `json:"transactionID"`
	AccountID       int64           `json:"accountID"`
	Kind            TransactionKind `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Description     string          `json:"description"`
	Reference       Reference       `json:"reference"`
	TransactionDate time.Time       `json:"transactionDate"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// SignedAmount returns +Amount for credits and -Amount for debits.
func (t AccountTransaction) SignedAmount() decimal.Decimal {
	if t.Kind == Credit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// LedgerPosting is a request to move an account balance by a signed amount.
type LedgerPosting struct {
	AccountID       int64
	Amount          decimal.Decimal // positive credits, negative debits
	Description     string
	Reference       Reference
	TransactionDate time.Time
	DueDate         *time.Time
}

// Validate rejects postings that cannot produce a ledger line.
func (p LedgerPosting) Validate() error {
	if p.AccountID <= 0 {
		return fmt.Errorf("%w: account id is required", apperrors.ErrValidation)
	}
	if p.Amount.IsZero() {
		return fmt.Errorf("%w: posting amount cannot be zero", apperrors.ErrValidation)
	}
	if err := ValidateMoney("posting amount", p.Amount); err != nil {
		return err
	}
	if !p.Reference.Kind.IsValid() {
		return fmt.Errorf("%w: unknown reference kind %q", apperrors.ErrValidation, p.Reference.Kind)
	}
	return nil
}

// Post derives the ledger line for a posting against the current balance.
// The returned balance is what the account must be updated to.
func (p LedgerPosting) Post(current decimal.Decimal, actorID string, now time.Time) (AccountTransaction, decimal.Decimal) {
	newBalance := current.Add(p.Amount)
	kind := Debit
	if p.Amount.IsPositive() {
		kind = Credit
	}
	txnDate := p.TransactionDate
	if txnDate.IsZero() {
		txnDate = DateOf(now)
	}
	return AccountTransaction{
		AccountID:       p.AccountID,
		Kind:            kind,
		Amount:          p.Amount.Abs(),
		BalanceAfter:    newBalance,
		Description:     p.Description,
		Reference:       p.Reference,
		TransactionDate: DateOf(txnDate),
		DueDate:         p.DueDate,
		CreatedAt:       now,
		CreatedBy:       actorID,
	}, newBalance
}

// Statement is an account's activity within a date range.
type Statement struct {
	Account        Account              `json:"account"`
	Range          DateRange            `json:"range"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	Transactions   []AccountTransaction `json:"transactions"`
	TotalDebit     decimal.Decimal      `json:"totalDebit"`
	TotalCredit    decimal.Decimal      `json:"totalCredit"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
}

// NewStatement totals the in-range transactions. The closing balance is the
// last in-range balance_after, or the opening balance when there are none.
func NewStatement(account Account, rng DateRange, opening decimal.Decimal, txns []AccountTransaction) Statement {
	st := Statement{
		Account:        account,
		Range:          rng,
		OpeningBalance: opening,
		Transactions:   txns,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		ClosingBalance: opening,
	}
	if st.Transactions == nil {
		st.Transactions = []AccountTransaction{}
	}
	for _, t := range txns {
		if t.Kind == Credit {
			st.TotalCredit = st.TotalCredit.Add(t.Amount)
		} else {
			st.TotalDebit = st.TotalDebit.Add(t.Amount)
		}
	}
	if n := len(txns); n > 0 {
		st.ClosingBalance = txns[n-1].BalanceAfter
	}
	return st
}

// Reconciliation is the result of replaying a ledger from zero.
type Reconciliation struct {
	AccountID       int64           `json:"accountID"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	Transactions    int             `json:"transactions"`
	// FirstMismatchID is the first transaction whose balance_after disagrees
	// with the running sum, if any.
	FirstMismatchID *int64 `json:"firstMismatchID,omitempty"`
}

// Consistent is true when the replay reproduces every balance_after and the
// stored account balance.
func (r Reconciliation) Consistent() bool {
	return r.FirstMismatchID == nil && r.StoredBalance.Equal(r.ReplayedBalance)
}

// Replay rebuilds the running balance from txns in insertion order.
func Replay(accountID int64, stored decimal.Decimal, txns []AccountTransaction) Reconciliation {
	rec := Reconciliation{AccountID: accountID, StoredBalance: stored, ReplayedBalance: decimal.Zero, Transactions: len(txns)}
	for _, t := range txns {
		rec.ReplayedBalance = rec.ReplayedBalance.Add(t.SignedAmount())
		if rec.FirstMismatchID == nil && !rec.ReplayedBalance.Equal(t.BalanceAfter) {
			id := t.TransactionID
			rec.FirstMismatchID = &id
		}
	}
	return rec
}
