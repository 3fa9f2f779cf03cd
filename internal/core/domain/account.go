package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountKind classifies the counterparty behind a ledger.
type AccountKind string

const (
	AccountKindCustomer AccountKind = "customer"
	AccountKindVendor   AccountKind = "vendor"
	AccountKindBoth     AccountKind = "both"
)

func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindCustomer, AccountKindVendor, AccountKindBoth:
		return true
	}
	return false
}

// ParseAccountKind validates a raw account kind.
func ParseAccountKind(raw string) (AccountKind, error) {
	return parseEnum("account kind", raw, AccountKind.IsValid)
}

// Account is a customer or vendor ledger. Balance is a cached projection of
// the signed transaction history: positive means the account owes the
// business (receivable), negative means the business owes it (payable).
type Account struct {
	AccountID   int64           `json:"accountID"`
	Kind        AccountKind     `json:"kind"`
	Name        string          `json:"name"`
	ShortName   string          `json:"shortName"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	TaxOffice   string          `json:"taxOffice"`
	TaxNumber   string          `json:"taxNumber"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	PaymentTerm int             `json:"paymentTerm"` // days
	Notes       string          `json:"notes"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// IsReceivable reports whether the account owes the business money.
func (a Account) IsReceivable() bool { return a.Balance.IsPositive() }

// IsPayable reports whether the business owes the account money.
func (a Account) IsPayable() bool { return a.Balance.IsNegative() }

// ExceedsCreditLimit is true when a positive credit limit is set and the
// receivable balance is above it.
func (a Account) ExceedsCreditLimit() bool {
	return a.CreditLimit.IsPositive() && a.Balance.GreaterThan(a.CreditLimit)
}

// Validate checks the fields required to persist an account.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, a.Kind)
	}
	if a.CreditLimit.IsNegative() {
		return fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrValidation)
	}
	if err := ValidateMoney("credit limit", a.CreditLimit); err != nil {
		return err
	}
	if err := ValidateMoney("opening balance", a.Balance); err != nil {
		return err
	}
	if a.PaymentTerm < 0 {
		return fmt.Errorf("%w: payment term cannot be negative", apperrors.ErrValidation)
	}
	return nil
}

// AccountPatch enumerates the mutable account fields. Balance is deliberately
// absent: it only moves through ledger postings.
type AccountPatch struct {
	Kind        *AccountKind
	Name        *string
	ShortName   *string
	Phone       *string
	Email       *string
	Address     *string
	City        *string
	TaxOffice   *string
	TaxNumber   *string
	CreditLimit *decimal.Decimal
	PaymentTerm *int
	Notes       *string
	IsActive    *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p AccountPatch) IsEmpty() bool {
	return p.Kind == nil && p.Name == nil && p.ShortName == nil && p.Phone == nil &&
		p.Email == nil && p.Address == nil && p.City == nil && p.TaxOffice == nil &&
		p.TaxNumber == nil && p.CreditLimit == nil && p.PaymentTerm == nil &&
		p.Notes == nil && p.IsActive == nil
}

// Validate checks the patch values before they are merged.
func (p AccountPatch) Validate() error {
	if p.Kind != nil && !p.Kind.IsValid() {
		return fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, *p.Kind)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: account name cannot be blank", apperrors.ErrValidation)
	}
	if p.CreditLimit != nil {
		if p.CreditLimit.IsNegative() {
			return fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrValidation)
		}
		if err := ValidateMoney("credit limit", *p.CreditLimit); err != nil {
			return err
		}
	}
	if p.PaymentTerm != nil && *p.PaymentTerm < 0 {
		return fmt.Errorf("%w: payment term cannot be negative", apperrors.ErrValidation)
	}
	return nil
}

// Apply merges the patch into the account.
func (p AccountPatch) Apply(a *Account) {
	setIf(&a.Kind, p.Kind)
	setIf(&a.Name, p.Name)
	setIf(&a.ShortName, p.ShortName)
	setIf(&a.Phone, p.Phone)
	setIf(&a.Email, p.Email)
	setIf(&a.Address, p.Address)
	setIf(&a.City, p.City)
	setIf(&a.TaxOffice, p.TaxOffice)
	setIf(&a.TaxNumber, p.TaxNumber)
	setIf(&a.CreditLimit, p.CreditLimit)
	setIf(&a.PaymentTerm, p.PaymentTerm)
	setIf(&a.Notes, p.Notes)
	setIf(&a.IsActive, p.IsActive)
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Kind       *AccountKind
	ActiveOnly bool
	Search     string
	Page       Page
}

// AccountSummary is a list row: the account plus its open instrument exposure.
type AccountSummary struct {
	Account
	PendingInstrumentCount int             `json:"pendingInstrumentCount"`
	PendingInstrumentTotal decimal.Decimal `json:"pendingInstrumentTotal"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ImportResult reports the outcome of a bulk account import.
type ImportResult struct {
	Encoding string   `json:"encoding"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
