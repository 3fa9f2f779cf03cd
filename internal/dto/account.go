package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// A non-zero OpeningBalance is posted to the ledger.
type CreateAccountRequest struct {
	Kind           string           `json:"kind" binding:"required,bk_enum=account_kind"`
	Name           string           `json:"name" binding:"required,max=255"`
	ShortName      string           `json:"shortName" binding:"max=100"`
	Phone          string           `json:"phone" binding:"max=50"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Address        string           `json:"address"`
	City           string           `json:"city" binding:"max=100"`
	TaxOffice      string           `json:"taxOffice" binding:"max=100"`
	TaxNumber      string           `json:"taxNumber" binding:"max=50"`
	Currency       string           `json:"currency" binding:"omitempty,max=10"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	CreditLimit    *decimal.Decimal `json:"creditLimit"`
	PaymentTerm    int              `json:"paymentTerm" binding:"min=0"`
	Notes          string           `json:"notes"`
}

// ToDomain converts the request into a domain.Account.
func (r CreateAccountRequest) ToDomain() (domain.Account, error) {
	kind, err := domain.ParseAccountKind(r.Kind)
	if err != nil {
		return domain.Account{}, err
	}
	acc := domain.Account{
		Kind:        kind,
		Name:        r.Name,
		ShortName:   r.ShortName,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		City:        r.City,
		TaxOffice:   r.TaxOffice,
		TaxNumber:   r.TaxNumber,
		Currency:    r.Currency,
		Balance:     decimal.Zero,
		CreditLimit: decimal.Zero,
		PaymentTerm: r.PaymentTerm,
		Notes:       r.Notes,
		IsActive:    true,
	}
	if r.OpeningBalance != nil {
		acc.Balance = *r.OpeningBalance
	}
	if r.CreditLimit != nil {
		acc.CreditLimit = *r.CreditLimit
	}
	return acc, nil
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Kind        *string          `json:"kind" binding:"omitempty,bk_enum=account_kind"`
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	ShortName   *string          `json:"shortName"`
	Phone       *string          `json:"phone"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Address     *string          `json:"address"`
	City        *string          `json:"city"`
	TaxOffice   *string          `json:"taxOffice"`
	TaxNumber   *string          `json:"taxNumber"`
	CreditLimit *decimal.Decimal `json:"creditLimit"`
	PaymentTerm *int             `json:"paymentTerm" binding:"omitempty,min=0"`
	Notes       *string          `json:"notes"`
	IsActive    *bool            `json:"isActive"`
}

// ToDomain converts the request into a domain.AccountPatch.
func (r UpdateAccountRequest) ToDomain() (domain.AccountPatch, error) {
	kind, err := enumPtr(deref(r.Kind), domain.ParseAccountKind)
	if err != nil {
		return domain.AccountPatch{}, err
	}
	return domain.AccountPatch{
		Kind:        kind,
		Name:        r.Name,
		ShortName:   r.ShortName,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		City:        r.City,
		TaxOffice:   r.TaxOffice,
		TaxNumber:   r.TaxNumber,
		CreditLimit: r.CreditLimit,
		PaymentTerm: r.PaymentTerm,
		Notes:       r.Notes,
		IsActive:    r.IsActive,
	}, nil
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Kind       string `form:"kind" binding:"omitempty,bk_enum=account_kind"`
	ActiveOnly bool   `form:"activeOnly,default=true"`
	Search     string `form:"search"`
	PageParams
}

// ToDomain converts the query into a domain.AccountFilter.
func (p ListAccountsParams) ToDomain() (domain.AccountFilter, error) {
	kind, err := enumPtr(p.Kind, domain.ParseAccountKind)
	if err != nil {
		return domain.AccountFilter{}, err
	}
	return domain.AccountFilter{Kind: kind, ActiveOnly: p.ActiveOnly, Search: p.Search, Page: p.toDomain()}, nil
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID          int64              `json:"accountID"`
	Kind               domain.AccountKind `json:"kind"`
	Name               string             `json:"name"`
	ShortName          string             `json:"shortName"`
	Phone              string             `json:"phone"`
	Email              string             `json:"email"`
	Address            string             `json:"address"`
	City               string             `json:"city"`
	TaxOffice          string             `json:"taxOffice"`
	TaxNumber          string             `json:"taxNumber"`
	Currency           string             `json:"currency"`
	Balance            decimal.Decimal    `json:"balance"`
	CreditLimit        decimal.Decimal    `json:"creditLimit"`
	ExceedsCreditLimit bool               `json:"exceedsCreditLimit"`
	PaymentTerm        int                `json:"paymentTerm"`
	Notes              string             `json:"notes"`
	IsActive           bool               `json:"isActive"`
	CreatedAt          time.Time          `json:"createdAt"`
	CreatedBy          string             `json:"createdBy"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy      string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          acc.AccountID,
		Kind:               acc.Kind,
		Name:               acc.Name,
		ShortName:          acc.ShortName,
		Phone:              acc.Phone,
		Email:              acc.Email,
		Address:            acc.Address,
		City:               acc.City,
		TaxOffice:          acc.TaxOffice,
		TaxNumber:          acc.TaxNumber,
		Currency:           acc.Currency,
		Balance:            acc.Balance,
		CreditLimit:        acc.CreditLimit,
		ExceedsCreditLimit: acc.ExceedsCreditLimit(),
		PaymentTerm:        acc.PaymentTerm,
		Notes:              acc.Notes,
		IsActive:           acc.IsActive,
		CreatedAt:          acc.CreatedAt,
		CreatedBy:          acc.CreatedBy,
		LastUpdatedAt:      acc.LastUpdatedAt,
		LastUpdatedBy:      acc.LastUpdatedBy,
	}
}

// AccountSummaryResponse is an account list row with its pending instrument exposure.
type AccountSummaryResponse struct {
	AccountResponse
	PendingInstrumentCount int             `json:"pendingInstrumentCount"`
	PendingInstrumentTotal decimal.Decimal `json:"pendingInstrumentTotal"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountSummaryResponse `json:"accounts"`
}

// ToListAccountsResponse converts account summaries.
func ToListAccountsResponse(rows []domain.AccountSummary) ListAccountsResponse {
	res := ListAccountsResponse{Accounts: make([]AccountSummaryResponse, len(rows))}
	for i := range rows {
		res.Accounts[i] = AccountSummaryResponse{
			AccountResponse:        ToAccountResponse(&rows[i].Account),
			PendingInstrumentCount: rows[i].PendingInstrumentCount,
			PendingInstrumentTotal: rows[i].PendingInstrumentTotal,
		}
	}
	return res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
