package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordCashEntryRequest defines a drawer movement.
type RecordCashEntryRequest struct {
	Kind            string           `json:"kind" binding:"required,bk_enum=cash_kind"`
	Category        string           `json:"category" binding:"required,max=100"`
	Subcategory     string           `json:"subcategory" binding:"max=100"`
	Amount          *decimal.Decimal `json:"amount" binding:"required"`
	Currency        string           `json:"currency" binding:"omitempty,max=10"`
	Description     string           `json:"description" binding:"max=500"`
	AccountID       *int64           `json:"accountID" binding:"omitempty,min=1"`
	PaymentMethod   string           `json:"paymentMethod" binding:"omitempty,bk_enum=payment_method"`
	ReferenceNo     string           `json:"referenceNo" binding:"max=100"`
	TransactionDate string           `json:"transactionDate" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain converts the request into a domain.CashEntry.
func (r RecordCashEntryRequest) ToDomain() (domain.CashEntry, error) {
	kind, err := domain.ParseCashKind(r.Kind)
	if err != nil {
		return domain.CashEntry{}, err
	}
	method := domain.PaymentCash
	if r.PaymentMethod != "" {
		if method, err = domain.ParsePaymentMethod(r.PaymentMethod); err != nil {
			return domain.CashEntry{}, err
		}
	}
	date, err := parseOptionalDate("transactionDate", r.TransactionDate)
	if err != nil {
		return domain.CashEntry{}, err
	}
	return domain.CashEntry{
		Kind:            kind,
		Category:        r.Category,
		Subcategory:     r.Subcategory,
		Amount:          *r.Amount,
		Currency:        r.Currency,
		Description:     r.Description,
		AccountID:       r.AccountID,
		PaymentMethod:   method,
		ReferenceNo:     r.ReferenceNo,
		TransactionDate: date,
	}, nil
}

// ListCashEntriesParams defines query parameters for listing drawer entries.
type ListCashEntriesParams struct {
	DateRangeParams
	Kind          string `form:"kind" binding:"omitempty,bk_enum=cash_kind"`
	Category      string `form:"category"`
	AccountID     *int64 `form:"accountID" binding:"omitempty,min=1"`
	InstrumentID  *int64 `form:"instrumentID" binding:"omitempty,min=1"`
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,bk_enum=payment_method"`
	Search        string `form:"search"`
	PageParams
}

func (p ListCashEntriesParams) ToDomain() (domain.CashFilter, error) {
	rng, err := p.DateRangeParams.ToDomain()
	if err != nil {
		return domain.CashFilter{}, err
	}
	kind, err := enumPtr(p.Kind, domain.ParseCashKind)
	if err != nil {
		return domain.CashFilter{}, err
	}
	method, err := enumPtr(p.PaymentMethod, domain.ParsePaymentMethod)
	if err != nil {
		return domain.CashFilter{}, err
	}
	return domain.CashFilter{
		Range:         rng,
		Kind:          kind,
		Category:      p.Category,
		AccountID:     p.AccountID,
		InstrumentID:  p.InstrumentID,
		PaymentMethod: method,
		Search:        p.Search,
		Page:          p.toDomain(),
	}, nil
}

// CategoryTotalsParams filters a category breakdown.
type CategoryTotalsParams struct {
	DateRangeParams
	Kind string `form:"kind" binding:"omitempty,bk_enum=cash_kind"`
}

// CashFlowParams selects a cash-flow series.
type CashFlowParams struct {
	DateRangeParams
	Period string `form:"period,default=month" binding:"bk_enum=bucket_period"`
}

// CashEntryResponse is one drawer movement.
type CashEntryResponse struct {
	EntryID         int64                `json:"entryID"`
	Kind            domain.CashKind      `json:"kind"`
	Category        string               `json:"category"`
	Subcategory     string               `json:"subcategory"`
	Amount          decimal.Decimal      `json:"amount"`
	Currency        string               `json:"currency"`
	Description     string               `json:"description"`
	AccountID       *int64               `json:"accountID,omitempty"`
	InstrumentID    *int64               `json:"instrumentID,omitempty"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	ReferenceNo     string               `json:"referenceNo"`
	TransactionDate string               `json:"transactionDate"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
}

func ToCashEntryResponse(e domain.CashEntry) CashEntryResponse {
	return CashEntryResponse{
		EntryID:         e.EntryID,
		Kind:            e.Kind,
		Category:        e.Category,
		Subcategory:     e.Subcategory,
		Amount:          e.Amount,
		Currency:        e.Currency,
		Description:     e.Description,
		AccountID:       e.AccountID,
		InstrumentID:    e.InstrumentID,
		PaymentMethod:   e.PaymentMethod,
		ReferenceNo:     e.ReferenceNo,
		TransactionDate: e.TransactionDate.Format(DateLayout),
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ListCashEntriesResponse wraps a list of drawer entries.
type ListCashEntriesResponse struct {
	Entries []CashEntryResponse `json:"entries"`
}

func ToListCashEntriesResponse(entries []domain.CashEntry) ListCashEntriesResponse {
	res := ListCashEntriesResponse{Entries: make([]CashEntryResponse, len(entries))}
	for i, e := range entries {
		res.Entries[i] = ToCashEntryResponse(e)
	}
	return res
}
