package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterInstrumentRequest defines the data needed to register a check or note.
type RegisterInstrumentRequest struct {
	Direction     string           `json:"direction" binding:"required,bk_enum=direction"`
	Kind          string           `json:"kind" binding:"required,bk_enum=instrument_kind"`
	AccountID     *int64           `json:"accountID" binding:"omitempty,min=1"`
	SerialNumber  string           `json:"serialNumber" binding:"required,max=100"`
	BankName      string           `json:"bankName"`
	BankBranch    string           `json:"bankBranch"`
	BankCode      string           `json:"bankCode"`
	AccountNumber string           `json:"accountNumber"`
	IBAN          string           `json:"iban" binding:"max=34"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Currency      string           `json:"currency" binding:"omitempty,max=10"`
	IssueDate     string           `json:"issueDate" binding:"omitempty,datetime=2006-01-02"`
	DueDate       string           `json:"dueDate" binding:"required,datetime=2006-01-02"`
	DrawerName    string           `json:"drawerName"`
	DrawerTaxNo   string           `json:"drawerTaxNo"`
	Notes         string           `json:"notes"`
}

// ToDomain converts the request into a domain.Instrument.
func (r RegisterInstrumentRequest) ToDomain() (domain.Instrument, error) {
	dir, err := domain.ParseDirection(r.Direction)
	if err != nil {
		return domain.Instrument{}, err
	}
	kind, err := domain.ParseInstrumentKind(r.Kind)
	if err != nil {
		return domain.Instrument{}, err
	}
	issue, err := parseOptionalDate("issueDate", r.IssueDate)
	if err != nil {
		return domain.Instrument{}, err
	}
	due, err := parseOptionalDate("dueDate", r.DueDate)
	if err != nil {
		return domain.Instrument{}, err
	}
	return domain.Instrument{
		Direction:    dir,
		Kind:         kind,
		AccountID:    r.AccountID,
		SerialNumber: r.SerialNumber,
		Bank: domain.BankDetails{
			BankName:      r.BankName,
			BankBranch:    r.BankBranch,
			BankCode:      r.BankCode,
			AccountNumber: r.AccountNumber,
			IBAN:          r.IBAN,
		},
		Amount:      *r.Amount,
		PaidAmount:  decimal.Zero,
		Currency:    r.Currency,
		IssueDate:   issue,
		DueDate:     due,
		DrawerName:  r.DrawerName,
		DrawerTaxNo: r.DrawerTaxNo,
		Notes:       r.Notes,
	}, nil
}

// UpdateInstrumentRequest lists the details editable on a pending instrument.
type UpdateInstrumentRequest struct {
	SerialNumber  *string `json:"serialNumber" binding:"omitempty,max=100"`
	BankName      *string `json:"bankName"`
	BankBranch    *string `json:"bankBranch"`
	BankCode      *string `json:"bankCode"`
	AccountNumber *string `json:"accountNumber"`
	IBAN          *string `json:"iban" binding:"omitempty,max=34"`
	DrawerName    *string `json:"drawerName"`
	DrawerTaxNo   *string `json:"drawerTaxNo"`
	Notes         *string `json:"notes"`
}

func (r UpdateInstrumentRequest) ToDomain() domain.InstrumentPatch {
	return domain.InstrumentPatch{
		SerialNumber:  r.SerialNumber,
		BankName:      r.BankName,
		BankBranch:    r.BankBranch,
		BankCode:      r.BankCode,
		AccountNumber: r.AccountNumber,
		IBAN:          r.IBAN,
		DrawerName:    r.DrawerName,
		DrawerTaxNo:   r.DrawerTaxNo,
		Notes:         r.Notes,
	}
}

// ListInstrumentsParams defines query parameters for listing instruments.
// Status also accepts the derived values overdue and upcoming.
type ListInstrumentsParams struct {
	Direction string `form:"direction" binding:"omitempty,bk_enum=direction"`
	Status    string `form:"status" binding:"omitempty,bk_enum=instrument_status"`
	Days      int    `form:"days" binding:"min=0"`
	AccountID *int64 `form:"accountID" binding:"omitempty,min=1"`
	DueFrom   string `form:"dueFrom" binding:"omitempty,datetime=2006-01-02"`
	DueTo     string `form:"dueTo" binding:"omitempty,datetime=2006-01-02"`
	Search    string `form:"search"`
	PageParams
}

// ToDomain converts the query into a domain.InstrumentFilter. upcomingDays
// is used for status=upcoming when Days is not given.
func (p ListInstrumentsParams) ToDomain(upcomingDays int) (domain.InstrumentFilter, error) {
	dir, err := enumPtr(p.Direction, domain.ParseDirection)
	if err != nil {
		return domain.InstrumentFilter{}, err
	}
	due, err := DateRangeParams{From: p.DueFrom, To: p.DueTo}.ToDomain()
	if err != nil {
		return domain.InstrumentFilter{}, err
	}
	filter := domain.InstrumentFilter{Direction: dir, AccountID: p.AccountID, Due: due, Search: p.Search, Page: p.toDomain()}
	if p.Status == "" {
		return filter, nil
	}
	status, err := parseInstrumentStatusFilter(p.Status)
	if err != nil {
		return domain.InstrumentFilter{}, err
	}
	switch status {
	case domain.DisplayOverdue:
		filter.Overdue = true
	case domain.DisplayUpcoming:
		filter.UpcomingDays = upcomingDays
		if p.Days > 0 {
			filter.UpcomingDays = p.Days
		}
	default:
		s := domain.InstrumentStatus(status)
		filter.Status = &s
	}
	return filter, nil
}

func parseInstrumentStatusFilter(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == domain.DisplayOverdue || v == domain.DisplayUpcoming {
		return v, nil
	}
	s, err := domain.ParseInstrumentStatus(v)
	if err != nil {
		return "", fmt.Errorf("%w: unknown instrument status %q", apperrors.ErrValidation, raw)
	}
	return string(s), nil
}

// InstrumentResponse defines the data returned for an instrument.
type InstrumentResponse struct {
	InstrumentID  int64                   `json:"instrumentID"`
	Direction     domain.Direction        `json:"direction"`
	Kind          domain.InstrumentKind   `json:"kind"`
	Title         string                  `json:"title"`
	AccountID     *int64                  `json:"accountID,omitempty"`
	SerialNumber  string                  `json:"serialNumber"`
	Bank          domain.BankDetails      `json:"bank"`
	Amount        decimal.Decimal         `json:"amount"`
	PaidAmount    decimal.Decimal         `json:"paidAmount"`
	Remaining     decimal.Decimal         `json:"remaining"`
	Currency      string                  `json:"currency"`
	IssueDate     string                  `json:"issueDate"`
	DueDate       string                  `json:"dueDate"`
	Status        domain.InstrumentStatus `json:"status"`
	DisplayStatus string                  `json:"displayStatus"`
	IsEndorsed    bool                    `json:"isEndorsed"`
	Endorsement   *domain.Endorsement     `json:"endorsement,omitempty"`
	DrawerName    string                  `json:"drawerName"`
	DrawerTaxNo   string                  `json:"drawerTaxNo"`
	Notes         string                  `json:"notes"`
	CreatedAt     time.Time               `json:"createdAt"`
	CreatedBy     string                  `json:"createdBy"`
	LastUpdatedAt time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy string                  `json:"lastUpdatedBy"`
}

// ToInstrumentResponse converts a domain.Instrument, deriving the display
// status relative to today.
func ToInstrumentResponse(i domain.Instrument, today time.Time, upcomingDays int) InstrumentResponse {
	res := InstrumentResponse{
		InstrumentID:  i.InstrumentID,
		Direction:     i.Direction,
		Kind:          i.Kind,
		Title:         i.Title(),
		AccountID:     i.AccountID,
		SerialNumber:  i.SerialNumber,
		Bank:          i.Bank,
		Amount:        i.Amount,
		PaidAmount:    i.PaidAmount,
		Remaining:     i.Remaining(),
		Currency:      i.Currency,
		DueDate:       i.DueDate.Format(DateLayout),
		Status:        i.Status,
		DisplayStatus: i.DisplayStatus(today, upcomingDays),
		IsEndorsed:    i.IsEndorsed,
		DrawerName:    i.DrawerName,
		DrawerTaxNo:   i.DrawerTaxNo,
		Notes:         i.Notes,
		CreatedAt:     i.CreatedAt,
		CreatedBy:     i.CreatedBy,
		LastUpdatedAt: i.LastUpdatedAt,
		LastUpdatedBy: i.LastUpdatedBy,
	}
	if !i.IssueDate.IsZero() {
		res.IssueDate = i.IssueDate.Format(DateLayout)
	}
	if i.IsEndorsed {
		e := i.Endorsement
		res.Endorsement = &e
	}
	return res
}

// ListInstrumentsResponse wraps a list of instruments.
type ListInstrumentsResponse struct {
	Instruments []InstrumentResponse `json:"instruments"`
}

func ToListInstrumentsResponse(instruments []domain.Instrument, today time.Time, upcomingDays int) ListInstrumentsResponse {
	res := ListInstrumentsResponse{Instruments: make([]InstrumentResponse, len(instruments))}
	for i, inst := range instruments {
		res.Instruments[i] = ToInstrumentResponse(inst, today, upcomingDays)
	}
	return res
}

// InstrumentTransactionResponse is one instrument history record.
type InstrumentTransactionResponse struct {
	TransactionID int64                    `json:"transactionID"`
	Kind          domain.InstrumentTxnKind `json:"kind"`
	Amount        decimal.Decimal          `json:"amount"`
	Description   string                   `json:"description"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
}

func ToInstrumentTransactionResponses(txns []domain.InstrumentTransaction) []InstrumentTransactionResponse {
	out := make([]InstrumentTransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = InstrumentTransactionResponse{
			TransactionID: t.TransactionID,
			Kind:          t.Kind,
			Amount:        t.Amount,
			Description:   t.Description,
			CreatedAt:     t.CreatedAt,
			CreatedBy:     t.CreatedBy,
		}
	}
	return out
}

// InstrumentDetailResponse is an instrument with its history.
type InstrumentDetailResponse struct {
	InstrumentResponse
	Transactions []InstrumentTransactionResponse `json:"transactions"`
}

// ToInstrumentDetailResponse converts a domain.InstrumentDetail. The display
// status computed by the service is kept.
func ToInstrumentDetailResponse(d *domain.InstrumentDetail, today time.Time) InstrumentDetailResponse {
	res := InstrumentDetailResponse{
		InstrumentResponse: ToInstrumentResponse(d.Instrument, today, 0),
		Transactions:       ToInstrumentTransactionResponses(d.Transactions),
	}
	res.DisplayStatus = d.DisplayStatus
	res.Remaining = d.Remaining
	return res
}

// SettleRequest selects a settlement mode. Amount is required for partial collections.
type SettleRequest struct {
	Mode        string           `json:"mode" binding:"required,bk_enum=settlement_mode"`
	Amount      *decimal.Decimal `json:"amount" binding:"required_if=Mode partial"`
	Description string           `json:"description" binding:"max=500"`
}

// ToDomain returns the parsed mode.
func (r SettleRequest) ToDomain() (domain.SettlementMode, error) {
	return domain.ParseSettlementMode(r.Mode)
}

// SettlementNoteRequest is the optional body of collect, return and cancel.
type SettlementNoteRequest struct {
	Description string `json:"description" binding:"max=500"`
}

// PartialCollectRequest collects part of a pending instrument.
type PartialCollectRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description" binding:"max=500"`
}

// EndorseRequest transfers an incoming instrument onward.
type EndorseRequest struct {
	EndorsedTo      string `json:"endorsedTo" binding:"required,max=255"`
	EndorserName    string `json:"endorserName"`
	EndorserTaxNo   string `json:"endorserTaxNo"`
	EndorserPhone   string `json:"endorserPhone"`
	EndorsementDate string `json:"endorsementDate" binding:"omitempty,datetime=2006-01-02"`
	Description     string `json:"description" binding:"max=500"`
}

func (r EndorseRequest) ToDomain() (domain.Endorsement, error) {
	date, err := parseOptionalDatePtr("endorsementDate", &r.EndorsementDate)
	if err != nil {
		return domain.Endorsement{}, err
	}
	return domain.Endorsement{
		EndorsedTo:      r.EndorsedTo,
		EndorserName:    r.EndorserName,
		EndorserTaxNo:   r.EndorserTaxNo,
		EndorserPhone:   r.EndorserPhone,
		EndorsementDate: date,
	}, nil
}
