package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePostingRequest is a manual ledger posting. Amount is signed:
// positive raises the balance, negative lowers it.
type CreatePostingRequest struct {
	Amount          *decimal.Decimal `json:"amount" binding:"required"`
	Description     string           `json:"description" binding:"max=500"`
	ReferenceKind   string           `json:"referenceKind" binding:"omitempty,bk_enum=reference_kind"`
	ReferenceID     *int64           `json:"referenceID"`
	TransactionDate string           `json:"transactionDate" binding:"omitempty,datetime=2006-01-02"`
	DueDate         *string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain converts the request into a posting against accountID.
func (r CreatePostingRequest) ToDomain(accountID int64) (domain.LedgerPosting, error) {
	refKind := domain.ReferenceManual
	if r.ReferenceKind != "" {
		k, err := domain.ParseReferenceKind(r.ReferenceKind)
		if err != nil {
			return domain.LedgerPosting{}, err
		}
		refKind = k
	}
	txnDate, err := parseOptionalDate("transactionDate", r.TransactionDate)
	if err != nil {
		return domain.LedgerPosting{}, err
	}
	due, err := parseOptionalDatePtr("dueDate", r.DueDate)
	if err != nil {
		return domain.LedgerPosting{}, err
	}
	return domain.LedgerPosting{
		AccountID:       accountID,
		Amount:          *r.Amount,
		Description:     r.Description,
		Reference:       domain.Reference{Kind: refKind, ID: r.ReferenceID},
		TransactionDate: txnDate,
		DueDate:         due,
	}, nil
}

// ListTransactionsParams defines query parameters for paging through an
// account's transactions.
type ListTransactionsParams struct {
	DateRangeParams
	Limit     int    `form:"limit,default=50" binding:"min=0,max=500"`
	NextToken string `form:"nextToken"`
}

// TransactionResponse is one ledger line.
type TransactionResponse struct {
	TransactionID   int64                  `json:"transactionID"`
	AccountID       int64                  `json:"accountID"`
	Kind            domain.TransactionKind `json:"kind"`
	Amount          decimal.Decimal        `json:"amount"`
	BalanceAfter    decimal.Decimal        `json:"balanceAfter"`
	Description     string                 `json:"description"`
	ReferenceKind   domain.ReferenceKind   `json:"referenceKind"`
	ReferenceID     *int64                 `json:"referenceID,omitempty"`
	TransactionDate string                 `json:"transactionDate"`
	DueDate         *string                `json:"dueDate,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
}

// ToTransactionResponse converts a domain.AccountTransaction.
func ToTransactionResponse(t domain.AccountTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		AccountID:       t.AccountID,
		Kind:            t.Kind,
		Amount:          t.Amount,
		BalanceAfter:    t.BalanceAfter,
		Description:     t.Description,
		ReferenceKind:   t.Reference.Kind,
		ReferenceID:     t.Reference.ID,
		TransactionDate: t.TransactionDate.Format(DateLayout),
		DueDate:         formatDatePtr(t.DueDate),
		CreatedAt:       t.CreatedAt,
		CreatedBy:       t.CreatedBy,
	}
}

func toTransactionResponses(txns []domain.AccountTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = ToTransactionResponse(t)
	}
	return out
}

// ListTransactionsResponse is one page of ledger lines. NextToken is nil on the last page.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse wraps a page.
func ToListTransactionsResponse(txns []domain.AccountTransaction, nextToken string) ListTransactionsResponse {
	res := ListTransactionsResponse{Transactions: toTransactionResponses(txns)}
	if nextToken != "" {
		res.NextToken = &nextToken
	}
	return res
}

// StatementResponse is an account statement.
type StatementResponse struct {
	Account        AccountResponse       `json:"account"`
	From           string                `json:"from,omitempty"`
	To             string                `json:"to,omitempty"`
	OpeningBalance decimal.Decimal       `json:"openingBalance"`
	Transactions   []TransactionResponse `json:"transactions"`
	TotalDebit     decimal.Decimal       `json:"totalDebit"`
	TotalCredit    decimal.Decimal       `json:"totalCredit"`
	ClosingBalance decimal.Decimal       `json:"closingBalance"`
}

// ToStatementResponse converts a domain.Statement.
func ToStatementResponse(st *domain.Statement) StatementResponse {
	res := StatementResponse{
		Account:        ToAccountResponse(&st.Account),
		OpeningBalance: st.OpeningBalance,
		Transactions:   toTransactionResponses(st.Transactions),
		TotalDebit:     st.TotalDebit,
		TotalCredit:    st.TotalCredit,
		ClosingBalance: st.ClosingBalance,
	}
	if !st.Range.From.IsZero() {
		res.From = st.Range.From.Format(DateLayout)
	}
	if !st.Range.To.IsZero() {
		res.To = st.Range.To.Format(DateLayout)
	}
	return res
}

// ReconciliationResponse reports a ledger replay.
type ReconciliationResponse struct {
	AccountID       int64           `json:"accountID"`
	Consistent      bool            `json:"consistent"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	Transactions    int             `json:"transactions"`
	FirstMismatchID *int64          `json:"firstMismatchID,omitempty"`
}

// ToReconciliationResponse converts a domain.Reconciliation.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		AccountID:       r.AccountID,
		Consistent:      r.Consistent(),
		StoredBalance:   r.StoredBalance,
		ReplayedBalance: r.ReplayedBalance,
		Transactions:    r.Transactions,
		FirstMismatchID: r.FirstMismatchID,
	}
}
