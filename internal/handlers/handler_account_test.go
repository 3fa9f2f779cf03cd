package handlers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	handlerSuite
}

func openRange(r domain.DateRange) bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	created := &domain.Account{
		AccountID: 7,
		Kind:      domain.AccountKindCustomer,
		Name:      "Acme Ltd",
		Balance:   decimal.NewFromInt(250),
		IsActive:  true,
	}
	suite.mockAccountService.On("CreateAccount",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(a domain.Account) bool {
			return a.Kind == domain.AccountKindCustomer &&
				a.Name == "Acme Ltd" &&
				a.Balance.Equal(decimal.NewFromInt(250)) &&
				a.IsActive
		}),
		testUserID,
	).Return(created, nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/accounts", map[string]any{
		"kind":           "customer",
		"name":           "Acme Ltd",
		"openingBalance": "250",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.AccountResponse
	suite.decode(w, &body)
	suite.Equal(int64(7), body.AccountID)
	suite.True(body.Balance.Equal(decimal.NewFromInt(250)))
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidKind() {
	w := suite.request(http.MethodPost, "/api/v1/accounts", map[string]any{
		"kind": "supplier",
		"name": "Acme Ltd",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_NoToken() {
	w := suite.requestAs("", http.MethodPost, "/api/v1/accounts", map[string]any{
		"kind": "customer",
		"name": "Acme Ltd",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, int64(99)).
		Return(nil, fmt.Errorf("%w: account 99", apperrors.ErrNotFound)).Once()

	w := suite.request(http.MethodGet, "/api/v1/accounts/99", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(suite.errorMessage(w), "account 99")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_InvalidID() {
	w := suite.request(http.MethodGet, "/api/v1/accounts/abc", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountByID", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_InternalErrorHidesDetails() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, int64(3)).
		Return(nil, fmt.Errorf("pgx: connection reset")).Once()

	w := suite.request(http.MethodGet, "/api/v1/accounts/3", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(suite.errorMessage(w), "pgx")
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, int64(4), testUserID).Return(nil).Once()

	w := suite.request(http.MethodDelete, "/api/v1/accounts/4", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestImportAccounts() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "accounts.csv")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("kind,name\ncustomer,Acme\n"))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	suite.mockAccountService.On("ImportAccounts", mock.Anything, mock.Anything, testUserID).
		Return(&domain.ImportResult{Encoding: "utf-8", Imported: 1}, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID))
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	var body domain.ImportResult
	suite.decode(w, &body)
	suite.Equal(1, body.Imported)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestImportAccounts_MissingFile() {
	w := suite.request(http.MethodPost, "/api/v1/accounts/import", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ImportAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestPostTransaction_Success() {
	suite.mockLedgerService.On("ApplyAccountTransaction",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(p domain.LedgerPosting) bool {
			return p.AccountID == 5 &&
				p.Amount.Equal(decimal.NewFromInt(-40)) &&
				p.Reference.Kind == domain.ReferenceManual
		}),
		testUserID,
	).Return(domain.OperationResult{Success: true, Message: "posted", ID: 31}, nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/accounts/5/transactions", map[string]any{
		"amount":      "-40",
		"description": "correction",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.OperationResponse
	suite.decode(w, &body)
	suite.True(body.Success)
	suite.Equal(int64(31), body.ID)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestPostTransaction_Rejected() {
	suite.mockLedgerService.On("ApplyAccountTransaction", mock.Anything, mock.Anything, testUserID).
		Return(domain.Failed(apperrors.ErrNotFound, "account 5 not found"), nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/accounts/5/transactions", map[string]any{"amount": "10"})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("account 5 not found", suite.errorMessage(w))
}

func (suite *AccountHandlerTestSuite) TestListTransactions_Success() {
	limit := 10
	txns := []domain.AccountTransaction{
		{TransactionID: 1, AccountID: 5, Kind: domain.Credit, Amount: decimal.NewFromInt(100), BalanceAfter: decimal.NewFromInt(100), TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{TransactionID: 2, AccountID: 5, Kind: domain.Debit, Amount: decimal.NewFromInt(30), BalanceAfter: decimal.NewFromInt(70), TransactionDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	suite.mockLedgerService.On("ListTransactions",
		mock.AnythingOfType("*context.valueCtx"),
		int64(5),
		mock.MatchedBy(openRange),
		"",
		limit,
	).Return(txns, "next-page", nil).Once()

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/accounts/5/transactions?limit=%d", limit), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListTransactionsResponse
	suite.decode(w, &body)
	suite.Len(body.Transactions, 2)
	suite.Equal(int64(1), body.Transactions[0].TransactionID)
	suite.Require().NotNil(body.NextToken)
	suite.Equal("next-page", *body.NextToken)
	suite.mockLedgerService.AssertExpectations(suite.T())
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestListTransactions_InvertedRange() {
	w := suite.request(http.MethodGet, "/api/v1/accounts/5/transactions?from=2024-03-10&to=2024-03-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestReconcile_ReportsDrift() {
	mismatch := int64(12)
	suite.mockLedgerService.On("ReconcileAccount", mock.Anything, int64(5)).Return(&domain.Reconciliation{
		AccountID:       5,
		StoredBalance:   decimal.NewFromInt(100),
		ReplayedBalance: decimal.NewFromInt(90),
		Transactions:    4,
		FirstMismatchID: &mismatch,
	}, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/accounts/5/reconcile", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ReconciliationResponse
	suite.decode(w, &body)
	suite.False(body.Consistent)
	suite.Require().NotNil(body.FirstMismatchID)
	suite.Equal(mismatch, *body.FirstMismatchID)
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
