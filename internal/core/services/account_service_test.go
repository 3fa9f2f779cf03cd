package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	txm         *MockTxManager
	accountRepo *MockAccountRepository
	ledgerRepo  *MockLedgerRepository
	service     portssvc.AccountSvcFacade
	ctx         context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.txm = new(MockTxManager)
	suite.accountRepo = new(MockAccountRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.service = services.NewAccountService(suite.txm, suite.accountRepo, suite.ledgerRepo, "TRY", services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *AccountServiceTestSuite) TearDownTest() {
	suite.txm.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
	suite.ledgerRepo.AssertExpectations(suite.T())
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	suite.txm.expectTx(true)
	suite.accountRepo.On("SaveAccountInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Demir Ltd" && a.Currency == "TRY" && a.Balance.IsZero() && a.IsActive && a.CreatedBy == actor
	})).Return(int64(5), nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, domain.Account{Name: "  Demir Ltd ", Kind: domain.AccountKindCustomer}, actor)

	suite.Require().NoError(err)
	suite.Equal(int64(5), created.AccountID)
	suite.True(created.Balance.IsZero())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningBalancePostsLedgerLine() {
	suite.txm.expectTx(true)
	suite.accountRepo.On("SaveAccountInTx", suite.ctx, mock.Anything, mock.Anything).Return(int64(6), nil).Once()
	suite.accountRepo.On("FindAccountForUpdate", suite.ctx, mock.Anything, int64(6)).Return(&domain.Account{AccountID: 6}, nil).Once()
	suite.ledgerRepo.On("SaveTransactionInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(t domain.AccountTransaction) bool {
		return t.Reference.Kind == domain.ReferenceOpening && t.Kind == domain.Debit && t.Amount.Equal(dec("300"))
	})).Return(int64(1), nil).Once()
	suite.accountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, int64(6), decEq("-300"), actor, testNow).Return(nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, domain.Account{Name: "Kaya Tedarik", Kind: domain.AccountKindVendor, Balance: dec("-300")}, actor)

	suite.Require().NoError(err)
	suite.True(dec("-300").Equal(created.Balance))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ValidationError() {
	_, err := suite.service.CreateAccount(suite.ctx, domain.Account{Name: "", Kind: domain.AccountKindCustomer}, actor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateAccount(suite.ctx, domain.Account{Name: "X", Kind: "partner"}, actor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateAccount(suite.ctx, domain.Account{Name: "X", Kind: domain.AccountKindCustomer}, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, int64(404)).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(suite.ctx, 404)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_NormalizesPage() {
	suite.accountRepo.On("ListAccounts", suite.ctx, domain.AccountFilter{ActiveOnly: true, Page: domain.Page{Limit: 50}}).
		Return([]domain.AccountSummary{{Account: domain.Account{AccountID: 1}}}, nil).Once()

	accounts, err := suite.service.ListAccounts(suite.ctx, domain.AccountFilter{ActiveOnly: true, Page: domain.Page{Limit: 0, Offset: -3}})

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_AppliesPatch() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, int64(5)).Return(&domain.Account{AccountID: 5, Name: "Demir", Kind: domain.AccountKindCustomer, Balance: dec("40")}, nil).Once()
	suite.accountRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Phone == "0212 555 00 00" && a.Name == "Demir" && a.Balance.Equal(dec("40")) && a.LastUpdatedBy == actor
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, 5, domain.AccountPatch{Phone: ptr("0212 555 00 00")}, actor)

	suite.Require().NoError(err)
	suite.Equal("0212 555 00 00", updated.Phone)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_EmptyPatch() {
	_, err := suite.service.UpdateAccount(suite.ctx, 5, domain.AccountPatch{}, actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, int64(5)).Return(&domain.Account{AccountID: 5}, nil).Once()
	suite.accountRepo.On("DeactivateAccount", suite.ctx, int64(5), actor, testNow).Return(nil).Once()

	suite.NoError(suite.service.DeactivateAccount(suite.ctx, 5, actor))
}

func (suite *AccountServiceTestSuite) TestImportAccounts_SemicolonFileWithBadRow() {
	csvData := strings.Join([]string{
		"Unvan;Tip;Telefon;Bakiye",
		"Yıldız Gıda;customer;0532 111 22 33;1.250,50",
		";customer;0532;",
		"Ak Tedarik;supplier;;",
		"",
	}, "\n")

	suite.txm.expectTx(true)
	suite.accountRepo.On("SaveAccountInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Yıldız Gıda" && a.Kind == domain.AccountKindCustomer
	})).Return(int64(1), nil).Once()
	suite.accountRepo.On("SaveAccountInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Ak Tedarik" && a.Kind == domain.AccountKindVendor
	})).Return(int64(2), nil).Once()
	suite.accountRepo.On("FindAccountForUpdate", suite.ctx, mock.Anything, int64(1)).Return(&domain.Account{AccountID: 1}, nil).Once()
	suite.ledgerRepo.On("SaveTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(int64(10), nil).Once()
	suite.accountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, int64(1), decEq("1250.50"), actor, testNow).Return(nil).Once()

	result, err := suite.service.ImportAccounts(suite.ctx, strings.NewReader(csvData), actor)

	suite.Require().NoError(err)
	suite.Equal(2, result.Imported)
	suite.Equal(1, result.Skipped)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "line 3")
	suite.Equal("UTF-8", result.Encoding)
}

func (suite *AccountServiceTestSuite) TestImportAccounts_RequiresNameColumn() {
	_, err := suite.service.ImportAccounts(suite.ctx, strings.NewReader("phone,email\n1,a@b.c\n"), actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestImportAccounts_EmptyFile() {
	_, err := suite.service.ImportAccounts(suite.ctx, strings.NewReader(""), actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
