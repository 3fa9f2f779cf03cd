package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CashServiceTestSuite struct {
	suite.Suite
	txm         *MockTxManager
	cashRepo    *MockCashRepository
	accountRepo *MockAccountRepository
	ledgerRepo  *MockLedgerRepository
	service     portssvc.CashDrawerSvc
	ctx         context.Context
}

func (s *CashServiceTestSuite) SetupTest() {
	s.txm = new(MockTxManager)
	s.cashRepo = new(MockCashRepository)
	s.accountRepo = new(MockAccountRepository)
	s.ledgerRepo = new(MockLedgerRepository)
	s.service = services.NewCashService(s.txm, s.cashRepo, s.accountRepo, s.ledgerRepo, "TRY", services.WithClock(fixedClock))
	s.ctx = context.Background()
}

func (s *CashServiceTestSuite) TearDownTest() {
	s.txm.AssertExpectations(s.T())
	s.cashRepo.AssertExpectations(s.T())
	s.accountRepo.AssertExpectations(s.T())
	s.ledgerRepo.AssertExpectations(s.T())
}

func (s *CashServiceTestSuite) TestRecordEntry_WithoutAccount() {
	s.txm.expectTx(true)
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.MatchedBy(func(e domain.CashEntry) bool {
		return e.Kind == domain.Expense && e.Category == "Rent" && e.PaymentMethod == domain.PaymentCash &&
			e.Currency == "TRY" && e.TransactionDate.Equal(domain.DateOf(testNow)) && e.CreatedBy == actor
	})).Return(int64(31), nil).Once()

	res, err := s.service.RecordEntry(s.ctx, domain.CashEntry{Kind: domain.Expense, Category: " Rent ", Amount: dec("4500")}, actor)

	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(int64(31), res.ID)
	s.Equal("Expense of 4500.00 TRY recorded", res.Message)
}

func (s *CashServiceTestSuite) TestRecordEntry_IncomeLowersAccountBalance() {
	accountID := int64(7)
	s.txm.expectTx(true)
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.Anything).Return(int64(32), nil).Once()
	s.accountRepo.On("FindAccountForUpdate", s.ctx, mock.Anything, accountID).Return(&domain.Account{AccountID: accountID, Balance: dec("1000")}, nil).Once()
	s.ledgerRepo.On("SaveTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.AccountTransaction) bool {
		return t.Kind == domain.Debit && t.Amount.Equal(dec("250")) &&
			t.Reference.Kind == domain.ReferenceCash && t.Reference.ID != nil && *t.Reference.ID == 32 &&
			t.Description == "Sales"
	})).Return(int64(90), nil).Once()
	s.accountRepo.On("UpdateAccountBalanceInTx", s.ctx, mock.Anything, accountID, decEq("750"), actor, testNow).Return(nil).Once()

	res, err := s.service.RecordEntry(s.ctx, domain.CashEntry{
		Kind: domain.Income, Category: "Sales", Amount: dec("250"), AccountID: &accountID,
	}, actor)

	s.Require().NoError(err)
	s.True(res.Success)
}

func (s *CashServiceTestSuite) TestRecordEntry_ExpenseRaisesAccountBalance() {
	accountID := int64(8)
	s.txm.expectTx(true)
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.Anything).Return(int64(33), nil).Once()
	s.accountRepo.On("FindAccountForUpdate", s.ctx, mock.Anything, accountID).Return(&domain.Account{AccountID: accountID, Balance: dec("-400")}, nil).Once()
	s.ledgerRepo.On("SaveTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.AccountTransaction) bool {
		return t.Kind == domain.Credit && t.Amount.Equal(dec("400"))
	})).Return(int64(91), nil).Once()
	s.accountRepo.On("UpdateAccountBalanceInTx", s.ctx, mock.Anything, accountID, decEq("0"), actor, testNow).Return(nil).Once()

	res, err := s.service.RecordEntry(s.ctx, domain.CashEntry{
		Kind: domain.Expense, Category: "Supplier payment", Amount: dec("400"), AccountID: &accountID,
		PaymentMethod: domain.PaymentBankTransfer,
	}, actor)

	s.Require().NoError(err)
	s.True(res.Success)
}

func (s *CashServiceTestSuite) TestRecordEntry_UnknownAccountRollsBack() {
	accountID := int64(404)
	s.txm.expectTx(false)
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.Anything).Return(int64(34), nil).Once()
	s.accountRepo.On("FindAccountForUpdate", s.ctx, mock.Anything, accountID).Return(nil, apperrors.ErrNotFound).Once()

	res, err := s.service.RecordEntry(s.ctx, domain.CashEntry{
		Kind: domain.Income, Category: "Sales", Amount: dec("10"), AccountID: &accountID,
	}, actor)

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrNotFound)
}

func (s *CashServiceTestSuite) TestRecordEntry_Validation() {
	tests := []struct {
		name  string
		entry domain.CashEntry
	}{
		{"zero amount", domain.CashEntry{Kind: domain.Income, Category: "Sales", Amount: dec("0")}},
		{"no category", domain.CashEntry{Kind: domain.Income, Category: "  ", Amount: dec("5")}},
		{"bad kind", domain.CashEntry{Kind: "transfer", Category: "Sales", Amount: dec("5")}},
		{"bad method", domain.CashEntry{Kind: domain.Income, Category: "Sales", Amount: dec("5"), PaymentMethod: "barter"}},
		{"bad account", domain.CashEntry{Kind: domain.Income, Category: "Sales", Amount: dec("5"), AccountID: ptr(int64(0))}},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			res, err := s.service.RecordEntry(s.ctx, tc.entry, actor)
			s.Require().NoError(err)
			s.False(res.Success)
			s.ErrorIs(res.Reason, apperrors.ErrValidation)
		})
	}
}

func (s *CashServiceTestSuite) TestGetDrawerBalance_Windows() {
	day := domain.DateOf(testNow)
	s.cashRepo.On("SumTotals", s.ctx, domain.DateRange{}).Return(domain.NewCashTotals(dec("5000"), dec("1200")), 40, nil).Once()
	s.cashRepo.On("SumTotals", s.ctx, domain.DateRange{From: day, To: day}).Return(domain.NewCashTotals(dec("300"), dec("0")), 2, nil).Once()
	s.cashRepo.On("SumTotals", s.ctx, domain.DateRange{From: day.AddDate(0, 0, -7), To: day}).Return(domain.NewCashTotals(dec("900"), dec("100")), 6, nil).Once()
	s.cashRepo.On("SumTotals", s.ctx, domain.DateRange{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}).Return(domain.NewCashTotals(dec("2000"), dec("700")), 15, nil).Once()

	balance, err := s.service.GetDrawerBalance(s.ctx)

	s.Require().NoError(err)
	s.True(dec("3800").Equal(balance.AllTime.Balance))
	s.True(dec("300").Equal(balance.Today.Balance))
	s.True(dec("800").Equal(balance.ThisWeek.Balance))
	s.True(dec("1300").Equal(balance.ThisMonth.Balance))
}

func (s *CashServiceTestSuite) TestGetFinancialSummary_SplitsCategories() {
	rng := domain.DateRange{From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)}
	s.cashRepo.On("SumTotals", s.ctx, rng).Return(domain.NewCashTotals(dec("1000"), dec("250")), 4, nil).Once()
	s.cashRepo.On("SumByCategory", s.ctx, rng, (*domain.CashKind)(nil)).Return([]domain.CategoryTotal{
		{Category: "Sales", Kind: domain.Income, Total: dec("1000"), Count: 2},
		{Category: "Rent", Kind: domain.Expense, Total: dec("250"), Count: 2},
	}, nil).Once()
	s.cashRepo.On("SumByPeriod", s.ctx, rng, domain.PeriodDay).Return([]domain.CashFlowBucket{}, nil).Once()

	summary, err := s.service.GetFinancialSummary(s.ctx, rng)

	s.Require().NoError(err)
	s.Len(summary.IncomeByCat, 1)
	s.Len(summary.ExpenseByCat, 1)
	s.True(dec("75").Equal(summary.ProfitMargin))
	s.Equal(4, summary.EntryCount)
}

func (s *CashServiceTestSuite) TestGetCashFlowSeries_RejectsUnknownPeriod() {
	_, err := s.service.GetCashFlowSeries(s.ctx, domain.DateRange{}, "fortnight")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestCashServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CashServiceTestSuite))
}
