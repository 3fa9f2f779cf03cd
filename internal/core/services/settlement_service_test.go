package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	txm            *MockTxManager
	instrumentRepo *MockInstrumentRepository
	cashRepo       *MockCashRepository
	accountRepo    *MockAccountRepository
	ledgerRepo     *MockLedgerRepository
	reminderRepo   *MockReminderRepository
	tracker        *MockTracker
	service        portssvc.SettlementSvc
	ctx            context.Context
}

const actor = "user-1"

func (s *SettlementServiceTestSuite) SetupTest() {
	s.txm = new(MockTxManager)
	s.instrumentRepo = new(MockInstrumentRepository)
	s.cashRepo = new(MockCashRepository)
	s.accountRepo = new(MockAccountRepository)
	s.ledgerRepo = new(MockLedgerRepository)
	s.reminderRepo = new(MockReminderRepository)
	s.tracker = new(MockTracker)
	s.tracker.On("Enqueue", actor, "instrument_settled", mock.Anything).Maybe()
	s.service = services.NewSettlementService(s.txm, s.instrumentRepo, s.cashRepo, s.accountRepo, s.ledgerRepo, s.reminderRepo,
		services.WithClock(fixedClock), services.WithEventTracker(s.tracker))
	s.ctx = context.Background()
}

func (s *SettlementServiceTestSuite) TearDownTest() {
	s.txm.AssertExpectations(s.T())
	s.instrumentRepo.AssertExpectations(s.T())
	s.cashRepo.AssertExpectations(s.T())
	s.accountRepo.AssertExpectations(s.T())
	s.ledgerRepo.AssertExpectations(s.T())
	s.reminderRepo.AssertExpectations(s.T())
}

func instrument(dir domain.Direction, amount, paid string) *domain.Instrument {
	accountID := int64(7)
	return &domain.Instrument{
		InstrumentID: 42,
		Direction:    dir,
		Kind:         domain.KindCheck,
		AccountID:    &accountID,
		SerialNumber: "CHK-1001",
		Amount:       dec(amount),
		PaidAmount:   dec(paid),
		Currency:     "TL",
		DueDate:      time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Status:       domain.StatusPending,
	}
}

func decEq(want string) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(want)) })
}

// expectPosting wires the ledger poster for one account.
func (s *SettlementServiceTestSuite) expectPosting(accountID int64, current, amount, newBalance string, kind domain.TransactionKind) {
	s.accountRepo.On("FindAccountForUpdate", s.ctx, mock.Anything, accountID).
		Return(&domain.Account{AccountID: accountID, Balance: dec(current)}, nil).Once()
	s.ledgerRepo.On("SaveTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.AccountTransaction) bool {
		return t.AccountID == accountID && t.Kind == kind && t.Amount.Equal(dec(amount)) &&
			t.BalanceAfter.Equal(dec(newBalance)) && t.Reference.Kind == domain.ReferenceInstrument &&
			t.Reference.ID != nil && *t.Reference.ID == 42
	})).Return(int64(900), nil).Once()
	s.accountRepo.On("UpdateAccountBalanceInTx", s.ctx, mock.Anything, accountID, decEq(newBalance), actor, testNow).Return(nil).Once()
}

func (s *SettlementServiceTestSuite) TestCollect_IncomingPostsCashLedgerAndResolvesReminders() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "200"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.MatchedBy(func(i domain.Instrument) bool {
		return i.Status == domain.StatusCashed && i.PaidAmount.Equal(dec("1000")) && i.LastUpdatedBy == actor
	})).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.InstrumentTransaction) bool {
		return t.Kind == domain.TxnCashed && t.Amount.Equal(dec("800"))
	})).Return(int64(77), nil).Once()
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.MatchedBy(func(e domain.CashEntry) bool {
		return e.Kind == domain.Income && e.Amount.Equal(dec("800")) && e.Category == domain.CategoryInstrumentCollection &&
			e.PaymentMethod == domain.PaymentCheck && *e.InstrumentID == 42 && *e.AccountID == 7
	})).Return(int64(55), nil).Once()
	s.expectPosting(7, "-100", "800", "700", domain.Credit)
	s.reminderRepo.On("CompletePendingForInstrumentInTx", s.ctx, mock.Anything, int64(42), actor, testNow).Return(int64(1), nil).Once()

	res, err := s.service.CollectInstrument(s.ctx, 42, "", actor)

	s.Require().NoError(err)
	s.True(res.Success, res.Message)
	s.Equal(int64(77), res.ID)
	s.Contains(res.Message, "800.00")
	// Instrument reminders are closed in bulk; recurring ones get no successor.
	s.reminderRepo.AssertNotCalled(s.T(), "SaveReminderInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestCollect_AlreadyProcessedFailsWithoutWrites() {
	cashed := instrument(domain.Incoming, "1000", "1000")
	cashed.Status = domain.StatusCashed
	s.txm.expectTx(false)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(cashed, nil).Once()

	res, err := s.service.CollectInstrument(s.ctx, 42, "", actor)

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrInvalidState)
	s.Contains(res.Message, "already processed")
	s.instrumentRepo.AssertNotCalled(s.T(), "UpdateInstrumentStateInTx", mock.Anything, mock.Anything, mock.Anything)
	s.cashRepo.AssertNotCalled(s.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestPartial_ClampsToRemainingAndCompletes() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "700"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.MatchedBy(func(i domain.Instrument) bool {
		return i.Status == domain.StatusCashed && i.PaidAmount.Equal(dec("1000"))
	})).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.InstrumentTransaction) bool {
		return t.Kind == domain.TxnPartialPayment && t.Amount.Equal(dec("300"))
	})).Return(int64(78), nil).Once()
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.MatchedBy(func(e domain.CashEntry) bool {
		return e.Kind == domain.Income && e.Amount.Equal(dec("300"))
	})).Return(int64(56), nil).Once()
	s.expectPosting(7, "0", "300", "300", domain.Credit)
	s.reminderRepo.On("CompletePendingForInstrumentInTx", s.ctx, mock.Anything, int64(42), actor, testNow).Return(int64(1), nil).Once()

	res, err := s.service.PartiallyCollect(s.ctx, 42, dec("500"), "", actor)

	s.Require().NoError(err)
	s.True(res.Success, res.Message)
	s.Contains(res.Message, "fully collected")
}

func (s *SettlementServiceTestSuite) TestPartial_StaysPendingAndKeepsReminders() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "0"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.MatchedBy(func(i domain.Instrument) bool {
		return i.Status == domain.StatusPending && i.PaidAmount.Equal(dec("250"))
	})).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.InstrumentTransaction")).Return(int64(79), nil).Once()
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.CashEntry")).Return(int64(57), nil).Once()
	s.expectPosting(7, "0", "250", "250", domain.Credit)

	res, err := s.service.PartiallyCollect(s.ctx, 42, dec("250"), "first installment", actor)

	s.Require().NoError(err)
	s.True(res.Success)
	s.Contains(res.Message, "Remaining: 750.00")
	s.reminderRepo.AssertNotCalled(s.T(), "CompletePendingForInstrumentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestPartial_NonPositiveAmountIsValidationFailure() {
	s.txm.expectTx(false)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "0"), nil).Once()

	res, err := s.service.PartiallyCollect(s.ctx, 42, dec("0"), "", actor)

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrValidation)
}

func (s *SettlementServiceTestSuite) TestPartial_SubCentAmountIsValidationFailure() {
	s.txm.expectTx(false)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "0"), nil).Once()

	res, err := s.service.PartiallyCollect(s.ctx, 42, dec("600.005"), "", actor)

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrValidation)
	s.cashRepo.AssertNotCalled(s.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
	s.ledgerRepo.AssertNotCalled(s.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestCollect_OutgoingNeverTouchesDrawerOrLedger() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Outgoing, "400", "0"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.Instrument")).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.InstrumentTransaction")).Return(int64(80), nil).Once()
	s.reminderRepo.On("CompletePendingForInstrumentInTx", s.ctx, mock.Anything, int64(42), actor, testNow).Return(int64(0), nil).Once()

	res, err := s.service.CollectInstrument(s.ctx, 42, "", actor)

	s.Require().NoError(err)
	s.True(res.Success)
	s.cashRepo.AssertNotCalled(s.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
	s.accountRepo.AssertNotCalled(s.T(), "FindAccountForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestReturn_ReversesCollectedAmount() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "300"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.MatchedBy(func(i domain.Instrument) bool {
		return i.Status == domain.StatusReturned && i.PaidAmount.Equal(dec("300"))
	})).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.InstrumentTransaction) bool {
		return t.Kind == domain.TxnReturned && t.Amount.IsZero()
	})).Return(int64(81), nil).Once()
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.MatchedBy(func(e domain.CashEntry) bool {
		return e.Kind == domain.Expense && e.Amount.Equal(dec("300")) && e.Category == domain.CategoryInstrumentReturn
	})).Return(int64(58), nil).Once()
	s.expectPosting(7, "500", "300", "200", domain.Debit)

	res, err := s.service.ReturnInstrument(s.ctx, 42, "", actor)

	s.Require().NoError(err)
	s.True(res.Success)
	s.Contains(res.Message, "reversed")
	s.reminderRepo.AssertNotCalled(s.T(), "CompletePendingForInstrumentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestCancel_PartiallyPaidReportsUnreversedAmount() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "150"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.MatchedBy(func(i domain.Instrument) bool {
		return i.Status == domain.StatusCancelled && i.PaidAmount.Equal(dec("150"))
	})).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.InstrumentTransaction")).Return(int64(82), nil).Once()

	res, err := s.service.CancelInstrument(s.ctx, 42, "", actor)

	s.Require().NoError(err)
	s.True(res.Success)
	s.Contains(res.Message, "150.00 already collected was not reversed")
	s.cashRepo.AssertNotCalled(s.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestEndorse_IncomingRecordsFullAmount() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "100"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.MatchedBy(func(i domain.Instrument) bool {
		return i.Status == domain.StatusEndorsed && i.IsEndorsed && i.Endorsement.EndorsedTo == "Yilmaz Insaat" &&
			i.Endorsement.EndorsementDate != nil && i.Endorsement.EndorsementDate.Equal(domain.DateOf(testNow))
	})).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.InstrumentTransaction) bool {
		return t.Kind == domain.TxnEndorsed && t.Amount.Equal(dec("1000"))
	})).Return(int64(83), nil).Once()
	s.reminderRepo.On("CompletePendingForInstrumentInTx", s.ctx, mock.Anything, int64(42), actor, testNow).Return(int64(1), nil).Once()

	res, err := s.service.EndorseInstrument(s.ctx, 42, domain.Endorsement{EndorsedTo: " Yilmaz Insaat "}, "", actor)

	s.Require().NoError(err)
	s.True(res.Success, res.Message)
	s.Contains(res.Message, "endorsed to Yilmaz Insaat")
	s.cashRepo.AssertNotCalled(s.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestEndorse_OutgoingIsInvalidState() {
	s.txm.expectTx(false)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Outgoing, "1000", "0"), nil).Once()

	res, err := s.service.EndorseInstrument(s.ctx, 42, domain.Endorsement{EndorsedTo: "Someone"}, "", actor)

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrInvalidState)
}

func (s *SettlementServiceTestSuite) TestStorageFailureRollsBackAndSurfacesError() {
	s.txm.expectTx(false)
	s.instrumentRepo.On("FindInstrumentForUpdate", s.ctx, mock.Anything, int64(42)).Return(instrument(domain.Incoming, "1000", "0"), nil).Once()
	s.instrumentRepo.On("UpdateInstrumentStateInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.Instrument")).Return(nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.InstrumentTransaction")).Return(int64(84), nil).Once()
	storageErr := apperrors.NewAppError(500, "db down", assert.AnError)
	s.cashRepo.On("SaveEntryInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.CashEntry")).Return(int64(0), storageErr).Once()

	res, err := s.service.CollectInstrument(s.ctx, 42, "", actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrStorage)
	s.False(res.Success)
	s.txm.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestMissingActorIsRejected() {
	res, err := s.service.CollectInstrument(s.ctx, 42, "", "  ")

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrValidation)
	s.txm.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *SettlementServiceTestSuite) TestUnknownModeIsRejected() {
	res, err := s.service.Settle(s.ctx, 42, domain.SettlementMode("bounced"), nil, "", actor)

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrValidation)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
