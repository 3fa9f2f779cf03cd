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

type InstrumentServiceTestSuite struct {
	suite.Suite
	txm            *MockTxManager
	instrumentRepo *MockInstrumentRepository
	reminderRepo   *MockReminderRepository
	tracker        *MockTracker
	service        portssvc.InstrumentSvcFacade
	ctx            context.Context
}

func (s *InstrumentServiceTestSuite) SetupTest() {
	s.txm = new(MockTxManager)
	s.instrumentRepo = new(MockInstrumentRepository)
	s.reminderRepo = new(MockReminderRepository)
	s.tracker = new(MockTracker)
	s.tracker.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Maybe()
	s.service = services.NewInstrumentService(
		s.txm, s.instrumentRepo, s.reminderRepo,
		services.ReminderSettings{AutoCreate: true, LeadDays: 1},
		"TRY",
		services.WithClock(fixedClock), services.WithEventTracker(s.tracker),
	)
	s.ctx = context.Background()
}

func (s *InstrumentServiceTestSuite) TearDownTest() {
	s.txm.AssertExpectations(s.T())
	s.instrumentRepo.AssertExpectations(s.T())
	s.reminderRepo.AssertExpectations(s.T())
}

func newIncomingCheck() domain.Instrument {
	accountID := int64(7)
	return domain.Instrument{
		Direction:    domain.Incoming,
		Kind:         domain.KindCheck,
		AccountID:    &accountID,
		SerialNumber: " CHK-2001 ",
		Amount:       dec("1500"),
		PaidAmount:   dec("99"),
		Status:       domain.StatusCashed,
		DueDate:      time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (s *InstrumentServiceTestSuite) TestRegisterInstrument_WithReminder() {
	s.txm.expectTx(true)
	s.instrumentRepo.On("SaveInstrumentInTx", s.ctx, mock.Anything, mock.MatchedBy(func(i domain.Instrument) bool {
		return i.SerialNumber == "CHK-2001" && i.Status == domain.StatusPending && i.PaidAmount.IsZero() &&
			i.Currency == "TRY" && i.IssueDate.Equal(domain.DateOf(testNow)) && i.DueDate.Equal(day(2024, 4, 10))
	})).Return(int64(50), nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.MatchedBy(func(t domain.InstrumentTransaction) bool {
		return t.InstrumentID == 50 && t.Kind == domain.TxnCreated && t.Amount.Equal(dec("1500"))
	})).Return(int64(1), nil).Once()
	s.reminderRepo.On("SaveReminderInTx", s.ctx, mock.Anything, mock.MatchedBy(func(r domain.Reminder) bool {
		return r.Kind == domain.ReminderInstrument && r.Priority == domain.PriorityHigh &&
			r.DueDate.Equal(day(2024, 4, 9)) && r.RelatedInstrumentID != nil && *r.RelatedInstrumentID == 50 &&
			r.Title == "Incoming Check Due - CHK-2001"
	})).Return(int64(77), nil).Once()

	res, err := s.service.RegisterInstrument(s.ctx, newIncomingCheck(), actor)

	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(int64(50), res.ID)
	s.Equal("Incoming Check Due - CHK-2001 registered", res.Message)
}

func (s *InstrumentServiceTestSuite) TestRegisterInstrument_ReminderFailureRollsBack() {
	s.txm.expectTx(false)
	s.instrumentRepo.On("SaveInstrumentInTx", s.ctx, mock.Anything, mock.Anything).Return(int64(50), nil).Once()
	s.instrumentRepo.On("SaveInstrumentTransactionInTx", s.ctx, mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	s.reminderRepo.On("SaveReminderInTx", s.ctx, mock.Anything, mock.Anything).
		Return(int64(0), apperrors.NewAppError(500, "failed to save reminder", nil)).Once()

	res, err := s.service.RegisterInstrument(s.ctx, newIncomingCheck(), actor)

	s.ErrorIs(err, apperrors.ErrStorage)
	s.False(res.Success)
}

func (s *InstrumentServiceTestSuite) TestRegisterInstrument_Validation() {
	bad := newIncomingCheck()
	bad.Amount = dec("-1")

	res, err := s.service.RegisterInstrument(s.ctx, bad, actor)

	s.Require().NoError(err)
	s.False(res.Success)
	s.ErrorIs(res.Reason, apperrors.ErrValidation)
	s.txm.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *InstrumentServiceTestSuite) TestGetInstrument_DerivesDisplayStatus() {
	i := newIncomingCheck()
	i.InstrumentID = 50
	i.Status = domain.StatusPending
	i.PaidAmount = dec("500")
	i.DueDate = day(2024, 3, 18)
	s.instrumentRepo.On("FindInstrumentByID", s.ctx, int64(50)).Return(&i, nil).Once()
	s.instrumentRepo.On("ListInstrumentTransactions", s.ctx, int64(50)).Return([]domain.InstrumentTransaction{{TransactionID: 1}}, nil).Once()

	detail, err := s.service.GetInstrument(s.ctx, 50)

	s.Require().NoError(err)
	s.Equal(domain.DisplayUpcoming, detail.DisplayStatus)
	s.True(dec("1000").Equal(detail.Remaining))
	s.Len(detail.Transactions, 1)
}

func (s *InstrumentServiceTestSuite) TestListUpcoming_UsesConfiguredWindow() {
	s.instrumentRepo.On("ListInstruments", s.ctx, mock.MatchedBy(func(f domain.InstrumentFilter) bool {
		return f.UpcomingDays == 7 && f.Status != nil && *f.Status == domain.StatusPending && f.Page.Limit == domain.Unlimited
	})).Return([]domain.Instrument{}, nil).Once()

	_, err := s.service.ListUpcoming(s.ctx, 0)
	s.NoError(err)
}

func (s *InstrumentServiceTestSuite) TestListInstruments_RejectsUnknownStatus() {
	status := domain.InstrumentStatus("lost")
	_, err := s.service.ListInstruments(s.ctx, domain.InstrumentFilter{Status: &status})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *InstrumentServiceTestSuite) TestUpdateInstrument() {
	s.Run("processed instrument is locked", func() {
		i := newIncomingCheck()
		s.instrumentRepo.On("FindInstrumentByID", s.ctx, int64(51)).Return(&i, nil).Once()
		_, err := s.service.UpdateInstrument(s.ctx, 51, domain.InstrumentPatch{Notes: ptr("x")}, actor)
		s.ErrorIs(err, apperrors.ErrInvalidState)
	})

	s.Run("pending instrument is patched", func() {
		i := newIncomingCheck()
		i.Status = domain.StatusPending
		s.instrumentRepo.On("FindInstrumentByID", s.ctx, int64(52)).Return(&i, nil).Once()
		s.instrumentRepo.On("UpdateInstrumentDetails", s.ctx, mock.MatchedBy(func(u domain.Instrument) bool {
			return u.Bank.BankName == "Ziraat" && u.LastUpdatedBy == actor
		})).Return(nil).Once()
		updated, err := s.service.UpdateInstrument(s.ctx, 52, domain.InstrumentPatch{BankName: ptr("Ziraat")}, actor)
		s.Require().NoError(err)
		s.Equal("Ziraat", updated.Bank.BankName)
	})

	s.Run("empty patch", func() {
		_, err := s.service.UpdateInstrument(s.ctx, 52, domain.InstrumentPatch{}, actor)
		s.ErrorIs(err, apperrors.ErrValidation)
	})
}

func TestInstrumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstrumentServiceTestSuite))
}
