package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountSummary), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, account domain.Account, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, account, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID int64, patch domain.AccountPatch, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, patch, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID int64, actorID string) error {
	args := m.Called(ctx, accountID, actorID)
	return args.Error(0)
}
func (m *MockAccountService) ImportAccounts(ctx context.Context, r io.Reader, actorID string) (*domain.ImportResult, error) {
	args := m.Called(ctx, r, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ApplyAccountTransaction(ctx context.Context, posting domain.LedgerPosting, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, posting, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockLedgerService) GetStatement(ctx context.Context, accountID int64, rng domain.DateRange) (*domain.Statement, error) {
	args := m.Called(ctx, accountID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}
func (m *MockLedgerService) ListTransactions(ctx context.Context, accountID int64, rng domain.DateRange, pageToken string, limit int) ([]domain.AccountTransaction, string, error) {
	args := m.Called(ctx, accountID, rng, pageToken, limit)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.AccountTransaction), args.String(1), args.Error(2)
}
func (m *MockLedgerService) ReconcileAccount(ctx context.Context, accountID int64) (*domain.Reconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock InstrumentService ---
type MockInstrumentService struct {
	mock.Mock
}

func (m *MockInstrumentService) GetInstrument(ctx context.Context, instrumentID int64) (*domain.InstrumentDetail, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstrumentDetail), args.Error(1)
}
func (m *MockInstrumentService) ListInstruments(ctx context.Context, filter domain.InstrumentFilter) ([]domain.Instrument, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Instrument), args.Error(1)
}
func (m *MockInstrumentService) ListInstrumentTransactions(ctx context.Context, instrumentID int64) ([]domain.InstrumentTransaction, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstrumentTransaction), args.Error(1)
}
func (m *MockInstrumentService) ListUpcoming(ctx context.Context, days int) ([]domain.Instrument, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Instrument), args.Error(1)
}
func (m *MockInstrumentService) ListOverdue(ctx context.Context) ([]domain.Instrument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Instrument), args.Error(1)
}
func (m *MockInstrumentService) GetSummary(ctx context.Context) (*domain.InstrumentSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstrumentSummary), args.Error(1)
}
func (m *MockInstrumentService) RegisterInstrument(ctx context.Context, instrument domain.Instrument, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, instrument, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockInstrumentService) UpdateInstrument(ctx context.Context, instrumentID int64, patch domain.InstrumentPatch, actorID string) (*domain.Instrument, error) {
	args := m.Called(ctx, instrumentID, patch, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Instrument), args.Error(1)
}

var _ portssvc.InstrumentSvcFacade = (*MockInstrumentService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, instrumentID int64, mode domain.SettlementMode, amount *decimal.Decimal, description string, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, instrumentID, mode, amount, description, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockSettlementService) CollectInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, instrumentID, description, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockSettlementService) PartiallyCollect(ctx context.Context, instrumentID int64, amount decimal.Decimal, description string, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, instrumentID, amount, description, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockSettlementService) ReturnInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, instrumentID, description, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockSettlementService) CancelInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, instrumentID, description, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockSettlementService) EndorseInstrument(ctx context.Context, instrumentID int64, endorsement domain.Endorsement, description string, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, instrumentID, endorsement, description, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}

var _ portssvc.SettlementSvc = (*MockSettlementService)(nil)

// --- Mock CashDrawerService ---
type MockCashService struct {
	mock.Mock
}

func (m *MockCashService) RecordEntry(ctx context.Context, entry domain.CashEntry, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, entry, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}
func (m *MockCashService) GetEntry(ctx context.Context, entryID int64) (*domain.CashEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashEntry), args.Error(1)
}
func (m *MockCashService) ListEntries(ctx context.Context, filter domain.CashFilter) ([]domain.CashEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashEntry), args.Error(1)
}
func (m *MockCashService) GetDrawerBalance(ctx context.Context) (*domain.DrawerBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawerBalance), args.Error(1)
}
func (m *MockCashService) GetCategoryTotals(ctx context.Context, rng domain.DateRange, kind *domain.CashKind) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, rng, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}
func (m *MockCashService) GetCashFlowSeries(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) ([]domain.CashFlowBucket, error) {
	args := m.Called(ctx, rng, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashFlowBucket), args.Error(1)
}
func (m *MockCashService) GetFinancialSummary(ctx context.Context, rng domain.DateRange) (*domain.FinancialSummary, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialSummary), args.Error(1)
}

var _ portssvc.CashDrawerSvc = (*MockCashService)(nil)

// --- Mock ReminderService ---
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) GetReminder(ctx context.Context, reminderID int64) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}
func (m *MockReminderService) ListReminders(ctx context.Context, filter domain.ReminderFilter) ([]domain.Reminder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}
func (m *MockReminderService) ListDue(ctx context.Context, filter domain.ReminderFilter) (*domain.DueList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DueList), args.Error(1)
}
func (m *MockReminderService) GetSummary(ctx context.Context) (*domain.ReminderSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReminderSummary), args.Error(1)
}
func (m *MockReminderService) CreateReminder(ctx context.Context, reminder domain.Reminder, actorID string) (*domain.Reminder, error) {
	args := m.Called(ctx, reminder, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}
func (m *MockReminderService) UpdateReminder(ctx context.Context, reminderID int64, patch domain.ReminderPatch, actorID string) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID, patch, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}
func (m *MockReminderService) DeleteReminder(ctx context.Context, reminderID int64, actorID string) error {
	args := m.Called(ctx, reminderID, actorID)
	return args.Error(0)
}
func (m *MockReminderService) SnoozeReminder(ctx context.Context, reminderID int64, until time.Time, actorID string) error {
	args := m.Called(ctx, reminderID, until, actorID)
	return args.Error(0)
}
func (m *MockReminderService) ResolveReminder(ctx context.Context, reminderID int64, actorID string) (domain.OperationResult, error) {
	args := m.Called(ctx, reminderID, actorID)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}

var _ portssvc.ReminderSvcFacade = (*MockReminderService)(nil)

// --- Mock NoteService ---
type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(ctx context.Context, note domain.Note, actorID string) (*domain.Note, error) {
	args := m.Called(ctx, note, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}
func (m *MockNoteService) GetNote(ctx context.Context, noteID int64) (*domain.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}
func (m *MockNoteService) ListNotes(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Note), args.Error(1)
}
func (m *MockNoteService) UpdateNote(ctx context.Context, noteID int64, patch domain.NotePatch, actorID string) (*domain.Note, error) {
	args := m.Called(ctx, noteID, patch, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}
func (m *MockNoteService) DeleteNote(ctx context.Context, noteID int64, actorID string) error {
	args := m.Called(ctx, noteID, actorID)
	return args.Error(0)
}
func (m *MockNoteService) CompleteTask(ctx context.Context, noteID int64, actorID string) (*domain.Note, error) {
	args := m.Called(ctx, noteID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

var _ portssvc.NoteSvcFacade = (*MockNoteService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetBalanceReport(ctx context.Context, filter domain.BalanceReportFilter) (*domain.BalanceReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceReport), args.Error(1)
}
func (m *MockReportingService) GetInstrumentReport(ctx context.Context, rng domain.DateRange) (*domain.InstrumentReport, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstrumentReport), args.Error(1)
}
func (m *MockReportingService) GetCashFlowReport(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) (*domain.CashFlowReport, error) {
	args := m.Called(ctx, rng, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowReport), args.Error(1)
}
func (m *MockReportingService) GetAgingReport(ctx context.Context, asOf time.Time) (*domain.AgingReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgingReport), args.Error(1)
}
func (m *MockReportingService) GetDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock ExportService ---
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, req domain.ExportRequest) (*domain.ExportFile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportFile), args.Error(1)
}

var _ portssvc.ExportService = (*MockExportService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) CreateUser(ctx context.Context, username, name, password string) (*domain.User, error) {
	args := m.Called(ctx, username, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)
