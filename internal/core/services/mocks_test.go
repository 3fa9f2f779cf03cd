package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionManager ---
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// expectTx sets up a transaction that begins, commits and is always rolled
// back by the deferred cleanup.
func (m *MockTxManager) expectTx(commit bool) {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	if commit {
		m.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	}
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountSummary), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID int64, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) (int64, error) {
	args := m.Called(ctx, tx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID int64, balance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, balance, userID, now)
	return args.Error(0)
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, accountID int64, rng domain.DateRange, afterID int64, limit int) ([]domain.AccountTransaction, error) {
	args := m.Called(ctx, accountID, rng, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindOpeningBalance(ctx context.Context, accountID int64, rng domain.DateRange) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, rng)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ListAllTransactions(ctx context.Context, accountID int64) ([]domain.AccountTransaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.AccountTransaction) (int64, error) {
	args := m.Called(ctx, tx, txn)
	return args.Get(0).(int64), args.Error(1)
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

// --- Mock InstrumentRepository ---
type MockInstrumentRepository struct {
	mock.Mock
}

func (m *MockInstrumentRepository) FindInstrumentByID(ctx context.Context, instrumentID int64) (*domain.Instrument, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) ListInstruments(ctx context.Context, filter domain.InstrumentFilter) ([]domain.Instrument, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) ListInstrumentTransactions(ctx context.Context, instrumentID int64) ([]domain.InstrumentTransaction, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstrumentTransaction), args.Error(1)
}

func (m *MockInstrumentRepository) UpdateInstrumentDetails(ctx context.Context, instrument domain.Instrument) error {
	args := m.Called(ctx, instrument)
	return args.Error(0)
}

func (m *MockInstrumentRepository) SaveInstrumentInTx(ctx context.Context, tx pgx.Tx, instrument domain.Instrument) (int64, error) {
	args := m.Called(ctx, tx, instrument)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstrumentRepository) FindInstrumentForUpdate(ctx context.Context, tx pgx.Tx, instrumentID int64) (*domain.Instrument, error) {
	args := m.Called(ctx, tx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) UpdateInstrumentStateInTx(ctx context.Context, tx pgx.Tx, instrument domain.Instrument) error {
	args := m.Called(ctx, tx, instrument)
	return args.Error(0)
}

func (m *MockInstrumentRepository) SaveInstrumentTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.InstrumentTransaction) (int64, error) {
	args := m.Called(ctx, tx, txn)
	return args.Get(0).(int64), args.Error(1)
}

var _ portsrepo.InstrumentRepositoryFacade = (*MockInstrumentRepository)(nil)

// --- Mock CashRepository ---
type MockCashRepository struct {
	mock.Mock
}

func (m *MockCashRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.CashEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashEntry), args.Error(1)
}

func (m *MockCashRepository) ListEntries(ctx context.Context, filter domain.CashFilter) ([]domain.CashEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashEntry), args.Error(1)
}

func (m *MockCashRepository) SumTotals(ctx context.Context, rng domain.DateRange) (domain.CashTotals, int, error) {
	args := m.Called(ctx, rng)
	return args.Get(0).(domain.CashTotals), args.Int(1), args.Error(2)
}

func (m *MockCashRepository) SumByCategory(ctx context.Context, rng domain.DateRange, kind *domain.CashKind) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, rng, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockCashRepository) SumByPeriod(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) ([]domain.CashFlowBucket, error) {
	args := m.Called(ctx, rng, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashFlowBucket), args.Error(1)
}

func (m *MockCashRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.CashEntry) (int64, error) {
	args := m.Called(ctx, tx, entry)
	return args.Get(0).(int64), args.Error(1)
}

var _ portsrepo.CashRepositoryFacade = (*MockCashRepository)(nil)

// --- Mock ReminderRepository ---
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) FindReminderByID(ctx context.Context, reminderID int64) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) ListReminders(ctx context.Context, filter domain.ReminderFilter) ([]domain.Reminder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) SaveReminder(ctx context.Context, reminder domain.Reminder) (int64, error) {
	args := m.Called(ctx, reminder)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReminderRepository) UpdateReminder(ctx context.Context, reminder domain.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) SnoozeReminder(ctx context.Context, reminderID int64, until time.Time, userID string, now time.Time) error {
	args := m.Called(ctx, reminderID, until, userID, now)
	return args.Error(0)
}

func (m *MockReminderRepository) DeleteReminder(ctx context.Context, reminderID int64) error {
	args := m.Called(ctx, reminderID)
	return args.Error(0)
}

func (m *MockReminderRepository) SaveReminderInTx(ctx context.Context, tx pgx.Tx, reminder domain.Reminder) (int64, error) {
	args := m.Called(ctx, tx, reminder)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReminderRepository) FindReminderForUpdate(ctx context.Context, tx pgx.Tx, reminderID int64) (*domain.Reminder, error) {
	args := m.Called(ctx, tx, reminderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) CompleteReminderInTx(ctx context.Context, tx pgx.Tx, reminderID int64, userID string, now time.Time) error {
	args := m.Called(ctx, tx, reminderID, userID, now)
	return args.Error(0)
}

func (m *MockReminderRepository) CompletePendingForInstrumentInTx(ctx context.Context, tx pgx.Tx, instrumentID int64, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, instrumentID, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

var _ portsrepo.ReminderRepositoryFacade = (*MockReminderRepository)(nil)

// --- Mock NoteRepository ---
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) FindNoteByID(ctx context.Context, noteID int64) (*domain.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) ListNotes(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Note), args.Error(1)
}

func (m *MockNoteRepository) CountPendingTasksDue(ctx context.Context, asOf time.Time) (int, error) {
	args := m.Called(ctx, asOf)
	return args.Int(0), args.Error(1)
}

func (m *MockNoteRepository) SaveNote(ctx context.Context, note domain.Note) (int64, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNoteRepository) UpdateNote(ctx context.Context, note domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) DeleteNote(ctx context.Context, noteID int64) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

var _ portsrepo.NoteRepositoryFacade = (*MockNoteRepository)(nil)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListAccountBalances(ctx context.Context, filter domain.BalanceReportFilter) ([]domain.AccountBalanceRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) CountActiveAccounts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

// --- Mock EventTracker ---
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

// fixed test clock and helpers
var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }
