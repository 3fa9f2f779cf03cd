package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager      TransactionManager
	AccountRepo    AccountRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	InstrumentRepo InstrumentRepositoryFacade
	CashRepo       CashRepositoryFacade
	ReminderRepo   ReminderRepositoryFacade
	NoteRepo       NoteRepositoryFacade
	ReportingRepo  ReportingRepository
	UserRepo       UserRepositoryFacade
}
