package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Ledger       LedgerSvcFacade
	Instrument   InstrumentSvcFacade
	Settlement   SettlementSvc
	Cash         CashDrawerSvc
	Reminder     ReminderSvcFacade
	Note         NoteSvcFacade
	Reporting    ReportingService
	Export       ExportService
	User         UserSvcFacade
	TokenService TokenSvcFacade
}
