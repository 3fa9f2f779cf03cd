package services

import (
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// tracker may be nil when analytics are disabled.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, tracker EventTracker) *portssvc.ServiceContainer {
	var options []ServiceOption
	if tracker != nil {
		options = append(options, WithEventTracker(tracker))
	}

	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(repos.TxManager, repos.AccountRepo, repos.LedgerRepo, options...)
	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, repos.LedgerRepo, cfg.DefaultCurrency, options...)

	container.Instrument = NewInstrumentService(
		repos.TxManager,
		repos.InstrumentRepo,
		repos.ReminderRepo,
		ReminderSettings{
			AutoCreate:         cfg.ReminderAutoCreate,
			LeadDays:           cfg.ReminderInstrumentLeadDays,
			UpcomingWindowDays: cfg.ReminderUpcomingWindowDays,
		},
		cfg.DefaultCurrency,
		options...,
	)
	container.Settlement = NewSettlementService(
		repos.TxManager,
		repos.InstrumentRepo,
		repos.CashRepo,
		repos.AccountRepo,
		repos.LedgerRepo,
		repos.ReminderRepo,
		options...,
	)
	container.Cash = NewCashService(repos.TxManager, repos.CashRepo, repos.AccountRepo, repos.LedgerRepo, cfg.DefaultCurrency, options...)
	container.Reminder = NewReminderService(repos.TxManager, repos.ReminderRepo, options...)
	container.Note = NewNoteService(repos.NoteRepo, options...)

	container.Reporting = NewReportingService(repos.ReportingRepo, repos.InstrumentRepo, repos.CashRepo, repos.ReminderRepo, repos.NoteRepo, options...)
	container.Export = NewExportService(container.Ledger, container.Reporting, repos.AccountRepo, repos.InstrumentRepo, repos.CashRepo, options...)

	container.User = NewUserService(repos.UserRepo, options...)
	container.TokenService = NewTokenService(cfg, options...)

	return container
}
