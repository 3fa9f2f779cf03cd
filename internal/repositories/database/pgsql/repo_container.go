package pgsql

import (
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      &BaseRepository{Pool: dbPool},
		AccountRepo:    newPgxAccountRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
		InstrumentRepo: newPgxInstrumentRepository(dbPool),
		CashRepo:       newPgxCashRepository(dbPool),
		ReminderRepo:   newPgxReminderRepository(dbPool),
		NoteRepo:       newPgxNoteRepository(dbPool),
		ReportingRepo:  newReportingRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
	}
}
