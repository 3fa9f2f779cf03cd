package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InstrumentReader defines read operations for checks and promissory notes
type InstrumentReader interface {
	// FindInstrumentByID retrieves an instrument by its ID.
	FindInstrumentByID(ctx context.Context, instrumentID int64) (*domain.Instrument, error)

	// ListInstruments retrieves instruments matching the filter, ordered by due date.
	ListInstruments(ctx context.Context, filter domain.InstrumentFilter) ([]domain.Instrument, error)

	// ListInstrumentTransactions returns the lifecycle history of an instrument.
	ListInstrumentTransactions(ctx context.Context, instrumentID int64) ([]domain.InstrumentTransaction, error)
}

// InstrumentWriter defines write operations outside the settlement flow
type InstrumentWriter interface {
	// UpdateInstrumentDetails stores non-financial fields of a pending instrument.
	UpdateInstrumentDetails(ctx context.Context, instrument domain.Instrument) error
}

// InstrumentTransactionSupport defines operations that run inside a caller's transaction
type InstrumentTransactionSupport interface {
	// SaveInstrumentInTx persists a new instrument and returns its ID.
	SaveInstrumentInTx(ctx context.Context, tx pgx.Tx, instrument domain.Instrument) (int64, error)

	// FindInstrumentForUpdate selects an instrument and locks it for update.
	FindInstrumentForUpdate(ctx context.Context, tx pgx.Tx, instrumentID int64) (*domain.Instrument, error)

	// UpdateInstrumentStateInTx stores status, paid amount and endorsement fields.
	UpdateInstrumentStateInTx(ctx context.Context, tx pgx.Tx, instrument domain.Instrument) error

	// SaveInstrumentTransactionInTx appends a lifecycle row and returns its ID.
	SaveInstrumentTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.InstrumentTransaction) (int64, error)
}

// InstrumentRepositoryFacade combines all instrument-related repository interfaces
type InstrumentRepositoryFacade interface {
	InstrumentReader
	InstrumentWriter
	InstrumentTransactionSupport
}
