package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InstrumentReaderSvc defines reads over checks and promissory notes
type InstrumentReaderSvc interface {
	GetInstrument(ctx context.Context, instrumentID int64) (*domain.InstrumentDetail, error)
	ListInstruments(ctx context.Context, filter domain.InstrumentFilter) ([]domain.Instrument, error)
	ListInstrumentTransactions(ctx context.Context, instrumentID int64) ([]domain.InstrumentTransaction, error)

	// ListUpcoming returns pending instruments due within the next days.
	ListUpcoming(ctx context.Context, days int) ([]domain.Instrument, error)

	// ListOverdue returns pending instruments past their due date.
	ListOverdue(ctx context.Context) ([]domain.Instrument, error)

	GetSummary(ctx context.Context) (*domain.InstrumentSummary, error)
}

// InstrumentWriterSvc defines registration and detail edits
type InstrumentWriterSvc interface {
	// RegisterInstrument stores a pending instrument with its created
	// transaction and, when enabled, an automatic reminder.
	RegisterInstrument(ctx context.Context, instrument domain.Instrument, actorID string) (domain.OperationResult, error)

	// UpdateInstrument applies a patch to a pending instrument.
	UpdateInstrument(ctx context.Context, instrumentID int64, patch domain.InstrumentPatch, actorID string) (*domain.Instrument, error)
}

// InstrumentSvcFacade combines the instrument registry interfaces
type InstrumentSvcFacade interface {
	InstrumentReaderSvc
	InstrumentWriterSvc
}

// SettlementSvc moves pending instruments to their terminal states. Each call
// runs as one database transaction.
type SettlementSvc interface {
	// Settle applies a settlement mode. amount is only read for partial collections.
	Settle(ctx context.Context, instrumentID int64, mode domain.SettlementMode, amount *decimal.Decimal, description string, actorID string) (domain.OperationResult, error)

	CollectInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error)
	PartiallyCollect(ctx context.Context, instrumentID int64, amount decimal.Decimal, description string, actorID string) (domain.OperationResult, error)
	ReturnInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error)
	CancelInstrument(ctx context.Context, instrumentID int64, description string, actorID string) (domain.OperationResult, error)
	EndorseInstrument(ctx context.Context, instrumentID int64, endorsement domain.Endorsement, description string, actorID string) (domain.OperationResult, error)
}
