package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager scopes a multi-table write (settlement, cash posting,
// reminder recurrence) to one pgx transaction. The *InTx repository methods
// take the returned tx.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is safe to call after Commit.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
