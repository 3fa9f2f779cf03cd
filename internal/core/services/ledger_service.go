package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/SscSPs/bookkeeping_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// ledgerPoster applies a signed amount to an account inside a caller's
// transaction. It is shared by every flow that moves a balance.
type ledgerPoster struct {
	accounts portsrepo.AccountTransactionSupport
	ledger   portsrepo.LedgerTransactionSupport
}

// post locks the account row, appends the ledger line and stores the new
// running balance.
func (p ledgerPoster) post(ctx context.Context, tx pgx.Tx, posting domain.LedgerPosting, actorID string, now time.Time) (domain.AccountTransaction, error) {
	if err := posting.Validate(); err != nil {
		return domain.AccountTransaction{}, err
	}
	account, err := p.accounts.FindAccountForUpdate(ctx, tx, posting.AccountID)
	if err != nil {
		return domain.AccountTransaction{}, err
	}

	txn, balance := posting.Post(account.Balance, actorID, now)
	id, err := p.ledger.SaveTransactionInTx(ctx, tx, txn)
	if err != nil {
		return domain.AccountTransaction{}, err
	}
	txn.TransactionID = id

	if err := p.accounts.UpdateAccountBalanceInTx(ctx, tx, posting.AccountID, balance, actorID, now); err != nil {
		return domain.AccountTransaction{}, err
	}
	return txn, nil
}

// ledgerService implements the account ledger store.
type ledgerService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	poster      ledgerPoster
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(options),
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		poster:      ledgerPoster{accounts: accountRepo, ledger: ledgerRepo},
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ApplyAccountTransaction posts a signed amount to one account.
func (s *ledgerService) ApplyAccountTransaction(ctx context.Context, posting domain.LedgerPosting, actorID string) (domain.OperationResult, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return businessResult(err)
	}
	if err := posting.Validate(); err != nil {
		return businessResult(err)
	}

	now := s.Now()
	var txn domain.AccountTransaction
	err := s.inTx(ctx, s.txManager, func(tx pgx.Tx) error {
		var postErr error
		txn, postErr = s.poster.post(ctx, tx, posting, actorID, now)
		return postErr
	})
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to apply account transaction", slog.Int64("account_id", posting.AccountID))
		}
		return businessResult(err)
	}

	s.LogInfo(ctx, "Account transaction applied",
		slog.Int64("account_id", posting.AccountID),
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("kind", string(txn.Kind)),
		slog.String("amount", txn.Amount.String()))

	res := domain.Succeeded(fmt.Sprintf("Transaction recorded. New balance: %s", utils.FormatAmount(txn.BalanceAfter)))
	res.ID = txn.TransactionID
	return res, nil
}

// GetStatement builds the account statement for the range.
func (s *ledgerService) GetStatement(ctx context.Context, accountID int64, rng domain.DateRange) (*domain.Statement, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	opening, err := s.ledgerRepo.FindOpeningBalance(ctx, accountID, rng)
	if err != nil {
		s.LogError(ctx, err, "Failed to load opening balance", slog.Int64("account_id", accountID))
		return nil, err
	}
	txns, err := s.ledgerRepo.ListTransactions(ctx, accountID, rng, 0, domain.Unlimited)
	if err != nil {
		s.LogError(ctx, err, "Failed to load statement transactions", slog.Int64("account_id", accountID))
		return nil, err
	}

	st := domain.NewStatement(*account, rng, opening, txns)
	return &st, nil
}

// ListTransactions returns one keyset page of an account's ledger.
func (s *ledgerService) ListTransactions(ctx context.Context, accountID int64, rng domain.DateRange, pageToken string, limit int) ([]domain.AccountTransaction, string, error) {
	if err := rng.Validate(); err != nil {
		return nil, "", err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, "", err
	}

	var afterID int64
	if pageToken != "" {
		_, id, err := pagination.DecodeToken(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		afterID = id
	}
	limit = domain.Page{Limit: limit}.Normalize().Limit

	// One extra row tells us whether another page exists.
	txns, err := s.ledgerRepo.ListTransactions(ctx, accountID, rng, afterID, limit+1)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int64("account_id", accountID))
		return nil, "", err
	}

	nextToken := ""
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		nextToken = pagination.EncodeToken(last.TransactionDate, last.TransactionID)
	}
	return txns, nextToken, nil
}

// ReconcileAccount replays the stored history and compares it with the
// cached balance.
func (s *ledgerService) ReconcileAccount(ctx context.Context, accountID int64) (*domain.Reconciliation, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	txns, err := s.ledgerRepo.ListAllTransactions(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account history", slog.Int64("account_id", accountID))
		return nil, err
	}

	rec := domain.Replay(accountID, account.Balance, txns)
	if !rec.Consistent() {
		s.GetLogger(ctx).Warn("Account balance does not match its history",
			slog.Int64("account_id", accountID),
			slog.String("stored", rec.StoredBalance.String()),
			slog.String("replayed", rec.ReplayedBalance.String()))
	}
	return &rec, nil
}
