package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	accountRepo     portsrepo.AccountRepositoryFacade
	poster          ledgerPoster
	defaultCurrency string
}

// NewAccountService creates a new account service. defaultCurrency is used
// for accounts created without one.
func NewAccountService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerTransactionSupport, defaultCurrency string, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:     newBaseService(options),
		txManager:       txManager,
		accountRepo:     accountRepo,
		poster:          ledgerPoster{accounts: accountRepo, ledger: ledgerRepo},
		defaultCurrency: defaultCurrency,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// prepareNew normalizes a new account and splits off its opening balance.
func (s *accountService) prepareNew(account domain.Account, actorID string) (domain.Account, decimal.Decimal) {
	opening := account.Balance
	account.AccountID = 0
	account.Name = strings.TrimSpace(account.Name)
	if account.Currency == "" {
		account.Currency = s.defaultCurrency
	}
	account.Balance = decimal.Zero
	account.IsActive = true
	account.AuditFields = domain.NewAuditFields(actorID, s.Now())
	return account, opening
}

// createInTx saves the account and posts its opening balance.
func (s *accountService) createInTx(ctx context.Context, tx pgx.Tx, account domain.Account, opening decimal.Decimal, actorID string) (domain.Account, error) {
	id, err := s.accountRepo.SaveAccountInTx(ctx, tx, account)
	if err != nil {
		return domain.Account{}, err
	}
	account.AccountID = id

	if !opening.IsZero() {
		posting := domain.LedgerPosting{
			AccountID:   id,
			Amount:      opening,
			Description: "Opening balance",
			Reference:   domain.Reference{Kind: domain.ReferenceOpening},
		}
		if _, err := s.poster.post(ctx, tx, posting, actorID, account.CreatedAt); err != nil {
			return domain.Account{}, err
		}
		account.Balance = opening
	}
	return account, nil
}

func (s *accountService) CreateAccount(ctx context.Context, account domain.Account, actorID string) (*domain.Account, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	account, opening := s.prepareNew(account, actorID)
	if err := account.Validate(); err != nil {
		return nil, err
	}

	var created domain.Account
	err := s.inTx(ctx, s.txManager, func(tx pgx.Tx) error {
		var createErr error
		created, createErr = s.createInTx(ctx, tx, account, opening, actorID)
		return createErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("name", account.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.Int64("account_id", created.AccountID),
		slog.String("opening_balance", opening.String()))
	return &created, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to get account", slog.Int64("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountSummary, error) {
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, *filter.Kind)
	}
	filter.Page = filter.Page.Normalize()
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID int64, patch domain.AccountPatch, actorID string) (*domain.Account, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	patch.Apply(account)
	account.Name = strings.TrimSpace(account.Name)
	if err := account.Validate(); err != nil {
		return nil, err
	}
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = actorID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.Int64("account_id", accountID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID int64, actorID string) error {
	if err := domain.RequireActor(actorID); err != nil {
		return err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, actorID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.Int64("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.Int64("account_id", accountID))
	return nil
}
