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
	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/jackc/pgx/v5"
)

// cashService implements the cash drawer.
type cashService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	cashRepo        portsrepo.CashRepositoryFacade
	poster          ledgerPoster
	defaultCurrency string
}

// NewCashService creates a new cash drawer service.
func NewCashService(txManager portsrepo.TransactionManager, cashRepo portsrepo.CashRepositoryFacade, accountRepo portsrepo.AccountTransactionSupport, ledgerRepo portsrepo.LedgerTransactionSupport, defaultCurrency string, options ...ServiceOption) portssvc.CashDrawerSvc {
	return &cashService{
		BaseService:     newBaseService(options),
		txManager:       txManager,
		cashRepo:        cashRepo,
		poster:          ledgerPoster{accounts: accountRepo, ledger: ledgerRepo},
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.CashDrawerSvc = (*cashService)(nil)

// RecordEntry appends a drawer entry. When the entry names an account the
// opposite ledger effect is posted in the same transaction.
func (s *cashService) RecordEntry(ctx context.Context, entry domain.CashEntry, actorID string) (domain.OperationResult, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return businessResult(err)
	}
	if entry.PaymentMethod == "" {
		entry.PaymentMethod = domain.PaymentCash
	}
	entry.Category = strings.TrimSpace(entry.Category)
	if err := entry.Validate(); err != nil {
		return businessResult(err)
	}
	if entry.AccountID != nil && *entry.AccountID <= 0 {
		return businessResult(fmt.Errorf("%w: invalid account id", apperrors.ErrValidation))
	}

	now := s.Now()
	entry.EntryID = 0
	if entry.Currency == "" {
		entry.Currency = s.defaultCurrency
	}
	if entry.TransactionDate.IsZero() {
		entry.TransactionDate = now
	}
	entry.TransactionDate = domain.DateOf(entry.TransactionDate)
	entry.CreatedAt = now
	entry.CreatedBy = actorID

	var ledgerTxn domain.AccountTransaction
	err := s.inTx(ctx, s.txManager, func(tx pgx.Tx) error {
		id, err := s.cashRepo.SaveEntryInTx(ctx, tx, entry)
		if err != nil {
			return err
		}
		entry.EntryID = id

		if entry.AccountID == nil {
			return nil
		}
		description := entry.Description
		if description == "" {
			description = entry.Category
		}
		ref := id
		posting := domain.LedgerPosting{
			AccountID:       *entry.AccountID,
			Amount:          entry.LedgerAmount(),
			Description:     description,
			Reference:       domain.Reference{Kind: domain.ReferenceCash, ID: &ref},
			TransactionDate: entry.TransactionDate,
		}
		ledgerTxn, err = s.poster.post(ctx, tx, posting, actorID, now)
		return err
	})
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to record cash entry", slog.String("kind", string(entry.Kind)))
		}
		return businessResult(err)
	}

	s.LogInfo(ctx, "Cash entry recorded",
		slog.Int64("entry_id", entry.EntryID),
		slog.String("kind", string(entry.Kind)),
		slog.String("amount", entry.Amount.String()),
		slog.Int64("ledger_transaction_id", ledgerTxn.TransactionID))
	s.Track(actorID, "cash_entry_recorded", map[string]any{
		"kind":        string(entry.Kind),
		"category":    entry.Category,
		"with_ledger": entry.AccountID != nil,
	})

	label := "Income"
	if entry.Kind == domain.Expense {
		label = "Expense"
	}
	res := domain.Succeeded(fmt.Sprintf("%s of %s %s recorded", label, utils.FormatAmount(entry.Amount), entry.Currency))
	res.ID = entry.EntryID
	return res, nil
}

func (s *cashService) GetEntry(ctx context.Context, entryID int64) (*domain.CashEntry, error) {
	entry, err := s.cashRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to get cash entry", slog.Int64("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *cashService) ListEntries(ctx context.Context, filter domain.CashFilter) ([]domain.CashEntry, error) {
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown cash kind %q", apperrors.ErrValidation, *filter.Kind)
	}
	if filter.PaymentMethod != nil && !filter.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, *filter.PaymentMethod)
	}
	if err := filter.Range.Validate(); err != nil {
		return nil, err
	}
	filter.Page = filter.Page.Normalize()
	entries, err := s.cashRepo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash entries")
		return nil, err
	}
	return entries, nil
}

// GetDrawerBalance totals the drawer for all time, today, the trailing week
// and the current month.
func (s *cashService) GetDrawerBalance(ctx context.Context) (*domain.DrawerBalance, error) {
	today, week, month := domain.DrawerWindows(s.Now())
	var balance domain.DrawerBalance
	type window struct {
		rng  domain.DateRange
		dest *domain.CashTotals
	}
	windows := []window{
		{domain.DateRange{}, &balance.AllTime},
		{today, &balance.Today},
		{week, &balance.ThisWeek},
		{month, &balance.ThisMonth},
	}
	for _, w := range windows {
		totals, _, err := s.cashRepo.SumTotals(ctx, w.rng)
		if err != nil {
			s.LogError(ctx, err, "Failed to total cash drawer")
			return nil, err
		}
		*w.dest = totals
	}
	return &balance, nil
}

func (s *cashService) GetCategoryTotals(ctx context.Context, rng domain.DateRange, kind *domain.CashKind) ([]domain.CategoryTotal, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if kind != nil && !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown cash kind %q", apperrors.ErrValidation, *kind)
	}
	totals, err := s.cashRepo.SumByCategory(ctx, rng, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to total cash categories")
		return nil, err
	}
	return totals, nil
}

func (s *cashService) GetCashFlowSeries(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) ([]domain.CashFlowBucket, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: unknown period %q", apperrors.ErrValidation, period)
	}
	series, err := s.cashRepo.SumByPeriod(ctx, rng, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to build cash flow series", slog.String("period", string(period)))
		return nil, err
	}
	return series, nil
}

// GetFinancialSummary reports profit and loss for the range.
func (s *cashService) GetFinancialSummary(ctx context.Context, rng domain.DateRange) (*domain.FinancialSummary, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	totals, count, err := s.cashRepo.SumTotals(ctx, rng)
	if err != nil {
		s.LogError(ctx, err, "Failed to total cash drawer")
		return nil, err
	}
	byCategory, err := s.cashRepo.SumByCategory(ctx, rng, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to total cash categories")
		return nil, err
	}
	trend, err := s.cashRepo.SumByPeriod(ctx, rng, domain.PeriodDay)
	if err != nil {
		s.LogError(ctx, err, "Failed to build daily trend")
		return nil, err
	}

	summary := &domain.FinancialSummary{
		Range:        rng,
		Totals:       totals,
		ProfitMargin: domain.ProfitMargin(totals),
		IncomeByCat:  []domain.CategoryTotal{},
		ExpenseByCat: []domain.CategoryTotal{},
		DailyTrend:   trend,
		EntryCount:   count,
	}
	for _, c := range byCategory {
		if c.Kind == domain.Income {
			summary.IncomeByCat = append(summary.IncomeByCat, c)
		} else {
			summary.ExpenseByCat = append(summary.ExpenseByCat, c)
		}
	}
	return summary, nil
}
