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
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo  portsrepo.ReportingRepository
	instrumentRepo portsrepo.InstrumentReader
	cashRepo       portsrepo.CashReader
	reminderRepo   portsrepo.ReminderReader
	noteRepo       portsrepo.NoteReader
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository, instrumentRepo portsrepo.InstrumentReader, cashRepo portsrepo.CashReader, reminderRepo portsrepo.ReminderReader, noteRepo portsrepo.NoteReader, options ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService:    newBaseService(options),
		reportingRepo:  reportingRepo,
		instrumentRepo: instrumentRepo,
		cashRepo:       cashRepo,
		reminderRepo:   reminderRepo,
		noteRepo:       noteRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetBalanceReport lists account balances with receivable and payable totals.
func (s *reportingService) GetBalanceReport(ctx context.Context, filter domain.BalanceReportFilter) (*domain.BalanceReport, error) {
	if filter.Mode == "" {
		filter.Mode = domain.BalanceAll
	}
	if !filter.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown balance mode %q", apperrors.ErrValidation, filter.Mode)
	}
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, *filter.Kind)
	}
	if filter.MinBalance != nil && filter.MinBalance.IsNegative() {
		return nil, fmt.Errorf("%w: minimum balance cannot be negative", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.ListAccountBalances(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve account balances", slog.String("mode", string(filter.Mode)))
		return nil, fmt.Errorf("failed to retrieve account balances: %w", err)
	}
	rep := domain.NewBalanceReport(rows)
	s.LogInfo(ctx, "Balance report generated", slog.Int("row_count", len(rep.Rows)))
	return &rep, nil
}

// GetInstrumentReport covers instruments due within the range.
func (s *reportingService) GetInstrumentReport(ctx context.Context, rng domain.DateRange) (*domain.InstrumentReport, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	instruments, err := s.instrumentRepo.ListInstruments(ctx, domain.InstrumentFilter{
		Due:  rng,
		Page: domain.Page{Limit: domain.Unlimited},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve instruments for report")
		return nil, fmt.Errorf("failed to retrieve instruments: %w", err)
	}
	rep := domain.NewInstrumentReport(rng, instruments)
	return &rep, nil
}

func (s *reportingService) GetCashFlowReport(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) (*domain.CashFlowReport, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if period == "" {
		period = domain.PeriodMonth
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: unknown period %q", apperrors.ErrValidation, period)
	}

	totals, _, err := s.cashRepo.SumTotals(ctx, rng)
	if err != nil {
		s.LogError(ctx, err, "Failed to total cash flow")
		return nil, fmt.Errorf("failed to total cash flow: %w", err)
	}
	byCategory, err := s.cashRepo.SumByCategory(ctx, rng, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to group cash flow by category")
		return nil, fmt.Errorf("failed to group cash flow: %w", err)
	}
	series, err := s.cashRepo.SumByPeriod(ctx, rng, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to build cash flow series", slog.String("period", string(period)))
		return nil, fmt.Errorf("failed to build cash flow series: %w", err)
	}
	return &domain.CashFlowReport{
		Range:      rng,
		Period:     period,
		Totals:     totals,
		ByCategory: byCategory,
		Series:     series,
	}, nil
}

// GetAgingReport ages pending instruments; a zero asOf means today.
func (s *reportingService) GetAgingReport(ctx context.Context, asOf time.Time) (*domain.AgingReport, error) {
	if asOf.IsZero() {
		asOf = s.Now()
	}
	pending := domain.StatusPending
	instruments, err := s.instrumentRepo.ListInstruments(ctx, domain.InstrumentFilter{
		Status: &pending,
		Page:   domain.Page{Limit: domain.Unlimited},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve pending instruments for aging")
		return nil, fmt.Errorf("failed to retrieve instruments: %w", err)
	}
	rep := domain.BuildAging(instruments, asOf)
	return &rep, nil
}

// GetDashboard assembles the landing-page snapshot.
func (s *reportingService) GetDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	now := s.Now()
	var stats domain.DashboardStats

	today, week, month := domain.DrawerWindows(now)
	for _, w := range []struct {
		rng  domain.DateRange
		dest *domain.CashTotals
	}{
		{domain.DateRange{}, &stats.Drawer.AllTime},
		{today, &stats.Drawer.Today},
		{week, &stats.Drawer.ThisWeek},
		{month, &stats.Drawer.ThisMonth},
	} {
		totals, _, err := s.cashRepo.SumTotals(ctx, w.rng)
		if err != nil {
			s.LogError(ctx, err, "Failed to total cash drawer for dashboard")
			return nil, err
		}
		*w.dest = totals
	}

	rows, err := s.reportingRepo.ListAccountBalances(ctx, domain.BalanceReportFilter{Mode: domain.BalanceNonZero})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balances for dashboard")
		return nil, err
	}
	balances := domain.NewBalanceReport(rows)
	stats.TotalReceivable = balances.TotalReceivable
	stats.TotalPayable = balances.TotalPayable

	if stats.ActiveAccounts, err = s.reportingRepo.CountActiveAccounts(ctx); err != nil {
		s.LogError(ctx, err, "Failed to count active accounts")
		return nil, err
	}

	instruments, err := s.instrumentRepo.ListInstruments(ctx, domain.InstrumentFilter{Page: domain.Page{Limit: domain.Unlimited}})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve instruments for dashboard")
		return nil, err
	}
	stats.Instruments = domain.SummarizeInstruments(instruments, now)

	pending := domain.ReminderPending
	reminders, err := s.reminderRepo.ListReminders(ctx, domain.ReminderFilter{Status: &pending, Page: domain.Page{Limit: domain.Unlimited}})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve reminders for dashboard")
		return nil, err
	}
	stats.Reminders = domain.SummarizeReminders(reminders, now)

	if stats.PendingTasksDue, err = s.noteRepo.CountPendingTasksDue(ctx, domain.DateOf(now)); err != nil {
		s.LogError(ctx, err, "Failed to count due tasks")
		return nil, err
	}

	s.LogDebug(ctx, "Dashboard generated", slog.Int("active_accounts", stats.ActiveAccounts))
	return &stats, nil
}
