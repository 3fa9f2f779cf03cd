package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// ReportingService defines the interface for report generation
type ReportingService interface {
	GetBalanceReport(ctx context.Context, filter domain.BalanceReportFilter) (*domain.BalanceReport, error)
	GetInstrumentReport(ctx context.Context, rng domain.DateRange) (*domain.InstrumentReport, error)
	GetCashFlowReport(ctx context.Context, rng domain.DateRange, period domain.BucketPeriod) (*domain.CashFlowReport, error)
	GetAgingReport(ctx context.Context, asOf time.Time) (*domain.AgingReport, error)
	GetDashboard(ctx context.Context) (*domain.DashboardStats, error)
}

// ExportService renders reports as downloadable files
type ExportService interface {
	Export(ctx context.Context, req domain.ExportRequest) (*domain.ExportFile, error)
}
