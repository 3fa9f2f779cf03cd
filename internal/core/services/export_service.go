package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/utils/export"
)

// exportService renders reports as CSV or XLSX files.
type exportService struct {
	BaseService
	ledger         portssvc.LedgerReaderSvc
	reporting      portssvc.ReportingService
	accountRepo    portsrepo.AccountReader
	instrumentRepo portsrepo.InstrumentReader
	cashRepo       portsrepo.CashReader
}

// NewExportService creates a new export service on top of the ledger and
// reporting services.
func NewExportService(ledger portssvc.LedgerReaderSvc, reporting portssvc.ReportingService, accountRepo portsrepo.AccountReader, instrumentRepo portsrepo.InstrumentReader, cashRepo portsrepo.CashReader, options ...ServiceOption) portssvc.ExportService {
	return &exportService{
		BaseService:    newBaseService(options),
		ledger:         ledger,
		reporting:      reporting,
		accountRepo:    accountRepo,
		instrumentRepo: instrumentRepo,
		cashRepo:       cashRepo,
	}
}

var _ portssvc.ExportService = (*exportService)(nil)

func (s *exportService) Export(ctx context.Context, req domain.ExportRequest) (*domain.ExportFile, error) {
	if req.Format == domain.FormatCSV && req.Encoding == "" {
		req.Encoding = domain.EncodingUTF8
	}
	if req.Report == domain.ExportCashFlow && req.Period == "" {
		req.Period = domain.PeriodMonth
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		tables []export.Table
		name   string
		err    error
	)
	switch req.Report {
	case domain.ExportStatement:
		tables, err = s.statementTables(ctx, req)
		name = fmt.Sprintf("statement_%d", req.AccountID)
	case domain.ExportBalances:
		tables, err = s.balanceTables(ctx, req)
		name = "account_balances"
	case domain.ExportInstruments:
		tables, err = s.instrumentTables(ctx, req)
		name = "instruments"
	case domain.ExportCashFlow:
		tables, err = s.cashFlowTables(ctx, req)
		name = "cash_flow"
	case domain.ExportCashEntries:
		tables, err = s.cashEntryTables(ctx, req)
		name = "cash_entries"
	case domain.ExportAging:
		tables, err = s.agingTables(ctx)
		name = "aging"
	}
	if err != nil {
		return nil, err
	}

	file := &domain.ExportFile{}
	stamp := s.Now().Format("20060102")
	switch req.Format {
	case domain.FormatXLSX:
		file.Data, err = export.XLSX(tables)
		file.ContentType = export.ContentTypeXLSX
		file.Filename = fmt.Sprintf("%s_%s.xlsx", name, stamp)
	default:
		windows1254 := req.Encoding == domain.EncodingWindows1254
		file.Data, err = export.CSV(tables, windows1254)
		file.ContentType = export.ContentTypeCSV
		if windows1254 {
			file.ContentType = export.ContentTypeCSV1254
		}
		file.Filename = fmt.Sprintf("%s_%s.csv", name, stamp)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to render export", slog.String("report", string(req.Report)), slog.String("format", string(req.Format)))
		return nil, fmt.Errorf("failed to render %s export: %w", req.Report, err)
	}

	s.LogInfo(ctx, "Report exported",
		slog.String("report", string(req.Report)),
		slog.String("format", string(req.Format)),
		slog.Int("bytes", len(file.Data)))
	return file, nil
}

func (s *exportService) statementTables(ctx context.Context, req domain.ExportRequest) ([]export.Table, error) {
	st, err := s.ledger.GetStatement(ctx, req.AccountID, req.Range)
	if err != nil {
		return nil, err
	}
	summary := export.Table{Title: "Summary", Header: []string{"Account", "From", "To", "Opening Balance", "Total Debit", "Total Credit", "Closing Balance"}}
	summary.Append(st.Account.Name, st.Range.From, st.Range.To, st.OpeningBalance, st.TotalDebit, st.TotalCredit, st.ClosingBalance)

	lines := export.Table{Title: "Transactions", Header: []string{"ID", "Date", "Type", "Amount", "Balance After", "Description", "Reference"}}
	for _, t := range st.Transactions {
		lines.Append(t.TransactionID, t.TransactionDate, string(t.Kind), t.Amount, t.BalanceAfter, t.Description, string(t.Reference.Kind))
	}
	return []export.Table{summary, lines}, nil
}

func (s *exportService) balanceTables(ctx context.Context, req domain.ExportRequest) ([]export.Table, error) {
	rep, err := s.reporting.GetBalanceReport(ctx, req.Balances)
	if err != nil {
		return nil, err
	}
	t := export.Table{Title: "Balances", Header: []string{"ID", "Name", "Type", "Phone", "Balance", "Balance Type", "Credit Limit"}}
	for _, r := range rep.Rows {
		t.Append(r.AccountID, r.Name, string(r.Kind), r.Phone, r.Balance, balanceType(r.Balance.Sign()), r.CreditLimit)
	}
	totals := export.Table{Title: "Totals", Header: []string{"Total Receivable", "Total Payable", "Net"}}
	totals.Append(rep.TotalReceivable, rep.TotalPayable, rep.Net)
	return []export.Table{t, totals}, nil
}

func balanceType(sign int) string {
	switch {
	case sign > 0:
		return "receivable"
	case sign < 0:
		return "payable"
	}
	return "settled"
}

// accountNames maps account ids to names for the listing exports.
func (s *exportService) accountNames(ctx context.Context) (map[int64]string, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{Page: domain.Page{Limit: domain.Unlimited}})
	if err != nil {
		s.LogError(ctx, err, "Failed to load account names for export")
		return nil, err
	}
	names := make(map[int64]string, len(accounts))
	for _, a := range accounts {
		names[a.AccountID] = a.Name
	}
	return names, nil
}

func nameOf(names map[int64]string, id *int64) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func (s *exportService) instrumentTables(ctx context.Context, req domain.ExportRequest) ([]export.Table, error) {
	instruments, err := s.instrumentRepo.ListInstruments(ctx, domain.InstrumentFilter{
		Due:  req.Range,
		Page: domain.Page{Limit: domain.Unlimited},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load instruments for export")
		return nil, err
	}
	names, err := s.accountNames(ctx)
	if err != nil {
		return nil, err
	}
	today := s.Now()
	t := export.Table{Title: "Instruments", Header: []string{"ID", "Direction", "Kind", "Serial Number", "Account", "Bank", "Amount", "Paid", "Remaining", "Due Date", "Status"}}
	for _, i := range instruments {
		t.Append(i.InstrumentID, string(i.Direction), string(i.Kind), i.SerialNumber, nameOf(names, i.AccountID), i.Bank.BankName,
			i.Amount, i.PaidAmount, i.Remaining(), i.DueDate, i.DisplayStatus(today, 7))
	}
	return []export.Table{t}, nil
}

func (s *exportService) cashEntryTables(ctx context.Context, req domain.ExportRequest) ([]export.Table, error) {
	entries, err := s.cashRepo.ListEntries(ctx, domain.CashFilter{Range: req.Range, Page: domain.Page{Limit: domain.Unlimited}})
	if err != nil {
		s.LogError(ctx, err, "Failed to load cash entries for export")
		return nil, err
	}
	names, err := s.accountNames(ctx)
	if err != nil {
		return nil, err
	}
	t := export.Table{Title: "Cash Entries", Header: []string{"ID", "Date", "Type", "Category", "Amount", "Description", "Account", "Payment Method"}}
	for _, e := range entries {
		t.Append(e.EntryID, e.TransactionDate, string(e.Kind), e.Category, e.Amount, e.Description, nameOf(names, e.AccountID), string(e.PaymentMethod))
	}
	return []export.Table{t}, nil
}

func (s *exportService) cashFlowTables(ctx context.Context, req domain.ExportRequest) ([]export.Table, error) {
	rep, err := s.reporting.GetCashFlowReport(ctx, req.Range, req.Period)
	if err != nil {
		return nil, err
	}
	totals := export.Table{Title: "Totals", Header: []string{"Income", "Expense", "Net"}}
	totals.Append(rep.Totals.Income, rep.Totals.Expense, rep.Totals.Balance)

	cats := export.Table{Title: "By Category", Header: []string{"Type", "Category", "Count", "Total"}}
	for _, c := range rep.ByCategory {
		cats.Append(string(c.Kind), c.Category, c.Count, c.Total)
	}

	series := export.Table{Title: "Series", Header: []string{"Period Start", "Income", "Expense", "Net"}}
	for _, b := range rep.Series {
		series.Append(b.PeriodStart, b.Income, b.Expense, b.Balance)
	}
	return []export.Table{totals, cats, series}, nil
}

func (s *exportService) agingTables(ctx context.Context) ([]export.Table, error) {
	rep, err := s.reporting.GetAgingReport(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	t := export.Table{Title: "Aging", Header: []string{"Direction", "Bucket", "Count", "Total"}}
	for _, side := range []struct {
		dir     domain.Direction
		buckets domain.AgingBuckets
	}{{domain.Incoming, rep.Incoming}, {domain.Outgoing, rep.Outgoing}} {
		b := side.buckets
		t.Append(string(side.dir), "current", b.Current.Count, b.Current.Total)
		t.Append(string(side.dir), "1-30", b.Days1To30.Count, b.Days1To30.Total)
		t.Append(string(side.dir), "31-60", b.Days31To60.Count, b.Days31To60.Total)
		t.Append(string(side.dir), "61-90", b.Days61To90.Count, b.Days61To90.Total)
		t.Append(string(side.dir), "90+", b.Over90.Count, b.Over90.Total)
	}
	return []export.Table{t}, nil
}
