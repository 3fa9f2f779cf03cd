package domain

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
)

// ExportFormat is the file type of a report download.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) IsValid() bool { return f == FormatCSV || f == FormatXLSX }

// ParseExportFormat validates a raw export format.
func ParseExportFormat(raw string) (ExportFormat, error) {
	return parseEnum("export format", raw, ExportFormat.IsValid)
}

// ExportReport names the report being downloaded.
type ExportReport string

const (
	ExportStatement   ExportReport = "statement"
	ExportBalances    ExportReport = "balances"
	ExportInstruments ExportReport = "instruments"
	ExportCashFlow    ExportReport = "cash_flow"
	ExportCashEntries ExportReport = "cash_entries"
	ExportAging       ExportReport = "aging"
)

func (r ExportReport) IsValid() bool {
	switch r {
	case ExportStatement, ExportBalances, ExportInstruments, ExportCashFlow, ExportCashEntries, ExportAging:
		return true
	}
	return false
}

// ParseExportReport validates a raw report name.
func ParseExportReport(raw string) (ExportReport, error) {
	return parseEnum("report", raw, ExportReport.IsValid)
}

// TextEncoding selects the character set of CSV downloads.
type TextEncoding string

const (
	EncodingUTF8        TextEncoding = "utf8"
	EncodingWindows1254 TextEncoding = "windows1254"
)

func (e TextEncoding) IsValid() bool { return e == EncodingUTF8 || e == EncodingWindows1254 }

// ParseTextEncoding validates a raw encoding name; empty means UTF-8.
func ParseTextEncoding(raw string) (TextEncoding, error) {
	if raw == "" {
		return EncodingUTF8, nil
	}
	return parseEnum("encoding", raw, TextEncoding.IsValid)
}

// ExportRequest describes a report download.
type ExportRequest struct {
	Report    ExportReport
	Format    ExportFormat
	Encoding  TextEncoding
	AccountID int64 // statement only
	Range     DateRange
	Period    BucketPeriod
	Balances  BalanceReportFilter
}

// Validate checks the request fields the chosen report needs.
func (r ExportRequest) Validate() error {
	if !r.Report.IsValid() {
		return fmt.Errorf("%w: unknown report %q", apperrors.ErrValidation, r.Report)
	}
	if !r.Format.IsValid() {
		return fmt.Errorf("%w: unknown export format %q", apperrors.ErrValidation, r.Format)
	}
	if r.Format == FormatCSV && !r.Encoding.IsValid() {
		return fmt.Errorf("%w: unknown encoding %q", apperrors.ErrValidation, r.Encoding)
	}
	if r.Report == ExportStatement && r.AccountID <= 0 {
		return fmt.Errorf("%w: statement export needs an account", apperrors.ErrValidation)
	}
	if r.Report == ExportCashFlow && !r.Period.IsValid() {
		return fmt.Errorf("%w: unknown period %q", apperrors.ErrValidation, r.Period)
	}
	return r.Range.Validate()
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
