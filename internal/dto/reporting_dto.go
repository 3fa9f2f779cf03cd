package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceReportParams defines query parameters for the account balance report.
type BalanceReportParams struct {
	Mode       string           `form:"mode,default=all" binding:"bk_enum=balance_mode"`
	Kind       string           `form:"kind" binding:"omitempty,bk_enum=account_kind"`
	MinBalance *decimal.Decimal `form:"minBalance"`
}

func (p BalanceReportParams) ToDomain() (domain.BalanceReportFilter, error) {
	mode, err := domain.ParseBalanceMode(p.Mode)
	if err != nil {
		return domain.BalanceReportFilter{}, err
	}
	kind, err := enumPtr(p.Kind, domain.ParseAccountKind)
	if err != nil {
		return domain.BalanceReportFilter{}, err
	}
	return domain.BalanceReportFilter{Mode: mode, Kind: kind, MinBalance: p.MinBalance}, nil
}

// AgingReportParams selects the aging reference date.
type AgingReportParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain returns the zero time when AsOf is empty; the service then uses today.
func (p AgingReportParams) ToDomain() (time.Time, error) {
	return parseOptionalDate("asOf", p.AsOf)
}

// ExportParams selects a report download.
type ExportParams struct {
	Report    string `form:"report" binding:"required,bk_enum=export_report"`
	Format    string `form:"format,default=csv" binding:"bk_enum=export_format"`
	Encoding  string `form:"encoding" binding:"omitempty,bk_enum=text_encoding"`
	AccountID int64  `form:"accountID" binding:"min=0"`
	Period    string `form:"period" binding:"omitempty,bk_enum=bucket_period"`
	DateRangeParams
	BalanceReportParams
}

// ToDomain converts the query into a domain.ExportRequest.
func (p ExportParams) ToDomain() (domain.ExportRequest, error) {
	var (
		req domain.ExportRequest
		err error
	)
	if req.Report, err = domain.ParseExportReport(p.Report); err != nil {
		return req, err
	}
	if req.Format, err = domain.ParseExportFormat(p.Format); err != nil {
		return req, err
	}
	if req.Encoding, err = domain.ParseTextEncoding(p.Encoding); err != nil {
		return req, err
	}
	if p.Period != "" {
		if req.Period, err = domain.ParseBucketPeriod(p.Period); err != nil {
			return req, err
		}
	}
	if req.Range, err = p.DateRangeParams.ToDomain(); err != nil {
		return req, err
	}
	if req.Balances, err = p.BalanceReportParams.ToDomain(); err != nil {
		return req, err
	}
	req.AccountID = p.AccountID
	return req, nil
}
