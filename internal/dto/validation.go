package dto

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// enumParsers maps a bk_enum parameter to the domain parser of that enum.
var enumParsers = map[string]func(string) error{
	"account_kind":      func(s string) error { _, err := domain.ParseAccountKind(s); return err },
	"reference_kind":    func(s string) error { _, err := domain.ParseReferenceKind(s); return err },
	"direction":         func(s string) error { _, err := domain.ParseDirection(s); return err },
	"instrument_kind":   func(s string) error { _, err := domain.ParseInstrumentKind(s); return err },
	"instrument_status": func(s string) error { _, err := parseInstrumentStatusFilter(s); return err },
	"settlement_mode":   func(s string) error { _, err := domain.ParseSettlementMode(s); return err },
	"cash_kind":         func(s string) error { _, err := domain.ParseCashKind(s); return err },
	"payment_method":    func(s string) error { _, err := domain.ParsePaymentMethod(s); return err },
	"bucket_period":     func(s string) error { _, err := domain.ParseBucketPeriod(s); return err },
	"reminder_status":   func(s string) error { _, err := domain.ParseReminderStatus(s); return err },
	"reminder_kind":     func(s string) error { _, err := domain.ParseReminderKind(s); return err },
	"recurrence_kind":   func(s string) error { _, err := domain.ParseRecurrenceKind(s); return err },
	"priority":          func(s string) error { _, err := domain.ParsePriority(s); return err },
	"balance_mode":      func(s string) error { _, err := domain.ParseBalanceMode(s); return err },
	"export_report":     func(s string) error { _, err := domain.ParseExportReport(s); return err },
	"export_format":     func(s string) error { _, err := domain.ParseExportFormat(s); return err },
	"text_encoding":     func(s string) error { _, err := domain.ParseTextEncoding(s); return err },
}

// validateEnum implements the bk_enum tag, e.g. `binding:"omitempty,bk_enum=cash_kind"`.
func validateEnum(fl validator.FieldLevel) bool {
	parse, ok := enumParsers[fl.Param()]
	if !ok {
		return false
	}
	return parse(fl.Field().String()) == nil
}

// RegisterValidators installs the custom tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("bk_enum", validateEnum)
}
