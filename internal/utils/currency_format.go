package utils

import (
	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of decimal places money amounts are rendered with.
const AmountPrecision = 2

// FormatAmount formats an amount with AmountPrecision places.
// Example: 12.3456 returns "12.35", 7 returns "7.00"
func FormatAmount(amount decimal.Decimal) string {
	return FormatWithPrecision(amount, AmountPrecision)
}

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function when a report needs a different scale
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// RoundAmount rounds an amount to AmountPrecision places.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountPrecision)
}
