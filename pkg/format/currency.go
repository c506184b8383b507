// Package format renders monetary values and rates for terminal output.
package format

import (
	"strings"

	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Currency returns a BRL string with thousands separators (e.g., "-R$ 1.234,56").
func Currency(amount decimal.Decimal) string {
	formatted := formatPositive(amount.Abs(), constants.CurrencyPlaces)
	if amount.Round(constants.CurrencyPlaces).IsNegative() {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

// Percent renders a ratio as a percentage with two decimals (0.0425 -> "4,25%").
func Percent(ratio decimal.Decimal) string {
	pct := mathutil.ToPercent(ratio)
	sign := ""
	if pct.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + formatPositive(pct.Abs(), 2) + "%"
}

func formatPositive(value decimal.Decimal, places int32) string {
	formatted := value.StringFixed(places)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte('.')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if decPart == "" {
		return intPart
	}
	return intPart + "," + decPart
}
