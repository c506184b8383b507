// Package mathutil provides common decimal helpers for monetary values and rates.
package mathutil

import (
	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(constants.PercentageMultiplier)
	twelve  = decimal.NewFromInt(constants.MonthsPerYear)
)

// MustDecimal parses a decimal literal and panics if it is malformed.
// Only use it for package-level constants.
func MustDecimal(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyPlaces)
}

// FromCents converts an integer amount of cents into a monetary value.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -constants.CurrencyPlaces)
}

// FromPercent converts a percentage (e.g. 30) into a ratio (0.30).
func FromPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// ToPercent converts a ratio (0.30) into a percentage (30).
func ToPercent(ratio decimal.Decimal) decimal.Decimal {
	return ratio.Mul(hundred)
}

// Ratio returns part/whole rounded to constants.RatePlaces, or zero when whole
// is not positive.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.DivRound(whole, constants.RatePlaces)
}

// Annualize multiplies a monthly value by twelve.
func Annualize(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(twelve)
}

// Monthly divides an annual value by twelve, keeping full precision.
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}
