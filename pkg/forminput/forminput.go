// Package forminput turns the raw text of the simulator form fields into a
// regime.FinancialProfile.
//
// Currency fields are masked in the browser ("R$ 10.000,00"), so amounts are
// read as a run of digits worth cents. Negative amounts and counts are
// clamped to zero here; the engine itself rejects them.
package forminput

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// RawProfile holds the form fields exactly as typed.
type RawProfile struct {
	MonthlyRevenue       string `json:"monthlyRevenue" yaml:"monthlyRevenue"`
	Sector               string `json:"sector" yaml:"sector"`
	EmployeeCount        string `json:"employeeCount" yaml:"employeeCount"`
	PresumedProfitMargin string `json:"presumedProfitMargin" yaml:"presumedProfitMargin"`
}

// Profile normalizes the raw fields.
func (raw RawProfile) Profile() regime.FinancialProfile {
	return regime.FinancialProfile{
		MonthlyRevenue:       ParseAmount(raw.MonthlyRevenue),
		Sector:               NormalizeSector(raw.Sector),
		EmployeeCount:        ParseCount(raw.EmployeeCount),
		PresumedProfitMargin: ParseMargin(raw.PresumedProfitMargin),
	}
}

func isNegative(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "R$")
	return strings.HasPrefix(strings.TrimSpace(trimmed), "-")
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0")
}

// ParseCents keeps only the digits of raw and reads them as cents. Empty or
// negative input yields 0. Values beyond int64 saturate.
func ParseCents(raw string) int64 {
	if isNegative(raw) {
		return 0
	}
	digits := digitsOnly(raw)
	if digits == "" {
		return 0
	}
	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return int64(^uint64(0) >> 1)
	}
	return cents
}

// ParseAmount is ParseCents expressed as a monetary value.
func ParseAmount(raw string) decimal.Decimal {
	return mathutil.FromCents(ParseCents(raw))
}

// ParseCount reads a non-negative integer such as a headcount. Empty or
// negative input yields 0.
func ParseCount(raw string) int {
	if isNegative(raw) {
		return 0
	}
	digits := digitsOnly(raw)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// ParseMargin reads a percentage such as "30", "32,5" or "32.5%". Empty or
// unreadable input yields the default margin. The value is not clamped, so an
// out-of-range margin still reaches the engine and is rejected there.
func ParseMargin(raw string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == '%':
			return -1
		case r == ',':
			return '.'
		}
		return r
	}, raw)
	if cleaned == "" {
		return mathutil.MustDecimal(constants.DefaultPresumedProfitMargin)
	}
	margin, err := decimal.NewFromString(cleaned)
	if err != nil {
		return mathutil.MustDecimal(constants.DefaultPresumedProfitMargin)
	}
	return margin
}

// NormalizeSector maps a sector label onto a regime.Sector. An empty label
// defaults to commerce; an unrecognised one is passed through folded so the
// engine can report it.
func NormalizeSector(raw string) regime.Sector {
	if strings.TrimSpace(raw) == "" {
		return regime.Commerce
	}
	sector, _ := regime.ParseSector(raw)
	return sector
}
