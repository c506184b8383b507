package regime

import (
	"fmt"

	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var (
	minMargin     = mathutil.MustDecimal(constants.MinPresumedProfitMargin)
	maxMargin     = mathutil.MustDecimal(constants.MaxPresumedProfitMargin)
)

// FinancialProfile is the input of every computation.
type FinancialProfile struct {
	// MonthlyRevenue must not be negative.
	MonthlyRevenue decimal.Decimal
	Sector         Sector
	// EmployeeCount must not be negative.
	EmployeeCount int
	// PresumedProfitMargin is a percentage in [5,60] used only by Lucro
	// Presumido. The form default of 30 is applied by the input layer, so a
	// zero here is rejected like any other out-of-range value.
	PresumedProfitMargin decimal.Decimal
}

// Validate checks the profile and returns an *InputError for the first
// offending field.
func (p FinancialProfile) Validate() error {
	if p.MonthlyRevenue.IsNegative() {
		return &InputError{Field: "monthlyRevenue", Reason: fmt.Sprintf("must not be negative, got %s", p.MonthlyRevenue)}
	}
	if p.EmployeeCount < 0 {
		return &InputError{Field: "employeeCount", Reason: fmt.Sprintf("must not be negative, got %d", p.EmployeeCount)}
	}
	margin := p.PresumedProfitMargin
	if margin.LessThan(minMargin) || margin.GreaterThan(maxMargin) {
		return &InputError{
			Field:  "presumedProfitMargin",
			Reason: fmt.Sprintf("must be between %s and %s percent, got %s", minMargin, maxMargin, margin),
		}
	}
	return nil
}

// gaps lists the degraded-but-valid conditions of the profile.
func (p FinancialProfile) gaps() []string {
	if p.Sector.Known() {
		return nil
	}
	if p.Sector == "" {
		return []string{"sector not specified; using neutral multiplier 1.0"}
	}
	return []string{fmt.Sprintf("unrecognized sector %q; using neutral multiplier 1.0", string(p.Sector))}
}
