package regime

import (
	"fmt"

	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Estimate is the quick single-regime figure shown by the savings widget.
//
// EstimatedSavings is a fixed share of the current tax. It is a marketing
// heuristic and is NOT derived from comparing regimes: for the same profile
// it can disagree with the Savings reported by EvaluateAllRegimes.
type Estimate struct {
	Regime           Regime
	Rate             decimal.Decimal
	CurrentTax       decimal.Decimal
	EstimatedSavings decimal.Decimal
	AnnualSavings    decimal.Decimal
	Warnings         []string
}

var (
	surchargePerEmployee = mathutil.MustDecimal(constants.EstimateSurchargePerEmployee)
	savingsRatio         = mathutil.MustDecimal(constants.EstimateSavingsRatio)
)

// estimateRates are flat rates keyed by (regime, sector). MEI has no row.
var estimateRates = map[Regime]map[Sector]decimal.Decimal{
	SimplesNacional: {
		Commerce: mathutil.MustDecimal("0.08"),
		Services: mathutil.MustDecimal("0.12"),
		Industry: mathutil.MustDecimal("0.10"),
	},
	LucroPresumido: {
		Commerce: mathutil.MustDecimal("0.12"),
		Services: mathutil.MustDecimal("0.18"),
		Industry: mathutil.MustDecimal("0.15"),
	},
	LucroReal: {
		Commerce: mathutil.MustDecimal("0.15"),
		Services: mathutil.MustDecimal("0.20"),
		Industry: mathutil.MustDecimal("0.17"),
	},
}

// EstimateSingleRegime computes the widget estimate for a regime the user
// says they are currently under. An unknown sector falls back to the
// commerce row, the neutral row of the comparative engine.
func EstimateSingleRegime(r Regime, p FinancialProfile) (Estimate, error) {
	if err := p.Validate(); err != nil {
		return Estimate{}, err
	}
	rates, ok := estimateRates[r]
	if !ok {
		return Estimate{}, &InputError{Field: "regime", Reason: fmt.Sprintf("no flat-rate estimate for %q", string(r))}
	}

	base, ok := rates[p.Sector]
	if !ok {
		base = rates[Commerce]
	}
	rate := base.Add(surchargePerEmployee.Mul(decimal.NewFromInt(int64(p.EmployeeCount))))

	currentTax := mathutil.Round(p.MonthlyRevenue.Mul(rate))
	savings := mathutil.Round(currentTax.Mul(savingsRatio))
	return Estimate{
		Regime:           r,
		Rate:             rate,
		CurrentTax:       currentTax,
		EstimatedSavings: savings,
		AnnualSavings:    mathutil.Annualize(savings),
		Warnings:         p.gaps(),
	}, nil
}
