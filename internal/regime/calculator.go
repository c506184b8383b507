package regime

import (
	"fmt"

	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// RegimeResult is the outcome of one regime for one profile.
type RegimeResult struct {
	Regime Regime
	// Eligible is false when the profile does not qualify for the regime.
	// Ineligible results carry no liability: MonthlyTax and EffectiveRate
	// are zero and must not be presented.
	Eligible      bool
	MonthlyTax    decimal.Decimal
	EffectiveRate decimal.Decimal
}

type calculatorFunc func(p FinancialProfile) (tax decimal.Decimal, eligible bool)

var calculators = map[Regime]calculatorFunc{
	MEI:             calculateMEI,
	SimplesNacional: calculateSimples,
	LucroPresumido:  calculatePresumido,
	LucroReal:       calculateReal,
}

var (
	one = decimal.NewFromInt(1)

	meiCeiling = mathutil.Monthly(mathutil.MustDecimal(constants.MEIAnnualRevenueCeiling))
	meiFee     = mathutil.MustDecimal(constants.MEIMonthlyFee)

	indirectRate    = mathutil.MustDecimal(constants.IndirectTaxRate)
	presumedDirect  = mathutil.MustDecimal(constants.PresumedDirectTaxRate)
	realProfitRatio = mathutil.MustDecimal(constants.RealProfitRatio)
	realDirect      = mathutil.MustDecimal(constants.RealDirectTaxRate)
	realPerEmployee = mathutil.MustDecimal(constants.RealComplexityPerEmployee)
	simplesTopRate  = mathutil.MustDecimal("0.19")

	simplesMultiplier = map[Sector]decimal.Decimal{
		Commerce: one,
		Services: mathutil.MustDecimal("1.2"),
		Industry: mathutil.MustDecimal("1.1"),
	}
	presumidoFactor = map[Sector]decimal.Decimal{
		Commerce: one,
		Services: mathutil.MustDecimal("1.15"),
		Industry: mathutil.MustDecimal("1.05"),
	}
)

type bracket struct {
	monthlyLimit decimal.Decimal
	rate         decimal.Decimal
}

// simplesBrackets holds the monthly upper bounds (annual limit / 12) in
// increasing order. Revenue above the last bound pays simplesTopRate.
var simplesBrackets = newBrackets([][2]string{
	{"180000", "0.04"},
	{"360000", "0.073"},
	{"720000", "0.095"},
	{"1800000", "0.107"},
	{"3600000", "0.143"},
})

func newBrackets(table [][2]string) []bracket {
	brackets := make([]bracket, 0, len(table))
	for _, row := range table {
		brackets = append(brackets, bracket{
			monthlyLimit: mathutil.Monthly(mathutil.MustDecimal(row[0])),
			rate:         mathutil.MustDecimal(row[1]),
		})
	}
	return brackets
}

// SimplesBaseRate returns the Simples Nacional base rate for a monthly
// revenue, before the sector multiplier. A revenue equal to a bracket limit
// belongs to that bracket.
func SimplesBaseRate(monthlyRevenue decimal.Decimal) decimal.Decimal {
	for _, b := range simplesBrackets {
		if monthlyRevenue.LessThanOrEqual(b.monthlyLimit) {
			return b.rate
		}
	}
	return simplesTopRate
}

func sectorFactor(table map[Sector]decimal.Decimal, s Sector) decimal.Decimal {
	if f, ok := table[s]; ok {
		return f
	}
	return one
}

func calculateMEI(p FinancialProfile) (decimal.Decimal, bool) {
	if p.MonthlyRevenue.GreaterThan(meiCeiling) {
		return decimal.Zero, false
	}
	return meiFee, true
}

func calculateSimples(p FinancialProfile) (decimal.Decimal, bool) {
	rate := SimplesBaseRate(p.MonthlyRevenue).Mul(sectorFactor(simplesMultiplier, p.Sector))
	return p.MonthlyRevenue.Mul(rate), true
}

func calculatePresumido(p FinancialProfile) (decimal.Decimal, bool) {
	indirect := p.MonthlyRevenue.Mul(indirectRate)
	presumedBase := p.MonthlyRevenue.Mul(mathutil.FromPercent(p.PresumedProfitMargin))
	direct := presumedBase.Mul(presumedDirect)
	return indirect.Add(direct).Mul(sectorFactor(presumidoFactor, p.Sector)), true
}

func calculateReal(p FinancialProfile) (decimal.Decimal, bool) {
	profit := p.MonthlyRevenue.Mul(realProfitRatio)
	direct := profit.Mul(realDirect)
	indirect := p.MonthlyRevenue.Mul(indirectRate)
	complexity := one.Add(realPerEmployee.Mul(decimal.NewFromInt(int64(p.EmployeeCount))))
	return direct.Add(indirect).Mul(complexity), true
}

// Calculate computes the result of a single regime.
func Calculate(r Regime, p FinancialProfile) (RegimeResult, error) {
	if err := p.Validate(); err != nil {
		return RegimeResult{}, err
	}
	return calculate(r, p)
}

func calculate(r Regime, p FinancialProfile) (RegimeResult, error) {
	calc, ok := calculators[r]
	if !ok {
		return RegimeResult{}, &InputError{Field: "regime", Reason: fmt.Sprintf("unknown regime %q", string(r))}
	}

	tax, eligible := calc(p)
	result := RegimeResult{Regime: r, Eligible: eligible}
	if !eligible {
		return result, nil
	}
	result.MonthlyTax = mathutil.Round(tax)
	result.EffectiveRate = mathutil.Ratio(result.MonthlyTax, p.MonthlyRevenue)
	return result, nil
}

// Evaluate computes the given regimes for the profile, or all four when none
// are given. Each regime appears once in the output, in declaration order,
// however often it was requested.
func Evaluate(p FinancialProfile, regimes ...Regime) ([]RegimeResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if len(regimes) == 0 {
		regimes = Regimes()
	}
	requested := make(map[Regime]bool, len(regimes))
	for _, r := range regimes {
		if !r.Known() {
			return nil, &InputError{Field: "regime", Reason: fmt.Sprintf("unknown regime %q", string(r))}
		}
		requested[r] = true
	}

	results := make([]RegimeResult, 0, len(requested))
	for _, r := range Regimes() {
		if !requested[r] {
			continue
		}
		result, err := calculate(r, p)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
