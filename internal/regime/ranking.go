package regime

import (
	"fmt"
	"sort"

	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// RankedResult is the comparative outcome for one profile.
type RankedResult struct {
	// Results holds every evaluated regime, eligible or not, in declaration
	// order.
	Results []RegimeResult
	// Ranking holds the eligible results, cheapest first.
	Ranking []RegimeResult
	Best    RegimeResult
	// Savings is what Best saves per month against the runner-up, or zero
	// when only one regime is eligible.
	Savings decimal.Decimal
	// Warnings lists degraded-but-valid conditions, such as an unrecognized
	// sector computed with neutral multipliers.
	Warnings []string
}

// Result returns the evaluated result for r, if r was evaluated.
func (rr RankedResult) Result(r Regime) (RegimeResult, bool) {
	for _, result := range rr.Results {
		if result.Regime == r {
			return result, true
		}
	}
	return RegimeResult{}, false
}

// AnnualSavings is Savings over twelve months.
func (rr RankedResult) AnnualSavings() decimal.Decimal {
	return mathutil.Annualize(rr.Savings)
}

// Rank orders the eligible results by monthly tax, breaking ties by
// declaration order, and designates the cheapest as Best. It returns
// ErrNoEligibleRegime when no result is eligible and an *InputError when a
// regime appears more than once.
func Rank(results []RegimeResult) (RankedResult, error) {
	seen := make(map[Regime]bool, len(results))
	all := make([]RegimeResult, 0, len(results))
	eligible := make([]RegimeResult, 0, len(results))
	for _, result := range results {
		if seen[result.Regime] {
			return RankedResult{}, &InputError{Field: "results", Reason: fmt.Sprintf("duplicate result for %s", result.Regime)}
		}
		seen[result.Regime] = true
		all = append(all, result)
		if result.Eligible {
			eligible = append(eligible, result)
		}
	}

	if len(eligible) == 0 {
		return RankedResult{}, ErrNoEligibleRegime
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Regime.order() < all[j].Regime.order()
	})
	sort.Slice(eligible, func(i, j int) bool {
		if c := eligible[i].MonthlyTax.Cmp(eligible[j].MonthlyTax); c != 0 {
			return c < 0
		}
		return eligible[i].Regime.order() < eligible[j].Regime.order()
	})

	ranked := RankedResult{
		Results: all,
		Ranking: eligible,
		Best:    eligible[0],
		Savings: decimal.Zero,
	}
	if len(eligible) > 1 {
		ranked.Savings = eligible[1].MonthlyTax.Sub(eligible[0].MonthlyTax)
	}
	return ranked, nil
}

// EvaluateAllRegimes computes and ranks all four regimes for the profile.
func EvaluateAllRegimes(p FinancialProfile) (RankedResult, error) {
	return EvaluateRegimes(p)
}

// EvaluateRegimes computes and ranks a caller-chosen subset of regimes (all
// four when none are given). Restricting the subset is the only way to reach
// ErrNoEligibleRegime, e.g. MEI alone with revenue above its ceiling.
func EvaluateRegimes(p FinancialProfile, regimes ...Regime) (RankedResult, error) {
	results, err := Evaluate(p, regimes...)
	if err != nil {
		return RankedResult{}, err
	}
	ranked, err := Rank(results)
	if err != nil {
		return RankedResult{}, err
	}
	ranked.Warnings = p.gaps()
	return ranked, nil
}
