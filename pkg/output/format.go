// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"github.com/iwvelando/tax-regime-simulator/internal/simulation"
	"github.com/iwvelando/tax-regime-simulator/pkg/format"
	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []simulation.Result) {
	p := message.NewPrinter(language.BrazilianPortuguese)
	for _, result := range results {
		profile := result.Profile
		fmt.Printf("--- Results for simulation %s ---\n", result.Name)
		_, _ = p.Printf("Revenue %s/month | Sector %s | Employees %d | Presumed margin %s\n",
			format.Currency(profile.MonthlyRevenue),
			profile.Sector,
			profile.EmployeeCount,
			format.Percent(mathutil.FromPercent(profile.PresumedProfitMargin)),
		)

		if result.NotApplicable {
			fmt.Printf("No requested regime is eligible for this profile\n")
		}
		if result.Ranked != nil {
			printRanking(result.Ranked)
		}
		if e := result.Estimate; e != nil {
			fmt.Printf("Quick estimate (%s): rate %s | current tax %s | estimated savings %s/month, %s/year\n",
				e.Regime.DisplayName(),
				format.Percent(e.Rate),
				format.Currency(e.CurrentTax),
				format.Currency(e.EstimatedSavings),
				format.Currency(e.AnnualSavings),
			)
		}
		for _, w := range result.Warnings {
			fmt.Println(color.YellowString("Warning: %s", w))
		}
		if len(results) > 1 {
			fmt.Printf("\n")
		}
	}
}

func printRanking(ranked *regime.RankedResult) {
	position := make(map[regime.Regime]int, len(ranked.Ranking))
	for i, r := range ranked.Ranking {
		position[r.Regime] = i + 1
	}

	fmt.Printf("Regime           | Monthly tax     | Effective rate | Rank\n")
	fmt.Printf("______           | ___________     | ______________ | ____\n")
	for _, r := range ranked.Results {
		if !r.Eligible {
			fmt.Printf("%-16s | %-15s | %-14s | %s\n", r.Regime.DisplayName(), "-", "-", "ineligible")
			continue
		}
		fmt.Printf("%-16s | %-15s | %-14s | %d\n",
			r.Regime.DisplayName(),
			format.Currency(r.MonthlyTax),
			format.Percent(r.EffectiveRate),
			position[r.Regime],
		)
	}
	fmt.Println(color.GreenString("Best regime: %s, saving %s/month (%s/year) over the next cheapest",
		ranked.Best.Regime.DisplayName(),
		format.Currency(ranked.Savings),
		format.Currency(ranked.AnnualSavings()),
	))
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []simulation.Result) {
	fmt.Print(CsvString(results))
}

// CsvString renders one row per evaluated regime of every simulation.
func CsvString(results []simulation.Result) string {
	var b strings.Builder
	b.WriteString(`"simulation","regime","eligible","monthly tax","effective rate","rank","best","savings"` + "\n")
	for _, result := range results {
		if result.Ranked == nil {
			fmt.Fprintf(&b, `"%s","","false","","","","",""`+"\n", csvEscape(result.Name))
			continue
		}
		ranked := result.Ranked
		position := make(map[regime.Regime]int, len(ranked.Ranking))
		for i, r := range ranked.Ranking {
			position[r.Regime] = i + 1
		}
		for _, r := range ranked.Results {
			tax, rate, rank := "", "", ""
			if r.Eligible {
				tax = r.MonthlyTax.StringFixed(2)
				rate = r.EffectiveRate.String()
				rank = fmt.Sprintf("%d", position[r.Regime])
			}
			fmt.Fprintf(&b, `"%s","%s","%t","%s","%s","%s","%t","%s"`+"\n",
				csvEscape(result.Name),
				r.Regime,
				r.Eligible,
				tax,
				rate,
				rank,
				r.Eligible && r.Regime == ranked.Best.Regime,
				ranked.Savings.StringFixed(2),
			)
		}
	}
	return b.String()
}

func csvEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
