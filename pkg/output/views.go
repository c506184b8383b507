package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"github.com/iwvelando/tax-regime-simulator/internal/simulation"
	"github.com/shopspring/decimal"
)

// RegimeView is the JSON rendering of a single regime result. Ineligible
// regimes carry no tax or rate.
type RegimeView struct {
	Regime        string   `json:"regime"`
	DisplayName   string   `json:"displayName"`
	Eligible      bool     `json:"eligible"`
	MonthlyTax    *float64 `json:"monthlyTax,omitempty"`
	EffectiveRate *float64 `json:"effectiveRate,omitempty"`
}

// RankingView is the JSON rendering of a comparison.
type RankingView struct {
	Results       []RegimeView `json:"results"`
	Ranking       []string     `json:"ranking"`
	Best          string       `json:"best"`
	Savings       float64      `json:"savings"`
	AnnualSavings float64      `json:"annualSavings"`
	Warnings      []string     `json:"warnings,omitempty"`
}

// EstimateView is the JSON rendering of a quick estimate.
type EstimateView struct {
	Regime           string   `json:"regime"`
	Rate             float64  `json:"rate"`
	CurrentTax       float64  `json:"currentTax"`
	EstimatedSavings float64  `json:"estimatedSavings"`
	AnnualSavings    float64  `json:"annualSavings"`
	Warnings         []string `json:"warnings,omitempty"`
}

// ResultView is the JSON rendering of one batch simulation.
type ResultView struct {
	Name          string        `json:"name"`
	NotApplicable bool          `json:"notApplicable"`
	Comparison    *RankingView  `json:"comparison,omitempty"`
	Estimate      *EstimateView `json:"estimate,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
}

func float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// NewRegimeView converts a regime result.
func NewRegimeView(r regime.RegimeResult) RegimeView {
	view := RegimeView{
		Regime:      string(r.Regime),
		DisplayName: r.Regime.DisplayName(),
		Eligible:    r.Eligible,
	}
	if r.Eligible {
		tax := float(r.MonthlyTax)
		rate := float(r.EffectiveRate)
		view.MonthlyTax = &tax
		view.EffectiveRate = &rate
	}
	return view
}

// NewRankingView converts a ranked comparison.
func NewRankingView(ranked regime.RankedResult) RankingView {
	view := RankingView{
		Results:       make([]RegimeView, 0, len(ranked.Results)),
		Ranking:       make([]string, 0, len(ranked.Ranking)),
		Best:          string(ranked.Best.Regime),
		Savings:       float(ranked.Savings),
		AnnualSavings: float(ranked.AnnualSavings()),
		Warnings:      ranked.Warnings,
	}
	for _, r := range ranked.Results {
		view.Results = append(view.Results, NewRegimeView(r))
	}
	for _, r := range ranked.Ranking {
		view.Ranking = append(view.Ranking, string(r.Regime))
	}
	return view
}

// NewEstimateView converts a quick estimate.
func NewEstimateView(e regime.Estimate) EstimateView {
	return EstimateView{
		Regime:           string(e.Regime),
		Rate:             float(e.Rate),
		CurrentTax:       float(e.CurrentTax),
		EstimatedSavings: float(e.EstimatedSavings),
		AnnualSavings:    float(e.AnnualSavings),
		Warnings:         e.Warnings,
	}
}

// NewResultViews converts batch results, keeping their order.
func NewResultViews(results []simulation.Result) []ResultView {
	views := make([]ResultView, 0, len(results))
	for _, result := range results {
		view := ResultView{
			Name:          result.Name,
			NotApplicable: result.NotApplicable,
			Warnings:      result.Warnings,
		}
		if result.Ranked != nil {
			ranking := NewRankingView(*result.Ranked)
			view.Comparison = &ranking
		}
		if result.Estimate != nil {
			estimate := NewEstimateView(*result.Estimate)
			view.Estimate = &estimate
		}
		views = append(views, view)
	}
	return views
}

// JSONString renders the results as indented JSON.
func JSONString(results []simulation.Result) (string, error) {
	data, err := json.MarshalIndent(NewResultViews(results), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(data) + "\n", nil
}

// JSONFormat outputs the results as indented JSON.
func JSONFormat(results []simulation.Result) error {
	s, err := JSONString(results)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, s)
	return err
}
