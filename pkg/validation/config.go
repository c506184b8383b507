// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/iwvelando/tax-regime-simulator/pkg/format"
	"github.com/iwvelando/tax-regime-simulator/pkg/forminput"
	"github.com/iwvelando/tax-regime-simulator/pkg/mathutil"
	"github.com/iwvelando/tax-regime-simulator/pkg/textnorm"
	"github.com/schollz/closestmatch"
)

var (
	sectorMatcher = closestmatch.New(regime.SectorLabels(), []int{2, 3})
	regimeMatcher = closestmatch.New(regime.RegimeLabels(), []int{2, 3})
)

// didYouMean returns a " - did you mean 'x'?" hint for a mistyped label, or ""
// when nothing is close enough.
func didYouMean(cm *closestmatch.ClosestMatch, label string) string {
	folded := textnorm.Fold(label)
	if folded == "" {
		return ""
	}
	if match := cm.Closest(folded); match != "" {
		return fmt.Sprintf(" - did you mean '%s'?", match)
	}
	return ""
}

// ValidateSector warns when a sector label is not recognised and will be
// computed with neutral multipliers.
func ValidateSector(scenarioName, sector string) string {
	if strings.TrimSpace(sector) == "" {
		return ""
	}
	if _, known := regime.ParseSector(sector); !known {
		return fmt.Sprintf("Scenario '%s' sector '%s' is not recognised - neutral multipliers will be used%s",
			scenarioName, sector, didYouMean(sectorMatcher, sector))
	}
	return ""
}

// ValidateMargin warns when the presumed profit margin will be rejected by the engine.
func ValidateMargin(scenarioName, margin string) string {
	value := forminput.ParseMargin(margin)
	minMargin := mathutil.MustDecimal(constants.MinPresumedProfitMargin)
	maxMargin := mathutil.MustDecimal(constants.MaxPresumedProfitMargin)
	if value.LessThan(minMargin) || value.GreaterThan(maxMargin) {
		return fmt.Sprintf("Scenario '%s' presumed profit margin %s is outside [%s, %s] - the scenario will fail",
			scenarioName, value, minMargin, maxMargin)
	}
	return ""
}

// ValidateRevenue warns when a revenue will be clamped to zero, or when it is
// a bare number. Bare numbers are read as cents, which is rarely what an
// unquoted YAML value such as 10000 means.
func ValidateRevenue(scenarioName, revenue string) string {
	cents := forminput.ParseCents(revenue)
	if strings.Contains(revenue, "-") && cents == 0 {
		return fmt.Sprintf("Scenario '%s' monthly revenue '%s' is negative - it will be treated as zero",
			scenarioName, revenue)
	}
	if cents != 0 && isBareNumber(revenue) {
		return fmt.Sprintf("Scenario '%s' monthly revenue '%s' has no currency mask - it is read as cents (%s); write it as \"%s\"",
			scenarioName, revenue, format.Currency(mathutil.FromCents(cents)), format.Currency(mathutil.FromCents(cents)))
	}
	return ""
}

func isBareNumber(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateRegimeLabels warns about regime labels that cannot be parsed.
func ValidateRegimeLabels(scenarioName string, labels []string) []string {
	var warnings []string
	for _, label := range labels {
		if _, err := regime.ParseRegime(label); err != nil {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' regime '%s' is not recognised%s",
				scenarioName, label, didYouMean(regimeMatcher, label)))
		}
	}
	return warnings
}

// ValidateEstimateRegime warns when the quick-estimate regime has no flat rate.
func ValidateEstimateRegime(scenarioName, label string) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	r, err := regime.ParseRegime(label)
	if err != nil {
		return fmt.Sprintf("Scenario '%s' estimate regime '%s' is not recognised%s",
			scenarioName, label, didYouMean(regimeMatcher, label))
	}
	if r == regime.MEI {
		return fmt.Sprintf("Scenario '%s' estimate regime MEI has no flat-rate estimate", scenarioName)
	}
	return ""
}

// ConfigValidator checks the scenarios of a configuration as a whole.
type ConfigValidator struct {
	Scenarios []ScenarioConfig
}

type ScenarioConfig struct {
	Name           string
	Active         bool
	Profile        forminput.RawProfile
	Regimes        []string
	EstimateRegime string
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	active := 0
	seen := make(map[string]bool)
	for _, scenario := range cv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = true

		if !scenario.Active {
			continue
		}
		active++

		if w := ValidateRevenue(scenario.Name, scenario.Profile.MonthlyRevenue); w != "" {
			warnings = append(warnings, w)
		}
		if w := ValidateSector(scenario.Name, scenario.Profile.Sector); w != "" {
			warnings = append(warnings, w)
		}
		if w := ValidateMargin(scenario.Name, scenario.Profile.PresumedProfitMargin); w != "" {
			warnings = append(warnings, w)
		}
		warnings = append(warnings, ValidateRegimeLabels(scenario.Name, scenario.Regimes)...)
		if w := ValidateEstimateRegime(scenario.Name, scenario.EstimateRegime); w != "" {
			warnings = append(warnings, w)
		}
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be simulated")
	}

	return warnings
}
