// Package simulation defines the data structures related to a batch of
// simulations and includes functions for running them.
package simulation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/tax-regime-simulator/internal/config"
	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"go.uber.org/zap"
)

// Result holds all information related to a specific simulation.
type Result struct {
	Name    string
	Profile regime.FinancialProfile
	// Ranked is nil when NotApplicable is set.
	Ranked *regime.RankedResult
	// NotApplicable marks a simulation whose requested regimes were all
	// ineligible for the profile.
	NotApplicable bool
	// Estimate is set only when the simulation asked for a quick estimate.
	Estimate *regime.Estimate
	Warnings []string
}

// Run processes every active simulation of the configuration.
func Run(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Result
	for _, sim := range conf.Simulations {
		if !sim.Active {
			logger.Debug(fmt.Sprintf("skipping simulation %s because it is inactive", sim.Name),
				zap.String("op", "simulation.Run"),
			)
			continue
		}

		result, err := runOne(logger, sim)
		if err != nil {
			return results, fmt.Errorf("simulation %s: %w", sim.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

func runOne(logger *zap.Logger, sim config.Simulation) (Result, error) {
	result := Result{
		Name:    sim.Name,
		Profile: sim.RawProfile().Profile(),
	}

	regimes, err := sim.ParsedRegimes()
	if err != nil {
		return result, err
	}

	ranked, err := regime.EvaluateRegimes(result.Profile, regimes...)
	switch {
	case errors.Is(err, regime.ErrNoEligibleRegime):
		logger.Warn(fmt.Sprintf("no requested regime is eligible for simulation %s", sim.Name),
			zap.String("op", "simulation.Run"),
			zap.String("monthlyRevenue", result.Profile.MonthlyRevenue.StringFixed(2)),
			zap.Strings("regimes", sim.Regimes),
		)
		result.NotApplicable = true
	case err != nil:
		return result, err
	default:
		result.Ranked = &ranked
		result.Warnings = append(result.Warnings, ranked.Warnings...)
		logger.Debug(fmt.Sprintf("simulation %s best regime is %s", sim.Name, ranked.Best.Regime),
			zap.String("op", "simulation.Run"),
			zap.String("savings", ranked.Savings.StringFixed(2)),
		)
	}

	if sim.EstimateRegime != "" {
		r, err := regime.ParseRegime(sim.EstimateRegime)
		if err != nil {
			return result, err
		}
		estimate, err := regime.EstimateSingleRegime(r, result.Profile)
		if err != nil {
			return result, err
		}
		result.Estimate = &estimate
		if result.Ranked == nil {
			result.Warnings = append(result.Warnings, estimate.Warnings...)
		}
	}

	for _, w := range result.Warnings {
		logger.Warn(w, zap.String("op", "simulation.Run"), zap.String("simulation", sim.Name))
	}

	return result, nil
}
