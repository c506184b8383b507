// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"github.com/iwvelando/tax-regime-simulator/pkg/forminput"
	"github.com/iwvelando/tax-regime-simulator/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TAXSIM_OUTPUT_FORMAT=csv.
const EnvPrefix = "TAXSIM"

// Configuration holds all configuration for tax-regime-simulator.
type Configuration struct {
	Logging     LoggingConfig `yaml:"logging,omitempty"`
	Output      OutputConfig  `yaml:"output,omitempty"`
	Simulations []Simulation  `yaml:"simulations"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Simulation describes one business profile to simulate. Profile fields hold
// the raw form text, exactly as a visitor would type it. MonthlyRevenue is
// read as cents, so quote it with its mask ("R$ 10.000,00"); an unquoted
// 10000 decodes to "10000" and means R$ 100,00.
type Simulation struct {
	Name                 string   `yaml:"name"`
	Active               bool     `yaml:"active"`
	MonthlyRevenue       string   `yaml:"monthlyRevenue"`
	Sector               string   `yaml:"sector,omitempty"`
	EmployeeCount        string   `yaml:"employeeCount,omitempty"`
	PresumedProfitMargin string   `yaml:"presumedProfitMargin,omitempty"`
	Regimes              []string `yaml:"regimes,omitempty"`        // subset to compare, default all
	EstimateRegime       string   `yaml:"estimateRegime,omitempty"` // optional quick estimate
}

// RawProfile returns the form fields of the simulation.
func (s Simulation) RawProfile() forminput.RawProfile {
	return forminput.RawProfile{
		MonthlyRevenue:       s.MonthlyRevenue,
		Sector:               s.Sector,
		EmployeeCount:        s.EmployeeCount,
		PresumedProfitMargin: s.PresumedProfitMargin,
	}
}

// ParsedRegimes resolves the regime labels of the simulation. An empty list
// means all regimes.
func (s Simulation) ParsedRegimes() ([]regime.Regime, error) {
	regimes := make([]regime.Regime, 0, len(s.Regimes))
	for _, label := range s.Regimes {
		r, err := regime.ParseRegime(label)
		if err != nil {
			return nil, err
		}
		regimes = append(regimes, r)
	}
	return regimes, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveSimulations returns the simulations flagged active, in file order.
func (c *Configuration) ActiveSimulations() []Simulation {
	var active []Simulation
	for _, s := range c.Simulations {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	scenarios := make([]validation.ScenarioConfig, 0, len(c.Simulations))
	for _, s := range c.Simulations {
		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:           s.Name,
			Active:         s.Active,
			Profile:        s.RawProfile(),
			Regimes:        s.Regimes,
			EstimateRegime: s.EstimateRegime,
		})
	}

	validator := validation.ConfigValidator{Scenarios: scenarios}
	return validator.ValidateAll()
}
