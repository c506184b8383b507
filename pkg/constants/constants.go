// Package constants provides shared constants for the tax-regime-simulator application.
package constants

// Calendar and precision constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyPlaces is the number of decimal places kept for monetary values (cents)
	CurrencyPlaces = 2

	// RatePlaces is the number of decimal places kept for effective rates
	RatePlaces = 6

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100
)

// Regime parameters. Rates are decimal strings so they can be parsed exactly.
const (
	// MEIAnnualRevenueCeiling is the annual revenue ceiling for the MEI regime
	MEIAnnualRevenueCeiling = "81000"

	// MEIMonthlyFee is the fixed monthly MEI contribution
	MEIMonthlyFee = "70"

	// IndirectTaxRate approximates the combined consumption taxes (PIS/COFINS)
	IndirectTaxRate = "0.0925"

	// PresumedDirectTaxRate approximates IRPJ + CSLL over the presumed profit base
	PresumedDirectTaxRate = "0.24"

	// RealProfitRatio is the assumed accounting profit as a share of revenue
	RealProfitRatio = "0.20"

	// RealDirectTaxRate approximates IRPJ + CSLL over actual profit
	RealDirectTaxRate = "0.34"

	// RealComplexityPerEmployee is the compliance cost increment per employee
	RealComplexityPerEmployee = "0.005"

	// DefaultPresumedProfitMargin is used when the margin is not specified
	DefaultPresumedProfitMargin = "30"

	// MinPresumedProfitMargin is the lowest accepted presumed margin (percent)
	MinPresumedProfitMargin = "5"

	// MaxPresumedProfitMargin is the highest accepted presumed margin (percent)
	MaxPresumedProfitMargin = "60"
)

// Estimation widget parameters
const (
	// EstimateSurchargePerEmployee is added to the flat rate for each employee
	EstimateSurchargePerEmployee = "0.002"

	// EstimateSavingsRatio is the share of the current tax shown as potential savings
	EstimateSavingsRatio = "0.25"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRateLimitRPS is the default sustained request rate per client
	DefaultRateLimitRPS = 5.0

	// DefaultRateLimitBurst is the default burst size per client
	DefaultRateLimitBurst = 20

	// MetricsNamespace prefixes every exported prometheus metric
	MetricsNamespace = "tax_regime_simulator"
)
