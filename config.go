package main

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// TaxBand represents one income tax band. Bands apply to taxable income
// AFTER the personal allowance has been deducted: Lower is inclusive,
// Upper exclusive. An Upper at or below Lower marks the final, unbounded
// band (omit "upper" in YAML).
type TaxBand struct {
	Name  string  `yaml:"name" json:"name"`
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
	Rate  float64 `yaml:"rate" json:"rate"`
}

// TaxYearConfig holds the HMRC constants for one tax year.
// These values change with each Finance Act; the embedded defaults are
// 2024/25 (England and Northern Ireland rates).
type TaxYearConfig struct {
	// Year is a display label, e.g. "2024/25"
	Year string `yaml:"year" json:"year"`
	// PersonalAllowance is the amount you can earn tax-free (2024/25: £12,570)
	PersonalAllowance float64 `yaml:"personal_allowance" json:"personal_allowance"`
	// TaperThreshold is the income level above which the allowance starts to reduce (2024/25: £100,000)
	TaperThreshold float64 `yaml:"taper_threshold" json:"taper_threshold"`
	// TaperRate is how much allowance is lost per £1 over the threshold (2024/25: £0.50, so £1 lost per £2 earned)
	TaperRate float64 `yaml:"taper_rate" json:"taper_rate"`
	// InterestCreditRate is the Section 24 relief rate on residential finance costs (basic rate, 20%)
	InterestCreditRate float64 `yaml:"interest_credit_rate" json:"interest_credit_rate"`
	// PaymentsOnAccountThreshold is the Self Assessment bill above which HMRC
	// normally asks for payments on account (advisory flag only)
	PaymentsOnAccountThreshold float64 `yaml:"payments_on_account_threshold" json:"payments_on_account_threshold"`
	// Bands over post-allowance taxable income, in ascending order
	Bands []TaxBand `yaml:"tax_bands" json:"tax_bands"`
}

// GetYear returns the tax year label, using the default if not set
func (tc *TaxYearConfig) GetYear() string {
	if tc.Year == "" {
		return "2024/25"
	}
	return tc.Year
}

// GetPersonalAllowance returns the personal allowance, using default if not set
func (tc *TaxYearConfig) GetPersonalAllowance() float64 {
	if tc.PersonalAllowance <= 0 {
		return 12570.0 // 2024/25 default
	}
	return tc.PersonalAllowance
}

// GetTaperThreshold returns the tapering threshold, using default if not set
func (tc *TaxYearConfig) GetTaperThreshold() float64 {
	if tc.TaperThreshold <= 0 {
		return 100000.0 // 2024/25 default
	}
	return tc.TaperThreshold
}

// GetTaperRate returns the tapering rate, using default if not set
func (tc *TaxYearConfig) GetTaperRate() float64 {
	if tc.TaperRate <= 0 {
		return 0.5 // 2024/25 default: £1 lost per £2 over threshold
	}
	return tc.TaperRate
}

// GetInterestCreditRate returns the finance cost relief rate, using default if not set
func (tc *TaxYearConfig) GetInterestCreditRate() float64 {
	if tc.InterestCreditRate <= 0 {
		return 0.20 // basic rate credit since April 2020
	}
	return tc.InterestCreditRate
}

// GetPaymentsOnAccountThreshold returns the payments on account threshold,
// using default if not set
func (tc *TaxYearConfig) GetPaymentsOnAccountThreshold() float64 {
	if tc.PaymentsOnAccountThreshold <= 0 {
		return 10000.0
	}
	return tc.PaymentsOnAccountThreshold
}

// GetBands returns the configured tax bands, falling back to the 2024/25
// England and Northern Ireland table when the YAML omits them
func (tc *TaxYearConfig) GetBands() []TaxBand {
	if len(tc.Bands) == 0 {
		return DefaultTaxBands()
	}
	return tc.Bands
}

// GetAllowanceGoneThreshold returns the income at which the personal
// allowance is fully removed. Calculated from allowance, threshold and rate:
// allowance hits zero at threshold + (allowance / rate), £125,140 for 2024/25.
func (tc *TaxYearConfig) GetAllowanceGoneThreshold() float64 {
	pa := tc.GetPersonalAllowance()
	threshold := tc.GetTaperThreshold()
	rate := tc.GetTaperRate()
	return threshold + (pa / rate)
}

// DefaultTaxBands returns the 2024/25 bands over post-allowance income.
// Reference: https://www.gov.uk/income-tax-rates
func DefaultTaxBands() []TaxBand {
	return []TaxBand{
		{Name: "Basic rate", Lower: 0, Upper: 37700, Rate: 0.20},
		{Name: "Higher rate", Lower: 37700, Upper: 125140, Rate: 0.40},
		{Name: "Additional rate", Lower: 125140, Upper: 0, Rate: 0.45}, // unbounded
	}
}

// DefaultTaxYearConfig returns the default UK tax configuration for 2024/25
func DefaultTaxYearConfig() TaxYearConfig {
	return TaxYearConfig{
		Year:                       "2024/25",
		PersonalAllowance:          12570.0,
		TaperThreshold:             100000.0,
		TaperRate:                  0.5,
		InterestCreditRate:         0.20,
		PaymentsOnAccountThreshold: 10000.0,
		Bands:                      DefaultTaxBands(),
	}
}

// LoadTaxYearConfig loads tax year constants from a YAML file
func LoadTaxYearConfig(filename string) (*TaxYearConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", filename, err)
	}

	content := preprocessPercentages(string(data))

	var config TaxYearConfig
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", filename, err)
	}

	return &config, nil
}

// LoadDefaultTaxYear loads the tax year constants from the embedded
// default-config.yaml. It handles percentage format (e.g., "20%" -> 0.2).
func LoadDefaultTaxYear() (*TaxYearConfig, error) {
	// Embedded default config (compiled into binary)
	content := preprocessPercentages(defaultConfigYAML)

	var config TaxYearConfig
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("config: parse embedded defaults: %w", err)
	}

	return &config, nil
}

// preprocessPercentages converts percentage values like "20%" to decimal "0.2"
func preprocessPercentages(content string) string {
	// Match patterns like: key: 20% or key: 3.89%
	// But not inside strings (already quoted)
	re := regexp.MustCompile(`(:\s*)(\d+\.?\d*)%`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		// Extract the number before %
		parts := re.FindStringSubmatch(match)
		if len(parts) >= 3 {
			numStr := parts[2]
			num, err := strconv.ParseFloat(numStr, 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}
