package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a saved set of portfolio inputs. Only inputs are persisted;
// tax figures are recomputed against the current tax year on every load.
type Scenario struct {
	Name      string    `yaml:"name,omitempty"`
	Portfolio Portfolio `yaml:"portfolio"`
}

// LoadScenario loads portfolio inputs from a YAML file
func LoadScenario(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %q: %w", filename, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parse %q: %w", filename, err)
	}

	if err := s.Portfolio.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %q: %w", filename, err)
	}

	return &s, nil
}

// SaveScenario saves portfolio inputs to a YAML file
func SaveScenario(s *Scenario, filename string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("scenario: marshal: %w", err)
	}

	// Add a header comment with instructions
	header := []byte(`# Rental Tax Scenario
# Portfolio inputs only. Tax figures are never saved; they are recomputed
# against the configured tax year every time the scenario loads.
#
# ═══════════════════════════════════════════════════════════════════════════════
# VALUE FORMATS
# ═══════════════════════════════════════════════════════════════════════════════
#   Money: GBP per year (e.g., 9500 = £9,500)
#   type:  residential | furnished-holiday | commercial
#
# ═══════════════════════════════════════════════════════════════════════════════
# RUN COMMANDS
# ═══════════════════════════════════════════════════════════════════════════════
#   ./goRentalTax -scenario <this file>           Console summary
#   ./goRentalTax -scenario <this file> -pdf      Printable PDF report
#   ./goRentalTax -scenario <this file> -csv      CSV export
#   ./goRentalTax -scenario <this file> -html     HTML report
#   ./goRentalTax -web                            Interactive browser UI
#   ./goRentalTax -help                           Show all options

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}
