package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PropertyType classifies a rental property. The 2024/25 computation taxes
// all types identically; the classification is carried through to reports
// and the SA105 guide.
type PropertyType int

const (
	Residential      PropertyType = iota
	FurnishedHoliday              // Furnished holiday let (FHL regime ends April 2025)
	Commercial
)

func (pt PropertyType) String() string {
	switch pt {
	case Residential:
		return "Residential"
	case FurnishedHoliday:
		return "Furnished Holiday Let"
	case Commercial:
		return "Commercial"
	default:
		return "Unknown"
	}
}

// Slug returns the stable identifier used in scenario YAML and the JSON API.
func (pt PropertyType) Slug() string {
	switch pt {
	case FurnishedHoliday:
		return "furnished-holiday"
	case Commercial:
		return "commercial"
	default:
		return "residential"
	}
}

// ParsePropertyType maps a scenario/API string to a PropertyType.
// The empty string defaults to Residential.
func ParsePropertyType(s string) (PropertyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "residential":
		return Residential, nil
	case "furnished-holiday", "furnished holiday", "fhl":
		return FurnishedHoliday, nil
	case "commercial":
		return Commercial, nil
	default:
		return Residential, fmt.Errorf("unknown property type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so JSON carries the slug.
func (pt PropertyType) MarshalText() ([]byte, error) {
	return []byte(pt.Slug()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON decoding.
func (pt *PropertyType) UnmarshalText(text []byte) error {
	parsed, err := ParsePropertyType(string(text))
	if err != nil {
		return err
	}
	*pt = parsed
	return nil
}

// MarshalYAML stores the slug in scenario files so they stay hand-editable.
func (pt PropertyType) MarshalYAML() (interface{}, error) {
	return pt.Slug(), nil
}

// UnmarshalYAML parses the slug form from scenario files.
func (pt *PropertyType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParsePropertyType(s)
	if err != nil {
		return err
	}
	*pt = parsed
	return nil
}

// PropertyRecord holds one rental property's figures for the tax year.
// All money values are annual GBP amounts.
type PropertyRecord struct {
	Name string       `yaml:"name" json:"name"`
	Type PropertyType `yaml:"type" json:"type"`
	// Rent is the gross annual rent received
	Rent float64 `yaml:"rent" json:"rent"`
	// Expenses are allowable expenses (repairs, agent fees, insurance,
	// ground rent). Mortgage interest is NOT included here.
	Expenses float64 `yaml:"expenses" json:"expenses"`
	// MortgageInterest is the annual residential finance cost. Since the
	// Section 24 restriction it is not deductible as an expense; relief is
	// given as a basic rate tax credit instead.
	MortgageInterest float64 `yaml:"mortgage_interest" json:"mortgage_interest"`
}

// Profit returns rent less allowable expenses. Negative when the property
// made a loss. Mortgage interest is excluded.
func (p *PropertyRecord) Profit() float64 {
	return p.Rent - p.Expenses
}

// DisplayName returns the property name, or "Property N" when unnamed.
// position is 1-based.
func (p *PropertyRecord) DisplayName(position int) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Sprintf("Property %d", position)
	}
	return name
}

// Portfolio is the complete input to the tax computation: every rental
// property plus taxable income from outside the property business.
type Portfolio struct {
	Properties []PropertyRecord `yaml:"properties" json:"properties"`
	// OtherIncome is non-property taxable income (salary, pension, ...).
	// It determines which tax bands the rental profit falls into.
	OtherIncome float64 `yaml:"other_income" json:"other_income"`
}

// TotalRent sums gross rent across all properties.
func (p *Portfolio) TotalRent() float64 {
	total := 0.0
	for i := range p.Properties {
		total += p.Properties[i].Rent
	}
	return total
}

// TotalExpenses sums allowable expenses across all properties.
func (p *Portfolio) TotalExpenses() float64 {
	total := 0.0
	for i := range p.Properties {
		total += p.Properties[i].Expenses
	}
	return total
}

// TotalInterest sums mortgage interest across all properties.
func (p *Portfolio) TotalInterest() float64 {
	total := 0.0
	for i := range p.Properties {
		total += p.Properties[i].MortgageInterest
	}
	return total
}

// TotalProfit returns rent less expenses over the whole portfolio.
// Negative when the property business made an overall loss.
func (p *Portfolio) TotalProfit() float64 {
	return p.TotalRent() - p.TotalExpenses()
}

// Clone returns a deep copy of the portfolio.
func (p *Portfolio) Clone() *Portfolio {
	clone := &Portfolio{
		Properties:  make([]PropertyRecord, len(p.Properties)),
		OtherIncome: p.OtherIncome,
	}
	copy(clone.Properties, p.Properties)
	return clone
}

// AppliedBand is one row of the band breakdown: the slice of taxable income
// that actually fell into a band. Bands with nothing in them are omitted.
type AppliedBand struct {
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
	Tax    float64 `json:"tax"`
}

// TaxComputationResult carries every intermediate figure of the computation
// so each surface (console, web, PDF, CSV) can show the full working.
type TaxComputationResult struct {
	TotalRent     float64 `json:"total_rent"`
	TotalExpenses float64 `json:"total_expenses"`
	TotalInterest float64 `json:"total_interest"`

	// ProfitBeforeInterest is rent less expenses (SA105 box 45 figure).
	// Negative when the property business made a loss.
	ProfitBeforeInterest float64 `json:"profit_before_interest"`

	// TaxableIncomeBeforeAllowance is ProfitBeforeInterest plus other
	// income. A rental loss offsets other income here, so this can go
	// negative when the loss exceeds it.
	TaxableIncomeBeforeAllowance float64 `json:"taxable_income_before_allowance"`

	// PersonalAllowance actually granted after tapering.
	PersonalAllowance float64 `json:"personal_allowance"`

	// TaxableIncome is what the bands apply to, after the allowance.
	TaxableIncome float64 `json:"taxable_income"`

	Bands                 []AppliedBand `json:"bands"`
	IncomeTaxBeforeCredit float64       `json:"income_tax_before_credit"`

	// MortgageTaxCredit is the Section 24 relief: total interest at the
	// basic rate. It can reduce the bill to zero but never below.
	MortgageTaxCredit float64 `json:"mortgage_tax_credit"`
	FinalTax          float64 `json:"final_tax"`

	// EffectiveRate is FinalTax over TaxableIncomeBeforeAllowance,
	// zero when there was no taxable income.
	EffectiveRate float64 `json:"effective_rate"`

	Flags []AdvisoryFlag `json:"flags"`
}
