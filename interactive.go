package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// validateMoney checks if amount is non-negative and reasonable
func validateMoney(amount float64, fieldName string) error {
	if amount < 0 {
		return ValidationError{Field: fieldName, Message: "Amount cannot be negative"}
	}
	if amount > 100000000 { // 100 million
		return ValidationError{Field: fieldName, Message: "Amount seems too large. Please check the value"}
	}
	return nil
}

// parseMoneyInput parses money strings like "9600", "9.6k", "1.2m" or
// "£9,600" into a GBP amount.
func parseMoneyInput(input string) (float64, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	input = strings.TrimPrefix(input, "£")
	input = strings.ReplaceAll(input, ",", "")
	multiplier := 1.0
	if strings.HasSuffix(input, "k") {
		multiplier = 1000
		input = strings.TrimSuffix(input, "k")
	} else if strings.HasSuffix(input, "m") {
		multiplier = 1000000
		input = strings.TrimSuffix(input, "m")
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	return val * multiplier, nil
}

// InteractiveScenarioBuilder walks the user through entering a rental
// portfolio at the terminal.
type InteractiveScenarioBuilder struct {
	reader   *bufio.Reader
	scenario *Scenario
}

// NewInteractiveScenarioBuilder creates a new builder reading from stdin
func NewInteractiveScenarioBuilder() *InteractiveScenarioBuilder {
	return &InteractiveScenarioBuilder{
		reader:   bufio.NewReader(os.Stdin),
		scenario: &Scenario{},
	}
}

// promptString asks for a string with a default value
func (b *InteractiveScenarioBuilder) promptString(prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Printf("%s: ", prompt)
	}
	input, _ := b.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// promptMoney asks for a money amount with validation (accepts "9.6k",
// "£9,600" or "9600")
func (b *InteractiveScenarioBuilder) promptMoney(prompt string, defaultVal float64) float64 {
	defaultStr := FormatMoney(defaultVal)
	for {
		fmt.Printf("%s [%s]: ", prompt, defaultStr)
		input, _ := b.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			return defaultVal
		}
		amount, err := parseMoneyInput(input)
		if err != nil {
			fmt.Printf("  ✗ Invalid amount. Enter as '9600', '9.6k' or '£9,600'\n")
			continue
		}
		if err := validateMoney(amount, "amount"); err != nil {
			fmt.Printf("  ✗ %s\n", err.Error())
			continue
		}
		return amount
	}
}

// promptYesNo asks a yes/no question. Empty input takes the default.
func (b *InteractiveScenarioBuilder) promptYesNo(prompt string, defaultYes bool) bool {
	def := "y/N"
	if defaultYes {
		def = "Y/n"
	}
	fmt.Printf("%s [%s]: ", prompt, def)
	input, _ := b.reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

// promptPropertyType asks for a property type with validation
func (b *InteractiveScenarioBuilder) promptPropertyType(prompt string, defaultVal PropertyType) PropertyType {
	for {
		fmt.Printf("%s [%s]: ", prompt, defaultVal.Slug())
		input, _ := b.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			return defaultVal
		}
		pt, err := ParsePropertyType(input)
		if err != nil {
			fmt.Printf("  ✗ Unknown type. Enter residential, furnished-holiday or commercial\n")
			continue
		}
		return pt
	}
}

// BuildScenario prompts for every property and the other income figure,
// then echoes the totals back.
func (b *InteractiveScenarioBuilder) BuildScenario() *Scenario {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║              RENTAL PORTFOLIO SETUP                                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Enter annual figures for the tax year you are filing. Press Enter to accept")
	fmt.Println("defaults. For money, enter '9600', '9.6k' or '£9,600'.")
	fmt.Println()

	propertyNum := 1
	for {
		fmt.Printf("─── Property %d ───\n", propertyNum)
		property := PropertyRecord{
			Name:             b.promptString("  Name", fmt.Sprintf("Property %d", propertyNum)),
			Type:             b.promptPropertyType("  Type (residential/furnished-holiday/commercial)", Residential),
			Rent:             b.promptMoney("  Annual rent received", 0),
			Expenses:         b.promptMoney("  Allowable expenses (repairs, agent fees, insurance)", 0),
			MortgageInterest: b.promptMoney("  Mortgage interest paid", 0),
		}
		b.scenario.Portfolio.Properties = append(b.scenario.Portfolio.Properties, property)

		fmt.Println()
		if !b.promptYesNo("  Add another property?", false) {
			break
		}
		propertyNum++
		fmt.Println()
	}

	fmt.Println()
	fmt.Println("─── Other Income ───")
	b.scenario.Portfolio.OtherIncome = b.promptMoney("  Taxable income outside the portfolio (salary, pension)", 0)

	p := &b.scenario.Portfolio
	fmt.Println()
	fmt.Printf("Entered %d %s: rent %s, expenses %s, mortgage interest %s, other income %s\n",
		len(p.Properties), pluralProperties(len(p.Properties)),
		FormatMoneyFull(p.TotalRent()), FormatMoneyFull(p.TotalExpenses()),
		FormatMoneyFull(p.TotalInterest()), FormatMoneyFull(p.OtherIncome))

	return b.scenario
}

// OfferSave asks whether to save the scenario and writes it if wanted.
// Returns the filename written, or "" when the user declined.
func (b *InteractiveScenarioBuilder) OfferSave(defaultFilename string) (string, error) {
	fmt.Println()
	if !b.promptYesNo("Save this portfolio for future runs?", false) {
		return "", nil
	}
	filename := b.promptString("  File name", defaultFilename)
	if err := b.SaveScenario(filename); err != nil {
		return "", err
	}
	fmt.Printf("\nScenario saved to %s\n", filename)
	fmt.Println("You can edit this file to adjust figures for future runs.")
	return filename, nil
}

// SaveScenario saves the built portfolio to a YAML file
func (b *InteractiveScenarioBuilder) SaveScenario(filename string) error {
	return SaveScenario(b.scenario, filename)
}

func pluralProperties(n int) string {
	if n == 1 {
		return "property"
	}
	return "properties"
}
