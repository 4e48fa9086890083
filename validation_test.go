package main

import (
	"strings"
	"testing"
)

// Advisory Flag and Input Validation Tests
//
// Flags never change a figure; they point at inputs worth a second look
// before the numbers go on a return. Validation only rejects what the
// computation would silently mishandle (negative amounts).

// =============================================================================
// Advisory Flags
// =============================================================================

func TestCheckPortfolio_NoRentalIncome(t *testing.T) {
	result := ComputeTax(Portfolio{OtherIncome: 8000}, DefaultTaxYearConfig())

	if len(result.Flags) != 1 {
		t.Fatalf("Expected exactly 1 flag, got %d: %v", len(result.Flags), result.Flags)
	}
	if result.Flags[0].Code != FlagNoRentalIncome {
		t.Errorf("Expected no-rental-income, got %s", result.Flags[0].Code)
	}
	if result.Flags[0].Severity != SeverityWarning {
		t.Errorf("no-rental-income should be a warning, got %v", result.Flags[0].Severity)
	}
}

func TestCheckPortfolio_InterestExceedsRent(t *testing.T) {
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Name: "Overleveraged", Rent: 6000, MortgageInterest: 9000},
		},
	}

	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	if len(result.Flags) != 1 {
		t.Fatalf("Expected exactly 1 flag, got %d: %v", len(result.Flags), result.Flags)
	}
	if result.Flags[0].Code != FlagInterestExceedsRent {
		t.Errorf("Expected interest-exceeds-rent, got %s", result.Flags[0].Code)
	}
}

func TestCheckPortfolio_PaymentsOnAccount(t *testing.T) {
	// A bill over the threshold gets the informational POA note
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Name: "Big house", Rent: 60000},
		},
	}

	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	// Tax: 7540 + (47430 - 37700) × 0.40 = 11432, over the £10k threshold
	if len(result.Flags) != 1 {
		t.Fatalf("Expected exactly 1 flag, got %d: %v", len(result.Flags), result.Flags)
	}
	if result.Flags[0].Code != FlagPaymentsOnAccount {
		t.Errorf("Expected payments-on-account, got %s", result.Flags[0].Code)
	}
	if result.Flags[0].Severity != SeverityInfo {
		t.Errorf("payments-on-account should be info, got %v", result.Flags[0].Severity)
	}
}

func TestCheckPortfolio_LossFlagNamesProperty(t *testing.T) {
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Name: "Sound flat", Rent: 12000, Expenses: 2000},
			{Name: "Money pit", Rent: 3000, Expenses: 8000},
		},
		OtherIncome: 20000,
	}

	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	var lossFlag *AdvisoryFlag
	for i := range result.Flags {
		if result.Flags[i].Code == FlagLossMakingProperty {
			if lossFlag != nil {
				t.Fatal("Only one property made a loss, got a second loss flag")
			}
			lossFlag = &result.Flags[i]
		}
	}

	if lossFlag == nil {
		t.Fatal("Expected a loss-making-property flag")
	}
	if !strings.Contains(lossFlag.Message, "Money pit") {
		t.Errorf("Loss flag should name the property, got: %s", lossFlag.Message)
	}
	if !strings.Contains(lossFlag.Message, "5,000") {
		t.Errorf("Loss flag should state the £5,000 loss, got: %s", lossFlag.Message)
	}
}

func TestCheckPortfolio_UnnamedPropertyGetsPosition(t *testing.T) {
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Rent: 1000, Expenses: 4000},
		},
		OtherIncome: 20000,
	}

	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	found := false
	for _, flag := range result.Flags {
		if flag.Code == FlagLossMakingProperty {
			found = true
			if !strings.Contains(flag.Message, "Property 1") {
				t.Errorf("Unnamed property should appear as Property 1, got: %s", flag.Message)
			}
		}
	}
	if !found {
		t.Fatal("Expected a loss-making-property flag")
	}
}

func TestCheckPortfolio_FixedOrder(t *testing.T) {
	// Flags render on reports; the order must be deterministic
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Name: "Disaster", Rent: 5000, Expenses: 8000, MortgageInterest: 6000},
		},
	}

	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	expected := []FlagCode{
		FlagExpensesExceedRent,
		FlagInterestExceedsRent,
		FlagLossMakingProperty,
	}

	if len(result.Flags) != len(expected) {
		t.Fatalf("Expected %d flags, got %d: %v", len(expected), len(result.Flags), result.Flags)
	}
	for i, code := range expected {
		if result.Flags[i].Code != code {
			t.Errorf("Flag %d should be %s, got %s", i, code, result.Flags[i].Code)
		}
	}
}

func TestHasFlag(t *testing.T) {
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Rent: 2000, Expenses: 5000},
		},
	}

	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	if !result.HasFlag(FlagExpensesExceedRent) {
		t.Error("HasFlag should find expenses-exceed-rent")
	}
	if result.HasFlag(FlagAllowanceTapered) {
		t.Error("HasFlag should not find a flag that was never raised")
	}
}

// =============================================================================
// Input Validation
// =============================================================================

func TestPortfolioValidate_AcceptsSaneInputs(t *testing.T) {
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Name: "Flat", Rent: 12000, Expenses: 2400, MortgageInterest: 4800},
			{Rent: 0, Expenses: 0},
		},
		OtherIncome: 30000,
	}

	if err := portfolio.Validate(); err != nil {
		t.Errorf("Sane portfolio should validate: %v", err)
	}
}

func TestPortfolioValidate_RejectsNegatives(t *testing.T) {
	tests := []struct {
		portfolio   Portfolio
		wantInError string
		description string
	}{
		{
			portfolio:   Portfolio{OtherIncome: -1},
			wantInError: "other income",
			description: "negative other income",
		},
		{
			portfolio: Portfolio{
				Properties: []PropertyRecord{{Name: "Flat", Rent: -500}},
			},
			wantInError: "rent",
			description: "negative rent",
		},
		{
			portfolio: Portfolio{
				Properties: []PropertyRecord{{Name: "Flat", Expenses: -1}},
			},
			wantInError: "expenses",
			description: "negative expenses",
		},
		{
			portfolio: Portfolio{
				Properties: []PropertyRecord{{MortgageInterest: -250}},
			},
			wantInError: "Property 1",
			description: "negative interest names the property",
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			err := tc.portfolio.Validate()
			if err == nil {
				t.Fatalf("%s should be rejected", tc.description)
			}
			if !strings.Contains(err.Error(), tc.wantInError) {
				t.Errorf("Error should mention %q, got: %v", tc.wantInError, err)
			}
		})
	}
}

// =============================================================================
// Severity Marshalling
// =============================================================================

func TestFlagSeverity_Strings(t *testing.T) {
	if SeverityInfo.String() != "Info" {
		t.Errorf("SeverityInfo should print Info, got %q", SeverityInfo.String())
	}
	if SeverityWarning.String() != "Warning" {
		t.Errorf("SeverityWarning should print Warning, got %q", SeverityWarning.String())
	}
}

func TestFlagSeverity_MarshalText(t *testing.T) {
	info, err := SeverityInfo.MarshalText()
	if err != nil || string(info) != "info" {
		t.Errorf("SeverityInfo should marshal to info, got %q (%v)", info, err)
	}

	warning, err := SeverityWarning.MarshalText()
	if err != nil || string(warning) != "warning" {
		t.Errorf("SeverityWarning should marshal to warning, got %q (%v)", warning, err)
	}
}

func TestFlagSeverity_UnmarshalText(t *testing.T) {
	var s FlagSeverity
	if err := s.UnmarshalText([]byte("warning")); err != nil || s != SeverityWarning {
		t.Errorf("warning should unmarshal to SeverityWarning, got %v (%v)", s, err)
	}
	if err := s.UnmarshalText([]byte("info")); err != nil || s != SeverityInfo {
		t.Errorf("info should unmarshal to SeverityInfo, got %v (%v)", s, err)
	}
	if err := s.UnmarshalText([]byte("critical")); err == nil {
		t.Error("Unknown severity should error")
	}
}
