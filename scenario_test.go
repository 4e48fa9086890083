package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Scenario Persistence Tests
//
// Scenarios persist portfolio inputs only. Tax figures are recomputed on
// every load so a saved file stays correct across tax year changes.

func TestSaveAndLoadScenario(t *testing.T) {
	original := &Scenario{
		Name: "Two flats and a cottage",
		Portfolio: Portfolio{
			Properties: []PropertyRecord{
				{Name: "City flat", Type: Residential, Rent: 12000, Expenses: 2400, MortgageInterest: 4800},
				{Name: "Seaside cottage", Type: FurnishedHoliday, Rent: 9600, Expenses: 3100, MortgageInterest: 1250.50},
			},
			OtherIncome: 41000,
		},
	}

	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	if err := SaveScenario(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Name != original.Name {
		t.Errorf("Name should round-trip, got %q", loaded.Name)
	}
	if loaded.Portfolio.OtherIncome != original.Portfolio.OtherIncome {
		t.Errorf("OtherIncome should round-trip, got £%.2f", loaded.Portfolio.OtherIncome)
	}
	if len(loaded.Portfolio.Properties) != 2 {
		t.Fatalf("Expected 2 properties, got %d", len(loaded.Portfolio.Properties))
	}

	for i, prop := range loaded.Portfolio.Properties {
		if prop != original.Portfolio.Properties[i] {
			t.Errorf("Property %d changed in round-trip: %+v vs %+v",
				i, original.Portfolio.Properties[i], prop)
		}
	}

	if loaded.Portfolio.Properties[1].Type != FurnishedHoliday {
		t.Errorf("Property type should survive the round-trip, got %v",
			loaded.Portfolio.Properties[1].Type)
	}
}

func TestSaveScenario_WritesHeader(t *testing.T) {
	s := &Scenario{
		Portfolio: Portfolio{
			Properties: []PropertyRecord{{Name: "Flat", Rent: 9600}},
		},
	}

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := SaveScenario(s, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "# Rental Tax Scenario") {
		t.Error("Saved file should start with the scenario header comment")
	}
	if !strings.Contains(content, "RUN COMMANDS") {
		t.Error("Header should list the run commands")
	}
	if !strings.Contains(content, "-scenario") {
		t.Error("Header should show how to run the saved file")
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Missing file should error")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("Error should name the file, got: %v", err)
	}
}

func TestLoadScenario_RejectsNegativeInputs(t *testing.T) {
	content := `portfolio:
  properties:
    - name: "Flat"
      type: residential
      rent: -500
  other_income: 0
`
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadScenario(path)
	if err == nil {
		t.Fatal("Negative rent should be rejected on load")
	}
	if !strings.Contains(err.Error(), "rent") {
		t.Errorf("Error should mention rent, got: %v", err)
	}
}

func TestLoadScenario_UnknownPropertyType(t *testing.T) {
	content := `portfolio:
  properties:
    - name: "Flat"
      type: castle
      rent: 9600
`
	path := filepath.Join(t.TempDir(), "castle.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("Unknown property type should be rejected")
	}
}

func TestLoadScenario_MinimalFile(t *testing.T) {
	// Hand-written scenarios often omit name, type and zero fields
	content := `portfolio:
  properties:
    - rent: 7200
  other_income: 25000
`
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("Minimal scenario should load: %v", err)
	}

	if len(s.Portfolio.Properties) != 1 || s.Portfolio.Properties[0].Rent != 7200 {
		t.Errorf("Minimal scenario parsed wrongly: %+v", s.Portfolio)
	}
	if s.Portfolio.Properties[0].Type != Residential {
		t.Errorf("Omitted type should default to residential, got %v", s.Portfolio.Properties[0].Type)
	}
}
