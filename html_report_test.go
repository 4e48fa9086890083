package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// HTML Report Tests

func TestGenerateHTMLReport(t *testing.T) {
	portfolio, result, cfg := testPortfolio()
	path := filepath.Join(t.TempDir(), "report.html")

	if err := GenerateHTMLReport(portfolio, result, cfg, "ab12cd34", path); err != nil {
		t.Fatalf("HTML generation failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"City flat",
		"Final estimated tax",
		"£4,446.00",
		"SA105 Box Guide",
		"Reference ab12cd34",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Report should contain %q", want)
		}
	}

	// Self-contained file: no external scripts or stylesheets
	if strings.Contains(out, "<script src") || strings.Contains(out, "<link rel") {
		t.Error("Report should not reference external assets")
	}
}

func TestGenerateHTMLReport_EscapesNames(t *testing.T) {
	cfg := DefaultTaxYearConfig()
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Name: `<script>alert("x")</script>`, Rent: 9600},
		},
	}
	result := ComputeTax(portfolio, cfg)
	path := filepath.Join(t.TempDir(), "report.html")

	if err := GenerateHTMLReport(portfolio, result, cfg, "ab12cd34", path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(data), `<script>alert`) {
		t.Error("Property names must be HTML-escaped")
	}
}

func TestExportHTMLReport(t *testing.T) {
	portfolio, result, cfg := testPortfolio()
	dir := t.TempDir()

	path, err := ExportHTMLReport(dir, portfolio, result, cfg, "ab12cd34")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("Export should be an .html file, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Exported file missing: %v", err)
	}
}
