package main

import (
	"bytes"
	"strings"
	"testing"
)

// Console Output Tests
//
// Formatting helpers feed every surface (console, CSV, HTML, PDF), so
// their exact output matters more than usual.

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "£0"},
		{950, "£950"},
		{1200, "£1k"},
		{12570, "£13k"},
		{100000, "£100k"},
		{125140, "£125k"},
		{2500000, "£2.50M"},
		{-1200, "-£1k"},
	}

	for _, tc := range tests {
		if got := FormatMoney(tc.amount); got != tc.expected {
			t.Errorf("FormatMoney(%.0f) = %q, want %q", tc.amount, got, tc.expected)
		}
	}
}

func TestFormatMoneyFull(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "£0.00"},
		{123.4, "£123.40"},
		{9600, "£9,600.00"},
		{12570, "£12,570.00"},
		{1234567.891, "£1,234,567.89"},
		{-4446, "-£4,446.00"},
	}

	for _, tc := range tests {
		if got := FormatMoneyFull(tc.amount); got != tc.expected {
			t.Errorf("FormatMoneyFull(%.3f) = %q, want %q", tc.amount, got, tc.expected)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		rate     float64
		expected string
	}{
		{0, "0.0%"},
		{0.2, "20.0%"},
		{0.45, "45.0%"},
		{0.1123, "11.2%"},
	}

	for _, tc := range tests {
		if got := FormatPercent(tc.rate); got != tc.expected {
			t.Errorf("FormatPercent(%.4f) = %q, want %q", tc.rate, got, tc.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("Short names pass through, got %q", got)
	}

	long := "A very long property name indeed"
	got := truncate(long, 20)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Truncated name should end with ellipsis, got %q", got)
	}
	if len(got) > len(long) {
		t.Errorf("Truncation should shorten, got %q", got)
	}
}

// =============================================================================
// Console Rendering
// =============================================================================

func TestPrintHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintHeader(&buf, DefaultTaxYearConfig())
	out := buf.String()

	for _, want := range []string{
		"UK RENTAL PROPERTY INCOME TAX ESTIMATE (SA105)",
		"Tax year 2024/25:",
		"£12,570.00",
		"Basic rate",
		"20.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Header should contain %q\nGot:\n%s", want, out)
		}
	}
}

func TestPrintResultSummary(t *testing.T) {
	portfolio := Portfolio{
		Properties: []PropertyRecord{
			{Name: "City flat", Type: Residential, Rent: 12000, Expenses: 2400, MortgageInterest: 4800},
		},
		OtherIncome: 30000,
	}
	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	var buf bytes.Buffer
	PrintResultSummary(&buf, portfolio, result)
	out := buf.String()

	for _, want := range []string{
		"Properties:",
		"City flat",
		"Computation:",
		"Personal allowance",
		"Tax by band:",
		"Basic rate",
		"Final estimated tax",
		"£4,446.00",
		"Effective rate",
		"SA105 box guide:",
		"Box 45",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary should contain %q\nGot:\n%s", want, out)
		}
	}

	// Clean portfolio: no advisory section
	if strings.Contains(out, "Advisory flags:") {
		t.Error("Clean portfolio should print no advisory section")
	}
}

func TestPrintResultSummary_NoProperties(t *testing.T) {
	portfolio := Portfolio{OtherIncome: 20000}
	result := ComputeTax(portfolio, DefaultTaxYearConfig())

	var buf bytes.Buffer
	PrintResultSummary(&buf, portfolio, result)
	out := buf.String()

	if strings.Contains(out, "Properties:") {
		t.Error("Empty portfolio should skip the property table")
	}
	if !strings.Contains(out, "Advisory flags:") {
		t.Error("No rental income should surface as an advisory flag")
	}
	if !strings.Contains(out, "⚠") {
		t.Error("Warnings should carry the warning marker")
	}
}
