package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FormatMoney formats a float as a compact currency string
func FormatMoney(amount float64) string {
	if amount < 0 {
		return "-" + FormatMoney(-amount)
	}
	if amount >= 1000000 {
		return fmt.Sprintf("£%.2fM", amount/1000000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("£%.0fk", amount/1000)
	}
	return fmt.Sprintf("£%.0f", amount)
}

// FormatMoneyFull formats a float as full currency with thousands
// separators and pence, e.g. £12,460.00. Tax documents want exact figures.
func FormatMoneyFull(amount float64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}
	return neg + "£" + intPart + frac
}

// FormatPercent formats a decimal rate as a percentage
func FormatPercent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

// PrintHeader prints the tool banner and the tax year constants in use
func PrintHeader(w io.Writer, cfg TaxYearConfig) {
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║                UK RENTAL PROPERTY INCOME TAX ESTIMATE (SA105)                ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Tax year %s:\n", cfg.GetYear())
	fmt.Fprintln(w, "─────────────────")
	fmt.Fprintf(w, "  Personal allowance: %s, tapering above %s (gone at %s)\n",
		FormatMoneyFull(cfg.GetPersonalAllowance()),
		FormatMoney(cfg.GetTaperThreshold()),
		FormatMoney(cfg.GetAllowanceGoneThreshold()))

	var bands []string
	for _, band := range cfg.GetBands() {
		if band.Upper > band.Lower {
			bands = append(bands, fmt.Sprintf("%s %s to %s",
				band.Name, FormatPercent(band.Rate), FormatMoney(band.Upper)))
		} else {
			bands = append(bands, fmt.Sprintf("%s %s above",
				band.Name, FormatPercent(band.Rate)))
		}
	}
	fmt.Fprintf(w, "  Bands (after allowance): %s\n", strings.Join(bands, " │ "))
	fmt.Fprintf(w, "  Mortgage interest relief: %s credit on finance costs\n",
		FormatPercent(cfg.GetInterestCreditRate()))
	fmt.Fprintln(w)
}

// PrintResultSummary prints the full computation: properties, working,
// band breakdown, SA105 guide and any advisory flags
func PrintResultSummary(w io.Writer, portfolio Portfolio, result TaxComputationResult) {
	if len(portfolio.Properties) > 0 {
		fmt.Fprintln(w, "Properties:")
		fmt.Fprintln(w, strings.Repeat("─", 95))
		fmt.Fprintf(w, "%-20s %-22s %12s %12s %12s %12s\n",
			"Property", "Type", "Rent", "Expenses", "Interest", "Profit")
		fmt.Fprintln(w, strings.Repeat("─", 95))
		for i := range portfolio.Properties {
			prop := &portfolio.Properties[i]
			fmt.Fprintf(w, "%-20s %-22s %12s %12s %12s %12s\n",
				truncate(prop.DisplayName(i+1), 20),
				prop.Type.String(),
				FormatMoneyFull(prop.Rent),
				FormatMoneyFull(prop.Expenses),
				FormatMoneyFull(prop.MortgageInterest),
				FormatMoneyFull(prop.Profit()))
		}
		fmt.Fprintln(w, strings.Repeat("─", 95))
		fmt.Fprintf(w, "%-20s %-22s %12s %12s %12s %12s\n",
			"Total", "",
			FormatMoneyFull(result.TotalRent),
			FormatMoneyFull(result.TotalExpenses),
			FormatMoneyFull(result.TotalInterest),
			FormatMoneyFull(result.ProfitBeforeInterest))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Computation:")
	fmt.Fprintln(w, strings.Repeat("─", 50))
	printMoneyLine(w, "Rent received", result.TotalRent)
	printMoneyLine(w, "Allowable expenses", result.TotalExpenses)
	printMoneyLine(w, "Profit before interest", result.ProfitBeforeInterest)
	printMoneyLine(w, "Other income", portfolio.OtherIncome)
	printMoneyLine(w, "Taxable income", result.TaxableIncomeBeforeAllowance)
	printMoneyLine(w, "Personal allowance", result.PersonalAllowance)
	printMoneyLine(w, "Income after allowance", result.TaxableIncome)
	fmt.Fprintln(w)

	if len(result.Bands) > 0 {
		fmt.Fprintln(w, "Tax by band:")
		for _, band := range result.Bands {
			fmt.Fprintf(w, "  %-18s %6s on %14s  %14s\n",
				band.Name, FormatPercent(band.Rate),
				FormatMoneyFull(band.Amount), FormatMoneyFull(band.Tax))
		}
		fmt.Fprintln(w)
	}

	printMoneyLine(w, "Income tax before credit", result.IncomeTaxBeforeCredit)
	printMoneyLine(w, "Mortgage interest credit", -result.MortgageTaxCredit)
	fmt.Fprintln(w, strings.Repeat("─", 50))
	printMoneyLine(w, "Final estimated tax", result.FinalTax)
	fmt.Fprintf(w, "  %-26s %15s\n", "Effective rate", FormatPercent(result.EffectiveRate))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SA105 box guide:")
	for _, box := range BuildSA105Guide(result) {
		fmt.Fprintf(w, "  Box %-6s %-50s %14s\n", box.Box, box.Label, FormatMoneyFull(box.Amount))
		if box.Note != "" {
			fmt.Fprintf(w, "  %-11s %s\n", "", box.Note)
		}
	}
	fmt.Fprintln(w)

	if len(result.Flags) > 0 {
		fmt.Fprintln(w, "Advisory flags:")
		for _, flag := range result.Flags {
			marker := "ℹ"
			if flag.Severity == SeverityWarning {
				marker = "⚠"
			}
			fmt.Fprintf(w, "  %s %s\n", marker, flag.Message)
		}
		fmt.Fprintln(w)
	}
}

func printMoneyLine(w io.Writer, label string, amount float64) {
	fmt.Fprintf(w, "  %-26s %15s\n", label, FormatMoneyFull(amount))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}
