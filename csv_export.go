package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewExportReference returns a short unique reference stamped on every
// export (file content, JSON response, log line) so a figure on paper can
// be traced back to a computation.
func NewExportReference() string {
	return uuid.New().String()[:8]
}

// WriteComputationCSV writes the full computation to w: metadata,
// properties, the working, band breakdown, SA105 guide and flags.
// Amounts are plain numbers with two decimals so spreadsheets parse them.
func WriteComputationCSV(w io.Writer, portfolio Portfolio, result TaxComputationResult, cfg TaxYearConfig, reference string, generated time.Time) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Rental Property Income Tax Estimate"},
		{"Generated", generated.Format("2006-01-02 15:04:05")},
		{"Tax year", cfg.GetYear()},
		{"Reference", reference},
		{},
		{"Properties"},
		{"Property", "Type", "Rent", "Expenses", "Mortgage Interest", "Profit"},
	}

	for i := range portfolio.Properties {
		prop := &portfolio.Properties[i]
		rows = append(rows, []string{
			prop.DisplayName(i + 1),
			prop.Type.String(),
			csvMoney(prop.Rent),
			csvMoney(prop.Expenses),
			csvMoney(prop.MortgageInterest),
			csvMoney(prop.Profit()),
		})
	}
	rows = append(rows, []string{
		"Total", "",
		csvMoney(result.TotalRent),
		csvMoney(result.TotalExpenses),
		csvMoney(result.TotalInterest),
		csvMoney(result.ProfitBeforeInterest),
	})

	rows = append(rows,
		[]string{},
		[]string{"Computation"},
		[]string{"Item", "Amount"},
		[]string{"Total rent received", csvMoney(result.TotalRent)},
		[]string{"Allowable expenses", csvMoney(result.TotalExpenses)},
		[]string{"Profit before interest", csvMoney(result.ProfitBeforeInterest)},
		[]string{"Other income", csvMoney(portfolio.OtherIncome)},
		[]string{"Taxable income", csvMoney(result.TaxableIncomeBeforeAllowance)},
		[]string{"Personal allowance", csvMoney(result.PersonalAllowance)},
		[]string{"Income after allowance", csvMoney(result.TaxableIncome)},
		[]string{"Income tax before credit", csvMoney(result.IncomeTaxBeforeCredit)},
		[]string{"Mortgage interest credit", csvMoney(result.MortgageTaxCredit)},
		[]string{"Final estimated tax", csvMoney(result.FinalTax)},
		[]string{"Effective rate", FormatPercent(result.EffectiveRate)},
	)

	if len(result.Bands) > 0 {
		rows = append(rows, []string{}, []string{"Tax by band"},
			[]string{"Band", "Rate", "Amount", "Tax"})
		for _, band := range result.Bands {
			rows = append(rows, []string{
				band.Name,
				FormatPercent(band.Rate),
				csvMoney(band.Amount),
				csvMoney(band.Tax),
			})
		}
	}

	rows = append(rows, []string{}, []string{"SA105 boxes"},
		[]string{"Box", "Label", "Amount", "Note"})
	for _, box := range BuildSA105Guide(result) {
		rows = append(rows, []string{box.Box, box.Label, csvMoney(box.Amount), box.Note})
	}

	if len(result.Flags) > 0 {
		rows = append(rows, []string{}, []string{"Advisory flags"},
			[]string{"Severity", "Message"})
		for _, flag := range result.Flags {
			rows = append(rows, []string{flag.Severity.String(), flag.Message})
		}
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportComputationCSV writes the computation to a timestamped CSV file
// under dir, creating the directory if needed. Returns the file path.
func ExportComputationCSV(dir string, portfolio Portfolio, result TaxComputationResult, cfg TaxYearConfig, reference string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("csv: create output dir: %w", err)
	}

	filename := fmt.Sprintf("rental-tax-%s.csv", time.Now().Format("2006-01-02-150405"))
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	if err := WriteComputationCSV(f, portfolio, result, cfg, reference, time.Now()); err != nil {
		return "", err
	}

	return path, nil
}

func csvMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
