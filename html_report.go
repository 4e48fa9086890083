package main

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"time"
)

// GenerateHTMLReport writes a self-contained HTML report for a computation:
// headline metrics, the property table, the full working, band breakdown,
// SA105 guide and advisory flags. No external assets; the file opens
// straight from disk.
func GenerateHTMLReport(portfolio Portfolio, result TaxComputationResult, cfg TaxYearConfig, reference string, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("html: create %q: %w", filename, err)
	}
	defer f.Close()

	// Write HTML header
	fmt.Fprintf(f, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Rental Tax Estimate %s</title>
    <style>
        :root {
            --primary: #2563eb;
            --success: #16a34a;
            --warning: #ea580c;
            --danger: #dc2626;
            --bg: #f8fafc;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 960px; margin: 0 auto; }
        h1 {
            font-size: 1.75rem;
            margin-bottom: 0.5rem;
            color: var(--primary);
        }
        h2 {
            font-size: 1.25rem;
            margin: 1.5rem 0 1rem;
            padding-bottom: 0.5rem;
            border-bottom: 2px solid var(--primary);
        }
        .subtitle {
            color: var(--text-muted);
            margin-bottom: 1.5rem;
        }
        .card {
            background: var(--card-bg);
            border-radius: 8px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }
        .grid { display: grid; gap: 1rem; }
        .grid-4 { grid-template-columns: repeat(4, 1fr); }
        @media (max-width: 768px) {
            .grid-4 { grid-template-columns: repeat(2, 1fr); }
        }
        .metric {
            text-align: center;
            padding: 1rem;
            border-radius: 8px;
            background: var(--bg);
        }
        .metric-value {
            font-size: 1.5rem;
            font-weight: 700;
            color: var(--primary);
        }
        .metric-label {
            font-size: 0.875rem;
            color: var(--text-muted);
        }
        .metric.success .metric-value { color: var(--success); }
        .metric.warning .metric-value { color: var(--warning); }
        table {
            width: 100%%;
            border-collapse: collapse;
            font-size: 0.875rem;
        }
        th, td {
            padding: 0.75rem 0.5rem;
            text-align: right;
            border-bottom: 1px solid var(--border);
        }
        th {
            background: var(--bg);
            font-weight: 600;
        }
        th:first-child, td:first-child { text-align: left; }
        tr:hover { background: #f1f5f9; }
        .negative { color: var(--danger); }
        .total-row { background: var(--bg); font-weight: 600; }
        .note { font-size: 0.8rem; color: var(--text-muted); }
        .badge {
            display: inline-block;
            padding: 0.25rem 0.75rem;
            border-radius: 9999px;
            font-size: 0.75rem;
            font-weight: 600;
            margin-right: 0.5rem;
        }
        .badge-warning { background: #ffedd5; color: var(--warning); }
        .badge-info { background: #dbeafe; color: var(--primary); }
        .flag-list li { list-style: none; margin-bottom: 0.5rem; }
        .footer {
            text-align: center;
            color: var(--text-muted);
            font-size: 0.75rem;
            margin-top: 2rem;
            padding-top: 1rem;
            border-top: 1px solid var(--border);
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>UK Rental Property Tax Estimate</h1>
        <p class="subtitle">SA105 figures for tax year %s</p>
`, cfg.GetYear(), cfg.GetYear())

	// Headline metrics
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Summary</h2>
            <div class="grid grid-4">
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Final Estimated Tax</div>
                </div>
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Effective Rate</div>
                </div>
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Taxable Income</div>
                </div>
                <div class="metric success">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Mortgage Interest Credit</div>
                </div>
            </div>
        </div>
`, FormatMoneyFull(result.FinalTax), FormatPercent(result.EffectiveRate),
		FormatMoneyFull(result.TaxableIncomeBeforeAllowance), FormatMoneyFull(result.MortgageTaxCredit))

	// Properties
	if len(portfolio.Properties) > 0 {
		fmt.Fprintf(f, `
        <div class="card">
            <h2>Properties</h2>
            <table>
                <tr><th>Property</th><th>Type</th><th>Rent</th><th>Expenses</th><th>Interest</th><th>Profit</th></tr>
`)
		for i := range portfolio.Properties {
			prop := &portfolio.Properties[i]
			profitClass := ""
			if prop.Profit() < 0 {
				profitClass = ` class="negative"`
			}
			fmt.Fprintf(f, "                <tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td%s>%s</td></tr>\n",
				html.EscapeString(prop.DisplayName(i+1)), prop.Type.String(),
				FormatMoneyFull(prop.Rent), FormatMoneyFull(prop.Expenses),
				FormatMoneyFull(prop.MortgageInterest), profitClass, FormatMoneyFull(prop.Profit()))
		}
		fmt.Fprintf(f, `                <tr class="total-row"><td>Total</td><td></td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>
            </table>
        </div>
`, FormatMoneyFull(result.TotalRent), FormatMoneyFull(result.TotalExpenses),
			FormatMoneyFull(result.TotalInterest), FormatMoneyFull(result.ProfitBeforeInterest))
	}

	// Computation walk
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Computation</h2>
            <table>
                <tr><td>Rent received</td><td>%s</td></tr>
                <tr><td>Allowable expenses</td><td>%s</td></tr>
                <tr><td>Profit before interest</td><td>%s</td></tr>
                <tr><td>Other income</td><td>%s</td></tr>
                <tr><td>Taxable income</td><td>%s</td></tr>
                <tr><td>Personal allowance</td><td>%s</td></tr>
                <tr><td>Income after allowance</td><td>%s</td></tr>
                <tr><td>Income tax before credit</td><td>%s</td></tr>
                <tr><td>Mortgage interest credit</td><td>-%s</td></tr>
                <tr class="total-row"><td>Final estimated tax</td><td>%s</td></tr>
            </table>
        </div>
`, FormatMoneyFull(result.TotalRent), FormatMoneyFull(result.TotalExpenses),
		FormatMoneyFull(result.ProfitBeforeInterest), FormatMoneyFull(portfolio.OtherIncome),
		FormatMoneyFull(result.TaxableIncomeBeforeAllowance), FormatMoneyFull(result.PersonalAllowance),
		FormatMoneyFull(result.TaxableIncome), FormatMoneyFull(result.IncomeTaxBeforeCredit),
		FormatMoneyFull(result.MortgageTaxCredit), FormatMoneyFull(result.FinalTax))

	// Band breakdown
	if len(result.Bands) > 0 {
		fmt.Fprintf(f, `
        <div class="card">
            <h2>Tax by Band</h2>
            <table>
                <tr><th>Band</th><th>Rate</th><th>Amount</th><th>Tax</th></tr>
`)
		for _, band := range result.Bands {
			fmt.Fprintf(f, "                <tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				band.Name, FormatPercent(band.Rate), FormatMoneyFull(band.Amount), FormatMoneyFull(band.Tax))
		}
		fmt.Fprintf(f, `                <tr class="total-row"><td>Total</td><td></td><td>%s</td><td>%s</td></tr>
            </table>
        </div>
`, FormatMoneyFull(result.TaxableIncome), FormatMoneyFull(result.IncomeTaxBeforeCredit))
	}

	// SA105 guide
	fmt.Fprintf(f, `
        <div class="card">
            <h2>SA105 Box Guide</h2>
            <table>
                <tr><th>Box</th><th>Description</th><th>Amount</th></tr>
`)
	for _, box := range BuildSA105Guide(result) {
		fmt.Fprintf(f, "                <tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			box.Box, box.Label, FormatMoneyFull(box.Amount))
		if box.Note != "" {
			fmt.Fprintf(f, "                <tr><td></td><td class=\"note\" colspan=\"2\">%s</td></tr>\n",
				html.EscapeString(box.Note))
		}
	}
	fmt.Fprintf(f, `            </table>
        </div>
`)

	// Advisory flags
	if len(result.Flags) > 0 {
		fmt.Fprintf(f, `
        <div class="card">
            <h2>Advisory Flags</h2>
            <ul class="flag-list">
`)
		for _, flag := range result.Flags {
			badge := "badge-info"
			if flag.Severity == SeverityWarning {
				badge = "badge-warning"
			}
			fmt.Fprintf(f, "                <li><span class=\"badge %s\">%s</span>%s</li>\n",
				badge, flag.Severity.String(), html.EscapeString(flag.Message))
		}
		fmt.Fprintf(f, `            </ul>
        </div>
`)
	}

	// Footer
	fmt.Fprintf(f, `
        <div class="footer">
            Estimate only, not tax advice. Mortgage interest credit shown uncapped.<br>
            Generated %s | Reference %s
        </div>
    </div>
</body>
</html>
`, time.Now().Format("2006-01-02 15:04:05"), reference)

	return nil
}

// ExportHTMLReport writes the HTML report to a timestamped file under dir,
// creating the directory if needed. Returns the file path.
func ExportHTMLReport(dir string, portfolio Portfolio, result TaxComputationResult, cfg TaxYearConfig, reference string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("html: create output dir: %w", err)
	}

	filename := fmt.Sprintf("rental-tax-%s.html", time.Now().Format("2006-01-02-150405"))
	path := filepath.Join(dir, filename)
	if err := GenerateHTMLReport(portfolio, result, cfg, reference, path); err != nil {
		return "", err
	}

	return path, nil
}
