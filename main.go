package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

func main() {
	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `UK Rental Property Income Tax Calculator (SA105)

Estimates the income tax on a portfolio of UK rental properties for an
individual landlord. Per-property rent, allowable expenses and mortgage
interest are aggregated, the personal allowance is applied with the over
£100k taper, tax is worked out band by band, and mortgage interest relief
is given as a 20%% basic rate credit under the Section 24 rules. The output
maps every figure onto the SA105 boxes of a Self Assessment return.

MODES:
  CONSOLE (default)
    Load a scenario file and print the full computation: per-property
    table, band-by-band tax, SA105 box guide and advisory flags.
    Combine with -pdf, -html, -csv or -json for file output.

  INTERACTIVE (-interactive flag)
    Build the portfolio with guided terminal prompts, optionally save it
    as a scenario file, then print the computation.

  WEB (-web flag)
    Serve a browser UI with live recalculation and CSV/PDF export.

Usage:
  %s [options]

Options:
`, os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  %s -interactive                       Guided portfolio entry
  %s -scenario portfolio.yaml           Console summary
  %s -scenario portfolio.yaml -pdf      Printable SA105 filing summary PDF
  %s -scenario portfolio.yaml -csv -html -out run1
                                        CSV and HTML exports into run1/
  %s -scenario portfolio.yaml -json     Computation as JSON on stdout
  %s -web                               Browser UI on localhost:8093
  %s -web -addr :0                      Browser UI on an auto-assigned port
  %s -config 2025-26.yaml -scenario portfolio.yaml
                                        Custom tax year constants

Configuration:
  Tax year constants are embedded for 2024/25 (England and Northern
  Ireland) and can be overridden with -config pointing at a YAML file:

    personal_allowance:    tax-free amount (12570)
    taper_threshold:       income where the allowance starts to shrink (100000)
    taper_rate:            allowance lost per pound over the threshold (50%%)
    interest_credit_rate:  relief rate on mortgage interest (20%%)
    tax_bands:             bands over income AFTER the allowance

  Rates accept percentage form ("20%%") or decimal ("0.2").
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
	}

	// Command line flags
	configFile := flag.String("config", "", "Path to tax year YAML (default: embedded 2024/25 constants)")
	scenarioFile := flag.String("scenario", "", "Path to portfolio scenario YAML")
	saveFile := flag.String("save", "", "Save the interactively built portfolio to this file")
	interactiveMode := flag.Bool("interactive", false, "Build the portfolio with guided terminal prompts")
	webMode := flag.Bool("web", false, "Start web server mode (opens external browser)")
	webAddr := flag.String("addr", "localhost:8093", "Web server address (use :0 for auto port)")
	pdfOut := flag.Bool("pdf", false, "Export the filing summary as a PDF")
	htmlOut := flag.Bool("html", false, "Export an HTML report and open it in the browser")
	csvOut := flag.Bool("csv", false, "Export the computation as CSV")
	jsonOut := flag.Bool("json", false, "Print the computation as JSON instead of the console summary")
	outDir := flag.String("out", "exports", "Directory for file exports")
	flag.Parse()

	SetupLogging()

	cfg, err := loadTaxYear(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tax year config: %v\n", err)
		os.Exit(1)
	}

	// Web server mode (external browser)
	if *webMode {
		server := NewWebServer(*cfg, *webAddr)
		if *outDir != "" {
			server.exportDir = *outDir
		}
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Web server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var scenario *Scenario
	switch {
	case *interactiveMode:
		builder := NewInteractiveScenarioBuilder()
		scenario = builder.BuildScenario()
		if *saveFile != "" {
			if err := builder.SaveScenario(*saveFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving scenario: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("\nScenario saved to %s\n", *saveFile)
		} else if _, err := builder.OfferSave("scenario.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save scenario: %v\n", err)
		}
	case *scenarioFile != "":
		scenario, err = LoadScenario(*scenarioFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "No portfolio input. Provide -scenario <file>, or run with -interactive or -web.")
		fmt.Fprintf(os.Stderr, "Run %s -h for all options.\n", os.Args[0])
		os.Exit(2)
	}

	result := ComputeTax(scenario.Portfolio, *cfg)

	if *jsonOut {
		printResultJSON(scenario.Portfolio, result)
	} else {
		PrintHeader(os.Stdout, *cfg)
		PrintResultSummary(os.Stdout, scenario.Portfolio, result)
	}

	runExports(*outDir, scenario.Portfolio, result, *cfg, *pdfOut, *htmlOut, *csvOut)
}

// loadTaxYear loads tax year constants from a file, or the embedded
// 2024/25 defaults when no file is given.
func loadTaxYear(configFile string) (*TaxYearConfig, error) {
	if configFile != "" {
		return LoadTaxYearConfig(configFile)
	}
	return LoadDefaultTaxYear()
}

// printResultJSON writes the computation to stdout for scripted use
func printResultJSON(portfolio Portfolio, result TaxComputationResult) {
	payload := struct {
		Portfolio Portfolio            `json:"portfolio"`
		Result    TaxComputationResult `json:"result"`
		SA105     []SA105Box           `json:"sa105"`
	}{
		Portfolio: portfolio,
		Result:    result,
		SA105:     BuildSA105Guide(result),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// runExports writes the requested file exports. Failures are reported but
// do not stop the remaining exports.
func runExports(dir string, portfolio Portfolio, result TaxComputationResult, cfg TaxYearConfig, pdf, html, csv bool) {
	if !pdf && !html && !csv {
		return
	}

	reference := NewExportReference()
	fmt.Println()
	fmt.Printf("Export reference: %s\n", reference)

	if pdf {
		path, err := ExportPDFReport(dir, portfolio, result, cfg, reference)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting PDF: %v\n", err)
		} else {
			fmt.Printf("PDF report:  %s\n", path)
		}
	}

	if csv {
		path, err := ExportComputationCSV(dir, portfolio, result, cfg, reference)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting CSV: %v\n", err)
		} else {
			fmt.Printf("CSV export:  %s\n", path)
		}
	}

	if html {
		path, err := ExportHTMLReport(dir, portfolio, result, cfg, reference)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting HTML: %v\n", err)
		} else {
			fmt.Printf("HTML report: %s\n", path)
			openBrowser(path)
		}
	}
}

// openBrowser opens a URL or file in the default browser
func openBrowser(target string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", target)
	default:
		fmt.Fprintf(os.Stderr, "Cannot open browser on %s\n", runtime.GOOS)
		return
	}

	err := cmd.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening browser: %v\n", err)
	}
}
