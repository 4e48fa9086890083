package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// pdfText prepares text for the PDF's Latin-1 core fonts
func pdfText(s string) string {
	// Replace UTF-8 £ (U+00A3) with the Latin-1 byte directly
	return strings.ReplaceAll(s, "£", "\xa3")
}

// FormatMoneyPDF formats money for PDF output (handles £ encoding)
func FormatMoneyPDF(amount float64) string {
	return pdfText(FormatMoneyFull(amount))
}

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFTaxReport generates the printable SA105 filing summary
type PDFTaxReport struct {
	pdf       *fpdf.Fpdf
	portfolio Portfolio
	result    TaxComputationResult
	cfg       TaxYearConfig
	reference string
	generated time.Time
}

// GeneratePDFReport creates the printable filing summary for a computation:
// a title page with the headline figures and a detail page with the
// per-property table, band breakdown, SA105 guide and advisory flags.
func GeneratePDFReport(portfolio Portfolio, result TaxComputationResult, cfg TaxYearConfig, reference string) ([]byte, error) {
	report := &PDFTaxReport{
		pdf:       fpdf.New("P", "mm", "A4", ""),
		portfolio: portfolio,
		result:    result,
		cfg:       cfg,
		reference: reference,
		generated: time.Now(),
	}

	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)

	report.addTitlePage()
	report.addDetailPage()

	// Output to buffer
	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (r *PDFTaxReport) addTitlePage() {
	r.pdf.AddPage()

	// Title
	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(30)
	r.pdf.CellFormat(contentWidth, 15, "UK Rental Property", "", 1, "C", false, 0, "")
	r.pdf.CellFormat(contentWidth, 15, "SA105 Filing Summary", "", 1, "C", false, 0, "")

	// Tax year
	r.pdf.SetFont("Arial", "", 14)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(6)
	r.pdf.CellFormat(contentWidth, 10, fmt.Sprintf("Tax year %s", r.cfg.GetYear()), "", 1, "C", false, 0, "")

	// Generation date and reference
	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.Ln(10)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", r.generated.Format("2 January 2006")), "", 1, "C", false, 0, "")
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Reference: %s", r.reference), "", 1, "C", false, 0, "")

	// Filing summary box
	r.pdf.Ln(14)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Filing Summary", "1", 1, "C", true, 0, "")

	rows := [][]string{
		{"Total Rent (Box 20)", FormatMoneyPDF(r.result.TotalRent)},
		{"Allowable Expenses", FormatMoneyPDF(r.result.TotalExpenses)},
		{"Mortgage Interest (Box 44)", FormatMoneyPDF(r.result.TotalInterest)},
		{"Net Profit (Box 45)", FormatMoneyPDF(r.result.ProfitBeforeInterest)},
		{"Personal Allowance Used", FormatMoneyPDF(r.result.PersonalAllowance)},
		{"Income Tax Before Credit", FormatMoneyPDF(r.result.IncomeTaxBeforeCredit)},
		{"Mortgage Tax Credit", FormatMoneyPDF(r.result.MortgageTaxCredit)},
		{"Final Estimated Tax", FormatMoneyPDF(r.result.FinalTax)},
	}

	r.pdf.SetTextColor(50, 50, 50)
	labelWidth := contentWidth * 0.6
	for i, row := range rows {
		border := "LR"
		if i == len(rows)-1 {
			border = "LRB"
		}
		if row[0] == "Final Estimated Tax" {
			r.pdf.SetFont("Arial", "B", 11)
		} else {
			r.pdf.SetFont("Arial", "", 11)
		}
		r.pdf.CellFormat(labelWidth, 7, row[0], border, 0, "L", true, 0, "")
		r.pdf.CellFormat(contentWidth-labelWidth, 7, row[1], border, 1, "R", true, 0, "")
	}

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(4)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Effective rate: %s of taxable income", FormatPercent(r.result.EffectiveRate)), "", 1, "C", false, 0, "")

	// Disclaimer
	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"This document is an estimate for informational purposes only and does not constitute tax advice. "+
			"The mortgage interest credit shown is uncapped; HMRC caps the relief at the lowest of finance costs, "+
			"property profits and adjusted total income. Please consult a qualified adviser before filing.", "", "C", false)
}

func (r *PDFTaxReport) addDetailPage() {
	r.pdf.AddPage()

	if len(r.portfolio.Properties) > 0 {
		r.drawSectionHeader("Properties")

		widths := []float64{50, 34, 24, 24, 24, 24}
		r.drawTableHeader([]string{"Property", "Type", "Rent", "Expenses", "Interest", "Profit"}, widths)
		for i := range r.portfolio.Properties {
			prop := &r.portfolio.Properties[i]
			r.drawTableRow([]string{
				pdfText(prop.DisplayName(i + 1)),
				prop.Type.String(),
				FormatMoneyPDF(prop.Rent),
				FormatMoneyPDF(prop.Expenses),
				FormatMoneyPDF(prop.MortgageInterest),
				FormatMoneyPDF(prop.Profit()),
			}, widths, false)
		}
		r.drawTableRow([]string{
			"Total", "",
			FormatMoneyPDF(r.result.TotalRent),
			FormatMoneyPDF(r.result.TotalExpenses),
			FormatMoneyPDF(r.result.TotalInterest),
			FormatMoneyPDF(r.result.ProfitBeforeInterest),
		}, widths, true)
		r.pdf.Ln(8)
	}

	if len(r.result.Bands) > 0 {
		r.drawSectionHeader("Tax Band Breakdown")

		widths := []float64{60, 30, 45, 45}
		r.drawTableHeader([]string{"Band", "Rate", "Amount", "Tax"}, widths)
		for _, band := range r.result.Bands {
			r.drawTableRow([]string{
				band.Name,
				FormatPercent(band.Rate),
				FormatMoneyPDF(band.Amount),
				FormatMoneyPDF(band.Tax),
			}, widths, false)
		}
		r.drawTableRow([]string{
			"Total", "",
			FormatMoneyPDF(r.result.TaxableIncome),
			FormatMoneyPDF(r.result.IncomeTaxBeforeCredit),
		}, widths, true)
		r.pdf.Ln(8)
	}

	if r.pdf.GetY() > 220 {
		r.pdf.AddPage()
	}
	r.drawSectionHeader("SA105 Box Guide")

	widths := []float64{24, 112, 44}
	r.drawTableHeader([]string{"Box", "Description", "Amount"}, widths)
	for _, box := range BuildSA105Guide(r.result) {
		r.drawTableRow([]string{box.Box, box.Label, FormatMoneyPDF(box.Amount)}, widths, false)
		if box.Note != "" {
			r.pdf.SetFont("Arial", "I", 8)
			r.pdf.SetTextColor(100, 100, 100)
			r.pdf.CellFormat(widths[0], 4.5, "", "", 0, "L", false, 0, "")
			r.pdf.CellFormat(widths[1]+widths[2], 4.5, pdfText(box.Note), "", 1, "L", false, 0, "")
		}
	}
	r.pdf.Ln(8)

	if len(r.result.Flags) > 0 {
		if r.pdf.GetY() > 230 {
			r.pdf.AddPage()
		}
		r.drawSectionHeader("Advisory Flags")

		for _, flag := range r.result.Flags {
			if flag.Severity == SeverityWarning {
				r.pdf.SetTextColor(180, 0, 0)
			} else {
				r.pdf.SetTextColor(80, 80, 80)
			}
			r.pdf.SetFont("Arial", "B", 9)
			r.pdf.CellFormat(22, 5.5, flag.Severity.String()+":", "", 0, "L", false, 0, "")
			r.pdf.SetFont("Arial", "", 9)
			r.pdf.MultiCell(contentWidth-22, 5.5, pdfText(flag.Message), "", "L", false)
		}
	}
}

func (r *PDFTaxReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *PDFTaxReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFTaxReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

// ExportPDFReport writes the PDF to a timestamped file under dir, creating
// the directory if needed. Returns the file path.
func ExportPDFReport(dir string, portfolio Portfolio, result TaxComputationResult, cfg TaxYearConfig, reference string) (string, error) {
	data, err := GeneratePDFReport(portfolio, result, cfg, reference)
	if err != nil {
		return "", fmt.Errorf("pdf: generate report: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("pdf: create output dir: %w", err)
	}

	filename := fmt.Sprintf("rental-tax-%s.pdf", time.Now().Format("2006-01-02-150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("pdf: write %q: %w", path, err)
	}

	return path, nil
}
