package main

import (
	"math"
)

// SA105 rental income tax computation for 2024/25 (England and NI).
//
// Defaults (configurable via TaxYearConfig):
// - PersonalAllowance: £12,570
// - TaperThreshold: £100,000 (£1 of allowance lost per £2 over)
// - Allowance fully removed at £125,140 (calculated from the above)
// - Bands over post-allowance income: 20% to £37,700, 40% to £125,140, 45% above
// - Mortgage interest relieved as a 20% credit (Section 24)
//
// References:
// https://www.gov.uk/income-tax-rates
// https://www.gov.uk/guidance/changes-to-tax-relief-for-residential-landlords

// ComputeTax runs the full computation for a portfolio: aggregation,
// allowance taper, band walk, Section 24 credit, advisory flags.
// Pure function of its inputs; the portfolio is never mutated.
func ComputeTax(portfolio Portfolio, cfg TaxYearConfig) TaxComputationResult {
	result := TaxComputationResult{
		TotalRent:     portfolio.TotalRent(),
		TotalExpenses: portfolio.TotalExpenses(),
		TotalInterest: portfolio.TotalInterest(),
	}

	// Rent less expenses, before any interest relief. May be negative.
	result.ProfitBeforeInterest = result.TotalRent - result.TotalExpenses

	// A rental loss folds straight into the total and offsets other income
	// in this estimate. Loss carry-forward is not modelled.
	result.TaxableIncomeBeforeAllowance = result.ProfitBeforeInterest + portfolio.OtherIncome

	result.PersonalAllowance = ApplyAllowanceTaper(result.TaxableIncomeBeforeAllowance, cfg)
	result.TaxableIncome = math.Max(0, result.TaxableIncomeBeforeAllowance-result.PersonalAllowance)

	result.IncomeTaxBeforeCredit, result.Bands = CalculateTaxOnIncome(result.TaxableIncome, cfg.GetBands())

	// Section 24 credit: reduces the bill, never below zero, never refunded
	result.MortgageTaxCredit = result.TotalInterest * cfg.GetInterestCreditRate()
	result.FinalTax = math.Max(0, result.IncomeTaxBeforeCredit-result.MortgageTaxCredit)

	if result.TaxableIncomeBeforeAllowance > 0 {
		result.EffectiveRate = result.FinalTax / result.TaxableIncomeBeforeAllowance
	}

	result.Flags = CheckPortfolio(portfolio, cfg, result)

	return result
}

// ApplyAllowanceTaper returns the personal allowance granted at a given
// income level. £1 of allowance is lost for every £2 of income over the
// threshold (2024/25: full £12,570 up to £100,000, nothing from £125,140).
func ApplyAllowanceTaper(totalIncome float64, cfg TaxYearConfig) float64 {
	personalAllowance := cfg.GetPersonalAllowance()
	threshold := cfg.GetTaperThreshold()
	if totalIncome <= threshold {
		// No tapering needed
		return personalAllowance
	}

	reduction := (totalIncome - threshold) * cfg.GetTaperRate()
	return math.Max(0, personalAllowance-reduction)
}

// CalculateTaxOnIncome walks the band table over post-allowance taxable
// income and returns the total tax plus the per-band breakdown. Bands the
// income never reaches are omitted from the breakdown.
func CalculateTaxOnIncome(taxable float64, bands []TaxBand) (float64, []AppliedBand) {
	if taxable <= 0 {
		return 0, nil
	}

	var totalTax float64
	var applied []AppliedBand

	for _, band := range bands {
		if taxable <= band.Lower {
			break
		}

		upper := band.Upper
		if upper <= band.Lower {
			// Final band is unbounded
			upper = math.Inf(1)
		}

		// Calculate the taxable amount in this band
		amountInBand := math.Min(taxable, upper) - band.Lower
		if amountInBand <= 0 {
			continue
		}

		tax := amountInBand * band.Rate
		totalTax += tax
		applied = append(applied, AppliedBand{
			Name:   band.Name,
			Rate:   band.Rate,
			Amount: amountInBand,
			Tax:    tax,
		})
	}

	return totalTax, applied
}

// MarginalRateOnExtraIncome reports the effective rate charged on extra
// income added on top of the portfolio. Surfaces the 60% zone between
// £100,000 and £125,140 where allowance tapering stacks on the higher rate.
func MarginalRateOnExtraIncome(portfolio Portfolio, cfg TaxYearConfig, extra float64) float64 {
	if extra <= 0 {
		return 0
	}

	base := ComputeTax(portfolio, cfg)
	bumped := portfolio.Clone()
	bumped.OtherIncome += extra
	withExtra := ComputeTax(*bumped, cfg)

	return (withExtra.FinalTax - base.FinalTax) / extra
}
