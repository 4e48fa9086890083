package main

import "fmt"

// FlagSeverity grades an advisory flag for display
type FlagSeverity int

const (
	SeverityInfo FlagSeverity = iota
	SeverityWarning
)

func (s FlagSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	default:
		return "Info"
	}
}

// MarshalText implements encoding.TextMarshaler so the API carries
// "info"/"warning" rather than bare ints
func (s FlagSeverity) MarshalText() ([]byte, error) {
	if s == SeverityWarning {
		return []byte("warning"), nil
	}
	return []byte("info"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *FlagSeverity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown flag severity %q", text)
	}
	return nil
}

// FlagCode identifies an advisory check so the API and tests can match on
// flags without parsing message text
type FlagCode string

const (
	FlagNoRentalIncome      FlagCode = "no-rental-income"
	FlagExpensesExceedRent  FlagCode = "expenses-exceed-rent"
	FlagInterestExceedsRent FlagCode = "interest-exceeds-rent"
	FlagAllowanceTapered    FlagCode = "allowance-tapered"
	FlagLossMakingProperty  FlagCode = "loss-making-property"
	FlagPaymentsOnAccount   FlagCode = "payments-on-account"
)

// AdvisoryFlag is a sanity-check message attached to a computation.
// Flags never change any figure; they only point at things worth checking
// before the numbers go on a return.
type AdvisoryFlag struct {
	Code     FlagCode     `json:"code"`
	Severity FlagSeverity `json:"severity"`
	Message  string       `json:"message"`
}

// CheckPortfolio runs every advisory check against the inputs and the
// computed result. Checks run in a fixed order so surfaces render flags
// deterministically. Returns an empty slice when nothing applies.
func CheckPortfolio(portfolio Portfolio, cfg TaxYearConfig, result TaxComputationResult) []AdvisoryFlag {
	flags := []AdvisoryFlag{}

	if result.TotalRent == 0 {
		flags = append(flags, AdvisoryFlag{
			Code:     FlagNoRentalIncome,
			Severity: SeverityWarning,
			Message:  "Rental income is zero. Check your figures before filing.",
		})
	}

	if result.TotalExpenses > result.TotalRent {
		flags = append(flags, AdvisoryFlag{
			Code:     FlagExpensesExceedRent,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Expenses (%s) exceed rent (%s): the property business made an overall loss.",
				FormatMoneyFull(result.TotalExpenses), FormatMoneyFull(result.TotalRent)),
		})
	}

	if result.TotalInterest > result.TotalRent {
		flags = append(flags, AdvisoryFlag{
			Code:     FlagInterestExceedsRent,
			Severity: SeverityWarning,
			Message:  "Mortgage interest is unusually high relative to rent.",
		})
	}

	if result.TaxableIncomeBeforeAllowance > cfg.GetTaperThreshold() {
		lost := cfg.GetPersonalAllowance() - result.PersonalAllowance
		flags = append(flags, AdvisoryFlag{
			Code:     FlagAllowanceTapered,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Personal allowance taper applies: income over %s costs you %s of allowance.",
				FormatMoney(cfg.GetTaperThreshold()), FormatMoneyFull(lost)),
		})
	}

	for i := range portfolio.Properties {
		prop := &portfolio.Properties[i]
		if prop.Profit() < 0 {
			flags = append(flags, AdvisoryFlag{
				Code:     FlagLossMakingProperty,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("%s made a loss of %s for the year.",
					prop.DisplayName(i+1), FormatMoneyFull(-prop.Profit())),
			})
		}
	}

	if result.FinalTax > cfg.GetPaymentsOnAccountThreshold() {
		flags = append(flags, AdvisoryFlag{
			Code:     FlagPaymentsOnAccount,
			Severity: SeverityInfo,
			Message: fmt.Sprintf("Estimated tax over %s: HMRC will usually ask for payments on account towards next year.",
				FormatMoney(cfg.GetPaymentsOnAccountThreshold())),
		})
	}

	return flags
}

// HasFlag reports whether a computation raised a particular flag
func (r *TaxComputationResult) HasFlag(code FlagCode) bool {
	for _, f := range r.Flags {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Validate rejects portfolio inputs the computation would silently
// mishandle. Negative amounts are the only hard errors; everything else is
// left to the advisory flags.
func (p *Portfolio) Validate() error {
	if p.OtherIncome < 0 {
		return fmt.Errorf("other income cannot be negative (got %.2f)", p.OtherIncome)
	}
	for i := range p.Properties {
		prop := &p.Properties[i]
		name := prop.DisplayName(i + 1)
		if prop.Rent < 0 {
			return fmt.Errorf("%s: rent cannot be negative (got %.2f)", name, prop.Rent)
		}
		if prop.Expenses < 0 {
			return fmt.Errorf("%s: expenses cannot be negative (got %.2f)", name, prop.Expenses)
		}
		if prop.MortgageInterest < 0 {
			return fmt.Errorf("%s: mortgage interest cannot be negative (got %.2f)", name, prop.MortgageInterest)
		}
	}
	return nil
}
