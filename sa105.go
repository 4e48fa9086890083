package main

import "fmt"

// SA105Box maps one computed figure onto the SA105 (UK property) pages of
// a Self Assessment return.
// Form reference: https://www.gov.uk/government/publications/self-assessment-uk-property-sa105
type SA105Box struct {
	Box    string  `json:"box"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}

// BuildSA105Guide returns the box-by-box guide for a computation, in form
// order. Every surface renders this list.
func BuildSA105Guide(result TaxComputationResult) []SA105Box {
	boxes := []SA105Box{
		{
			Box:    "20",
			Label:  "Total rents and other income from property",
			Amount: result.TotalRent,
		},
		{
			Box:    "24-29",
			Label:  "Total allowable expenses (excluding finance costs)",
			Amount: result.TotalExpenses,
		},
		{
			Box:    "44",
			Label:  "Residential property finance costs",
			Amount: result.TotalInterest,
			Note:   "Relieved as a 20% basic rate credit, not deducted from profits",
		},
	}

	box45 := SA105Box{
		Box:    "45",
		Label:  "Adjusted profit for the year",
		Amount: result.ProfitBeforeInterest,
	}
	if result.ProfitBeforeInterest < 0 {
		// A loss goes in box 41 instead; box 45 takes 0 on the form
		box45.Note = fmt.Sprintf("Loss of %s: enter 0 in box 45 and the loss in box 41",
			FormatMoneyFull(-result.ProfitBeforeInterest))
	}

	return append(boxes, box45)
}
