package aggregate

import (
	"time"

	"timeworth/internal/core"
)

type MonthComparison struct {
	Month    time.Month `json:"month"`
	Name     string     `json:"name"`
	Current  float64    `json:"current"`
	Previous float64    `json:"previous"`
}

// YearComparison compares purchase spending month by month against the same
// months of the previous year.
type YearComparison struct {
	CurrentYear   int               `json:"currentYear"`
	PreviousYear  int               `json:"previousYear"`
	Months        []MonthComparison `json:"months"`
	CurrentTotal  float64           `json:"currentTotal"`
	PreviousTotal float64           `json:"previousTotal"`
	// PercentChange is 0 when the previous total is 0.
	PercentChange float64 `json:"percentChange"`
}

// YearOverYear covers January through the month of now.
func YearOverYear(txs []core.Transaction, now time.Time) YearComparison {
	cur := now.Year()
	cmp := YearComparison{
		CurrentYear:  cur,
		PreviousYear: cur - 1,
		Months:       make([]MonthComparison, 0, int(now.Month())),
	}
	for m := time.January; m <= now.Month(); m++ {
		cmp.Months = append(cmp.Months, MonthComparison{Month: m, Name: m.String()[:3]})
	}

	for _, t := range txs {
		if !t.IsPurchase() {
			continue
		}
		ts := t.Timestamp.In(now.Location())
		idx := int(ts.Month()) - 1
		if idx >= len(cmp.Months) {
			continue
		}
		switch ts.Year() {
		case cur:
			cmp.Months[idx].Current += t.ItemPrice
			cmp.CurrentTotal += t.ItemPrice
		case cur - 1:
			cmp.Months[idx].Previous += t.ItemPrice
			cmp.PreviousTotal += t.ItemPrice
		}
	}

	if cmp.PreviousTotal > 0 {
		cmp.PercentChange = (cmp.CurrentTotal - cmp.PreviousTotal) / cmp.PreviousTotal * 100
	}
	return cmp
}
