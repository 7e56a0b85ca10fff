package aggregate

import (
	"sort"

	"timeworth/internal/core"
)

// CategoryShare is one slice of the spending-by-category breakdown.
type CategoryShare struct {
	Category   core.Category `json:"category"`
	Name       string        `json:"name"`
	Icon       string        `json:"icon"`
	Amount     float64       `json:"amount"`
	Percentage float64       `json:"percentage"`
}

// CategoryBreakdown splits categorised purchases by category, largest first.
// Saved and uncategorised transactions are ignored; when nothing remains the
// result is an empty slice.
func CategoryBreakdown(txs []core.Transaction) []CategoryShare {
	totals := make(map[core.Category]float64)
	var total float64
	for _, t := range txs {
		if !t.IsPurchase() || t.Category == "" {
			continue
		}
		totals[t.Category] += t.ItemPrice
		total += t.ItemPrice
	}

	shares := make([]CategoryShare, 0, len(totals))
	if total == 0 {
		return shares
	}
	for cat, amount := range totals {
		info := cat.Info()
		shares = append(shares, CategoryShare{
			Category:   cat,
			Name:       info.Name,
			Icon:       info.Icon,
			Amount:     amount,
			Percentage: amount / total * 100,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount != shares[j].Amount {
			return shares[i].Amount > shares[j].Amount
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}
