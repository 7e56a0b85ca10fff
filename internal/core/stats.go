package core

// AggregatedStats summarises a set of transactions. The zero value is the
// summary of an empty set.
type AggregatedStats struct {
	TotalSpent      float64 `json:"totalSpent"`
	TotalSaved      float64 `json:"totalSaved"`
	TotalHoursSpent float64 `json:"totalHoursSpent"`
	TotalHoursSaved float64 `json:"totalHoursSaved"`
	PurchaseCount   int     `json:"purchaseCount"`
	SaveCount       int     `json:"saveCount"`
}

// Add folds one transaction into the summary.
func (s AggregatedStats) Add(t Transaction) AggregatedStats {
	switch t.Type {
	case Purchased:
		s.TotalSpent += t.ItemPrice
		s.TotalHoursSpent += t.HoursOfWork
		s.PurchaseCount++
	case Saved:
		s.TotalSaved += t.ItemPrice
		s.TotalHoursSaved += t.HoursOfWork
		s.SaveCount++
	}
	return s
}

// Merge combines two partial summaries.
func (s AggregatedStats) Merge(o AggregatedStats) AggregatedStats {
	return AggregatedStats{
		TotalSpent:      s.TotalSpent + o.TotalSpent,
		TotalSaved:      s.TotalSaved + o.TotalSaved,
		TotalHoursSpent: s.TotalHoursSpent + o.TotalHoursSpent,
		TotalHoursSaved: s.TotalHoursSaved + o.TotalHoursSaved,
		PurchaseCount:   s.PurchaseCount + o.PurchaseCount,
		SaveCount:       s.SaveCount + o.SaveCount,
	}
}

// Count is the number of transactions folded in.
func (s AggregatedStats) Count() int {
	return s.PurchaseCount + s.SaveCount
}
