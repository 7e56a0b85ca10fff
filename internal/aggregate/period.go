package aggregate

import (
	"time"

	"timeworth/internal/core"
)

// PeriodSummary is the custom date range report.
type PeriodSummary struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	TotalTransactions int       `json:"totalTransactions"`
	PurchaseCount     int       `json:"purchaseCount"`
	SaveCount         int       `json:"saveCount"`
	TotalSpent        float64   `json:"totalSpent"`
	TotalSaved        float64   `json:"totalSaved"`
	TotalHoursSpent   float64   `json:"totalHoursSpent"`
	TotalHoursSaved   float64   `json:"totalHoursSaved"`
	DayCount          int       `json:"dayCount"`
	AvgSpendingPerDay float64   `json:"avgSpendingPerDay"`
}

// CustomPeriod summarises the whole calendar days from start's day through
// end's day, both included. Reversed endpoints are swapped.
func CustomPeriod(txs []core.Transaction, start, end time.Time) PeriodSummary {
	if end.Before(start) {
		start, end = end, start
	}
	from := startOfDay(start)
	to := startOfDay(end).AddDate(0, 0, 1).Add(-time.Nanosecond)

	stats := Transactions(FilterByDateRange(txs, from, to))
	days := calendarDaysBetween(from, startOfDay(end)) + 1

	return PeriodSummary{
		Start:             from,
		End:               to,
		TotalTransactions: stats.Count(),
		PurchaseCount:     stats.PurchaseCount,
		SaveCount:         stats.SaveCount,
		TotalSpent:        stats.TotalSpent,
		TotalSaved:        stats.TotalSaved,
		TotalHoursSpent:   stats.TotalHoursSpent,
		TotalHoursSaved:   stats.TotalHoursSaved,
		DayCount:          days,
		AvgSpendingPerDay: stats.TotalSpent / float64(days),
	}
}

// calendarDaysBetween counts midnights between two day starts, immune to DST
// shifts by comparing dates in UTC.
func calendarDaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
