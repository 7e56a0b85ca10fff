// Package aggregate folds transaction sets into summary statistics over
// calendar windows. Every function is pure: inputs are never modified and
// insertion order never matters, only timestamps do.
package aggregate

import (
	"time"

	"timeworth/internal/core"
)

const (
	monthKeyLayout = "2006-01"
	yearKeyLayout  = "2006"
)

// Transactions folds a set of transactions into one summary.
func Transactions(txs []core.Transaction) core.AggregatedStats {
	var stats core.AggregatedStats
	for _, t := range txs {
		stats = stats.Add(t)
	}
	return stats
}

// FilterByDateRange keeps transactions with start <= timestamp <= end.
func FilterByDateRange(txs []core.Transaction, start, end time.Time) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if inRange(t.Timestamp, start, end) {
			out = append(out, t)
		}
	}
	return out
}

func inRange(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}

// MonthKey is the canonical yyyy-MM bucket key of t in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(monthKeyLayout)
}

// YearKey is the canonical yyyy bucket key of t in loc.
func YearKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(yearKeyLayout)
}

// ByMonth buckets transactions by MonthKey. Empty months are absent.
func ByMonth(txs []core.Transaction, loc *time.Location) map[string]core.AggregatedStats {
	return bucket(txs, func(t time.Time) string { return MonthKey(t, loc) })
}

// ByYear buckets transactions by YearKey. Empty years are absent.
func ByYear(txs []core.Transaction, loc *time.Location) map[string]core.AggregatedStats {
	return bucket(txs, func(t time.Time) string { return YearKey(t, loc) })
}

// Lookup reads a bucket, returning the zero summary for missing keys.
func Lookup(buckets map[string]core.AggregatedStats, key string) core.AggregatedStats {
	return buckets[key]
}

func bucket(txs []core.Transaction, key func(time.Time) string) map[string]core.AggregatedStats {
	out := make(map[string]core.AggregatedStats)
	for _, t := range txs {
		k := key(t.Timestamp)
		out[k] = out[k].Add(t)
	}
	return out
}

// MonthToDate summarises the calendar month containing now.
func MonthToDate(txs []core.Transaction, now time.Time) core.AggregatedStats {
	start := startOfMonth(now)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Transactions(FilterByDateRange(txs, start, end))
}

// YearToDate summarises the calendar year containing now.
func YearToDate(txs []core.Transaction, now time.Time) core.AggregatedStats {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return Transactions(FilterByDateRange(txs, start, end))
}

// SavingsPoint is the running saved total at the end of one month.
type SavingsPoint struct {
	Month      string  `json:"month"` // yyyy-MM
	Saved      float64 `json:"saved"`
	Cumulative float64 `json:"cumulative"`
}

// CumulativeSavings returns the last n calendar months, oldest first and
// ending with the month of now, with a running total of saved amounts.
// The running total starts at zero at the first month shown.
func CumulativeSavings(txs []core.Transaction, now time.Time, months int) []SavingsPoint {
	if months <= 0 {
		return []SavingsPoint{}
	}
	buckets := ByMonth(txs, now.Location())
	first := startOfMonth(now).AddDate(0, -(months - 1), 0)

	points := make([]SavingsPoint, 0, months)
	var running float64
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format(monthKeyLayout)
		saved := Lookup(buckets, key).TotalSaved
		running += saved
		points = append(points, SavingsPoint{Month: key, Saved: saved, Cumulative: running})
	}
	return points
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfISOWeek returns Monday 00:00 of the week containing t.
func StartOfISOWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return startOfDay(t).AddDate(0, 0, -offset)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
