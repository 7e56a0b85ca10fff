package aggregate

import (
	"time"

	"timeworth/internal/core"
)

// weekdays lists days Monday first.
var weekdays = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type DaySpending struct {
	Weekday time.Weekday `json:"-"`
	Name    string       `json:"day"`
	Total   float64      `json:"total"`
	Count   int          `json:"count"`
	Average float64      `json:"average"`
}

// WeekdayInsight is purchase spending by day of week across all history.
type WeekdayInsight struct {
	Days [7]DaySpending `json:"days"` // Monday..Sunday
	// Highlight indexes Days at the highest total, or is -1 when nothing was spent.
	Highlight int `json:"highlight"`
}

// Busiest returns the highlighted day, if any.
func (w WeekdayInsight) Busiest() (DaySpending, bool) {
	if w.Highlight < 0 {
		return DaySpending{}, false
	}
	return w.Days[w.Highlight], true
}

func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// DayOfWeek buckets every purchase by weekday in loc. Days without purchases
// stay present with zero values.
func DayOfWeek(txs []core.Transaction, loc *time.Location) WeekdayInsight {
	var insight WeekdayInsight
	for i, d := range weekdays {
		insight.Days[i] = DaySpending{Weekday: d, Name: d.String()}
	}

	for _, t := range txs {
		if !t.IsPurchase() {
			continue
		}
		day := &insight.Days[weekdayIndex(t.Timestamp.In(location(loc)).Weekday())]
		day.Total += t.ItemPrice
		day.Count++
	}

	insight.Highlight = -1
	var best float64
	for i := range insight.Days {
		day := &insight.Days[i]
		if day.Count > 0 {
			day.Average = day.Total / float64(day.Count)
		}
		if day.Total > best {
			best = day.Total
			insight.Highlight = i
		}
	}
	return insight
}

type WeekSlot struct {
	Date    time.Time `json:"date"`
	Name    string    `json:"day"`
	Amount  float64   `json:"amount"`
	IsToday bool      `json:"isToday"`
}

// WeekPattern is purchase spending for each day of the current ISO week.
type WeekPattern struct {
	Start time.Time   `json:"start"`
	Days  [7]WeekSlot `json:"days"`
	Total float64     `json:"total"`
}

// WeeklyPattern fills the seven days of the ISO week (Monday start) that
// contains now. Purchases outside the week are ignored.
func WeeklyPattern(txs []core.Transaction, now time.Time) WeekPattern {
	start := StartOfISOWeek(now)
	end := start.AddDate(0, 0, 7)
	today := startOfDay(now)

	pattern := WeekPattern{Start: start}
	for i := range pattern.Days {
		date := start.AddDate(0, 0, i)
		pattern.Days[i] = WeekSlot{Date: date, Name: date.Weekday().String(), IsToday: date.Equal(today)}
	}

	for _, t := range txs {
		if !t.IsPurchase() {
			continue
		}
		ts := t.Timestamp.In(now.Location())
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		pattern.Days[weekdayIndex(ts.Weekday())].Amount += t.ItemPrice
		pattern.Total += t.ItemPrice
	}
	return pattern
}
