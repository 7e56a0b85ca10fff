// Package core holds the domain model and the small pure conversions every other
// package builds on: wage normalisation, hours of work and compound growth.
package core

import (
	"fmt"
	"math"
)

const (
	// DefaultHoursPerWeek applies when a profile does not state its working week.
	DefaultHoursPerWeek = 40.0
	// DefaultWorkHoursPerDay is the length of a "work day" used when formatting hours.
	DefaultWorkHoursPerDay = 7.0
	// DefaultInterestRate is the annual rate used for savings projections.
	DefaultInterestRate = 0.07

	weeksPerYear = 52.0
)

// NormalizeToHourly converts a wage stated per period into an hourly rate.
//
// A zero hoursPerWeek means "use the default". Negative hours or an unknown
// period are caller bugs and panic.
func NormalizeToHourly(amount float64, period WagePeriod, hoursPerWeek float64) float64 {
	if hoursPerWeek == 0 {
		hoursPerWeek = DefaultHoursPerWeek
	}
	if hoursPerWeek < 0 || math.IsNaN(hoursPerWeek) {
		panic(fmt.Sprintf("core: hours per week must be positive, got %v", hoursPerWeek))
	}

	switch period {
	case Hourly:
		return amount
	case Monthly:
		return amount / (hoursPerWeek * weeksPerYear / 12)
	case Yearly:
		return amount / (hoursPerWeek * weeksPerYear)
	default:
		panic(fmt.Sprintf("core: unknown wage period %q", period))
	}
}

// HoursOfWork expresses a price as hours at the given hourly wage.
// A non-positive wage yields 0 rather than dividing by zero.
func HoursOfWork(itemPrice, hourlyWage float64) float64 {
	if hourlyWage <= 0 {
		return 0
	}
	return itemPrice / hourlyWage
}

// HoursBreakdown splits a number of hours into work days, hours and minutes.
type HoursBreakdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// SplitHours applies the display thresholds: under one hour only minutes are
// set, under one work day hours and minutes, otherwise work days and the
// remaining whole hours.
func SplitHours(hours, workHoursPerDay float64) HoursBreakdown {
	if workHoursPerDay <= 0 {
		workHoursPerDay = DefaultWorkHoursPerDay
	}
	if hours < 0 {
		hours = 0
	}

	switch {
	case hours < 1:
		return HoursBreakdown{Minutes: int(math.Round(hours * 60))}
	case hours < workHoursPerDay:
		whole := math.Floor(hours)
		minutes := int(math.Round((hours - whole) * 60))
		if minutes == 60 {
			return HoursBreakdown{Hours: int(whole) + 1}
		}
		return HoursBreakdown{Hours: int(whole), Minutes: minutes}
	default:
		days := math.Floor(hours / workHoursPerDay)
		rest := int(math.Round(math.Mod(hours, workHoursPerDay)))
		if float64(rest) >= workHoursPerDay {
			days++
			rest = 0
		}
		return HoursBreakdown{Days: int(days), Hours: rest}
	}
}

// FormatHours renders hours of work as "45 min", "2 hrs 30 min" or "3 days 2 hrs".
func FormatHours(hours, workHoursPerDay float64) string {
	b := SplitHours(hours, workHoursPerDay)
	switch {
	case b.Days > 0:
		if b.Hours == 0 {
			return plural(b.Days, "day")
		}
		return plural(b.Days, "day") + " " + plural(b.Hours, "hr")
	case b.Hours > 0:
		if b.Minutes == 0 {
			return plural(b.Hours, "hr")
		}
		return fmt.Sprintf("%s %d min", plural(b.Hours, "hr"), b.Minutes)
	default:
		return fmt.Sprintf("%d min", b.Minutes)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
