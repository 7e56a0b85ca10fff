package core

import (
	"math"
	"testing"
)

func TestNormalizeToHourly(t *testing.T) {
	cases := []struct {
		amount float64
		period WagePeriod
		hours  float64
		want   float64
	}{
		{25, Hourly, 40, 25},
		{52000, Yearly, 40, 25},
		{52000, Yearly, 0, 25}, // default hours per week
		{4333.33, Monthly, 40, 4333.33 / (40.0 * 52 / 12)},
		{2000, Monthly, 20, 2000 / (20.0 * 52 / 12)},
	}
	for _, tc := range cases {
		got := NormalizeToHourly(tc.amount, tc.period, tc.hours)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("NormalizeToHourly(%v, %s, %v) = %v, want %v", tc.amount, tc.period, tc.hours, got, tc.want)
		}
	}
}

func TestNormalizeToHourlyIdentityRoundTrip(t *testing.T) {
	for _, x := range []float64{0.5, 12, 99.99, 1e6} {
		for _, h := range []float64{1, 37.5, 40} {
			once := NormalizeToHourly(x, Hourly, h)
			if NormalizeToHourly(once, Hourly, h) != x {
				t.Fatalf("hourly normalisation must be identity for %v", x)
			}
		}
	}

	rate := NormalizeToHourly(4333.33, Monthly, 40)
	if back := rate * (40.0 * 52 / 12); math.Abs(back-4333.33) > 1e-6 {
		t.Fatalf("monthly round trip drifted: %v", back)
	}
}

func TestNormalizeToHourlyPanicsOnContractViolation(t *testing.T) {
	for name, fn := range map[string]func(){
		"negative hours": func() { NormalizeToHourly(100, Monthly, -1) },
		"unknown period": func() { NormalizeToHourly(100, "fortnightly", 40) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestHoursOfWork(t *testing.T) {
	if got := HoursOfWork(100, 0); got != 0 {
		t.Fatalf("expected 0 for zero wage, got %v", got)
	}
	if got := HoursOfWork(100, -5); got != 0 {
		t.Fatalf("expected 0 for negative wage, got %v", got)
	}
	if got := HoursOfWork(100, 25); got != 4 {
		t.Fatalf("expected 4 hours, got %v", got)
	}
}

func TestFormatHours(t *testing.T) {
	cases := []struct {
		hours   float64
		workDay float64
		want    string
	}{
		{0.25, 7, "15 min"},
		{0.999, 7, "60 min"},
		{1, 7, "1 hr"},
		{2.5, 7, "2 hrs 30 min"},
		{6.5, 7, "6 hrs 30 min"},
		{7, 7, "1 day"},
		{9, 7, "1 day 2 hrs"},
		{15, 7, "2 days 1 hr"},
		{9, 8, "1 day 1 hr"},
		{20, 24, "20 hrs"},
		{9, 0, "1 day 2 hrs"}, // default work day
	}
	for _, tc := range cases {
		if got := FormatHours(tc.hours, tc.workDay); got != tc.want {
			t.Errorf("FormatHours(%v, %v) = %q, want %q", tc.hours, tc.workDay, got, tc.want)
		}
	}
}

func TestSplitHoursWorkDayIsConfigurable(t *testing.T) {
	if b := SplitHours(16, 8); b.Days != 2 || b.Hours != 0 {
		t.Fatalf("expected 2 work days, got %+v", b)
	}
	if b := SplitHours(16, 24); b.Days != 0 || b.Hours != 16 {
		t.Fatalf("expected 16 hours with a 24h day, got %+v", b)
	}
}
