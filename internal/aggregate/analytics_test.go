package aggregate

import (
	"testing"
	"time"

	"timeworth/internal/core"
)

func categorised(price float64, cat core.Category) core.Transaction {
	tx := purchase(price, at(2025, 1, 1, 10))
	tx.Category = cat
	return tx
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []core.Transaction{
		categorised(30, core.CategoryFood),
		categorised(10, core.CategoryFood),
		categorised(60, core.CategoryTravel),
		purchase(500, at(2025, 1, 1, 10)), // uncategorised
		{Type: core.Saved, ItemPrice: 99, Category: core.CategoryGifts},
	}
	shares := CategoryBreakdown(txs)
	if len(shares) != 2 {
		t.Fatalf("expected 2 categories, got %+v", shares)
	}
	if shares[0].Category != core.CategoryTravel || !closeTo(shares[0].Percentage, 60) {
		t.Fatalf("expected travel first at 60%%, got %+v", shares[0])
	}
	if shares[1].Category != core.CategoryFood || !closeTo(shares[1].Amount, 40) {
		t.Fatalf("unexpected second share %+v", shares[1])
	}
	if shares[0].Name != "Travel" {
		t.Fatalf("expected display name, got %q", shares[0].Name)
	}
}

func TestCategoryBreakdownNoData(t *testing.T) {
	got := CategoryBreakdown([]core.Transaction{purchase(5, at(2025, 1, 1, 1))})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestDayOfWeek(t *testing.T) {
	txs := []core.Transaction{
		purchase(10, at(2025, 3, 10, 9)),  // Monday
		purchase(30, at(2025, 3, 17, 9)),  // Monday
		purchase(25, at(2025, 3, 14, 20)), // Friday
		saving(500, at(2025, 3, 15, 9)),   // Saturday, ignored
	}
	insight := DayOfWeek(txs, time.UTC)
	mon := insight.Days[0]
	if mon.Weekday != time.Monday || !closeTo(mon.Total, 40) || mon.Count != 2 || !closeTo(mon.Average, 20) {
		t.Fatalf("unexpected Monday %+v", mon)
	}
	if sat := insight.Days[5]; sat.Total != 0 || sat.Count != 0 || sat.Average != 0 {
		t.Fatalf("Saturday should be present and zero, got %+v", sat)
	}
	busiest, ok := insight.Busiest()
	if !ok || busiest.Weekday != time.Monday {
		t.Fatalf("expected Monday highlighted, got %+v", busiest)
	}
}

func TestDayOfWeekNoPurchases(t *testing.T) {
	insight := DayOfWeek([]core.Transaction{saving(5, at(2025, 1, 1, 1))}, time.UTC)
	if insight.Highlight != -1 {
		t.Fatalf("expected no highlight, got %d", insight.Highlight)
	}
	if _, ok := insight.Busiest(); ok {
		t.Fatalf("expected no busiest day")
	}
	if insight.Days[6].Name != "Sunday" {
		t.Fatalf("expected all seven days, got %+v", insight.Days)
	}
}

func TestWeeklyPattern(t *testing.T) {
	now := at(2025, 3, 12, 15) // Wednesday
	txs := []core.Transaction{
		purchase(5, at(2025, 3, 10, 8)),   // Monday this week
		purchase(7, at(2025, 3, 12, 9)),   // today
		purchase(3, at(2025, 3, 16, 23)),  // Sunday this week
		purchase(50, at(2025, 3, 9, 23)),  // previous Sunday
		purchase(50, at(2025, 3, 17, 0)),  // next Monday
		saving(20, at(2025, 3, 11, 10)),   // savings ignored
	}
	p := WeeklyPattern(txs, now)
	if !p.Start.Equal(at(2025, 3, 10, 0)) {
		t.Fatalf("unexpected week start %v", p.Start)
	}
	if p.Days[0].Amount != 5 || p.Days[2].Amount != 7 || p.Days[6].Amount != 3 || p.Days[1].Amount != 0 {
		t.Fatalf("unexpected slots %+v", p.Days)
	}
	if !p.Days[2].IsToday || p.Days[0].IsToday {
		t.Fatalf("expected only Wednesday marked as today")
	}
	if p.Total != 15 {
		t.Fatalf("expected total 15, got %v", p.Total)
	}
}

func TestYearOverYear(t *testing.T) {
	now := at(2025, 3, 20, 12)
	txs := []core.Transaction{
		purchase(100, at(2025, 1, 5, 10)),
		purchase(50, at(2025, 3, 1, 10)),
		purchase(80, at(2024, 1, 9, 10)),
		purchase(20, at(2024, 2, 9, 10)),
		purchase(999, at(2024, 7, 9, 10)), // after the current month, excluded
		purchase(999, at(2023, 1, 9, 10)), // two years back, excluded
		saving(999, at(2025, 2, 9, 10)),
	}
	cmp := YearOverYear(txs, now)
	if len(cmp.Months) != 3 || cmp.Months[0].Name != "Jan" {
		t.Fatalf("expected Jan..Mar, got %+v", cmp.Months)
	}
	if cmp.CurrentTotal != 150 || cmp.PreviousTotal != 100 {
		t.Fatalf("unexpected totals %+v", cmp)
	}
	if !closeTo(cmp.PercentChange, 50) {
		t.Fatalf("expected +50%%, got %v", cmp.PercentChange)
	}
	if cmp.Months[0].Current != 100 || cmp.Months[0].Previous != 80 || cmp.Months[1].Previous != 20 {
		t.Fatalf("unexpected month figures %+v", cmp.Months)
	}
}

func TestYearOverYearZeroPrevious(t *testing.T) {
	now := at(2025, 2, 1, 12)
	cmp := YearOverYear([]core.Transaction{purchase(50, at(2025, 1, 10, 10))}, now)
	if cmp.CurrentTotal != 50 || cmp.PreviousTotal != 0 {
		t.Fatalf("unexpected totals %+v", cmp)
	}
	if cmp.PercentChange != 0 {
		t.Fatalf("expected 0%% change, got %v", cmp.PercentChange)
	}
}

func TestCustomPeriod(t *testing.T) {
	txs := []core.Transaction{
		purchase(30, at(2025, 3, 1, 0)),
		purchase(10, at(2025, 3, 3, 23)),
		saving(40, at(2025, 3, 2, 12)),
		purchase(99, at(2025, 3, 4, 0)),
	}
	sum := CustomPeriod(txs, at(2025, 3, 1, 15), at(2025, 3, 3, 8))
	if sum.DayCount != 3 {
		t.Fatalf("expected 3 days, got %d", sum.DayCount)
	}
	if sum.TotalTransactions != 3 || sum.PurchaseCount != 2 || sum.SaveCount != 1 {
		t.Fatalf("unexpected counts %+v", sum)
	}
	if sum.TotalSpent != 40 || !closeTo(sum.AvgSpendingPerDay, 40.0/3) {
		t.Fatalf("unexpected spending %+v", sum)
	}
}

func TestCustomPeriodSameDay(t *testing.T) {
	day := at(2025, 3, 1, 10)
	sum := CustomPeriod([]core.Transaction{purchase(12, at(2025, 3, 1, 22))}, day, day)
	if sum.DayCount != 1 {
		t.Fatalf("expected dayCount 1, got %d", sum.DayCount)
	}
	if sum.AvgSpendingPerDay != 12 {
		t.Fatalf("expected average 12, got %v", sum.AvgSpendingPerDay)
	}
}

func TestCustomPeriodReversed(t *testing.T) {
	sum := CustomPeriod(nil, at(2025, 3, 5, 0), at(2025, 3, 1, 0))
	if sum.DayCount != 5 || !sum.Start.Equal(at(2025, 3, 1, 0)) {
		t.Fatalf("expected swapped range of 5 days, got %+v", sum)
	}
	if sum.AvgSpendingPerDay != 0 {
		t.Fatalf("expected zero average, got %v", sum.AvgSpendingPerDay)
	}
}
