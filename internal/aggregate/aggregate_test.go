package aggregate

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"timeworth/internal/core"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func purchase(price float64, ts time.Time) core.Transaction {
	return core.Transaction{Type: core.Purchased, ItemPrice: price, HoursOfWork: price / 20, Timestamp: ts, Label: "p"}
}

func saving(price float64, ts time.Time) core.Transaction {
	return core.Transaction{Type: core.Saved, ItemPrice: price, HoursOfWork: price / 20, Timestamp: ts, Label: "s"}
}

func sample() []core.Transaction {
	return []core.Transaction{
		purchase(12.5, at(2025, 1, 3, 9)),
		saving(40, at(2025, 1, 15, 12)),
		purchase(7.25, at(2025, 2, 1, 18)),
		saving(100, at(2024, 12, 31, 23)),
		purchase(60, at(2024, 6, 5, 10)),
		saving(0.75, at(2025, 2, 2, 8)),
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTransactionsEmptyIsZero(t *testing.T) {
	if got := Transactions(nil); got != (core.AggregatedStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	if got := Transactions([]core.Transaction{}); got != (core.AggregatedStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestTransactionsFold(t *testing.T) {
	got := Transactions(sample())
	if !closeTo(got.TotalSpent, 79.75) || !closeTo(got.TotalSaved, 140.75) {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got.PurchaseCount != 3 || got.SaveCount != 3 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if !closeTo(got.TotalHoursSpent, 79.75/20) {
		t.Fatalf("unexpected hours %+v", got)
	}
}

func TestTransactionsIsOrderIndependent(t *testing.T) {
	txs := sample()
	want := Transactions(txs)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]core.Transaction(nil), txs...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Transactions(shuffled)
		if !closeTo(got.TotalSpent, want.TotalSpent) || !closeTo(got.TotalSaved, want.TotalSaved) ||
			got.PurchaseCount != want.PurchaseCount || got.SaveCount != want.SaveCount {
			t.Fatalf("permutation %d changed result: %+v vs %+v", i, got, want)
		}
	}
}

func TestFilterByDateRangeIsInclusive(t *testing.T) {
	start := at(2025, 1, 3, 9)
	end := at(2025, 2, 1, 18)
	got := FilterByDateRange(sample(), start, end)
	if len(got) != 3 {
		t.Fatalf("expected both endpoints included (3 txs), got %d", len(got))
	}
}

func TestByMonthAndYear(t *testing.T) {
	months := ByMonth(sample(), time.UTC)
	if len(months) != 4 {
		t.Fatalf("expected 4 month buckets, got %d: %v", len(months), months)
	}
	jan := months["2025-01"]
	if jan.PurchaseCount != 1 || jan.SaveCount != 1 || !closeTo(jan.TotalSaved, 40) {
		t.Fatalf("unexpected January bucket %+v", jan)
	}
	if Lookup(months, "2025-03") != (core.AggregatedStats{}) {
		t.Fatalf("missing month should read as zero")
	}

	years := ByYear(sample(), time.UTC)
	if len(years) != 2 || years["2024"].Count() != 2 || years["2025"].Count() != 4 {
		t.Fatalf("unexpected year buckets %v", years)
	}
}

func TestByMonthUsesLocation(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 23:30 UTC on Dec 31 is already January in Rome.
	tx := purchase(5, time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC))
	if _, ok := ByMonth([]core.Transaction{tx}, rome)["2025-01"]; !ok {
		t.Fatalf("expected bucket 2025-01 in Rome")
	}
	if MonthKey(tx.Timestamp, nil) != "2024-12" {
		t.Fatalf("nil location should mean UTC")
	}
}

func TestMonthAndYearToDate(t *testing.T) {
	now := at(2025, 2, 10, 12)
	mtd := MonthToDate(sample(), now)
	if mtd.PurchaseCount != 1 || mtd.SaveCount != 1 {
		t.Fatalf("unexpected month-to-date %+v", mtd)
	}
	ytd := YearToDate(sample(), now)
	if ytd.Count() != 4 {
		t.Fatalf("unexpected year-to-date %+v", ytd)
	}
}

func TestCumulativeSavings(t *testing.T) {
	now := at(2025, 2, 10, 12)
	points := CumulativeSavings(sample(), now, 3)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Month != "2024-12" || points[2].Month != "2025-02" {
		t.Fatalf("unexpected months %+v", points)
	}
	if !closeTo(points[0].Cumulative, 100) || !closeTo(points[1].Cumulative, 140) || !closeTo(points[2].Cumulative, 140.75) {
		t.Fatalf("unexpected running totals %+v", points)
	}
	if got := CumulativeSavings(sample(), now, 0); len(got) != 0 {
		t.Fatalf("expected empty series")
	}
}

func TestStartOfISOWeek(t *testing.T) {
	cases := map[time.Time]time.Time{
		at(2025, 3, 12, 15): at(2025, 3, 10, 0), // Wednesday
		at(2025, 3, 10, 0):  at(2025, 3, 10, 0), // Monday
		at(2025, 3, 16, 23): at(2025, 3, 10, 0), // Sunday belongs to the previous Monday
	}
	for in, want := range cases {
		if got := StartOfISOWeek(in); !got.Equal(want) {
			t.Errorf("StartOfISOWeek(%v) = %v, want %v", in, got, want)
		}
	}
}
