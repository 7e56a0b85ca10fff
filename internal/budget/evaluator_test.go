package budget

import (
	"math"
	"strings"
	"testing"
	"time"

	"timeworth/internal/core"
)

func spend(amount float64, ts time.Time) core.Transaction {
	return core.Transaction{Type: core.Purchased, ItemPrice: amount, Timestamp: ts, Label: "x"}
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC) // Wednesday
	cases := []struct {
		period     core.BudgetPeriod
		start, end time.Time
	}{
		{core.DailyBudget, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)},
		{core.WeeklyBudget, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)},
		{core.MonthlyBudget, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		start, end := Window(tc.period, now)
		if !start.Equal(tc.start) || !end.Equal(tc.end) {
			t.Errorf("%s window = [%v, %v), want [%v, %v)", tc.period, start, end, tc.start, tc.end)
		}
	}
}

func TestEvaluateBoundaries(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	b := core.Budget{ID: "b1", Period: core.MonthlyBudget, Amount: 100, AlertThreshold: 80, Enabled: true}

	cases := []struct {
		spent float64
		want  Status
	}{
		{79.99, StatusNormal},
		{80.00, StatusNearLimit},
		{99.99, StatusNearLimit},
		{100.00, StatusOverBudget},
		{100.01, StatusOverBudget},
	}
	for _, tc := range cases {
		eval := Evaluate(b, []core.Transaction{spend(tc.spent, now)}, now)
		if eval.Status != tc.want {
			t.Errorf("spent %v: status %s, want %s", tc.spent, eval.Status, tc.want)
		}
		if (eval.Alert != nil) != (tc.want != StatusNormal) {
			t.Errorf("spent %v: unexpected alert %+v", tc.spent, eval.Alert)
		}
	}

	over := Evaluate(b, []core.Transaction{spend(100.01, now)}, now)
	if math.Abs(over.Percentage-100.01) > 1e-9 {
		t.Fatalf("expected ~100.01%%, got %v", over.Percentage)
	}
	if over.Alert.Kind != core.AlertBudgetExceeded || !strings.Contains(over.Alert.Message, "exceeded") {
		t.Fatalf("unexpected over-budget alert %+v", over.Alert)
	}
	if math.Abs(over.ExceededBy()-0.01) > 1e-9 || over.Remaining() != 0 {
		t.Fatalf("unexpected exceeded-by %v / remaining %v", over.ExceededBy(), over.Remaining())
	}
}

func TestEvaluateOnlyCountsPurchasesInWindow(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	b := core.Budget{ID: "w", Period: core.WeeklyBudget, Amount: 50, AlertThreshold: 50, Enabled: true}
	txs := []core.Transaction{
		spend(10, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),  // week start, included
		spend(10, time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)), // Sunday, included
		spend(90, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)),  // next week start, excluded
		spend(90, time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)),  // previous week
		{Type: core.Saved, ItemPrice: 500, Timestamp: now},
	}
	eval := Evaluate(b, txs, now)
	if eval.Spent != 20 || eval.Percentage != 40 || eval.Status != StatusNormal {
		t.Fatalf("unexpected evaluation %+v", eval)
	}
	if eval.Remaining() != 30 {
		t.Fatalf("expected 30 remaining, got %v", eval.Remaining())
	}
}

func TestEvaluateDisabledBudgetNeverAlerts(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	b := core.Budget{ID: "d", Period: core.DailyBudget, Amount: 10, AlertThreshold: 80, Enabled: false}
	eval := Evaluate(b, []core.Transaction{spend(50, now)}, now)
	if eval.Status != StatusOverBudget {
		t.Fatalf("disabled budget should still be classified, got %s", eval.Status)
	}
	if eval.Alert != nil {
		t.Fatalf("disabled budget must not alert")
	}
}

func TestEvaluateIsStateless(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	b := core.Budget{ID: "b", Period: core.DailyBudget, Amount: 10, AlertThreshold: 50, Enabled: true}
	txs := []core.Transaction{spend(6, now)}
	first := Evaluate(b, txs, now)
	second := Evaluate(b, txs, now)
	if first.Alert == nil || second.Alert == nil {
		t.Fatalf("each evaluation should report the alert")
	}
	if first.Alert.DedupKey() != second.Alert.DedupKey() {
		t.Fatalf("repeated alerts should share a dedup key")
	}
}

func TestEvaluateAll(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	budgets := []core.Budget{
		{ID: "a", Period: core.DailyBudget, Amount: 10, AlertThreshold: 80, Enabled: true},
		{ID: "b", Period: core.DailyBudget, Amount: 100, AlertThreshold: 80, Enabled: true},
	}
	evals := EvaluateAll(budgets, []core.Transaction{spend(9, now)}, now)
	if len(evals) != 2 || evals[0].Budget.ID != "a" || evals[1].Budget.ID != "b" {
		t.Fatalf("unexpected evaluations %+v", evals)
	}
	alerts := Alerts(evals)
	if len(alerts) != 1 || alerts[0].SubjectID != "a" || alerts[0].Kind != core.AlertBudgetNearLimit {
		t.Fatalf("unexpected alerts %+v", alerts)
	}
}

func TestEvaluatePanicsOnZeroAmount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Evaluate(core.Budget{Period: core.DailyBudget}, nil, time.Now())
}
