// Package budget evaluates spending in the current budget window against each
// budget's alert threshold and cap. Evaluation is stateless: every call
// recomputes from the ledger and reports the status afresh.
package budget

import (
	"fmt"
	"time"

	"timeworth/internal/aggregate"
	"timeworth/internal/core"
)

const (
	StatusNormal     Status = "normal"
	StatusNearLimit  Status = "near_limit"
	StatusOverBudget Status = "over_budget"
)

type Status string

// Evaluation is the state of one budget for the window containing the evaluation time.
type Evaluation struct {
	Budget     core.Budget `json:"budget"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"` // exclusive
	Spent      float64     `json:"spent"`
	Percentage float64     `json:"percentage"`
	Status     Status      `json:"status"`
	// Alert is set for enabled budgets at or above their threshold.
	Alert *core.Alert `json:"alert,omitempty"`
}

// ExceededBy is how far past 100% the spending is, or 0.
func (e Evaluation) ExceededBy() float64 {
	if e.Percentage <= 100 {
		return 0
	}
	return e.Percentage - 100
}

// Remaining is the amount still available in the window, never negative.
func (e Evaluation) Remaining() float64 {
	if left := e.Budget.Amount - e.Spent; left > 0 {
		return left
	}
	return 0
}

// Window returns the half-open [start, end) window of period around now.
// Weeks start on Monday.
func Window(period core.BudgetPeriod, now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch period {
	case core.DailyBudget:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	case core.WeeklyBudget:
		start := aggregate.StartOfISOWeek(now)
		return start, start.AddDate(0, 0, 7)
	case core.MonthlyBudget:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	default:
		panic(fmt.Sprintf("budget: unknown period %q", period))
	}
}

// Classify maps a spent percentage onto a status.
func Classify(percentage, alertThreshold float64) Status {
	switch {
	case percentage >= 100:
		return StatusOverBudget
	case percentage >= alertThreshold:
		return StatusNearLimit
	default:
		return StatusNormal
	}
}

// Evaluate sums purchases in b's current window and classifies the result.
func Evaluate(b core.Budget, txs []core.Transaction, now time.Time) Evaluation {
	if b.Amount <= 0 {
		panic(fmt.Sprintf("budget: amount must be positive, got %v", b.Amount))
	}
	start, end := Window(b.Period, now)

	var spent float64
	for _, t := range txs {
		if !t.IsPurchase() {
			continue
		}
		if t.Timestamp.Before(start) || !t.Timestamp.Before(end) {
			continue
		}
		spent += t.ItemPrice
	}

	pct := spent * 100 / b.Amount
	eval := Evaluation{
		Budget:     b,
		Start:      start,
		End:        end,
		Spent:      spent,
		Percentage: pct,
		Status:     Classify(pct, b.AlertThreshold),
	}
	if b.Enabled && eval.Status != StatusNormal {
		eval.Alert = alertFor(eval, now)
	}
	return eval
}

// EvaluateAll evaluates each budget independently, preserving input order.
func EvaluateAll(budgets []core.Budget, txs []core.Transaction, now time.Time) []Evaluation {
	out := make([]Evaluation, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, Evaluate(b, txs, now))
	}
	return out
}

// Alerts extracts the alerts from a set of evaluations.
func Alerts(evals []Evaluation) []core.Alert {
	var alerts []core.Alert
	for _, e := range evals {
		if e.Alert != nil {
			alerts = append(alerts, *e.Alert)
		}
	}
	return alerts
}

func periodName(p core.BudgetPeriod) string {
	switch p {
	case core.DailyBudget:
		return "today"
	case core.WeeklyBudget:
		return "this week"
	default:
		return "this month"
	}
}

func alertFor(e Evaluation, now time.Time) *core.Alert {
	a := &core.Alert{
		SubjectID:  e.Budget.ID,
		Percentage: e.Percentage,
		Period:     e.Start,
		CreatedAt:  now,
	}
	if e.Status == StatusOverBudget {
		a.Kind = core.AlertBudgetExceeded
		a.Title = "Budget exceeded"
		a.Message = fmt.Sprintf("You've exceeded your budget for %s by %.0f%% (%.2f / %.2f)",
			periodName(e.Budget.Period), e.ExceededBy(), e.Spent, e.Budget.Amount)
		return a
	}
	a.Kind = core.AlertBudgetNearLimit
	a.Title = "Budget alert"
	a.Message = fmt.Sprintf("You've spent %.0f%% of your budget for %s (%.2f / %.2f)",
		e.Percentage, periodName(e.Budget.Period), e.Spent, e.Budget.Amount)
	return a
}
