package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"timeworth/internal/amqp"
	"timeworth/internal/budget"
	"timeworth/internal/core"
	applog "timeworth/internal/log"
	"timeworth/internal/notify"
)

type recorder struct {
	alerts []core.Alert
	err    error
}

func (r *recorder) Notify(_ context.Context, a core.Alert) error {
	if r.err != nil {
		return r.err
	}
	r.alerts = append(r.alerts, a)
	return nil
}

type staticBudgets struct {
	evals []budget.Evaluation
}

func (s staticBudgets) Status(_ context.Context, _ time.Time) ([]budget.Evaluation, error) {
	return s.evals, nil
}

func testLogger() *applog.Logger {
	return applog.New(applog.Config{Output: &bytes.Buffer{}})
}

func TestHandleDeliversAlert(t *testing.T) {
	rec := &recorder{}
	w := NewAlertWorker(rec, nil, testLogger())

	msg := amqp.NewAlertMessage(core.Alert{Kind: core.AlertGoalMilestone, SubjectID: "g1", Percentage: 76})
	if err := w.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(rec.alerts) != 1 || rec.alerts[0].SubjectID != "g1" {
		t.Fatalf("unexpected deliveries %+v", rec.alerts)
	}

	if err := w.Handle(context.Background(), &amqp.AlertMessage{Kind: "bogus"}); err != nil {
		t.Fatalf("unknown kinds should be dropped without error, got %v", err)
	}
	if len(rec.alerts) != 1 {
		t.Fatalf("unknown kind must not be delivered")
	}
}

func TestHandleReturnsDeliveryError(t *testing.T) {
	rec := &recorder{err: errors.New("down")}
	w := NewAlertWorker(rec, nil, testLogger())
	msg := amqp.NewAlertMessage(core.Alert{Kind: core.AlertBudgetExceeded, SubjectID: "b"})
	if err := w.Handle(context.Background(), msg); err == nil {
		t.Fatalf("expected error so the message is requeued")
	}
}

func TestSweepBudgetsThroughCooldown(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	b := core.Budget{ID: "b1", Period: core.DailyBudget, Amount: 10, AlertThreshold: 50, Enabled: true}
	eval := budget.Evaluate(b, []core.Transaction{{Type: core.Purchased, ItemPrice: 6, Timestamp: now}}, now)

	rec := &recorder{}
	cooldown := notify.NewCooldown(rec, time.Hour, 8, testLogger())
	w := NewAlertWorker(cooldown, staticBudgets{evals: []budget.Evaluation{eval}}, testLogger())
	w.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := w.SweepBudgets(context.Background()); err != nil {
			t.Fatalf("sweep: %v", err)
		}
	}
	if len(rec.alerts) != 1 || rec.alerts[0].Kind != core.AlertBudgetNearLimit {
		t.Fatalf("expected one near-limit alert, got %+v", rec.alerts)
	}
}

func TestSweepWithoutBudgetsIsNoop(t *testing.T) {
	w := NewAlertWorker(&recorder{}, nil, testLogger())
	n, err := w.SweepBudgets(context.Background())
	if n != 0 || err != nil {
		t.Fatalf("expected no-op, got %d %v", n, err)
	}
	w.RunSweeps(context.Background(), time.Second) // returns immediately
}
