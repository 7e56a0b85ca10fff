package worker

import (
	"context"
	"fmt"
	"time"

	"timeworth/internal/amqp"
	"timeworth/internal/budget"
	"timeworth/internal/core"
	applog "timeworth/internal/log"
	"timeworth/internal/notify"
)

// BudgetStatusReader evaluates every budget at a point in time.
type BudgetStatusReader interface {
	Status(ctx context.Context, now time.Time) ([]budget.Evaluation, error)
}

// AlertWorker turns queued alert messages into notifications. With a budget
// reader it also sweeps budgets periodically, which recovers alerts whose
// publish was lost while the broker was unavailable.
type AlertWorker struct {
	notifier notify.Notifier
	budgets  BudgetStatusReader
	logger   *applog.Logger
	now      func() time.Time
}

// NewAlertWorker builds a worker; budgets may be nil to disable sweeps.
func NewAlertWorker(notifier notify.Notifier, budgets BudgetStatusReader, logger *applog.Logger) *AlertWorker {
	return &AlertWorker{
		notifier: notifier,
		budgets:  budgets,
		logger:   logger.WithComponent(applog.ComponentWorker),
		now:      time.Now,
	}
}

// Handle processes a single alert message from AMQP
func (w *AlertWorker) Handle(ctx context.Context, msg *amqp.AlertMessage) error {
	alert := msg.Alert()
	if !validKind(alert.Kind) {
		// Unknown kinds cannot become valid by retrying; drop them.
		w.logger.WarnContext(ctx, "Dropping alert with unknown kind", "id", msg.ID, applog.FieldAlertKind, msg.Kind)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing alert message", append(applog.NewFields().
		WithOperation(applog.OpConsume).
		WithAlert(string(alert.Kind), alert.SubjectID, alert.DedupKey(), alert.Percentage).ToSlice(),
		"id", msg.ID)...)

	if err := w.notifier.Notify(ctx, alert); err != nil {
		return fmt.Errorf("deliver alert %s: %w", msg.ID, err)
	}
	return nil
}

// SweepBudgets evaluates every budget and delivers the resulting alerts.
// It returns how many alerts were handed to the notifier.
func (w *AlertWorker) SweepBudgets(ctx context.Context) (int, error) {
	if w.budgets == nil {
		return 0, nil
	}

	evals, err := w.budgets.Status(ctx, w.now())
	if err != nil {
		return 0, fmt.Errorf("evaluate budgets: %w", err)
	}

	sent := 0
	for _, alert := range budget.Alerts(evals) {
		if err := w.notifier.Notify(ctx, alert); err != nil {
			w.logger.ErrorContext(ctx, "Failed to deliver swept alert",
				applog.FieldDedupKey, alert.DedupKey(),
				applog.FieldError, err)
			continue
		}
		sent++
	}

	w.logger.DebugContext(ctx, "Budget sweep completed", "budgets", len(evals), "alerts", sent)
	return sent, nil
}

// RunSweeps calls SweepBudgets every interval until ctx is done.
func (w *AlertWorker) RunSweeps(ctx context.Context, interval time.Duration) {
	if w.budgets == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.SweepBudgets(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic budget sweep failed", applog.FieldError, err)
			}
		}
	}
}

func validKind(k core.AlertKind) bool {
	switch k {
	case core.AlertBudgetNearLimit, core.AlertBudgetExceeded, core.AlertGoalMilestone, core.AlertGoalCompleted:
		return true
	}
	return false
}
