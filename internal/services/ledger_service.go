package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"timeworth/internal/aggregate"
	"timeworth/internal/budget"
	"timeworth/internal/core"
	"timeworth/internal/goals"
	applog "timeworth/internal/log"
	"timeworth/internal/storage"
)

// RecordResult reports a recorded transaction and what it triggered.
type RecordResult struct {
	Transaction core.Transaction    `json:"transaction"`
	Goal        *goals.Result       `json:"goal,omitempty"`
	Budgets     []budget.Evaluation `json:"budgets,omitempty"`
}

// TransactionFilter narrows List. Zero fields match everything; the time
// range is inclusive. Query matches label or note case-insensitively, or the
// price as written.
type TransactionFilter struct {
	Type     core.TransactionType
	Category core.Category
	Start    time.Time
	End      time.Time
	Query    string
	Limit    int
}

// History is a filtered page of the ledger. Stats cover every match, not
// only the returned page.
type History struct {
	Transactions []core.Transaction   `json:"transactions"`
	Count        int                  `json:"count"`
	Stats        core.AggregatedStats `json:"stats"`
}

func (f TransactionFilter) match(t core.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if !f.Start.IsZero() && t.Timestamp.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && t.Timestamp.After(f.End) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		lq := strings.ToLower(q)
		return strings.Contains(strings.ToLower(t.Label), lq) ||
			strings.Contains(strings.ToLower(t.Note), lq) ||
			strings.Contains(strconv.FormatFloat(t.ItemPrice, 'f', -1, 64), q)
	}
	return true
}

// LedgerService records purchase and save decisions and runs the goal and
// budget engines on each one.
type LedgerService struct {
	txs      storage.TransactionStore
	goals    GoalCreditor
	budgets  BudgetStatusReader
	rates    HourlyRateSource
	notifier Notifier
	logger   *applog.StructuredLogger
	now      func() time.Time

	listeners listeners
}

// NewLedgerService wires the ledger. notifier may be nil, in which case
// alerts are only returned to the caller; credits may be nil to skip goals.
func NewLedgerService(txs storage.TransactionStore, credits GoalCreditor, budgets BudgetStatusReader,
	rates HourlyRateSource, notifier Notifier, logger *applog.Logger) *LedgerService {
	return &LedgerService{
		txs:      txs,
		goals:    credits,
		budgets:  budgets,
		rates:    rates,
		notifier: notifier,
		logger:   applog.NewStructuredLogger(logger.WithComponent(applog.ComponentLedger)),
		now:      time.Now,
	}
}

// Subscribe registers l to be told about every append and delete.
func (s *LedgerService) Subscribe(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

// Record validates and appends a transaction sized in hours at the current
// rate. Saves are credited to a goal; purchases are checked against budgets.
// Once the append succeeds the transaction stays recorded even if a later
// step fails.
func (s *LedgerService) Record(ctx context.Context, in core.NewTransaction) (RecordResult, error) {
	if err := in.Validate(); err != nil {
		return RecordResult{}, invalid(err)
	}
	rate, err := s.rates.HourlyRate(ctx)
	if err != nil {
		return RecordResult{}, fmt.Errorf("hourly rate: %w", err)
	}

	now := s.now()
	tx := core.Transaction{
		ID:          uuid.NewString(),
		Type:        in.Type,
		ItemPrice:   in.ItemPrice,
		HoursOfWork: core.HoursOfWork(in.ItemPrice, rate),
		Timestamp:   now,
		Label:       strings.TrimSpace(in.Label),
		Category:    in.Category,
		Note:        in.Note,
		PhotoURI:    in.PhotoURI,
	}
	if err := s.txs.AppendTransaction(ctx, tx); err != nil {
		return RecordResult{}, fmt.Errorf("append transaction: %w", err)
	}
	s.listeners.notify()
	s.logger.LogTransactionRecorded(ctx, tx.ID, string(tx.Type), tx.ItemPrice, tx.HoursOfWork, string(tx.Category))

	result := RecordResult{Transaction: tx}
	switch tx.Type {
	case core.Saved:
		if s.goals == nil {
			break
		}
		res, err := s.goals.Credit(ctx, tx.ItemPrice, now)
		if err != nil {
			return result, fmt.Errorf("credit goals: %w", err)
		}
		if res.Applied {
			result.Goal = &res
			s.logger.LogGoalCredited(ctx, res.Goal.ID, tx.ItemPrice, res.NewPercentage, string(res.Event))
		}
		if res.Alert != nil {
			s.notify(ctx, *res.Alert)
		}
	case core.Purchased:
		if s.budgets == nil {
			break
		}
		evals, err := s.budgets.Status(ctx, now)
		if err != nil {
			return result, fmt.Errorf("evaluate budgets: %w", err)
		}
		result.Budgets = evals
		for _, a := range budget.Alerts(evals) {
			s.notify(ctx, a)
		}
	}
	return result, nil
}

func (s *LedgerService) notify(ctx context.Context, alert core.Alert) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, alert); err != nil {
		s.logger.LogError(ctx, "Failed to deliver alert", err, applog.OpNotify,
			applog.NewFields().WithAlert(string(alert.Kind), alert.SubjectID, alert.DedupKey(), alert.Percentage))
	}
}

// Delete removes a transaction. Goal progress already credited is kept.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.txs.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.listeners.notify()
	return nil
}

// List returns matching transactions newest first.
func (s *LedgerService) List(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	all, err := s.txs.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(all))
	for _, t := range all {
		if !f.match(t) {
			continue
		}
		out = append(out, t)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// History lists matching transactions newest first, limited by f.Limit, with
// the totals of all matches.
func (s *LedgerService) History(ctx context.Context, f TransactionFilter) (History, error) {
	limit := f.Limit
	f.Limit = 0
	matched, err := s.List(ctx, f)
	if err != nil {
		return History{}, err
	}
	page := matched
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	return History{Transactions: page, Count: len(page), Stats: aggregate.Transactions(matched)}, nil
}
