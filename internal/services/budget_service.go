package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"timeworth/internal/budget"
	"timeworth/internal/core"
	"timeworth/internal/storage"
)

// DefaultAlertThreshold applies when a budget is created without one.
const DefaultAlertThreshold = 80

// BudgetInput carries the editable budget fields. Nil pointers keep the
// current value on update and take the default on create.
type BudgetInput struct {
	Period         core.BudgetPeriod `json:"period"`
	Amount         float64           `json:"amount"`
	AlertThreshold *float64          `json:"alertThreshold,omitempty"`
	Enabled        *bool             `json:"enabled,omitempty"`
}

type BudgetLedger interface {
	storage.BudgetStore
	TransactionsBetween(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
}

type BudgetService struct {
	store BudgetLedger
	loc   *time.Location
	now   func() time.Time
}

func NewBudgetService(store BudgetLedger, loc *time.Location) *BudgetService {
	if loc == nil {
		loc = time.Local
	}
	return &BudgetService{store: store, loc: loc, now: time.Now}
}

func (s *BudgetService) Create(ctx context.Context, in BudgetInput) (core.Budget, error) {
	now := s.now()
	b := core.Budget{
		ID:             uuid.NewString(),
		Period:         in.Period,
		Amount:         in.Amount,
		AlertThreshold: DefaultAlertThreshold,
		Enabled:        true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.AlertThreshold != nil {
		b.AlertThreshold = *in.AlertThreshold
	}
	if in.Enabled != nil {
		b.Enabled = *in.Enabled
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, invalid(err)
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Update(ctx context.Context, id string, in BudgetInput) (core.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	if in.Period != "" {
		b.Period = in.Period
	}
	if in.Amount != 0 {
		b.Amount = in.Amount
	}
	if in.AlertThreshold != nil {
		b.AlertThreshold = *in.AlertThreshold
	}
	if in.Enabled != nil {
		b.Enabled = *in.Enabled
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, invalid(err)
	}
	b.UpdatedAt = s.now()
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// Toggle flips Enabled.
func (s *BudgetService) Toggle(ctx context.Context, id string) (core.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	b.Enabled = !b.Enabled
	b.UpdatedAt = s.now()
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// Status evaluates every budget for the windows containing now, read in the
// configured location. Only the transactions spanning those windows are loaded.
func (s *BudgetService) Status(ctx context.Context, now time.Time) ([]budget.Evaluation, error) {
	budgets, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []budget.Evaluation{}, nil
	}

	now = now.In(s.loc)
	var from, to time.Time
	for i, b := range budgets {
		start, end := budget.Window(b.Period, now)
		if i == 0 || start.Before(from) {
			from = start
		}
		if i == 0 || end.After(to) {
			to = end
		}
	}

	txs, err := s.store.TransactionsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load budget window: %w", err)
	}
	return budget.EvaluateAll(budgets, txs, now), nil
}

// Current is Status at the service clock.
func (s *BudgetService) Current(ctx context.Context) ([]budget.Evaluation, error) {
	return s.Status(ctx, s.now())
}
