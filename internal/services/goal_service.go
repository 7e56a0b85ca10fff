package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeworth/internal/core"
	"timeworth/internal/goals"
	"timeworth/internal/storage"
)

// GoalInput carries the fields of a new savings goal.
type GoalInput struct {
	Name          string    `json:"name"`
	Icon          string    `json:"icon"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	TargetDate    time.Time `json:"targetDate"`
}

// GoalUpdate edits a goal's details. Nil fields are left unchanged; progress
// is never edited directly.
type GoalUpdate struct {
	Name         *string    `json:"name"`
	Icon         *string    `json:"icon"`
	TargetAmount *float64   `json:"targetAmount"`
	TargetDate   *time.Time `json:"targetDate"`
}

// GoalView is a goal with its derived progress.
type GoalView struct {
	core.SavingsGoal
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
}

func NewGoalView(g core.SavingsGoal) GoalView {
	return GoalView{SavingsGoal: g, Percentage: g.Percentage(), Remaining: g.Remaining()}
}

// GoalService is the single writer of goal state: edits and credits from
// the ledger are serialized on mu.
type GoalService struct {
	store storage.GoalStore
	now   func() time.Time
	mu    sync.Mutex
}

func NewGoalService(store storage.GoalStore) *GoalService {
	return &GoalService{store: store, now: time.Now}
}

// Create stores a goal. A starting amount at or past the target creates it completed.
func (s *GoalService) Create(ctx context.Context, in GoalInput) (GoalView, error) {
	now := s.now()
	g := core.SavingsGoal{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Icon:          in.Icon,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		TargetDate:    in.TargetDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if g.Icon == "" {
		g.Icon = "🎯"
	}
	if err := g.Validate(); err != nil {
		return GoalView{}, invalid(err)
	}
	g.Completed = g.CurrentAmount >= g.TargetAmount

	if err := s.store.CreateGoal(ctx, g); err != nil {
		return GoalView{}, fmt.Errorf("create goal: %w", err)
	}
	return NewGoalView(g), nil
}

// Update applies the non-nil fields of in. Completed stays set once reached and
// is set when the current amount already meets a lowered target.
func (s *GoalService) Update(ctx context.Context, id string, in GoalUpdate) (GoalView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ListGoals(ctx)
	if err != nil {
		return GoalView{}, fmt.Errorf("list goals: %w", err)
	}
	var g core.SavingsGoal
	found := false
	for _, candidate := range all {
		if candidate.ID == id {
			g, found = candidate, true
			break
		}
	}
	if !found {
		return GoalView{}, fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}

	if in.Name != nil {
		g.Name = strings.TrimSpace(*in.Name)
	}
	if in.Icon != nil && *in.Icon != "" {
		g.Icon = *in.Icon
	}
	if in.TargetAmount != nil {
		g.TargetAmount = *in.TargetAmount
	}
	if in.TargetDate != nil {
		g.TargetDate = *in.TargetDate
	}
	if err := g.Validate(); err != nil {
		return GoalView{}, invalid(err)
	}
	g.Completed = g.Completed || g.CurrentAmount >= g.TargetAmount
	g.UpdatedAt = s.now()

	if err := s.store.SaveGoal(ctx, g); err != nil {
		return GoalView{}, fmt.Errorf("save goal: %w", err)
	}
	return NewGoalView(g), nil
}

// Credit hands a saved amount to the goal tracker and persists the one goal
// it updates.
func (s *GoalService) Credit(ctx context.Context, amount float64, now time.Time) (goals.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.ListGoals(ctx)
	if err != nil {
		return goals.Result{}, fmt.Errorf("list goals: %w", err)
	}
	res := goals.Apply(current, amount, now)
	if !res.Applied {
		return res, nil
	}
	if err := s.store.SaveGoal(ctx, res.Goal); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted between list and save; nothing left to credit.
			return goals.Result{Event: goals.EventNone}, nil
		}
		return goals.Result{}, fmt.Errorf("save goal: %w", err)
	}
	return res, nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// List returns goals oldest first.
func (s *GoalService) List(ctx context.Context) ([]GoalView, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, NewGoalView(g))
	}
	return views, nil
}
