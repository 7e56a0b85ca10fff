package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"timeworth/internal/core"
	"timeworth/internal/storage"
)

func TestMemoryStoreTransactions(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		tx := core.Transaction{ID: id, Type: core.Purchased, ItemPrice: 1, Label: id, Timestamp: base.Add(time.Duration(i) * time.Hour)}
		if err := s.AppendTransaction(ctx, tx); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.AppendTransaction(ctx, core.Transaction{ID: "a"}); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}

	all, _ := s.ListTransactions(ctx)
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	between, _ := s.TransactionsBetween(ctx, base, base.Add(2*time.Hour))
	if len(between) != 2 {
		t.Fatalf("expected half-open range of 2, got %d", len(between))
	}

	if err := s.DeleteTransaction(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.AppendTransaction(ctx, core.Transaction{ID: "a", Label: "x"})
	list, _ := s.ListTransactions(ctx)
	list[0].Label = "mutated"
	again, _ := s.ListTransactions(ctx)
	if again[0].Label != "x" {
		t.Fatalf("list must not alias store state")
	}
}

func TestMemoryStoreBudgetsAndGoals(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := s.CreateBudget(ctx, core.Budget{ID: "b", Period: core.DailyBudget, Amount: 10, CreatedAt: now}); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if err := s.UpdateBudget(ctx, core.Budget{ID: "b", Period: core.DailyBudget, Amount: 20}); err != nil {
		t.Fatalf("update budget: %v", err)
	}
	b, _ := s.GetBudget(ctx, "b")
	if b.Amount != 20 || !b.CreatedAt.Equal(now) {
		t.Fatalf("unexpected budget %+v", b)
	}
	if err := s.DeleteBudget(ctx, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_ = s.CreateGoal(ctx, core.SavingsGoal{ID: "new", CreatedAt: now.Add(time.Hour)})
	_ = s.CreateGoal(ctx, core.SavingsGoal{ID: "old", CreatedAt: now})
	goals, _ := s.ListGoals(ctx)
	if len(goals) != 2 || goals[0].ID != "old" {
		t.Fatalf("expected oldest first, got %+v", goals)
	}
	if err := s.SaveGoal(ctx, core.SavingsGoal{ID: "ghost"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreProfileEmpty(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetProfile(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetSettings(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for settings, got %v", err)
	}
}
