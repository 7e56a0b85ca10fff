package storage

import (
	"context"
	"errors"
	"time"

	"timeworth/internal/core"
)

// ErrNotFound is returned when a record addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// Ports for persistence adapters.
type (
	// TransactionStore is the append-only ledger.
	TransactionStore interface {
		AppendTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		// ListTransactions returns the whole ledger, newest first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		// TransactionsBetween returns transactions with start <= timestamp < end, newest first.
		TransactionsBetween(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) error
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id string) error
		GetBudget(ctx context.Context, id string) (core.Budget, error)
		ListBudgets(ctx context.Context) ([]core.Budget, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.SavingsGoal) error
		// SaveGoal overwrites an existing goal.
		SaveGoal(ctx context.Context, g core.SavingsGoal) error
		DeleteGoal(ctx context.Context, id string) error
		// ListGoals returns goals oldest first.
		ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
	}

	// ProfileStore holds the single user profile and app settings.
	ProfileStore interface {
		GetProfile(ctx context.Context) (core.UserProfile, error)
		SaveProfile(ctx context.Context, p core.UserProfile) error
		GetSettings(ctx context.Context) (core.Settings, error)
		SaveSettings(ctx context.Context, s core.Settings) error
	}

	// Store bundles every port; both backends implement it.
	Store interface {
		TransactionStore
		BudgetStore
		GoalStore
		ProfileStore
	}
)
