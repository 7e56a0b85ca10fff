// Package services orchestrates the pure engine packages over the storage
// and notification collaborators.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timeworth/internal/budget"
	"timeworth/internal/core"
	"timeworth/internal/goals"
)

// ErrInvalidInput marks errors caused by caller-supplied values.
var ErrInvalidInput = errors.New("invalid input")

// ErrNoWage is returned when hours are requested before a wage is known.
var ErrNoWage = errors.New("no wage configured")

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

type (
	// Notifier delivers alerts. Delivery failures never fail the operation
	// that raised the alert.
	Notifier interface {
		Notify(ctx context.Context, alert core.Alert) error
	}

	// ChangeListener is told whenever data derived views depend on changes.
	ChangeListener interface {
		Invalidate()
	}

	// HourlyRateSource yields the current hourly rate, 0 when unknown.
	HourlyRateSource interface {
		HourlyRate(ctx context.Context) (float64, error)
	}

	// SettingsSource yields the effective settings.
	SettingsSource interface {
		GetSettings(ctx context.Context) (core.Settings, error)
	}

	// GoalCreditor applies a saved amount to the goal set. Implementations
	// must serialize calls.
	GoalCreditor interface {
		Credit(ctx context.Context, amount float64, now time.Time) (goals.Result, error)
	}

	// BudgetStatusReader evaluates every budget at a point in time.
	BudgetStatusReader interface {
		Status(ctx context.Context, now time.Time) ([]budget.Evaluation, error)
	}
)

// listeners fans an invalidation out to every subscriber.
type listeners []ChangeListener

func (ls listeners) notify() {
	for _, l := range ls {
		l.Invalidate()
	}
}
