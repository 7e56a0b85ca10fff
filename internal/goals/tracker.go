// Package goals allocates saved amounts to savings goals and detects the
// milestone and completion crossings that trigger alerts.
package goals

import (
	"fmt"
	"sort"
	"time"

	"timeworth/internal/core"
)

// MilestonePercentage is the progress threshold that fires a milestone alert.
const MilestonePercentage = 75

const (
	EventNone      Event = "none"
	EventMilestone Event = "milestone"
	EventCompleted Event = "completed"
)

type Event string

// Result describes what one increment did to the goal set.
type Result struct {
	// Applied is false only when there was no incomplete goal to receive the increment.
	Applied            bool             `json:"applied"`
	Event              Event            `json:"event"`
	Goal               core.SavingsGoal `json:"goal"`
	PreviousPercentage float64          `json:"previousPercentage"`
	NewPercentage      float64          `json:"newPercentage"`
	Alert              *core.Alert      `json:"alert,omitempty"`
}

// Apply gives increment to exactly one incomplete goal. Goals are scanned
// oldest first; the first one the increment pushes across 100% or 75% wins.
// Without any crossing the oldest incomplete goal takes the increment
// silently. The input slice is not modified.
//
// Callers must serialize Apply per goal set and persist the returned goal
// before the next call.
func Apply(goals []core.SavingsGoal, increment float64, now time.Time) Result {
	if increment < 0 {
		panic(fmt.Sprintf("goals: negative increment %v", increment))
	}

	pending := incomplete(goals)
	if len(pending) == 0 {
		return Result{Event: EventNone}
	}

	for _, g := range pending {
		prev := g.Percentage()
		next := core.GoalPercentage(g.CurrentAmount+increment, g.TargetAmount)

		switch {
		case next >= 100 && prev < 100:
			return credit(g, increment, now, EventCompleted, prev, next)
		case next >= MilestonePercentage && prev < MilestonePercentage:
			return credit(g, increment, now, EventMilestone, prev, next)
		}
	}

	oldest := pending[0]
	prev := oldest.Percentage()
	next := core.GoalPercentage(oldest.CurrentAmount+increment, oldest.TargetAmount)
	return credit(oldest, increment, now, EventNone, prev, next)
}

func incomplete(goals []core.SavingsGoal) []core.SavingsGoal {
	out := make([]core.SavingsGoal, 0, len(goals))
	for _, g := range goals {
		if !g.Completed {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func credit(g core.SavingsGoal, increment float64, now time.Time, ev Event, prev, next float64) Result {
	g.CurrentAmount += increment
	g.UpdatedAt = now
	if ev == EventCompleted {
		g.Completed = true
	}

	res := Result{
		Applied:            true,
		Event:              ev,
		Goal:               g,
		PreviousPercentage: prev,
		NewPercentage:      next,
	}
	switch ev {
	case EventCompleted:
		res.Alert = &core.Alert{
			Kind:       core.AlertGoalCompleted,
			SubjectID:  g.ID,
			Title:      "Goal completed!",
			Message:    fmt.Sprintf("Congratulations! You've reached your goal: %s", g.Name),
			Percentage: next,
			CreatedAt:  now,
		}
	case EventMilestone:
		res.Alert = &core.Alert{
			Kind:       core.AlertGoalMilestone,
			SubjectID:  g.ID,
			Title:      "Goal progress",
			Message:    fmt.Sprintf("You're %d%% of the way to %s", MilestonePercentage, g.Name),
			Percentage: next,
			CreatedAt:  now,
		}
	}
	return res
}
