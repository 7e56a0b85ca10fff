package core

import (
	"fmt"
	"time"
)

const (
	AlertBudgetNearLimit AlertKind = "budget_near_limit"
	AlertBudgetExceeded  AlertKind = "budget_exceeded"
	AlertGoalMilestone   AlertKind = "goal_milestone"
	AlertGoalCompleted   AlertKind = "goal_completed"
)

type AlertKind string

// Alert is a request for the notification collaborator to show something.
type Alert struct {
	Kind       AlertKind `json:"kind"`
	SubjectID  string    `json:"subjectId"` // budget or goal id
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Percentage float64   `json:"percentage"`
	// Period is the start of the budget window the alert belongs to; zero for goal alerts.
	Period    time.Time `json:"period,omitzero"`
	CreatedAt time.Time `json:"createdAt"`
}

// DedupKey identifies the condition an alert reports, so repeated evaluations
// of the same budget window collapse onto one key.
func (a Alert) DedupKey() string {
	if a.Period.IsZero() {
		return fmt.Sprintf("%s:%s", a.Kind, a.SubjectID)
	}
	return fmt.Sprintf("%s:%s:%s", a.Kind, a.SubjectID, a.Period.UTC().Format(time.RFC3339))
}
