package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Purchased TransactionType = "purchased"
	Saved     TransactionType = "saved"
)

const (
	Hourly  WagePeriod = "hourly"
	Monthly WagePeriod = "monthly"
	Yearly  WagePeriod = "yearly"
)

const (
	DailyBudget   BudgetPeriod = "daily"
	WeeklyBudget  BudgetPeriod = "weekly"
	MonthlyBudget BudgetPeriod = "monthly"
)

const (
	DisplayCurrency DisplayMode = "currency"
	DisplayHours    DisplayMode = "hours"
)

const (
	maxLabelLength = 100
	maxNoteLength  = 500
)

type (
	TransactionType string
	WagePeriod      string
	BudgetPeriod    string
	DisplayMode     string

	// Transaction is one purchase/save decision. It is never updated in place.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		ItemPrice   float64         `json:"itemPrice"`
		HoursOfWork float64         `json:"hoursOfWork"`
		Timestamp   time.Time       `json:"timestamp"`
		Label       string          `json:"label"`
		Category    Category        `json:"category,omitempty"`
		Note        string          `json:"note,omitempty"`
		PhotoURI    string          `json:"photoUri,omitempty"`
	}

	// NewTransaction carries the caller-supplied fields of a transaction about to be recorded.
	NewTransaction struct {
		Type      TransactionType `json:"type"`
		ItemPrice float64         `json:"itemPrice"`
		Label     string          `json:"label"`
		Category  Category        `json:"category,omitempty"`
		Note      string          `json:"note,omitempty"`
		PhotoURI  string          `json:"photoUri,omitempty"`
	}

	Wage struct {
		Amount float64    `json:"amount"`
		Period WagePeriod `json:"period"`
	}

	UserProfile struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Age          int       `json:"age"`
		Currency     string    `json:"currency"`
		Wage         Wage      `json:"wage"`
		HoursPerWeek float64   `json:"hoursPerWeek"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}

	Settings struct {
		Currency             string      `json:"currency"`
		DisplayMode          DisplayMode `json:"displayMode"`
		CompoundInterestRate float64     `json:"compoundInterestRate"`
		WorkHoursPerDay      float64     `json:"workHoursPerDay"`
	}

	Budget struct {
		ID             string       `json:"id"`
		Period         BudgetPeriod `json:"period"`
		Amount         float64      `json:"amount"`
		AlertThreshold float64      `json:"alertThreshold"` // percent of Amount
		Enabled        bool         `json:"enabled"`
		CreatedAt      time.Time    `json:"createdAt"`
		UpdatedAt      time.Time    `json:"updatedAt"`
	}

	SavingsGoal struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		Icon          string    `json:"icon"`
		TargetAmount  float64   `json:"targetAmount"`
		CurrentAmount float64   `json:"currentAmount"`
		TargetDate    time.Time `json:"targetDate"`
		Completed     bool      `json:"completed"`
		CreatedAt     time.Time `json:"createdAt"`
		UpdatedAt     time.Time `json:"updatedAt"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyLabel       = errors.New("empty label")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidThreshold = errors.New("alert threshold must be between 0 and 100")
	ErrInvalidRate      = errors.New("interest rate must be between 0 and 1")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidDate      = errors.New("invalid date")
)

func (t TransactionType) IsValid() bool {
	return t == Purchased || t == Saved
}

func (p WagePeriod) IsValid() bool {
	switch p {
	case Hourly, Monthly, Yearly:
		return true
	}
	return false
}

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case DailyBudget, WeeklyBudget, MonthlyBudget:
		return true
	}
	return false
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (n NewTransaction) Validate() error {
	if !n.Type.IsValid() {
		return ErrInvalidType
	}
	if !validAmount(n.ItemPrice) {
		return ErrInvalidAmount
	}
	label := strings.TrimSpace(n.Label)
	if label == "" {
		return ErrEmptyLabel
	}
	if len(label) > maxLabelLength {
		return errors.New("label too long (max 100 characters)")
	}
	if len(n.Note) > maxNoteLength {
		return errors.New("note too long (max 500 characters)")
	}
	if n.Category != "" && !n.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

// IsPurchase reports whether the transaction counts as spending.
func (t Transaction) IsPurchase() bool {
	return t.Type == Purchased
}

// HourlyRate derives the hourly rate from the wage each time it is read.
func (p UserProfile) HourlyRate() float64 {
	if p.Wage.Amount <= 0 || !p.Wage.Period.IsValid() {
		return 0
	}
	return NormalizeToHourly(p.Wage.Amount, p.Wage.Period, p.HoursPerWeek)
}

func (p UserProfile) Validate() error {
	name := strings.TrimSpace(p.Name)
	if len(name) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	if len(name) > 50 {
		return errors.New("name must be at most 50 characters")
	}
	if p.Age < 16 || p.Age > 100 {
		return errors.New("age must be between 16 and 100")
	}
	if err := p.Wage.Validate(); err != nil {
		return err
	}
	if p.HoursPerWeek <= 0 || math.IsNaN(p.HoursPerWeek) {
		return errors.New("hours per week must be positive")
	}
	if len(p.Currency) != 3 {
		return errors.New("currency code must be 3 characters")
	}
	return nil
}

func (w Wage) Validate() error {
	if !validAmount(w.Amount) {
		return ErrInvalidAmount
	}
	if !w.Period.IsValid() {
		return ErrInvalidPeriod
	}
	return nil
}

// DefaultSettings mirrors a freshly installed app.
func DefaultSettings() Settings {
	return Settings{
		Currency:             "USD",
		DisplayMode:          DisplayCurrency,
		CompoundInterestRate: DefaultInterestRate,
		WorkHoursPerDay:      DefaultWorkHoursPerDay,
	}
}

func (s Settings) Validate() error {
	if len(s.Currency) != 3 {
		return errors.New("currency code must be 3 characters")
	}
	if s.DisplayMode != DisplayCurrency && s.DisplayMode != DisplayHours {
		return errors.New("invalid display mode")
	}
	if s.CompoundInterestRate < 0 || s.CompoundInterestRate > 1 || math.IsNaN(s.CompoundInterestRate) {
		return ErrInvalidRate
	}
	if s.WorkHoursPerDay <= 0 || s.WorkHoursPerDay > 24 {
		return errors.New("work hours per day must be between 0 and 24")
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Period.IsValid() {
		return ErrInvalidPeriod
	}
	if !validAmount(b.Amount) {
		return ErrInvalidAmount
	}
	if b.AlertThreshold < 0 || b.AlertThreshold > 100 || math.IsNaN(b.AlertThreshold) {
		return ErrInvalidThreshold
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !validAmount(g.TargetAmount) {
		return ErrInvalidAmount
	}
	if g.CurrentAmount < 0 {
		return ErrInvalidAmount
	}
	if g.TargetDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Percentage returns progress towards the target, capped at 100.
func (g SavingsGoal) Percentage() float64 {
	return GoalPercentage(g.CurrentAmount, g.TargetAmount)
}

// Remaining is how much is left to save; never negative.
func (g SavingsGoal) Remaining() float64 {
	return math.Max(g.TargetAmount-g.CurrentAmount, 0)
}

// GoalPercentage computes min(current, target)/target as a percentage.
func GoalPercentage(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(current, target) / target * 100
}
