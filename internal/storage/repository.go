package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"timeworth/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is RFC3339 with fixed-width nanoseconds so stored values sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// execOne runs a statement expected to touch exactly one row.
func (r *SQLiteRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Transactions

const transactionColumns = `id, type, item_price, hours_of_work, timestamp, label, category, note, photo_uri`

func (r *SQLiteRepository) AppendTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.ItemPrice, t.HoursOfWork, formatTime(t.Timestamp),
		t.Label, string(t.Category), t.Note, t.PhotoURI)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"type", t.Type,
		"item_price", t.ItemPrice,
		"category", t.Category)
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	if err := r.execOne(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY timestamp DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return scanTransactions(rows)
}

func (r *SQLiteRepository) TransactionsBetween(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE timestamp >= ? AND timestamp < ?
		 ORDER BY timestamp DESC, id`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("list transactions between: %w", err)
	}
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t            core.Transaction
			typ, cat, ts string
		)
		if err := rows.Scan(&t.ID, &typ, &t.ItemPrice, &t.HoursOfWork, &ts,
			&t.Label, &cat, &t.Note, &t.PhotoURI); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		parsed, err := parseTime(ts)
		if err != nil {
			return nil, err
		}
		t.Type = core.TransactionType(typ)
		t.Category = core.Category(cat)
		t.Timestamp = parsed
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Budgets

const budgetColumns = `id, period, amount, alert_threshold, enabled, created_at, updated_at`

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, string(b.Period), b.Amount, b.AlertThreshold, boolToInt(b.Enabled),
		formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget saved to SQLite", "id", b.ID, "period", b.Period, "amount", b.Amount)
	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	err := r.execOne(ctx,
		`UPDATE budgets SET period = ?, amount = ?, alert_threshold = ?, enabled = ?, updated_at = ? WHERE id = ?`,
		string(b.Period), b.Amount, b.AlertThreshold, boolToInt(b.Enabled), formatTime(b.UpdatedAt), b.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("budget %s: %w", b.ID, ErrNotFound)
		}
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	if err := r.execOne(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("budget %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, ErrNotFound)
	}
	return b, err
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (core.Budget, error) {
	var (
		b                core.Budget
		period           string
		enabled          int
		created, updated string
	)
	if err := s.Scan(&b.ID, &period, &b.Amount, &b.AlertThreshold, &enabled, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("scan budget: %w", err)
	}
	b.Period = core.BudgetPeriod(period)
	b.Enabled = enabled != 0
	var err error
	if b.CreatedAt, err = parseTime(created); err != nil {
		return b, err
	}
	if b.UpdatedAt, err = parseTime(updated); err != nil {
		return b, err
	}
	return b, nil
}

// Goals

const goalColumns = `id, name, icon, target_amount, current_amount, target_date, completed, created_at, updated_at`

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingsGoal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Icon, g.TargetAmount, g.CurrentAmount, formatTime(g.TargetDate),
		boolToInt(g.Completed), formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal saved to SQLite", "id", g.ID, "name", g.Name, "target", g.TargetAmount)
	return nil
}

func (r *SQLiteRepository) SaveGoal(ctx context.Context, g core.SavingsGoal) error {
	err := r.execOne(ctx,
		`UPDATE savings_goals
		 SET name = ?, icon = ?, target_amount = ?, current_amount = ?, target_date = ?, completed = ?, updated_at = ?
		 WHERE id = ?`,
		g.Name, g.Icon, g.TargetAmount, g.CurrentAmount, formatTime(g.TargetDate),
		boolToInt(g.Completed), formatTime(g.UpdatedAt), g.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("goal %s: %w", g.ID, ErrNotFound)
		}
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	if err := r.execOne(ctx, `DELETE FROM savings_goals WHERE id = ?`, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("goal %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM savings_goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := []core.SavingsGoal{}
	for rows.Next() {
		var (
			g                            core.SavingsGoal
			completed                    int
			targetDate, created, updated string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.Icon, &g.TargetAmount, &g.CurrentAmount,
			&targetDate, &completed, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Completed = completed != 0
		if g.TargetDate, err = parseTime(targetDate); err != nil {
			return nil, err
		}
		if g.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if g.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

// Profile and settings

func (r *SQLiteRepository) GetProfile(ctx context.Context) (core.UserProfile, error) {
	var (
		p                core.UserProfile
		period           string
		created, updated string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT profile_id, name, age, currency, wage_amount, wage_period, hours_per_week, created_at, updated_at
		 FROM user_profile WHERE id = 1`).
		Scan(&p.ID, &p.Name, &p.Age, &p.Currency, &p.Wage.Amount, &period, &p.HoursPerWeek, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("profile: %w", ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("get profile: %w", err)
	}
	p.Wage.Period = core.WagePeriod(period)
	if p.CreatedAt, err = parseTime(created); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return p, err
	}
	return p, nil
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, p core.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profile (id, profile_id, name, age, currency, wage_amount, wage_period, hours_per_week, created_at, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   profile_id = excluded.profile_id,
		   name = excluded.name,
		   age = excluded.age,
		   currency = excluded.currency,
		   wage_amount = excluded.wage_amount,
		   wage_period = excluded.wage_period,
		   hours_per_week = excluded.hours_per_week,
		   updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Age, p.Currency, p.Wage.Amount, string(p.Wage.Period), p.HoursPerWeek,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	slog.InfoContext(ctx, "Profile saved to SQLite", "id", p.ID, "wage_period", p.Wage.Period)
	return nil
}

// GetSettings returns ErrNotFound until settings are first saved.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var (
		s    core.Settings
		mode string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT currency, display_mode, compound_interest_rate, work_hours_per_day FROM settings WHERE id = 1`).
		Scan(&s.Currency, &mode, &s.CompoundInterestRate, &s.WorkHoursPerDay)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("settings: %w", ErrNotFound)
	}
	if err != nil {
		return s, fmt.Errorf("get settings: %w", err)
	}
	s.DisplayMode = core.DisplayMode(mode)
	return s, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (id, currency, display_mode, compound_interest_rate, work_hours_per_day)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   currency = excluded.currency,
		   display_mode = excluded.display_mode,
		   compound_interest_rate = excluded.compound_interest_rate,
		   work_hours_per_day = excluded.work_hours_per_day`,
		s.Currency, string(s.DisplayMode), s.CompoundInterestRate, s.WorkHoursPerDay)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
