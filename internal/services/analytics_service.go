package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"timeworth/internal/aggregate"
	"timeworth/internal/cache"
	"timeworth/internal/core"
	"timeworth/internal/storage"
)

const (
	maxSavingsMonths = 120
	maxProjectYears  = 100
)

// Summary is the dashboard view.
type Summary struct {
	MonthToDate core.AggregatedStats `json:"monthToDate"`
	YearToDate  core.AggregatedStats `json:"yearToDate"`
	AllTime     core.AggregatedStats `json:"allTime"`
	// Projection grows all-time savings at the configured rate.
	Projection       core.Projection `json:"projection"`
	HoursSavedLabel  string          `json:"hoursSavedLabel"`
	HoursSpentLabel  string          `json:"hoursSpentLabel"`
	TransactionCount int             `json:"transactionCount"`
}

// Bucket is one calendar bucket of a monthly or yearly series.
type Bucket struct {
	Key   string               `json:"key"`
	Stats core.AggregatedStats `json:"stats"`
}

// ProjectionReport projects a principal year by year.
type ProjectionReport struct {
	Horizons core.Projection        `json:"horizons"`
	Series   []core.ProjectionPoint `json:"series"`
}

// AnalyticsService derives read models from a ledger snapshot. Results are
// cached per ledger revision; Invalidate moves to a new revision.
type AnalyticsService struct {
	txs      storage.TransactionStore
	settings SettingsSource
	cache    *cache.LRUCache[any]
	loc      *time.Location
	now      func() time.Time
	rev      atomic.Uint64
}

func NewAnalyticsService(txs storage.TransactionStore, settings SettingsSource, c *cache.LRUCache[any], loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsService{txs: txs, settings: settings, cache: c, loc: loc, now: time.Now}
}

// Invalidate drops every cached result.
func (s *AnalyticsService) Invalidate() {
	s.rev.Add(1)
	if s.cache != nil {
		s.cache.Clear()
	}
}

func (s *AnalyticsService) clock() time.Time {
	return s.now().In(s.loc)
}

// cached memoises compute under key for the current revision. The ledger is
// read once per miss.
func cached[T any](ctx context.Context, s *AnalyticsService, key string, compute func([]core.Transaction) (T, error)) (T, error) {
	full := fmt.Sprintf("%d:%s", s.rev.Load(), key)
	if s.cache != nil {
		if v, ok := s.cache.Get(full); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}

	var zero T
	txs, err := s.txs.ListTransactions(ctx)
	if err != nil {
		return zero, fmt.Errorf("load ledger: %w", err)
	}
	v, err := compute(txs)
	if err != nil {
		return zero, err
	}
	if s.cache != nil {
		s.cache.Set(full, v)
	}
	return v, nil
}

func dayKey(prefix string, now time.Time) string {
	return prefix + ":" + now.Format("2006-01-02")
}

// windows holds the ledger folds behind Summary; it does not depend on
// settings, so it stays cached across settings changes.
type windows struct {
	monthToDate, yearToDate, allTime core.AggregatedStats
}

// Summary reads the settings and the ledger folds concurrently, then derives
// the projection and the hour labels.
func (s *AnalyticsService) Summary(ctx context.Context) (Summary, error) {
	now := s.clock()

	var (
		settings core.Settings
		folds    windows
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = s.currentSettings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		folds, err = cached(gctx, s, dayKey("summary", now), func(txs []core.Transaction) (windows, error) {
			return windows{
				monthToDate: aggregate.MonthToDate(txs, now),
				yearToDate:  aggregate.YearToDate(txs, now),
				allTime:     aggregate.Transactions(txs),
			}, nil
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summarize(folds, settings), nil
}

func summarize(w windows, settings core.Settings) Summary {
	return Summary{
		MonthToDate:      w.monthToDate,
		YearToDate:       w.yearToDate,
		AllTime:          w.allTime,
		Projection:       core.ProjectHorizons(w.allTime.TotalSaved, settings.CompoundInterestRate),
		HoursSavedLabel:  core.FormatHours(w.allTime.TotalHoursSaved, settings.WorkHoursPerDay),
		HoursSpentLabel:  core.FormatHours(w.allTime.TotalHoursSpent, settings.WorkHoursPerDay),
		TransactionCount: w.allTime.Count(),
	}
}

// Monthly returns non-empty months in ascending order.
func (s *AnalyticsService) Monthly(ctx context.Context) ([]Bucket, error) {
	return cached(ctx, s, "monthly", func(txs []core.Transaction) ([]Bucket, error) {
		return sortedBuckets(aggregate.ByMonth(txs, s.loc)), nil
	})
}

// Yearly returns non-empty years in ascending order.
func (s *AnalyticsService) Yearly(ctx context.Context) ([]Bucket, error) {
	return cached(ctx, s, "yearly", func(txs []core.Transaction) ([]Bucket, error) {
		return sortedBuckets(aggregate.ByYear(txs, s.loc)), nil
	})
}

func sortedBuckets(m map[string]core.AggregatedStats) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, v := range m {
		out = append(out, Bucket{Key: k, Stats: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *AnalyticsService) Categories(ctx context.Context) ([]aggregate.CategoryShare, error) {
	return cached(ctx, s, "categories", func(txs []core.Transaction) ([]aggregate.CategoryShare, error) {
		return aggregate.CategoryBreakdown(txs), nil
	})
}

func (s *AnalyticsService) Weekdays(ctx context.Context) (aggregate.WeekdayInsight, error) {
	return cached(ctx, s, "weekdays", func(txs []core.Transaction) (aggregate.WeekdayInsight, error) {
		return aggregate.DayOfWeek(txs, s.loc), nil
	})
}

// Week is the Monday to Sunday pattern of the current week.
func (s *AnalyticsService) Week(ctx context.Context) (aggregate.WeekPattern, error) {
	now := s.clock()
	return cached(ctx, s, dayKey("week", now), func(txs []core.Transaction) (aggregate.WeekPattern, error) {
		return aggregate.WeeklyPattern(txs, now), nil
	})
}

func (s *AnalyticsService) YearOverYear(ctx context.Context) (aggregate.YearComparison, error) {
	now := s.clock()
	return cached(ctx, s, dayKey("yoy", now), func(txs []core.Transaction) (aggregate.YearComparison, error) {
		return aggregate.YearOverYear(txs, now), nil
	})
}

// Range summarises whole calendar days from start through end in the
// configured location. Reversed endpoints are swapped.
func (s *AnalyticsService) Range(ctx context.Context, start, end time.Time) (aggregate.PeriodSummary, error) {
	if start.IsZero() || end.IsZero() {
		return aggregate.PeriodSummary{}, invalid(core.ErrInvalidDate)
	}
	start, end = start.In(s.loc), end.In(s.loc)
	key := "range:" + start.Format(time.RFC3339) + ":" + end.Format(time.RFC3339)
	return cached(ctx, s, key, func(txs []core.Transaction) (aggregate.PeriodSummary, error) {
		return aggregate.CustomPeriod(txs, start, end), nil
	})
}

// Savings is the running saved total over the last months, ending with the current one.
func (s *AnalyticsService) Savings(ctx context.Context, months int) ([]aggregate.SavingsPoint, error) {
	if months < 1 || months > maxSavingsMonths {
		return nil, invalid(fmt.Errorf("months must be between 1 and %d", maxSavingsMonths))
	}
	now := s.clock()
	return cached(ctx, s, fmt.Sprintf("%s:%d", dayKey("savings", now), months), func(txs []core.Transaction) ([]aggregate.SavingsPoint, error) {
		return aggregate.CumulativeSavings(txs, now, months), nil
	})
}

// Projection grows all-time savings over years. A nil rate uses the rate
// from settings.
func (s *AnalyticsService) Projection(ctx context.Context, years int, rate *float64) (ProjectionReport, error) {
	if years < 0 || years > maxProjectYears {
		return ProjectionReport{}, invalid(fmt.Errorf("years must be between 0 and %d", maxProjectYears))
	}
	r, err := s.rate(ctx, rate)
	if err != nil {
		return ProjectionReport{}, err
	}

	return cached(ctx, s, fmt.Sprintf("projection:%d:%v", years, r), func(txs []core.Transaction) (ProjectionReport, error) {
		principal := aggregate.Transactions(txs).TotalSaved
		return ProjectionReport{
			Horizons: core.ProjectHorizons(principal, r),
			Series:   core.ProjectSeries(principal, r, years),
		}, nil
	})
}

func (s *AnalyticsService) rate(ctx context.Context, override *float64) (float64, error) {
	if override != nil {
		if *override < 0 || *override > 1 || math.IsNaN(*override) {
			return 0, invalid(core.ErrInvalidRate)
		}
		return *override, nil
	}
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.CompoundInterestRate, nil
}

func (s *AnalyticsService) currentSettings(ctx context.Context) (core.Settings, error) {
	if s.settings == nil {
		return core.DefaultSettings(), nil
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return core.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return settings, nil
}
