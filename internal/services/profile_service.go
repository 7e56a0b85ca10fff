package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"timeworth/internal/core"
	"timeworth/internal/storage"
)

// Defaults seed values that are not yet stored.
type Defaults struct {
	HoursPerWeek float64
	Settings     core.Settings
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Currency     string    `json:"currency"`
	Wage         core.Wage `json:"wage"`
	HoursPerWeek float64   `json:"hoursPerWeek"`
}

// HoursQuote is a price expressed in hours of work.
type HoursQuote struct {
	Price      float64             `json:"price"`
	Hours      float64             `json:"hours"`
	HourlyRate float64             `json:"hourlyRate"`
	Formatted  string              `json:"formatted"`
	Breakdown  core.HoursBreakdown `json:"breakdown"`
}

// ProfileView is the stored profile plus the rate derived from it.
type ProfileView struct {
	core.UserProfile
	HourlyRate float64 `json:"hourlyRate"`
}

// ProfileService owns the single user profile and the settings.
type ProfileService struct {
	store     storage.ProfileStore
	defaults  Defaults
	now       func() time.Time
	listeners listeners
}

func NewProfileService(store storage.ProfileStore, defaults Defaults) *ProfileService {
	if defaults.HoursPerWeek <= 0 {
		defaults.HoursPerWeek = core.DefaultHoursPerWeek
	}
	if defaults.Settings == (core.Settings{}) {
		defaults.Settings = core.DefaultSettings()
	}
	return &ProfileService{store: store, defaults: defaults, now: time.Now}
}

// Subscribe registers l to be told about settings and wage changes.
func (s *ProfileService) Subscribe(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

func (s *ProfileService) GetProfile(ctx context.Context) (ProfileView, error) {
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		return ProfileView{}, fmt.Errorf("get profile: %w", err)
	}
	return ProfileView{UserProfile: p, HourlyRate: p.HourlyRate()}, nil
}

// SaveProfile creates the profile on first call and updates it afterwards.
// Identity and creation time survive updates.
func (s *ProfileService) SaveProfile(ctx context.Context, in ProfileInput) (ProfileView, error) {
	now := s.now()
	p := core.UserProfile{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Age:          in.Age,
		Currency:     strings.ToUpper(strings.TrimSpace(in.Currency)),
		Wage:         in.Wage,
		HoursPerWeek: in.HoursPerWeek,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.HoursPerWeek == 0 {
		p.HoursPerWeek = s.defaults.HoursPerWeek
	}

	existing, err := s.store.GetProfile(ctx)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	case !errors.Is(err, storage.ErrNotFound):
		return ProfileView{}, fmt.Errorf("get profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return ProfileView{}, invalid(err)
	}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return ProfileView{}, fmt.Errorf("save profile: %w", err)
	}
	s.listeners.notify()

	slog.InfoContext(ctx, "Profile saved", "id", p.ID, "hourly_rate", p.HourlyRate())
	return ProfileView{UserProfile: p, HourlyRate: p.HourlyRate()}, nil
}

// UpdateWage replaces only the wage; the hourly rate follows on next read.
func (s *ProfileService) UpdateWage(ctx context.Context, w core.Wage) (ProfileView, error) {
	if err := w.Validate(); err != nil {
		return ProfileView{}, invalid(err)
	}
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		return ProfileView{}, fmt.Errorf("get profile: %w", err)
	}
	p.Wage = w
	p.UpdatedAt = s.now()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return ProfileView{}, fmt.Errorf("save profile: %w", err)
	}
	s.listeners.notify()
	return ProfileView{UserProfile: p, HourlyRate: p.HourlyRate()}, nil
}

// HourlyRate is 0 while no profile exists.
func (s *ProfileService) HourlyRate(ctx context.Context) (float64, error) {
	p, found, err := s.profile(ctx)
	if err != nil || !found {
		return 0, err
	}
	return p.HourlyRate(), nil
}

// GetSettings returns the stored settings or the configured defaults. Once a
// profile exists its currency is the one reported.
func (s *ProfileService) GetSettings(ctx context.Context) (core.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		settings = s.defaults.Settings
	case err != nil:
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	p, found, err := s.profile(ctx)
	if err != nil {
		return core.Settings{}, err
	}
	if found {
		settings.Currency = p.Currency
	}
	return settings, nil
}

// UpdateSettings stores settings. An empty currency keeps the current one; a
// new currency is written through to the profile.
func (s *ProfileService) UpdateSettings(ctx context.Context, settings core.Settings) (core.Settings, error) {
	settings.Currency = strings.ToUpper(strings.TrimSpace(settings.Currency))
	if settings.DisplayMode == "" {
		settings.DisplayMode = core.DisplayCurrency
	}
	if settings.Currency == "" {
		current, err := s.GetSettings(ctx)
		if err != nil {
			return core.Settings{}, err
		}
		settings.Currency = current.Currency
	}
	if err := settings.Validate(); err != nil {
		return core.Settings{}, invalid(err)
	}

	p, found, err := s.profile(ctx)
	if err != nil {
		return core.Settings{}, err
	}
	if found && p.Currency != settings.Currency {
		p.Currency = settings.Currency
		p.UpdatedAt = s.now()
		if err := s.store.SaveProfile(ctx, p); err != nil {
			return core.Settings{}, fmt.Errorf("save profile: %w", err)
		}
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.listeners.notify()
	return settings, nil
}

func (s *ProfileService) profile(ctx context.Context) (core.UserProfile, bool, error) {
	p, err := s.store.GetProfile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return core.UserProfile{}, false, nil
	}
	if err != nil {
		return core.UserProfile{}, false, fmt.Errorf("get profile: %w", err)
	}
	return p, true, nil
}

// HoursFor prices an item in hours of work at the current rate.
func (s *ProfileService) HoursFor(ctx context.Context, price float64) (HoursQuote, error) {
	if price <= 0 {
		return HoursQuote{}, invalid(core.ErrInvalidAmount)
	}
	rate, err := s.HourlyRate(ctx)
	if err != nil {
		return HoursQuote{}, err
	}
	if rate <= 0 {
		return HoursQuote{}, invalid(ErrNoWage)
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return HoursQuote{}, err
	}

	hours := core.HoursOfWork(price, rate)
	return HoursQuote{
		Price:      price,
		Hours:      hours,
		HourlyRate: rate,
		Formatted:  core.FormatHours(hours, settings.WorkHoursPerDay),
		Breakdown:  core.SplitHours(hours, settings.WorkHoursPerDay),
	}, nil
}
