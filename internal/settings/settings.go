// Package settings holds user display preferences. A Manager owns the current
// value and delegates persistence to a Store supplied by the caller.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	DateFormatDMY = "DD/MM/YYYY"
	DateFormatMDY = "MM/DD/YYYY"
	DateFormatISO = "YYYY-MM-DD"
)

type Settings struct {
	Currency   string `json:"currency" validate:"required,len=3,uppercase"`
	DateFormat string `json:"dateFormat" validate:"required,oneof=DD/MM/YYYY MM/DD/YYYY YYYY-MM-DD"`
	DarkMode   bool   `json:"darkMode"`
	Language   string `json:"language" validate:"required,min=2,max=8"`
}

func Defaults() Settings {
	return Settings{
		Currency:   "EUR",
		DateFormat: DateFormatDMY,
		DarkMode:   true,
		Language:   "en",
	}
}

// ValidationError names the first invalid settings field.
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid setting %s: failed %s", e.Field, e.Tag)
}

// Store persists settings between process restarts.
// Load reports found=false when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (s Settings, found bool, err error)
	Save(ctx context.Context, s Settings) error
}

type Manager struct {
	mu          sync.RWMutex
	store       Store
	current     Settings
	initialized bool
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		current:  Defaults(),
		validate: validator.New(),
		logger:   logger,
	}
}

// Initialize loads persisted settings once. Unreadable or invalid data falls
// back to defaults instead of failing startup.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return
	}
	m.initialized = true

	loaded, found, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("Failed to load settings, using defaults", zap.Error(err))
		return
	}
	if !found {
		return
	}
	if err := m.check(loaded); err != nil {
		m.logger.Warn("Stored settings are invalid, using defaults", zap.Error(err))
		return
	}
	m.current = loaded
}

func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Save validates and persists new settings. The in-memory value changes only
// when persistence succeeds.
func (m *Manager) Save(ctx context.Context, s Settings) (Settings, error) {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	s.Language = strings.TrimSpace(s.Language)
	if err := m.check(s); err != nil {
		return Settings{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, s); err != nil {
		return Settings{}, fmt.Errorf("failed to persist settings: %w", err)
	}
	m.current = s
	m.initialized = true
	return s, nil
}

func (m *Manager) Reset(ctx context.Context) (Settings, error) {
	return m.Save(ctx, Defaults())
}

func (m *Manager) check(s Settings) error {
	if err := m.validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &ValidationError{Field: fieldErrs[0].Field(), Tag: fieldErrs[0].Tag()}
		}
		return err
	}
	return nil
}
