package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct {
	loadErr error
	saveErr error
}

func (f failingStore) Load(context.Context) (Settings, bool, error) { return Settings{}, false, f.loadErr }
func (f failingStore) Save(context.Context, Settings) error         { return f.saveErr }

func TestManager_InitializeDefaults(t *testing.T) {
	m := NewManager(NewMemoryStore(), zap.NewNop())
	m.Initialize(context.Background())
	assert.Equal(t, Defaults(), m.Get())
	assert.Equal(t, "EUR", m.Get().Currency)
	assert.Equal(t, DateFormatDMY, m.Get().DateFormat)
	assert.True(t, m.Get().DarkMode)
	assert.Equal(t, "en", m.Get().Language)
}

func TestManager_InitializeLoadsStored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	stored := Settings{Currency: "USD", DateFormat: DateFormatISO, DarkMode: false, Language: "de"}
	require.NoError(t, store.Save(ctx, stored))

	m := NewManager(store, zap.NewNop())
	m.Initialize(ctx)
	assert.Equal(t, stored, m.Get())
}

func TestManager_InitializeFallsBack(t *testing.T) {
	ctx := context.Background()

	t.Run("load error", func(t *testing.T) {
		m := NewManager(failingStore{loadErr: errors.New("disk on fire")}, zap.NewNop())
		m.Initialize(ctx)
		assert.Equal(t, Defaults(), m.Get())
	})

	t.Run("invalid stored value", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, Settings{Currency: "euro", DateFormat: "whenever", Language: "en"}))
		m := NewManager(store, zap.NewNop())
		m.Initialize(ctx)
		assert.Equal(t, Defaults(), m.Get())
	})
}

func TestManager_Save(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, zap.NewNop())
	m.Initialize(ctx)

	saved, err := m.Save(ctx, Settings{Currency: " usd ", DateFormat: DateFormatMDY, Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "USD", saved.Currency)
	assert.Equal(t, saved, m.Get())

	persisted, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, saved, persisted)
}

func TestManager_SaveRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		field    string
	}{
		{name: "currency length", settings: Settings{Currency: "EURO", DateFormat: DateFormatDMY, Language: "en"}, field: "Currency"},
		{name: "date format", settings: Settings{Currency: "EUR", DateFormat: "DD-MM-YY", Language: "en"}, field: "DateFormat"},
		{name: "missing language", settings: Settings{Currency: "EUR", DateFormat: DateFormatDMY}, field: "Language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(NewMemoryStore(), zap.NewNop())
			_, err := m.Save(context.Background(), tt.settings)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, Defaults(), m.Get())
		})
	}
}

func TestManager_SaveKeepsStateWhenPersistFails(t *testing.T) {
	m := NewManager(failingStore{saveErr: errors.New("read-only")}, zap.NewNop())
	_, err := m.Save(context.Background(), Settings{Currency: "GBP", DateFormat: DateFormatISO, Language: "en"})
	assert.Error(t, err)
	assert.Equal(t, Defaults(), m.Get())
}

func TestManager_Reset(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), zap.NewNop())
	_, err := m.Save(ctx, Settings{Currency: "JPY", DateFormat: DateFormatISO, Language: "ja"})
	require.NoError(t, err)

	reset, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), reset)
	assert.Equal(t, Defaults(), m.Get())
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store := NewFileStore(path)

	_, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	want := Settings{Currency: "USD", DateFormat: DateFormatMDY, DarkMode: true, Language: "en"}
	require.NoError(t, store.Save(ctx, want))

	got, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, _, err = store.Load(ctx)
	assert.Error(t, err)
}

func TestFormatter(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")
	day := time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		settings Settings
		amount   string
		date     string
	}{
		{settings: Defaults(), amount: "€1234.50", date: "05/04/2023"},
		{settings: Settings{Currency: "USD", DateFormat: DateFormatMDY}, amount: "$1234.50", date: "04/05/2023"},
		{settings: Settings{Currency: "CHF", DateFormat: DateFormatISO}, amount: "CHF1234.50", date: "2023-04-05"},
	}

	for _, tt := range tests {
		t.Run(tt.settings.Currency, func(t *testing.T) {
			f := NewFormatter(tt.settings)
			assert.Equal(t, tt.amount, f.Amount(amount))
			assert.Equal(t, tt.date, f.Date(day))
		})
	}
}
