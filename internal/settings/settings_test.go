package settings

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetquiz/internal/kv"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
)

func TestLoad_Defaults(t *testing.T) {
	p, err := New(kv.NewMemory(), quiz.OrderRandom, 10).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Prefs{Theme: ThemeDark, FontScale: 1, Order: quiz.OrderRandom, Limit: 10}, p)
	assert.Equal(t, 16.0, p.FontPx())
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyTheme, "neon"))
	require.NoError(t, store.Set(ctx, KeyFont, "huge"))
	require.NoError(t, store.Set(ctx, KeyOrder, "sideways"))
	require.NoError(t, store.Set(ctx, KeyLimit, "-4"))

	p, err := New(store, "", -1).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, p.Theme)
	assert.Equal(t, 1.0, p.FontScale)
	assert.Equal(t, quiz.OrderFixed, p.Order)
	assert.Equal(t, 0, p.Limit)
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := New(store, "", 0)

	got, err := s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got)

	raw, _, _ := store.Get(ctx, KeyTheme)
	assert.Equal(t, "light", raw)

	got, err = s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got)

	got, err = s.SetTheme(ctx, "LIGHT")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got)
}

func TestClampFont(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{math.NaN(), 1},
		{1, 1},
		{0.5, 0.85},
		{3, 1.4},
		{math.Inf(1), 1.4},
		{1.2000000000000002, 1.2},
		{-2, 0.85},
	}
	for _, tt := range tests {
		if got := ClampFont(tt.in); got != tt.want {
			t.Errorf("ClampFont(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStepFont(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := New(store, "", 0)

	want := []float64{1.1, 1.2, 1.3, 1.4, 1.4}
	for i, w := range want {
		got, err := s.StepFont(ctx, FontStep)
		require.NoError(t, err)
		assert.Equal(t, w, got, "step %d up", i)
	}

	raw, _, _ := store.Get(ctx, KeyFont)
	assert.Equal(t, "1.4", raw)

	for i := 0; i < 10; i++ {
		_, err := s.StepFont(ctx, -FontStep)
		require.NoError(t, err)
	}
	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, MinFontScale, p.FontScale)
}

func TestOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), quiz.OrderFixed, 0)

	require.NoError(t, s.SetOrder(ctx, quiz.OrderRandom))
	require.NoError(t, s.SetLimit(ctx, 15))

	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, quiz.OrderRandom, p.Order)
	assert.Equal(t, 15, p.Limit)

	require.NoError(t, s.SetLimit(ctx, -3))
	p, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Limit)
}
