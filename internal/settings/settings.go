// Package settings persists the user's display and quiz preferences.
package settings

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetquiz/internal/kv"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
)

// Store keys.
const (
	KeyTheme = "theme"
	KeyFont  = "font"
	KeyOrder = "order"
	KeyLimit = "limit"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Font scale bounds and the step used by the +/- controls.
const (
	MinFontScale = 0.85
	MaxFontScale = 1.4
	FontStep     = 0.1
)

// Prefs is the current preference set.
type Prefs struct {
	Theme     string     `json:"theme"`
	FontScale float64    `json:"fontScale"`
	Order     quiz.Order `json:"order"`
	Limit     int        `json:"limit"`
}

// FontPx is the body font size in pixels for a 16px base.
func (p Prefs) FontPx() float64 {
	return 16 * p.FontScale
}

// Settings reads and writes Prefs through a kv.Store.
type Settings struct {
	store    kv.Store
	defaults Prefs
}

// New returns Settings backed by store. Order and Limit fall back to the
// given defaults when nothing has been saved.
func New(store kv.Store, order quiz.Order, limit int) *Settings {
	if order == "" {
		order = quiz.OrderFixed
	}
	if limit < 0 {
		limit = 0
	}
	return &Settings{
		store: store,
		defaults: Prefs{
			Theme:     ThemeDark,
			FontScale: 1,
			Order:     order,
			Limit:     limit,
		},
	}
}

// Load returns the saved preferences, filling gaps with defaults. Values that
// fail to parse are treated as unset.
func (s *Settings) Load(ctx context.Context) (Prefs, error) {
	p := s.defaults

	theme, _, err := s.store.Get(ctx, KeyTheme)
	if err != nil {
		return p, fmt.Errorf("load preference theme: %w", err)
	}
	p.Theme = NormalizeTheme(theme)

	font, ok, err := s.store.Get(ctx, KeyFont)
	if err != nil {
		return p, fmt.Errorf("load preference font: %w", err)
	}
	if ok {
		v, _ := strconv.ParseFloat(strings.TrimSpace(font), 64)
		p.FontScale = ClampFont(v)
	}

	order, ok, err := s.store.Get(ctx, KeyOrder)
	if err != nil {
		return p, fmt.Errorf("load preference order: %w", err)
	}
	if ok {
		if o, err := quiz.ParseOrder(order); err == nil {
			p.Order = o
		}
	}

	limit, ok, err := s.store.Get(ctx, KeyLimit)
	if err != nil {
		return p, fmt.Errorf("load preference limit: %w", err)
	}
	if ok {
		if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n >= 0 {
			p.Limit = n
		}
	}

	return p, nil
}

// SetTheme saves theme. Anything other than "light" is stored as dark.
func (s *Settings) SetTheme(ctx context.Context, theme string) (string, error) {
	theme = NormalizeTheme(theme)
	if err := s.store.Set(ctx, KeyTheme, theme); err != nil {
		return "", fmt.Errorf("save preference theme: %w", err)
	}
	return theme, nil
}

// ToggleTheme flips between dark and light.
func (s *Settings) ToggleTheme(ctx context.Context) (string, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	next := ThemeLight
	if p.Theme == ThemeLight {
		next = ThemeDark
	}
	return s.SetTheme(ctx, next)
}

// SetFontScale saves the clamped scale and returns it.
func (s *Settings) SetFontScale(ctx context.Context, scale float64) (float64, error) {
	scale = ClampFont(scale)
	if err := s.store.Set(ctx, KeyFont, strconv.FormatFloat(scale, 'f', -1, 64)); err != nil {
		return 0, fmt.Errorf("save preference font: %w", err)
	}
	return scale, nil
}

// StepFont moves the saved scale by delta (typically ±FontStep).
func (s *Settings) StepFont(ctx context.Context, delta float64) (float64, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return s.SetFontScale(ctx, p.FontScale+delta)
}

// SetOrder saves the default question order.
func (s *Settings) SetOrder(ctx context.Context, order quiz.Order) error {
	if err := s.store.Set(ctx, KeyOrder, string(order)); err != nil {
		return fmt.Errorf("save preference order: %w", err)
	}
	return nil
}

// SetLimit saves the default question limit. Negative values store 0.
func (s *Settings) SetLimit(ctx context.Context, limit int) error {
	if limit < 0 {
		limit = 0
	}
	if err := s.store.Set(ctx, KeyLimit, strconv.Itoa(limit)); err != nil {
		return fmt.Errorf("save preference limit: %w", err)
	}
	return nil
}

// NormalizeTheme maps anything but "light" to dark.
func NormalizeTheme(theme string) string {
	if strings.TrimSpace(strings.ToLower(theme)) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// ClampFont limits scale to [MinFontScale, MaxFontScale] and rounds it to
// two decimals. Zero and NaN become 1.
func ClampFont(scale float64) float64 {
	if scale == 0 || math.IsNaN(scale) {
		return 1
	}
	scale = math.Max(MinFontScale, math.Min(MaxFontScale, scale))
	return math.Round(scale*100) / 100
}
