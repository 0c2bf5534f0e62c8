package core

import (
	"context"

	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/settings"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

// Weak returns the weak list filtered by subject ("" for all). Positions in
// the view refer to the full list, so they can be passed to RemoveWeak.
func (s *Service) Weak(ctx context.Context, subject string) (WeakView, error) {
	items, err := s.weak.Load(ctx)
	if err != nil {
		return WeakView{}, err
	}
	return WeakView{
		Filter:   subject,
		Items:    weak.Filter(items, subject),
		Subjects: weak.Subjects(items),
		Total:    len(items),
	}, nil
}

// RemoveWeak deletes the weak item at pos in the full list.
func (s *Service) RemoveWeak(ctx context.Context, pos int) error {
	removed, err := s.weak.RemoveAt(ctx, pos)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("weak item removed",
		"pos", pos,
		"subject", removed.Subject,
		"id", removed.ID,
	)
	return nil
}

// ClearWeak empties the weak list.
func (s *Service) ClearWeak(ctx context.Context) error {
	if err := s.weak.Clear(ctx); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("weak list cleared")
	return nil
}

// Prefs returns the saved preferences.
func (s *Service) Prefs(ctx context.Context) (settings.Prefs, error) {
	return s.prefs.Load(ctx)
}

// SetTheme saves the theme and returns the stored value.
func (s *Service) SetTheme(ctx context.Context, theme string) (string, error) {
	return s.prefs.SetTheme(ctx, theme)
}

// ToggleTheme flips the theme.
func (s *Service) ToggleTheme(ctx context.Context) (string, error) {
	return s.prefs.ToggleTheme(ctx)
}

// StepFont moves the font scale by delta.
func (s *Service) StepFont(ctx context.Context, delta float64) (float64, error) {
	return s.prefs.StepFont(ctx, delta)
}

// SetFontScale saves an absolute font scale.
func (s *Service) SetFontScale(ctx context.Context, scale float64) (float64, error) {
	return s.prefs.SetFontScale(ctx, scale)
}

// SetQuizDefaults saves the default order and limit used by StartQuiz.
func (s *Service) SetQuizDefaults(ctx context.Context, order quiz.Order, limit int) error {
	if err := s.prefs.SetOrder(ctx, order); err != nil {
		return err
	}
	return s.prefs.SetLimit(ctx, limit)
}
