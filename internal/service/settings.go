package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/models"
)

type settingsService struct {
	cache store.CacheStore
}

// NewSettings constructs the preferences accessor over the cache store.
func NewSettings(cache store.CacheStore) Settings {
	return &settingsService{cache: cache}
}

func (s *settingsService) Preferences(ctx context.Context) (models.Preferences, error) {
	prefs, err := s.cache.LoadPreferences(ctx)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

func (s *settingsService) SetSummarizeEnabled(ctx context.Context, enabled bool) error {
	return s.update(ctx, func(prefs *models.Preferences) {
		prefs.SummarizeEnabled = enabled
	})
}

func (s *settingsService) SetPreferFallbackExtractor(ctx context.Context, prefer bool) error {
	return s.update(ctx, func(prefs *models.Preferences) {
		prefs.PreferFallbackExtractor = prefer
	})
}

func (s *settingsService) update(ctx context.Context, apply func(*models.Preferences)) error {
	prefs, err := s.cache.LoadPreferences(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	apply(&prefs)
	if err = s.cache.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
