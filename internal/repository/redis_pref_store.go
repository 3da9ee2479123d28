package repository

import (
	"context"
	"errors"
	"fmt"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
	"PriceCast/pkg/cache"
)

// RedisPrefStore persists user preferences across sessions.
type RedisPrefStore struct {
	cache *cache.RedisCache
	key   string
}

// NewRedisPrefStore creates the preference store.
func NewRedisPrefStore(c *cache.RedisCache, key string) drepo.PrefStore {
	return &RedisPrefStore{cache: c, key: key}
}

// Load reads the persisted preferences, returning defaults when none exist.
func (s *RedisPrefStore) Load(ctx context.Context) (models.Preferences, error) {
	var p models.Preferences
	if err := s.cache.Get(ctx, s.key, &p); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.DefaultPreferences(), nil
		}
		return models.DefaultPreferences(), fmt.Errorf("load prefs: %w", err)
	}
	if p.Theme == "" {
		p.Theme = models.DefaultPreferences().Theme
	}
	return p, nil
}

// Save writes the preferences. Callers only invoke this when Remember is set.
func (s *RedisPrefStore) Save(ctx context.Context, p models.Preferences) error {
	if err := s.cache.Set(ctx, s.key, p, 0); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// Clear removes the persisted preferences.
func (s *RedisPrefStore) Clear(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear prefs: %w", err)
	}
	return nil
}

// NopPrefStore keeps preferences in memory only.
type NopPrefStore struct {
	prefs models.Preferences
}

func NewNopPrefStore() drepo.PrefStore {
	return &NopPrefStore{prefs: models.DefaultPreferences()}
}

func (s *NopPrefStore) Load(context.Context) (models.Preferences, error) {
	return s.prefs, nil
}

func (s *NopPrefStore) Save(_ context.Context, p models.Preferences) error {
	s.prefs = p
	return nil
}

func (s *NopPrefStore) Clear(context.Context) error {
	s.prefs = models.DefaultPreferences()
	return nil
}
