package repository

import (
	"context"
	"errors"
	"fmt"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
	"PriceCast/pkg/cache"
)

// RedisModelStore persists the single current model under a fixed logical key.
type RedisModelStore struct {
	cache *cache.RedisCache
	key   string
}

// NewRedisModelStore creates the durable model store.
func NewRedisModelStore(c *cache.RedisCache, key string) drepo.ModelStore {
	return &RedisModelStore{cache: c, key: key}
}

// Available probes the underlying store.
func (s *RedisModelStore) Available(ctx context.Context) bool {
	return s.cache.Available(ctx)
}

// Save persists the handle. Mock handles carry no weights but still round-trip.
func (s *RedisModelStore) Save(ctx context.Context, h *models.ModelHandle) error {
	if h == nil {
		return fmt.Errorf("model handle is nil")
	}
	if err := s.cache.Set(ctx, s.key, h, 0); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// Load retrieves the persisted handle, ErrModelNotFound when absent.
func (s *RedisModelStore) Load(ctx context.Context) (*models.ModelHandle, error) {
	var h models.ModelHandle
	if err := s.cache.Get(ctx, s.key, &h); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrModelNotFound
		}
		return nil, fmt.Errorf("load model: %w", err)
	}
	if h.Kind == models.ModelTrained && h.Network == nil {
		return nil, fmt.Errorf("persisted model is corrupt")
	}
	return &h, nil
}

// Delete removes the persisted entry.
func (s *RedisModelStore) Delete(ctx context.Context) error {
	ok, err := s.cache.Exists(ctx, s.key)
	if err != nil {
		return fmt.Errorf("probe model key: %w", err)
	}
	if !ok {
		return models.ErrNothingToDelete
	}
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	return nil
}

// NopModelStore stands in when durable storage is disabled. Every call site
// must tolerate the store being entirely absent.
type NopModelStore struct{}

func NewNopModelStore() drepo.ModelStore { return &NopModelStore{} }

func (NopModelStore) Available(context.Context) bool { return false }

func (NopModelStore) Save(context.Context, *models.ModelHandle) error {
	return models.ErrStorageUnavailable
}

func (NopModelStore) Load(context.Context) (*models.ModelHandle, error) {
	return nil, models.ErrStorageUnavailable
}

func (NopModelStore) Delete(context.Context) error {
	return models.ErrStorageUnavailable
}
