package securestore

import (
	"context"
	"errors"
)

// KVStore is an unlimited key/value store used by the web target.
// Get returns ok=false for absent keys.
type KVStore interface {
	Available() bool
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// webStore passes straight through; without an available store reads are absent and writes no-ops.
type webStore struct {
	kv KVStore
}

func (s *webStore) available() bool {
	return s.kv != nil && s.kv.Available()
}

func (s *webStore) get(ctx context.Context, storageKey string) (string, bool, error) {
	if !s.available() {
		return "", false, nil
	}
	v, ok, err := s.kv.Get(ctx, storageKey)
	if errors.Is(err, ErrItemNotFound) {
		return "", false, nil
	}
	return v, ok, err
}

func (s *webStore) set(ctx context.Context, storageKey, value string) error {
	if !s.available() {
		return nil
	}
	return s.kv.Set(ctx, storageKey, value)
}

func (s *webStore) remove(ctx context.Context, storageKey string) error {
	if !s.available() {
		return nil
	}
	return s.kv.Delete(ctx, storageKey)
}
