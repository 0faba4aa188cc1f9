// Package securestore persists session values on-device.
//
// The native target writes to a secure-storage primitive with a per-item size cap and
// splits large values into indexed chunks plus a count marker. The web target passes
// through to an unlimited key/value store when one is available.
package securestore

import (
	"context"
	"errors"
	"strconv"

	"github.com/jhoicas/khata/internal/infrastructure/metrics"
	"github.com/jhoicas/khata/pkg/logger"
)

const (
	// KeyPrefix namespaces every logical key.
	KeyPrefix = "sb-auth-"
	// DefaultChunkSize is the largest value, in bytes, stored as a single secure-storage item.
	DefaultChunkSize = 1800
)

var (
	// ErrItemNotFound is returned by primitives and KV stores for absent keys.
	ErrItemNotFound = errors.New("securestore: item not found")
	// ErrValueTooLarge is returned by primitives that enforce an item size cap.
	ErrValueTooLarge = errors.New("securestore: value exceeds item size limit")
)

// Storage is the key/value contract the auth client persists sessions through.
// Reads never fail: any error reads as absent. Write errors are returned. Removes are best effort.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string)
}

// StorageKey maps a logical key to its physical key.
func StorageKey(key string) string { return KeyPrefix + key }

func chunkCountKey(storageKey string) string { return storageKey + ":chunk-count" }

func chunkKey(storageKey string, index int) string {
	return storageKey + ":chunk:" + strconv.Itoa(index)
}

// backend is the error-returning layer under Adapter.
type backend interface {
	get(ctx context.Context, storageKey string) (string, bool, error)
	set(ctx context.Context, storageKey, value string) error
	remove(ctx context.Context, storageKey string) error
}

// Adapter applies key prefixing and the failure policy on top of a target backend.
type Adapter struct {
	target  string
	backend backend
	log     *logger.Logger
}

var _ Storage = (*Adapter)(nil)

// NewNative builds the chunking adapter over a size-capped primitive.
func NewNative(p Primitive, chunkSize int, log *logger.Logger) *Adapter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return newAdapter("native", &chunkedStore{p: p, chunkSize: chunkSize}, log)
}

// NewWeb builds the pass-through adapter. kv may be nil or unavailable.
func NewWeb(kv KVStore, log *logger.Logger) *Adapter {
	return newAdapter("web", &webStore{kv: kv}, log)
}

func newAdapter(target string, b backend, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{target: target, backend: b, log: log.Named("securestore")}
}

// GetItem returns the value stored under key. Failures are logged and read as absent,
// so a corrupted store degrades to "not signed in".
func (a *Adapter) GetItem(ctx context.Context, key string) (string, bool) {
	storageKey := StorageKey(key)
	v, ok, err := a.backend.get(ctx, storageKey)
	if err != nil {
		a.log.Warn().Err(err).Str("key", storageKey).Str("target", a.target).Msg("getItem failed")
		observe("get", "error")
		return "", false
	}
	if !ok {
		observe("get", "miss")
		return "", false
	}
	observe("get", "hit")
	return v, true
}

// SetItem stores value under key. Failures are logged and returned.
func (a *Adapter) SetItem(ctx context.Context, key, value string) error {
	storageKey := StorageKey(key)
	if err := a.backend.set(ctx, storageKey, value); err != nil {
		a.log.Warn().Err(err).Str("key", storageKey).Int("valueLength", len(value)).Str("target", a.target).Msg("setItem failed")
		observe("set", "error")
		return err
	}
	observe("set", "ok")
	return nil
}

// RemoveItem deletes key and any chunks. Failures are logged and swallowed.
func (a *Adapter) RemoveItem(ctx context.Context, key string) {
	storageKey := StorageKey(key)
	if err := a.backend.remove(ctx, storageKey); err != nil {
		a.log.Warn().Err(err).Str("key", storageKey).Str("target", a.target).Msg("removeItem failed")
		observe("remove", "error")
		return
	}
	observe("remove", "ok")
}

func observe(op, result string) {
	metrics.StorageOperations.WithLabelValues(op, result).Inc()
}
