package securestore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Primitive is a native secure-storage backend with a per-item size cap.
// Get returns ErrItemNotFound for absent keys; Delete of an absent key is not an error.
type Primitive interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// chunkedStore stores values larger than chunkSize as key:chunk:<i> items plus a key:chunk-count marker.
type chunkedStore struct {
	p         Primitive
	chunkSize int
}

func (s *chunkedStore) read(key string) (string, bool, error) {
	v, err := s.p.Get(key)
	if errors.Is(err, ErrItemNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *chunkedStore) get(_ context.Context, storageKey string) (string, bool, error) {
	raw, ok, err := s.read(chunkCountKey(storageKey))
	if err != nil {
		return "", false, err
	}
	if !ok || raw == "" {
		return s.read(storageKey)
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return "", false, nil
	}

	var b strings.Builder
	for i := 0; i < count; i++ {
		part, ok, err := s.read(chunkKey(storageKey, i))
		if err != nil {
			return "", false, err
		}
		// a missing chunk invalidates the whole value
		if !ok {
			return "", false, nil
		}
		b.WriteString(part)
	}
	return b.String(), true, nil
}

func (s *chunkedStore) set(ctx context.Context, storageKey, value string) error {
	if err := s.remove(ctx, storageKey); err != nil {
		return err
	}

	if len(value) <= s.chunkSize {
		return s.p.Set(storageKey, value)
	}

	chunks := splitChunks(value, s.chunkSize)
	for i, c := range chunks {
		if err := s.p.Set(chunkKey(storageKey, i), c); err != nil {
			return err
		}
	}
	// marker last: a crash mid-write leaves no marker, so readers never see a partial value
	return s.p.Set(chunkCountKey(storageKey), strconv.Itoa(len(chunks)))
}

func (s *chunkedStore) remove(_ context.Context, storageKey string) error {
	countKey := chunkCountKey(storageKey)
	raw, ok, err := s.read(countKey)
	if err != nil {
		return err
	}
	if ok && raw != "" {
		if count, err := strconv.Atoi(raw); err == nil && count > 0 {
			for i := 0; i < count; i++ {
				if err := s.p.Delete(chunkKey(storageKey, i)); err != nil {
					return err
				}
			}
		}
		if err := s.p.Delete(countKey); err != nil {
			return err
		}
	}
	return s.p.Delete(storageKey)
}

// splitChunks cuts value into pieces of at most size bytes without splitting a UTF-8 sequence.
func splitChunks(value string, size int) []string {
	chunks := make([]string, 0, len(value)/size+1)
	for len(value) > 0 {
		if len(value) <= size {
			chunks = append(chunks, value)
			break
		}
		cut := size
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		if cut == 0 {
			// a single rune wider than size
			_, w := utf8.DecodeRuneInString(value)
			cut = w
		}
		chunks = append(chunks, value[:cut])
		value = value[cut:]
	}
	return chunks
}
