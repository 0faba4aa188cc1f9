package securestore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

const sessionKey = "sb-abc-auth-token"

func newNative(t *testing.T) (*Adapter, *MemoryPrimitive) {
	t.Helper()
	p := NewMemoryPrimitive(DefaultChunkSize)
	return NewNative(p, DefaultChunkSize, nil), p
}

func TestNative_ChunkedRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, p := newNative(t)
	value := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 300) // ~6 KB

	require.NoError(t, a.SetItem(ctx, sessionKey, value))

	got, ok := a.GetItem(ctx, sessionKey)
	require.True(t, ok)
	assert.Equal(t, value, got)

	storageKey := StorageKey(sessionKey)
	assert.Contains(t, p.Keys(), chunkCountKey(storageKey))
	assert.Contains(t, p.Keys(), chunkKey(storageKey, 0))
	assert.NotContains(t, p.Keys(), storageKey)
}

func TestNative_ShortValueCreatesNoChunks(t *testing.T) {
	ctx := context.Background()
	a, p := newNative(t)

	require.NoError(t, a.SetItem(ctx, sessionKey, "short"))

	assert.Equal(t, []string{StorageKey(sessionKey)}, p.Keys())
	got, ok := a.GetItem(ctx, sessionKey)
	require.True(t, ok)
	assert.Equal(t, "short", got)
}

func TestNative_ValueAtThresholdIsStoredDirectly(t *testing.T) {
	ctx := context.Background()
	a, p := newNative(t)

	require.NoError(t, a.SetItem(ctx, sessionKey, strings.Repeat("x", DefaultChunkSize)))
	assert.Len(t, p.Keys(), 1)
}

func TestNative_RemoveAfterChunkedWriteClearsEverything(t *testing.T) {
	ctx := context.Background()
	a, p := newNative(t)

	require.NoError(t, a.SetItem(ctx, sessionKey, strings.Repeat("a", 5000)))
	require.NotEmpty(t, p.Keys())

	a.RemoveItem(ctx, sessionKey)

	assert.Empty(t, p.Keys())
	_, ok := a.GetItem(ctx, sessionKey)
	assert.False(t, ok)
}

func TestNative_OverwriteChunkedWithShortValue(t *testing.T) {
	ctx := context.Background()
	a, p := newNative(t)

	require.NoError(t, a.SetItem(ctx, sessionKey, strings.Repeat("a", 4000)))
	require.NoError(t, a.SetItem(ctx, sessionKey, "tiny"))

	assert.Equal(t, []string{StorageKey(sessionKey)}, p.Keys())
	got, ok := a.GetItem(ctx, sessionKey)
	require.True(t, ok)
	assert.Equal(t, "tiny", got)
}

func TestNative_MissingChunkReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	a, p := newNative(t)

	require.NoError(t, a.SetItem(ctx, sessionKey, strings.Repeat("b", 4000)))
	require.NoError(t, p.Delete(chunkKey(StorageKey(sessionKey), 1)))

	_, ok := a.GetItem(ctx, sessionKey)
	assert.False(t, ok)
}

func TestNative_InvalidMarkerReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	a, p := newNative(t)
	storageKey := StorageKey(sessionKey)

	require.NoError(t, p.Set(storageKey, "direct"))
	require.NoError(t, p.Set(chunkCountKey(storageKey), "zero"))
	_, ok := a.GetItem(ctx, sessionKey)
	assert.False(t, ok)

	require.NoError(t, p.Set(chunkCountKey(storageKey), "-2"))
	_, ok = a.GetItem(ctx, sessionKey)
	assert.False(t, ok)
}

func TestNative_MultibyteValueSurvivesChunking(t *testing.T) {
	ctx := context.Background()
	a, _ := newNative(t)
	value := strings.Repeat("হিসাব খাতা ", 400)

	require.NoError(t, a.SetItem(ctx, sessionKey, value))
	got, ok := a.GetItem(ctx, sessionKey)
	require.True(t, ok)
	assert.Equal(t, value, got)
}

func TestSplitChunks(t *testing.T) {
	chunks := splitChunks(strings.Repeat("ক", 10), 4) // 3 bytes per rune
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 4)
		assert.True(t, utf8.ValidString(c))
	}
	assert.Equal(t, strings.Repeat("ক", 10), strings.Join(chunks, ""))

	assert.Equal(t, []string{"ক", "ক"}, splitChunks("কক", 2))
	assert.Equal(t, []string{"abc", "de"}, splitChunks("abcde", 3))
}

type flakyPrimitive struct {
	*MemoryPrimitive
	getErr, setErr, delErr error
}

func (f *flakyPrimitive) Get(key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.MemoryPrimitive.Get(key)
}

func (f *flakyPrimitive) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryPrimitive.Set(key, value)
}

func (f *flakyPrimitive) Delete(key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	return f.MemoryPrimitive.Delete(key)
}

func TestNative_FailurePolicy(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("keychain locked")

	t.Run("read failure is absent", func(t *testing.T) {
		a := NewNative(&flakyPrimitive{MemoryPrimitive: NewMemoryPrimitive(0), getErr: boom}, 0, nil)
		v, ok := a.GetItem(ctx, sessionKey)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("write failure propagates", func(t *testing.T) {
		a := NewNative(&flakyPrimitive{MemoryPrimitive: NewMemoryPrimitive(0), setErr: boom}, 0, nil)
		assert.ErrorIs(t, a.SetItem(ctx, sessionKey, "v"), boom)
	})

	t.Run("oversized item propagates", func(t *testing.T) {
		a := NewNative(NewMemoryPrimitive(10), 100, nil)
		assert.ErrorIs(t, a.SetItem(ctx, sessionKey, strings.Repeat("z", 50)), ErrValueTooLarge)
	})

	t.Run("remove failure is swallowed", func(t *testing.T) {
		a := NewNative(&flakyPrimitive{MemoryPrimitive: NewMemoryPrimitive(0), delErr: boom}, 0, nil)
		assert.NotPanics(t, func() { a.RemoveItem(ctx, sessionKey) })
	})
}

func TestWeb_PassThrough(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a := NewWeb(kv, nil)
	value := strings.Repeat("w", 10_000)

	require.NoError(t, a.SetItem(ctx, sessionKey, value))
	stored, ok, err := kv.Get(ctx, StorageKey(sessionKey))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value, stored)

	got, ok := a.GetItem(ctx, sessionKey)
	require.True(t, ok)
	assert.Equal(t, value, got)

	a.RemoveItem(ctx, sessionKey)
	_, ok = a.GetItem(ctx, sessionKey)
	assert.False(t, ok)
}

func TestWeb_UnavailableStore(t *testing.T) {
	ctx := context.Background()
	for name, kv := range map[string]KVStore{
		"nil":        nil,
		"typed nil":  (*RedisKV)(nil),
		"no client":  &RedisKV{},
		"nil memory": (*MemoryKV)(nil),
	} {
		t.Run(name, func(t *testing.T) {
			a := NewWeb(kv, nil)
			assert.NoError(t, a.SetItem(ctx, sessionKey, "v"))
			_, ok := a.GetItem(ctx, sessionKey)
			assert.False(t, ok)
			assert.NotPanics(t, func() { a.RemoveItem(ctx, sessionKey) })
		})
	}
}

func TestKeyringPrimitive(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	a := NewNative(NewKeyringPrimitive("khata-test"), DefaultChunkSize, nil)
	value := strings.Repeat("k", 4000)

	require.NoError(t, a.SetItem(ctx, sessionKey, value))
	got, ok := a.GetItem(ctx, sessionKey)
	require.True(t, ok)
	assert.Equal(t, value, got)

	a.RemoveItem(ctx, sessionKey)
	_, ok = a.GetItem(ctx, sessionKey)
	assert.False(t, ok)

	_, err := keyring.Get("khata-test", chunkCountKey(StorageKey(sessionKey)))
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}
