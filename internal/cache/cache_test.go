package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "ufs", []byte(`["DF"]`), 50*time.Millisecond))

	got, err := c.Get(ctx, "ufs")
	require.NoError(t, err)
	assert.Equal(t, `["DF"]`, string(got))

	time.Sleep(80 * time.Millisecond)
	_, err = c.Get(ctx, "ufs")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "paises", []byte("[]"), 0))

	got, err := c.Get(ctx, "paises")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	in := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", in, time.Hour))
	in[0] = 'X'

	out, err := c.Get(ctx, "k")
	require.NoError(t, err)
	out[1] = 'Y'

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryCache_SetAfterExpiryIsKept(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "k", []byte("old"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", []byte("new"), time.Hour))
	_, _ = c.Get(ctx, "k")

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Delete(ctx, "a", "missing"))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestGetOrLoad_LoadsOnceThenServesCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"DF", "GO"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrLoad(ctx, c, discardLogger(), "ufs", time.Hour, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"DF", "GO"}, got)
	}
	assert.Equal(t, 1, calls)
}

func TestGetOrLoad_LoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	boom := errors.New("db down")

	_, err := GetOrLoad(ctx, c, discardLogger(), "ufs", time.Hour, func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = c.Get(ctx, "ufs")
	assert.ErrorIs(t, err, ErrMiss)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (failingCache) Delete(context.Context, ...string) error { return nil }

func TestGetOrLoad_CacheFailureFallsThrough(t *testing.T) {
	got, err := GetOrLoad(context.Background(), failingCache{}, discardLogger(), "k", time.Hour,
		func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}
