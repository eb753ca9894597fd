package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsContentAddressed(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Key([]byte("abc")), Key([]byte("abc")))
	assert.NotEqual(t, Key([]byte("abc")), Key([]byte("abd")))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Key([]byte("abc")))
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	buf := []byte("ocr text")
	require.NoError(t, c.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'X'
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "ocr text", string(got))

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestNewRedisCacheBadURL(t *testing.T) {
	t.Parallel()
	_, err := NewRedisCache(context.Background(), "::not a url", "p:")
	assert.Error(t, err)
}
