package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache("test")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	// Miss is ("", nil), matching the redis implementation.
	got, err = c.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestMemoryCacheTTL(t *testing.T) {
	c := NewMemoryCache("test")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestGenerateKey(t *testing.T) {
	c := NewMemoryCache("storefront")
	assert.Equal(t, "storefront:orders:abc", c.GenerateKey("orders", "abc"))
}
