package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache("primake")

	key := c.GenerateKey("product-sku", "BAT-001")
	assert.Equal(t, "primake:product-sku:BAT-001", key)

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.Set(ctx, key, []byte(`{"id":"1"}`), time.Minute))
	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, got)

	require.NoError(t, c.Delete(ctx, key))
	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache("primake")

	require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewWithoutAddrUsesMemory(t *testing.T) {
	_, ok := New("", "", 0, "primake").(*memoryCache)
	assert.True(t, ok)

	_, ok = New("localhost:6379", "", 0, "primake").(*redisCache)
	assert.True(t, ok)
}
