package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisCatalogCache_NilClientAlwaysMisses(t *testing.T) {
	cache := NewRedisCatalogCache(nil, "buzon:catalogo", time.Minute)
	ctx := context.Background()

	assert.NoError(t, cache.SetStatuses(ctx, nil))
	_, err := cache.Statuses(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Categories(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestPageBounds(t *testing.T) {
	limit, offset := pageBounds(0, -5, 20)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)
}
