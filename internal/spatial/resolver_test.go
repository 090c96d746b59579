package spatial

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mc-exchange-api/internal/model"
)

type fakeShopSource struct {
	shops map[string][]model.Shop
	err   error
}

func (f *fakeShopSource) ShopsByDimension(ctx context.Context, dimension string) ([]model.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shops[dimension], nil
}

func box(size int64) []model.Bounds {
	return []model.Bounds{{MinX: 0, MinY: 0, MinZ: 0, MaxX: size - 1, MaxY: size - 1, MaxZ: size - 1}}
}

func TestResolveNoMatch(t *testing.T) {
	r := NewResolver(&fakeShopSource{shops: map[string][]model.Shop{
		"overworld": {{ID: "a", Bounds: box(4)}},
	}})

	shop, err := r.Resolve(context.Background(), "overworld", 100, 100, 100)
	require.NoError(t, err)
	assert.Nil(t, shop)
}

func TestResolveSingleMatch(t *testing.T) {
	r := NewResolver(&fakeShopSource{shops: map[string][]model.Shop{
		"overworld": {{ID: "a", Bounds: box(4)}},
	}})

	shop, err := r.Resolve(context.Background(), "overworld", 2, 2, 2)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "a", shop.ID)
}

func TestResolveSmallestVolumeWins(t *testing.T) {
	r := NewResolver(&fakeShopSource{shops: map[string][]model.Shop{
		"overworld": {
			{ID: "big", Bounds: box(10)},
			{ID: "small", Bounds: box(4)},
		},
	}})

	shop, err := r.Resolve(context.Background(), "overworld", 1, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "small", shop.ID)
}

func TestResolveTieBreaksOnCreatedAtThenID(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	r := NewResolver(&fakeShopSource{shops: map[string][]model.Shop{
		"overworld": {
			{ID: "b", CreatedAt: newer, Bounds: box(4)},
			{ID: "a", CreatedAt: older, Bounds: box(4)},
		},
	}})

	shop, err := r.Resolve(context.Background(), "overworld", 1, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "a", shop.ID)

	// equal volume and created_at: lowest id wins
	r = NewResolver(&fakeShopSource{shops: map[string][]model.Shop{
		"overworld": {
			{ID: "z", CreatedAt: older, Bounds: box(4)},
			{ID: "a", CreatedAt: older, Bounds: box(4)},
		},
	}})

	shop, err = r.Resolve(context.Background(), "overworld", 1, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "a", shop.ID)
}

func TestResolvePropagatesSourceError(t *testing.T) {
	r := NewResolver(&fakeShopSource{err: errors.New("store down")})

	_, err := r.Resolve(context.Background(), "overworld", 0, 0, 0)
	assert.Error(t, err)
}

func TestResolveOnlySearchesRequestedDimension(t *testing.T) {
	r := NewResolver(&fakeShopSource{shops: map[string][]model.Shop{
		"nether": {{ID: "a", Bounds: box(4)}},
	}})

	shop, err := r.Resolve(context.Background(), "overworld", 1, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, shop)
}
