package spatial

import (
	"context"
	"fmt"
	"sort"

	"mc-exchange-api/internal/model"
)

// ShopSource lists candidate shops for a dimension. Implemented by the
// catalog service (repository reads fronted by the shop cache).
type ShopSource interface {
	ShopsByDimension(ctx context.Context, dimension string) ([]model.Shop, error)
}

// Resolver attributes a world point to the shop whose bounding volume
// contains it.
type Resolver struct {
	shops ShopSource
}

// NewResolver creates a resolver over the given shop source.
func NewResolver(shops ShopSource) *Resolver {
	return &Resolver{shops: shops}
}

// Resolve returns the shop containing (x, y, z) in the given dimension, or
// nil when no shop contains the point (the event is still accepted upstream,
// just unattributed).
//
// When several shops overlap at the point, the winner is chosen
// deterministically: smallest total bounding volume first (the most specific
// claim), then earliest created_at, then id. The backing store's iteration
// order is never relied on.
func (r *Resolver) Resolve(ctx context.Context, dimension string, x, y, z int64) (*model.Shop, error) {
	shops, err := r.shops.ShopsByDimension(ctx, dimension)
	if err != nil {
		return nil, fmt.Errorf("list shops for %q: %w", dimension, err)
	}

	var candidates []model.Shop
	for _, s := range shops {
		if s.ContainsPoint(x, y, z) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		vi, vj := model.TotalVolume(candidates[i].Bounds), model.TotalVolume(candidates[j].Bounds)
		if vi != vj {
			return vi < vj
		}
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})

	winner := candidates[0]
	return &winner, nil
}
