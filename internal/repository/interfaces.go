package repository

import (
	"context"
	"time"

	"mc-exchange-api/internal/model"
)

// ExchangeRepository defines exchange-event data access methods.
type ExchangeRepository interface {
	// Upsert persists the event, conflict-resolving on hash_id in a single
	// atomic statement (last write wins). Never produces two rows for one hash.
	Upsert(ctx context.Context, ev *model.ExchangeEvent) error

	// ListByShop returns a shop's events, newest first.
	ListByShop(ctx context.Context, shopID string) ([]model.ExchangeEvent, error)

	// List returns filtered events, newest first.
	List(ctx context.Context, f model.ExchangeFilter) ([]model.ExchangeEvent, error)

	// ListAll returns every event, newest first. Used by the export endpoints.
	ListAll(ctx context.Context) ([]model.ExchangeEvent, error)

	// Count returns the total number of stored events.
	Count(ctx context.Context) (int64, error)

	// CountSince returns the number of events with ts at or after the cutoff.
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// DeleteOlderThan removes events with ts before the cutoff and reports
	// how many rows were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close closes the repository connection.
	Close() error
}

// ShopRepository defines shop data access methods.
type ShopRepository interface {
	// UpsertByName inserts the shop or, when the name already exists,
	// overwrites that row and reports the surviving shop id.
	UpsertByName(ctx context.Context, s *model.Shop) (string, error)

	// GetShop retrieves a shop by id.
	GetShop(ctx context.Context, id string) (*model.Shop, error)

	// GetShops retrieves shops by id, preserving no particular order.
	GetShops(ctx context.Context, ids []string) ([]model.Shop, error)

	// ListShopsByDimension returns every shop in a dimension.
	ListShopsByDimension(ctx context.Context, dimension string) ([]model.Shop, error)

	// UpdateShop overwrites a shop row.
	UpdateShop(ctx context.Context, s *model.Shop) error

	// DeleteShop removes a shop row.
	DeleteShop(ctx context.Context, id string) error
}

// RegionRepository defines region data access methods.
type RegionRepository interface {
	// CreateRegion inserts a new region. Slug collisions surface as errors.
	CreateRegion(ctx context.Context, r *model.Region) error

	// GetRegion retrieves a region by id.
	GetRegion(ctx context.Context, id string) (*model.Region, error)

	// GetRegionBySlug retrieves a region by slug.
	GetRegionBySlug(ctx context.Context, slug string) (*model.Region, error)

	// ListRegions returns all regions ordered by name descending
	// (the order the frontend has always displayed).
	ListRegions(ctx context.Context) ([]model.Region, error)

	// ListRegionsByOwner returns regions listing the user id as an owner.
	ListRegionsByOwner(ctx context.Context, userID string) ([]model.Region, error)

	// UpdateRegion overwrites a region row.
	UpdateRegion(ctx context.Context, r *model.Region) error

	// DeleteRegion removes a region row. Contained shops are not cascaded;
	// shop cleanup is a manual admin action.
	DeleteRegion(ctx context.Context, id string) error
}

// CatalogRepository bundles shop and region access; both live in the same
// backing store and are always configured together.
type CatalogRepository interface {
	ShopRepository
	RegionRepository
	Close() error
}

// UserRepository defines role/profile access methods against the accounts DB.
type UserRepository interface {
	// GetRole returns the stored role for a user id, or RoleOther when the
	// user has no row yet.
	GetRole(ctx context.Context, userID string) (string, error)

	// GetRoles returns roles for a batch of user ids. Missing ids are absent
	// from the result map.
	GetRoles(ctx context.Context, userIDs []string) (map[string]string, error)

	// SetRole upserts the role for a user id.
	SetRole(ctx context.Context, userID, role string) error

	// GetName returns the stored display name for a user id.
	GetName(ctx context.Context, userID string) (string, error)
}
