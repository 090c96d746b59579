package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mc-exchange-api/internal/model"
	"mc-exchange-api/pkg/apierror"
)

// fakeCatalogRepo is an in-memory CatalogRepository.
type fakeCatalogRepo struct {
	shops   map[string]*model.Shop
	regions map[string]*model.Region
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		shops:   make(map[string]*model.Shop),
		regions: make(map[string]*model.Region),
	}
}

func (f *fakeCatalogRepo) UpsertByName(ctx context.Context, s *model.Shop) (string, error) {
	for _, existing := range f.shops {
		if existing.Name == s.Name {
			copied := *s
			copied.ID = existing.ID
			f.shops[existing.ID] = &copied
			return existing.ID, nil
		}
	}
	copied := *s
	f.shops[s.ID] = &copied
	return s.ID, nil
}

func (f *fakeCatalogRepo) GetShop(ctx context.Context, id string) (*model.Shop, error) {
	if s, ok := f.shops[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetShops(ctx context.Context, ids []string) ([]model.Shop, error) {
	var out []model.Shop
	for _, id := range ids {
		if s, ok := f.shops[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListShopsByDimension(ctx context.Context, dimension string) ([]model.Shop, error) {
	var out []model.Shop
	for _, s := range f.shops {
		if s.Dimension == dimension {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateShop(ctx context.Context, s *model.Shop) error {
	copied := *s
	f.shops[s.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) DeleteShop(ctx context.Context, id string) error {
	delete(f.shops, id)
	return nil
}

func (f *fakeCatalogRepo) CreateRegion(ctx context.Context, r *model.Region) error {
	copied := *r
	f.regions[r.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) GetRegion(ctx context.Context, id string) (*model.Region, error) {
	if r, ok := f.regions[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetRegionBySlug(ctx context.Context, slug string) (*model.Region, error) {
	for _, r := range f.regions {
		if r.Slug == slug {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) ListRegions(ctx context.Context) ([]model.Region, error) {
	var out []model.Region
	for _, r := range f.regions {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListRegionsByOwner(ctx context.Context, userID string) ([]model.Region, error) {
	var out []model.Region
	for _, r := range f.regions {
		if r.HasOwner(userID) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateRegion(ctx context.Context, r *model.Region) error {
	copied := *r
	f.regions[r.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) DeleteRegion(ctx context.Context, id string) error {
	delete(f.regions, id)
	return nil
}

func (f *fakeCatalogRepo) Close() error { return nil }

func seedRegion(repo *fakeCatalogRepo, owner string) *model.Region {
	region := &model.Region{
		ID:        "r1",
		Name:      "Spawn Market",
		Slug:      "spawn-market",
		Dimension: "overworld",
		Bounds:    []model.Bounds{{MaxX: 100, MaxY: 100, MaxZ: 100}},
		Owners:    []string{owner},
		Shops:     []string{},
	}
	repo.regions[region.ID] = region
	return region
}

func owner(id string) *model.AuthUser {
	return &model.AuthUser{ID: id, Role: model.RoleOther}
}

func admin() *model.AuthUser {
	return &model.AuthUser{ID: "admin-1", Role: model.RoleAdmin}
}

func TestCreateShopLinksIntoRegion(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	shop, err := svc.CreateShop(context.Background(), owner("u1"), "r1", &ShopInput{
		Name:   "Emerald Emporium",
		Bounds: []model.Bounds{{MaxX: 5, MaxY: 5, MaxZ: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "overworld", shop.Dimension, "shop inherits region dimension")
	assert.Equal(t, "u1", shop.Owner)

	region, _ := repo.GetRegion(context.Background(), "r1")
	assert.Contains(t, region.Shops, shop.ID)
}

func TestCreateShopRejectsNonOwner(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	_, err := svc.CreateShop(context.Background(), owner("intruder"), "r1", &ShopInput{
		Name:   "Sneaky Shop",
		Bounds: []model.Bounds{{}},
	})
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestCreateShopAllowsAdmin(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	_, err := svc.CreateShop(context.Background(), admin(), "r1", &ShopInput{
		Name:   "Admin Shop",
		Bounds: []model.Bounds{{}},
	})
	assert.NoError(t, err)
}

func TestCreateShopValidation(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	_, err := svc.CreateShop(context.Background(), owner("u1"), "r1", &ShopInput{})
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestCreateShopUpsertsOnNameCollision(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	first, err := svc.CreateShop(context.Background(), owner("u1"), "r1", &ShopInput{
		Name:   "Emerald Emporium",
		Bounds: []model.Bounds{{MaxX: 5, MaxY: 5, MaxZ: 5}},
	})
	require.NoError(t, err)

	second, err := svc.CreateShop(context.Background(), owner("u1"), "r1", &ShopInput{
		Name:   "Emerald Emporium",
		Bounds: []model.Bounds{{MaxX: 9, MaxY: 9, MaxZ: 9}},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	region, _ := repo.GetRegion(context.Background(), "r1")
	assert.Len(t, region.Shops, 1, "no duplicate link on name collision")
}

func TestDeleteShopUnlinksFromRegion(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	shop, err := svc.CreateShop(context.Background(), owner("u1"), "r1", &ShopInput{
		Name:   "Emerald Emporium",
		Bounds: []model.Bounds{{}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteShop(context.Background(), owner("u1"), "r1", shop.ID))

	region, _ := repo.GetRegion(context.Background(), "r1")
	assert.Empty(t, region.Shops)
	got, _ := repo.GetShop(context.Background(), shop.ID)
	assert.Nil(t, got)
}

func TestOwnerRegionsScoping(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	mine, err := svc.OwnerRegions(context.Background(), owner("u1"))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := svc.OwnerRegions(context.Background(), owner("u2"))
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := svc.OwnerRegions(context.Background(), admin())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateRegionValidation(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogRepo(), nil)

	_, err := svc.CreateRegion(context.Background(), &RegionInput{})
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)

	details, ok := apiErr.Details.([]string)
	require.True(t, ok)
	assert.Contains(t, details, "name required")
	assert.Contains(t, details, "slug required")
	assert.Contains(t, details, "dimension required")
	assert.Contains(t, details, "bounds must be array")
}

func TestUpdateRegionPatchSemantics(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedRegion(repo, "u1")
	svc := NewCatalogService(repo, nil)

	updated, err := svc.UpdateRegion(context.Background(), "r1", &RegionInput{
		Name:   "Grand Bazaar",
		Owners: []string{"u1", "u2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grand Bazaar", updated.Name)
	assert.Equal(t, "spawn-market", updated.Slug, "unset fields keep stored values")
	assert.Equal(t, []string{"u1", "u2"}, updated.Owners)
}

func TestRegionShopsUnknownSlug(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogRepo(), nil)

	_, err := svc.RegionShops(context.Background(), "nope")
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
}
