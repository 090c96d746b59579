package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"mc-exchange-api/internal/cache"
	"mc-exchange-api/internal/model"
	"mc-exchange-api/internal/repository"
	"mc-exchange-api/pkg/apierror"
	"mc-exchange-api/pkg/uid"
)

// shopCacheTTL bounds how stale the resolver's view of shop bounds can be.
const shopCacheTTL = 30 * time.Second

// CatalogService handles region and shop business logic: public reads,
// owner shop management, admin region management. Reads that feed the
// spatial resolver go through the cache.
type CatalogService struct {
	repo  repository.CatalogRepository
	cache cache.Cache
	now   func() time.Time
}

// NewCatalogService creates a new catalog service. cache may be nil, in
// which case every read hits the store.
func NewCatalogService(repo repository.CatalogRepository, c cache.Cache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: c,
		now:   time.Now,
	}
}

// ShopsByDimension returns the shops of a dimension, served from cache when
// fresh. This is the spatial resolver's candidate source, so it runs on
// every ingested event with a position.
func (s *CatalogService) ShopsByDimension(ctx context.Context, dimension string) ([]model.Shop, error) {
	key := "shops:dim:" + dimension

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var shops []model.Shop
			if err := json.Unmarshal(data, &shops); err == nil {
				return shops, nil
			}
		}
	}

	shops, err := s.repo.ListShopsByDimension(ctx, dimension)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(shops); err == nil {
			_ = s.cache.Set(ctx, key, data, shopCacheTTL)
		}
	}

	return shops, nil
}

func (s *CatalogService) invalidateShops(ctx context.Context, dimension string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "shops:dim:"+dimension)
	}
}

// Regions returns all regions, or just the one matching slug when set.
func (s *CatalogService) Regions(ctx context.Context, slug string) ([]model.Region, error) {
	if slug != "" {
		region, err := s.repo.GetRegionBySlug(ctx, slug)
		if err != nil {
			return nil, apierror.DBError(err)
		}
		if region == nil {
			return []model.Region{}, nil
		}
		return []model.Region{*region}, nil
	}

	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	return regions, nil
}

// RegionShops returns the shops contained in the region with the given slug.
func (s *CatalogService) RegionShops(ctx context.Context, slug string) ([]model.Shop, error) {
	region, err := s.repo.GetRegionBySlug(ctx, slug)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	if region == nil {
		return nil, apierror.BadRequest("Unable to find region")
	}

	shops, err := s.repo.GetShops(ctx, region.Shops)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	return shops, nil
}

// OwnerRegions returns the regions the caller owns. Admins see everything.
func (s *CatalogService) OwnerRegions(ctx context.Context, caller *model.AuthUser) ([]model.Region, error) {
	var (
		regions []model.Region
		err     error
	)
	if caller.IsAdmin() {
		regions, err = s.repo.ListRegions(ctx)
	} else {
		regions, err = s.repo.ListRegionsByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, apierror.DBError(err)
	}
	return regions, nil
}

// regionForOwner loads a region and checks that the caller may manage it.
func (s *CatalogService) regionForOwner(ctx context.Context, caller *model.AuthUser, regionID string) (*model.Region, error) {
	region, err := s.repo.GetRegion(ctx, regionID)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	if region == nil {
		return nil, apierror.NotFound("Unable to find region")
	}
	if !caller.IsAdmin() && !region.HasOwner(caller.ID) {
		return nil, apierror.Forbidden("Not an owner of this region")
	}
	return region, nil
}

// ShopInput is the owner-supplied shape for creating or editing a shop.
type ShopInput struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name"`
	Bounds []model.Bounds `json:"bounds"`
	Image  string         `json:"image,omitempty"`
}

func validateShopInput(in *ShopInput, requireName bool) []string {
	var errs []string
	if requireName && strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name required")
	}
	if requireName && in.Bounds == nil {
		errs = append(errs, "bounds must be array")
	}
	return errs
}

// CreateShop creates (or, on a name collision, overwrites) a shop inside a
// region and links it into the region's shop list. The shop inherits the
// region's dimension.
func (s *CatalogService) CreateShop(ctx context.Context, caller *model.AuthUser, regionID string, in *ShopInput) (*model.Shop, error) {
	region, err := s.regionForOwner(ctx, caller, regionID)
	if err != nil {
		return nil, err
	}

	if errs := validateShopInput(in, true); len(errs) > 0 {
		return nil, apierror.BadRequest(errs)
	}

	shop := &model.Shop{
		ID:        uid.New(),
		CreatedAt: s.now().UTC(),
		Name:      in.Name,
		Owner:     caller.ID,
		Dimension: region.Dimension,
		Bounds:    in.Bounds,
		Region:    region.ID,
		Image:     in.Image,
	}

	id, err := s.repo.UpsertByName(ctx, shop)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	shop.ID = id

	if !region.HasShop(id) {
		region.Shops = append(region.Shops, id)
		if err := s.repo.UpdateRegion(ctx, region); err != nil {
			return nil, apierror.DBError(err)
		}
	}

	s.invalidateShops(ctx, shop.Dimension)
	return shop, nil
}

// UpdateShop applies an owner edit to a shop in the region.
func (s *CatalogService) UpdateShop(ctx context.Context, caller *model.AuthUser, regionID string, in *ShopInput) (*model.Shop, error) {
	region, err := s.regionForOwner(ctx, caller, regionID)
	if err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, apierror.BadRequest([]string{"id required"})
	}
	if !region.HasShop(in.ID) {
		return nil, apierror.NotFound("Shop not in region")
	}

	shop, err := s.repo.GetShop(ctx, in.ID)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	if shop == nil {
		return nil, apierror.NotFound("Unable to find shop")
	}

	if strings.TrimSpace(in.Name) != "" {
		shop.Name = in.Name
	}
	if in.Bounds != nil {
		shop.Bounds = in.Bounds
	}
	if in.Image != "" {
		shop.Image = in.Image
	}

	if err := s.repo.UpdateShop(ctx, shop); err != nil {
		return nil, apierror.DBError(err)
	}

	s.invalidateShops(ctx, shop.Dimension)
	return shop, nil
}

// DeleteShop removes a shop and unlinks it from its region's shop list.
func (s *CatalogService) DeleteShop(ctx context.Context, caller *model.AuthUser, regionID, shopID string) error {
	region, err := s.regionForOwner(ctx, caller, regionID)
	if err != nil {
		return err
	}

	shop, err := s.repo.GetShop(ctx, shopID)
	if err != nil {
		return apierror.DBError(err)
	}

	kept := region.Shops[:0]
	for _, id := range region.Shops {
		if id != shopID {
			kept = append(kept, id)
		}
	}
	region.Shops = kept

	if err := s.repo.UpdateRegion(ctx, region); err != nil {
		return apierror.DBError(err)
	}
	if err := s.repo.DeleteShop(ctx, shopID); err != nil {
		return apierror.DBError(err)
	}

	if shop != nil {
		s.invalidateShops(ctx, shop.Dimension)
	}
	return nil
}

// RegionInput is the admin-supplied shape for creating or editing a region.
type RegionInput struct {
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Dimension string         `json:"dimension"`
	Bounds    []model.Bounds `json:"bounds"`
	Owners    []string       `json:"owners"`
}

func validateRegionInput(in *RegionInput) []string {
	var errs []string
	needStr := func(v, k string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, k+" required")
		}
	}
	needStr(in.Name, "name")
	needStr(in.Slug, "slug")
	needStr(in.Dimension, "dimension")
	if in.Bounds == nil {
		errs = append(errs, "bounds must be array")
	}
	return errs
}

// CreateRegion creates a region. Admin only (enforced by routing).
func (s *CatalogService) CreateRegion(ctx context.Context, in *RegionInput) (*model.Region, error) {
	if errs := validateRegionInput(in); len(errs) > 0 {
		return nil, apierror.BadRequest(errs)
	}

	region := &model.Region{
		ID:        uid.New(),
		CreatedAt: s.now().UTC(),
		Name:      in.Name,
		Slug:      in.Slug,
		Dimension: in.Dimension,
		Bounds:    in.Bounds,
		Owners:    in.Owners,
		Shops:     []string{},
	}

	if err := s.repo.CreateRegion(ctx, region); err != nil {
		return nil, apierror.DBError(err)
	}
	return region, nil
}

// UpdateRegion applies an admin patch: any non-zero field replaces the
// stored one. Owners replace wholesale so admins can both add and remove.
func (s *CatalogService) UpdateRegion(ctx context.Context, regionID string, in *RegionInput) (*model.Region, error) {
	region, err := s.repo.GetRegion(ctx, regionID)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	if region == nil {
		return nil, apierror.NotFound("Unable to find region")
	}

	if strings.TrimSpace(in.Name) != "" {
		region.Name = in.Name
	}
	if strings.TrimSpace(in.Slug) != "" {
		region.Slug = in.Slug
	}
	if strings.TrimSpace(in.Dimension) != "" {
		region.Dimension = in.Dimension
	}
	if in.Bounds != nil {
		region.Bounds = in.Bounds
	}
	if in.Owners != nil {
		region.Owners = in.Owners
	}

	if err := s.repo.UpdateRegion(ctx, region); err != nil {
		return nil, apierror.DBError(err)
	}
	return region, nil
}

// DeleteRegion removes a region. Its shops are left in place; cleanup is a
// manual admin action, matching the original behavior.
func (s *CatalogService) DeleteRegion(ctx context.Context, regionID string) error {
	if err := s.repo.DeleteRegion(ctx, regionID); err != nil {
		return apierror.DBError(err)
	}
	return nil
}
