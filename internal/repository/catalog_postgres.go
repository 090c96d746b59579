package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"mc-exchange-api/internal/model"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresCatalogRepository implements ShopRepository and RegionRepository
// using PostgreSQL.
type PostgresCatalogRepository struct {
	db *sql.DB
}

// NewPostgresCatalogRepository creates a new PostgreSQL catalog repository.
func NewPostgresCatalogRepository(dsn string) (*PostgresCatalogRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if err := createCatalogTablesPostgres(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[PostgresCatalogRepository] Initialized with pool: max=%d, idle=%d", 25, 10)
	return &PostgresCatalogRepository{db: db}, nil
}

func createCatalogTablesPostgres(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS shops (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		name TEXT NOT NULL UNIQUE,
		owner TEXT NOT NULL,
		dimension TEXT NOT NULL,
		bounds TEXT NOT NULL,
		region TEXT NOT NULL,
		image TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_shops_dimension ON shops(dimension);
	CREATE INDEX IF NOT EXISTS idx_shops_region ON shops(region);

	CREATE TABLE IF NOT EXISTS regions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		dimension TEXT NOT NULL,
		bounds TEXT NOT NULL,
		owners TEXT NOT NULL,
		shops TEXT NOT NULL
	);
	`
	_, err := db.Exec(query)
	return err
}

// UpsertByName inserts the shop or overwrites the row sharing its name,
// returning the surviving shop id in the same statement.
func (r *PostgresCatalogRepository) UpsertByName(ctx context.Context, s *model.Shop) (string, error) {
	bounds, err := marshalBounds(s.Bounds)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO shops (` + shopColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			owner = EXCLUDED.owner,
			dimension = EXCLUDED.dimension,
			bounds = EXCLUDED.bounds,
			region = EXCLUDED.region,
			image = EXCLUDED.image
		RETURNING id`

	var id string
	err = r.db.QueryRowContext(ctx, query,
		s.ID, s.CreatedAt.UTC(), s.Name, s.Owner, s.Dimension, bounds, s.Region, nullableImage(s.Image)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert shop: %w", err)
	}
	return id, nil
}

// GetShop retrieves a shop by id.
func (r *PostgresCatalogRepository) GetShop(ctx context.Context, id string) (*model.Shop, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id)
	s, err := scanShop(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return s, nil
}

// GetShops retrieves shops by id.
func (r *PostgresCatalogRepository) GetShops(ctx context.Context, ids []string) ([]model.Shop, error) {
	if len(ids) == 0 {
		return []model.Shop{}, nil
	}

	placeholders := ""
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ","
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+shopColumns+` FROM shops WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get shops: %w", err)
	}
	defer rows.Close()

	return scanShopRows(rows)
}

// ListShopsByDimension returns every shop in a dimension.
func (r *PostgresCatalogRepository) ListShopsByDimension(ctx context.Context, dimension string) ([]model.Shop, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+shopColumns+` FROM shops WHERE dimension = $1`, dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	return scanShopRows(rows)
}

// UpdateShop overwrites a shop row.
func (r *PostgresCatalogRepository) UpdateShop(ctx context.Context, s *model.Shop) error {
	bounds, err := marshalBounds(s.Bounds)
	if err != nil {
		return err
	}

	query := `UPDATE shops SET name = $1, owner = $2, dimension = $3, bounds = $4, region = $5, image = $6 WHERE id = $7`
	_, err = r.db.ExecContext(ctx, query, s.Name, s.Owner, s.Dimension, bounds, s.Region, nullableImage(s.Image), s.ID)
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	return nil
}

// DeleteShop removes a shop row.
func (r *PostgresCatalogRepository) DeleteShop(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return nil
}

// CreateRegion inserts a new region.
func (r *PostgresCatalogRepository) CreateRegion(ctx context.Context, region *model.Region) error {
	bounds, owners, shops, err := marshalRegion(region)
	if err != nil {
		return err
	}

	query := `INSERT INTO regions (` + regionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query,
		region.ID, region.CreatedAt.UTC(), region.Name, region.Slug, region.Dimension, bounds, owners, shops)
	if err != nil {
		return fmt.Errorf("failed to create region: %w", err)
	}
	return nil
}

// GetRegion retrieves a region by id.
func (r *PostgresCatalogRepository) GetRegion(ctx context.Context, id string) (*model.Region, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+regionColumns+` FROM regions WHERE id = $1`, id)
	region, err := scanRegion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return region, nil
}

// GetRegionBySlug retrieves a region by slug.
func (r *PostgresCatalogRepository) GetRegionBySlug(ctx context.Context, slug string) (*model.Region, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+regionColumns+` FROM regions WHERE slug = $1`, slug)
	region, err := scanRegion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get region by slug: %w", err)
	}
	return region, nil
}

// ListRegions returns all regions ordered by name descending.
func (r *PostgresCatalogRepository) ListRegions(ctx context.Context) ([]model.Region, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+regionColumns+` FROM regions ORDER BY name DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	return scanRegionRows(rows)
}

// ListRegionsByOwner returns regions listing the user id as an owner.
func (r *PostgresCatalogRepository) ListRegionsByOwner(ctx context.Context, userID string) ([]model.Region, error) {
	regions, err := r.ListRegions(ctx)
	if err != nil {
		return nil, err
	}

	owned := []model.Region{}
	for _, region := range regions {
		if region.HasOwner(userID) {
			owned = append(owned, region)
		}
	}
	return owned, nil
}

// UpdateRegion overwrites a region row.
func (r *PostgresCatalogRepository) UpdateRegion(ctx context.Context, region *model.Region) error {
	bounds, owners, shops, err := marshalRegion(region)
	if err != nil {
		return err
	}

	query := `UPDATE regions SET name = $1, slug = $2, dimension = $3, bounds = $4, owners = $5, shops = $6 WHERE id = $7`
	_, err = r.db.ExecContext(ctx, query, region.Name, region.Slug, region.Dimension, bounds, owners, shops, region.ID)
	if err != nil {
		return fmt.Errorf("failed to update region: %w", err)
	}
	return nil
}

// DeleteRegion removes a region row. Shops are not cascaded.
func (r *PostgresCatalogRepository) DeleteRegion(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM regions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}
	return nil
}

// Close closes the database connection pool.
func (r *PostgresCatalogRepository) Close() error {
	return r.db.Close()
}

// Ensure PostgresCatalogRepository implements CatalogRepository
var _ CatalogRepository = (*PostgresCatalogRepository)(nil)
