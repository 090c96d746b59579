package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	"mc-exchange-api/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteCatalogRepository implements ShopRepository and RegionRepository
// using SQLite.
type SQLiteCatalogRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteCatalogRepository creates a new SQLite catalog repository.
func NewSQLiteCatalogRepository(dbPath string) (*SQLiteCatalogRepository, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createCatalogTablesSQLite(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteCatalogRepository] Initialized with database: %s", dbPath)
	return &SQLiteCatalogRepository{db: db}, nil
}

func createCatalogTablesSQLite(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS shops (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
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
		created_at DATETIME NOT NULL,
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

// UpsertByName inserts the shop or overwrites the row sharing its name.
func (r *SQLiteCatalogRepository) UpsertByName(ctx context.Context, s *model.Shop) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bounds, err := marshalBounds(s.Bounds)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO shops (` + shopColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			owner = excluded.owner,
			dimension = excluded.dimension,
			bounds = excluded.bounds,
			region = excluded.region,
			image = excluded.image`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.CreatedAt.UTC(), s.Name, s.Owner, s.Dimension, bounds, s.Region, nullableImage(s.Image))
	if err != nil {
		return "", fmt.Errorf("failed to upsert shop: %w", err)
	}

	// The conflict path keeps the existing row's id; report the survivor.
	var id string
	if err := r.db.QueryRowContext(ctx, "SELECT id FROM shops WHERE name = ?", s.Name).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to read back shop id: %w", err)
	}
	return id, nil
}

// GetShop retrieves a shop by id.
func (r *SQLiteCatalogRepository) GetShop(ctx context.Context, id string) (*model.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = ?`, id)
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
func (r *SQLiteCatalogRepository) GetShops(ctx context.Context, ids []string) ([]model.Shop, error) {
	if len(ids) == 0 {
		return []model.Shop{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
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
func (r *SQLiteCatalogRepository) ListShopsByDimension(ctx context.Context, dimension string) ([]model.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, `SELECT `+shopColumns+` FROM shops WHERE dimension = ?`, dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	return scanShopRows(rows)
}

// UpdateShop overwrites a shop row.
func (r *SQLiteCatalogRepository) UpdateShop(ctx context.Context, s *model.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bounds, err := marshalBounds(s.Bounds)
	if err != nil {
		return err
	}

	query := `UPDATE shops SET name = ?, owner = ?, dimension = ?, bounds = ?, region = ?, image = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, s.Name, s.Owner, s.Dimension, bounds, s.Region, nullableImage(s.Image), s.ID)
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	return nil
}

// DeleteShop removes a shop row.
func (r *SQLiteCatalogRepository) DeleteShop(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return nil
}

// CreateRegion inserts a new region.
func (r *SQLiteCatalogRepository) CreateRegion(ctx context.Context, region *model.Region) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bounds, owners, shops, err := marshalRegion(region)
	if err != nil {
		return err
	}

	query := `INSERT INTO regions (` + regionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		region.ID, region.CreatedAt.UTC(), region.Name, region.Slug, region.Dimension, bounds, owners, shops)
	if err != nil {
		return fmt.Errorf("failed to create region: %w", err)
	}
	return nil
}

// GetRegion retrieves a region by id.
func (r *SQLiteCatalogRepository) GetRegion(ctx context.Context, id string) (*model.Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx, `SELECT `+regionColumns+` FROM regions WHERE id = ?`, id)
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
func (r *SQLiteCatalogRepository) GetRegionBySlug(ctx context.Context, slug string) (*model.Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx, `SELECT `+regionColumns+` FROM regions WHERE slug = ?`, slug)
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
func (r *SQLiteCatalogRepository) ListRegions(ctx context.Context) ([]model.Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, `SELECT `+regionColumns+` FROM regions ORDER BY name DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	return scanRegionRows(rows)
}

// ListRegionsByOwner returns regions listing the user id as an owner.
// Owner sets are small JSON arrays; filtering happens after the scan since
// SQLite has no native array containment.
func (r *SQLiteCatalogRepository) ListRegionsByOwner(ctx context.Context, userID string) ([]model.Region, error) {
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
func (r *SQLiteCatalogRepository) UpdateRegion(ctx context.Context, region *model.Region) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bounds, owners, shops, err := marshalRegion(region)
	if err != nil {
		return err
	}

	query := `UPDATE regions SET name = ?, slug = ?, dimension = ?, bounds = ?, owners = ?, shops = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, region.Name, region.Slug, region.Dimension, bounds, owners, shops, region.ID)
	if err != nil {
		return fmt.Errorf("failed to update region: %w", err)
	}
	return nil
}

// DeleteRegion removes a region row. Shops are not cascaded.
func (r *SQLiteCatalogRepository) DeleteRegion(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM regions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *SQLiteCatalogRepository) Close() error {
	return r.db.Close()
}

func nullableImage(image string) interface{} {
	if image == "" {
		return nil
	}
	return image
}

// Ensure SQLiteCatalogRepository implements CatalogRepository
var _ CatalogRepository = (*SQLiteCatalogRepository)(nil)
