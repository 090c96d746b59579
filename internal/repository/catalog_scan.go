package repository

import (
	"database/sql"
	"fmt"

	"mc-exchange-api/internal/model"
)

const shopColumns = `id, created_at, name, owner, dimension, bounds, region, image`

const regionColumns = `id, created_at, name, slug, dimension, bounds, owners, shops`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShop(row rowScanner) (*model.Shop, error) {
	var s model.Shop
	var bounds string
	var image sql.NullString

	err := row.Scan(&s.ID, &s.CreatedAt, &s.Name, &s.Owner, &s.Dimension, &bounds, &s.Region, &image)
	if err != nil {
		return nil, err
	}

	if s.Bounds, err = unmarshalBounds(bounds); err != nil {
		return nil, err
	}
	if image.Valid {
		s.Image = image.String
	}
	return &s, nil
}

func scanShopRows(rows *sql.Rows) ([]model.Shop, error) {
	shops := []model.Shop{}
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, *s)
	}
	return shops, rows.Err()
}

func scanRegion(row rowScanner) (*model.Region, error) {
	var r model.Region
	var bounds, owners, shops string

	err := row.Scan(&r.ID, &r.CreatedAt, &r.Name, &r.Slug, &r.Dimension, &bounds, &owners, &shops)
	if err != nil {
		return nil, err
	}

	if r.Bounds, err = unmarshalBounds(bounds); err != nil {
		return nil, err
	}
	if r.Owners, err = unmarshalStrings(owners); err != nil {
		return nil, err
	}
	if r.Shops, err = unmarshalStrings(shops); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRegionRows(rows *sql.Rows) ([]model.Region, error) {
	regions := []model.Region{}
	for rows.Next() {
		r, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, *r)
	}
	return regions, rows.Err()
}

func marshalRegion(r *model.Region) (bounds, owners, shops string, err error) {
	if bounds, err = marshalBounds(r.Bounds); err != nil {
		return
	}
	if owners, err = marshalStrings(r.Owners); err != nil {
		return
	}
	shops, err = marshalStrings(r.Shops)
	return
}
