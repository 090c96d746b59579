package model

import "time"

// Region is an admin-defined named area containing shops, with one or more
// owner user ids. Slug is the URL-safe unique handle the frontend routes on.
type Region struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Dimension string    `json:"dimension"`
	Bounds    []Bounds  `json:"bounds"`
	Owners    []string  `json:"owners"`
	Shops     []string  `json:"shops"`
}

// HasOwner reports whether the user id is listed as a region owner.
func (r *Region) HasOwner(userID string) bool {
	for _, id := range r.Owners {
		if id == userID {
			return true
		}
	}
	return false
}

// HasShop reports whether the shop id is listed in the region.
func (r *Region) HasShop(shopID string) bool {
	for _, id := range r.Shops {
		if id == shopID {
			return true
		}
	}
	return false
}
