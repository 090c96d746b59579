package model

import "time"

// Shop is a single trading location inside a region, with its own bounding
// volume(s) used for point containment when attributing exchange events.
type Shop struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Dimension string    `json:"dimension"`
	Bounds    []Bounds  `json:"bounds"`
	Region    string    `json:"region"`
	Image     string    `json:"image,omitempty"`
}

// ContainsPoint reports whether any of the shop's boxes contains the point.
func (s *Shop) ContainsPoint(x, y, z int64) bool {
	for _, b := range s.Bounds {
		if b.Contains(x, y, z) {
			return true
		}
	}
	return false
}
