package model

// Bounds is an axis-aligned bounding box in world coordinates.
type Bounds struct {
	MinX int64 `json:"min_x"`
	MinY int64 `json:"min_y"`
	MinZ int64 `json:"min_z"`
	MaxX int64 `json:"max_x"`
	MaxY int64 `json:"max_y"`
	MaxZ int64 `json:"max_z"`
}

// Contains reports whether the point is inside the box. Faces are inclusive.
func (b Bounds) Contains(x, y, z int64) bool {
	return b.MinX <= x && x <= b.MaxX &&
		b.MinY <= y && y <= b.MaxY &&
		b.MinZ <= z && z <= b.MaxZ
}

// Volume returns the block count of the box (inclusive bounds).
func (b Bounds) Volume() int64 {
	return (b.MaxX - b.MinX + 1) * (b.MaxY - b.MinY + 1) * (b.MaxZ - b.MinZ + 1)
}

// TotalVolume sums the volumes of a set of boxes.
func TotalVolume(boxes []Bounds) int64 {
	var total int64
	for _, b := range boxes {
		total += b.Volume()
	}
	return total
}
