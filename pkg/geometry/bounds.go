package geometry

import "math"

// BoundingBox is an axis-aligned bounding box accumulated point by point.
//
// A fresh box holds the +Inf/-Inf sentinel so the first Extend sets both
// corners. After at least one Extend, Min <= Max on every axis.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vector3{X: inf, Y: inf, Z: inf},
		Max: Vector3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// ExtendFacet expands the bounding box to include all corners of a facet
func (b *BoundingBox) ExtendFacet(f Facet) {
	for _, p := range f {
		b.Extend(p)
	}
}

// IsEmpty reports whether no point has been added yet
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: b.Min.X + (b.Max.X-b.Min.X)/2.0,
		Y: b.Min.Y + (b.Max.Y-b.Min.Y)/2.0,
		Z: b.Min.Z + (b.Max.Z-b.Min.Z)/2.0,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}
