package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/stl2vrml/pkg/geometry"
	"github.com/philipparndt/stl2vrml/pkg/stl"
)

// Stats summarizes a model. It is filled one facet at a time, so a model
// of any size can be analyzed without holding it in memory.
type Stats struct {
	Format        stl.Format
	TriangleCount int
	EdgeCount     int
	BoundingBox   geometry.BoundingBox
	SurfaceArea   float64
	MinEdgeLength float64
	MaxEdgeLength float64
	totalLength   float64
}

// NewStats creates empty statistics
func NewStats() *Stats {
	return &Stats{
		BoundingBox:   geometry.NewBoundingBox(),
		MinEdgeLength: math.MaxFloat64,
	}
}

// Add accounts for one facet
func (s *Stats) Add(f geometry.Facet) {
	s.TriangleCount++
	s.SurfaceArea += f.Area()
	s.BoundingBox.ExtendFacet(f)

	for _, length := range f.EdgeLengths() {
		s.EdgeCount++
		s.totalLength += length
		if length < s.MinEdgeLength {
			s.MinEdgeLength = length
		}
		if length > s.MaxEdgeLength {
			s.MaxEdgeLength = length
		}
	}
}

// AvgEdgeLength returns the mean edge length, or 0 for an empty model
func (s *Stats) AvgEdgeLength() float64 {
	if s.EdgeCount == 0 {
		return 0
	}
	return s.totalLength / float64(s.EdgeCount)
}

// Dimensions returns the bounding box size, or zero for an empty model
func (s *Stats) Dimensions() geometry.Vector3 {
	if s.BoundingBox.IsEmpty() {
		return geometry.Vector3{}
	}
	return s.BoundingBox.Size()
}

// AnalyzeReader reads every remaining facet of r. ReadHeader must have
// been called.
func AnalyzeReader(r *stl.Reader) (*Stats, error) {
	s := NewStats()
	s.Format = r.Format()
	for {
		f, ok, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("facet %d: %w", s.TriangleCount+1, err)
		}
		if !ok {
			break
		}
		s.Add(f)
	}
	if s.TriangleCount == 0 {
		s.MinEdgeLength = 0
	}
	return s, nil
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
