package geometry

import (
	"math"
	"testing"
)

func rightTriangle() Facet {
	// sides 3, 4, 5
	return NewFacet(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)
}

func TestFacetArea(t *testing.T) {
	area := rightTriangle().Area()
	if math.Abs(area-6.0) > 1e-10 {
		t.Errorf("Area failed: expected 6, got %v", area)
	}
}

func TestFacetEdgeLengths(t *testing.T) {
	lengths := rightTriangle().EdgeLengths()

	expected := [3]float64{3, 5, 4}
	for i := range expected {
		if math.Abs(lengths[i]-expected[i]) > 1e-10 {
			t.Errorf("Edge %d length failed: expected %v, got %v", i, expected[i], lengths[i])
		}
	}
}
