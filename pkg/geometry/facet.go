package geometry

// Facet is one triangle of a mesh, given by its three corners in file order.
// Normals are not kept.
type Facet [3]Vector3

// NewFacet creates a facet from its corners
func NewFacet(v1, v2, v3 Vector3) Facet {
	return Facet{v1, v2, v3}
}

// Area returns the surface area of the facet
func (f Facet) Area() float64 {
	return f[1].Sub(f[0]).Cross(f[2].Sub(f[0])).Length() / 2.0
}

// EdgeLengths returns the lengths of the edges v1-v2, v2-v3 and v3-v1
func (f Facet) EdgeLengths() [3]float64 {
	return [3]float64{
		f[0].Distance(f[1]),
		f[1].Distance(f[2]),
		f[2].Distance(f[0]),
	}
}
