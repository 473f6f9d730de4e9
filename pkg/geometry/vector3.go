package geometry

import "math"

// Vector3 is a 3D point or vector. The zero value is the origin
type Vector3 struct {
	X, Y, Z float64
}

// NewVector3 creates a new 3D vector
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Cross returns the cross product of two vectors
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the distance between two points
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// Min returns the componentwise minimum of two vectors. A NaN component of
// other never replaces the matching component of v.
func (v Vector3) Min(other Vector3) Vector3 {
	if other.X < v.X {
		v.X = other.X
	}
	if other.Y < v.Y {
		v.Y = other.Y
	}
	if other.Z < v.Z {
		v.Z = other.Z
	}
	return v
}

// Max returns the componentwise maximum of two vectors, ignoring NaN
// components of other like Min does
func (v Vector3) Max(other Vector3) Vector3 {
	if other.X > v.X {
		v.X = other.X
	}
	if other.Y > v.Y {
		v.Y = other.Y
	}
	if other.Z > v.Z {
		v.Z = other.Z
	}
	return v
}
