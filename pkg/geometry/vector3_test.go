package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	result := NewVector3(1, 2, 3).Add(NewVector3(4, 5, 6))

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	result := NewVector3(5, 7, 9).Sub(NewVector3(1, 2, 3))

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Distance(t *testing.T) {
	distance := NewVector3(0, 0, 0).Distance(NewVector3(3, 4, 0))

	if math.Abs(distance-5.0) > 1e-10 {
		t.Errorf("Distance failed: expected 5, got %v", distance)
	}
}

func TestVector3Cross(t *testing.T) {
	result := NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0))

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3MinMax(t *testing.T) {
	a := NewVector3(1, 5, -2)
	b := NewVector3(3, -1, -2)

	if got, want := a.Min(b), NewVector3(1, -1, -2); got != want {
		t.Errorf("Min failed: expected %v, got %v", want, got)
	}
	if got, want := a.Max(b), NewVector3(3, 5, -2); got != want {
		t.Errorf("Max failed: expected %v, got %v", want, got)
	}
}

func TestVector3MinMaxIgnoresNaN(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(math.NaN(), 0, math.NaN())

	if got, want := a.Min(b), NewVector3(1, 0, 3); got != want {
		t.Errorf("Min failed: expected %v, got %v", want, got)
	}
	if got, want := a.Max(b), NewVector3(1, 2, 3); got != want {
		t.Errorf("Max failed: expected %v, got %v", want, got)
	}
}
