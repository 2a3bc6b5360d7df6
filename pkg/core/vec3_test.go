package core

import (
	"math"
	"testing"
)

func TestVec3_AddSubtractMultiply(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	if got := a.Add(b); got != NewVec3(5, 7, 9) {
		t.Errorf("Add = %v, want {5 7 9}", got)
	}
	if got := b.Subtract(a); got != NewVec3(3, 3, 3) {
		t.Errorf("Subtract = %v, want {3 3 3}", got)
	}
	if got := a.Multiply(2); got != NewVec3(2, 4, 6) {
		t.Errorf("Multiply = %v, want {2 4 6}", got)
	}
	if got := a.MultiplyVec(b); got != NewVec3(4, 10, 18) {
		t.Errorf("MultiplyVec = %v, want {4 10 18}", got)
	}
}

func TestVec3_DotAndCross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot(x,y) = %f, want 0", got)
	}
	if got := x.Cross(y); got != NewVec3(0, 0, 1) {
		t.Errorf("Cross(x,y) = %v, want {0 0 1}", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0)
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("Normalize length = %f, want 1", n.Length())
	}
	if n != NewVec3(0.6, 0.8, 0) {
		t.Errorf("Normalize = %v, want {0.6 0.8 0}", n)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize of zero vector = %v, want zero", got)
	}
}

func TestVec3_Clamp(t *testing.T) {
	v := NewVec3(-1, 0.5, 2)
	got := v.Clamp(0, 1)
	if got != NewVec3(0, 0.5, 1) {
		t.Errorf("Clamp = %v, want {0 0.5 1}", got)
	}
}

func TestVec3_MaxComponent(t *testing.T) {
	v := NewVec3(0.2, 0.9, 0.1)
	if got := v.MaxComponent(); got != 0.9 {
		t.Errorf("MaxComponent = %f, want 0.9", got)
	}
}

func TestVec3_IsZeroAndNegate(t *testing.T) {
	if !(Vec3{}).IsZero() {
		t.Errorf("zero Vec3 should report IsZero")
	}
	v := NewVec3(1, -2, 3)
	if v.IsZero() {
		t.Errorf("non-zero Vec3 should not report IsZero")
	}
	if got := v.Negate(); got != NewVec3(-1, 2, -3) {
		t.Errorf("Negate = %v, want {-1 2 -3}", got)
	}
}

func TestVec3_Equals(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(1+1e-12, 2, 3)
	if !a.Equals(b) {
		t.Errorf("vectors within tolerance should be Equals")
	}
	if a.Equals(NewVec3(1, 2, 3.1)) {
		t.Errorf("vectors outside tolerance should not be Equals")
	}
}

// TestVec3_PCGRngProducesValuesWithinUnitRange exercises core.Rng (the
// spec's PCG32 source, not math/rand) against Vec3 consumers the way
// reservoir sampling actually uses it: reading floats and using them to
// build directions that should stay unit length.
func TestVec3_PCGRngProducesValuesWithinUnitRange(t *testing.T) {
	rng := NewRng(42, false)
	for i := 0; i < 1000; i++ {
		v := NewVec3(rng.Float(), rng.Float(), rng.Float())
		if v.X < 0 || v.X >= 1 || v.Y < 0 || v.Y >= 1 || v.Z < 0 || v.Z >= 1 {
			t.Fatalf("Rng.Float() produced a component outside [0,1): %v", v)
		}
	}
}
