package vmath

import "testing"

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot: got %f, want 32", got)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{3, 4, 0}
	if v.Length() != 5 {
		t.Errorf("Length: got %f, want 5", v.Length())
	}
	if got := v.Normalize().Length(); absf(got-1) > 0.001 {
		t.Errorf("Normalize length: got %f, want 1", got)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize zero: got %v, want zero vector", got)
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{1, 0, 0}
	b := Vec3{4, 4, 0}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance: got %f, want 5", got)
	}
}
