package vmath

import "math"

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3 // Normalized direction
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Contains reports whether the point lies inside the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectRay tests ray intersection with the box using the slab
// method. Returns the entry distance t and whether the ray hits.
// A ray starting inside the box hits at t = 0.
func (b AABB) IntersectRay(r Ray) (t float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	// X slab
	if r.Dir.X != 0 {
		t1 := (b.Min.X - r.Origin.X) / r.Dir.X
		t2 := (b.Max.X - r.Origin.X) / r.Dir.X
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin.X < b.Min.X || r.Origin.X > b.Max.X {
		return 0, false
	}

	// Y slab
	if r.Dir.Y != 0 {
		t1 := (b.Min.Y - r.Origin.Y) / r.Dir.Y
		t2 := (b.Max.Y - r.Origin.Y) / r.Dir.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin.Y < b.Min.Y || r.Origin.Y > b.Max.Y {
		return 0, false
	}

	// Z slab
	if r.Dir.Z != 0 {
		t1 := (b.Min.Z - r.Origin.Z) / r.Dir.Z
		t2 := (b.Max.Z - r.Origin.Z) / r.Dir.Z
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin.Z < b.Min.Z || r.Origin.Z > b.Max.Z {
		return 0, false
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		tmin = 0
	}
	return tmin, true
}
