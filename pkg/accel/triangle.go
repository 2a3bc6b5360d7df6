// Package accel implements the two-level acceleration structure the
// renderer traverses: a BLAS (bounding volume hierarchy over a triangle
// soup) per mesh, instanced any number of times by a TLAS that applies a
// rigid transform per instance.
package accel

import (
	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// Triangle is a single local-space triangle. Its normal and bounding box
// are precomputed once at construction since the BLAS never mutates
// geometry after building.
type Triangle struct {
	V0, V1, V2 core.Vec3
	normal     core.Vec3
	bbox       core.AABB
}

// NewTriangle builds a triangle and caches its face normal and bounds.
func NewTriangle(v0, v1, v2 core.Vec3) Triangle {
	t := Triangle{V0: v0, V1: v1, V2: v2}
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return t
}

// BoundingBox returns the triangle's cached local-space bounds.
func (t Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's cached face normal.
func (t Triangle) Normal() core.Vec3 {
	return t.normal
}

const triangleEpsilon = 1e-8

// hit runs the Möller–Trumbore intersection test in local space, returning
// the hit distance and ok = true on success.
func (t Triangle) hit(origin, direction core.Vec3, tMin, tMax float64) (distance float64, ok bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, false
	}

	f := 1.0 / a
	s := origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := f * edge2.Dot(q)
	if dist < tMin || dist > tMax {
		return 0, false
	}
	return dist, true
}
