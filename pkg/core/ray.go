package core

import "math"

// HitInfo is the hit record populated by an Accelerator query. PrevPosition
// and PrevNormal hold the world-space location/orientation the same surface
// point occupied in the previous frame, under the owning instance's
// to-previous transform; they are only meaningful when Hit is true.
type HitInfo struct {
	Hit      bool
	Distance float64

	Position     Vec3
	PrevPosition Vec3
	Normal       Vec3
	PrevNormal   Vec3

	// Diagnostic-only traversal counters (TraversalSteps render mode).
	TraversalStepsHitBVH int
	TraversalStepsTotal  int
}

// NewHitInfo returns an unhit HitInfo with distance initialized to the
// maximum-finite sentinel, narrowed by traversal.
func NewHitInfo() HitInfo {
	return HitInfo{Distance: math.MaxFloat64}
}

// Ray is a ray with an origin, a direction, and the hit record accumulated
// by the most recent Accelerator.Traverse call against it.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	HitInfo   HitInfo
}

// NewRay creates a ray with an unhit HitInfo.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, HitInfo: NewHitInfo()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
