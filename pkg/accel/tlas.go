package accel

import (
	"github.com/kallidan/restir-di-renderer/pkg/core"
	"github.com/kallidan/restir-di-renderer/pkg/xform"
)

// Instance places one Blas in world space via a rigid transform. Name is
// informational only, used by scene-description loaders and tests.
type Instance struct {
	Name      string
	Blas      *Blas
	Transform xform.Transform
}

// Tlas is the top-level acceleration structure the renderer core talks to
// through core.Accelerator: a list of instanced BLASes, each traversed in
// its own local space.
type Tlas struct {
	instances []*Instance
}

// NewTlas builds an empty top-level structure; instances are added with
// AddInstance.
func NewTlas() *Tlas {
	return &Tlas{}
}

// AddInstance places blas in the scene under the given transform and
// returns the instance handle so callers can retarget it later (e.g. an
// animated light's rig).
func (t *Tlas) AddInstance(name string, blas *Blas, transform xform.Transform) *Instance {
	inst := &Instance{Name: name, Blas: blas, Transform: transform}
	t.instances = append(t.instances, inst)
	return inst
}

// Instances exposes the placed instances for iteration (e.g. committing
// transform history at frame boundaries).
func (t *Tlas) Instances() []*Instance {
	return t.instances
}

// Traverse implements core.Accelerator: find the closest intersection
// across all instances, transforming the ray into each instance's local
// space before testing its BLAS.
func (t *Tlas) Traverse(ray *core.Ray) {
	hit := core.NewHitInfo()
	var hitInstance *Instance

	for _, inst := range t.instances {
		localOrigin := inst.Transform.InverseTransformPoint(ray.Origin)
		localDirection := inst.Transform.InverseTransformDirection(ray.Direction)

		dist, localNormal, steps, ok := inst.Blas.traverse(localOrigin, localDirection, 1e-4, hit.Distance)
		hit.TraversalStepsTotal += steps
		if !ok {
			continue
		}

		hit.Hit = true
		hit.Distance = dist
		hit.TraversalStepsHitBVH = steps
		hit.Normal = inst.Transform.TransformNormal(localNormal)
		localPos := localOrigin.Add(localDirection.Multiply(dist))
		hit.Position = inst.Transform.TransformPoint(localPos)
		hitInstance = inst
	}

	if hitInstance != nil {
		localOrigin := hitInstance.Transform.InverseTransformPoint(ray.Origin)
		localDirection := hitInstance.Transform.InverseTransformDirection(ray.Direction)
		localPos := localOrigin.Add(localDirection.Multiply(hit.Distance))
		hit.PrevPosition = hitInstance.Transform.ToPreviousPosition(hitInstance.Transform.TransformPoint(localPos))
		hit.PrevNormal = hitInstance.Transform.ToPreviousDirection(hit.Normal)
	}

	ray.HitInfo = hit
}

// IsOccluded implements core.Accelerator: true if any instance's BLAS has
// any intersection within the ray's current hit distance.
func (t *Tlas) IsOccluded(ray core.Ray) bool {
	for _, inst := range t.instances {
		localOrigin := inst.Transform.InverseTransformPoint(ray.Origin)
		localDirection := inst.Transform.InverseTransformDirection(ray.Direction)
		if inst.Blas.anyHit(localOrigin, localDirection, 1e-4, ray.HitInfo.Distance) {
			return true
		}
	}
	return false
}
