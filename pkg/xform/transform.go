// Package xform builds and composes the rigid transforms that place scene
// instances in world space: translation, Euler rotation, and uniform scale,
// composed as T * R * S. mgl64 supplies the matrix and quaternion plumbing.
package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// Transform is a rigid (plus uniform scale) placement and its derived
// inverse and previous-frame delta, kept pre-computed so per-ray traversal
// never touches a matrix inverse.
type Transform struct {
	Translation core.Vec3
	Rotation    core.Vec3 // Euler angles, degrees, applied Z then Y then X
	Scale       float64

	matrix      mgl64.Mat4
	inverse     mgl64.Mat4
	prevMatrix  mgl64.Mat4 // matrix as of the previous frame's Commit
	toPrevDelta mgl64.Mat4 // prevMatrix * inverse(matrix), world-space delta
}

// Identity returns an untransformed placement.
func Identity() Transform {
	t := Transform{Scale: 1}
	t.build()
	t.prevMatrix = t.matrix
	t.rebuildDelta()
	return t
}

// New builds a Transform from translation, Euler rotation (degrees), and a
// uniform scale factor.
func New(translation, rotationDegrees core.Vec3, scale float64) Transform {
	t := Transform{Translation: translation, Rotation: rotationDegrees, Scale: scale}
	t.build()
	t.prevMatrix = t.matrix
	t.rebuildDelta()
	return t
}

func (t *Transform) build() {
	rx := mgl64.DegToRad(t.Rotation.X)
	ry := mgl64.DegToRad(t.Rotation.Y)
	rz := mgl64.DegToRad(t.Rotation.Z)

	translate := mgl64.Translate3D(t.Translation.X, t.Translation.Y, t.Translation.Z)
	rotate := mgl64.HomogRotate3DX(rx).Mul4(mgl64.HomogRotate3DY(ry)).Mul4(mgl64.HomogRotate3DZ(rz))
	scale := mgl64.Scale3D(t.Scale, t.Scale, t.Scale)

	t.matrix = translate.Mul4(rotate).Mul4(scale)
	t.inverse = t.matrix.Inv()
}

func (t *Transform) rebuildDelta() {
	t.toPrevDelta = t.prevMatrix.Mul4(t.inverse)
}

// Set replaces the placement in-place, rebuilding the matrix and inverse
// without touching prevMatrix — use Commit to advance the history.
func (t *Transform) Set(translation, rotationDegrees core.Vec3, scale float64) {
	t.Translation = translation
	t.Rotation = rotationDegrees
	t.Scale = scale
	t.build()
	t.rebuildDelta()
}

// Commit snapshots the current matrix as the previous frame's placement,
// called once per frame after all instance updates for the frame are in.
func (t *Transform) Commit() {
	t.prevMatrix = t.matrix
	t.rebuildDelta()
}

// Matrix returns the current world transform.
func (t Transform) Matrix() mgl64.Mat4 {
	return t.matrix
}

// Inverse returns the current world-to-local transform.
func (t Transform) Inverse() mgl64.Mat4 {
	return t.inverse
}

// TransformPoint applies the full 4x4 transform to a point (w=1).
func (t Transform) TransformPoint(p core.Vec3) core.Vec3 {
	return mulPoint(t.matrix, p)
}

// InverseTransformPoint maps a world point into local space.
func (t Transform) InverseTransformPoint(p core.Vec3) core.Vec3 {
	return mulPoint(t.inverse, p)
}

// TransformNormal applies the matrix's upper-left 3x3 to a direction,
// without translation. Non-uniform scale is not supported (scale is
// uniform by construction), so no transpose-inverse is needed.
func (t Transform) TransformNormal(n core.Vec3) core.Vec3 {
	return mulDirection(t.matrix, n).Normalize()
}

// InverseTransformDirection maps a world-space direction into local space,
// without normalizing — used for ray direction transforms where the
// traversal distance must scale consistently with the transformed origin.
func (t Transform) InverseTransformDirection(d core.Vec3) core.Vec3 {
	return mulDirection(t.inverse, d)
}

// ToPreviousPosition maps a current-frame world point to where the same
// local-space point was in the previous frame: world -> local (now) ->
// world (then), i.e. prevMatrix * inverse(matrix) * p.
func (t Transform) ToPreviousPosition(p core.Vec3) core.Vec3 {
	return mulPoint(t.toPrevDelta, p)
}

// ToPreviousDirection maps a current-frame world-space direction (e.g. a
// hit normal) to its previous-frame orientation under the same rigid
// motion ToPreviousPosition tracks for points: world -> local (now) ->
// world (then), but with w=0 so translation never enters the result.
// Uniform scale cancels out of toPrevDelta's rotational part the same way
// it does for TransformNormal, so no transpose-inverse is needed here
// either.
func (t Transform) ToPreviousDirection(d core.Vec3) core.Vec3 {
	return mulDirection(t.toPrevDelta, d).Normalize()
}

func mulPoint(m mgl64.Mat4, p core.Vec3) core.Vec3 {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return core.NewVec3(v[0], v[1], v[2])
}

func mulDirection(m mgl64.Mat4, d core.Vec3) core.Vec3 {
	v := m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return core.NewVec3(v[0], v[1], v[2])
}

// LookAt builds a view-style orientation matrix for the camera: an
// orthonormal basis with forward toward target, used alongside Transform
// for camera placement. Kept separate from Transform since the camera has
// no scale and is driven by eye/target/up rather than Euler angles.
func LookAt(eye, target, up core.Vec3) mgl64.Mat4 {
	return mgl64.LookAtV(
		mgl64.Vec3{eye.X, eye.Y, eye.Z},
		mgl64.Vec3{target.X, target.Y, target.Z},
		mgl64.Vec3{up.X, up.Y, up.Z},
	)
}

// Basis recovers the orthonormal right/up/forward vectors implied by Euler
// rotation, matching the camera's axis construction.
func Basis(rotationDegrees core.Vec3) (right, up, forward core.Vec3) {
	rx := mgl64.DegToRad(rotationDegrees.X)
	ry := mgl64.DegToRad(rotationDegrees.Y)
	rz := mgl64.DegToRad(rotationDegrees.Z)
	rot := mgl64.HomogRotate3DX(rx).Mul4(mgl64.HomogRotate3DY(ry)).Mul4(mgl64.HomogRotate3DZ(rz))

	right = mulDirection(rot, core.NewVec3(1, 0, 0)).Normalize()
	up = mulDirection(rot, core.NewVec3(0, 1, 0)).Normalize()
	forward = mulDirection(rot, core.NewVec3(0, 0, -1)).Normalize()
	return
}

// DegToRad converts degrees to radians, exposed for callers (e.g. the
// camera) that build their own matrices from the same convention.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
