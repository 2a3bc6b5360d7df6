package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kallidan/restir-di-renderer/pkg/core"
	"github.com/kallidan/restir-di-renderer/pkg/xform"
)

// Camera generates primary rays and provides the approximate world→screen
// reprojection temporal reuse needs to find a pixel's previous-frame
// neighbour. It implements core.CameraModel.
type Camera struct {
	Position    core.Vec3
	Rotation    core.Vec3 // Euler degrees
	VerticalFOV float64   // degrees
	Width       int
	Height      int

	right, up, back core.Vec3
	matrix          mgl64.Mat4
	planeZ          float64

	// Inward frustum-side normals, used by WorldToScreen to recover
	// approximate (u, v) by projecting a world offset onto each pair.
	normalLeft, normalRight, normalTop, normalBottom core.Vec3
}

// NewCamera builds a camera and computes its derived state.
func NewCamera(position, rotationDegrees core.Vec3, verticalFOV float64, width, height int) *Camera {
	c := &Camera{
		Position:    position,
		Rotation:    rotationDegrees,
		VerticalFOV: verticalFOV,
		Width:       width,
		Height:      height,
	}
	c.UpdateState()
	return c
}

// UpdateState recomputes the orthonormal basis, camera matrix, view-plane
// distance, and frustum normals from Position/Rotation/VerticalFOV. Call
// after mutating any of those fields.
func (c *Camera) UpdateState() {
	right, up, forward := xform.Basis(c.Rotation)
	c.right = right
	c.up = up
	c.back = forward.Negate()

	target := c.Position.Add(forward)
	c.matrix = xform.LookAt(c.Position, target, up).Inv()

	halfHeight := float64(c.Height) / 2
	c.planeZ = -halfHeight / math.Tan(xform.DegToRad(c.VerticalFOV)/2)

	c.computeFrustumNormals()
}

// computeFrustumNormals derives four inward-pointing normals, one per
// frustum side, by crossing the camera origin with each corner ray —
// the same construction WorldToScreen later projects a world offset onto
// to recover an approximate pixel coordinate.
func (c *Camera) computeFrustumNormals() {
	halfW := float64(c.Width) / 2
	halfH := float64(c.Height) / 2

	corner := func(x, y float64) core.Vec3 {
		local := core.NewVec3(x, y, c.planeZ)
		dir := mulDirection(c.matrix, local)
		return dir.Normalize()
	}

	topLeft := corner(-halfW, halfH)
	topRight := corner(halfW, halfH)
	bottomLeft := corner(-halfW, -halfH)
	bottomRight := corner(halfW, -halfH)

	c.normalLeft = topLeft.Cross(bottomLeft).Normalize()
	c.normalRight = bottomRight.Cross(topRight).Normalize()
	c.normalTop = topRight.Cross(topLeft).Normalize()
	c.normalBottom = bottomLeft.Cross(bottomRight).Normalize()
}

// GetRay builds the primary ray through pixel (x, y)'s center.
func (c *Camera) GetRay(x, y int) core.Ray {
	local := core.NewVec3(
		float64(x)+0.5-float64(c.Width)/2,
		float64(c.Height)/2-(float64(y)+0.5),
		c.planeZ,
	)
	direction := mulDirection(c.matrix, local).Normalize()
	return core.NewRay(c.Position, direction)
}

// WorldToScreen projects p approximately onto the screen by measuring its
// offset from the camera against the four frustum-side normals. rng
// supplies a ±0.5 pixel jitter so repeated reprojections of a static
// point don't always round the same way. ok is false when p lies behind
// the camera or the projected pixel falls outside [0,width) x [0,height).
func (c *Camera) WorldToScreen(p core.Vec3, rng *core.Rng) (x, y int, ok bool) {
	d := p.Subtract(c.Position)
	if d.Dot(c.back) >= 0 {
		return 0, 0, false
	}

	left := d.Dot(c.normalLeft)
	right := d.Dot(c.normalRight)
	top := d.Dot(c.normalTop)
	bottom := d.Dot(c.normalBottom)

	denomU := left + right
	denomV := top + bottom
	if denomU == 0 || denomV == 0 {
		return 0, 0, false
	}

	u := left / denomU
	v := top / denomV

	jitterX := (rng.Float() - 0.5)
	jitterY := (rng.Float() - 0.5)

	fx := u*float64(c.Width) + jitterX
	fy := v*float64(c.Height) + jitterY

	x = int(math.Floor(fx))
	y = int(math.Floor(fy))
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return 0, 0, false
	}
	return x, y, true
}

func mulDirection(m mgl64.Mat4, d core.Vec3) core.Vec3 {
	v := m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return core.NewVec3(v[0], v[1], v[2])
}
