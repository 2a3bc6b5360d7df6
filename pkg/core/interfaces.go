package core

// Logger is the renderer's logging sink.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Accelerator is the TLAS contract the renderer core consumes: closest-hit
// and any-hit queries over a set of rigidly-transformed instances. The
// concrete implementation lives in pkg/accel; this interface exists so the
// renderer core never imports that package's instance-management details.
type Accelerator interface {
	// Traverse finds the closest intersection along ray and populates
	// ray.HitInfo (including the previous-frame position/normal).
	Traverse(ray *Ray)
	// IsOccluded reports whether any intersection exists within
	// ray.HitInfo.Distance.
	IsOccluded(ray Ray) bool
}

// CameraModel is the contract the renderer core needs from a camera:
// primary ray generation and the approximate world-to-screen reprojection
// used by temporal reuse.
type CameraModel interface {
	GetRay(x, y int) Ray
	// WorldToScreen projects p approximately onto the screen, jittering by
	// up to half a pixel using rng. ok is false if p is behind the camera
	// or the projection lands outside [0,width)x[0,height).
	WorldToScreen(p Vec3, rng *Rng) (x, y int, ok bool)
}
