package renderer

import (
	"math"
	"testing"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

func TestCamera_CenterPixelPointsAlongForward(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), 60, 100, 100)
	ray := cam.GetRay(49, 49) // nearest to center (49.5, 49.5) of a 100x100 frame

	if ray.Direction.Z >= 0 {
		t.Fatalf("expected the center ray to point into the scene (negative Z), got %v", ray.Direction)
	}
	if math.Abs(ray.Direction.X) > 0.05 || math.Abs(ray.Direction.Y) > 0.05 {
		t.Errorf("center ray direction = %v, want close to straight ahead", ray.Direction)
	}
}

func TestCamera_RayOriginatesAtCameraPosition(t *testing.T) {
	pos := core.NewVec3(1, 2, 3)
	cam := NewCamera(pos, core.NewVec3(0, 0, 0), 60, 64, 64)
	ray := cam.GetRay(32, 32)

	if ray.Origin != pos {
		t.Errorf("Origin = %v, want %v", ray.Origin, pos)
	}
}

func TestCamera_WorldToScreen_RoundTripsStationaryPoint(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), 60, 200, 150)
	rng := core.NewRng(1, false)

	px, py := 100, 80
	ray := cam.GetRay(px, py)
	worldPoint := ray.At(10) // some point 10 units down the ray

	x, y, ok := cam.WorldToScreen(worldPoint, &rng)
	if !ok {
		t.Fatalf("expected WorldToScreen to find a valid pixel for a point in front of the camera")
	}
	if abs(x-px) > 1 || abs(y-py) > 1 {
		t.Errorf("WorldToScreen(%v) = (%d,%d), want within 1px of (%d,%d)", worldPoint, x, y, px, py)
	}
}

func TestCamera_WorldToScreen_RejectsBehindCamera(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), 60, 200, 150)
	rng := core.NewRng(1, false)

	behind := core.NewVec3(0, 0, 100) // camera looks toward -Z
	_, _, ok := cam.WorldToScreen(behind, &rng)
	if ok {
		t.Errorf("expected a point behind the camera to be rejected")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
