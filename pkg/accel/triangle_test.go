package accel

import (
	"testing"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

func TestTriangleHit_StraightOnRayHits(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
	)

	origin := core.NewVec3(0, 0, -5)
	direction := core.NewVec3(0, 0, 1)

	dist, ok := tri.hit(origin, direction, 1e-4, 1e9)
	if !ok {
		t.Fatalf("expected a hit through the triangle's centroid")
	}
	if dist <= 0 || dist >= 10 {
		t.Errorf("dist = %f, want roughly 5", dist)
	}
}

func TestTriangleHit_MissesOutsideEdges(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
	)

	origin := core.NewVec3(10, 10, -5)
	direction := core.NewVec3(0, 0, 1)

	if _, ok := tri.hit(origin, direction, 1e-4, 1e9); ok {
		t.Errorf("expected a miss far outside the triangle's bounds")
	}
}

func TestTriangleHit_ParallelRayMisses(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
	)

	origin := core.NewVec3(0, 0, -5)
	direction := core.NewVec3(1, 0, 0) // parallel to the triangle's plane

	if _, ok := tri.hit(origin, direction, 1e-4, 1e9); ok {
		t.Errorf("expected a miss for a ray parallel to the triangle's plane")
	}
}

func TestTriangleHit_RespectsTMaxTMin(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
	)
	origin := core.NewVec3(0, 0, -5)
	direction := core.NewVec3(0, 0, 1)

	if _, ok := tri.hit(origin, direction, 1e-4, 4); ok {
		t.Errorf("expected tMax=4 to reject a hit at distance ~5")
	}
}
