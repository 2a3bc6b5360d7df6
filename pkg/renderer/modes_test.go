package renderer

import (
	"testing"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

func TestTraversalStepsPixel_ChannelStaysInUnitRange(t *testing.T) {
	scene := floorScene(16, 16)
	col := traversalStepsPixel(scene, 0, 0)
	if col.X < 0 || col.X > 1 {
		t.Errorf("traversalStepsPixel channel out of [0,1]: %v", col)
	}
}

func TestDIPixel_SubsamplingIsUnbiasedInExpectation(t *testing.T) {
	scene := floorScene(16, 16)
	scene.Lights = []core.PointLight{
		core.NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), 1),
		core.NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), 1),
	}
	settings := core.DefaultSettings()
	settings.SampleAllLightsDI = false
	settings.CandidateCountDI = 1
	settings.OcclusionCheckDI = false

	const trials = 2000
	var sum core.Vec3
	for i := 0; i < trials; i++ {
		rng := core.NewRng(uint32(i), false)
		sum = sum.Add(diPixel(scene, settings, 8, 8, &rng))
	}
	mean := sum.Multiply(1.0 / trials)

	settings.SampleAllLightsDI = true
	rngAll := core.NewRng(1, false)
	groundTruth := diPixel(scene, settings, 8, 8, &rngAll)

	tolerance := 0.3
	if absf(mean.X-groundTruth.X) > tolerance || absf(mean.Y-groundTruth.Y) > tolerance {
		t.Errorf("subsampled mean %v too far from ground truth %v", mean, groundTruth)
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
