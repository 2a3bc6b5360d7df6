package renderer

import (
	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// normalsPixel renders 0.5*normal+0.5 on hit (optionally the
// previous-frame normal), black background on miss.
func normalsPixel(scene core.Scene, settings core.Settings, x, y int) core.Vec3 {
	ray := scene.Camera.GetRay(x, y)
	scene.Accelerator.Traverse(&ray)
	if !ray.HitInfo.Hit {
		return core.Vec3{}
	}

	normal := ray.HitInfo.Normal
	if settings.RenderPrevNormals {
		normal = ray.HitInfo.PrevNormal
	}
	return normal.Multiply(0.5).Add(core.NewVec3(0.5, 0.5, 0.5))
}

// traversalStepsPixel false-colours the BVH traversal counter from the
// closest-hit query: a ramp from blue (few steps) to yellow (many).
func traversalStepsPixel(scene core.Scene, x, y int) core.Vec3 {
	ray := scene.Camera.GetRay(x, y)
	scene.Accelerator.Traverse(&ray)

	const expectedMaxSteps = 64.0
	t := float64(ray.HitInfo.TraversalStepsTotal) / expectedMaxSteps
	t = min(1, max(0, t))
	return core.NewVec3(t, t*t, 1-t)
}

// diPixel implements next-event-estimation direct illumination: either
// every light contributes, or candidateCountDI random ones do (each
// scaled by L/N to stay an unbiased estimator of the sum over all
// lights).
func diPixel(scene core.Scene, settings core.Settings, x, y int, rng *core.Rng) core.Vec3 {
	ray := scene.Camera.GetRay(x, y)
	scene.Accelerator.Traverse(&ray)
	if !ray.HitInfo.Hit || len(scene.Lights) == 0 {
		return core.Vec3{}
	}

	var sum core.Vec3
	if settings.SampleAllLightsDI {
		for _, light := range scene.Lights {
			sum = sum.Add(diContribution(scene, settings, ray.HitInfo, light))
		}
		return sum
	}

	lightCount := float64(len(scene.Lights))
	scale := lightCount / float64(settings.CandidateCountDI)
	for i := 0; i < settings.CandidateCountDI; i++ {
		light := scene.Lights[rng.Int(0, len(scene.Lights))]
		sum = sum.Add(diContribution(scene, settings, ray.HitInfo, light).Multiply(scale))
	}
	return sum
}

func diContribution(scene core.Scene, settings core.Settings, hit core.HitInfo, light core.PointLight) core.Vec3 {
	sample := core.NewSample(hit, light, 1, 1)
	if sample.BRDF <= 1e-3 {
		return core.Vec3{}
	}

	if settings.OcclusionCheckDI {
		origin := sample.HitPosition.Add(sample.LightDirection.Multiply(settings.Eta))
		shadowRay := core.NewRay(origin, sample.LightDirection)
		shadowRay.HitInfo.Distance = sample.LightDistance - 2*settings.Eta
		if scene.Accelerator.IsOccluded(shadowRay) {
			return core.Vec3{}
		}
	}

	return light.Emission.Multiply(sample.BRDF / (sample.LightDistance * sample.LightDistance))
}
