package renderer

import (
	"math"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// risPixel builds the initial-candidate reservoir for one pixel: draw
// candidateCountRestir point lights uniformly, resampling the primary
// hit's Sample against each.
func risPixel(scene core.Scene, settings core.Settings, x, y int, rng *core.Rng) core.Reservoir {
	var reservoir core.Reservoir
	if len(scene.Lights) == 0 {
		return reservoir
	}

	ray := scene.Camera.GetRay(x, y)
	scene.Accelerator.Traverse(&ray)

	lightCount := float64(len(scene.Lights))
	for i := 0; i < settings.CandidateCountRestir; i++ {
		light := scene.Lights[rng.Int(0, len(scene.Lights))]
		sample := core.NewSample(ray.HitInfo, light, lightCount, 1/lightCount)
		weight := 0.0
		if sample.PDF > 0 {
			weight = sample.Contribution / sample.PDF
		}
		reservoir.Update(rng, sample, weight)
	}
	reservoir.FinalizeWeight()
	return reservoir
}

// visibilityPixel implements the pre-shading visibility pass: a
// reservoir's stored sample is zeroed out (W = 0) if it didn't hit, faces
// away from its light, or is shadowed.
func visibilityPixel(scene core.Scene, settings core.Settings, reservoir *core.Reservoir) {
	s := reservoir.Sample
	if !s.Hit || s.LightDirection.Dot(s.HitNormal) < 1e-3 {
		reservoir.WeightOut = 0
		return
	}

	origin := s.HitPosition.Add(s.LightDirection.Multiply(settings.Eta))
	shadowRay := core.NewRay(origin, s.LightDirection)
	shadowRay.HitInfo.Distance = s.LightDistance - 2*settings.Eta
	if scene.Accelerator.IsOccluded(shadowRay) {
		reservoir.WeightOut = 0
	}
}

// reuseGates bundles the geometric rejection tests shared by temporal and
// spatial reuse: off-screen, no-hit, positional drift, and normal
// divergence all disqualify a candidate before it is ever combined.
type reuseGates struct {
	maxDistance             float64
	maxDistanceDepthScaling float64
	minNormalSimilarity     float64
}

func (g reuseGates) accepts(currentHitDistance float64, currentPos, candidatePos, currentNormal, candidateNormal core.Vec3) bool {
	threshold := g.maxDistance + g.maxDistanceDepthScaling*currentHitDistance
	if candidatePos.Subtract(currentPos).Length() > threshold {
		return false
	}
	if currentNormal.Dot(candidateNormal) < g.minNormalSimilarity {
		return false
	}
	return true
}

// rebindLight recomputes the combined reservoir's sample against the
// current pixel's own hit geometry but keeps the light the combine chose
// — reuse transfers *which light to sample*, never whose surface it is.
func rebindLight(combined *core.Reservoir, currentHit core.HitInfo) {
	light := combined.Sample.Light
	combined.Sample = core.NewSample(currentHit, light, combined.Sample.Weight, combined.Sample.PDF)
}

// temporalPixel reuses the previous frame's reservoir at the reprojected
// pixel into the current reservoir, subject to the reuse gates and a
// visibility check from the current surface to the previous sample's
// light.
func temporalPixel(scene core.Scene, prevCamera core.CameraModel, settings core.Settings, x, y int, reservoirs *TripleReservoirBuffer, rng *core.Rng) {
	current := reservoirs.Current(x, y)
	if !current.Sample.Hit {
		return
	}

	px, py, ok := prevCamera.WorldToScreen(current.Sample.HitPrevPosition, rng)
	if !ok || px < 0 || px >= reservoirs.width || py < 0 || py >= reservoirs.height {
		return
	}

	prev := *reservoirs.Previous(px, py)
	if !prev.Sample.Hit {
		return
	}

	gates := reuseGates{settings.TemporalMaxDistance, settings.TemporalMaxDistanceDepthScaling, settings.TemporalMinNormalSimilarity}
	if !gates.accepts(current.Sample.HitDistance, current.Sample.HitPrevPosition, prev.Sample.HitPosition, current.Sample.HitPrevNormal, prev.Sample.HitNormal) {
		return
	}

	if isOccludedTowardLight(scene, settings, current.Sample.HitPosition, current.Sample.HitNormal, prev.Sample.Light) {
		return
	}

	maxM := settings.TemporalSampleCountRatio * current.SampleCount
	if prev.SampleCount > maxM {
		prev.SampleCount = maxM
	}

	combined := core.CombineBiased(rng, *current, prev)
	rebindLight(&combined, core.HitInfo{
		Hit: current.Sample.Hit, Distance: current.Sample.HitDistance,
		Position: current.Sample.HitPosition, Normal: current.Sample.HitNormal,
		PrevPosition: current.Sample.HitPrevPosition, PrevNormal: current.Sample.HitPrevNormal,
	})
	combined.FinalizeWeight()
	*current = combined
}

// spatialPixel writes scratch[x,y] as the combination of current[x,y]
// with up to neighbours random pixels drawn from a disk, subject to the
// same reuse gates. Reads only Current (never Scratch) so iterations
// within the pass are independent.
func spatialPixel(scene core.Scene, settings core.Settings, x, y int, reservoirs *TripleReservoirBuffer, rng *core.Rng) {
	current := *reservoirs.Current(x, y)
	combined := current

	if current.Sample.Hit {
		gates := reuseGates{settings.SpatialMaxDistance, settings.SpatialMaxDistanceDepthScaling, settings.SpatialMinNormalSimilarity}

		for i := 0; i < settings.SpatialReuseNeighbours; i++ {
			nx, ny, ok := neighbourPixel(x, y, settings.SpatialPixelRadius, reservoirs.width, reservoirs.height, rng)
			if !ok {
				continue
			}
			neighbour := *reservoirs.Current(nx, ny)
			if !neighbour.Sample.Hit {
				continue
			}
			if !gates.accepts(current.Sample.HitDistance, current.Sample.HitPosition, neighbour.Sample.HitPosition, current.Sample.HitNormal, neighbour.Sample.HitNormal) {
				continue
			}
			if isOccludedTowardLight(scene, settings, current.Sample.HitPosition, current.Sample.HitNormal, neighbour.Sample.Light) {
				continue
			}

			combined = core.CombineBiased(rng, combined, neighbour)
		}

		rebindLight(&combined, core.HitInfo{
			Hit: current.Sample.Hit, Distance: current.Sample.HitDistance,
			Position: current.Sample.HitPosition, Normal: current.Sample.HitNormal,
			PrevPosition: current.Sample.HitPrevPosition, PrevNormal: current.Sample.HitPrevNormal,
		})
		combined.FinalizeWeight()
	}

	*reservoirs.Scratch(x, y) = combined
}

// neighbourPixel draws a pixel offset from (x, y) uniformly inside a disk
// of the given radius by rejection sampling a square and discarding
// offsets outside the Euclidean radius; offsets that land outside the
// frame or on (x, y) itself are rejected too. Returns ok = false only
// when no in-bounds candidate was found within the attempt budget.
func neighbourPixel(x, y, radius, width, height int, rng *core.Rng) (nx, ny int, ok bool) {
	const maxAttempts = 8
	for attempt := 0; attempt < maxAttempts; attempt++ {
		dx := rng.Int(-radius, radius+1)
		dy := rng.Int(-radius, radius+1)
		if math.Hypot(float64(dx), float64(dy)) > float64(radius) {
			continue
		}
		cx, cy := x+dx, y+dy
		if cx < 0 || cx >= width || cy < 0 || cy >= height {
			continue
		}
		if cx == x && cy == y {
			continue
		}
		return cx, cy, true
	}
	return 0, 0, false
}

// isOccludedTowardLight casts a shadow ray from a surface point toward a
// candidate light, used by reuse gating to reject a neighbour/previous
// sample whose light is blocked from the current surface.
func isOccludedTowardLight(scene core.Scene, settings core.Settings, position, normal core.Vec3, light core.PointLight) bool {
	toLight := light.Position.Subtract(position)
	distance := toLight.Length()
	if distance == 0 {
		return true
	}
	direction := toLight.Multiply(1 / distance)
	if direction.Dot(normal) < 1e-3 {
		return true
	}

	origin := position.Add(direction.Multiply(settings.Eta))
	shadowRay := core.NewRay(origin, direction)
	shadowRay.HitInfo.Distance = distance - 2*settings.Eta
	return scene.Accelerator.IsOccluded(shadowRay)
}

// shadePixel computes the final radiance for a reservoir: BRDF * emission
// / distance^2 * W, gated by an optional shadow ray.
func shadePixel(scene core.Scene, settings core.Settings, reservoir core.Reservoir) core.Vec3 {
	s := reservoir.Sample
	if !s.Hit || s.BRDF <= 1e-3 || reservoir.WeightOut <= 0 {
		return core.Vec3{}
	}

	if settings.EnableVisibilityPass {
		// Visibility pass already zeroed WeightOut for occluded samples.
	} else {
		origin := s.HitPosition.Add(s.LightDirection.Multiply(settings.Eta))
		shadowRay := core.NewRay(origin, s.LightDirection)
		shadowRay.HitInfo.Distance = s.LightDistance - 2*settings.Eta
		if scene.Accelerator.IsOccluded(shadowRay) {
			return core.Vec3{}
		}
	}

	unshadowed := s.Light.Emission.Multiply(s.BRDF / (s.LightDistance * s.LightDistance))
	return unshadowed.Multiply(reservoir.WeightOut)
}
