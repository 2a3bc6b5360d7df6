package core

// Sample represents a candidate shading path camera -> surface point ->
// point light: the first-hit geometry, the chosen light, and the
// statistical weight/pdf/contribution RIS needs to resample it.
type Sample struct {
	// From the first hit.
	Hit             bool
	HitDistance     float64
	HitPosition     Vec3
	HitNormal       Vec3
	HitPrevPosition Vec3
	HitPrevNormal   Vec3

	// From the chosen light.
	Light          PointLight
	LightDirection Vec3 // unit vector from hit toward the light
	LightDistance  float64

	// Geometric.
	BRDF float64 // max(0, dot(hit_normal, light_direction))

	// Statistical — drive RIS.
	Weight       float64 // 1 / source pdf for this candidate
	PDF          float64 // source pdf
	Contribution float64 // target function p-hat = max_channel(BRDF*emission/d^2)
}

// NewSample builds a Sample from a hit, the chosen light, and the
// candidate's weight/pdf.
func NewSample(hit HitInfo, light PointLight, weight, pdf float64) Sample {
	s := Sample{
		Hit:             hit.Hit,
		HitDistance:     hit.Distance,
		HitPosition:     hit.Position,
		HitNormal:       hit.Normal,
		HitPrevPosition: hit.PrevPosition,
		HitPrevNormal:   hit.PrevNormal,
		Weight:          weight,
		PDF:             pdf,
	}
	s.setLight(light)
	return s
}

// setLight recomputes direction/distance/BRDF/contribution for a light
// against the sample's existing hit fields.
func (s *Sample) setLight(light PointLight) {
	s.Light = light
	if !s.Hit {
		s.BRDF = 0
		s.Contribution = 0
		return
	}

	toLight := light.Position.Subtract(s.HitPosition)
	s.LightDistance = toLight.Length()
	if s.LightDistance == 0 {
		s.LightDirection = Vec3{}
	} else {
		s.LightDirection = toLight.Multiply(1 / s.LightDistance)
	}

	s.BRDF = max(0, s.HitNormal.Dot(s.LightDirection))
	s.Contribution = s.targetFunction()
}

// ReplaceLight recomputes direction/distance/BRDF/contribution for a new
// light while keeping the hit — used when a reused reservoir's chosen
// light is applied to this pixel's own surface.
func (s *Sample) ReplaceLight(newLight PointLight) {
	s.setLight(newLight)
}

func (s *Sample) targetFunction() float64 {
	if s.LightDistance == 0 {
		return 0
	}
	unshadowed := s.Light.Emission.Multiply(s.BRDF / (s.LightDistance * s.LightDistance))
	return unshadowed.MaxComponent()
}
