package core

// PointLight is an immutable-per-frame point light: a position and an
// emission color (already color * intensity — no separate intensity
// scalar carried past construction).
type PointLight struct {
	Position Vec3
	Emission Vec3
}

// NewPointLight builds a PointLight from a color and a scalar intensity.
func NewPointLight(position, color Vec3, intensity float64) PointLight {
	return PointLight{Position: position, Emission: color.Multiply(intensity)}
}
