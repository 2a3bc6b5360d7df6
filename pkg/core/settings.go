package core

import (
	"fmt"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RenderMode selects the pipeline a frame runs through.
type RenderMode int

const (
	ModeNormals RenderMode = iota
	ModeTraversalSteps
	ModeDI
	ModeReSTIR
)

var renderModeNames = map[RenderMode]string{
	ModeNormals:        "normals",
	ModeTraversalSteps: "traversal-steps",
	ModeDI:             "di",
	ModeReSTIR:         "restir",
}

var renderModesByName = map[string]RenderMode{
	"normals":         ModeNormals,
	"traversal-steps": ModeTraversalSteps,
	"di":              ModeDI,
	"restir":          ModeReSTIR,
}

// String returns the mode's config-file name, e.g. "restir".
func (m RenderMode) String() string {
	if name, ok := renderModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// MarshalYAML renders the mode as its string name so config files read
// "mode: restir" instead of a bare integer.
func (m RenderMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML accepts either the string name or the legacy integer form.
func (m *RenderMode) UnmarshalYAML(node *yaml.Node) error {
	if mode, ok := renderModesByName[node.Value]; ok {
		*m = mode
		return nil
	}
	if n, err := strconv.Atoi(node.Value); err == nil {
		*m = RenderMode(n)
		return nil
	}
	return fmt.Errorf("unknown render mode %q", node.Value)
}

// Settings is the full set of user-tunable render parameters. Equality is
// field-wise; submitting a Settings that differs from the live one triggers
// one frame of history invalidation (see Renderer.beginFrame).
type Settings struct {
	Mode RenderMode `yaml:"mode"`

	ThreadCount  int `yaml:"thread_count"`
	FrameWidth   int `yaml:"frame_width"`
	FrameHeight  int `yaml:"frame_height"`
	TileSize     int `yaml:"tile_size"`

	RandomSeed bool    `yaml:"random_seed"`
	Eta        float64 `yaml:"eta"`

	RenderPrevNormals bool `yaml:"render_prev_normals"`

	OcclusionCheckDI  bool `yaml:"occlusion_check_di"`
	SampleAllLightsDI bool `yaml:"sample_all_lights_di"`
	CandidateCountDI  int  `yaml:"candidate_count_di"`

	CandidateCountRestir int `yaml:"candidate_count_restir"`

	EnableVisibilityPass bool `yaml:"enable_visibility_pass"`

	EnableTemporalReuse             bool    `yaml:"enable_temporal_reuse"`
	TemporalSampleCountRatio        int     `yaml:"temporal_sample_count_ratio"`
	TemporalMaxDistance             float64 `yaml:"temporal_max_distance"`
	TemporalMaxDistanceDepthScaling float64 `yaml:"temporal_max_distance_depth_scaling"`
	TemporalMinNormalSimilarity     float64 `yaml:"temporal_min_normal_similarity"`

	EnableSpatialReuse             bool    `yaml:"enable_spatial_reuse"`
	SpatialReuseNeighbours         int     `yaml:"spatial_reuse_neighbours"`
	SpatialPixelRadius             int     `yaml:"spatial_pixel_radius"`
	SpatialMaxDistance             float64 `yaml:"spatial_max_distance"`
	SpatialMaxDistanceDepthScaling float64 `yaml:"spatial_max_distance_depth_scaling"`
	SpatialMinNormalSimilarity     float64 `yaml:"spatial_min_normal_similarity"`

	// LightBox* describe the region scenebuild.GenerateLights scatters
	// point lights over; LightCount/LightStrength/Light*Seed pick how many,
	// how bright, and from which PCG32 streams. Regenerating lights always
	// goes through Renderer.SubmitScene, which invalidates history.
	LightBoxSize      Vec3    `yaml:"light_box_size"`
	LightBoxPosition  Vec3    `yaml:"light_box_position"`
	LightCount        int     `yaml:"light_count"`
	LightStrength     float64 `yaml:"light_strength"`
	LightColorSeed    uint32  `yaml:"light_color_seed"`
	LightLocationSeed uint32  `yaml:"light_location_seed"`
}

// DefaultSettings mirrors the original project's RendererSettings defaults.
func DefaultSettings() Settings {
	return Settings{
		Mode: ModeReSTIR,

		ThreadCount: runtime.NumCPU(),
		FrameWidth:  1920,
		FrameHeight: 1080,
		TileSize:    32,

		RandomSeed: true,
		Eta:        0.001,

		RenderPrevNormals: false,

		OcclusionCheckDI:  true,
		SampleAllLightsDI: false,
		CandidateCountDI:  1,

		CandidateCountRestir: 3,

		EnableVisibilityPass: true,

		EnableTemporalReuse:             true,
		TemporalSampleCountRatio:        15,
		TemporalMaxDistance:             0.1,
		TemporalMaxDistanceDepthScaling: 0.015,
		TemporalMinNormalSimilarity:     0.75,

		EnableSpatialReuse:             true,
		SpatialReuseNeighbours:         3,
		SpatialPixelRadius:             10,
		SpatialMaxDistance:             0.16,
		SpatialMaxDistanceDepthScaling: 0.02,
		SpatialMinNormalSimilarity:     0.96,

		LightBoxSize:      NewVec3(50, 7, 9),
		LightBoxPosition:  NewVec3(0, 4.5, 0.5),
		LightCount:        100,
		LightStrength:     1,
		LightColorSeed:    0,
		LightLocationSeed: 0,
	}
}

// Equals reports field-wise equality between two Settings values.
func (s Settings) Equals(other Settings) bool {
	return s == other
}

// Clamp enforces the invariants from the settings enumeration: tile size in
// [4,256], thread count within available cores, and spatial neighbour count
// bounded by the pixel radius.
func (s *Settings) Clamp() {
	if s.ThreadCount <= 0 || s.ThreadCount > runtime.NumCPU() {
		s.ThreadCount = runtime.NumCPU()
	}
	if s.TileSize < 4 {
		s.TileSize = 4
	}
	if s.TileSize > 256 {
		s.TileSize = 256
	}
	if s.SpatialPixelRadius < 3 {
		s.SpatialPixelRadius = 3
	}
	if maxNeighbours := s.SpatialPixelRadius - 5; s.SpatialReuseNeighbours > maxNeighbours {
		s.SpatialReuseNeighbours = max(0, maxNeighbours)
	}
	if s.LightCount < 0 {
		s.LightCount = 0
	}
	if s.LightCount > 10000 {
		s.LightCount = 10000
	}
}
