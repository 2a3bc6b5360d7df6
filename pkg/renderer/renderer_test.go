package renderer

import (
	"math"
	"testing"

	"github.com/kallidan/restir-di-renderer/pkg/accel"
	"github.com/kallidan/restir-di-renderer/pkg/core"
	"github.com/kallidan/restir-di-renderer/pkg/xform"
)

// floorScene builds the scenario from the design notes: a horizontal
// plane at y=0 (normal +Y), one white light at (0,1,0), camera at
// (0, 0.5, 0) looking straight down.
func floorScene(width, height int) core.Scene {
	half := 50.0
	floor := accel.NewBlas([]accel.Triangle{
		accel.NewTriangle(core.NewVec3(-half, 0, -half), core.NewVec3(half, 0, half), core.NewVec3(half, 0, -half)),
		accel.NewTriangle(core.NewVec3(-half, 0, -half), core.NewVec3(-half, 0, half), core.NewVec3(half, 0, half)),
	})

	tlas := accel.NewTlas()
	tlas.AddInstance("floor", floor, xform.Identity())

	cam := NewCamera(core.NewVec3(0, 0.5, 0), core.NewVec3(-90, 0, 0), 60, width, height)

	return core.Scene{
		Camera:      cam,
		Accelerator: tlas,
		Lights:      []core.PointLight{core.NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1), 1)},
	}
}

func TestNormalsPixel_CenterMatchesUpwardNormal(t *testing.T) {
	scene := floorScene(64, 64)
	settings := core.DefaultSettings()

	col := normalsPixel(scene, settings, 31, 31)
	want := core.NewVec3(0.5, 1.0, 0.5)

	if math.Abs(col.X-want.X) > 0.05 || math.Abs(col.Y-want.Y) > 0.05 || math.Abs(col.Z-want.Z) > 0.05 {
		t.Errorf("normalsPixel center = %v, want ~%v", col, want)
	}
}

func TestDIPixel_MatchesLambertianPointLightFormula(t *testing.T) {
	scene := floorScene(64, 64)
	settings := core.DefaultSettings()
	settings.SampleAllLightsDI = true
	settings.OcclusionCheckDI = false
	rng := core.NewRng(1, false)

	col := diPixel(scene, settings, 31, 31, &rng)

	// d = 0.5, BRDF = 1, emission = (1,1,1) => 1/0.25 = 4 per channel.
	want := 4.0
	if math.Abs(col.X-want) > 0.2 || math.Abs(col.Y-want) > 0.2 || math.Abs(col.Z-want) > 0.2 {
		t.Errorf("diPixel center = %v, want ~(%.1f,%.1f,%.1f)", col, want, want, want)
	}
}

func TestRenderer_RunSinglePassFillsEveryPixel(t *testing.T) {
	scene := floorScene(16, 16)
	settings := core.DefaultSettings()
	settings.Mode = core.ModeDI
	settings.FrameWidth, settings.FrameHeight = 16, 16
	settings.ThreadCount = 2
	settings.SampleAllLightsDI = true

	r := NewRenderer(settings, scene, nil)
	stats := r.RenderFrame()

	if stats.Width != 16 || stats.Height != 16 {
		t.Errorf("stats dims = %dx%d, want 16x16", stats.Width, stats.Height)
	}

	img := r.Front()
	var anyNonBlack bool
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			anyNonBlack = true
			break
		}
	}
	if !anyNonBlack {
		t.Errorf("expected at least one lit pixel after a DI frame")
	}
}

func TestRenderer_ReSTIRModeRunsWithoutPanicking(t *testing.T) {
	scene := floorScene(8, 8)
	settings := core.DefaultSettings()
	settings.FrameWidth, settings.FrameHeight = 8, 8
	settings.TileSize = 4
	settings.ThreadCount = 2
	settings.CandidateCountRestir = 2
	settings.SpatialReuseNeighbours = 0

	r := NewRenderer(settings, scene, nil)
	r.RenderFrame()
	r.RenderFrame() // second frame exercises temporal reuse with valid history
}

func TestRenderer_SettingsChangeInvalidatesHistoryForOneFrame(t *testing.T) {
	scene := floorScene(8, 8)
	settings := core.DefaultSettings()
	settings.FrameWidth, settings.FrameHeight = 8, 8
	settings.TileSize = 4
	settings.ThreadCount = 2

	r := NewRenderer(settings, scene, nil)
	first := r.RenderFrame()
	if first.HistoryValid {
		t.Errorf("expected the very first frame to report invalid history")
	}

	second := r.RenderFrame()
	if !second.HistoryValid {
		t.Errorf("expected history to become valid once settings stop changing")
	}

	changed := settings
	changed.Eta = settings.Eta * 2
	r.SubmitSettings(changed)
	third := r.RenderFrame()
	if third.HistoryValid {
		t.Errorf("expected a settings change to invalidate history for exactly one frame")
	}
}
