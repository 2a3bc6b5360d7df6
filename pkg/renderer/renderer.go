package renderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout.
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger returns a core.Logger backed by stdout.
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Renderer owns the render thread: the frame buffer, the reservoir
// history, the task batch, and the guarded settings/scene slots the
// presentation side submits into. One Renderer drives one endless render
// loop (Run); everything it touches outside that loop is reached only
// through the Slot hand-offs.
type Renderer struct {
	log core.Logger

	settingsSlot *Slot[core.Settings]
	sceneSlot    *Slot[*core.Scene]

	settings core.Settings
	scene    core.Scene
	prevCam  core.CameraModel

	frameBuffer *DoubleFrameBuffer
	reservoirs  *TripleReservoirBuffer
	grid        TileGrid
	batch       *TaskBatch

	validHistory bool
	frameNumber  int

	mu               sync.Mutex // guards Stats/CurrentSettings/CurrentScene against concurrent Run callers
	lastStats        RenderStats
	settingsSnapshot core.Settings
	sceneSnapshot    core.Scene
}

// NewRenderer constructs a Renderer with an initial settings/scene pair.
// Buffers are sized from settings.FrameWidth/FrameHeight.
func NewRenderer(settings core.Settings, scene core.Scene, log core.Logger) *Renderer {
	if log == nil {
		log = NewDefaultLogger()
	}
	settings.Clamp()

	r := &Renderer{
		log:              log,
		settingsSlot:     NewSlot(settings),
		sceneSlot:        NewSlot(&scene),
		settings:         settings,
		scene:            scene,
		prevCam:          scene.Camera,
		settingsSnapshot: settings,
		sceneSnapshot:    scene,
	}
	r.resize(settings.FrameWidth, settings.FrameHeight, settings.TileSize)
	r.batch = NewTaskBatch(settings.ThreadCount)
	return r
}

// Run drives the render loop until terminate is closed, calling
// RenderFrame once per iteration. Workers never suspend mid-tile; the
// loop only checks terminate between frames.
func (r *Renderer) Run(terminate <-chan struct{}) {
	for {
		select {
		case <-terminate:
			return
		default:
			r.RenderFrame()
		}
	}
}

// SubmitSettings hands new settings to the render thread for pickup at
// the next frame boundary.
func (r *Renderer) SubmitSettings(settings core.Settings) {
	settings.Clamp()
	r.settingsSlot.Set(settings)
}

// SubmitScene hands a new scene to the render thread for pickup at the
// next frame boundary.
func (r *Renderer) SubmitScene(scene core.Scene) {
	r.sceneSlot.Set(&scene)
}

// Front returns a copy of the current front framebuffer, safe to read
// from any goroutine (e.g. an HTTP handler).
func (r *Renderer) Front() *image.RGBA {
	return r.frameBuffer.Front()
}

// Stats returns the most recently completed frame's statistics.
func (r *Renderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStats
}

// CurrentSettings returns the settings the render thread last picked up,
// safe to call from any goroutine (e.g. an HTTP handler reporting state).
func (r *Renderer) CurrentSettings() core.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settingsSnapshot
}

// CurrentScene returns the scene the render thread last picked up, safe to
// call from any goroutine (e.g. an HTTP handler building a scene update out
// of the live instance poses).
func (r *Renderer) CurrentScene() core.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sceneSnapshot
}

func (r *Renderer) resize(width, height, tileSize int) {
	r.frameBuffer = NewDoubleFrameBuffer(width, height)
	r.reservoirs = NewTripleReservoirBuffer(width, height)
	r.grid = NewTileGrid(width, height, tileSize)
}

// RenderFrame runs exactly one iteration of the render loop: pick up any
// submitted settings/scene, dispatch the mode's passes across the tile
// grid, and swap the framebuffer. Run calls this in an endless loop;
// tests call it directly to drive the renderer frame by frame.
func (r *Renderer) RenderFrame() RenderStats {
	start := r.beginFrame()

	switch r.settings.Mode {
	case core.ModeReSTIR:
		r.runReSTIR()
	default:
		r.runSinglePass()
	}

	return r.endFrame(start)
}

func (r *Renderer) beginFrame() time.Time {
	newSettings := r.settingsSlot.Get()
	if !newSettings.Equals(r.settings) {
		r.validHistory = false
	}
	r.settings = newSettings
	r.mu.Lock()
	r.settingsSnapshot = newSettings
	r.mu.Unlock()

	if scenePtr := r.sceneSlot.Get(); scenePtr != nil {
		r.prevCam = r.scene.Camera
		r.scene = *scenePtr
		r.sceneSlot.Set(nil)
		// A submitted scene replaces lights and/or object poses outright;
		// last frame's reservoirs were built against the old scene, so
		// temporal reuse must not carry them forward.
		r.validHistory = false
	}
	r.mu.Lock()
	r.sceneSnapshot = r.scene
	r.mu.Unlock()

	width, height := r.settings.FrameWidth, r.settings.FrameHeight
	if r.grid.Width != width || r.grid.Height != height || r.grid.TileSize != r.settings.TileSize {
		r.resize(width, height, r.settings.TileSize)
		r.validHistory = false
	}
	if r.batch.NumWorkers() != r.settings.ThreadCount {
		r.batch.Close()
		r.batch = NewTaskBatch(r.settings.ThreadCount)
	}

	return time.Now()
}

func (r *Renderer) endFrame(start time.Time) RenderStats {
	r.frameBuffer.Swap()
	if r.settings.Mode == core.ModeReSTIR {
		r.reservoirs.Advance()
	}
	r.frameNumber++

	stats := RenderStats{
		FrameNumber:   r.frameNumber,
		FrameDuration: time.Since(start),
		Width:         r.settings.FrameWidth,
		Height:        r.settings.FrameHeight,
		Mode:          r.settings.Mode.String(),
		HistoryValid:  r.validHistory,
	}
	r.mu.Lock()
	r.lastStats = stats
	r.mu.Unlock()

	r.validHistory = true
	return stats
}

// runSinglePass handles Normals/TraversalSteps/DI: one barrier over all
// tiles, writing directly into the back framebuffer.
func (r *Renderer) runSinglePass() {
	jobs := make([]func(), len(r.grid.Tiles))
	for i, tile := range r.grid.Tiles {
		tile := tile
		jobs[i] = func() { r.renderTileSinglePass(tile) }
	}
	r.batch.Run(jobs)
}

func (r *Renderer) renderTileSinglePass(tile Tile) {
	back := r.frameBuffer.Back()
	rng := core.NewRng(uint32(tile.Index), r.settings.RandomSeed)

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			var col core.Vec3
			switch r.settings.Mode {
			case core.ModeNormals:
				col = normalsPixel(r.scene, r.settings, x, y)
			case core.ModeTraversalSteps:
				col = traversalStepsPixel(r.scene, x, y)
			case core.ModeDI:
				col = diPixel(r.scene, r.settings, x, y, &rng)
			}
			setPixel(back, x, y, col)
		}
	}
}

// runReSTIR runs the five ReSTIR passes in order, each a hard barrier
// over the tile grid, per the mode's pipeline.
func (r *Renderer) runReSTIR() {
	r.runBarrier(func(x, y int, rng *core.Rng) {
		*r.reservoirs.Current(x, y) = risPixel(r.scene, r.settings, x, y, rng)
	})

	if r.settings.EnableVisibilityPass {
		r.runBarrier(func(x, y int, rng *core.Rng) {
			visibilityPixel(r.scene, r.settings, r.reservoirs.Current(x, y))
		})
	}

	if r.settings.EnableTemporalReuse && r.validHistory {
		r.runBarrier(func(x, y int, rng *core.Rng) {
			temporalPixel(r.scene, r.prevCam, r.settings, x, y, r.reservoirs, rng)
		})
	}

	if r.settings.EnableSpatialReuse {
		r.runBarrier(func(x, y int, rng *core.Rng) {
			spatialPixel(r.scene, r.settings, x, y, r.reservoirs, rng)
		})
		r.reservoirs.PromoteScratchToCurrent()
	}

	r.runBarrier(func(x, y int, rng *core.Rng) {
		col := shadePixel(r.scene, r.settings, *r.reservoirs.Current(x, y))
		setPixel(r.frameBuffer.Back(), x, y, col)
	})
}

// runBarrier dispatches fn over every pixel of every tile in the grid and
// blocks until all tiles complete — the TaskBatch fork/join the ReSTIR
// passes use as their hard barrier.
func (r *Renderer) runBarrier(fn func(x, y int, rng *core.Rng)) {
	jobs := make([]func(), len(r.grid.Tiles))
	for i, tile := range r.grid.Tiles {
		tile := tile
		jobs[i] = func() {
			rng := core.NewRng(uint32(tile.Index), r.settings.RandomSeed)
			for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
				for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
					fn(x, y, &rng)
				}
			}
		}
	}
	r.batch.Run(jobs)
}

// setPixel writes a linear-space color into an RGBA8 framebuffer with
// saturation, no gamma curve.
func setPixel(img *image.RGBA, x, y int, c core.Vec3) {
	clamped := c.Clamp(0, 1)
	img.SetRGBA(x, y, color.RGBA{
		R: uint8(clamped.X*255 + 0.5),
		G: uint8(clamped.Y*255 + 0.5),
		B: uint8(clamped.Z*255 + 0.5),
		A: 255,
	})
}
