package renderer

import (
	"image"
	"sync"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// DoubleFrameBuffer is the presentation surface: a front buffer the web
// server reads from and a back buffer the render loop writes into. Swap
// exchanges the two under a lock, so a reader never observes a half-drawn
// frame.
type DoubleFrameBuffer struct {
	mu    sync.Mutex
	front *image.RGBA
	back  *image.RGBA
}

// NewDoubleFrameBuffer allocates both buffers at width x height.
func NewDoubleFrameBuffer(width, height int) *DoubleFrameBuffer {
	return &DoubleFrameBuffer{
		front: image.NewRGBA(image.Rect(0, 0, width, height)),
		back:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Back returns the buffer the render loop should draw the next frame
// into. Only the render loop may call this; it is not safe for
// concurrent writers.
func (d *DoubleFrameBuffer) Back() *image.RGBA {
	return d.back
}

// Swap exchanges front and back under the lock, publishing the
// just-rendered frame to readers.
func (d *DoubleFrameBuffer) Swap() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.front, d.back = d.back, d.front
}

// Front returns a copy of the current front buffer for presentation. A
// copy is returned (rather than the pointer) so the caller can hold onto
// it across an HTTP write without racing the next Swap.
func (d *DoubleFrameBuffer) Front() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := image.NewRGBA(d.front.Rect)
	copy(cp.Pix, d.front.Pix)
	return cp
}

// ReservoirSlot identifies one of the three reservoir buffers a frame
// cycles between.
type ReservoirSlot int

const (
	ReservoirCurrent ReservoirSlot = iota
	ReservoirPrevious
	ReservoirScratch
)

// TripleReservoirBuffer holds the current frame's reservoirs, the
// previous frame's (read by temporal reuse), and a scratch buffer (the
// spatial pass's combine target, so it never reads and writes the same
// slot while a neighbour is concurrently writing its own pixel).
type TripleReservoirBuffer struct {
	width, height int
	buffers       [3][]core.Reservoir
	current       ReservoirSlot
	previous      ReservoirSlot
	scratch       ReservoirSlot
}

// NewTripleReservoirBuffer allocates three width x height reservoir
// grids, all zero-valued (an empty reservoir, WeightOut 0).
func NewTripleReservoirBuffer(width, height int) *TripleReservoirBuffer {
	t := &TripleReservoirBuffer{
		width: width, height: height,
		current: 0, previous: 1, scratch: 2,
	}
	for i := range t.buffers {
		t.buffers[i] = make([]core.Reservoir, width*height)
	}
	return t
}

func (t *TripleReservoirBuffer) index(x, y int) int {
	return y*t.width + x
}

// Current returns the reservoir at (x, y) in the buffer this frame is
// writing into.
func (t *TripleReservoirBuffer) Current(x, y int) *core.Reservoir {
	return &t.buffers[t.current][t.index(x, y)]
}

// Previous returns the reservoir at (x, y) as it stood after the
// previous frame, read-only input to temporal reuse.
func (t *TripleReservoirBuffer) Previous(x, y int) *core.Reservoir {
	return &t.buffers[t.previous][t.index(x, y)]
}

// Scratch returns the reservoir at (x, y) in the spatial pass's combine
// target, so in-place neighbour reads never race a neighbour's write.
func (t *TripleReservoirBuffer) Scratch(x, y int) *core.Reservoir {
	return &t.buffers[t.scratch][t.index(x, y)]
}

// PromoteScratchToCurrent makes the spatial pass's combine results the
// frame's current reservoirs — called once after the spatial pass
// barrier, before shading reads Current.
func (t *TripleReservoirBuffer) PromoteScratchToCurrent() {
	t.current, t.scratch = t.scratch, t.current
}

// Advance rotates buffers at frame end: current becomes previous for the
// next frame's temporal reuse, and the old previous becomes the new
// scratch (its contents are about to be overwritten, so reuse is free).
func (t *TripleReservoirBuffer) Advance() {
	t.current, t.previous, t.scratch = t.scratch, t.current, t.previous
}

// Reset zeroes a slot, used when history must be invalidated (e.g. after
// a Settings change or scene reload).
func (t *TripleReservoirBuffer) Reset(slot ReservoirSlot) {
	buf := t.buffers[t.slotIndex(slot)]
	for i := range buf {
		buf[i] = core.Reservoir{}
	}
}

func (t *TripleReservoirBuffer) slotIndex(slot ReservoirSlot) ReservoirSlot {
	switch slot {
	case ReservoirCurrent:
		return t.current
	case ReservoirPrevious:
		return t.previous
	default:
		return t.scratch
	}
}
