package renderer

import "time"

// RenderStats summarizes one completed frame for diagnostics and the web
// presentation layer; it carries no information the render loop itself
// depends on.
type RenderStats struct {
	FrameNumber   int
	FrameDuration time.Duration
	Width, Height int
	Mode          string
	HistoryValid  bool
}
