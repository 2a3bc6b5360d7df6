package renderer

import (
	"testing"
	"time"
)

func TestRenderStats_ZeroValueIsHistoryInvalid(t *testing.T) {
	var stats RenderStats
	if stats.HistoryValid {
		t.Errorf("expected the zero-value RenderStats to report invalid history")
	}
}

func TestRenderStats_CarriesFrameDuration(t *testing.T) {
	stats := RenderStats{FrameDuration: 16 * time.Millisecond}
	if stats.FrameDuration != 16*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 16ms", stats.FrameDuration)
	}
}
