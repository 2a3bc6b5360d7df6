package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

func TestSaveLoad_RoundTripsNonDefaultFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := core.DefaultSettings()
	settings.Mode = core.ModeDI
	settings.CandidateCountRestir = 7
	settings.SpatialPixelRadius = 12
	settings.EnableSpatialReuse = false

	if err := Save(path, settings); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if loaded.Mode != core.ModeDI {
		t.Errorf("Mode = %v, want %v", loaded.Mode, core.ModeDI)
	}
	if loaded.CandidateCountRestir != 7 {
		t.Errorf("CandidateCountRestir = %d, want 7", loaded.CandidateCountRestir)
	}
	if loaded.SpatialPixelRadius != 12 {
		t.Errorf("SpatialPixelRadius = %d, want 12", loaded.SpatialPixelRadius)
	}
	if loaded.EnableSpatialReuse {
		t.Errorf("expected EnableSpatialReuse to round-trip as false")
	}
}

func TestLoad_AppliesClampToOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	body := "tile_size: 1000\nthread_count: -1\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.TileSize != 256 {
		t.Errorf("TileSize = %d, want clamped to 256", loaded.TileSize)
	}
	if loaded.ThreadCount <= 0 {
		t.Errorf("ThreadCount = %d, want a positive clamped value", loaded.ThreadCount)
	}
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestLoad_MalformedYAMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("mode: [unterminated\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}
