package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenderHeadless_WritesPNGForDefaultScene(t *testing.T) {
	out := filepath.Join(t.TempDir(), "render.png")
	cfg := cliConfig{
		Width:  32,
		Height: 24,
		Frames: 2,
		Output: out,
	}

	if err := renderHeadless(cfg); err != nil {
		t.Fatalf("renderHeadless returned error: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("expected a non-empty PNG file")
	}
}

func TestRenderHeadless_MissingMeshReturnsError(t *testing.T) {
	cfg := cliConfig{
		Width:     16,
		Height:    16,
		Frames:    1,
		Output:    filepath.Join(t.TempDir(), "render.png"),
		SceneMesh: filepath.Join(t.TempDir(), "does-not-exist.obj"),
	}

	if err := renderHeadless(cfg); err == nil {
		t.Fatalf("expected an error for a missing mesh file")
	}
}

func TestRenderHeadless_BadConfigFileReturnsError(t *testing.T) {
	cfg := cliConfig{
		Width:      16,
		Height:     16,
		Frames:     1,
		Output:     filepath.Join(t.TempDir(), "render.png"),
		ConfigFile: filepath.Join(t.TempDir(), "does-not-exist.yaml"),
	}

	if err := renderHeadless(cfg); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
