package renderer

import "testing"

func TestNewTileGrid_CoversEveryPixelExactlyOnce(t *testing.T) {
	grid := NewTileGrid(37, 21, 8)

	covered := make([][]bool, 21)
	for i := range covered {
		covered[i] = make([]bool, 37)
	}

	for _, tile := range grid.Tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by more than one tile", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < 21; y++ {
		for x := 0; x < 37; x++ {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
			}
		}
	}
}

func TestNewTileGrid_IndicesAreSequential(t *testing.T) {
	grid := NewTileGrid(16, 16, 8)
	for i, tile := range grid.Tiles {
		if tile.Index != i {
			t.Errorf("tile %d has Index %d, want %d", i, tile.Index, i)
		}
	}
}
