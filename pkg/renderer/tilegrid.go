package renderer

import "image"

// Tile is one rectangular region of the frame, the unit of work a worker
// processes without coordinating with any other tile in the same pass.
type Tile struct {
	Bounds image.Rectangle
	Index  int
}

// TileGrid partitions a frame into non-overlapping tiles of tileSize
// pixels (the final row/column may be smaller). Tile size is an ambient
// scheduling knob, not geometry, so the same grid is reused by every
// pass in a frame.
type TileGrid struct {
	Width, Height, TileSize int
	Tiles                   []Tile
}

// NewTileGrid partitions width x height into tileSize x tileSize tiles,
// scanning left-to-right, top-to-bottom.
func NewTileGrid(width, height, tileSize int) TileGrid {
	if tileSize <= 0 {
		tileSize = width
	}
	grid := TileGrid{Width: width, Height: height, TileSize: tileSize}

	index := 0
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			maxX := min(x+tileSize, width)
			maxY := min(y+tileSize, height)
			grid.Tiles = append(grid.Tiles, Tile{
				Bounds: image.Rect(x, y, maxX, maxY),
				Index:  index,
			})
			index++
		}
	}
	return grid
}
