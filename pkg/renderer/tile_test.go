package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
		lastBounds    image.Rectangle
	}{
		{"exact fit", 64, 64, 32, 4, image.Rect(32, 32, 64, 64)},
		{"partial edge tiles", 100, 70, 32, 12, image.Rect(96, 64, 100, 70)},
		{"tile larger than image", 10, 5, 32, 1, image.Rect(0, 0, 10, 5)},
		{"zero tile size uses one tile", 10, 5, 0, 1, image.Rect(0, 0, 10, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}
			if last := tiles[len(tiles)-1].Bounds; last != tt.lastBounds {
				t.Errorf("Expected last tile %v, got %v", tt.lastBounds, last)
			}

			// Every pixel is covered exactly once
			covered := make([]int, tt.width*tt.height)
			for id, tile := range tiles {
				if tile.ID != id {
					t.Errorf("Tile %d has ID %d", id, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}
			for i, n := range covered {
				if n != 1 {
					t.Fatalf("Pixel %d covered %d times", i, n)
				}
			}
		})
	}
}
