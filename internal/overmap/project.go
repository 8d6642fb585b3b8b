package overmap

import (
	"fmt"

	"github.com/catascope/catascope/api"
)

// Project flattens one z-level into a render-ready [row][col] grid
// covering the full tile. Positions never decoded project as
// Unexplored; decoded positions with no matched terrain as Unknown; a
// matched terrain with no usable glyph keeps its metadata but renders
// "?". The three cases stay distinguishable in the output.
func (t *Tile) Project(z int) (api.Grid, error) {
	if z < ZMin || z > ZMax {
		return nil, fmt.Errorf("z %d outside band [%d, %d]", z, ZMin, ZMax)
	}
	cells := t.cells[z]
	explored := t.explored[z]

	grid := make(api.Grid, TileSize)
	for y := 0; y < TileSize; y++ {
		row := make([]api.Cell, TileSize)
		for x := 0; x < TileSize; x++ {
			idx := y*TileSize + x
			if cells == nil || !explored.Contains(uint32(idx)) || cells[idx] == nil {
				row[x] = api.Unexplored
				continue
			}
			c := cells[idx]
			if c.Terrain == nil {
				t.logger.Warn("no terrain data for cell",
					"x", x, "y", y, "z", z, "type", c.Type)
				row[x] = api.Unknown
				continue
			}
			glyph := c.Glyph
			if glyph == "" {
				glyph = c.Terrain.Str("sym")
			}
			if glyph == "" {
				t.logger.Warn("terrain has no symbol",
					"x", x, "y", y, "z", z, "type", c.Type)
				glyph = "?"
			}
			row[x] = api.Cell{
				Glyph: glyph,
				Color: c.Terrain.Str("color"),
				Name:  c.Terrain.Str("name"),
				ID:    c.Terrain.Str("id"),
			}
		}
		grid[y] = row
	}
	return grid, nil
}
