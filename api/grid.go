package api

// Cell is one rendered overmap position: the symbolic glyph plus the
// display metadata an external renderer (terminal colorizer, image
// rasterizer) needs to draw it.
type Cell struct {
	// Glyph is the final display symbol, after any directional
	// rotation or orientation override has been applied.
	Glyph string `json:"glyph"`
	// Color is the game's color name (e.g. "light_green"), untranslated.
	Color string `json:"color,omitempty"`
	// Name is the human-readable terrain name.
	Name string `json:"name,omitempty"`
	// ID is the terrain definition id, empty for placeholder cells.
	ID string `json:"id,omitempty"`
}

// Grid is a full projected z-level, indexed [row][col] (y outer, x inner).
type Grid [][]Cell

// Unexplored marks a position with no decoded tile data.
var Unexplored = Cell{Glyph: "#", Color: "gray", Name: "Unexplored"}

// Unknown marks a decoded tile whose type matched no terrain definition.
var Unknown = Cell{Glyph: "!", Color: "gray", Name: "Unknown"}
