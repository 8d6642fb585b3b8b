// Package overmap decodes raw overmap tile saves and resolves each
// decoded cell against the loaded terrain definitions, producing a
// render-ready symbolic grid.
package overmap

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/RoaringBitmap/roaring"
	"github.com/ohler55/ojg/oj"

	"github.com/catascope/catascope/internal/gamedata"
)

const (
	// TileSize is the side length of one overmap tile in both axes.
	TileSize = 180
	// ZMin and ZMax bound the vertical band a tile file carries.
	ZMin = -10
	ZMax = 10
	// ZLevels is the number of layers in the band, lowest first.
	ZLevels = ZMax - ZMin + 1

	levelCells = TileSize * TileSize
)

// Cell is one decoded tile position. Type is set by the decoder;
// Terrain and Glyph are attached later by ResolveSymbols.
type Cell struct {
	X, Y, Z int
	Type    string

	// Terrain is the matched flattened definition, nil if no terrain
	// definition matched the type string. Owned by the Store.
	Terrain gamedata.Definition
	// Glyph is the rotation/orientation override. Empty means render
	// with the terrain's default symbol.
	Glyph string
}

// Tile holds the decoded cells of one overmap tile file across all
// z-levels. Immutable after decode except for the resolver attaching
// Terrain and Glyph.
type Tile struct {
	cells    map[int][]*Cell         // z -> linear row-major cell array
	explored map[int]*roaring.Bitmap // z -> set of decoded linear indices
	logger   *slog.Logger
}

// ParseTile decodes a raw overmap tile payload. The first line, if it
// begins with a version comment marker, is discarded before JSON
// parsing. Layers decode lowest z-level first.
func ParseTile(data []byte, logger *slog.Logger) (*Tile, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data = stripVersionLine(data)

	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse tile payload: %w", err)
	}
	root, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tile payload is not an object")
	}
	layers, ok := root["layers"].([]any)
	if !ok {
		return nil, fmt.Errorf("tile payload has no layers array")
	}
	if len(layers) != ZLevels {
		logger.Warn("unexpected layer count", "layers", len(layers), "want", ZLevels)
	}

	t := &Tile{
		cells:    make(map[int][]*Cell, ZLevels),
		explored: make(map[int]*roaring.Bitmap, ZLevels),
		logger:   logger,
	}
	z := ZMin
	for _, layer := range layers {
		if z > ZMax {
			logger.Warn("extra layers beyond band ignored", "zmax", ZMax)
			break
		}
		t.decodeLayer(z, layer)
		z++
	}
	return t, nil
}

// stripVersionLine drops a leading "# version ..." comment line.
func stripVersionLine(data []byte) []byte {
	if len(data) == 0 || data[0] != '#' {
		return data
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[i+1:]
	}
	return nil
}

// decodeLayer expands one layer's run-length-encoded [type, run] pairs
// into cells, row-major: linear index i maps to (i mod size, i div size).
func (t *Tile) decodeLayer(z int, layer any) {
	runs, ok := layer.([]any)
	if !ok {
		t.logger.Warn("layer is not an array", "z", z)
		return
	}
	cells := make([]*Cell, levelCells)
	bm := roaring.New()
	idx := 0
	for _, r := range runs {
		pair, ok := r.([]any)
		if !ok || len(pair) != 2 {
			t.logger.Warn("malformed rle pair", "z", z)
			continue
		}
		typ, _ := pair[0].(string)
		n := toInt(pair[1])
		for i := 0; i < n; i++ {
			if idx >= levelCells {
				t.logger.Warn("rle runs overflow layer, truncating", "z", z)
				t.cells[z] = cells
				t.explored[z] = bm
				return
			}
			cells[idx] = &Cell{X: idx % TileSize, Y: idx / TileSize, Z: z, Type: typ}
			bm.Add(uint32(idx))
			idx++
		}
	}
	t.cells[z] = cells
	t.explored[z] = bm
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// Cell returns the decoded cell at (x, y, z), or false if that position
// was never decoded.
func (t *Tile) Cell(x, y, z int) (*Cell, bool) {
	if x < 0 || x >= TileSize || y < 0 || y >= TileSize {
		return nil, false
	}
	cells, ok := t.cells[z]
	if !ok {
		return nil, false
	}
	c := cells[y*TileSize+x]
	return c, c != nil
}

// Explored returns how many positions of the given z-level were decoded.
func (t *Tile) Explored(z int) int {
	bm, ok := t.explored[z]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}
