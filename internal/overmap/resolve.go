package overmap

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/catascope/catascope/internal/gamedata"
)

// SymbolStats aggregates the outcome of one ResolveSymbols call.
type SymbolStats struct {
	Matched int // cells with a terrain definition attached
	Linear  int // cells matched through the road/line suffix path
	Pointed int // pointer glyphs oriented by compass suffix
	Rotated int // line glyphs rotated by compass suffix
	Misses  int // cells whose type matched no definition
}

// ResolveSymbols attaches a flattened terrain definition and, where the
// directional rules call for it, an override glyph to every decoded
// cell. Resolution cannot proceed at all without the overmap_terrain
// category; anything else recovers per cell.
func ResolveSymbols(t *Tile, store *gamedata.Store, logger *slog.Logger) (SymbolStats, error) {
	var stats SymbolStats
	if logger == nil {
		logger = slog.Default()
	}
	terrain, ok := store.Category("overmap_terrain")
	if !ok {
		return stats, fmt.Errorf("overmap_terrain definitions not loaded")
	}

	zs := make([]int, 0, len(t.cells))
	for z := range t.cells {
		zs = append(zs, z)
	}
	sort.Ints(zs)

	missed := map[string]bool{}
	for _, z := range zs {
		for _, c := range t.cells[z] {
			if c == nil {
				continue
			}
			resolveCell(c, terrain, logger, &stats, missed)
		}
	}
	logger.Debug("symbols resolved",
		"matched", stats.Matched, "linear", stats.Linear,
		"pointed", stats.Pointed, "rotated", stats.Rotated,
		"misses", stats.Misses)
	return stats, nil
}

func resolveCell(c *Cell, terrain *gamedata.Category, logger *slog.Logger, stats *SymbolStats, missed map[string]bool) {
	// Road-like types carry their full orientation in the suffix: the
	// glyph comes straight from the suffix table, no rotation needed.
	if base, suffix, ok := trimLinearSuffix(c.Type); ok {
		if def, found := terrain.Get(base); found && def.HasFlag("LINEAR") {
			c.Terrain = def
			c.Glyph = linearSuffixes[suffix].Glyph
			stats.Matched++
			stats.Linear++
			return
		}
		logger.Debug("linear suffix on non-linear terrain", "type", c.Type)
	}

	base, dir, _ := trimCompassSuffix(c.Type)
	def, found := terrain.Get(base)
	if !found {
		stats.Misses++
		if !missed[base] {
			missed[base] = true
			logger.Warn("no terrain definition for type",
				"type", base, "closest", nearestID(terrain, base))
		}
		return
	}
	c.Terrain = def
	stats.Matched++

	sym := def.Str("sym")
	switch {
	case sym == "^":
		// Buildings store a generic pointer; the compass suffix picks
		// which way it faces.
		if dir == "" {
			logger.Warn("pointer glyph without a direction suffix", "type", c.Type)
			return
		}
		c.Glyph = compassGlyphs[dir]
		stats.Pointed++
	case glyphBits[sym] != 0:
		// Line glyphs are stored facing north; rotate the connectivity
		// mask to match the stored direction, then map it back to a glyph.
		c.Glyph = glyphByBits[rotateBits(glyphBits[sym], rotationDistance[dir])]
		stats.Rotated++
	}
}

// nearestID suggests the terrain id closest to a missed type, for log
// lines only. The edit-distance budget scales with id length.
func nearestID(terrain *gamedata.Category, miss string) string {
	best, bestDist := "", -1
	for _, id := range terrain.IDs() {
		dist := levenshtein.ComputeDistance(miss, id)
		if dist > levenshteinLimit(len(id)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = id, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
