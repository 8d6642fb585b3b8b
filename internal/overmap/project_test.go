package overmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catascope/catascope/api"
)

func TestProject_PlaceholderPolicy(t *testing.T) {
	store := testStore(t, testTerrain)

	// Three decoded cells: a match, an unmatched type, and a matched
	// terrain without a symbol. Everything else stays undecoded.
	tile, err := ParseTile(tilePayload([]any{
		[]any{"house_north", 1},
		[]any{"mystery_cave", 1},
		[]any{"silent", 1},
	}), testLogger())
	require.NoError(t, err)
	_, err = ResolveSymbols(tile, store, testLogger())
	require.NoError(t, err)

	grid, err := tile.Project(0)
	require.NoError(t, err)
	require.Len(t, grid, TileSize)
	require.Len(t, grid[0], TileSize)

	assert.Equal(t, api.Cell{Glyph: "^", Color: "light_green", Name: "house", ID: "house"}, grid[0][0])

	// Unmatched type renders Unknown; undecoded position renders
	// Unexplored; the two stay distinguishable.
	assert.Equal(t, api.Unknown, grid[0][1])
	assert.Equal(t, api.Unexplored, grid[0][3])
	assert.Equal(t, api.Unexplored, grid[179][179])
	assert.NotEqual(t, grid[0][1], grid[0][3])

	// A matched terrain with no glyph keeps its metadata under "?".
	assert.Equal(t, api.Cell{Glyph: "?", Color: "yellow", Name: "nameless place", ID: "silent"}, grid[0][2])
}

func TestProject_DefaultGlyphWhenNoOverride(t *testing.T) {
	store := testStore(t, testTerrain)
	tile, _ := resolvedTile(t, store, "empty_rock")

	grid, err := tile.Project(0)
	require.NoError(t, err)
	assert.Equal(t, ".", grid[0][0].Glyph, "no override falls back to the terrain's sym")
}

func TestProject_OverrideGlyphWins(t *testing.T) {
	store := testStore(t, testTerrain)
	tile, _ := resolvedTile(t, store, "bridge_west")

	grid, err := tile.Project(0)
	require.NoError(t, err)
	assert.Equal(t, "─", grid[0][0].Glyph, "rotation override beats the stored sym")
	assert.Equal(t, "bridge", grid[0][0].ID)
}

func TestProject_ZOutsideBand(t *testing.T) {
	store := testStore(t, testTerrain)
	tile, _ := resolvedTile(t, store, "empty_rock")

	_, err := tile.Project(ZMax + 1)
	assert.Error(t, err)
	_, err = tile.Project(ZMin - 1)
	assert.Error(t, err)
}

// TestProject_EndToEnd drives the whole pipeline: content load,
// inheritance resolution, tile decode, symbol resolution, projection.
func TestProject_EndToEnd(t *testing.T) {
	store := testStore(t, `[
		{"type": "overmap_terrain", "abstract": "generic_city", "color": "light_gray", "sym": "^"},
		{"type": "overmap_terrain", "id": "mall", "copy-from": "generic_city", "name": "mall"},
		{"type": "overmap_terrain", "id": "empty_rock", "name": "solid rock", "sym": "."}
	]`)

	tile, err := ParseTile(tilePayload([]any{
		[]any{"mall_south", 1},
		[]any{"empty_rock", levelCells - 1},
	}), testLogger())
	require.NoError(t, err)
	_, err = ResolveSymbols(tile, store, testLogger())
	require.NoError(t, err)

	grid, err := tile.Project(0)
	require.NoError(t, err)

	// The mall inherited its pointer glyph and color from the abstract
	// template, then the compass suffix oriented the pointer south.
	assert.Equal(t, api.Cell{Glyph: "v", Color: "light_gray", Name: "mall", ID: "mall"}, grid[0][0])
	assert.Equal(t, ".", grid[0][1].Glyph)
}
