package gamedata

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ThreeLevelChain(t *testing.T) {
	store, _ := loadStore(t, map[string]string{
		"overmap/terrain.json": `[
			{"type": "overmap_terrain", "id": "grandparent", "a": 1, "shared": "gp"},
			{"type": "overmap_terrain", "id": "parent", "copy-from": "grandparent", "b": 2, "shared": "p"},
			{"type": "overmap_terrain", "id": "child", "copy-from": "parent", "c": 3}
		]`,
	})
	stats := store.Resolve()
	assert.Equal(t, 2, stats.Resolved)

	child, err := store.Lookup("overmap_terrain", "child")
	require.NoError(t, err)

	// Disjoint fields union across all three levels.
	assert.Equal(t, int64(1), child["a"])
	assert.Equal(t, int64(2), child["b"])
	assert.Equal(t, int64(3), child["c"])

	// Overlapping fields take the child-closest value.
	assert.Equal(t, "p", child["shared"])

	parent, err := store.Lookup("overmap_terrain", "parent")
	require.NoError(t, err)
	assert.Equal(t, "p", parent["shared"])
	assert.Equal(t, int64(1), parent["a"])
}

func TestResolve_MissingTargetKeepsOwnFields(t *testing.T) {
	store, _ := loadStore(t, map[string]string{
		"overmap/terrain.json": `[
			{"type": "overmap_terrain", "id": "orphan", "copy-from": "ghost", "own": true}
		]`,
	})
	stats := store.Resolve()

	assert.Equal(t, 1, stats.Missing)
	def, err := store.Lookup("overmap_terrain", "orphan")
	require.NoError(t, err)
	assert.Equal(t, true, def["own"])
	assert.NotContains(t, def, "inherited")
}

func TestResolve_MissingTargetMidChain(t *testing.T) {
	// child -> mid -> ghost: the walk stops at the break, but the
	// ancestors found so far still merge.
	store, _ := loadStore(t, map[string]string{
		"overmap/terrain.json": `[
			{"type": "overmap_terrain", "id": "0child", "copy-from": "mid", "own": 1},
			{"type": "overmap_terrain", "id": "mid", "copy-from": "ghost", "from_mid": 2}
		]`,
	})
	stats := store.Resolve()

	assert.Equal(t, 2, stats.Missing)
	def, err := store.Lookup("overmap_terrain", "0child")
	require.NoError(t, err)
	assert.Equal(t, int64(1), def["own"])
	assert.Equal(t, int64(2), def["from_mid"])
}

func TestResolve_DeepChainTruncatedAtCap(t *testing.T) {
	// gen01 .. gen19 form a 19-hop chain; "child" sorts before "gen*"
	// so it resolves while its ancestors are still unflattened and the
	// walk genuinely has to follow every hop itself.
	var defs []string
	defs = append(defs, `{"type": "overmap_terrain", "id": "gen01", "f01": true}`)
	for i := 2; i <= 19; i++ {
		defs = append(defs, fmt.Sprintf(
			`{"type": "overmap_terrain", "id": "gen%02d", "copy-from": "gen%02d", "f%02d": true}`,
			i, i-1, i))
	}
	defs = append(defs, `{"type": "overmap_terrain", "id": "child", "copy-from": "gen19"}`)

	store, _ := loadStore(t, map[string]string{
		"overmap/terrain.json": "[" + strings.Join(defs, ",") + "]",
	})
	stats := store.Resolve()
	assert.NotZero(t, stats.Truncated)

	child, err := store.Lookup("overmap_terrain", "child")
	require.NoError(t, err)

	// 16 hops reach gen19 down to gen04; everything further is absent.
	for i := 4; i <= 19; i++ {
		assert.Contains(t, child, fmt.Sprintf("f%02d", i))
	}
	for i := 1; i <= 3; i++ {
		assert.NotContains(t, child, fmt.Sprintf("f%02d", i))
	}
}

func TestResolve_CycleDetected(t *testing.T) {
	store, _ := loadStore(t, map[string]string{
		"overmap/terrain.json": `[
			{"type": "overmap_terrain", "id": "ouro", "copy-from": "boros", "from_a": 1},
			{"type": "overmap_terrain", "id": "boros", "copy-from": "ouro", "from_b": 2}
		]`,
	})
	stats := store.Resolve()

	// Both directions trip the cycle check; neither loops forever.
	assert.Equal(t, 2, stats.Cycles)

	a, err := store.Lookup("overmap_terrain", "ouro")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a["from_a"])
	assert.Equal(t, int64(2), a["from_b"])
}

func TestResolve_SelfReference(t *testing.T) {
	store, _ := loadStore(t, map[string]string{
		"overmap/terrain.json": `{"type": "overmap_terrain", "id": "narcissus", "copy-from": "narcissus", "own": 1}`,
	})
	stats := store.Resolve()

	assert.Equal(t, 1, stats.Cycles)
	def, err := store.Lookup("overmap_terrain", "narcissus")
	require.NoError(t, err)
	assert.Equal(t, int64(1), def["own"])
}

func TestResolve_AbstractTemplateBeforeConcrete(t *testing.T) {
	// The end-to-end shape: an abstract template in one file, a
	// concrete definition inheriting it in another.
	store, _ := loadStore(t, map[string]string{
		"overmap/base.json":  `{"type": "overmap_terrain", "abstract": "B1", "color": "red"}`,
		"overmap/caves.json": `{"type": "overmap_terrain", "id": "C1", "copy-from": "B1", "name": "Cave"}`,
	})
	store.Resolve()

	def, err := store.Lookup("overmap_terrain", "C1")
	require.NoError(t, err)
	assert.Equal(t, "red", def.Str("color"))
	assert.Equal(t, "Cave", def.Str("name"))
	assert.Equal(t, "C1", def.Str("id"))
}

func TestResolve_AbstractChainsSettleFirst(t *testing.T) {
	// concrete -> abstract mid -> abstract root: pass 1 flattens the
	// abstract chain, pass 2 lets the concrete definition inherit the
	// already-flattened template.
	store, _ := loadStore(t, map[string]string{
		"overmap/terrain.json": `[
			{"type": "overmap_terrain", "id": "house", "copy-from": "mid_building", "name": "house"},
			{"type": "overmap_terrain", "abstract": "mid_building", "copy-from": "root_building", "sym": "^"},
			{"type": "overmap_terrain", "abstract": "root_building", "color": "white"}
		]`,
	})
	store.Resolve()

	def, err := store.Lookup("overmap_terrain", "house")
	require.NoError(t, err)
	assert.Equal(t, "house", def.Str("name"))
	assert.Equal(t, "^", def.Str("sym"))
	assert.Equal(t, "white", def.Str("color"))
}

func TestResolve_SkipsSequentialCategories(t *testing.T) {
	store, _ := loadStore(t, map[string]string{
		"mapgen/gen.json": `{"type": "mapgen", "copy-from": "whatever"}`,
	})
	stats := store.Resolve()
	assert.Zero(t, stats.Missing, "sequential categories must not chain-walk")
}
