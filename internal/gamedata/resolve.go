package gamedata

// maxChainHops bounds how far up a copy-from chain the resolver walks.
// Ancestors beyond the cap are not applied.
const maxChainHops = 16

// ResolveStats aggregates the outcome of one Resolve call.
type ResolveStats struct {
	Resolved  int // definitions flattened
	Missing   int // copy-from targets that do not exist
	Truncated int // chains cut off at the hop cap
	Cycles    int // copy-from cycles detected
}

// Resolve flattens every copy-from chain in the store, category by
// category, in two ordered passes: abstract templates first, then
// concrete definitions. Concrete definitions inheriting from a template
// therefore always see the template already flattened. Sequential
// categories have no inheritance and are skipped.
//
// Resolve must run after Load and before any symbol resolution; the
// store is read-only from then on.
func (s *Store) Resolve() ResolveStats {
	var stats ResolveStats
	for pass := 1; pass <= 2; pass++ {
		s.logger.Debug("resolving dependencies", "pass", pass)
		for _, name := range s.Categories() {
			cat := s.categories[name]
			if cat.Shape == Sequential {
				continue
			}
			for _, id := range cat.IDs() {
				def := cat.byID[id]
				if pass == 1 && !def.Abstract() {
					continue
				}
				if pass == 2 && def.Abstract() {
					continue
				}
				if def.CopyFrom() == "" {
					continue
				}
				s.resolveChain(cat, id, def, &stats)
			}
		}
	}
	s.logger.Debug("dependency resolution finished",
		"resolved", stats.Resolved, "missing", stats.Missing,
		"truncated", stats.Truncated, "cycles", stats.Cycles)
	return stats
}

// resolveChain walks the definition's ancestry nearest-parent first,
// then merges furthest ancestor first so that every field keeps its
// child-closest value. The flattened record replaces the original in
// the category.
//
// A missing ancestor or a cycle stops the walk; whatever was collected
// up to that point still merges (partial resolution, not a failure).
func (s *Store) resolveChain(cat *Category, id string, def Definition, stats *ResolveStats) {
	var parents []Definition
	seen := map[string]bool{id: true}
	next := def.CopyFrom()
	for hop := 0; next != ""; hop++ {
		if seen[next] {
			s.logger.Error("copy-from cycle",
				"category", cat.Name, "id", id, "repeats", next)
			stats.Cycles++
			break
		}
		if hop >= maxChainHops {
			s.logger.Debug("copy-from chain truncated at hop cap",
				"category", cat.Name, "id", id, "next", next)
			stats.Truncated++
			break
		}
		parent, ok := cat.byID[next]
		if !ok {
			s.logger.Error("missing copy-from dependency",
				"category", cat.Name, "id", id, "target", next)
			stats.Missing++
			break
		}
		seen[next] = true
		parents = append(parents, parent)
		next = parent.CopyFrom()
	}

	// merged wants furthest ancestor first.
	for i, j := 0, len(parents)-1; i < j; i, j = i+1, j-1 {
		parents[i], parents[j] = parents[j], parents[i]
	}
	cat.byID[id] = def.merged(parents)
	stats.Resolved++
}
