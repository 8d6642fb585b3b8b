package gamedata

// sourceField records which content file a definition was loaded from.
// It travels with the record through inheritance merging, so a flattened
// definition always points at the file that declared its own fields.
const sourceField = "__source"

// Definition is one content record: an open-ended field map as parsed
// from a game JSON file, plus the resolver-relevant fields accessed
// through the typed getters below. Before Store.Resolve runs it holds
// only its own fields; afterwards it is flattened with everything
// inherited via copy-from.
type Definition map[string]any

// ID returns the definition's id, falling back to the abstract marker
// (abstract templates carry their chaining id in the "abstract" field).
func (d Definition) ID() string {
	if id := d.Str("id"); id != "" {
		return id
	}
	return d.Str("abstract")
}

// Abstract reports whether this definition is a template, never placed
// directly and existing only to be inherited from.
func (d Definition) Abstract() bool {
	_, ok := d["abstract"]
	return ok
}

// CopyFrom returns the id of the parent definition this one inherits
// from, or "" if it inherits nothing.
func (d Definition) CopyFrom() string {
	return d.Str("copy-from")
}

// Str returns the named field as a string, or "" if absent or not a string.
func (d Definition) Str(key string) string {
	s, _ := d[key].(string)
	return s
}

// HasFlag reports whether the definition's "flags" list contains flag.
func (d Definition) HasFlag(flag string) bool {
	list, _ := d["flags"].([]any)
	for _, f := range list {
		if s, ok := f.(string); ok && s == flag {
			return true
		}
	}
	return false
}

// Source returns the path of the content file this definition's own
// fields were loaded from.
func (d Definition) Source() string {
	return d.Str(sourceField)
}

// merged returns a fresh definition holding parents' fields overlaid in
// order, with d's own fields applied last. Parents must be ordered
// furthest ancestor first so that every field ends up with its
// child-closest value.
func (d Definition) merged(parents []Definition) Definition {
	out := make(Definition, len(d))
	for _, p := range parents {
		for k, v := range p {
			out[k] = v
		}
	}
	for k, v := range d {
		out[k] = v
	}
	return out
}
