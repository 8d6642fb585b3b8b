// Package gamedata loads a game's declarative JSON content database and
// resolves copy-from inheritance chains into flattened definitions.
//
// The typical flow:
//
//  1. NewStore with a filesystem rooted at the game's data/json directory
//  2. Load: recursively parse every content file into per-category stores
//  3. Resolve: flatten copy-from chains, abstract templates first
//  4. Lookup / Category: query flattened definitions
//
// A store built this way is read-only afterwards; symbol resolution and
// projection only query it.
package gamedata

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/oj"
	"github.com/tidwall/jsonc"
)

var ErrNotFound = errors.New("definition not found")

// ContentDirs are the content roots the overmap renderer needs, relative
// to the game's data/json directory.
var ContentDirs = []string{"mapgen", "overmap"}

// Shape selects how a category stores its definitions.
type Shape int

const (
	// Indexed categories key definitions by id and support inheritance.
	Indexed Shape = iota
	// Sequential categories accumulate definitions in load order and
	// ignore ids entirely (no inheritance, e.g. mapgen generators).
	Sequential
)

// sequentialCategories is the static table of categories stored as
// append-only sequences. Everything else is id-indexed.
var sequentialCategories = map[string]bool{
	"mapgen":       true,
	"monstergroup": true,
	"snippet":      true,
}

func shapeOf(category string) Shape {
	if sequentialCategories[category] {
		return Sequential
	}
	return Indexed
}

// Category holds all definitions of one content type.
type Category struct {
	Name  string
	Shape Shape

	byID map[string]Definition
	seq  []Definition
}

func newCategory(name string) *Category {
	return &Category{
		Name:  name,
		Shape: shapeOf(name),
		byID:  make(map[string]Definition),
	}
}

// Get returns the definition with the given id. Always false for
// sequential categories.
func (c *Category) Get(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Len returns the number of definitions in the category.
func (c *Category) Len() int {
	if c.Shape == Sequential {
		return len(c.seq)
	}
	return len(c.byID)
}

// IDs returns all definition ids in sorted order. Empty for sequential
// categories.
func (c *Category) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Records returns a sequential category's definitions in load order.
func (c *Category) Records() []Definition {
	return c.seq
}

// LoadStats aggregates the outcome of one Load call. Individual file
// failures and id collisions never abort a load; they only count here.
type LoadStats struct {
	Files       int // content files parsed
	Failed      int // files skipped due to parse errors
	Definitions int // definitions inserted
	Collisions  int // id re-insertions (last load wins)
}

// Store owns every loaded Definition for the lifetime of a content
// database. Consumers reference definitions by category and id, never
// copy them.
type Store struct {
	fs         billy.Filesystem
	logger     *slog.Logger
	categories map[string]*Category
}

// NewStore creates an empty store reading content from fsys, which must
// be rooted at the game's data/json directory. Each store gets fresh,
// independent category maps.
func NewStore(fsys billy.Filesystem, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		fs:         fsys,
		logger:     logger,
		categories: make(map[string]*Category),
	}
}

// Load walks each subdir top-down (files of a directory before its
// subdirectories, the order the game itself loads in) and parses every
// *.json file. A malformed file is logged, counted, and skipped; the
// load carries on with the rest.
func (s *Store) Load(subdirs ...string) (LoadStats, error) {
	var stats LoadStats
	for _, sub := range subdirs {
		if _, err := s.fs.Stat(sub); err != nil {
			s.logger.Warn("content directory missing", "dir", sub, "error", err)
			continue
		}
		s.logger.Debug("loading content directory", "dir", sub)
		if err := s.walkTopDown(sub, &stats); err != nil {
			return stats, fmt.Errorf("walk %s: %w", sub, err)
		}
	}
	s.logger.Debug("content load finished",
		"files", stats.Files, "failed", stats.Failed,
		"definitions", stats.Definitions, "collisions", stats.Collisions)
	return stats, nil
}

// walkTopDown visits dir's files before descending into its
// subdirectories, both in lexical order.
func (s *Store) walkTopDown(dir string, stats *LoadStats) error {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var subdirs []string
	for _, e := range entries {
		name := path.Join(dir, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, name)
			continue
		}
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		stats.Files++
		if !s.loadFile(name, stats) {
			stats.Failed++
		}
	}
	for _, sub := range subdirs {
		if err := s.walkTopDown(sub, stats); err != nil {
			return err
		}
	}
	return nil
}

// loadFile parses one content file, which may hold a single object or a
// list of objects. Content files are JSONC: comments and trailing
// commas are tolerated.
func (s *Store) loadFile(fpath string, stats *LoadStats) bool {
	raw, err := util.ReadFile(s.fs, fpath)
	if err != nil {
		s.logger.Error("failed to read content file", "file", fpath, "error", err)
		return false
	}
	parsed, err := oj.Parse(jsonc.ToJSON(raw))
	if err != nil {
		s.logger.Error("failed to parse content file", "file", fpath, "error", err)
		return false
	}

	objs, ok := parsed.([]any)
	if !ok {
		objs = []any{parsed}
	}
	for _, obj := range objs {
		fields, ok := obj.(map[string]any)
		if !ok {
			s.logger.Warn("content entry is not an object", "file", fpath)
			continue
		}
		def := Definition(fields)
		def[sourceField] = fpath
		s.insert(def, fpath, stats)
	}
	return true
}

func (s *Store) insert(def Definition, fpath string, stats *LoadStats) {
	category := def.Str("type")
	if category == "" {
		s.logger.Warn("definition without a type", "file", fpath)
		return
	}
	cat := s.categories[category]
	if cat == nil {
		cat = newCategory(category)
		s.categories[category] = cat
	}

	if cat.Shape == Sequential {
		cat.seq = append(cat.seq, def)
		stats.Definitions++
		return
	}

	id := def.ID()
	if id == "" {
		s.logger.Warn("indexed definition without id or abstract",
			"file", fpath, "category", category)
		return
	}
	if prev, ok := cat.byID[id]; ok {
		s.logger.Warn("definition id collision, later load wins",
			"category", category, "id", id,
			"kept", fpath, "replaced", prev.Source())
		stats.Collisions++
	}
	cat.byID[id] = def
	stats.Definitions++
}

// Category returns the named category's store, or false if nothing of
// that type was ever loaded.
func (s *Store) Category(name string) (*Category, bool) {
	c, ok := s.categories[name]
	return c, ok
}

// Categories returns all loaded category names in sorted order.
func (s *Store) Categories() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the flattened definition for (category, id), or
// ErrNotFound.
func (s *Store) Lookup(category, id string) (Definition, error) {
	cat, ok := s.categories[category]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", category, ErrNotFound)
	}
	def, ok := cat.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", category, id, ErrNotFound)
	}
	return def, nil
}
