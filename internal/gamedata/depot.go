package gamedata

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/oj"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"
)

// depotSchemaVersion is bumped whenever the depot table layout changes.
const depotSchemaVersion = 1

// DepotMeta describes a built depot: its table layout version, the
// digest of the content tree it was compiled from, and when.
type DepotMeta struct {
	SchemaVersion int
	Digest        string
	Created       time.Time
}

// BuildDepot compiles a fully resolved store into a sqlite depot so
// later renders can stream flattened definitions back without walking
// and re-resolving the content tree. digest is the TreeDigest of the
// source content, stored for staleness checks on load.
func BuildDepot(dbPath string, store *Store, digest string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	// Bulk-insert tuning; the depot is rebuilt from scratch on failure.
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS defs (
		category TEXT NOT NULL,
		id TEXT,
		seq INTEGER,
		record TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_defs_category_id ON defs(category, id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO defs (category, id, seq, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, name := range store.Categories() {
		cat := store.categories[name]
		if cat.Shape == Sequential {
			for i, def := range cat.seq {
				if _, err := stmt.Exec(name, nil, i, oj.JSON(map[string]any(def))); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("insert %s[%d]: %w", name, i, err)
				}
			}
			continue
		}
		for _, id := range cat.IDs() {
			def := cat.byID[id]
			if _, err := stmt.Exec(name, id, nil, oj.JSON(map[string]any(def))); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert %s/%s: %w", name, id, err)
			}
		}
	}

	meta := map[string]string{
		"schema_version": strconv.Itoa(depotSchemaVersion),
		"digest":         digest,
		"created":        time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// LoadDepot streams a depot's rows back into a fresh store. The
// definitions were flattened at build time, so no Resolve pass is
// needed afterwards.
func LoadDepot(dbPath string, logger *slog.Logger) (*Store, DepotMeta, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, DepotMeta{}, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	meta, err := readMeta(db)
	if err != nil {
		return nil, DepotMeta{}, err
	}
	if meta.SchemaVersion != depotSchemaVersion {
		return nil, meta, fmt.Errorf("depot schema version %d, want %d (rebuild with `catascope build`)",
			meta.SchemaVersion, depotSchemaVersion)
	}

	store := NewStore(nil, logger)
	rows, err := db.Query(`SELECT category, id, record FROM defs ORDER BY category, seq, id`)
	if err != nil {
		return nil, meta, fmt.Errorf("query defs: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var category, record string
		var id sql.NullString
		if err := rows.Scan(&category, &id, &record); err != nil {
			return nil, meta, fmt.Errorf("scan row: %w", err)
		}
		parsed, err := oj.Parse([]byte(record))
		if err != nil {
			return nil, meta, fmt.Errorf("parse depot record %s/%s: %w", category, id.String, err)
		}
		fields, ok := parsed.(map[string]any)
		if !ok {
			return nil, meta, fmt.Errorf("depot record %s/%s is not an object", category, id.String)
		}
		def := Definition(fields)

		cat := store.categories[category]
		if cat == nil {
			cat = newCategory(category)
			store.categories[category] = cat
		}
		if cat.Shape == Sequential {
			cat.seq = append(cat.seq, def)
		} else {
			cat.byID[id.String] = def
		}
	}
	if err := rows.Err(); err != nil {
		return nil, meta, fmt.Errorf("iterate rows: %w", err)
	}
	return store, meta, nil
}

func readMeta(db *sql.DB) (DepotMeta, error) {
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return DepotMeta{}, fmt.Errorf("query meta (not a catascope depot?): %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var meta DepotMeta
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return DepotMeta{}, err
		}
		switch k {
		case "schema_version":
			meta.SchemaVersion, _ = strconv.Atoi(v)
		case "digest":
			meta.Digest = v
		case "created":
			meta.Created, _ = time.Parse(time.RFC3339, v)
		}
	}
	return meta, rows.Err()
}

// TreeDigest hashes every content file under the given subdirs into a
// single hex digest. Walk order is deterministic, so the same tree
// always produces the same digest; the depot stores it to detect
// staleness against a live content tree.
func TreeDigest(fsys billy.Filesystem, subdirs ...string) (string, error) {
	h := blake3.New()
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			name := path.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(name); err != nil {
					return err
				}
				continue
			}
			if !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			raw, err := util.ReadFile(fsys, name)
			if err != nil {
				return err
			}
			_, _ = h.Write([]byte(name))
			_, _ = h.Write([]byte{0})
			_, _ = h.Write(raw)
		}
		return nil
	}
	for _, sub := range subdirs {
		if _, err := fsys.Stat(sub); err != nil {
			continue // same tolerance as Load
		}
		if err := walk(sub); err != nil {
			return "", fmt.Errorf("digest %s: %w", sub, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
