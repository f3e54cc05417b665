package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/wikilinx/wikilinx/internal/sqlutil"
)

// SchemaVersion is the current catalog database schema version.
const SchemaVersion = 1

// ErrSchemaTooNew indicates the catalog was written by a newer build.
var ErrSchemaTooNew = errors.New("catalog schema is newer than supported")

// DB is a Catalog backed by SQLite.
type DB struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	d := &DB{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

func (d *DB) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			item_level INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_items_name ON items(name COLLATE NOCASE);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	current, err := d.Version()
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case current > SchemaVersion:
		return fmt.Errorf("%w: catalog has schema version %d, this build supports %d",
			ErrSchemaTooNew, current, SchemaVersion)
	}

	_, err = d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(SchemaVersion))
	if err != nil {
		return fmt.Errorf("failed to set catalog version: %w", err)
	}

	return nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Item implements Catalog.
func (d *DB) Item(id uint32) (Item, error) {
	var it Item
	err := d.db.QueryRow(
		`SELECT id, name, category, item_level FROM items WHERE id = ?`, id,
	).Scan(&it.ID, &it.Name, &it.Category, &it.ItemLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("query item %d: %w", id, err)
	}
	return it, nil
}

// Upsert inserts or replaces items in a single transaction.
func (d *DB) Upsert(items []Item) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO items (id, name, category, item_level) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(it.ID, it.Name, it.Category, it.ItemLevel); err != nil {
			return fmt.Errorf("insert item %d: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of items in the catalog.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// Search returns up to limit items whose name contains query
// (case-insensitive), ordered by ID.
func (d *DB) Search(query string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := d.db.Query(
		`SELECT id, name, category, item_level FROM items
		 WHERE name LIKE '%' || ? || '%' ESCAPE '\'
		 ORDER BY id LIMIT ?`,
		sqlutil.EscapeLike(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return sqlutil.ScanRows(rows, scanItem)
}

// Items returns the items among ids that exist, ordered by ID.
func (d *DB) Items(ids []uint32) ([]Item, error) {
	ph, args := sqlutil.InClauseArgs(ids)
	rows, err := d.db.Query(
		`SELECT id, name, category, item_level FROM items WHERE id IN (`+ph+`) ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return sqlutil.ScanRows(rows, scanItem)
}

func scanItem(rows *sql.Rows) (Item, error) {
	var it Item
	if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.ItemLevel); err != nil {
		return Item{}, fmt.Errorf("scan item: %w", err)
	}
	return it, nil
}

// Version returns the schema version recorded in the database.
func (d *DB) Version() (int, error) {
	var raw string
	if err := d.db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&raw); err != nil {
		return 0, fmt.Errorf("read catalog version: %w", err)
	}
	return strconv.Atoi(raw)
}
