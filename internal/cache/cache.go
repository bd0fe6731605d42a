// Package cache keeps the last listing fetched from the backend in a local
// SQLite database so the shell has something to show before the first
// refresh completes, or when the backend is unreachable.
package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/five82/localizei/internal/catalog"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	metaStores     = "stores"
	metaCategories = "categories"
)

// Cache is a SQLite-backed listing cache.
type Cache struct {
	db   *sql.DB
	path string
}

// Open creates or opens the cache at path and applies pending migrations.
func Open(path string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Close releases the database handle.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveStores replaces the cached store listing.
func (c *Cache) SaveStores(ctx context.Context, stores []catalog.Store) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stores`); err != nil {
		return fmt.Errorf("clear stores: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO stores (id, position, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, s := range stores {
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode store %s: %w", s.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, s.ID, i, string(payload)); err != nil {
			return fmt.Errorf("insert store %s: %w", s.ID, err)
		}
	}
	if err := touch(ctx, tx, metaStores); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadStores returns the cached listing in the order it was saved.
func (c *Cache) LoadStores(ctx context.Context) ([]catalog.Store, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT payload FROM stores ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Store
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		var s catalog.Store
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return nil, fmt.Errorf("decode store: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveCategories replaces the cached category list.
func (c *Cache) SaveCategories(ctx context.Context, cats []catalog.Category) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for i, cat := range cats {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO categories (id, position, name, icon) VALUES (?, ?, ?, ?)`,
			cat.ID, i, cat.Name, cat.Icon); err != nil {
			return fmt.Errorf("insert category %s: %w", cat.ID, err)
		}
	}
	if err := touch(ctx, tx, metaCategories); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadCategories returns the cached categories in saved order.
func (c *Cache) LoadCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name, icon FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Category
	for rows.Next() {
		var cat catalog.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// UpdatedAt reports when the store listing was last saved. The zero time
// means the cache has never been filled.
func (c *Cache) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := c.db.QueryRowContext(ctx, `SELECT updated_at FROM sync_meta WHERE name = ?`, metaStores).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query sync meta: %w", err)
	}
	return ts, nil
}

func touch(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sync_meta (name, updated_at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at`,
		name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update sync meta: %w", err)
	}
	return nil
}
