package lookup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache is a read-through SQLite store for catalog entries, so repeat
// demo lookups work without the network.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the SQLite cache at dir/exercises.db.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "exercises.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS exercises (
		id        TEXT PRIMARY KEY,
		body      TEXT NOT NULL,
		cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached exercise, or nil when absent.
func (c *Cache) Get(id string) (*Exercise, error) {
	var body string
	err := c.db.QueryRow(`SELECT body FROM exercises WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ex Exercise
	if err := json.Unmarshal([]byte(body), &ex); err != nil {
		return nil, fmt.Errorf("decoding cached exercise %s: %w", id, err)
	}
	return &ex, nil
}

// Put stores or refreshes an exercise.
func (c *Cache) Put(ex *Exercise) error {
	body, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encoding exercise %s: %w", ex.ID, err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO exercises (id, body) VALUES (?, ?)`,
		ex.ID, string(body),
	)
	return err
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}
