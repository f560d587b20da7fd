// Package store provides SQLite persistence for visitor preferences, submitted
// ratings and cached reference data snapshots.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

// Snapshotter persists JSON snapshots of reference data under a key.
type Snapshotter interface {
	// LoadSnapshot decodes the snapshot into dst and reports whether one existed.
	LoadSnapshot(ctx context.Context, key string, dst any) (bool, error)
	SaveSnapshot(ctx context.Context, key string, v any) error
}

type Store struct {
	sqldb *sql.DB
	db    *bun.DB
}

var _ Snapshotter = (*Store)(nil)

var hasColumnCache sync.Map

type Preferences struct {
	bun.BaseModel `bun:"table:preferences,alias:p"`

	ClientID  string           `bun:"client_id,pk"`
	Locale    sql.Null[string] `bun:"locale,nullzero"`
	Region    sql.Null[string] `bun:"region,nullzero"`
	ThemeMode string           `bun:"theme_mode,notnull"`
	CreatedAt string           `bun:"created_at,notnull"`
	UpdatedAt string           `bun:"updated_at,notnull"`
}

type Snapshot struct {
	bun.BaseModel `bun:"table:snapshots,alias:sn"`

	Key       string `bun:"key,pk"`
	Payload   string `bun:"payload,notnull"`
	UpdatedAt string `bun:"updated_at,notnull"`
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("DB_PATH is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("ping db: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	if err := initSchema(ctx, sqldb); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("init schema: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	return &Store{sqldb: sqldb, db: bdb}, nil
}

func (s *Store) Close() error { return s.sqldb.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS preferences (
	client_id TEXT PRIMARY KEY,
	locale TEXT,
	theme_mode TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS ratings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id TEXT NOT NULL,
	tmdb_id INTEGER NOT NULL,
	media_type TEXT NOT NULL,
	value REAL NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(client_id, tmdb_id, media_type)
);
CREATE INDEX IF NOT EXISTS idx_ratings_client ON ratings(client_id);
CREATE TABLE IF NOT EXISTS snapshots (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}

	if err := addColumnIfMissing(ctx, db, "preferences", "region", "ALTER TABLE preferences ADD COLUMN region TEXT"); err != nil {
		return err
	}
	return nil
}

func addColumnIfMissing(ctx context.Context, db *sql.DB, table, column, statement string) error {
	has, err := hasColumn(ctx, db, table, column)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = db.ExecContext(ctx, statement)
	if err != nil {
		has2, herr := hasColumn(ctx, db, table, column)
		if herr == nil && has2 {
			return nil
		}
	}
	return err
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (found bool, err error) {
	cacheKey := fmt.Sprintf("%p.%s.%s", db, table, column)
	if cached, ok := hasColumnCache.Load(cacheKey); ok && cached.(bool) {
		return true, nil
	}

	//nolint:gosec // table is controlled in this package.
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.Null[string]
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			hasColumnCache.Store(cacheKey, true)
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, err
	}
	return false, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func expectRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetPreferences returns sql.ErrNoRows for unknown clients.
func (s *Store) GetPreferences(ctx context.Context, clientID string) (Preferences, error) {
	var p Preferences
	err := s.db.NewSelect().
		Model(&p).
		Where("client_id = ?", clientID).
		Limit(1).
		Scan(ctx)
	return p, err
}

func (s *Store) SavePreferences(ctx context.Context, prefs *Preferences) error {
	if prefs.ClientID == "" {
		return errors.New("client id is required")
	}
	ts := now()
	p := *prefs
	p.CreatedAt = ts
	p.UpdatedAt = ts

	_, err := s.db.NewInsert().
		Model(&p).
		On("CONFLICT (client_id) DO UPDATE").
		Set("locale = EXCLUDED.locale").
		Set("region = EXCLUDED.region").
		Set("theme_mode = EXCLUDED.theme_mode").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) DeletePreferences(ctx context.Context, clientID string) error {
	res, err := s.db.NewDelete().
		Model((*Preferences)(nil)).
		Where("client_id = ?", clientID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRowsAffected(res)
}

func (s *Store) LoadSnapshot(ctx context.Context, key string, dst any) (bool, error) {
	var snap Snapshot
	err := s.db.NewSelect().
		Model(&snap).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(snap.Payload), dst); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	snap := Snapshot{Key: key, Payload: string(raw), UpdatedAt: now()}
	_, err = s.db.NewInsert().
		Model(&snap).
		On("CONFLICT (key) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
