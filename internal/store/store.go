// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the platform's locally owned records (posts,
// users) in SQLite and exposes the substring lookups the internal content
// providers and the suggestion sources need. Only public records are ever
// returned.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/civic-search/internal/normalize"
	"github.com/pdiddy/civic-search/pkg/types"
)

// Entity is one locally owned record.
type Entity struct {
	ID          string       `json:"id" yaml:"id"`
	Kind        types.Kind   `json:"kind" yaml:"kind"`
	Title       string       `json:"title" yaml:"title"`
	Body        string       `json:"body,omitempty" yaml:"body,omitempty"`
	Handle      string       `json:"handle,omitempty" yaml:"handle,omitempty"`
	DisplayName string       `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	SourceName  string       `json:"source_name,omitempty" yaml:"source_name,omitempty"`
	URL         string       `json:"url,omitempty" yaml:"url,omitempty"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Region      types.Region `json:"region,omitempty" yaml:"region,omitempty"`
	Public      bool         `json:"public" yaml:"public"`
	Verified    bool         `json:"verified,omitempty" yaml:"verified,omitempty"`
	Featured    bool         `json:"featured,omitempty" yaml:"featured,omitempty"`
	Views       int64        `json:"views,omitempty" yaml:"views,omitempty"`
	Likes       int64        `json:"likes,omitempty" yaml:"likes,omitempty"`
	Comments    int64        `json:"comments,omitempty" yaml:"comments,omitempty"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
}

// TagCount is a tag with the number of public entities carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// Store manages the entity database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Path and creates the schema
// if it does not exist. The path ":memory:" opens a private in-memory
// database.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			handle TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			source_name TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			region TEXT NOT NULL DEFAULT '',
			is_public INTEGER NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			featured INTEGER NOT NULL DEFAULT 0,
			views INTEGER NOT NULL DEFAULT 0,
			likes INTEGER NOT NULL DEFAULT 0,
			comments INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			search_text TEXT NOT NULL DEFAULT '',
			identity_text TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_kind_public ON entities(kind, is_public)`,
		`CREATE TABLE IF NOT EXISTS entity_tags (
			entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			PRIMARY KEY (entity_id, tag)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_tags_tag ON entity_tags(tag)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces entities in one transaction.
func (s *Store) Upsert(ctx context.Context, entities []Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (id, kind, title, body, handle, display_name, source_name, url,
			tags, region, is_public, verified, featured, views, likes, comments, created_at,
			search_text, identity_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind, title=excluded.title, body=excluded.body,
			handle=excluded.handle, display_name=excluded.display_name,
			source_name=excluded.source_name, url=excluded.url, tags=excluded.tags,
			region=excluded.region, is_public=excluded.is_public,
			verified=excluded.verified, featured=excluded.featured,
			views=excluded.views, likes=excluded.likes, comments=excluded.comments,
			created_at=excluded.created_at, search_text=excluded.search_text,
			identity_text=excluded.identity_text`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entities {
		if e.ID == "" {
			return fmt.Errorf("entity without id (kind %q, title %q)", e.Kind, e.Title)
		}
		if e.Kind == "" {
			return fmt.Errorf("entity %s: kind is required", e.ID)
		}
		tags := normalize.Tags(e.Tags)
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("entity %s: encoding tags: %w", e.ID, err)
		}
		created := e.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		_, err = stmt.ExecContext(ctx,
			e.ID, string(e.Kind), e.Title, e.Body, e.Handle, e.DisplayName, e.SourceName, e.URL,
			string(tagsJSON), string(e.Region), e.Public, e.Verified, e.Featured,
			e.Views, e.Likes, e.Comments, created.UTC().Format(time.RFC3339Nano),
			searchText(e, tags), identityText(e),
		)
		if err != nil {
			return fmt.Errorf("upserting entity %s: %w", e.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM entity_tags WHERE entity_id = ?`, e.ID); err != nil {
			return fmt.Errorf("clearing tags of %s: %w", e.ID, err)
		}
		for _, tag := range tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO entity_tags (entity_id, tag) VALUES (?, ?)`, e.ID, tag,
			); err != nil {
				return fmt.Errorf("tagging %s: %w", e.ID, err)
			}
		}
	}

	return tx.Commit()
}

func searchText(e Entity, tags []string) string {
	return normalize.Fold(strings.Join([]string{
		e.Title, e.Body, e.Handle, e.DisplayName, strings.Join(tags, " "),
	}, " "))
}

func identityText(e Entity) string {
	return normalize.Fold(strings.TrimPrefix(e.Handle, "@") + " " + e.DisplayName)
}

const entityColumns = `id, kind, title, body, handle, display_name, source_name, url, tags,
	region, is_public, verified, featured, views, likes, comments, created_at`

// Search returns public entities of kind whose text contains query
// (case- and accent-insensitive), most recent first.
func (s *Store) Search(ctx context.Context, kind types.Kind, query string, limit int) ([]Entity, error) {
	q := normalize.Fold(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entityColumns+` FROM entities
		 WHERE kind = ? AND is_public = 1 AND search_text LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC, id ASC
		 LIMIT ?`,
		string(kind), likePattern(q), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching %s entities: %w", kind, err)
	}
	return scanEntities(rows)
}

// Identities returns public users whose handle or display name contains
// query. Prefix matches on the handle come first.
func (s *Store) Identities(ctx context.Context, query string, limit int) ([]Entity, error) {
	q := normalize.Fold(strings.TrimPrefix(strings.TrimSpace(query), "@"))
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entityColumns+` FROM entities
		 WHERE kind = ? AND is_public = 1 AND identity_text LIKE ? ESCAPE '\'
		 ORDER BY CASE WHEN identity_text LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, handle ASC
		 LIMIT ?`,
		string(types.KindUser), likePattern(q), escapeLike(q)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching identities: %w", err)
	}
	return scanEntities(rows)
}

// Tags returns tags of public entities containing query, most used first.
func (s *Store) Tags(ctx context.Context, query string, limit int) ([]TagCount, error) {
	q := strings.TrimPrefix(normalize.Fold(query), "#")
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.tag, count(*) AS n FROM entity_tags t
		 JOIN entities e ON e.id = t.entity_id
		 WHERE e.is_public = 1 AND t.tag LIKE ? ESCAPE '\'
		 GROUP BY t.tag
		 ORDER BY n DESC, t.tag ASC
		 LIMIT ?`,
		likePattern(q), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching tags: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Count returns the number of public entities per kind.
func (s *Store) Count(ctx context.Context) (map[types.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, count(*) FROM entities WHERE is_public = 1 GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("counting entities: %w", err)
	}
	defer rows.Close()

	out := make(map[types.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out[types.Kind(kind)] = n
	}
	return out, rows.Err()
}

func scanEntities(rows *sql.Rows) ([]Entity, error) {
	defer rows.Close()
	var out []Entity
	for rows.Next() {
		var (
			e                      Entity
			kind, tagsJSON, region string
			created                string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Title, &e.Body, &e.Handle, &e.DisplayName,
			&e.SourceName, &e.URL, &tagsJSON, &region, &e.Public, &e.Verified, &e.Featured,
			&e.Views, &e.Likes, &e.Comments, &created); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		e.Kind = types.Kind(kind)
		e.Region = types.Region(region)
		if tagsJSON != "" {
			_ = json.Unmarshal([]byte(tagsJSON), &e.Tags)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// likePattern wraps q for a substring LIKE match.
func likePattern(q string) string {
	return "%" + escapeLike(q) + "%"
}

func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}
