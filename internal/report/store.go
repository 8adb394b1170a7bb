// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/lindex/pkg/types"
)

const ledgerFile = "lindex.db"

// Store is the results ledger: one row per finished computation, so past
// L-index values can be listed and compared across runs. It records only
// the summary a report also shows, never provider responses.
type Store struct {
	db *sql.DB
}

// Entry is one ledger row.
type Entry struct {
	ID          string
	AuthorID    string
	AuthorName  string
	LIndex      float64
	PubsUsed    int
	MaxPubs     int
	RateLimited bool
	ComputedAt  time.Time
}

// OpenStore opens or creates the ledger database at dir/lindex.db,
// creating dir and the schema as needed.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(dir, ledgerFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS computations (
			id TEXT PRIMARY KEY,
			author_id TEXT NOT NULL,
			author_name TEXT NOT NULL,
			l_index REAL NOT NULL,
			pubs_used INTEGER NOT NULL,
			max_pubs INTEGER NOT NULL,
			rate_limited INTEGER NOT NULL,
			computed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_computations_author ON computations(author_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append records one finished computation and returns its row ID.
func (s *Store) Append(ctx context.Context, result types.ScoredResult, maxPubs int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO computations (id, author_id, author_name, l_index, pubs_used, max_pubs, rate_limited, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		result.Author.ID,
		result.Author.Name,
		result.LIndex,
		result.PublicationsUsed,
		maxPubs,
		boolToInt(result.RateLimited),
		result.ComputedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("appending to ledger: %w", err)
	}
	return id, nil
}

// List returns ledger entries, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author_id, author_name, l_index, pubs_used, max_pubs, rate_limited, computed_at
		 FROM computations ORDER BY computed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			rateLimited int
			computedAt  string
		)
		if err := rows.Scan(&e.ID, &e.AuthorID, &e.AuthorName, &e.LIndex, &e.PubsUsed, &e.MaxPubs, &rateLimited, &computedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		e.RateLimited = rateLimited != 0
		if t, parseErr := time.Parse(time.RFC3339Nano, computedAt); parseErr == nil {
			e.ComputedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
