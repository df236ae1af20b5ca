// Package stars ingests GitHub star events, ranks repositories per trending
// range and publishes the enriched trending documents.
package stars

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ghtrending/ghtrending/pkg/database"
)

// insertChunkSize bounds the rows per INSERT statement
const insertChunkSize = 1000

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stars (
		id TEXT PRIMARY KEY,            -- GH Archive event id, for deduplication
		repo_name TEXT NOT NULL,
		created_at BIGINT NOT NULL      -- Unix seconds, UTC
	)`,
	`CREATE INDEX IF NOT EXISTS stars_created_at_idx ON stars (created_at)`,
	`CREATE INDEX IF NOT EXISTS stars_repo_name_idx ON stars (repo_name)`,
}

// RepoCount is a repository with the number of stars it gained in a window
type RepoCount struct {
	RepoName string
	Stars    int
}

// Store persists star events
type Store struct {
	db *database.Database
}

// NewStore initializes the schema and returns a store backed by db
func NewStore(db *database.Database) (*Store, error) {
	for _, stmt := range schema {
		if err := db.ExecuteSchema(stmt); err != nil {
			return nil, fmt.Errorf("failed to initialize stars schema: %w", err)
		}
	}
	slog.Debug("Star store schema initialized", "driver", db.Driver())
	return &Store{db: db}, nil
}

// Insert stores events in chunks. Events whose id is already stored are
// ignored. Returns the number of new rows.
func (s *Store) Insert(ctx context.Context, events []StarEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	inserted := 0
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(events); start += insertChunkSize {
			end := min(start+insertChunkSize, len(events))
			n, err := s.insertChunk(ctx, tx, events[start:end])
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert star events: %w", err)
	}

	slog.Debug("Stored star events", "received", len(events), "inserted", inserted)
	return inserted, nil
}

func (s *Store) insertChunk(ctx context.Context, tx *sql.Tx, chunk []StarEvent) (int, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO stars (id, repo_name, created_at) VALUES ")

	args := make([]any, 0, len(chunk)*3)
	for i, ev := range chunk {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?, ?)")
		args = append(args, ev.ID, ev.RepoName, ev.CreatedAt.UTC().Unix())
	}
	b.WriteString(" ON CONFLICT (id) DO NOTHING")

	result, err := tx.ExecContext(ctx, s.db.Rebind(b.String()), args...)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// MostStarred returns the repositories with the most stars created within
// window before now, ordered by count then name. A zero window is unbounded.
func (s *Store) MostStarred(ctx context.Context, window time.Duration, limit int, now time.Time) ([]RepoCount, error) {
	query := "SELECT repo_name, COUNT(*) AS stars FROM stars"
	var args []any
	if window > 0 {
		query += " WHERE created_at >= ?"
		args = append(args, now.Add(-window).UTC().Unix())
	}
	query += " GROUP BY repo_name ORDER BY stars DESC, repo_name ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.DB().QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query most starred repositories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []RepoCount
	for rows.Next() {
		var rc RepoCount
		if err := rows.Scan(&rc.RepoName, &rc.Stars); err != nil {
			return nil, fmt.Errorf("failed to scan repository count: %w", err)
		}
		counts = append(counts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read repository counts: %w", err)
	}

	slog.Debug("Ranked repositories", "window", window, "count", len(counts))
	return counts, nil
}

// Count returns the number of stored star events
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM stars").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count star events: %w", err)
	}
	return n, nil
}
