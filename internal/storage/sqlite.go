// Package storage provides durable backends for the score ledger.
// Store uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies;
// FileStore keeps the ledger in a single JSON file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-snake/internal/ledger"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// Store manages the SQLite database connection for ledger persistence.
type Store struct {
	db *sql.DB
}

// DuelMatch is one recorded two-player match.
type DuelMatch struct {
	ID        int64
	Category  string
	Player1   string
	Player2   string
	Score1    int
	Score2    int
	Survival1 time.Duration
	Survival2 time.Duration
	Winner    int // 0 for a draw
	Ticks     uint64
	CreatedAt time.Time
}

// CategoryStats contains aggregated statistics for one score category.
type CategoryStats struct {
	Category   string
	Players    int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(path string) (string, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandPath(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; the ledger serializes callers anyway
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", strings.TrimSuffix(pragma, ";"), err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			identity_key TEXT NOT NULL,
			identity TEXT NOT NULL,
			category TEXT NOT NULL,
			score INTEGER NOT NULL,
			survival_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			UNIQUE(identity_key, category)
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(category, score DESC, survival_ms DESC);

		CREATE TABLE IF NOT EXISTS duel_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			player1 TEXT NOT NULL,
			player2 TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			survival1_ms INTEGER NOT NULL DEFAULT 0,
			survival2_ms INTEGER NOT NULL DEFAULT 0,
			winner INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_duel_matches_created ON duel_matches(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns every ledger entry. Implements ledger.Store.
func (s *Store) Load(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity, category, score, survival_ms, recorded_at FROM scores`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		var survivalMs int64
		var recordedAt string
		if err := rows.Scan(&e.Identity, &e.Category, &e.Score, &survivalMs, &recordedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Survival = time.Duration(survivalMs) * time.Millisecond
		e.RecordedAt = parseTime(recordedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Put inserts or replaces the entry for e's key. The update only applies
// when e beats the stored row, so a Put issued from a stale read can
// never lower a record. Implements ledger.Store.
func (s *Store) Put(ctx context.Context, e ledger.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	key := e.Key()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO scores (identity_key, identity, category, score, survival_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(identity_key, category) DO UPDATE SET
			identity = excluded.identity,
			score = excluded.score,
			survival_ms = excluded.survival_ms,
			recorded_at = excluded.recorded_at
		 WHERE excluded.score > scores.score
			OR (excluded.score = scores.score AND excluded.survival_ms > scores.survival_ms)`,
		key.Identity, e.Identity, e.Category, e.Score, e.Survival.Milliseconds(), formatTime(e.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return nil
}

// Clear deletes all ledger entries. Implements ledger.Store.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Ensure Store implements ledger.Store
var _ ledger.Store = (*Store)(nil)

// RecordDuel implements session.DuelRecorder.
func (s *Store) RecordDuel(ctx context.Context, rec session.DuelRecord) error {
	_, err := s.SaveDuel(ctx, DuelMatch{
		Category:  rec.Category,
		Player1:   rec.Players[0],
		Player2:   rec.Players[1],
		Score1:    rec.Scores[0],
		Score2:    rec.Scores[1],
		Survival1: rec.Survival[0],
		Survival2: rec.Survival[1],
		Winner:    rec.Winner,
		Ticks:     rec.Ticks,
		CreatedAt: rec.EndedAt,
	})
	return err
}

// Ensure Store implements DuelRecorder
var _ session.DuelRecorder = (*Store)(nil)

// SaveDuel records the result of a two-player match.
// Returns the ID of the inserted record.
func (s *Store) SaveDuel(ctx context.Context, m DuelMatch) (int64, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO duel_matches
		 (category, player1, player2, score1, score2, survival1_ms, survival2_ms, winner, ticks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Category,
		m.Player1,
		m.Player2,
		m.Score1,
		m.Score2,
		m.Survival1.Milliseconds(),
		m.Survival2.Milliseconds(),
		m.Winner,
		int64(m.Ticks),
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save duel: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentDuels retrieves the most recent duel matches, newest first.
func (s *Store) RecentDuels(ctx context.Context, limit int) ([]DuelMatch, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, player1, player2, score1, score2,
		        survival1_ms, survival2_ms, winner, ticks, created_at
		 FROM duel_matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duels: %w", err)
	}
	defer rows.Close()

	var results []DuelMatch
	for rows.Next() {
		var m DuelMatch
		var s1, s2, ticks int64
		var createdAt string
		if err := rows.Scan(
			&m.ID,
			&m.Category,
			&m.Player1,
			&m.Player2,
			&m.Score1,
			&m.Score2,
			&s1,
			&s2,
			&m.Winner,
			&ticks,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m.Survival1 = time.Duration(s1) * time.Millisecond
		m.Survival2 = time.Duration(s2) * time.Millisecond
		m.Ticks = uint64(ticks)
		m.CreatedAt = parseTime(createdAt)
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Stats retrieves aggregated statistics for every category with entries.
func (s *Store) Stats(ctx context.Context) (map[string]*CategoryStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*), MAX(score), AVG(score), MAX(recorded_at)
		 FROM scores
		 GROUP BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get category stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*CategoryStats)
	for rows.Next() {
		var cs CategoryStats
		var lastPlayed string
		if err := rows.Scan(&cs.Category, &cs.Players, &cs.HighScore, &cs.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		cs.LastPlayed = parseTime(lastPlayed)
		stats[cs.Category] = &cs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// Fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t
	}
	return time.Time{}
}
