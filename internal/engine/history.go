package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Q&A history: an optional append-only log of answered questions shown
// in the web UI and exposed over MCP. This is not a transcript or index
// cache: every ask still runs the full pipeline from scratch.

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openHistoryDB opens (or creates) the SQLite history database.
// Returns (nil, nil) when history is disabled by configuration.
func openHistoryDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		path := cfg.HistoryDB
		if path == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			historyErr = fmt.Errorf("history: mkdir %s: %w", filepath.Dir(path), err)
			return
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initHistorySchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

// initHistorySchema creates the asks table if it doesn't exist.
func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS asks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id   TEXT NOT NULL,
		title      TEXT,
		question   TEXT NOT NULL,
		answer     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// RecordAsk stores one answered question. Best-effort: failures are
// logged and never fail the request that produced the answer.
func RecordAsk(ctx context.Context, out AskOutput) {
	db, err := openHistoryDB()
	if err != nil {
		slog.Warn("history: unavailable", slog.Any("error", err))
		return
	}
	if db == nil {
		return
	}
	if err := recordAsk(ctx, db, out); err != nil {
		slog.Warn("history: insert failed", slog.Any("error", err))
	}
}

func recordAsk(ctx context.Context, db *sql.DB, out AskOutput) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO asks (video_id, title, question, answer, created_at) VALUES (?, ?, ?, ?, ?)`,
		out.VideoID, out.Title, out.Question, out.Answer, time.Now().UTC().Format(time.RFC3339))
	return err
}

// RecentAsks returns the newest history entries, newest first.
// Disabled history yields an empty list.
func RecentAsks(ctx context.Context, limit int) ([]AskRecord, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, nil
	}
	return recentAsks(ctx, db, limit)
}

func recentAsks(ctx context.Context, db *sql.DB, limit int) ([]AskRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, video_id, title, question, answer, created_at
		 FROM asks ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var asks []AskRecord
	for rows.Next() {
		var a AskRecord
		var title sql.NullString
		if err := rows.Scan(&a.ID, &a.VideoID, &title, &a.Question, &a.Answer, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if title.Valid {
			a.Title = title.String
		}
		asks = append(asks, a)
	}
	return asks, rows.Err()
}
