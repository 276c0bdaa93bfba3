package transcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/artemave/super-video-grep/internal/asr"
	"github.com/artemave/super-video-grep/internal/match"
)

// FileName is the cache database file name inside the cache directory.
const FileName = "transcripts.db"

// Store manages transcript persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one cached transcription window.
type Entry struct {
	Key         string
	SourcePath  string
	WindowStart float64
	WindowEnd   float64
	Engine      string
	Result      asr.Result
}

// Stats summarizes cache contents for diagnostic output.
type Stats struct {
	Entries   int64
	Oldest    time.Time
	Newest    time.Time
	SizeBytes int64
}

// Open initializes or connects to the transcript cache database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("transcript cache path required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Lookup fetches the cached result for key. The second return is false when
// no entry exists.
func (s *Store) Lookup(ctx context.Context, key string) (asr.Result, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT words_json, warnings_json FROM window_transcripts WHERE cache_key = ?`, key)

	var wordsJSON, warningsJSON string
	if err := row.Scan(&wordsJSON, &warningsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return asr.Result{}, false, nil
		}
		return asr.Result{}, false, fmt.Errorf("lookup transcript: %w", err)
	}

	words, err := decodeWords(wordsJSON)
	if err != nil {
		return asr.Result{}, false, fmt.Errorf("decode cached words: %w", err)
	}
	var warnings []string
	if warningsJSON != "" {
		if err := json.Unmarshal([]byte(warningsJSON), &warnings); err != nil {
			return asr.Result{}, false, fmt.Errorf("decode cached warnings: %w", err)
		}
	}
	return asr.Result{Words: words, Warnings: warnings}, true, nil
}

// Save inserts or replaces the entry. Existing rows for the same key are
// overwritten so a retried window never keeps stale words.
func (s *Store) Save(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Key) == "" {
		return errors.New("cache key cannot be empty")
	}

	wordsJSON, err := encodeWords(entry.Result.Words)
	if err != nil {
		return fmt.Errorf("encode words: %w", err)
	}
	warnings := entry.Result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO window_transcripts (
            cache_key, source_path, window_start_ms, window_end_ms,
            engine, words_json, warnings_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Key,
		entry.SourcePath,
		windowMillis(entry.WindowStart),
		windowMillis(entry.WindowEnd),
		entry.Engine,
		string(wordsJSON),
		string(warningsJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// Prune removes entries older than maxAge and reports how many were deleted.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.pruneBefore(ctx, time.Now().Add(-maxAge))
}

func (s *Store) pruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM window_transcripts WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune transcripts: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned transcripts: %w", err)
	}
	return count, nil
}

// Clear removes every cached transcript and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM window_transcripts`)
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared transcripts: %w", err)
	}
	return count, nil
}

// Summarize reports entry counts and age bounds for diagnostic output.
func (s *Store) Summarize(ctx context.Context) (Stats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(MIN(created_at), ''), COALESCE(MAX(created_at), '') FROM window_transcripts`)

	var (
		stats  Stats
		oldest string
		newest string
	)
	if err := row.Scan(&stats.Entries, &oldest, &newest); err != nil {
		return Stats{}, fmt.Errorf("summarize transcripts: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, oldest); err == nil {
		stats.Oldest = t
	}
	if t, err := time.Parse(time.RFC3339Nano, newest); err == nil {
		stats.Newest = t
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

// wordRecord is the stored JSON shape for one recognized word.
type wordRecord struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Norm  string  `json:"norm"`
}

func encodeWords(words []match.Word) ([]byte, error) {
	records := make([]wordRecord, 0, len(words))
	for _, word := range words {
		records = append(records, wordRecord{Start: word.Start, End: word.End, Text: word.Text, Norm: word.Norm})
	}
	return json.Marshal(records)
}

func decodeWords(data string) ([]match.Word, error) {
	var records []wordRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	words := make([]match.Word, 0, len(records))
	for _, rec := range records {
		words = append(words, match.Word{Start: rec.Start, End: rec.End, Text: rec.Text, Norm: rec.Norm})
	}
	return words, nil
}
