package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists cycle history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS samples (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			price      REAL NOT NULL,
			change_pct REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_ts ON samples(timestamp)`,

		// Indicator columns stay NULL when the window was too small;
		// absence must never be recorded as 0.
		`CREATE TABLE IF NOT EXISTS cycle_snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			price      REAL NOT NULL,
			sma        REAL,
			ema        REAL,
			rsi        REAL,
			support    REAL,
			resistance REAL,
			volatility REAL,
			momentum   REAL,
			trend      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON cycle_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS cycle_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			stage     TEXT NOT NULL,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON cycle_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := rec.Quote
	snap := rec.Snapshot
	ts := q.Sample.Time.Unix()

	if _, err := r.db.Exec(
		`INSERT INTO samples (timestamp, price, change_pct) VALUES (?,?,?)`,
		ts, q.Sample.Price, q.ChangePct24h,
	); err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}

	_, err := r.db.Exec(`INSERT INTO cycle_snapshots
		(timestamp, price, sma, ema, rsi, support, resistance, volatility, momentum, trend)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		ts, snap.Price,
		nullable(snap.SMA), nullable(snap.EMA), nullable(snap.RSI),
		nullable(snap.Support), nullable(snap.Resistance),
		nullable(snap.Volatility), nullable(snap.Momentum),
		string(snap.Trend),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordFailure(f *CycleFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycle_failures (timestamp, stage, message) VALUES (?,?,?)`,
		time.Now().Unix(), f.Stage, f.Message,
	)
	return err
}

// Stats aggregates the samples recorded since the given instant.
func (r *SQLiteRecorder) Stats(since time.Time) (*SampleStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &SampleStats{}
	var minP, maxP sql.NullFloat64
	err := r.db.QueryRow(
		`SELECT COUNT(*), MIN(price), MAX(price) FROM samples WHERE timestamp >= ?`,
		since.Unix(),
	).Scan(&stats.Count, &minP, &maxP)
	if err != nil {
		return nil, fmt.Errorf("aggregate samples: %w", err)
	}
	if stats.Count == 0 {
		return stats, nil
	}
	stats.Min = minP.Float64
	stats.Max = maxP.Float64

	if err := r.db.QueryRow(
		`SELECT price FROM samples WHERE timestamp >= ? ORDER BY timestamp ASC, id ASC LIMIT 1`,
		since.Unix(),
	).Scan(&stats.First); err != nil {
		return nil, fmt.Errorf("first sample: %w", err)
	}
	if err := r.db.QueryRow(
		`SELECT price FROM samples WHERE timestamp >= ? ORDER BY timestamp DESC, id DESC LIMIT 1`,
		since.Unix(),
	).Scan(&stats.Last); err != nil {
		return nil, fmt.Errorf("last sample: %w", err)
	}
	return stats, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// nullable maps an absent indicator to SQL NULL.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
