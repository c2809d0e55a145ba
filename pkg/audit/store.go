// Package audit persists a sampled trail of served predictions for offline
// model monitoring. Writes are asynchronous and never block or fail a
// prediction request.
package audit

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/churnlabs/churnserve/pkg/metrics"
	_ "github.com/mattn/go-sqlite3"
)

const (
	bufferSize = 1024

	createTableStmt = `CREATE TABLE IF NOT EXISTS prediction_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		model_version TEXT NOT NULL,
		features TEXT NOT NULL,
		label INTEGER NOT NULL,
		probability REAL NOT NULL,
		latency_ms INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`

	insertStmt = `INSERT INTO prediction_audit
		(request_id, endpoint, model_version, features, label, probability, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// Entry is one served prediction.
type Entry struct {
	RequestID    string
	Endpoint     string
	ModelVersion string
	Features     []float64
	Label        int
	Probability  float64
	LatencyMs    int64
	At           time.Time
}

// Store writes entries to sqlite through a buffered channel and a single
// writer goroutine. When the buffer is full entries are dropped and counted.
type Store struct {
	db   *sql.DB
	ch   chan Entry
	done chan struct{}
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createTableStmt); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:   db,
		ch:   make(chan Entry, bufferSize),
		done: make(chan struct{}),
	}
	go s.writeLoop()
	return s, nil
}

// Record enqueues one entry without blocking the request path.
func (s *Store) Record(entry Entry) {
	select {
	case s.ch <- entry:
	default:
		metrics.Count("audit.entry.dropped", 1, nil)
	}
}

func (s *Store) writeLoop() {
	defer close(s.done)
	for entry := range s.ch {
		features, err := json.Marshal(entry.Features)
		if err != nil {
			logger.Error("Failed to encode audit features", err)
			continue
		}
		_, err = s.db.Exec(insertStmt,
			entry.RequestID, entry.Endpoint, entry.ModelVersion, string(features),
			entry.Label, entry.Probability, entry.LatencyMs, entry.At)
		if err != nil {
			logger.Error("Failed to persist audit entry", err)
			metrics.Count("audit.entry.failed", 1, nil)
		}
	}
}

// Close drains buffered entries and closes the database.
func (s *Store) Close() error {
	close(s.ch)
	<-s.done
	return s.db.Close()
}
