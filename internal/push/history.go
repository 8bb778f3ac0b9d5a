package push

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var ulidEntropy = ulid.Monotonic(rand.Reader, 0)

// Delivery is one recorded notification fan-out.
type Delivery struct {
	ID        string `json:"id"`
	SentAt    string `json:"sent_at"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Target    string `json:"target,omitempty"`
	Endpoints int    `json:"endpoints"`
	Delivered int    `json:"delivered"`
	Pruned    int    `json:"pruned"`
}

// History is the delivery log. One row per notification event, written after
// the fan-out completes. Best-effort: a write failure never blocks delivery.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the delivery log at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS deliveries (
		id        TEXT PRIMARY KEY,
		sent_at   TEXT NOT NULL,
		title     TEXT NOT NULL,
		body      TEXT NOT NULL,
		target    TEXT NOT NULL DEFAULT '',
		endpoints INTEGER NOT NULL,
		delivered INTEGER NOT NULL,
		pruned    INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create deliveries table: %w", err)
	}
	return &History{db: db}, nil
}

// Record appends one delivery row.
func (h *History) Record(title, body, target string, endpoints, delivered, pruned int) {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
	_, err := h.db.Exec(
		`INSERT INTO deliveries (id, sent_at, title, body, target, endpoints, delivered, pruned)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), title, body, target,
		endpoints, delivered, pruned,
	)
	if err != nil {
		log.Printf("[push] record delivery: %v", err)
	}
}

// Recent returns the latest deliveries, newest first.
func (h *History) Recent(limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(
		`SELECT id, sent_at, title, body, target, endpoints, delivered, pruned
		 FROM deliveries ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.SentAt, &d.Title, &d.Body, &d.Target,
			&d.Endpoints, &d.Delivered, &d.Pruned); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}
