// Package store persists generated reports in Postgres. The archive is an
// optional feature: when no database is configured the server simply skips
// report persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a report id does not exist in the archive.
var ErrNotFound = errors.New("report not found")

// Report is one archived report row.
type Report struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
}

// Store is the Postgres-backed report archive.
type Store struct {
	DB *sql.DB
}

func New(ctx context.Context, url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// SaveReport archives a report payload and returns its generated id.
func (s *Store) SaveReport(ctx context.Context, kind string, payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding report payload: %w", err)
	}
	id := uuid.NewString()
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO reports (id, kind, payload) VALUES ($1, $2, $3)`,
		id, kind, raw)
	if err != nil {
		return "", fmt.Errorf("inserting report: %w", err)
	}
	return id, nil
}

// GetReport loads an archived report by id.
func (s *Store) GetReport(ctx context.Context, id string) (Report, error) {
	var r Report
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, kind, payload, created_at FROM reports WHERE id = $1`,
		id).Scan(&r.ID, &r.Kind, &r.Payload, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("loading report %s: %w", id, err)
	}
	return r, nil
}

func (s *Store) Close() error { return s.DB.Close() }
