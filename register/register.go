// Package register keeps a history of issued notices in SQLite.
package register

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS notices (
	id          TEXT PRIMARY KEY,
	case_number TEXT NOT NULL,
	creditor    TEXT NOT NULL,
	tax_id      TEXT NOT NULL,
	amount      TEXT NOT NULL,
	cents       TEXT NOT NULL,
	digest      TEXT NOT NULL,
	filename    TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS notices_case ON notices(case_number);
`

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("register: registro não encontrado")

// Entry is one issued notice.
type Entry struct {
	ID         string    `json:"id"`
	CaseNumber string    `json:"caseNumber"`
	Creditor   string    `json:"creditor"`
	TaxID      string    `json:"taxId"`
	Amount     string    `json:"amount"`
	Cents      string    `json:"cents"`
	Digest     string    `json:"digest"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store is a register backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema. Use
// ":memory:" for a throwaway register.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("register: abrir %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serialises
	// writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("register: criar esquema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Record stores e, assigning an id and timestamp when they are empty, and
// returns the stored entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Millisecond)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notices (id, case_number, creditor, tax_id, amount, cents, digest, filename, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CaseNumber, e.Creditor, e.TaxID, e.Amount, e.Cents, e.Digest, e.Filename, e.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("register: gravar %s: %w", e.CaseNumber, err)
	}
	return e, nil
}

// Get returns the entry with id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntries+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// List returns up to limit entries, newest first. A non-empty caseNumber
// restricts the result to that case. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, caseNumber string, limit int) ([]Entry, error) {
	query := selectEntries
	var args []any
	if caseNumber != "" {
		query += ` WHERE case_number = ?`
		args = append(args, caseNumber)
	}
	query += ` ORDER BY created_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("register: listar: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const selectEntries = `SELECT id, case_number, creditor, tax_id, amount, cents, digest, filename, created_at FROM notices`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var created int64
	if err := sc.Scan(&e.ID, &e.CaseNumber, &e.Creditor, &e.TaxID, &e.Amount, &e.Cents, &e.Digest, &e.Filename, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("register: ler registro: %w", err)
	}
	e.CreatedAt = time.UnixMilli(created).UTC()
	return e, nil
}
