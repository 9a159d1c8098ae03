// Package sqlstore implements store.Appointments over database/sql. The
// sqlite and postgres packages supply the driver and the Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/store"
)

// Dialect covers the differences between the SQL engines we run on.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// LockClause is appended to the read half of read-modify-write.
	LockClause string
}

// Schema is portable across both engines; timestamps are Unix milliseconds
// so neither driver's time parsing is involved.
const Schema = `
CREATE TABLE IF NOT EXISTS appointments (
    id        TEXT PRIMARY KEY,
    title     TEXT NOT NULL DEFAULT '',
    location  TEXT NOT NULL DEFAULT '',
    notes     TEXT NOT NULL DEFAULT '',
    start_ms  BIGINT NOT NULL,
    end_ms    BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS appointments_start_idx ON appointments (start_ms, id);
`

// Store is a database/sql backed store.Appointments.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

var _ store.Appointments = (*Store)(nil)

func New(db *sql.DB, d Dialect) *Store { return &Store{db: db, dialect: d} }

func (s *Store) DB() *sql.DB { return s.db }

// EnsureSchema creates the appointments table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "%s: ensure schema", s.dialect.Name)
		}
	}
	return nil
}

func (s *Store) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) List(ctx context.Context) ([]model.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, location, notes, start_ms, end_ms FROM appointments ORDER BY start_ms, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list appointments")
	}
	defer func() { _ = rows.Close() }()

	var out []model.StoredDocument
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list appointments")
	}
	if out == nil {
		out = []model.StoredDocument{}
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, doc model.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	id := ulid.Make().String()
	q := fmt.Sprintf(`INSERT INTO appointments (id, title, location, notes, start_ms, end_ms) VALUES (%s)`,
		s.placeholders(1, 6))
	if _, err := s.db.ExecContext(ctx, q, id, doc.Title, doc.Location, doc.Notes,
		doc.StartDate.UnixMilli(), doc.EndDate.UnixMilli()); err != nil {
		return "", errors.Wrap(err, "create appointment")
	}
	return id, nil
}

// Update reads the row, merges changes, validates and writes back inside
// one transaction.
func (s *Store) Update(ctx context.Context, id string, changes model.Changes) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "update appointment: begin")
	}
	defer func() { _ = tx.Rollback() }()

	q := fmt.Sprintf(`SELECT id, title, location, notes, start_ms, end_ms FROM appointments WHERE id = %s %s`,
		s.dialect.Placeholder(1), s.dialect.LockClause)
	cur, err := scan(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("appointment %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if changes.IsEmpty() {
		return nil
	}

	next := changes.ApplyDocument(cur.Document)
	if err := next.Validate(); err != nil {
		return err
	}
	q = fmt.Sprintf(`UPDATE appointments SET title = %s, location = %s, notes = %s, start_ms = %s, end_ms = %s WHERE id = %s`,
		s.dialect.Placeholder(1), s.dialect.Placeholder(2), s.dialect.Placeholder(3),
		s.dialect.Placeholder(4), s.dialect.Placeholder(5), s.dialect.Placeholder(6))
	if _, err := tx.ExecContext(ctx, q, next.Title, next.Location, next.Notes,
		next.StartDate.UnixMilli(), next.EndDate.UnixMilli(), id); err != nil {
		return errors.Wrap(err, "update appointment")
	}
	return errors.Wrap(tx.Commit(), "update appointment: commit")
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = `+s.dialect.Placeholder(1), id)
	if err != nil {
		return errors.Wrap(err, "delete appointment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete appointment")
	}
	if n == 0 {
		return fmt.Errorf("appointment %s: %w", id, model.ErrNotFound)
	}
	return nil
}

func (s *Store) placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = s.dialect.Placeholder(from + i)
	}
	return strings.Join(ps, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (model.StoredDocument, error) {
	var (
		d              model.StoredDocument
		startMs, endMs int64
	)
	if err := row.Scan(&d.ID, &d.Title, &d.Location, &d.Notes, &startMs, &endMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return d, err
		}
		return d, errors.Wrap(err, "scan appointment")
	}
	d.StartDate = time.UnixMilli(startMs).UTC()
	d.EndDate = time.UnixMilli(endMs).UTC()
	return d, nil
}
