package report

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store persists ledger rows to a SQLite file for audit.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the audit database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("report: open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ledger (
		model    TEXT NOT NULL,
		pathway  TEXT NOT NULL,
		year     INTEGER NOT NULL,
		status   TEXT NOT NULL,
		name     TEXT NOT NULL,
		product  TEXT NOT NULL,
		location TEXT NOT NULL,
		unit     TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: create ledger table: %w", err)
	}
	return &Store{db: db}, nil
}

// Write appends every ledger row to the audit database in one transaction.
func (s *Store) Write(l *Ledger) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("report: begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO ledger
		(model, pathway, year, status, name, product, location, unit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("report: prepare: %w", err)
	}
	defer stmt.Close()

	insert := func(k Key, status string, entries []Entry) error {
		for _, e := range entries {
			if _, err := stmt.Exec(k.Model, k.Pathway, k.Year, status,
				e.Name, e.Product, e.Location, e.Unit); err != nil {
				return err
			}
		}
		return nil
	}
	for _, k := range l.Keys() {
		if err := insert(k, "created", l.CreatedFor(k)); err != nil {
			tx.Rollback()
			return fmt.Errorf("report: insert created: %w", err)
		}
		if err := insert(k, "emptied", l.EmptiedFor(k)); err != nil {
			tx.Rollback()
			return fmt.Errorf("report: insert emptied: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
