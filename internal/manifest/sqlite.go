package manifest

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS outputs (
	output     TEXT PRIMARY KEY,
	input      TEXT NOT NULL,
	idx        INTEGER NOT NULL,
	line       INTEGER NOT NULL,
	header     TEXT NOT NULL,
	dialect    TEXT NOT NULL,
	length     INTEGER,
	topology   TEXT,
	accession  TEXT,
	bytes      INTEGER NOT NULL,
	lines      INTEGER NOT NULL,
	written_at TEXT NOT NULL
)`

type sqliteStore struct {
	db *sql.DB
}

func openSQLite(path string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Save(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO outputs
		(output, input, idx, line, header, dialect, length, topology, accession, bytes, lines, written_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(output) DO UPDATE SET
			input = excluded.input, idx = excluded.idx, line = excluded.line,
			header = excluded.header, dialect = excluded.dialect, length = excluded.length,
			topology = excluded.topology, accession = excluded.accession,
			bytes = excluded.bytes, lines = excluded.lines, written_at = excluded.written_at`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(e.Output, e.Input, e.Index, e.Line, e.Header, e.Dialect,
			e.Length, e.Topology, e.Accession, e.Bytes, e.Lines,
			e.WrittenAt.UTC().Format(time.RFC3339Nano)); err != nil {
			tx.Rollback()
			return fmt.Errorf("save %s: %w", e.Output, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Load() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT output, input, idx, line, header, dialect,
		COALESCE(length, 0), COALESCE(topology, ''), COALESCE(accession, ''), bytes, lines, written_at
		FROM outputs ORDER BY written_at, input, idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.Output, &e.Input, &e.Index, &e.Line, &e.Header, &e.Dialect,
			&e.Length, &e.Topology, &e.Accession, &e.Bytes, &e.Lines, &at); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.WrittenAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
