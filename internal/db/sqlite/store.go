// Package sqlite is the patient registry backend.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/riskdesk/internal/db"
)

// Compile-time check: Store implements db.Pinger.
var _ db.Pinger = (*Store)(nil)

// Row is one result row keyed by column name. TEXT columns come back as
// string, INTEGER as int64, REAL as float64 and NULL as nil.
type Row map[string]any

// Store wraps a SQLite database opened with modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn and configures WAL mode.
func Open(dsn string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			_ = sqlDB.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &Store{db: sqlDB}, nil
}

// Column order matches the registry CSV export with asthma inserted after anemia.
const migration = `
CREATE TABLE IF NOT EXISTS patients (
	patient_id             INTEGER PRIMARY KEY,
	patient_name           TEXT NOT NULL,
	age                    INTEGER,
	gender                 TEXT,
	diagnosis              TEXT,
	diabetes               TEXT NOT NULL DEFAULT 'No',
	smoking_status         TEXT,
	obesity                TEXT NOT NULL DEFAULT 'No',
	chronic_kidney_disease TEXT NOT NULL DEFAULT 'No',
	anemia                 TEXT NOT NULL DEFAULT 'No',
	asthma                 TEXT NOT NULL DEFAULT 'No',
	blood_pressure         TEXT,
	heart_rate             INTEGER,
	cholesterol            INTEGER NOT NULL DEFAULT 0,
	risk_level             TEXT,
	care_priority          TEXT,
	visit_date             TEXT
);

CREATE INDEX IF NOT EXISTS idx_patients_risk_level ON patients(risk_level);
CREATE INDEX IF NOT EXISTS idx_patients_name ON patients(patient_name);
`

// Migrate creates the registry schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *Store) Close() error {
	return eris.Wrap(s.db.Close(), "sqlite: close")
}

// Ping checks that the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

// Query runs a read query and returns every row.
func (s *Store) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query")
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan")
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate rows")
}

// ExecBatch runs stmt once per argument list inside a single transaction.
// Returns the number of executed statements.
func (s *Store) ExecBatch(ctx context.Context, stmt string, batch [][]any) (n int, err error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare")
	}
	defer func() { _ = prepared.Close() }()

	for i, args := range batch {
		if _, err = prepared.ExecContext(ctx, args...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: exec row %d", i)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return len(batch), nil
}
