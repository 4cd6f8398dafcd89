// Package resultstore persists exhaustive-search results to a SQL
// database. Adapted from the teacher's internal/database db_manager.go
// (same sql.Open-by-driver-name idiom, connection-pool tuning, and driver
// blank-imports), now storing Busy Beaver candidate results instead of
// opening ad hoc connections for security scanning.
package resultstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"bbfinder/internal/bberrors"
)

// Driver names recognized by Open, mapped to the driver actually
// registered with database/sql.
const (
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
	DriverMSSQL      = "mssql"
	DriverSQLite     = "sqlite3"       // mattn/go-sqlite3 (cgo)
	DriverSQLitePure = "sqlite-pure"    // modernc.org/sqlite (pure Go)
)

func driverName(kind string) (string, error) {
	switch kind {
	case DriverMySQL:
		return "mysql", nil
	case DriverPostgres:
		return "postgres", nil
	case DriverMSSQL:
		return "sqlserver", nil
	case DriverSQLite:
		return "sqlite3", nil
	case DriverSQLitePure:
		return "sqlite", nil
	default:
		return "", bberrors.New(bberrors.StoreError, "unsupported result store driver %q", kind)
	}
}

// Store persists one row per fully-decided candidate program.
type Store struct {
	db   *sql.DB
	kind string
}

// Open connects to dsn using the named driver kind and ensures the
// results table exists.
func Open(kind, dsn string) (*Store, error) {
	drv, err := driverName(kind)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(drv, dsn)
	if err != nil {
		return nil, bberrors.Wrap(err, bberrors.StoreError, "open result store")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, bberrors.Wrap(err, bberrors.StoreError, "ping result store")
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db, kind: kind}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS bb_results (
			run_id       TEXT PRIMARY KEY,
			width        INTEGER NOT NULL,
			height       INTEGER NOT NULL,
			program      TEXT NOT NULL,
			steps        INTEGER NOT NULL,
			verdict      TEXT NOT NULL,
			recorded_at  TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return bberrors.Wrap(err, bberrors.StoreError, "create bb_results table")
	}
	return nil
}

// Record inserts one candidate's outcome, returning the generated run ID.
func (s *Store) Record(width, height int, programText string, steps int, verdict string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO bb_results (run_id, width, height, program, steps, verdict, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, width, height, programText, steps, verdict, time.Now().UTC(),
	)
	if err != nil {
		return "", bberrors.Wrap(err, bberrors.StoreError, "insert result")
	}
	return id, nil
}

// BestByWidthHeight returns the highest step count recorded for a given
// grid size, or 0 if none.
func (s *Store) BestByWidthHeight(width, height int) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(steps) FROM bb_results WHERE width = ? AND height = ?`, width, height,
	).Scan(&best)
	if err != nil {
		return 0, bberrors.Wrap(err, bberrors.StoreError, "query best result")
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return bberrors.Wrap(err, bberrors.StoreError, fmt.Sprintf("close %s result store", s.kind))
	}
	return nil
}
