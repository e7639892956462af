// Package storage opens the relational store shared by the repositories and keeps
// its schema current. PostgreSQL (lib/pq) and SQLite (modernc) are supported.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is a *sql.DB that knows which placeholder style its driver expects.
type DB struct {
	*sql.DB
	Driver string
}

// Rebind rewrites '?' placeholders into the driver's native form.
func (db *DB) Rebind(query string) string {
	if db.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Timestamp normalises t for storage: UTC with microsecond precision, which is what
// PostgreSQL keeps and what SQLite compares lexically.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Open connects to the configured database, retrying the initial ping while the
// database comes up.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY under concurrent requests.
		sqlDB.SetMaxOpenConns(1)
	}

	const attempts = 10
	for i := 1; i <= attempts; i++ {
		if err = sqlDB.PingContext(ctx); err == nil {
			break
		}
		log.Warn().Err(err).Msgf("Waiting for database... (%d/%d)", i, attempts)
		select {
		case <-ctx.Done():
			sqlDB.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(i) * 200 * time.Millisecond):
		}
	}
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("could not connect to %s: %w", driver, err)
	}

	return &DB{DB: sqlDB, Driver: driver}, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite"
}

// Migrate applies all pending up migrations for the database's driver.
func Migrate(db *DB) error {
	src, err := fs.Sub(migrationsFS, "migrations/"+db.Driver)
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", db.Driver, err)
	}
	source, err := iofs.New(src, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	var target database.Driver
	switch db.Driver {
	case DriverPostgres:
		target, err = postgres.WithInstance(db.DB, &postgres.Config{})
	case DriverSQLite:
		target, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	default:
		err = fmt.Errorf("unsupported storage driver %q", db.Driver)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.Driver, target)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	log.Info().Str("driver", db.Driver).Msg("Migrations applied")
	return nil
}

// OpenTemp opens a migrated SQLite database under dir. Used by tests across packages.
func OpenTemp(ctx context.Context, dir string) (*DB, error) {
	db, err := Open(ctx, DriverSQLite, "file:"+dir+"/triage.db")
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
