// Package store persists privacy-conscious page analytics: hashed visits and
// the sections each page session revealed.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a Store.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DialectOf picks the dialect from a DATABASE_URL. Anything that is not a
// postgres URL is a sqlite path.
func DialectOf(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return Postgres
	}
	return SQLite
}

type Store struct {
	db      *sqlx.DB
	dialect Dialect
	clock   clockwork.Clock
}

// Open connects to dsn and creates the schema. A nil clock means the real clock.
func Open(ctx context.Context, dsn string, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	dialect := DialectOf(dsn)
	conn, err := sqlx.ConnectContext(ctx, string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect %s: %w", dialect, err)
	}

	switch dialect {
	case SQLite:
		// One writer, and ":memory:" databases are per connection.
		conn.SetMaxOpenConns(1)
	case Postgres:
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	s := &Store{db: conn, dialect: dialect, clock: clock}
	if err := s.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

func schema(d Dialect) []string {
	id, ts := "INTEGER PRIMARY KEY AUTOINCREMENT", "DATETIME"
	if d == Postgres {
		id, ts = "BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS visits (
			id ` + id + `,
			hashed_ip TEXT NOT NULL,
			user_agent TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL,
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_created_at ON visits (created_at)`,
		`CREATE TABLE IF NOT EXISTS reveals (
			id ` + id + `,
			session_id TEXT NOT NULL,
			section TEXT NOT NULL,
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reveals_section ON reveals (section)`,
	}
}
