package db

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Dialect interface
// ─────────────────────────────────────────────────────────────────────────────

// Dialect encapsulates the database-specific pieces of generated statements.
// Implement Dialect and register it to add support for a new engine without
// modifying the core package.
type Dialect interface {
	// Name returns the database/sql driver name, e.g. "postgres", "mysql".
	Name() string

	// Placeholder returns the bind placeholder for the n-th parameter
	// (1-based): "$1" for postgres, "?" for mysql and sqlite3.
	Placeholder(n int) string

	// QuoteIdent quotes a single identifier (table or column name).
	QuoteIdent(ident string) string

	// SupportsRowLocking reports whether SELECT ... FOR UPDATE is available.
	// SQLite serialises writers at the database level instead.
	SupportsRowLocking() bool

	// SupportsReturning reports whether INSERT ... RETURNING is available.
	// When false, inserts fall back to LastInsertId plus a re-read.
	SupportsReturning() bool
}

// ─────────────────────────────────────────────────────────────────────────────
// Dialect registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect)
)

// RegisterDialect adds a Dialect to the global registry.
// Panics if a dialect with the same name is already registered.
func RegisterDialect(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	if _, ok := dialects[d.Name()]; ok {
		panic(fmt.Sprintf("entitykit/db: dialect %q already registered", d.Name()))
	}
	dialects[d.Name()] = d
}

// ReplaceDialect upserts a dialect in the registry (no panic on collision).
func ReplaceDialect(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[d.Name()] = d
}

// LookupDialect returns the registered Dialect by driver name or an error.
func LookupDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("entitykit/db: dialect %q not registered", name)
	}
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL dialect (lib/pq)
// ─────────────────────────────────────────────────────────────────────────────

// PostgresDialect targets PostgreSQL via lib/pq.
// Import _ "github.com/lib/pq" alongside this to activate the driver.
type PostgresDialect struct{}

func (PostgresDialect) Name() string               { return "postgres" }
func (PostgresDialect) Placeholder(n int) string   { return "$" + strconv.Itoa(n) }
func (PostgresDialect) QuoteIdent(s string) string { return quoteDouble(s) }
func (PostgresDialect) SupportsRowLocking() bool   { return true }
func (PostgresDialect) SupportsReturning() bool    { return true }

// ─────────────────────────────────────────────────────────────────────────────
// MySQL dialect (go-sql-driver/mysql)
// ─────────────────────────────────────────────────────────────────────────────

// MySQLDialect targets MySQL/MariaDB via go-sql-driver/mysql.
type MySQLDialect struct{}

func (MySQLDialect) Name() string             { return "mysql" }
func (MySQLDialect) Placeholder(int) string   { return "?" }
func (MySQLDialect) SupportsRowLocking() bool { return true }
func (MySQLDialect) SupportsReturning() bool  { return false }

func (MySQLDialect) QuoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite dialect (mattn/go-sqlite3)
// ─────────────────────────────────────────────────────────────────────────────

// SQLiteDialect targets SQLite via mattn/go-sqlite3. SQLite has no FOR UPDATE;
// write transactions already take a database-level lock, so locking reads are
// generated as plain selects.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string               { return "sqlite3" }
func (SQLiteDialect) Placeholder(int) string     { return "?" }
func (SQLiteDialect) QuoteIdent(s string) string { return quoteDouble(s) }
func (SQLiteDialect) SupportsRowLocking() bool   { return false }
func (SQLiteDialect) SupportsReturning() bool    { return false }

// ─────────────────────────────────────────────────────────────────────────────
// Quoting helpers
// ─────────────────────────────────────────────────────────────────────────────

// quoteDouble quotes an identifier with double quotes, doubling any embedded
// quote characters. Schema-qualified identifiers are quoted per part.
func quoteDouble(ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

// ─────────────────────────────────────────────────────────────────────────────
// Built-in dialects register at init time
// ─────────────────────────────────────────────────────────────────────────────

func init() {
	RegisterDialect(PostgresDialect{})
	RegisterDialect(MySQLDialect{})
	RegisterDialect(SQLiteDialect{})
}
