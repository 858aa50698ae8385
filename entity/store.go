package entity

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Skryldev/entitykit/db"
)

// ─────────────────────────────────────────────────────────────────────────────
// Store — the row primitives a service composes
// ─────────────────────────────────────────────────────────────────────────────

// FindOptions controls a FindByKey lookup.
type FindOptions struct {
	// Columns is the column set to read. Required.
	Columns []string
	// LockForUpdate requests a row-level lock (SELECT ... FOR UPDATE) so a
	// concurrent writer cannot commit between this read and a subsequent
	// write. Only effective inside a transaction; ignored by engines
	// without row locking.
	LockForUpdate bool
}

// Store executes the physical row operations for one table. The default
// implementation generates explicit SQL through a db.Dialect; replace it to
// back a service with a different storage engine.
type Store interface {
	// CheckKeyUnique fails with db.ErrDuplicateKey when a row with the
	// given primary key already exists.
	CheckKeyUnique(ctx context.Context, q db.Querier, table string, key Key) error

	// Insert writes fields (restricted to columns) and returns the full
	// persisted row, including server-assigned values.
	Insert(ctx context.Context, q db.Querier, table string, fields Row, columns, keyCols []string) (Row, error)

	// FindByKey returns the row matching key, or db.ErrNotFound.
	FindByKey(ctx context.Context, q db.Querier, table string, key Key, opts FindOptions) (Row, error)

	// UpdateByKey applies fields (restricted to columns) to the row
	// matching key and returns the resulting row.
	UpdateByKey(ctx context.Context, q db.Querier, table string, key Key, fields Row, columns []string) (Row, error)

	// DeleteByKey removes the row matching key, or fails with
	// db.ErrNotFound when no row matched.
	DeleteByKey(ctx context.Context, q db.Querier, table string, key Key) error
}

// NewSQLStore returns the SQL-backed Store for the given dialect.
func NewSQLStore(dialect db.Dialect) Store {
	return &sqlStore{dialect: dialect}
}

type sqlStore struct {
	dialect db.Dialect
}

var _ Store = (*sqlStore)(nil)

// ─────────────────────────────────────────────────────────────────────────────
// CheckKeyUnique
// ─────────────────────────────────────────────────────────────────────────────

func (s *sqlStore) CheckKeyUnique(ctx context.Context, q db.Querier, table string, key Key) error {
	where, args := s.whereKey(key, 1)
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s LIMIT 1",
		s.dialect.QuoteIdent(table), where)

	var one int
	err := q.QueryRow(ctx, query, args...).Scan(&one)
	switch {
	case db.IsNotFound(err):
		return nil
	case err != nil:
		return err
	}
	return &db.DBError{
		Sentinel: db.ErrDuplicateKey,
		Message:  fmt.Sprintf("primary key already present in %s", table),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert
// ─────────────────────────────────────────────────────────────────────────────

func (s *sqlStore) Insert(ctx context.Context, q db.Querier, table string, fields Row, columns, keyCols []string) (Row, error) {
	cols, args := presentColumns(fields, columns)
	if len(cols) == 0 {
		return nil, fmt.Errorf("entitykit/entity: insert into %s: no insertable fields", table)
	}

	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = s.dialect.QuoteIdent(c)
		marks[i] = s.dialect.Placeholder(i + 1)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.QuoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(marks, ", "))

	// Engines with RETURNING hand the persisted row back directly; the rest
	// re-read by key, falling back to LastInsertId for generated keys.
	if s.dialect.SupportsReturning() {
		returning := make([]string, len(columns))
		for i, c := range columns {
			returning[i] = s.dialect.QuoteIdent(c)
		}
		query := insert + " RETURNING " + strings.Join(returning, ", ")
		return scanRow(q.QueryRow(ctx, query, args...), columns)
	}

	// Without RETURNING the persisted row can only be re-read through a
	// complete key (or LastInsertId for a generated single-column key), so a
	// partial composite key must be rejected before any write happens.
	key := fields.Key(keyCols)
	if !key.Complete(keyCols) && len(keyCols) != 1 {
		return nil, fmt.Errorf("entitykit/entity: insert into %s: composite key must be fully supplied", table)
	}

	res, err := q.Exec(ctx, insert, args...)
	if err != nil {
		return nil, err
	}

	if !key.Complete(keyCols) {
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("entitykit/entity: insert into %s: resolve generated key: %w", table, err)
		}
		key = Key{keyCols[0]: id}
	}
	return s.FindByKey(ctx, q, table, key, FindOptions{Columns: columns})
}

// ─────────────────────────────────────────────────────────────────────────────
// FindByKey
// ─────────────────────────────────────────────────────────────────────────────

func (s *sqlStore) FindByKey(ctx context.Context, q db.Querier, table string, key Key, opts FindOptions) (Row, error) {
	quoted := make([]string, len(opts.Columns))
	for i, c := range opts.Columns {
		quoted[i] = s.dialect.QuoteIdent(c)
	}
	where, args := s.whereKey(key, 1)

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(quoted, ", "),
		s.dialect.QuoteIdent(table), where)
	if opts.LockForUpdate && s.dialect.SupportsRowLocking() {
		query += " FOR UPDATE"
	}

	return scanRow(q.QueryRow(ctx, query, args...), opts.Columns)
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateByKey
// ─────────────────────────────────────────────────────────────────────────────

func (s *sqlStore) UpdateByKey(ctx context.Context, q db.Querier, table string, key Key, fields Row, columns []string) (Row, error) {
	cols, args := presentColumns(fields, columns)
	if len(cols) == 0 {
		return nil, fmt.Errorf("entitykit/entity: update %s: no updatable fields", table)
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = s.dialect.QuoteIdent(c) + " = " + s.dialect.Placeholder(i+1)
	}
	where, whereArgs := s.whereKey(key, len(cols)+1)
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		s.dialect.QuoteIdent(table),
		strings.Join(sets, ", "), where)

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	// Re-read on the same Querier so the result reflects column defaults
	// and triggers, not just the written fields.
	return s.FindByKey(ctx, q, table, key, FindOptions{Columns: columns})
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteByKey
// ─────────────────────────────────────────────────────────────────────────────

func (s *sqlStore) DeleteByKey(ctx context.Context, q db.Querier, table string, key Key) error {
	where, args := s.whereKey(key, 1)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", s.dialect.QuoteIdent(table), where)

	res, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// whereKey renders the key predicate with deterministic column order.
// firstArg is the 1-based index of the first placeholder.
func (s *sqlStore) whereKey(key Key, firstArg int) (string, []any) {
	cols := make([]string, 0, len(key))
	for c := range key {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	preds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		preds[i] = s.dialect.QuoteIdent(c) + " = " + s.dialect.Placeholder(firstArg+i)
		args[i] = key[c]
	}
	return strings.Join(preds, " AND "), args
}

// presentColumns returns the subset of columns present in fields, preserving
// the configured column order, along with the matching argument values.
func presentColumns(fields Row, columns []string) ([]string, []any) {
	cols := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, c := range columns {
		if v, ok := fields[c]; ok {
			cols = append(cols, c)
			args = append(args, v)
		}
	}
	return cols, args
}

// scanRow scans a single row into a Row keyed by cols. []byte values are
// converted to string so text columns round-trip as strings on all drivers.
func scanRow(row *db.Row, cols []string) (Row, error) {
	values := make([]any, len(cols))
	dests := make([]any, len(cols))
	for i := range values {
		dests[i] = &values[i]
	}
	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	out := make(Row, len(cols))
	for i, c := range cols {
		if b, ok := values[i].([]byte); ok {
			out[c] = string(b)
			continue
		}
		out[c] = values[i]
	}
	return out, nil
}
