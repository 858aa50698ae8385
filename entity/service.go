// Package entity provides a generic, per-table entity service: create, find,
// findOne, update, and delete against a single relational table, with
// lifecycle hooks, automatic audit-column management, and no-op suppression
// of updates that would not change any data column.
//
// A Service holds only immutable configuration. Every operation takes the
// connection handle (db.Querier) as a parameter, so one instance serves
// concurrent requests and works unchanged inside transactions.
package entity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"

	"github.com/Skryldev/entitykit/db"
)

// ─────────────────────────────────────────────────────────────────────────────
// Audit columns
// ─────────────────────────────────────────────────────────────────────────────

// Fixed audit column names, present only when auditing is enabled.
const (
	ColCreatedAt = "created_at"
	ColCreatedBy = "created_by"
	ColUpdatedAt = "updated_at"
	ColUpdatedBy = "updated_by"
)

// AuditColumns returns the audit column set in its fixed order.
func AuditColumns() []string {
	return []string{ColCreatedAt, ColCreatedBy, ColUpdatedAt, ColUpdatedBy}
}

// ─────────────────────────────────────────────────────────────────────────────
// Config
// ─────────────────────────────────────────────────────────────────────────────

// Config describes one entity. All fields are fixed at construction.
type Config struct {
	// EntityName labels diagnostic traces, e.g. "Product".
	EntityName string

	// TableName is the target table. Defaults to the snake_case plural of
	// EntityName ("Product" → "products").
	TableName string

	// PrimaryKeyColumns, DataColumns, and SystemColumns are pairwise
	// disjoint ordered column lists. DataColumns are caller-writable;
	// SystemColumns are server-managed and never accepted from callers.
	PrimaryKeyColumns []string
	DataColumns       []string
	SystemColumns     []string

	// DisableAuditing drops the audit columns entirely. Auditing is on by
	// default.
	DisableAuditing bool

	// SkipUniqueCheck disables the fast-fail uniqueness pre-check before
	// insert. The database's own unique constraint still applies; the
	// pre-check only exists for a friendlier early error.
	SkipUniqueCheck bool

	// KeyGenerator, when set, produces a value for a single-column primary
	// key missing from the create payload. See UUIDKeyGenerator.
	KeyGenerator func() any

	// Hooks are the lifecycle extension points. All optional.
	Hooks Hooks

	// Store executes the row primitives. Defaults to the SQL store for
	// Dialect. One of Store or Dialect must be set.
	Store   Store
	Dialect db.Dialect

	// Logger receives diagnostic traces. Defaults to slog.Default().
	Logger *slog.Logger
}

// ─────────────────────────────────────────────────────────────────────────────
// Service
// ─────────────────────────────────────────────────────────────────────────────

// Service mediates all mutations and lookups for one entity.
type Service struct {
	cfg      Config
	table    string
	pkCols   []string
	dataCols []string
	allCols  []string
	auditing bool
	store    Store
	hooks    Hooks
	trace    tracer
}

// NewService validates cfg and derives the full column list once.
func NewService(cfg Config) (*Service, error) {
	if cfg.EntityName == "" {
		return nil, fmt.Errorf("entitykit/entity: EntityName must not be empty")
	}
	if len(cfg.PrimaryKeyColumns) == 0 {
		return nil, fmt.Errorf("entitykit/entity: %s: PrimaryKeyColumns must not be empty", cfg.EntityName)
	}

	table := cfg.TableName
	if table == "" {
		table = DefaultTableName(cfg.EntityName)
	}

	store := cfg.Store
	if store == nil {
		if cfg.Dialect == nil {
			return nil, fmt.Errorf("entitykit/entity: %s: either Store or Dialect is required", cfg.EntityName)
		}
		store = NewSQLStore(cfg.Dialect)
	}

	auditing := !cfg.DisableAuditing

	groups := [][]string{cfg.PrimaryKeyColumns, cfg.DataColumns}
	if auditing {
		groups = append(groups, AuditColumns())
	}
	groups = append(groups, cfg.SystemColumns)
	if err := checkDisjoint(cfg.EntityName, groups); err != nil {
		return nil, err
	}

	// Full column set: key + data + audit + system, order significant only
	// for generated column lists.
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}

	return &Service{
		cfg:      cfg,
		table:    table,
		pkCols:   cfg.PrimaryKeyColumns,
		dataCols: cfg.DataColumns,
		allCols:  all,
		auditing: auditing,
		store:    store,
		hooks:    cfg.Hooks,
		trace:    newTracer(cfg.Logger, cfg.EntityName),
	}, nil
}

// MustNewService is like NewService but panics on error.
func MustNewService(cfg Config) *Service {
	s, err := NewService(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// TableName returns the resolved target table.
func (s *Service) TableName() string { return s.table }

// Columns returns the full configured column set in order.
func (s *Service) Columns() []string {
	out := make([]string, len(s.allCols))
	copy(out, s.allCols)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a new row from payload. Payload fields outside the primary
// key and data columns are silently dropped. When the payload fully
// specifies the primary key, a uniqueness pre-check runs first (unless
// disabled); partial keys skip the pre-check and rely on the insert's own
// constraint. actorID, when non-empty and auditing is enabled, becomes both
// creator and last-updater.
func (s *Service) Create(ctx context.Context, q db.Querier, payload Row, actorID string) (Row, error) {
	const op = "create"
	s.trace.entry(ctx, op)

	fields := payload.Project(append(append([]string{}, s.pkCols...), s.dataCols...))
	key := fields.Key(s.pkCols)

	if s.cfg.KeyGenerator != nil && len(s.pkCols) == 1 && !key.Complete(s.pkCols) {
		generated := s.cfg.KeyGenerator()
		fields[s.pkCols[0]] = generated
		key = Key{s.pkCols[0]: generated}
		s.trace.value(ctx, op, "generated_key", generated)
	}

	if !s.cfg.SkipUniqueCheck && key.Complete(s.pkCols) {
		s.trace.step(ctx, op, "uniqueness pre-check")
		if err := s.store.CheckKeyUnique(ctx, q, s.table, key); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	// Audit stamping precedes the pre-hook so hooks observe final values.
	if s.auditing {
		now := time.Now().UTC()
		fields[ColCreatedAt] = now
		fields[ColUpdatedAt] = now
		if actorID != "" {
			fields[ColCreatedBy] = actorID
			fields[ColUpdatedBy] = actorID
		}
	}

	if h := s.hooks.BeforeCreate; h != nil {
		if err := h(ctx, q, fields); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	s.trace.step(ctx, op, "insert")
	row, err := s.store.Insert(ctx, q, s.table, fields, s.allCols, s.pkCols)
	if err != nil {
		s.trace.exit(ctx, op, err)
		return nil, err
	}

	if h := s.hooks.AfterCreate; h != nil {
		if err := h(ctx, q, row); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	s.trace.exit(ctx, op, nil)
	return row, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Find
// ─────────────────────────────────────────────────────────────────────────────

// Find is a pure extension-point pass-through: the base operation performs no
// query. Row enumeration is entirely the responsibility of the AfterFind
// hook; without one, Find returns an empty result.
func (s *Service) Find(ctx context.Context, q db.Querier) ([]Row, error) {
	const op = "find"
	s.trace.entry(ctx, op)

	if h := s.hooks.BeforeFind; h != nil {
		if err := h(ctx, q); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	var rows []Row
	if h := s.hooks.AfterFind; h != nil {
		var err error
		rows, err = h(ctx, q)
		if err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	s.trace.exit(ctx, op, nil)
	return rows, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindOne
// ─────────────────────────────────────────────────────────────────────────────

// FindOne returns the row matching key, which must carry a value for every
// primary-key column. Fails with db.ErrNotFound when no row matches.
func (s *Service) FindOne(ctx context.Context, q db.Querier, key Key) (Row, error) {
	const op = "findOne"
	s.trace.entry(ctx, op)
	s.trace.value(ctx, op, "key", key)

	if h := s.hooks.BeforeFindOne; h != nil {
		if err := h(ctx, q, key); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	row, err := s.store.FindByKey(ctx, q, s.table, key, FindOptions{Columns: s.allCols})
	if err != nil {
		s.trace.exit(ctx, op, err)
		return nil, err
	}

	if h := s.hooks.AfterFindOne; h != nil {
		if err := h(ctx, q, row); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	s.trace.exit(ctx, op, nil)
	return row, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

// Update applies a partial payload to the row matching key. The current row
// is read with row-lock intent, the payload is overlaid, and both sides are
// projected to the data columns: when the projections are equal the write is
// suppressed entirely — no hooks fire, no statement is issued, audit columns
// stay untouched, and the unmodified current row is returned.
//
// Otherwise the payload is restricted to the data columns (extraneous fields
// silently dropped), audit fields are stamped, and exactly one write is
// issued. Primary-key values are never part of the write payload; the lookup
// key is reused for the write.
//
// Run updates inside a transaction for the locking read to have effect.
func (s *Service) Update(ctx context.Context, q db.Querier, key Key, payload Row, actorID string) (Row, error) {
	const op = "update"
	s.trace.entry(ctx, op)
	s.trace.value(ctx, op, "key", key)

	current, err := s.store.FindByKey(ctx, q, s.table, key, FindOptions{
		Columns:       s.allCols,
		LockForUpdate: true,
	})
	if err != nil {
		s.trace.exit(ctx, op, err)
		return nil, err
	}

	merged := current.Merge(payload)
	if merged.Project(s.dataCols).Equal(current.Project(s.dataCols)) {
		s.trace.step(ctx, op, "no-op suppressed")
		s.trace.exit(ctx, op, nil)
		return current, nil
	}

	fields := payload.Project(s.dataCols)
	if s.auditing {
		fields[ColUpdatedAt] = time.Now().UTC()
		if actorID != "" {
			fields[ColUpdatedBy] = actorID
		}
	}

	if h := s.hooks.BeforeUpdate; h != nil {
		if err := h(ctx, q, key, fields); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	s.trace.step(ctx, op, "write")
	row, err := s.store.UpdateByKey(ctx, q, s.table, key, fields, s.allCols)
	if err != nil {
		s.trace.exit(ctx, op, err)
		return nil, err
	}

	if h := s.hooks.AfterUpdate; h != nil {
		if err := h(ctx, q, row); err != nil {
			s.trace.exit(ctx, op, err)
			return nil, err
		}
	}

	s.trace.exit(ctx, op, nil)
	return row, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// Delete removes the row matching key. The row is first read with row-lock
// intent so it still exists and is stable for the delete. Fails with
// db.ErrNotFound when no row matches.
func (s *Service) Delete(ctx context.Context, q db.Querier, key Key) error {
	const op = "delete"
	s.trace.entry(ctx, op)
	s.trace.value(ctx, op, "key", key)

	if _, err := s.store.FindByKey(ctx, q, s.table, key, FindOptions{
		Columns:       s.allCols,
		LockForUpdate: true,
	}); err != nil {
		s.trace.exit(ctx, op, err)
		return err
	}

	if h := s.hooks.BeforeDelete; h != nil {
		if err := h(ctx, q, key); err != nil {
			s.trace.exit(ctx, op, err)
			return err
		}
	}

	s.trace.step(ctx, op, "delete")
	if err := s.store.DeleteByKey(ctx, q, s.table, key); err != nil {
		s.trace.exit(ctx, op, err)
		return err
	}

	if h := s.hooks.AfterDelete; h != nil {
		if err := h(ctx, q, key); err != nil {
			s.trace.exit(ctx, op, err)
			return err
		}
	}

	s.trace.exit(ctx, op, nil)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// UUIDKeyGenerator returns random UUID strings for server-generated
// single-column string keys.
func UUIDKeyGenerator() any { return uuid.NewString() }

// DefaultTableName derives a table name from an entity name:
// "Product" → "products", "OrderItem" → "order_items".
func DefaultTableName(entityName string) string {
	return inflection.Plural(toSnake(entityName))
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func checkDisjoint(entityName string, groups [][]string) error {
	seen := make(map[string]struct{})
	for _, g := range groups {
		for _, c := range g {
			if _, dup := seen[c]; dup {
				return fmt.Errorf("entitykit/entity: %s: column %q appears in more than one group", entityName, c)
			}
			seen[c] = struct{}{}
		}
	}
	return nil
}
