// entity/service_test.go — behavioral tests for the entity service.
// Uses an in-memory SQLite database; no external services required.
package entity_test

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/entitykit/db"
	"github.com/Skryldev/entitykit/entity"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	// One connection keeps every statement on the same in-memory database.
	d, err := db.Open(db.Config{DSN: ":memory:", DriverName: "sqlite3", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(context.Background(), `
		CREATE TABLE products (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			price      INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			created_by TEXT,
			updated_at DATETIME,
			updated_by TEXT
		)`)
	require.NoError(t, err)
	return d
}

func productConfig() entity.Config {
	return entity.Config{
		EntityName:        "Product",
		TableName:         "products",
		PrimaryKeyColumns: []string{"id"},
		DataColumns:       []string{"name", "price"},
		Dialect:           db.SQLiteDialect{},
	}
}

func newProductService(t *testing.T, cfg entity.Config) *entity.Service {
	t.Helper()
	s, err := entity.NewService(cfg)
	require.NoError(t, err)
	return s
}

// recordingStore counts collaborator invocations on top of the SQL store.
type recordingStore struct {
	entity.Store
	uniqueChecks int
	updates      int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: entity.NewSQLStore(db.SQLiteDialect{})}
}

func (r *recordingStore) CheckKeyUnique(ctx context.Context, q db.Querier, table string, key entity.Key) error {
	r.uniqueChecks++
	return r.Store.CheckKeyUnique(ctx, q, table, key)
}

func (r *recordingStore) UpdateByKey(ctx context.Context, q db.Querier, table string, key entity.Key, fields entity.Row, columns []string) (entity.Row, error) {
	r.updates++
	return r.Store.UpdateByKey(ctx, q, table, key, fields, columns)
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

func TestNewService_RequiresPrimaryKey(t *testing.T) {
	cfg := productConfig()
	cfg.PrimaryKeyColumns = nil
	_, err := entity.NewService(cfg)
	require.Error(t, err)
}

func TestNewService_RejectsOverlappingGroups(t *testing.T) {
	cfg := productConfig()
	cfg.DataColumns = []string{"name", "created_at"} // collides with audit set
	_, err := entity.NewService(cfg)
	require.Error(t, err)
}

func TestNewService_AuditDisabledAllowsColumnReuse(t *testing.T) {
	cfg := productConfig()
	cfg.DisableAuditing = true
	cfg.DataColumns = []string{"name", "created_at"}
	_, err := entity.NewService(cfg)
	require.NoError(t, err)
}

func TestNewService_DefaultTableName(t *testing.T) {
	cfg := productConfig()
	cfg.TableName = ""
	s := newProductService(t, cfg)
	assert.Equal(t, "products", s.TableName())
}

func TestDefaultTableName(t *testing.T) {
	assert.Equal(t, "products", entity.DefaultTableName("Product"))
	assert.Equal(t, "order_items", entity.DefaultTableName("OrderItem"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate_StampsAudit(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())
	ctx := context.Background()

	row, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	assert.EqualValues(t, 1, row["id"])
	assert.Equal(t, "widget", row["name"])
	assert.EqualValues(t, 10, row["price"])
	assert.Equal(t, "u1", row[entity.ColCreatedBy])
	assert.Equal(t, "u1", row[entity.ColUpdatedBy])
	require.IsType(t, time.Time{}, row[entity.ColCreatedAt])
	assert.False(t, row[entity.ColCreatedAt].(time.Time).IsZero())
}

func TestCreate_NoActorLeavesActorColumnsUnset(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())

	row, err := s.Create(context.Background(), d, entity.Row{"id": 2, "name": "bolt", "price": 1}, "")
	require.NoError(t, err)
	assert.Nil(t, row[entity.ColCreatedBy])
	assert.Nil(t, row[entity.ColUpdatedBy])
}

func TestCreate_DuplicateKey(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	cfg := productConfig()
	cfg.Store = store
	s := newProductService(t, cfg)
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	_, err = s.Create(ctx, d, entity.Row{"id": 1, "name": "other", "price": 5}, "u1")
	require.True(t, db.IsDuplicateKey(err), "expected ErrDuplicateKey, got %v", err)
	assert.Equal(t, 2, store.uniqueChecks)

	var n int
	require.NoError(t, d.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n))
	assert.Equal(t, 1, n, "failed create must not insert")
}

func TestCreate_PartialKeySkipsPrecheck(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	cfg := productConfig()
	cfg.Store = store
	s := newProductService(t, cfg)

	row, err := s.Create(context.Background(), d, entity.Row{"name": "nut", "price": 2}, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, store.uniqueChecks, "partial key must not trigger the pre-check")
	assert.NotNil(t, row["id"], "generated key must be read back")
}

func TestCreate_SkipUniqueCheck(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	cfg := productConfig()
	cfg.Store = store
	cfg.SkipUniqueCheck = true
	s := newProductService(t, cfg)

	_, err := s.Create(context.Background(), d, entity.Row{"id": 7, "name": "cog", "price": 3}, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, store.uniqueChecks)
}

func TestCreate_DropsExtraneousFields(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())

	_, err := s.Create(context.Background(), d, entity.Row{
		"id": 3, "name": "gear", "price": 4,
		"stowaway": "x", // not a configured column
	}, "u1")
	require.NoError(t, err)
}

func TestCreate_KeyGenerator(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	_, err := d.Exec(ctx, `
		CREATE TABLE documents (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			created_at DATETIME,
			created_by TEXT,
			updated_at DATETIME,
			updated_by TEXT
		)`)
	require.NoError(t, err)

	s := newProductService(t, entity.Config{
		EntityName:        "Document",
		TableName:         "documents",
		PrimaryKeyColumns: []string{"id"},
		DataColumns:       []string{"title"},
		Dialect:           db.SQLiteDialect{},
		KeyGenerator:      entity.UUIDKeyGenerator,
	})

	row, err := s.Create(ctx, d, entity.Row{"title": "draft"}, "u1")
	require.NoError(t, err)
	id, ok := row["id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func newOrderItemService(t *testing.T, d *db.DB) *entity.Service {
	t.Helper()
	_, err := d.Exec(context.Background(), `
		CREATE TABLE order_items (
			order_id   INTEGER,
			item_id    INTEGER,
			qty        INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			created_by TEXT,
			updated_at DATETIME,
			updated_by TEXT,
			PRIMARY KEY (order_id, item_id)
		)`)
	require.NoError(t, err)

	return newProductService(t, entity.Config{
		EntityName:        "OrderItem",
		TableName:         "order_items",
		PrimaryKeyColumns: []string{"order_id", "item_id"},
		DataColumns:       []string{"qty"},
		Dialect:           db.SQLiteDialect{},
	})
}

func TestCreate_CompositeKey(t *testing.T) {
	d := newTestDB(t)
	s := newOrderItemService(t, d)
	ctx := context.Background()

	row, err := s.Create(ctx, d, entity.Row{"order_id": 1, "item_id": 2, "qty": 3}, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, row["order_id"])
	assert.EqualValues(t, 2, row["item_id"])
	assert.EqualValues(t, 3, row["qty"])
	assert.Equal(t, "u1", row[entity.ColCreatedBy])

	updated, err := s.Update(ctx, d, entity.Key{"order_id": 1, "item_id": 2}, entity.Row{"qty": 5}, "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 5, updated["qty"])
}

func TestCreate_PartialCompositeKeyRejectedWithoutWrite(t *testing.T) {
	d := newTestDB(t)
	s := newOrderItemService(t, d)
	ctx := context.Background()

	// SQLite accepts NULL in composite primary-key columns, so the store
	// must refuse a partial key before issuing the insert.
	_, err := s.Create(ctx, d, entity.Row{"order_id": 1, "qty": 3}, "u1")
	require.Error(t, err)

	var n int
	require.NoError(t, d.QueryRow(ctx, `SELECT COUNT(*) FROM order_items`).Scan(&n))
	assert.Equal(t, 0, n, "failed create must not leave a persisted row")
}

func TestCreate_PreHookAborts(t *testing.T) {
	d := newTestDB(t)
	cfg := productConfig()
	cfg.Hooks = entity.Hooks{
		BeforeCreate: func(_ context.Context, _ db.Querier, fields entity.Row) error {
			if name, _ := fields["name"].(string); name == "" {
				return &entity.ValidationError{Entity: "Product", Field: "name", Message: "must not be empty"}
			}
			return nil
		},
	}
	s := newProductService(t, cfg)
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 4, "name": "", "price": 1}, "u1")
	require.True(t, entity.IsValidation(err))

	var n int
	require.NoError(t, d.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n))
	assert.Equal(t, 0, n, "aborted create must not insert")
}

func TestCreate_PreHookObservesAuditValues(t *testing.T) {
	d := newTestDB(t)
	var seenCreator any
	cfg := productConfig()
	cfg.Hooks = entity.Hooks{
		BeforeCreate: func(_ context.Context, _ db.Querier, fields entity.Row) error {
			seenCreator = fields[entity.ColCreatedBy]
			return nil
		},
	}
	s := newProductService(t, cfg)

	_, err := s.Create(context.Background(), d, entity.Row{"id": 5, "name": "cam", "price": 9}, "u7")
	require.NoError(t, err)
	assert.Equal(t, "u7", seenCreator, "audit stamping must precede the pre-hook")
}

// ─────────────────────────────────────────────────────────────────────────────
// FindOne / Find
// ─────────────────────────────────────────────────────────────────────────────

func TestFindOne(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	row, err := s.FindOne(ctx, d, entity.Key{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, "widget", row["name"])
}

func TestFindOne_NotFound(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())

	_, err := s.FindOne(context.Background(), d, entity.Key{"id": 404})
	require.True(t, db.IsNotFound(err), "expected ErrNotFound, got %v", err)
}

func TestFind_IsHookPassThrough(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	cfg := productConfig()
	cfg.Hooks = entity.Hooks{
		AfterFind: func(ctx context.Context, q db.Querier) ([]entity.Row, error) {
			rows, err := q.Query(ctx, `SELECT id, name FROM products ORDER BY id`)
			if err != nil {
				return nil, err
			}
			defer rows.Close()
			var out []entity.Row
			for rows.Next() {
				var id int64
				var name string
				if err := rows.Scan(&id, &name); err != nil {
					return nil, err
				}
				out = append(out, entity.Row{"id": id, "name": name})
			}
			return out, rows.Err()
		},
	}
	s := newProductService(t, cfg)

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)
	_, err = s.Create(ctx, d, entity.Row{"id": 2, "name": "bolt", "price": 1}, "u1")
	require.NoError(t, err)

	rows, err := s.Find(ctx, d)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "widget", rows[0]["name"])
}

func TestFind_NoHooksReturnsEmpty(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())

	rows, err := s.Find(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdate_NoOpSuppressed(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	hookCalls := 0
	cfg := productConfig()
	cfg.Store = store
	cfg.Hooks = entity.Hooks{
		BeforeUpdate: func(context.Context, db.Querier, entity.Key, entity.Row) error {
			hookCalls++
			return nil
		},
		AfterUpdate: func(context.Context, db.Querier, entity.Row) error {
			hookCalls++
			return nil
		},
	}
	s := newProductService(t, cfg)
	ctx := context.Background()

	created, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	// Same price — caller-side int vs driver-side int64 must still compare
	// equal.
	row, err := s.Update(ctx, d, entity.Key{"id": 1}, entity.Row{"price": 10}, "u2")
	require.NoError(t, err)

	assert.Equal(t, 0, store.updates, "no-op must issue no write")
	assert.Equal(t, 0, hookCalls, "no-op must fire no update hooks")
	assert.Equal(t, "u1", row[entity.ColUpdatedBy], "audit must stay untouched")
	assert.True(t, created[entity.ColUpdatedAt].(time.Time).Equal(row[entity.ColUpdatedAt].(time.Time)))
}

func TestUpdate_ExtraneousOnlyPayloadIsNoOp(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	cfg := productConfig()
	cfg.Store = store
	s := newProductService(t, cfg)
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	// Neither field is a data column: "id" is the key, "stowaway" is
	// unconfigured. Both must be excluded from the equality check.
	row, err := s.Update(ctx, d, entity.Key{"id": 1}, entity.Row{"id": 99, "stowaway": "x"}, "u2")
	require.NoError(t, err)
	assert.Equal(t, 0, store.updates)
	assert.EqualValues(t, 1, row["id"], "key must never change")
}

func TestUpdate_WritesOnceAndStampsAudit(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	cfg := productConfig()
	cfg.Store = store
	s := newProductService(t, cfg)
	ctx := context.Background()

	created, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond) // ensure a strictly newer timestamp

	row, err := s.Update(ctx, d, entity.Key{"id": 1}, entity.Row{"price": 12}, "u2")
	require.NoError(t, err)

	assert.Equal(t, 1, store.updates, "changed payload writes exactly once")
	assert.EqualValues(t, 12, row["price"])
	assert.Equal(t, "u2", row[entity.ColUpdatedBy])
	assert.Equal(t, "u1", row[entity.ColCreatedBy], "creator untouched")
	prev := created[entity.ColUpdatedAt].(time.Time)
	next := row[entity.ColUpdatedAt].(time.Time)
	assert.True(t, next.After(prev), "last-update timestamp must advance")
	assert.True(t, created[entity.ColCreatedAt].(time.Time).Equal(row[entity.ColCreatedAt].(time.Time)),
		"creation timestamp untouched")
}

func TestUpdate_DropsExtraneousFields(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	row, err := s.Update(ctx, d, entity.Key{"id": 1}, entity.Row{
		"price":    12,
		"id":       99,  // key overwrite attempt
		"stowaway": "x", // unknown column
	}, "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, row["id"])
	assert.EqualValues(t, 12, row["price"])
}

func TestUpdate_NotFound(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	cfg := productConfig()
	cfg.Store = store
	s := newProductService(t, cfg)

	_, err := s.Update(context.Background(), d, entity.Key{"id": 404}, entity.Row{"price": 1}, "u1")
	require.True(t, db.IsNotFound(err), "expected ErrNotFound, got %v", err)
	assert.Equal(t, 0, store.updates)
}

func TestUpdate_PreHookAborts(t *testing.T) {
	d := newTestDB(t)
	store := newRecordingStore()
	cfg := productConfig()
	cfg.Store = store
	cfg.Hooks = entity.Hooks{
		BeforeUpdate: func(context.Context, db.Querier, entity.Key, entity.Row) error {
			return &entity.ValidationError{Entity: "Product", Message: "rejected"}
		},
	}
	s := newProductService(t, cfg)
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	_, err = s.Update(ctx, d, entity.Key{"id": 1}, entity.Row{"price": 12}, "u2")
	require.True(t, entity.IsValidation(err))
	assert.Equal(t, 0, store.updates, "pre-hook failure must abort before the write")

	row, err := s.FindOne(ctx, d, entity.Key{"id": 1})
	require.NoError(t, err)
	assert.EqualValues(t, 10, row["price"])
}

func TestUpdate_PostHookErrorPropagatesAfterWrite(t *testing.T) {
	d := newTestDB(t)
	cfg := productConfig()
	cfg.Hooks = entity.Hooks{
		AfterUpdate: func(context.Context, db.Querier, entity.Row) error {
			return &entity.ValidationError{Entity: "Product", Message: "post failure"}
		},
	}
	s := newProductService(t, cfg)
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	_, err = s.Update(ctx, d, entity.Key{"id": 1}, entity.Row{"price": 12}, "u2")
	require.Error(t, err)

	// The write itself is not undone; rollback is the caller's transaction.
	row, err := s.FindOne(ctx, d, entity.Key{"id": 1})
	require.NoError(t, err)
	assert.EqualValues(t, 12, row["price"])
}

func TestUpdate_InsideTransaction(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	err = d.ExecTx(ctx, func(tx *db.Tx) error {
		_, err := s.Update(ctx, tx, entity.Key{"id": 1}, entity.Row{"price": 15}, "u2")
		return err
	})
	require.NoError(t, err)

	row, err := s.FindOne(ctx, d, entity.Key{"id": 1})
	require.NoError(t, err)
	assert.EqualValues(t, 15, row["price"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestDelete(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, d, entity.Key{"id": 1}))

	_, err = s.FindOne(ctx, d, entity.Key{"id": 1})
	require.True(t, db.IsNotFound(err))
}

func TestDelete_NotFound(t *testing.T) {
	d := newTestDB(t)
	s := newProductService(t, productConfig())

	err := s.Delete(context.Background(), d, entity.Key{"id": 404})
	require.True(t, db.IsNotFound(err), "expected ErrNotFound, got %v", err)
}

func TestDelete_PreHookAborts(t *testing.T) {
	d := newTestDB(t)
	cfg := productConfig()
	cfg.Hooks = entity.Hooks{
		BeforeDelete: func(context.Context, db.Querier, entity.Key) error {
			return &entity.ValidationError{Entity: "Product", Message: "protected"}
		},
	}
	s := newProductService(t, cfg)
	ctx := context.Background()

	_, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "widget", "price": 10}, "u1")
	require.NoError(t, err)

	err = s.Delete(ctx, d, entity.Key{"id": 1})
	require.True(t, entity.IsValidation(err))

	_, err = s.FindOne(ctx, d, entity.Key{"id": 1})
	require.NoError(t, err, "aborted delete must leave the row in place")
}

// ─────────────────────────────────────────────────────────────────────────────
// Auditing disabled
// ─────────────────────────────────────────────────────────────────────────────

func TestAuditingDisabled(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	_, err := d.Exec(ctx, `
		CREATE TABLE plain (
			id   INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`)
	require.NoError(t, err)

	s := newProductService(t, entity.Config{
		EntityName:        "Plain",
		TableName:         "plain",
		PrimaryKeyColumns: []string{"id"},
		DataColumns:       []string{"name"},
		DisableAuditing:   true,
		Dialect:           db.SQLiteDialect{},
	})

	row, err := s.Create(ctx, d, entity.Row{"id": 1, "name": "n"}, "u1")
	require.NoError(t, err)
	_, hasAudit := row[entity.ColCreatedBy]
	assert.False(t, hasAudit, "audit columns must not exist when auditing is disabled")

	row, err = s.Update(ctx, d, entity.Key{"id": 1}, entity.Row{"name": "m"}, "u2")
	require.NoError(t, err)
	assert.Equal(t, "m", row["name"])
}

// ─────────────────────────────────────────────────────────────────────────────
// CombineHooks
// ─────────────────────────────────────────────────────────────────────────────

func TestCombineHooks_Order(t *testing.T) {
	var order []string
	a := entity.Hooks{
		BeforeCreate: func(context.Context, db.Querier, entity.Row) error {
			order = append(order, "a")
			return nil
		},
	}
	b := entity.Hooks{
		BeforeCreate: func(context.Context, db.Querier, entity.Row) error {
			order = append(order, "b")
			return nil
		},
	}
	combined := entity.CombineHooks(a, b)
	require.NoError(t, combined.BeforeCreate(context.Background(), nil, nil))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestCombineHooks_FirstErrorShortCircuits(t *testing.T) {
	called := false
	a := entity.Hooks{
		BeforeDelete: func(context.Context, db.Querier, entity.Key) error {
			return &entity.ValidationError{Entity: "X", Message: "stop"}
		},
	}
	b := entity.Hooks{
		BeforeDelete: func(context.Context, db.Querier, entity.Key) error {
			called = true
			return nil
		},
	}
	combined := entity.CombineHooks(a, b)
	require.Error(t, combined.BeforeDelete(context.Background(), nil, nil))
	assert.False(t, called)
}
