package entity

import (
	"context"

	"github.com/Skryldev/entitykit/db"
)

// ─────────────────────────────────────────────────────────────────────────────
// Hooks — lifecycle extension points
// ─────────────────────────────────────────────────────────────────────────────

// Hooks holds the optional callbacks a service invokes around each operation.
// Nil entries are skipped. Hooks run on the same Querier as the enclosing
// operation, so subsidiary queries issued from a hook share the caller's
// transaction.
//
// A pre-hook error aborts the operation before the physical write. A
// post-hook error aborts the remaining steps but cannot undo the write —
// callers relying on post-hook failure for rollback must run the operation
// inside ExecTx.
type Hooks struct {
	// BeforeCreate runs after audit stamping and before the insert, so the
	// fields map holds final values. Hooks may mutate it.
	BeforeCreate func(ctx context.Context, q db.Querier, fields Row) error
	// AfterCreate runs once the inserted row is known.
	AfterCreate func(ctx context.Context, q db.Querier, row Row) error

	// BeforeFind and AfterFind are the whole of Find: the base operation
	// performs no query itself. AfterFind supplies the result set.
	BeforeFind func(ctx context.Context, q db.Querier) error
	AfterFind  func(ctx context.Context, q db.Querier) ([]Row, error)

	BeforeFindOne func(ctx context.Context, q db.Querier, key Key) error
	AfterFindOne  func(ctx context.Context, q db.Querier, row Row) error

	// BeforeUpdate receives the write payload after restriction to data
	// columns and audit stamping. It is not invoked for no-op updates.
	BeforeUpdate func(ctx context.Context, q db.Querier, key Key, fields Row) error
	AfterUpdate  func(ctx context.Context, q db.Querier, row Row) error

	BeforeDelete func(ctx context.Context, q db.Querier, key Key) error
	AfterDelete  func(ctx context.Context, q db.Querier, key Key) error
}

// CombineHooks chains two hook sets. For each extension point, a's callback
// runs first; an error from a short-circuits b.
func CombineHooks(a, b Hooks) Hooks {
	return Hooks{
		BeforeCreate:  chainRowHook(a.BeforeCreate, b.BeforeCreate),
		AfterCreate:   chainRowHook(a.AfterCreate, b.AfterCreate),
		BeforeFind:    chainPlainHook(a.BeforeFind, b.BeforeFind),
		AfterFind:     chainFindHook(a.AfterFind, b.AfterFind),
		BeforeFindOne: chainKeyHook(a.BeforeFindOne, b.BeforeFindOne),
		AfterFindOne:  chainRowHook(a.AfterFindOne, b.AfterFindOne),
		BeforeUpdate:  chainKeyRowHook(a.BeforeUpdate, b.BeforeUpdate),
		AfterUpdate:   chainRowHook(a.AfterUpdate, b.AfterUpdate),
		BeforeDelete:  chainKeyHook(a.BeforeDelete, b.BeforeDelete),
		AfterDelete:   chainKeyHook(a.AfterDelete, b.AfterDelete),
	}
}

func chainRowHook(a, b func(context.Context, db.Querier, Row) error) func(context.Context, db.Querier, Row) error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, q db.Querier, row Row) error {
		if err := a(ctx, q, row); err != nil {
			return err
		}
		return b(ctx, q, row)
	}
}

func chainKeyHook(a, b func(context.Context, db.Querier, Key) error) func(context.Context, db.Querier, Key) error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, q db.Querier, key Key) error {
		if err := a(ctx, q, key); err != nil {
			return err
		}
		return b(ctx, q, key)
	}
}

func chainKeyRowHook(a, b func(context.Context, db.Querier, Key, Row) error) func(context.Context, db.Querier, Key, Row) error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, q db.Querier, key Key, fields Row) error {
		if err := a(ctx, q, key, fields); err != nil {
			return err
		}
		return b(ctx, q, key, fields)
	}
}

func chainPlainHook(a, b func(context.Context, db.Querier) error) func(context.Context, db.Querier) error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, q db.Querier) error {
		if err := a(ctx, q); err != nil {
			return err
		}
		return b(ctx, q)
	}
}

// chainFindHook concatenates the result sets of both AfterFind callbacks.
func chainFindHook(a, b func(context.Context, db.Querier) ([]Row, error)) func(context.Context, db.Querier) ([]Row, error) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, q db.Querier) ([]Row, error) {
		first, err := a(ctx, q)
		if err != nil {
			return nil, err
		}
		second, err := b(ctx, q)
		if err != nil {
			return nil, err
		}
		return append(first, second...), nil
	}
}
