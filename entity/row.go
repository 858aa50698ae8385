package entity

import (
	"math"
	"reflect"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Row and Key
// ─────────────────────────────────────────────────────────────────────────────

// Row is a single record keyed by column name. A Row returned from a lookup
// carries the full configured column set; a Row passed as a create or update
// payload may be partial.
type Row map[string]any

// Key maps primary-key column names to their scalar values.
type Key map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Project returns the subset of the row restricted to cols. Columns absent
// from the row are omitted rather than set to nil, so projections of partial
// payloads stay partial.
func (r Row) Project(cols []string) Row {
	out := make(Row, len(cols))
	for _, c := range cols {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}

// Merge returns a copy of the row with overlay's fields applied on top.
func (r Row) Merge(overlay Row) Row {
	out := r.Clone()
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Equal reports whether two rows hold the same columns with equal values.
// Scalars are normalised before comparison so that driver-returned values
// (int64, float64, []byte) compare equal to caller-supplied ones (int,
// float32, string).
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

// Key extracts the primary-key subset of the row for the given key columns.
func (r Row) Key(keyCols []string) Key {
	k := make(Key, len(keyCols))
	for _, c := range keyCols {
		if v, ok := r[c]; ok && v != nil {
			k[c] = v
		}
	}
	return k
}

// Complete reports whether the key carries a non-nil value for every key
// column. A partial key (e.g. an auto-generated id not yet known) skips the
// uniqueness pre-check on create.
func (k Key) Complete(keyCols []string) bool {
	for _, c := range keyCols {
		if v, ok := k[c]; !ok || v == nil {
			return false
		}
	}
	return len(keyCols) > 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Value comparison
// ─────────────────────────────────────────────────────────────────────────────

func valueEqual(a, b any) bool {
	a, b = normalizeValue(a), normalizeValue(b)
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

// normalizeValue collapses the integer and float widths different drivers and
// callers use into a canonical form, so no-op detection does not depend on
// which side a value came from.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		// Values beyond int64 range stay as-is rather than wrapping negative.
		if x > math.MaxInt64 {
			return v
		}
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	default:
		return v
	}
}
