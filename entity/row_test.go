package entity_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Skryldev/entitykit/entity"
)

func TestRow_Project(t *testing.T) {
	r := entity.Row{"a": 1, "b": 2, "c": 3}
	p := r.Project([]string{"a", "c", "missing"})
	assert.Equal(t, entity.Row{"a": 1, "c": 3}, p)
}

func TestRow_Merge(t *testing.T) {
	base := entity.Row{"a": 1, "b": 2}
	merged := base.Merge(entity.Row{"b": 20, "c": 30})
	assert.Equal(t, entity.Row{"a": 1, "b": 20, "c": 30}, merged)
	assert.Equal(t, entity.Row{"a": 1, "b": 2}, base, "merge must not mutate the receiver")
}

func TestRow_Equal_NormalizesScalars(t *testing.T) {
	driver := entity.Row{"price": int64(10), "name": "widget", "ratio": float64(0.5)}
	caller := entity.Row{"price": 10, "name": "widget", "ratio": float32(0.5)}
	assert.True(t, driver.Equal(caller))

	caller["price"] = 11
	assert.False(t, driver.Equal(caller))
}

func TestRow_Equal_Uint64BeyondInt64Range(t *testing.T) {
	big := uint64(math.MaxInt64) + 1 // wraps to math.MinInt64 if force-cast

	a := entity.Row{"n": big}
	b := entity.Row{"n": int64(math.MinInt64)}
	assert.False(t, a.Equal(b), "out-of-range uint64 must not wrap into a spurious match")

	// In-range uint64 values still normalise against plain ints.
	assert.True(t, entity.Row{"n": uint64(10)}.Equal(entity.Row{"n": 10}))
}

func TestRow_Equal_Bytes(t *testing.T) {
	a := entity.Row{"name": []byte("widget")}
	b := entity.Row{"name": "widget"}
	assert.True(t, a.Equal(b))
}

func TestRow_Equal_Time(t *testing.T) {
	now := time.Now()
	a := entity.Row{"at": now}
	b := entity.Row{"at": now.UTC()} // same instant, different location
	assert.True(t, a.Equal(b))
}

func TestRow_Equal_DifferentKeySets(t *testing.T) {
	a := entity.Row{"a": 1}
	b := entity.Row{"a": 1, "b": 2}
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
}

func TestRow_Key(t *testing.T) {
	r := entity.Row{"tenant": "t1", "id": 42, "name": "x"}
	k := r.Key([]string{"tenant", "id"})
	assert.Equal(t, entity.Key{"tenant": "t1", "id": 42}, k)
}

func TestKey_Complete(t *testing.T) {
	cols := []string{"tenant", "id"}
	assert.True(t, entity.Key{"tenant": "t1", "id": 42}.Complete(cols))
	assert.False(t, entity.Key{"tenant": "t1"}.Complete(cols))
	assert.False(t, entity.Key{"tenant": "t1", "id": nil}.Complete(cols))
	assert.False(t, entity.Key{}.Complete(nil), "empty key column set is never complete")
}
