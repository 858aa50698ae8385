package events_test

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/entitykit/entity"
	"github.com/Skryldev/entitykit/entity/events"
)

// fakeWriter captures messages instead of talking to a broker.
type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestPublisher_AfterCreate(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewPublisher(w, "Product", []string{"id"})
	hooks := p.Hooks()

	row := entity.Row{"id": int64(1), "name": "widget", "price": int64(10)}
	require.NoError(t, hooks.AfterCreate(context.Background(), nil, row))

	require.Len(t, w.msgs, 1)

	var change events.Change
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &change))
	assert.Equal(t, events.OpCreate, change.Op)
	assert.Equal(t, "Product", change.Entity)
	assert.EqualValues(t, 1, change.Key["id"])
	assert.Equal(t, "widget", change.Row["name"])
	assert.False(t, change.OccurredAt.IsZero())
	assert.NotEqual(t, change.ID.String(), "00000000-0000-0000-0000-000000000000")

	var key entity.Key
	require.NoError(t, json.Unmarshal(w.msgs[0].Key, &key))
	assert.EqualValues(t, 1, key["id"])
}

func TestPublisher_AfterDeleteOmitsRow(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewPublisher(w, "Product", []string{"id"})
	hooks := p.Hooks()

	require.NoError(t, hooks.AfterDelete(context.Background(), nil, entity.Key{"id": int64(2)}))

	require.Len(t, w.msgs, 1)
	var change events.Change
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &change))
	assert.Equal(t, events.OpDelete, change.Op)
	assert.Nil(t, change.Row)
}

func TestPublisher_WriteFailurePropagates(t *testing.T) {
	w := &fakeWriter{err: assert.AnError}
	p := events.NewPublisher(w, "Product", []string{"id"})
	hooks := p.Hooks()

	err := hooks.AfterUpdate(context.Background(), nil, entity.Row{"id": int64(1)})
	require.ErrorIs(t, err, assert.AnError)
}
