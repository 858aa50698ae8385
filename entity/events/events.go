// Package events publishes entity change records to Kafka. The publisher is
// wired into a service as a set of post-operation hooks, so every committed
// create, update, and delete produces one JSON change message keyed by the
// row's primary key.
package events

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"

	"github.com/Skryldev/entitykit/db"
	"github.com/Skryldev/entitykit/entity"
)

// Op identifies the operation that produced a change.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change is the published record.
type Change struct {
	ID         uuid.UUID  `json:"id"`
	Entity     string     `json:"entity"`
	Op         Op         `json:"op"`
	Key        entity.Key `json:"key"`
	Row        entity.Row `json:"row,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// MessageWriter is the subset of *kafka.Writer the publisher needs;
// substitutable in tests.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

var _ MessageWriter = (*kafka.Writer)(nil)

// Publisher emits Change records for one entity.
type Publisher struct {
	writer     MessageWriter
	entityName string
	keyCols    []string
}

// NewPublisher returns a Publisher writing changes for the named entity.
// keyColumns must match the service's primary-key columns so the publisher
// can extract the message key from result rows.
func NewPublisher(w MessageWriter, entityName string, keyColumns []string) *Publisher {
	return &Publisher{writer: w, entityName: entityName, keyCols: keyColumns}
}

// Hooks returns the hook set that publishes after create, update, and delete.
// Combine with application hooks via entity.CombineHooks. A publish failure
// propagates as a post-hook error; the write itself is already committed
// unless the caller's transaction rolls back.
func (p *Publisher) Hooks() entity.Hooks {
	return entity.Hooks{
		AfterCreate: func(ctx context.Context, _ db.Querier, row entity.Row) error {
			return p.publish(ctx, OpCreate, row.Key(p.keyCols), row)
		},
		AfterUpdate: func(ctx context.Context, _ db.Querier, row entity.Row) error {
			return p.publish(ctx, OpUpdate, row.Key(p.keyCols), row)
		},
		AfterDelete: func(ctx context.Context, _ db.Querier, key entity.Key) error {
			return p.publish(ctx, OpDelete, key, nil)
		},
	}
}

func (p *Publisher) publish(ctx context.Context, op Op, key entity.Key, row entity.Row) error {
	change := Change{
		ID:         uuid.New(),
		Entity:     p.entityName,
		Op:         op,
		Key:        key,
		Row:        row,
		OccurredAt: time.Now().UTC(),
	}

	keyBytes, err := json.Marshal(key)
	if err != nil {
		return err
	}
	value, err := json.Marshal(change)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   keyBytes,
		Value: value,
	})
}
