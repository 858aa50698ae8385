package entity

import (
	"context"
	"log/slog"
)

// tracer emits entry/step/value/exit diagnostics for service operations,
// tagged with the entity name. Purely observational: it never affects
// control flow and all events go out at debug level.
type tracer struct {
	logger *slog.Logger
	entity string
}

func newTracer(logger *slog.Logger, entity string) tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return tracer{logger: logger, entity: entity}
}

func (t tracer) entry(ctx context.Context, op string) {
	t.logger.DebugContext(ctx, "entitykit/entity: enter", "entity", t.entity, "op", op)
}

func (t tracer) step(ctx context.Context, op, step string) {
	t.logger.DebugContext(ctx, "entitykit/entity: step", "entity", t.entity, "op", op, "step", step)
}

func (t tracer) value(ctx context.Context, op, name string, v any) {
	t.logger.DebugContext(ctx, "entitykit/entity: value", "entity", t.entity, "op", op, name, v)
}

func (t tracer) exit(ctx context.Context, op string, err error) {
	if err != nil {
		t.logger.DebugContext(ctx, "entitykit/entity: exit", "entity", t.entity, "op", op, "error", err)
		return
	}
	t.logger.DebugContext(ctx, "entitykit/entity: exit", "entity", t.entity, "op", op)
}
