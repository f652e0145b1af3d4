package taskwire

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/taskwire/taskwire/cron"
	"github.com/taskwire/taskwire/engine"
)

// buildTaskMap merges one synthetic handler per task identifier and one
// per recurring identifier into the single name-keyed table the engine
// dispatches on. New has already rejected collisions between the two
// namespaces.
func (w *Worker) buildTaskMap() engine.TaskMap {
	taskNames := w.tasks.Names()
	recurringNames := w.recurring.Names()

	m := make(engine.TaskMap, len(taskNames)+len(recurringNames))
	for _, name := range taskNames {
		m[name] = func(ctx context.Context, payload json.RawMessage, h engine.Helpers) error {
			return w.runTask(ctx, name, payload, h)
		}
	}
	for _, name := range recurringNames {
		m[name] = func(ctx context.Context, payload json.RawMessage, h engine.Helpers) error {
			return w.runRecurring(ctx, name, payload, h)
		}
	}
	return m
}

// Handle routes a fired task name through the dispatch path: the
// recurring path when the name is a recurring task, the normal path
// otherwise. The dispatch table is built from exactly these two paths;
// Handle exists so engine adapters and tests can dispatch by name.
func (w *Worker) Handle(ctx context.Context, name string, payload json.RawMessage, h engine.Helpers) error {
	if _, ok := w.recurring.Lookup(name); ok {
		return w.runRecurring(ctx, name, payload, h)
	}
	return w.runTask(ctx, name, payload, h)
}

// runTask is the normal-message path: catalog lookup, payload decode,
// handler lookup, invoke. A decode failure or handler error propagates
// unmodified to the engine, which owns retry policy.
func (w *Worker) runTask(ctx context.Context, name string, payload json.RawMessage, h engine.Helpers) error {
	entry, ok := w.tasks.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}

	decoded, err := entry.Decode(payload)
	if err != nil {
		return err
	}

	if !entry.HasHandler() {
		return fmt.Errorf("%w: %q", ErrNoHandler, name)
	}
	return entry.Run(ctx, decoded, h.Job())
}

// runRecurring is the recurring-task path: registry lookup, cron
// envelope decode, invoke. Failures are logged with payload context
// before they propagate, since a cron firing has no caller to report
// to.
func (w *Worker) runRecurring(ctx context.Context, name string, payload json.RawMessage, h engine.Helpers) error {
	def, ok := w.recurring.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRecurring, name)
	}

	firing, err := cron.DecodeFiring(payload)
	if err != nil {
		w.logger.Error("recurring task payload did not decode",
			slog.String("task", name),
			slog.String("payload", string(payload)),
			slog.String("error", err.Error()),
		)
		return err
	}

	if err := def.Handler(ctx, firing, h.Job()); err != nil {
		w.logger.Error("recurring task handler failed",
			slog.String("task", name),
			slog.Time("fired_at", firing.FiredAt),
			slog.Bool("backfilled", firing.Backfilled),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
