package taskwire

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskwire/taskwire/cron"
	"github.com/taskwire/taskwire/engine"
	"github.com/taskwire/taskwire/job"
)

// Option configures a Worker.
type Option func(*Worker) error

// WithRunner sets the external engine the worker starts and stops.
func WithRunner(r engine.Runner) Option {
	return func(w *Worker) error {
		w.runner = r
		return nil
	}
}

// WithDB sets the default data-access context for enqueue and dequeue.
// Use WithPool for a pgx pool; this variant accepts anything satisfying
// engine.Querier, including a long-lived transaction.
func WithDB(q engine.Querier) Option {
	return func(w *Worker) error {
		w.db = q
		return nil
	}
}

// WithPool sets a caller-owned pgx pool as the default data-access
// context. The worker does not close it on Stop.
func WithPool(pool *pgxpool.Pool) Option {
	return func(w *Worker) error {
		w.db = pool
		return nil
	}
}

// WithDatabaseURL makes the worker open its own pgx pool at Start and
// close it at Stop.
func WithDatabaseURL(url string) Option {
	return func(w *Worker) error {
		w.databaseURL = url
		return nil
	}
}

// WithTasks sets the task registry. Register everything before New;
// the dispatch table is built from a snapshot at Start.
func WithTasks(r *job.Registry) Option {
	return func(w *Worker) error {
		w.tasks = r
		return nil
	}
}

// WithRecurring sets the recurring-task registry.
func WithRecurring(r *cron.Registry) Option {
	return func(w *Worker) error {
		w.recurring = r
		return nil
	}
}

// WithEngineOptions sets the engine tuning passed through at Start.
func WithEngineOptions(opts engine.Options) Option {
	return func(w *Worker) error {
		w.engineOpts = opts
		return nil
	}
}

// WithSchema overrides the engine's database schema.
func WithSchema(schema string) Option {
	return func(w *Worker) error {
		w.engineOpts.Schema = schema
		return nil
	}
}

// WithLogger sets the structured logger for the worker.
func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) error {
		w.logger = l
		return nil
	}
}
