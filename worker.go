package taskwire

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskwire/taskwire/cron"
	"github.com/taskwire/taskwire/engine"
	"github.com/taskwire/taskwire/job"
)

// Worker owns the single live engine handle and exposes the typed
// dispatch layer on top of it: Start/Stop lifecycle, Enqueue/Dequeue
// gateway, and the dispatch path the engine routes fired tasks through.
//
// Start and Stop are mutex-guarded, so concurrent lifecycle calls are
// safe; everything else only reads the immutable registries and the
// handle slot and can be called from any number of goroutines.
type Worker struct {
	runner      engine.Runner
	db          engine.Querier
	databaseURL string
	engineOpts  engine.Options
	tasks       *job.Registry
	recurring   *cron.Registry
	logger      *slog.Logger

	mu sync.Mutex
	// handle is non-nil exactly while the engine is running.
	handle engine.Handle
	// ownPool is set when the worker opened the pool itself and must
	// close it on Stop.
	ownPool *pgxpool.Pool
}

// New creates a Worker and validates its configuration: a runner and a
// database must be present, every recurring pattern must parse, and
// task identifiers must not collide with recurring identifiers (both
// land in the same name-keyed dispatch table, so a collision would let
// one path shadow the other).
func New(opts ...Option) (*Worker, error) {
	w := &Worker{
		engineOpts: engine.DefaultOptions(),
		tasks:      job.NewRegistry(),
		recurring:  cron.NewRegistry(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	if w.runner == nil {
		return nil, ErrNoRunner
	}
	if w.db == nil && w.databaseURL == "" {
		return nil, ErrNoDatabase
	}

	for _, name := range w.recurring.Names() {
		if _, ok := w.tasks.Get(name); ok {
			return nil, fmt.Errorf("taskwire: %q is declared as both a task and a recurring task", name)
		}
		def, _ := w.recurring.Lookup(name)
		if _, err := cron.ParsePattern(def.Pattern); err != nil {
			return nil, fmt.Errorf("taskwire: recurring task %q has invalid pattern %q: %w", name, def.Pattern, err)
		}
	}

	return w, nil
}

// Start builds the dispatch table and recurring item list and starts
// the engine. It is idempotent: a started worker returns nil without
// touching the engine again.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle != nil {
		return nil
	}

	if w.db == nil {
		pool, err := pgxpool.New(ctx, w.databaseURL)
		if err != nil {
			return fmt.Errorf("taskwire: connect database: %w", err)
		}
		w.ownPool = pool
		w.db = pool
	}

	tasks := w.buildTaskMap()
	items := w.recurring.Items()

	handle, err := w.runner.Run(ctx, w.engineOpts, tasks, items)
	if err != nil {
		return fmt.Errorf("taskwire: start engine: %w", err)
	}
	if handle == nil {
		return fmt.Errorf("taskwire: start engine: runner returned no handle")
	}
	w.handle = handle

	w.logger.Info("worker started",
		slog.Int("tasks", len(tasks)),
		slog.Int("recurring", len(items)),
		slog.String("schema", w.engineOpts.Schema),
	)
	return nil
}

// Stop requests graceful engine shutdown and clears the handle. A
// stopped worker returns nil. The handle is cleared even when the
// engine reports a shutdown error, so a later Start begins fresh.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle == nil {
		return nil
	}

	err := w.handle.Stop(ctx)
	w.handle = nil

	if w.ownPool != nil {
		w.ownPool.Close()
		w.ownPool = nil
		w.db = nil
	}

	if err != nil {
		return fmt.Errorf("taskwire: stop engine: %w", err)
	}
	w.logger.Info("worker stopped")
	return nil
}

// querier returns the default data-access context, or ErrNotStarted
// while no engine handle is live.
func (w *Worker) querier() (engine.Querier, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handle == nil {
		return nil, ErrNotStarted
	}
	return w.db, nil
}
