package enginetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire/cron"
	"github.com/taskwire/taskwire/engine"
	"github.com/taskwire/taskwire/job"
)

// Runner is an engine.Runner double. It records every Run call and
// exposes the captured dispatch table so tests can fire task names
// through it.
type Runner struct {
	// RunErr, when set, makes Run fail without producing a handle.
	RunErr error

	mu     sync.Mutex
	runs   int
	handle *Handle
	tasks  engine.TaskMap
	items  []cron.Item
	opts   engine.Options
}

// NewRunner creates a Runner double.
func NewRunner() *Runner {
	return &Runner{}
}

// Run records the call and returns a fresh handle.
func (r *Runner) Run(_ context.Context, opts engine.Options, tasks engine.TaskMap, recurring []cron.Item) (engine.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs++
	if r.RunErr != nil {
		return nil, r.RunErr
	}

	r.handle = &Handle{ID: uuid.NewString()}
	r.tasks = tasks
	r.items = recurring
	r.opts = opts
	return r.handle, nil
}

// Runs returns how many times Run was called.
func (r *Runner) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Handle returns the handle produced by the last successful Run.
func (r *Runner) Handle() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle
}

// Tasks returns the dispatch table captured by the last Run.
func (r *Runner) Tasks() engine.TaskMap {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks
}

// Items returns the recurring items captured by the last Run.
func (r *Runner) Items() []cron.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items
}

// Options returns the engine options captured by the last Run.
func (r *Runner) Options() engine.Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// Fire invokes the captured handler for name the way the engine would,
// with the raw payload and a helpers view over j.
func (r *Runner) Fire(ctx context.Context, name string, payload json.RawMessage, j *job.Job) error {
	r.mu.Lock()
	h, ok := r.tasks[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("enginetest: no task named %q in dispatch table", name)
	}
	return h(ctx, payload, engine.NewHelpers(j))
}

// Handle is an engine.Handle double that counts Stop calls.
type Handle struct {
	// ID distinguishes handles across restarts.
	ID string

	// StopErr, when set, is returned by Stop.
	StopErr error

	mu    sync.Mutex
	stops int
}

// Stop records the call.
func (h *Handle) Stop(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stops++
	return h.StopErr
}

// Stops returns how many times Stop was called.
func (h *Handle) Stops() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stops
}
