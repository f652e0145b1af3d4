package engine

import (
	"context"
	"encoding/json"

	"github.com/taskwire/taskwire/cron"
	"github.com/taskwire/taskwire/job"
)

// Querier is the transactional data-access context engine calls are
// issued through. It aliases job.Querier; see that type for the pgx
// types that satisfy it.
type Querier = job.Querier

// Helpers is the per-invocation context the engine exposes to a firing
// handler.
type Helpers interface {
	// Job returns the job record being executed.
	Job() *job.Job
}

// HandlerFunc is one slot of the dispatch table: a type-erased handler
// the engine invokes with the raw payload of a fired task.
type HandlerFunc func(ctx context.Context, payload json.RawMessage, h Helpers) error

// TaskMap is the name-keyed dispatch table handed to the engine at
// start. Normal and recurring task handlers are merged into one table,
// which is why their identifiers must not collide.
type TaskMap map[string]HandlerFunc

// Runner starts the external engine.
type Runner interface {
	// Run starts workers with the given dispatch table and recurring
	// items. The options are engine tuning this layer passes through
	// opaquely. A successful Run returns a non-nil Handle.
	Run(ctx context.Context, opts Options, tasks TaskMap, recurring []cron.Item) (Handle, error)
}

// Handle is a live engine instance.
type Handle interface {
	// Stop requests graceful shutdown: in-flight jobs finish, no new
	// jobs are claimed.
	Stop(ctx context.Context) error
}

// NewHelpers wraps a job record in the Helpers interface. Engine
// adapters and tests use it when invoking dispatch-table handlers.
func NewHelpers(j *job.Job) Helpers {
	return jobHelpers{j: j}
}

type jobHelpers struct {
	j *job.Job
}

func (h jobHelpers) Job() *job.Job { return h.j }
