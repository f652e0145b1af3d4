package taskwire

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taskwire/taskwire/job"
)

// Enqueue adds a job for the named task through the engine's add_job
// function and returns the resulting record. The worker must be
// started.
//
// Caller options are merged under the task definition's static
// configuration: fields the definition sets win, and a definition with
// a queue resolver derives the queue from the payload, overriding any
// static name. The payload is not validated against the catalog here —
// by design it is decoded at dispatch time, so a schema mismatch
// surfaces to the engine's failure path, not to this caller. An
// identifier with no registry entry at all enqueues as-is for the same
// reason.
func (w *Worker) Enqueue(ctx context.Context, name string, payload any, opts ...job.Option) (*job.Job, error) {
	db, err := w.querier()
	if err != nil {
		return nil, err
	}

	var o job.Options
	for _, opt := range opts {
		opt(&o)
	}
	tx := o.Tx

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("taskwire: marshal payload for task %q: %w", name, err)
	}

	if entry, ok := w.tasks.Get(name); ok {
		static := entry.Options()
		if static.Queue != "" {
			o.Queue = static.Queue
		}
		if static.Priority != 0 {
			o.Priority = static.Priority
		}
		if static.MaxAttempts != 0 {
			o.MaxAttempts = static.MaxAttempts
		}
		if static.KeyMode != "" {
			o.KeyMode = static.KeyMode
		}
		if len(static.Flags) > 0 {
			o.Flags = static.Flags
		}
		if q, derived, qErr := entry.ResolveQueue(raw); qErr != nil {
			return nil, fmt.Errorf("taskwire: resolve queue for task %q: %w", name, qErr)
		} else if derived {
			o.Queue = q
		}
	}

	q := db
	if tx != nil {
		q = tx
	}

	rows, err := q.Query(ctx, w.addJobSQL(),
		name,
		raw,
		nullString(o.Queue),
		nullTime(o.RunAt),
		nullInt(o.MaxAttempts),
		nullString(o.Key),
		nullInt(o.Priority),
		nullFlags(o.Flags),
		nullString(string(o.KeyMode)),
	)
	if err != nil {
		return nil, fmt.Errorf("taskwire: add job %q: %w", name, err)
	}

	jobs, err := job.Collect(rows)
	if err != nil {
		return nil, fmt.Errorf("taskwire: add job %q: %w", name, err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("taskwire: add job %q: engine returned no row", name)
	}
	return jobs[0], nil
}

// Dequeue removes the job identified by jobKey through the engine's
// remove_job function. The worker must be started.
//
// A key with no matching job is a valid "nothing to remove" outcome by
// this layer's engine contract: remove_job returns zero rows and
// Dequeue returns (nil, nil). Every other failure is wrapped with the
// job key as context.
func (w *Worker) Dequeue(ctx context.Context, jobKey string, opts ...job.Option) (*job.Job, error) {
	db, err := w.querier()
	if err != nil {
		return nil, err
	}

	var o job.Options
	for _, opt := range opts {
		opt(&o)
	}
	q := db
	if o.Tx != nil {
		q = o.Tx
	}

	rows, err := q.Query(ctx, w.removeJobSQL(), jobKey)
	if err != nil {
		return nil, fmt.Errorf("taskwire: remove job %q: %w", jobKey, err)
	}

	jobs, err := job.Collect(rows)
	if err != nil {
		return nil, fmt.Errorf("taskwire: remove job %q: %w", jobKey, err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

func (w *Worker) addJobSQL() string {
	return fmt.Sprintf(
		`select %s from %s.add_job(identifier => $1::text, payload => $2::json, queue_name => $3::text, run_at => $4::timestamptz, max_attempts => $5::int, job_key => $6::text, priority => $7::int, flags => $8::text[], job_key_mode => $9::text)`,
		job.Columns, w.engineOpts.Schema,
	)
}

func (w *Worker) removeJobSQL() string {
	return fmt.Sprintf(
		`select %s from %s.remove_job($1::text)`,
		job.Columns, w.engineOpts.Schema,
	)
}

// Unset option fields are sent as SQL nulls so the engine's own
// defaults apply.

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullFlags(flags []string) any {
	if len(flags) == 0 {
		return nil
	}
	return flags
}
