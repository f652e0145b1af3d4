package enginetest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taskwire/taskwire/job"
)

// Call is one recorded Query invocation.
type Call struct {
	SQL  string
	Args []any
}

// DB is an engine.Querier double implementing the add_job / remove_job
// contract over maps. The gateway's SQL and decode paths run against it
// unmodified.
type DB struct {
	// QueryErr, when set, fails every Query.
	QueryErr error

	// ScanErr, when set, makes returned rows fail at Scan. Useful for
	// exercising result-decode failures.
	ScanErr error

	mu     sync.Mutex
	nextID int64
	byKey  map[string]*job.Job
	calls  []Call
}

// NewDB creates an empty DB double.
func NewDB() *DB {
	return &DB{
		byKey: make(map[string]*job.Job),
	}
}

// Calls returns every recorded Query invocation.
func (d *DB) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	calls := make([]Call, len(d.calls))
	copy(calls, d.calls)
	return calls
}

// LastCall returns the most recent Query invocation.
func (d *DB) LastCall() (Call, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.calls) == 0 {
		return Call{}, false
	}
	return d.calls[len(d.calls)-1], true
}

// Query dispatches on the engine function named in sql.
func (d *DB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, Call{SQL: sql, Args: args})
	if d.QueryErr != nil {
		return nil, d.QueryErr
	}

	switch {
	case strings.Contains(sql, ".add_job("):
		return d.addJob(args)
	case strings.Contains(sql, ".remove_job("):
		return d.removeJob(args)
	}
	return nil, fmt.Errorf("enginetest: unhandled query %q", sql)
}

func (d *DB) addJob(args []any) (pgx.Rows, error) {
	if len(args) != 9 {
		return nil, fmt.Errorf("enginetest: add_job wants 9 args, got %d", len(args))
	}

	now := time.Now().UTC()
	j := &job.Job{
		Task:        args[0].(string),
		Payload:     append(json.RawMessage(nil), args[1].([]byte)...),
		RunAt:       now,
		MaxAttempts: 25,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if q, ok := args[2].(string); ok {
		j.Queue = &q
	}
	if t, ok := args[3].(time.Time); ok {
		j.RunAt = t
	}
	if n, ok := args[4].(int); ok {
		j.MaxAttempts = n
	}
	if k, ok := args[5].(string); ok {
		j.Key = &k
	}
	if p, ok := args[6].(int); ok {
		j.Priority = p
	}
	if flags, ok := args[7].([]string); ok {
		j.Flags = make(map[string]bool, len(flags))
		for _, f := range flags {
			j.Flags[f] = true
		}
	}
	mode := job.KeyModeReplace
	if m, ok := args[8].(string); ok && m != "" {
		mode = job.KeyMode(m)
	}

	if j.Key != nil {
		if prev, ok := d.byKey[*j.Key]; ok {
			switch mode {
			case job.KeyModeUnsafeDedupe:
				return d.rows(prev), nil
			case job.KeyModePreserveRunAt:
				j.RunAt = prev.RunAt
			}
			j.ID = prev.ID
			j.CreatedAt = prev.CreatedAt
			j.Revision = prev.Revision + 1
			j.UpdatedAt = now
			d.byKey[*j.Key] = j
			return d.rows(j), nil
		}
	}

	d.nextID++
	j.ID = d.nextID
	if j.Key != nil {
		d.byKey[*j.Key] = j
	}
	return d.rows(j), nil
}

func (d *DB) removeJob(args []any) (pgx.Rows, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("enginetest: remove_job wants 1 arg, got %d", len(args))
	}
	key := args[0].(string)

	j, ok := d.byKey[key]
	if !ok {
		// Nothing to remove: zero rows, not an error.
		return d.rows(), nil
	}
	delete(d.byKey, key)
	return d.rows(j), nil
}

func (d *DB) rows(jobs ...*job.Job) pgx.Rows {
	return &fakeRows{jobs: jobs, scanErr: d.ScanErr}
}
