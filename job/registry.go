package job

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Entry is a type-erased registry entry. The payload codec and the
// handler are carried separately so a missing codec (unknown task type)
// and a missing handler (catalog-only registration) stay distinct
// failures at dispatch time.
type Entry struct {
	name     string
	decode   func(raw json.RawMessage) (any, error)
	run      func(ctx context.Context, payload any, j *Job) error
	queueFor func(raw json.RawMessage) (string, error)
	opts     Options
}

// Decode parses raw payload bytes into the entry's payload type.
// Failure carries the task identifier and the underlying JSON error.
func (e *Entry) Decode(raw json.RawMessage) (any, error) {
	return e.decode(raw)
}

// HasHandler reports whether a handler was registered for this entry.
// Catalog-only entries (RegisterType) can be enqueued but not dispatched.
func (e *Entry) HasHandler() bool { return e.run != nil }

// Run invokes the registered handler with an already-decoded payload.
func (e *Entry) Run(ctx context.Context, payload any, j *Job) error {
	return e.run(ctx, payload, j)
}

// ResolveQueue derives the queue name from the raw payload when the
// definition declared a queue resolver. The second return is false when
// the queue is static.
func (e *Entry) ResolveQueue(raw json.RawMessage) (string, bool, error) {
	if e.queueFor == nil {
		return "", false, nil
	}
	q, err := e.queueFor(raw)
	if err != nil {
		return "", true, err
	}
	return q, true, nil
}

// Options returns the entry's static dispatch configuration.
func (e *Entry) Options() Options { return e.opts }

// Registry maps task identifiers to type-erased entries.
// It is safe for concurrent use; register everything before handing the
// registry to a worker.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// RegisterDefinition registers a typed task definition. The generic
// handler and queue resolver are wrapped in closures that decode the
// JSON payload into T before invoking the typed function.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func RegisterDefinition[T any](r *Registry, def *Definition[T]) {
	e := &Entry{
		name:   def.Name,
		decode: decodeInto[T](def.Name),
		opts:   def.Opts,
	}

	handler := def.Handler
	e.run = func(ctx context.Context, payload any, j *Job) error {
		p, ok := payload.(T)
		if !ok {
			return fmt.Errorf("job: payload for task %q is %T, want %T", def.Name, payload, p)
		}
		return handler(ctx, p, j)
	}

	if def.QueueFor != nil {
		queueFor := def.QueueFor
		decode := e.decode
		e.queueFor = func(raw json.RawMessage) (string, error) {
			v, err := decode(raw)
			if err != nil {
				return "", err
			}
			return queueFor(v.(T)), nil
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[def.Name] = e
}

// RegisterType registers a payload type without a handler. Use it on
// the producer side so the identifier can be enqueued with its static
// configuration; dispatching the identifier in this process fails with
// a missing-handler error.
func RegisterType[T any](r *Registry, name string, opts ...Option) {
	e := &Entry{
		name:   name,
		decode: decodeInto[T](name),
	}
	for _, opt := range opts {
		opt(&e.opts)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = e
}

// Get returns the entry for the given task identifier.
// Returns false if nothing is registered under the identifier.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns all registered task identifiers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

func decodeInto[T any](name string) func(raw json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var t T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &t); err != nil {
				return nil, fmt.Errorf("job: decode payload for task %q: %w", name, err)
			}
		}
		return t, nil
	}
}
