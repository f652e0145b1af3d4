package job

import "context"

// Definition is a typed task definition with a handler function.
// T is the payload type (must be JSON-serializable).
type Definition[T any] struct {
	// Name is the unique identifier for this task type.
	Name string

	// Handler processes the decoded payload alongside the firing job
	// record. Errors propagate unmodified to the engine's retry policy.
	Handler func(ctx context.Context, payload T, j *Job) error

	// QueueFor derives the serial queue name from the payload at
	// enqueue time, overriding any static Opts.Queue. Optional.
	QueueFor func(payload T) string

	// Opts is the static dispatch configuration (queue, priority,
	// max attempts, key mode, flags).
	Opts Options
}

// NewDefinition creates a typed task definition.
func NewDefinition[T any](name string, handler func(ctx context.Context, payload T, j *Job) error, opts ...Option) *Definition[T] {
	def := &Definition[T]{
		Name:    name,
		Handler: handler,
	}
	for _, opt := range opts {
		opt(&def.Opts)
	}
	return def
}
