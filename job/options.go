package job

import "time"

// Options configures a job at definition or enqueue time.
//
// On a [Definition], only Queue, Priority, MaxAttempts, KeyMode, and
// Flags are read; they form the task's static dispatch configuration
// and take precedence over the same fields supplied at enqueue time.
// RunAt, Key, and Tx are per-enqueue and ignored on a definition.
//
// Zero values mean "unset": the field is omitted from the add-job call
// and the engine's own default applies.
type Options struct {
	// Queue serializes execution: jobs sharing a queue name run one at
	// a time. Empty means no queue, the engine runs the job whenever.
	Queue string

	// Priority orders ready jobs; the engine owns the convention.
	Priority int

	// MaxAttempts caps retries before the engine permanently fails the
	// job.
	MaxAttempts int

	// Key deduplicates: enqueueing with an existing key applies KeyMode
	// instead of inserting a second job.
	Key string

	// KeyMode is the collision policy applied when Key already exists.
	KeyMode KeyMode

	// Flags are forwarded to the engine's per-job flag set.
	Flags []string

	// RunAt schedules the job for future execution. Zero means now.
	RunAt time.Time

	// Tx scopes the enqueue or dequeue to a caller-owned transaction.
	// Nil means the worker's default database handle.
	Tx Querier
}

// Option is a functional option for job configuration.
type Option func(*Options)

// WithQueue sets the serial queue name.
func WithQueue(q string) Option {
	return func(o *Options) { o.Queue = q }
}

// WithPriority sets the job priority.
func WithPriority(p int) Option {
	return func(o *Options) { o.Priority = p }
}

// WithMaxAttempts sets the retry ceiling.
func WithMaxAttempts(n int) Option {
	return func(o *Options) { o.MaxAttempts = n }
}

// WithKey sets the deduplication job key.
func WithKey(k string) Option {
	return func(o *Options) { o.Key = k }
}

// WithKeyMode sets the job-key collision policy.
func WithKeyMode(m KeyMode) Option {
	return func(o *Options) { o.KeyMode = m }
}

// WithFlags sets the job's flag set.
func WithFlags(flags ...string) Option {
	return func(o *Options) { o.Flags = flags }
}

// WithRunAt schedules the job for execution at a specific time.
func WithRunAt(t time.Time) Option {
	return func(o *Options) { o.RunAt = t }
}

// WithTx scopes the operation to the given transaction or connection.
func WithTx(q Querier) Option {
	return func(o *Options) { o.Tx = q }
}
