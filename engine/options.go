package engine

import "time"

// DefaultSchema is the database schema the engine's SQL functions and
// jobs table live in.
const DefaultSchema = "taskwire"

// Options is engine tuning passed through at start. This layer never
// interprets anything but Schema, which it also uses to address the
// engine's add_job / remove_job functions.
type Options struct {
	// Schema is the engine's database schema.
	Schema string

	// Concurrency is the number of jobs the engine runs at once.
	Concurrency int

	// PollInterval is how often the engine looks for ready jobs.
	PollInterval time.Duration
}

// DefaultOptions returns Options with the engine defaults.
func DefaultOptions() Options {
	return Options{
		Schema:       DefaultSchema,
		Concurrency:  10,
		PollInterval: 2 * time.Second,
	}
}
