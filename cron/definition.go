package cron

import (
	"context"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/taskwire/taskwire/job"
)

// Definition is a recurring task definition.
type Definition struct {
	// Name is the unique identifier for this recurring task. It doubles
	// as the task name the engine fires, so it must not collide with any
	// normal task identifier.
	Name string

	// Pattern is the cron pattern string, e.g. "*/10 * * * *".
	Pattern string

	// Handler processes each firing alongside the firing job record.
	Handler func(ctx context.Context, f Firing, j *Job) error

	// Options are engine scheduling options, passed through opaquely.
	Options ItemOptions
}

// Job aliases the normalized job record so cron handlers read naturally.
type Job = job.Job

// ItemOptions are engine-specific scheduling options for one recurring
// task. This layer never interprets them.
type ItemOptions struct {
	// BackfillPeriod makes the engine enqueue firings missed while no
	// worker was running, up to this far in the past.
	BackfillPeriod time.Duration `json:"backfill_period,omitempty"`

	// MaxAttempts caps retries for jobs produced by this schedule.
	MaxAttempts int `json:"max_attempts,omitempty"`

	// Queue serializes the produced jobs on a named queue.
	Queue string `json:"queue,omitempty"`

	// Priority orders the produced jobs.
	Priority int `json:"priority,omitempty"`
}

// Item is the (pattern, identifier, options) triple handed to the
// engine at start so it can synthesize recurring firings.
type Item struct {
	Pattern    string      `json:"pattern"`
	Identifier string      `json:"identifier"`
	Options    ItemOptions `json:"options"`
}

// Item translates the definition for the engine. The identifier serves
// as both the item's identity and the task name it fires.
func (d *Definition) Item() Item {
	return Item{
		Pattern:    d.Pattern,
		Identifier: d.Name,
		Options:    d.Options,
	}
}

// patternParser accepts standard 5-field cron plus descriptors
// like "@hourly" and "@every 30s".
var patternParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParsePattern validates a cron pattern and returns its schedule.
// The worker calls this at construction so a bad pattern is a startup
// configuration error rather than an engine-side surprise.
func ParsePattern(pattern string) (cronlib.Schedule, error) {
	return patternParser.Parse(pattern)
}
