package taskwire

import "errors"

var (
	// Construction errors.
	ErrNoRunner   = errors.New("taskwire: no engine runner configured")
	ErrNoDatabase = errors.New("taskwire: no database configured")

	// Lifecycle errors.
	ErrNotStarted = errors.New("taskwire: worker not started")

	// Dispatch errors. These indicate construction or configuration
	// defects surfacing at dispatch time; this layer never recovers
	// from them.
	ErrUnknownTask      = errors.New("taskwire: unknown task type")
	ErrNoHandler        = errors.New("taskwire: no handler registered for task")
	ErrUnknownRecurring = errors.New("taskwire: unknown recurring task")
)
