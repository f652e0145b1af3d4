package job

import (
	"encoding/json"
	"time"
)

// KeyMode controls what happens when an enqueued job carries a job key
// that already exists.
type KeyMode string

const (
	// KeyModeReplace updates the existing job's payload and run time.
	// This is the engine default.
	KeyModeReplace KeyMode = "replace"
	// KeyModePreserveRunAt updates the payload but keeps the existing
	// job's scheduled run time.
	KeyModePreserveRunAt KeyMode = "preserve_run_at"
	// KeyModeUnsafeDedupe keeps the existing job untouched, even if it
	// is already locked or has failed attempts.
	KeyModeUnsafeDedupe KeyMode = "unsafe_dedupe"
)

// Job is the normalized read view of a job row persisted by the engine.
// Nullable columns map to pointer fields.
type Job struct {
	ID          int64           `json:"id"`
	Queue       *string         `json:"queue_name,omitempty"`
	Task        string          `json:"task_identifier"`
	Payload     json.RawMessage `json:"payload"`
	Priority    int             `json:"priority"`
	RunAt       time.Time       `json:"run_at"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   *string         `json:"last_error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Key         *string         `json:"key,omitempty"`
	Revision    int             `json:"revision"`
	LockedAt    *time.Time      `json:"locked_at,omitempty"`
	LockedBy    *string         `json:"locked_by,omitempty"`
	Flags       map[string]bool `json:"flags,omitempty"`
}
