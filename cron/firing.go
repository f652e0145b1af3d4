package cron

import (
	"encoding/json"
	"fmt"
	"time"
)

// Firing is the payload a recurring task handler receives: when the
// schedule fired, and whether the firing was backfilled for a period
// the worker was down.
type Firing struct {
	FiredAt    time.Time `json:"ts"`
	Backfilled bool      `json:"backfilled"`
}

// envelope mirrors the payload shape the engine attaches to cron jobs.
// Pointer fields distinguish "absent" from zero values.
type envelope struct {
	Cron *struct {
		TS         *time.Time `json:"ts"`
		Backfilled *bool      `json:"backfilled"`
	} `json:"_cron"`
}

// DecodeFiring unwraps the engine's cron envelope. The ts field is
// required; backfilled defaults to false when omitted.
func DecodeFiring(raw json.RawMessage) (Firing, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Firing{}, fmt.Errorf("cron: decode firing envelope: %w", err)
	}
	if env.Cron == nil {
		return Firing{}, fmt.Errorf("cron: firing payload has no _cron envelope")
	}
	if env.Cron.TS == nil {
		return Firing{}, fmt.Errorf("cron: firing envelope has no ts")
	}

	f := Firing{FiredAt: *env.Cron.TS}
	if env.Cron.Backfilled != nil {
		f.Backfilled = *env.Cron.Backfilled
	}
	return f, nil
}
