// Package cron declares recurring tasks and unwraps the payload the
// engine attaches to each firing.
//
// A [Definition] names a recurring task, its cron pattern, scheduling
// options the engine consumes opaquely, and a handler. At worker start
// the registry is translated into [Item] values handed to the engine;
// the engine owns the actual scheduling and, on every firing, enqueues
// a job whose payload wraps the firing metadata:
//
//	{"_cron": {"ts": "2024-01-01T00:00:00Z", "backfilled": false}}
//
// [DecodeFiring] unwraps that envelope into a [Firing]. A missing or
// malformed envelope is an error, never a zero-valued firing: a cron
// handler silently receiving the zero time would be much harder to
// diagnose than a failed job.
//
// Patterns are validated at worker construction with [ParsePattern]
// (standard 5-field cron plus descriptors like "@hourly"); the engine
// receives the raw pattern string and does its own parsing.
package cron
