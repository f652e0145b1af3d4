// Package enginetest provides in-memory doubles for the engine
// contract. Intended for unit testing and development.
//
// [Runner] records Run calls and lets a test fire any name in the
// captured dispatch table. [DB] implements the add_job / remove_job SQL
// contract over maps and returns real pgx.Rows, so the gateway's
// decode path runs unmodified in tests.
package enginetest
