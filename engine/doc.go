// Package engine specifies the contract this layer consumes from the
// external job-execution engine. The engine persists jobs, schedules
// workers, retries failures, and synthesizes cron firings; none of that
// lives here.
//
// A [Runner] starts the engine with options, a name-keyed dispatch
// table, and a recurring item list, and yields a [Handle] for graceful
// shutdown. Enqueue and dequeue ride the engine's SQL functions
// (add_job / remove_job in the engine schema) issued through a
// [Querier], which is the pgx subset shared by *pgxpool.Pool,
// *pgx.Conn, and pgx.Tx — pass a transaction to scope the call to its
// commit boundary.
//
// The in-memory doubles in enginetest implement both sides of this
// contract for tests.
package engine
