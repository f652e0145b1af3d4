package job

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgx used to issue engine-level calls.
// *pgxpool.Pool, *pgx.Conn, and pgx.Tx all satisfy it, so callers can
// scope an operation to a transaction by passing the pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Columns is the explicit jobs column list selected from engine calls.
// Keeping it explicit pins the scan order instead of trusting whatever
// column order the engine's row type happens to have.
const Columns = `id, queue_name, task_identifier, payload, priority, run_at, attempts, max_attempts, last_error, created_at, updated_at, key, revision, locked_at, locked_by, flags`

// Collect decodes every result row into a Job. A row that does not
// match the expected shape is returned as an error, never coerced.
func Collect(rows pgx.Rows) ([]*Job, error) {
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("job: decode result row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("job: read result rows: %w", err)
	}
	return jobs, nil
}

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.Queue, &j.Task, &j.Payload,
		&j.Priority, &j.RunAt, &j.Attempts, &j.MaxAttempts,
		&j.LastError, &j.CreatedAt, &j.UpdatedAt,
		&j.Key, &j.Revision, &j.LockedAt, &j.LockedBy, &j.Flags,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
