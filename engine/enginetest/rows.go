package enginetest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskwire/taskwire/job"
)

// fakeRows replays job records through the pgx.Rows interface in the
// column order of job.Columns.
type fakeRows struct {
	jobs    []*job.Job
	scanErr error
	i       int
	err     error
	closed  bool
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.i >= len(r.jobs) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	if r.i == 0 || r.i > len(r.jobs) {
		return nil, fmt.Errorf("enginetest: Values called outside a row")
	}
	j := r.jobs[r.i-1]
	return []any{
		j.ID, j.Queue, j.Task, j.Payload,
		j.Priority, j.RunAt, j.Attempts, j.MaxAttempts,
		j.LastError, j.CreatedAt, j.UpdatedAt,
		j.Key, j.Revision, j.LockedAt, j.LockedBy, j.Flags,
	}, nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if r.i == 0 || r.i > len(r.jobs) {
		return fmt.Errorf("enginetest: Scan called outside a row")
	}
	if len(dest) != 16 {
		return fmt.Errorf("enginetest: Scan wants 16 destinations, got %d", len(dest))
	}

	j := r.jobs[r.i-1]
	*(dest[0].(*int64)) = j.ID
	*(dest[1].(**string)) = cloneString(j.Queue)
	*(dest[2].(*string)) = j.Task
	*(dest[3].(*json.RawMessage)) = append(json.RawMessage(nil), j.Payload...)
	*(dest[4].(*int)) = j.Priority
	*(dest[5].(*time.Time)) = j.RunAt
	*(dest[6].(*int)) = j.Attempts
	*(dest[7].(*int)) = j.MaxAttempts
	*(dest[8].(**string)) = cloneString(j.LastError)
	*(dest[9].(*time.Time)) = j.CreatedAt
	*(dest[10].(*time.Time)) = j.UpdatedAt
	*(dest[11].(**string)) = cloneString(j.Key)
	*(dest[12].(*int)) = j.Revision
	*(dest[13].(**time.Time)) = cloneTime(j.LockedAt)
	*(dest[14].(**string)) = cloneString(j.LockedBy)
	*(dest[15].(*map[string]bool)) = cloneFlags(j.Flags)
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFlags(flags map[string]bool) map[string]bool {
	if flags == nil {
		return nil
	}
	out := make(map[string]bool, len(flags))
	for k, v := range flags {
		out[k] = v
	}
	return out
}
