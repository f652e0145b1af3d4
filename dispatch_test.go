package taskwire_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/taskwire/taskwire"
	"github.com/taskwire/taskwire/cron"
	"github.com/taskwire/taskwire/engine"
	"github.com/taskwire/taskwire/engine/enginetest"
	"github.com/taskwire/taskwire/job"
)

type reportPayload struct {
	UserID string `json:"user_id"`
	Format string `json:"format"`
}

// startedWorker builds and starts a worker around the given registries.
func startedWorker(t *testing.T, tasks *job.Registry, recurring *cron.Registry) (*taskwire.Worker, *enginetest.Runner) {
	t.Helper()
	runner := enginetest.NewRunner()
	opts := []taskwire.Option{
		taskwire.WithRunner(runner),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithLogger(quietLogger()),
	}
	if tasks != nil {
		opts = append(opts, taskwire.WithTasks(tasks))
	}
	if recurring != nil {
		opts = append(opts, taskwire.WithRecurring(recurring))
	}
	w, err := taskwire.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return w, runner
}

func TestDispatch_InvokesRegisteredHandler(t *testing.T) {
	tasks := job.NewRegistry()
	var got reportPayload
	var gotJob *job.Job
	job.RegisterDefinition(tasks, job.NewDefinition("generate_report", func(_ context.Context, p reportPayload, j *job.Job) error {
		got = p
		gotJob = j
		return nil
	}))

	_, runner := startedWorker(t, tasks, nil)

	rec := &job.Job{ID: 42, Task: "generate_report"}
	payload := json.RawMessage(`{"user_id": "u_1", "format": "pdf"}`)
	if err := runner.Fire(context.Background(), "generate_report", payload, rec); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if got.UserID != "u_1" || got.Format != "pdf" {
		t.Errorf("handler payload = %+v", got)
	}
	if gotJob == nil || gotJob.ID != 42 {
		t.Errorf("handler job = %+v, want the fired record", gotJob)
	}
}

func TestDispatch_UnknownTask(t *testing.T) {
	w, _ := startedWorker(t, nil, nil)

	err := w.Handle(context.Background(), "never_declared", nil, engine.NewHelpers(&job.Job{}))
	if !errors.Is(err, taskwire.ErrUnknownTask) {
		t.Fatalf("Handle error = %v, want ErrUnknownTask", err)
	}
}

func TestDispatch_CatalogOnlyEntryHasNoHandler(t *testing.T) {
	tasks := job.NewRegistry()
	job.RegisterType[reportPayload](tasks, "generate_report")

	w, _ := startedWorker(t, tasks, nil)

	payload := json.RawMessage(`{"user_id": "u_1"}`)
	err := w.Handle(context.Background(), "generate_report", payload, engine.NewHelpers(&job.Job{}))
	if !errors.Is(err, taskwire.ErrNoHandler) {
		t.Fatalf("Handle error = %v, want ErrNoHandler", err)
	}
}

func TestDispatch_DecodeFailureSkipsHandler(t *testing.T) {
	tasks := job.NewRegistry()
	invoked := false
	job.RegisterDefinition(tasks, job.NewDefinition("generate_report", func(_ context.Context, _ reportPayload, _ *job.Job) error {
		invoked = true
		return nil
	}))

	_, runner := startedWorker(t, tasks, nil)

	err := runner.Fire(context.Background(), "generate_report", json.RawMessage(`{"user_id": 42}`), &job.Job{})
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if invoked {
		t.Error("handler ran on a malformed payload")
	}
}

func TestDispatch_HandlerErrorPropagatesUnmodified(t *testing.T) {
	boom := errors.New("smtp down")
	tasks := job.NewRegistry()
	job.RegisterDefinition(tasks, job.NewDefinition("send_email", func(_ context.Context, _ struct{}, _ *job.Job) error {
		return boom
	}))

	_, runner := startedWorker(t, tasks, nil)

	err := runner.Fire(context.Background(), "send_email", json.RawMessage(`{}`), &job.Job{})
	if !errors.Is(err, boom) {
		t.Fatalf("Fire error = %v, want the handler's error", err)
	}
}

func TestDispatch_CronFiring(t *testing.T) {
	recurring := cron.NewRegistry()
	var got cron.Firing
	recurring.Register(&cron.Definition{
		Name:    "hourly_report",
		Pattern: "0 * * * *",
		Handler: func(_ context.Context, f cron.Firing, _ *cron.Job) error {
			got = f
			return nil
		},
	})

	_, runner := startedWorker(t, nil, recurring)

	payload := json.RawMessage(`{"_cron": {"ts": "2024-01-01T00:00:00Z", "backfilled": false}}`)
	if err := runner.Fire(context.Background(), "hourly_report", payload, &job.Job{}); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.FiredAt.Equal(want) {
		t.Errorf("FiredAt = %v, want %v", got.FiredAt, want)
	}
	if got.Backfilled {
		t.Error("Backfilled = true, want false")
	}
}

func TestDispatch_CronMalformedEnvelope(t *testing.T) {
	recurring := cron.NewRegistry()
	invoked := false
	recurring.Register(&cron.Definition{
		Name:    "hourly_report",
		Pattern: "0 * * * *",
		Handler: func(_ context.Context, _ cron.Firing, _ *cron.Job) error {
			invoked = true
			return nil
		},
	})

	_, runner := startedWorker(t, nil, recurring)

	err := runner.Fire(context.Background(), "hourly_report", json.RawMessage(`{"_cron": {"backfilled": true}}`), &job.Job{})
	if err == nil {
		t.Fatal("expected an envelope error")
	}
	if invoked {
		t.Error("handler ran on a malformed envelope")
	}
}

func TestDispatch_CronHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("report exploded")
	recurring := cron.NewRegistry()
	recurring.Register(&cron.Definition{
		Name:    "hourly_report",
		Pattern: "0 * * * *",
		Handler: func(_ context.Context, _ cron.Firing, _ *cron.Job) error {
			return boom
		},
	})

	_, runner := startedWorker(t, nil, recurring)

	payload := json.RawMessage(`{"_cron": {"ts": "2024-01-01T00:00:00Z", "backfilled": false}}`)
	err := runner.Fire(context.Background(), "hourly_report", payload, &job.Job{})
	if !errors.Is(err, boom) {
		t.Fatalf("Fire error = %v, want the handler's error", err)
	}
}
