package taskwire_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/taskwire/taskwire"
	"github.com/taskwire/taskwire/cron"
	"github.com/taskwire/taskwire/engine/enginetest"
	"github.com/taskwire/taskwire/job"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noopCron(_ context.Context, _ cron.Firing, _ *cron.Job) error { return nil }

func TestNew_RequiresRunner(t *testing.T) {
	_, err := taskwire.New(taskwire.WithDB(enginetest.NewDB()))
	if !errors.Is(err, taskwire.ErrNoRunner) {
		t.Fatalf("New error = %v, want ErrNoRunner", err)
	}
}

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := taskwire.New(taskwire.WithRunner(enginetest.NewRunner()))
	if !errors.Is(err, taskwire.ErrNoDatabase) {
		t.Fatalf("New error = %v, want ErrNoDatabase", err)
	}
}

func TestNew_RejectsNameCollision(t *testing.T) {
	tasks := job.NewRegistry()
	job.RegisterDefinition(tasks, job.NewDefinition("cleanup", func(_ context.Context, _ struct{}, _ *job.Job) error {
		return nil
	}))
	recurring := cron.NewRegistry()
	recurring.Register(&cron.Definition{Name: "cleanup", Pattern: "0 3 * * *", Handler: noopCron})

	_, err := taskwire.New(
		taskwire.WithRunner(enginetest.NewRunner()),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithTasks(tasks),
		taskwire.WithRecurring(recurring),
	)
	if err == nil {
		t.Fatal("expected a collision error")
	}
	if !strings.Contains(err.Error(), `"cleanup"`) {
		t.Errorf("error %q does not name the colliding identifier", err)
	}
}

func TestNew_RejectsBadPattern(t *testing.T) {
	recurring := cron.NewRegistry()
	recurring.Register(&cron.Definition{Name: "broken", Pattern: "not a pattern", Handler: noopCron})

	_, err := taskwire.New(
		taskwire.WithRunner(enginetest.NewRunner()),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithRecurring(recurring),
	)
	if err == nil {
		t.Fatal("expected a pattern error")
	}
	if !strings.Contains(err.Error(), `"broken"`) {
		t.Errorf("error %q does not name the recurring task", err)
	}
}

func TestWorker_StartIsIdempotent(t *testing.T) {
	runner := enginetest.NewRunner()
	w, err := taskwire.New(
		taskwire.WithRunner(runner),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	first := runner.Handle()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if runner.Runs() != 1 {
		t.Errorf("engine started %d times, want 1", runner.Runs())
	}
	if runner.Handle() != first {
		t.Error("second Start produced a new handle")
	}
}

func TestWorker_StartFailure(t *testing.T) {
	runner := enginetest.NewRunner()
	runner.RunErr = errors.New("no free port")
	w, err := taskwire.New(
		taskwire.WithRunner(runner),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := w.Start(ctx); err == nil {
		t.Fatal("expected Start to fail")
	}

	// A failed Start leaves the worker stopped; a later Start retries.
	runner.RunErr = nil
	if err := w.Start(ctx); err != nil {
		t.Fatalf("retry Start: %v", err)
	}
	if runner.Runs() != 2 {
		t.Errorf("engine start attempts = %d, want 2", runner.Runs())
	}
}

func TestWorker_StopIsNoOpWhenStopped(t *testing.T) {
	runner := enginetest.NewRunner()
	w, err := taskwire.New(
		taskwire.WithRunner(runner),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("Stop on a stopped worker: %v", err)
	}
	if runner.Runs() != 0 {
		t.Error("Stop must not touch the engine")
	}
}

func TestWorker_StopThenRestart(t *testing.T) {
	runner := enginetest.NewRunner()
	w, err := taskwire.New(
		taskwire.WithRunner(runner),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	first := runner.Handle()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if first.Stops() != 1 {
		t.Errorf("handle stopped %d times, want 1", first.Stops())
	}

	if err := w.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if runner.Runs() != 2 {
		t.Errorf("engine started %d times, want 2", runner.Runs())
	}
	if runner.Handle().ID == first.ID {
		t.Error("restart reused the old handle")
	}
}

func TestWorker_StartHandsOverTableAndItems(t *testing.T) {
	tasks := job.NewRegistry()
	job.RegisterDefinition(tasks, job.NewDefinition("send_email", func(_ context.Context, _ struct{}, _ *job.Job) error {
		return nil
	}))
	recurring := cron.NewRegistry()
	recurring.Register(&cron.Definition{Name: "hourly_report", Pattern: "0 * * * *", Handler: noopCron})

	runner := enginetest.NewRunner()
	w, err := taskwire.New(
		taskwire.WithRunner(runner),
		taskwire.WithDB(enginetest.NewDB()),
		taskwire.WithTasks(tasks),
		taskwire.WithRecurring(recurring),
		taskwire.WithSchema("jobs_test"),
		taskwire.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	table := runner.Tasks()
	if _, ok := table["send_email"]; !ok {
		t.Error("dispatch table is missing the task identifier")
	}
	if _, ok := table["hourly_report"]; !ok {
		t.Error("dispatch table is missing the recurring identifier")
	}
	if len(table) != 2 {
		t.Errorf("dispatch table has %d entries, want 2", len(table))
	}

	items := runner.Items()
	if len(items) != 1 || items[0].Identifier != "hourly_report" || items[0].Pattern != "0 * * * *" {
		t.Errorf("recurring items = %+v", items)
	}
	if got := runner.Options().Schema; got != "jobs_test" {
		t.Errorf("engine schema = %q, want %q", got, "jobs_test")
	}
}
