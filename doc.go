// Package taskwire is a typed task-dispatch layer over an external
// job-execution engine backed by Postgres. Callers declare task types
// with JSON payload shapes, one handler per type, and recurring cron
// tasks; taskwire maps that static catalog onto the engine's untyped,
// string-keyed dispatch mechanism and validates every boundary —
// job payloads, cron envelopes, engine result rows — so malformed data
// fails loudly instead of slipping through.
//
// # Quick Start
//
//	tasks := job.NewRegistry()
//	job.RegisterDefinition(tasks, job.NewDefinition("send_email",
//	    func(ctx context.Context, p EmailPayload, j *job.Job) error {
//	        return mailer.Send(ctx, p)
//	    },
//	))
//
//	w, err := taskwire.New(
//	    taskwire.WithRunner(runner),
//	    taskwire.WithDatabaseURL(os.Getenv("DATABASE_URL")),
//	    taskwire.WithTasks(tasks),
//	)
//	if err != nil { ... }
//	if err := w.Start(ctx); err != nil { ... }
//	defer w.Stop(ctx)
//
//	j, err := w.Enqueue(ctx, "send_email", EmailPayload{To: "a@b.c"})
//
// Persistence, locking, retry/backoff, and worker scheduling all belong
// to the engine behind [engine.Runner]; taskwire owns only the typed
// contract on top of it.
package taskwire
