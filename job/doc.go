// Package job defines typed task definitions, the type-erased registry
// the dispatch table is built from, enqueue options, and the normalized
// job record decoded from engine result rows.
//
// # Defining a Task
//
// Use [Definition] with a typed handler. The payload is JSON-serialized
// at enqueue time and decoded against T before the handler runs:
//
//	var SendEmail = job.NewDefinition("send_email",
//	    func(ctx context.Context, input EmailInput, j *job.Job) error {
//	        return mailer.Send(input.To, input.Subject, input.Body)
//	    },
//	    job.WithMaxAttempts(5),
//	)
//
// # Registry
//
// [Registry] maps task identifiers to type-erased entries. Register
// definitions at startup via [RegisterDefinition]:
//
//	job.RegisterDefinition(registry, SendEmail)
//
// A producer-only process that enqueues a task type without handling it
// registers the payload type alone via [RegisterType]. Payload decoding
// happens at dispatch time, not at enqueue time, so a producer may ship
// jobs before the consumer's schema is final; the cost is that a schema
// mismatch surfaces to the engine's failure path instead of the
// enqueueing caller.
//
// # Job Record
//
// [Job] is the read-only view of an engine jobs row. This package owns
// only its decoding ([Collect]); storage and mutation belong to the
// engine.
package job
