// Package posting submits scheduled posts to their destinations.
//
// The Scheduler is the producer side: it persists a draft as a
// scheduled_posts record, asks the timing optimizer for a send time (unless
// the draft fixes one), and enqueues a submission job to run at that moment.
//
// The Processor is the consumer side, registered on the post-submission
// queue. Each attempt resolves the owner's submission client, checks
// destination policy, optionally resolves media (falling back to text-only on
// any resolution failure), and submits. The originating record and the
// account event log are updated on every attempt:
//
//   - no active account: record failure, append job.failed, return a
//     retryable error so a reconnected account can pick the job up later
//   - policy rejection: record failure, append job.failed, fail terminally
//   - submission error: record failure, append job.failed, let the queue back off
//   - success: mark posted with the platform id and URL, append job.completed
//
// Collaborators are consumed as narrow interfaces (AccountResolver,
// Submitter, MediaResolver, EventLog) so platform clients stay pluggable and
// tests run on mocks. PostStore has Postgres and in-memory implementations.
//
//	processor, err := posting.NewProcessor(accounts, posts, eventLog,
//	    posting.WithMediaResolver(mediaResolver),
//	    posting.WithProcessorLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	err = registry.Register(posting.QueueName, processor.QueueProcessor(),
//	    queue.WithConcurrency(cfg.Concurrency))
package posting
