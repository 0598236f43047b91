// Package queue provides a durable, storage-backed job queue with delayed
// execution, exponential retry backoff, and contention-safe claims for
// horizontally scaled workers.
//
// The package is organised around four main components:
//
//   - Enqueuer: adds jobs to a named queue, immediately or delayed
//   - Registry: maps queue names to processors with per-queue concurrency
//     and pause state; an explicit dependency, never a global
//   - Worker: the poll loop that promotes due delayed jobs, claims pending
//     jobs, dispatches them, and records outcomes
//   - Storage: the persistence contract, with Postgres and in-memory
//     implementations
//
// # Architecture
//
//  1. A Job moves through pending → active → completed, with delayed as the
//     waiting room for both enqueue delays and retry backoff, and failed as
//     the terminal state after the retry budget is exhausted.
//  2. Claims use a locking read that skips rows held by concurrent claimers
//     (FOR UPDATE SKIP LOCKED in the Postgres implementation), so multiple
//     worker processes can poll one table without double-dispatching a job.
//  3. A failed attempt n schedules a retry after 2^(n-1) minutes until
//     max_attempts is reached. Errors wrapped with NonRetryable skip the
//     remaining budget and go terminal at once.
//  4. A reaper pass charges a failed attempt to any job held active past the
//     processing deadline, so a hung external call can never strand a row.
//
// # Usage
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/dmitrymomot/postflow/pkg/queue"
//	)
//
//	type SubmitPostPayload struct {
//	    PostID string `json:"post_id"`
//	}
//
//	func example(storage queue.Storage) error {
//	    registry := queue.NewRegistry()
//	    _ = registry.Register("post-submission", queue.NewProcessor(
//	        func(ctx context.Context, p SubmitPostPayload, job *queue.Job) error {
//	            // submit the post
//	            return nil
//	        },
//	    ), queue.WithConcurrency(2))
//
//	    enqueuer, err := queue.NewEnqueuer(storage)
//	    if err != nil {
//	        return err
//	    }
//	    _, err = enqueuer.Enqueue(context.Background(), "post-submission",
//	        SubmitPostPayload{PostID: "01890..."},
//	        queue.WithDelay(time.Minute),
//	    )
//	    return err
//	}
//
// # Error Handling
//
// Package-level sentinel errors (e.g. ErrQueueNameEmpty, ErrJobNotActive)
// signal violations of business invariants and can be checked with errors.Is.
// Processor failures are never returned to the enqueuing caller; they surface
// through job status and logs.
package queue
