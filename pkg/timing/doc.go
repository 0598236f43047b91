// Package timing recommends when to publish a post to a given destination.
//
// The Optimizer answers "when should this go out": with at least ten recorded
// engagement events in the lookback period it buckets engagement by hour of
// day and derives send windows from the peaks; with less data it falls back
// to static heuristic windows keyed by substrings of the destination name
// ("workday", "weekend", "international"), which operators can override from
// a YAML file via LoadHeuristics.
//
// The Recorder closes the loop: after a post has been live long enough to
// judge, its reactions and comments are scored (comments weigh three times a
// reaction) and appended as an engagement event for future derivation.
// Recording is fire-and-forget.
//
//	optimizer, err := timing.NewOptimizer(store)
//	if err != nil {
//	    return err
//	}
//	sendAt, err := optimizer.ChooseSendTime(ctx, "r/golang", "America/New_York", timing.DayWeekday)
//	if err != nil {
//	    return err
//	}
//	// enqueue the submission job with WithRunAt(sendAt)
//
// ChooseSendTime only computes a timestamp; enqueueing it is the caller's
// job. The optimizer reads engagement events and nothing else.
package timing
