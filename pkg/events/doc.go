// Package events is the append-only account event log. The posting pipeline
// records a job.completed or job.failed event for every submission attempt,
// keeping a per-owner history of what happened and why.
//
// Log is the write API: Append(ctx, ownerID, eventType, meta) assigns the ID
// and timestamp and hands the event to a Writer. For high-volume paths wrap
// the storage in an AsyncWriter, which batches writes on a background
// goroutine while still reporting the real storage outcome to each caller:
//
//	storage, err := events.NewPostgresStorage(pool)
//	if err != nil {
//	    return err
//	}
//	writer, err := events.NewAsyncWriter(storage, events.AsyncOptions{})
//	if err != nil {
//	    return err
//	}
//	defer writer.Close(shutdownCtx)
//
//	log, err := events.NewLog(writer)
//
// Events are immutable once stored; there is no update or delete path.
package events
