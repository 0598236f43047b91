package events

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions tunes the batching writer. Zero values take the defaults.
type AsyncOptions struct {
	// BufferSize is how many pending stores may queue before callers fall
	// back to a synchronous batch write.
	BufferSize int
	// BatchSize is the target number of events per storage write.
	BatchSize int
	// BatchTimeout bounds how long a partial batch may wait before flushing.
	BatchTimeout time.Duration
	// StorageTimeout bounds each flush; flushes run on a detached context so
	// caller cancellation never truncates a storage write.
	StorageTimeout time.Duration
}

type pendingStore struct {
	events []Event
	result chan error
}

// AsyncWriter batches event writes through a background goroutine. Callers
// still get the real storage result: Store blocks until the batch containing
// the event is flushed.
type AsyncWriter struct {
	batch   BatchWriter
	pending chan pendingStore
	done    chan struct{}
	wg      sync.WaitGroup
	options AsyncOptions
}

var _ Writer = (*AsyncWriter)(nil)

// NewAsyncWriter starts a batching writer over the given bulk storage. Call
// Close during shutdown to flush buffered events.
func NewAsyncWriter(batch BatchWriter, opts AsyncOptions) (*AsyncWriter, error) {
	if batch == nil {
		return nil, ErrStorageNil
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout == 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout == 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	aw := &AsyncWriter{
		batch:   batch,
		pending: make(chan pendingStore, opts.BufferSize),
		done:    make(chan struct{}),
		options: opts,
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, nil
}

// Store queues the event and waits for its batch to be flushed. When the
// buffer is full the write degrades to a synchronous batch of one, so an
// event is never dropped for backpressure.
func (aw *AsyncWriter) Store(ctx context.Context, event Event) error {
	select {
	case <-aw.done:
		return ErrWriterClosed
	default:
	}

	result := make(chan error, 1)

	select {
	case aw.pending <- pendingStore{events: []Event{event}, result: result}:
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-ctx.Done():
		return ctx.Err()
	default:
		return aw.batch.StoreBatch(ctx, []Event{event})
	}
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Event, 0, aw.options.BatchSize)
	results := make([]chan error, 0, aw.options.BatchSize)

	timer := time.NewTicker(aw.options.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
		err := aw.batch.StoreBatch(ctx, batch)
		cancel()

		for _, result := range results {
			select {
			case result <- err:
			default:
			}
		}

		clear(batch)
		clear(results)
		batch = batch[:0]
		results = results[:0]
	}

	collect := func(p pendingStore) {
		batch = append(batch, p.events...)
		results = append(results, p.result)
	}

	for {
		select {
		case p := <-aw.pending:
			collect(p)
			if len(batch) >= aw.options.BatchSize {
				flush()
			}

		case <-timer.C:
			flush()

		case <-aw.done:
			// Drain whatever is buffered, then flush once and exit.
			for {
				select {
				case p := <-aw.pending:
					collect(p)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops the writer and flushes buffered events. The context bounds the
// wait; on timeout some events may remain unflushed. Producers must have
// stopped appending before Close is called.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	close(aw.done)

	flushed := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
