package queue

import (
	"maps"
	"slices"
	"sync"
)

// QueueProcessor is a snapshot of one registered queue: its processor, the
// concurrency ceiling for in-flight jobs, and whether dispatch is paused.
type QueueProcessor struct {
	Queue       string
	Processor   Processor
	Concurrency int
	Paused      bool
}

// Registry maps queue names to processors. It is an explicit dependency of
// the worker rather than a package-level singleton, so independent queue
// engines can coexist in one process and in tests.
type Registry struct {
	mu    sync.RWMutex
	procs map[string]*registration
}

type registration struct {
	processor   Processor
	concurrency int
	paused      bool
}

// NewRegistry creates an empty processor registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]*registration)}
}

// Register binds a processor to a queue name. Registering an already bound
// queue replaces the processor and concurrency but preserves the paused flag,
// so re-registration never silently resumes a paused queue.
func (r *Registry) Register(queue string, p Processor, opts ...RegisterOption) error {
	if queue == "" {
		return ErrQueueNameEmpty
	}
	if p == nil {
		return ErrProcessorNil
	}

	options := &registerOptions{concurrency: 1}
	for _, opt := range opts {
		opt(options)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reg, exists := r.procs[queue]
	if !exists {
		reg = &registration{}
		r.procs[queue] = reg
	}
	reg.processor = p
	reg.concurrency = options.concurrency
	return nil
}

// Pause stops new claims for the queue. In-flight jobs are not interrupted.
func (r *Registry) Pause(queue string) error {
	return r.setPaused(queue, true)
}

// Resume re-enables claims for a paused queue.
func (r *Registry) Resume(queue string) error {
	return r.setPaused(queue, false)
}

func (r *Registry) setPaused(queue string, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, exists := r.procs[queue]
	if !exists {
		return ErrQueueNotRegistered
	}
	reg.paused = paused
	return nil
}

// Paused reports whether dispatch for the queue is currently paused.
// Unregistered queues report false.
func (r *Registry) Paused(queue string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.procs[queue]
	return exists && reg.paused
}

// Registered reports whether the queue has a bound processor.
func (r *Registry) Registered(queue string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.procs[queue]
	return exists
}

// Queues returns the registered queue names in stable order.
func (r *Registry) Queues() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.procs))
}

// Len returns the number of registered queues.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.procs)
}

// Snapshot returns a stable-ordered copy of all registrations for one poll
// cycle, so the worker never holds the registry lock while claiming.
func (r *Registry) Snapshot() []QueueProcessor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]QueueProcessor, 0, len(r.procs))
	for _, queue := range slices.Sorted(maps.Keys(r.procs)) {
		reg := r.procs[queue]
		out = append(out, QueueProcessor{
			Queue:       queue,
			Processor:   reg.processor,
			Concurrency: reg.concurrency,
			Paused:      reg.paused,
		})
	}
	return out
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	concurrency int
}

// WithConcurrency sets how many jobs from this queue may run at once.
// Values below 1 are ignored.
func WithConcurrency(n int) RegisterOption {
	return func(o *registerOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
