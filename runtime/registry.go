package runtime

import (
	"churn-bot/runtime/workers"
	"sync"
)

// Registry maps a session id to the worker that owns it.
// Delivery and release share one lock so that a message is never queued to
// a worker that already decided to exit.
type Registry struct {
	mu      sync.Mutex
	workers map[string]*workers.SessionWorker
}

func NewRegistry() *Registry {
	return &Registry{workers: make(map[string]*workers.SessionWorker)}
}

// Deliver queues the envelope on the session's worker, creating the worker
// on first use. delivered is false when the inbox is full.
func (r *Registry) Deliver(sessionID string, envelope workers.Envelope,
	create func() *workers.SessionWorker) (worker *workers.SessionWorker, created, delivered bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	worker, ok := r.workers[sessionID]
	if !ok {
		worker = create()
		r.workers[sessionID] = worker
		created = true
	}
	return worker, created, worker.Offer(envelope)
}

// Release removes an idle worker. It refuses while messages are pending or
// when the id already points to another worker.
func (r *Registry) Release(worker *workers.SessionWorker) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if worker.Pending() > 0 {
		return false
	}
	if current, ok := r.workers[worker.ID()]; ok && current == worker {
		delete(r.workers, worker.ID())
	}
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}
