// Package runtime routes user messages to their session workers.
// It orchestrates the system without containing dialogue or model rules.
package runtime

import (
	"churn-bot/contract"
	"churn-bot/domain"
	"churn-bot/errors"
	"churn-bot/observability"
	"churn-bot/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Orchestrator struct {
	mu            sync.Mutex
	log           *slog.Logger
	supervisor    contract.ISupervisor
	registry      *Registry
	dialogue      contract.IDialogue
	stats         *observability.SessionStats
	bufferSize    int
	idleTimeout   time.Duration
	statsInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
	stopped       bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	dialogue contract.IDialogue, stats *observability.SessionStats,
	bufferSize int, idleTimeout, statsInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:           log,
		supervisor:    supervisor,
		registry:      registry,
		dialogue:      dialogue,
		stats:         stats,
		bufferSize:    bufferSize,
		idleTimeout:   idleTimeout,
		statsInterval: statsInterval,
	}
}

// Start launches the stats worker. Session workers are started on demand
// by Dispatch.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx != nil {
		return fmt.Errorf("orchestrator already started")
	}
	o.ctx, o.cancel = context.WithCancel(ctx)

	o.log.Info("Starting orchestrator")
	o.supervisor.Start(o.ctx, workers.NewStatsWorker(o.log, o.stats, o.registry.Len, o.statsInterval))
	return nil
}

// Dispatch hands the message to the session's worker and waits for the reply.
// Messages of one session are processed one at a time in arrival order.
func (o *Orchestrator) Dispatch(ctx context.Context, sessionID, text string) (domain.Reply, error) {
	envelope := workers.NewEnvelope(text)

	o.mu.Lock()
	if o.ctx == nil || o.stopped || o.ctx.Err() != nil {
		o.mu.Unlock()
		return domain.Reply{}, errors.ErrOrchestratorStopped
	}
	runCtx := o.ctx
	worker, created, delivered := o.registry.Deliver(sessionID, envelope, func() *workers.SessionWorker {
		return workers.NewSessionWorker(sessionID, o.bufferSize, o.dialogue, o.log, o.idleTimeout, o.registry.Release)
	})
	if created {
		o.log.Debug("Session worker created", "session", sessionID)
		o.supervisor.Start(runCtx, worker)
	}
	o.mu.Unlock()

	if !delivered {
		o.log.Warn("Session inbox full, dropping message", "session", sessionID)
		return domain.Reply{}, fmt.Errorf("session %s: %w", sessionID, errors.ErrSessionBusy)
	}

	select {
	case reply := <-envelope.Reply:
		return reply, nil
	case <-ctx.Done():
		return domain.Reply{}, ctx.Err()
	case <-runCtx.Done():
		return domain.Reply{}, errors.ErrOrchestratorStopped
	}
}

func (o *Orchestrator) ActiveSessions() int {
	return o.registry.Len()
}

func (o *Orchestrator) Snapshot() observability.Snapshot {
	return o.stats.Snapshot(o.registry.Len())
}

// Stop refuses new messages, cancels every worker and waits for them.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.mu.Lock()
	o.stopped = true
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Unlock()

	o.supervisor.Wait()
	o.log.Debug("All session workers stopped")
}
