package workers

import (
	"churn-bot/contract"
	"churn-bot/domain"
	"context"
	"log/slog"
	"time"
)

// Envelope carries one user message and the channel its reply goes to.
type Envelope struct {
	Text  string
	Reply chan domain.Reply
}

func NewEnvelope(text string) Envelope {
	return Envelope{Text: text, Reply: make(chan domain.Reply, 1)}
}

// ReleaseFunc is asked whether an idle worker may exit. It must return false
// when a message is already waiting in the inbox.
type ReleaseFunc func(w *SessionWorker) bool

// SessionWorker owns the session of one user and handles its messages one at
// a time, in arrival order.
type SessionWorker struct {
	id          string
	inbox       chan Envelope
	dialogue    contract.IDialogue
	log         *slog.Logger
	idleTimeout time.Duration
	release     ReleaseFunc
	session     *domain.Session
}

func NewSessionWorker(id string, bufferSize int, dialogue contract.IDialogue, log *slog.Logger,
	idleTimeout time.Duration, release ReleaseFunc) *SessionWorker {
	return &SessionWorker{
		id:          id,
		inbox:       make(chan Envelope, bufferSize),
		dialogue:    dialogue,
		log:         log.With("session", id),
		idleTimeout: idleTimeout,
		release:     release,
	}
}

func (w *SessionWorker) ID() string {
	return w.id
}

// Offer queues the envelope without blocking.
func (w *SessionWorker) Offer(envelope Envelope) bool {
	select {
	case w.inbox <- envelope:
		return true
	default:
		return false
	}
}

func (w *SessionWorker) Pending() int {
	return len(w.inbox)
}

func (w *SessionWorker) Run(ctx context.Context) error {
	idle := time.NewTimer(w.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case envelope := <-w.inbox:
			w.handle(ctx, envelope)
			idle.Reset(w.idleTimeout)
		case <-idle.C:
			if w.release(w) {
				if w.session != nil {
					w.log.Debug("Session expired", "step", w.session.Step())
				}
				return nil
			}
			idle.Reset(w.idleTimeout)
		}
	}
}

// handle never leaves a session stuck: a panic answers with the failure
// reply and drops the session.
func (w *SessionWorker) handle(ctx context.Context, envelope Envelope) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Message handling panicked", "panic", r)
			reply := w.dialogue.Failure(w.session)
			w.session = nil
			envelope.Reply <- reply
		}
	}()
	next, reply := w.dialogue.Handle(ctx, w.id, w.session, envelope.Text)
	w.session = next
	envelope.Reply <- reply
}
