package services

import (
	"churn-bot/contract"
	"churn-bot/domain"
	"churn-bot/locale"
	"churn-bot/observability"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"
)

// DialogueService is the single transition function of the collection
// sequence. The session is owned by the caller's worker; Handle returns the
// session to keep, or nil once it is over.
type DialogueService struct {
	log     *slog.Logger
	schema  domain.Schema
	scorer  contract.IScorer
	catalog locale.Catalog
	stats   *observability.SessionStats
	now     func() time.Time
}

func NewDialogueService(log *slog.Logger, schema domain.Schema, scorer contract.IScorer,
	catalog locale.Catalog, stats *observability.SessionStats) *DialogueService {
	return &DialogueService{
		log:     log,
		schema:  schema,
		scorer:  scorer,
		catalog: catalog,
		stats:   stats,
		now:     time.Now,
	}
}

func (d *DialogueService) Handle(ctx context.Context, sessionID string, current *domain.Session, text string) (*domain.Session, domain.Reply) {
	switch domain.ParseTrigger(text) {
	case domain.TriggerStart:
		return current, domain.Reply{Text: d.catalog.Texts().Greeting, Signal: idleOr(current)}
	case domain.TriggerBegin:
		if current != nil {
			d.log.Debug("Restarting session", "session", sessionID, "step", current.Step())
		}
		session := domain.NewSession(sessionID, d.schema, d.now())
		d.stats.IncrStarted()
		return session, d.prompt(session, "")
	case domain.TriggerCancel:
		if current == nil {
			return nil, domain.Reply{Text: d.catalog.Texts().NothingToCancel, Signal: domain.SignalIdle}
		}
		current.Cancel()
		d.stats.IncrCancelled()
		d.log.Debug("Session cancelled", "session", sessionID)
		return nil, domain.Reply{Text: d.catalog.Texts().Cancelled, Signal: domain.SignalCancelled}
	case domain.TriggerUnknownCommand:
		if current == nil {
			return nil, domain.Reply{Text: d.catalog.Texts().Hint, Signal: domain.SignalIdle}
		}
		return current, d.prompt(current, "")
	}

	if current == nil {
		return nil, domain.Reply{Text: d.catalog.Texts().Hint, Signal: domain.SignalIdle}
	}
	return d.answer(ctx, sessionID, current, text)
}

// Failure is the reply for a session that could not be completed.
// Details stay in the logs.
func (d *DialogueService) Failure(current *domain.Session) domain.Reply {
	if current != nil {
		current.Cancel()
	}
	d.stats.IncrFailed()
	return domain.Reply{Text: d.catalog.Texts().Failure, Signal: domain.SignalFailed}
}

func (d *DialogueService) answer(ctx context.Context, sessionID string, current *domain.Session, text string) (*domain.Session, domain.Reply) {
	field, err := current.Submit(text)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			d.log.Debug("Invalid answer", "session", sessionID, "field", field.Name, "reason", validationErr.Reason)
			return current, d.prompt(current, d.catalog.Invalid(validationErr.Reason))
		}
		d.log.Error("Unexpected submit failure", "session", sessionID, "error", err)
		return nil, d.Failure(current)
	}

	if current.Status() != domain.StatusCompleted {
		return current, d.prompt(current, "")
	}

	prediction, err := d.scorer.Score(ctx, sessionID, current.Answers())
	if err != nil {
		d.log.Error("Scoring failed", "session", sessionID, "error", err)
		return nil, d.Failure(current)
	}
	d.stats.IncrCompleted()
	d.log.Info("Session completed",
		"session", sessionID,
		"label", prediction.Label,
		"duration", d.now().Sub(current.StartedAt))
	return nil, domain.Reply{Text: d.catalog.Result(prediction), Signal: domain.SignalCompleted}
}

// prompt asks for the current field, optionally after an error line.
func (d *DialogueService) prompt(session *domain.Session, errorLine string) domain.Reply {
	field, _ := session.Current()
	text := d.catalog.Prompt(session.Step(), field)
	if errorLine != "" {
		text = errorLine + "\n" + text
	}
	return domain.Reply{
		Text:    text,
		Choices: slices.Clone(field.Choices),
		Signal:  domain.SignalContinue,
	}
}

func idleOr(current *domain.Session) domain.Signal {
	if current == nil {
		return domain.SignalIdle
	}
	return domain.SignalContinue
}
