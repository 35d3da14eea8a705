//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"churn-bot/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
	Wait()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IScorer turns a completed answer set into a prediction.
type IScorer interface {
	Score(ctx context.Context, sessionID string, answers domain.Answers) (domain.Prediction, error)
}

// IDialogue is the transition function of a session.
// A nil session means no collection is running for the user.
type IDialogue interface {
	Handle(ctx context.Context, sessionID string, current *domain.Session, text string) (*domain.Session, domain.Reply)
	Failure(current *domain.Session) domain.Reply
}

// IDispatcher is what transports talk to.
type IDispatcher interface {
	Dispatch(ctx context.Context, sessionID, text string) (domain.Reply, error)
	ActiveSessions() int
}
