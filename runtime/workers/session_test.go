package workers

import (
	"churn-bot/domain"
	"churn-bot/mocks"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func await(t *testing.T, envelope Envelope) domain.Reply {
	t.Helper()
	select {
	case reply := <-envelope.Reply:
		return reply
	case <-time.After(time.Second):
		require.Fail(t, "no reply received")
		return domain.Reply{}
	}
}

func TestSessionWorker_KeepsSessionBetweenMessages(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	dialogue := mocks.NewMockIDialogue(ctrl)
	session := domain.NewSession("alice", domain.ChurnSchema(false), time.Now())

	// Given the first message opens a session and the second one sees it
	gomock.InOrder(
		dialogue.EXPECT().
			Handle(gomock.Any(), "alice", gomock.Nil(), "/predict").
			Return(session, domain.Reply{Text: "1. tenure?", Signal: domain.SignalContinue}),
		dialogue.EXPECT().
			Handle(gomock.Any(), "alice", session, "12").
			Return(session, domain.Reply{Text: "2. contract?", Signal: domain.SignalContinue}),
	)

	worker := NewSessionWorker("alice", 2, dialogue, slog.Default(), time.Minute, func(*SessionWorker) bool { return true })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	first, second := NewEnvelope("/predict"), NewEnvelope("12")
	req.True(worker.Offer(first))
	req.True(worker.Offer(second))

	req.Equal("1. tenure?", await(t, first).Text)
	req.Equal("2. contract?", await(t, second).Text)
}

func TestSessionWorker_Offer_FullInbox(t *testing.T) {
	req := require.New(t)
	worker := NewSessionWorker("alice", 1, nil, slog.Default(), time.Minute, nil)

	req.True(worker.Offer(NewEnvelope("a")))
	req.False(worker.Offer(NewEnvelope("b")))
	req.Equal(1, worker.Pending())
}

func TestSessionWorker_RecoversFromPanic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	dialogue := mocks.NewMockIDialogue(ctrl)
	session := domain.NewSession("alice", domain.ChurnSchema(false), time.Now())

	gomock.InOrder(
		dialogue.EXPECT().Handle(gomock.Any(), "alice", gomock.Nil(), "/predict").Return(session, domain.Reply{}),
		dialogue.EXPECT().Handle(gomock.Any(), "alice", session, "boom").
			DoAndReturn(func(context.Context, string, *domain.Session, string) (*domain.Session, domain.Reply) {
				panic("boom")
			}),
		dialogue.EXPECT().Failure(session).Return(domain.Reply{Text: "failure", Signal: domain.SignalFailed}),
		// The session was dropped after the panic
		dialogue.EXPECT().Handle(gomock.Any(), "alice", gomock.Nil(), "hello").Return(nil, domain.Reply{Signal: domain.SignalIdle}),
	)

	worker := NewSessionWorker("alice", 3, dialogue, slog.Default(), time.Minute, func(*SessionWorker) bool { return true })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	for _, text := range []string{"/predict", "boom", "hello"} {
		envelope := NewEnvelope(text)
		req.True(worker.Offer(envelope))
		reply := await(t, envelope)
		if text == "boom" {
			req.Equal(domain.SignalFailed, reply.Signal)
		}
	}
}

func TestSessionWorker_ExitsWhenReleased(t *testing.T) {
	req := require.New(t)

	// Given a release that refuses once
	var asked atomic.Int32
	release := func(*SessionWorker) bool {
		return asked.Add(1) > 1
	}
	worker := NewSessionWorker("alice", 1, nil, slog.Default(), 20*time.Millisecond, release)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	select {
	case err := <-done:
		req.NoError(err)
		req.Equal(int32(2), asked.Load())
	case <-time.After(time.Second):
		req.Fail("worker should exit once released")
	}
}

func TestSessionWorker_StopsOnCancel(t *testing.T) {
	req := require.New(t)
	worker := NewSessionWorker("alice", 1, nil, slog.Default(), time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		req.Fail("worker should stop on cancel")
	}
}
